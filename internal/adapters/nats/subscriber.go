package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/muhunXD/dormfinder/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream. The API
// process subscribes so live sessions can refetch when the place data
// changes underneath them.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

func (s *Subscriber) SubscribeDormUpdates(ctx context.Context, handler func(ctx context.Context, dorm *domain.Place) error) error {
	return s.subscribePlace(ctx, SubjectDormUpdated, handler)
}

func (s *Subscriber) SubscribePOIUpdates(ctx context.Context, handler func(ctx context.Context, poi *domain.Place) error) error {
	return s.subscribePlace(ctx, SubjectPOIUpdated, handler)
}

func (s *Subscriber) subscribePlace(ctx context.Context, subject string, handler func(ctx context.Context, place *domain.Place) error) error {
	sub, err := s.js.Subscribe(subject, func(msg *nats.Msg) {
		var place domain.Place
		if err := json.Unmarshal(msg.Data, &place); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &place); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and closes the connection.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.conn.Close()
}
