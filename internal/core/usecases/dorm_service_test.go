package usecases_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/muhunXD/dormfinder/internal/core/domain"
	"github.com/muhunXD/dormfinder/internal/core/ports"
	"github.com/muhunXD/dormfinder/internal/core/usecases"
)

type mockDormRepo struct {
	upsertFn      func(ctx context.Context, dorm *domain.Place) error
	upsertBatchFn func(ctx context.Context, dorms []domain.Place) error
	getByIDFn     func(ctx context.Context, id string) (*domain.Place, error)
	listFn        func(ctx context.Context, q ports.PlaceQuery) ([]domain.Place, error)
	deleteFn      func(ctx context.Context, id string) error
}

func (m *mockDormRepo) Upsert(ctx context.Context, dorm *domain.Place) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, dorm)
	}
	return nil
}

func (m *mockDormRepo) UpsertBatch(ctx context.Context, dorms []domain.Place) error {
	if m.upsertBatchFn != nil {
		return m.upsertBatchFn(ctx, dorms)
	}
	return nil
}

func (m *mockDormRepo) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &domain.Place{ID: id, Name: "stub", Kind: domain.KindDorm}, nil
}

func (m *mockDormRepo) List(ctx context.Context, q ports.PlaceQuery) ([]domain.Place, error) {
	if m.listFn != nil {
		return m.listFn(ctx, q)
	}
	return nil, nil
}

func (m *mockDormRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockCache struct {
	getFn    func(ctx context.Context, key string) ([]byte, error)
	setFn    func(ctx context.Context, key string, value []byte, ttlSeconds int) error
	deleteFn func(ctx context.Context, key string) error
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, errors.New("cache miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttlSeconds)
	}
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

type mockPublisher struct {
	dormFn      func(ctx context.Context, dorm *domain.Place) error
	poiFn       func(ctx context.Context, poi *domain.Place) error
	broadcastFn func(ctx context.Context, payload []byte) error
}

func (m *mockPublisher) PublishDormUpdated(ctx context.Context, dorm *domain.Place) error {
	if m.dormFn != nil {
		return m.dormFn(ctx, dorm)
	}
	return nil
}

func (m *mockPublisher) PublishPOIUpdated(ctx context.Context, poi *domain.Place) error {
	if m.poiFn != nil {
		return m.poiFn(ctx, poi)
	}
	return nil
}

func (m *mockPublisher) PublishBroadcast(ctx context.Context, payload []byte) error {
	if m.broadcastFn != nil {
		return m.broadcastFn(ctx, payload)
	}
	return nil
}

func TestDormList_ClampsLimit(t *testing.T) {
	var gotLimit int
	repo := &mockDormRepo{listFn: func(ctx context.Context, q ports.PlaceQuery) ([]domain.Place, error) {
		gotLimit = q.Limit
		return nil, nil
	}}
	svc := usecases.NewDormService(repo, nil, nil)

	if _, err := svc.List(context.Background(), ports.PlaceQuery{Limit: 5000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 1000 {
		t.Errorf("expected limit clamped to 1000, got %d", gotLimit)
	}
	if _, err := svc.List(context.Background(), ports.PlaceQuery{Limit: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 1000 {
		t.Errorf("expected default limit 1000, got %d", gotLimit)
	}
}

func TestDormList_CacheHitSkipsRepo(t *testing.T) {
	cached := []domain.Place{{ID: "d1", Name: "Cached Dorm", Kind: domain.KindDorm}}
	data, _ := json.Marshal(cached)
	cache := &mockCache{getFn: func(ctx context.Context, key string) ([]byte, error) {
		return data, nil
	}}
	repo := &mockDormRepo{listFn: func(ctx context.Context, q ports.PlaceQuery) ([]domain.Place, error) {
		t.Fatal("repo must not be hit on a cache hit")
		return nil, nil
	}}
	svc := usecases.NewDormService(repo, cache, nil)

	got, err := svc.List(context.Background(), ports.PlaceQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "d1" {
		t.Errorf("expected cached dorms, got %v", got)
	}
}

func TestDormList_CacheMissPopulates(t *testing.T) {
	var setKey string
	var setTTL int
	cache := &mockCache{setFn: func(ctx context.Context, key string, value []byte, ttlSeconds int) error {
		setKey = key
		setTTL = ttlSeconds
		return nil
	}}
	repo := &mockDormRepo{listFn: func(ctx context.Context, q ports.PlaceQuery) ([]domain.Place, error) {
		return []domain.Place{{ID: "d1", Name: "Fresh Dorm", Kind: domain.KindDorm}}, nil
	}}
	svc := usecases.NewDormService(repo, cache, nil)

	if _, err := svc.List(context.Background(), ports.PlaceQuery{Text: "baan"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if setKey == "" || setTTL != 60 {
		t.Errorf("expected list cache write with 60s TTL, got key %q ttl %d", setKey, setTTL)
	}
}

func TestDormSave_ValidatesAndPublishes(t *testing.T) {
	var upserted *domain.Place
	var published *domain.Place
	var cacheDeleted string
	repo := &mockDormRepo{upsertFn: func(ctx context.Context, dorm *domain.Place) error {
		upserted = dorm
		return nil
	}}
	cache := &mockCache{deleteFn: func(ctx context.Context, key string) error {
		cacheDeleted = key
		return nil
	}}
	events := &mockPublisher{dormFn: func(ctx context.Context, dorm *domain.Place) error {
		published = dorm
		return nil
	}}
	svc := usecases.NewDormService(repo, cache, events)

	if err := svc.Save(context.Background(), &domain.Place{ID: "d1"}); err == nil {
		t.Error("expected validation error for empty name")
	}

	dorm := &domain.Place{ID: "d1", Name: "Baan Suanthon"}
	if err := svc.Save(context.Background(), dorm); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upserted == nil || upserted.Kind != domain.KindDorm || upserted.Category != "dorm" {
		t.Errorf("kind/category defaults not applied: %+v", upserted)
	}
	if published == nil || published.ID != "d1" {
		t.Errorf("update event not published: %+v", published)
	}
	if cacheDeleted != "dorms:id:d1" {
		t.Errorf("id cache not invalidated, got %q", cacheDeleted)
	}
}

func TestDormSave_UpsertFailureSkipsSideEffects(t *testing.T) {
	repo := &mockDormRepo{upsertFn: func(ctx context.Context, dorm *domain.Place) error {
		return errors.New("db down")
	}}
	events := &mockPublisher{dormFn: func(ctx context.Context, dorm *domain.Place) error {
		t.Fatal("no event on failed upsert")
		return nil
	}}
	svc := usecases.NewDormService(repo, nil, events)

	if err := svc.Save(context.Background(), &domain.Place{ID: "d1", Name: "Baan"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestDormDelete_PublishesDeletedRecord(t *testing.T) {
	var published *domain.Place
	repo := &mockDormRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Place, error) {
			return &domain.Place{ID: id, Name: "Baan Suanthon", Kind: domain.KindDorm}, nil
		},
	}
	events := &mockPublisher{dormFn: func(ctx context.Context, dorm *domain.Place) error {
		published = dorm
		return nil
	}}
	svc := usecases.NewDormService(repo, nil, events)

	if err := svc.Delete(context.Background(), "d1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if published == nil || published.ID != "d1" {
		t.Errorf("expected the deleted dorm in the event, got %+v", published)
	}
}

func TestDormDelete_MissingRecord(t *testing.T) {
	repo := &mockDormRepo{getByIDFn: func(ctx context.Context, id string) (*domain.Place, error) {
		return nil, errors.New("no rows")
	}}
	svc := usecases.NewDormService(repo, nil, nil)
	if err := svc.Delete(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for an unknown id")
	}
}

func TestDormSaveBatch_EmptyIsNoop(t *testing.T) {
	repo := &mockDormRepo{upsertBatchFn: func(ctx context.Context, dorms []domain.Place) error {
		t.Fatal("empty batch must not reach the repo")
		return nil
	}}
	svc := usecases.NewDormService(repo, nil, nil)
	if err := svc.SaveBatch(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
