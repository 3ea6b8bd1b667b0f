package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Routing   RoutingConfig   `mapstructure:"routing"`
	Campus    CampusConfig    `mapstructure:"campus"`
	Session   SessionConfig   `mapstructure:"session"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

// RoutingConfig points at an OSRM-compatible routing service.
type RoutingConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	SnapRadius     float64 `mapstructure:"snap_radius"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// CampusConfig anchors distances and routes to the campus geometry.
type CampusConfig struct {
	AnchorLat float64 `mapstructure:"anchor_lat"`
	AnchorLon float64 `mapstructure:"anchor_lon"`
	GateLat   float64 `mapstructure:"gate_lat"`
	GateLon   float64 `mapstructure:"gate_lon"`
}

// SessionConfig carries the client-session tunables.
type SessionConfig struct {
	PriceTolerance    float64 `mapstructure:"price_tolerance"`
	DistanceBand      float64 `mapstructure:"distance_band"`
	MaxDistance       float64 `mapstructure:"max_distance"`
	RecommendationCap int     `mapstructure:"recommendation_cap"`
	MatchCap          int     `mapstructure:"match_cap"`
	DebounceMS        int     `mapstructure:"debounce_ms"`
	FetchLimit        int     `mapstructure:"fetch_limit"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "dormfinder")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "dormfinder")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("routing.base_url", "https://routing.openstreetmap.de/routed-foot")
	v.SetDefault("routing.snap_radius", 120.0)
	v.SetDefault("routing.timeout_seconds", 10)
	// Kasetsart University anchor and the Ngamwongwan back gate
	v.SetDefault("campus.anchor_lat", 13.819918)
	v.SetDefault("campus.anchor_lon", 100.514497)
	v.SetDefault("campus.gate_lat", 13.82185)
	v.SetDefault("campus.gate_lon", 100.51433)
	v.SetDefault("session.price_tolerance", 500.0)
	v.SetDefault("session.distance_band", 100.0)
	v.SetDefault("session.max_distance", 4000.0)
	v.SetDefault("session.recommendation_cap", 4)
	v.SetDefault("session.match_cap", 8)
	v.SetDefault("session.debounce_ms", 250)
	v.SetDefault("session.fetch_limit", 1000)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: DORMFINDER_DATABASE_HOST → database.host
	v.SetEnvPrefix("DORMFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Routing.BaseURL == "" {
		errs = append(errs, "routing.base_url is required")
	}
	if c.Routing.SnapRadius <= 0 {
		errs = append(errs, "routing.snap_radius must be positive")
	}
	if c.Session.PriceTolerance < 0 {
		errs = append(errs, "session.price_tolerance must not be negative")
	}
	if c.Session.DistanceBand <= 0 {
		errs = append(errs, "session.distance_band must be positive")
	}
	if c.Session.MaxDistance <= 0 {
		errs = append(errs, "session.max_distance must be positive")
	}
	if c.Session.RecommendationCap <= 0 || c.Session.MatchCap <= 0 {
		errs = append(errs, "session suggestion caps must be positive")
	}
	if c.Session.DebounceMS <= 0 {
		errs = append(errs, "session.debounce_ms must be positive")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
