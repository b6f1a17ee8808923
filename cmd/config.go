package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"
	"time"

	"deliveryorders/internal/core/domain/model/kernel"
	"deliveryorders/internal/core/domain/services"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	DB        DBConfig        `mapstructure:"db"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
	Log       LogConfig       `mapstructure:"log"`
}

type HTTPConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

// PricingConfig describes the warehouse and the tariff. Tiers are written
// as "maxDistanceMeters:price" pairs separated by commas.
type PricingConfig struct {
	OriginLatitude  string `mapstructure:"origin_latitude"`
	OriginLongitude string `mapstructure:"origin_longitude"`
	Tiers           string `mapstructure:"tiers"`
}

func (p PricingConfig) Origin() (kernel.GeoPoint, error) {
	return kernel.ParseGeoPoint(p.OriginLatitude, p.OriginLongitude)
}

func (p PricingConfig) PricingTiers() ([]services.PricingTier, error) {
	var tiers []services.PricingTier
	for _, pair := range strings.Split(p.Tiers, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		distance, price, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("pricing tier %q: want maxDistanceMeters:price", pair)
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(distance), 64)
		if err != nil {
			return nil, fmt.Errorf("pricing tier %q: distance: %w", pair, err)
		}
		pr, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
		if err != nil {
			return nil, fmt.Errorf("pricing tier %q: price: %w", pair, err)
		}
		tiers = append(tiers, services.PricingTier{MaxDistanceMeters: d, Price: pr})
	}
	return tiers, nil
}

type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ValkeyConfig enables the shared rate limit store when Addr is set.
type ValkeyConfig struct {
	Addr      string `mapstructure:"addr"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// NATSConfig enables order event publishing when URL is set.
type NATSConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type JobsConfig struct {
	OrdersGaugeSchedule string `mapstructure:"orders_gauge_schedule"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads .env (if present), config.yaml (if present) and
// DELIVERY_* environment variables, in increasing priority.
//
// DELIVERY_DB_HOST sets db.host, DELIVERY_RATE_LIMIT_REQUESTS sets
// rate_limit.requests and so on.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	// Defaults
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.shutdown_timeout", 15*time.Second)
	v.SetDefault("http.allowed_origins", []string{})
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "delivery")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "delivery")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("pricing.origin_latitude", "55.77868792")
	v.SetDefault("pricing.origin_longitude", "37.58800507")
	v.SetDefault("pricing.tiers", "10000:100,20000:200,30000:300")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 10)
	v.SetDefault("rate_limit.window", time.Minute)
	v.SetDefault("valkey.addr", "")
	v.SetDefault("valkey.key_prefix", "delivery:ratelimit")
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", "delivery.orders")
	v.SetDefault("jobs.orders_gauge_schedule", "*/15 * * * * *")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("DELIVERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c Config) Validate() error {
	var problems []string

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		problems = append(problems, fmt.Sprintf("http.port must be 1-65535, got %d", c.HTTP.Port))
	}
	if c.HTTP.ReadTimeout <= 0 || c.HTTP.WriteTimeout <= 0 {
		problems = append(problems, "http.read_timeout and http.write_timeout must be positive")
	}
	if c.DB.Host == "" {
		problems = append(problems, "db.host is required")
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		problems = append(problems, fmt.Sprintf("db.port must be 1-65535, got %d", c.DB.Port))
	}
	if c.DB.User == "" {
		problems = append(problems, "db.user is required")
	}
	if c.DB.Name == "" {
		problems = append(problems, "db.name is required")
	}
	if _, err := c.Pricing.Origin(); err != nil {
		problems = append(problems, fmt.Sprintf("pricing origin: %v", err))
	}
	if tiers, err := c.Pricing.PricingTiers(); err != nil {
		problems = append(problems, err.Error())
	} else if len(tiers) == 0 {
		problems = append(problems, "pricing.tiers must contain at least one tier")
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Requests <= 0 {
			problems = append(problems, fmt.Sprintf("rate_limit.requests must be positive, got %d", c.RateLimit.Requests))
		}
		if c.RateLimit.Window < time.Second {
			problems = append(problems, fmt.Sprintf("rate_limit.window must be at least 1s, got %s", c.RateLimit.Window))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
