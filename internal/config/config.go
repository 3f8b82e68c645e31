package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int    `env:"SERVER_PORT" env-default:"8080"`
	LogLevel   string `env:"LOG_LEVEL"   env-default:"info"`

	DBDriver    string `env:"DB_DRIVER"     env-default:"postgres"`
	DBSQLDriver string `env:"DB_SQL_DRIVER" env-default:"pgx"`
	DatabaseURL string `env:"DATABASE_URL"  env-required:"true"`

	JWTAccessSecret  string        `env:"JWT_SECRET"         env-required:"true"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET" env-required:"true"`
	AccessTTL        time.Duration `env:"ACCESS_TTL"         env-default:"15m"`
	RefreshTTL       time.Duration `env:"REFRESH_TTL"        env-default:"168h"`

	EventsBackend string   `env:"EVENTS_BACKEND" env-default:"none"`
	KafkaBrokers  []string `env:"KAFKA_BROKERS"  env-separator:","`
	AMQPURL       string   `env:"AMQP_URL"`
	EventsQueue   int      `env:"EVENTS_QUEUE"   env-default:"1024"`

	ESURL      string `env:"ES_URL"`
	ESUser     string `env:"ES_USER"`
	ESPassword string `env:"ES_PASSWORD"`
	ESIndex    string `env:"ES_INDEX" env-default:"products"`

	// requests per second per client on /register, /login and /refresh; 0 disables it
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" env-default:"5"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalizes enum-like settings and rejects combinations that cannot start.
func (c *Config) Validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.DBSQLDriver = strings.ToLower(strings.TrimSpace(c.DBSQLDriver))
	c.EventsBackend = strings.ToLower(strings.TrimSpace(c.EventsBackend))

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
	switch c.DBSQLDriver {
	case "pgx", "pq":
	default:
		return fmt.Errorf("DB_SQL_DRIVER must be pgx or pq, got %q", c.DBSQLDriver)
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("DATABASE_URL is empty")
	}
	if c.JWTAccessSecret == "" {
		return errors.New("JWT_SECRET is empty")
	}
	if c.JWTRefreshSecret == "" {
		return errors.New("JWT_REFRESH_SECRET is empty")
	}
	if c.JWTRefreshSecret == c.JWTAccessSecret {
		return errors.New("JWT_REFRESH_SECRET must differ from JWT_SECRET")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("ACCESS_TTL and REFRESH_TTL must be positive")
	}

	switch c.EventsBackend {
	case "none", "":
		c.EventsBackend = "none"
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return errors.New("KAFKA_BROKERS is required for EVENTS_BACKEND=kafka")
		}
	case "amqp":
		if c.AMQPURL == "" {
			return errors.New("AMQP_URL is required for EVENTS_BACKEND=amqp")
		}
	default:
		return fmt.Errorf("EVENTS_BACKEND must be none, kafka or amqp, got %q", c.EventsBackend)
	}

	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
