package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Finny"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Driver   string `envconfig:"DB_DRIVER" default:"pgx"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"finny"`
		// Path is only read by the sqlite driver.
		Path string `envconfig:"DB_PATH" default:"finance.db"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET"`
	}

	LLM struct {
		APIKey  string        `envconfig:"GEMINI_API_KEY"`
		Model   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
		Timeout time.Duration `envconfig:"LLM_TIMEOUT" default:"15s"`
		// Classifier selects the intent classifier: "heuristic" or "llm".
		Classifier string `envconfig:"INTENT_CLASSIFIER" default:"heuristic"`
	}

	Agent struct {
		AmountCeiling   decimal.Decimal `envconfig:"AMOUNT_CEILING" default:"1000000"`
		PatternsEnabled bool            `envconfig:"PATTERNS_ENABLED" default:"true"`
		ExpenseFallback string          `envconfig:"EXPENSE_FALLBACK_CATEGORY" default:"Misc"`
		IncomeFallback  string          `envconfig:"INCOME_FALLBACK_CATEGORY" default:"Income"`
		MemoryLimit     int             `envconfig:"MEMORY_LIMIT" default:"0"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Telegram struct {
		Token string `envconfig:"TELEGRAM_TOKEN"`
		// Users maps telegram user ids to ledger owner ids, e.g. "1234:1,5678:2".
		Users map[int64]int64 `envconfig:"TELEGRAM_USERS"`
	}
}

func (c *Config) ConnectionString() string {
	if c.DB.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", c.DB.Path)
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	switch c.LLM.Classifier {
	case "heuristic", "llm":
	default:
		return fmt.Errorf("unsupported INTENT_CLASSIFIER %q", c.LLM.Classifier)
	}

	if !c.Agent.AmountCeiling.IsPositive() {
		return fmt.Errorf("AMOUNT_CEILING must be positive, got %s", c.Agent.AmountCeiling)
	}

	if c.Agent.MemoryLimit < 0 {
		return fmt.Errorf("MEMORY_LIMIT must not be negative, got %d", c.Agent.MemoryLimit)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
