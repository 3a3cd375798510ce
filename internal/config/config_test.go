package config_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finnychat/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.DB.Driver)
	assert.True(t, cfg.Agent.AmountCeiling.Equal(decimal.NewFromInt(1000000)))
	assert.True(t, cfg.Agent.PatternsEnabled)
	assert.Equal(t, "Misc", cfg.Agent.ExpenseFallback)
	assert.Equal(t, "heuristic", cfg.LLM.Classifier)
	assert.Equal(t, "postgres://postgres:@localhost:5432/finny?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_SQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/ledger.db")
	t.Setenv("TELEGRAM_USERS", "42:1,43:2")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "file:/tmp/ledger.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", cfg.ConnectionString())
	assert.Equal(t, map[int64]int64{42: 1, 43: 2}, cfg.Telegram.Users)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "UnknownDriver", key: "DB_DRIVER", val: "mysql"},
		{name: "UnknownClassifier", key: "INTENT_CLASSIFIER", val: "oracle"},
		{name: "NonPositiveCeiling", key: "AMOUNT_CEILING", val: "0"},
		{name: "NegativeMemoryLimit", key: "MEMORY_LIMIT", val: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
