package app_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finnychat/internal/app"
	"github.com/MrJamesThe3rd/finnychat/internal/config"
	"github.com/MrJamesThe3rd/finnychat/internal/llm"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.DB.Driver = config.DriverSQLite
	cfg.DB.Path = filepath.Join(t.TempDir(), "finance.db")
	cfg.LLM.Classifier = "heuristic"
	cfg.LLM.Timeout = time.Second
	cfg.Agent.AmountCeiling = decimal.NewFromInt(1000000)
	cfg.Agent.PatternsEnabled = true

	return cfg
}

func TestNew_PatternsOnly(t *testing.T) {
	ctx := context.Background()

	a, err := app.New(ctx, sqliteConfig(t), app.WithClock(func() time.Time {
		return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	require.NoError(t, a.Seed(ctx, 7))

	resp := a.Agent.Handle(ctx, 7, "add lunch $12 today")
	require.True(t, resp.Success, resp.Reply)

	resp = a.Agent.Handle(ctx, 7, "show transactions from today")
	require.True(t, resp.Success)
	assert.Len(t, resp.Data, 1)
}

func TestNew_GenerativeFallback(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	completer := llm.NewMockCompleter(ctrl)
	completer.EXPECT().
		Complete(gomock.Any(), gomock.Any(), "how many categories do I have").
		Return(`{"statement": "SELECT COUNT(*) AS total FROM categories WHERE owner_id = @user_id", "params": {}}`, nil)

	cfg := sqliteConfig(t)
	cfg.LLM.APIKey = "unused"

	a, err := app.New(ctx, cfg, app.WithCompleter(completer))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	require.NoError(t, a.Seed(ctx, 1))

	resp := a.Agent.Handle(ctx, 1, "how many categories do I have")
	require.True(t, resp.Success, resp.Reply)
	require.Len(t, resp.Data, 1)
}

func TestNew_LLMClassifierNeedsKey(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.LLM.Classifier = "llm"

	_, err := app.New(context.Background(), cfg)
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}
