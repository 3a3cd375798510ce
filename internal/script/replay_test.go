package script_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finnychat/internal/agent"
	"github.com/MrJamesThe3rd/finnychat/internal/database/databasetest"
	"github.com/MrJamesThe3rd/finnychat/internal/executor"
	"github.com/MrJamesThe3rd/finnychat/internal/intent"
	"github.com/MrJamesThe3rd/finnychat/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/finnychat/internal/ledger/store"
	"github.com/MrJamesThe3rd/finnychat/internal/memory/inmemory"
	"github.com/MrJamesThe3rd/finnychat/internal/script"
	"github.com/MrJamesThe3rd/finnychat/internal/statement"
	"github.com/MrJamesThe3rd/finnychat/internal/synth"
)

func TestReplay(t *testing.T) {
	db := databasetest.NewSQLite(t, 1)
	pattern := synth.NewPattern(synth.PatternConfig{
		AmountCeiling: decimal.NewFromInt(1000000),
		Now:           func() time.Time { return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) },
	})

	a := agent.New(
		intent.Heuristic{},
		ledger.NewService(ledgerStore.New(db, statement.DialectSQLite)),
		synth.New(nil, pattern),
		executor.New(db, statement.DialectSQLite, nil),
		inmemory.NewStore(),
		nil,
	)

	cmds := []script.Command{
		{Line: 1, Text: "add groceries at Safeway $50 today"},
		{Line: 3, Text: "tell me a joke"},
	}

	var out bytes.Buffer

	sum, err := script.Replay(context.Background(), a, 1, cmds, &out)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, []script.Command{cmds[1]}, sum.Failed)
	assert.Contains(t, out.String(), "[1] > add groceries at Safeway $50 today\nI've added the transaction")
	assert.Contains(t, out.String(), "[3] > tell me a joke\n")
}

func TestReplay_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := script.Replay(ctx, nil, 1, []script.Command{{Line: 1, Text: "x"}}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sum.Total)
}
