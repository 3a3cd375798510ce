package agent_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finnychat/internal/agent"
	"github.com/MrJamesThe3rd/finnychat/internal/database/databasetest"
	"github.com/MrJamesThe3rd/finnychat/internal/executor"
	"github.com/MrJamesThe3rd/finnychat/internal/intent"
	"github.com/MrJamesThe3rd/finnychat/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/finnychat/internal/ledger/store"
	"github.com/MrJamesThe3rd/finnychat/internal/llm"
	"github.com/MrJamesThe3rd/finnychat/internal/memory"
	"github.com/MrJamesThe3rd/finnychat/internal/memory/inmemory"
	"github.com/MrJamesThe3rd/finnychat/internal/reply"
	"github.com/MrJamesThe3rd/finnychat/internal/statement"
	"github.com/MrJamesThe3rd/finnychat/internal/synth"
)

var today = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newPipeline(t *testing.T, strategies ...synth.Strategy) (*agent.Agent, *inmemory.Store) {
	t.Helper()

	db := databasetest.NewSQLite(t, 1, 2)

	pattern := synth.NewPattern(synth.PatternConfig{
		AmountCeiling: decimal.NewFromInt(1000000),
		Now:           func() time.Time { return today },
	})

	mem := inmemory.NewStore()

	a := agent.New(
		intent.Heuristic{},
		ledger.NewService(ledgerStore.New(db, statement.DialectSQLite)),
		synth.New(nil, append([]synth.Strategy{pattern}, strategies...)...),
		executor.New(db, statement.DialectSQLite, nil),
		mem,
		nil,
	)

	return a, mem
}

func TestAgent_RoundTrip(t *testing.T) {
	a, mem := newPipeline(t)
	ctx := context.Background()

	resp := a.Handle(ctx, 1, "add groceries at Safeway $50 today")
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "I've added the transaction for groceries at Safeway on 2024-03-15 for $50.00.", resp.Reply)

	resp = a.Handle(ctx, 1, "show transactions from today")
	require.True(t, resp.Success, resp.Error)
	assert.Contains(t, resp.Reply, "📅 2024-03-15")
	assert.Contains(t, resp.Reply, "💳 groceries at Safeway: $50.00 [Food & Groceries]")
	assert.Contains(t, resp.Reply, "Total Expense: $50.00")
	assert.Len(t, resp.Data, 1)

	resp = a.Handle(ctx, 1, "list transactions I paid for last week")
	require.True(t, resp.Success, resp.Error)
	assert.Len(t, resp.Data, 1)

	// Owner 2 sees nothing of owner 1.
	resp = a.Handle(ctx, 2, "show my transactions from last week")
	require.True(t, resp.Success, resp.Error)
	assert.Contains(t, resp.Reply, reply.MsgNoResults)
	assert.Contains(t, resp.Reply, "Total Income: $0.00")

	history, err := mem.Recent(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "add groceries at Safeway $50 today", history[0].UserText)

	// Only the insert is a mutation.
	ops, err := mem.RecentOperations(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "insert", ops[0].Operation)
	assert.Contains(t, ops[0].Statement, "INSERT INTO transactions")
}

func TestAgent_CategoryLifecycle(t *testing.T) {
	a, _ := newPipeline(t)
	ctx := context.Background()

	resp := a.Handle(ctx, 1, "Create a category called 'Side Hustle' for income")
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "I've added the new category for you.", resp.Reply)

	resp = a.Handle(ctx, 1, "show income categories")
	require.True(t, resp.Success, resp.Error)
	assert.Contains(t, resp.Reply, "Side Hustle (INCOME)")

	resp = a.Handle(ctx, 1, "add freelance gig $200 to 'Side Hustle'")
	require.True(t, resp.Success, resp.Error)

	resp = a.Handle(ctx, 1, "rename category 'Side Hustle' to 'Consulting'")
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "I've updated the item as requested.", resp.Reply)

	resp = a.Handle(ctx, 1, "show income transactions")
	require.True(t, resp.Success, resp.Error)
	assert.Contains(t, resp.Reply, "💰 freelance gig: $200.00 [Consulting]")

	resp = a.Handle(ctx, 1, "delete category 'Misc'")
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "I've deleted the item as requested.", resp.Reply)

	resp = a.Handle(ctx, 1, "delete category 'Misc'")
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "I couldn't find anything to delete.", resp.Reply)
}

func TestAgent_DeleteReferencedCategoryIsRejected(t *testing.T) {
	a, mem := newPipeline(t)
	ctx := context.Background()

	resp := a.Handle(ctx, 1, "add groceries at Safeway $50 today")
	require.True(t, resp.Success, resp.Error)

	resp = a.Handle(ctx, 1, "delete category 'Food & Groceries'")
	assert.False(t, resp.Success)
	assert.Equal(t, reply.MsgExecFail, resp.Reply)

	var execErr *executor.Error
	require.True(t, errors.As(resp.Err, &execErr))
	assert.Equal(t, statement.OpDelete, execErr.Operation)

	resp = a.Handle(ctx, 1, "show transactions from today")
	require.True(t, resp.Success, resp.Error)
	assert.Len(t, resp.Data, 1)
	assert.Contains(t, resp.Reply, "[Food & Groceries]")

	// The failed delete still ran against the store, so it is recorded with its error.
	ops, err := mem.RecentOperations(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "delete", ops[1].Operation)
	assert.NotEmpty(t, ops[1].Detail)
}

func TestAgent_Failures(t *testing.T) {
	a, mem := newPipeline(t)
	ctx := context.Background()

	resp := a.Handle(ctx, 1, "tell me a joke")
	assert.False(t, resp.Success)
	assert.Equal(t, reply.MsgRephrase, resp.Reply)
	assert.ErrorIs(t, resp.Err, synth.ErrNoMatch)

	resp = a.Handle(ctx, 1, "add dinner $20 tomorrow")
	assert.False(t, resp.Success)
	assert.ErrorIs(t, resp.Err, ledger.ErrFutureDate)

	resp = a.Handle(ctx, 1, "   ")
	assert.False(t, resp.Success)
	assert.ErrorIs(t, resp.Err, agent.ErrEmptyCommand)

	// Nothing reached the store.
	ops, err := mem.RecentOperations(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestAgent_GeneratedStatementWithoutWhereIsRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	completer := llm.NewMockCompleter(ctrl)
	completer.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(`{"statement": "UPDATE categories SET name = @name", "params": {"name": "Stuff"}}`, nil)

	a, _ := newPipeline(t, synth.NewGenerative(completer, time.Second, func() time.Time { return today }))
	ctx := context.Background()

	resp := a.Handle(ctx, 1, "change all my categories to Stuff")
	assert.False(t, resp.Success)
	assert.Equal(t, "Safety Error: UPDATE and DELETE statements must include a WHERE clause.", resp.Reply)

	var safety *statement.SafetyError
	assert.True(t, errors.As(resp.Err, &safety))

	resp = a.Handle(ctx, 1, "list categories")
	require.True(t, resp.Success)
	assert.NotContains(t, resp.Reply, "Stuff")
}

func TestAgent_MemoryFailureIsLoggedOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cats := agent.NewMockCategorySource(ctrl)
	syn := agent.NewMockSynthesizer(ctrl)
	exec := agent.NewMockExecutor(ctrl)
	mem := memory.NewMockStore(ctrl)

	plan := statement.Plan{
		Operation: statement.OpDelete,
		Target:    statement.TargetCategory,
		Text:      "DELETE FROM categories WHERE name = @name AND owner_id = @user_id",
		Params:    map[string]any{"name": "Misc"},
	}

	cats.EXPECT().Categories(gomock.Any(), int64(9)).Return(nil, errors.New("db down"))
	syn.EXPECT().Synthesize(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req synth.Request) (statement.Plan, error) {
			assert.Equal(t, intent.LabelDelete, req.Label)
			assert.Equal(t, "No categories defined yet.", req.CategoryContext)
			return plan, nil
		})
	exec.EXPECT().Execute(gomock.Any(), plan, int64(9)).Return(executor.Result{Operation: statement.OpDelete, Affected: 1}, nil)
	mem.EXPECT().AddInteraction(gomock.Any(), int64(9), gomock.Any()).Return(errors.New("memory full"))
	mem.EXPECT().AddOperation(gomock.Any(), int64(9), gomock.Any()).Return(errors.New("memory full"))

	a := agent.New(intent.Heuristic{}, cats, syn, exec, mem, nil)

	resp := a.Handle(context.Background(), 9, "delete category 'Misc'")
	assert.True(t, resp.Success)
	assert.Equal(t, "I've deleted the item as requested.", resp.Reply)
	assert.Empty(t, resp.Error)
}

func TestAgent_UnsafePlanNeverExecutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cats := agent.NewMockCategorySource(ctrl)
	syn := agent.NewMockSynthesizer(ctrl)
	exec := agent.NewMockExecutor(ctrl)

	cats.EXPECT().Categories(gomock.Any(), gomock.Any()).Return(nil, nil)
	syn.EXPECT().Synthesize(gomock.Any(), gomock.Any()).Return(statement.Plan{
		Operation: statement.OpSelect,
		Text:      "SELECT 1; DROP TABLE transactions",
	}, nil)

	a := agent.New(intent.Heuristic{}, cats, syn, exec, inmemory.NewStore(), nil)

	resp := a.Handle(context.Background(), 1, "show everything")
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Reply, "Safety Error")
}

func TestAgent_HistoryAndReset(t *testing.T) {
	a, _ := newPipeline(t)
	ctx := context.Background()

	for range 7 {
		a.Handle(ctx, 1, "list categories")
	}

	got, err := a.History(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, got, memory.DefaultRecent)

	require.NoError(t, a.Reset(ctx, 1))

	got, err = a.History(ctx, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
