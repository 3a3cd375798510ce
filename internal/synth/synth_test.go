package synth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finnychat/internal/intent"
	"github.com/MrJamesThe3rd/finnychat/internal/statement"
	"github.com/MrJamesThe3rd/finnychat/internal/synth"
)

type stubStrategy struct {
	name  statement.Provenance
	plan  statement.Plan
	err   error
	calls int
}

func (s *stubStrategy) Name() statement.Provenance { return s.name }

func (s *stubStrategy) Synthesize(context.Context, synth.Request) (statement.Plan, error) {
	s.calls++
	return s.plan, s.err
}

func TestSynthesizer_Synthesize(t *testing.T) {
	req := synth.Request{Label: intent.LabelView, Text: "anything"}
	selectPlan := statement.Plan{Operation: statement.OpSelect, Text: "SELECT 1 FROM categories WHERE owner_id = @user_id"}

	t.Run("FirstApplicableWins", func(t *testing.T) {
		first := &stubStrategy{name: statement.ProvenancePattern, plan: selectPlan}
		second := &stubStrategy{name: statement.ProvenanceGenerated}

		plan, err := synth.New(nil, first, second).Synthesize(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, statement.ProvenancePattern, plan.Provenance)
		assert.Equal(t, 0, second.calls)
	})

	t.Run("NoMatchFallsThrough", func(t *testing.T) {
		first := &stubStrategy{name: statement.ProvenancePattern, err: synth.ErrNoMatch}
		second := &stubStrategy{name: statement.ProvenanceGenerated, plan: selectPlan}

		plan, err := synth.New(nil, first, second).Synthesize(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, statement.ProvenanceGenerated, plan.Provenance)
		assert.Equal(t, 1, first.calls)
	})

	t.Run("DefinitiveFailureStops", func(t *testing.T) {
		first := &stubStrategy{name: statement.ProvenancePattern, err: errors.New("bad amount")}
		second := &stubStrategy{name: statement.ProvenanceGenerated, plan: selectPlan}

		plan, err := synth.New(nil, first, second).Synthesize(context.Background(), req)
		require.Error(t, err)

		var synthErr *synth.Error
		require.True(t, errors.As(err, &synthErr))
		assert.Equal(t, statement.ProvenancePattern, synthErr.Provenance)
		assert.Equal(t, statement.Sentinel, plan.Text)
		assert.Equal(t, 0, second.calls)
	})

	t.Run("NothingApplies", func(t *testing.T) {
		plan, err := synth.New(nil, &stubStrategy{err: synth.ErrNoMatch}).Synthesize(context.Background(), req)
		assert.ErrorIs(t, err, synth.ErrNoMatch)
		assert.Equal(t, statement.Sentinel, plan.Text)
		assert.Error(t, statement.Validate(plan))
	})
}
