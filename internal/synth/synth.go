// Package synth turns a classified command into a parameterized statement plan.
package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/finnychat/internal/intent"
	"github.com/MrJamesThe3rd/finnychat/internal/ledger"
	"github.com/MrJamesThe3rd/finnychat/internal/statement"
)

// ErrNoMatch means a strategy does not apply and the next one should be tried.
var ErrNoMatch = errors.New("could not understand the command")

// Error is a synthesis failure. The plan that accompanies it carries the sentinel text.
type Error struct {
	Provenance statement.Provenance
	Err        error
}

func (e *Error) Error() string {
	if e.Provenance == "" {
		return "synthesis failed: " + e.Err.Error()
	}

	return fmt.Sprintf("synthesis failed (%s): %v", e.Provenance, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Request is everything a strategy may use to build a plan.
type Request struct {
	Label      intent.Label
	Text       string
	Categories []ledger.Category
	// CategoryContext is the rendered category block for prompts.
	CategoryContext string
}

type Strategy interface {
	Name() statement.Provenance
	Synthesize(ctx context.Context, req Request) (statement.Plan, error)
}

// Synthesizer tries each strategy in order; the first that applies decides.
type Synthesizer struct {
	strategies []Strategy
	logger     *slog.Logger
}

func New(logger *slog.Logger, strategies ...Strategy) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Synthesizer{strategies: strategies, logger: logger}
}

func (s *Synthesizer) Synthesize(ctx context.Context, req Request) (statement.Plan, error) {
	for _, st := range s.strategies {
		plan, err := st.Synthesize(ctx, req)
		if errors.Is(err, ErrNoMatch) {
			continue
		}

		if err != nil {
			s.logger.Info("synthesis failed", "strategy", st.Name(), "error", err)
			return failed(req.Label, st.Name(), err)
		}

		plan.Provenance = st.Name()

		return plan, nil
	}

	return failed(req.Label, "", ErrNoMatch)
}

func failed(label intent.Label, p statement.Provenance, err error) (statement.Plan, error) {
	return statement.Plan{
		Operation:  label.Operation(),
		Text:       statement.Sentinel,
		Provenance: p,
	}, &Error{Provenance: p, Err: err}
}
