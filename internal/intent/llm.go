package intent

import (
	"context"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/finnychat/internal/llm"
)

const classifyPrompt = `You label commands for a personal finance ledger.
Answer with exactly one word from this list and nothing else:
view    - the user wants to see categories or transactions
create  - the user wants to add a category or a transaction
update  - the user wants to change or rename something
delete  - the user wants to remove something`

// LLM classifies with a hosted completion model.
type LLM struct {
	completer llm.Completer
	timeout   time.Duration
	logger    *slog.Logger
}

func NewLLM(completer llm.Completer, timeout time.Duration, logger *slog.Logger) *LLM {
	if logger == nil {
		logger = slog.Default()
	}

	return &LLM{completer: completer, timeout: timeout, logger: logger}
}

func (c *LLM) Classify(ctx context.Context, text string) Label {
	if c.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	raw, err := c.completer.Complete(ctx, classifyPrompt, text)
	if err != nil {
		c.logger.Warn("intent classification failed, defaulting to view", "error", err)
		return LabelView
	}

	label, ok := ParseLabel(llm.StripFences(raw))
	if !ok {
		c.logger.Warn("intent outside the closed label set, defaulting to view", "label", raw)
		return LabelView
	}

	return label
}
