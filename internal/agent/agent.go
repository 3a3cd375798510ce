// Package agent runs one chat command through the ledger pipeline.
package agent

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/finnychat/internal/executor"
	"github.com/MrJamesThe3rd/finnychat/internal/intent"
	"github.com/MrJamesThe3rd/finnychat/internal/ledger"
	"github.com/MrJamesThe3rd/finnychat/internal/memory"
	"github.com/MrJamesThe3rd/finnychat/internal/reply"
	"github.com/MrJamesThe3rd/finnychat/internal/statement"
	"github.com/MrJamesThe3rd/finnychat/internal/synth"
)

var ErrEmptyCommand = errors.New("command must not be empty")

//go:generate mockgen -source=agent.go -destination=deps_mock.go -package=agent
type CategorySource interface {
	Categories(ctx context.Context, ownerID int64) ([]ledger.Category, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, req synth.Request) (statement.Plan, error)
}

type Executor interface {
	Execute(ctx context.Context, plan statement.Plan, userID int64) (executor.Result, error)
}

// Response is what every surface shows for a command.
type Response struct {
	Reply   string           `json:"response"`
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Data    []map[string]any `json:"data,omitempty"`
	// Err is the pipeline failure behind Error, if any.
	Err error `json:"-"`
}

type Agent struct {
	classifier intent.Classifier
	categories CategorySource
	synth      Synthesizer
	exec       Executor
	format     *reply.Formatter
	memory     memory.Store
	logger     *slog.Logger
	now        func() time.Time
}

func New(
	classifier intent.Classifier,
	categories CategorySource,
	synthesizer Synthesizer,
	exec Executor,
	mem memory.Store,
	logger *slog.Logger,
) *Agent {
	if logger == nil {
		logger = slog.Default()
	}

	return &Agent{
		classifier: classifier,
		categories: categories,
		synth:      synthesizer,
		exec:       exec,
		format:     reply.New(),
		memory:     mem,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle is classify, synthesize, validate, execute, format. Memory is
// updated once the reply exists; memory failures never change the reply.
func (a *Agent) Handle(ctx context.Context, userID int64, text string) Response {
	text = strings.TrimSpace(text)
	if text == "" {
		return Response{Reply: "Please type a command.", Error: ErrEmptyCommand.Error(), Err: ErrEmptyCommand}
	}

	logger := a.logger.With("user_id", userID)

	label := a.classifier.Classify(ctx, text)

	cats, err := a.categories.Categories(ctx, userID)
	if err != nil {
		logger.Warn("failed to load categories", "error", err)
	}

	plan, err := a.synth.Synthesize(ctx, synth.Request{
		Label:           label,
		Text:            text,
		Categories:      cats,
		CategoryContext: ledger.RenderCategories(cats),
	})
	if err == nil {
		err = statement.Validate(plan)
	}

	var (
		resp Response
		ran  bool
	)

	if err == nil {
		var res executor.Result

		ran = true
		res, err = a.exec.Execute(ctx, plan, userID)
		if err == nil {
			out := a.format.Format(plan, res)
			resp = Response{Reply: out.Text, Success: true, Data: out.Data}
		}
	}

	if err != nil {
		logger.Error("command failed", "label", label, "operation", plan.Operation, "provenance", plan.Provenance, "error", err)

		resp = Response{Reply: a.format.Failure(err).Text, Error: err.Error(), Err: err}
	}

	a.remember(ctx, logger, userID, text, plan, resp, ran)

	return resp
}

// remember stores the interaction and, for mutations that reached the store,
// an operation record.
func (a *Agent) remember(ctx context.Context, logger *slog.Logger, userID int64, text string, plan statement.Plan, resp Response, ran bool) {
	now := a.now()

	if err := a.memory.AddInteraction(ctx, userID, memory.Interaction{
		Timestamp: now,
		UserText:  text,
		Reply:     resp.Reply,
	}); err != nil {
		logger.Warn("failed to record interaction", "error", err)
	}

	if !ran || !plan.Operation.IsMutation() {
		return
	}

	if err := a.memory.AddOperation(ctx, userID, memory.OperationRecord{
		Timestamp: now,
		Operation: string(plan.Operation),
		Statement: plan.Text,
		Detail:    resp.Error,
	}); err != nil {
		logger.Warn("failed to record operation", "error", err)
	}
}

func (a *Agent) History(ctx context.Context, userID int64, n int) ([]memory.Interaction, error) {
	if n <= 0 {
		n = memory.DefaultRecent
	}

	return a.memory.Recent(ctx, userID, n)
}

func (a *Agent) Reset(ctx context.Context, userID int64) error {
	return a.memory.Clear(ctx, userID)
}
