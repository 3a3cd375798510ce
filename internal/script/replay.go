package script

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/finnychat/internal/agent"
)

type Handler interface {
	Handle(ctx context.Context, userID int64, text string) agent.Response
}

type Summary struct {
	Total  int
	Failed []Command
}

// Replay sends each command to h as userID and echoes the exchange to w.
// It stops early only when ctx is cancelled.
func Replay(ctx context.Context, h Handler, userID int64, cmds []Command, w io.Writer) (Summary, error) {
	var sum Summary

	for _, c := range cmds {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		resp := h.Handle(ctx, userID, c.Text)
		sum.Total++

		status := "ok"
		if !resp.Success {
			status = "failed"

			sum.Failed = append(sum.Failed, c)
		}

		if _, err := fmt.Fprintf(w, "[%d] > %s\n%s\n(%s)\n\n", c.Line, c.Text, resp.Reply, status); err != nil {
			return sum, fmt.Errorf("writing output: %w", err)
		}
	}

	return sum, nil
}
