package llm

import (
	"context"
	"errors"
	"strings"
)

var ErrEmptyResponse = errors.New("empty response from model")

//go:generate mockgen -source=llm.go -destination=completer_mock.go -package=llm
type Completer interface {
	// Complete sends one system and one user message and returns the raw text reply.
	Complete(ctx context.Context, system, user string) (string, error)
}

// StripFences removes a Markdown code fence the model may wrap its answer in.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```sql).
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return strings.TrimSpace(strings.Trim(s, "`"))
		}

		s = strings.TrimSpace(s[idx+1:])
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}
