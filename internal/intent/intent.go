// Package intent maps a free-form command to one of four coarse labels.
package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/MrJamesThe3rd/finnychat/internal/statement"
)

type Label string

const (
	LabelView   Label = "view"
	LabelCreate Label = "create"
	LabelUpdate Label = "update"
	LabelDelete Label = "delete"
)

// Operation is the statement kind a label permits.
func (l Label) Operation() statement.Operation {
	switch l {
	case LabelCreate:
		return statement.OpInsert
	case LabelUpdate:
		return statement.OpUpdate
	case LabelDelete:
		return statement.OpDelete
	}

	return statement.OpSelect
}

// ParseLabel maps a model answer to a label. The coarse "query"/"mutation"
// answers are folded into view and create.
func ParseLabel(s string) (Label, bool) {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(s), `."'`)) {
	case "view", "select", "query":
		return LabelView, true
	case "create", "insert", "mutation":
		return LabelCreate, true
	case "update":
		return LabelUpdate, true
	case "delete":
		return LabelDelete, true
	}

	return "", false
}

// Classifier never fails: anything it cannot decide is a view.
type Classifier interface {
	Classify(ctx context.Context, text string) Label
}

var (
	viewRe   = regexp.MustCompile(`(?i)^\s*(?:please\s+)?(show|list|view|display)\b`)
	deleteRe = regexp.MustCompile(`(?i)\b(delete|remove|erase|drop)\b`)
	updateRe = regexp.MustCompile(`(?i)\b(update|rename|change|modify|edit|set)\b`)
	createRe = regexp.MustCompile(`(?i)\b(add|create|record|log|new|make|insert|spent|paid|earned|received)\b`)
)

// Heuristic classifies with keyword rules.
type Heuristic struct{}

func (Heuristic) Classify(_ context.Context, text string) Label {
	switch {
	case viewRe.MatchString(text):
		return LabelView
	case deleteRe.MatchString(text):
		return LabelDelete
	case updateRe.MatchString(text):
		return LabelUpdate
	case createRe.MatchString(text):
		return LabelCreate
	}

	return LabelView
}
