// Package memory keeps per-user conversation history for the chat pipeline.
package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultRecent is how many interactions Recent callers show by default.
const DefaultRecent = 5

type Interaction struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserText  string    `json:"user_text"`
	Reply     string    `json:"reply"`
}

type OperationRecord struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Operation string    `json:"operation"`
	Statement string    `json:"statement"`
	Detail    string    `json:"detail,omitempty"`
}

// Store is append-only per user except for Clear.
//
//go:generate mockgen -source=memory.go -destination=store_mock.go -package=memory
type Store interface {
	AddInteraction(ctx context.Context, userID int64, in Interaction) error
	AddOperation(ctx context.Context, userID int64, op OperationRecord) error
	// Recent returns up to n interactions, oldest first.
	Recent(ctx context.Context, userID int64, n int) ([]Interaction, error)
	RecentOperations(ctx context.Context, userID int64, n int) ([]OperationRecord, error)
	Clear(ctx context.Context, userID int64) error
}
