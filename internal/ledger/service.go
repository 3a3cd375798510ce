package ledger

import (
	"context"
	"fmt"
	"strings"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	ListCategories(ctx context.Context, ownerID int64) ([]Category, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Categories(ctx context.Context, ownerID int64) ([]Category, error) {
	return s.repo.ListCategories(ctx, ownerID)
}

// RenderCategories formats categories as a short block for prompts.
func RenderCategories(cats []Category) string {
	if len(cats) == 0 {
		return "No categories defined yet."
	}

	var sb strings.Builder

	sb.WriteString("Current categories:")

	for _, c := range cats {
		fmt.Fprintf(&sb, "\n - %s (%s)", c.Name, c.Kind)
	}

	return sb.String()
}
