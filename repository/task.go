package repository

import (
	"context"

	"github.com/listkeep/backend/domain"
)

// TaskFilter narrows List to a single owner and, optionally, a completion
// state. Completed == nil means both states.
type TaskFilter struct {
	AuthorID  string
	Completed *bool
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}
