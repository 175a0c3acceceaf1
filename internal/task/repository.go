package task

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("task not found")

// Repository persists tasks. Ids the store cannot parse match nothing.
type Repository interface {
	Create(ctx context.Context, t *Task) (*Task, error)
	ListByProject(ctx context.Context, projectID string) ([]Task, error)
	Update(ctx context.Context, id string, upd Update) (*Task, error)
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
}
