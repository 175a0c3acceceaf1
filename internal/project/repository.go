package project

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("project not found")

// Repository persists projects.
//
// Ids the store cannot parse match nothing. Update returns ErrNotFound when
// no project matched; Delete, AddMember and RemoveMember are no-ops then.
type Repository interface {
	Create(ctx context.Context, p *Project) (*Project, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Project, error)
	GetByID(ctx context.Context, id string) (*Project, error)
	Update(ctx context.Context, id string, upd Update) (*Project, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, id, userID string) error
	RemoveMember(ctx context.Context, id, userID string) error
}
