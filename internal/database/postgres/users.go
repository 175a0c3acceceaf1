package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/visionise-api/internal/user"
)

// UserRepository implements user.Repository
type UserRepository struct {
	db *bun.DB
}

// Create inserts a user. The users_email_key constraint is the only
// uniqueness check.
func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	now := time.Now().UTC()
	row := &userRow{
		ID:           uuid.New(),
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Profession:   u.Profession,
		BirthDate:    u.BirthDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := r.db.NewInsert().
		Model(row).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return row.toModel(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	row := new(userRow)
	err := r.db.NewSelect().
		Model(row).
		Where("email = ?", email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return row.toModel(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, user.ErrNotFound
	}

	row := new(userRow)
	err := r.db.NewSelect().
		Model(row).
		Where("id = ?", uid).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return row.toModel(), nil
}
