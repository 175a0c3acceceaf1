package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTitleRequired      = errors.New("title is required")
	ErrProgressOutOfRange = errors.New("progress must be between 0 and 100")
)

// Service handles task business logic
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a task under projectID, filling defaults for empty status,
// priority and type. The project's existence is not checked.
func (s *Service) Create(ctx context.Context, projectID string, t Task) (*Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return nil, ErrTitleRequired
	}
	if !t.Progress.InRange() {
		return nil, ErrProgressOutOfRange
	}

	t.ID = ""
	t.ProjectID = projectID
	if t.Status == "" {
		t.Status = DefaultStatus
	}
	if t.Priority == "" {
		t.Priority = DefaultPriority
	}
	if t.Type == "" {
		t.Type = DefaultType
	}

	created, err := s.repo.Create(ctx, &t)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return created, nil
}

// List returns the tasks of projectID, never nil
func (s *Service) List(ctx context.Context, projectID string) ([]Task, error) {
	tasks, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Update applies a partial update and returns (nil, nil) when the id
// matches nothing
func (s *Service) Update(ctx context.Context, id string, upd Update) (*Task, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, ErrTitleRequired
	}
	if upd.Progress != nil && !upd.Progress.InRange() {
		return nil, ErrProgressOutOfRange
	}

	t, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// Delete succeeds for unknown ids
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
