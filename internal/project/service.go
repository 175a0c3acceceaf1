package project

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redmonkez12/visionise-api/internal/logging"
	"github.com/redmonkez12/visionise-api/internal/user"
)

var (
	ErrTitleRequired           = errors.New("title is required")
	ErrInvalidManagementMethod = errors.New("managementMethod must be one of Kanban, Scrum, Waterfall")
)

// TaskRemover deletes the tasks of a project
type TaskRemover interface {
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
}

// UserFinder resolves member emails
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

// CreateInput carries the fields of a new project
type CreateInput struct {
	Title            string
	Description      string
	ManagementMethod string
	StartDate        string
	EndDate          string
}

// Service handles project business logic
type Service struct {
	projects Repository
	tasks    TaskRemover
	users    UserFinder
}

func NewService(projects Repository, tasks TaskRemover, users UserFinder) *Service {
	return &Service{projects: projects, tasks: tasks, users: users}
}

// Create stores a new project owned by ownerID with no members
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*Project, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	method := in.ManagementMethod
	if method == "" {
		method = DefaultManagementMethod
	}
	if !ValidManagementMethod(method) {
		return nil, ErrInvalidManagementMethod
	}

	created, err := s.projects.Create(ctx, &Project{
		Title:            in.Title,
		Description:      in.Description,
		OwnerID:          ownerID,
		Members:          []string{},
		ManagementMethod: method,
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return created, nil
}

// List returns the projects owned by ownerID
func (s *Service) List(ctx context.Context, ownerID string) ([]Project, error) {
	projects, err := s.projects.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if projects == nil {
		projects = []Project{}
	}
	return projects, nil
}

// Get returns ErrNotFound when no project has this id.
// Ownership is not checked.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// Update applies a partial update. It returns (nil, nil) when the id
// matches nothing. Ownership is not checked.
func (s *Service) Update(ctx context.Context, id string, upd Update) (*Project, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, ErrTitleRequired
	}
	if upd.ManagementMethod != nil && !ValidManagementMethod(*upd.ManagementMethod) {
		return nil, ErrInvalidManagementMethod
	}

	p, err := s.projects.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return p, nil
}

// Delete removes the project and every task that references it. Deleting
// an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	removed, err := s.tasks.DeleteByProject(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete project tasks: %w", err)
	}

	logging.GetLoggerFromContext(ctx).Info("project deleted", "project_id", id, "tasks_removed", removed)
	return nil
}

// AddMember adds the user registered under email to the project's members.
// Adding an existing member changes nothing.
func (s *Service) AddMember(ctx context.Context, id, email string) error {
	member, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		return fmt.Errorf("failed to look up member: %w", err)
	}

	if err := s.projects.AddMember(ctx, id, member.ID); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember drops memberID from the project's members
func (s *Service) RemoveMember(ctx context.Context, id, memberID string) error {
	if err := s.projects.RemoveMember(ctx, id, memberID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}
