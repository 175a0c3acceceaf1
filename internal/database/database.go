// Package database opens the store named by the connection string's scheme
// and exposes its repositories behind the domain interfaces.
package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/redmonkez12/visionise-api/internal/config"
	"github.com/redmonkez12/visionise-api/internal/database/memory"
	"github.com/redmonkez12/visionise-api/internal/database/mongodb"
	"github.com/redmonkez12/visionise-api/internal/database/postgres"
	"github.com/redmonkez12/visionise-api/internal/project"
	"github.com/redmonkez12/visionise-api/internal/task"
	"github.com/redmonkez12/visionise-api/internal/user"
)

// Supported drivers
const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Store bundles the repositories of one backend
type Store struct {
	Users    user.Repository
	Projects project.Repository
	Tasks    task.Repository

	Driver string
	Name   string

	ping    func(ctx context.Context) error
	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

// Open connects to the backend selected by cfg.URL
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	driver, err := DriverFor(cfg.URL)
	if err != nil {
		return nil, err
	}

	switch driver {
	case DriverMongo:
		s, err := mongodb.Open(ctx, cfg.URL, cfg.Name)
		if err != nil {
			return nil, err
		}
		return &Store{
			Users:    s.Users(),
			Projects: s.Projects(),
			Tasks:    s.Tasks(),
			Driver:   driver,
			Name:     cfg.Name,
			ping:     s.Ping,
			migrate:  s.Migrate,
			close:    s.Close,
		}, nil

	case DriverPostgres:
		s, err := postgres.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return &Store{
			Users:    s.Users(),
			Projects: s.Projects(),
			Tasks:    s.Tasks(),
			Driver:   driver,
			Name:     cfg.Name,
			ping:     s.Ping,
			migrate:  s.Migrate,
			close:    func(context.Context) error { return s.Close() },
		}, nil

	default:
		return NewMemory(cfg.Name), nil
	}
}

// NewMemory returns a Store backed by a fresh in-process store
func NewMemory(name string) *Store {
	s := memory.New()
	projects := s.Projects()
	return &Store{
		Users:    s.Users(),
		Projects: projects,
		Tasks:    s.Tasks(),
		Driver:   DriverMemory,
		Name:     name,
		ping:     s.Ping,
		migrate: func(ctx context.Context) error {
			_, err := projects.BackfillManagementMethod(ctx, project.DefaultManagementMethod)
			return err
		},
		close: func(context.Context) error { return nil },
	}
}

// DriverFor maps a connection string to a driver name
func DriverFor(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "memory":
		return DriverMemory, nil
	default:
		return "", fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}

// Ping reports whether the backend is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Migrate brings the schema up to date and backfills legacy projects
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate %s store: %w", s.Driver, err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}
