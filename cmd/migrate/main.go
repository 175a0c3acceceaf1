// migrate brings the store schema up to date and backfills projects stored
// without a management method.
//
// Usage:
//
//	migrate [--database-url URL] [--db-name NAME] [up|status|down]
//
// status and down apply to PostgreSQL only; MongoDB and the memory store
// have no versioned migrations.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/redmonkez12/visionise-api/internal/config"
	"github.com/redmonkez12/visionise-api/internal/database"
	"github.com/redmonkez12/visionise-api/internal/database/postgres"
	"github.com/redmonkez12/visionise-api/internal/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flagSet.StringVar(&cfg.Database.URL, "database-url", cfg.Database.URL, "store connection string (defaults to DATABASE_URL)")
	flagSet.StringVar(&cfg.Database.Name, "db-name", cfg.Database.Name, "database name (defaults to DB_NAME)")
	timeout := flagSet.Duration("timeout", 2*time.Minute, "give up after this long")
	flagSet.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: migrate [flags] [up|status|down]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	command := "up"
	switch args := flagSet.Args(); len(args) {
	case 0:
	case 1:
		command = args[0]
	default:
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch command {
	case "up":
		return up(ctx, cfg.Database, logger)
	case "status", "down":
		driver, err := database.DriverFor(cfg.Database.URL)
		if err != nil {
			return err
		}
		if driver != database.DriverPostgres {
			return fmt.Errorf("%s is only supported for postgres, not %s", command, driver)
		}

		store, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer store.Close()

		if command == "down" {
			if err := store.Down(ctx); err != nil {
				return err
			}
			logger.Info("rolled back latest migration")
			return nil
		}
		return status(ctx, store)
	default:
		return fmt.Errorf("unknown command %q (want up, status or down)", command)
	}
}

func up(ctx context.Context, cfg config.DatabaseConfig, logger *logging.Logger) error {
	store, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	logger.Info("migrations applied", "driver", store.Driver, "db_name", store.Name)
	return nil
}

func status(ctx context.Context, store *postgres.Store) error {
	statuses, err := store.Status(ctx)
	if err != nil {
		return err
	}

	for _, st := range statuses {
		state := "pending"
		if st.Applied {
			state = "applied"
		}
		fmt.Printf("%05d  %-8s  %s\n", st.Version, state, st.Path)
	}
	return nil
}
