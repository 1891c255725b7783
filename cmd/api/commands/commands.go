package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/taskmaster/todoboard/internal/adapters/cache"
	"github.com/taskmaster/todoboard/internal/adapters/events"
	"github.com/taskmaster/todoboard/internal/adapters/repository"
	"github.com/taskmaster/todoboard/internal/application/services"
	"github.com/taskmaster/todoboard/internal/domain/entities"
	"github.com/taskmaster/todoboard/internal/domain/filter"
	"github.com/taskmaster/todoboard/internal/infrastructure/config"
	"github.com/taskmaster/todoboard/internal/infrastructure/database"
	"github.com/taskmaster/todoboard/internal/infrastructure/logger"
	"github.com/taskmaster/todoboard/internal/infrastructure/server"
	"github.com/taskmaster/todoboard/internal/ports"
)

// Build information, overridden with -ldflags at release time.
var (
	Version   = "dev"
	GitCommit = "none"
)

// app carries what every command loads before it runs
type app struct {
	configPath string
	cfg        *config.Config
	logger     *logger.Logger
}

// NewRootCommand builds the todoboard command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "todoboard",
		Short:         "Todo board API server and tools",
		Long:          `todoboard serves a shared TODO board over HTTP and lets you inspect it from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a config file (YAML, JSON or TOML)")

	rootCmd.AddCommand(a.newServeCommand())
	rootCmd.AddCommand(a.newMigrateCommand())
	rootCmd.AddCommand(a.newTodosCommand())
	rootCmd.AddCommand(a.newUsersCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// load reads configuration and builds the logger. Tool commands log to
// stderr so that stdout carries only their output.
func (a *app) load(toolOutput bool) error {
	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCfg := cfg.Logger
	if toolOutput && logCfg.Output != "file" {
		logCfg.Output = "stderr"
	}
	appLogger, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = appLogger
	return nil
}

func (a *app) openDB() (*database.DB, error) {
	db, err := database.New(a.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (a *app) newServeCommand() *cobra.Command {
	var migrateFirst bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the todo board API server",
		Long:  "Start the HTTP API with the configured store, cache and change notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(false); err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()
			return a.runServer(cmd.Context(), migrateFirst)
		},
	}
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func (a *app) runServer(ctx context.Context, migrateFirst bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateFirst {
		if err := db.MigrateUp(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	var opts []server.Option
	if a.cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.GetAddr(),
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		defer rdb.Close()
		opts = append(opts, server.WithCache(cache.NewTodoCache(rdb, a.cfg.Redis.TTL)))
	}
	if a.cfg.MQTT.Enabled {
		notifier, err := events.NewNotifier(a.cfg.MQTT, a.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to mqtt broker: %w", err)
		}
		opts = append(opts, server.WithNotifier(notifier))
	}

	// server.New disconnects the notifier itself when it fails.
	srv, err := server.New(a.cfg, db, a.logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}
	if err := srv.Warm(ctx); err != nil {
		a.logger.Warnw("Initial todo load failed", "error", err)
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	a.logger.Infow("Starting todo board API server",
		"address", addr,
		"environment", a.cfg.App.Environment,
		"driver", db.Driver(),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}

func (a *app) newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(func(db *database.DB) error {
				if err := db.MigrateUp(); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				return printVersion(cmd, db)
			})
		},
	})

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(func(db *database.DB) error {
				if err := db.MigrateDown(steps); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				return printVersion(cmd, db)
			})
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to roll back (0 rolls back all)")
	migrateCmd.AddCommand(downCmd)

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(func(db *database.DB) error {
				return printVersion(cmd, db)
			})
		},
	})

	return migrateCmd
}

func printVersion(cmd *cobra.Command, db *database.DB) error {
	out := cmd.OutOrStdout()
	version, dirty, err := db.Version()
	if errors.Is(err, database.ErrNoMigrations) {
		_, err = fmt.Fprintln(out, "No migrations applied")
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	_, err = fmt.Fprintf(out, "Current migration version: %d\nDirty: %t\n", version, dirty)
	return err
}

// withDB runs fn against an open database for one-shot tool commands.
func (a *app) withDB(fn func(db *database.DB) error) error {
	if err := a.load(true); err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func (a *app) newTodosCommand() *cobra.Command {
	todosCmd := &cobra.Command{
		Use:   "todos",
		Short: "Inspect the todo board",
	}

	var (
		raw    filter.RawCriteria
		asJSON bool
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List todos matching the given filters",
		Long:  "List todos newest first. Every filter is optional and filters combine with AND.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria, err := raw.Parse()
			if err != nil {
				return err
			}
			return a.withDB(func(db *database.DB) error {
				return a.listTodos(cmd, db, criteria, asJSON)
			})
		},
	}
	listCmd.Flags().StringVar(&raw.Search, "search", "", "case-insensitive text in name or description")
	listCmd.Flags().StringVar(&raw.Status, "status", "", "TODO, INPROGRESS, DONE or CANCELLED")
	listCmd.Flags().StringVar(&raw.AuthorID, "author", "", "author user id")
	listCmd.Flags().StringVar(&raw.AssigneeID, "assignee", "", "assignee user id")
	listCmd.Flags().StringVar(&raw.Deadline, "deadline", "", "any, has-deadline or no-deadline")
	listCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	todosCmd.AddCommand(listCmd)
	return todosCmd
}

func (a *app) listTodos(cmd *cobra.Command, db *database.DB, criteria filter.Criteria, asJSON bool) error {
	ctx := cmd.Context()
	todoService := services.NewTodoService(repository.NewTodoRepository(db.DB), a.logger)
	userService := services.NewUserService(repository.NewUserRepository(db.DB), a.logger)

	todos, err := todoService.ListTodos(ctx, criteria)
	if err != nil {
		return err
	}
	dir, err := userService.Directory(ctx)
	if err != nil {
		return err
	}
	views := ports.NewTodoViews(todos, dir, time.Now())

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ports.TodoListResponse{Todos: views, Count: len(views)})
	}
	return renderTodos(cmd.OutOrStdout(), views, PaletteFor(a.cfg.UI))
}

func (a *app) newUsersCommand() *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect the user directory",
	}

	usersCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users ordered by first name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(func(db *database.DB) error {
				userService := services.NewUserService(repository.NewUserRepository(db.DB), a.logger)
				users, err := userService.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				return renderUsers(cmd.OutOrStdout(), users, PaletteFor(a.cfg.UI))
			})
		},
	})

	return usersCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print todoboard version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "todoboard %s\nGit Commit: %s\nSchema version: %d\n",
				Version, GitCommit, entities.SchemaVersion)
			return err
		},
	}
}
