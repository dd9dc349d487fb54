package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anonto42/microblog/internal/metrics"
	"github.com/anonto42/microblog/internal/migrations"
	"github.com/anonto42/microblog/internal/repositories"
	"github.com/anonto42/microblog/internal/router"
	"github.com/anonto42/microblog/internal/search"
	"github.com/anonto42/microblog/internal/tasks"
	"github.com/anonto42/microblog/pkg/config"
	"github.com/anonto42/microblog/pkg/firebase"
	"github.com/anonto42/microblog/pkg/logger"
	"github.com/anonto42/microblog/pkg/mail"
)

// app is what every subcommand starts from.
type app struct {
	cfg    *config.Config
	db     *config.DB
	mailer mail.Mailer
}

func setup() (*app, error) {
	cfg := config.Load()
	mailer := mail.New(cfg)
	logger.Setup(cfg, mailer)

	db, err := config.InitDB(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return &app{cfg: cfg, db: db, mailer: mailer}, nil
}

func (a *app) Close() {
	a.db.CloseDB()
}

// redisClient returns nil when REDIS_URL is unset or unreachable.
func (a *app) redisClient(ctx context.Context) *redis.Client {
	if a.cfg.RedisURL == "" {
		return nil
	}
	rdb, err := tasks.OpenRedis(ctx, a.cfg.RedisURL)
	if err != nil {
		logrus.WithError(err).Warn("Redis unavailable, background tasks disabled")
		return nil
	}
	return rdb
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Microblog API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newWorkerCmd(), newDBCmd(), newSearchCmd(), newUsersCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the metrics endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	ctx, stop := signalContext(parent)
	defer stop()

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := migrations.Upgrade(a.db.Gorm, ""); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	deps := router.Deps{
		Config:   a.cfg,
		DB:       a.db.Gorm,
		Mailer:   a.mailer,
		Search:   search.New(a.cfg.ElasticsearchURL),
		Firebase: firebase.Optional(ctx, a.cfg.FirebaseCredentialsPath),
	}
	if rdb := a.redisClient(ctx); rdb != nil {
		defer rdb.Close()
		deps.Queue = tasks.NewQueue(rdb, repositories.NewPostgresTaskRepository(a.db.Gorm))
	}
	e := router.New(deps)

	metricsSrv := &http.Server{
		Addr:              ":" + a.cfg.MetricsPort,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("metrics server stopped")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := e.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	return shutdown(e, metricsSrv)
}

func shutdown(e *echo.Echo, metricsSrv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logrus.Info("Shutting down")
	_ = metricsSrv.Shutdown(ctx)
	return e.Shutdown(ctx)
}

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Process background tasks from the Redis queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()

			rdb := a.redisClient(ctx)
			if rdb == nil {
				return errors.New("worker needs a reachable REDIS_URL")
			}
			defer rdb.Close()

			users := repositories.NewPostgresUserRepository(a.db.Gorm)
			posts := repositories.NewPostgresPostRepository(a.db.Gorm)
			worker := tasks.NewWorker(rdb,
				repositories.NewPostgresTaskRepository(a.db.Gorm),
				repositories.NewPostgresNotificationRepository(a.db.Gorm))
			worker.Handle(tasks.ExportPosts, tasks.ExportPostsHandler(posts, users, a.mailer, a.cfg.Sender()))
			return worker.Run(ctx)
		},
	}
}

func newDBCmd() *cobra.Command {
	db := &cobra.Command{
		Use:   "db",
		Short: "Manage database migrations",
	}
	db.AddCommand(
		&cobra.Command{
			Use:   "upgrade [target]",
			Short: "Apply migrations up to target (default: latest)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(a *app) error {
					if err := migrations.Upgrade(a.db.Gorm, firstArg(args)); err != nil {
						return err
					}
					return printCurrent(cmd, a)
				})
			},
		},
		&cobra.Command{
			Use:   "downgrade [target]",
			Short: "Roll back to target (default: undo the last migration)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(a *app) error {
					if err := migrations.Downgrade(a.db.Gorm, firstArg(args)); err != nil {
						return err
					}
					return printCurrent(cmd, a)
				})
			},
		},
		&cobra.Command{
			Use:   "current",
			Short: "Print the latest applied migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(a *app) error { return printCurrent(cmd, a) })
			},
		},
		&cobra.Command{
			Use:   "history",
			Short: "List every known migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, id := range migrations.IDs() {
					cmd.Println(id)
				}
				return nil
			},
		},
	)
	return db
}

func newSearchCmd() *cobra.Command {
	s := &cobra.Command{
		Use:   "search",
		Short: "Manage the full-text search index",
	}
	s.AddCommand(&cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the posts index from the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(a *app) error {
				if a.cfg.ElasticsearchURL == "" {
					return errors.New("ELASTICSEARCH_URL is not set")
				}
				idx, err := search.NewElasticIndex(a.cfg.ElasticsearchURL)
				if err != nil {
					return err
				}
				n, err := search.Reindex(cmd.Context(), idx, repositories.NewPostgresPostRepository(a.db.Gorm))
				if err != nil {
					return err
				}
				cmd.Printf("indexed %d posts\n", n)
				return nil
			})
		},
	})
	return s
}

func newUsersCmd() *cobra.Command {
	u := &cobra.Command{
		Use:   "users",
		Short: "Look up and remove accounts",
	}
	u.AddCommand(
		&cobra.Command{
			Use:   "find <query>",
			Short: "List users whose username or email contains query",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(a *app) error {
					users, err := repositories.NewPostgresUserRepository(a.db.Gorm).SearchUsers(args[0])
					if err != nil {
						return err
					}
					for _, user := range users {
						cmd.Printf("%d\t%s\t%s\n", user.ID, user.Username, user.Email)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete <username>",
			Short: "Delete a user with their posts and follows",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(func(a *app) error {
					return deleteUser(cmd, a, args[0])
				})
			},
		},
	)
	return u
}

func deleteUser(cmd *cobra.Command, a *app, username string) error {
	users := repositories.NewPostgresUserRepository(a.db.Gorm)
	user, err := users.GetUserByUsername(username)
	if repositories.IsNotFound(err) {
		return fmt.Errorf("user %q not found", username)
	}
	if err != nil {
		return err
	}
	posts, err := repositories.NewPostgresPostRepository(a.db.Gorm).PostsForExport(user.ID)
	if err != nil {
		return err
	}
	if err := users.DeleteUser(user.ID); err != nil {
		return err
	}

	idx := search.New(a.cfg.ElasticsearchURL)
	for _, p := range posts {
		if err := idx.Remove(cmd.Context(), search.PostsIndex, p.ID); err != nil {
			logrus.WithError(err).WithField("post_id", p.ID).Warn("failed to remove post from index")
		}
	}
	cmd.Printf("deleted %s and %d posts\n", user.Username, len(posts))
	return nil
}

func withDB(fn func(a *app) error) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func printCurrent(cmd *cobra.Command, a *app) error {
	current, err := migrations.Current(a.db.Gorm)
	if err != nil {
		return err
	}
	if current == "" {
		current = "(none)"
	}
	cmd.Printf("current migration: %s\n", current)
	return nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
