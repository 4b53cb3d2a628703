package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/qolzam/telar/apps/photo-comments/comments"
	commentErrors "github.com/qolzam/telar/apps/photo-comments/comments/errors"
	"github.com/qolzam/telar/apps/photo-comments/comments/handlers"
	"github.com/qolzam/telar/apps/photo-comments/comments/repository"
	"github.com/qolzam/telar/apps/photo-comments/comments/services"
	"github.com/qolzam/telar/apps/photo-comments/internal/cache"
	"github.com/qolzam/telar/apps/photo-comments/internal/middleware/accesslog"
	"github.com/qolzam/telar/apps/photo-comments/internal/middleware/requestid"
	"github.com/qolzam/telar/apps/photo-comments/internal/pkg/log"
	platformconfig "github.com/qolzam/telar/apps/photo-comments/internal/platform/config"
	"github.com/qolzam/telar/apps/photo-comments/photos"
)

const startupTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  "Connect to the configured store and serve the comments API until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().IntVar(&flagPort, "port", 0, "port to listen on (default: SERVER_PORT)")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	st, err := openStore(startCtx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Warn("Failed to close database: %v", err)
		}
	}()

	log.Info("Preparing %s storage for comments...", cfg.Database.Type)
	if err := st.migrate(startCtx); err != nil {
		log.Warn("Failed to prepare storage (may already exist): %v", err)
	}

	backend, err := cache.NewCache(startCtx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	cacheService := cache.NewGenericCacheService(backend, cfg.Cache.Prefix, cfg.Cache.TTL)
	defer cacheService.Close()
	if cacheService.IsEnabled() {
		log.Info("List cache enabled (%s, ttl %s)", cfg.Cache.Backend, cfg.Cache.TTL)
	}

	checker, err := photos.NewHTTPChecker(cfg.PhotoService)
	if err != nil {
		return err
	}

	app := newApp(cfg, st.repo, checker, cacheService)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting photo comments service on %s", cfg.Server.Address())
		errCh <- app.Listen(cfg.Server.Address())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down photo comments service...")
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// newApp assembles the Fiber application around an already opened store.
func newApp(
	cfg *platformconfig.Config,
	repo repository.CommentRepository,
	checker photos.Checker,
	cacheService *cache.GenericCacheService,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "photo-comments",
		ErrorHandler:          commentErrors.FiberErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(accesslog.New())

	commentService := services.NewCommentService(repo, checker, cacheService, cfg)
	comments.RegisterRoutes(app, &comments.CommentsHandlers{
		CommentHandler: handlers.NewCommentHandler(commentService, cfg),
	}, cfg)

	return app
}
