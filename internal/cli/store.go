package cli

import (
	"context"
	"fmt"

	"github.com/qolzam/telar/apps/photo-comments/comments/repository"
	"github.com/qolzam/telar/apps/photo-comments/internal/database/mongodb"
	"github.com/qolzam/telar/apps/photo-comments/internal/database/postgres"
	"github.com/qolzam/telar/apps/photo-comments/internal/pkg/log"
	platformconfig "github.com/qolzam/telar/apps/photo-comments/internal/platform/config"
)

// store is an opened comment repository and the connection behind it.
type store struct {
	repo  repository.CommentRepository
	close func(ctx context.Context) error

	// migrate prepares the schema or indexes for the selected backend.
	migrate func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg platformconfig.DatabaseConfig) (*store, error) {
	switch cfg.Type {
	case platformconfig.DatabaseTypeMongoDB:
		client, err := mongodb.NewClient(ctx, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		repo := repository.NewMongoCommentRepository(client.Collection(cfg.MongoDB.Collection))
		log.Info("Connected to MongoDB database %q", cfg.MongoDB.Database)
		return &store{
			repo:    repo,
			close:   client.Close,
			migrate: repo.EnsureIndexes,
		}, nil

	case platformconfig.DatabaseTypePostgreSQL:
		client, err := postgres.NewClient(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		log.Info("Connected to PostgreSQL database")
		return &store{
			repo:    repository.NewPostgresCommentRepository(client),
			close:   func(context.Context) error { return client.Close() },
			migrate: client.Migrate,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}
