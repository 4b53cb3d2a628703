// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package mongodb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/qolzam/telar/apps/photo-comments/internal/platform/config"
)

// Client owns the process-wide MongoDB connection pool
type Client struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewClient connects to MongoDB and verifies the connection with a ping
func NewClient(ctx context.Context, cfg config.MongoDBConfig) (*Client, error) {
	clientOptions := options.Client().ApplyURI(buildConnectionURI(cfg))

	if cfg.MaxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		clientOptions.SetMinPoolSize(cfg.MinPoolSize)
	}
	if cfg.ConnectTimeout > 0 {
		clientOptions.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.ServerSelectionTimeout > 0 {
		clientOptions.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{
		client:   client,
		database: client.Database(cfg.Database),
	}, nil
}

// Collection returns a handle on the named collection of the configured database
func (c *Client) Collection(name string) *mongo.Collection {
	return c.database.Collection(name)
}

// Ping checks the primary is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the pool
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// buildConnectionURI uses cfg.URI verbatim when set, otherwise assembles one
// from the discrete host settings.
func buildConnectionURI(cfg config.MongoDBConfig) string {
	if cfg.URI != "" {
		return cfg.URI
	}

	u := url.URL{
		Scheme: "mongodb",
		Host:   cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:   "/",
	}
	if cfg.Username != "" && cfg.Password != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}

	q := url.Values{}
	if cfg.AuthDatabase != "" && u.User != nil {
		q.Set("authSource", cfg.AuthDatabase)
	}
	if cfg.ReplicaSet != "" {
		q.Set("replicaSet", cfg.ReplicaSet)
	}
	if cfg.SSL {
		q.Set("ssl", "true")
	}
	u.RawQuery = q.Encode()

	return u.String()
}
