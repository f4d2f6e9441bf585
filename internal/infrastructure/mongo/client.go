package mongo

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/internal/config"
)

// BootstrapFunc runs once per process after the first successful ping
// (index creation and the like).
type BootstrapFunc func(ctx context.Context, db *mongo.Database) error

// Client owns the process-wide Mongo handle. The driver dials lazily, so
// EnsureConnected is what actually proves the deployment is reachable.
type Client struct {
	client    *mongo.Client
	db        *mongo.Database
	bootstrap []BootstrapFunc
	logger    *zap.Logger

	mu    sync.Mutex
	ready bool
}

// NewClient builds the driver client. Only a malformed URI fails here.
func NewClient(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger, bootstrap ...BootstrapFunc) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &Client{
		client:    client,
		db:        client.Database(cfg.Database),
		bootstrap: bootstrap,
		logger:    logger,
	}, nil
}

// Database returns the configured database handle.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// EnsureConnected pings the deployment and runs the bootstrap functions the
// first time it succeeds. Safe to call before every request.
func (c *Client) EnsureConnected(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		return nil
	}

	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return err
	}
	for _, fn := range c.bootstrap {
		if err := fn(ctx, c.db); err != nil {
			return err
		}
	}

	c.ready = true
	c.logger.Info("connected to mongodb", zap.String("db", c.db.Name()))
	return nil
}

// Ping checks reachability without touching the ready flag.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the driver, bounded by ctx.
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	return c.client.Disconnect(ctx)
}
