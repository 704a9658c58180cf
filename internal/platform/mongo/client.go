// File: internal/platform/mongo/client.go
package mongo

import (
	"context"
	"fmt"
	"sync"

	"servicehub_backend/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Provider owns the process-wide document-store client. The client is
// established lazily on first use and reused for the lifetime of the process;
// concurrent first callers are serialized by the once guard so only a single
// connection pool is ever created.
type Provider struct {
	cfg    *config.Config
	logger *zap.Logger

	once    sync.Once
	client  *mongo.Client
	initErr error
}

// NewProvider creates a Provider. No connection is attempted here; the URI was
// already validated at config load.
func NewProvider(cfg *config.Config, logger *zap.Logger) *Provider {
	return &Provider{
		cfg:    cfg,
		logger: logger.Named("MongoProvider"),
	}
}

// Client returns the shared client, connecting on first call. A failed first
// attempt is sticky for the Provider; callers get the same error back rather
// than hammering the store with reconnects.
func (p *Provider) Client(ctx context.Context) (*mongo.Client, error) {
	p.once.Do(func() {
		connectCtx, cancel := context.WithTimeout(ctx, p.cfg.MongoConnectTimeout)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(p.cfg.MongoURI))
		if err != nil {
			p.initErr = fmt.Errorf("failed to connect to document store: %w", err)
			p.logger.Error("Document store connection failed", zap.Error(err))
			return
		}
		if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
			p.initErr = fmt.Errorf("failed to ping document store: %w", err)
			p.logger.Error("Document store ping failed", zap.Error(err))
			return
		}
		p.client = client
		p.logger.Info("Connected to document store",
			zap.String("database", p.cfg.MongoDBName))
	})
	return p.client, p.initErr
}

// Database returns a handle for the named database, defaulting to the
// configured database name when name is empty.
func (p *Provider) Database(ctx context.Context, name string) (*mongo.Database, error) {
	client, err := p.Client(ctx)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = p.cfg.MongoDBName
	}
	return client.Database(name), nil
}

// Ping verifies connectivity against the primary.
func (p *Provider) Ping(ctx context.Context) error {
	client, err := p.Client(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}

// Close disconnects the shared client if it was ever established.
func (p *Provider) Close(ctx context.Context) {
	if p.client == nil {
		return
	}
	if err := p.client.Disconnect(ctx); err != nil {
		p.logger.Error("Error disconnecting document store client", zap.Error(err))
	}
}
