// Package pipeline owns the lifetime of the three store connections behind the ingestion service.
//
// Open establishes every connection up front and fails as a whole: either all three stores
// answered, or nothing stays open. Ingest then processes one job at a time until Close.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"jobsink/internal/cache"
	"jobsink/internal/config"
	"jobsink/internal/database"
	"jobsink/internal/database/migration"
	"jobsink/internal/model"
	"jobsink/internal/repository/mongodb"
	"jobsink/internal/repository/postgres"
	"jobsink/internal/service"
)

// ErrClosed is returned by Ingest after Close.
var ErrClosed = errors.New("pipeline closed")

var (
	openPostgres = database.NewPostgres
	ensureSchema = migration.EnsureMigrated
	openMongo    = database.NewMongo
	openRedis    = database.NewRedis
)

// store is one open connection as the pipeline sees it.
type store struct {
	name  string
	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Pipeline is an opened ingestion pipeline. It is safe for concurrent use; jobs are
// processed strictly one at a time.
type Pipeline struct {
	mu     sync.Mutex
	svc    service.IngestService
	stores []store
	closed bool
	logger *slog.Logger
}

type options struct {
	logger  *slog.Logger
	metrics *service.Metrics
}

// Option configures Open.
type Option func(*options)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics counts job outcomes on m.
func WithMetrics(m *service.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// Open validates cfg and connects PostgreSQL, ensures its schema, then connects MongoDB
// and Redis, in that order. On any failure every connection opened so far is closed
// and the error is returned.
func Open(ctx context.Context, cfg *config.AppConfig, opts ...Option) (*Pipeline, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg == nil {
		return nil, errors.New("pipeline: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p := &Pipeline{logger: o.logger.With("component", "pipeline")}

	db, err := openPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, p.abort(ctx, fmt.Errorf("connect postgres: %w", err))
	}
	p.stores = append(p.stores, store{
		name:  "postgres",
		ping:  db.PingContext,
		close: func(context.Context) error { return db.Close() },
	})
	p.logger.Info("connected to postgres", "event", "store_connected", "store", "postgres", "host", cfg.Database.Host)

	if err := ensureSchema(ctx, db, o.logger, cfg.Database.Host); err != nil {
		return nil, p.abort(ctx, fmt.Errorf("ensure schema: %w", err))
	}

	client, err := openMongo(ctx, cfg.Mongo)
	if err != nil {
		return nil, p.abort(ctx, fmt.Errorf("connect mongo: %w", err))
	}
	p.stores = append(p.stores, store{
		name:  "mongo",
		ping:  func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close: client.Disconnect,
	})
	p.logger.Info("connected to mongo", "event", "store_connected", "store", "mongo", "host", cfg.Mongo.Host)

	rdb, err := openRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, p.abort(ctx, fmt.Errorf("connect redis: %w", err))
	}
	p.stores = append(p.stores, store{
		name:  "redis",
		ping:  func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		close: func(context.Context) error { return rdb.Close() },
	})
	p.logger.Info("connected to redis", "event", "store_connected", "store", "redis", "host", cfg.Redis.Host)

	p.svc = service.NewIngestService(
		cache.NewRedis(rdb, cfg.Redis.KeyPrefix, cfg.Redis.MarkerTTL),
		postgres.NewJobPostgres(db),
		mongodb.NewJobMongo(client.Database(cfg.Mongo.Name)),
		service.WithLogger(o.logger),
		service.WithMetrics(o.metrics),
		service.WithCollection(cfg.Mongo.Collection),
	)
	return p, nil
}

// abort releases whatever Open managed to connect and returns cause joined with any close error.
func (p *Pipeline) abort(ctx context.Context, cause error) error {
	p.logger.Error("pipeline open failed", "event", "pipeline_open_failed", "error", cause.Error())
	return errors.Join(cause, p.Close(ctx))
}

// Ingest runs one job through the pipeline. Calls are serialized.
func (p *Pipeline) Ingest(ctx context.Context, job *model.Job) (service.Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return service.OutcomeFailed, ErrClosed
	}
	return p.svc.Ingest(ctx, job)
}

// Health pings every store and returns the result per store name. A nil value means healthy.
func (p *Pipeline) Health(ctx context.Context) map[string]error {
	p.mu.Lock()
	stores := p.stores
	closed := p.closed
	p.mu.Unlock()

	out := make(map[string]error, len(stores))
	for _, s := range stores {
		if closed {
			out[s.name] = ErrClosed
			continue
		}
		out[s.name] = s.ping(ctx)
	}
	return out
}

// Close releases every connection in reverse opening order and joins their errors.
// Calling Close more than once is a no-op.
func (p *Pipeline) Close(ctx context.Context) error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	for i := len(p.stores) - 1; i >= 0; i-- {
		s := p.stores[i]
		if err := s.close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", s.name, err))
			continue
		}
		p.logger.Info("store connection closed", "event", "store_closed", "store", s.name)
	}
	return errors.Join(errs...)
}
