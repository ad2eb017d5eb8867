package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"jobsink/internal/cache"
	"jobsink/internal/model"
	"jobsink/internal/repository"
)

var (
	// ErrDedupLookup is returned when the dedup cache cannot answer whether a job was already processed.
	// The job is not written anywhere in that case.
	ErrDedupLookup = errors.New("dedup lookup failed")
)

const (
	// CompletionMarker is the value stored in the dedup cache once a job is fully processed.
	CompletionMarker = "1"
	// DefaultCollection is the document store collection used when none is configured.
	DefaultCollection = "raw_collection"
)

// IngestService defines the per-job ingestion use case.
type IngestService interface {
	// Ingest runs job through the dedup check, the relational write, the document write and
	// the cache commit, in that order, and returns the terminal outcome.
	//
	// The returned error is non-nil only when the job could not be evaluated at all
	// (missing req_id, dedup cache unreachable). A dropped or partially stored job
	// is reported through the outcome with a nil error.
	Ingest(ctx context.Context, job *model.Job) (Outcome, error)
}

// ingestService is a concrete implementation of IngestService.
type ingestService struct {
	cache      cache.Cache
	jobs       repository.JobRepository
	docs       repository.DocumentRepository
	collection string
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer
}

// Option configures an IngestService.
type Option func(*ingestService)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *ingestService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics enables outcome counters.
func WithMetrics(m *Metrics) Option {
	return func(s *ingestService) {
		s.metrics = m
	}
}

// WithCollection sets the document store collection. Default is DefaultCollection.
func WithCollection(name string) Option {
	return func(s *ingestService) {
		if name != "" {
			s.collection = name
		}
	}
}

// NewIngestService constructs a new IngestService.
func NewIngestService(c cache.Cache, jobs repository.JobRepository, docs repository.DocumentRepository, opts ...Option) IngestService {
	s := &ingestService{
		cache:      c,
		jobs:       jobs,
		docs:       docs,
		collection: DefaultCollection,
		logger:     slog.Default(),
		tracer:     otel.Tracer("jobsink/internal/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "pipeline")
	return s
}

func (s *ingestService) Ingest(ctx context.Context, job *model.Job) (Outcome, error) {
	if err := job.Validate(); err != nil {
		s.logger.Warn("job rejected", "event", "job_rejected", "error", err.Error())
		s.metrics.observe(OutcomeFailed)
		return OutcomeFailed, err
	}

	ctx, span := s.tracer.Start(ctx, "ingest.job", trace.WithAttributes(attribute.String("job.req_id", job.ReqID)))
	defer span.End()
	log := s.logger.With("req_id", job.ReqID)

	// Step 1: dedup gate. An unanswered lookup is never treated as "not a duplicate".
	var duplicate bool
	err := s.stage(ctx, "dedup.exists", func(ctx context.Context) error {
		var err error
		duplicate, err = s.cache.Exists(ctx, job.ReqID)
		return err
	})
	if err != nil {
		log.Error("dedup lookup failed", "event", "dedup_lookup_failed", "error", err.Error())
		return s.finish(span, OutcomeFailed), fmt.Errorf("%w: %w", ErrDedupLookup, err)
	}
	if duplicate {
		log.Info("duplicate job found in cache, skipping", "event", "job_skipped")
		return s.finish(span, OutcomeSkipped), nil
	}

	// Step 2: relational write. On any error the job is dropped, not retried.
	err = s.stage(ctx, "relational.insert", func(ctx context.Context) error {
		return s.jobs.Create(ctx, job)
	})
	if err != nil {
		log.Error("relational insert failed, dropping job",
			"event", "relational_insert_failed",
			"duplicate_key", errors.Is(err, repository.ErrDuplicateKey),
			"values", job,
			"error", err.Error(),
		)
		return s.finish(span, OutcomeFailed), nil
	}
	log.Info("job inserted into relational store", "event", "relational_inserted")

	// Step 3: document write. The relational row stays in place if this fails.
	var docID string
	err = s.stage(ctx, "document.insert", func(ctx context.Context) error {
		var err error
		docID, err = s.docs.Insert(ctx, s.collection, job)
		return err
	})
	if err != nil {
		log.Error("document insert failed, job partially stored",
			"event", "document_insert_failed",
			"collection", s.collection,
			"error", err.Error(),
		)
		return s.finish(span, OutcomePartial), nil
	}
	log.Info("job inserted into document store", "event", "document_inserted", "document_id", docID)

	// Step 4: cache commit. A failure here only costs a clean skip on redelivery.
	err = s.stage(ctx, "dedup.set", func(ctx context.Context) error {
		return s.cache.Set(ctx, job.ReqID, CompletionMarker)
	})
	if err != nil {
		log.Error("caching job failed", "event", "dedup_set_failed", "error", err.Error())
	} else {
		log.Info("job cached", "event", "job_cached")
	}
	return s.finish(span, OutcomeStored), nil
}

// stage runs fn inside a child span named name and records its error on the span.
func (s *ingestService) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, name)
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (s *ingestService) finish(span trace.Span, o Outcome) Outcome {
	span.SetAttributes(attribute.String("job.outcome", o.String()))
	s.metrics.observe(o)
	return o
}
