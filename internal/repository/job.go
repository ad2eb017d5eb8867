package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"jobsink/internal/model"
)

// ErrDuplicateKey is returned by JobRepository.Create when a row with the same req_id already exists.
var ErrDuplicateKey = errors.New("duplicate req_id")

// JobRepository is the relational store: a fixed-schema table keyed by req_id.
// No business logic here, only persistence operations.
type JobRepository interface {
	// Create inserts one row for job. It never updates an existing row: a duplicate
	// req_id fails with an error wrapping ErrDuplicateKey.
	Create(ctx context.Context, job *model.Job) error

	// Dump returns every row of the table with its column names, for offline export.
	Dump(ctx context.Context) (*Table, error)
}

// DocumentRepository is the schema-less document store.
// It enforces no uniqueness: inserting the same req_id twice stores two documents.
type DocumentRepository interface {
	// Insert stores job as one nested document in collection and returns the store-assigned id.
	Insert(ctx context.Context, collection string, job *model.Job) (string, error)

	// All returns every document of collection in natural order, for offline export.
	All(ctx context.Context, collection string) ([]bson.D, error)
}

// Table is a materialized query result: column names plus rows rendered as text.
// A NULL cell is rendered as an empty string.
type Table struct {
	Columns []string
	Rows    [][]string
}
