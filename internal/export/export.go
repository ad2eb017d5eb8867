// Package export dumps the two durable stores to CSV for offline inspection.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"jobsink/internal/repository"
)

// ErrNoData is returned when the exported store holds no rows.
var ErrNoData = errors.New("no data found")

// Source names the store an export reads from.
type Source string

const (
	SourcePostgres Source = "postgres"
	SourceMongo    Source = "mongo"
)

// ParseSource validates a source name given on the command line.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourcePostgres, SourceMongo:
		return Source(s), nil
	}
	return "", fmt.Errorf("unknown export source %q (want %q or %q)", s, SourcePostgres, SourceMongo)
}

// FromPostgres reads the whole relational table. The header is the table's column list.
func FromPostgres(ctx context.Context, jobs repository.JobRepository) (*repository.Table, error) {
	t, err := jobs.Dump(ctx)
	if err != nil {
		return nil, fmt.Errorf("dump postgres: %w", err)
	}
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("postgres: %w", ErrNoData)
	}
	return t, nil
}

// FromMongo reads every document of collection. The header is the key set of the first document.
func FromMongo(ctx context.Context, docs repository.DocumentRepository, collection string) (*repository.Table, error) {
	all, err := docs.All(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("dump mongo %s: %w", collection, err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("mongo %s: %w", collection, ErrNoData)
	}
	return DocumentsTable(all)
}

// WriteCSV writes the header row followed by every row of t.
func WriteCSV(w io.Writer, t *repository.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
