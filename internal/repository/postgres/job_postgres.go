package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"jobsink/internal/database/migration"
	"jobsink/internal/model"
	"jobsink/internal/repository"
)

// uniqueViolation is the SQLSTATE PostgreSQL reports for a primary key conflict.
const uniqueViolation = "23505"

// jobColumns lists the insert columns in placeholder order.
var jobColumns = []string{
	"slug", "language", "languages", "req_id", "title", "description",
	"street_address", "city", "state", "country_code", "postal_code",
	"location_type", "latitude", "longitude", "categories", "tags", "tags5",
	"tags6", "brand", "promotion_value", "salary_currency", "salary_value",
	"salary_min_value", "salary_max_value", "benefits", "employment_type",
	"hiring_organization", "source", "apply_url", "internal", "searchable",
	"applyable", "li_easy_applyable", "ats_code", "update_date", "create_date",
	"category", "full_location", "short_location",
}

// JobPostgres is a PostgreSQL implementation of repository.JobRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type JobPostgres struct {
	db *sql.DB
}

// NewJobPostgres creates a new JobPostgres repository.
func NewJobPostgres(db *sql.DB) *JobPostgres {
	return &JobPostgres{db: db}
}

var _ repository.JobRepository = (*JobPostgres)(nil)

// Create inserts a new job row. List fields are bound as JSON text into jsonb columns.
func (r *JobPostgres) Create(ctx context.Context, job *model.Job) error {
	const q = `
		INSERT INTO raw_table (
			slug, language, languages, req_id, title, description,
			street_address, city, state, country_code, postal_code,
			location_type, latitude, longitude, categories, tags, tags5,
			tags6, brand, promotion_value, salary_currency, salary_value,
			salary_min_value, salary_max_value, benefits, employment_type,
			hiring_organization, source, apply_url, internal, searchable,
			applyable, li_easy_applyable, ats_code, update_date, create_date,
			category, full_location, short_location
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26,
			$27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39
		)
	`
	args, err := insertArgs(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ReqID, err)
	}

	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("insert job %s: %w", job.ReqID, repository.ErrDuplicateKey)
		}
		return fmt.Errorf("insert job %s: %w", job.ReqID, err)
	}
	return nil
}

// Dump reads the whole table. Column names come from the result set, not from jobColumns,
// so the header follows the physical table.
func (r *JobPostgres) Dump(ctx context.Context) (*repository.Table, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT * FROM "+migration.JobsTable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := &repository.Table{Columns: cols, Rows: make([][]string, 0)}
	for rows.Next() {
		cells := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := make([]string, len(cols))
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			}
		}
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// insertArgs flattens job into the placeholder order of jobColumns.
func insertArgs(job *model.Job) ([]any, error) {
	lists := map[string]model.List{
		"languages":  job.Languages,
		"categories": job.Categories,
		"tags":       job.Tags,
		"tags5":      job.Tags5,
		"tags6":      job.Tags6,
		"benefits":   job.Benefits,
		"category":   job.Category,
	}
	encoded := make(map[string]string, len(lists))
	for name, l := range lists {
		s, err := l.JSON()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		encoded[name] = s
	}

	return []any{
		job.Slug,
		job.Language,
		encoded["languages"],
		job.ReqID,
		job.Title,
		job.Description,
		job.StreetAddress,
		job.City,
		job.State,
		job.CountryCode,
		job.PostalCode,
		job.LocationType,
		job.Latitude,
		job.Longitude,
		encoded["categories"],
		encoded["tags"],
		encoded["tags5"],
		encoded["tags6"],
		job.Brand,
		job.PromotionValue,
		job.SalaryCurrency,
		job.SalaryValue,
		job.SalaryMinValue,
		job.SalaryMaxValue,
		encoded["benefits"],
		job.EmploymentType,
		job.HiringOrganization,
		job.Source,
		job.ApplyURL,
		job.Internal,
		job.Searchable,
		job.Applyable,
		job.LiEasyApplyable,
		job.ATSCode,
		job.UpdateDate,
		job.CreateDate,
		encoded["category"],
		job.FullLocation,
		job.ShortLocation,
	}, nil
}
