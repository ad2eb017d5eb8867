package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrReqIDRequired is returned when a job arrives without a usable identifier.
var ErrReqIDRequired = errors.New("req_id is required")

// List is a JSON array of arbitrary elements (strings, numbers or nested objects).
// A nil List means the field was absent in the source record.
type List []any

// OrEmpty returns l, or an empty non-nil List when l is nil.
func (l List) OrEmpty() List {
	if l == nil {
		return List{}
	}
	return l
}

// JSON encodes l as a JSON array. A nil List encodes as "[]", never "null".
func (l List) JSON() (string, error) {
	b, err := json.Marshal(l.OrEmpty())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Job is one job posting delivered by the record source.
// Only ReqID is mandatory; every other field is optional and nil when absent.
// This is a pure domain model with no database-specific dependencies or tags.
type Job struct {
	ReqID string `json:"req_id"`

	Slug        *string `json:"slug,omitempty"`
	Language    *string `json:"language,omitempty"`
	Languages   List    `json:"languages,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`

	StreetAddress *string  `json:"street_address,omitempty"`
	City          *string  `json:"city,omitempty"`
	State         *string  `json:"state,omitempty"`
	CountryCode   *string  `json:"country_code,omitempty"`
	PostalCode    *string  `json:"postal_code,omitempty"`
	LocationType  *string  `json:"location_type,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	FullLocation  *string  `json:"full_location,omitempty"`
	ShortLocation *string  `json:"short_location,omitempty"`

	Categories List `json:"categories,omitempty"`
	Tags       List `json:"tags,omitempty"`
	Tags5      List `json:"tags5,omitempty"`
	Tags6      List `json:"tags6,omitempty"`
	Category   List `json:"category,omitempty"`
	Benefits   List `json:"benefits,omitempty"`

	Brand          *string `json:"brand,omitempty"`
	PromotionValue *int64  `json:"promotion_value,omitempty"`
	SalaryCurrency *string `json:"salary_currency,omitempty"`
	SalaryValue    *int64  `json:"salary_value,omitempty"`
	SalaryMinValue *int64  `json:"salary_min_value,omitempty"`
	SalaryMaxValue *int64  `json:"salary_max_value,omitempty"`

	EmploymentType     *string `json:"employment_type,omitempty"`
	HiringOrganization *string `json:"hiring_organization,omitempty"`
	Source             *string `json:"source,omitempty"`
	ApplyURL           *string `json:"apply_url,omitempty"`
	ATSCode            *string `json:"ats_code,omitempty"`
	UpdateDate         *string `json:"update_date,omitempty"`
	CreateDate         *string `json:"create_date,omitempty"`

	Internal        *bool `json:"internal,omitempty"`
	Searchable      *bool `json:"searchable,omitempty"`
	Applyable       *bool `json:"applyable,omitempty"`
	LiEasyApplyable *bool `json:"li_easy_applyable,omitempty"`
}

// UnmarshalJSON decodes a job record. Integer fields also accept integral floats
// such as 120000.0, which feeds emit for whole-number amounts.
func (j *Job) UnmarshalJSON(data []byte) error {
	type plain Job
	aux := struct {
		*plain
		PromotionValue *json.Number `json:"promotion_value,omitempty"`
		SalaryValue    *json.Number `json:"salary_value,omitempty"`
		SalaryMinValue *json.Number `json:"salary_min_value,omitempty"`
		SalaryMaxValue *json.Number `json:"salary_max_value,omitempty"`
	}{plain: (*plain)(j)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	for _, f := range []struct {
		name string
		src  *json.Number
		dst  **int64
	}{
		{"promotion_value", aux.PromotionValue, &j.PromotionValue},
		{"salary_value", aux.SalaryValue, &j.SalaryValue},
		{"salary_min_value", aux.SalaryMinValue, &j.SalaryMinValue},
		{"salary_max_value", aux.SalaryMaxValue, &j.SalaryMaxValue},
	} {
		if f.src == nil {
			*f.dst = nil
			continue
		}
		v, err := integral(*f.src)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = &v
	}
	return nil
}

// integral converts n to int64, accepting floats without a fractional part.
func integral(n json.Number) (int64, error) {
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", n.String())
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%s is not an integer in range", n.String())
	}
	return int64(f), nil
}

// Validate checks that the job can be deduplicated, i.e. that it carries a non-blank req_id.
func (j *Job) Validate() error {
	if j == nil || strings.TrimSpace(j.ReqID) == "" {
		return ErrReqIDRequired
	}
	return nil
}

// Ptr returns a pointer to v. Handy for building optional fields.
func Ptr[T any](v T) *T {
	return &v
}
