package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJob_Validate(t *testing.T) {
	tests := []struct {
		name    string
		job     *Job
		wantErr error
	}{
		{name: "valid", job: &Job{ReqID: "J-100"}},
		{name: "empty req_id", job: &Job{}, wantErr: ErrReqIDRequired},
		{name: "blank req_id", job: &Job{ReqID: "   "}, wantErr: ErrReqIDRequired},
		{name: "nil job", job: nil, wantErr: ErrReqIDRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestList_JSON(t *testing.T) {
	var absent List
	got, err := absent.JSON()
	require.NoError(t, err)
	assert.Equal(t, "[]", got)

	got, err = List{"go", "infra"}.JSON()
	require.NoError(t, err)
	assert.Equal(t, `["go","infra"]`, got)

	got, err = List{map[string]any{"name": "health"}}.JSON()
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"health"}]`, got)
}

func TestJob_UnmarshalSourceRecord(t *testing.T) {
	raw := `{
		"req_id": "J-100",
		"title": "Engineer",
		"tags": ["go", "infra"],
		"latitude": 40.7,
		"salary_value": 120000,
		"internal": false,
		"categories": [{"id": 3, "name": "Engineering"}]
	}`

	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))

	assert.Equal(t, "J-100", job.ReqID)
	require.NotNil(t, job.Title)
	assert.Equal(t, "Engineer", *job.Title)
	assert.Equal(t, List{"go", "infra"}, job.Tags)
	assert.InDelta(t, 40.7, *job.Latitude, 1e-9)
	assert.Equal(t, int64(120000), *job.SalaryValue)
	require.NotNil(t, job.Internal)
	assert.False(t, *job.Internal)
	assert.Len(t, job.Categories, 1)

	assert.Nil(t, job.Description)
	assert.Nil(t, job.Benefits)
	assert.Equal(t, List{}, job.Benefits.OrEmpty())
}

func TestJob_UnmarshalIntegerFields(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    *int64
		wantErr string
	}{
		{name: "integer", raw: `{"req_id":"J-1","salary_value":120000}`, want: Ptr(int64(120000))},
		{name: "integral float", raw: `{"req_id":"J-1","salary_value":120000.0}`, want: Ptr(int64(120000))},
		{name: "exponent", raw: `{"req_id":"J-1","salary_value":1.2e5}`, want: Ptr(int64(120000))},
		{name: "null", raw: `{"req_id":"J-1","salary_value":null}`},
		{name: "absent", raw: `{"req_id":"J-1"}`},
		{name: "fractional", raw: `{"req_id":"J-1","salary_value":120000.5}`, wantErr: "salary_value"},
		{name: "out of range", raw: `{"req_id":"J-1","salary_value":1e30}`, wantErr: "salary_value"},
		{name: "string", raw: `{"req_id":"J-1","salary_value":"lots"}`, wantErr: "number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var job Job
			err := json.Unmarshal([]byte(tt.raw), &job)

			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "J-1", job.ReqID)
			assert.Equal(t, tt.want, job.SalaryValue)
		})
	}
}

func TestJob_UnmarshalKeepsOtherIntegerFields(t *testing.T) {
	var job Job
	require.NoError(t, json.Unmarshal([]byte(`{"req_id":"J-1","promotion_value":3.0,"salary_min_value":90000,"salary_max_value":150000.0}`), &job))

	assert.Equal(t, int64(3), *job.PromotionValue)
	assert.Equal(t, int64(90000), *job.SalaryMinValue)
	assert.Equal(t, int64(150000), *job.SalaryMaxValue)
	assert.Nil(t, job.SalaryValue)
}
