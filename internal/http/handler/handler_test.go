package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"jobsink/internal/http/middleware"
	"jobsink/internal/model"
	"jobsink/internal/pipeline"
	"jobsink/internal/service"
	serviceMocks "jobsink/internal/service/mocks"
)

type fakeHealth map[string]error

func (f fakeHealth) Health(context.Context) map[string]error { return f }

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", HealthCheck(fakeHealth{"postgres": nil, "mongo": nil, "redis": nil}))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body HealthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, map[string]string{"postgres": "ok", "mongo": "ok", "redis": "ok"}, body.Stores)
	})

	t.Run("unhealthy", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", HealthCheck(fakeHealth{
			"postgres": nil,
			"mongo":    errors.New("server selection timeout"),
			"redis":    errors.New("connection refused"),
		}))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
		assert.Equal(t, "dependency unavailable: mongo, redis", body.Error.Message)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIngestJob(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		setupMocks  func(m *serviceMocks.MockIngestService)
		wantStatus  int
		wantOutcome service.Outcome
		wantCode    string
	}{
		{
			name: "stored",
			body: `{"req_id":"J-100","title":"Engineer","tags":["go"]}`,
			setupMocks: func(m *serviceMocks.MockIngestService) {
				m.On("Ingest", mock.Anything, mock.MatchedBy(func(j *model.Job) bool {
					return j.ReqID == "J-100" && *j.Title == "Engineer" && len(j.Tags) == 1
				})).Return(service.OutcomeStored, nil).Once()
			},
			wantStatus:  http.StatusCreated,
			wantOutcome: service.OutcomeStored,
		},
		{
			name: "partial",
			body: `{"req_id":"J-100"}`,
			setupMocks: func(m *serviceMocks.MockIngestService) {
				m.On("Ingest", mock.Anything, mock.Anything).Return(service.OutcomePartial, nil).Once()
			},
			wantStatus:  http.StatusAccepted,
			wantOutcome: service.OutcomePartial,
		},
		{
			name: "skipped",
			body: `{"req_id":"J-100"}`,
			setupMocks: func(m *serviceMocks.MockIngestService) {
				m.On("Ingest", mock.Anything, mock.Anything).Return(service.OutcomeSkipped, nil).Once()
			},
			wantStatus:  http.StatusOK,
			wantOutcome: service.OutcomeSkipped,
		},
		{
			name: "dropped",
			body: `{"req_id":"J-100"}`,
			setupMocks: func(m *serviceMocks.MockIngestService) {
				m.On("Ingest", mock.Anything, mock.Anything).Return(service.OutcomeFailed, nil).Once()
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "RECORD_DROPPED",
		},
		{
			name: "missing req_id",
			body: `{"title":"Engineer"}`,
			setupMocks: func(m *serviceMocks.MockIngestService) {
				m.On("Ingest", mock.Anything, mock.Anything).Return(service.OutcomeFailed, model.ErrReqIDRequired).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "REQ_ID_REQUIRED",
		},
		{
			name: "dedup cache down",
			body: `{"req_id":"J-100"}`,
			setupMocks: func(m *serviceMocks.MockIngestService) {
				m.On("Ingest", mock.Anything, mock.Anything).
					Return(service.OutcomeFailed, errors.Join(service.ErrDedupLookup, errors.New("dial tcp"))).Once()
			},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "DEPENDENCY_UNAVAILABLE",
		},
		{
			name: "pipeline closed",
			body: `{"req_id":"J-100"}`,
			setupMocks: func(m *serviceMocks.MockIngestService) {
				m.On("Ingest", mock.Anything, mock.Anything).Return(service.OutcomeFailed, pipeline.ErrClosed).Once()
			},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "SHUTTING_DOWN",
		},
		{
			name:       "invalid body",
			body:       `{"req_id":`,
			setupMocks: func(*serviceMocks.MockIngestService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_BODY",
		},
		{
			name:       "wrong field type",
			body:       `{"req_id":"J-100","salary_value":"lots"}`,
			setupMocks: func(*serviceMocks.MockIngestService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_BODY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockIngestService)
			tt.setupMocks(mockSvc)

			app := fiber.New()
			app.Use(middleware.RequestID())
			app.Post("/jobs", IngestJob(mockSvc))

			req := httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				var body errorPayload
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.wantCode, body.Error.Code)
				assert.Equal(t, resp.Header.Get(middleware.RequestIDHeader), body.RequestID)
			} else {
				var body IngestResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, "J-100", body.ReqID)
				assert.Equal(t, tt.wantOutcome, body.Outcome)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestIngestFeed(t *testing.T) {
	feed := `{"jobs":[
		{"data":{"req_id":"J-100"}},
		{"data":{"req_id":"J-200"}},
		{"data":{"req_id":"J-100"}},
		{"data":{}}
	]}`

	mockSvc := new(serviceMocks.MockIngestService)
	var order []string
	record := func(args mock.Arguments) { order = append(order, args.Get(1).(*model.Job).ReqID) }
	reqID := func(id string) any {
		return mock.MatchedBy(func(j *model.Job) bool { return j.ReqID == id })
	}
	mockSvc.On("Ingest", mock.Anything, reqID("J-100")).Return(service.OutcomeStored, nil).Run(record).Once()
	mockSvc.On("Ingest", mock.Anything, reqID("J-200")).Return(service.OutcomePartial, nil).Run(record).Once()
	mockSvc.On("Ingest", mock.Anything, reqID("J-100")).Return(service.OutcomeSkipped, nil).Run(record).Once()
	mockSvc.On("Ingest", mock.Anything, reqID("")).Return(service.OutcomeFailed, model.ErrReqIDRequired).Run(record).Once()

	app := fiber.New()
	app.Post("/feeds", IngestFeed(mockSvc))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/feeds", strings.NewReader(feed)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body FeedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, []string{"J-100", "J-200", "J-100", ""}, order)
	require.Len(t, body.Results, 4)
	assert.Equal(t, service.OutcomeSkipped, body.Results[2].Outcome)
	assert.Equal(t, 3, body.Results[3].Index)
	assert.Equal(t, "req_id is required", body.Results[3].Error)
	assert.Equal(t, map[string]int{"stored": 1, "partial": 1, "skipped": 1, "failed": 1}, body.Counts)
	mockSvc.AssertExpectations(t)
}

func TestIngestFeed_BadEntryDoesNotStopOthers(t *testing.T) {
	feed := `{"jobs":[
		{"data":{"req_id":"J-1"}},
		{"data":{"req_id":"J-2","salary_value":"lots"}},
		{"data":{"req_id":"J-3","salary_value":120000.0}}
	]}`

	mockSvc := new(serviceMocks.MockIngestService)
	mockSvc.On("Ingest", mock.Anything, mock.MatchedBy(func(j *model.Job) bool { return j.ReqID == "J-1" })).
		Return(service.OutcomeStored, nil).Once()
	mockSvc.On("Ingest", mock.Anything, mock.MatchedBy(func(j *model.Job) bool {
		return j.ReqID == "J-3" && j.SalaryValue != nil && *j.SalaryValue == 120000
	})).Return(service.OutcomeStored, nil).Once()

	app := fiber.New()
	app.Post("/feeds", IngestFeed(mockSvc))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/feeds", strings.NewReader(feed)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body FeedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Len(t, body.Results, 3)
	assert.Equal(t, service.OutcomeStored, body.Results[0].Outcome)
	assert.Equal(t, "J-2", body.Results[1].ReqID)
	assert.Equal(t, service.OutcomeFailed, body.Results[1].Outcome)
	assert.Contains(t, body.Results[1].Error, "decode job 1")
	assert.Equal(t, service.OutcomeStored, body.Results[2].Outcome)
	assert.Equal(t, map[string]int{"stored": 2, "failed": 1}, body.Counts)
	mockSvc.AssertExpectations(t)
	mockSvc.AssertNumberOfCalls(t, "Ingest", 2)
}

func TestIngestFeed_InvalidDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockIngestService)
	app := fiber.New()
	app.Post("/feeds", IngestFeed(mockSvc))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/feeds", strings.NewReader(`{"jobs":{}}`)))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INVALID_FEED", body.Error.Code)
	mockSvc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	processed := prometheus.NewCounter(prometheus.CounterOpts{Name: "jobsink_test_processed_total", Help: "test"})
	reg.MustRegister(processed)
	processed.Inc()

	app := fiber.New()
	app.Get("/metrics", Metrics(reg))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "jobsink_test_processed_total 1")
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})
	RegisterRoutes(app, new(serviceMocks.MockIngestService), fakeHealth{}, prometheus.NewRegistry())

	t.Run("not found route", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// /jobs only accepts POST.
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/jobs", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})
}
