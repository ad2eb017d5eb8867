package handler

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"

	"jobsink/internal/model"
	"jobsink/internal/pipeline"
	"jobsink/internal/service"
	"jobsink/internal/source"
)

// IngestResponse reports the terminal outcome of one job.
type IngestResponse struct {
	ReqID   string          `json:"req_id"`
	Outcome service.Outcome `json:"outcome"`
}

// FeedResult is the outcome of one feed entry, by position in the feed.
type FeedResult struct {
	Index   int             `json:"index"`
	ReqID   string          `json:"req_id"`
	Outcome service.Outcome `json:"outcome"`
	Error   string          `json:"error,omitempty"`
}

// FeedResponse summarizes a processed feed.
type FeedResponse struct {
	Results []FeedResult   `json:"results"`
	Counts  map[string]int `json:"counts"`
}

// outcomeStatus maps a terminal outcome to the HTTP status of POST /jobs.
var outcomeStatus = map[service.Outcome]int{
	service.OutcomeStored:  fiber.StatusCreated,
	service.OutcomePartial: fiber.StatusAccepted,
	service.OutcomeSkipped: fiber.StatusOK,
}

// IngestJob godoc
// @Summary Ingest one job
// @Description Runs one job record through dedup, relational insert, document insert and cache commit.
// @Tags jobs
// @Accept json
// @Produce json
// @Param job body model.Job true "Job record"
// @Success 201 {object} IngestResponse "stored in both stores"
// @Success 202 {object} IngestResponse "stored in the relational store only"
// @Success 200 {object} IngestResponse "duplicate, skipped"
// @Failure 400 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Router /jobs [post]
func IngestJob(svc service.IngestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var job model.Job
		if err := c.App().Config().JSONDecoder(c.Body(), &job); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be a JSON job object")
		}

		outcome, err := svc.Ingest(c.UserContext(), &job)
		if err != nil {
			return ingestError(c, err)
		}
		if outcome == service.OutcomeFailed {
			return writeError(c, fiber.StatusUnprocessableEntity, "RECORD_DROPPED", "job was rejected by the relational store")
		}
		return c.Status(outcomeStatus[outcome]).JSON(IngestResponse{ReqID: job.ReqID, Outcome: outcome})
	}
}

// IngestFeed godoc
// @Summary Ingest a feed
// @Description Decodes a jobs feed document and ingests its jobs one after another. Entries that cannot be decoded are reported as failed.
// @Tags jobs
// @Accept json
// @Produce json
// @Success 200 {object} FeedResponse
// @Failure 400 {object} errorPayload
// @Router /feeds [post]
func IngestFeed(svc service.IngestService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := source.Decode(bytes.NewReader(c.Body()))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FEED", "body must be a job feed document")
		}

		res := FeedResponse{Results: make([]FeedResult, 0, len(entries)), Counts: map[string]int{}}
		for i, e := range entries {
			r := FeedResult{Index: i, ReqID: e.Job.ReqID, Outcome: service.OutcomeFailed}
			if e.Err != nil {
				r.Error = e.Err.Error()
			} else if r.Outcome, err = svc.Ingest(c.UserContext(), e.Job); err != nil {
				r.Error = err.Error()
			}
			res.Results = append(res.Results, r)
			res.Counts[r.Outcome.String()]++
		}
		return c.Status(fiber.StatusOK).JSON(res)
	}
}

func ingestError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, model.ErrReqIDRequired):
		return writeError(c, fiber.StatusBadRequest, "REQ_ID_REQUIRED", "req_id is required")
	case errors.Is(err, service.ErrDedupLookup):
		return writeError(c, fiber.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE", "dedup cache unavailable")
	case errors.Is(err, pipeline.ErrClosed):
		return writeError(c, fiber.StatusServiceUnavailable, "SHUTTING_DOWN", "server is shutting down")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
