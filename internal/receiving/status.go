package receiving

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jasperlim/tracelink-backend/pkg/db/models"
	"github.com/jasperlim/tracelink-backend/pkg/enums"
	pkgerrors "github.com/jasperlim/tracelink-backend/pkg/errors"
)

// JobStatus is the per-job diagnostic view.
type JobStatus struct {
	JobID          uuid.UUID                `json:"job_id"`
	BatchID        uuid.UUID                `json:"batch_id"`
	Status         enums.ReceivingJobStatus `json:"status"`
	TotalCodes     int                      `json:"total_codes"`
	ProcessedCodes int                      `json:"processed_codes"`
	FailedCodes    int                      `json:"failed_codes"`
	HeartbeatAt    *time.Time               `json:"heartbeat_at,omitempty"`
	StartedAt      *time.Time               `json:"started_at,omitempty"`
	FinishedAt     *time.Time               `json:"finished_at,omitempty"`
	ElapsedSeconds float64                  `json:"elapsed_seconds"`
	Stalled        bool                     `json:"stalled"`
	LastError      *string                  `json:"last_error,omitempty"`
}

// JobSummary aggregates job counts per status.
type JobSummary struct {
	Queued     int `json:"queued"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
	Cancelled  int `json:"cancelled"`
	Stalled    int `json:"stalled"`
}

// StatusResponse is the receiving-status diagnostic body.
type StatusResponse struct {
	Jobs            []JobStatus `json:"jobs"`
	Summary         JobSummary  `json:"summary"`
	Recommendations []string    `json:"recommendations"`
	GeneratedAt     time.Time   `json:"generated_at"`
}

type jobStore interface {
	ListReceivingJobs(ctx context.Context, limit int) ([]models.ReceivingJob, error)
}

// StatusService answers the read-only receiving-jobs diagnostic.
type StatusService struct {
	repo       jobStore
	staleAfter time.Duration
	limit      int
	now        func() time.Time
}

// NewStatusService wires the diagnostic over the receiving-jobs table.
func NewStatusService(repo jobStore, staleAfter time.Duration, limit int) *StatusService {
	if staleAfter <= 0 {
		staleAfter = 3 * time.Minute
	}
	return &StatusService{
		repo:       repo,
		staleAfter: staleAfter,
		limit:      limit,
		now:        time.Now,
	}
}

// Status reports job health, heartbeat staleness, and recommendations.
func (s *StatusService) Status(ctx context.Context) (*StatusResponse, error) {
	jobs, err := s.repo.ListReceivingJobs(ctx, s.limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list receiving jobs")
	}

	now := s.now().UTC()
	resp := &StatusResponse{
		Jobs:            make([]JobStatus, 0, len(jobs)),
		Recommendations: []string{},
		GeneratedAt:     now,
	}

	for _, job := range jobs {
		view := JobStatus{
			JobID:          job.ID,
			BatchID:        job.BatchID,
			Status:         job.Status,
			TotalCodes:     job.TotalCodes,
			ProcessedCodes: job.ProcessedCodes,
			FailedCodes:    job.FailedCodes,
			HeartbeatAt:    job.HeartbeatAt,
			StartedAt:      job.StartedAt,
			FinishedAt:     job.FinishedAt,
			LastError:      job.LastError,
		}
		if job.StartedAt != nil {
			end := now
			if job.FinishedAt != nil {
				end = *job.FinishedAt
			}
			view.ElapsedSeconds = end.Sub(*job.StartedAt).Seconds()
		}
		if job.Status == enums.ReceivingJobStatusProcessing {
			if job.HeartbeatAt == nil || now.Sub(*job.HeartbeatAt) > s.staleAfter {
				view.Stalled = true
			}
		}
		resp.Jobs = append(resp.Jobs, view)

		if view.Stalled {
			resp.Summary.Stalled++
		}
		switch job.Status {
		case enums.ReceivingJobStatusQueued:
			resp.Summary.Queued++
		case enums.ReceivingJobStatusProcessing:
			resp.Summary.Processing++
		case enums.ReceivingJobStatusCompleted:
			resp.Summary.Completed++
		case enums.ReceivingJobStatusFailed:
			resp.Summary.Failed++
		case enums.ReceivingJobStatusCancelled:
			resp.Summary.Cancelled++
		}
	}

	resp.Recommendations = buildRecommendations(resp.Summary, s.staleAfter)
	return resp, nil
}

func buildRecommendations(summary JobSummary, staleAfter time.Duration) []string {
	recs := []string{}
	if summary.Stalled > 0 {
		recs = append(recs, fmt.Sprintf("%d processing job(s) have a heartbeat older than %s; restart the worker or cancel the job", summary.Stalled, staleAfter))
	}
	if summary.Failed > 0 {
		recs = append(recs, fmt.Sprintf("%d job(s) failed; inspect last_error and requeue", summary.Failed))
	}
	if summary.Queued > 0 && summary.Processing == 0 {
		recs = append(recs, fmt.Sprintf("%d job(s) queued with no worker processing; check worker availability", summary.Queued))
	}
	if len(recs) == 0 {
		recs = append(recs, "receiving pipeline healthy")
	}
	return recs
}
