package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/AutoHawkAI/autohawk-mvp/engine/domain"
	"github.com/AutoHawkAI/autohawk-mvp/pkg/natsutil"
)

// SearchSubject is the NATS subject carrying queued search jobs.
const SearchSubject = "engine.search.jobs"

// QueuedJob is the wire form of a job handed to an out-of-process worker.
type QueuedJob struct {
	JobID    string                `json:"job_id"`
	Criteria domain.SearchCriteria `json:"criteria"`
	Websites []string              `json:"websites"`
}

// Enqueue stores a pending job and publishes it for a worker to execute,
// returning the job id immediately. The job stays pending until a worker
// picks it up.
func (r *Runner) Enqueue(ctx context.Context, nc *nats.Conn, criteria domain.SearchCriteria, websites []string) (string, error) {
	if err := domain.ValidateCriteria(criteria); err != nil {
		return "", err
	}
	jobID := uuid.NewString()
	r.store.Create(jobID)

	msg := QueuedJob{JobID: jobID, Criteria: criteria, Websites: websites}
	if err := natsutil.Publish(ctx, nc, SearchSubject, msg); err != nil {
		r.store.Fail(jobID)
		return "", err
	}
	return jobID, nil
}

// StartConsumer subscribes the runner to queued search jobs. The worker
// process registers the returned subscription for its lifetime.
func StartConsumer(nc *nats.Conn, r *Runner) (*nats.Subscription, error) {
	return natsutil.Subscribe(nc, SearchSubject, func(ctx context.Context, job QueuedJob) {
		if _, err := r.store.Get(job.JobID); err != nil {
			// Job was enqueued by another process; track it here so results
			// are addressable on this side.
			r.store.Create(job.JobID)
		}
		r.Execute(ctx, job.JobID, job.Criteria, job.Websites)
	})
}
