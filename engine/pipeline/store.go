package pipeline

import (
	"fmt"
	"sync"

	"github.com/AutoHawkAI/autohawk-mvp/engine/domain"
)

// Store is the process-wide job store. It is volatile by design: jobs live
// for the lifetime of the process and are never expired. All methods are
// safe for concurrent use; each job id is written by exactly one task.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

// NewStore creates an empty job store.
func NewStore() *Store {
	return &Store{jobs: make(map[string]*domain.Job)}
}

// Create registers a new job in the pending state.
func (s *Store) Create(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[id] = &domain.Job{ID: id, Status: domain.JobPending, Results: []domain.EnrichedListing{}}
}

// SetStatus updates a job's lifecycle state.
func (s *Store) SetStatus(id string, status domain.JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.Status = status
	}
}

// Complete marks a job completed with its final result sequence.
func (s *Store) Complete(id string, results []domain.EnrichedListing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.Status = domain.JobCompleted
		job.Results = results
	}
}

// Fail marks a job failed after a pipeline-level fatal error.
func (s *Store) Fail(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.Status = domain.JobFailed
	}
}

// Get returns a copy of the stored job, or domain.ErrJobNotFound.
func (s *Store) Get(id string) (domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return domain.Job{}, fmt.Errorf("job %q: %w", id, domain.ErrJobNotFound)
	}
	out := domain.Job{ID: job.ID, Status: job.Status, Results: make([]domain.EnrichedListing, len(job.Results))}
	copy(out.Results, job.Results)
	return out, nil
}
