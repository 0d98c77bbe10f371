//go:build unit || e2e

package fakes

import (
	"context"
	"sync"
	"time"

	"tour-checkout/internal/domain/payment"
	"tour-checkout/internal/infra"
	"tour-checkout/internal/infra/sqlstore"
	"tour-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

// Job is an outbox row as the fake ledger keeps it.
type Job struct {
	shared.NotificationJob
	Status    string
	LastError string
}

// UnitOfWork is an in-memory outcome ledger and outbox. Changes made inside
// Within are discarded when fn returns an error.
type UnitOfWork struct {
	mu       sync.Mutex
	outcomes map[string]payment.Outcome
	jobs     []Job
	// Err, when set, fails every transaction before fn runs.
	Err error
}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{outcomes: map[string]payment.Outcome{}}
}

func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.Err != nil {
		return u.Err
	}

	tx := &fakeTx{outcomes: map[string]payment.Outcome{}, jobs: append([]Job(nil), u.jobs...)}
	for k, v := range u.outcomes {
		tx.outcomes[k] = v
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	u.outcomes = tx.outcomes
	u.jobs = tx.jobs
	return nil
}

func (u *UnitOfWork) Outcomes() []payment.Outcome {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]payment.Outcome, 0, len(u.outcomes))
	for _, o := range u.outcomes {
		out = append(out, o)
	}
	return out
}

func (u *UnitOfWork) Jobs() []Job {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]Job(nil), u.jobs...)
}

// AddJob seeds a queued outbox row.
func (u *UnitOfWork) AddJob(job shared.NotificationJob) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	u.jobs = append(u.jobs, Job{NotificationJob: job, Status: shared.JobQueued})
}

type fakeTx struct {
	outcomes map[string]payment.Outcome
	jobs     []Job
}

func (t *fakeTx) Outcomes() shared.OutcomeRepository           { return outcomeRepo{t} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return notificationRepo{t} }
func (t *fakeTx) DB() sqlstore.DBTX                            { return nil }

type outcomeRepo struct{ tx *fakeTx }

func (r outcomeRepo) Insert(_ context.Context, _ sqlstore.DBTX, o payment.Outcome) (bool, error) {
	if _, ok := r.tx.outcomes[o.Key]; ok {
		return false, nil
	}
	for _, existing := range r.tx.outcomes {
		if (o.BookingID != "" && existing.BookingID == o.BookingID) ||
			(o.IntentID != "" && existing.IntentID == o.IntentID) {
			return false, nil
		}
	}
	r.tx.outcomes[o.Key] = o
	return true, nil
}

func (r outcomeRepo) FindByKey(_ context.Context, _ sqlstore.DBTX, key string) (*payment.Outcome, error) {
	o, ok := r.tx.outcomes[key]
	if !ok {
		return nil, infra.NewError(infra.KindNotFound, "outcome not found", nil)
	}
	return &o, nil
}

type notificationRepo struct{ tx *fakeTx }

func (r notificationRepo) CreateJob(_ context.Context, _ sqlstore.DBTX, job shared.NotificationJob) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	r.tx.jobs = append(r.tx.jobs, Job{NotificationJob: job, Status: shared.JobQueued})
	return nil
}

func (r notificationRepo) ClaimQueued(_ context.Context, _ sqlstore.DBTX, limit int) ([]shared.NotificationJob, error) {
	var out []shared.NotificationJob
	for _, j := range r.tx.jobs {
		if j.Status == shared.JobQueued && len(out) < limit {
			out = append(out, j.NotificationJob)
		}
	}
	return out, nil
}

func (r notificationRepo) MarkSent(_ context.Context, _ sqlstore.DBTX, id uuid.UUID) error {
	return r.update(id, func(j *Job) { j.Status = shared.JobSent; j.Attempts++ })
}

func (r notificationRepo) MarkFailed(_ context.Context, _ sqlstore.DBTX, id uuid.UUID, lastError string, retryAt *time.Time) error {
	return r.update(id, func(j *Job) {
		j.Attempts++
		j.LastError = lastError
		j.Status = shared.JobFailed
		if retryAt != nil {
			j.Status = shared.JobQueued
			j.RunAt = *retryAt
		}
	})
}

func (r notificationRepo) update(id uuid.UUID, fn func(*Job)) error {
	for i := range r.tx.jobs {
		if r.tx.jobs[i].ID == id {
			fn(&r.tx.jobs[i])
			return nil
		}
	}
	return infra.NewError(infra.KindNotFound, "job not found", nil)
}
