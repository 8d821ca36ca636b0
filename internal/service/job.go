package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/chucky-1/budget-jobs/internal/model"
	"github.com/chucky-1/budget-jobs/internal/producer"
	"github.com/chucky-1/budget-jobs/internal/repository"
)

// Deps are the collaborators shared by the jobs. The caller owns their lifecycle.
type Deps struct {
	Documents repository.Documents
	Identity  repository.Identity
	Storage   repository.Storage
	Notifier  producer.Notifier
	Alerter   producer.Alerter
	Locker    repository.Locker
}

type Options struct {
	// From is the sender of notification emails
	From        string
	Concurrency int
	LinkTTL     time.Duration
	TempDir     string
}

type runner struct {
	deps     Deps
	walker   *Walker
	validate *validator.Validate
	limit    int
}

func newRunner(deps Deps, opts Options) runner {
	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}
	return runner{
		deps:     deps,
		walker:   NewWalker(deps.Documents, limit),
		validate: validator.New(),
		limit:    limit,
	}
}

type workflow func(ctx context.Context, log *logrus.Entry) (*model.JobResult, error)

// run validates the request, takes the account lock and converts any workflow error into
// a failure result. Only an invalid request is returned as an error.
func (r *runner) run(ctx context.Context, name string, req model.JobRequest, fn workflow) (*model.JobResult, error) {
	if err := r.validate.Struct(req); err != nil {
		if req.UserID == "" {
			return nil, ErrUserIDRequired
		}
		return nil, ErrInvalidUserID
	}

	log := logrus.WithFields(logrus.Fields{
		"job":     name,
		"run_id":  uuid.New().String(),
		"user_id": req.UserID,
	})
	log.Info("job started")
	started := time.Now()

	res, err := r.locked(ctx, req.UserID, log, fn)
	if err != nil {
		r.deps.Alerter.Capture(ctx, err, map[string]string{"job": name, "user_id": req.UserID})
		log.Errorf("job failed: %v", err)
		return model.Failure(err), nil
	}
	log.Infof("job finished in %v", time.Since(started))
	return res, nil
}

func (r *runner) locked(ctx context.Context, userID string, log *logrus.Entry, fn workflow) (*model.JobResult, error) {
	unlock, err := r.deps.Locker.TryLock(ctx, "account:"+userID)
	if errors.Is(err, repository.ErrLocked) {
		return nil, &accountBusyError{userID: userID}
	}
	if err != nil {
		return nil, err
	}
	defer unlock()
	return fn(ctx, log)
}
