package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/chucky-1/budget-jobs/internal/model"
)

const deleteAccountJob = "deleteAccount"

// Deleter purges an account: its workspace subtree, identity and stored files
type Deleter struct {
	runner
	from string
}

func NewDeleter(deps Deps, opts Options) *Deleter {
	return &Deleter{
		runner: newRunner(deps, opts),
		from:   opts.From,
	}
}

func (d *Deleter) DeleteAccount(ctx context.Context, req model.JobRequest) (*model.JobResult, error) {
	return d.run(ctx, deleteAccountJob, req, func(ctx context.Context, log *logrus.Entry) (*model.JobResult, error) {
		workspace, err := d.walker.Workspace(ctx, req.UserID)
		if err != nil {
			return nil, err
		}

		err = d.walker.Walk(ctx, workspace, []string{model.ExpensesCollection, model.CategoriesCollection}, d.deleteEvent)
		if err != nil {
			return nil, err
		}

		if err = d.deps.Documents.Delete(ctx, workspace.Path); err != nil {
			return nil, fmt.Errorf("deleter couldn't delete workspace %s: %w", workspace.Path, err)
		}
		log.Info("workspace deleted")

		if err = d.deps.Identity.DeleteUser(ctx, req.UserID); err != nil {
			return nil, fmt.Errorf("deleter couldn't delete identity %s: %w", req.UserID, err)
		}

		prefix := fmt.Sprintf("users/%s/", req.UserID)
		if err = d.deps.Storage.DeleteByPrefix(ctx, prefix); err != nil {
			log.Warnf("storage cleanup error for prefix %s: %v", prefix, err)
			d.deps.Alerter.Capture(ctx, err, map[string]string{"job": deleteAccountJob, "user_id": req.UserID, "step": "storage"})
		}

		email, err := deletionEmail(d.from, req.UserEmail)
		if err != nil {
			return nil, err
		}
		if err = d.deps.Notifier.Send(ctx, email); err != nil {
			return nil, fmt.Errorf("deleter couldn't send confirmation: %w", err)
		}

		return &model.JobResult{
			Success:   true,
			Message:   fmt.Sprintf("Account for %s deleted successfully.", req.UserEmail),
			AccountID: req.UserID,
		}, nil
	})
}

// deleteEvent removes the expenses and categories of the event, then the event itself
func (d *Deleter) deleteEvent(ctx context.Context, node *EventNode) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.limit)
	for _, name := range []string{model.ExpensesCollection, model.CategoriesCollection} {
		for _, doc := range node.Children[name] {
			path := doc.Path
			g.Go(func() error {
				if err := d.deps.Documents.Delete(gctx, path); err != nil {
					return fmt.Errorf("deleter couldn't delete %s: %w", path, err)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := d.deps.Documents.Delete(ctx, node.Event.Path); err != nil {
		return fmt.Errorf("deleter couldn't delete event %s: %w", node.Event.Path, err)
	}
	return nil
}
