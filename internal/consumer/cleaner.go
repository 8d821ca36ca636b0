package consumer

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chucky-1/budget-jobs/internal/repository"
	"github.com/chucky-1/budget-jobs/internal/service"
)

const (
	exportsPrefix  = "users/"
	exportsSegment = "/exports/"
	cleanTimeout   = time.Minute
)

type ExportStore interface {
	List(ctx context.Context, prefix string) ([]repository.ObjectInfo, error)
	Delete(ctx context.Context, remotePath string) error
}

// Cleaner removes exports whose download links have expired
type Cleaner struct {
	store    ExportStore
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

func NewCleaner(store ExportStore, ttl, interval time.Duration) *Cleaner {
	if ttl <= 0 {
		ttl = service.DefaultLinkTTL
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Cleaner{
		store:    store,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
	}
}

func (c *Cleaner) Consume(ctx context.Context) {
	logrus.Info("cleaner consumer started")

	c.runOnce(ctx)

	t := time.NewTicker(c.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			logrus.Infof("cleaner consumer stopped: %v", ctx.Err())
			return
		case <-t.C:
			c.runOnce(ctx)
		}
	}
}

func (c *Cleaner) runOnce(ctx context.Context) {
	newCtx, cancel := context.WithTimeout(ctx, cleanTimeout)
	defer cancel()
	n, err := c.Clean(newCtx)
	if err != nil {
		logrus.Errorf("cleaner consumer couldn't clean exports: %v", err)
		return
	}
	logrus.Infof("cleaner consumer deleted %d expired exports", n)
}

// Clean deletes expired exports and returns how many were deleted
func (c *Cleaner) Clean(ctx context.Context) (int, error) {
	objects, err := c.store.List(ctx, exportsPrefix)
	if err != nil {
		return 0, err
	}

	deadline := c.now().Add(-c.ttl)
	var deleted int
	for _, obj := range objects {
		if !strings.Contains(obj.Path, exportsSegment) || obj.ModTime.After(deadline) {
			continue
		}
		if err = c.store.Delete(ctx, obj.Path); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
