package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chucky-1/budget-jobs/internal/model"
)

const (
	exportDataJob     = "exportData"
	exportContentType = "text/csv"
	// DefaultLinkTTL is used when no positive link lifetime is configured
	DefaultLinkTTL    = 7 * 24 * time.Hour
)

// Exporter collects every expense of an account into a csv file and mails a download link
type Exporter struct {
	runner
	from    string
	linkTTL time.Duration
	tempDir string
	now     func() time.Time
}

func NewExporter(deps Deps, opts Options) *Exporter {
	ttl := opts.LinkTTL
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}
	return &Exporter{
		runner:  newRunner(deps, opts),
		from:    opts.From,
		linkTTL: ttl,
		tempDir: opts.TempDir,
		now:     time.Now,
	}
}

func (e *Exporter) ExportData(ctx context.Context, req model.JobRequest) (*model.JobResult, error) {
	return e.run(ctx, exportDataJob, req, func(ctx context.Context, log *logrus.Entry) (*model.JobResult, error) {
		workspace, err := e.walker.Workspace(ctx, req.UserID)
		if err != nil {
			return nil, err
		}

		records, err := e.collect(ctx, workspace)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, &noExpenseDataError{email: req.UserEmail}
		}
		log.Infof("collected %d expense records", len(records))

		timestamp := e.now().UnixMilli()
		tmpPath, err := e.writeTemp(req.UserID, timestamp, records)
		if err != nil {
			return nil, err
		}

		remotePath := ExportPath(req.UserID, timestamp)
		uploadErr := e.deps.Storage.Upload(ctx, tmpPath, remotePath, exportContentType)
		if err = os.Remove(tmpPath); err != nil {
			log.Warnf("exporter couldn't remove temp file %s: %v", tmpPath, err)
		}
		if uploadErr != nil {
			return nil, fmt.Errorf("exporter couldn't upload %s: %w", remotePath, uploadErr)
		}

		url, err := e.deps.Storage.SignedURL(ctx, remotePath, e.linkTTL)
		if err != nil {
			return nil, fmt.Errorf("exporter couldn't sign url for %s: %w", remotePath, err)
		}

		email, err := exportEmail(e.from, req.UserEmail, url, e.linkTTL)
		if err != nil {
			return nil, err
		}
		if err = e.deps.Notifier.Send(ctx, email); err != nil {
			return nil, fmt.Errorf("exporter couldn't send download link: %w", err)
		}

		return &model.JobResult{
			Success:     true,
			Message:     fmt.Sprintf("%s data exported successfully.", req.UserEmail),
			DownloadURL: url,
		}, nil
	})
}

// ExportPath is where the export of an account generated at timestamp (unix ms) is stored
func ExportPath(userID string, timestamp int64) string {
	return fmt.Sprintf("users/%s/exports/event-expenses-%d.csv", userID, timestamp)
}

// collect returns the records in event order, then expense order within the event
func (e *Exporter) collect(ctx context.Context, workspace *model.Document) ([]Record, error) {
	var mu sync.Mutex
	byEvent := make(map[int][]Record)

	err := e.walker.Walk(ctx, workspace, []string{model.ExpensesCollection}, func(_ context.Context, node *EventNode) error {
		records, err := recordsOf(node)
		if err != nil {
			return err
		}
		mu.Lock()
		byEvent[node.Index] = records
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(byEvent))
	for i := range byEvent {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	var records []Record
	for _, i := range indexes {
		records = append(records, byEvent[i]...)
	}
	return records, nil
}

func (e *Exporter) writeTemp(userID string, timestamp int64, records []Record) (string, error) {
	pattern := fmt.Sprintf("expenses-export-%s-%d-*.csv", strings.ReplaceAll(userID, string(os.PathSeparator), "_"), timestamp)
	f, err := os.CreateTemp(e.tempDir, pattern)
	if err != nil {
		return "", fmt.Errorf("exporter couldn't create temp file: %v", err)
	}
	if err = WriteCSV(f, records); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err = f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("exporter couldn't close temp file: %v", err)
	}
	return f.Name(), nil
}
