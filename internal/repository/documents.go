package repository

import (
	"context"
	"errors"

	"github.com/chucky-1/budget-jobs/internal/model"
)

var ErrDocumentNotFound = errors.New("document not found")

//go:generate mockery --name=Documents

// Documents is a hierarchical document store addressed by slash separated paths,
// e.g. workspaces/{id}/events/{id}/expenses/{id}.
type Documents interface {
	Get(ctx context.Context, path string) (*model.Document, error)
	// List returns the documents of a collection in a stable order
	List(ctx context.Context, collection string) ([]*model.Document, error)
	Delete(ctx context.Context, path string) error
}
