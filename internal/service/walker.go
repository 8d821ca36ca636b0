package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/chucky-1/budget-jobs/internal/model"
	"github.com/chucky-1/budget-jobs/internal/repository"
)

// EventNode is one event of a workspace together with the child collections that were requested
type EventNode struct {
	// Index is the position of the event in the events listing
	Index    int
	Event    *model.Document
	Children map[string][]*model.Document
}

// Walker descends workspace -> events -> {expenses, categories}. It never goes deeper.
type Walker struct {
	docs  repository.Documents
	limit int
}

func NewWalker(docs repository.Documents, limit int) *Walker {
	if limit < 1 {
		limit = 1
	}
	return &Walker{
		docs:  docs,
		limit: limit,
	}
}

func (w *Walker) Workspace(ctx context.Context, userID string) (*model.Document, error) {
	doc, err := w.docs.Get(ctx, model.WorkspacePath(userID))
	if errors.Is(err, repository.ErrDocumentNotFound) {
		return nil, &workspaceNotFoundError{userID: userID}
	}
	if err != nil {
		return nil, fmt.Errorf("walker couldn't get workspace %s: %w", userID, err)
	}
	return doc, nil
}

// Walk visits every event of the workspace concurrently. Child collections of one event are
// listed before its visit, and Walk returns only after all visits are done.
func (w *Walker) Walk(ctx context.Context, workspace *model.Document, collections []string,
	visit func(ctx context.Context, node *EventNode) error) error {
	events, err := w.docs.List(ctx, workspace.Collection(model.EventsCollection))
	if err != nil {
		return fmt.Errorf("walker couldn't list events of %s: %w", workspace.Path, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.limit)
	for i, event := range events {
		g.Go(func() error {
			node, err := w.children(gctx, i, event, collections)
			if err != nil {
				return err
			}
			return visit(gctx, node)
		})
	}
	return g.Wait()
}

func (w *Walker) children(ctx context.Context, index int, event *model.Document, collections []string) (*EventNode, error) {
	node := &EventNode{
		Index:    index,
		Event:    event,
		Children: make(map[string][]*model.Document, len(collections)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range collections {
		g.Go(func() error {
			docs, err := w.docs.List(gctx, event.Collection(name))
			if err != nil {
				return fmt.Errorf("walker couldn't list %s of %s: %w", name, event.Path, err)
			}
			mu.Lock()
			node.Children[name] = docs
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return node, nil
}
