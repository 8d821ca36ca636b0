package repository

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/chucky-1/budget-jobs/internal/model"
)

// LocalDocuments keeps documents in memory in insertion order. It also remembers every
// deleted path in the order the deletes happened.
type LocalDocuments struct {
	mu      sync.RWMutex
	m       map[string]bson.Raw
	order   []string
	deleted []string
}

func NewLocalDocuments() *LocalDocuments {
	return &LocalDocuments{
		m: make(map[string]bson.Raw),
	}
}

func (l *LocalDocuments) Put(_ context.Context, path string, data interface{}) error {
	raw, err := bson.Marshal(data)
	if err != nil {
		return fmt.Errorf("repository.LocalDocuments.Put couldn't marshal %s: %v", path, err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.m[path]; !ok {
		l.order = append(l.order, path)
	}
	l.m[path] = raw
	return nil
}

func (l *LocalDocuments) Get(_ context.Context, path string) (*model.Document, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	raw, ok := l.m[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrDocumentNotFound)
	}
	return model.NewDocument(path, raw), nil
}

func (l *LocalDocuments) List(_ context.Context, collection string) ([]*model.Document, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var docs []*model.Document
	for _, path := range l.order {
		if model.ParentCollection(path) != collection {
			continue
		}
		if raw, ok := l.m[path]; ok {
			docs = append(docs, model.NewDocument(path, raw))
		}
	}
	return docs, nil
}

func (l *LocalDocuments) Delete(_ context.Context, path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.m[path]; ok {
		delete(l.m, path)
		for i := range l.order {
			if l.order[i] == path {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
	}
	l.deleted = append(l.deleted, path)
	return nil
}

// Deleted returns the paths passed to Delete so far
func (l *LocalDocuments) Deleted() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.deleted...)
}

func (l *LocalDocuments) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.m)
}
