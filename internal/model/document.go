package model

import (
	"fmt"
	"path"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	WorkspacesCollection = "workspaces"
	EventsCollection     = "events"
	ExpensesCollection   = "expenses"
	CategoriesCollection = "categories"
)

// Document is one node of the hierarchical store. Path is the full slash separated
// path, ID is its last segment.
type Document struct {
	ID   string
	Path string
	Raw  bson.Raw
}

func NewDocument(docPath string, raw bson.Raw) *Document {
	return &Document{
		ID:   path.Base(docPath),
		Path: docPath,
		Raw:  raw,
	}
}

func (d *Document) Decode(v interface{}) error {
	if len(d.Raw) == 0 {
		return nil
	}
	if err := bson.Unmarshal(d.Raw, v); err != nil {
		return fmt.Errorf("couldn't decode document %s: %w", d.Path, err)
	}
	return nil
}

// Collection returns the path of a child collection of this document.
func (d *Document) Collection(name string) string {
	return d.Path + "/" + name
}

func WorkspacePath(userID string) string {
	return WorkspacesCollection + "/" + userID
}

// ParentCollection returns the collection a document path belongs to.
func ParentCollection(docPath string) string {
	return path.Dir(docPath)
}
