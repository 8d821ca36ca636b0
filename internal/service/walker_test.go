package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chucky-1/budget-jobs/internal/model"
	"github.com/chucky-1/budget-jobs/internal/repository"
	"github.com/chucky-1/budget-jobs/internal/repository/mocks"
)

func TestWalker_WorkspaceNotFound(t *testing.T) {
	w := NewWalker(repository.NewLocalDocuments(), 4)

	_, err := w.Workspace(context.Background(), "missing")
	require.ErrorIs(t, err, ErrWorkspaceNotFound)
	require.Equal(t, "Workspace Doc with ID missing not found.", err.Error())
}

func TestWalker_Walk(t *testing.T) {
	ctx := context.Background()
	docs := repository.NewLocalDocuments()
	seedWorkspace(t, docs, testUserID, 3, 2, 1)
	w := NewWalker(docs, 2)

	ws, err := w.Workspace(ctx, testUserID)
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		nodes = make(map[int]*EventNode)
	)
	err = w.Walk(ctx, ws, []string{model.ExpensesCollection, model.CategoriesCollection}, func(_ context.Context, node *EventNode) error {
		mu.Lock()
		defer mu.Unlock()
		nodes[node.Index] = node
		return nil
	})
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	for i := 0; i < 3; i++ {
		require.Contains(t, nodes, i)
		require.Len(t, nodes[i].Children[model.ExpensesCollection], 2)
		require.Len(t, nodes[i].Children[model.CategoriesCollection], 1)
	}
	require.Equal(t, "e0", nodes[0].Event.ID)
	require.Equal(t, "e2", nodes[2].Event.ID)
}

func TestWalker_OnlyRequestedCollections(t *testing.T) {
	ctx := context.Background()
	docs := mocks.NewDocuments(t)
	ws := model.NewDocument("workspaces/u1", nil)
	docs.On("List", mock.Anything, "workspaces/u1/events").
		Return([]*model.Document{model.NewDocument("workspaces/u1/events/e1", nil)}, nil).Once()
	docs.On("List", mock.Anything, "workspaces/u1/events/e1/expenses").
		Return([]*model.Document{}, nil).Once()

	err := NewWalker(docs, 1).Walk(ctx, ws, []string{model.ExpensesCollection}, func(context.Context, *EventNode) error {
		return nil
	})
	require.NoError(t, err)
	docs.AssertNotCalled(t, "List", mock.Anything, "workspaces/u1/events/e1/categories")
}

func TestWalker_ListError(t *testing.T) {
	ctx := context.Background()
	docs := mocks.NewDocuments(t)
	ws := model.NewDocument("workspaces/u1", nil)
	docs.On("List", mock.Anything, "workspaces/u1/events").Return(nil, errors.New("connection reset")).Once()

	visited := false
	err := NewWalker(docs, 1).Walk(ctx, ws, []string{model.ExpensesCollection}, func(context.Context, *EventNode) error {
		visited = true
		return nil
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection reset")
	require.False(t, visited)
}

func TestWalker_VisitErrorStopsWalk(t *testing.T) {
	ctx := context.Background()
	docs := repository.NewLocalDocuments()
	seedWorkspace(t, docs, testUserID, 2, 1, 0)
	w := NewWalker(docs, 1)
	ws, err := w.Workspace(ctx, testUserID)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = w.Walk(ctx, ws, []string{model.ExpensesCollection}, func(context.Context, *EventNode) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}
