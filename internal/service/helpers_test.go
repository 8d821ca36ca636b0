package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/chucky-1/budget-jobs/internal/repository"
)

const (
	testUserID = "u1"
	testEmail  = "user@example.com"
)

// seedWorkspace creates a workspace with the given number of events, each with the same
// number of expenses and categories
func seedWorkspace(t *testing.T, docs *repository.LocalDocuments, userID string, events, expenses, categories int) {
	ctx := context.Background()
	ws := "workspaces/" + userID
	require.NoError(t, docs.Put(ctx, ws, bson.M{"name": "My workspace"}))
	for e := 0; e < events; e++ {
		event := fmt.Sprintf("%s/events/e%d", ws, e)
		require.NoError(t, docs.Put(ctx, event, bson.M{"name": fmt.Sprintf("Event %d", e)}))
		for x := 0; x < expenses; x++ {
			require.NoError(t, docs.Put(ctx, fmt.Sprintf("%s/expenses/x%d", event, x), bson.M{
				"name":   fmt.Sprintf("Expense %d", x),
				"amount": 10.0,
			}))
		}
		for c := 0; c < categories; c++ {
			require.NoError(t, docs.Put(ctx, fmt.Sprintf("%s/categories/c%d", event, c), bson.M{"name": "Category"}))
		}
	}
}
