package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SQLiteTestSuite struct {
	suite.Suite
	db *SQLite
}

func (s *SQLiteTestSuite) SetupTest() {
	db, err := NewSQLite(":memory:")
	require.NoError(s.T(), err, "failed to create test database")
	s.db = db
}

func (s *SQLiteTestSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *SQLiteTestSuite) TestDeleteUser() {
	ctx := context.Background()
	require.NoError(s.T(), s.db.CreateUser(ctx, "u1", "u1@example.com"))

	s.NoError(s.db.DeleteUser(ctx, "u1"))
	s.ErrorIs(s.db.DeleteUser(ctx, "u1"), ErrIdentityNotFound)
}

func (s *SQLiteTestSuite) TestDeleteUnknownUser() {
	err := s.db.DeleteUser(context.Background(), "missing")
	s.ErrorIs(err, ErrIdentityNotFound)
	s.Contains(err.Error(), "missing")
}

func (s *SQLiteTestSuite) TestCreateDuplicateUser() {
	ctx := context.Background()
	require.NoError(s.T(), s.db.CreateUser(ctx, "u1", "u1@example.com"))
	s.Error(s.db.CreateUser(ctx, "u1", "other@example.com"))
}

func TestSQLiteTestSuite(t *testing.T) {
	suite.Run(t, new(SQLiteTestSuite))
}
