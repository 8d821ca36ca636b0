package consumer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/chucky-1/budget-jobs/internal/model"
	"github.com/chucky-1/budget-jobs/internal/repository"
	"github.com/chucky-1/budget-jobs/internal/service"
)

const testSecret = "test-secret-key"

type jobStub struct {
	calls []model.JobRequest
	ctxs  []context.Context
	res   *model.JobResult
	err   error
}

func (s *jobStub) run(ctx context.Context, req model.JobRequest) (*model.JobResult, error) {
	s.calls = append(s.calls, req)
	s.ctxs = append(s.ctxs, ctx)
	return s.res, s.err
}

type deleterStub struct{ *jobStub }

func (s deleterStub) DeleteAccount(ctx context.Context, req model.JobRequest) (*model.JobResult, error) {
	return s.run(ctx, req)
}

type exporterStub struct{ *jobStub }

func (s exporterStub) ExportData(ctx context.Context, req model.JobRequest) (*model.JobResult, error) {
	return s.run(ctx, req)
}

type testContext struct {
	router   *gin.Engine
	deleter  *jobStub
	exporter *jobStub
	storage  *repository.FileStorage
}

func setupTestContext(t *testing.T) *testContext {
	storage, err := repository.NewFileStorage(t.TempDir(), "storage-key", "http://localhost:8080")
	require.NoError(t, err)

	tc := &testContext{
		deleter:  &jobStub{res: &model.JobResult{Success: true, Message: "deleted", AccountID: "u1"}},
		exporter: &jobStub{res: &model.JobResult{Success: true, Message: "exported", DownloadURL: "http://x"}},
		storage:  storage,
	}

	handler, err := NewHandler(deleterStub{tc.deleter}, exporterStub{tc.exporter}, storage, testSecret, time.Minute)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	tc.router = gin.New()
	handler.SetupRoutes(tc.router)
	return tc
}

func signToken(t *testing.T, secret, subject string, ttl time.Duration) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func performRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Jobs(t *testing.T) {
	testCases := []struct {
		name       string
		path       string
		token      func(t *testing.T) string
		body       interface{}
		wantStatus int
		wantCalls  int
	}{
		{
			name:       "delete own account",
			path:       "/api/jobs/delete-account",
			token:      func(t *testing.T) string { return signToken(t, testSecret, "u1", time.Hour) },
			body:       model.JobRequest{UserID: "u1", UserEmail: "a@b.c"},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "user id taken from token",
			path:       "/api/jobs/export-data",
			token:      func(t *testing.T) string { return signToken(t, testSecret, "u1", time.Hour) },
			body:       map[string]string{"userEmail": "a@b.c"},
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "empty body",
			path:       "/api/jobs/export-data",
			token:      func(t *testing.T) string { return signToken(t, testSecret, "u1", time.Hour) },
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "other account",
			path:       "/api/jobs/delete-account",
			token:      func(t *testing.T) string { return signToken(t, testSecret, "u1", time.Hour) },
			body:       model.JobRequest{UserID: "u2"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing token",
			path:       "/api/jobs/delete-account",
			token:      func(*testing.T) string { return "" },
			body:       model.JobRequest{UserID: "u1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong secret",
			path:       "/api/jobs/delete-account",
			token:      func(t *testing.T) string { return signToken(t, "other", "u1", time.Hour) },
			body:       model.JobRequest{UserID: "u1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			path:       "/api/jobs/export-data",
			token:      func(t *testing.T) string { return signToken(t, testSecret, "u1", -time.Hour) },
			body:       model.JobRequest{UserID: "u1"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed body",
			path:       "/api/jobs/export-data",
			token:      func(t *testing.T) string { return signToken(t, testSecret, "u1", time.Hour) },
			body:       "not an object",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupTestContext(t)
			w := performRequest(ctx.router, http.MethodPost, tc.path, tc.token(t), tc.body)
			require.Equal(t, tc.wantStatus, w.Code, w.Body.String())
			require.Len(t, ctx.deleter.calls, boolToInt(strings.HasSuffix(tc.path, "delete-account"))*tc.wantCalls)
			require.Len(t, ctx.exporter.calls, boolToInt(strings.HasSuffix(tc.path, "export-data"))*tc.wantCalls)
			for _, call := range append(ctx.deleter.calls, ctx.exporter.calls...) {
				require.Equal(t, "u1", call.UserID)
			}
		})
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestHandler_JobResultBody(t *testing.T) {
	ctx := setupTestContext(t)
	ctx.deleter.res = &model.JobResult{Success: false, Message: "Workspace Doc with ID u1 not found."}

	w := performRequest(ctx.router, http.MethodPost, "/api/jobs/delete-account", signToken(t, testSecret, "u1", time.Hour), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res model.JobResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, *ctx.deleter.res, res)
	require.NotContains(t, w.Body.String(), "accountId")
}

func TestHandler_UserIDRequired(t *testing.T) {
	ctx := setupTestContext(t)
	ctx.exporter.res, ctx.exporter.err = nil, service.ErrUserIDRequired

	w := performRequest(ctx.router, http.MethodPost, "/api/jobs/export-data", signToken(t, testSecret, "u1", time.Hour), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var res model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, "INVALID_ARGUMENT", res.Code)
}

func TestHandler_Healthz(t *testing.T) {
	ctx := setupTestContext(t)
	w := performRequest(ctx.router, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_Download(t *testing.T) {
	bg := context.Background()
	ctx := setupTestContext(t)

	local := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(local, []byte("event_id\ne1\n"), 0o600))
	const remote = "users/u1/exports/event-expenses-1.csv"
	require.NoError(t, ctx.storage.Upload(bg, local, remote, "text/csv"))

	signed, err := ctx.storage.SignedURL(bg, remote, time.Hour)
	require.NoError(t, err)
	expired, err := ctx.storage.SignedURL(bg, remote, -time.Hour)
	require.NoError(t, err)
	other, err := ctx.storage.SignedURL(bg, "users/u2/exports/event-expenses-1.csv", time.Hour)
	require.NoError(t, err)
	missing, err := ctx.storage.SignedURL(bg, "users/u1/exports/gone.csv", time.Hour)
	require.NoError(t, err)

	testCases := []struct {
		name       string
		url        string
		wantStatus int
	}{
		{name: "valid link", url: signed, wantStatus: http.StatusOK},
		{name: "expired link", url: expired, wantStatus: http.StatusForbidden},
		{name: "token of another object", url: strings.Replace(other, "users/u2", "users/u1", 1), wantStatus: http.StatusForbidden},
		{name: "no token", url: "http://localhost:8080/files/" + remote, wantStatus: http.StatusForbidden},
		{name: "missing object", url: missing, wantStatus: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := performRequest(ctx.router, http.MethodGet, strings.TrimPrefix(tc.url, "http://localhost:8080"), "", nil)
			require.Equal(t, tc.wantStatus, w.Code, w.Body.String())
			if tc.wantStatus == http.StatusOK {
				require.Equal(t, "event_id\ne1\n", w.Body.String())
				require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
				require.Contains(t, w.Header().Get("Content-Disposition"), "event-expenses-1.csv")
			}
		})
	}
}

func TestNewHandler_EmptySecret(t *testing.T) {
	_, err := NewHandler(deleterStub{&jobStub{}}, exporterStub{&jobStub{}}, nil, "", time.Minute)
	require.Error(t, err)
}

func TestAuthMiddleware_EmptySecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", AuthMiddleware(nil), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(callerKey))
	})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "victim"})
	signed, err := token.SignedString([]byte(""))
	require.NoError(t, err)

	w := performRequest(router, http.MethodGet, "/whoami", signed, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotContains(t, w.Body.String(), "victim")
}

func TestHandler_JobOutlivesCaller(t *testing.T) {
	ctx := setupTestContext(t)

	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/jobs/delete-account", nil).WithContext(reqCtx)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "u1", time.Hour))
	w := httptest.NewRecorder()
	ctx.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, ctx.deleter.ctxs, 1)
	jobCtx := ctx.deleter.ctxs[0]
	require.NoError(t, jobCtx.Err())

	deadline, ok := jobCtx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(time.Minute), deadline, 10*time.Second)
}

func TestHandler_MalformedUserID(t *testing.T) {
	ctx := setupTestContext(t)
	ctx.deleter.res, ctx.deleter.err = nil, service.ErrInvalidUserID

	w := performRequest(ctx.router, http.MethodPost, "/api/jobs/delete-account", signToken(t, testSecret, "u1/events/e1", time.Hour), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
