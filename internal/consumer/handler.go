package consumer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chucky-1/budget-jobs/internal/model"
	"github.com/chucky-1/budget-jobs/internal/repository"
	"github.com/chucky-1/budget-jobs/internal/service"
)

type AccountDeleter interface {
	DeleteAccount(ctx context.Context, req model.JobRequest) (*model.JobResult, error)
}

type DataExporter interface {
	ExportData(ctx context.Context, req model.JobRequest) (*model.JobResult, error)
}

// Files serves objects behind signed urls
type Files interface {
	Verify(remotePath, token string) error
	Open(ctx context.Context, remotePath string) (*repository.Object, error)
}

// Handler is the HTTP entry point of the jobs
type Handler struct {
	deleter   AccountDeleter
	exporter  DataExporter
	files     Files
	jwtSecret []byte
	timeout   time.Duration
}

func NewHandler(deleter AccountDeleter, exporter DataExporter, files Files, jwtSecret string, timeout time.Duration) (*Handler, error) {
	if jwtSecret == "" {
		return nil, errEmptySecret
	}
	return &Handler{
		deleter:   deleter,
		exporter:  exporter,
		files:     files,
		jwtSecret: []byte(jwtSecret),
		timeout:   timeout,
	}, nil
}

func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/files/*path", h.download)

	jobs := router.Group("/api/jobs", AuthMiddleware(h.jwtSecret))
	jobs.POST("/delete-account", h.job(h.deleter.DeleteAccount))
	jobs.POST("/export-data", h.job(h.exporter.ExportData))
}

type jobFunc func(ctx context.Context, req model.JobRequest) (*model.JobResult, error)

func (h *Handler) job(fn jobFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.JobRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Status:  "error",
				Code:    "INVALID_REQUEST",
				Message: fmt.Sprintf("Invalid request body: %v", err),
			})
			return
		}

		caller := c.GetString(callerKey)
		switch {
		case req.UserID == "":
			req.UserID = caller
		case req.UserID != caller:
			c.JSON(http.StatusForbidden, model.ErrorResponse{
				Status:  "error",
				Code:    "FORBIDDEN",
				Message: "Jobs can only be run for the caller's own account",
			})
			return
		}

		// a job already started must not be cut short by the caller hanging up
		ctx := context.WithoutCancel(c.Request.Context())
		if h.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, h.timeout)
			defer cancel()
		}

		res, err := fn(ctx, req)
		if errors.Is(err, service.ErrUserIDRequired) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Status:  "error",
				Code:    "INVALID_ARGUMENT",
				Message: "The function must be called with a userId",
			})
			return
		}
		if errors.Is(err, service.ErrInvalidUserID) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Status:  "error",
				Code:    "INVALID_ARGUMENT",
				Message: "The userId is malformed",
			})
			return
		}
		if err != nil {
			logrus.Errorf("handler couldn't run job %s: %v", c.FullPath(), err)
			c.JSON(http.StatusInternalServerError, model.ErrorResponse{
				Status:  "error",
				Code:    "INTERNAL",
				Message: "Internal server error",
			})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func (h *Handler) download(c *gin.Context) {
	remotePath := strings.TrimPrefix(c.Param("path"), "/")
	if err := h.files.Verify(remotePath, c.Query("token")); err != nil {
		logrus.Debugf("handler rejected download of %s: %v", remotePath, err)
		c.JSON(http.StatusForbidden, model.ErrorResponse{
			Status:  "error",
			Code:    "FORBIDDEN",
			Message: "Link is invalid or has expired",
		})
		return
	}

	obj, err := h.files.Open(c.Request.Context(), remotePath)
	if errors.Is(err, repository.ErrObjectNotFound) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Status:  "error",
			Code:    "NOT_FOUND",
			Message: "File not found",
		})
		return
	}
	if err != nil {
		logrus.Errorf("handler couldn't open %s: %v", remotePath, err)
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Status:  "error",
			Code:    "INTERNAL",
			Message: "Internal server error",
		})
		return
	}
	defer obj.Close()

	c.DataFromReader(http.StatusOK, obj.Size, obj.ContentType, obj, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, path.Base(remotePath)),
	})
}
