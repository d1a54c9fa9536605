package download

import (
	"collaborative-annotation-server/internal/blobstore"
	"collaborative-annotation-server/internal/domain"
	"collaborative-annotation-server/internal/errors"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ProjectProvider interface {
	GetProjectByID(ctx context.Context, id uint64) (*domain.Project, error)
}

type Handler struct {
	service  Service
	projects ProjectProvider
	blobs    blobstore.Client
}

func NewHandler(service Service, projects ProjectProvider, blobs blobstore.Client) *Handler {
	return &Handler{service: service, projects: projects, blobs: blobs}
}

// Download streams the project export. The format token is validated before
// any response bytes are written so errors still render as JSON.
func (h *Handler) Download(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	format := c.DefaultQuery("format", FormatJSON)
	if _, err := SelectPainter(format, nil); err != nil {
		c.Error(err)
		return
	}

	project, err := h.projects.GetProjectByID(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", ContentType(format))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=project_%d.%s", project.ID, extension(format)))
	c.Status(http.StatusOK)

	if err := h.service.Export(c.Request.Context(), project, format, c.Writer); err != nil {
		// headers are already out; the truncated body is the only signal left
		_ = c.Error(err)
	}
}

type CloudDownloadRequest struct {
	Bucket string `json:"bucket" binding:"required"`
	Key    string `json:"key" binding:"required"`
	Format string `json:"format"`
}

// CloudDownload paints the project and pushes the result to the external
// blob store instead of the response body.
func (h *Handler) CloudDownload(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	var form CloudDownloadRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}
	if form.Format == "" {
		form.Format = FormatJSON
	}
	if _, err := SelectPainter(form.Format, nil); err != nil {
		c.Error(err)
		return
	}

	project, err := h.projects.GetProjectByID(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return
	}

	reader, writer := io.Pipe()
	go func() {
		writer.CloseWithError(h.service.Export(c.Request.Context(), project, form.Format, writer))
	}()

	if err := h.blobs.Upload(c.Request.Context(), form.Bucket, form.Key, reader); err != nil {
		reader.CloseWithError(err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bucket": form.Bucket, "key": form.Key})
}

func extension(format string) string {
	if format == FormatCSV {
		return "csv"
	}
	return "jsonl"
}
