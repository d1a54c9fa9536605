package upload

import (
	"collaborative-annotation-server/internal/blobstore"
	"collaborative-annotation-server/internal/domain"
	"collaborative-annotation-server/internal/errors"
	"context"
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

// Upload imports a multipart file into the project. The format token is
// checked before the file is touched so an unknown format never reads a byte.
func (h *Handler) Upload(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	format := c.PostForm("format")
	if _, err := SelectParser(format); err != nil {
		c.Error(err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(errors.BadRequest("Empty content", err))
		return
	}

	project, err := h.projects.GetProjectByID(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(errors.BadRequest("Can't open uploaded file", err))
		return
	}
	defer file.Close()

	userID := c.GetUint64("user_id")
	opts := ImportOptions{Overwrite: c.PostForm("overwrite") == "true"}

	count, err := h.service.ImportFile(c.Request.Context(), project, format, file, userID, opts)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"count": count})
}

type CloudUploadRequest struct {
	Bucket string `json:"bucket" binding:"required"`
	Key    string `json:"key" binding:"required"`
	Format string `json:"format" binding:"required"`
}

// CloudUpload imports an object fetched from the external blob store
func (h *Handler) CloudUpload(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	var form CloudUploadRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	if _, err := SelectParser(form.Format); err != nil {
		c.Error(err)
		return
	}

	project, err := h.projects.GetProjectByID(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return
	}

	body, err := h.blobs.Download(c.Request.Context(), form.Bucket, form.Key)
	if err != nil {
		c.Error(err)
		return
	}
	defer body.Close()

	userID := c.GetUint64("user_id")

	count, err := h.service.ImportFile(c.Request.Context(), project, form.Format, body, userID, ImportOptions{})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"count": count})
}
