package annotation

import (
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
}

func NewHandler(service Service, projects ProjectProvider) *Handler {
	return &Handler{service: service, projects: projects}
}

type AnnotationRequest struct {
	LabelID     uint64 `json:"label"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	Text        string `json:"text"`
}

func (h *Handler) List(c *gin.Context) {
	project, docID, ok := h.resolve(c)
	if !ok {
		return
	}

	userID := c.GetUint64("user_id")

	annotations, err := h.service.List(c.Request.Context(), project, docID, userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, annotations)
}

func (h *Handler) Create(c *gin.Context) {
	project, docID, ok := h.resolve(c)
	if !ok {
		return
	}

	var form AnnotationRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID := c.GetUint64("user_id")
	input := CreateInput{
		LabelID:     form.LabelID,
		StartOffset: form.StartOffset,
		EndOffset:   form.EndOffset,
		Text:        form.Text,
	}

	created, err := h.service.Create(c.Request.Context(), project, docID, userID, input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) Delete(c *gin.Context) {
	project, docID, ok := h.resolve(c)
	if !ok {
		return
	}

	annotationID, err := strconv.ParseUint(c.Param("annotation_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid annotation id", err))
		return
	}

	userID := c.GetUint64("user_id")
	isAdmin := c.GetString("project_role") == domain.RoleProjectAdmin || c.GetBool("is_superuser")

	if err := h.service.Delete(c.Request.Context(), project, docID, annotationID, userID, isAdmin); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// resolve parses the path params and loads the project; on failure the error
// is already pushed onto the context.
func (h *Handler) resolve(c *gin.Context) (*domain.Project, uint64, bool) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return nil, 0, false
	}

	docID, err := strconv.ParseUint(c.Param("doc_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid document id", err))
		return nil, 0, false
	}

	project, err := h.projects.GetProjectByID(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return nil, 0, false
	}

	return project, docID, true
}
