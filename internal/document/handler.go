package document

import (
	"collaborative-annotation-server/internal/domain"
	"collaborative-annotation-server/internal/errors"
	"collaborative-annotation-server/internal/utils"
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

type DocumentRequest struct {
	Text string `json:"text" binding:"required"`
	Meta string `json:"meta"`
}

func (h *Handler) Create(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	var form DocumentRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	doc, err := h.service.CreateDocument(c.Request.Context(), projectID, form.Text, form.Meta)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) List(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	project, err := h.projects.GetProjectByID(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return
	}

	userID := c.GetUint64("user_id")
	page, pageSize := utils.GetPaginationParams(c)

	result, err := h.service.GetProjectDocuments(c.Request.Context(), project, userID, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Show(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	docID, err := strconv.ParseUint(c.Param("doc_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid document id", err))
		return
	}

	doc, err := h.service.GetDocumentByID(c.Request.Context(), projectID, docID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) Update(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	docID, err := strconv.ParseUint(c.Param("doc_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid document id", err))
		return
	}

	var form DocumentRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	doc, err := h.service.UpdateDocument(c.Request.Context(), projectID, docID, form.Text, form.Meta)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) Delete(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	docID, err := strconv.ParseUint(c.Param("doc_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid document id", err))
		return
	}

	if err := h.service.DeleteDocument(c.Request.Context(), projectID, docID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

type ApproveRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// Approve marks a document's annotations as approved (or clears the mark)
func (h *Handler) Approve(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	docID, err := strconv.ParseUint(c.Param("doc_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid document id", err))
		return
	}

	var form ApproveRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID := c.GetUint64("user_id")

	doc, err := h.service.ApproveDocument(c.Request.Context(), projectID, docID, userID, *form.Approved)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                      doc.ID,
		"annotations_approved_by": doc.AnnotationsApprovedByID,
	})
}
