package project

import (
	"collaborative-annotation-server/internal/domain"
	"collaborative-annotation-server/internal/errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreateProjectRequest struct {
	Name                      string `json:"name" binding:"required,min=1,max=255"`
	Description               string `json:"description"`
	GuidelineText             string `json:"guideline"`
	ProjectType               string `json:"project_type" binding:"required,oneof=classification sequence_labeling seq2seq"`
	RandomizeDocumentOrder    bool   `json:"randomize_document_order"`
	CollaborativeAnnotation   bool   `json:"collaborative_annotation"`
	SingleClassClassification bool   `json:"single_class_classification"`
}

func (h *Handler) Create(c *gin.Context) {
	var form CreateProjectRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	userID := c.GetUint64("user_id")

	project := &domain.Project{
		Name:                      form.Name,
		Description:               form.Description,
		GuidelineText:             form.GuidelineText,
		ProjectType:               form.ProjectType,
		RandomizeDocumentOrder:    form.RandomizeDocumentOrder,
		CollaborativeAnnotation:   form.CollaborativeAnnotation,
		SingleClassClassification: form.SingleClassClassification,
	}

	if err := h.service.CreateProject(c.Request.Context(), project, userID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetUint64("user_id")

	projects, err := h.service.GetUserProjects(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (h *Handler) Show(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	project, err := h.service.GetProjectByID(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, project)
}

type UpdateProjectRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=255"`
	Description   string `json:"description"`
	GuidelineText string `json:"guideline"`
}

func (h *Handler) Update(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	var form UpdateProjectRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	project, err := h.service.UpdateProject(c.Request.Context(), projectID, form.Name, form.Description, form.GuidelineText)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *Handler) Delete(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	if err := h.service.DeleteProject(c.Request.Context(), projectID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListMembers(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, members)
}

type AddMemberRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=project_admin annotator annotation_approver"`
}

func (h *Handler) AddMember(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	var form AddMemberRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	mapping, err := h.service.AddMember(c.Request.Context(), projectID, form.UserID, form.Role)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, mapping)
}

type ChangeMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=project_admin annotator annotation_approver"`
}

func (h *Handler) ChangeMemberRole(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	mappingID, err := strconv.ParseUint(c.Param("mapping_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid role mapping id", err))
		return
	}

	var form ChangeMemberRoleRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	if err := h.service.ChangeMemberRole(c.Request.Context(), projectID, mappingID, form.Role); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) RemoveMember(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	mappingID, err := strconv.ParseUint(c.Param("mapping_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid role mapping id", err))
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), projectID, mappingID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
