package stats

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

// Show returns project statistics, optionally restricted to the keys named
// by repeated include parameters
func (h *Handler) Show(c *gin.Context) {
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
	include := c.QueryArray("include")

	response, err := h.service.Compute(c.Request.Context(), project, userID, include)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}
