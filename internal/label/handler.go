package label

import (
	"collaborative-annotation-server/internal/domain"
	"collaborative-annotation-server/internal/errors"
	"encoding/json"
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

type LabelRequest struct {
	Text            string `json:"text" binding:"required,min=1,max=100"`
	Shortcut        string `json:"shortcut" binding:"max=15"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
}

// shortkey turns an empty shortcut into NULL so shortcut-less labels never
// collide on the unique index
func shortkey(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (h *Handler) Create(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	var form LabelRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	label := &domain.Label{
		ProjectID:       projectID,
		Text:            form.Text,
		Shortcut:        shortkey(form.Shortcut),
		BackgroundColor: form.BackgroundColor,
		TextColor:       form.TextColor,
	}

	if err := h.service.CreateLabel(c.Request.Context(), label); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, label)
}

func (h *Handler) List(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	labels, err := h.service.GetProjectLabels(c.Request.Context(), projectID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, labels)
}

func (h *Handler) Show(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	labelID, err := strconv.ParseUint(c.Param("label_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid label id", err))
		return
	}

	label, err := h.service.GetLabelByID(c.Request.Context(), projectID, labelID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, label)
}

func (h *Handler) Update(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	labelID, err := strconv.ParseUint(c.Param("label_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid label id", err))
		return
	}

	var form LabelRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	label, err := h.service.GetLabelByID(c.Request.Context(), projectID, labelID)
	if err != nil {
		c.Error(err)
		return
	}

	label.Text = form.Text
	label.Shortcut = shortkey(form.Shortcut)
	label.BackgroundColor = form.BackgroundColor
	label.TextColor = form.TextColor

	if err := h.service.UpdateLabel(c.Request.Context(), label); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, label)
}

func (h *Handler) Delete(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	labelID, err := strconv.ParseUint(c.Param("label_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid label id", err))
		return
	}

	if err := h.service.DeleteLabel(c.Request.Context(), projectID, labelID); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Upload bulk-creates labels from an uploaded JSON array file
func (h *Handler) Upload(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
	if err != nil {
		c.Error(errors.BadRequest("Invalid project id", err))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(errors.BadRequest("Empty content", err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(errors.BadRequest("Can't open uploaded file", err))
		return
	}
	defer file.Close()

	var forms []LabelRequest
	if err := json.NewDecoder(file).Decode(&forms); err != nil {
		c.Error(errors.BadRequest("File must contain a JSON array of labels", err))
		return
	}

	labels := make([]domain.Label, 0, len(forms))
	for _, form := range forms {
		labels = append(labels, domain.Label{
			Text:            form.Text,
			Shortcut:        shortkey(form.Shortcut),
			BackgroundColor: form.BackgroundColor,
			TextColor:       form.TextColor,
		})
	}

	if err := h.service.CreateLabels(c.Request.Context(), projectID, labels); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusCreated)
}
