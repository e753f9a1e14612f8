package api

import (
	"net/http"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// TemplateHandler serves the coach's workout library.
type TemplateHandler struct {
	catalogService service.CatalogService
}

func NewTemplateHandler(catalogService service.CatalogService) *TemplateHandler {
	return &TemplateHandler{catalogService: catalogService}
}

// TemplateRequest is the body of create and update calls.
type TemplateRequest struct {
	Code                  string                 `json:"code"`
	Name                  string                 `json:"name" binding:"required"`
	Description           string                 `json:"description"`
	Sport                 domain.Sport           `json:"sport"`
	Category              domain.WorkoutCategory `json:"category" binding:"required"`
	SupplementClass       domain.SupplementClass `json:"supplementClass"`
	TargetTSS             float64                `json:"targetTss" binding:"gte=0"`
	TargetDurationMinutes int                    `json:"targetDurationMinutes" binding:"gte=0"`
}

func (r TemplateRequest) input() service.TemplateInput {
	return service.TemplateInput{
		Code:                  r.Code,
		Name:                  r.Name,
		Description:           r.Description,
		Sport:                 r.Sport,
		Category:              r.Category,
		SupplementClass:       r.SupplementClass,
		TargetTSS:             r.TargetTSS,
		TargetDurationMinutes: r.TargetDurationMinutes,
	}
}

// CreateTemplate godoc
// @Summary Create a workout template
// @Tags Templates
// @Security BearerAuth
// @Param template body TemplateRequest true "Template"
// @Success 201 {object} domain.WorkoutTemplate
// @Router /templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}

	tmpl, err := h.catalogService.CreateTemplate(c.Request.Context(), coachID, req.input())
	if err != nil {
		respondServiceError(c, err, "Failed to create template.")
		return
	}
	c.JSON(http.StatusCreated, tmpl)
}

// GetCoachTemplates godoc
// @Summary List the coach's workout templates
// @Tags Templates
// @Security BearerAuth
// @Success 200 {array} domain.WorkoutTemplate
// @Router /templates [get]
func (h *TemplateHandler) GetCoachTemplates(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	templates, err := h.catalogService.GetTemplatesByCoach(c.Request.Context(), coachID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve templates.")
		return
	}
	if templates == nil {
		templates = []domain.WorkoutTemplate{}
	}
	c.JSON(http.StatusOK, templates)
}

func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	templateID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	tmpl, err := h.catalogService.GetTemplateByID(c.Request.Context(), coachID, templateID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve template.")
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	templateID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	tmpl, err := h.catalogService.UpdateTemplate(c.Request.Context(), coachID, templateID, req.input())
	if err != nil {
		respondServiceError(c, err, "Failed to update template.")
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	templateID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteTemplate(c.Request.Context(), coachID, templateID); err != nil {
		respondServiceError(c, err, "Failed to delete template.")
		return
	}
	c.Status(http.StatusNoContent)
}
