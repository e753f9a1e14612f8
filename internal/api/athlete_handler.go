package api

import (
	"fmt"
	"net/http"
	"time"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/planner"
	"alcyxob/training-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// AthleteHandler serves the athlete's availability, activities and reconciliation.
type AthleteHandler struct {
	availabilityService   service.AvailabilityService
	scheduleService       service.ScheduleService
	activityService       service.ActivityService
	reconciliationService service.ReconciliationService
}

func NewAthleteHandler(
	availabilityService service.AvailabilityService,
	scheduleService service.ScheduleService,
	activityService service.ActivityService,
	reconciliationService service.ReconciliationService,
) *AthleteHandler {
	return &AthleteHandler{
		availabilityService:   availabilityService,
		scheduleService:       scheduleService,
		activityService:       activityService,
		reconciliationService: reconciliationService,
	}
}

// --- DTOs ---

type AvailabilityRequest struct {
	WeeklyAvailability []domain.DayAvailability   `json:"weeklyAvailability"`
	Preferences        domain.TrainingPreferences `json:"preferences"`
}

type OverrideRequest struct {
	Status             domain.AvailabilityStatus `json:"status" binding:"required"`
	MaxDurationMinutes *int                      `json:"maxDurationMinutes"`
	Notes              string                    `json:"notes"`
}

type SupplementSuggestionRequest struct {
	Class domain.SupplementClass `json:"class" binding:"required"`
	From  string                 `json:"from"`  // YYYY-MM-DD, defaults to today
	Weeks int                    `json:"weeks"` // defaults to the configured look-ahead
}

type ManualActivityRequest struct {
	Sport            domain.Sport `json:"sport"`
	Name             string       `json:"name"`
	Date             string       `json:"date" binding:"required"`
	DurationMinutes  int          `json:"durationMinutes" binding:"required,min=1"`
	TSS              *float64     `json:"tss"`
	IntensityFactor  *float64     `json:"intensityFactor"`
	NormalizedPower  *float64     `json:"normalizedPower"`
	AveragePace      *float64     `json:"averagePace"`
	AverageHeartRate *float64     `json:"averageHeartRate"`
}

type RequestUploadURLRequest struct {
	FileName string `json:"fileName" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
	FileName  string `json:"fileName" binding:"required"`
	FileSize  int64  `json:"fileSize" binding:"gte=0"`
}

type ReconcileRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// --- Availability ---

func (h *AthleteHandler) GetAvailability(c *gin.Context) {
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	cfg, err := h.availabilityService.GetAvailability(c.Request.Context(), athleteID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve availability.")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateAvailability godoc
// @Summary Replace the weekly availability pattern and training preferences
// @Tags Athlete
// @Security BearerAuth
// @Param availability body AvailabilityRequest true "Weekly pattern"
// @Success 200 {object} domain.AvailabilityConfig
// @Router /athlete/availability [put]
func (h *AthleteHandler) UpdateAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	cfg, err := h.availabilityService.UpdateAvailability(c.Request.Context(), athleteID, req.WeeklyAvailability, req.Preferences)
	if err != nil {
		respondServiceError(c, err, "Failed to update availability.")
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *AthleteHandler) SetOverride(c *gin.Context) {
	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	date, ok := pathDate(c, "date")
	if !ok {
		return
	}
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	override := domain.DateOverride{
		Date:               date,
		Status:             req.Status,
		MaxDurationMinutes: req.MaxDurationMinutes,
		Notes:              req.Notes,
	}
	if err := h.availabilityService.SetOverride(c.Request.Context(), athleteID, override); err != nil {
		respondServiceError(c, err, "Failed to save override.")
		return
	}
	c.JSON(http.StatusOK, override)
}

func (h *AthleteHandler) DeleteOverride(c *gin.Context) {
	date, ok := pathDate(c, "date")
	if !ok {
		return
	}
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := h.availabilityService.DeleteOverride(c.Request.Context(), athleteID, date); err != nil {
		respondServiceError(c, err, "Failed to delete override.")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCalendar godoc
// @Summary Resolve availability for every date in a range
// @Tags Athlete
// @Security BearerAuth
// @Param from query string true "First date (YYYY-MM-DD)"
// @Param to query string true "Last date (YYYY-MM-DD)"
// @Success 200 {array} domain.ResolvedAvailability
// @Router /athlete/availability/calendar [get]
func (h *AthleteHandler) GetCalendar(c *gin.Context) {
	from, to, ok := queryRange(c)
	if !ok {
		return
	}
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	days, err := h.availabilityService.Calendar(c.Request.Context(), athleteID, from, to)
	if err != nil {
		respondServiceError(c, err, "Failed to resolve calendar.")
		return
	}
	c.JSON(http.StatusOK, days)
}

// SuggestSupplements godoc
// @Summary Rank dates for a supplement session
// @Tags Athlete
// @Security BearerAuth
// @Param request body SupplementSuggestionRequest true "Supplement class and window"
// @Success 200 {array} planner.SupplementSuggestion
// @Router /athlete/supplements/suggestions [post]
func (h *AthleteHandler) SuggestSupplements(c *gin.Context) {
	var req SupplementSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	from, ok := optionalDate(c, "from", req.From)
	if !ok {
		return
	}
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	suggestions, err := h.scheduleService.SuggestSupplements(c.Request.Context(), athleteID, req.Class, from, req.Weeks)
	if err != nil {
		respondServiceError(c, err, "Failed to suggest supplement dates.")
		return
	}
	if suggestions == nil {
		suggestions = []planner.SupplementSuggestion{}
	}
	c.JSON(http.StatusOK, suggestions)
}

// --- Activities ---

func (h *AthleteHandler) CreateManualActivity(c *gin.Context) {
	var req ManualActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD.")
		return
	}
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	activity, err := h.activityService.CreateManualActivity(c.Request.Context(), athleteID, service.ManualActivityInput{
		Sport:            req.Sport,
		Name:             req.Name,
		Date:             date,
		DurationMinutes:  req.DurationMinutes,
		TSS:              req.TSS,
		IntensityFactor:  req.IntensityFactor,
		NormalizedPower:  req.NormalizedPower,
		AveragePace:      req.AveragePace,
		AverageHeartRate: req.AverageHeartRate,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to record activity.")
		return
	}
	c.JSON(http.StatusCreated, activity)
}

func (h *AthleteHandler) GetActivities(c *gin.Context) {
	from, to, ok := queryRange(c)
	if !ok {
		return
	}
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	activities, err := h.activityService.GetActivities(c.Request.Context(), athleteID, from, to)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve activities.")
		return
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	c.JSON(http.StatusOK, activities)
}

// RequestUploadURL godoc
// @Summary Get a pre-signed URL for uploading a FIT file
// @Tags Athlete
// @Security BearerAuth
// @Param request body RequestUploadURLRequest true "File name"
// @Success 200 {object} service.UploadURLResponse
// @Router /athlete/activities/upload-url [post]
func (h *AthleteHandler) RequestUploadURL(c *gin.Context) {
	var req RequestUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	resp, err := h.activityService.RequestUploadURL(c.Request.Context(), athleteID, req.FileName)
	if err != nil {
		respondServiceError(c, err, "Failed to get upload URL.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload godoc
// @Summary Import a FIT file after it was uploaded
// @Tags Athlete
// @Security BearerAuth
// @Param request body ConfirmUploadRequest true "Uploaded object"
// @Success 201 {object} domain.Activity
// @Failure 422 {object} gin.H "File is not a readable FIT activity"
// @Router /athlete/activities/confirm-upload [post]
func (h *AthleteHandler) ConfirmUpload(c *gin.Context) {
	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	activity, err := h.activityService.ConfirmUpload(c.Request.Context(), athleteID, req.ObjectKey, req.FileName, req.FileSize)
	if err != nil {
		respondServiceError(c, err, "Failed to import activity file.")
		return
	}
	c.JSON(http.StatusCreated, activity)
}

// --- Reconciliation ---

// ReconcilePlan godoc
// @Summary Compare the plan with completed activities
// @Tags Athlete
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Param range body ReconcileRequest false "Date range, defaults to plan start through today"
// @Success 200 {object} service.ReconciliationSummary
// @Router /athlete/plans/{planId}/reconcile [post]
func (h *AthleteHandler) ReconcilePlan(c *gin.Context) {
	var req ReconcileRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}
	from, ok := optionalDate(c, "from", req.From)
	if !ok {
		return
	}
	to, ok := optionalDate(c, "to", req.To)
	if !ok {
		return
	}
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	summary, err := h.reconciliationService.ReconcilePlan(c.Request.Context(), athleteID, planID, from, to)
	if err != nil {
		respondServiceError(c, err, "Failed to reconcile plan.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *AthleteHandler) GetAdaptations(c *gin.Context) {
	from, ok := optionalDate(c, "from", c.Query("from"))
	if !ok {
		return
	}
	to, ok := optionalDate(c, "to", c.Query("to"))
	if !ok {
		return
	}
	athleteID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	records, err := h.reconciliationService.GetAdaptations(c.Request.Context(), athleteID, planID, from, to)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve adaptations.")
		return
	}
	if records == nil {
		records = []domain.AdaptationRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// --- Date helpers ---

func pathDate(c *gin.Context, name string) (time.Time, bool) {
	d, err := domain.ParseDate(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format, expected YYYY-MM-DD.", name))
		return time.Time{}, false
	}
	return d, true
}

// optionalDate parses value as a date; an empty value yields the zero time.
func optionalDate(c *gin.Context, name, value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format, expected YYYY-MM-DD.", name))
		return time.Time{}, false
	}
	return d, true
}

// queryRange reads the required from/to query parameters.
func queryRange(c *gin.Context) (time.Time, time.Time, bool) {
	if c.Query("from") == "" || c.Query("to") == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameters from and to are required.")
		return time.Time{}, time.Time{}, false
	}
	from, ok := optionalDate(c, "from", c.Query("from"))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := optionalDate(c, "to", c.Query("to"))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
