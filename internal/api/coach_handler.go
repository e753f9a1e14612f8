package api

import (
	"errors"
	"net/http"

	"alcyxob/training-planner/internal/domain"
	"alcyxob/training-planner/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoachHandler serves roster, plan authoring and redistribution.
type CoachHandler struct {
	coachService    service.CoachService
	scheduleService service.ScheduleService
}

func NewCoachHandler(coachService service.CoachService, scheduleService service.ScheduleService) *CoachHandler {
	return &CoachHandler{coachService: coachService, scheduleService: scheduleService}
}

// --- DTOs ---

type AddAthleteRequest struct {
	AthleteEmail string `json:"athleteEmail" binding:"required,email"`
}

type ThresholdsRequest struct {
	FTPWatts              float64 `json:"ftpWatts" binding:"gte=0"`
	ThresholdPaceSecPerKm float64 `json:"thresholdPaceSecPerKm" binding:"gte=0"`
}

type CreatePlanRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	StartDate   string              `json:"startDate" binding:"required"` // YYYY-MM-DD, first day of week 1
	Weeks       int                 `json:"weeks" binding:"required,min=1"`
	Phases      []domain.PhaseBlock `json:"phases"`
}

type PlannedWorkoutRequest struct {
	Date                  string                 `json:"date" binding:"required"` // YYYY-MM-DD
	WorkoutID             string                 `json:"workoutId"`
	Name                  string                 `json:"name"`
	Category              domain.WorkoutCategory `json:"category"`
	SupplementClass       domain.SupplementClass `json:"supplementClass"`
	TargetTSS             float64                `json:"targetTss" binding:"gte=0"`
	TargetDurationMinutes int                    `json:"targetDurationMinutes" binding:"gte=0"`
	Notes                 string                 `json:"notes"`
}

// --- Roster ---

// AddAthleteByEmail godoc
// @Summary Add an athlete to the coach's roster by email
// @Tags Coach
// @Security BearerAuth
// @Param request body AddAthleteRequest true "Athlete's email"
// @Success 200 {object} UserResponse
// @Failure 403 {object} gin.H "User is not an athlete"
// @Failure 404 {object} gin.H "Athlete not found"
// @Failure 409 {object} gin.H "Athlete already has a coach"
// @Router /coach/athletes [post]
func (h *CoachHandler) AddAthleteByEmail(c *gin.Context) {
	var req AddAthleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}

	athlete, err := h.coachService.AddAthleteByEmail(c.Request.Context(), coachID, req.AthleteEmail)
	if err != nil {
		respondServiceError(c, err, "Failed to add athlete.")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(athlete))
}

// GetManagedAthletes godoc
// @Summary List the coach's athletes
// @Tags Coach
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Router /coach/athletes [get]
func (h *CoachHandler) GetManagedAthletes(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	athletes, err := h.coachService.GetManagedAthletes(c.Request.Context(), coachID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve managed athletes.")
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(athletes))
}

func (h *CoachHandler) SetAthleteThresholds(c *gin.Context) {
	var req ThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	athleteID, ok := pathObjectID(c, "athleteId")
	if !ok {
		return
	}
	th := domain.Thresholds{FTPWatts: req.FTPWatts, ThresholdPaceSecPerKm: req.ThresholdPaceSecPerKm}
	if err := h.coachService.SetAthleteThresholds(c.Request.Context(), coachID, athleteID, th); err != nil {
		respondServiceError(c, err, "Failed to update thresholds.")
		return
	}
	c.JSON(http.StatusOK, th)
}

// --- Plans ---

// CreatePlan godoc
// @Summary Create a training plan for a managed athlete
// @Tags Coach
// @Security BearerAuth
// @Param athleteId path string true "Athlete ID"
// @Param plan body CreatePlanRequest true "Plan"
// @Success 201 {object} domain.TrainingPlan
// @Router /coach/athletes/{athleteId}/plans [post]
func (h *CoachHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	startDate, err := domain.ParseDate(req.StartDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid startDate format, expected YYYY-MM-DD.")
		return
	}
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	athleteID, ok := pathObjectID(c, "athleteId")
	if !ok {
		return
	}

	plan, err := h.coachService.CreatePlan(c.Request.Context(), coachID, athleteID, service.PlanInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   startDate,
		Weeks:       req.Weeks,
		Phases:      req.Phases,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create training plan.")
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *CoachHandler) GetPlansForAthlete(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	athleteID, ok := pathObjectID(c, "athleteId")
	if !ok {
		return
	}
	plans, err := h.coachService.GetPlansForAthlete(c.Request.Context(), coachID, athleteID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve training plans.")
		return
	}
	if plans == nil {
		plans = []domain.TrainingPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// --- Calendar ---

// AddPlannedWorkout godoc
// @Summary Put a workout on a plan date
// @Tags Coach
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Param workout body PlannedWorkoutRequest true "Planned workout"
// @Success 201 {object} domain.PlannedWorkout
// @Failure 409 {object} gin.H "Date already holds a workout"
// @Router /coach/plans/{planId}/workouts [post]
func (h *CoachHandler) AddPlannedWorkout(c *gin.Context) {
	var req PlannedWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD.")
		return
	}
	in := service.PlannedWorkoutInput{
		Date:                  date,
		Name:                  req.Name,
		Category:              req.Category,
		SupplementClass:       req.SupplementClass,
		TargetTSS:             req.TargetTSS,
		TargetDurationMinutes: req.TargetDurationMinutes,
		Notes:                 req.Notes,
	}
	if req.WorkoutID != "" {
		workoutID, err := primitive.ObjectIDFromHex(req.WorkoutID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid workoutId format.")
			return
		}
		in.WorkoutID = &workoutID
	}
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}

	w, err := h.coachService.AddPlannedWorkout(c.Request.Context(), coachID, planID, in)
	if err != nil {
		respondServiceError(c, err, "Failed to add planned workout.")
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *CoachHandler) GetPlannedWorkouts(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	workouts, err := h.coachService.GetPlannedWorkouts(c.Request.Context(), coachID, planID)
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve planned workouts.")
		return
	}
	if workouts == nil {
		workouts = []domain.PlannedWorkout{}
	}
	c.JSON(http.StatusOK, workouts)
}

// --- Redistribution ---

// PreviewRedistribution godoc
// @Summary Propose moves for workouts on blocked days
// @Tags Coach
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} planner.Result
// @Router /coach/plans/{planId}/redistribution [get]
func (h *CoachHandler) PreviewRedistribution(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	res, err := h.scheduleService.PreviewRedistribution(c.Request.Context(), coachID, planID)
	if err != nil {
		respondServiceError(c, err, "Failed to compute redistribution.")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *CoachHandler) ApplyRedistribution(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	res, err := h.scheduleService.ApplyRedistribution(c.Request.Context(), coachID, planID)
	if err != nil {
		respondServiceError(c, err, "Failed to apply redistribution.")
		return
	}
	c.JSON(http.StatusOK, res)
}

// ActivatePlan godoc
// @Summary Redistribute and activate a plan
// @Description Responds 409 with the redistribution result when a workout has no alternative day.
// @Tags Coach
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} planner.Result
// @Failure 409 {object} planner.Result
// @Router /coach/plans/{planId}/activate [post]
func (h *CoachHandler) ActivatePlan(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	res, err := h.scheduleService.ActivatePlan(c.Request.Context(), coachID, planID)
	if errors.Is(err, service.ErrCannotActivate) && res != nil {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error(), "result": res})
		return
	}
	if err != nil {
		respondServiceError(c, err, "Failed to activate plan.")
		return
	}
	c.JSON(http.StatusOK, res)
}
