package api

import (
	"errors"
	"log"
	"net/http"

	"alcyxob/training-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// serviceErrorStatus maps service sentinels to HTTP status codes. Order matters only
// where one error wraps another.
var serviceErrorStatus = []struct {
	err    error
	status int
}{
	{service.ErrAthleteNotFound, http.StatusNotFound},
	{service.ErrPlanNotFound, http.StatusNotFound},
	{service.ErrTemplateNotFound, http.StatusNotFound},
	{service.ErrOverrideNotFound, http.StatusNotFound},

	{service.ErrAthleteNotRole, http.StatusForbidden},
	{service.ErrAthleteNotManaged, http.StatusForbidden},
	{service.ErrPlanAccessDenied, http.StatusForbidden},
	{service.ErrTemplateAccessDenied, http.StatusForbidden},
	{service.ErrUploadNotOwned, http.StatusForbidden},

	{service.ErrAthleteAlreadyAssigned, http.StatusConflict},
	{service.ErrDateOccupied, http.StatusConflict},
	{service.ErrCannotActivate, http.StatusConflict},

	{service.ErrInvalidPlan, http.StatusBadRequest},
	{service.ErrDateOutsidePlan, http.StatusBadRequest},
	{service.ErrInvalidWorkout, http.StatusBadRequest},
	{service.ErrValidationFailed, http.StatusBadRequest},
	{service.ErrInvalidAvailability, http.StatusBadRequest},
	{service.ErrInvalidDateRange, http.StatusBadRequest},
	{service.ErrInvalidSupplementClass, http.StatusBadRequest},
	{service.ErrInvalidLookAheadWindow, http.StatusBadRequest},
	{service.ErrUnsupportedFile, http.StatusBadRequest},
	{service.ErrInvalidActivity, http.StatusBadRequest},
	{service.ErrUploadConfirmationFailed, http.StatusBadRequest},

	{service.ErrActivityFileInvalid, http.StatusUnprocessableEntity},
}

// respondServiceError writes the status matching err. Unknown errors are logged and
// reported as 500 with the given message.
func respondServiceError(c *gin.Context, err error, fallback string) {
	for _, m := range serviceErrorStatus {
		if errors.Is(err, m.err) {
			abortWithError(c, m.status, err.Error())
			return
		}
	}
	log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
	abortWithError(c, http.StatusInternalServerError, fallback)
}
