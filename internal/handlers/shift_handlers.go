package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shiftforge/internal/middleware"
	"shiftforge/internal/services"
	"shiftforge/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ShiftHandler holds the shift and assignment services.
type ShiftHandler struct {
	shiftService      services.ShiftService
	assignmentService services.AssignmentService
}

// NewShiftHandler creates a new ShiftHandler.
func NewShiftHandler(ss services.ShiftService, as services.AssignmentService) *ShiftHandler {
	return &ShiftHandler{shiftService: ss, assignmentService: as}
}

// monthQuery reads the year/month query pair, defaulting to the current month.
func monthQuery(c *gin.Context) (int, int, error) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	if v := c.Query("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, errors.New("year must be an integer")
		}
		year = parsed
	}
	if v := c.Query("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, errors.New("month must be an integer")
		}
		month = parsed
	}
	return year, month, nil
}

// GetShifts lists all shifts for the requested month (admin view).
func (h *ShiftHandler) GetShifts(c *gin.Context) {
	year, month, err := monthQuery(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid month query: "+err.Error(), err.Error()))
		return
	}

	shifts, err := h.shiftService.GetShiftsForMonth(year, month)
	if err != nil {
		if errors.Is(err, services.ErrMonthRange) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid month query: "+err.Error(), err.Error()))
			return
		}
		utils.LogError(err, "GetShifts: Error from shiftService.GetShiftsForMonth")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch shifts.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, shifts)
}

// GetOwnShifts lists the authenticated employee's shifts for the month.
func (h *ShiftHandler) GetOwnShifts(c *gin.Context) {
	employeeID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}
	year, month, err := monthQuery(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid month query: "+err.Error(), err.Error()))
		return
	}

	shifts, err := h.shiftService.GetOwnShifts(employeeID, year, month)
	if err != nil {
		if errors.Is(err, services.ErrMonthRange) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid month query: "+err.Error(), err.Error()))
			return
		}
		utils.LogError(err, "GetOwnShifts: Error from shiftService.GetOwnShifts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch shifts.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, shifts)
}

// CreateShift handles manual shift creation by an admin.
func (h *ShiftHandler) CreateShift(c *gin.Context) {
	var req services.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	shift, err := h.shiftService.CreateShift(req)
	if err != nil {
		utils.LogError(err, "CreateShift: Error from shiftService.CreateShift")
		switch {
		case errors.Is(err, services.ErrDateFormat), errors.Is(err, services.ErrClockFormat),
			errors.Is(err, services.ErrTimeRange), errors.Is(err, services.ErrShiftValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		case errors.Is(err, services.ErrRequestAlreadyUsed):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Shift request is already linked to a shift.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create shift.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, shift)
}

// UpdateShift handles shift edits by an admin.
func (h *ShiftHandler) UpdateShift(c *gin.Context) {
	var req services.UpdateShiftRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	shift, err := h.shiftService.UpdateShift(c.Param("id"), req)
	if err != nil {
		utils.LogError(err, "UpdateShift: Error from shiftService.UpdateShift")
		switch {
		case errors.Is(err, services.ErrShiftNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Shift not found.", ""))
		case errors.Is(err, services.ErrDateFormat), errors.Is(err, services.ErrClockFormat), errors.Is(err, services.ErrTimeRange):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update shift.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, shift)
}

// DeleteShift handles shift deletion by an admin.
func (h *ShiftHandler) DeleteShift(c *gin.Context) {
	err := h.shiftService.DeleteShift(c.Param("id"))
	if err != nil {
		utils.LogError(err, "DeleteShift: Error from shiftService.DeleteShift")
		if errors.Is(err, services.ErrShiftNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Shift not found.", ""))
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete shift.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shift deleted."})
}

// AutoAssign runs the assignment engine over the pending request pool. Any
// storage failure aborts the run without reporting partial success.
func (h *ShiftHandler) AutoAssign(c *gin.Context) {
	result, err := h.assignmentService.RunAutoAssignment()
	if err != nil {
		utils.LogError(err, "AutoAssign: Error from assignmentService.RunAutoAssignment")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Auto-assignment failed.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, result)
}

// FinalizeMonthRequest names the month whose drafts get confirmed.
type FinalizeMonthRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required"`
}

// FinalizeMonth promotes the month's draft shifts to confirmed.
func (h *ShiftHandler) FinalizeMonth(c *gin.Context) {
	var req FinalizeMonthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	summary, err := h.shiftService.FinalizeMonth(req.Year, req.Month)
	if err != nil {
		if errors.Is(err, services.ErrMonthRange) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid month: "+err.Error(), err.Error()))
			return
		}
		utils.LogError(err, "FinalizeMonth: Error from shiftService.FinalizeMonth")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to finalize month.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ClearDrafts deletes every draft shift and unclaims their requests.
func (h *ShiftHandler) ClearDrafts(c *gin.Context) {
	count, err := h.shiftService.ClearDrafts()
	if err != nil {
		utils.LogError(err, "ClearDrafts: Error from shiftService.ClearDrafts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to clear draft shifts.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted_count": count})
}

// GetTotalHours reports the authenticated employee's worked time for the month.
func (h *ShiftHandler) GetTotalHours(c *gin.Context) {
	employeeID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}
	year, month, err := monthQuery(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid month query: "+err.Error(), err.Error()))
		return
	}

	hours, err := h.shiftService.GetWorkedHours(employeeID, year, month)
	if err != nil {
		if errors.Is(err, services.ErrMonthRange) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid month query: "+err.Error(), err.Error()))
			return
		}
		utils.LogError(err, "GetTotalHours: Error from shiftService.GetWorkedHours")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to compute worked hours.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, hours)
}

// GetDashboardStats feeds the admin dashboard cards.
func (h *ShiftHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.shiftService.GetDashboardStats(time.Now())
	if err != nil {
		utils.LogError(err, "GetDashboardStats: Error from shiftService.GetDashboardStats")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch dashboard stats.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, stats)
}
