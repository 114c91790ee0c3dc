package handlers

import (
	"errors"
	"net/http"
	"strings"

	"shiftforge/internal/middleware"
	"shiftforge/internal/models"
	"shiftforge/internal/services"
	"shiftforge/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ShiftRequestHandler holds the shift request service.
type ShiftRequestHandler struct {
	requestService services.ShiftRequestService
}

// NewShiftRequestHandler creates a new ShiftRequestHandler.
func NewShiftRequestHandler(rs services.ShiftRequestService) *ShiftRequestHandler {
	return &ShiftRequestHandler{requestService: rs}
}

// CreateShiftRequest handles an employee's availability submission.
func (h *ShiftRequestHandler) CreateShiftRequest(c *gin.Context) {
	employeeID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	var req services.CreateShiftRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	request, err := h.requestService.CreateShiftRequest(employeeID, req)
	if err != nil {
		utils.LogError(err, "CreateShiftRequest: Error from requestService.CreateShiftRequest")
		switch {
		case errors.Is(err, services.ErrPositionNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Position not found.", err.Error()))
		case errors.Is(err, services.ErrDateFormat), errors.Is(err, services.ErrClockFormat), errors.Is(err, services.ErrTimeRange):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create shift request.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, request)
}

// GetShiftRequests lists shift requests for admins, optionally by status.
func (h *ShiftRequestHandler) GetShiftRequests(c *gin.Context) {
	var status *string
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		status = &v
	}

	requests, err := h.requestService.GetShiftRequests(status)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequestStatus) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid status filter: "+err.Error(), err.Error()))
			return
		}
		utils.LogError(err, "GetShiftRequests: Error from requestService.GetShiftRequests")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch shift requests.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetOwnShiftRequests lists the authenticated employee's requests.
func (h *ShiftRequestHandler) GetOwnShiftRequests(c *gin.Context) {
	employeeID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	requests, err := h.requestService.GetOwnShiftRequests(employeeID)
	if err != nil {
		utils.LogError(err, "GetOwnShiftRequests: Error from requestService.GetOwnShiftRequests")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch shift requests.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, requests)
}

// UpdateShiftRequest edits the employee's own still-pending request.
func (h *ShiftRequestHandler) UpdateShiftRequest(c *gin.Context) {
	employeeID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	var req services.UpdateShiftRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	request, err := h.requestService.UpdateShiftRequest(c.Param("id"), employeeID, req)
	if err != nil {
		utils.LogError(err, "UpdateShiftRequest: Error from requestService.UpdateShiftRequest")
		switch {
		case errors.Is(err, services.ErrShiftRequestNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Shift request not found.", ""))
		case errors.Is(err, services.ErrNotRequestOwner):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Shift request belongs to another employee.", ""))
		case errors.Is(err, services.ErrShiftRequestNotEditable):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Shift request can no longer be modified.", err.Error()))
		case errors.Is(err, services.ErrPositionNotFound), errors.Is(err, services.ErrDateFormat),
			errors.Is(err, services.ErrClockFormat), errors.Is(err, services.ErrTimeRange):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update shift request.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, request)
}

// UpdateShiftRequestStatus handles the admin approve/reject action.
func (h *ShiftRequestHandler) UpdateShiftRequestStatus(c *gin.Context) {
	var req services.UpdateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	request, err := h.requestService.UpdateShiftRequestStatus(c.Param("id"), req)
	if err != nil {
		utils.LogError(err, "UpdateShiftRequestStatus: Error from requestService.UpdateShiftRequestStatus")
		switch {
		case errors.Is(err, services.ErrShiftRequestNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Shift request not found.", ""))
		case errors.Is(err, services.ErrInvalidRequestStatus):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid status: "+err.Error(), err.Error()))
		case errors.Is(err, services.ErrShiftRequestNotEditable):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Shift request is already linked to a shift.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update shift request status.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, request)
}

// DeleteShiftRequest removes a request; employees may only delete their own.
func (h *ShiftRequestHandler) DeleteShiftRequest(c *gin.Context) {
	employeeID, ok := middleware.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}
	role, _ := c.Get(middleware.CtxUserRole)
	isAdmin := role == models.RoleAdmin

	err := h.requestService.DeleteShiftRequest(c.Param("id"), employeeID, isAdmin)
	if err != nil {
		utils.LogError(err, "DeleteShiftRequest: Error from requestService.DeleteShiftRequest")
		switch {
		case errors.Is(err, services.ErrShiftRequestNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Shift request not found.", ""))
		case errors.Is(err, services.ErrNotRequestOwner):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "Shift request belongs to another employee.", ""))
		case errors.Is(err, services.ErrShiftRequestNotEditable):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Shift request is already linked to a shift.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete shift request.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shift request deleted."})
}
