package handlers

import (
	"errors"
	"net/http"

	"shiftforge/internal/services"
	"shiftforge/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StaffingRuleHandler holds the staffing rule service.
type StaffingRuleHandler struct {
	ruleService services.StaffingRuleService
}

// NewStaffingRuleHandler creates a new StaffingRuleHandler.
func NewStaffingRuleHandler(rs services.StaffingRuleService) *StaffingRuleHandler {
	return &StaffingRuleHandler{ruleService: rs}
}

// CreateStaffingRule handles the creation of a new staffing rule.
func (h *StaffingRuleHandler) CreateStaffingRule(c *gin.Context) {
	var req services.CreateStaffingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	rule, err := h.ruleService.CreateStaffingRule(req)
	if err != nil {
		utils.LogError(err, "CreateStaffingRule: Error from ruleService.CreateStaffingRule")
		switch {
		case errors.Is(err, services.ErrPositionNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Position for staffing rule not found.", err.Error()))
		case errors.Is(err, services.ErrStaffingRuleValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create staffing rule.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// GetStaffingRules lists staffing rules, optionally for one position.
func (h *StaffingRuleHandler) GetStaffingRules(c *gin.Context) {
	var positionID *string
	if v := c.Query("position_id"); v != "" {
		positionID = &v
	}

	rules, err := h.ruleService.GetStaffingRules(positionID)
	if err != nil {
		utils.LogError(err, "GetStaffingRules: Error from ruleService.GetStaffingRules")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch staffing rules.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, rules)
}

// UpdateStaffingRule edits a staffing rule.
func (h *StaffingRuleHandler) UpdateStaffingRule(c *gin.Context) {
	var req services.UpdateStaffingRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	rule, err := h.ruleService.UpdateStaffingRule(c.Param("id"), req)
	if err != nil {
		utils.LogError(err, "UpdateStaffingRule: Error from ruleService.UpdateStaffingRule")
		switch {
		case errors.Is(err, services.ErrStaffingRuleNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staffing rule not found.", ""))
		case errors.Is(err, services.ErrStaffingRuleValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update staffing rule.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, rule)
}

// DeleteStaffingRule removes a staffing rule.
func (h *StaffingRuleHandler) DeleteStaffingRule(c *gin.Context) {
	err := h.ruleService.DeleteStaffingRule(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrStaffingRuleNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staffing rule not found.", ""))
			return
		}
		utils.LogError(err, "DeleteStaffingRule: Error from ruleService.DeleteStaffingRule")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete staffing rule.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staffing rule deleted."})
}
