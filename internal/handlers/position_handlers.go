package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"shiftforge/internal/services"
	"shiftforge/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PositionHandler holds the position service.
type PositionHandler struct {
	positionService services.PositionService
}

// NewPositionHandler creates a new PositionHandler.
func NewPositionHandler(ps services.PositionService) *PositionHandler {
	return &PositionHandler{positionService: ps}
}

// CreatePosition handles the creation of a new position.
func (h *PositionHandler) CreatePosition(c *gin.Context) {
	var req services.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	position, err := h.positionService.CreatePosition(req)
	if err != nil {
		utils.LogError(err, "CreatePosition: Error from positionService.CreatePosition")
		switch {
		case errors.Is(err, services.ErrPositionNameTaken):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Position name is already in use.", err.Error()))
		case errors.Is(err, services.ErrPositionDataValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create position.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, position)
}

// GetPositions lists positions. With ?with_rules=true each position carries
// its staffing rules, which the admin management screen needs.
func (h *PositionHandler) GetPositions(c *gin.Context) {
	withRules, _ := strconv.ParseBool(c.DefaultQuery("with_rules", "false"))

	positions, err := h.positionService.GetPositions(withRules)
	if err != nil {
		utils.LogError(err, "GetPositions: Error from positionService.GetPositions")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch positions.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, positions)
}

// GetPositionByID fetches a single position.
func (h *PositionHandler) GetPositionByID(c *gin.Context) {
	position, err := h.positionService.GetPositionByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrPositionNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Position not found.", ""))
			return
		}
		utils.LogError(err, "GetPositionByID: Error from positionService.GetPositionByID")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch position.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, position)
}

// UpdatePosition renames a position.
func (h *PositionHandler) UpdatePosition(c *gin.Context) {
	var req services.UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	position, err := h.positionService.UpdatePosition(c.Param("id"), req)
	if err != nil {
		utils.LogError(err, "UpdatePosition: Error from positionService.UpdatePosition")
		switch {
		case errors.Is(err, services.ErrPositionNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Position not found.", ""))
		case errors.Is(err, services.ErrPositionNameTaken):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Position name is already in use.", err.Error()))
		case errors.Is(err, services.ErrPositionDataValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update position.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, position)
}

// DeletePosition removes a position that no shift or request references.
func (h *PositionHandler) DeletePosition(c *gin.Context) {
	err := h.positionService.DeletePosition(c.Param("id"))
	if err != nil {
		utils.LogError(err, "DeletePosition: Error from positionService.DeletePosition")
		switch {
		case errors.Is(err, services.ErrPositionNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Position not found.", ""))
		case errors.Is(err, services.ErrPositionInUse):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Position is referenced by shifts or requests.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete position.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Position deleted."})
}
