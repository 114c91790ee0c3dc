package services

import (
	"database/sql"
	"errors"
	"fmt"

	"shiftforge/internal/models"
	"shiftforge/internal/repositories"
	"shiftforge/pkg/utils"

	"github.com/google/uuid"
)

// --- Custom Service Errors for Staffing Rules ---
var (
	ErrStaffingRuleNotFound   = errors.New("staffing rule not found")
	ErrStaffingRuleValidation = errors.New("staffing rule validation error")
)

// --- DTOs ---

// CreateStaffingRuleRequest declares required headcount for a position on a
// weekday. DayOfWeek follows time.Weekday numbering (Sunday = 0).
type CreateStaffingRuleRequest struct {
	PositionID    string `json:"position_id" binding:"required"`
	DayOfWeek     *int   `json:"day_of_week" binding:"required"`
	TimeSlot      string `json:"time_slot" binding:"required"`
	RequiredCount *int   `json:"required_count" binding:"required"`
}

// UpdateStaffingRuleRequest carries a staffing rule update payload.
type UpdateStaffingRuleRequest struct {
	DayOfWeek     *int    `json:"day_of_week"`
	TimeSlot      *string `json:"time_slot"`
	RequiredCount *int    `json:"required_count"`
}

// --- StaffingRuleService Interface ---
type StaffingRuleService interface {
	CreateStaffingRule(req CreateStaffingRuleRequest) (*models.StaffingRule, error)
	GetStaffingRuleByID(id string) (*models.StaffingRule, error)
	GetStaffingRules(positionID *string) ([]models.StaffingRule, error)
	UpdateStaffingRule(id string, req UpdateStaffingRuleRequest) (*models.StaffingRule, error)
	DeleteStaffingRule(id string) error
}

type staffingRuleService struct {
	ruleRepo     repositories.StaffingRuleRepository
	positionRepo repositories.PositionRepository
	db           *sql.DB
}

// NewStaffingRuleService creates a new instance of StaffingRuleService.
func NewStaffingRuleService(ruleRepo repositories.StaffingRuleRepository, positionRepo repositories.PositionRepository, db *sql.DB) StaffingRuleService {
	return &staffingRuleService{ruleRepo: ruleRepo, positionRepo: positionRepo, db: db}
}

func validateRuleFields(dayOfWeek, requiredCount int, timeSlot string) error {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return fmt.Errorf("%w: day_of_week must be between 0 (Sunday) and 6 (Saturday)", ErrStaffingRuleValidation)
	}
	if requiredCount < 0 {
		return fmt.Errorf("%w: required_count must not be negative", ErrStaffingRuleValidation)
	}
	if utils.IsEmpty(timeSlot) {
		return fmt.Errorf("%w: time_slot is required", ErrStaffingRuleValidation)
	}
	return nil
}

func (s *staffingRuleService) CreateStaffingRule(req CreateStaffingRuleRequest) (*models.StaffingRule, error) {
	if err := validateRuleFields(*req.DayOfWeek, *req.RequiredCount, req.TimeSlot); err != nil {
		return nil, err
	}

	if _, err := s.positionRepo.GetPositionByID(req.PositionID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}

	rule := &models.StaffingRule{
		ID:            uuid.NewString(),
		PositionID:    req.PositionID,
		DayOfWeek:     *req.DayOfWeek,
		TimeSlot:      req.TimeSlot,
		RequiredCount: *req.RequiredCount,
	}
	created, err := s.ruleRepo.CreateStaffingRule(s.db, rule)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}
	return created, nil
}

func (s *staffingRuleService) GetStaffingRuleByID(id string) (*models.StaffingRule, error) {
	rule, err := s.ruleRepo.GetStaffingRuleByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffingRuleNotFound
		}
		return nil, err
	}
	return rule, nil
}

func (s *staffingRuleService) GetStaffingRules(positionID *string) ([]models.StaffingRule, error) {
	return s.ruleRepo.GetStaffingRules(positionID)
}

func (s *staffingRuleService) UpdateStaffingRule(id string, req UpdateStaffingRuleRequest) (*models.StaffingRule, error) {
	existing, err := s.GetStaffingRuleByID(id)
	if err != nil {
		return nil, err
	}

	if req.DayOfWeek != nil {
		existing.DayOfWeek = *req.DayOfWeek
	}
	if req.TimeSlot != nil {
		existing.TimeSlot = *req.TimeSlot
	}
	if req.RequiredCount != nil {
		existing.RequiredCount = *req.RequiredCount
	}
	if err := validateRuleFields(existing.DayOfWeek, existing.RequiredCount, existing.TimeSlot); err != nil {
		return nil, err
	}

	updated, err := s.ruleRepo.UpdateStaffingRule(s.db, existing)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStaffingRuleNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *staffingRuleService) DeleteStaffingRule(id string) error {
	err := s.ruleRepo.DeleteStaffingRule(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrStaffingRuleNotFound
		}
		return err
	}
	return nil
}
