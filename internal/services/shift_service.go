package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shiftforge/internal/models"
	"shiftforge/internal/repositories"
	"shiftforge/pkg/utils"

	"github.com/google/uuid"
)

// --- Custom Service Errors for Shifts ---
var (
	ErrShiftNotFound      = errors.New("shift not found")
	ErrShiftValidation    = errors.New("shift validation error")
	ErrMonthRange         = errors.New("invalid year/month")
	ErrRequestAlreadyUsed = errors.New("shift request is already linked to a shift")
)

// --- DTOs ---

// CreateShiftRequest is the admin's manual shift creation payload. The
// optional ShiftRequestID back-links the originating availability request.
type CreateShiftRequest struct {
	EmployeeID     string  `json:"employee_id" binding:"required"`
	PositionID     string  `json:"position_id" binding:"required"`
	Date           string  `json:"date" binding:"required"`
	StartTime      string  `json:"start_time" binding:"required"`
	EndTime        string  `json:"end_time" binding:"required"`
	ShiftRequestID *string `json:"shift_request_id"`
}

// UpdateShiftRequestBody edits an existing shift.
type UpdateShiftRequestBody struct {
	EmployeeID *string `json:"employee_id"`
	PositionID *string `json:"position_id"`
	Date       *string `json:"date"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
}

// MonthSummary reports the outcome of a month-scoped bulk operation.
type MonthSummary struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

// WorkedHours is an employee's total worked time for a month.
type WorkedHours struct {
	TotalHours   int `json:"total_hours"`
	TotalMinutes int `json:"total_minutes"`
}

// DashboardStats feeds the admin dashboard cards.
type DashboardStats struct {
	PendingRequestCount    int `json:"pending_request_count"`
	ShiftsThisWeekCount    int `json:"shifts_this_week_count"`
	StaffingShortagesCount int `json:"staffing_shortages_count"`
}

// --- ShiftService Interface ---
type ShiftService interface {
	CreateShift(req CreateShiftRequest) (*models.Shift, error)
	GetShiftByID(id string) (*models.Shift, error)
	GetShiftsForMonth(year, month int) ([]models.Shift, error)
	GetOwnShifts(employeeID string, year, month int) ([]models.Shift, error)
	UpdateShift(id string, req UpdateShiftRequestBody) (*models.Shift, error)
	DeleteShift(id string) error
	FinalizeMonth(year, month int) (*MonthSummary, error)
	ClearDrafts() (int, error)
	GetWorkedHours(employeeID string, year, month int) (*WorkedHours, error)
	GetDashboardStats(now time.Time) (*DashboardStats, error)
}

type shiftService struct {
	shiftRepo   repositories.ShiftRepository
	requestRepo repositories.ShiftRequestRepository
	ruleRepo    repositories.StaffingRuleRepository
	db          *sql.DB
}

// NewShiftService creates a new instance of ShiftService.
func NewShiftService(shiftRepo repositories.ShiftRepository, requestRepo repositories.ShiftRequestRepository, ruleRepo repositories.StaffingRuleRepository, db *sql.DB) ShiftService {
	return &shiftService{shiftRepo: shiftRepo, requestRepo: requestRepo, ruleRepo: ruleRepo, db: db}
}

func validateMonth(year, month int) error {
	if year < 2000 || year > 2200 || month < 1 || month > 12 {
		return fmt.Errorf("%w: %d/%d", ErrMonthRange, year, month)
	}
	return nil
}

func (s *shiftService) CreateShift(req CreateShiftRequest) (*models.Shift, error) {
	date, err := parseRequestDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := validateClockRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	shift := &models.Shift{
		ID:             uuid.NewString(),
		EmployeeID:     req.EmployeeID,
		PositionID:     req.PositionID,
		Date:           date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Status:         models.ShiftStatusDraft,
		ShiftRequestID: req.ShiftRequestID,
	}

	// The shift insert and the request back-link must land together.
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: beginning transaction: %v", repositories.ErrDatabaseError, err)
	}
	defer tx.Rollback()

	created, err := s.shiftRepo.CreateShift(tx, shift)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrRequestAlreadyUsed
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: employee or position not found", ErrShiftValidation)
		}
		return nil, err
	}
	if req.ShiftRequestID != nil {
		if err := s.requestRepo.LinkShift(tx, *req.ShiftRequestID, created.ID); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return nil, ErrRequestAlreadyUsed
			}
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing shift creation: %v", repositories.ErrDatabaseError, err)
	}
	return created, nil
}

func (s *shiftService) GetShiftByID(id string) (*models.Shift, error) {
	shift, err := s.shiftRepo.GetShiftByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	return shift, nil
}

func (s *shiftService) GetShiftsForMonth(year, month int) ([]models.Shift, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}
	from, to := utils.MonthRange(year, month)
	return s.shiftRepo.GetShifts(from, to, nil)
}

func (s *shiftService) GetOwnShifts(employeeID string, year, month int) ([]models.Shift, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}
	from, to := utils.MonthRange(year, month)
	return s.shiftRepo.GetShifts(from, to, &employeeID)
}

func (s *shiftService) UpdateShift(id string, req UpdateShiftRequestBody) (*models.Shift, error) {
	existing, err := s.GetShiftByID(id)
	if err != nil {
		return nil, err
	}

	if req.EmployeeID != nil {
		existing.EmployeeID = *req.EmployeeID
	}
	if req.PositionID != nil {
		existing.PositionID = *req.PositionID
	}
	if req.Date != nil {
		date, err := parseRequestDate(*req.Date)
		if err != nil {
			return nil, err
		}
		existing.Date = date
	}
	if req.StartTime != nil {
		existing.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		existing.EndTime = *req.EndTime
	}
	if err := validateClockRange(existing.StartTime, existing.EndTime); err != nil {
		return nil, err
	}

	updated, err := s.shiftRepo.UpdateShift(s.db, existing)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *shiftService) DeleteShift(id string) error {
	err := s.shiftRepo.DeleteShift(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrShiftNotFound
		}
		return err
	}
	return nil
}

func (s *shiftService) FinalizeMonth(year, month int) (*MonthSummary, error) {
	if err := validateMonth(year, month); err != nil {
		return nil, err
	}
	from, to := utils.MonthRange(year, month)
	count, err := s.shiftRepo.FinalizeMonth(s.db, from, to)
	if err != nil {
		return nil, err
	}
	return &MonthSummary{Year: year, Month: month, Count: count}, nil
}

func (s *shiftService) ClearDrafts() (int, error) {
	return s.shiftRepo.ClearDrafts(s.db)
}

// GetWorkedHours sums the [start, end) spans of the employee's shifts for the
// month, reported as whole hours plus leftover minutes.
func (s *shiftService) GetWorkedHours(employeeID string, year, month int) (*WorkedHours, error) {
	shifts, err := s.GetOwnShifts(employeeID, year, month)
	if err != nil {
		return nil, err
	}

	totalMinutes := 0
	for _, shift := range shifts {
		totalMinutes += utils.ClockMinutes(shift.EndTime) - utils.ClockMinutes(shift.StartTime)
	}
	return &WorkedHours{TotalHours: totalMinutes / 60, TotalMinutes: totalMinutes % 60}, nil
}

// GetDashboardStats aggregates the admin dashboard cards: pending request
// count, this week's shift count (Sunday-based week containing now), and the
// number of unfilled staffing slots in that week.
func (s *shiftService) GetDashboardStats(now time.Time) (*DashboardStats, error) {
	pending, err := s.requestRepo.CountByStatus(models.RequestStatusPending)
	if err != nil {
		return nil, err
	}

	weekStart := now.UTC().Truncate(24 * time.Hour).AddDate(0, 0, -int(now.UTC().Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 7)

	shifts, err := s.shiftRepo.GetShifts(weekStart, weekEnd, nil)
	if err != nil {
		return nil, err
	}
	rules, err := s.ruleRepo.GetStaffingRules(nil)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		PendingRequestCount:    pending,
		ShiftsThisWeekCount:    len(shifts),
		StaffingShortagesCount: countShortages(weekStart, rules, shifts),
	}, nil
}

// countShortages sums, over each day of the week starting at weekStart, how
// many required slots per position remain unfilled.
func countShortages(weekStart time.Time, rules []models.StaffingRule, shifts []models.Shift) int {
	type positionDay struct {
		positionID string
		date       string
	}

	required := make(map[positionDay]int)
	for day := 0; day < 7; day++ {
		date := weekStart.AddDate(0, 0, day)
		weekday := int(date.Weekday())
		for _, rule := range rules {
			if rule.DayOfWeek == weekday {
				required[positionDay{rule.PositionID, date.Format(models.DateLayout)}] += rule.RequiredCount
			}
		}
	}

	assigned := make(map[positionDay]int)
	for i := range shifts {
		assigned[positionDay{shifts[i].PositionID, shifts[i].DateKey()}]++
	}

	shortages := 0
	for key, need := range required {
		if have := assigned[key]; have < need {
			shortages += need - have
		}
	}
	return shortages
}
