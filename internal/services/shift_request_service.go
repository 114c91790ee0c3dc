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

// --- Custom Service Errors for Shift Requests ---
var (
	ErrShiftRequestNotFound    = errors.New("shift request not found")
	ErrShiftRequestNotEditable = errors.New("shift request can no longer be modified")
	ErrNotRequestOwner         = errors.New("shift request belongs to another employee")
	ErrInvalidRequestStatus    = errors.New("invalid shift request status")
	ErrDateFormat              = errors.New("invalid date format, please use YYYY-MM-DD")
	ErrClockFormat             = errors.New("invalid time format, please use zero-padded 24h HH:MM")
	ErrTimeRange               = errors.New("end time must be after start time")
)

// --- DTOs ---

// CreateShiftRequestRequest is an employee's availability submission.
type CreateShiftRequestRequest struct {
	PositionID string `json:"position_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
}

// UpdateShiftRequestRequest edits a still-pending request.
type UpdateShiftRequestRequest struct {
	PositionID *string `json:"position_id"`
	Date       *string `json:"date"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
}

// UpdateRequestStatusRequest is the admin approve/reject payload.
type UpdateRequestStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- ShiftRequestService Interface ---
type ShiftRequestService interface {
	CreateShiftRequest(employeeID string, req CreateShiftRequestRequest) (*models.ShiftRequest, error)
	GetShiftRequestByID(id string) (*models.ShiftRequest, error)
	GetShiftRequests(status *string) ([]models.ShiftRequest, error)
	GetOwnShiftRequests(employeeID string) ([]models.ShiftRequest, error)
	UpdateShiftRequest(id, employeeID string, req UpdateShiftRequestRequest) (*models.ShiftRequest, error)
	UpdateShiftRequestStatus(id string, req UpdateRequestStatusRequest) (*models.ShiftRequest, error)
	DeleteShiftRequest(id, employeeID string, isAdmin bool) error
}

type shiftRequestService struct {
	requestRepo  repositories.ShiftRequestRepository
	positionRepo repositories.PositionRepository
	db           *sql.DB
}

// NewShiftRequestService creates a new instance of ShiftRequestService.
func NewShiftRequestService(requestRepo repositories.ShiftRequestRepository, positionRepo repositories.PositionRepository, db *sql.DB) ShiftRequestService {
	return &shiftRequestService{requestRepo: requestRepo, positionRepo: positionRepo, db: db}
}

func parseRequestDate(dateStr string) (time.Time, error) {
	date, err := utils.ParseDate(dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateFormat, dateStr)
	}
	return date, nil
}

func validateClockRange(start, end string) error {
	if !utils.IsValidClock(start) {
		return fmt.Errorf("%w: %q", ErrClockFormat, start)
	}
	if !utils.IsValidClock(end) {
		return fmt.Errorf("%w: %q", ErrClockFormat, end)
	}
	if start >= end {
		return fmt.Errorf("%w: %s is not before %s", ErrTimeRange, start, end)
	}
	return nil
}

func (s *shiftRequestService) CreateShiftRequest(employeeID string, req CreateShiftRequestRequest) (*models.ShiftRequest, error) {
	date, err := parseRequestDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := validateClockRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if _, err := s.positionRepo.GetPositionByID(req.PositionID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}

	request := &models.ShiftRequest{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		PositionID: req.PositionID,
		Date:       date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     models.RequestStatusPending,
	}
	created, err := s.requestRepo.CreateShiftRequest(s.db, request)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return created, nil
}

func (s *shiftRequestService) GetShiftRequestByID(id string) (*models.ShiftRequest, error) {
	request, err := s.requestRepo.GetShiftRequestByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftRequestNotFound
		}
		return nil, err
	}
	return request, nil
}

func (s *shiftRequestService) GetShiftRequests(status *string) ([]models.ShiftRequest, error) {
	if status != nil && !isValidRequestStatus(*status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRequestStatus, *status)
	}
	return s.requestRepo.GetShiftRequests(status, nil)
}

func (s *shiftRequestService) GetOwnShiftRequests(employeeID string) ([]models.ShiftRequest, error) {
	return s.requestRepo.GetShiftRequests(nil, &employeeID)
}

func (s *shiftRequestService) UpdateShiftRequest(id, employeeID string, req UpdateShiftRequestRequest) (*models.ShiftRequest, error) {
	existing, err := s.GetShiftRequestByID(id)
	if err != nil {
		return nil, err
	}
	if existing.EmployeeID != employeeID {
		return nil, ErrNotRequestOwner
	}
	// Approved, rejected and claimed requests are frozen.
	if existing.Status != models.RequestStatusPending || existing.Claimed() {
		return nil, ErrShiftRequestNotEditable
	}

	if req.PositionID != nil {
		if _, err := s.positionRepo.GetPositionByID(*req.PositionID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrPositionNotFound
			}
			return nil, err
		}
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

	updated, err := s.requestRepo.UpdateShiftRequest(s.db, existing)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftRequestNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *shiftRequestService) UpdateShiftRequestStatus(id string, req UpdateRequestStatusRequest) (*models.ShiftRequest, error) {
	if !isValidRequestStatus(req.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRequestStatus, req.Status)
	}

	existing, err := s.GetShiftRequestByID(id)
	if err != nil {
		return nil, err
	}
	// A claimed request already produced a shift; approve/reject would
	// desynchronize the back-link.
	if existing.Claimed() {
		return nil, ErrShiftRequestNotEditable
	}

	updated, err := s.requestRepo.UpdateShiftRequestStatus(s.db, id, req.Status)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrShiftRequestNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *shiftRequestService) DeleteShiftRequest(id, employeeID string, isAdmin bool) error {
	existing, err := s.GetShiftRequestByID(id)
	if err != nil {
		return err
	}
	if !isAdmin && existing.EmployeeID != employeeID {
		return ErrNotRequestOwner
	}
	if existing.Claimed() {
		return ErrShiftRequestNotEditable
	}

	if err := s.requestRepo.DeleteShiftRequest(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrShiftRequestNotFound
		}
		return err
	}
	return nil
}

func isValidRequestStatus(status string) bool {
	switch status {
	case models.RequestStatusPending, models.RequestStatusApproved, models.RequestStatusRejected:
		return true
	}
	return false
}
