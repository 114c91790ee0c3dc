package services

import (
	"database/sql"
	"fmt"
	"sync"

	"shiftforge/internal/repositories"
	"shiftforge/internal/scheduler"
	"shiftforge/pkg/utils"
)

// AutoAssignResult is the admin-facing report of one auto-assignment run.
type AutoAssignResult struct {
	CreatedShiftsCount int                         `json:"created_shifts_count"`
	RejectedRequests   []scheduler.RejectedRequest `json:"rejected_requests"`
}

// AssignmentService runs the auto-assignment engine over a storage snapshot
// and persists its output.
type AssignmentService interface {
	// RunAutoAssignment snapshots pending unclaimed requests, staffing
	// rules and all existing shifts, runs the engine, and persists the
	// created shifts together with their request back-links in a single
	// transaction. A failed transaction reports no partial success.
	RunAutoAssignment() (*AutoAssignResult, error)
}

type assignmentService struct {
	requestRepo repositories.ShiftRequestRepository
	ruleRepo    repositories.StaffingRuleRepository
	shiftRepo   repositories.ShiftRepository
	db          *sql.DB

	// runMu serializes runs: two concurrent runs over overlapping data
	// could both pass the capacity check before either persists.
	runMu sync.Mutex
}

// NewAssignmentService creates a new instance of AssignmentService.
func NewAssignmentService(requestRepo repositories.ShiftRequestRepository, ruleRepo repositories.StaffingRuleRepository, shiftRepo repositories.ShiftRepository, db *sql.DB) AssignmentService {
	return &assignmentService{
		requestRepo: requestRepo,
		ruleRepo:    ruleRepo,
		shiftRepo:   shiftRepo,
		db:          db,
	}
}

func (s *assignmentService) RunAutoAssignment() (*AutoAssignResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	pending, err := s.requestRepo.GetAssignableRequests()
	if err != nil {
		return nil, fmt.Errorf("fetching pending requests: %w", err)
	}
	rules, err := s.ruleRepo.GetStaffingRules(nil)
	if err != nil {
		return nil, fmt.Errorf("fetching staffing rules: %w", err)
	}
	existing, err := s.shiftRepo.GetAllShifts()
	if err != nil {
		return nil, fmt.Errorf("fetching existing shifts: %w", err)
	}

	result := scheduler.Assign(pending, rules, existing)

	if len(result.Created) > 0 {
		if err := s.persist(result); err != nil {
			return nil, err
		}
	}

	utils.LogInfo("Auto-assignment run completed", map[string]interface{}{
		"pending_requests": len(pending),
		"created_shifts":   len(result.Created),
		"rejected":         len(result.Rejected),
	})

	rejected := result.Rejected
	if rejected == nil {
		rejected = []scheduler.RejectedRequest{}
	}
	return &AutoAssignResult{
		CreatedShiftsCount: len(result.Created),
		RejectedRequests:   rejected,
	}, nil
}

// persist writes every created shift and its request back-link atomically.
// The unique back-link column makes a retried run idempotent: requests
// claimed by a committed earlier attempt drop out of the next snapshot.
func (s *assignmentService) persist(result scheduler.Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning assignment transaction: %v", repositories.ErrDatabaseError, err)
	}
	defer tx.Rollback()

	for i := range result.Created {
		shift := result.Created[i]
		if _, err := s.shiftRepo.CreateShift(tx, &shift); err != nil {
			return fmt.Errorf("persisting draft shift: %w", err)
		}
		if shift.ShiftRequestID != nil {
			if err := s.requestRepo.LinkShift(tx, *shift.ShiftRequestID, shift.ID); err != nil {
				return fmt.Errorf("linking request %s: %w", *shift.ShiftRequestID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing assignment transaction: %v", repositories.ErrDatabaseError, err)
	}
	return nil
}
