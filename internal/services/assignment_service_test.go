package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftforge/internal/models"
	"shiftforge/internal/repositories"
	"shiftforge/internal/scheduler"
)

// --- fakes ---

type fakeRequestRepo struct {
	repositories.ShiftRequestRepository
	assignable []models.ShiftRequest
	err        error
}

func (f *fakeRequestRepo) GetAssignableRequests() ([]models.ShiftRequest, error) {
	return f.assignable, f.err
}

type fakeRuleRepo struct {
	repositories.StaffingRuleRepository
	rules []models.StaffingRule
	err   error
}

func (f *fakeRuleRepo) GetStaffingRules(positionID *string) ([]models.StaffingRule, error) {
	return f.rules, f.err
}

type fakeShiftRepo struct {
	repositories.ShiftRepository
	shifts []models.Shift
	err    error
}

func (f *fakeShiftRepo) GetAllShifts() ([]models.Shift, error) {
	return f.shifts, f.err
}

func (f *fakeShiftRepo) GetShifts(from, to time.Time, employeeID *string) ([]models.Shift, error) {
	return f.shifts, f.err
}

func TestRunAutoAssignment_ReportsRejectionsWithoutPersisting(t *testing.T) {
	// No staffing rules exist, so the single pending request is rejected
	// and nothing needs a transaction (db stays untouched).
	requests := &fakeRequestRepo{assignable: []models.ShiftRequest{{
		ID:         "r1",
		EmployeeID: "alice",
		PositionID: "kitchen",
		Date:       time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime:  "09:00",
		EndTime:    "17:00",
		Status:     models.RequestStatusPending,
	}}}

	svc := NewAssignmentService(requests, &fakeRuleRepo{}, &fakeShiftRepo{}, nil)

	result, err := svc.RunAutoAssignment()
	require.NoError(t, err)
	assert.Equal(t, 0, result.CreatedShiftsCount)
	require.Len(t, result.RejectedRequests, 1)
	assert.Equal(t, scheduler.ReasonNoRequirement, result.RejectedRequests[0].Reason)
}

func TestRunAutoAssignment_EmptyPoolYieldsEmptyReport(t *testing.T) {
	svc := NewAssignmentService(&fakeRequestRepo{}, &fakeRuleRepo{}, &fakeShiftRepo{}, nil)

	result, err := svc.RunAutoAssignment()
	require.NoError(t, err)
	assert.Equal(t, 0, result.CreatedShiftsCount)
	assert.NotNil(t, result.RejectedRequests)
	assert.Empty(t, result.RejectedRequests)
}

func TestRunAutoAssignment_SnapshotErrorsPropagate(t *testing.T) {
	boom := errors.New("connection reset")

	svc := NewAssignmentService(&fakeRequestRepo{err: boom}, &fakeRuleRepo{}, &fakeShiftRepo{}, nil)
	_, err := svc.RunAutoAssignment()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	svc = NewAssignmentService(&fakeRequestRepo{}, &fakeRuleRepo{err: boom}, &fakeShiftRepo{}, nil)
	_, err = svc.RunAutoAssignment()
	require.Error(t, err)

	svc = NewAssignmentService(&fakeRequestRepo{}, &fakeRuleRepo{}, &fakeShiftRepo{err: boom}, nil)
	_, err = svc.RunAutoAssignment()
	require.Error(t, err)
}
