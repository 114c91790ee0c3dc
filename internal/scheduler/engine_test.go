package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftforge/internal/models"
)

// 2024-03-04 is a Monday, 2024-03-08 a Friday.
var (
	monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	friday = time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
)

func rule(position string, day time.Weekday, slot string, count int) models.StaffingRule {
	return models.StaffingRule{
		ID:            "rule-" + position + slot,
		PositionID:    position,
		DayOfWeek:     int(day),
		TimeSlot:      slot,
		RequiredCount: count,
	}
}

func request(id, employee, position string, date time.Time, start, end string) models.ShiftRequest {
	return models.ShiftRequest{
		ID:         id,
		EmployeeID: employee,
		PositionID: position,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Status:     models.RequestStatusPending,
	}
}

func TestAssign_AcceptsRequestWithinCapacity(t *testing.T) {
	res := Assign(
		[]models.ShiftRequest{request("r1", "alice", "kitchen", monday, "09:00", "17:00")},
		[]models.StaffingRule{rule("kitchen", time.Monday, "09:00-17:00", 1)},
		nil,
	)

	require.Len(t, res.Created, 1)
	assert.Empty(t, res.Rejected)

	shift := res.Created[0]
	assert.NotEmpty(t, shift.ID)
	assert.Equal(t, "alice", shift.EmployeeID)
	assert.Equal(t, "kitchen", shift.PositionID)
	assert.Equal(t, models.ShiftStatusDraft, shift.Status)
	require.NotNil(t, shift.ShiftRequestID)
	assert.Equal(t, "r1", *shift.ShiftRequestID)
}

func TestAssign_CapacityCountsShiftsNotConcurrentHeadcount(t *testing.T) {
	// Two non-overlapping Kitchen requests on the same Monday with a single
	// required slot: capacity is a per-day shift count, so only the first
	// queued request is placed.
	res := Assign(
		[]models.ShiftRequest{
			request("r1", "alice", "kitchen", monday, "09:00", "13:00"),
			request("r2", "bob", "kitchen", monday, "13:00", "17:00"),
		},
		[]models.StaffingRule{rule("kitchen", time.Monday, "09:00-17:00", 1)},
		nil,
	)

	require.Len(t, res.Created, 1)
	require.NotNil(t, res.Created[0].ShiftRequestID)
	assert.Equal(t, "r1", *res.Created[0].ShiftRequestID)

	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "r2", res.Rejected[0].Request.ID)
	assert.Equal(t, ReasonPositionFilled, res.Rejected[0].Reason)
}

func TestAssign_NoMatchingRule(t *testing.T) {
	res := Assign(
		[]models.ShiftRequest{request("r1", "alice", "hall", monday, "09:00", "13:00")},
		[]models.StaffingRule{rule("hall", time.Friday, "09:00-17:00", 2)},
		nil,
	)

	assert.Empty(t, res.Created)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, ReasonNoRequirement, res.Rejected[0].Reason)
}

func TestAssign_EmployeeOverlapWithExistingShift(t *testing.T) {
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC) // Tuesday
	existing := []models.Shift{{
		ID:         "s-existing",
		EmployeeID: "alice",
		PositionID: "hall",
		Date:       date,
		StartTime:  "10:00",
		EndTime:    "14:00",
		Status:     models.ShiftStatusConfirmed,
	}}

	res := Assign(
		[]models.ShiftRequest{request("r1", "alice", "kitchen", date, "13:00", "17:00")},
		[]models.StaffingRule{rule("kitchen", time.Tuesday, "09:00-17:00", 3)},
		existing,
	)

	assert.Empty(t, res.Created)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, ReasonUserOverlap, res.Rejected[0].Reason)
}

func TestAssign_TouchingIntervalsDoNotOverlap(t *testing.T) {
	existing := []models.Shift{{
		ID:         "s-existing",
		EmployeeID: "alice",
		PositionID: "kitchen",
		Date:       monday,
		StartTime:  "09:00",
		EndTime:    "13:00",
		Status:     models.ShiftStatusDraft,
	}}

	res := Assign(
		[]models.ShiftRequest{request("r1", "alice", "kitchen", monday, "13:00", "17:00")},
		[]models.StaffingRule{rule("kitchen", time.Monday, "09:00-17:00", 2)},
		existing,
	)

	require.Len(t, res.Created, 1)
	assert.Empty(t, res.Rejected)
}

func TestAssign_FillsUpToSummedRequiredCount(t *testing.T) {
	res := Assign(
		[]models.ShiftRequest{
			request("r1", "alice", "hall", friday, "09:00", "13:00"),
			request("r2", "bob", "hall", friday, "10:00", "14:00"),
			request("r3", "carol", "hall", friday, "14:00", "18:00"),
		},
		[]models.StaffingRule{rule("hall", time.Friday, "09:00-18:00", 2)},
		nil,
	)

	require.Len(t, res.Created, 2)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "r3", res.Rejected[0].Request.ID)
	assert.Equal(t, ReasonPositionFilled, res.Rejected[0].Reason)
}

func TestAssign_SumsCapacityAcrossTimeSlotRules(t *testing.T) {
	// Two rules for the same position and weekday aggregate into a single
	// per-day capacity of 2, regardless of which slot a request targets.
	rules := []models.StaffingRule{
		rule("kitchen", time.Monday, "09:00-13:00", 1),
		rule("kitchen", time.Monday, "13:00-17:00", 1),
	}
	res := Assign(
		[]models.ShiftRequest{
			request("r1", "alice", "kitchen", monday, "09:00", "13:00"),
			request("r2", "bob", "kitchen", monday, "09:00", "13:00"),
			request("r3", "carol", "kitchen", monday, "13:00", "17:00"),
		},
		rules,
		nil,
	)

	assert.Len(t, res.Created, 2)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, ReasonPositionFilled, res.Rejected[0].Reason)
}

func TestAssign_ExistingShiftsConsumeCapacity(t *testing.T) {
	existing := []models.Shift{{
		ID:         "s-existing",
		EmployeeID: "bob",
		PositionID: "kitchen",
		Date:       monday,
		StartTime:  "09:00",
		EndTime:    "17:00",
		Status:     models.ShiftStatusConfirmed,
	}}

	res := Assign(
		[]models.ShiftRequest{request("r1", "alice", "kitchen", monday, "09:00", "17:00")},
		[]models.StaffingRule{rule("kitchen", time.Monday, "09:00-17:00", 1)},
		existing,
	)

	assert.Empty(t, res.Created)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, ReasonPositionFilled, res.Rejected[0].Reason)
}

func TestAssign_NoRequirementWinsOverOtherReasons(t *testing.T) {
	// Alice is double-booked AND the position is saturated, but with no rule
	// matching the weekday the report must still read NO_REQUIREMENT.
	existing := []models.Shift{{
		ID:         "s-existing",
		EmployeeID: "alice",
		PositionID: "hall",
		Date:       monday,
		StartTime:  "09:00",
		EndTime:    "17:00",
		Status:     models.ShiftStatusConfirmed,
	}}

	res := Assign(
		[]models.ShiftRequest{request("r1", "alice", "hall", monday, "10:00", "12:00")},
		[]models.StaffingRule{rule("hall", time.Friday, "09:00-17:00", 1)},
		existing,
	)

	require.Len(t, res.Rejected, 1)
	assert.Equal(t, ReasonNoRequirement, res.Rejected[0].Reason)
}

func TestAssign_ProcessesInAscendingDateOrder(t *testing.T) {
	// The later-dated request arrives first in the input, but the
	// earlier-dated one must be processed (and rejected/accepted) first.
	nextMonday := monday.AddDate(0, 0, 7)
	res := Assign(
		[]models.ShiftRequest{
			request("r-late", "alice", "kitchen", nextMonday, "09:00", "17:00"),
			request("r-early", "bob", "kitchen", monday, "09:00", "17:00"),
		},
		[]models.StaffingRule{
			rule("kitchen", time.Monday, "09:00-17:00", 1),
		},
		nil,
	)

	require.Len(t, res.Created, 2)
	require.NotNil(t, res.Created[0].ShiftRequestID)
	assert.Equal(t, "r-early", *res.Created[0].ShiftRequestID)
	assert.Equal(t, "r-late", *res.Created[1].ShiftRequestID)
}

func TestAssign_SkipsClaimedAndNonPendingRequests(t *testing.T) {
	claimedShift := "s1"
	claimed := request("r-claimed", "alice", "kitchen", monday, "09:00", "13:00")
	claimed.ShiftID = &claimedShift
	approved := request("r-approved", "bob", "kitchen", monday, "09:00", "13:00")
	approved.Status = models.RequestStatusApproved

	res := Assign(
		[]models.ShiftRequest{claimed, approved, request("r1", "carol", "kitchen", monday, "13:00", "17:00")},
		[]models.StaffingRule{rule("kitchen", time.Monday, "09:00-17:00", 1)},
		nil,
	)

	require.Len(t, res.Created, 1)
	require.NotNil(t, res.Created[0].ShiftRequestID)
	assert.Equal(t, "r1", *res.Created[0].ShiftRequestID)
	assert.Empty(t, res.Rejected)
}

func TestAssign_ClassifiesEveryRequestExactlyOnce(t *testing.T) {
	requests := []models.ShiftRequest{
		request("r1", "alice", "kitchen", monday, "09:00", "13:00"),
		request("r2", "bob", "kitchen", monday, "13:00", "17:00"),
		request("r3", "carol", "bar", monday, "09:00", "13:00"),
		request("r4", "alice", "hall", friday, "09:00", "13:00"),
		request("r5", "alice", "hall", friday, "12:00", "16:00"),
	}
	rules := []models.StaffingRule{
		rule("kitchen", time.Monday, "09:00-17:00", 2),
		rule("hall", time.Friday, "09:00-17:00", 3),
	}

	res := Assign(requests, rules, nil)

	seen := make(map[string]int)
	for _, s := range res.Created {
		require.NotNil(t, s.ShiftRequestID)
		seen[*s.ShiftRequestID]++
	}
	for _, rej := range res.Rejected {
		seen[rej.Request.ID]++
	}
	assert.Len(t, seen, len(requests))
	for id, n := range seen {
		assert.Equalf(t, 1, n, "request %s classified %d times", id, n)
	}
}

func TestAssign_DeterministicAcrossRuns(t *testing.T) {
	requests := []models.ShiftRequest{
		request("r1", "alice", "kitchen", monday, "09:00", "13:00"),
		request("r2", "bob", "kitchen", monday, "09:00", "13:00"),
		request("r3", "carol", "kitchen", monday, "13:00", "17:00"),
	}
	rules := []models.StaffingRule{rule("kitchen", time.Monday, "09:00-17:00", 2)}

	first := Assign(requests, rules, nil)
	second := Assign(requests, rules, nil)

	require.Equal(t, len(first.Created), len(second.Created))
	for i := range first.Created {
		assert.Equal(t, *first.Created[i].ShiftRequestID, *second.Created[i].ShiftRequestID)
	}
	require.Equal(t, len(first.Rejected), len(second.Rejected))
	for i := range first.Rejected {
		assert.Equal(t, first.Rejected[i].Request.ID, second.Rejected[i].Request.ID)
		assert.Equal(t, first.Rejected[i].Reason, second.Rejected[i].Reason)
	}
}

func TestAssign_DoesNotMutateInputs(t *testing.T) {
	requests := []models.ShiftRequest{
		request("r-late", "alice", "kitchen", friday, "09:00", "13:00"),
		request("r-early", "bob", "kitchen", monday, "09:00", "13:00"),
	}
	rules := []models.StaffingRule{
		rule("kitchen", time.Monday, "09:00-17:00", 1),
		rule("kitchen", time.Friday, "09:00-17:00", 1),
	}

	Assign(requests, rules, nil)

	assert.Equal(t, "r-late", requests[0].ID)
	assert.Equal(t, "r-early", requests[1].ID)
	assert.Nil(t, requests[0].ShiftID)
}
