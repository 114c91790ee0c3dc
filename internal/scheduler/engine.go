// Package scheduler implements the automatic shift draft generation engine.
//
// The engine is a pure computation over in-memory snapshots: it performs no
// I/O, holds no global state and never blocks. Callers are responsible for
// fetching a consistent snapshot of pending requests, staffing rules and
// existing shifts, for persisting the result transactionally, and for making
// sure two runs never execute concurrently over overlapping data.
package scheduler

import (
	"sort"

	"github.com/google/uuid"

	"shiftforge/internal/models"
)

// RejectionReason classifies why a pending request could not be placed.
// Rejections are normal business outcomes, not errors.
type RejectionReason string

const (
	// ReasonUserOverlap: the employee already holds a shift on that date
	// whose time range overlaps the requested one.
	ReasonUserOverlap RejectionReason = "USER_OVERLAP"
	// ReasonNoRequirement: no staffing rule exists for the requested
	// position on that date's weekday.
	ReasonNoRequirement RejectionReason = "NO_REQUIREMENT"
	// ReasonPositionFilled: the position already has as many shifts on that
	// date as the matching rules require.
	ReasonPositionFilled RejectionReason = "POSITION_FILLED"
)

// RejectedRequest pairs an unplaceable request with the reason it was skipped.
type RejectedRequest struct {
	Request models.ShiftRequest `json:"request"`
	Reason  RejectionReason     `json:"reason"`
}

// Result is the complete outcome of one engine run. Every input request
// appears exactly once: either as the origin of a shift in Created, or in
// Rejected with exactly one reason.
type Result struct {
	Created  []models.Shift    `json:"created"`
	Rejected []RejectedRequest `json:"rejected"`
}

// Assign converts pending shift requests into draft shifts.
//
// Requests are processed first-come-first-served in ascending date order
// (ties keep their input order), so earlier requests win contended capacity.
// For each request the checks run in a fixed order and the first failure
// determines the rejection reason:
//
//  1. a staffing rule must match the request's position and weekday,
//  2. the position's shift count for that date (pre-existing plus accepted
//     earlier in this run) must be below the summed required count of the
//     matching rules,
//  3. the employee must not already hold an overlapping shift on that date.
//
// Accepted requests yield a draft shift back-linked to the request; the shift
// immediately participates in capacity and overlap accounting for the
// remaining requests. No backtracking occurs.
func Assign(pending []models.ShiftRequest, rules []models.StaffingRule, existing []models.Shift) Result {
	requests := make([]models.ShiftRequest, len(pending))
	copy(requests, pending)
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].Date.Before(requests[j].Date)
	})

	idx := buildIndex(rules, existing)

	var result Result
	for _, req := range requests {
		// Claimed or non-pending requests are not the engine's to place.
		// The caller's snapshot normally filters these out already.
		if req.Status != models.RequestStatusPending || req.Claimed() {
			continue
		}

		if reason, ok := idx.check(&req); !ok {
			result.Rejected = append(result.Rejected, RejectedRequest{Request: req, Reason: reason})
			continue
		}

		shift := newDraftShift(&req)
		idx.record(&shift)
		result.Created = append(result.Created, shift)
	}
	return result
}

// newDraftShift builds the draft shift an accepted request turns into.
func newDraftShift(req *models.ShiftRequest) models.Shift {
	requestID := req.ID
	return models.Shift{
		ID:             uuid.NewString(),
		EmployeeID:     req.EmployeeID,
		PositionID:     req.PositionID,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Status:         models.ShiftStatusDraft,
		ShiftRequestID: &requestID,
	}
}

// span is a half-open [start, end) clock interval on a single date.
type span struct {
	start string
	end   string
}

// overlaps reports whether two half-open intervals intersect. Clock strings
// are zero-padded "HH:MM", so lexicographic comparison orders them correctly.
func (a span) overlaps(b span) bool {
	return a.start < b.end && b.start < a.end
}

// index holds the running capacity and overlap accounting for one run.
type index struct {
	// requiredByPositionDay sums RequiredCount over rules keyed by
	// position ID and weekday. Absence of a key means no rule matches.
	requiredByPositionDay map[positionDayKey]int
	// assignedByPositionDate counts shifts per position and date,
	// pre-existing and accepted-this-run alike.
	assignedByPositionDate map[positionDateKey]int
	// spansByEmployeeDate tracks each employee's busy intervals per date.
	spansByEmployeeDate map[employeeDateKey][]span
}

type positionDayKey struct {
	positionID string
	dayOfWeek  int
}

type positionDateKey struct {
	positionID string
	date       string
}

type employeeDateKey struct {
	employeeID string
	date       string
}

func buildIndex(rules []models.StaffingRule, existing []models.Shift) *index {
	idx := &index{
		requiredByPositionDay:  make(map[positionDayKey]int, len(rules)),
		assignedByPositionDate: make(map[positionDateKey]int, len(existing)),
		spansByEmployeeDate:    make(map[employeeDateKey][]span),
	}
	for _, rule := range rules {
		key := positionDayKey{rule.PositionID, rule.DayOfWeek}
		idx.requiredByPositionDay[key] += rule.RequiredCount
	}
	for i := range existing {
		idx.record(&existing[i])
	}
	return idx
}

// check runs the placement checks in their fixed order. It returns ok=true
// when the request can be placed, otherwise the first applicable reason.
func (idx *index) check(req *models.ShiftRequest) (RejectionReason, bool) {
	date := req.Date.Format(models.DateLayout)
	weekday := int(req.Date.Weekday())

	required, matched := idx.requiredByPositionDay[positionDayKey{req.PositionID, weekday}]
	if !matched {
		return ReasonNoRequirement, false
	}

	if idx.assignedByPositionDate[positionDateKey{req.PositionID, date}] >= required {
		return ReasonPositionFilled, false
	}

	candidate := span{start: req.StartTime, end: req.EndTime}
	for _, busy := range idx.spansByEmployeeDate[employeeDateKey{req.EmployeeID, date}] {
		if busy.overlaps(candidate) {
			return ReasonUserOverlap, false
		}
	}
	return "", true
}

// record adds a shift to the running capacity and overlap accounting.
func (idx *index) record(s *models.Shift) {
	date := s.DateKey()
	idx.assignedByPositionDate[positionDateKey{s.PositionID, date}]++
	key := employeeDateKey{s.EmployeeID, date}
	idx.spansByEmployeeDate[key] = append(idx.spansByEmployeeDate[key], span{start: s.StartTime, end: s.EndTime})
}
