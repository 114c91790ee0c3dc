package models

import "time"

// ShiftRequest statuses. A request that has been converted into a shift keeps
// its status but carries a ShiftID back-link and is excluded from future
// auto-assignment runs.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// Shift statuses. Drafts become confirmed only through the finalize step.
const (
	ShiftStatusDraft     = "draft"
	ShiftStatusConfirmed = "confirmed"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Position is a staffable role, e.g. "Kitchen" or "Hall".
type Position struct {
	ID            string         `json:"id"`
	Name          string         `json:"name" db:"name"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
	StaffingRules []StaffingRule `json:"staffing_rules,omitempty"` // populated on admin list views
}

// StaffingRule declares how many people of a position are needed on a given
// weekday. DayOfWeek follows time.Weekday numbering (Sunday = 0). TimeSlot is
// a free-form label such as "09:00-17:00"; multiple rules may exist for the
// same position and weekday.
type StaffingRule struct {
	ID            string    `json:"id"`
	PositionID    string    `json:"position_id" db:"position_id"`
	DayOfWeek     int       `json:"day_of_week" db:"day_of_week"`
	TimeSlot      string    `json:"time_slot" db:"time_slot"`
	RequiredCount int       `json:"required_count" db:"required_count"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
	Position      *Position `json:"position,omitempty"`
}

// ShiftRequest is an employee's submitted availability for one position on one
// date. StartTime and EndTime are zero-padded "HH:MM" clock strings; the
// half-open interval [StartTime, EndTime) is what overlap checks operate on.
type ShiftRequest struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id" db:"employee_id"`
	PositionID string    `json:"position_id" db:"position_id"`
	Date       time.Time `json:"date" db:"date"`
	StartTime  string    `json:"start_time" db:"start_time"`
	EndTime    string    `json:"end_time" db:"end_time"`
	Status     string    `json:"status" db:"status"`
	ShiftID    *string   `json:"shift_id,omitempty" db:"shift_id"` // set once claimed by a created shift
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
	Employee   *User     `json:"employee,omitempty"`
	Position   *Position `json:"position,omitempty"`
}

// Claimed reports whether the request has already been converted into a shift.
func (r *ShiftRequest) Claimed() bool {
	return r.ShiftID != nil && *r.ShiftID != ""
}

// Shift is a scheduled (draft or confirmed) working period for one employee on
// one position. ShiftRequestID back-links the originating request when the
// shift was produced by auto-assignment; at most one shift exists per request.
type Shift struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employee_id" db:"employee_id"`
	PositionID     string    `json:"position_id" db:"position_id"`
	Date           time.Time `json:"date" db:"date"`
	StartTime      string    `json:"start_time" db:"start_time"`
	EndTime        string    `json:"end_time" db:"end_time"`
	Status         string    `json:"status" db:"status"`
	ShiftRequestID *string   `json:"shift_request_id,omitempty" db:"shift_request_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
	Employee       *User     `json:"employee,omitempty"`
	Position       *Position `json:"position,omitempty"`
}

// DateKey returns the shift's calendar date in DateLayout form, the key used
// for per-day capacity and overlap accounting.
func (s *Shift) DateKey() string {
	return s.Date.Format(DateLayout)
}
