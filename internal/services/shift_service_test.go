package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftforge/internal/models"
)

func TestValidateClockRange(t *testing.T) {
	assert.NoError(t, validateClockRange("09:00", "17:00"))
	assert.NoError(t, validateClockRange("00:00", "23:59"))

	assert.ErrorIs(t, validateClockRange("9:00", "17:00"), ErrClockFormat)
	assert.ErrorIs(t, validateClockRange("09:00", "24:00"), ErrClockFormat)
	assert.ErrorIs(t, validateClockRange("17:00", "09:00"), ErrTimeRange)
	assert.ErrorIs(t, validateClockRange("09:00", "09:00"), ErrTimeRange)
}

func TestParseRequestDate(t *testing.T) {
	date, err := parseRequestDate("2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, date.Weekday())

	_, err = parseRequestDate("04/03/2024")
	assert.ErrorIs(t, err, ErrDateFormat)
}

func TestGetWorkedHours_SumsShiftSpans(t *testing.T) {
	repo := &fakeShiftRepo{shifts: []models.Shift{
		{StartTime: "09:00", EndTime: "17:00"}, // 8h
		{StartTime: "10:00", EndTime: "13:30"}, // 3h30m
	}}
	svc := NewShiftService(repo, nil, nil, nil)

	hours, err := svc.GetWorkedHours("alice", 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 11, hours.TotalHours)
	assert.Equal(t, 30, hours.TotalMinutes)
}

func TestCountShortages(t *testing.T) {
	// Week starting Sunday 2024-03-03; Kitchen needs 2 on Monday, Hall 1 on
	// Friday. One Kitchen shift exists on the Monday.
	weekStart := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	rules := []models.StaffingRule{
		{PositionID: "kitchen", DayOfWeek: 1, TimeSlot: "09:00-17:00", RequiredCount: 2},
		{PositionID: "hall", DayOfWeek: 5, TimeSlot: "09:00-17:00", RequiredCount: 1},
	}
	shifts := []models.Shift{{
		PositionID: "kitchen",
		EmployeeID: "alice",
		Date:       time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		StartTime:  "09:00",
		EndTime:    "17:00",
	}}

	// 1 missing Kitchen slot on Monday + 1 missing Hall slot on Friday.
	assert.Equal(t, 2, countShortages(weekStart, rules, shifts))

	// A fully staffed week reports zero.
	full := append(shifts, models.Shift{
		PositionID: "kitchen", EmployeeID: "bob",
		Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), StartTime: "09:00", EndTime: "17:00",
	}, models.Shift{
		PositionID: "hall", EmployeeID: "carol",
		Date: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), StartTime: "09:00", EndTime: "17:00",
	})
	assert.Equal(t, 0, countShortages(weekStart, rules, full))
}

func TestValidateMonth(t *testing.T) {
	assert.NoError(t, validateMonth(2024, 1))
	assert.NoError(t, validateMonth(2024, 12))
	assert.ErrorIs(t, validateMonth(2024, 0), ErrMonthRange)
	assert.ErrorIs(t, validateMonth(2024, 13), ErrMonthRange)
	assert.ErrorIs(t, validateMonth(1999, 5), ErrMonthRange)
}
