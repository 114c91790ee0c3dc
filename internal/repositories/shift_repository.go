package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shiftforge/internal/models"

	"github.com/lib/pq"
)

// ShiftRepository defines shift database operations.
type ShiftRepository interface {
	CreateShift(executor SQLExecutor, shift *models.Shift) (*models.Shift, error)
	GetShiftByID(id string) (*models.Shift, error)
	// GetShifts lists shifts in [from, to), optionally for one employee,
	// joined with employee and position details, date ascending.
	GetShifts(from, to time.Time, employeeID *string) ([]models.Shift, error)
	// GetAllShifts returns every shift on the books (draft and confirmed),
	// the engine's capacity/overlap snapshot.
	GetAllShifts() ([]models.Shift, error)
	UpdateShift(executor SQLExecutor, shift *models.Shift) (*models.Shift, error)
	DeleteShift(executor SQLExecutor, id string) error
	// FinalizeMonth transitions the month's draft shifts to confirmed and
	// returns the number of shifts updated.
	FinalizeMonth(executor SQLExecutor, from, to time.Time) (int, error)
	// ClearDrafts deletes all draft shifts and returns the number removed.
	ClearDrafts(executor SQLExecutor) (int, error)
}

type shiftRepository struct {
	db *sql.DB
}

// NewShiftRepository creates a new instance of ShiftRepository.
func NewShiftRepository(db *sql.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) CreateShift(executor SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	query := `INSERT INTO shifts (id, employee_id, position_id, date, start_time, end_time, status, shift_request_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING created_at, updated_at`

	now := time.Now()
	err := executor.QueryRow(query,
		shift.ID, shift.EmployeeID, shift.PositionID, shift.Date,
		shift.StartTime, shift.EndTime, shift.Status, shift.ShiftRequestID, now, now,
	).Scan(&shift.CreatedAt, &shift.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return nil, fmt.Errorf("%w: a shift already exists for this request", ErrDuplicateKey)
			}
			if pqErr.Code.Name() == "foreign_key_violation" {
				return nil, fmt.Errorf("%w: employee or position not found", ErrNotFound)
			}
		}
		return nil, fmt.Errorf("%w: creating shift: %v", ErrDatabaseError, err)
	}
	return shift, nil
}

func scanShiftRow(row scanner) (*models.Shift, error) {
	var shift models.Shift
	var requestID sql.NullString
	var employeeName, positionName sql.NullString

	err := row.Scan(
		&shift.ID, &shift.EmployeeID, &shift.PositionID, &shift.Date,
		&shift.StartTime, &shift.EndTime, &shift.Status, &requestID,
		&shift.CreatedAt, &shift.UpdatedAt, &employeeName, &positionName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning shift: %v", ErrDatabaseError, err)
	}

	if requestID.Valid {
		shift.ShiftRequestID = &requestID.String
	}
	if employeeName.Valid {
		shift.Employee = &models.User{ID: shift.EmployeeID, Name: employeeName.String}
	}
	if positionName.Valid {
		shift.Position = &models.Position{ID: shift.PositionID, Name: positionName.String}
	}
	return &shift, nil
}

const shiftSelect = `
	SELECT s.id, s.employee_id, s.position_id, s.date, s.start_time, s.end_time,
	       s.status, s.shift_request_id, s.created_at, s.updated_at,
	       u.name AS employee_name, p.name AS position_name
	FROM shifts s
	LEFT JOIN users u ON s.employee_id = u.id
	LEFT JOIN positions p ON s.position_id = p.id`

func (r *shiftRepository) GetShiftByID(id string) (*models.Shift, error) {
	return scanShiftRow(r.db.QueryRow(shiftSelect+` WHERE s.id = $1`, id))
}

func (r *shiftRepository) GetShifts(from, to time.Time, employeeID *string) ([]models.Shift, error) {
	query := shiftSelect + ` WHERE s.date >= $1 AND s.date < $2`
	args := []interface{}{from, to}
	if employeeID != nil {
		args = append(args, *employeeID)
		query += fmt.Sprintf(` AND s.employee_id = $%d`, len(args))
	}
	query += ` ORDER BY s.date ASC, s.start_time ASC`
	return r.queryShifts(query, args...)
}

func (r *shiftRepository) GetAllShifts() ([]models.Shift, error) {
	return r.queryShifts(shiftSelect + ` ORDER BY s.date ASC, s.start_time ASC`)
}

func (r *shiftRepository) queryShifts(query string, args ...interface{}) ([]models.Shift, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing shifts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	shifts := []models.Shift{}
	for rows.Next() {
		shift, err := scanShiftRow(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *shift)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating shifts: %v", ErrDatabaseError, err)
	}
	return shifts, nil
}

func (r *shiftRepository) UpdateShift(executor SQLExecutor, shift *models.Shift) (*models.Shift, error) {
	query := `UPDATE shifts
	          SET employee_id = $1, position_id = $2, date = $3, start_time = $4, end_time = $5, updated_at = $6
	          WHERE id = $7
	          RETURNING status, shift_request_id, created_at, updated_at`

	var requestID sql.NullString
	err := executor.QueryRow(query,
		shift.EmployeeID, shift.PositionID, shift.Date, shift.StartTime, shift.EndTime, time.Now(), shift.ID,
	).Scan(&shift.Status, &requestID, &shift.CreatedAt, &shift.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating shift: %v", ErrDatabaseError, err)
	}
	if requestID.Valid {
		shift.ShiftRequestID = &requestID.String
	}
	return shift, nil
}

func (r *shiftRepository) DeleteShift(executor SQLExecutor, id string) error {
	result, err := executor.Exec(`DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting shift: %v", ErrDatabaseError, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: deleting shift: %v", ErrDatabaseError, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *shiftRepository) FinalizeMonth(executor SQLExecutor, from, to time.Time) (int, error) {
	query := `UPDATE shifts SET status = $1, updated_at = $2
	          WHERE date >= $3 AND date < $4 AND status = $5`
	result, err := executor.Exec(query, models.ShiftStatusConfirmed, time.Now(), from, to, models.ShiftStatusDraft)
	if err != nil {
		return 0, fmt.Errorf("%w: finalizing shifts: %v", ErrDatabaseError, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: finalizing shifts: %v", ErrDatabaseError, err)
	}
	return int(affected), nil
}

func (r *shiftRepository) ClearDrafts(executor SQLExecutor) (int, error) {
	result, err := executor.Exec(`DELETE FROM shifts WHERE status = $1`, models.ShiftStatusDraft)
	if err != nil {
		return 0, fmt.Errorf("%w: clearing draft shifts: %v", ErrDatabaseError, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: clearing draft shifts: %v", ErrDatabaseError, err)
	}
	return int(affected), nil
}
