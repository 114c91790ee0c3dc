package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shiftforge/internal/models"

	"github.com/lib/pq"
)

// ShiftRequestRepository defines shift request database operations.
type ShiftRequestRepository interface {
	CreateShiftRequest(executor SQLExecutor, request *models.ShiftRequest) (*models.ShiftRequest, error)
	GetShiftRequestByID(id string) (*models.ShiftRequest, error)
	// GetShiftRequests lists requests, optionally filtered by status and/or
	// employee, joined with employee and position details, date ascending.
	GetShiftRequests(status *string, employeeID *string) ([]models.ShiftRequest, error)
	// GetAssignableRequests returns the auto-assignment snapshot: pending
	// requests not yet claimed by a shift, in date-ascending order.
	GetAssignableRequests() ([]models.ShiftRequest, error)
	UpdateShiftRequest(executor SQLExecutor, request *models.ShiftRequest) (*models.ShiftRequest, error)
	UpdateShiftRequestStatus(executor SQLExecutor, id, status string) (*models.ShiftRequest, error)
	// LinkShift records the request→shift back-link that marks a request
	// as claimed by auto-assignment.
	LinkShift(executor SQLExecutor, requestID, shiftID string) error
	DeleteShiftRequest(executor SQLExecutor, id string) error
	CountByStatus(status string) (int, error)
}

type shiftRequestRepository struct {
	db *sql.DB
}

// NewShiftRequestRepository creates a new instance of ShiftRequestRepository.
func NewShiftRequestRepository(db *sql.DB) ShiftRequestRepository {
	return &shiftRequestRepository{db: db}
}

func (r *shiftRequestRepository) CreateShiftRequest(executor SQLExecutor, request *models.ShiftRequest) (*models.ShiftRequest, error) {
	query := `INSERT INTO shift_requests (id, employee_id, position_id, date, start_time, end_time, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING created_at, updated_at`

	now := time.Now()
	err := executor.QueryRow(query,
		request.ID, request.EmployeeID, request.PositionID, request.Date,
		request.StartTime, request.EndTime, request.Status, now, now,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: employee or position not found", ErrNotFound)
		}
		return nil, fmt.Errorf("%w: creating shift request: %v", ErrDatabaseError, err)
	}
	return request, nil
}

// scanShiftRequestRow scans a row produced by the joined request query.
func scanShiftRequestRow(row scanner) (*models.ShiftRequest, error) {
	var request models.ShiftRequest
	var shiftID sql.NullString
	var employeeName, positionName sql.NullString

	err := row.Scan(
		&request.ID, &request.EmployeeID, &request.PositionID, &request.Date,
		&request.StartTime, &request.EndTime, &request.Status, &shiftID,
		&request.CreatedAt, &request.UpdatedAt, &employeeName, &positionName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning shift request: %v", ErrDatabaseError, err)
	}

	if shiftID.Valid {
		request.ShiftID = &shiftID.String
	}
	if employeeName.Valid {
		request.Employee = &models.User{ID: request.EmployeeID, Name: employeeName.String}
	}
	if positionName.Valid {
		request.Position = &models.Position{ID: request.PositionID, Name: positionName.String}
	}
	return &request, nil
}

const shiftRequestSelect = `
	SELECT sr.id, sr.employee_id, sr.position_id, sr.date, sr.start_time, sr.end_time,
	       sr.status, sr.shift_id, sr.created_at, sr.updated_at,
	       u.name AS employee_name, p.name AS position_name
	FROM shift_requests sr
	LEFT JOIN users u ON sr.employee_id = u.id
	LEFT JOIN positions p ON sr.position_id = p.id`

func (r *shiftRequestRepository) GetShiftRequestByID(id string) (*models.ShiftRequest, error) {
	return scanShiftRequestRow(r.db.QueryRow(shiftRequestSelect+` WHERE sr.id = $1`, id))
}

func (r *shiftRequestRepository) GetShiftRequests(status *string, employeeID *string) ([]models.ShiftRequest, error) {
	query := shiftRequestSelect
	args := []interface{}{}
	conditions := ""

	if status != nil {
		args = append(args, *status)
		conditions = fmt.Sprintf(" WHERE sr.status = $%d", len(args))
	}
	if employeeID != nil {
		args = append(args, *employeeID)
		if conditions == "" {
			conditions = fmt.Sprintf(" WHERE sr.employee_id = $%d", len(args))
		} else {
			conditions += fmt.Sprintf(" AND sr.employee_id = $%d", len(args))
		}
	}
	query += conditions + ` ORDER BY sr.date ASC, sr.created_at ASC`

	return r.queryShiftRequests(query, args...)
}

func (r *shiftRequestRepository) GetAssignableRequests() ([]models.ShiftRequest, error) {
	query := shiftRequestSelect + `
	WHERE sr.status = $1 AND sr.shift_id IS NULL
	ORDER BY sr.date ASC, sr.created_at ASC`
	return r.queryShiftRequests(query, models.RequestStatusPending)
}

func (r *shiftRequestRepository) queryShiftRequests(query string, args ...interface{}) ([]models.ShiftRequest, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing shift requests: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	requests := []models.ShiftRequest{}
	for rows.Next() {
		request, err := scanShiftRequestRow(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *request)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating shift requests: %v", ErrDatabaseError, err)
	}
	return requests, nil
}

func (r *shiftRequestRepository) UpdateShiftRequest(executor SQLExecutor, request *models.ShiftRequest) (*models.ShiftRequest, error) {
	query := `UPDATE shift_requests
	          SET position_id = $1, date = $2, start_time = $3, end_time = $4, updated_at = $5
	          WHERE id = $6
	          RETURNING status, created_at, updated_at`

	err := executor.QueryRow(query,
		request.PositionID, request.Date, request.StartTime, request.EndTime, time.Now(), request.ID,
	).Scan(&request.Status, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating shift request: %v", ErrDatabaseError, err)
	}
	return request, nil
}

func (r *shiftRequestRepository) UpdateShiftRequestStatus(executor SQLExecutor, id, status string) (*models.ShiftRequest, error) {
	query := `UPDATE shift_requests SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, status, time.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("%w: updating shift request status: %v", ErrDatabaseError, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: updating shift request status: %v", ErrDatabaseError, err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return r.GetShiftRequestByID(id)
}

func (r *shiftRequestRepository) LinkShift(executor SQLExecutor, requestID, shiftID string) error {
	query := `UPDATE shift_requests SET shift_id = $1, updated_at = $2 WHERE id = $3 AND shift_id IS NULL`
	result, err := executor.Exec(query, shiftID, time.Now(), requestID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: shift %s is already linked to a request", ErrDuplicateKey, shiftID)
		}
		return fmt.Errorf("%w: linking shift request: %v", ErrDatabaseError, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: linking shift request: %v", ErrDatabaseError, err)
	}
	// Zero rows means the request vanished or was claimed since the
	// snapshot was taken; both must fail the run.
	if affected == 0 {
		return fmt.Errorf("%w: request %s is missing or already claimed", ErrDuplicateKey, requestID)
	}
	return nil
}

func (r *shiftRequestRepository) DeleteShiftRequest(executor SQLExecutor, id string) error {
	result, err := executor.Exec(`DELETE FROM shift_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting shift request: %v", ErrDatabaseError, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: deleting shift request: %v", ErrDatabaseError, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *shiftRequestRepository) CountByStatus(status string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM shift_requests WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting shift requests: %v", ErrDatabaseError, err)
	}
	return count, nil
}
