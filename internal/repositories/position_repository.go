package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shiftforge/internal/models"

	"github.com/lib/pq"
)

// PositionRepository defines position database operations.
type PositionRepository interface {
	CreatePosition(executor SQLExecutor, position *models.Position) (*models.Position, error)
	GetPositionByID(id string) (*models.Position, error)
	GetPositions(withRules bool) ([]models.Position, error)
	UpdatePosition(executor SQLExecutor, position *models.Position) (*models.Position, error)
	DeletePosition(executor SQLExecutor, id string) error
}

type positionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new instance of PositionRepository.
func NewPositionRepository(db *sql.DB) PositionRepository {
	return &positionRepository{db: db}
}

func (r *positionRepository) CreatePosition(executor SQLExecutor, position *models.Position) (*models.Position, error) {
	query := `INSERT INTO positions (id, name, created_at, updated_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at, updated_at`

	now := time.Now()
	err := executor.QueryRow(query, position.ID, position.Name, now, now).
		Scan(&position.CreatedAt, &position.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: position %q already exists", ErrDuplicateKey, position.Name)
		}
		return nil, fmt.Errorf("%w: creating position: %v", ErrDatabaseError, err)
	}
	return position, nil
}

func scanPositionRow(row scanner) (*models.Position, error) {
	var position models.Position
	err := row.Scan(&position.ID, &position.Name, &position.CreatedAt, &position.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning position: %v", ErrDatabaseError, err)
	}
	return &position, nil
}

func (r *positionRepository) GetPositionByID(id string) (*models.Position, error) {
	query := `SELECT id, name, created_at, updated_at FROM positions WHERE id = $1`
	return scanPositionRow(r.db.QueryRow(query, id))
}

func (r *positionRepository) GetPositions(withRules bool) ([]models.Position, error) {
	query := `SELECT id, name, created_at, updated_at FROM positions ORDER BY name ASC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: listing positions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	positions := []models.Position{}
	for rows.Next() {
		position, err := scanPositionRow(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, *position)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating positions: %v", ErrDatabaseError, err)
	}

	if withRules && len(positions) > 0 {
		if err := r.attachRules(positions); err != nil {
			return nil, err
		}
	}
	return positions, nil
}

// attachRules loads every position's staffing rules in one query and fans
// them out over the already-fetched positions.
func (r *positionRepository) attachRules(positions []models.Position) error {
	query := `SELECT id, position_id, day_of_week, time_slot, required_count, created_at, updated_at
	          FROM staffing_rules ORDER BY day_of_week ASC, time_slot ASC`
	rows, err := r.db.Query(query)
	if err != nil {
		return fmt.Errorf("%w: listing staffing rules for positions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	byPosition := make(map[string][]models.StaffingRule)
	for rows.Next() {
		var rule models.StaffingRule
		if err := rows.Scan(&rule.ID, &rule.PositionID, &rule.DayOfWeek, &rule.TimeSlot,
			&rule.RequiredCount, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
			return fmt.Errorf("%w: scanning staffing rule: %v", ErrDatabaseError, err)
		}
		byPosition[rule.PositionID] = append(byPosition[rule.PositionID], rule)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating staffing rules: %v", ErrDatabaseError, err)
	}

	for i := range positions {
		positions[i].StaffingRules = byPosition[positions[i].ID]
	}
	return nil
}

func (r *positionRepository) UpdatePosition(executor SQLExecutor, position *models.Position) (*models.Position, error) {
	query := `UPDATE positions SET name = $1, updated_at = $2 WHERE id = $3
	          RETURNING created_at, updated_at`

	err := executor.QueryRow(query, position.Name, time.Now(), position.ID).
		Scan(&position.CreatedAt, &position.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, fmt.Errorf("%w: position %q already exists", ErrDuplicateKey, position.Name)
		}
		return nil, fmt.Errorf("%w: updating position: %v", ErrDatabaseError, err)
	}
	return position, nil
}

func (r *positionRepository) DeletePosition(executor SQLExecutor, id string) error {
	result, err := executor.Exec(`DELETE FROM positions WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: position is referenced by shifts or requests", ErrDuplicateKey)
		}
		return fmt.Errorf("%w: deleting position: %v", ErrDatabaseError, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: deleting position: %v", ErrDatabaseError, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
