package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shiftforge/internal/models"

	"github.com/lib/pq"
)

// StaffingRuleRepository defines staffing rule database operations.
type StaffingRuleRepository interface {
	CreateStaffingRule(executor SQLExecutor, rule *models.StaffingRule) (*models.StaffingRule, error)
	GetStaffingRuleByID(id string) (*models.StaffingRule, error)
	GetStaffingRules(positionID *string) ([]models.StaffingRule, error)
	UpdateStaffingRule(executor SQLExecutor, rule *models.StaffingRule) (*models.StaffingRule, error)
	DeleteStaffingRule(executor SQLExecutor, id string) error
}

type staffingRuleRepository struct {
	db *sql.DB
}

// NewStaffingRuleRepository creates a new instance of StaffingRuleRepository.
func NewStaffingRuleRepository(db *sql.DB) StaffingRuleRepository {
	return &staffingRuleRepository{db: db}
}

func (r *staffingRuleRepository) CreateStaffingRule(executor SQLExecutor, rule *models.StaffingRule) (*models.StaffingRule, error) {
	query := `INSERT INTO staffing_rules (id, position_id, day_of_week, time_slot, required_count, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at, updated_at`

	now := time.Now()
	err := executor.QueryRow(query,
		rule.ID, rule.PositionID, rule.DayOfWeek, rule.TimeSlot, rule.RequiredCount, now, now,
	).Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, fmt.Errorf("%w: position %s not found", ErrNotFound, rule.PositionID)
		}
		return nil, fmt.Errorf("%w: creating staffing rule: %v", ErrDatabaseError, err)
	}
	return rule, nil
}

const staffingRuleColumns = `id, position_id, day_of_week, time_slot, required_count, created_at, updated_at`

func scanStaffingRuleRow(row scanner) (*models.StaffingRule, error) {
	var rule models.StaffingRule
	err := row.Scan(&rule.ID, &rule.PositionID, &rule.DayOfWeek, &rule.TimeSlot,
		&rule.RequiredCount, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning staffing rule: %v", ErrDatabaseError, err)
	}
	return &rule, nil
}

func (r *staffingRuleRepository) GetStaffingRuleByID(id string) (*models.StaffingRule, error) {
	query := `SELECT ` + staffingRuleColumns + ` FROM staffing_rules WHERE id = $1`
	return scanStaffingRuleRow(r.db.QueryRow(query, id))
}

func (r *staffingRuleRepository) GetStaffingRules(positionID *string) ([]models.StaffingRule, error) {
	query := `SELECT ` + staffingRuleColumns + ` FROM staffing_rules`
	args := []interface{}{}
	if positionID != nil {
		query += ` WHERE position_id = $1`
		args = append(args, *positionID)
	}
	query += ` ORDER BY day_of_week ASC, time_slot ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing staffing rules: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	rules := []models.StaffingRule{}
	for rows.Next() {
		rule, err := scanStaffingRuleRow(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating staffing rules: %v", ErrDatabaseError, err)
	}
	return rules, nil
}

func (r *staffingRuleRepository) UpdateStaffingRule(executor SQLExecutor, rule *models.StaffingRule) (*models.StaffingRule, error) {
	query := `UPDATE staffing_rules
	          SET day_of_week = $1, time_slot = $2, required_count = $3, updated_at = $4
	          WHERE id = $5
	          RETURNING position_id, created_at, updated_at`

	err := executor.QueryRow(query,
		rule.DayOfWeek, rule.TimeSlot, rule.RequiredCount, time.Now(), rule.ID,
	).Scan(&rule.PositionID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: updating staffing rule: %v", ErrDatabaseError, err)
	}
	return rule, nil
}

func (r *staffingRuleRepository) DeleteStaffingRule(executor SQLExecutor, id string) error {
	result, err := executor.Exec(`DELETE FROM staffing_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting staffing rule: %v", ErrDatabaseError, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: deleting staffing rule: %v", ErrDatabaseError, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
