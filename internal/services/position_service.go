package services

import (
	"database/sql"
	"errors"
	"fmt"

	"shiftforge/internal/models"
	"shiftforge/internal/repositories"
	"shiftforge/pkg/utils"

	"github.com/google/uuid"
)

// --- Custom Service Errors for Positions ---
var (
	ErrPositionNotFound       = errors.New("position not found")
	ErrPositionNameTaken      = errors.New("position name already in use")
	ErrPositionInUse          = errors.New("position cannot be deleted as it is referenced by shifts or requests")
	ErrPositionDataValidation = errors.New("position data validation error")
)

// --- DTOs ---

// CreatePositionRequest carries a new position payload.
type CreatePositionRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdatePositionRequest carries a position rename payload.
type UpdatePositionRequest struct {
	Name string `json:"name" binding:"required"`
}

// --- PositionService Interface ---
type PositionService interface {
	CreatePosition(req CreatePositionRequest) (*models.Position, error)
	GetPositionByID(id string) (*models.Position, error)
	// GetPositions lists positions; withRules additionally loads each
	// position's staffing rules for the admin management view.
	GetPositions(withRules bool) ([]models.Position, error)
	UpdatePosition(id string, req UpdatePositionRequest) (*models.Position, error)
	DeletePosition(id string) error
}

type positionService struct {
	positionRepo repositories.PositionRepository
	db           *sql.DB
}

// NewPositionService creates a new instance of PositionService.
func NewPositionService(positionRepo repositories.PositionRepository, db *sql.DB) PositionService {
	return &positionService{positionRepo: positionRepo, db: db}
}

func (s *positionService) CreatePosition(req CreatePositionRequest) (*models.Position, error) {
	if utils.IsEmpty(req.Name) {
		return nil, fmt.Errorf("%w: name is required", ErrPositionDataValidation)
	}

	position := &models.Position{ID: uuid.NewString(), Name: req.Name}
	created, err := s.positionRepo.CreatePosition(s.db, position)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPositionNameTaken
		}
		return nil, err
	}
	return created, nil
}

func (s *positionService) GetPositionByID(id string) (*models.Position, error) {
	position, err := s.positionRepo.GetPositionByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, err
	}
	return position, nil
}

func (s *positionService) GetPositions(withRules bool) ([]models.Position, error) {
	return s.positionRepo.GetPositions(withRules)
}

func (s *positionService) UpdatePosition(id string, req UpdatePositionRequest) (*models.Position, error) {
	if utils.IsEmpty(req.Name) {
		return nil, fmt.Errorf("%w: name is required", ErrPositionDataValidation)
	}

	position := &models.Position{ID: id, Name: req.Name}
	updated, err := s.positionRepo.UpdatePosition(s.db, position)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPositionNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPositionNameTaken
		}
		return nil, err
	}
	return updated, nil
}

func (s *positionService) DeletePosition(id string) error {
	err := s.positionRepo.DeletePosition(s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPositionNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return ErrPositionInUse
		}
		return err
	}
	return nil
}
