package label

import (
	"collaborative-annotation-server/internal/domain"
	"collaborative-annotation-server/internal/errors"
	"context"
	defError "errors"

	"gorm.io/gorm"
)

type Service interface {
	CreateLabel(ctx context.Context, label *domain.Label) error
	CreateLabels(ctx context.Context, projectID uint64, labels []domain.Label) error
	GetLabelByID(ctx context.Context, projectID, id uint64) (*domain.Label, error)
	GetProjectLabels(ctx context.Context, projectID uint64) ([]domain.Label, error)
	UpdateLabel(ctx context.Context, label *domain.Label) error
	DeleteLabel(ctx context.Context, projectID, id uint64) error
}

type DefaultService struct {
	repository LabelRepository
}

func NewService(repository LabelRepository) Service {
	return &DefaultService{repository: repository}
}

// CreateLabel creates a label. Uniqueness on (project, text) and
// (project, shortcut) is enforced by the database, so the second of two
// concurrent identical creations surfaces as a conflict.
func (s *DefaultService) CreateLabel(ctx context.Context, label *domain.Label) error {
	if err := s.repository.Create(ctx, label); err != nil {
		if defError.Is(err, gorm.ErrDuplicatedKey) {
			return errors.Conflict("You cannot create a label with same name or shortkey", err)
		}
		return err
	}
	return nil
}

// CreateLabels bulk-creates labels in one all-or-nothing batch
func (s *DefaultService) CreateLabels(ctx context.Context, projectID uint64, labels []domain.Label) error {
	for i := range labels {
		if labels[i].Text == "" {
			return errors.BadRequest("Label text cannot be empty", nil)
		}
		labels[i].ProjectID = projectID
	}

	if err := s.repository.CreateBatch(ctx, labels); err != nil {
		if defError.Is(err, gorm.ErrDuplicatedKey) {
			return errors.Conflict("You cannot create a label with same name or shortkey", err)
		}
		return err
	}
	return nil
}

func (s *DefaultService) GetLabelByID(ctx context.Context, projectID, id uint64) (*domain.Label, error) {
	label, err := s.repository.FindByID(ctx, projectID, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Label not found", err)
		}
		return nil, err
	}
	return label, nil
}

func (s *DefaultService) GetProjectLabels(ctx context.Context, projectID uint64) ([]domain.Label, error) {
	return s.repository.ListByProjectID(ctx, projectID)
}

func (s *DefaultService) UpdateLabel(ctx context.Context, label *domain.Label) error {
	if err := s.repository.Update(ctx, label); err != nil {
		if defError.Is(err, gorm.ErrDuplicatedKey) {
			return errors.Conflict("You cannot create a label with same name or shortkey", err)
		}
		return err
	}
	return nil
}

func (s *DefaultService) DeleteLabel(ctx context.Context, projectID, id uint64) error {
	return s.repository.Delete(ctx, projectID, id)
}
