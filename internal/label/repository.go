package label

import (
	"collaborative-annotation-server/internal/domain"
	"context"
	"time"

	"gorm.io/gorm"
)

type LabelRepository interface {
	Create(ctx context.Context, label *domain.Label) error
	CreateBatch(ctx context.Context, labels []domain.Label) error
	FindByID(ctx context.Context, projectID, id uint64) (*domain.Label, error)
	ListByProjectID(ctx context.Context, projectID uint64) ([]domain.Label, error)
	Update(ctx context.Context, label *domain.Label) error
	Delete(ctx context.Context, projectID, id uint64) error
}

type LabelRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new label repository
func NewRepository(db *gorm.DB) LabelRepository {
	return &LabelRepositoryImpl{db: db}
}

func (r *LabelRepositoryImpl) Create(ctx context.Context, label *domain.Label) error {
	now := time.Now().UTC()
	label.CreatedAt = now
	label.UpdatedAt = now
	return r.db.WithContext(ctx).Create(label).Error
}

// CreateBatch inserts all labels in one transaction; any failure keeps none
func (r *LabelRepositoryImpl) CreateBatch(ctx context.Context, labels []domain.Label) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for i := range labels {
			labels[i].CreatedAt = now
			labels[i].UpdatedAt = now
			if err := tx.Create(&labels[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *LabelRepositoryImpl) FindByID(ctx context.Context, projectID, id uint64) (*domain.Label, error) {
	var label domain.Label
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		First(&label, id).Error
	if err != nil {
		return nil, err
	}
	return &label, nil
}

func (r *LabelRepositoryImpl) ListByProjectID(ctx context.Context, projectID uint64) ([]domain.Label, error) {
	var labels []domain.Label
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id").
		Find(&labels).Error
	return labels, err
}

func (r *LabelRepositoryImpl) Update(ctx context.Context, label *domain.Label) error {
	label.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(label).Error
}

func (r *LabelRepositoryImpl) Delete(ctx context.Context, projectID, id uint64) error {
	return r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&domain.Label{}, id).Error
}
