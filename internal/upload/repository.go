package upload

import (
	"collaborative-annotation-server/internal/domain"
	"context"
	defError "errors"

	"gorm.io/gorm"
)

// ImportRepository is the persistence surface the coordinator writes
// through. Transaction hands the callback a store bound to the transaction,
// so a batch either commits whole or not at all.
type ImportRepository interface {
	Transaction(ctx context.Context, fn func(tx ImportRepository) error) error
	ProjectLabelIDs(ctx context.Context, projectID uint64) (map[string]uint64, error)
	FindDocumentByText(ctx context.Context, projectID uint64, text string) (*domain.Document, error)
	CreateDocument(ctx context.Context, doc *domain.Document) error
	DeleteDocumentAnnotations(ctx context.Context, projectType string, docID uint64) error
	CreateClassification(ctx context.Context, a *domain.DocumentAnnotation) error
	CreateSpan(ctx context.Context, a *domain.SequenceAnnotation) error
	CreateSeq2seq(ctx context.Context, a *domain.Seq2seqAnnotation) error
	CountClassificationsInScope(ctx context.Context, docID uint64, userID *uint64) (int64, error)
}

type ImportRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new import repository
func NewRepository(db *gorm.DB) ImportRepository {
	return &ImportRepositoryImpl{db: db}
}

func (r *ImportRepositoryImpl) Transaction(ctx context.Context, fn func(tx ImportRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ImportRepositoryImpl{db: tx})
	})
}

func (r *ImportRepositoryImpl) ProjectLabelIDs(ctx context.Context, projectID uint64) (map[string]uint64, error) {
	var labels []domain.Label
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Find(&labels).Error; err != nil {
		return nil, err
	}

	ids := make(map[string]uint64, len(labels))
	for _, l := range labels {
		ids[l.Text] = l.ID
	}
	return ids, nil
}

func (r *ImportRepositoryImpl) FindDocumentByText(ctx context.Context, projectID uint64, text string) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND text = ?", projectID, text).
		First(&doc).Error
	if defError.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *ImportRepositoryImpl) CreateDocument(ctx context.Context, doc *domain.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *ImportRepositoryImpl) DeleteDocumentAnnotations(ctx context.Context, projectType string, docID uint64) error {
	query := r.db.WithContext(ctx).Where("document_id = ?", docID)
	switch projectType {
	case domain.ProjectTypeClassification:
		return query.Delete(&domain.DocumentAnnotation{}).Error
	case domain.ProjectTypeSequenceLabeling:
		return query.Delete(&domain.SequenceAnnotation{}).Error
	case domain.ProjectTypeSeq2seq:
		return query.Delete(&domain.Seq2seqAnnotation{}).Error
	}
	return nil
}

func (r *ImportRepositoryImpl) CreateClassification(ctx context.Context, a *domain.DocumentAnnotation) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ImportRepositoryImpl) CreateSpan(ctx context.Context, a *domain.SequenceAnnotation) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ImportRepositoryImpl) CreateSeq2seq(ctx context.Context, a *domain.Seq2seqAnnotation) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ImportRepositoryImpl) CountClassificationsInScope(ctx context.Context, docID uint64, userID *uint64) (int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.DocumentAnnotation{}).
		Where("document_id = ?", docID)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}
