package annotation

import (
	"collaborative-annotation-server/internal/domain"
	"context"
	"time"

	"gorm.io/gorm"
)

type AnnotationRepository interface {
	ListClassifications(ctx context.Context, docID uint64, userID *uint64) ([]domain.DocumentAnnotation, error)
	ListSpans(ctx context.Context, docID uint64, userID *uint64) ([]domain.SequenceAnnotation, error)
	ListSeq2seqs(ctx context.Context, docID uint64, userID *uint64) ([]domain.Seq2seqAnnotation, error)
	CreateClassification(ctx context.Context, a *domain.DocumentAnnotation) error
	CreateSpan(ctx context.Context, a *domain.SequenceAnnotation) error
	CreateSeq2seq(ctx context.Context, a *domain.Seq2seqAnnotation) error
	CountClassificationsInScope(ctx context.Context, docID uint64, userID *uint64) (int64, error)
	AuthorOf(ctx context.Context, projectType string, annotationID uint64) (uint64, error)
	Delete(ctx context.Context, projectType string, docID, annotationID uint64) error
}

type AnnotationRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new annotation repository
func NewRepository(db *gorm.DB) AnnotationRepository {
	return &AnnotationRepositoryImpl{db: db}
}

func scoped(db *gorm.DB, docID uint64, userID *uint64) *gorm.DB {
	query := db.Where("document_id = ?", docID)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	return query
}

func (r *AnnotationRepositoryImpl) ListClassifications(ctx context.Context, docID uint64, userID *uint64) ([]domain.DocumentAnnotation, error) {
	var annotations []domain.DocumentAnnotation
	err := scoped(r.db.WithContext(ctx), docID, userID).Order("id").Find(&annotations).Error
	return annotations, err
}

func (r *AnnotationRepositoryImpl) ListSpans(ctx context.Context, docID uint64, userID *uint64) ([]domain.SequenceAnnotation, error) {
	var annotations []domain.SequenceAnnotation
	err := scoped(r.db.WithContext(ctx), docID, userID).Order("id").Find(&annotations).Error
	return annotations, err
}

func (r *AnnotationRepositoryImpl) ListSeq2seqs(ctx context.Context, docID uint64, userID *uint64) ([]domain.Seq2seqAnnotation, error) {
	var annotations []domain.Seq2seqAnnotation
	err := scoped(r.db.WithContext(ctx), docID, userID).Order("id").Find(&annotations).Error
	return annotations, err
}

func stamp() time.Time {
	return time.Now().UTC()
}

func (r *AnnotationRepositoryImpl) CreateClassification(ctx context.Context, a *domain.DocumentAnnotation) error {
	now := stamp()
	a.CreatedAt = now
	a.UpdatedAt = now
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AnnotationRepositoryImpl) CreateSpan(ctx context.Context, a *domain.SequenceAnnotation) error {
	now := stamp()
	a.CreatedAt = now
	a.UpdatedAt = now
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AnnotationRepositoryImpl) CreateSeq2seq(ctx context.Context, a *domain.Seq2seqAnnotation) error {
	now := stamp()
	a.CreatedAt = now
	a.UpdatedAt = now
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AnnotationRepositoryImpl) CountClassificationsInScope(ctx context.Context, docID uint64, userID *uint64) (int64, error) {
	var count int64
	err := scoped(r.db.WithContext(ctx).Model(&domain.DocumentAnnotation{}), docID, userID).
		Count(&count).Error
	return count, err
}

// AuthorOf returns the user who created an annotation
func (r *AnnotationRepositoryImpl) AuthorOf(ctx context.Context, projectType string, annotationID uint64) (uint64, error) {
	var userID uint64
	err := r.db.WithContext(ctx).
		Table(domain.AnnotationTable(projectType)).
		Where("id = ?", annotationID).
		Select("user_id").
		First(&userID).Error
	return userID, err
}

func (r *AnnotationRepositoryImpl) Delete(ctx context.Context, projectType string, docID, annotationID uint64) error {
	query := r.db.WithContext(ctx).Where("document_id = ?", docID)
	switch projectType {
	case domain.ProjectTypeClassification:
		return query.Delete(&domain.DocumentAnnotation{}, annotationID).Error
	case domain.ProjectTypeSequenceLabeling:
		return query.Delete(&domain.SequenceAnnotation{}, annotationID).Error
	case domain.ProjectTypeSeq2seq:
		return query.Delete(&domain.Seq2seqAnnotation{}, annotationID).Error
	}
	return nil
}
