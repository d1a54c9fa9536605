package document

import (
	"collaborative-annotation-server/internal/domain"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	FindByID(ctx context.Context, projectID, id uint64) (*domain.Document, error)
	List(ctx context.Context, projectID uint64, orderSeed uint64, page, pageSize int) ([]domain.Document, DocumentsMeta, error)
	Update(ctx context.Context, doc *domain.Document) error
	Delete(ctx context.Context, projectID, id uint64) error
	SetApprover(ctx context.Context, projectID, id uint64, approverID *uint64) error
}

type DocumentRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new document repository
func NewRepository(db *gorm.DB) DocumentRepository {
	return &DocumentRepositoryImpl{db: db}
}

type DocumentsMeta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPage   int   `json:"total_page"`
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *DocumentRepositoryImpl) FindByID(ctx context.Context, projectID, id uint64) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		First(&doc, id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// List pages through a project's documents. Base order is insertion (id)
// order; when orderSeed is non-zero the order is shuffled deterministically
// per user, so each annotator sees a stable but different sequence.
func (r *DocumentRepositoryImpl) List(ctx context.Context, projectID uint64, orderSeed uint64, page, pageSize int) ([]domain.Document, DocumentsMeta, error) {
	var documents []domain.Document
	var totalRecords int64

	// Count total records
	if err := r.db.WithContext(ctx).Model(&domain.Document{}).
		Where("project_id = ?", projectID).
		Count(&totalRecords).Error; err != nil {
		return documents, DocumentsMeta{}, err
	}

	query := r.db.WithContext(ctx).Where("project_id = ?", projectID)
	if orderSeed > 0 {
		query = query.Order(clause.OrderBy{Expression: gorm.Expr("id % ?, id", orderSeed)})
	} else {
		query = query.Order("id")
	}

	offset := (page - 1) * pageSize
	err := query.
		Offset(offset).
		Limit(pageSize).
		Find(&documents).Error

	totalPages := int((totalRecords + int64(pageSize) - 1) / int64(pageSize))

	return documents, DocumentsMeta{
		Total:       totalRecords,
		PerPage:     pageSize,
		TotalPage:   totalPages,
		CurrentPage: page,
	}, err
}

func (r *DocumentRepositoryImpl) Update(ctx context.Context, doc *domain.Document) error {
	doc.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(doc).Error
}

// Delete removes the document and its annotations
func (r *DocumentRepositoryImpl) Delete(ctx context.Context, projectID, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&domain.DocumentAnnotation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", id).Delete(&domain.SequenceAnnotation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", id).Delete(&domain.Seq2seqAnnotation{}).Error; err != nil {
			return err
		}
		return tx.Where("project_id = ?", projectID).Delete(&domain.Document{}, id).Error
	})
}

func (r *DocumentRepositoryImpl) SetApprover(ctx context.Context, projectID, id uint64, approverID *uint64) error {
	return r.db.WithContext(ctx).Model(&domain.Document{}).
		Where("id = ? AND project_id = ?", id, projectID).
		Update("annotations_approved_by_id", approverID).Error
}
