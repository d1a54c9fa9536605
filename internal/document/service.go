package document

import (
	"collaborative-annotation-server/internal/domain"
	"collaborative-annotation-server/internal/errors"
	"context"
	defError "errors"

	"gorm.io/gorm"
)

type Service interface {
	CreateDocument(ctx context.Context, projectID uint64, text, meta string) (*domain.Document, error)
	GetDocumentByID(ctx context.Context, projectID, docID uint64) (*domain.Document, error)
	GetProjectDocuments(ctx context.Context, project *domain.Project, userID uint64, page, pageSize int) (*PaginatedDocuments, error)
	UpdateDocument(ctx context.Context, projectID, docID uint64, text, meta string) (*domain.Document, error)
	DeleteDocument(ctx context.Context, projectID, docID uint64) error
	ApproveDocument(ctx context.Context, projectID, docID, approverID uint64, approved bool) (*domain.Document, error)
}

type DefaultService struct {
	repository DocumentRepository
}

func NewService(repository DocumentRepository) Service {
	return &DefaultService{repository: repository}
}

func (s *DefaultService) CreateDocument(ctx context.Context, projectID uint64, text, meta string) (*domain.Document, error) {
	if meta == "" {
		meta = "{}"
	}
	doc := &domain.Document{
		ProjectID: projectID,
		Text:      text,
		Meta:      meta,
	}
	if err := s.repository.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DefaultService) GetDocumentByID(ctx context.Context, projectID, docID uint64) (*domain.Document, error) {
	doc, err := s.repository.FindByID(ctx, projectID, docID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Document not found", err)
		}
		return nil, err
	}
	return doc, nil
}

type PaginatedDocuments struct {
	Data []domain.Document `json:"data"`
	Meta DocumentsMeta     `json:"meta"`
}

// GetProjectDocuments lists documents for annotation. Randomized order is a
// presentation concern only; exports always use insertion order.
func (s *DefaultService) GetProjectDocuments(ctx context.Context, project *domain.Project, userID uint64, page, pageSize int) (*PaginatedDocuments, error) {
	var orderSeed uint64
	if project.RandomizeDocumentOrder {
		orderSeed = userID
	}

	documents, meta, err := s.repository.List(ctx, project.ID, orderSeed, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &PaginatedDocuments{Data: documents, Meta: meta}, nil
}

func (s *DefaultService) UpdateDocument(ctx context.Context, projectID, docID uint64, text, meta string) (*domain.Document, error) {
	doc, err := s.GetDocumentByID(ctx, projectID, docID)
	if err != nil {
		return nil, err
	}

	doc.Text = text
	if meta != "" {
		doc.Meta = meta
	}

	if err := s.repository.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DefaultService) DeleteDocument(ctx context.Context, projectID, docID uint64) error {
	if _, err := s.GetDocumentByID(ctx, projectID, docID); err != nil {
		return err
	}
	return s.repository.Delete(ctx, projectID, docID)
}

// ApproveDocument sets or clears the approver reference on a document
func (s *DefaultService) ApproveDocument(ctx context.Context, projectID, docID, approverID uint64, approved bool) (*domain.Document, error) {
	if _, err := s.GetDocumentByID(ctx, projectID, docID); err != nil {
		return nil, err
	}

	var ref *uint64
	if approved {
		ref = &approverID
	}

	if err := s.repository.SetApprover(ctx, projectID, docID, ref); err != nil {
		return nil, err
	}
	return s.GetDocumentByID(ctx, projectID, docID)
}
