package annotation

import (
	"collaborative-annotation-server/internal/domain"
	"collaborative-annotation-server/internal/errors"
	"context"
	defError "errors"

	"gorm.io/gorm"
)

// StatsInvalidator lets annotation writes tell the statistics engine that a
// project's numbers changed
type StatsInvalidator interface {
	InvalidateProject(projectID uint64)
}

// CreateInput carries the variant-specific fields of a new annotation; the
// project type decides which ones are read.
type CreateInput struct {
	LabelID     uint64
	StartOffset int
	EndOffset   int
	Text        string
}

type Service interface {
	List(ctx context.Context, project *domain.Project, docID, userID uint64) (any, error)
	Create(ctx context.Context, project *domain.Project, docID, userID uint64, input CreateInput) (any, error)
	Delete(ctx context.Context, project *domain.Project, docID, annotationID, userID uint64, isAdmin bool) error
}

type DefaultService struct {
	repository AnnotationRepository
	stats      StatsInvalidator
}

func NewService(repository AnnotationRepository, stats StatsInvalidator) Service {
	return &DefaultService{repository: repository, stats: stats}
}

// List returns a document's annotations. In non-collaborative projects each
// user only sees their own annotation set.
func (s *DefaultService) List(ctx context.Context, project *domain.Project, docID, userID uint64) (any, error) {
	scope := s.scope(project, userID)

	switch project.ProjectType {
	case domain.ProjectTypeClassification:
		return s.repository.ListClassifications(ctx, docID, scope)
	case domain.ProjectTypeSequenceLabeling:
		return s.repository.ListSpans(ctx, docID, scope)
	case domain.ProjectTypeSeq2seq:
		return s.repository.ListSeq2seqs(ctx, docID, scope)
	}
	return nil, errors.BadRequest("Unknown project type", nil)
}

// Create adds an annotation authored by userID. For single-class
// classification projects the guard rejects a second annotation in scope;
// the database unique index on (document, user, label) is the authoritative
// backstop against a concurrent writer racing the pre-check.
func (s *DefaultService) Create(ctx context.Context, project *domain.Project, docID, userID uint64, input CreateInput) (any, error) {
	switch project.ProjectType {
	case domain.ProjectTypeClassification:
		if input.LabelID == 0 {
			return nil, errors.BadRequest("Label is required", nil)
		}
		if err := s.checkSingleClass(ctx, project, docID, userID); err != nil {
			return nil, err
		}

		a := &domain.DocumentAnnotation{DocumentID: docID, UserID: userID, LabelID: input.LabelID}
		if err := s.repository.CreateClassification(ctx, a); err != nil {
			if defError.Is(err, gorm.ErrDuplicatedKey) {
				return nil, errors.Conflict("Annotation already exists", err)
			}
			return nil, err
		}
		s.invalidate(project.ID)
		return a, nil

	case domain.ProjectTypeSequenceLabeling:
		if input.LabelID == 0 {
			return nil, errors.BadRequest("Label is required", nil)
		}
		if input.StartOffset < 0 || input.EndOffset <= input.StartOffset {
			return nil, errors.BadRequest("Span offsets out of order", nil)
		}
		a := &domain.SequenceAnnotation{
			DocumentID:  docID,
			UserID:      userID,
			LabelID:     input.LabelID,
			StartOffset: input.StartOffset,
			EndOffset:   input.EndOffset,
		}
		if err := s.repository.CreateSpan(ctx, a); err != nil {
			return nil, err
		}
		s.invalidate(project.ID)
		return a, nil

	case domain.ProjectTypeSeq2seq:
		if input.Text == "" {
			return nil, errors.BadRequest("Annotation text cannot be empty", nil)
		}
		a := &domain.Seq2seqAnnotation{DocumentID: docID, UserID: userID, Text: input.Text}
		if err := s.repository.CreateSeq2seq(ctx, a); err != nil {
			return nil, err
		}
		s.invalidate(project.ID)
		return a, nil
	}

	return nil, errors.BadRequest("Unknown project type", nil)
}

// Delete removes an annotation. Outside collaborative projects only the
// author may delete; project admins always may.
func (s *DefaultService) Delete(ctx context.Context, project *domain.Project, docID, annotationID, userID uint64, isAdmin bool) error {
	author, err := s.repository.AuthorOf(ctx, project.ProjectType, annotationID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound("Annotation not found", err)
		}
		return err
	}

	if !isAdmin && !project.CollaborativeAnnotation && author != userID {
		return errors.Forbidden("You can only delete your own annotations", nil)
	}

	if err := s.repository.Delete(ctx, project.ProjectType, docID, annotationID); err != nil {
		return err
	}
	s.invalidate(project.ID)
	return nil
}

// checkSingleClass is the fast-path guard: scope is the whole document when
// the project is collaborative, otherwise document+user
func (s *DefaultService) checkSingleClass(ctx context.Context, project *domain.Project, docID, userID uint64) error {
	if !project.SingleClassClassification {
		return nil
	}

	scope := &userID
	if project.CollaborativeAnnotation {
		scope = nil
	}

	count, err := s.repository.CountClassificationsInScope(ctx, docID, scope)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.DuplicateClassification()
	}
	return nil
}

func (s *DefaultService) scope(project *domain.Project, userID uint64) *uint64 {
	if project.CollaborativeAnnotation {
		return nil
	}
	return &userID
}

func (s *DefaultService) invalidate(projectID uint64) {
	if s.stats != nil {
		s.stats.InvalidateProject(projectID)
	}
}
