package upload

import (
	"collaborative-annotation-server/internal/domain"
	apiError "collaborative-annotation-server/internal/errors"
	"context"
	"io"
	"time"
)

// StatsInvalidator lets the coordinator tell the statistics engine that a
// project's numbers changed
type StatsInvalidator interface {
	InvalidateProject(projectID uint64)
}

// ImportOptions selects the storage policy for records whose text already
// exists in the project: append keeps the existing annotations, overwrite
// replaces them with the batch's.
type ImportOptions struct {
	Overwrite bool
}

type Service interface {
	ImportFile(ctx context.Context, project *domain.Project, format string, file io.Reader, userID uint64, opts ImportOptions) (int, error)
}

// DefaultService is the import coordinator: it selects a parser, consumes
// the record stream and persists documents plus seed annotations in one
// all-or-nothing transaction.
type DefaultService struct {
	repository ImportRepository
	stats      StatsInvalidator
}

func NewService(repository ImportRepository, stats StatsInvalidator) Service {
	return &DefaultService{repository: repository, stats: stats}
}

// ImportFile imports an uploaded file into a project and returns the number
// of documents created. The format token is validated before any bytes are
// read; any malformed record or unknown label aborts the whole batch.
func (s *DefaultService) ImportFile(ctx context.Context, project *domain.Project, format string, file io.Reader, userID uint64, opts ImportOptions) (int, error) {
	parser, err := SelectParser(format)
	if err != nil {
		return 0, err
	}

	records, err := parser.Parse(file)
	if err != nil {
		return 0, err
	}

	created, err := s.importRecords(ctx, project, records, userID, opts)
	if err != nil {
		return 0, err
	}

	if s.stats != nil {
		s.stats.InvalidateProject(project.ID)
	}
	return created, nil
}

func (s *DefaultService) importRecords(ctx context.Context, project *domain.Project, records *RecordReader, userID uint64, opts ImportOptions) (int, error) {
	created := 0

	err := s.repository.Transaction(ctx, func(tx ImportRepository) error {
		labelIDs, err := tx.ProjectLabelIDs(ctx, project.ID)
		if err != nil {
			return err
		}

		// explicit timestamps keep insertion order observable even when
		// rows land within the same clock tick
		base := time.Now().UTC()

		for i := 0; ; i++ {
			record, err := records.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}

			doc, err := tx.FindDocumentByText(ctx, project.ID, record.Text)
			if err != nil {
				return err
			}
			if doc != nil && opts.Overwrite {
				if err := tx.DeleteDocumentAnnotations(ctx, project.ProjectType, doc.ID); err != nil {
					return err
				}
			}
			if doc == nil {
				stamp := base.Add(time.Duration(i) * time.Microsecond)
				doc = &domain.Document{
					ProjectID: project.ID,
					Text:      record.Text,
					Meta:      "{}",
					CreatedAt: stamp,
					UpdatedAt: stamp,
				}
				if err := tx.CreateDocument(ctx, doc); err != nil {
					return err
				}
				created++
			}

			if err := s.seedAnnotations(ctx, tx, project, doc, record, labelIDs, userID); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return 0, err
	}
	return created, nil
}

// seedAnnotations attaches the record's labels to the document, authored by
// the importing user. The variant is decided once by the project type.
func (s *DefaultService) seedAnnotations(ctx context.Context, tx ImportRepository, project *domain.Project, doc *domain.Document, record *Record, labelIDs map[string]uint64, userID uint64) error {
	resolve := func(name string) (uint64, error) {
		id, ok := labelIDs[name]
		if !ok {
			return 0, apiError.UnknownLabel(name)
		}
		return id, nil
	}

	switch project.ProjectType {
	case domain.ProjectTypeClassification:
		for _, name := range record.Classes {
			labelID, err := resolve(name)
			if err != nil {
				return err
			}

			if project.SingleClassClassification {
				scope := &userID
				if project.CollaborativeAnnotation {
					scope = nil
				}
				count, err := tx.CountClassificationsInScope(ctx, doc.ID, scope)
				if err != nil {
					return err
				}
				if count > 0 {
					return apiError.DuplicateClassification()
				}
			}

			if err := tx.CreateClassification(ctx, &domain.DocumentAnnotation{
				DocumentID: doc.ID,
				UserID:     userID,
				LabelID:    labelID,
				CreatedAt:  doc.CreatedAt,
				UpdatedAt:  doc.CreatedAt,
			}); err != nil {
				return err
			}
		}

	case domain.ProjectTypeSequenceLabeling:
		for _, span := range record.Spans {
			labelID, err := resolve(span.Label)
			if err != nil {
				return err
			}
			if err := tx.CreateSpan(ctx, &domain.SequenceAnnotation{
				DocumentID:  doc.ID,
				UserID:      userID,
				LabelID:     labelID,
				StartOffset: span.StartOffset,
				EndOffset:   span.EndOffset,
				CreatedAt:   doc.CreatedAt,
				UpdatedAt:   doc.CreatedAt,
			}); err != nil {
				return err
			}
		}

	case domain.ProjectTypeSeq2seq:
		if record.Target != "" {
			if err := tx.CreateSeq2seq(ctx, &domain.Seq2seqAnnotation{
				DocumentID: doc.ID,
				UserID:     userID,
				Text:       record.Target,
				CreatedAt:  doc.CreatedAt,
				UpdatedAt:  doc.CreatedAt,
			}); err != nil {
				return err
			}
		}
	}

	return nil
}
