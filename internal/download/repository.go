package download

import (
	"collaborative-annotation-server/internal/domain"
	"context"
	"io"

	"gorm.io/gorm"
)

const exportBatchSize = 200

// ExportRepository streams a project's annotated documents in ID order.
type ExportRepository interface {
	LabelNames(ctx context.Context, projectID uint64) (map[uint64]string, error)
	Stream(ctx context.Context, project *domain.Project) *DocumentReader
}

type ExportRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new export repository
func NewRepository(db *gorm.DB) ExportRepository {
	return &ExportRepositoryImpl{db: db}
}

func (r *ExportRepositoryImpl) LabelNames(ctx context.Context, projectID uint64) (map[uint64]string, error) {
	var labels []domain.Label
	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Find(&labels).Error; err != nil {
		return nil, err
	}

	names := make(map[uint64]string, len(labels))
	for _, label := range labels {
		names[label.ID] = label.Text
	}
	return names, nil
}

// Stream returns a lazy reader over the project's documents in insertion
// order, fetched in fixed-size batches keyed off the last seen ID. The
// project's randomized presentation order never applies to export.
func (r *ExportRepositoryImpl) Stream(ctx context.Context, project *domain.Project) *DocumentReader {
	var (
		buffer []AnnotatedDocument
		pos    int
		lastID uint64
		done   bool
	)

	return NewDocumentReader(func() (*AnnotatedDocument, error) {
		for pos >= len(buffer) {
			if done {
				return nil, io.EOF
			}

			batch, err := r.nextBatch(ctx, project, lastID)
			if err != nil {
				return nil, err
			}
			if len(batch) == 0 {
				done = true
				return nil, io.EOF
			}
			if len(batch) < exportBatchSize {
				done = true
			}

			buffer = batch
			pos = 0
			lastID = batch[len(batch)-1].Document.ID
		}

		doc := &buffer[pos]
		pos++
		return doc, nil
	})
}

func (r *ExportRepositoryImpl) nextBatch(ctx context.Context, project *domain.Project, afterID uint64) ([]AnnotatedDocument, error) {
	var docs []domain.Document
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND id > ?", project.ID, afterID).
		Order("id").
		Limit(exportBatchSize).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	docIDs := make([]uint64, len(docs))
	index := make(map[uint64]int, len(docs))
	batch := make([]AnnotatedDocument, len(docs))
	for i, doc := range docs {
		docIDs[i] = doc.ID
		index[doc.ID] = i
		batch[i] = AnnotatedDocument{Document: doc}
	}

	switch project.ProjectType {
	case domain.ProjectTypeClassification:
		var annotations []domain.DocumentAnnotation
		if err := r.annotationsFor(ctx, docIDs, &annotations); err != nil {
			return nil, err
		}
		for _, a := range annotations {
			i := index[a.DocumentID]
			batch[i].Classifications = append(batch[i].Classifications, a)
		}
	case domain.ProjectTypeSequenceLabeling:
		var annotations []domain.SequenceAnnotation
		if err := r.annotationsFor(ctx, docIDs, &annotations); err != nil {
			return nil, err
		}
		for _, a := range annotations {
			i := index[a.DocumentID]
			batch[i].Spans = append(batch[i].Spans, a)
		}
	case domain.ProjectTypeSeq2seq:
		var annotations []domain.Seq2seqAnnotation
		if err := r.annotationsFor(ctx, docIDs, &annotations); err != nil {
			return nil, err
		}
		for _, a := range annotations {
			i := index[a.DocumentID]
			batch[i].Seq2seqs = append(batch[i].Seq2seqs, a)
		}
	}

	return batch, nil
}

func (r *ExportRepositoryImpl) annotationsFor(ctx context.Context, docIDs []uint64, dest any) error {
	return r.db.WithContext(ctx).
		Where("document_id IN ?", docIDs).
		Order("document_id, id").
		Find(dest).Error
}
