package domain

import (
	"time"
)

// DocumentAnnotation is the classification variant: a single label on a
// whole document. The unique index backs the single-class guard so a
// concurrent duplicate insert is rejected by the database.
type DocumentAnnotation struct {
	ID         uint64
	DocumentID uint64 `gorm:"uniqueIndex:idx_doc_annotation_scope;constraint:OnDelete:CASCADE"`
	UserID     uint64 `gorm:"uniqueIndex:idx_doc_annotation_scope"`
	LabelID    uint64 `gorm:"uniqueIndex:idx_doc_annotation_scope"`
	Label      Label
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SequenceAnnotation is the span variant: a label over a [start, end)
// character range of the document text.
type SequenceAnnotation struct {
	ID          uint64
	DocumentID  uint64 `gorm:"index;constraint:OnDelete:CASCADE"`
	UserID      uint64 `gorm:"index"`
	LabelID     uint64
	Label       Label
	StartOffset int
	EndOffset   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Seq2seqAnnotation is the sequence-to-sequence variant: free target text,
// no label reference.
type Seq2seqAnnotation struct {
	ID         uint64
	DocumentID uint64 `gorm:"index;constraint:OnDelete:CASCADE"`
	UserID     uint64 `gorm:"index"`
	Text       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AnnotationTable returns the table name backing a project type's
// annotation variant.
func AnnotationTable(projectType string) string {
	switch projectType {
	case ProjectTypeClassification:
		return "document_annotations"
	case ProjectTypeSequenceLabeling:
		return "sequence_annotations"
	case ProjectTypeSeq2seq:
		return "seq2seq_annotations"
	}
	return ""
}
