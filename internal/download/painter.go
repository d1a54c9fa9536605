package download

import (
	"collaborative-annotation-server/internal/domain"
	apiError "collaborative-annotation-server/internal/errors"
	"io"
)

// Export format tokens
const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatJSON1 = "json1"
)

// AnnotatedDocument bundles a document with the annotation slice matching
// the project's type. Only one of the three slices is ever populated.
type AnnotatedDocument struct {
	Document        domain.Document
	Classifications []domain.DocumentAnnotation
	Spans           []domain.SequenceAnnotation
	Seq2seqs        []domain.Seq2seqAnnotation
}

// DocumentReader is a lazy, single-pass sequence of annotated documents in
// insertion (ID) order. Next returns io.EOF at the end. Painters consume it
// one document at a time so a large project never sits in memory.
type DocumentReader struct {
	next func() (*AnnotatedDocument, error)
}

func NewDocumentReader(next func() (*AnnotatedDocument, error)) *DocumentReader {
	return &DocumentReader{next: next}
}

func (r *DocumentReader) Next() (*AnnotatedDocument, error) {
	return r.next()
}

// Painter renders annotated documents into an external format, streaming one
// document at a time to w.
type Painter interface {
	Paint(w io.Writer, docs *DocumentReader) error
}

// SelectPainter maps a format token to its painter. labels resolves label IDs
// to project-scoped names; only json1 and csv need it.
func SelectPainter(format string, labels map[uint64]string) (Painter, error) {
	switch format {
	case FormatCSV:
		return &CSVPainter{labels: labels}, nil
	case FormatJSON:
		return &JSONPainter{}, nil
	case FormatJSON1:
		return &JSON1Painter{labels: labels}, nil
	}
	return nil, apiError.UnsupportedFormat(format)
}

// ContentType returns the response content type for a format token
func ContentType(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/x-ndjson"
}
