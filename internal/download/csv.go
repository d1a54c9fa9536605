package download

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

// CSVPainter writes one row per document: id, text, rendered annotations,
// meta. Annotations are rendered as a compact JSON array inside the cell so
// label text containing commas or quotes survives the CSV quoting intact.
type CSVPainter struct {
	labels map[uint64]string
}

func (p *CSVPainter) Paint(w io.Writer, docs *DocumentReader) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"id", "text", "annotations", "meta"}); err != nil {
		return err
	}

	for {
		doc, err := docs.Next()
		if err == io.EOF {
			writer.Flush()
			return writer.Error()
		}
		if err != nil {
			return err
		}

		rendered, err := p.renderAnnotations(doc)
		if err != nil {
			return err
		}

		row := []string{
			strconv.FormatUint(doc.Document.ID, 10),
			doc.Document.Text,
			rendered,
			doc.Document.Meta,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
}

func (p *CSVPainter) renderAnnotations(doc *AnnotatedDocument) (string, error) {
	entries := []any{}

	for _, a := range doc.Classifications {
		entries = append(entries, p.labelName(a.LabelID))
	}
	for _, a := range doc.Spans {
		entries = append(entries, []any{a.StartOffset, a.EndOffset, p.labelName(a.LabelID)})
	}
	for _, a := range doc.Seq2seqs {
		entries = append(entries, a.Text)
	}

	rendered, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(rendered), nil
}

func (p *CSVPainter) labelName(id uint64) string {
	if name, ok := p.labels[id]; ok {
		return name
	}
	return strconv.FormatUint(id, 10)
}
