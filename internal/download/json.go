package download

import (
	"encoding/json"
	"io"
	"strconv"
)

// JSONPainter emits one JSON object per line with annotations referencing
// labels by numeric ID.
type JSONPainter struct{}

type jsonAnnotation struct {
	Label       uint64 `json:"label,omitempty"`
	StartOffset *int   `json:"start_offset,omitempty"`
	EndOffset   *int   `json:"end_offset,omitempty"`
	Text        string `json:"text,omitempty"`
	User        uint64 `json:"user"`
}

type jsonDocument struct {
	ID          uint64           `json:"id"`
	Text        string           `json:"text"`
	Annotations []jsonAnnotation `json:"annotations"`
	Meta        json.RawMessage  `json:"meta,omitempty"`
}

func (p *JSONPainter) Paint(w io.Writer, docs *DocumentReader) error {
	encoder := json.NewEncoder(w)
	for {
		doc, err := docs.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := encoder.Encode(paintJSON(doc)); err != nil {
			return err
		}
	}
}

func paintJSON(doc *AnnotatedDocument) jsonDocument {
	out := jsonDocument{
		ID:          doc.Document.ID,
		Text:        doc.Document.Text,
		Annotations: []jsonAnnotation{},
		Meta:        metaJSON(doc.Document.Meta),
	}

	for _, a := range doc.Classifications {
		out.Annotations = append(out.Annotations, jsonAnnotation{Label: a.LabelID, User: a.UserID})
	}
	for _, a := range doc.Spans {
		start, end := a.StartOffset, a.EndOffset
		out.Annotations = append(out.Annotations, jsonAnnotation{
			Label:       a.LabelID,
			StartOffset: &start,
			EndOffset:   &end,
			User:        a.UserID,
		})
	}
	for _, a := range doc.Seq2seqs {
		out.Annotations = append(out.Annotations, jsonAnnotation{Text: a.Text, User: a.UserID})
	}
	return out
}

// JSON1Painter emits the label-name variant: classification annotations
// become bare label names, spans become [start, end, name] triples. The same
// shape the JSON parser accepts, so an export re-imports cleanly.
type JSON1Painter struct {
	labels map[uint64]string
}

type json1Document struct {
	ID     uint64          `json:"id"`
	Text   string          `json:"text"`
	Labels []any           `json:"labels"`
	Target string          `json:"target,omitempty"`
	Meta   json.RawMessage `json:"meta,omitempty"`
}

func (p *JSON1Painter) Paint(w io.Writer, docs *DocumentReader) error {
	encoder := json.NewEncoder(w)
	for {
		doc, err := docs.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := encoder.Encode(p.paint(doc)); err != nil {
			return err
		}
	}
}

func (p *JSON1Painter) paint(doc *AnnotatedDocument) json1Document {
	out := json1Document{
		ID:     doc.Document.ID,
		Text:   doc.Document.Text,
		Labels: []any{},
		Meta:   metaJSON(doc.Document.Meta),
	}

	for _, a := range doc.Classifications {
		out.Labels = append(out.Labels, p.labelName(a.LabelID))
	}
	for _, a := range doc.Spans {
		out.Labels = append(out.Labels, []any{a.StartOffset, a.EndOffset, p.labelName(a.LabelID)})
	}
	for _, a := range doc.Seq2seqs {
		// seq2seq carries free text, not a label; the last annotation wins,
		// matching the single-target import shape
		out.Target = a.Text
	}
	return out
}

// labelName resolves a label ID to its name. A label deleted after the
// annotation was made renders as its numeric ID.
func (p *JSON1Painter) labelName(id uint64) string {
	if name, ok := p.labels[id]; ok {
		return name
	}
	return strconv.FormatUint(id, 10)
}

// metaJSON passes document metadata through untouched when it is valid JSON
func metaJSON(meta string) json.RawMessage {
	if meta == "" || meta == "{}" || !json.Valid([]byte(meta)) {
		return nil
	}
	return json.RawMessage(meta)
}
