package upload

import (
	"bufio"
	apiError "collaborative-annotation-server/internal/errors"
	"encoding/json"
	"io"
)

// JSONParser accepts either a JSON array of objects or newline-delimited
// JSON objects. Each object carries "text" plus optional "labels": label
// names as strings (classification) or [start, end, name] triples (sequence
// labeling); "target" seeds seq2seq annotations. This is the same shape the
// json1 painter emits, so an exported project re-imports cleanly.
type JSONParser struct{}

type jsonRecord struct {
	Text   string            `json:"text"`
	Labels []json.RawMessage `json:"labels"`
	Target string            `json:"target"`
	Meta   map[string]any    `json:"meta"`
}

func (p *JSONParser) Parse(input io.Reader) (*RecordReader, error) {
	buffered := bufio.NewReader(input)
	arrayMode, err := startsWithArray(buffered)
	if err != nil {
		return nil, apiError.Format(0, "input is not JSON", err)
	}

	decoder := json.NewDecoder(buffered)
	if arrayMode {
		if _, err := decoder.Token(); err != nil { // consume '['
			return nil, apiError.Format(0, "input is not a JSON array", err)
		}
	}

	index := 0
	return NewRecordReader(func() (*Record, error) {
		if arrayMode && !decoder.More() {
			return nil, io.EOF
		}

		var raw jsonRecord
		if err := decoder.Decode(&raw); err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, apiError.Format(index, "invalid JSON object", err)
		}

		record, err := jsonToRecord(index, &raw)
		if err != nil {
			return nil, err
		}
		index++
		return record, nil
	}), nil
}

// startsWithArray peeks past leading whitespace for a '['
func startsWithArray(r *bufio.Reader) (bool, error) {
	for {
		b, err := r.Peek(1)
		if err != nil {
			return false, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			if _, err := r.ReadByte(); err != nil {
				return false, err
			}
		case '[':
			return true, nil
		default:
			return false, nil
		}
	}
}

func jsonToRecord(index int, raw *jsonRecord) (*Record, error) {
	if raw.Text == "" {
		return nil, apiError.Format(index, "object has no text field", nil)
	}

	record := &Record{Text: raw.Text, Target: raw.Target, Meta: raw.Meta}

	for _, rawLabel := range raw.Labels {
		// a label entry is either a bare name or a [start, end, name] triple
		var name string
		if err := json.Unmarshal(rawLabel, &name); err == nil {
			record.Classes = append(record.Classes, name)
			continue
		}

		var triple []json.RawMessage
		if err := json.Unmarshal(rawLabel, &triple); err != nil || len(triple) != 3 {
			return nil, apiError.Format(index, "label entry must be a name or a [start, end, name] triple", err)
		}

		var start, end int
		if err := json.Unmarshal(triple[0], &start); err != nil {
			return nil, apiError.Format(index, "span start offset must be an integer", err)
		}
		if err := json.Unmarshal(triple[1], &end); err != nil {
			return nil, apiError.Format(index, "span end offset must be an integer", err)
		}
		if err := json.Unmarshal(triple[2], &name); err != nil {
			return nil, apiError.Format(index, "span label name must be a string", err)
		}
		if start < 0 || end < start {
			return nil, apiError.Format(index, "span offsets out of order", nil)
		}

		record.Spans = append(record.Spans, SpanLabel{StartOffset: start, EndOffset: end, Label: name})
	}

	return record, nil
}
