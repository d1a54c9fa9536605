package upload

import (
	apiError "collaborative-annotation-server/internal/errors"
	"encoding/csv"
	"io"
	"strings"
)

// CSVParser reads rows of the shape `text` or `text,label`. A leading
// header row naming the columns is skipped. Any other arity is a format
// error carrying the offending record index.
type CSVParser struct{}

func (p *CSVParser) Parse(input io.Reader) (*RecordReader, error) {
	reader := csv.NewReader(input)
	reader.FieldsPerRecord = -1 // arity is validated per row

	index := 0
	sawHeader := false

	return NewRecordReader(func() (*Record, error) {
		for {
			row, err := reader.Read()
			if err == io.EOF {
				return nil, io.EOF
			}
			if err != nil {
				return nil, apiError.Format(index, "invalid CSV row", err)
			}

			// skip a header row like "text" or "text,label"
			if !sawHeader {
				sawHeader = true
				if strings.EqualFold(strings.TrimSpace(row[0]), "text") {
					continue
				}
			}

			record, err := csvRowToRecord(index, row)
			if err != nil {
				return nil, err
			}
			index++
			if record == nil {
				continue // blank row
			}
			return record, nil
		}
	}), nil
}

func csvRowToRecord(index int, row []string) (*Record, error) {
	switch len(row) {
	case 1:
		text := strings.TrimSpace(row[0])
		if text == "" {
			return nil, nil
		}
		return &Record{Text: text}, nil
	case 2:
		text := strings.TrimSpace(row[0])
		label := strings.TrimSpace(row[1])
		if text == "" && label == "" {
			return nil, nil
		}
		if text == "" {
			return nil, apiError.Format(index, "text column is empty", nil)
		}
		record := &Record{Text: text}
		if label != "" {
			record.Classes = []string{label}
			record.Target = label // consumed only by seq2seq projects
		}
		return record, nil
	default:
		return nil, apiError.Format(index, "expected 1 or 2 columns", nil)
	}
}
