package upload

import (
	"collaborative-annotation-server/internal/errors"
	"io"
)

// Supported import formats. The set is closed; anything else is rejected
// before any bytes are read.
const (
	FormatPlain = "plain"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatCoNLL = "conll"
	FormatExcel = "excel"
	FormatAudio = "audio"
)

// Parser converts raw upload bytes into a lazy sequence of records
type Parser interface {
	Parse(input io.Reader) (*RecordReader, error)
}

// SelectParser picks the parser for a declared format token
func SelectParser(format string) (Parser, error) {
	switch format {
	case FormatPlain:
		return &PlainTextParser{}, nil
	case FormatCSV:
		return &CSVParser{}, nil
	case FormatJSON:
		return &JSONParser{}, nil
	case FormatCoNLL:
		return &CoNLLParser{}, nil
	case FormatExcel:
		return &ExcelParser{}, nil
	case FormatAudio:
		return &AudioParser{}, nil
	default:
		return nil, errors.UnsupportedFormat(format)
	}
}
