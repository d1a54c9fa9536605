package upload

import (
	"encoding/base64"
	"io"
)

// AudioParser treats the upload as an opaque binary blob: the whole file
// becomes one document with base64 content and no label extraction.
type AudioParser struct{}

func (p *AudioParser) Parse(input io.Reader) (*RecordReader, error) {
	done := false

	return NewRecordReader(func() (*Record, error) {
		if done {
			return nil, io.EOF
		}
		done = true

		encoder := base64.StdEncoding
		raw, err := io.ReadAll(input)
		if err != nil {
			return nil, err
		}

		return &Record{Text: encoder.EncodeToString(raw)}, nil
	}), nil
}
