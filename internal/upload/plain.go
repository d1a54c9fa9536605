package upload

import (
	"bufio"
	"io"
	"strings"
)

// PlainTextParser yields one document per non-empty line
type PlainTextParser struct{}

func (p *PlainTextParser) Parse(input io.Reader) (*RecordReader, error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return NewRecordReader(func() (*Record, error) {
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			return &Record{Text: text}, nil
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}), nil
}
