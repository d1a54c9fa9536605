package upload

import (
	"bufio"
	apiError "collaborative-annotation-server/internal/errors"
	"io"
	"strings"
)

// CoNLLParser reads token/tag pairs, one per line, with blank lines
// separating sentences. Each sentence becomes one record: the text is the
// tokens joined by spaces and the IOB2 tags become spans over that text.
// A line whose field count is not exactly two aborts the import with a
// format error naming the sentence index.
type CoNLLParser struct{}

func (p *CoNLLParser) Parse(input io.Reader) (*RecordReader, error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	index := 0
	done := false

	return NewRecordReader(func() (*Record, error) {
		if done {
			return nil, io.EOF
		}

		var words, tags []string
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				if len(words) == 0 {
					continue // repeated blank lines
				}
				record, err := conllSentence(index, words, tags)
				if err != nil {
					return nil, err
				}
				index++
				return record, nil
			}

			fields := strings.Fields(line)
			if len(fields) != 2 {
				return nil, apiError.Format(index, "expected token and tag", nil)
			}
			words = append(words, fields[0])
			tags = append(tags, fields[1])
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}

		done = true
		if len(words) == 0 {
			return nil, io.EOF
		}
		record, err := conllSentence(index, words, tags)
		if err != nil {
			return nil, err
		}
		index++
		return record, nil
	}), nil
}

// conllSentence joins the tokens into text and converts IOB2 tags into
// character-offset spans
func conllSentence(index int, words, tags []string) (*Record, error) {
	record := &Record{Text: strings.Join(words, " ")}

	offset := 0
	openStart := -1
	openLabel := ""

	flush := func(end int) {
		if openStart >= 0 {
			record.Spans = append(record.Spans, SpanLabel{
				StartOffset: openStart,
				EndOffset:   end,
				Label:       openLabel,
			})
			openStart = -1
		}
	}

	for i, word := range words {
		tag := tags[i]
		start := offset
		end := offset + len(word)

		switch {
		case tag == "O":
			flush(start - 1)
		case strings.HasPrefix(tag, "B-"):
			flush(start - 1)
			openStart = start
			openLabel = tag[2:]
		case strings.HasPrefix(tag, "I-"):
			// an I- tag without a matching open entity starts a new one
			if openStart < 0 || openLabel != tag[2:] {
				flush(start - 1)
				openStart = start
				openLabel = tag[2:]
			}
		default:
			return nil, apiError.Format(index, "tag must be O, B-<label> or I-<label>", nil)
		}

		offset = end + 1 // account for the joining space
	}
	flush(offset - 1)

	return record, nil
}
