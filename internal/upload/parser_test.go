package upload

import (
	apiError "collaborative-annotation-server/internal/errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain consumes a record stream until EOF or the first error
func drain(t *testing.T, reader *RecordReader) ([]*Record, error) {
	t.Helper()
	var records []*Record
	for {
		record, err := reader.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

func TestSelectParserUnknownFormat(t *testing.T) {
	_, err := SelectParser("xml")
	require.Error(t, err)
	assert.True(t, apiError.Is(err, apiError.KindUnsupportedFormat))
}

func TestPlainTextParser(t *testing.T) {
	parser := &PlainTextParser{}
	reader, err := parser.Parse(strings.NewReader("first line\n\nsecond line\n"))
	require.NoError(t, err)

	records, err := drain(t, reader)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "first line", records[0].Text)
	assert.Equal(t, "second line", records[1].Text)
}

func TestCSVParser(t *testing.T) {
	input := "text,label\nhello world,greeting\nplain text only\n"
	parser := &CSVParser{}
	reader, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)

	records, err := drain(t, reader)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "hello world", records[0].Text)
	assert.Equal(t, []string{"greeting"}, records[0].Classes)
	assert.Equal(t, "greeting", records[0].Target)

	assert.Equal(t, "plain text only", records[1].Text)
	assert.Empty(t, records[1].Classes)
}

func TestCSVParserQuotedDelimiter(t *testing.T) {
	input := "\"text, with a comma\",label\n"
	parser := &CSVParser{}
	reader, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)

	records, err := drain(t, reader)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "text, with a comma", records[0].Text)
}

func TestCSVParserTooManyColumns(t *testing.T) {
	input := "a,b,c\n"
	parser := &CSVParser{}
	reader, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)

	_, err = drain(t, reader)
	require.Error(t, err)
	assert.True(t, apiError.Is(err, apiError.KindFormat))
}

func TestCoNLLParser(t *testing.T) {
	input := strings.Join([]string{
		"Barack B-PER",
		"Obama I-PER",
		"visited O",
		"Paris B-LOC",
		"",
		"Nothing O",
		"here O",
		"",
	}, "\n")

	parser := &CoNLLParser{}
	reader, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)

	records, err := drain(t, reader)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "Barack Obama visited Paris", first.Text)
	require.Len(t, first.Spans, 2)

	// offsets index into the joined text
	assert.Equal(t, SpanLabel{StartOffset: 0, EndOffset: 12, Label: "PER"}, first.Spans[0])
	assert.Equal(t, "Barack Obama", first.Text[first.Spans[0].StartOffset:first.Spans[0].EndOffset])
	assert.Equal(t, "Paris", first.Text[first.Spans[1].StartOffset:first.Spans[1].EndOffset])
	assert.Equal(t, "LOC", first.Spans[1].Label)

	assert.Empty(t, records[1].Spans)
}

func TestCoNLLParserMismatchedColumns(t *testing.T) {
	input := "Barack B-PER\nObama\n"
	parser := &CoNLLParser{}
	reader, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)

	_, err = drain(t, reader)
	require.Error(t, err)
	assert.True(t, apiError.Is(err, apiError.KindFormat))

	var apiErr *apiError.APIError
	require.ErrorAs(t, err, &apiErr)
	require.NotNil(t, apiErr.Record)
	assert.Equal(t, 0, *apiErr.Record)
}

func TestJSONParserArray(t *testing.T) {
	input := `[
		{"text": "good movie", "labels": ["positive"]},
		{"text": "Barack Obama", "labels": [[0, 12, "PER"]]}
	]`

	parser := &JSONParser{}
	reader, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)

	records, err := drain(t, reader)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"positive"}, records[0].Classes)
	require.Len(t, records[1].Spans, 1)
	assert.Equal(t, SpanLabel{StartOffset: 0, EndOffset: 12, Label: "PER"}, records[1].Spans[0])
}

func TestJSONParserLines(t *testing.T) {
	input := "{\"text\": \"one\", \"target\": \"uno\"}\n{\"text\": \"two\"}\n"

	parser := &JSONParser{}
	reader, err := parser.Parse(strings.NewReader(input))
	require.NoError(t, err)

	records, err := drain(t, reader)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "uno", records[0].Target)
}

func TestJSONParserMissingText(t *testing.T) {
	parser := &JSONParser{}
	reader, err := parser.Parse(strings.NewReader(`[{"labels": ["x"]}]`))
	require.NoError(t, err)

	_, err = drain(t, reader)
	require.Error(t, err)
	assert.True(t, apiError.Is(err, apiError.KindFormat))
}

func TestJSONParserBadSpanOffsets(t *testing.T) {
	parser := &JSONParser{}
	reader, err := parser.Parse(strings.NewReader(`[{"text": "abc", "labels": [[5, 2, "X"]]}]`))
	require.NoError(t, err)

	_, err = drain(t, reader)
	require.Error(t, err)
	assert.True(t, apiError.Is(err, apiError.KindFormat))
}
