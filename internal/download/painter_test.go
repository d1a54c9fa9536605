package download

import (
	"bytes"
	"collaborative-annotation-server/internal/domain"
	apiError "collaborative-annotation-server/internal/errors"
	"collaborative-annotation-server/internal/upload"
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readerOf(docs ...AnnotatedDocument) *DocumentReader {
	i := 0
	return NewDocumentReader(func() (*AnnotatedDocument, error) {
		if i >= len(docs) {
			return nil, io.EOF
		}
		doc := &docs[i]
		i++
		return doc, nil
	})
}

func TestSelectPainterUnknownFormat(t *testing.T) {
	_, err := SelectPainter("xml", nil)
	require.Error(t, err)
	assert.True(t, apiError.Is(err, apiError.KindUnsupportedFormat))
}

func TestJSON1PainterSpans(t *testing.T) {
	painter := &JSON1Painter{labels: map[uint64]string{5: "PERSON"}}
	doc := AnnotatedDocument{
		Document: domain.Document{ID: 1, Text: "Barack G. Obama", Meta: "{}"},
		Spans: []domain.SequenceAnnotation{
			{LabelID: 5, StartOffset: 0, EndOffset: 15, UserID: 7},
		},
	}

	var buffer bytes.Buffer
	require.NoError(t, painter.Paint(&buffer, readerOf(doc)))

	var painted struct {
		Text   string          `json:"text"`
		Labels [][]interface{} `json:"labels"`
	}
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &painted))

	assert.Equal(t, "Barack G. Obama", painted.Text)
	require.Len(t, painted.Labels, 1)
	assert.Equal(t, float64(0), painted.Labels[0][0])
	assert.Equal(t, float64(15), painted.Labels[0][1])
	assert.Equal(t, "PERSON", painted.Labels[0][2])
}

// a label deleted after annotation renders as its numeric ID
func TestJSON1PainterMissingLabelFallsBackToID(t *testing.T) {
	painter := &JSON1Painter{labels: map[uint64]string{}}
	doc := AnnotatedDocument{
		Document:        domain.Document{ID: 1, Text: "good movie"},
		Classifications: []domain.DocumentAnnotation{{LabelID: 42, UserID: 7}},
	}

	var buffer bytes.Buffer
	require.NoError(t, painter.Paint(&buffer, readerOf(doc)))
	assert.Contains(t, buffer.String(), `"labels":["42"]`)
}

func TestJSONPainterNumericLabelRefs(t *testing.T) {
	painter := &JSONPainter{}
	doc := AnnotatedDocument{
		Document: domain.Document{ID: 1, Text: "Barack Obama"},
		Spans: []domain.SequenceAnnotation{
			{LabelID: 5, StartOffset: 0, EndOffset: 12, UserID: 7},
		},
	}

	var buffer bytes.Buffer
	require.NoError(t, painter.Paint(&buffer, readerOf(doc)))

	var painted struct {
		Annotations []struct {
			Label       uint64 `json:"label"`
			StartOffset int    `json:"start_offset"`
			EndOffset   int    `json:"end_offset"`
			User        uint64 `json:"user"`
		} `json:"annotations"`
	}
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &painted))
	require.Len(t, painted.Annotations, 1)
	assert.Equal(t, uint64(5), painted.Annotations[0].Label)
	assert.Equal(t, 0, painted.Annotations[0].StartOffset)
	assert.Equal(t, 12, painted.Annotations[0].EndOffset)
	assert.Equal(t, uint64(7), painted.Annotations[0].User)
}

// json1 output feeds straight back into the JSON parser: the (text, label,
// offsets) tuples survive an export/import cycle
func TestJSON1RoundTripsThroughJSONParser(t *testing.T) {
	painter := &JSON1Painter{labels: map[uint64]string{5: "PER", 6: "LOC"}}
	docs := []AnnotatedDocument{
		{
			Document: domain.Document{ID: 1, Text: "Barack Obama visited Paris"},
			Spans: []domain.SequenceAnnotation{
				{LabelID: 5, StartOffset: 0, EndOffset: 12},
				{LabelID: 6, StartOffset: 21, EndOffset: 26},
			},
		},
		{
			Document: domain.Document{ID: 2, Text: "nothing here"},
		},
	}

	var buffer bytes.Buffer
	require.NoError(t, painter.Paint(&buffer, readerOf(docs...)))

	parser := &upload.JSONParser{}
	records, err := parser.Parse(&buffer)
	require.NoError(t, err)

	first, err := records.Next()
	require.NoError(t, err)
	assert.Equal(t, "Barack Obama visited Paris", first.Text)
	require.Len(t, first.Spans, 2)
	assert.Equal(t, upload.SpanLabel{StartOffset: 0, EndOffset: 12, Label: "PER"}, first.Spans[0])
	assert.Equal(t, upload.SpanLabel{StartOffset: 21, EndOffset: 26, Label: "LOC"}, first.Spans[1])

	second, err := records.Next()
	require.NoError(t, err)
	assert.Equal(t, "nothing here", second.Text)
	assert.Empty(t, second.Spans)

	_, err = records.Next()
	assert.Equal(t, io.EOF, err)
}

func TestCSVPainterQuotesHostileText(t *testing.T) {
	painter := &CSVPainter{labels: map[uint64]string{5: "tricky, \"label\""}}
	doc := AnnotatedDocument{
		Document:        domain.Document{ID: 1, Text: "text with, commas and \"quotes\"", Meta: "{}"},
		Classifications: []domain.DocumentAnnotation{{LabelID: 5, UserID: 7}},
	}

	var buffer bytes.Buffer
	require.NoError(t, painter.Paint(&buffer, readerOf(doc)))

	rows, err := csv.NewReader(strings.NewReader(buffer.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2) // header plus one document

	assert.Equal(t, []string{"id", "text", "annotations", "meta"}, rows[0])
	assert.Equal(t, "text with, commas and \"quotes\"", rows[1][1])

	var labels []string
	require.NoError(t, json.Unmarshal([]byte(rows[1][2]), &labels))
	assert.Equal(t, []string{"tricky, \"label\""}, labels)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", ContentType(FormatCSV))
	assert.Equal(t, "application/x-ndjson", ContentType(FormatJSON))
	assert.Equal(t, "application/x-ndjson", ContentType(FormatJSON1))
}
