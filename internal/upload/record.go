package upload

// SpanLabel is a labeled character range inside a record's text
type SpanLabel struct {
	StartOffset int
	EndOffset   int
	Label       string
}

// Record is one canonical unit of parsed input: the document text plus
// whatever seed annotations the source format carried. Exactly which field
// is consumed depends on the project's annotation type.
type Record struct {
	Text    string
	Classes []string    // classification label names
	Spans   []SpanLabel // sequence-labeling spans
	Target  string      // seq2seq target text
	Meta    map[string]any
}

// RecordReader is a lazy, single-pass sequence of records. Next returns
// io.EOF when the input is exhausted; restarting requires reopening the
// input. Parsers never materialize the whole upload.
type RecordReader struct {
	next func() (*Record, error)
}

func NewRecordReader(next func() (*Record, error)) *RecordReader {
	return &RecordReader{next: next}
}

// Next returns the next record, io.EOF at the end of input, or a format
// error identifying the offending record.
func (r *RecordReader) Next() (*Record, error) {
	return r.next()
}
