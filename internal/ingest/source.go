package ingest

import (
	"errors"
	"io"
)

// Record is one raw export row keyed by column name, exactly as the
// underlying parser delivered it.
type Record map[string]string

// Source produces a lazy, finite, non-restartable sequence of raw records,
// chunk-delimited. Next returns the next chunk, io.EOF after the last one.
// A Source is consumed by exactly one ingestion run.
type Source interface {
	Next() ([]Record, error)
}

// Sentinel errors distinguishing the two fatal source failure classes.
// Sources wrap one of these so the orchestrator can word its error
// callback accordingly.
var (
	// ErrSourceParse marks a malformed file structure reported by the
	// underlying parser.
	ErrSourceParse = errors.New("malformed CSV structure")

	// ErrSourceRead marks a transport-level failure reading the file.
	ErrSourceRead = errors.New("file read failure")
)

// SliceSource adapts an in-memory record slice to the Source interface,
// emitting fixed-size chunks. It exists for tests and for callers that
// already hold parsed records.
type SliceSource struct {
	records   []Record
	chunkSize int
	pos       int
}

// NewSliceSource returns a source over records with the given chunk size.
// A chunk size below 1 defaults to 1000.
func NewSliceSource(records []Record, chunkSize int) *SliceSource {
	if chunkSize < 1 {
		chunkSize = 1000
	}
	return &SliceSource{records: records, chunkSize: chunkSize}
}

// Next returns the next chunk of records, io.EOF when exhausted.
func (s *SliceSource) Next() ([]Record, error) {
	if s.pos >= len(s.records) {
		return nil, io.EOF
	}
	end := s.pos + s.chunkSize
	if end > len(s.records) {
		end = len(s.records)
	}
	chunk := s.records[s.pos:end]
	s.pos = end
	return chunk, nil
}
