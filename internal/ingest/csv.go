package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// legacyColumns maps the narrow legacy export header onto the expanded
// schema's field names. The rename happens before normalization so the
// normalizer only ever sees expanded-schema keys.
var legacyColumns = map[string]string{
	"Timestamp":             "date",
	"User":                  "username",
	"Model":                 "model",
	"Requests Used":         "quantity",
	"Exceeds Monthly Quota": "exceeds_quota",
	"Total Monthly Quota":   "total_monthly_quota",
}

// CSVSource streams records from a CSV export file in fixed-size chunks.
// It owns the file handle and closes it when the stream ends or fails.
type CSVSource struct {
	file      *os.File
	reader    *csv.Reader
	header    []string
	chunkSize int
	done      bool
}

// OpenCSV opens path and prepares a chunked record stream. The header row
// is read eagerly so that an empty or unreadable file fails here rather
// than mid-run.
func OpenCSV(path string, chunkSize int) (*CSVSource, error) {
	if chunkSize < 1 {
		chunkSize = 1000
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows; the normalizer drops them

	header, err := r.Read()
	if err != nil {
		_ = f.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: file contains no header row", ErrSourceParse)
		}
		return nil, classifyCSVError(err)
	}

	for i, col := range header {
		if renamed, ok := legacyColumns[col]; ok {
			header[i] = renamed
		}
	}

	return &CSVSource{file: f, reader: r, header: header, chunkSize: chunkSize}, nil
}

// Header returns the (possibly renamed) column names.
func (s *CSVSource) Header() []string {
	return s.header
}

// Next reads the next chunk of records. It returns io.EOF once the file is
// exhausted, closing the file on the way out.
func (s *CSVSource) Next() ([]Record, error) {
	if s.done {
		return nil, io.EOF
	}

	chunk := make([]Record, 0, s.chunkSize)
	for len(chunk) < s.chunkSize {
		fields, err := s.reader.Read()
		if err == io.EOF {
			s.close()
			if len(chunk) == 0 {
				return nil, io.EOF
			}
			return chunk, nil
		}
		if err != nil {
			s.close()
			return nil, classifyCSVError(err)
		}

		rec := make(Record, len(s.header))
		for i, col := range s.header {
			if i < len(fields) {
				rec[col] = fields[i]
			}
		}
		chunk = append(chunk, rec)
	}
	return chunk, nil
}

// Close releases the underlying file. Safe to call after the stream has
// already ended.
func (s *CSVSource) Close() error {
	s.close()
	return nil
}

func (s *CSVSource) close() {
	if !s.done {
		s.done = true
		_ = s.file.Close()
	}
}

// classifyCSVError wraps a reader error with the matching fatal sentinel:
// structural CSV errors become parse failures, everything else is treated
// as an I/O failure.
func classifyCSVError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %v", ErrSourceParse, err)
	}
	return fmt.Errorf("%w: %v", ErrSourceRead, err)
}
