// Package events provides a streaming reader for delimited raw event exports
// (one ion-mobility event per row, alphatims column names).
package events

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/oswview/pkg/core"
	"github.com/ChrisMcGann/oswview/pkg/events"
)

// Column names of an event export.
const (
	ColFrame     = "frame_indices"
	ColRT        = "rt_values"
	ColScan      = "scan_indices"
	ColMobility  = "mobility_values"
	ColMZ        = "mz_values"
	ColIntensity = "intensity_values"
	ColQuadGroup = "precursor_indices"
	ColQuadLow   = "quad_low_mz_values"
	ColQuadHigh  = "quad_high_mz_values"
)

var requiredColumns = []string{ColRT, ColMobility, ColMZ, ColIntensity}

// Reader provides streaming access to a delimited event export
type Reader struct {
	csv     *csv.Reader
	cols    map[string]int
	lineNum int
	current core.Event
	err     error
}

// NewReader creates a reader over r. The header row is read on the first call to
// Next.
func NewReader(r io.Reader, comma rune) *Reader {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true
	return &Reader{csv: cr}
}

// Delimiter guesses the field delimiter from a file extension: tab for .tsv and
// .txt, comma otherwise.
func Delimiter(path string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".txt":
		return '\t'
	default:
		return ','
	}
}

// Next advances to the next event. Returns false when no more events or error.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}

	if r.cols == nil {
		if err := r.readHeader(); err != nil {
			if err != io.EOF {
				r.err = err
			}
			return false
		}
	}

	record, err := r.csv.Read()
	if err != nil {
		if err != io.EOF {
			r.err = fmt.Errorf("line %d: %w", r.lineNum+1, err)
		}
		return false
	}
	r.lineNum++

	e, err := r.parseEvent(record)
	if err != nil {
		r.err = fmt.Errorf("line %d: %w", r.lineNum, err)
		return false
	}
	r.current = e
	return true
}

// Event returns the current event
func (r *Reader) Event() core.Event {
	return r.current
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) readHeader() error {
	header, err := r.csv.Read()
	if err != nil {
		return err
	}
	r.lineNum++

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &core.SchemaError{Source: "event export", Missing: missing}
	}

	// every row must match the header width
	r.csv.FieldsPerRecord = len(header)
	r.cols = cols
	return nil
}

func (r *Reader) parseEvent(record []string) (core.Event, error) {
	var (
		e   core.Event
		err error
	)

	if e.RT, err = r.floatField(record, ColRT); err != nil {
		return e, err
	}
	if e.Mobility, err = r.floatField(record, ColMobility); err != nil {
		return e, err
	}
	if e.MZ, err = r.floatField(record, ColMZ); err != nil {
		return e, err
	}
	if e.Intensity, err = r.floatField(record, ColIntensity); err != nil {
		return e, err
	}
	if e.Frame, err = r.intField(record, ColFrame); err != nil {
		return e, err
	}
	if e.Scan, err = r.intField(record, ColScan); err != nil {
		return e, err
	}
	if e.QuadGroup, err = r.intField(record, ColQuadGroup); err != nil {
		return e, err
	}
	if e.QuadLow, err = r.floatField(record, ColQuadLow); err != nil {
		return e, err
	}
	if e.QuadHigh, err = r.floatField(record, ColQuadHigh); err != nil {
		return e, err
	}

	return e, nil
}

// floatField parses an optional column; absent columns read as 0. NaN and
// infinities are rejected.
func (r *Reader) floatField(record []string, col string) (float64, error) {
	i, ok := r.cols[col]
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", col, record[i], err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s %q: not a finite number", col, record[i])
	}
	return v, nil
}

func (r *Reader) intField(record []string, col string) (int, error) {
	i, ok := r.cols[col]
	if !ok {
		return 0, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(record[i]))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", col, record[i], err)
	}
	return v, nil
}

// ReadAll drains r into an indexed event table.
func ReadAll(r *Reader) (*events.Table, error) {
	var evs []core.Event
	for r.Next() {
		evs = append(evs, r.Event())
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return events.NewTable(evs), nil
}

// ReadFile loads an event export from disk, picking the delimiter from the
// file extension.
func ReadFile(path string) (*events.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event file: %w", err)
	}
	defer f.Close()

	table, err := ReadAll(NewReader(f, Delimiter(path)))
	if err != nil {
		var schemaErr *core.SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Source = path
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return table, nil
}
