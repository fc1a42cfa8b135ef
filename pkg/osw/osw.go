// Package osw reads identification results from OpenSwath (OSW) SQLite files.
package osw

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/multierr"

	"github.com/ChrisMcGann/oswview/internal/logging"
	"github.com/ChrisMcGann/oswview/pkg/core"
)

// Table names used by the loader.
const (
	TablePrecursor        = "PRECURSOR"
	TablePeptide          = "PEPTIDE"
	TablePrecursorPeptide = "PRECURSOR_PEPTIDE_MAPPING"
	TableFeature          = "FEATURE"
	TableFeatureMS2       = "FEATURE_MS2"
	TableScoreMS2         = "SCORE_MS2"
	TableScoreIPF         = "SCORE_IPF"
	TableCodenameMapping  = "UNIMOD_CODENAME_MAPPING"
	TableTransition       = "TRANSITION"
	TableTransitionPrec   = "TRANSITION_PRECURSOR_MAPPING"
)

type tableColumns struct {
	table   string
	columns []string
}

// featureSchema lists the tables and columns the feature query cannot do without.
var featureSchema = []tableColumns{
	{TablePrecursor, []string{"ID", "PRECURSOR_MZ", "CHARGE", "DECOY"}},
	{TablePeptide, []string{"ID", "MODIFIED_SEQUENCE", "UNMODIFIED_SEQUENCE"}},
	{TablePrecursorPeptide, []string{"PRECURSOR_ID", "PEPTIDE_ID"}},
	{TableFeature, []string{"ID", "PRECURSOR_ID", "RUN_ID", "EXP_RT", "EXP_IM", "LEFT_WIDTH", "RIGHT_WIDTH"}},
	{TableFeatureMS2, []string{"FEATURE_ID", "AREA_INTENSITY"}},
	{TableScoreMS2, []string{"FEATURE_ID", "RANK", "QVALUE"}},
}

var peptideSchema = []tableColumns{
	{TablePeptide, []string{"ID", "MODIFIED_SEQUENCE"}},
}

var transitionSchema = []tableColumns{
	{TableTransition, []string{"ID", "TYPE", "ORDINAL", "CHARGE", "PRODUCT_MZ", "LIBRARY_INTENSITY", "DETECTING", "IDENTIFYING", "DECOY"}},
	{TableTransitionPrec, []string{"TRANSITION_ID", "PRECURSOR_ID"}},
}

// fragmentSchema is everything the transition join touches.
var fragmentSchema = append(append([]tableColumns{}, transitionSchema...), featureSchema[:3]...)

var ipfSchema = []tableColumns{
	{TableScoreIPF, []string{"FEATURE_ID", "PEPTIDE_ID", "QVALUE"}},
	{TableCodenameMapping, []string{"CODENAME_ID", "UNIMOD_ID"}},
}

// File is a read-only handle on an OSW result file.
type File struct {
	db   *sql.DB
	path string
}

// Open opens an OSW file read-only.
func Open(path string) (*File, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open OSW file: %w", err)
	}

	dsn, err := readOnlyDSN(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &File{db: db, path: path}, nil
}

// Path returns the file path the handle was opened with.
func (f *File) Path() string {
	return f.path
}

// Close closes the database connection.
func (f *File) Close() error {
	return f.db.Close()
}

// HasTable reports whether the file contains the named table.
func (f *File) HasTable(ctx context.Context, table string) (bool, error) {
	var n int
	err := f.db.QueryRowContext(ctx,
		`SELECT count(name) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to look up table %s: %w", table, err)
	}
	return n == 1, nil
}

func (f *File) columns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := f.db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// checkSchema returns a *core.SchemaError listing every missing table and column.
func (f *File) checkSchema(ctx context.Context, schema []tableColumns) error {
	var (
		missing []string
		errs    error
	)

	for _, tc := range schema {
		ok, err := f.HasTable(ctx, tc.table)
		if err != nil {
			return err
		}
		if !ok {
			missing = append(missing, tc.table)
			errs = multierr.Append(errs, fmt.Errorf("table %s is missing", tc.table))
			continue
		}

		cols, err := f.columns(ctx, tc.table)
		if err != nil {
			return err
		}
		for _, c := range tc.columns {
			if !cols[c] {
				missing = append(missing, tc.table+"."+c)
				errs = multierr.Append(errs, fmt.Errorf("column %s.%s is missing", tc.table, c))
			}
		}
	}

	if errs != nil {
		return &core.SchemaError{Source: f.path, Missing: missing, Err: errs}
	}
	return nil
}

// ipfAvailable reports whether IPF scores can be joined. A SCORE_IPF table without
// its codename mapping is logged and ignored.
func (f *File) ipfAvailable(ctx context.Context) (bool, error) {
	log := logging.FromContext(ctx)

	hasIPF, err := f.HasTable(ctx, TableScoreIPF)
	if err != nil || !hasIPF {
		return false, err
	}

	if err := f.checkSchema(ctx, ipfSchema); err != nil {
		var schemaErr *core.SchemaError
		if errors.As(err, &schemaErr) {
			log.Warnw("OSW file has IPF scores but no usable codename mapping, IPF q-values are omitted",
				"path", f.path, "error", err)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PeptideRecords reads the ID and modified sequence of every PEPTIDE row.
func (f *File) PeptideRecords(ctx context.Context) ([]core.PeptideRecord, error) {
	if err := f.checkSchema(ctx, peptideSchema); err != nil {
		return nil, err
	}

	rows, err := f.db.QueryContext(ctx, `SELECT ID, MODIFIED_SEQUENCE FROM PEPTIDE ORDER BY ID`)
	if err != nil {
		return nil, fmt.Errorf("failed to query peptides: %w", err)
	}
	defer rows.Close()

	var peptides []core.PeptideRecord
	for rows.Next() {
		var p core.PeptideRecord
		if err := rows.Scan(&p.ID, &p.ModifiedSequence); err != nil {
			return nil, fmt.Errorf("failed to read peptide row: %w", err)
		}
		peptides = append(peptides, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading peptides: %w", err)
	}
	return peptides, nil
}

// readOnlyDSN builds a read-only SQLite URI for path. The path is made absolute
// and escaped so that '?' and '#' in file names are not taken as URI delimiters.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=ro"}
	return u.String(), nil
}
