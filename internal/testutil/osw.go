// Package testutil provides shared SQLite fixtures for oswview tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// OSWOptions selects which optional parts of the OSW fixture are written.
type OSWOptions struct {
	IPF         bool     // write SCORE_IPF
	Mapping     bool     // write UNIMOD_CODENAME_MAPPING
	SkipTables  []string // required tables to leave out
	DropColumns bool     // write FEATURE without EXP_IM
}

// Fixture contents, referenced by assertions.
const (
	PeptideCharged = "PEPTIDEK"
	PeptideUniMod  = "PEPM(UniMod:35)IDEK"
	PeptideCode    = "PEPM(Oxidation)IDEK"
	PeptideDecoy   = "DECOYK"

	PeptideMZ = 500.25
	PeptideRT = 600.0
	PeptideIM = 0.95
)

var oswSchema = map[string]string{
	"RUN":                          `CREATE TABLE RUN (ID INTEGER PRIMARY KEY, FILENAME TEXT)`,
	"PEPTIDE":                      `CREATE TABLE PEPTIDE (ID INTEGER PRIMARY KEY, UNMODIFIED_SEQUENCE TEXT, MODIFIED_SEQUENCE TEXT, DECOY INTEGER)`,
	"PRECURSOR":                    `CREATE TABLE PRECURSOR (ID INTEGER PRIMARY KEY, TRAML_ID TEXT, GROUP_LABEL TEXT, PRECURSOR_MZ REAL, CHARGE INTEGER, LIBRARY_INTENSITY REAL, LIBRARY_RT REAL, DECOY INTEGER)`,
	"PRECURSOR_PEPTIDE_MAPPING":    `CREATE TABLE PRECURSOR_PEPTIDE_MAPPING (PRECURSOR_ID INTEGER, PEPTIDE_ID INTEGER)`,
	"FEATURE":                      `CREATE TABLE FEATURE (ID INTEGER PRIMARY KEY, RUN_ID INTEGER, PRECURSOR_ID INTEGER, EXP_RT REAL, EXP_IM REAL, NORM_RT REAL, DELTA_RT REAL, LEFT_WIDTH REAL, RIGHT_WIDTH REAL)`,
	"FEATURE_MS2":                  `CREATE TABLE FEATURE_MS2 (FEATURE_ID INTEGER, AREA_INTENSITY REAL, TOTAL_AREA_INTENSITY REAL, APEX_INTENSITY REAL)`,
	"SCORE_MS2":                    `CREATE TABLE SCORE_MS2 (FEATURE_ID INTEGER, SCORE REAL, RANK INTEGER, PVALUE REAL, QVALUE REAL, PEP REAL)`,
	"TRANSITION":                   `CREATE TABLE TRANSITION (ID INTEGER PRIMARY KEY, TRAML_ID TEXT, PRODUCT_MZ REAL, CHARGE INTEGER, TYPE TEXT, ANNOTATION TEXT, ORDINAL INTEGER, DETECTING INTEGER, QUANTIFYING INTEGER, IDENTIFYING INTEGER, LIBRARY_INTENSITY REAL, DECOY INTEGER)`,
	"TRANSITION_PRECURSOR_MAPPING": `CREATE TABLE TRANSITION_PRECURSOR_MAPPING (TRANSITION_ID INTEGER, PRECURSOR_ID INTEGER)`,
	"SCORE_IPF":                    `CREATE TABLE SCORE_IPF (FEATURE_ID INTEGER, PEPTIDE_ID INTEGER, PRECURSOR_PEAKGROUP_PEP REAL, QVALUE REAL, PEP REAL)`,
	"UNIMOD_CODENAME_MAPPING":      `CREATE TABLE UNIMOD_CODENAME_MAPPING (CODENAME_ID INTEGER, UNIMOD_ID INTEGER)`,
}

var oswTableOrder = []string{
	"RUN", "PEPTIDE", "PRECURSOR", "PRECURSOR_PEPTIDE_MAPPING", "FEATURE", "FEATURE_MS2",
	"SCORE_MS2", "TRANSITION", "TRANSITION_PRECURSOR_MAPPING",
}

var oswRows = []string{
	`INSERT INTO RUN VALUES (1, 'run1.d')`,

	`INSERT INTO PEPTIDE VALUES (1, 'PEPTIDEK', 'PEPTIDEK', 0)`,
	`INSERT INTO PEPTIDE VALUES (2, 'PEPMIDEK', 'PEPM(Oxidation)IDEK', 0)`,
	`INSERT INTO PEPTIDE VALUES (3, 'PEPMIDEK', 'PEPM(UniMod:35)IDEK', 0)`,
	`INSERT INTO PEPTIDE VALUES (4, 'DECOYK', 'DECOYK', 1)`,

	`INSERT INTO PRECURSOR VALUES (10, 'p10', 'g10', 500.25, 2, 100, 600, 0)`,
	`INSERT INTO PRECURSOR VALUES (11, 'p11', 'g11', 333.837, 3, 100, 600, 0)`,
	`INSERT INTO PRECURSOR VALUES (12, 'p12', 'g12', 508.24, 2, 100, 1200, 0)`,
	`INSERT INTO PRECURSOR VALUES (13, 'p13', 'g13', 400.2, 2, 100, 800, 1)`,

	`INSERT INTO PRECURSOR_PEPTIDE_MAPPING VALUES (10, 1)`,
	`INSERT INTO PRECURSOR_PEPTIDE_MAPPING VALUES (11, 1)`,
	`INSERT INTO PRECURSOR_PEPTIDE_MAPPING VALUES (12, 3)`,
	`INSERT INTO PRECURSOR_PEPTIDE_MAPPING VALUES (13, 4)`,

	`INSERT INTO FEATURE VALUES (100, 1, 10, 600.0, 0.95, 0, 0, 580.0, 620.0)`,
	`INSERT INTO FEATURE VALUES (101, 1, 10, 900.0, 1.05, 0, 0, 885.0, 915.0)`,
	`INSERT INTO FEATURE VALUES (102, 1, 11, 601.0, 0.90, 0, 0, 590.0, 612.0)`,
	`INSERT INTO FEATURE VALUES (103, 1, 12, 1200.0, 1.10, 0, 0, 1190.0, 1210.0)`,
	`INSERT INTO FEATURE VALUES (104, 1, 13, 800.0, 0.85, 0, 0, 790.0, 810.0)`,
	`INSERT INTO FEATURE VALUES (105, 1, 12, 1500.0, 1.12, 0, 0, 1490.0, 1510.0)`,

	`INSERT INTO FEATURE_MS2 VALUES (100, 12345.0, 0, 0)`,
	`INSERT INTO FEATURE_MS2 VALUES (101, 2000.0, 0, 0)`,
	`INSERT INTO FEATURE_MS2 VALUES (102, 3000.0, 0, 0)`,
	`INSERT INTO FEATURE_MS2 VALUES (103, 4000.0, 0, 0)`,
	`INSERT INTO FEATURE_MS2 VALUES (104, 5000.0, 0, 0)`,
	`INSERT INTO FEATURE_MS2 VALUES (105, 6000.0, 0, 0)`,

	// feature 105 is never scored
	`INSERT INTO SCORE_MS2 VALUES (100, 5.0, 1, 0.0001, 0.001, 0.01)`,
	`INSERT INTO SCORE_MS2 VALUES (101, 1.0, 2, 0.1, 0.2, 0.5)`,
	`INSERT INTO SCORE_MS2 VALUES (102, 4.0, 1, 0.001, 0.01, 0.02)`,
	`INSERT INTO SCORE_MS2 VALUES (103, 4.5, 1, 0.001, 0.005, 0.02)`,
	`INSERT INTO SCORE_MS2 VALUES (104, 3.0, 1, 0.001, 0.01, 0.02)`,

	// precursor 10: three detecting fragments, one identifying, one decoy
	`INSERT INTO TRANSITION VALUES (1000, 't1000', 589.30, 1, 'y', 'y5^1', 5, 1, 1, 0, 100.0, 0)`,
	`INSERT INTO TRANSITION VALUES (1001, 't1001', 327.14, 1, 'b', 'b3^1', 3, 1, 1, 0, 50.0, 0)`,
	`INSERT INTO TRANSITION VALUES (1002, 't1002', 245.63, 2, 'y', 'y4^2', 4, 1, 1, 0, 30.0, 0)`,
	`INSERT INTO TRANSITION VALUES (1003, 't1003', 702.38, 1, 'y', 'y6^1', 6, 0, 0, 1, 0.0, 0)`,
	`INSERT INTO TRANSITION VALUES (1004, 't1004', 610.11, 1, 'y', 'y5^1', 5, 1, 1, 0, 80.0, 1)`,
	// precursor 12: detecting only
	`INSERT INTO TRANSITION VALUES (1010, 't1010', 604.29, 1, 'y', 'y5^1', 5, 1, 1, 0, 100.0, 0)`,
	`INSERT INTO TRANSITION VALUES (1011, 't1011', 358.16, 1, 'b', 'b3^1', 3, 1, 1, 0, 40.0, 0)`,

	`INSERT INTO TRANSITION_PRECURSOR_MAPPING VALUES (1000, 10)`,
	`INSERT INTO TRANSITION_PRECURSOR_MAPPING VALUES (1001, 10)`,
	`INSERT INTO TRANSITION_PRECURSOR_MAPPING VALUES (1002, 10)`,
	`INSERT INTO TRANSITION_PRECURSOR_MAPPING VALUES (1003, 10)`,
	`INSERT INTO TRANSITION_PRECURSOR_MAPPING VALUES (1004, 10)`,
	`INSERT INTO TRANSITION_PRECURSOR_MAPPING VALUES (1010, 12)`,
	`INSERT INTO TRANSITION_PRECURSOR_MAPPING VALUES (1011, 12)`,
}

var ipfRows = []string{
	`INSERT INTO SCORE_IPF VALUES (103, 2, 0.01, 0.02, 0.03)`,
}

var mappingRows = []string{
	`INSERT INTO UNIMOD_CODENAME_MAPPING VALUES (2, 3)`,
}

// WriteOSW writes an OSW fixture into a temporary directory and returns its path.
//
// Scored, non-decoy features: PEPTIDEK/2 (ids 100 rank 1, 101 rank 2),
// PEPTIDEK/3 (102), PEPM(UniMod:35)IDEK/2 (103). Feature 104 is a decoy and 105
// is unscored.
func WriteOSW(tb testing.TB, opts OSWOptions) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "fixture.osw")
	db, err := sql.Open("sqlite3", path)
	require.NoError(tb, err)
	defer db.Close()

	skip := make(map[string]bool)
	for _, t := range opts.SkipTables {
		skip[t] = true
	}

	tables := append([]string{}, oswTableOrder...)
	if opts.IPF {
		tables = append(tables, "SCORE_IPF")
	}
	if opts.Mapping {
		tables = append(tables, "UNIMOD_CODENAME_MAPPING")
	}

	for _, table := range tables {
		if skip[table] {
			continue
		}
		ddl := oswSchema[table]
		if table == "FEATURE" && opts.DropColumns {
			ddl = `CREATE TABLE FEATURE (ID INTEGER PRIMARY KEY, RUN_ID INTEGER, PRECURSOR_ID INTEGER, EXP_RT REAL, LEFT_WIDTH REAL, RIGHT_WIDTH REAL)`
		}
		_, err := db.Exec(ddl)
		require.NoError(tb, err)
	}

	if opts.DropColumns || len(opts.SkipTables) > 0 {
		return path
	}

	rows := append([]string{}, oswRows...)
	if opts.IPF {
		rows = append(rows, ipfRows...)
	}
	if opts.Mapping {
		rows = append(rows, mappingRows...)
	}
	for _, stmt := range rows {
		_, err := db.Exec(stmt)
		require.NoError(tb, err, stmt)
	}

	return path
}
