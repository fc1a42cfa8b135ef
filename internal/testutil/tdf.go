package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var tdfStatements = []string{
	`CREATE TABLE Frames (Id INTEGER PRIMARY KEY, Time REAL, MsMsType INTEGER, NumScans INTEGER)`,
	`CREATE TABLE DiaFrameMsMsInfo (Frame INTEGER PRIMARY KEY, WindowGroup INTEGER)`,
	`CREATE TABLE DiaFrameMsMsWindows (WindowGroup INTEGER, ScanNumBegin INTEGER, ScanNumEnd INTEGER, IsolationMz REAL, IsolationWidth REAL, CollisionEnergy REAL)`,

	`INSERT INTO Frames VALUES (1, 0.5, 0, 918)`,
	`INSERT INTO Frames VALUES (2, 0.6, 9, 918)`,
	`INSERT INTO Frames VALUES (3, 0.7, 9, 918)`,
	`INSERT INTO Frames VALUES (4, 1.6, 0, 918)`,
	`INSERT INTO Frames VALUES (5, 1.7, 9, 918)`,
	`INSERT INTO Frames VALUES (6, 1.8, 9, 918)`,

	`INSERT INTO DiaFrameMsMsInfo VALUES (2, 1)`,
	`INSERT INTO DiaFrameMsMsInfo VALUES (3, 2)`,
	`INSERT INTO DiaFrameMsMsInfo VALUES (5, 1)`,
	`INSERT INTO DiaFrameMsMsInfo VALUES (6, 2)`,

	`INSERT INTO DiaFrameMsMsWindows VALUES (1, 0, 300, 912.5, 25, 45)`,
	`INSERT INTO DiaFrameMsMsWindows VALUES (1, 300, 600, 712.5, 25, 38)`,
	`INSERT INTO DiaFrameMsMsWindows VALUES (1, 600, 918, 512.5, 25, 30)`,
	`INSERT INTO DiaFrameMsMsWindows VALUES (2, 0, 460, 937.5, 25, 46)`,
	`INSERT INTO DiaFrameMsMsWindows VALUES (2, 460, 918, 537.5, 25, 31)`,
}

// WriteTDF writes a .d directory holding an analysis.tdf with two MS1 frames
// (1, 4) and two DIA window groups (frames 2, 5 and 3, 6). It returns the .d path.
func WriteTDF(tb testing.TB) string {
	tb.Helper()

	dir := filepath.Join(tb.TempDir(), "run.d")
	require.NoError(tb, os.Mkdir(dir, 0o755))

	db, err := sql.Open("sqlite3", filepath.Join(dir, "analysis.tdf"))
	require.NoError(tb, err)
	defer db.Close()

	for _, stmt := range tdfStatements {
		_, err := db.Exec(stmt)
		require.NoError(tb, err, stmt)
	}
	return dir
}
