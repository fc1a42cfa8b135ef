// Package tdf reads frame metadata from Bruker timsTOF analysis.tdf files.
package tdf

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/oswview/pkg/core"
)

// FileName is the metadata database inside a .d directory.
const FileName = "analysis.tdf"

// MsMsType values of the Frames table.
const (
	MsMsTypeMS1 = 0
	MsMsTypeDIA = 9
)

// IsolationWindow is one DiaFrameMsMsWindows row of a window group.
type IsolationWindow struct {
	WindowGroup    int
	ScanNumBegin   int
	ScanNumEnd     int
	IsolationMZ    float64
	IsolationWidth float64
}

// MZ returns the isolated m/z range, centered on IsolationMZ.
func (w IsolationWindow) MZ() core.Range {
	half := w.IsolationWidth / 2
	return core.Range{Lo: w.IsolationMZ - half, Hi: w.IsolationMZ + half}
}

// File is a read-only handle on an analysis.tdf database.
type File struct {
	db   *sql.DB
	path string
}

// Open opens path read-only. path may be a .d directory or the analysis.tdf file
// itself.
func Open(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open TDF: %w", err)
	}
	if info.IsDir() {
		path = filepath.Join(path, FileName)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to open TDF: %w", err)
		}
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

// Path returns the analysis.tdf path.
func (f *File) Path() string {
	return f.path
}

// Close closes the database connection.
func (f *File) Close() error {
	return f.db.Close()
}

// MS1Frames returns the ids of all MS1 frames, ascending.
func (f *File) MS1Frames(ctx context.Context) ([]int, error) {
	return f.ints(ctx, `SELECT Id FROM Frames WHERE MsMsType = ? ORDER BY Id`, MsMsTypeMS1)
}

// WindowGroupFrames returns the frames acquired with the given DIA window group.
func (f *File) WindowGroupFrames(ctx context.Context, group int) ([]int, error) {
	return f.ints(ctx, `SELECT Frame FROM DiaFrameMsMsInfo WHERE WindowGroup = ? ORDER BY Frame`, group)
}

// WindowGroup returns the isolation windows of a window group in table order.
func (f *File) WindowGroup(ctx context.Context, group int) ([]IsolationWindow, error) {
	rows, err := f.db.QueryContext(ctx, `
		SELECT WindowGroup, ScanNumBegin, ScanNumEnd, IsolationMz, IsolationWidth
		FROM DiaFrameMsMsWindows
		WHERE WindowGroup = ?
		ORDER BY rowid`, group)
	if err != nil {
		return nil, fmt.Errorf("failed to query window group %d: %w", group, err)
	}
	defer rows.Close()

	var windows []IsolationWindow
	for rows.Next() {
		var w IsolationWindow
		if err := rows.Scan(&w.WindowGroup, &w.ScanNumBegin, &w.ScanNumEnd, &w.IsolationMZ, &w.IsolationWidth); err != nil {
			return nil, fmt.Errorf("failed to read window row: %w", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading window group %d: %w", group, err)
	}
	return windows, nil
}

// Isolation returns the window of a group selected by its multiplex number.
// Multiplex 1 is the last row of the group and multiplex n the first.
func (f *File) Isolation(ctx context.Context, group, multiplex int) (IsolationWindow, error) {
	windows, err := f.WindowGroup(ctx, group)
	if err != nil {
		return IsolationWindow{}, err
	}
	if len(windows) == 0 {
		return IsolationWindow{}, &core.NotFoundError{What: "window group", Key: fmt.Sprint(group)}
	}
	if multiplex < 1 || multiplex > len(windows) {
		return IsolationWindow{}, &core.ValidationError{
			Field:   "multiplex",
			Message: fmt.Sprintf("must be within [1, %d] for window group %d, got %d", len(windows), group, multiplex),
		}
	}
	return windows[len(windows)-multiplex], nil
}

// FrameTimes returns the retention time in seconds of every frame.
func (f *File) FrameTimes(ctx context.Context) (map[int]float64, error) {
	rows, err := f.db.QueryContext(ctx, `SELECT Id, Time FROM Frames`)
	if err != nil {
		return nil, fmt.Errorf("failed to query frames: %w", err)
	}
	defer rows.Close()

	times := make(map[int]float64)
	for rows.Next() {
		var (
			id int
			t  float64
		)
		if err := rows.Scan(&id, &t); err != nil {
			return nil, fmt.Errorf("failed to read frame row: %w", err)
		}
		times[id] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading frames: %w", err)
	}
	return times, nil
}

func (f *File) ints(ctx context.Context, query string, args ...any) ([]int, error) {
	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query frames: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to read frame row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading frames: %w", err)
	}
	return out, nil
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
