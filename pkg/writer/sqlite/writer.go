// Package sqlite writes the codename mapping augmentation table into OSW files
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/oswview/internal/logging"
	"github.com/ChrisMcGann/oswview/pkg/core"
)

// MappingTable is the augmentation table written by MappingWriter.
const MappingTable = "UNIMOD_CODENAME_MAPPING"

const (
	dropMappingTable   = `DROP TABLE IF EXISTS ` + MappingTable
	createMappingTable = `
	CREATE TABLE ` + MappingTable + ` (
		CODENAME_ID INTEGER,
		UNIMOD_ID INTEGER
	)`
	insertMapping = `INSERT INTO ` + MappingTable + ` (CODENAME_ID, UNIMOD_ID) VALUES (?, ?)`
)

// MappingWriter writes UNIMOD_CODENAME_MAPPING into an existing OSW file
type MappingWriter struct {
	db         *sql.DB
	outputPath string
}

// NewMappingWriter opens an existing OSW file for writing
func NewMappingWriter(outputPath string) (*MappingWriter, error) {
	if _, err := os.Stat(outputPath); err != nil {
		return nil, fmt.Errorf("failed to open OSW file: %w", err)
	}

	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &MappingWriter{db: db, outputPath: outputPath}, nil
}

// Write replaces the mapping table with mappings in a single transaction. On
// error the previous table is left as it was.
func (w *MappingWriter) Write(ctx context.Context, mappings []core.CodenameMapping) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := createTables(ctx, tx); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, insertMapping)
	if err != nil {
		return fmt.Errorf("failed to prepare mapping statement: %w", err)
	}
	defer stmt.Close()

	for _, m := range mappings {
		if _, err := stmt.ExecContext(ctx, m.CodenameID, m.UnimodID); err != nil {
			return fmt.Errorf("failed to insert mapping %d -> %d: %w", m.CodenameID, m.UnimodID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mappings: %w", err)
	}

	logging.FromContext(ctx).Infow("Wrote codename mapping", "path", w.outputPath, "rows", len(mappings))
	return nil
}

// createTables drops and recreates the mapping table
func createTables(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, dropMappingTable); err != nil {
		return fmt.Errorf("failed to drop %s: %w", MappingTable, err)
	}
	if _, err := tx.ExecContext(ctx, createMappingTable); err != nil {
		return fmt.Errorf("failed to create %s: %w", MappingTable, err)
	}
	return nil
}

// Close closes the database connection
func (w *MappingWriter) Close() error {
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
