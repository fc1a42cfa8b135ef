package osw

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ChrisMcGann/oswview/internal/logging"
	"github.com/ChrisMcGann/oswview/pkg/core"
)

// FragmentOptions controls which transitions make it into a fragment set. The two
// flags are independent AND conditions.
type FragmentOptions struct {
	IncludeIdentifying bool // keep IPF identifying transitions
	ExcludeDetecting   bool // drop detecting transitions
}

const transitionQuery = `
	SELECT
		TRANSITION.TYPE,
		TRANSITION.ORDINAL,
		TRANSITION.CHARGE,
		TRANSITION.PRODUCT_MZ,
		TRANSITION.LIBRARY_INTENSITY,
		TRANSITION.DETECTING,
		TRANSITION.IDENTIFYING
	FROM TRANSITION
	INNER JOIN TRANSITION_PRECURSOR_MAPPING ON TRANSITION_PRECURSOR_MAPPING.TRANSITION_ID = TRANSITION.ID
	INNER JOIN PRECURSOR ON PRECURSOR.ID = TRANSITION_PRECURSOR_MAPPING.PRECURSOR_ID
	INNER JOIN PRECURSOR_PEPTIDE_MAPPING ON PRECURSOR_PEPTIDE_MAPPING.PRECURSOR_ID = PRECURSOR.ID
	INNER JOIN PEPTIDE ON PEPTIDE.ID = PRECURSOR_PEPTIDE_MAPPING.PEPTIDE_ID
	WHERE TRANSITION.DECOY = 0
	AND PRECURSOR.DECOY = 0`

func buildTransitionQuery(where string, opts FragmentOptions) string {
	var b strings.Builder
	b.WriteString(transitionQuery)
	b.WriteString("\n\tAND ")
	b.WriteString(where)
	if !opts.IncludeIdentifying {
		b.WriteString("\n\tAND TRANSITION.IDENTIFYING = 0")
	}
	if opts.ExcludeDetecting {
		b.WriteString("\n\tAND TRANSITION.DETECTING = 0")
	}
	b.WriteString("\n\tORDER BY TRANSITION.PRODUCT_MZ, TRANSITION.ID")
	return b.String()
}

// Fragments returns the transitions of the feature's peptide and charge. No
// matching transitions gives an empty set, not an error.
func (f *File) Fragments(ctx context.Context, feat core.Feature, opts FragmentOptions) (core.FragmentSet, error) {
	query := buildTransitionQuery("PEPTIDE.MODIFIED_SEQUENCE = ? AND PRECURSOR.CHARGE = ?", opts)
	return f.queryFragments(ctx, query, feat.FullPeptideName, feat.Charge)
}

// FragmentsByPrecursor returns the transitions mapped to one precursor.
func (f *File) FragmentsByPrecursor(ctx context.Context, precursorID int64, opts FragmentOptions) (core.FragmentSet, error) {
	query := buildTransitionQuery("PRECURSOR.ID = ?", opts)
	return f.queryFragments(ctx, query, precursorID)
}

func (f *File) queryFragments(ctx context.Context, query string, args ...any) (core.FragmentSet, error) {
	if err := f.checkSchema(ctx, fragmentSchema); err != nil {
		return nil, err
	}

	rows, err := f.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transitions: %w", err)
	}
	defer rows.Close()

	fragments := core.FragmentSet{}
	for rows.Next() {
		var (
			ionType             sql.NullString
			ordinal, charge     sql.NullInt64
			libIntensity        sql.NullFloat64
			detecting, identify sql.NullBool
			frag                core.Fragment
		)
		if err := rows.Scan(&ionType, &ordinal, &charge, &frag.MZ, &libIntensity, &detecting, &identify); err != nil {
			return nil, fmt.Errorf("failed to read transition row: %w", err)
		}

		frag.Type = ionType.String
		frag.Ordinal = int(ordinal.Int64)
		frag.Charge = int(charge.Int64)
		frag.LibraryIntensity = libIntensity.Float64
		frag.Detecting = detecting.Bool
		frag.Identifying = identify.Bool
		frag.Label = core.FragmentLabel(frag.Type, frag.Ordinal, frag.Charge)

		fragments = append(fragments, frag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading transitions: %w", err)
	}

	logging.FromContext(ctx).Debugw("Resolved fragments", "count", len(fragments))
	return fragments, nil
}
