package osw

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"

	"github.com/ChrisMcGann/oswview/internal/logging"
	"github.com/ChrisMcGann/oswview/pkg/core"
	"github.com/ChrisMcGann/oswview/pkg/window"
)

// DefaultRank selects the best scoring peak group.
const DefaultRank = 1

const featureColumns = `
	PRECURSOR.ID,
	PEPTIDE.ID,
	FEATURE.ID,
	FEATURE.RUN_ID,
	PEPTIDE.MODIFIED_SEQUENCE,
	PEPTIDE.UNMODIFIED_SEQUENCE,
	PRECURSOR.PRECURSOR_MZ,
	PRECURSOR.CHARGE,
	FEATURE.EXP_RT,
	FEATURE.LEFT_WIDTH,
	FEATURE.RIGHT_WIDTH,
	FEATURE.EXP_IM,
	FEATURE_MS2.AREA_INTENSITY,
	SCORE_MS2.RANK,
	SCORE_MS2.QVALUE`

const featureJoins = `
	FROM PRECURSOR
	INNER JOIN PRECURSOR_PEPTIDE_MAPPING ON PRECURSOR_PEPTIDE_MAPPING.PRECURSOR_ID = PRECURSOR.ID
	INNER JOIN PEPTIDE ON PEPTIDE.ID = PRECURSOR_PEPTIDE_MAPPING.PEPTIDE_ID
	INNER JOIN FEATURE ON FEATURE.PRECURSOR_ID = PRECURSOR.ID
	INNER JOIN FEATURE_MS2 ON FEATURE_MS2.FEATURE_ID = FEATURE.ID
	LEFT JOIN SCORE_MS2 ON SCORE_MS2.FEATURE_ID = FEATURE.ID`

// IPF scores are reported against codename peptides; the mapping table brings them
// back to the UniMod peptide the precursor belongs to.
const ipfJoin = `
	LEFT JOIN (
		SELECT
			SCORE_IPF.FEATURE_ID AS FEATURE_ID,
			UNIMOD_CODENAME_MAPPING.UNIMOD_ID AS UNIMOD_ID,
			SCORE_IPF.QVALUE AS QVALUE
		FROM SCORE_IPF
		INNER JOIN UNIMOD_CODENAME_MAPPING ON UNIMOD_CODENAME_MAPPING.CODENAME_ID = SCORE_IPF.PEPTIDE_ID
	) AS IPF ON IPF.FEATURE_ID = FEATURE.ID AND IPF.UNIMOD_ID = PEPTIDE.ID`

// Unscored features have no SCORE_MS2 rank and are skipped.
const featureFilter = `
	WHERE PRECURSOR.DECOY = 0
	AND SCORE_MS2.RANK IS NOT NULL
	ORDER BY PEPTIDE.UNMODIFIED_SEQUENCE, PEPTIDE.MODIFIED_SEQUENCE, PRECURSOR.CHARGE, SCORE_MS2.RANK, FEATURE.ID`

func featureQuery(withIPF bool) string {
	if withIPF {
		return "SELECT" + featureColumns + ",\n\tIPF.QVALUE" + featureJoins + ipfJoin + featureFilter
	}
	return "SELECT" + featureColumns + featureJoins + featureFilter
}

// LoadFeatures reads all scored, non-decoy features. It fails with a
// *core.SchemaError when a required table or column is missing. IPF q-values are
// attached only when SCORE_IPF and UNIMOD_CODENAME_MAPPING are both usable.
func (f *File) LoadFeatures(ctx context.Context) (*FeatureTable, error) {
	log := logging.FromContext(ctx)
	log.Infow("Processing OSW file", "path", f.path)

	if err := f.checkSchema(ctx, featureSchema); err != nil {
		return nil, err
	}

	withIPF, err := f.ipfAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if withIPF {
		log.Info("Reading peak group-level IPF results")
	} else {
		log.Info("Reading peak group-level results")
	}

	rows, err := f.db.QueryContext(ctx, featureQuery(withIPF))
	if err != nil {
		return nil, fmt.Errorf("failed to query features: %w", err)
	}
	defer rows.Close()

	var features []core.Feature
	for rows.Next() {
		feat, err := scanFeature(rows, withIPF)
		if err != nil {
			return nil, fmt.Errorf("failed to read feature row: %w", err)
		}
		features = append(features, feat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading features: %w", err)
	}

	log.Infow("Loaded features", "count", len(features), "ipf", withIPF)
	return NewFeatureTable(features, withIPF), nil
}

func scanFeature(rows *sql.Rows, withIPF bool) (core.Feature, error) {
	var (
		feat                    core.Feature
		rt, left, right, im     sql.NullFloat64
		intensity, qvalue, ipfQ sql.NullFloat64
		unmodified              sql.NullString
	)

	dest := []any{
		&feat.PrecursorID,
		&feat.PeptideID,
		&feat.FeatureID,
		&feat.RunID,
		&feat.FullPeptideName,
		&unmodified,
		&feat.PrecursorMZ,
		&feat.Charge,
		&rt,
		&left,
		&right,
		&im,
		&intensity,
		&feat.Rank,
		&qvalue,
	}
	if withIPF {
		dest = append(dest, &ipfQ)
	}

	if err := rows.Scan(dest...); err != nil {
		return core.Feature{}, err
	}

	feat.Sequence = unmodified.String
	feat.RT = floatOrNaN(rt)
	feat.LeftWidth = floatOrNaN(left)
	feat.RightWidth = floatOrNaN(right)
	feat.Mobility = floatOrNaN(im)
	feat.MobilityLeft = feat.Mobility - window.DefaultMobilityHalfWidth
	feat.MobilityRight = feat.Mobility + window.DefaultMobilityHalfWidth
	feat.Intensity = intensity.Float64
	feat.MS2QValue = qvalue.Float64
	if ipfQ.Valid {
		q := ipfQ.Float64
		feat.IPFQValue = &q
	}

	return feat, nil
}

// floatOrNaN maps SQL NULL to NaN so that Feature.Validate rejects it.
func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// FeatureTable is an immutable, sorted snapshot of the features of one OSW file.
// All selections return values and leave the table untouched.
type FeatureTable struct {
	rows   []core.Feature
	hasIPF bool
}

// NewFeatureTable wraps rows, which must already be in display order.
func NewFeatureTable(rows []core.Feature, hasIPF bool) *FeatureTable {
	return &FeatureTable{rows: rows, hasIPF: hasIPF}
}

// Len returns the number of features.
func (t *FeatureTable) Len() int {
	return len(t.rows)
}

// HasIPF reports whether IPF q-values were loaded.
func (t *FeatureTable) HasIPF() bool {
	return t.hasIPF
}

// Rows returns a copy of all features.
func (t *FeatureTable) Rows() []core.Feature {
	out := make([]core.Feature, len(t.rows))
	copy(out, t.rows)
	return out
}

// Select returns the feature of peptide (exact modified sequence) with the given
// rank. A charge of 0 matches any charge, in which case the lowest charge wins.
// A rank of 0 means DefaultRank.
func (t *FeatureTable) Select(peptide string, charge, rank int) (core.Feature, error) {
	if rank <= 0 {
		rank = DefaultRank
	}

	peptideSeen := false
	for _, f := range t.rows {
		if f.FullPeptideName != peptide {
			continue
		}
		peptideSeen = true
		if charge > 0 && f.Charge != charge {
			continue
		}
		if f.Rank == rank {
			return f, nil
		}
	}

	if !peptideSeen {
		return core.Feature{}, &core.NotFoundError{What: "peptide", Key: peptide}
	}
	return core.Feature{}, &core.NotFoundError{
		What: "feature",
		Key:  fmt.Sprintf("%s charge %s rank %d", peptide, chargeString(charge), rank),
	}
}

// SelectFeatureID returns the feature with the given id for peptide and charge.
func (t *FeatureTable) SelectFeatureID(peptide string, charge int, featureID int64) (core.Feature, error) {
	for _, f := range t.rows {
		if f.FullPeptideName == peptide && (charge == 0 || f.Charge == charge) && f.FeatureID == featureID {
			return f, nil
		}
	}
	return core.Feature{}, &core.NotFoundError{
		What: "feature",
		Key:  fmt.Sprintf("%s charge %s id %d", peptide, chargeString(charge), featureID),
	}
}

// SelectPrecursor returns the feature of a precursor with the given rank.
func (t *FeatureTable) SelectPrecursor(precursorID int64, rank int) (core.Feature, error) {
	if rank <= 0 {
		rank = DefaultRank
	}
	for _, f := range t.rows {
		if f.PrecursorID == precursorID && f.Rank == rank {
			return f, nil
		}
	}
	return core.Feature{}, &core.NotFoundError{
		What: "precursor",
		Key:  fmt.Sprintf("%d rank %d", precursorID, rank),
	}
}

// Peptides returns the distinct modified sequences in table order.
func (t *FeatureTable) Peptides() []string {
	seen := make(map[string]bool)
	var peptides []string
	for _, f := range t.rows {
		if !seen[f.FullPeptideName] {
			seen[f.FullPeptideName] = true
			peptides = append(peptides, f.FullPeptideName)
		}
	}
	return peptides
}

// Charges returns the distinct precursor charges of a peptide, ascending.
func (t *FeatureTable) Charges(peptide string) []int {
	seen := make(map[int]bool)
	var charges []int
	for _, f := range t.rows {
		if f.FullPeptideName == peptide && !seen[f.Charge] {
			seen[f.Charge] = true
			charges = append(charges, f.Charge)
		}
	}
	sort.Ints(charges)
	return charges
}

// Features returns the features of a peptide and charge ordered by rank.
// A charge of 0 matches any charge.
func (t *FeatureTable) Features(peptide string, charge int) []core.Feature {
	var out []core.Feature
	for _, f := range t.rows {
		if f.FullPeptideName == peptide && (charge == 0 || f.Charge == charge) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Charge != out[j].Charge {
			return out[i].Charge < out[j].Charge
		}
		return out[i].Rank < out[j].Rank
	})
	return out
}

func chargeString(charge int) string {
	if charge == 0 {
		return "any"
	}
	return fmt.Sprintf("%d", charge)
}

// Cursor holds the current selection of an interactive session. It has a single
// writer: a failed selection leaves the previous one in place.
type Cursor struct {
	table    *FeatureTable
	current  core.Feature
	selected bool
}

// NewCursor returns a cursor with nothing selected.
func NewCursor(table *FeatureTable) *Cursor {
	return &Cursor{table: table}
}

// Select replaces the current selection on success.
func (c *Cursor) Select(peptide string, charge, rank int) (core.Feature, error) {
	f, err := c.table.Select(peptide, charge, rank)
	if err != nil {
		return core.Feature{}, err
	}
	c.current, c.selected = f, true
	return f, nil
}

// SelectFeatureID replaces the current selection on success.
func (c *Cursor) SelectFeatureID(peptide string, charge int, featureID int64) (core.Feature, error) {
	f, err := c.table.SelectFeatureID(peptide, charge, featureID)
	if err != nil {
		return core.Feature{}, err
	}
	c.current, c.selected = f, true
	return f, nil
}

// SelectPrecursor replaces the current selection on success.
func (c *Cursor) SelectPrecursor(precursorID int64, rank int) (core.Feature, error) {
	f, err := c.table.SelectPrecursor(precursorID, rank)
	if err != nil {
		return core.Feature{}, err
	}
	c.current, c.selected = f, true
	return f, nil
}

// Current returns the selected feature, if any.
func (c *Cursor) Current() (core.Feature, bool) {
	return c.current, c.selected
}

// Reset clears the selection.
func (c *Cursor) Reset() {
	c.current, c.selected = core.Feature{}, false
}
