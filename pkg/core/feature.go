package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Feature is one scored peptide-charge hypothesis read from an OSW result file.
type Feature struct {
	PrecursorID int64
	PeptideID   int64
	FeatureID   int64
	RunID       int64

	FullPeptideName string // Modified sequence, e.g. "PEPT(Phospho)IDEK"
	Sequence        string // Unmodified sequence
	Charge          int
	PrecursorMZ     float64

	RT         float64 // Apex retention time in seconds
	LeftWidth  float64 // RT window start in seconds
	RightWidth float64 // RT window end in seconds

	Mobility      float64
	MobilityLeft  float64 // Mobility window lower bound
	MobilityRight float64 // Mobility window upper bound

	Intensity float64 // FEATURE_MS2 area intensity
	Rank      int     // Peak group rank, 1 = best
	MS2QValue float64

	// IPFQValue is nil when the file carries no usable IPF augmentation.
	IPFQValue *float64
}

// Name returns the feature name in format "FullPeptideName/Charge".
func (f *Feature) Name() string {
	return fmt.Sprintf("%s/%d", f.FullPeptideName, f.Charge)
}

// Title returns the plot title used for extractions, "FullPeptideName_Charge".
func (f *Feature) Title() string {
	return fmt.Sprintf("%s_%d", f.FullPeptideName, f.Charge)
}

// RTWindow returns the peak boundaries reported for the feature.
func (f *Feature) RTWindow() Range {
	return Range{Lo: f.LeftWidth, Hi: f.RightWidth}
}

// MobilityWindow returns the mobility bounds attached to the feature.
func (f *Feature) MobilityWindow() Range {
	return Range{Lo: f.MobilityLeft, Hi: f.MobilityRight}
}

// Validate checks that the feature can be used as an extraction center.
func (f *Feature) Validate() error {
	var errs []string

	if f.FullPeptideName == "" {
		errs = append(errs, "peptide sequence is required")
	}
	if f.Charge <= 0 {
		errs = append(errs, "charge must be positive")
	}
	if !(f.PrecursorMZ > 0) || math.IsInf(f.PrecursorMZ, 0) {
		errs = append(errs, "precursor m/z must be positive and finite")
	}
	if math.IsNaN(f.RT) || math.IsInf(f.RT, 0) {
		errs = append(errs, "retention time must be finite")
	}
	if math.IsNaN(f.Mobility) || math.IsInf(f.Mobility, 0) {
		errs = append(errs, "mobility must be finite")
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   "Feature",
			Message: strings.Join(errs, "; "),
		}
	}
	return nil
}

// Fragment is a product ion monitored for a precursor.
type Fragment struct {
	Label            string // Ion type + ordinal, e.g. "y5" or "b3^2"
	Type             string
	Ordinal          int
	Charge           int
	MZ               float64
	LibraryIntensity float64
	Detecting        bool
	Identifying      bool
}

// FragmentLabel builds a fragment label from ion type, ordinal and charge.
// The charge suffix is only added for multiply charged fragments.
func FragmentLabel(ionType string, ordinal, charge int) string {
	if charge > 1 {
		return fmt.Sprintf("%s%d^%d", ionType, ordinal, charge)
	}
	return fmt.Sprintf("%s%d", ionType, ordinal)
}

// FragmentSet is the list of fragments scoped to one feature's peptide and charge.
type FragmentSet []Fragment

// Map returns the label -> m/z mapping of the set.
func (fs FragmentSet) Map() map[string]float64 {
	m := make(map[string]float64, len(fs))
	for _, f := range fs {
		m[f.Label] = f.MZ
	}
	return m
}

// Labels returns the fragment labels in set order.
func (fs FragmentSet) Labels() []string {
	labels := make([]string, len(fs))
	for i, f := range fs {
		labels[i] = f.Label
	}
	return labels
}

// SortByMZ sorts fragments by m/z in ascending order.
func (fs FragmentSet) SortByMZ() {
	sort.SliceStable(fs, func(i, j int) bool {
		return fs[i].MZ < fs[j].MZ
	})
}
