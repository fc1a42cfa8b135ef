// Package filter provides fragment set filtering
package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/oswview/pkg/core"
)

// Config holds filtering configuration
type Config struct {
	IonTypes        []string // Keep only specified ion types (nil = all)
	TopN            int      // Keep only top N fragments by library intensity (0 = no limit)
	IntensityCutoff float64  // Keep only fragments above this % of the most intense (0 = no cutoff)
	MaxCharge       int      // Keep only fragments up to this charge (0 = no limit)
}

// Enabled reports whether any filter is configured.
func (c *Config) Enabled() bool {
	return len(c.IonTypes) > 0 || c.TopN > 0 || c.IntensityCutoff > 0 || c.MaxCharge > 0
}

// Validate checks the configured values.
func (c *Config) Validate() error {
	if c.TopN < 0 {
		return &core.ValidationError{Field: "TopN", Message: fmt.Sprintf("must not be negative, got %d", c.TopN)}
	}
	if c.MaxCharge < 0 {
		return &core.ValidationError{Field: "MaxCharge", Message: fmt.Sprintf("must not be negative, got %d", c.MaxCharge)}
	}
	if c.IntensityCutoff < 0 || c.IntensityCutoff > 100 {
		return &core.ValidationError{Field: "IntensityCutoff", Message: fmt.Sprintf("must be within [0, 100], got %g", c.IntensityCutoff)}
	}
	for _, t := range c.IonTypes {
		if t == "" {
			return &core.ValidationError{Field: "IonTypes", Message: "empty ion type"}
		}
	}
	return nil
}

// Apply returns a filtered copy of fs sorted by m/z. fs is not modified.
func (c *Config) Apply(fs core.FragmentSet) core.FragmentSet {
	out := make(core.FragmentSet, len(fs))
	copy(out, fs)

	// Filter by ion type first
	if len(c.IonTypes) > 0 {
		out = filterByIonType(out, c.IonTypes)
	}

	if c.MaxCharge > 0 {
		out = filterByCharge(out, c.MaxCharge)
	}

	if c.IntensityCutoff > 0 {
		out = filterByIntensity(out, c.IntensityCutoff)
	}

	if c.TopN > 0 {
		out = filterTopN(out, c.TopN)
	}

	out.SortByMZ()
	return out
}

func filterByIonType(fs core.FragmentSet, ionTypes []string) core.FragmentSet {
	filtered := core.FragmentSet{}
	for _, f := range fs {
		if matchesIonType(f.Label, ionTypes) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// matchesIonType checks if a label matches any of the allowed ion types
func matchesIonType(label string, ionTypes []string) bool {
	if label == "" {
		return false
	}

	info, err := parseIonAnnotation(label)
	if err != nil {
		return false
	}
	for _, ionType := range ionTypes {
		if strings.EqualFold(info.ionType, ionType) {
			return true
		}
	}
	return false
}

// filterByCharge uses the charge encoded in the label, falling back to the
// fragment's own charge for unparseable labels.
func filterByCharge(fs core.FragmentSet, maxCharge int) core.FragmentSet {
	filtered := core.FragmentSet{}
	for _, f := range fs {
		charge := f.Charge
		if info, err := parseIonAnnotation(f.Label); err == nil {
			charge = info.charge
		}
		if charge <= maxCharge {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// filterByIntensity removes fragments below the cutoff percentage of the most
// intense library fragment
func filterByIntensity(fs core.FragmentSet, cutoff float64) core.FragmentSet {
	if len(fs) == 0 {
		return fs
	}

	maxIntensity := 0.0
	for _, f := range fs {
		if f.LibraryIntensity > maxIntensity {
			maxIntensity = f.LibraryIntensity
		}
	}

	threshold := (cutoff / 100.0) * maxIntensity

	filtered := core.FragmentSet{}
	for _, f := range fs {
		if f.LibraryIntensity >= threshold {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// filterTopN keeps the n most intense fragments. Ties keep m/z order.
func filterTopN(fs core.FragmentSet, n int) core.FragmentSet {
	if len(fs) <= n {
		return fs
	}

	sorted := make(core.FragmentSet, len(fs))
	copy(sorted, fs)
	sorted.SortByMZ()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LibraryIntensity > sorted[j].LibraryIntensity
	})

	return sorted[:n]
}

// ionAnnotationInfo stores a parsed fragment label
type ionAnnotationInfo struct {
	ionType  string
	position int
	charge   int
}

var ionAnnotationRe = regexp.MustCompile(`^([a-zA-Z]+)(\d+)(?:\^(\d+))?$`)

// parseIonAnnotation parses labels like "y3", "b2^2", "y10^3"
func parseIonAnnotation(annotation string) (*ionAnnotationInfo, error) {
	matches := ionAnnotationRe.FindStringSubmatch(annotation)
	if matches == nil {
		return nil, fmt.Errorf("invalid ion annotation format: %s", annotation)
	}

	info := &ionAnnotationInfo{
		ionType: matches[1],
		charge:  1, // default charge
	}

	pos, err := strconv.Atoi(matches[2])
	if err != nil {
		return nil, fmt.Errorf("invalid position in annotation %s: %w", annotation, err)
	}
	info.position = pos

	if matches[3] != "" {
		charge, err := strconv.Atoi(matches[3])
		if err != nil {
			return nil, fmt.Errorf("invalid charge in annotation %s: %w", annotation, err)
		}
		info.charge = charge
	}

	return info, nil
}
