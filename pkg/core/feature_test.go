package core

import (
	"math"
	"testing"
)

func TestFeatureValidation(t *testing.T) {
	tests := []struct {
		name    string
		feature *Feature
		wantErr bool
	}{
		{
			name: "valid feature",
			feature: &Feature{
				FullPeptideName: "PEPTIDEK",
				Charge:          2,
				PrecursorMZ:     500.25,
				RT:              600,
				Mobility:        0.95,
			},
			wantErr: false,
		},
		{
			name: "missing sequence",
			feature: &Feature{
				Charge:      2,
				PrecursorMZ: 500.25,
			},
			wantErr: true,
		},
		{
			name: "zero charge",
			feature: &Feature{
				FullPeptideName: "PEPTIDEK",
				PrecursorMZ:     500.25,
			},
			wantErr: true,
		},
		{
			name: "NaN m/z",
			feature: &Feature{
				FullPeptideName: "PEPTIDEK",
				Charge:          2,
				PrecursorMZ:     math.NaN(),
			},
			wantErr: true,
		},
		{
			name: "infinite mobility",
			feature: &Feature{
				FullPeptideName: "PEPTIDEK",
				Charge:          2,
				PrecursorMZ:     500.25,
				Mobility:        math.Inf(1),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.feature.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFeatureNames(t *testing.T) {
	f := &Feature{FullPeptideName: "PEPTIDEK", Charge: 3}

	if got := f.Name(); got != "PEPTIDEK/3" {
		t.Errorf("Expected name PEPTIDEK/3, got %s", got)
	}
	if got := f.Title(); got != "PEPTIDEK_3" {
		t.Errorf("Expected title PEPTIDEK_3, got %s", got)
	}
}

func TestFragmentLabel(t *testing.T) {
	tests := []struct {
		ionType string
		ordinal int
		charge  int
		want    string
	}{
		{"b", 3, 1, "b3"},
		{"y", 5, 0, "y5"},
		{"y", 10, 2, "y10^2"},
	}

	for _, tt := range tests {
		if got := FragmentLabel(tt.ionType, tt.ordinal, tt.charge); got != tt.want {
			t.Errorf("FragmentLabel(%s, %d, %d) = %s, want %s", tt.ionType, tt.ordinal, tt.charge, got, tt.want)
		}
	}
}

func TestFragmentSetMap(t *testing.T) {
	fs := FragmentSet{
		{Label: "y5", MZ: 600.3},
		{Label: "b3", MZ: 300.1},
	}

	fs.SortByMZ()
	if fs[0].Label != "b3" {
		t.Errorf("Expected b3 first after sort, got %s", fs[0].Label)
	}

	m := fs.Map()
	if len(m) != 2 || m["y5"] != 600.3 {
		t.Errorf("Unexpected fragment map: %v", m)
	}
}

func TestRange(t *testing.T) {
	r := Range{Lo: 1, Hi: 2}

	if !r.Contains(1) || !r.Contains(2) {
		t.Error("Expected closed range to contain its bounds")
	}
	if r.Contains(2.0001) {
		t.Error("Expected value above Hi to be excluded")
	}
	if !r.Overlaps(1.5, 3) || r.Overlaps(2.5, 3) {
		t.Error("Unexpected overlap result")
	}
	if r.Center() != 1.5 || r.Width() != 1 {
		t.Errorf("Unexpected center %v or width %v", r.Center(), r.Width())
	}
	if !Full().Contains(1e300) {
		t.Error("Expected full range to contain large values")
	}
}
