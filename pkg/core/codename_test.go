package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeModifiedSequence(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		want string
	}{
		{"codename", "PEPM(Oxidation)IDEK", "PEPM(@)IDEK"},
		{"unimod", "PEPM(UniMod:35)IDEK", "PEPM(@)IDEK"},
		{"unmodified", "PEPTIDEK", "PEPTIDEK"},
		{"terminal", ".(Acetyl)PEPTIDEK", ".(@)PEPTIDEK"},
		{"several", "S(Phospho)PEPM(UniMod:35)K", "S(@)PEPM(@)K"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeModifiedSequence(tt.seq); got != tt.want {
				t.Errorf("NormalizeModifiedSequence(%q) = %q, want %q", tt.seq, got, tt.want)
			}
		})
	}
}

func TestBuildCodenameMapping(t *testing.T) {
	peptides := []PeptideRecord{
		{ID: 1, ModifiedSequence: "PEPM(Oxidation)IDEK"},
		{ID: 2, ModifiedSequence: "PEPM(UniMod:35)IDEK"},
		{ID: 3, ModifiedSequence: "AAAK"},
		{ID: 4, ModifiedSequence: "C(UniMod:4)AAK"},
		{ID: 7, ModifiedSequence: "PEPM(Oxidation)IDEK"},
	}

	got := BuildCodenameMapping(peptides)
	want := []CodenameMapping{
		{CodenameID: 3, UnimodID: UnpairedID},
		{CodenameID: UnpairedID, UnimodID: 4},
		{CodenameID: 1, UnimodID: 2},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildCodenameMapping() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCodenameMappingEmpty(t *testing.T) {
	if got := BuildCodenameMapping(nil); len(got) != 0 {
		t.Errorf("Expected no mappings, got %v", got)
	}
}

func TestBuildCodenameMappingKeepsLowestID(t *testing.T) {
	peptides := []PeptideRecord{
		{ID: 9, ModifiedSequence: "PEPM(UniMod:35)IDEK"},
		{ID: 5, ModifiedSequence: "PEPM(UniMod:35)IDEK"},
		{ID: 8, ModifiedSequence: "PEPM(Oxidation)IDEK"},
	}

	got := BuildCodenameMapping(peptides)
	want := []CodenameMapping{{CodenameID: 8, UnimodID: 5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildCodenameMapping() mismatch (-want +got):\n%s", diff)
	}
}
