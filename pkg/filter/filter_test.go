package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ChrisMcGann/oswview/pkg/core"
)

func testFragments() core.FragmentSet {
	return core.FragmentSet{
		{Label: "y5", Type: "y", Ordinal: 5, Charge: 1, MZ: 589.30, LibraryIntensity: 100},
		{Label: "b3", Type: "b", Ordinal: 3, Charge: 1, MZ: 327.14, LibraryIntensity: 50},
		{Label: "y4^2", Type: "y", Ordinal: 4, Charge: 2, MZ: 245.63, LibraryIntensity: 30},
		{Label: "b6", Type: "b", Ordinal: 6, Charge: 1, MZ: 650.31, LibraryIntensity: 4},
	}
}

func labels(fs core.FragmentSet) []string {
	return fs.Labels()
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   []string
	}{
		{
			name:   "no filters sorts by m/z",
			config: Config{},
			want:   []string{"y4^2", "b3", "y5", "b6"},
		},
		{
			name:   "ion type",
			config: Config{IonTypes: []string{"y"}},
			want:   []string{"y4^2", "y5"},
		},
		{
			name:   "ion type is case insensitive",
			config: Config{IonTypes: []string{"B"}},
			want:   []string{"b3", "b6"},
		},
		{
			name:   "intensity cutoff",
			config: Config{IntensityCutoff: 30},
			want:   []string{"y4^2", "b3", "y5"},
		},
		{
			name:   "top n",
			config: Config{TopN: 2},
			want:   []string{"b3", "y5"},
		},
		{
			name:   "max charge",
			config: Config{MaxCharge: 1},
			want:   []string{"b3", "y5", "b6"},
		},
		{
			name:   "combined",
			config: Config{IonTypes: []string{"b"}, TopN: 1},
			want:   []string{"b3"},
		},
		{
			name:   "nothing left",
			config: Config{IonTypes: []string{"c"}},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labels(tt.config.Apply(testFragments()))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyLeavesInputUntouched(t *testing.T) {
	fs := testFragments()
	before := labels(fs)

	c := Config{TopN: 1}
	_ = c.Apply(fs)

	if diff := cmp.Diff(before, labels(fs)); diff != "" {
		t.Errorf("Apply() modified its input (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"zero value", Config{}, false},
		{"negative top n", Config{TopN: -1}, true},
		{"cutoff above 100", Config{IntensityCutoff: 120}, true},
		{"empty ion type", Config{IonTypes: []string{""}}, true},
		{"negative max charge", Config{MaxCharge: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseIonAnnotation(t *testing.T) {
	tests := []struct {
		annotation string
		want       ionAnnotationInfo
		wantErr    bool
	}{
		{annotation: "y3", want: ionAnnotationInfo{ionType: "y", position: 3, charge: 1}},
		{annotation: "b2^2", want: ionAnnotationInfo{ionType: "b", position: 2, charge: 2}},
		{annotation: "y10^3", want: ionAnnotationInfo{ionType: "y", position: 10, charge: 3}},
		{annotation: "precursor", wantErr: true},
		{annotation: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.annotation, func(t *testing.T) {
			got, err := parseIonAnnotation(tt.annotation)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseIonAnnotation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, *got, cmp.AllowUnexported(ionAnnotationInfo{})); diff != "" {
				t.Errorf("parseIonAnnotation() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
