package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/oswview/pkg/window"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, window.DefaultParams(), s.WindowParams())
	assert.Equal(t, 1, s.Selection.Rank)
	assert.False(t, s.Fragments.IncludeIdentifying)
	assert.False(t, s.Fragments.ExcludeDetecting)
	assert.Equal(t, "rt", s.Output.Axis)
	assert.True(t, s.Output.RemoveZeros)
	assert.Zero(t, s.Fragments.MaxCharge)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oswview.yaml")
	content := `
extraction:
  ppm: 20
  rtwidth: 45
selection:
  rank: 2
fragments:
  excludedetecting: true
  iontypes: [b, y]
  maxcharge: 1
output:
  axis: mobility
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, 20.0, s.Extraction.PPM)
	assert.Equal(t, 45.0, s.Extraction.RTWidth)
	assert.Equal(t, window.DefaultMobilityHalfWidth, s.Extraction.IMWidth)
	assert.Equal(t, 2, s.Selection.Rank)
	assert.True(t, s.Fragments.ExcludeDetecting)
	assert.Equal(t, []string{"b", "y"}, s.Fragments.IonTypes)
	assert.Equal(t, 1, s.Fragments.MaxCharge)
	assert.Equal(t, "mobility", s.Output.Axis)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("OSWVIEW_EXTRACTION_PPM", "15")

	s, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, 15.0, s.Extraction.PPM)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(v *Settings)
	}{
		{"zero ppm", func(s *Settings) { s.Extraction.PPM = 0 }},
		{"negative rt width", func(s *Settings) { s.Extraction.RTWidth = -1 }},
		{"rank zero", func(s *Settings) { s.Selection.Rank = 0 }},
		{"cutoff above 100", func(s *Settings) { s.Fragments.Cutoff = 150 }},
		{"negative max charge", func(s *Settings) { s.Fragments.MaxCharge = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(New(), "")
			require.NoError(t, err)
			tt.modify(s)
			assert.Error(t, s.Validate())
		})
	}
}
