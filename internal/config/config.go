// Package config loads oswview settings from defaults, an optional YAML file,
// OSWVIEW_* environment variables and bound command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/ChrisMcGann/oswview/pkg/window"
)

// EnvPrefix is the prefix of environment overrides, e.g. OSWVIEW_EXTRACTION_PPM.
const EnvPrefix = "OSWVIEW"

// Settings is the complete oswview configuration.
type Settings struct {
	Debug bool

	Extraction struct {
		PPM     float64 // m/z tolerance in ppm
		RTWidth float64 // RT half-width in seconds
		IMWidth float64 // mobility half-width
	}

	Selection struct {
		Rank int // peak group rank, 1 = best
	}

	Fragments struct {
		IncludeIdentifying bool
		ExcludeDetecting   bool
		IonTypes           []string
		TopN               int
		Cutoff             float64 // % of the most intense library fragment
		MaxCharge          int     // 0 = any fragment charge
	}

	Output struct {
		Axis        string
		Reducer     string
		RemoveZeros bool
		Heatmap     bool
	}
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("extraction.ppm", window.DefaultPPM)
	v.SetDefault("extraction.rtwidth", window.DefaultRTHalfWidth)
	v.SetDefault("extraction.imwidth", window.DefaultMobilityHalfWidth)

	v.SetDefault("selection.rank", 1)

	v.SetDefault("fragments.includeidentifying", false)
	v.SetDefault("fragments.excludedetecting", false)
	v.SetDefault("fragments.iontypes", []string{})
	v.SetDefault("fragments.topn", 0)
	v.SetDefault("fragments.cutoff", 0.0)
	v.SetDefault("fragments.maxcharge", 0)

	v.SetDefault("output.axis", "rt")
	v.SetDefault("output.reducer", "sum")
	v.SetDefault("output.removezeros", true)
	v.SetDefault("output.heatmap", false)
}

// New returns a viper instance with defaults and environment overrides configured.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configFile (if non-empty) into v and unmarshals the settings.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("config file not found: %s", configFile)
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks value ranges that would otherwise surface as empty extractions.
func (s *Settings) Validate() error {
	if s.Extraction.PPM <= 0 {
		return fmt.Errorf("extraction.ppm must be positive, got %v", s.Extraction.PPM)
	}
	if s.Extraction.RTWidth < 0 {
		return fmt.Errorf("extraction.rtwidth must not be negative, got %v", s.Extraction.RTWidth)
	}
	if s.Extraction.IMWidth < 0 {
		return fmt.Errorf("extraction.imwidth must not be negative, got %v", s.Extraction.IMWidth)
	}
	if s.Selection.Rank < 1 {
		return fmt.Errorf("selection.rank must be at least 1, got %d", s.Selection.Rank)
	}
	if s.Fragments.TopN < 0 {
		return fmt.Errorf("fragments.topn must not be negative, got %d", s.Fragments.TopN)
	}
	if s.Fragments.MaxCharge < 0 {
		return fmt.Errorf("fragments.maxcharge must not be negative, got %d", s.Fragments.MaxCharge)
	}
	if s.Fragments.Cutoff < 0 || s.Fragments.Cutoff > 100 {
		return fmt.Errorf("fragments.cutoff must be between 0 and 100, got %v", s.Fragments.Cutoff)
	}
	return nil
}

// WindowParams returns the extraction tolerances.
func (s *Settings) WindowParams() window.Params {
	return window.Params{
		PPM:               s.Extraction.PPM,
		RTHalfWidth:       s.Extraction.RTWidth,
		MobilityHalfWidth: s.Extraction.IMWidth,
	}
}
