// Package cmd provides CLI command implementations
package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ChrisMcGann/oswview/internal/config"
	"github.com/ChrisMcGann/oswview/internal/logging"
	"github.com/ChrisMcGann/oswview/pkg/core"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	settings   *config.Settings
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}

// NewRootCommand builds the command tree with a fresh configuration.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "oswview",
		Short: "oswview - OSW feature extraction for ion-mobility data",
		Long: `oswview resolves identified peptide features from OpenSwath (OSW) result files
and extracts windowed, aggregated traces from 4-D ion-mobility event exports.

Settings come from defaults, an optional YAML file (--config), OSWVIEW_*
environment variables and command line flags, in increasing precedence.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	if err := a.v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		panic(err)
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(a.v, a.configFile)
		if err != nil {
			return err
		}
		a.settings = settings

		logger := logging.NewLogger(settings.Debug)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(logging.WithLogger(ctx, logger))
		return nil
	}

	rootCmd.AddCommand(
		a.featuresCommand(),
		a.extractCommand(),
		a.mapCodenamesCommand(),
		a.panelsCommand(),
	)

	return rootCmd
}

// bindFlags ties the named local flags of cmd to viper keys. A flag overrides the
// config file and environment only when set on the command line.
func (a *app) bindFlags(cmd *cobra.Command, keys map[string]string) {
	for name, key := range keys {
		if err := a.v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

// parseRange parses "lo:hi".
func parseRange(s string) (core.Range, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return core.Range{}, fmt.Errorf("invalid range %q, expected lo:hi", s)
	}
	l, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return core.Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return core.Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	if l > h {
		return core.Range{}, fmt.Errorf("invalid range %q, lower bound above upper bound", s)
	}
	return core.Range{Lo: l, Hi: h}, nil
}
