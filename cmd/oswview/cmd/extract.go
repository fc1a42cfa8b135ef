package cmd

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/oswview/internal/logging"
	"github.com/ChrisMcGann/oswview/pkg/aggregate"
	"github.com/ChrisMcGann/oswview/pkg/core"
	"github.com/ChrisMcGann/oswview/pkg/extract"
	"github.com/ChrisMcGann/oswview/pkg/filter"
	"github.com/ChrisMcGann/oswview/pkg/osw"
	eventreader "github.com/ChrisMcGann/oswview/pkg/reader/events"
)

func (a *app) extractCommand() *cobra.Command {
	var (
		oswFile     string
		eventsFile  string
		peptide     string
		charge      int
		featureID   int64
		precursorID int64
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract precursor and fragment traces of a peptide",
		Long: `Select a peptide feature from an OSW file, resolve its extraction windows and
print the aggregated precursor and fragment traces from an event export.

Examples:
  # Extracted ion chromatograms of the best peak group
  oswview extract --osw results.osw --events run.csv --peptide PEPTIDEK --charge 2

  # Mobilograms of the second peak group with a 20 ppm window
  oswview extract --osw results.osw --events run.csv --peptide PEPTIDEK --charge 2 --rank 2 --axis mobility --ppm 20

  # RT x mobility heat maps of b and y ions only
  oswview extract --osw results.osw --events run.csv --peptide PEPTIDEK --heatmap --ion-types b,y

  # Best peak group of PRECURSOR.ID 42, singly charged fragments only
  oswview extract --osw results.osw --events run.csv --precursor-id 42 --max-charge 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.FromContext(ctx)
			s := a.settings

			axis, err := aggregate.ParseAxis(s.Output.Axis)
			if err != nil {
				return err
			}
			reducer, err := aggregate.ParseReducer(s.Output.Reducer)
			if err != nil {
				return err
			}

			fragFilter := &filter.Config{
				IonTypes:        s.Fragments.IonTypes,
				TopN:            s.Fragments.TopN,
				IntensityCutoff: s.Fragments.Cutoff,
				MaxCharge:       s.Fragments.MaxCharge,
			}
			if err := fragFilter.Validate(); err != nil {
				return err
			}

			f, err := osw.Open(oswFile)
			if err != nil {
				return err
			}
			defer f.Close()

			table, err := f.LoadFeatures(ctx)
			if err != nil {
				return err
			}

			cursor := osw.NewCursor(table)
			var feat core.Feature
			switch {
			case cmd.Flags().Changed("precursor-id"):
				feat, err = cursor.SelectPrecursor(precursorID, s.Selection.Rank)
			case cmd.Flags().Changed("feature-id"):
				feat, err = cursor.SelectFeatureID(peptide, charge, featureID)
			default:
				feat, err = cursor.Select(peptide, charge, s.Selection.Rank)
			}
			if err != nil {
				return err
			}
			if err := feat.Validate(); err != nil {
				return fmt.Errorf("feature %d cannot be extracted: %w", feat.FeatureID, err)
			}
			log.Infow("Selected feature", "feature", feat.Name(), "id", feat.FeatureID, "rank", feat.Rank,
				"rt", feat.RT, "im", feat.Mobility)

			fragOpts := osw.FragmentOptions{
				IncludeIdentifying: s.Fragments.IncludeIdentifying,
				ExcludeDetecting:   s.Fragments.ExcludeDetecting,
			}
			var fragments core.FragmentSet
			if cmd.Flags().Changed("precursor-id") {
				fragments, err = f.FragmentsByPrecursor(ctx, precursorID, fragOpts)
			} else {
				fragments, err = f.Fragments(ctx, feat, fragOpts)
			}
			if err != nil {
				return err
			}
			if fragFilter.Enabled() {
				fragments = fragFilter.Apply(fragments)
			}

			store, err := eventreader.ReadFile(eventsFile)
			if err != nil {
				return err
			}
			log.Infow("Loaded events", "path", eventsFile, "count", store.Len())

			res := extract.Run(ctx, store, extract.FromFeature(feat, fragments), s.WindowParams(), extract.Options{
				Axis:        axis,
				Heatmap:     s.Output.Heatmap,
				RemoveZeros: s.Output.RemoveZeros,
				Reducer:     reducer,
			})

			return printResult(cmd.OutOrStdout(), res, axis, s.Output.Heatmap)
		},
	}

	cmd.Flags().StringVar(&oswFile, "osw", "", "OSW result file (required)")
	cmd.Flags().StringVar(&eventsFile, "events", "", "Delimited event export, .csv or .tsv (required)")
	cmd.Flags().StringVar(&peptide, "peptide", "", "Modified peptide sequence")
	cmd.Flags().IntVar(&charge, "charge", 0, "Precursor charge (0 = lowest charge with a feature)")
	cmd.Flags().Int64Var(&featureID, "feature-id", 0, "Select a feature by id instead of rank")
	cmd.Flags().Int64Var(&precursorID, "precursor-id", 0, "Select by PRECURSOR.ID instead of --peptide and --charge")

	cmd.Flags().Int("rank", 1, "Peak group rank (1 = best)")
	cmd.Flags().Float64("ppm", 50, "m/z extraction tolerance in ppm")
	cmd.Flags().Float64("rt-width", 30, "RT extraction half-width in seconds")
	cmd.Flags().Float64("im-width", 0.05, "Mobility extraction half-width")
	cmd.Flags().Bool("include-identifying", false, "Include IPF identifying transitions")
	cmd.Flags().Bool("exclude-detecting", false, "Exclude detecting transitions")
	cmd.Flags().StringSlice("ion-types", nil, "Comma-separated ion types to keep (e.g., 'b,y')")
	cmd.Flags().Int("top-n", 0, "Keep only top N fragments by library intensity (0 = no limit)")
	cmd.Flags().Float64("cutoff", 0, "Library intensity cutoff as % of the most intense fragment (0 = no cutoff)")
	cmd.Flags().Int("max-charge", 0, "Keep only fragments up to this charge (0 = no limit)")
	cmd.Flags().String("axis", "rt", "Group axis of traces: frame, rt, scan, mobility, mz")
	cmd.Flags().String("reducer", "sum", "Reducer: sum, max, mean")
	cmd.Flags().Bool("heatmap", false, "Print RT x mobility grids instead of traces")
	cmd.Flags().Bool("remove-zeros", true, "Drop zero-intensity trace points")

	a.bindFlags(cmd, map[string]string{
		"rank":                "selection.rank",
		"ppm":                 "extraction.ppm",
		"rt-width":            "extraction.rtwidth",
		"im-width":            "extraction.imwidth",
		"include-identifying": "fragments.includeidentifying",
		"exclude-detecting":   "fragments.excludedetecting",
		"ion-types":           "fragments.iontypes",
		"top-n":               "fragments.topn",
		"cutoff":              "fragments.cutoff",
		"max-charge":          "fragments.maxcharge",
		"axis":                "output.axis",
		"reducer":             "output.reducer",
		"heatmap":             "output.heatmap",
		"remove-zeros":        "output.removezeros",
	})

	cmd.MarkFlagRequired("osw")
	cmd.MarkFlagRequired("events")
	cmd.MarkFlagsOneRequired("peptide", "precursor-id")
	cmd.MarkFlagsMutuallyExclusive("peptide", "precursor-id")
	cmd.MarkFlagsMutuallyExclusive("feature-id", "precursor-id")

	return cmd
}

// printResult writes one tab-separated row per trace point or grid cell.
func printResult(out io.Writer, res extract.Result, axis aggregate.Axis, heatmap bool) error {
	w := bufio.NewWriter(out)

	fmt.Fprintf(w, "# %s\n", res.Title)
	fmt.Fprintf(w, "# peak rt %.2f-%.2f mobility %.2f-%.2f\n",
		res.PeakRT.Lo, res.PeakRT.Hi, res.PeakMobility.Lo, res.PeakMobility.Hi)
	if heatmap {
		fmt.Fprintln(w, "trace\tmz\trt\tmobility\tintensity")
	} else {
		fmt.Fprintf(w, "trace\tmz\t%s\tintensity\n", axis)
	}

	traces := append([]extract.Trace{res.Precursor}, res.Fragments...)
	for _, t := range traces {
		if heatmap {
			for _, c := range t.Grid.Cells() {
				fmt.Fprintf(w, "%s\t%.4f\t%g\t%g\t%g\n", t.Label, t.MZ, c.X, c.Y, c.Value)
			}
			continue
		}
		for _, p := range t.Line {
			fmt.Fprintf(w, "%s\t%.4f\t%g\t%g\n", t.Label, t.MZ, p.X, p.Y)
		}
	}

	return w.Flush()
}
