package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/oswview/internal/logging"
	"github.com/ChrisMcGann/oswview/pkg/aggregate"
	"github.com/ChrisMcGann/oswview/pkg/core"
	eventreader "github.com/ChrisMcGann/oswview/pkg/reader/events"
	"github.com/ChrisMcGann/oswview/pkg/tdf"
	"github.com/ChrisMcGann/oswview/pkg/view"
)

func (a *app) panelsCommand() *cobra.Command {
	var (
		eventsFile  string
		tdfPath     string
		ms1         bool
		windowGroup int
		multiplex   int
		frame       int
		frameRange  string
		mobility    string
		mz          string
	)

	cmd := &cobra.Command{
		Use:   "panels",
		Short: "Print the linked heat map, spectrum, mobilogram and chromatogram of a frame",
		Long: `Compute the four linked panels of the frame browser for one view window:
the mobility x m/z heat map of a frame, its spectrum over the selected mobility
range, its mobilogram over the selected m/z range, and the chromatogram over both
ranges across all browsable frames.

Frames come from the event export, or from analysis.tdf: MS1 frames with --ms1,
or the frames of a DIA window group with --window-group. --frame-range lo:hi keeps
frames lo <= frame < hi.

Examples:
  # MS1 frames near frame 120
  oswview panels --events run.csv --tdf run.d --ms1 --frame 120

  # Window group 3, first multiplex window
  oswview panels --events run.csv --tdf run.d --window-group 3 --multiplex 1 --mobility 0.8:1.1

  # Frames 100 to 199 only
  oswview panels --events run.csv --frame-range 100:200`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logging.FromContext(ctx)

			store, err := eventreader.ReadFile(eventsFile)
			if err != nil {
				return err
			}

			src := frameSource{frames: store.Frames(), mz: view.DefaultMZ, times: store.FrameTimes()}
			if tdfPath != "" {
				src, err = tdfFrames(ctx, cmd.OutOrStdout(), tdfPath, ms1, windowGroup, multiplex)
				if err != nil {
					return err
				}
			}

			win, err := view.NewWindow(src.frames)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("frame-range") {
				lo, hi, err := parseFrameRange(frameRange)
				if err != nil {
					return err
				}
				if err := win.Restrict(lo, hi); err != nil {
					return fmt.Errorf("frame range %s: %w", frameRange, err)
				}
			}

			mzRange := src.mz
			if cmd.Flags().Changed("mz") {
				if mzRange, err = parseRange(mz); err != nil {
					return err
				}
			}
			mobRange := view.DefaultMobility
			if cmd.Flags().Changed("mobility") {
				if mobRange, err = parseRange(mobility); err != nil {
					return err
				}
			}

			dash := view.NewDashboard(win, view.NewPanels(store), nil)
			win.SetMZ(mzRange)
			win.SetMobility(mobRange)
			if cmd.Flags().Changed("frame") {
				got := win.Tap(frame)
				if got != frame {
					log.Infow("Snapped to nearest frame", "requested", frame, "frame", got)
				}
			}

			return printSnapshot(cmd.OutOrStdout(), dash.Snapshot(), src.times)
		},
	}

	cmd.Flags().StringVar(&eventsFile, "events", "", "Delimited event export, .csv or .tsv (required)")
	cmd.Flags().StringVar(&tdfPath, "tdf", "", "Bruker .d directory or analysis.tdf for frame selection")
	cmd.Flags().BoolVar(&ms1, "ms1", false, "Browse MS1 frames (requires --tdf)")
	cmd.Flags().IntVar(&windowGroup, "window-group", 0, "Browse the frames of a DIA window group (requires --tdf)")
	cmd.Flags().IntVar(&multiplex, "multiplex", 1, "Isolation window of the window group, from 1")
	cmd.Flags().IntVar(&frame, "frame", 0, "Frame to show, snapped to the nearest browsable frame")
	cmd.Flags().StringVar(&frameRange, "frame-range", "", "Browsable frames lo:hi, upper bound excluded")
	cmd.Flags().StringVar(&mobility, "mobility", "", "Selected mobility range lo:hi (default 0.6:1.5)")
	cmd.Flags().StringVar(&mz, "mz", "", "Selected m/z range lo:hi (default 400:1200, or the isolation window)")
	cmd.MarkFlagRequired("events")
	cmd.MarkFlagsMutuallyExclusive("ms1", "window-group")

	return cmd
}

// frameSource is the browsable frame list, the default m/z selection and the
// retention time of each frame.
type frameSource struct {
	frames []int
	mz     core.Range
	times  map[int]float64
}

// tdfFrames resolves the browsable frames from analysis.tdf. For a window group
// it also prints the isolation window and uses its m/z range.
func tdfFrames(ctx context.Context, out io.Writer, path string, ms1 bool, group, multiplex int) (frameSource, error) {
	f, err := tdf.Open(path)
	if err != nil {
		return frameSource{}, err
	}
	defer f.Close()

	src := frameSource{mz: view.DefaultMZ}
	switch {
	case ms1:
		if src.frames, err = f.MS1Frames(ctx); err != nil {
			return frameSource{}, err
		}
	case group > 0:
		iso, err := f.Isolation(ctx, group, multiplex)
		if err != nil {
			return frameSource{}, err
		}
		if src.frames, err = f.WindowGroupFrames(ctx, group); err != nil {
			return frameSource{}, err
		}
		fmt.Fprintf(out, "# window group %d multiplex %d: scans %d-%d, isolation %.2f +/- %.2f\n",
			group, multiplex, iso.ScanNumBegin, iso.ScanNumEnd, iso.IsolationMZ, iso.IsolationWidth/2)
		src.mz = iso.MZ()
	default:
		return frameSource{}, fmt.Errorf("--tdf needs --ms1 or --window-group")
	}

	if src.times, err = f.FrameTimes(ctx); err != nil {
		return frameSource{}, err
	}
	return src, nil
}

// parseFrameRange parses "lo:hi" frame indices.
func parseFrameRange(s string) (int, int, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid frame range %q, expected lo:hi", s)
	}
	l, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid frame range %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid frame range %q: %w", s, err)
	}
	if l >= h {
		return 0, 0, fmt.Errorf("invalid frame range %q, empty range", s)
	}
	return l, h, nil
}

func printSnapshot(out io.Writer, snap view.Snapshot, times map[int]float64) error {
	w := bufio.NewWriter(out)
	s := snap.State

	fmt.Fprintf(w, "# frame %d", s.Frame)
	if rt, ok := times[s.Frame]; ok {
		fmt.Fprintf(w, " (rt %.2f)", rt)
	}
	fmt.Fprintf(w, " mobility %s mz %s\n", s.Mobility, s.MZ)

	fmt.Fprintf(w, "## heatmap total %g\n", snap.Heatmap.Total())
	fmt.Fprintln(w, "mobility\tmz\tintensity")
	for _, c := range snap.Heatmap.Cells() {
		fmt.Fprintf(w, "%g\t%g\t%g\n", c.X, c.Y, c.Value)
	}

	printPoints(w, "spectrum", "mz", snap.Spectrum)
	printPoints(w, "mobilogram", "mobility", snap.Mobilogram)
	printPoints(w, "chromatogram", "frame", snap.Chromatogram)

	return w.Flush()
}

func printPoints(w io.Writer, title, axis string, points []aggregate.Point) {
	fmt.Fprintf(w, "## %s\n", title)
	fmt.Fprintf(w, "%s\tintensity\n", axis)
	for _, p := range points {
		fmt.Fprintf(w, "%g\t%g\n", p.X, p.Y)
	}
}
