package cmd

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/oswview/pkg/core"
	"github.com/ChrisMcGann/oswview/pkg/osw"
)

func (a *app) featuresCommand() *cobra.Command {
	var (
		oswFile string
		peptide string
		charge  int
	)

	cmd := &cobra.Command{
		Use:   "features",
		Short: "List scored features of an OSW file",
		Long: `List the scored, non-decoy features of an OSW result file as a tab-separated table.

Examples:
  # List every feature
  oswview features --osw results.osw

  # List the peak groups of one precursor
  oswview features --osw results.osw --peptide PEPTIDEK --charge 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := osw.Open(oswFile)
			if err != nil {
				return err
			}
			defer f.Close()

			table, err := f.LoadFeatures(cmd.Context())
			if err != nil {
				return err
			}

			rows := table.Rows()
			if peptide != "" {
				rows = table.Features(peptide, charge)
				if len(rows) == 0 {
					return &core.NotFoundError{What: "peptide", Key: peptide}
				}
			}

			return printFeatures(cmd, rows, table.HasIPF())
		},
	}

	cmd.Flags().StringVar(&oswFile, "osw", "", "OSW result file (required)")
	cmd.Flags().StringVar(&peptide, "peptide", "", "Only list features of this modified sequence")
	cmd.Flags().IntVar(&charge, "charge", 0, "Only list features of this charge (0 = any)")
	cmd.MarkFlagRequired("osw")

	return cmd
}

func printFeatures(cmd *cobra.Command, rows []core.Feature, withIPF bool) error {
	w := bufio.NewWriter(cmd.OutOrStdout())

	fmt.Fprint(w, "feature_id\tpeptide\tcharge\trank\tmz\trt\tleft_width\tright_width\tim\tintensity\tms2_qvalue")
	if withIPF {
		fmt.Fprint(w, "\tipf_qvalue")
	}
	fmt.Fprintln(w)

	for _, f := range rows {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.4f\t%.2f\t%.2f\t%.2f\t%.4f\t%g\t%g",
			f.FeatureID, f.FullPeptideName, f.Charge, f.Rank, f.PrecursorMZ,
			f.RT, f.LeftWidth, f.RightWidth, f.Mobility, f.Intensity, f.MS2QValue)
		if withIPF {
			if f.IPFQValue != nil {
				fmt.Fprintf(w, "\t%g", *f.IPFQValue)
			} else {
				fmt.Fprint(w, "\tNA")
			}
		}
		fmt.Fprintln(w)
	}

	return w.Flush()
}
