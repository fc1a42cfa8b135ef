package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChrisMcGann/oswview/pkg/core"
	"github.com/ChrisMcGann/oswview/pkg/osw"
	"github.com/ChrisMcGann/oswview/pkg/writer/sqlite"
)

func (a *app) mapCodenamesCommand() *cobra.Command {
	var oswFile string

	cmd := &cobra.Command{
		Use:   "map-codenames",
		Short: "Write the UniMod to codename peptide mapping into an OSW file",
		Long: `Pair PEPTIDE rows that differ only in modification notation, "(UniMod:35)"
versus "(Oxidation)", and write the pairs to UNIMOD_CODENAME_MAPPING. IPF q-values
are only reported for files carrying this table. An existing table is replaced.

Example:
  oswview map-codenames --osw results.osw`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := osw.Open(oswFile)
			if err != nil {
				return err
			}
			peptides, err := f.PeptideRecords(ctx)
			f.Close()
			if err != nil {
				return err
			}

			mappings := core.BuildCodenameMapping(peptides)

			w, err := sqlite.NewMappingWriter(oswFile)
			if err != nil {
				return err
			}
			defer w.Close()

			if err := w.Write(ctx, mappings); err != nil {
				return err
			}

			paired := 0
			for _, m := range mappings {
				if m.CodenameID != core.UnpairedID && m.UnimodID != core.UnpairedID {
					paired++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Peptides: %d\n", len(peptides))
			fmt.Fprintf(out, "Mappings: %d (%d paired)\n", len(mappings), paired)
			fmt.Fprintf(out, "Output: %s\n", oswFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&oswFile, "osw", "", "OSW result file (required)")
	cmd.MarkFlagRequired("osw")

	return cmd
}
