package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/sysutil"
)

// errStrict is returned by check --strict when lines were skipped.
type errStrict struct{ failed int }

func (e errStrict) Error() string {
	return fmt.Sprintf("%d line(s) could not be parsed", e.failed)
}

func newCheckCmd(g *globalFlags) *cobra.Command {
	var (
		showFailures int
		strict       bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load the export and print ingestion statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.config(cmd)
			if err != nil {
				return err
			}
			_, st, fails, err := loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printf(out, "source:       %s (%s)\n", cfg.Source.Path, cfg.Source.Encoding)
			printf(out, "lines:        %d\n", st.Lines)
			printf(out, "pairs:        %d\n", st.Pairs)
			printf(out, "failed lines: %d\n", st.FailedLines)
			printf(out, "records:      %d\n", st.Records)
			printf(out, "took:         %s\n", st.Duration)

			n := min(showFailures, len(fails))
			if n > 0 {
				printf(out, "\nfirst %d failure(s):\n", n)
				for _, f := range fails[:n] {
					printf(out, "  %v\n", f)
				}
			}

			if strict && st.FailedLines > 0 {
				return errStrict{failed: st.FailedLines}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&showFailures, "failures", 10, "number of failed lines to print")
	cmd.Flags().BoolVar(&strict, "strict", sysutil.IsTruthy(os.Getenv("CHECK_STRICT")), "exit non-zero when any line failed (CHECK_STRICT)")
	return cmd
}
