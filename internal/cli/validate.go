package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/nuclide-data/internal/domain"
)

// finding is one row of the validate report.
type finding struct {
	Kind   string `json:"kind"` // "warning" or "error"
	Key    string `json:"key,omitempty"`
	Detail string `json:"detail"`
}

func newValidateCmd(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load the tables and check their integrity",
		Long: `validate loads both source tables, reports the data-consistency warnings
raised while merging them and re-checks every invariant of the built tables.
It fails when an invariant is violated, or with --strict when any warning
was raised.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables, err := a.loadTables(cmd.Context())
			if err != nil {
				return err
			}

			var findings []finding
			for _, w := range tables.Warnings() {
				findings = append(findings, finding{Kind: "warning", Key: w.Key, Detail: w.Detail})
			}
			problems := domain.Audit(tables)
			for _, p := range problems {
				findings = append(findings, finding{Kind: "error", Detail: p.Error()})
			}

			out := cmd.OutOrStdout()
			if len(findings) == 0 && a.output != outputJSON {
				_, _ = fmt.Fprintf(out, "%d elements, %d nuclides: no problems found\n", len(tables.Elements()), tables.Len())
				return nil
			}

			rows := make([]table.Row, len(findings))
			for i, f := range findings {
				rows[i] = table.Row{f.Kind, orNone(f.Key), f.Detail}
			}
			if findings == nil {
				findings = []finding{}
			}
			if err := a.emit(out, findings, table.Row{"Kind", "Key", "Detail"}, rows); err != nil {
				return err
			}

			switch {
			case len(problems) > 0:
				return fmt.Errorf("validation failed: %d integrity problems", len(problems))
			case strict && len(tables.Warnings()) > 0:
				return fmt.Errorf("validation failed: %d data-consistency warnings", len(tables.Warnings()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat data-consistency warnings as failures")
	return cmd
}
