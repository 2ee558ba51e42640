// Package cli provides the nuclides command-line interface.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/nuclide-data/internal/config"
	"github.com/couchcryptid/nuclide-data/internal/observability"
)

// Version information (set at build time).
var Version = "dev"

// Output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	metrics *observability.Metrics
	cfg     *config.Config
	logger  *slog.Logger

	weightsPath string
	walletPath  string
	matPath     string
	output      string
}

// NewRootCmd creates the root command. Metrics are injected so tests can use
// a private registry.
func NewRootCmd(metrics *observability.Metrics) *cobra.Command {
	a := &app{metrics: metrics}

	root := &cobra.Command{
		Use:   "nuclides",
		Short: "Query nuclide, decay and atomic-weight tables",
		Long: `nuclides loads the atomic-weight table and the nuclear wallet cards,
merges them into one record per nuclear level and answers lookups against
the result.

Source locations come from NUCLIDE_WEIGHTS_PATH and NUCLIDE_WALLET_PATH
(or the --weights and --wallet flags). With NUCLIDE_SOURCE_DRIVER=s3 they
name object keys in NUCLIDE_S3_BUCKET. Gzipped tables are detected.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return a.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.weightsPath, "weights", "", "atomic-weight table (overrides NUCLIDE_WEIGHTS_PATH)")
	pf.StringVar(&a.walletPath, "wallet", "", "wallet-card table (overrides NUCLIDE_WALLET_PATH)")
	pf.StringVar(&a.matPath, "mat", "", "ENDF MAT list (overrides NUCLIDE_MAT_PATH)")
	pf.StringVarP(&a.output, "output", "o", outputTable, "output format (table|json)")

	_ = root.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{outputTable, outputJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		newIsotopesCmd(a),
		newNucCmd(a),
		newIsomersCmd(a),
		newWeightCmd(a),
		newResolveCmd(a),
		newValidateCmd(a),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
// Logs go to stderr so stdout carries only command output.
func (a *app) setup(cmd *cobra.Command) error {
	switch a.output {
	case outputTable, outputJSON:
	default:
		return fmt.Errorf("invalid --output %q: must be %s or %s", a.output, outputTable, outputJSON)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.weightsPath != "" {
		cfg.WeightsPath = a.weightsPath
	}
	if a.walletPath != "" {
		cfg.WalletPath = a.walletPath
	}
	if a.matPath != "" {
		cfg.MATPath = a.matPath
	}
	a.cfg = cfg
	a.logger = observability.NewLogger(cfg, cmd.ErrOrStderr())
	return nil
}
