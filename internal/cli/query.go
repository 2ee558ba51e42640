package cli

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/nuclide-data/internal/domain"
	"github.com/couchcryptid/nuclide-data/internal/uncertain"
)

var propertyHeader = table.Row{"Property", "Value"}

// atomicNumber reads an argument as a Z or an element symbol.
func atomicNumber(tables *domain.Tables, arg string) (int, error) {
	if z, err := strconv.Atoi(arg); err == nil {
		return z, nil
	}
	return tables.Z(arg)
}

func massNumber(arg string) (int, error) {
	a, err := strconv.Atoi(arg)
	if err != nil || a < 1 {
		return 0, fmt.Errorf("%w: mass number %q", domain.ErrInvalidIdentity, arg)
	}
	return a, nil
}

func newIsotopesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "isotopes <Z|symbol>",
		Short: "List the ground states tabulated for an element",
		Example: `  nuclides isotopes 92
  nuclides isotopes Am -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := a.loadTables(cmd.Context())
			if err != nil {
				return err
			}
			z, err := atomicNumber(tables, args[0])
			if err != nil {
				return err
			}
			as, err := tables.Isotopes(z)
			if err != nil {
				return err
			}

			records := make([]domain.Nuclide, 0, len(as))
			rows := make([]table.Row, 0, len(as))
			for _, mass := range as {
				rec, err := tables.Nuc(z, mass, 0)
				if err != nil {
					return err
				}
				records = append(records, rec)
				rows = append(rows, table.Row{rec.A, rec.String(), formatValue(rec.HalfLife), formatValue(rec.Abundance)})
			}
			return a.emit(cmd.OutOrStdout(), records, table.Row{"A", "Nuclide", "Half-life (s)", "Abundance"}, rows)
		},
	}
}

func newNucCmd(a *app) *cobra.Command {
	var energy float64
	cmd := &cobra.Command{
		Use:   "nuc <Z|symbol> <A>",
		Short: "Show the record of one nuclear level",
		Example: `  nuclides nuc 92 235
  nuclides nuc Am 242 --energy 0.0486`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := a.loadTables(cmd.Context())
			if err != nil {
				return err
			}
			z, err := atomicNumber(tables, args[0])
			if err != nil {
				return err
			}
			mass, err := massNumber(args[1])
			if err != nil {
				return err
			}
			rec, err := tables.Nuc(z, mass, energy)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), rec, propertyHeader, nuclideRows(rec))
		},
	}
	cmd.Flags().Float64VarP(&energy, "energy", "e", 0, "excitation energy in MeV")
	return cmd
}

func newIsomersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "isomers <Z|symbol> <A>",
		Short: "List the excitation energies of the isomers of a nuclide",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := a.loadTables(cmd.Context())
			if err != nil {
				return err
			}
			z, err := atomicNumber(tables, args[0])
			if err != nil {
				return err
			}
			mass, err := massNumber(args[1])
			if err != nil {
				return err
			}
			es, err := tables.Isomers(z, mass)
			if err != nil {
				return err
			}

			rows := make([]table.Row, 0, len(es))
			for _, e := range es {
				rec, err := tables.Nuc(z, mass, e)
				if err != nil {
					return err
				}
				rows = append(rows, table.Row{rec.String(), formatFloat(e), formatValue(rec.HalfLife)})
			}
			return a.emit(cmd.OutOrStdout(), es, table.Row{"Nuclide", "Energy (MeV)", "Half-life (s)"}, rows)
		},
	}
}

// weightResult is the JSON form of the weight command.
type weightResult struct {
	Identity string          `json:"identity"`
	A        int             `json:"a,omitempty"`
	Energy   float64         `json:"excitation_energy,omitempty"`
	Weight   uncertain.Value `json:"weight"`
}

func newWeightCmd(a *app) *cobra.Command {
	var energy float64
	cmd := &cobra.Command{
		Use:   "weight <Z|symbol|symbol-A> [A]",
		Short: "Show a standard atomic weight or an isotope weight",
		Long: `weight prints the standard atomic weight of an element, or the weight of
one isotope when a mass number is given either in the identity ("U-235") or
as a second argument.`,
		Example: `  nuclides weight U
  nuclides weight U-235
  nuclides weight 92 235
  nuclides weight Am 242 --energy 0.0486`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIdentityArg(args[0])
			if err != nil {
				return err
			}
			mass := 0
			if len(args) == 2 {
				if mass, err = massNumber(args[1]); err != nil {
					return err
				}
			}

			tables, err := a.loadTables(cmd.Context())
			if err != nil {
				return err
			}
			w, err := tables.Weights(id, mass, energy)
			if err != nil {
				return err
			}

			res := weightResult{Identity: id.String(), A: mass, Energy: energy, Weight: w}
			rows := []table.Row{{res.Identity, orNone(massText(mass)), formatFloat(energy), w.String()}}
			return a.emit(cmd.OutOrStdout(), res, table.Row{"Identity", "A", "Energy (MeV)", "Weight (u)"}, rows)
		},
	}
	cmd.Flags().Float64VarP(&energy, "energy", "e", 0, "excitation energy in MeV")
	return cmd
}

// parseIdentityArg reads "92" as an atomic number and anything else as a
// symbol or "symbol-A" token.
func parseIdentityArg(arg string) (domain.Identity, error) {
	if z, err := strconv.Atoi(arg); err == nil {
		return domain.ByNumber(z), nil
	}
	return domain.ParseIdentity(arg)
}

func massText(a int) string {
	if a == 0 {
		return ""
	}
	return strconv.Itoa(a)
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name>",
		Short: "Look up a nuclide by name or ZAID",
		Long: `resolve accepts the usual spellings of a nuclide name: "U235", "U-235",
"235U", ZAIDs such as "92235" or "92235.70c", and metastable names such as
"Am242m". A suffix letter selects the isomer by its position in ascending
excitation energy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseNuclideID(args[0])
			if err != nil {
				return err
			}
			tables, err := a.loadTables(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := tables.Resolve(id)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), rec, propertyHeader, nuclideRows(rec))
		},
	}
}
