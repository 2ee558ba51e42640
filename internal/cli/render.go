package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/couchcryptid/nuclide-data/internal/domain"
	"github.com/couchcryptid/nuclide-data/internal/uncertain"
)

const none = "-"

// emit writes data as indented JSON or rows as a table, per --output.
func (a *app) emit(w io.Writer, data any, header table.Row, rows []table.Row) error {
	if a.output == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.Render()
	return nil
}

// nuclideRows renders one record as property/value rows.
func nuclideRows(n domain.Nuclide) []table.Row {
	mass := formatValue(n.MassExcess)
	if n.SystematicMass && n.MassExcess != nil {
		mass += " (systematics)"
	}
	return []table.Row{
		{"Nuclide", n.String()},
		{"Z", n.Z},
		{"A", n.A},
		{"Excitation energy (MeV)", formatFloat(n.E)},
		{"Spin/parity", orNone(n.SpinParity)},
		{"Stable", n.Stable},
		{"Half-life (s)", formatValue(n.HalfLife)},
		{"Decay constant (1/s)", formatValue(n.DecayConstant)},
		{"Abundance", formatValue(n.Abundance)},
		{"Weight (u)", formatValue(n.Weight)},
		{"Mass excess (MeV)", mass},
		{"Decay modes", formatModes(n.DecayModes)},
		{"ENDF MAT", orNone(matText(n.MAT))},
	}
}

func formatValue(v *uncertain.Value) string {
	if v == nil {
		return none
	}
	return v.String()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func matText(mat int) string {
	if mat == 0 {
		return ""
	}
	return strconv.Itoa(mat)
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}

// formatModes lists decay modes alphabetically as "label branch".
func formatModes(modes map[string]domain.DecayMode) string {
	if len(modes) == 0 {
		return none
	}
	labels := make([]string, 0, len(modes))
	for label := range modes {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	parts := make([]string, len(labels))
	for i, label := range labels {
		branch := "?"
		if b := modes[label].Branch; b != nil {
			branch = formatFloat(*b)
		}
		parts[i] = fmt.Sprintf("%s %s", label, branch)
	}
	return strings.Join(parts, ", ")
}
