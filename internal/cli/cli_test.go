package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/nuclide-data/internal/cli"
	"github.com/couchcryptid/nuclide-data/internal/domain"
	"github.com/couchcryptid/nuclide-data/internal/observability"
)

// run executes the root command against the testdata tables and returns
// stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runWith(t, "testdata/weights.txt", "testdata/wallet.txt", args...)
}

func runWith(t *testing.T, weights, wallet string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("NUCLIDE_SOURCE_DRIVER", "fs")
	t.Setenv("LOG_LEVEL", "info")

	cmd := cli.NewRootCmd(observability.NewMetricsForTesting())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--weights", weights, "--wallet", wallet}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := cli.NewRootCmd(observability.NewMetricsForTesting())
	assert.Equal(t, "nuclides", cmd.Use)

	for _, name := range []string{"isotopes", "nuc", "isomers", "weight", "resolve", "validate"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
		assert.NotEmpty(t, sub.Short, "%s Short should not be empty", name)
	}
	for _, flag := range []string{"weights", "wallet", "mat", "output"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestIsotopes(t *testing.T) {
	t.Run("by number", func(t *testing.T) {
		out, stderr, err := run(t, "isotopes", "92")
		require.NoError(t, err)
		assert.Contains(t, out, "U-235")
		assert.Contains(t, out, "U-238")
		assert.NotContains(t, out, "level=")
		assert.Contains(t, stderr, "nuclide tables loaded")
	})

	t.Run("by symbol as json", func(t *testing.T) {
		out, _, err := run(t, "isotopes", "am", "-o", "json")
		require.NoError(t, err)
		var recs []domain.Nuclide
		require.NoError(t, json.Unmarshal([]byte(out), &recs))
		require.Len(t, recs, 2)
		assert.Equal(t, 241, recs[0].A)
		assert.Equal(t, 242, recs[1].A)
		assert.False(t, recs[1].Isomeric)
	})

	t.Run("unknown element", func(t *testing.T) {
		_, _, err := run(t, "isotopes", "Xx")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestNuc(t *testing.T) {
	out, _, err := run(t, "nuc", "95", "242", "--energy", "0.0486")
	require.NoError(t, err)
	assert.Contains(t, out, "Am-242m")
	assert.Regexp(t, `alpha 0\.004\d*, it 0\.99\d*`, out)

	out, _, err = run(t, "nuc", "Cm", "240")
	require.NoError(t, err)
	assert.Contains(t, out, "(systematics)")

	_, _, err = run(t, "nuc", "92", "300")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = run(t, "nuc", "92", "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)

	_, _, err = run(t, "nuc", "92")
	assert.Error(t, err)
}

func TestNuc_MATList(t *testing.T) {
	out, _, err := run(t, "--mat", "testdata/endf.list", "nuc", "92", "235", "-o", "json")
	require.NoError(t, err)
	var rec domain.Nuclide
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, 9228, rec.MAT)

	out, _, err = run(t, "--mat", "testdata/endf.list", "resolve", "Am242m")
	require.NoError(t, err)
	assert.Regexp(t, `ENDF MAT\s+\S*\s*9547`, out)

	t.Run("without a list", func(t *testing.T) {
		out, _, err := run(t, "nuc", "92", "235", "-o", "json")
		require.NoError(t, err)
		assert.NotContains(t, out, `"mat"`)
	})

	t.Run("half-life from the seconds column", func(t *testing.T) {
		out, _, err := run(t, "nuc", "Eu", "148", "-o", "json")
		require.NoError(t, err)
		var rec domain.Nuclide
		require.NoError(t, json.Unmarshal([]byte(out), &rec))
		require.NotNil(t, rec.HalfLife)
		assert.InDelta(t, 4.71e6, rec.HalfLife.Nominal, 1e-6)
	})
}

func TestIsomers(t *testing.T) {
	out, _, err := run(t, "isomers", "52", "115", "-o", "json")
	require.NoError(t, err)
	var es []float64
	require.NoError(t, json.Unmarshal([]byte(out), &es))
	assert.Equal(t, []float64{0.0201}, es)

	out, _, err = run(t, "isomers", "U", "235", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestWeight(t *testing.T) {
	type result struct {
		Weight struct {
			Nominal float64 `json:"nominal"`
		} `json:"weight"`
	}

	tests := []struct {
		name string
		args []string
		want float64
	}{
		{"element by symbol", []string{"U"}, 238.02891},
		{"element by number", []string{"92"}, 238.02891},
		{"compound token", []string{"U-235"}, 235.0439301},
		{"number and mass", []string{"92", "235"}, 235.0439301},
		{"isotope alias", []string{"D", "2"}, 2.01410177812},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := run(t, append([]string{"weight", "-o", "json"}, tc.args...)...)
			require.NoError(t, err)
			var got result
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.InDelta(t, tc.want, got.Weight.Nominal, 1e-12)
		})
	}

	t.Run("conflicting mass number", func(t *testing.T) {
		_, _, err := run(t, "weight", "U-235", "238")
		assert.ErrorIs(t, err, domain.ErrInvalidIdentity)
	})

	t.Run("no standard weight", func(t *testing.T) {
		_, _, err := run(t, "weight", "Am")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("table output", func(t *testing.T) {
		out, _, err := run(t, "weight", "U-238")
		require.NoError(t, err)
		assert.Contains(t, out, "238.0507884+/-")
	})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"U235", "U-235"},
		{"92238", "U-238"},
		{"92235.70c", "U-235"},
		{"Am242m", "Am-242m"},
		{"Te-115M", "Te-115m"},
		{"T3", "H-3"},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			out, _, err := run(t, "resolve", tc.input, "-o", "json")
			require.NoError(t, err)
			var rec domain.Nuclide
			require.NoError(t, json.Unmarshal([]byte(out), &rec))
			assert.Equal(t, tc.want, rec.String())
		})
	}

	_, _, err := run(t, "resolve", "Uranium")
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)
}

func TestValidate(t *testing.T) {
	t.Run("clean tables", func(t *testing.T) {
		out, _, err := run(t, "validate")
		require.NoError(t, err)
		assert.Equal(t, "7 elements, 14 nuclides: no problems found\n", out)
	})

	dir := t.TempDir()
	weights := filepath.Join(dir, "weights.txt")
	wallet := filepath.Join(dir, "wallet.txt")
	require.NoError(t, os.WriteFile(weights, []byte(
		"Atomic Number = 3\nAtomic Symbol = Li\nMass Number = 6\nRelative Atomic Mass = 6.0151228874(16)\nIsotopic Composition = 0.5\n\n"+
			"Atomic Number = 3\nAtomic Symbol = Li\nMass Number = 7\nRelative Atomic Mass = 7.0160034366(45)\nIsotopic Composition = 0.6\n"), 0o600))
	require.NoError(t, os.WriteFile(wallet, nil, 0o600))

	t.Run("warnings reported", func(t *testing.T) {
		out, _, err := runWith(t, weights, wallet, "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "natural abundances sum to 1.100000")
	})

	t.Run("strict fails on warnings", func(t *testing.T) {
		_, _, err := runWith(t, weights, wallet, "validate", "--strict")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 data-consistency warnings")
	})
}

func TestLoadFailures(t *testing.T) {
	t.Run("missing table", func(t *testing.T) {
		_, stderr, err := runWith(t, "testdata/weights.txt", "testdata/absent.txt", "isotopes", "1")
		require.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, stderr, "stage=open")
	})

	t.Run("invalid output format", func(t *testing.T) {
		_, _, err := run(t, "isotopes", "1", "-o", "yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid --output")
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Setenv("LOAD_RETRIES", "0")
		cmd := cli.NewRootCmd(observability.NewMetricsForTesting())
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"isotopes", "1"})
		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LOAD_RETRIES")
	})
}

func TestMetricsTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nuclides.prom")
	t.Setenv("METRICS_TEXTFILE", path)

	_, _, err := run(t, "isotopes", "1")
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "nuclide_data_nuclides 14")
	assert.Contains(t, string(b), "nuclide_data_elements 7")
}
