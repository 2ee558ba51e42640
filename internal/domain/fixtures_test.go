package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testWeights = `Atomic Number = 1
Atomic Symbol = H
Mass Number = 1
Relative Atomic Mass = 1.00782503223(9)
Isotopic Composition = 0.999885(70)
Standard Atomic Weight = [1.00784,1.00811]
Notes = m

Atomic Number = 1
Atomic Symbol = D
Mass Number = 2
Relative Atomic Mass = 2.01410177812(12)
Isotopic Composition = 0.000115(70)
Standard Atomic Weight = [1.00784,1.00811]
Notes = m

Atomic Number = 1
Atomic Symbol = T
Mass Number = 3
Relative Atomic Mass = 3.0160492779(24)
Isotopic Composition =
Standard Atomic Weight = [1.00784,1.00811]
Notes = m

Atomic Number = 6
Atomic Symbol = C
Mass Number = 12
Relative Atomic Mass = 12.0000000(00)
Isotopic Composition = 0.9893(8)
Standard Atomic Weight = [12.0096,12.0116]
Notes =

Atomic Number = 6
Atomic Symbol = C
Mass Number = 13
Relative Atomic Mass = 13.00335483507(23)
Isotopic Composition = 0.0107(8)
Standard Atomic Weight = [12.0096,12.0116]
Notes =

Atomic Number = 19
Atomic Symbol = K
Mass Number = 39
Relative Atomic Mass = 38.9637064864(49)
Isotopic Composition = 0.932581(44)
Standard Atomic Weight = 39.0983(1)
Notes =

Atomic Number = 19
Atomic Symbol = K
Mass Number = 40
Relative Atomic Mass = 39.963998166(60)
Isotopic Composition = 0.000117(1)
Standard Atomic Weight = 39.0983(1)
Notes =

Atomic Number = 43
Atomic Symbol = Tc
Mass Number = 97
Relative Atomic Mass = 96.9063667(40)
Isotopic Composition =
Standard Atomic Weight = [98]
Notes =

Atomic Number = 43
Atomic Symbol = Tc
Mass Number = 98
Relative Atomic Mass = 97.9072124(36)
Isotopic Composition =
Standard Atomic Weight = [98]
Notes =

Atomic Number = 72
Atomic Symbol = Hf
Mass Number = 178
Relative Atomic Mass = 177.9437058(16)
Isotopic Composition = 0.2728(28)
Standard Atomic Weight = 178.486(6)
Notes =

Atomic Number = 92
Atomic Symbol = U
Mass Number = 234
Relative Atomic Mass = 234.0409523(19)
Isotopic Composition = 0.000054(5)
Standard Atomic Weight = 238.02891(3)
Notes =

Atomic Number = 92
Atomic Symbol = U
Mass Number = 235
Relative Atomic Mass = 235.0439301(19)
Isotopic Composition = 0.007204(6)
Standard Atomic Weight = 238.02891(3)
Notes =

Atomic Number = 92
Atomic Symbol = U
Mass Number = 238
Relative Atomic Mass = 238.0507884(20)
Isotopic Composition = 0.992742(10)
Standard Atomic Weight = 238.02891(3)
Notes =

Atomic Number = 95
Atomic Symbol = Am
Mass Number = 241
Relative Atomic Mass = 241.0568293(19)
Isotopic Composition =
Standard Atomic Weight = [243]
Notes =

Atomic Number = 95
Atomic Symbol = Am
Mass Number = 242
Relative Atomic Mass = 242.0595494(19)
Isotopic Composition =
Standard Atomic Weight = [243]
Notes =
`

type cols map[column]string

// walletLine lays out fields at their fixed-width columns.
func walletLine(t *testing.T, fields cols) string {
	t.Helper()
	buf := []byte(strings.Repeat(" ", colHalfLifeSec.end))
	for c, v := range fields {
		require.LessOrEqual(t, len(v), c.end-c.start, "value %q overflows column %s", v, c.name)
		copy(buf[c.start:], v)
	}
	return strings.TrimRight(string(buf), " ")
}

func testWalletLines(t *testing.T) []string {
	t.Helper()
	rows := []cols{
		{colA: "1", colZ: "0", colSymbol: "NN", colHalfLife: "613.9 S 0.6", colDecayMode: "B-", colBranch: "100"},
		{colDecayMode: "XX", colBranch: "1"},
		{colA: "1", colZ: "1", colSymbol: "H", colSpinParity: "1/2+", colHalfLife: "STABLE", colMassExcess: "7.28897"},
		{colA: "2", colZ: "1", colSymbol: "H", colSpinParity: "1+", colHalfLife: "STABLE", colMassExcess: "13.1357"},
		{colA: "3", colZ: "1", colSymbol: "H", colSpinParity: "1/2+", colHalfLife: "12.32 Y 0.02", colDecayMode: "B-",
			colBranch: "100", colQValue: "0.0186", colMassExcess: "14.9498", colHalfLifeSec: "3.89E+08"},
		{colA: "12", colZ: "6", colSymbol: "C", colSpinParity: "0+", colHalfLife: "STABLE", colMassExcess: "0.0"},
		{colA: "13", colZ: "6", colSymbol: "C", colSpinParity: "1/2-", colHalfLife: "STABLE", colMassExcess: "3.12500"},
		{colA: "39", colZ: "19", colSymbol: "K", colSpinParity: "3/2+", colHalfLife: "STABLE"},
		{colA: "40", colZ: "19", colSymbol: "K", colSpinParity: "4-", colHalfLife: "1.248E+9 Y 3E+6", colDecayMode: "B-",
			colBranch: "89.28", colQValue: "1.311", colMassExcess: "-33.535", colMassUnc: "0.00006"},
		{colDecayMode: "EC", colBranch: "10.72", colQValue: "1.505"},
		{colA: "97", colZ: "43", colSymbol: "TC", colSpinParity: "9/2+", colHalfLife: "4.21E+6 Y", colDecayMode: "EC", colBranch: "100"},
		{colA: "98", colZ: "43", colSymbol: "TC", colSpinParity: "(6)+", colHalfLife: "4.2E+6 Y", colDecayMode: "B-", colBranch: "100",
			colMassExcess: "-86.43", colSystematics: "S"},
		{colA: "178", colZ: "72", colSymbol: "HF", colSpinParity: "0+", colHalfLife: "STABLE"},
		{colA: "178", colIsomer: "M", colZ: "72", colSymbol: "HF", colSpinParity: "8-", colEnergy: "1.1474",
			colHalfLife: "4.0 S 0.2", colDecayMode: "IT", colBranch: "100"},
		{colA: "178", colIsomer: "M2", colZ: "72", colSymbol: "HF", colSpinParity: "16+", colEnergy: "2.4461",
			colHalfLife: "31 Y 1", colDecayMode: "IT", colBranch: "100"},
		{colA: "234", colZ: "92", colSymbol: "U", colSpinParity: "0+", colHalfLife: "2.455E+5 Y", colDecayMode: "A", colBranch: "100"},
		{colA: "235", colZ: "92", colSymbol: "U", colSpinParity: "7/2-", colHalfLife: "7.04E+8 Y 1E+6", colDecayMode: "A",
			colBranch: "100", colQValue: "4.678", colMassExcess: "40.9187", colMassUnc: "0.0018"},
		{colDecayMode: "SF", colBranch: "7E-9"},
		{colA: "238", colZ: "92", colSymbol: "U", colSpinParity: "0+", colHalfLife: "4.468E+9 Y", colDecayMode: "A", colBranch: "100"},
		{colDecayMode: "SF", colBranch: "5.5E-5"},
		{colA: "241", colZ: "95", colSymbol: "AM", colSpinParity: "5/2-", colHalfLife: "432.6 Y 0.6", colDecayMode: "A", colBranch: "100"},
		{colA: "242", colZ: "95", colSymbol: "AM", colSpinParity: "1-", colHalfLife: "16.02 H 0.02", colDecayMode: "B-",
			colBranch: "82.7", colQValue: "0.665"},
		{colDecayMode: "EC", colBranch: "17.3", colQValue: "0.751"},
		{colA: "242", colIsomer: "M", colZ: "95", colSymbol: "AM", colSpinParity: "5-", colEnergy: "0.0486",
			colHalfLife: "141 Y 2", colDecayMode: "IT", colBranch: "99.55"},
		{colDecayMode: "A", colBranch: "0.45"},
	}
	lines := []string{"# nuclear wallet cards, test excerpt"}
	for _, r := range rows {
		lines = append(lines, walletLine(t, r))
	}
	return lines
}

func testWallet(t *testing.T) string {
	t.Helper()
	return strings.Join(testWalletLines(t), "\n") + "\n"
}

func testNormalized(t *testing.T) Normalized {
	t.Helper()
	weights, err := ParseWeightTable(strings.NewReader(testWeights))
	require.NoError(t, err)
	cards, err := ParseWalletCards(strings.NewReader(testWallet(t)))
	require.NoError(t, err)
	n, err := Normalize(weights, cards)
	require.NoError(t, err)
	return n
}

func testTables(t *testing.T, opts ...Option) *Tables {
	t.Helper()
	tbl, err := BuildTables(testNormalized(t), opts...)
	require.NoError(t, err)
	return tbl
}
