package nuclides_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nuclides "github.com/couchcryptid/nuclide-data"
)

const weights = `Atomic Number = 1
Atomic Symbol = H
Mass Number = 1
Relative Atomic Mass = 1.00782503223(9)
Isotopic Composition = 0.999885(70)
Standard Atomic Weight = [1.00784,1.00811]

Atomic Number = 1
Atomic Symbol = T
Mass Number = 3
Relative Atomic Mass = 3.0160492779(24)
Isotopic Composition =
Standard Atomic Weight = [1.00784,1.00811]
`

const wallet = ` 1    1   H     1/2+                                           STABLE                            7.2890
 3    1   H     1/2+          B-   100           0.0186        12.32 Y 0.02                      14.9498
`

func TestLoad(t *testing.T) {
	tables, err := nuclides.Load(strings.NewReader(weights), strings.NewReader(wallet))
	require.NoError(t, err)
	assert.Equal(t, 2, tables.Len())
	assert.Empty(t, nuclides.Audit(tables))

	id, err := nuclides.ParseNuclideID("T3")
	require.NoError(t, err)
	h3, err := tables.Resolve(id)
	require.NoError(t, err)
	assert.Equal(t, "H-3", h3.String())
	require.NotNil(t, h3.HalfLife)
	assert.InDelta(t, 12.32*365.2422*86400, h3.HalfLife.Nominal, 1)

	w, err := tables.Weights(nuclides.BySymbol("H"), 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.007975, w.Nominal, 1e-9)

	_, err = tables.Weights(nuclides.ByCompound("H", 2), 0, 0)
	assert.ErrorIs(t, err, nuclides.ErrNotFound)
}

func TestLoad_WithMATs(t *testing.T) {
	list := "# Z-Sym- A  Lab\n" +
		"   1)   1-H -  1  LANL       EVAL-JUL16 G.M.Hale                         125\n" +
		"   2)   1-H -  3  LANL       EVAL-NOV01 G.M.Hale                         131\n"
	mats, err := nuclides.ParseMATList(strings.NewReader(list))
	require.NoError(t, err)
	require.Len(t, mats, 2)
	assert.Equal(t, nuclides.MATKey{Z: 1, A: 3}, mats[1].MATKey)

	tables, err := nuclides.Load(strings.NewReader(weights), strings.NewReader(wallet), nuclides.WithMATs(mats))
	require.NoError(t, err)
	mat, err := tables.MAT(1, 1, false)
	require.NoError(t, err)
	assert.Equal(t, 125, mat)

	h3, err := tables.Nuc(1, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 131, h3.MAT)
}

func TestLoad_FormatError(t *testing.T) {
	_, err := nuclides.Load(strings.NewReader("Atomic Number 1\n"), strings.NewReader(wallet))
	var fe *nuclides.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "weights", fe.Source)
	assert.Equal(t, 1, fe.Line)
}
