package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		input string
		want  Identity
		text  string
	}{
		{"U", BySymbol("U"), "U"},
		{"cm", BySymbol("cm"), "Cm"},
		{"U-235", ByCompound("U", 235), "U-235"},
		{" am - 242 ", ByCompound("am", 242), "Am-242"},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseIdentity(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.text, got.String())
		})
	}

	for _, bad := range []string{"", "235", "U-", "U-x", "U-0", "Uranium-235", "U2"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := ParseIdentity(bad)
			assert.ErrorIs(t, err, ErrInvalidIdentity)
		})
	}
}

func TestIdentity_String(t *testing.T) {
	assert.Equal(t, "Z=92", ByNumber(92).String())
	assert.Equal(t, "<none>", Identity{}.String())
}

func TestParseNuclideID(t *testing.T) {
	tests := []struct {
		input string
		want  NuclideID
	}{
		{"U235", NuclideID{Symbol: "U", A: 235}},
		{"U-235", NuclideID{Symbol: "U", A: 235}},
		{"235U", NuclideID{Symbol: "U", A: 235}},
		{"235-U", NuclideID{Symbol: "U", A: 235}},
		{"cm244", NuclideID{Symbol: "Cm", A: 244}},
		{"Am242m", NuclideID{Symbol: "Am", A: 242, Isomer: 1}},
		{"AM-242M", NuclideID{Symbol: "Am", A: 242, Isomer: 1}},
		{"Hf178n", NuclideID{Symbol: "Hf", A: 178, Isomer: 2}},
		{"92235", NuclideID{Z: 92, A: 235}},
		{"08016", NuclideID{Z: 8, A: 16}},
		{"92235.70c", NuclideID{Z: 92, A: 235}},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseNuclideID(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []string{"", "U", "999", "U-0", "12-34", "Uranium235", "92235m", "95242M", "U-2350", "1002H"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := ParseNuclideID(bad)
			assert.ErrorIs(t, err, ErrInvalidIdentity)
		})
	}
}

func TestParseZAID(t *testing.T) {
	za, err := ParseZAID("95242")
	require.NoError(t, err)
	assert.Equal(t, ZA{Z: 95, A: 242}, za)
	assert.Equal(t, 95242, za.ZAID())

	_, err = ParseZAID("abc")
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}

func TestTables_Resolve(t *testing.T) {
	tbl := testTables(t)

	tests := []struct {
		input string
		want  string
	}{
		{"U235", "U-235"},
		{"92235", "U-235"},
		{"Am242m", "Am-242m"},
		{"Hf178m", "Hf-178m"},
		{"Hf178n", "Hf-178n"},
		{"D2", "H-2"},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			id, err := ParseNuclideID(tc.input)
			require.NoError(t, err)
			rec, err := tbl.Resolve(id)
			require.NoError(t, err)
			assert.Equal(t, tc.want, rec.String())
		})
	}

	for _, missing := range []string{"U236", "Am242n", "Xx12"} {
		t.Run("missing "+missing, func(t *testing.T) {
			id, err := ParseNuclideID(missing)
			require.NoError(t, err)
			_, err = tbl.Resolve(id)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}
