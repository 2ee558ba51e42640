package domain

import (
	"fmt"
	"maps"

	"github.com/couchcryptid/nuclide-data/internal/uncertain"
)

// MeVPerAMU converts mass excess in MeV/c^2 to unified atomic mass units.
const MeVPerAMU = 931.494061

// ZA identifies an isotope by proton count and mass number.
type ZA struct {
	Z int
	A int
}

// ZAID returns the ZZAAA integer form, e.g. 92235 for U-235.
func (k ZA) ZAID() int { return k.Z*1000 + k.A }

// Element is the element-level view of the atomic-weight table.
type Element struct {
	Z      int
	Symbol string

	// Weight is the standard atomic weight. Nil for elements with no stable
	// isotopes, where the table only lists a representative mass number.
	Weight *uncertain.Value

	// Abundances holds the natural isotopic composition keyed by A.
	Abundances map[int]uncertain.Value
}

// DecayMode is one decay channel of a nuclide. Nil attributes were not
// tabulated in the source.
type DecayMode struct {
	Q      *float64 `json:"q_value,omitempty"` // MeV
	Branch *float64 `json:"branch,omitempty"`  // fraction in (0,1]
}

// Nuclide is a normalized record for one nuclear level, identified by
// (Z, A, E).
type Nuclide struct {
	Z           int     `json:"z"`
	A           int     `json:"a"`
	E           float64 `json:"excitation_energy"` // MeV, 0 for the ground state
	Symbol      string  `json:"symbol"`
	Isomeric    bool    `json:"isomeric"`
	IsomerIndex int     `json:"isomer_index"` // 0 ground, 1 first isomer, ...
	SpinParity  string  `json:"spin_parity,omitempty"`
	Stable      bool    `json:"stable"`

	HalfLife      *uncertain.Value `json:"half_life,omitempty"`      // seconds
	DecayConstant *uncertain.Value `json:"decay_constant,omitempty"` // 1/s
	Abundance     *uncertain.Value `json:"abundance,omitempty"`
	Weight        *uncertain.Value `json:"weight,omitempty"`      // u
	MassExcess    *uncertain.Value `json:"mass_excess,omitempty"` // MeV

	// SystematicMass marks mass excesses estimated from systematics rather
	// than measured.
	SystematicMass bool `json:"systematic_mass,omitempty"`

	// MAT is the ENDF/B neutron-library material number, 0 when unknown.
	MAT int `json:"mat,omitempty"`

	DecayModes map[string]DecayMode `json:"decay_modes,omitempty"`
}

// Key returns the (Z, A) pair of the record.
func (n Nuclide) Key() ZA { return ZA{Z: n.Z, A: n.A} }

// String renders "U-235" for ground states and "Am-242m" for isomers.
// Higher isomers use the next suffix letters: n, o, p, ...
func (n Nuclide) String() string {
	if !n.Isomeric {
		return fmt.Sprintf("%s-%d", n.Symbol, n.A)
	}
	return fmt.Sprintf("%s-%d%s", n.Symbol, n.A, metaSuffix(n.IsomerIndex))
}

// MassExcessAMU returns the mass excess in atomic mass units.
func (n Nuclide) MassExcessAMU() (uncertain.Value, bool) {
	if n.MassExcess == nil {
		return uncertain.Value{}, false
	}
	return n.MassExcess.Scale(1 / MeVPerAMU), true
}

// BranchSum adds the tabulated branch fractions of all decay modes.
func (n Nuclide) BranchSum() float64 {
	var sum float64
	for _, m := range n.DecayModes {
		if m.Branch != nil {
			sum += *m.Branch
		}
	}
	return sum
}

// clone copies the record so callers cannot mutate shared table state.
func (n Nuclide) clone() Nuclide {
	n.HalfLife = clonePtr(n.HalfLife)
	n.DecayConstant = clonePtr(n.DecayConstant)
	n.Abundance = clonePtr(n.Abundance)
	n.Weight = clonePtr(n.Weight)
	n.MassExcess = clonePtr(n.MassExcess)
	if n.DecayModes != nil {
		modes := make(map[string]DecayMode, len(n.DecayModes))
		for label, m := range n.DecayModes {
			modes[label] = DecayMode{Q: clonePtr(m.Q), Branch: clonePtr(m.Branch)}
		}
		n.DecayModes = modes
	}
	return n
}

func (e Element) clone() Element {
	e.Weight = clonePtr(e.Weight)
	e.Abundances = maps.Clone(e.Abundances)
	return e
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

const metaSuffixes = "mnopqrs"

func metaSuffix(index int) string {
	if index < 1 || index > len(metaSuffixes) {
		return fmt.Sprintf("m%d", index)
	}
	return metaSuffixes[index-1 : index]
}
