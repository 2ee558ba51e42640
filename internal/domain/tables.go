package domain

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/couchcryptid/nuclide-data/internal/uncertain"
)

// DefaultEnergyTolerance is the default window, in MeV, within which a
// requested excitation energy matches a tabulated level.
const DefaultEnergyTolerance = 0.002

// Tables is the immutable, indexed view of the normalized data. It is safe
// for concurrent readers; nothing mutates it after BuildTables returns.
type Tables struct {
	elements       map[int]Element
	symbols        map[string]int
	levels         map[ZA][]Nuclide // ascending E, ground state first
	isotopes       map[int][]int
	isomers        map[ZA][]float64
	isotopeWeights map[ZA]uncertain.Value
	mats           map[MATKey]int
	warnings       []DataConsistencyError
	tolerance      float64
	loadedAt       time.Time
}

// Option configures BuildTables.
type Option func(*Tables)

// WithEnergyTolerance sets the excitation-energy matching window in MeV.
func WithEnergyTolerance(mev float64) Option {
	return func(t *Tables) {
		if mev > 0 {
			t.tolerance = mev
		}
	}
}

// BuildTables builds the derived index structures in a single pass over the
// normalized records. The input maps are copied, so later changes to n do not
// reach the tables. Every record lands in the primary table; a duplicate
// (Z, A, E) is an error rather than a silent drop.
func BuildTables(n Normalized, opts ...Option) (*Tables, error) {
	t := &Tables{
		elements:       make(map[int]Element, len(n.Elements)),
		symbols:        maps.Clone(n.Symbols),
		levels:         make(map[ZA][]Nuclide),
		isotopes:       make(map[int][]int),
		isomers:        make(map[ZA][]float64),
		isotopeWeights: maps.Clone(n.IsotopeWeights),
		warnings:       slices.Clone(n.Warnings),
		tolerance:      DefaultEnergyTolerance,
		loadedAt:       clock.Now(),
	}
	for _, opt := range opts {
		opt(t)
	}
	for z, el := range n.Elements {
		t.elements[z] = el.clone()
	}
	if t.symbols == nil {
		t.symbols = make(map[string]int)
	}
	if t.isotopeWeights == nil {
		t.isotopeWeights = make(map[ZA]uncertain.Value)
	}

	for _, rec := range n.Nuclides {
		rec = rec.clone()
		if rec.Z < 1 || rec.A < rec.Z {
			return nil, fmt.Errorf("build tables: invalid record %s (Z=%d A=%d)", rec, rec.Z, rec.A)
		}
		if mat, ok := t.mats[MATKey{Z: rec.Z, A: rec.A, Metastable: rec.Isomeric}]; ok {
			rec.MAT = mat
		}
		key := rec.Key()
		existing := t.levels[key]
		for _, other := range existing {
			if other.E == rec.E {
				return nil, fmt.Errorf("build tables: duplicate record %s at E=%v MeV", rec, rec.E)
			}
		}
		if len(existing) == 0 {
			t.isotopes[rec.Z] = append(t.isotopes[rec.Z], rec.A)
		}
		t.levels[key] = append(existing, rec)
		if rec.E > 0 {
			t.isomers[key] = append(t.isomers[key], rec.E)
		}
	}

	for z := range t.isotopes {
		slices.Sort(t.isotopes[z])
	}
	for key, recs := range t.levels {
		slices.SortFunc(recs, func(a, b Nuclide) int {
			switch {
			case a.E < b.E:
				return -1
			case a.E > b.E:
				return 1
			default:
				return 0
			}
		})
		if recs[0].E != 0 {
			return nil, fmt.Errorf("build tables: Z=%d A=%d has no ground state", key.Z, key.A)
		}
		slices.Sort(t.isomers[key])
	}

	return t, nil
}

// Isotopes returns the mass numbers tabulated for Z in ascending order.
func (t *Tables) Isotopes(z int) ([]int, error) {
	as, ok := t.isotopes[z]
	if !ok {
		return nil, fmt.Errorf("isotopes of Z=%d: %w", z, ErrNotFound)
	}
	return slices.Clone(as), nil
}

// Nuc returns the record for (Z, A) at excitation energy e in MeV, matched to
// the nearest tabulated level within the energy tolerance.
func (t *Tables) Nuc(z, a int, e float64) (Nuclide, error) {
	recs, ok := t.levels[ZA{Z: z, A: a}]
	if !ok {
		return Nuclide{}, fmt.Errorf("nuclide Z=%d A=%d: %w", z, a, ErrNotFound)
	}

	best := -1
	bestDiff := math.Inf(1)
	for i, rec := range recs {
		if d := math.Abs(rec.E - e); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	if bestDiff > t.tolerance {
		return Nuclide{}, fmt.Errorf("nuclide %s-%d at %v MeV (nearest level %v MeV): %w",
			recs[0].Symbol, a, e, recs[best].E, ErrNotFound)
	}
	return recs[best].clone(), nil
}

// Isomers returns the excitation energies of the isomeric states of (Z, A)
// in ascending order, excluding the ground state. A nuclide without excited
// states yields an empty, non-nil slice.
func (t *Tables) Isomers(z, a int) ([]float64, error) {
	key := ZA{Z: z, A: a}
	if _, ok := t.levels[key]; !ok {
		return nil, fmt.Errorf("isomers of Z=%d A=%d: %w", z, a, ErrNotFound)
	}
	es := t.isomers[key]
	if es == nil {
		return []float64{}, nil
	}
	return slices.Clone(es), nil
}

// Weights returns an atomic weight. With a == 0 and no mass number in id the
// element's standard atomic weight is returned; otherwise the weight of the
// isotope, at excitation energy e when a record for that level exists.
func (t *Tables) Weights(id Identity, a int, e float64) (uncertain.Value, error) {
	z, resolvedA, err := t.resolveIdentity(id, a)
	if err != nil {
		return uncertain.Value{}, err
	}

	if resolvedA == 0 {
		el, ok := t.elements[z]
		if !ok || el.Weight == nil {
			return uncertain.Value{}, fmt.Errorf("weight of %s: %w", id, ErrNotFound)
		}
		return *el.Weight, nil
	}

	rec, err := t.Nuc(z, resolvedA, e)
	if err == nil && rec.Weight != nil {
		return *rec.Weight, nil
	}
	if e == 0 {
		if w, ok := t.isotopeWeights[ZA{Z: z, A: resolvedA}]; ok {
			return w, nil
		}
	}
	return uncertain.Value{}, fmt.Errorf("weight of %s A=%d: %w", id, resolvedA, ErrNotFound)
}

// resolveIdentity turns an Identity plus an optional explicit mass number
// into (Z, A). An explicit A that disagrees with a compound token is invalid.
func (t *Tables) resolveIdentity(id Identity, a int) (int, int, error) {
	if err := id.validate(); err != nil {
		return 0, 0, err
	}
	if a < 0 {
		return 0, 0, fmt.Errorf("%w: negative mass number %d", ErrInvalidIdentity, a)
	}

	var z int
	switch id.kind {
	case byNumber:
		z = id.z
		if _, ok := t.elements[z]; !ok {
			return 0, 0, fmt.Errorf("element Z=%d: %w", z, ErrNotFound)
		}
	case bySymbol, byCompound:
		var ok bool
		z, ok = t.symbols[symbolKey(id.symbol)]
		if !ok {
			return 0, 0, fmt.Errorf("element %q: %w", id.symbol, ErrNotFound)
		}
	default:
		return 0, 0, fmt.Errorf("%w: empty identity", ErrInvalidIdentity)
	}

	if id.kind == byCompound {
		if a != 0 && a != id.a {
			return 0, 0, fmt.Errorf("%w: %s conflicts with mass number %d", ErrInvalidIdentity, id, a)
		}
		a = id.a
	}
	return z, a, nil
}

// Element returns the element-level data for Z.
func (t *Tables) Element(z int) (Element, error) {
	el, ok := t.elements[z]
	if !ok {
		return Element{}, fmt.Errorf("element Z=%d: %w", z, ErrNotFound)
	}
	return el.clone(), nil
}

// Symbol returns the element symbol for Z.
func (t *Tables) Symbol(z int) (string, error) {
	el, ok := t.elements[z]
	if !ok {
		return "", fmt.Errorf("element Z=%d: %w", z, ErrNotFound)
	}
	return el.Symbol, nil
}

// Z returns the atomic number for an element symbol, case-insensitively.
func (t *Tables) Z(symbol string) (int, error) {
	z, ok := t.symbols[symbolKey(symbol)]
	if !ok {
		return 0, fmt.Errorf("element %q: %w", symbol, ErrNotFound)
	}
	return z, nil
}

// Elements returns the atomic numbers present in ascending order.
func (t *Tables) Elements() []int {
	zs := make([]int, 0, len(t.elements))
	for z := range t.elements {
		zs = append(zs, z)
	}
	slices.Sort(zs)
	return zs
}

// Len returns the number of nuclide records.
func (t *Tables) Len() int {
	n := 0
	for _, recs := range t.levels {
		n += len(recs)
	}
	return n
}

// Warnings returns the data-consistency findings gathered while building.
func (t *Tables) Warnings() []DataConsistencyError { return slices.Clone(t.warnings) }

// EnergyTolerance returns the excitation-energy matching window in MeV.
func (t *Tables) EnergyTolerance() float64 { return t.tolerance }

// LoadedAt returns when the tables were built.
func (t *Tables) LoadedAt() time.Time { return t.loadedAt }
