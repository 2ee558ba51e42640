package domain

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/couchcryptid/nuclide-data/internal/uncertain"
)

const (
	// branchSumTolerance absorbs rounding in tabulated branch percentages.
	branchSumTolerance = 1e-6

	// abundanceSumTolerance absorbs rounding in tabulated compositions.
	abundanceSumTolerance = 1e-3

	// lambdaTolerance is the relative tolerance on lambda*T = ln2.
	lambdaTolerance = 1e-3

	// halfLifeTolerance bounds the relative gap between the seconds column,
	// printed to three significant figures, and the half-life string.
	halfLifeTolerance = 1e-2

	// levelSeparation is the smallest distinct excitation energy step, MeV.
	levelSeparation = 1e-6
)

// Normalized is the merged output of both source tables.
type Normalized struct {
	Elements       map[int]Element
	Symbols        map[string]int // symbolKey -> Z, including isotope aliases such as D and T
	Nuclides       []Nuclide      // sorted by Z, A, E
	IsotopeWeights map[ZA]uncertain.Value
	Warnings       []DataConsistencyError
}

type levelKey struct {
	ZA
	isomer int
}

// Normalize merges the atomic-weight entries and the wallet-card entries into
// nuclide records keyed by (Z, A, E). Contradictions are returned as
// *FormatError; disagreements between derivable values are collected as
// warnings.
func Normalize(weights []WeightEntry, cards []WalletEntry) (Normalized, error) {
	n := Normalized{
		Elements:       make(map[int]Element),
		Symbols:        make(map[string]int),
		IsotopeWeights: make(map[ZA]uncertain.Value),
	}

	if err := n.addWeights(weights); err != nil {
		return Normalized{}, err
	}

	levels, order, err := n.mergeCards(cards)
	if err != nil {
		return Normalized{}, err
	}

	byZA := make(map[ZA][]Nuclide)
	for _, key := range order {
		rec, err := n.buildRecord(levels[key])
		if err != nil {
			return Normalized{}, err
		}
		byZA[key.ZA] = append(byZA[key.ZA], rec)
	}

	for za, recs := range byZA {
		if err := checkLevels(za, recs); err != nil {
			return Normalized{}, err
		}
		n.Nuclides = append(n.Nuclides, recs...)
	}

	slices.SortFunc(n.Nuclides, func(a, b Nuclide) int {
		return cmp.Or(cmp.Compare(a.Z, b.Z), cmp.Compare(a.A, b.A), cmp.Compare(a.E, b.E))
	})
	return n, nil
}

// addWeights builds the element table and the isotope weights, validating
// that every symbol resolves to exactly one Z.
func (n *Normalized) addWeights(weights []WeightEntry) error {
	for _, w := range weights {
		if w.IsElement() {
			if _, dup := n.Elements[w.Z]; dup {
				return formatErr(weightsSource, w.Line, keyAtomicNumber, "element Z=%d listed twice", w.Z)
			}
			if err := n.registerSymbol(w.Symbol, w.Z, w.Line); err != nil {
				return err
			}
			n.Elements[w.Z] = Element{Z: w.Z, Symbol: w.Symbol, Weight: w.Weight, Abundances: make(map[int]uncertain.Value)}
			continue
		}

		el, ok := n.Elements[w.Z]
		if !ok {
			return formatErr(weightsSource, w.Line, keyAtomicNumber, "isotope A=%d of unresolved element Z=%d", w.A, w.Z)
		}
		if err := n.registerSymbol(w.Symbol, w.Z, w.Line); err != nil {
			return err
		}
		za := ZA{Z: w.Z, A: w.A}
		if _, dup := n.IsotopeWeights[za]; dup {
			return formatErr(weightsSource, w.Line, keyMassNumber, "isotope %s-%d listed twice", el.Symbol, w.A)
		}
		if w.Weight != nil {
			n.IsotopeWeights[za] = *w.Weight
		}
		if w.Abundance != nil {
			el.Abundances[w.A] = *w.Abundance
		}
	}

	for _, z := range slices.Sorted(maps.Keys(n.Elements)) {
		el := n.Elements[z]
		var sum float64
		for _, ab := range el.Abundances {
			sum += ab.Nominal
		}
		if sum > 1+abundanceSumTolerance {
			n.warn(el.Symbol, "natural abundances sum to %.6f", sum)
		}
	}
	return nil
}

func (n *Normalized) registerSymbol(symbol string, z, line int) error {
	key := symbolKey(symbol)
	if prev, ok := n.Symbols[key]; ok && prev != z {
		return formatErr(weightsSource, line, keyAtomicSymbol, "symbol %q maps to both Z=%d and Z=%d", symbol, prev, z)
	}
	n.Symbols[key] = z
	return nil
}

// mergeCards groups wallet entries by (Z, A, isomer ordinal). Repeated lines
// for one level are merged; their structural fields must agree.
func (n *Normalized) mergeCards(cards []WalletEntry) (map[levelKey]*WalletEntry, []levelKey, error) {
	levels := make(map[levelKey]*WalletEntry)
	var order []levelKey

	for i := range cards {
		card := cards[i]
		el, ok := n.Elements[card.Z]
		if !ok {
			return nil, nil, formatErr(walletSource, card.Line, colZ.name, "Z=%d has no element in the weight table", card.Z)
		}
		if z, ok := n.Symbols[symbolKey(card.Symbol)]; !ok || z != card.Z {
			return nil, nil, formatErr(walletSource, card.Line, colSymbol.name,
				"symbol %q does not match element %s (Z=%d)", card.Symbol, el.Symbol, card.Z)
		}

		key := levelKey{ZA: card.Key(), isomer: card.Isomer}
		prev, ok := levels[key]
		if !ok {
			card.Branches = slices.Clone(card.Branches)
			levels[key] = &card
			order = append(order, key)
			continue
		}
		if err := mergeWalletEntry(prev, card); err != nil {
			return nil, nil, err
		}
	}
	return levels, order, nil
}

func mergeWalletEntry(dst *WalletEntry, src WalletEntry) error {
	conflict := func(field string) error {
		return formatErr(walletSource, src.Line, field, "contradicts line %d for the same level", dst.Line)
	}

	switch {
	case dst.SpinParity == "":
		dst.SpinParity = src.SpinParity
	case src.SpinParity != "" && src.SpinParity != dst.SpinParity:
		return conflict(colSpinParity.name)
	}
	if !mergePtr(&dst.Energy, src.Energy) {
		return conflict(colEnergy.name)
	}
	if !mergePtr(&dst.HalfLife, src.HalfLife) {
		return conflict(colHalfLife.name)
	}
	if !mergePtr(&dst.HalfLifeSec, src.HalfLifeSec) {
		return conflict(colHalfLifeSec.name)
	}
	if !mergePtr(&dst.MassExcess, src.MassExcess) {
		return conflict(colMassExcess.name)
	}
	if src.Stable != dst.Stable && (src.Stable || src.HalfLife != nil) {
		return conflict(colHalfLife.name)
	}
	dst.SystematicMass = dst.SystematicMass || src.SystematicMass
	dst.Branches = append(dst.Branches, src.Branches...)
	return nil
}

// mergePtr fills *dst from src and reports false when both are set and differ.
func mergePtr[T comparable](dst **T, src *T) bool {
	switch {
	case src == nil:
		return true
	case *dst == nil:
		*dst = src
		return true
	default:
		return **dst == *src
	}
}

func (n *Normalized) buildRecord(card *WalletEntry) (Nuclide, error) {
	el := n.Elements[card.Z]
	za := card.Key()

	rec := Nuclide{
		Z:              card.Z,
		A:              card.A,
		Symbol:         el.Symbol,
		IsomerIndex:    card.Isomer,
		Isomeric:       card.Isomer > 0,
		SpinParity:     card.SpinParity,
		Stable:         card.Stable,
		HalfLife:       card.HalfLife,
		MassExcess:     card.MassExcess,
		SystematicMass: card.SystematicMass,
	}

	switch {
	case card.Isomer == 0 && card.Energy != nil && *card.Energy != 0:
		return Nuclide{}, formatErr(walletSource, card.Line, colEnergy.name,
			"ground state of %s-%d has excitation energy %v MeV", el.Symbol, card.A, *card.Energy)
	case card.Isomer > 0 && card.Energy == nil:
		return Nuclide{}, formatErr(walletSource, card.Line, colEnergy.name,
			"isomer %d of %s-%d has no excitation energy", card.Isomer, el.Symbol, card.A)
	case card.Isomer > 0 && *card.Energy <= 0:
		return Nuclide{}, formatErr(walletSource, card.Line, colEnergy.name,
			"isomer %d of %s-%d has non-positive excitation energy", card.Isomer, el.Symbol, card.A)
	case card.Isomer > 0:
		rec.E = *card.Energy
	}

	if w, ok := n.IsotopeWeights[za]; ok {
		rec.Weight = &w
	} else if el.Weight != nil {
		w := *el.Weight
		rec.Weight = &w
	}
	if ab, ok := el.Abundances[card.A]; ok && !rec.Isomeric {
		rec.Abundance = &ab
	}

	if card.Stable {
		if len(card.Branches) > 0 {
			return Nuclide{}, formatErr(walletSource, card.Line, colHalfLife.name,
				"%s is STABLE but carries decay data", rec)
		}
		return rec, nil
	}

	if len(card.Branches) > 0 {
		rec.DecayModes = make(map[string]DecayMode, len(card.Branches))
	}
	for _, b := range card.Branches {
		if _, dup := rec.DecayModes[b.Mode]; dup {
			return Nuclide{}, formatErr(walletSource, b.Line, colDecayMode.name, "%s lists decay mode %q twice", rec, b.Mode)
		}
		rec.DecayModes[b.Mode] = DecayMode{Q: b.Q, Branch: b.Branch}
	}
	if sum := rec.BranchSum(); sum > 1+branchSumTolerance {
		n.warn(rec.String(), "decay branches sum to %.6f", sum)
	}

	n.resolveHalfLife(&rec, card.HalfLifeSec)
	return rec, nil
}

// resolveHalfLife prefers the tabulated seconds over the half-life string,
// keeping the string's relative uncertainty, and derives lambda = ln2/T.
func (n *Normalized) resolveHalfLife(rec *Nuclide, seconds *float64) {
	if seconds != nil {
		hl := uncertain.Exact(*seconds)
		if parsed := rec.HalfLife; parsed != nil && parsed.Nominal > 0 {
			if gap := math.Abs(*seconds-parsed.Nominal) / parsed.Nominal; gap > halfLifeTolerance {
				n.warn(rec.String(), "tabulated half-life %g s disagrees with %g s from the half-life column",
					*seconds, parsed.Nominal)
			}
			hl.Sigma = parsed.Sigma * *seconds / parsed.Nominal
		}
		rec.HalfLife = &hl
	}
	if rec.HalfLife != nil && rec.HalfLife.Nominal > 0 {
		lambda := rec.HalfLife.Inverse(math.Ln2)
		rec.DecayConstant = &lambda
	}
}

// checkLevels enforces one ground state per (Z, A) and distinct energies.
func checkLevels(za ZA, recs []Nuclide) error {
	slices.SortFunc(recs, func(a, b Nuclide) int { return cmp.Compare(a.E, b.E) })
	if recs[0].Isomeric {
		return formatErr(walletSource, 0, colIsomer.name, "Z=%d A=%d has isomers but no ground state", za.Z, za.A)
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].E-recs[i-1].E < levelSeparation {
			return formatErr(walletSource, 0, colEnergy.name, "%s and %s share excitation energy %v MeV",
				recs[i-1], recs[i], recs[i].E)
		}
	}
	return nil
}

func (n *Normalized) warn(key, format string, args ...any) {
	n.Warnings = append(n.Warnings, DataConsistencyError{Key: key, Detail: fmt.Sprintf(format, args...)})
}
