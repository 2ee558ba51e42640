package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type identityKind int

const (
	noIdentity identityKind = iota
	byNumber
	bySymbol
	byCompound
)

// Identity names an element, or an isotope when it carries a mass number.
// Build one with ByNumber, BySymbol, ByCompound or ParseIdentity.
type Identity struct {
	kind   identityKind
	z      int
	symbol string
	a      int
}

// ByNumber identifies an element by atomic number.
func ByNumber(z int) Identity { return Identity{kind: byNumber, z: z} }

// BySymbol identifies an element by symbol, case-insensitively.
func BySymbol(symbol string) Identity {
	return Identity{kind: bySymbol, symbol: strings.TrimSpace(symbol)}
}

// ByCompound identifies an isotope by symbol and mass number, as in "U-235".
func ByCompound(symbol string, a int) Identity {
	return Identity{kind: byCompound, symbol: strings.TrimSpace(symbol), a: a}
}

// ParseIdentity reads "U" or "U-235". Anything else wraps ErrInvalidIdentity.
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	symbol, rest, compound := strings.Cut(s, "-")
	symbol = strings.TrimSpace(symbol)
	if !isSymbol(symbol) {
		return Identity{}, fmt.Errorf("%w: %q has no element symbol", ErrInvalidIdentity, s)
	}
	if !compound {
		return BySymbol(symbol), nil
	}
	a, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || a < 1 {
		return Identity{}, fmt.Errorf("%w: %q has no valid mass number", ErrInvalidIdentity, s)
	}
	return ByCompound(symbol, a), nil
}

func (id Identity) String() string {
	switch id.kind {
	case byNumber:
		return fmt.Sprintf("Z=%d", id.z)
	case bySymbol:
		return NormalizeSymbol(id.symbol)
	case byCompound:
		return fmt.Sprintf("%s-%d", NormalizeSymbol(id.symbol), id.a)
	default:
		return "<none>"
	}
}

func (id Identity) validate() error {
	switch id.kind {
	case byNumber:
		if id.z < 1 {
			return fmt.Errorf("%w: Z=%d", ErrInvalidIdentity, id.z)
		}
	case bySymbol:
		if !isSymbol(id.symbol) {
			return fmt.Errorf("%w: symbol %q", ErrInvalidIdentity, id.symbol)
		}
	case byCompound:
		if !isSymbol(id.symbol) || id.a < 1 {
			return fmt.Errorf("%w: %q-%d", ErrInvalidIdentity, id.symbol, id.a)
		}
	default:
		return fmt.Errorf("%w: empty identity", ErrInvalidIdentity)
	}
	return nil
}

// NuclideID is a parsed nuclide name. Either Symbol or Z is set. Isomer is
// the isomer ordinal selected by a metastable suffix (1 for "m", 2 for "n").
type NuclideID struct {
	Symbol string
	Z      int
	A      int
	Isomer int
}

// ParseNuclideID accepts "U235", "U-235", "235U", "235-U", ZAIDs such as
// "92235" or "08016", and metastable names such as "Am242m" or "AM-242M".
func ParseNuclideID(s string) (NuclideID, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return NuclideID{}, fmt.Errorf("%w: empty nuclide name", ErrInvalidIdentity)
	}

	head, _, _ := strings.Cut(raw, ".")
	if !strings.ContainsFunc(raw, unicode.IsLetter) || strings.TrimLeft(head, "0123456789") == "" {
		za, err := ParseZAID(raw)
		if err != nil {
			return NuclideID{}, err
		}
		return NuclideID{Z: za.Z, A: za.A}, nil
	}

	up := strings.ToUpper(raw)
	isomer := 0
	// A trailing suffix letter after the mass number marks an isomer.
	if n := len(up); n >= 2 && unicode.IsLetter(rune(up[0])) && unicode.IsDigit(rune(up[n-2])) {
		if i := strings.IndexByte(strings.ToUpper(metaSuffixes), up[n-1]); i >= 0 {
			isomer = i + 1
			up = up[:n-1]
		}
	}

	var left, right string
	if l, r, ok := strings.Cut(up, "-"); ok {
		left, right = strings.TrimSpace(l), strings.TrimSpace(r)
	} else {
		split := strings.IndexFunc(up, unicode.IsDigit)
		if split < 0 {
			return NuclideID{}, fmt.Errorf("%w: %q has no mass number", ErrInvalidIdentity, s)
		}
		if split == 0 {
			letters := strings.IndexFunc(up, unicode.IsLetter)
			left, right = up[:letters], up[letters:]
		} else {
			left, right = up[:split], up[split:]
		}
	}

	symbol, massText := left, right
	if !isSymbol(symbol) {
		symbol, massText = right, left
	}
	// Mass numbers have at most three digits; longer runs are ZAIDs.
	a, err := strconv.Atoi(massText)
	if !isSymbol(symbol) || len(massText) > 3 || err != nil || a < 1 {
		return NuclideID{}, fmt.Errorf("%w: cannot read %q", ErrInvalidIdentity, s)
	}
	return NuclideID{Symbol: NormalizeSymbol(symbol), A: a, Isomer: isomer}, nil
}

// ParseZAID converts "ZZAAA" to (Z, A). Anything after a decimal point, as in
// "92235.70c", is ignored.
func ParseZAID(s string) (ZA, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1000 {
		return ZA{}, fmt.Errorf("%w: ZAID %q", ErrInvalidIdentity, s)
	}
	return ZA{Z: n / 1000, A: n % 1000}, nil
}

// Resolve returns the record a NuclideID names. A metastable suffix selects
// the isomer by its position in the ascending list of excited states.
func (t *Tables) Resolve(id NuclideID) (Nuclide, error) {
	z := id.Z
	if id.Symbol != "" {
		var err error
		if z, err = t.Z(id.Symbol); err != nil {
			return Nuclide{}, err
		}
	}
	if id.Isomer == 0 {
		return t.Nuc(z, id.A, 0)
	}

	es, err := t.Isomers(z, id.A)
	if err != nil {
		return Nuclide{}, err
	}
	if id.Isomer > len(es) {
		return Nuclide{}, fmt.Errorf("isomer %d of Z=%d A=%d: %w", id.Isomer, z, id.A, ErrNotFound)
	}
	return t.Nuc(z, id.A, es[id.Isomer-1])
}
