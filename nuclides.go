// Package nuclides exposes the nuclide, decay and atomic-weight tables built
// from the atomic-weight/abundance table and the nuclear wallet cards.
//
// Load parses both sources and returns immutable *Tables that are safe for
// concurrent readers:
//
//	tables, err := nuclides.Load(weights, wallet)
//	u235, err := tables.Nuc(92, 235, 0)
//	w, err := tables.Weights(nuclides.BySymbol("U"), 0, 0)
package nuclides

import (
	"io"

	"github.com/couchcryptid/nuclide-data/internal/domain"
	"github.com/couchcryptid/nuclide-data/internal/uncertain"
)

// Table and record types.
type (
	// Tables is the immutable, indexed view answering every query.
	Tables = domain.Tables
	// Element holds the standard atomic weight and natural composition of one element.
	Element = domain.Element
	// Nuclide is the record for one nuclear level, identified by (Z, A, E).
	Nuclide = domain.Nuclide
	// DecayMode is one decay channel with its Q-value and branch fraction.
	DecayMode = domain.DecayMode
	// ZA is an (atomic number, mass number) pair.
	ZA = domain.ZA
	// MATKey identifies an evaluation on the ENDF neutron sublibrary.
	MATKey = domain.MATKey
	// MATEntry is one evaluation line of the ENDF listing.
	MATEntry = domain.MATEntry
	// Option configures table building.
	Option = domain.Option

	// Value is a nominal value with a one-sigma uncertainty.
	Value = uncertain.Value
)

// Identity types.
type (
	// Identity names an element by number or symbol, optionally with a mass number.
	Identity = domain.Identity
	// NuclideID is a parsed nuclide name: element, mass number and isomer ordinal.
	NuclideID = domain.NuclideID
)

// Error types.
type (
	// FormatError reports an undecodable row or field of a source table.
	FormatError = domain.FormatError
	// DataConsistencyError is a non-fatal disagreement between derivable values.
	DataConsistencyError = domain.DataConsistencyError
)

var (
	// ErrNotFound is wrapped by queries naming an identity absent from the tables.
	ErrNotFound = domain.ErrNotFound
	// ErrInvalidIdentity is wrapped when an identity argument cannot be decomposed.
	ErrInvalidIdentity = domain.ErrInvalidIdentity
)

// DefaultEnergyTolerance is the default level-matching window in MeV.
const DefaultEnergyTolerance = domain.DefaultEnergyTolerance

// Load parses the atomic-weight table and the wallet cards and builds the
// lookup tables. Format errors are fatal; data-consistency findings are kept
// on the result as Warnings.
func Load(weights, wallet io.Reader, opts ...Option) (*Tables, error) {
	w, err := domain.ParseWeightTable(weights)
	if err != nil {
		return nil, err
	}
	c, err := domain.ParseWalletCards(wallet)
	if err != nil {
		return nil, err
	}
	n, err := domain.Normalize(w, c)
	if err != nil {
		return nil, err
	}
	return domain.BuildTables(n, opts...)
}

// WithEnergyTolerance sets the excitation-energy matching window in MeV.
func WithEnergyTolerance(mev float64) Option { return domain.WithEnergyTolerance(mev) }

// WithMATs attaches ENDF MAT numbers read with ParseMATList.
func WithMATs(entries []MATEntry) Option { return domain.WithMATs(entries) }

// ParseMATList reads the ENDF/B neutron sublibrary listing.
func ParseMATList(r io.Reader) ([]MATEntry, error) { return domain.ParseMATList(r) }

// ByNumber identifies an element by atomic number.
func ByNumber(z int) Identity { return domain.ByNumber(z) }

// BySymbol identifies an element by symbol, case-insensitively.
func BySymbol(symbol string) Identity { return domain.BySymbol(symbol) }

// ByCompound identifies an isotope by symbol and mass number.
func ByCompound(symbol string, a int) Identity { return domain.ByCompound(symbol, a) }

// ParseIdentity reads "U" or "U-235".
func ParseIdentity(s string) (Identity, error) { return domain.ParseIdentity(s) }

// ParseNuclideID reads nuclide names such as "U235", "235U", "92235" or
// "Am242m".
func ParseNuclideID(s string) (NuclideID, error) { return domain.ParseNuclideID(s) }

// Audit re-checks the invariants of built tables.
func Audit(t *Tables) []error { return domain.Audit(t) }
