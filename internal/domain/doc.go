// Package domain models nuclide data merged from an atomic-weight table and a
// nuclear wallet-card table.
//
// # Data Sources
//
// The atomic-weight table follows the NIST "Atomic Weights and Isotopic
// Compositions" ASCII export. Each isotope is a chunk of "Key = Value" lines,
// chunks separated by blank lines:
//
//	Atomic Number = 92
//	Atomic Symbol = U
//	Mass Number = 235
//	Relative Atomic Mass = 235.0439301(19)
//	Isotopic Composition = 0.007204(6)
//	Standard Atomic Weight = 238.02891(3)
//
// All chunks of one element are contiguous. Hydrogen isotopes may carry their
// own symbols (D, T); these become aliases of Z = 1.
//
// The wallet-card table is fixed width, one nuclear level per line. Columns
// are 0-based byte offsets, half open:
//
//	[1,4)     A
//	[4,6)     isomer marker: blank, M, M2..M9
//	[6,9)     Z
//	[10,12)   element symbol
//	[16,26)   spin and parity
//	[30,34)   decay mode token
//	[35,41)   branch, percent
//	[42,49)   excitation energy, MeV
//	[49,56)   Q-value, MeV
//	[63,80)   half-life: "STABLE" or "<value> <unit> [<uncertainty>]"
//	[97,105)  mass excess, MeV
//	[105,113) mass excess uncertainty, MeV
//	[114,115) "S" when the mass excess comes from systematics
//	[124,133) half-life in seconds, zero when untabulated
//
// The seconds column is preferred over the half-life string, which still
// supplies the uncertainty. It is ignored on STABLE lines.
//
// A line with blank A and Z continues the nuclide above it with another decay
// branch. Free-neutron lines (Z = 0) are skipped.
//
// # Units
//
// Half-lives are stored in seconds. Time units AS through GY are accepted; a
// year is 365.2422 days. Level widths in EV, KEV or MEV are converted with
// T = hbar*ln2/Gamma. Energies and mass excesses stay in MeV; weights are in
// unified atomic mass units.
//
// Decay mode tokens are normalized to lower-case labels: A becomes "alpha",
// B- becomes "beta-", EC stays "ec", and unknown tokens are lower-cased.
//
// # Identity
//
// Records are keyed by (Z, A, E). Excitation energies are floats, so lookups
// match the nearest tabulated level within a configurable tolerance.
package domain
