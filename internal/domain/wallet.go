package domain

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/nuclide-data/internal/uncertain"
)

const walletSource = "wallet"

// hbar in MeV*s, used to convert level widths to half-lives.
const hbarMeVs = 6.582119569e-22

// secondsPerYear uses the tropical year of 365.2422 days.
const secondsPerYear = 365.2422 * 86400

// column is a fixed-width field of a wallet-card line, [start, end) in bytes.
type column struct {
	name       string
	start, end int
}

func (c column) of(line string) string {
	if c.start >= len(line) {
		return ""
	}
	end := min(c.end, len(line))
	return strings.TrimSpace(line[c.start:end])
}

var (
	colA           = column{"A", 1, 4}
	colIsomer      = column{"isomer", 4, 6}
	colZ           = column{"Z", 6, 9}
	colSymbol      = column{"symbol", 10, 12}
	colSpinParity  = column{"spin-parity", 16, 26}
	colDecayMode   = column{"decay mode", 30, 34}
	colBranch      = column{"branch", 35, 41}
	colEnergy      = column{"excitation energy", 42, 49}
	colQValue      = column{"Q-value", 49, 56}
	colHalfLife    = column{"half-life", 63, 80}
	colMassExcess  = column{"mass excess", 97, 105}
	colMassUnc     = column{"mass excess uncertainty", 105, 113}
	colSystematics = column{"systematics", 114, 115}
	colHalfLifeSec = column{"half-life seconds", 124, 133}
)

// halfLifeUnits maps time-unit tokens to seconds.
var halfLifeUnits = map[string]float64{
	"AS": 1e-18,
	"FS": 1e-15,
	"PS": 1e-12,
	"NS": 1e-9,
	"US": 1e-6,
	"MS": 1e-3,
	"S":  1,
	"M":  60,
	"H":  3600,
	"D":  86400,
	"Y":  secondsPerYear,
	"KY": 1e3 * secondsPerYear,
	"MY": 1e6 * secondsPerYear,
	"GY": 1e9 * secondsPerYear,
}

// widthUnits maps level-width unit tokens to MeV.
var widthUnits = map[string]float64{
	"EV":  1e-6,
	"KEV": 1e-3,
	"MEV": 1,
}

var decayLabels = map[string]string{
	"A":   "alpha",
	"B-":  "beta-",
	"B+":  "beta+",
	"EC":  "ec",
	"IT":  "it",
	"SF":  "sf",
	"N":   "n",
	"2N":  "2n",
	"P":   "p",
	"2P":  "2p",
	"2B-": "2beta-",
	"2B+": "2beta+",
	"2EC": "2ec",
	"B-N": "beta-n",
	"B+P": "beta+p",
	"ECP": "ecp",
}

// DecayBranch is one decay channel row of the wallet-card table.
type DecayBranch struct {
	Mode   string   // normalized label, e.g. "alpha"
	Q      *float64 // MeV
	Branch *float64 // fraction in (0,1]
	Line   int
}

// WalletEntry is one nuclide line of the wallet-card table together with the
// decay branches of its continuation lines.
type WalletEntry struct {
	Z      int
	A      int
	Isomer int // 0 ground, 1 first isomer, ...
	Symbol string

	SpinParity     string
	Energy         *float64 // MeV
	HalfLife       *uncertain.Value
	Stable         bool
	HalfLifeSec    *float64 // tabulated half-life in seconds; nil when zero, blank or STABLE
	MassExcess     *uncertain.Value
	SystematicMass bool

	Branches []DecayBranch
	Line     int
}

// Key returns the (Z, A) pair of the entry.
func (e WalletEntry) Key() ZA { return ZA{Z: e.Z, A: e.A} }

// ParseWalletCards reads the fixed-width nuclear wallet-card table. A line
// with A and Z columns starts a nuclide; a line with both blank continues the
// previous nuclide with another decay branch. Free-neutron lines (Z = 0) are
// skipped together with their continuations.
func ParseWalletCards(r io.Reader) ([]WalletEntry, error) {
	var entries []WalletEntry
	skipping := false

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if colA.of(line) == "" && colZ.of(line) == "" {
			if skipping {
				continue
			}
			if len(entries) == 0 {
				return nil, formatErr(walletSource, lineNo, "", "continuation line before any nuclide line")
			}
			if err := continueEntry(&entries[len(entries)-1], line, lineNo); err != nil {
				return nil, err
			}
			continue
		}

		entry, err := parseWalletLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		if entry.Z == 0 {
			skipping = true
			continue
		}
		skipping = false
		entries = append(entries, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read wallet cards: %w", err)
	}

	return entries, nil
}

func parseWalletLine(line string, lineNo int) (WalletEntry, error) {
	a, err := requiredInt(line, lineNo, colA)
	if err != nil {
		return WalletEntry{}, err
	}
	z, err := requiredInt(line, lineNo, colZ)
	if err != nil {
		return WalletEntry{}, err
	}
	if z < 0 || a < 1 || a < z {
		return WalletEntry{}, formatErr(walletSource, lineNo, colA.name, "invalid Z=%d A=%d", z, a)
	}

	isomer, err := parseIsomerMarker(colIsomer.of(line))
	if err != nil {
		return WalletEntry{}, &FormatError{Source: walletSource, Line: lineNo, Field: colIsomer.name, Err: err}
	}

	symbol := colSymbol.of(line)
	if z > 0 && !isSymbol(symbol) {
		return WalletEntry{}, formatErr(walletSource, lineNo, colSymbol.name, "malformed symbol %q", symbol)
	}

	entry := WalletEntry{
		Z:              z,
		A:              a,
		Isomer:         isomer,
		Symbol:         NormalizeSymbol(symbol),
		SpinParity:     colSpinParity.of(line),
		SystematicMass: colSystematics.of(line) == "S",
		Line:           lineNo,
	}

	if entry.Energy, err = optionalFloat(line, lineNo, colEnergy); err != nil {
		return WalletEntry{}, err
	}
	if entry.Energy != nil && *entry.Energy < 0 {
		return WalletEntry{}, formatErr(walletSource, lineNo, colEnergy.name, "negative energy %v", *entry.Energy)
	}

	entry.HalfLife, entry.Stable, err = parseHalfLife(colHalfLife.of(line))
	if err != nil {
		return WalletEntry{}, &FormatError{Source: walletSource, Line: lineNo, Field: colHalfLife.name, Err: err}
	}

	// The seconds column is filled with zero or filler on STABLE lines.
	if !entry.Stable {
		if entry.HalfLifeSec, err = parseHalfLifeSeconds(line, lineNo); err != nil {
			return WalletEntry{}, err
		}
	}

	if entry.MassExcess, err = parseMassExcess(line, lineNo); err != nil {
		return WalletEntry{}, err
	}

	branch, ok, err := parseBranch(line, lineNo)
	if err != nil {
		return WalletEntry{}, err
	}
	if ok {
		entry.Branches = append(entry.Branches, branch)
	}

	return entry, nil
}

// continueEntry attaches a continuation line to its nuclide. Continuation
// lines may only carry decay data and the excitation energy.
func continueEntry(entry *WalletEntry, line string, lineNo int) error {
	for _, c := range []column{colIsomer, colSymbol, colSpinParity, colHalfLife, colMassExcess, colMassUnc, colHalfLifeSec} {
		if c.of(line) != "" {
			return formatErr(walletSource, lineNo, c.name, "not allowed on a continuation line")
		}
	}

	energy, err := optionalFloat(line, lineNo, colEnergy)
	if err != nil {
		return err
	}
	if energy != nil {
		if entry.Energy != nil && *entry.Energy != *energy {
			return formatErr(walletSource, lineNo, colEnergy.name,
				"%v MeV contradicts %v MeV of line %d", *energy, *entry.Energy, entry.Line)
		}
		entry.Energy = energy
	}

	branch, ok, err := parseBranch(line, lineNo)
	if err != nil {
		return err
	}
	if ok {
		entry.Branches = append(entry.Branches, branch)
	}
	return nil
}

func parseBranch(line string, lineNo int) (DecayBranch, bool, error) {
	mode := colDecayMode.of(line)
	rawBranch := colBranch.of(line)
	q, err := optionalFloat(line, lineNo, colQValue)
	if err != nil {
		return DecayBranch{}, false, err
	}

	if mode == "" {
		if rawBranch != "" || q != nil {
			return DecayBranch{}, false, formatErr(walletSource, lineNo, colDecayMode.name, "branch data without a decay mode")
		}
		return DecayBranch{}, false, nil
	}

	fraction, err := parseBranchPercent(rawBranch)
	if err != nil {
		return DecayBranch{}, false, &FormatError{Source: walletSource, Line: lineNo, Field: colBranch.name, Err: err}
	}

	return DecayBranch{Mode: decayLabel(mode), Q: q, Branch: fraction, Line: lineNo}, true, nil
}

// parseBranchPercent converts a branch percentage to a fraction. Limits such
// as "<0.1" keep their bound; "?" and blanks are absent.
func parseBranchPercent(s string) (*float64, error) {
	s = strings.TrimLeft(s, "<>~=")
	if s == "" || s == "?" {
		return nil, nil
	}
	pct, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	if pct <= 0 || pct > 100 {
		return nil, fmt.Errorf("%v%% outside (0,100]", pct)
	}
	f := pct / 100
	return &f, nil
}

func decayLabel(token string) string {
	token = strings.ToUpper(token)
	if label, ok := decayLabels[token]; ok {
		return label
	}
	return strings.ToLower(token)
}

func parseIsomerMarker(s string) (int, error) {
	switch {
	case s == "":
		return 0, nil
	case s == "M":
		return 1, nil
	case len(s) == 2 && s[0] == 'M' && s[1] >= '1' && s[1] <= '9':
		return int(s[1] - '0'), nil
	default:
		return 0, fmt.Errorf("unrecognized isomer marker %q", s)
	}
}

// parseHalfLife reads "STABLE", "<value> <unit> [<uncertainty>]" or a
// blank (unmeasured). Width units are converted with T = hbar*ln2/Gamma.
func parseHalfLife(s string) (*uncertain.Value, bool, error) {
	fields := strings.Fields(s)
	switch {
	case len(fields) == 0:
		return nil, false, nil
	case len(fields) == 1 && strings.EqualFold(fields[0], "STABLE"):
		return nil, true, nil
	case len(fields) < 2 || len(fields) > 3:
		return nil, false, fmt.Errorf("expected \"value unit [uncertainty]\", got %q", s)
	}

	nominal, err := strconv.ParseFloat(strings.TrimLeft(fields[0], "<>~"), 64)
	if err != nil {
		return nil, false, fmt.Errorf("value %q is not a number", fields[0])
	}
	if nominal <= 0 {
		return nil, false, fmt.Errorf("non-positive value %v", nominal)
	}
	var sigma float64
	if len(fields) == 3 {
		if sigma, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return nil, false, fmt.Errorf("uncertainty %q is not a number", fields[2])
		}
	}
	v := uncertain.New(nominal, sigma)

	unit := strings.ToUpper(fields[1])
	if scale, ok := halfLifeUnits[unit]; ok {
		hl := v.Scale(scale)
		return &hl, false, nil
	}
	if scale, ok := widthUnits[unit]; ok {
		hl := v.Scale(scale).Inverse(hbarMeVs * math.Ln2)
		return &hl, false, nil
	}
	return nil, false, fmt.Errorf("unrecognized unit %q", fields[1])
}

func parseMassExcess(line string, lineNo int) (*uncertain.Value, error) {
	nominal, err := optionalFloat(line, lineNo, colMassExcess)
	if err != nil {
		return nil, err
	}
	sigma, err := optionalFloat(line, lineNo, colMassUnc)
	if err != nil {
		return nil, err
	}
	if nominal == nil {
		if sigma != nil {
			return nil, formatErr(walletSource, lineNo, colMassUnc.name, "uncertainty without a mass excess")
		}
		return nil, nil
	}
	v := uncertain.Exact(*nominal)
	if sigma != nil {
		v = uncertain.New(*nominal, *sigma)
	}
	return &v, nil
}

func requiredInt(line string, lineNo int, c column) (int, error) {
	raw := c.of(line)
	if raw == "" {
		return 0, formatErr(walletSource, lineNo, c.name, "missing")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, formatErr(walletSource, lineNo, c.name, "not an integer: %q", raw)
	}
	return n, nil
}

// parseHalfLifeSeconds reads the tabulated half-life in seconds. Zero marks
// an untabulated value.
func parseHalfLifeSeconds(line string, lineNo int) (*float64, error) {
	sec, err := optionalFloat(line, lineNo, colHalfLifeSec)
	if err != nil || sec == nil {
		return nil, err
	}
	if !(*sec >= 0) || math.IsInf(*sec, 0) {
		return nil, formatErr(walletSource, lineNo, colHalfLifeSec.name, "invalid half-life %v s", *sec)
	}
	if *sec == 0 {
		return nil, nil
	}
	return sec, nil
}

func optionalFloat(line string, lineNo int, c column) (*float64, error) {
	raw := c.of(line)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, formatErr(walletSource, lineNo, c.name, "not a number: %q", raw)
	}
	return &f, nil
}
