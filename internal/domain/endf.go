package domain

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const matSource = "mat"

// ENDF neutron sublibrary listing columns.
var (
	matColZ      = column{"Z", 6, 9}
	matColA      = column{"A", 13, 16}
	matColMeta   = column{"metastable", 16, 17}
	matColNumber = column{"MAT", 72, 76}
)

// MATKey identifies an evaluation on the ENDF neutron sublibrary. Every
// excited level of a nuclide shares the metastable key.
type MATKey struct {
	Z, A       int
	Metastable bool
}

// MATEntry is one evaluation line of the ENDF listing.
type MATEntry struct {
	MATKey
	MAT  int
	Line int
}

// ParseMATList reads the ENDF/B neutron sublibrary listing. Lines starting
// with '#' and blank lines are skipped. A key listed twice with different
// MAT numbers is a FormatError.
func ParseMATList(r io.Reader) ([]MATEntry, error) {
	var entries []MATEntry
	seen := make(map[MATKey]MATEntry)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseMATLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[entry.MATKey]; dup {
			if prev.MAT != entry.MAT {
				return nil, formatErr(matSource, lineNo, matColNumber.name,
					"MAT %d contradicts MAT %d of line %d", entry.MAT, prev.MAT, prev.Line)
			}
			continue
		}
		seen[entry.MATKey] = entry
		entries = append(entries, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read MAT list: %w", err)
	}
	return entries, nil
}

func parseMATLine(line string, lineNo int) (MATEntry, error) {
	var vals [3]int
	for i, c := range []column{matColZ, matColA, matColNumber} {
		raw := c.of(line)
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return MATEntry{}, formatErr(matSource, lineNo, c.name, "not a positive integer: %q", raw)
		}
		vals[i] = n
	}
	z, a, mat := vals[0], vals[1], vals[2]
	if a < z {
		return MATEntry{}, formatErr(matSource, lineNo, matColA.name, "A=%d below Z=%d", a, z)
	}
	return MATEntry{
		MATKey: MATKey{Z: z, A: a, Metastable: matColMeta.of(line) == "M"},
		MAT:    mat,
		Line:   lineNo,
	}, nil
}

// WithMATs attaches ENDF MAT numbers. Records pick up the number of their
// (Z, A, isomeric) key; entries naming no tabulated nuclide stay queryable
// through Tables.MAT.
func WithMATs(entries []MATEntry) Option {
	return func(t *Tables) {
		t.mats = make(map[MATKey]int, len(entries))
		for _, e := range entries {
			t.mats[e.MATKey] = e.MAT
		}
	}
}

// MAT returns the ENDF MAT number of the ground state, or of the metastable
// evaluation when metastable is set.
func (t *Tables) MAT(z, a int, metastable bool) (int, error) {
	mat, ok := t.mats[MATKey{Z: z, A: a, Metastable: metastable}]
	if !ok {
		return 0, fmt.Errorf("MAT of Z=%d A=%d metastable=%t: %w", z, a, metastable, ErrNotFound)
	}
	return mat, nil
}
