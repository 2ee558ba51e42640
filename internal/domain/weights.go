package domain

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/nuclide-data/internal/uncertain"
)

const weightsSource = "weights"

// Keys of the atomic-weight table chunks.
const (
	keyAtomicNumber   = "Atomic Number"
	keyAtomicSymbol   = "Atomic Symbol"
	keyMassNumber     = "Mass Number"
	keyRelativeMass   = "Relative Atomic Mass"
	keyComposition    = "Isotopic Composition"
	keyStandardWeight = "Standard Atomic Weight"
)

// WeightEntry is one row of the atomic-weight table. Element-level entries
// have A == 0 and carry the standard atomic weight; isotope-level entries
// carry the relative atomic mass and the natural abundance.
type WeightEntry struct {
	Z         int
	A         int
	Symbol    string
	Weight    *uncertain.Value
	Abundance *uncertain.Value // nil when the composition is not tabulated
	Line      int
}

// IsElement reports whether the entry is element-level.
func (e WeightEntry) IsElement() bool { return e.A == 0 }

type weightChunk struct {
	line   int
	fields map[string]string
	lines  map[string]int
}

// ParseWeightTable reads the atomic-weight/abundance table. Each chunk of
// "Key = Value" lines separated by blank lines describes one isotope; the
// first chunk of every Z also yields an element-level entry.
func ParseWeightTable(r io.Reader) ([]WeightEntry, error) {
	chunks, err := readWeightChunks(r)
	if err != nil {
		return nil, err
	}

	var entries []WeightEntry
	elementWeight := make(map[int]*uncertain.Value)
	lastZ := 0

	for _, c := range chunks {
		iso, std, err := decodeWeightChunk(c)
		if err != nil {
			return nil, err
		}

		prev, seen := elementWeight[iso.Z]
		switch {
		case !seen:
			elementWeight[iso.Z] = std
			entries = append(entries, WeightEntry{Z: iso.Z, Symbol: iso.Symbol, Weight: std, Line: c.line})
		case iso.Z != lastZ:
			return nil, formatErr(weightsSource, c.line, keyAtomicNumber,
				"element Z=%d resumes after another element", iso.Z)
		case !sameWeight(prev, std):
			return nil, formatErr(weightsSource, c.lines[keyStandardWeight], keyStandardWeight,
				"Z=%d standard atomic weight disagrees with earlier chunk", iso.Z)
		}
		lastZ = iso.Z

		entries = append(entries, iso)
	}

	return entries, nil
}

func readWeightChunks(r io.Reader) ([]weightChunk, error) {
	var chunks []weightChunk
	var cur *weightChunk

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			if cur != nil {
				chunks = append(chunks, *cur)
				cur = nil
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, formatErr(weightsSource, lineNo, "", "expected \"Key = Value\", got %q", line)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, formatErr(weightsSource, lineNo, "", "empty key in %q", line)
		}

		if cur == nil {
			cur = &weightChunk{line: lineNo, fields: make(map[string]string), lines: make(map[string]int)}
		}
		if _, dup := cur.fields[key]; dup {
			return nil, formatErr(weightsSource, lineNo, key, "key repeated within one record")
		}
		cur.fields[key] = strings.TrimSpace(value)
		cur.lines[key] = lineNo
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read weight table: %w", err)
	}
	if cur != nil {
		chunks = append(chunks, *cur)
	}
	return chunks, nil
}

// decodeWeightChunk turns one chunk into an isotope entry and the element's
// standard atomic weight (nil when the table gives none).
func decodeWeightChunk(c weightChunk) (WeightEntry, *uncertain.Value, error) {
	z, err := c.int(keyAtomicNumber)
	if err != nil {
		return WeightEntry{}, nil, err
	}
	if z < 1 {
		return WeightEntry{}, nil, formatErr(weightsSource, c.lines[keyAtomicNumber], keyAtomicNumber, "Z=%d out of range", z)
	}
	a, err := c.int(keyMassNumber)
	if err != nil {
		return WeightEntry{}, nil, err
	}
	if a < z {
		return WeightEntry{}, nil, formatErr(weightsSource, c.lines[keyMassNumber], keyMassNumber, "A=%d below Z=%d", a, z)
	}

	symbol, ok := c.fields[keyAtomicSymbol]
	if !ok || !isSymbol(symbol) {
		return WeightEntry{}, nil, formatErr(weightsSource, c.line, keyAtomicSymbol, "missing or malformed symbol %q", symbol)
	}

	mass, err := c.value(keyRelativeMass, true)
	if err != nil {
		return WeightEntry{}, nil, err
	}

	abundance, err := c.value(keyComposition, false)
	if err != nil {
		return WeightEntry{}, nil, err
	}
	if abundance != nil && (abundance.Nominal < 0 || abundance.Nominal > 1) {
		return WeightEntry{}, nil, formatErr(weightsSource, c.lines[keyComposition], keyComposition,
			"abundance %v outside [0,1]", abundance.Nominal)
	}

	std, err := c.standardWeight()
	if err != nil {
		return WeightEntry{}, nil, err
	}

	return WeightEntry{
		Z:         z,
		A:         a,
		Symbol:    NormalizeSymbol(symbol),
		Weight:    mass,
		Abundance: abundance,
		Line:      c.line,
	}, std, nil
}

func (c weightChunk) int(key string) (int, error) {
	raw, ok := c.fields[key]
	if !ok {
		return 0, formatErr(weightsSource, c.line, key, "missing")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, formatErr(weightsSource, c.lines[key], key, "not an integer: %q", raw)
	}
	return n, nil
}

// value parses an uncertain numeric field. Empty optional fields are nil.
func (c weightChunk) value(key string, required bool) (*uncertain.Value, error) {
	raw := stripFootnote(c.fields[key])
	if raw == "" {
		if required {
			return nil, formatErr(weightsSource, c.line, key, "missing")
		}
		return nil, nil
	}
	v, err := uncertain.Parse(raw)
	if err != nil {
		return nil, &FormatError{Source: weightsSource, Line: c.lines[key], Field: key, Err: err}
	}
	return &v, nil
}

// standardWeight reads the element weight. A bracketed single integer such
// as "[98]" names the longest-lived isotope of an element without a
// standard weight, and yields nil.
func (c weightChunk) standardWeight() (*uncertain.Value, error) {
	raw := stripFootnote(c.fields[keyStandardWeight])
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") && !strings.Contains(raw, ",") {
		if _, err := strconv.Atoi(raw[1 : len(raw)-1]); err == nil {
			return nil, nil
		}
	}
	v, err := uncertain.Parse(raw)
	if err != nil {
		return nil, &FormatError{Source: weightsSource, Line: c.lines[keyStandardWeight], Field: keyStandardWeight, Err: err}
	}
	return &v, nil
}

// stripFootnote removes trailing footnote markers such as "#" or "*".
func stripFootnote(s string) string {
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "#*"))
}

func sameWeight(a, b *uncertain.Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
