package domain

import (
	"fmt"
	"math"
)

// Audit re-checks the invariants of a built table and returns one error per
// violation. A table produced by Normalize and BuildTables from well-formed
// sources yields none; branch-sum violations also appear in Warnings.
func Audit(t *Tables) []error {
	var problems []error
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	for _, z := range t.Elements() {
		as, err := t.Isotopes(z)
		if err != nil {
			continue
		}

		var abundanceSum float64
		for _, a := range as {
			ground, err := t.Nuc(z, a, 0)
			if err != nil {
				report("Z=%d A=%d: no ground state: %v", z, a, err)
				continue
			}
			auditRecord(ground, report)
			if ground.Isomeric {
				report("%s: ground state flagged isomeric", ground)
			}
			if ground.Abundance != nil {
				abundanceSum += ground.Abundance.Nominal
			}

			es, err := t.Isomers(z, a)
			if err != nil {
				report("%s: isomers: %v", ground, err)
				continue
			}
			prev := 0.0
			for _, e := range es {
				if e <= prev {
					report("%s: isomer energies not strictly ascending at %v MeV", ground, e)
				}
				prev = e
				iso, err := t.Nuc(z, a, e)
				switch {
				case err != nil:
					report("%s: isomer at %v MeV does not resolve: %v", ground, e, err)
				case !iso.Isomeric:
					report("%s: level at %v MeV is not flagged isomeric", iso, e)
				default:
					auditRecord(iso, report)
				}
			}
		}
		if abundanceSum > 1+abundanceSumTolerance {
			report("Z=%d: natural abundances sum to %.6f", z, abundanceSum)
		}
	}
	return problems
}

func auditRecord(n Nuclide, report func(string, ...any)) {
	if n.A < n.Z || n.Z < 1 {
		report("%s: A=%d below Z=%d", n, n.A, n.Z)
	}
	if n.Abundance != nil && (n.Abundance.Nominal < 0 || n.Abundance.Nominal > 1) {
		report("%s: abundance %v outside [0,1]", n, n.Abundance.Nominal)
	}
	for label, m := range n.DecayModes {
		if m.Branch != nil && (*m.Branch <= 0 || *m.Branch > 1) {
			report("%s: %s branch %v outside (0,1]", n, label, *m.Branch)
		}
	}
	if sum := n.BranchSum(); sum > 1+branchSumTolerance {
		report("%s: decay branches sum to %.6f", n, sum)
	}
	if n.Stable && (n.DecayConstant != nil || len(n.DecayModes) > 0) {
		report("%s: stable nuclide carries decay data", n)
	}
	if n.DecayConstant != nil && n.HalfLife != nil {
		if r := n.DecayConstant.Nominal * n.HalfLife.Nominal / math.Ln2; math.Abs(r-1) > lambdaTolerance {
			report("%s: decay constant and half-life disagree (lambda*T/ln2 = %.6f)", n, r)
		}
	}
}
