package report

import "github.com/asm2me/Asterisk-Reporting/internal/cdr"

// Principal is the viewer identity handed in by the auth collaborator.
//
// Access invariant: a non-admin with no allowed extensions sees nothing.
// Denial is never an error; it is an always-false predicate, so such a viewer
// gets an empty but otherwise valid report.

type Principal struct {
	Username   string
	IsAdmin    bool
	Extensions []string
}

// LegPredicate is the unit every filter composes into: a pure boolean test
// over a single call leg.
type LegPredicate func(cdr.CallLeg) bool

func allowAll(cdr.CallLeg) bool { return true }
func denyAll(cdr.CallLeg) bool  { return false }

// Predicate builds the access test for this principal. Non-admin viewers may
// only see legs where one of their extensions appears on either channel side.
// Recomputed per request; principals are not cached.
func (p Principal) Predicate() LegPredicate {
	if p.IsAdmin {
		return allowAll
	}
	pats := p.patterns()
	if len(pats) == 0 {
		return denyAll
	}
	return func(l cdr.CallLeg) bool {
		for _, pat := range pats {
			if pat.MatchesLeg(l) {
				return true
			}
		}
		return false
	}
}

// patterns drops anything that is not a plain digit string, same as the
// extension-list normalization on the user-management side.
func (p Principal) patterns() []cdr.ExtensionPattern {
	out := make([]cdr.ExtensionPattern, 0, len(p.Extensions))
	for _, e := range p.Extensions {
		if pat, ok := cdr.NewExtensionPattern(e); ok {
			out = append(out, pat)
		}
	}
	return out
}

func conjoin(preds ...LegPredicate) LegPredicate {
	return func(l cdr.CallLeg) bool {
		for _, p := range preds {
			if !p(l) {
				return false
			}
		}
		return true
	}
}
