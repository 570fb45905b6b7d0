package zerv

// PrecedenceOrder selects one of the two built-in total orders over
// (Epoch, Base=Major.Minor.Patch, PreRelease, Post, Dev).
type PrecedenceOrder int

const (
	// SemVerOrder: pre-release sorts before the same-base release; epoch
	// is not part of SemVer's grammar and is ignored for comparison.
	SemVerOrder PrecedenceOrder = iota
	// PEP440Order: epoch dominates every other field; post and dev carry
	// PEP 440's release-ordering semantics (dev < pre < release < post).
	PEP440Order
)

func (o PrecedenceOrder) String() string {
	if o == PEP440Order {
		return "pep440"
	}
	return "semver"
}

// phase classifies a Vars value's position along the pre/release/post
// axis, independent of the numbers involved, so both orderings can share
// the same phase ranking logic.
type phase int

const (
	phaseDev phase = iota
	phasePre
	phaseRelease
	phasePost
)

func classify(v Vars) (phase, uint64, bool, uint64) {
	// Returns (phase, pre-release/post number used for the phase, has a
	// dev number, dev number).
	hasDev := v.Dev != nil
	dev := U64(v.Dev)

	if v.Post != nil {
		return phasePost, U64(v.Post), hasDev, dev
	}
	if v.PreRelease != nil {
		n := uint64(0)
		if v.PreRelease.Number != nil {
			n = *v.PreRelease.Number
		}
		return phasePre, n, hasDev, dev
	}
	if hasDev {
		return phaseDev, 0, hasDev, dev
	}
	return phaseRelease, 0, hasDev, dev
}

// Compare orders a and b under order. It returns
// a negative number, zero, or a positive number as a < b, a == b, a > b.
func Compare(a, b Vars, order PrecedenceOrder) int {
	if order == PEP440Order {
		if d := cmpU64(U64(a.Epoch), U64(b.Epoch)); d != 0 {
			return d
		}
	}

	if d := cmpU64(U64(a.Major), U64(b.Major)); d != 0 {
		return d
	}
	if d := cmpU64(U64(a.Minor), U64(b.Minor)); d != 0 {
		return d
	}
	if d := cmpU64(U64(a.Patch), U64(b.Patch)); d != 0 {
		return d
	}

	pa, na, devA, da := classify(a)
	pb, nb, devB, db := classify(b)

	if order == SemVerOrder {
		// SemVer has no post-release concept; treat Post as an
		// application-defined tie-breaker ranked after PreRelease.
		if d := cmpPhaseSemVer(pa, pb); d != 0 {
			return d
		}
	} else {
		if d := cmpPhase(pa, pb); d != 0 {
			return d
		}
	}

	if pa == pb {
		if d := cmpU64(na, nb); d != 0 {
			return d
		}
		if pa == phasePre {
			if d := cmpLabel(a.PreRelease, b.PreRelease); d != 0 {
				return d
			}
		}
	}

	// Dev releases of the same phase/number sort lower than non-dev.
	if devA != devB {
		if devA {
			return -1
		}
		return 1
	}
	if devA && devB {
		return cmpU64(da, db)
	}
	return 0
}

func cmpPhase(a, b phase) int {
	// PEP440 ordering: dev < pre < release < post, independent of which
	// phase carries a .devN suffix (handled separately by the caller).
	rank := map[phase]int{phaseDev: 0, phasePre: 1, phaseRelease: 2, phasePost: 3}
	return cmpInt(rank[a], rank[b])
}

func cmpPhaseSemVer(a, b phase) int {
	// SemVer ordering: pre-release < release; post is an extra
	// tie-breaker that ranks above release (it only ever appears via
	// extra_core literals surviving a round trip).
	rank := map[phase]int{phaseDev: 0, phasePre: 1, phaseRelease: 2, phasePost: 3}
	return cmpInt(rank[a], rank[b])
}

func cmpLabel(a, b *PreReleaseValue) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	return cmpInt(int(a.Label), int(b.Label))
}

func cmpU64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
