// Package zerv implements the normalized internal version model ("NV"):
// Schema, Vars, Component, PrecedenceOrder, and the validate-then-commit
// schema mutation discipline.
package zerv

import "fmt"

// VarClass partitions Var into three disjoint classes: Primary
// variables belong in core, Secondary in extra_core,
// Context variables anywhere.
type VarClass int

const (
	ClassPrimary VarClass = iota
	ClassSecondary
	ClassContext
)

// VarKind is the closed enum of named variables a Component may reference.
type VarKind int

const (
	Major VarKind = iota
	Minor
	Patch

	Epoch
	PreRelease
	Post
	Dev

	Distance
	Dirty
	BumpedBranch
	BumpedCommitHash
	BumpedCommitHashShort
	BumpedTimestamp
	LastBranch
	LastCommitHash
	LastTimestamp
	Timestamp
	Custom
)

func (k VarKind) String() string {
	switch k {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Patch:
		return "patch"
	case Epoch:
		return "epoch"
	case PreRelease:
		return "pre_release"
	case Post:
		return "post"
	case Dev:
		return "dev"
	case Distance:
		return "distance"
	case Dirty:
		return "dirty"
	case BumpedBranch:
		return "bumped_branch"
	case BumpedCommitHash:
		return "bumped_commit_hash"
	case BumpedCommitHashShort:
		return "bumped_commit_hash_short"
	case BumpedTimestamp:
		return "bumped_timestamp"
	case LastBranch:
		return "last_branch"
	case LastCommitHash:
		return "last_commit_hash"
	case LastTimestamp:
		return "last_timestamp"
	case Timestamp:
		return "timestamp"
	case Custom:
		return "custom"
	default:
		return fmt.Sprintf("VarKind(%d)", int(k))
	}
}

// Class reports which of the three disjoint var classes k belongs to.
func (k VarKind) Class() VarClass {
	switch k {
	case Major, Minor, Patch:
		return ClassPrimary
	case Epoch, PreRelease, Post, Dev:
		return ClassSecondary
	default:
		return ClassContext
	}
}

// Var is a single variable reference: a VarKind plus the extra data that
// Timestamp and Custom kinds carry (a strftime/preset pattern, or a
// custom-map key, respectively).
type Var struct {
	Kind    VarKind
	Pattern string // only meaningful when Kind == Timestamp
	Key     string // only meaningful when Kind == Custom
}

// Equal reports whether two Var values refer to the same variable
// (including, for Timestamp/Custom, the same pattern/key).
func (v Var) Equal(o Var) bool {
	return v.Kind == o.Kind && v.Pattern == o.Pattern && v.Key == o.Key
}

func (v Var) String() string {
	switch v.Kind {
	case Timestamp:
		return fmt.Sprintf("timestamp(%s)", v.Pattern)
	case Custom:
		return fmt.Sprintf("custom(%s)", v.Key)
	default:
		return v.Kind.String()
	}
}

// PreReleaseLabel is the closed set of pre-release labels used
// uniformly across codecs.
type PreReleaseLabel int

const (
	Alpha PreReleaseLabel = iota
	Beta
	Rc
)

func (l PreReleaseLabel) String() string {
	switch l {
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Rc:
		return "rc"
	default:
		return "unknown"
	}
}

// Code returns the single-letter PEP 440 form of the label, exposed to
// templates as pre_release.label_code.
func (l PreReleaseLabel) Code() string {
	switch l {
	case Alpha:
		return "a"
	case Beta:
		return "b"
	case Rc:
		return "rc"
	default:
		return ""
	}
}

// ParsePreReleaseLabel normalizes the known synonyms:
// alpha, beta, c, rc, preview, pre.
func ParsePreReleaseLabel(s string) (PreReleaseLabel, bool) {
	switch s {
	case "alpha", "a":
		return Alpha, true
	case "beta", "b":
		return Beta, true
	case "c", "rc", "preview", "pre":
		return Rc, true
	default:
		return 0, false
	}
}

// PreReleaseValue holds the pre-release component of Vars: a label and
// an optional number. A nil number is distinct from number 0.
type PreReleaseValue struct {
	Label  PreReleaseLabel
	Number *uint64
}
