package zerv

import (
	"strings"

	"github.com/zervdev/zerv/src/zerr"
)

// presetTimestampNames is the closed set of preset pattern names a
// Timestamp component allows, beyond a strftime-style "%..." string.
var presetTimestampNames = map[string]bool{
	"compact_date": true, "compact_datetime": true,
	"YYYY": true, "YY": true,
	"MM": true, "0M": true,
	"DD": true, "0D": true,
	"HH": true, "0H": true,
	"mm": true, "0m": true,
	"SS": true, "0S": true,
	"WW": true, "0W": true,
}

// Validate checks s against the schema invariants and returns the first
// violation found.
func Validate(s Schema) error {
	if err := checkNonEmpty(s); err != nil {
		return err
	}
	if err := checkPrimaryPlacement(s); err != nil {
		return err
	}
	if err := checkSecondaryPlacement(s); err != nil {
		return err
	}
	if err := checkBuildNoCoreVars(s); err != nil {
		return err
	}
	if err := checkTimestampPatterns(s); err != nil {
		return err
	}
	return nil
}

// checkNonEmpty: the schema must be non-empty across all sections.
func checkNonEmpty(s Schema) error {
	if len(s.Core) == 0 && len(s.ExtraCore) == 0 && len(s.Build) == 0 {
		return zerr.New(zerr.InvalidArgument, "schema must contain at least one component")
	}
	return nil
}

// checkPrimaryPlacement: Primary vars only in core, at most once each,
// in canonical Major->Minor->Patch order when multiple appear.
func checkPrimaryPlacement(s Schema) error {
	seen := map[VarKind]bool{}
	lastRank := -1
	rank := map[VarKind]int{Major: 0, Minor: 1, Patch: 2}

	for _, c := range s.Core {
		if c.Kind != CompVariable || c.Var.Kind.Class() != ClassPrimary {
			continue
		}
		if seen[c.Var.Kind] {
			return zerr.New(zerr.InvalidArgument, "primary variable %s appears more than once in core", c.Var.Kind)
		}
		seen[c.Var.Kind] = true
		r := rank[c.Var.Kind]
		if r < lastRank {
			return zerr.New(zerr.InvalidArgument, "primary variables must appear in Major, Minor, Patch order in core")
		}
		lastRank = r
	}

	for _, sec := range []struct {
		name  string
		comps []Component
	}{{"extra_core", s.ExtraCore}, {"build", s.Build}} {
		for _, c := range sec.comps {
			if c.Kind == CompVariable && c.Var.Kind.Class() == ClassPrimary {
				return zerr.New(zerr.InvalidArgument, "primary variable %s must not appear in %s", c.Var.Kind, sec.name)
			}
		}
	}
	return nil
}

// checkSecondaryPlacement: Secondary vars only in extra_core, at most
// once each.
func checkSecondaryPlacement(s Schema) error {
	seen := map[VarKind]bool{}
	for _, c := range s.ExtraCore {
		if c.Kind != CompVariable || c.Var.Kind.Class() != ClassSecondary {
			continue
		}
		if seen[c.Var.Kind] {
			return zerr.New(zerr.InvalidArgument, "secondary variable %s appears more than once in extra_core", c.Var.Kind)
		}
		seen[c.Var.Kind] = true
	}

	for _, sec := range []struct {
		name  string
		comps []Component
	}{{"core", s.Core}, {"build", s.Build}} {
		for _, c := range sec.comps {
			if c.Kind == CompVariable && c.Var.Kind.Class() == ClassSecondary {
				return zerr.New(zerr.InvalidArgument, "secondary variable %s must not appear in %s", c.Var.Kind, sec.name)
			}
		}
	}
	return nil
}

// checkBuildNoCoreVars: build contains no Primary or Secondary
// variables (context variables are fine anywhere).
func checkBuildNoCoreVars(s Schema) error {
	for _, c := range s.Build {
		if c.Kind == CompVariable && c.Var.Kind.Class() != ClassContext {
			return zerr.New(zerr.InvalidArgument, "build must not contain primary or secondary variable %s", c.Var.Kind)
		}
	}
	return nil
}

// checkTimestampPatterns: a Timestamp(p) pattern is a preset name or a
// strftime string beginning with '%'.
func checkTimestampPatterns(s Schema) error {
	all := append(append(append([]Component{}, s.Core...), s.ExtraCore...), s.Build...)
	for _, c := range all {
		if c.Kind != CompVariable || c.Var.Kind != Timestamp {
			continue
		}
		p := c.Var.Pattern
		if presetTimestampNames[p] {
			continue
		}
		if strings.HasPrefix(p, "%") {
			continue
		}
		return zerr.New(zerr.InvalidArgument, "timestamp pattern %q is neither a preset nor a strftime string", p)
	}
	return nil
}
