// Package bump implements the override/bump resolver: applying explicit
// field/schema-slot overrides and field/schema-slot bumps against a Vars
// value, with reset-descendants semantics. The resets follow one fixed
// table (see applyBumps) for every schema; the schema's PrecedenceOrder
// is not consulted.
package bump

import (
	"strconv"

	"github.com/zervdev/zerv/src/version/zerv"
	"github.com/zervdev/zerv/src/zerr"
)

// SectionSpec is one `index[=value]` schema-section target:
// Index may be negative (counts from the end of the section). HasValue
// distinguishes an explicit value from "no value" (delta 1 for a bump;
// for an override, Resolve skips a valueless spec).
type SectionSpec struct {
	Index    int
	HasValue bool
	Value    string
}

// Overrides holds every override source, ranked: explicit
// per-field overrides (highest precedence) and schema-section overrides.
type Overrides struct {
	Major, Minor, Patch *uint64
	Epoch, Post, Dev    *uint64
	PreReleaseLabel     *zerv.PreReleaseLabel
	PreReleaseNum       *uint64

	Core, ExtraCore, Build []SectionSpec
}

// Bumps holds every bump source. Major/Minor/Patch/Epoch/Post/Dev and
// PreReleaseNum are deltas (nil means "not bumped"); PreReleaseLabel
// bumping supplies the new label.
type Bumps struct {
	Major, Minor, Patch *uint64
	Epoch, Post, Dev    *uint64
	PreReleaseNum       *uint64
	PreReleaseLabel     *zerv.PreReleaseLabel

	Core, ExtraCore, Build []SectionSpec
}

// ContextToggle selects whether a bumped result retains VCS context
// (default) or synthesizes a clean release.
type ContextToggle int

const (
	BumpContext ContextToggle = iota
	NoBumpContext
)

// Resolve applies ov then bp against vars under schema, returning the
// resulting Vars. Overrides are computed first (three-source precedence),
// then bumps apply in the canonical field order with descendant resets,
// then the context toggle runs.
func Resolve(schema zerv.Schema, vars zerv.Vars, ov Overrides, bp Bumps, toggle ContextToggle) (zerv.Vars, error) {
	if err := checkDuplicateIndexes(ov.Core); err != nil {
		return zerv.Vars{}, err
	}
	if err := checkDuplicateIndexes(ov.ExtraCore); err != nil {
		return zerv.Vars{}, err
	}
	if err := checkDuplicateIndexes(ov.Build); err != nil {
		return zerv.Vars{}, err
	}
	if err := checkDuplicateIndexes(bp.Core); err != nil {
		return zerv.Vars{}, err
	}
	if err := checkDuplicateIndexes(bp.ExtraCore); err != nil {
		return zerv.Vars{}, err
	}
	if err := checkDuplicateIndexes(bp.Build); err != nil {
		return zerv.Vars{}, err
	}

	sectionOv, err := resolveSectionOverrides(schema, ov)
	if err != nil {
		return zerv.Vars{}, err
	}
	out, err := applyOverrides(vars, ov, sectionOv)
	if err != nil {
		return zerv.Vars{}, err
	}

	sectionBp, err := resolveSectionBumps(schema, bp)
	if err != nil {
		return zerv.Vars{}, err
	}
	resolved, err := mergeBumps(bp, sectionBp)
	if err != nil {
		return zerv.Vars{}, err
	}
	out = applyBumps(out, resolved)

	out = applyContextToggle(out, toggle)
	return out, nil
}

func checkDuplicateIndexes(specs []SectionSpec) error {
	seen := map[int]bool{}
	for _, s := range specs {
		if seen[s.Index] {
			return zerr.New(zerr.InvalidBumpTarget, "duplicate schema index %d in the same spec list", s.Index).
				WithHint("combine an override and a bump at the same index instead of repeating one")
		}
		seen[s.Index] = true
	}
	return nil
}

// resolvedField is a schema-slot spec resolved down to the Var it
// targets, carrying the raw value text for further parsing.
type resolvedField struct {
	Kind zerv.VarKind
	Spec SectionSpec
}

func resolveSection(schema zerv.Schema, section []zerv.Component, specs []SectionSpec, sectionName string) ([]resolvedField, error) {
	out := make([]resolvedField, 0, len(specs))
	n := len(section)
	for _, s := range specs {
		idx := s.Index
		if idx < 0 {
			idx = n + idx
		}
		if idx < 0 || idx >= n {
			return nil, zerr.New(zerr.InvalidBumpTarget, "schema index %d out of range for %s (length %d)", s.Index, sectionName, n).
				WithHint("valid range is [-%d, %d)", n, n)
		}
		comp := section[idx]
		if comp.Kind != zerv.CompVariable {
			return nil, zerr.New(zerr.InvalidBumpTarget, "schema slot %d in %s is a fixed literal, not an overridable variable", s.Index, sectionName)
		}
		out = append(out, resolvedField{Kind: comp.Var.Kind, Spec: s})
	}
	return out, nil
}

func resolveSectionOverrides(schema zerv.Schema, ov Overrides) ([]resolvedField, error) {
	var out []resolvedField
	for _, sec := range []struct {
		comps []zerv.Component
		specs []SectionSpec
		name  string
	}{
		{schema.Core, ov.Core, "core"},
		{schema.ExtraCore, ov.ExtraCore, "extra_core"},
		{schema.Build, ov.Build, "build"},
	} {
		r, err := resolveSection(schema, sec.comps, sec.specs, sec.name)
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}

func resolveSectionBumps(schema zerv.Schema, bp Bumps) ([]resolvedField, error) {
	var out []resolvedField
	for _, sec := range []struct {
		comps []zerv.Component
		specs []SectionSpec
		name  string
	}{
		{schema.Core, bp.Core, "core"},
		{schema.ExtraCore, bp.ExtraCore, "extra_core"},
		{schema.Build, bp.Build, "build"},
	} {
		r, err := resolveSection(schema, sec.comps, sec.specs, sec.name)
		if err != nil {
			return nil, err
		}
		out = append(out, r...)
	}
	return out, nil
}

func parseUintValue(raw string) (uint64, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, zerr.New(zerr.InvalidBumpTarget, "value %q is not a non-negative integer", raw)
	}
	return n, nil
}

// applyOverrides implements the three-tier precedence per field:
// explicit override wins, then schema-section override, then the
// incoming Vars value is left untouched.
func applyOverrides(vars zerv.Vars, ov Overrides, sectionOv []resolvedField) (zerv.Vars, error) {
	out := vars.Clone()

	bySlot := map[zerv.VarKind]uint64{}
	for _, f := range sectionOv {
		if !f.Spec.HasValue {
			continue
		}
		if _, already := bySlot[f.Kind]; already {
			continue // first schema-section spec for a kind wins among section specs themselves
		}
		n, err := parseUintValue(f.Spec.Value)
		if err != nil {
			return zerv.Vars{}, err
		}
		bySlot[f.Kind] = n
	}

	setNum := func(direct *uint64, kind zerv.VarKind, dst **uint64) {
		if direct != nil {
			*dst = u64p(*direct)
			return
		}
		if n, ok := bySlot[kind]; ok {
			*dst = u64p(n)
		}
	}

	setNum(ov.Major, zerv.Major, &out.Major)
	setNum(ov.Minor, zerv.Minor, &out.Minor)
	setNum(ov.Patch, zerv.Patch, &out.Patch)
	setNum(ov.Epoch, zerv.Epoch, &out.Epoch)
	setNum(ov.Post, zerv.Post, &out.Post)
	setNum(ov.Dev, zerv.Dev, &out.Dev)

	slotPreNum, hasSlotPreNum := bySlot[zerv.PreRelease]
	if ov.PreReleaseLabel != nil || ov.PreReleaseNum != nil || hasSlotPreNum {
		label := zerv.Alpha
		prior := out.PreRelease
		if prior != nil {
			label = prior.Label
		}
		if ov.PreReleaseLabel != nil {
			label = *ov.PreReleaseLabel
		}
		pr := &zerv.PreReleaseValue{Label: label}
		switch {
		case ov.PreReleaseNum != nil:
			pr.Number = u64p(*ov.PreReleaseNum)
		case hasSlotPreNum:
			pr.Number = u64p(slotPreNum)
		case prior != nil:
			pr.Number = prior.Number
		}
		out.PreRelease = pr
	}

	return out, nil
}

// resolvedBumps is the flattened set of deltas/label bumps to apply, after
// folding named-field bumps together with schema-section bumps that
// resolved to the same field (deltas add).
type resolvedBumps struct {
	Major, Minor, Patch *uint64
	Epoch, Post, Dev    *uint64
	PreReleaseNum       *uint64
	PreReleaseLabel     *zerv.PreReleaseLabel
}

func mergeBumps(bp Bumps, sectionBp []resolvedField) (resolvedBumps, error) {
	add := func(dst **uint64, delta uint64) {
		if *dst == nil {
			*dst = u64p(delta)
			return
		}
		**dst += delta
	}

	out := resolvedBumps{
		PreReleaseLabel: bp.PreReleaseLabel,
	}
	if bp.Major != nil {
		out.Major = u64p(*bp.Major)
	}
	if bp.Minor != nil {
		out.Minor = u64p(*bp.Minor)
	}
	if bp.Patch != nil {
		out.Patch = u64p(*bp.Patch)
	}
	if bp.Epoch != nil {
		out.Epoch = u64p(*bp.Epoch)
	}
	if bp.Post != nil {
		out.Post = u64p(*bp.Post)
	}
	if bp.Dev != nil {
		out.Dev = u64p(*bp.Dev)
	}
	if bp.PreReleaseNum != nil {
		out.PreReleaseNum = u64p(*bp.PreReleaseNum)
	}

	for _, f := range sectionBp {
		delta := uint64(1)
		if f.Spec.HasValue {
			n, err := parseUintValue(f.Spec.Value)
			if err != nil {
				return resolvedBumps{}, err
			}
			delta = n
		}
		switch f.Kind {
		case zerv.Major:
			add(&out.Major, delta)
		case zerv.Minor:
			add(&out.Minor, delta)
		case zerv.Patch:
			add(&out.Patch, delta)
		case zerv.Epoch:
			add(&out.Epoch, delta)
		case zerv.Post:
			add(&out.Post, delta)
		case zerv.Dev:
			add(&out.Dev, delta)
		case zerv.PreRelease:
			add(&out.PreReleaseNum, delta)
		}
	}

	return out, nil
}

// applyBumps runs the canonical field order (Major, Minor, Patch, Epoch,
// PreReleaseLabel, PreReleaseNum, Post, Dev), each step resetting its
// descendants, so the end-state matches a left-fold
// composition regardless of invocation order.
func applyBumps(vars zerv.Vars, b resolvedBumps) zerv.Vars {
	out := vars.Clone()

	if b.Major != nil {
		out.Major = u64p(zerv.U64(out.Major) + *b.Major)
		out.Minor = u64p(0)
		out.Patch = u64p(0)
		out.PreRelease, out.Post, out.Dev = nil, nil, nil
	}
	if b.Minor != nil {
		out.Minor = u64p(zerv.U64(out.Minor) + *b.Minor)
		out.Patch = u64p(0)
		out.PreRelease, out.Post, out.Dev = nil, nil, nil
	}
	if b.Patch != nil {
		out.Patch = u64p(zerv.U64(out.Patch) + *b.Patch)
		out.PreRelease, out.Post, out.Dev = nil, nil, nil
	}
	if b.Epoch != nil {
		out.Epoch = u64p(zerv.U64(out.Epoch) + *b.Epoch)
		out.PreRelease, out.Post, out.Dev = nil, nil, nil
	}
	if b.PreReleaseLabel != nil {
		out.PreRelease = &zerv.PreReleaseValue{Label: *b.PreReleaseLabel, Number: u64p(0)}
		out.Post, out.Dev = nil, nil
	}
	if b.PreReleaseNum != nil {
		label := zerv.Alpha
		num := uint64(0)
		if out.PreRelease != nil {
			label = out.PreRelease.Label
			num = zerv.U64(out.PreRelease.Number)
		}
		out.PreRelease = &zerv.PreReleaseValue{Label: label, Number: u64p(num + *b.PreReleaseNum)}
		out.Post, out.Dev = nil, nil
	}
	if b.Post != nil {
		out.Post = u64p(zerv.U64(out.Post) + *b.Post)
		out.Dev = nil
	}
	if b.Dev != nil {
		out.Dev = u64p(zerv.U64(out.Dev) + *b.Dev)
	}

	return out
}

// applyContextToggle: no-bump-context synthesizes a clean release by
// clearing distance/dirty; bump-context (default) leaves VCS context
// untouched.
func applyContextToggle(vars zerv.Vars, toggle ContextToggle) zerv.Vars {
	if toggle != NoBumpContext {
		return vars
	}
	out := vars.Clone()
	out.Distance = u64p(0)
	dirty := false
	out.Dirty = &dirty
	return out
}

func u64p(v uint64) *uint64 { return &v }
