// Package flowpolicy implements the GitFlow-style branch-rule dispatcher:
// a thin policy layer mapping a branch name to a bundle of overrides and
// bumps that feed into the override/bump resolver, keyed by the usual
// branch-rule names (main, develop, release/*, feature/*, hotfix/*).
package flowpolicy

import (
	"path"
	"sort"

	"github.com/zervdev/zerv/src/config"
	"github.com/zervdev/zerv/src/version/bump"
	"github.com/zervdev/zerv/src/version/zerv"
	"github.com/zervdev/zerv/src/zerr"
)

// Policy is the resolved override/bump bundle for a branch, ready to feed
// into bump.Resolve / bump.MergeContext.
type Policy struct {
	RuleName        string
	PreReleaseLabel *zerv.PreReleaseLabel
	ResetDistance   bool
	BumpDev         bool
	BumpPost        bool
}

// Overrides adapts the policy into a bump.Overrides for the pre-release
// label, when the rule sets one.
func (p Policy) Overrides() bump.Overrides {
	return bump.Overrides{PreReleaseLabel: p.PreReleaseLabel}
}

// Bumps adapts the policy into a bump.Bumps for dev/post counters.
func (p Policy) Bumps() bump.Bumps {
	var b bump.Bumps
	if p.BumpDev {
		b.Dev = u64p(1)
	}
	if p.BumpPost {
		b.Post = u64p(1)
	}
	return b
}

// ContextOverrides adapts ResetDistance into the --clean-equivalent
// distance reset the context merger understands.
func (p Policy) ContextOverrides() bump.ContextOverrides {
	if !p.ResetDistance {
		return bump.ContextOverrides{}
	}
	return bump.ContextOverrides{DistanceGiven: true, Distance: 0}
}

// builtinRule is a single built-in branch-rule preset, listed in the
// deterministic match order defaults resolve in: the first glob that
// matches the branch name wins.
type builtinRule struct {
	name  string
	match string
	rule  config.BranchRule
}

var builtins = []builtinRule{
	{name: "main", match: "main", rule: config.BranchRule{Match: "main"}},
	{name: "master", match: "master", rule: config.BranchRule{Match: "master"}},
	{name: "develop", match: "develop", rule: config.BranchRule{Match: "develop", PreReleaseLabel: "beta", BumpDev: true}},
	{name: "release", match: "release/*", rule: config.BranchRule{Match: "release/*", PreReleaseLabel: "rc"}},
	{name: "hotfix", match: "hotfix/*", rule: config.BranchRule{Match: "hotfix/*", PreReleaseLabel: "rc", BumpPost: true}},
	{name: "feature", match: "feature/*", rule: config.BranchRule{Match: "feature/*", PreReleaseLabel: "alpha", BumpDev: true}},
}

// Resolve matches branch against cfg's configured rules first (in
// deterministic name order), falling back to the built-in presets above.
// An unmatched branch resolves to the zero Policy (no overrides/bumps).
func Resolve(branch string, cfg config.FlowConfig) (Policy, error) {
	if p, ok, err := matchConfigured(branch, cfg); ok || err != nil {
		return p, err
	}
	for _, b := range builtins {
		matched, err := path.Match(b.match, branch)
		if err != nil {
			return Policy{}, zerr.Wrap(zerr.InvalidArgument, err, "invalid branch-rule glob %q", b.match)
		}
		if matched {
			return ruleToPolicy(b.name, b.rule)
		}
	}
	return Policy{}, nil
}

func matchConfigured(branch string, cfg config.FlowConfig) (Policy, bool, error) {
	if len(cfg.Rules) == 0 {
		return Policy{}, false, nil
	}
	names := make([]string, 0, len(cfg.Rules))
	for name := range cfg.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rule := cfg.Rules[name]
		glob := rule.Match
		if glob == "" {
			glob = name
		}
		matched, err := path.Match(glob, branch)
		if err != nil {
			return Policy{}, false, zerr.Wrap(zerr.InvalidArgument, err, "invalid branch-rule glob %q for rule %q", glob, name)
		}
		if matched {
			p, err := ruleToPolicy(name, rule)
			return p, true, err
		}
	}
	return Policy{}, false, nil
}

func ruleToPolicy(name string, rule config.BranchRule) (Policy, error) {
	p := Policy{RuleName: name, ResetDistance: rule.ResetDistance, BumpDev: rule.BumpDev, BumpPost: rule.BumpPost}
	if rule.PreReleaseLabel != "" {
		label, ok := zerv.ParsePreReleaseLabel(rule.PreReleaseLabel)
		if !ok {
			return Policy{}, zerr.New(zerr.InvalidArgument, "rule %q: unknown pre_release_label %q", name, rule.PreReleaseLabel)
		}
		p.PreReleaseLabel = &label
	}
	return p, nil
}

func u64p(v uint64) *uint64 { return &v }
