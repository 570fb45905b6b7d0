package flowpolicy

import (
	"testing"

	"github.com/zervdev/zerv/src/config"
	"github.com/zervdev/zerv/src/version/zerv"
)

func TestResolveBuiltinDevelop(t *testing.T) {
	p, err := Resolve("develop", config.FlowConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PreReleaseLabel == nil || *p.PreReleaseLabel != zerv.Beta {
		t.Fatalf("PreReleaseLabel = %v, want beta", p.PreReleaseLabel)
	}
	if !p.BumpDev {
		t.Fatal("expected BumpDev true for develop")
	}
}

func TestResolveBuiltinReleaseGlob(t *testing.T) {
	p, err := Resolve("release/2.0", config.FlowConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PreReleaseLabel == nil || *p.PreReleaseLabel != zerv.Rc {
		t.Fatalf("PreReleaseLabel = %v, want rc", p.PreReleaseLabel)
	}
}

func TestResolveUnmatchedBranchIsZeroPolicy(t *testing.T) {
	p, err := Resolve("some-random-branch", config.FlowConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PreReleaseLabel != nil || p.BumpDev || p.BumpPost {
		t.Fatalf("expected zero policy, got %+v", p)
	}
}

func TestResolveConfiguredRuleOverridesBuiltin(t *testing.T) {
	cfg := config.FlowConfig{Rules: map[string]config.BranchRule{
		"develop": {Match: "develop", PreReleaseLabel: "alpha", BumpDev: false},
	}}
	p, err := Resolve("develop", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PreReleaseLabel == nil || *p.PreReleaseLabel != zerv.Alpha {
		t.Fatalf("PreReleaseLabel = %v, want alpha (config override)", p.PreReleaseLabel)
	}
	if p.BumpDev {
		t.Fatal("expected BumpDev false per configured override")
	}
}

func TestResolveContextOverridesResetDistance(t *testing.T) {
	p := Policy{ResetDistance: true}
	ov := p.ContextOverrides()
	if !ov.DistanceGiven || ov.Distance != 0 {
		t.Fatalf("ContextOverrides = %+v, want DistanceGiven=true Distance=0", ov)
	}
}
