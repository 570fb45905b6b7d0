package bump

import (
	"testing"

	"github.com/zervdev/zerv/src/version/zerv"
)

func u64(v uint64) *uint64 { return &v }

func TestResolveMajorBumpResetsDescendants(t *testing.T) {
	schema := zerv.Schema{
		Core:  []zerv.Component{zerv.VarComp(zerv.Major), zerv.VarComp(zerv.Minor), zerv.VarComp(zerv.Patch)},
		Order: zerv.SemVerOrder,
	}
	vars := zerv.Vars{
		Major:      u64(1),
		Minor:      u64(2),
		Patch:      u64(3),
		PreRelease: &zerv.PreReleaseValue{Label: zerv.Beta, Number: u64(4)},
		Post:       u64(1),
		Dev:        u64(1),
	}

	out, err := Resolve(schema, vars, Overrides{}, Bumps{Major: u64(1)}, BumpContext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *out.Major != 2 {
		t.Fatalf("Major = %d, want 2", *out.Major)
	}
	if *out.Minor != 0 || *out.Patch != 0 {
		t.Fatalf("Minor/Patch = %d/%d, want 0/0", *out.Minor, *out.Patch)
	}
	if out.PreRelease != nil || out.Post != nil || out.Dev != nil {
		t.Fatalf("expected pre_release/post/dev cleared, got %+v %v %v", out.PreRelease, out.Post, out.Dev)
	}
}

func TestResolvePatchBumpPreservesMinorMajor(t *testing.T) {
	schema := zerv.Schema{Core: []zerv.Component{zerv.VarComp(zerv.Major), zerv.VarComp(zerv.Minor), zerv.VarComp(zerv.Patch)}, Order: zerv.SemVerOrder}
	vars := zerv.Vars{Major: u64(1), Minor: u64(2), Patch: u64(3)}

	out, err := Resolve(schema, vars, Overrides{}, Bumps{Patch: u64(1)}, BumpContext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *out.Major != 1 || *out.Minor != 2 || *out.Patch != 4 {
		t.Fatalf("got %d.%d.%d, want 1.2.4", *out.Major, *out.Minor, *out.Patch)
	}
}

func TestResolveEpochBumpDoesNotResetBase(t *testing.T) {
	schema := zerv.Schema{Core: []zerv.Component{zerv.VarComp(zerv.Major), zerv.VarComp(zerv.Minor), zerv.VarComp(zerv.Patch)}, Order: zerv.PEP440Order}
	vars := zerv.Vars{Major: u64(1), Minor: u64(2), Patch: u64(3), Post: u64(5)}

	out, err := Resolve(schema, vars, Overrides{}, Bumps{Epoch: u64(1)}, BumpContext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *out.Major != 1 || *out.Minor != 2 || *out.Patch != 3 {
		t.Fatalf("base changed on epoch bump: %d.%d.%d", *out.Major, *out.Minor, *out.Patch)
	}
	if out.Epoch == nil || *out.Epoch != 1 {
		t.Fatalf("Epoch = %v, want 1", out.Epoch)
	}
	if out.Post != nil {
		t.Fatalf("expected post cleared by epoch bump, got %v", out.Post)
	}
}

func TestResolvePreReleaseLabelBumpSetsNumberZero(t *testing.T) {
	schema := zerv.Schema{Core: []zerv.Component{zerv.VarComp(zerv.Major)}, Order: zerv.SemVerOrder}
	vars := zerv.Vars{Major: u64(1), PreRelease: &zerv.PreReleaseValue{Label: zerv.Alpha, Number: u64(3)}, Dev: u64(2)}

	rc := zerv.Rc
	out, err := Resolve(schema, vars, Overrides{}, Bumps{PreReleaseLabel: &rc}, BumpContext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.PreRelease == nil || out.PreRelease.Label != zerv.Rc {
		t.Fatalf("PreRelease = %+v, want label rc", out.PreRelease)
	}
	if out.PreRelease.Number == nil || *out.PreRelease.Number != 0 {
		t.Fatalf("PreRelease.Number = %v, want 0", out.PreRelease.Number)
	}
	if out.Dev != nil {
		t.Fatalf("expected dev cleared by pre-release label bump, got %v", out.Dev)
	}
}

func TestResolveDirectOverrideBeatsSchemaSection(t *testing.T) {
	schema := zerv.Schema{Core: []zerv.Component{zerv.VarComp(zerv.Major), zerv.VarComp(zerv.Minor), zerv.VarComp(zerv.Patch)}, Order: zerv.SemVerOrder}
	vars := zerv.Vars{Major: u64(1), Minor: u64(2), Patch: u64(3)}

	ov := Overrides{
		Major: u64(9),
		Core:  []SectionSpec{{Index: 0, HasValue: true, Value: "5"}},
	}
	out, err := Resolve(schema, vars, ov, Bumps{}, BumpContext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *out.Major != 9 {
		t.Fatalf("Major = %d, want 9 (explicit override should win)", *out.Major)
	}
}

func TestResolveSchemaSectionOverrideAppliesWhenNoDirect(t *testing.T) {
	schema := zerv.Schema{Core: []zerv.Component{zerv.VarComp(zerv.Major), zerv.VarComp(zerv.Minor), zerv.VarComp(zerv.Patch)}, Order: zerv.SemVerOrder}
	vars := zerv.Vars{Major: u64(1), Minor: u64(2), Patch: u64(3)}

	ov := Overrides{Core: []SectionSpec{{Index: -1, HasValue: true, Value: "7"}}}
	out, err := Resolve(schema, vars, ov, Bumps{}, BumpContext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *out.Patch != 7 {
		t.Fatalf("Patch = %d, want 7 (negative index targets last slot)", *out.Patch)
	}
}

func TestResolveDuplicateIndexInOverridesErrors(t *testing.T) {
	schema := zerv.Schema{Core: []zerv.Component{zerv.VarComp(zerv.Major), zerv.VarComp(zerv.Minor)}, Order: zerv.SemVerOrder}
	vars := zerv.Vars{Major: u64(1), Minor: u64(2)}

	ov := Overrides{Core: []SectionSpec{
		{Index: 0, HasValue: true, Value: "1"},
		{Index: 0, HasValue: true, Value: "2"},
	}}
	if _, err := Resolve(schema, vars, ov, Bumps{}, BumpContext); err == nil {
		t.Fatal("expected error for duplicate index in overrides")
	}
}

func TestResolveOverrideAndBumpSameIndexAllowed(t *testing.T) {
	schema := zerv.Schema{Core: []zerv.Component{zerv.VarComp(zerv.Major)}, Order: zerv.SemVerOrder}
	vars := zerv.Vars{Major: u64(1)}

	ov := Overrides{Core: []SectionSpec{{Index: 0, HasValue: true, Value: "5"}}}
	bp := Bumps{Core: []SectionSpec{{Index: 0, HasValue: true, Value: "2"}}}
	out, err := Resolve(schema, vars, ov, bp, BumpContext)
	if err != nil {
		t.Fatalf("unexpected error combining override + bump at same index: %v", err)
	}
	if *out.Major != 7 {
		t.Fatalf("Major = %d, want 7 (override 5 then bump 2)", *out.Major)
	}
}

func TestResolveNonNumericSectionValueErrors(t *testing.T) {
	schema := zerv.Schema{Core: []zerv.Component{zerv.VarComp(zerv.Major)}, Order: zerv.SemVerOrder}
	vars := zerv.Vars{Major: u64(1)}

	ov := Overrides{Core: []SectionSpec{{Index: 0, HasValue: true, Value: "abc"}}}
	if _, err := Resolve(schema, vars, ov, Bumps{}, BumpContext); err == nil {
		t.Fatal("expected error for non-numeric override value")
	}

	bp := Bumps{Core: []SectionSpec{{Index: 0, HasValue: true, Value: "-2"}}}
	if _, err := Resolve(schema, vars, Overrides{}, bp, BumpContext); err == nil {
		t.Fatal("expected error for negative bump value")
	}
}

func TestResolveOutOfRangeIndexErrors(t *testing.T) {
	schema := zerv.Schema{Core: []zerv.Component{zerv.VarComp(zerv.Major)}, Order: zerv.SemVerOrder}
	vars := zerv.Vars{Major: u64(1)}

	ov := Overrides{Core: []SectionSpec{{Index: 3, HasValue: true, Value: "1"}}}
	if _, err := Resolve(schema, vars, ov, Bumps{}, BumpContext); err == nil {
		t.Fatal("expected error for out-of-range schema index")
	}
}

func TestResolveLiteralSlotOverrideRejected(t *testing.T) {
	schema := zerv.Schema{Core: []zerv.Component{zerv.LitUint(1), zerv.VarComp(zerv.Minor)}, Order: zerv.SemVerOrder}
	vars := zerv.Vars{Minor: u64(2)}

	ov := Overrides{Core: []SectionSpec{{Index: 0, HasValue: true, Value: "9"}}}
	if _, err := Resolve(schema, vars, ov, Bumps{}, BumpContext); err == nil {
		t.Fatal("expected error overriding a fixed literal schema slot")
	}
}

func TestResolveNoBumpContextClearsDistanceAndDirty(t *testing.T) {
	schema := zerv.Schema{Core: []zerv.Component{zerv.VarComp(zerv.Major)}, Order: zerv.SemVerOrder}
	dirty := true
	vars := zerv.Vars{Major: u64(1), Distance: u64(4), Dirty: &dirty}

	out, err := Resolve(schema, vars, Overrides{}, Bumps{}, NoBumpContext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Distance == nil || *out.Distance != 0 {
		t.Fatalf("Distance = %v, want 0", out.Distance)
	}
	if out.Dirty == nil || *out.Dirty {
		t.Fatalf("Dirty = %v, want false", out.Dirty)
	}
}

func TestMergeContextCleanMacro(t *testing.T) {
	dirty := true
	base := zerv.Vars{Distance: u64(3), Dirty: &dirty}

	out, err := MergeContext(base, ContextOverrides{CleanFlag: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Dirty == nil || *out.Dirty {
		t.Fatalf("Dirty = %v, want false", out.Dirty)
	}
	if out.Distance == nil || *out.Distance != 0 {
		t.Fatalf("Distance = %v, want 0", out.Distance)
	}
}

func TestMergeContextCleanConflictsWithDistance(t *testing.T) {
	if _, err := MergeContext(zerv.Vars{}, ContextOverrides{CleanFlag: true, DistanceGiven: true, Distance: 2}); err == nil {
		t.Fatal("expected conflict error for --clean with --distance")
	}
}

func TestMergeContextDirtyAndNoDirtyConflict(t *testing.T) {
	if _, err := MergeContext(zerv.Vars{}, ContextOverrides{DirtyFlag: true, NoDirtyFlag: true}); err == nil {
		t.Fatal("expected conflict error for --dirty with --no-dirty")
	}
}
