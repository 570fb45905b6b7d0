package semver

import "testing"

func TestParsePrintRoundTrip(t *testing.T) {
	cases := []string{
		"1.2.3",
		"0.0.0",
		"1.2.3-alpha.1",
		"1.2.3-alpha.1+build.5",
		"1.2.3+exp.sha.5114f85",
		"10.20.30-rc.1",
	}
	for _, s := range cases {
		v, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := v.String(); got != s {
			t.Errorf("round-trip %q: got %q", s, got)
		}
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, s := range []string{"1.2", "v1.2.3", "1.2.3-", "01.2.3", ""} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q): expected error", s)
		}
	}
}

func TestCompareBasic(t *testing.T) {
	less, _ := Parse("1.2.3")
	more, _ := Parse("1.2.4")
	if Compare(less, more) >= 0 {
		t.Fatalf("expected 1.2.3 < 1.2.4")
	}
}

func TestComparePreReleaseBeforeRelease(t *testing.T) {
	pre, _ := Parse("1.0.0-alpha")
	rel, _ := Parse("1.0.0")
	if Compare(pre, rel) >= 0 {
		t.Fatalf("expected pre-release to sort below release")
	}
}

func TestCompareIgnoresBuild(t *testing.T) {
	a, _ := Parse("1.0.0+build1")
	b, _ := Parse("1.0.0+build2")
	if Compare(a, b) != 0 {
		t.Fatalf("expected build metadata to be ignored in comparison")
	}
}

func TestCompareNumericBeforeAlphanumeric(t *testing.T) {
	num, _ := Parse("1.0.0-1")
	alpha, _ := Parse("1.0.0-alpha")
	if Compare(num, alpha) >= 0 {
		t.Fatalf("expected numeric identifier to sort before alphanumeric")
	}
}

func TestToNVFromNVRoundTrip(t *testing.T) {
	v, err := Parse("1.2.3-alpha.1+build.5")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	nv := ToNV(v)
	back := FromNV(nv)
	if back.String() != v.String() {
		t.Fatalf("round trip through NV: got %q, want %q", back.String(), v.String())
	}
}

func TestToNVRecognizesKeywordPairs(t *testing.T) {
	v, err := Parse("1.2.3-epoch.2.beta.1.post.3.dev.4")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	nv := ToNV(v)
	if nv.Vars.Epoch == nil || *nv.Vars.Epoch != 2 {
		t.Fatalf("Epoch = %v, want 2", nv.Vars.Epoch)
	}
	if nv.Vars.PreRelease == nil || nv.Vars.PreRelease.Number == nil || *nv.Vars.PreRelease.Number != 1 {
		t.Fatalf("PreRelease = %+v, want beta.1", nv.Vars.PreRelease)
	}
	if nv.Vars.Post == nil || *nv.Vars.Post != 3 {
		t.Fatalf("Post = %v, want 3", nv.Vars.Post)
	}
	if nv.Vars.Dev == nil || *nv.Vars.Dev != 4 {
		t.Fatalf("Dev = %v, want 4", nv.Vars.Dev)
	}
}

func TestToNVPreservesOrphanIdentifiers(t *testing.T) {
	v, err := Parse("1.0.0-foo.1.alpha")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	nv := ToNV(v)
	if len(nv.Schema.ExtraCore) == 0 {
		t.Fatalf("expected orphan identifiers to survive in extra_core")
	}
}
