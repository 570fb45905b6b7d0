package pep440

import "testing"

func TestParsePrintRoundTripModNormalization(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1.2.3", "1.2.3"},
		{"1!1.2.3", "1!1.2.3"},
		{"1.2.3a1", "1.2.3a1"},
		{"1.2.3.post2", "1.2.3.post2"},
		{"1.2.3.dev4", "1.2.3.dev4"},
		{"1.2.3rc1.post2.dev3", "1.2.3rc1.post2.dev3"},
		{"1.2.3+local.1", "1.2.3+local.1"},
		{"1.2.3alpha1", "1.2.3a1"},
		{"1.2.3beta1", "1.2.3b1"},
		{"1.2.3preview1", "1.2.3rc1"},
	}
	for _, c := range cases {
		v, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if got := v.String(); got != c.want {
			t.Errorf("Parse(%q).String() = %q, want %q", c.in, got, c.want)
		}
		reparsed, err := Parse(v.String())
		if err != nil {
			t.Fatalf("re-Parse(%q): %v", v.String(), err)
		}
		if reparsed.String() != v.String() {
			t.Errorf("parse(print(parse(%q))) != parse(%q)", c.in, c.in)
		}
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, s := range []string{"", "abc", "1.2.3x9"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q): expected error", s)
		}
	}
}

func TestCompareEpochDominates(t *testing.T) {
	low, _ := Parse("2!0.1")
	high, _ := Parse("1!99.0")
	if Compare(low, high) <= 0 {
		t.Fatalf("expected epoch 2 to dominate epoch 1 regardless of release")
	}
}

func TestComparePhaseOrderDevPreReleasePost(t *testing.T) {
	dev, _ := Parse("1.0.0.dev1")
	pre, _ := Parse("1.0.0a1")
	rel, _ := Parse("1.0.0")
	post, _ := Parse("1.0.0.post1")

	if Compare(dev, pre) >= 0 {
		t.Fatalf("expected dev < pre")
	}
	if Compare(pre, rel) >= 0 {
		t.Fatalf("expected pre < release")
	}
	if Compare(rel, post) >= 0 {
		t.Fatalf("expected release < post")
	}
}

func TestToNVFromNVRoundTrip(t *testing.T) {
	v, err := Parse("1!1.2.3a1.post2.dev3+local.5")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	nv := ToNV(v)
	back := FromNV(nv)
	if back.String() != v.String() {
		t.Fatalf("round trip through NV: got %q, want %q", back.String(), v.String())
	}
}

func TestToNVMissingReleaseSegmentsDefaultZero(t *testing.T) {
	v, err := Parse("1.2")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	nv := ToNV(v)
	if nv.Vars.Patch == nil || *nv.Vars.Patch != 0 {
		t.Fatalf("Patch = %v, want 0", nv.Vars.Patch)
	}
}
