package render

import (
	"testing"

	"github.com/zervdev/zerv/src/version/bump"
	"github.com/zervdev/zerv/src/version/zerv"
	"github.com/zervdev/zerv/src/zerr"
)

func mustParse(t *testing.T, text, format string) Draft {
	t.Helper()
	d, err := ParseInput(text, format)
	if err != nil {
		t.Fatalf("ParseInput(%q, %q): %v", text, format, err)
	}
	return d
}

func TestRunMajorBumpFromSemver(t *testing.T) {
	draft := mustParse(t, "1.2.3-alpha.1", "semver")

	for _, format := range []string{"semver", "pep440"} {
		out, err := Run(draft, Options{
			Bumps:        bump.Bumps{Major: u64(1)},
			OutputFormat: format,
		})
		if err != nil {
			t.Fatalf("Run(%s): %v", format, err)
		}
		if out != "2.0.0" {
			t.Errorf("Run(%s) = %q, want 2.0.0", format, out)
		}
	}
}

func TestRunPEP440InputToSemverOutput(t *testing.T) {
	draft := mustParse(t, "1.2.3a1.post2.dev3", "pep440")

	out, err := Run(draft, Options{OutputFormat: "semver"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "1.2.3-alpha.1.post.2.dev.3" {
		t.Errorf("got %q, want 1.2.3-alpha.1.post.2.dev.3", out)
	}
}

func TestRunMultiBumpLeftFold(t *testing.T) {
	draft := mustParse(t, "1.2.3", "semver")

	out, err := Run(draft, Options{
		Bumps:        bump.Bumps{Minor: u64(2), Patch: u64(1)},
		OutputFormat: "semver",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "1.5.1" {
		t.Errorf("got %q, want 1.5.1 (minor bump resets patch, then patch bumps)", out)
	}
}

func TestRunNoBumpContextSynthesizesCleanRelease(t *testing.T) {
	dirty := true
	dist := uint64(5)
	draft := Draft{Vars: zerv.Vars{
		Major: u64(1), Minor: u64(2), Patch: u64(3),
		Distance: &dist, Dirty: &dirty,
	}}

	out, err := Run(draft, Options{
		Bumps:        bump.Bumps{Major: u64(1)},
		Toggle:       bump.NoBumpContext,
		OutputFormat: "zerv",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	nv, err := zerv.Parse(out)
	if err != nil {
		t.Fatalf("Parse(%q): %v", out, err)
	}
	v := nv.Vars
	if *v.Major != 2 || *v.Minor != 0 || *v.Patch != 0 {
		t.Errorf("got %d.%d.%d, want 2.0.0", *v.Major, *v.Minor, *v.Patch)
	}
	if v.Distance == nil || *v.Distance != 0 {
		t.Errorf("Distance = %v, want 0", v.Distance)
	}
	if v.Dirty == nil || *v.Dirty {
		t.Errorf("Dirty = %v, want false", v.Dirty)
	}
}

func TestRunConflictingSchemasExitsTwo(t *testing.T) {
	draft := mustParse(t, "1.0.0", "semver")

	_, err := Run(draft, Options{Schema: SchemaChoice{
		RON:  "Schema(core: [Variable(Major)], extra_core: [], build: [], precedence_order: SemVer)",
		Name: "standard/base",
	}})
	if err == nil {
		t.Fatal("expected ConflictingSchemas error")
	}
	if !zerr.Is(err, zerr.ConflictingSchema) {
		t.Fatalf("kind = %v, want ConflictingSchemas", zerr.KindOf(err))
	}
	if zerr.ExitCode(err) != 2 {
		t.Fatalf("exit code = %d, want 2", zerr.ExitCode(err))
	}
}

func TestRunTemplateConflictsWithNonSemverFormat(t *testing.T) {
	draft := mustParse(t, "1.0.0", "semver")

	_, err := Run(draft, Options{
		OutputFormat:   "pep440",
		OutputTemplate: "{{major}}",
	})
	if err == nil || !zerr.Is(err, zerr.ConflictingOpts) {
		t.Fatalf("err = %v, want ConflictingOptions", err)
	}
}

func TestRunOutputPrefix(t *testing.T) {
	draft := mustParse(t, "1.2.3", "semver")

	out, err := Run(draft, Options{OutputFormat: "semver", OutputPrefix: "v"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "v1.2.3" {
		t.Errorf("got %q, want v1.2.3", out)
	}
}

func TestRunContextMergeConflictSurfaces(t *testing.T) {
	draft := mustParse(t, "1.2.3", "semver")

	_, err := Run(draft, Options{
		Context: bump.ContextOverrides{DirtyFlag: true, NoDirtyFlag: true},
	})
	if err == nil || !zerr.Is(err, zerr.ConflictingOpts) {
		t.Fatalf("err = %v, want ConflictingOptions", err)
	}
}
