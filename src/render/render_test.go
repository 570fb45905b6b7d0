package render

import (
	"testing"

	"github.com/zervdev/zerv/src/version/zerv"
)

func u64(v uint64) *uint64 { return &v }

func TestRenderTemplateCommitHashShort(t *testing.T) {
	hash := "abcdef123456"
	schema, err := zerv.Preset("semver")
	if err != nil {
		t.Fatalf("Preset: %v", err)
	}
	nv := zerv.NV{
		Schema: schema,
		Vars:   zerv.Vars{Major: u64(1), Minor: u64(0), Patch: u64(0), BumpedCommitHash: &hash},
	}

	out, err := RenderTemplate(nv, "v{{major}}.{{minor}}.{{patch}}+{{bumped_commit_hash_short}}")
	if err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}
	if out != "v1.0.0+abcdef1" {
		t.Fatalf("got %q, want v1.0.0+abcdef1", out)
	}
}

func TestRenderTemplateMissingScalarIsEmpty(t *testing.T) {
	schema, _ := zerv.Preset("semver")
	nv := zerv.NV{Schema: schema, Vars: zerv.Vars{Major: u64(1), Minor: u64(0), Patch: u64(0)}}

	out, err := RenderTemplate(nv, "[{{epoch}}]")
	if err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}
	if out != "[]" {
		t.Fatalf("got %q, want []", out)
	}
}

func TestRenderTemplateDottedFieldAccess(t *testing.T) {
	schema, _ := zerv.Preset("semver")
	nv := zerv.NV{Schema: schema, Vars: zerv.Vars{Major: u64(2), Minor: u64(3), Patch: u64(4)}}

	out, err := RenderTemplate(nv, "{{.Major}}.{{.Minor}}.{{.Patch}}")
	if err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}
	if out != "2.3.4" {
		t.Fatalf("got %q, want 2.3.4", out)
	}
}

func TestFormatRoutesToCodecs(t *testing.T) {
	schema, _ := zerv.Preset("semver")
	nv := zerv.NV{Schema: schema, Vars: zerv.Vars{Major: u64(1), Minor: u64(2), Patch: u64(3)}}

	sv, err := Format(nv, "semver", "")
	if err != nil || sv != "1.2.3" {
		t.Fatalf("Format(semver) = %q, %v, want 1.2.3", sv, err)
	}

	p4, err := Format(nv, "pep440", "")
	if err != nil || p4 != "1.2.3" {
		t.Fatalf("Format(pep440) = %q, %v, want 1.2.3", p4, err)
	}
}

func TestResolveSchemaConflict(t *testing.T) {
	_, err := ResolveSchema(SchemaChoice{RON: "Schema(core: [], extra_core: [], build: [], precedence_order: SemVer)", Name: "semver_default"}, nil)
	if err == nil {
		t.Fatal("expected ConflictingSchemas error")
	}
}

func TestRunHashIntHelperIsSevenDigits(t *testing.T) {
	schema, _ := zerv.Preset("semver")
	nv := zerv.NV{Schema: schema, Vars: zerv.Vars{Major: u64(1), Minor: u64(0), Patch: u64(0)}}

	out, err := RenderTemplate(nv, "{{hash_int \"foo\"}}")
	if err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}
	if len(out) != 7 {
		t.Fatalf("hash_int length = %d, want 7 (%q)", len(out), out)
	}
}
