package codec

import "testing"

func TestDetectPrefersSemVerOnAmbiguity(t *testing.T) {
	// "1.2.3" parses under both grammars identically; SemVer must win.
	d, err := Detect("1.2.3")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if d.Format != FormatSemVer {
		t.Fatalf("Format = %v, want semver", d.Format)
	}
}

func TestDetectFallsBackToPEP440(t *testing.T) {
	d, err := Detect("1.2.3a1")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if d.Format != FormatPEP440 {
		t.Fatalf("Format = %v, want pep440", d.Format)
	}
}

func TestDetectRejectsNeither(t *testing.T) {
	if _, err := Detect("not-a-version!!"); err == nil {
		t.Fatal("expected error for unparsable string")
	}
}

func TestDetectBatchDropsUnparsable(t *testing.T) {
	batch := DetectBatch([]string{"1.2.3", "garbage!!", "1.2.3a1"})
	if len(batch) != 2 {
		t.Fatalf("len(batch) = %d, want 2", len(batch))
	}
}

func TestMaxTagPicksMajorityClassHighest(t *testing.T) {
	batch := DetectBatch([]string{"1.0.0", "1.2.0", "2.0.0-alpha.1"})
	best, err := MaxTag(batch)
	if err != nil {
		t.Fatalf("MaxTag: %v", err)
	}
	if best.SemVer.String() != "2.0.0-alpha.1" {
		t.Fatalf("best = %q, want 2.0.0-alpha.1", best.SemVer.String())
	}
}

func TestMaxTagTiedMajorityErrors(t *testing.T) {
	batch := DetectBatch([]string{"1.0.0", "1.2.3a1"})
	if _, err := MaxTag(batch); err == nil {
		t.Fatal("expected error for tied-majority batch")
	}
}

func TestMaxTagEmptyErrors(t *testing.T) {
	if _, err := MaxTag(nil); err == nil {
		t.Fatal("expected error for empty batch")
	}
}
