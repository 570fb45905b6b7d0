package vcs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initRepo(t *testing.T) (string, *gogit.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	return dir, repo
}

func commit(t *testing.T, dir string, repo *gogit.Repository, name, content string) plumbing.Hash {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("Add: %v", err)
	}
	sig := &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Unix(1700000000, 0)}
	hash, err := wt.Commit("commit "+name, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash
}

func lightweightTag(t *testing.T, repo *gogit.Repository, name string, hash plumbing.Hash) {
	t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewTagReferenceName(name), hash)
	if err := repo.Storer.SetReference(ref); err != nil {
		t.Fatalf("SetReference: %v", err)
	}
}

func TestProbeZeroDistanceAtTaggedCommit(t *testing.T) {
	dir, repo := initRepo(t)
	h := commit(t, dir, repo, "a.txt", "one")
	lightweightTag(t, repo, "v1.2.3", h)

	snap, err := Probe(dir)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if snap.TagRaw != "v1.2.3" {
		t.Fatalf("TagRaw = %q, want v1.2.3", snap.TagRaw)
	}
	if *snap.NV.Vars.Major != 1 || *snap.NV.Vars.Minor != 2 || *snap.NV.Vars.Patch != 3 {
		t.Fatalf("got %d.%d.%d, want 1.2.3", *snap.NV.Vars.Major, *snap.NV.Vars.Minor, *snap.NV.Vars.Patch)
	}
	if *snap.NV.Vars.Distance != 0 {
		t.Fatalf("Distance = %d, want 0", *snap.NV.Vars.Distance)
	}
}

func TestProbeCountsDistanceSinceTag(t *testing.T) {
	dir, repo := initRepo(t)
	h := commit(t, dir, repo, "a.txt", "one")
	lightweightTag(t, repo, "v1.0.0", h)
	commit(t, dir, repo, "b.txt", "two")
	commit(t, dir, repo, "c.txt", "three")

	snap, err := Probe(dir)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if *snap.NV.Vars.Distance != 2 {
		t.Fatalf("Distance = %d, want 2", *snap.NV.Vars.Distance)
	}
	if snap.NV.Vars.Dirty == nil || *snap.NV.Vars.Dirty {
		t.Fatalf("Dirty = %v, want false", snap.NV.Vars.Dirty)
	}
}

func TestProbeDirtyWorktree(t *testing.T) {
	dir, repo := initRepo(t)
	h := commit(t, dir, repo, "a.txt", "one")
	lightweightTag(t, repo, "v1.0.0", h)

	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("modified"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	snap, err := Probe(dir)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if snap.NV.Vars.Dirty == nil || !*snap.NV.Vars.Dirty {
		t.Fatalf("Dirty = %v, want true", snap.NV.Vars.Dirty)
	}
}

func TestProbeNoTagsFails(t *testing.T) {
	dir, repo := initRepo(t)
	commit(t, dir, repo, "a.txt", "one")

	if _, err := Probe(dir); err == nil {
		t.Fatal("expected NoTagsFound error with no tags in repo")
	}
}
