// Package vcs implements the git probe behind `--source git`: finding
// the nearest tag reachable from HEAD (git-describe style), counting the
// commit distance to it, and reading worktree/commit identity into a
// zerv.Vars context snapshot.
package vcs

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/zervdev/zerv/src/version/codec"
	"github.com/zervdev/zerv/src/version/zerv"
	"github.com/zervdev/zerv/src/zerr"
)

// Snapshot is what Probe hands the render pipeline as the git InputSource's
// (Schema?, Vars) draft: the nearest tag's detected NV (schema + base
// vars), plus the VCS-derived context layered into the same Vars.
type Snapshot struct {
	Format codec.Format
	NV     zerv.NV
	TagRaw string
}

// Probe opens the repository rooted at or above dir, walks HEAD's history
// to find the nearest tag, and returns a Snapshot merging that tag's
// parsed NV with distance/dirty/identity context.
func Probe(dir string) (Snapshot, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Snapshot{}, zerr.Wrap(zerr.VcsNotFound, err, "opening repository at %q", dir)
	}

	head, err := repo.Head()
	if err != nil {
		return Snapshot{}, zerr.Wrap(zerr.VcsNotFound, err, "resolving HEAD")
	}

	tagsByCommit, err := collectTags(repo)
	if err != nil {
		return Snapshot{}, zerr.Wrap(zerr.CommandFailed, err, "listing tags")
	}

	tagStr, distance, taggedCommit, err := nearestTag(repo, head.Hash(), tagsByCommit)
	if err != nil {
		return Snapshot{}, err
	}

	detected, err := codec.Detect(stripV(tagStr))
	if err != nil {
		return Snapshot{}, err
	}

	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return Snapshot{}, zerr.Wrap(zerr.CommandFailed, err, "reading HEAD commit")
	}

	dirty, err := isDirty(repo)
	if err != nil {
		return Snapshot{}, zerr.Wrap(zerr.CommandFailed, err, "reading worktree status")
	}

	branch := branchName(head)
	headHash := head.Hash().String()
	headTs := headCommit.Author.When.Unix()
	taggedHash := taggedCommit.Hash.String()
	taggedTs := taggedCommit.Author.When.Unix()
	dist := uint64(distance)

	vars := detected.NV.Vars
	vars.Distance = &dist
	vars.Dirty = &dirty
	vars.BumpedBranch = &branch
	vars.BumpedCommitHash = &headHash
	vars.BumpedTimestamp = &headTs
	vars.LastBranch = &branch
	vars.LastCommitHash = &taggedHash
	vars.LastTimestamp = &taggedTs

	nv := zerv.NV{Schema: detected.NV.Schema, Vars: vars}
	return Snapshot{Format: detected.Format, NV: nv, TagRaw: tagStr}, nil
}

// collectTags maps each tagged commit to the candidate tag names pointing
// at it, resolving annotated tag objects down to the commit they target.
func collectTags(repo *gogit.Repository) (map[plumbing.Hash][]string, error) {
	out := map[plumbing.Hash][]string{}
	iter, err := repo.Tags()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		hash := ref.Hash()
		if tagObj, err := repo.TagObject(hash); err == nil {
			hash = tagObj.Target
		}
		out[hash] = append(out[hash], name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// nearestTag walks the commit log starting at from, counting distance
// until it reaches a commit with one or more tags (git-describe style).
// When several tags share that commit, pickTag chooses among them.
func nearestTag(repo *gogit.Repository, from plumbing.Hash, tagsByCommit map[plumbing.Hash][]string) (string, int, *object.Commit, error) {
	iter, err := repo.Log(&gogit.LogOptions{From: from})
	if err != nil {
		return "", 0, nil, zerr.Wrap(zerr.CommandFailed, err, "walking commit log")
	}
	defer iter.Close()

	distance := 0
	var found string
	var foundCommit *object.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if names, ok := tagsByCommit[c.Hash]; ok && len(names) > 0 {
			found = pickTag(names)
			foundCommit = c
			return errStopWalk
		}
		distance++
		return nil
	})
	if err != nil && err != errStopWalk {
		return "", 0, nil, zerr.Wrap(zerr.CommandFailed, err, "walking commit log")
	}
	if found == "" {
		return "", 0, nil, zerr.New(zerr.NoTagsFound, "no tags reachable from HEAD")
	}
	return found, distance, foundCommit, nil
}

var errStopWalk = stopWalkErr{}

type stopWalkErr struct{}

func (stopWalkErr) Error() string { return "stop" }

// pickTag chooses among several tags pointing at the same commit. It
// first tries the majority-class vote (pickTagByVote); when that
// can't decide (mixed-grammar tie, or nothing parses under either
// codec) it falls back to the highest Masterminds/semver-sortable
// candidate, with non-semver-shaped names sorting after, compared
// lexically.
func pickTag(names []string) string {
	if len(names) == 1 {
		return names[0]
	}
	if name, ok := pickTagByVote(names); ok {
		return name
	}
	type cand struct {
		name string
		ver  *semver.Version
	}
	cands := make([]cand, 0, len(names))
	for _, n := range names {
		v, err := semver.NewVersion(stripV(n))
		if err == nil {
			cands = append(cands, cand{name: n, ver: v})
		} else {
			cands = append(cands, cand{name: n})
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		switch {
		case a.ver != nil && b.ver != nil:
			return a.ver.GreaterThan(b.ver)
		case a.ver != nil:
			return true
		case b.ver != nil:
			return false
		default:
			return a.name > b.name
		}
	})
	return cands[0].name
}

func stripV(tag string) string {
	if len(tag) > 1 && (tag[0] == 'v' || tag[0] == 'V') && tag[1] >= '0' && tag[1] <= '9' {
		return tag[1:]
	}
	return tag
}

func isDirty(repo *gogit.Repository) (bool, error) {
	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no worktree to be dirty.
		return false, nil
	}
	status, err := wt.Status()
	if err != nil {
		return false, err
	}
	return !status.IsClean(), nil
}

func branchName(head *plumbing.Reference) string {
	if head.Name().IsBranch() {
		return head.Name().Short()
	}
	return strings.TrimPrefix(head.Name().String(), "refs/")
}
