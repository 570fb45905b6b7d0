package vcs

import (
	"golang.org/x/sync/errgroup"

	"github.com/zervdev/zerv/src/version/codec"
)

// candidate pairs a raw tag name with its auto-detected NV, so the
// majority-class winner codec.MaxTag picks can be mapped back to the
// tag string the caller actually needs.
type candidate struct {
	name string
	det  codec.Detected
}

// detectCandidatesConcurrently runs codec.Detect over every tag name
// sharing the nearest tagged commit in parallel: batch auto-detection is
// independent per candidate, so there's nothing to serialize. Candidates that parse under neither grammar
// are dropped, same as codec.DetectBatch.
func detectCandidatesConcurrently(names []string) []candidate {
	dets := make([]codec.Detected, len(names))
	ok := make([]bool, len(names))

	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			d, err := codec.Detect(stripV(name))
			if err != nil {
				return nil
			}
			dets[i] = d
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait() // detect errors are per-candidate skips, never aborts

	out := make([]candidate, 0, len(names))
	for i, name := range names {
		if ok[i] {
			out = append(out, candidate{name: name, det: dets[i]})
		}
	}
	return out
}

// pickTagByVote resolves several tags pointing at the same commit using
// the majority-class vote: whichever grammar claims more of the
// candidates wins, and the highest version under that grammar is
// returned. It reports ok=false when nothing parsed or the batch has a
// tied majority, leaving the caller to fall back to lexical/semver
// sorting of the raw names.
func pickTagByVote(names []string) (name string, ok bool) {
	cands := detectCandidatesConcurrently(names)
	if len(cands) == 0 {
		return "", false
	}

	batch := make([]codec.Detected, len(cands))
	for i, c := range cands {
		batch[i] = c.det
	}
	best, err := codec.MaxTag(batch)
	if err != nil {
		return "", false
	}

	for _, c := range cands {
		if c.det.Format != best.Format {
			continue
		}
		switch best.Format {
		case codec.FormatSemVer:
			if c.det.SemVer.String() == best.SemVer.String() {
				return c.name, true
			}
		case codec.FormatPEP440:
			if c.det.PEP440.String() == best.PEP440.String() {
				return c.name, true
			}
		}
	}
	return "", false
}
