// Package codec implements the auto-detection dispatch: trying SemVer
// then PEP 440 for a single tag, and picking a "max tag" from a batch of
// candidates by majority class.
package codec

import (
	"github.com/zervdev/zerv/src/version/pep440"
	"github.com/zervdev/zerv/src/version/semver"
	"github.com/zervdev/zerv/src/version/zerv"
	"github.com/zervdev/zerv/src/zerr"
)

// Format is the wire grammar a string was recognized under.
type Format int

const (
	FormatSemVer Format = iota
	FormatPEP440
)

func (f Format) String() string {
	if f == FormatPEP440 {
		return "pep440"
	}
	return "semver"
}

// Detected is the result of auto-detecting a single version string.
type Detected struct {
	Format Format
	NV     zerv.NV
	SemVer semver.Version
	PEP440 pep440.Version
}

// Detect tries SemVer then PEP 440 against s. When both
// parsers accept the whole string and produce different NVs, SemVer
// wins.
func Detect(s string) (Detected, error) {
	sv, svErr := semver.Parse(s)
	p4, p4Err := pep440.Parse(s)

	switch {
	case svErr == nil:
		return Detected{Format: FormatSemVer, NV: semver.ToNV(sv), SemVer: sv}, nil
	case p4Err == nil:
		return Detected{Format: FormatPEP440, NV: pep440.ToNV(p4), PEP440: p4}, nil
	default:
		return Detected{}, zerr.New(zerr.InvalidFormat, "%q is neither a valid SemVer nor PEP 440 version", s)
	}
}

// DetectBatch runs Detect over every candidate independently, dropping
// candidates that parse under neither grammar.
func DetectBatch(candidates []string) []Detected {
	out := make([]Detected, 0, len(candidates))
	for _, c := range candidates {
		d, err := Detect(c)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

// MaxTag picks the "max tag" among a batch: the eventual winner is chosen
// by the codec of the majority class, and within that class by the
// class's own ordering. Tags of mixed classes compared
// pairwise (i.e. a tied-majority batch straddling both classes) fail
// with InvalidFormat.
func MaxTag(batch []Detected) (Detected, error) {
	if len(batch) == 0 {
		return Detected{}, zerr.New(zerr.NoTagsFound, "no candidate tags to select from")
	}

	semCount, pepCount := 0, 0
	for _, d := range batch {
		if d.Format == FormatSemVer {
			semCount++
		} else {
			pepCount++
		}
	}

	var majority Format
	switch {
	case semCount > pepCount:
		majority = FormatSemVer
	case pepCount > semCount:
		majority = FormatPEP440
	default:
		return Detected{}, zerr.New(zerr.InvalidFormat, "tag batch has no majority class (%d semver, %d pep440)", semCount, pepCount)
	}

	var best *Detected
	for i := range batch {
		d := batch[i]
		if d.Format != majority {
			continue
		}
		if best == nil {
			best = &batch[i]
			continue
		}
		var greater bool
		if majority == FormatSemVer {
			greater = semver.Compare(d.SemVer, best.SemVer) > 0
		} else {
			greater = pep440.Compare(d.PEP440, best.PEP440) > 0
		}
		if greater {
			best = &batch[i]
		}
	}
	return *best, nil
}
