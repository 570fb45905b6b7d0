// Package pep440 implements the PEP 440 wire grammar: a parser and
// printer, the epoch-dominant precedence comparator, and the two
// conversions to/from the normalized version model in src/version/zerv.
package pep440

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zervdev/zerv/src/sanitize"
	"github.com/zervdev/zerv/src/version/zerv"
	"github.com/zervdev/zerv/src/zerr"
)

// LocalSegment is one dot-separated segment of a local version label.
type LocalSegment struct {
	Numeric bool
	Num     uint64
	Str     string
}

func (s LocalSegment) String() string {
	if s.Numeric {
		return strconv.FormatUint(s.Num, 10)
	}
	return s.Str
}

// Version is a parsed PEP 440 version.
type Version struct {
	Epoch    uint64
	Release  []uint64
	PreLabel string // normalized: "a", "b", or "rc"; "" if no pre-release
	PreNum   *uint64
	HasPost  bool
	Post     uint64
	HasDev   bool
	Dev      uint64
	Local    []LocalSegment
}

var grammar = regexp.MustCompile(
	`(?i)^(?:(\d+)!)?` + // epoch
		`(\d+(?:\.\d+)*)` + // release segments
		`(?:(a|b|c|rc|alpha|beta|preview|pre)(\d*))?` + // pre-release
		`(?:\.post(\d+))?` + // post
		`(?:\.dev(\d+))?` + // dev
		`(?:\+([0-9A-Za-z]+(?:[.-][0-9A-Za-z]+)*))?$`,
)

// normalizeLabel maps pre-release synonyms:
// alpha->a, beta->b, c|rc|preview|pre->rc.
func normalizeLabel(s string) string {
	switch strings.ToLower(s) {
	case "a", "alpha":
		return "a"
	case "b", "beta":
		return "b"
	case "c", "rc", "preview", "pre":
		return "rc"
	default:
		return ""
	}
}

// Parse accepts [N!]N(.N)*[{a|b|c|rc|alpha|beta|preview|pre}N][.postN][.devN][+local].
func Parse(s string) (Version, error) {
	m := grammar.FindStringSubmatch(s)
	if m == nil {
		return Version{}, zerr.New(zerr.InvalidFormat, "%q is not a valid PEP 440 version", s)
	}

	var v Version
	if m[1] != "" {
		v.Epoch, _ = strconv.ParseUint(m[1], 10, 64)
	}
	for _, seg := range strings.Split(m[2], ".") {
		n, _ := strconv.ParseUint(seg, 10, 64)
		v.Release = append(v.Release, n)
	}
	if m[3] != "" {
		v.PreLabel = normalizeLabel(m[3])
		if m[4] != "" {
			n, _ := strconv.ParseUint(m[4], 10, 64)
			v.PreNum = &n
		} else {
			zero := uint64(0)
			v.PreNum = &zero
		}
	}
	if m[5] != "" {
		v.HasPost = true
		v.Post, _ = strconv.ParseUint(m[5], 10, 64)
	}
	if m[6] != "" {
		v.HasDev = true
		v.Dev, _ = strconv.ParseUint(m[6], 10, 64)
	}
	if m[7] != "" {
		for _, seg := range strings.Split(m[7], ".") {
			for _, sub := range strings.Split(seg, "-") {
				v.Local = append(v.Local, parseLocalSegment(sub))
			}
		}
	}
	return v, nil
}

func parseLocalSegment(s string) LocalSegment {
	if n, err := strconv.ParseUint(s, 10, 64); err == nil && isAllDigits(s) {
		return LocalSegment{Numeric: true, Num: n}
	}
	return LocalSegment{Str: strings.ToLower(s)}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String renders v in canonical lower-case form; N! only appears when
// epoch != 0.
func (v Version) String() string {
	var b strings.Builder
	if v.Epoch != 0 {
		fmt.Fprintf(&b, "%d!", v.Epoch)
	}
	for i, seg := range v.Release {
		if i > 0 {
			b.WriteByte('.')
		}
		fmt.Fprintf(&b, "%d", seg)
	}
	if v.PreLabel != "" {
		b.WriteString(v.PreLabel)
		if v.PreNum != nil {
			fmt.Fprintf(&b, "%d", *v.PreNum)
		}
	}
	if v.HasPost {
		fmt.Fprintf(&b, ".post%d", v.Post)
	}
	if v.HasDev {
		fmt.Fprintf(&b, ".dev%d", v.Dev)
	}
	if len(v.Local) > 0 {
		b.WriteByte('+')
		for i, seg := range v.Local {
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(sanitize.PEP440LocalStr.Sanitize(seg.String()))
		}
	}
	return b.String()
}

// BasePart renders "[N!]N(.N)*" (pep440_obj.base_part in templates).
func (v Version) BasePart() string {
	var b strings.Builder
	if v.Epoch != 0 {
		fmt.Fprintf(&b, "%d!", v.Epoch)
	}
	for i, seg := range v.Release {
		if i > 0 {
			b.WriteByte('.')
		}
		fmt.Fprintf(&b, "%d", seg)
	}
	return b.String()
}

// PreReleasePart renders the pre-release label+number with no post/dev
// (pep440_obj.pre_release_part); "" when there is none.
func (v Version) PreReleasePart() string {
	if v.PreLabel == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(v.PreLabel)
	if v.PreNum != nil {
		fmt.Fprintf(&b, "%d", *v.PreNum)
	}
	return b.String()
}

// BuildPart renders the dot-joined local-version segments with no
// leading "+" (pep440_obj.build_part); "" when there are none.
func (v Version) BuildPart() string {
	parts := make([]string, len(v.Local))
	for i, seg := range v.Local {
		parts[i] = sanitize.PEP440LocalStr.Sanitize(seg.String())
	}
	return strings.Join(parts, ".")
}

// Compare orders a and b under PEP 440 precedence: epoch dominates, then
// release segments, then pre/post/dev (dev < pre < release < post).
func Compare(a, b Version) int {
	if d := cmpU64(a.Epoch, b.Epoch); d != 0 {
		return d
	}
	n := len(a.Release)
	if len(b.Release) > n {
		n = len(b.Release)
	}
	for i := 0; i < n; i++ {
		if d := cmpU64(releaseAt(a, i), releaseAt(b, i)); d != 0 {
			return d
		}
	}
	if d := cmpInt(phaseRank(a), phaseRank(b)); d != 0 {
		return d
	}
	if a.PreLabel != "" && b.PreLabel != "" {
		// Normalized labels "a" < "b" < "rc" sort lexically.
		if d := strings.Compare(a.PreLabel, b.PreLabel); d != 0 {
			return d
		}
		an, bn := uint64(0), uint64(0)
		if a.PreNum != nil {
			an = *a.PreNum
		}
		if b.PreNum != nil {
			bn = *b.PreNum
		}
		if d := cmpU64(an, bn); d != 0 {
			return d
		}
	}
	if a.HasPost && b.HasPost {
		if d := cmpU64(a.Post, b.Post); d != 0 {
			return d
		}
	}
	// A .devN release sorts before the same version without it.
	if a.HasDev != b.HasDev {
		if a.HasDev {
			return -1
		}
		return 1
	}
	if a.HasDev && b.HasDev {
		return cmpU64(a.Dev, b.Dev)
	}
	return 0
}

// phaseRank orders dev < pre < release < post, independent of the
// numbers involved.
func phaseRank(v Version) int {
	switch {
	case v.HasDev && v.PreLabel == "" && !v.HasPost:
		return 0
	case v.PreLabel != "":
		return 1
	case v.HasPost:
		return 3
	default:
		return 2
	}
}

func releaseAt(v Version, i int) uint64 {
	if i < len(v.Release) {
		return v.Release[i]
	}
	return 0
}

func cmpU64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ToNV converts v into an NV: release fills major/minor/
// patch (missing values default to 0); pre/post/dev populate Vars; the
// local label maps to build as Literal components.
func ToNV(v Version) zerv.NV {
	major, minor, patch := releaseAt(v, 0), releaseAt(v, 1), releaseAt(v, 2)
	vars := zerv.Vars{
		Major: u64p(major),
		Minor: u64p(minor),
		Patch: u64p(patch),
	}
	if v.Epoch != 0 {
		vars.Epoch = u64p(v.Epoch)
	}
	if v.PreLabel != "" {
		if label, ok := zerv.ParsePreReleaseLabel(v.PreLabel); ok {
			vars.PreRelease = &zerv.PreReleaseValue{Label: label, Number: clonep(v.PreNum)}
		}
	}
	if v.HasPost {
		vars.Post = u64p(v.Post)
	}
	if v.HasDev {
		vars.Dev = u64p(v.Dev)
	}

	var extraCore []zerv.Component
	// Any release segment past the third overflows into extra_core as
	// Literal numerics, mirroring the semver codec's symmetrical handling.
	for _, seg := range v.Release[min(3, len(v.Release)):] {
		extraCore = append(extraCore, zerv.LitUint(seg))
	}

	var build []zerv.Component
	for _, seg := range v.Local {
		if seg.Numeric {
			build = append(build, zerv.LitUint(seg.Num))
		} else {
			build = append(build, zerv.LitStr(seg.Str))
		}
	}

	schema := zerv.Schema{
		Core:      []zerv.Component{zerv.VarComp(zerv.Major), zerv.VarComp(zerv.Minor), zerv.VarComp(zerv.Patch)},
		ExtraCore: append([]zerv.Component{zerv.VarComp(zerv.Epoch), zerv.VarComp(zerv.PreRelease), zerv.VarComp(zerv.Post), zerv.VarComp(zerv.Dev)}, extraCore...),
		Build:     build,
		Order:     zerv.PEP440Order,
	}
	return zerv.NV{Schema: schema, Vars: vars}
}

// FromNV renders z as a PEP 440 Version: core numerics
// collect into release, overflowing non-numeric core components into
// local; pre_release/post/dev come from Vars; any other extra_core
// literal and all of build push into local.
func FromNV(z zerv.NV) Version {
	v := z.Vars
	var out Version
	for _, c := range z.Schema.Core {
		tok, ok := zerv.ResolveComponent(c, v, sanitize.PEP440LocalStr)
		if !ok {
			continue
		}
		if tok.Numeric {
			out.Release = append(out.Release, tok.Num)
		} else {
			out.Local = append(out.Local, LocalSegment{Str: tok.Str})
		}
	}

	if v.Epoch != nil {
		out.Epoch = *v.Epoch
	}
	if v.PreRelease != nil {
		out.PreLabel = v.PreRelease.Label.Code()
		out.PreNum = clonep(v.PreRelease.Number)
	}
	if v.Post != nil {
		out.HasPost = true
		out.Post = *v.Post
	}
	if v.Dev != nil {
		out.HasDev = true
		out.Dev = *v.Dev
	}

	for _, c := range z.Schema.ExtraCore {
		if c.Kind == zerv.CompVariable {
			switch c.Var.Kind {
			case zerv.Epoch, zerv.PreRelease, zerv.Post, zerv.Dev:
				continue // already rendered from Vars above
			}
		}
		tok, ok := zerv.ResolveComponent(c, v, sanitize.PEP440LocalStr)
		if !ok {
			continue
		}
		if tok.Numeric {
			out.Local = append(out.Local, LocalSegment{Numeric: true, Num: tok.Num})
		} else {
			out.Local = append(out.Local, LocalSegment{Str: tok.Str})
		}
	}

	for _, c := range z.Schema.Build {
		tok, ok := zerv.ResolveComponent(c, v, sanitize.PEP440LocalStr)
		if !ok {
			continue
		}
		if tok.Numeric {
			out.Local = append(out.Local, LocalSegment{Numeric: true, Num: tok.Num})
		} else {
			out.Local = append(out.Local, LocalSegment{Str: tok.Str})
		}
	}

	return out
}

func u64p(v uint64) *uint64 { return &v }
func clonep(p *uint64) *uint64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
