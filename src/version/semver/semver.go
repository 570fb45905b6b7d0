// Package semver implements the SemVer 2.0.0 wire grammar: a parser and
// printer, a precedence comparator, and the two conversions to/from the
// normalized version model in src/version/zerv. The grammar is owned
// here; the Masterminds/semver/v3 dependency only sorts raw tag
// candidates in src/vcs and is never substituted in for this codec.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zervdev/zerv/src/sanitize"
	"github.com/zervdev/zerv/src/version/zerv"
	"github.com/zervdev/zerv/src/zerr"
)

// Identifier is one dot-separated pre-release or build identifier.
// Numeric identifiers compare numerically and always sort below
// alphanumeric ones.
type Identifier struct {
	Numeric bool
	Num     uint64
	Str     string
}

func (id Identifier) String() string {
	if id.Numeric {
		return strconv.FormatUint(id.Num, 10)
	}
	return id.Str
}

// Version is a parsed SemVer 2.0.0 version.
type Version struct {
	Major, Minor, Patch uint64
	Pre                 []Identifier
	Build               []string
}

var grammar = regexp.MustCompile(
	`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
		`(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?` +
		`(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`,
)

// Parse accepts the canonical grammar major.minor.patch(-pre)?(+build)?.
// Pre-release/build segments are alnum|"-" identifiers.
func Parse(s string) (Version, error) {
	m := grammar.FindStringSubmatch(s)
	if m == nil {
		return Version{}, zerr.New(zerr.InvalidFormat, "%q is not a valid SemVer version", s)
	}

	major, _ := strconv.ParseUint(m[1], 10, 64)
	minor, _ := strconv.ParseUint(m[2], 10, 64)
	patch, _ := strconv.ParseUint(m[3], 10, 64)

	v := Version{Major: major, Minor: minor, Patch: patch}
	if m[4] != "" {
		for _, seg := range strings.Split(m[4], ".") {
			v.Pre = append(v.Pre, parseIdentifier(seg))
		}
	}
	if m[5] != "" {
		v.Build = strings.Split(m[5], ".")
	}
	return v, nil
}

func parseIdentifier(seg string) Identifier {
	if isAllDigits(seg) {
		// Leading-zero numeric identifiers are technically illegal in
		// SemVer; enforcement is deferred to sanitation at print time
		// rather than rejecting on parse.
		n, err := strconv.ParseUint(seg, 10, 64)
		if err == nil {
			return Identifier{Numeric: true, Num: n}
		}
	}
	return Identifier{Str: seg}
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

// String prints v as M.m.p[-pre][+build]; empty
// pre-release/build vectors omit the marker entirely.
func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if len(v.Pre) > 0 {
		b.WriteByte('-')
		for i, id := range v.Pre {
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(sanitize.SemverStr.Sanitize(id.String()))
		}
	}
	if len(v.Build) > 0 {
		b.WriteByte('+')
		b.WriteString(strings.Join(v.Build, "."))
	}
	return b.String()
}

// BasePart renders just the major.minor.patch portion
// (semver_obj.base_part in templates).
func (v Version) BasePart() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// PreReleasePart renders the dot-joined pre-release identifiers with no
// leading "-" (semver_obj.pre_release_part); "" when there are none.
func (v Version) PreReleasePart() string {
	if len(v.Pre) == 0 {
		return ""
	}
	parts := make([]string, len(v.Pre))
	for i, id := range v.Pre {
		parts[i] = sanitize.SemverStr.Sanitize(id.String())
	}
	return strings.Join(parts, ".")
}

// BuildPart renders the dot-joined build identifiers with no leading "+"
// (semver_obj.build_part); "" when there are none.
func (v Version) BuildPart() string {
	return strings.Join(v.Build, ".")
}

// Docker renders v as a Docker-tag-safe string: "+" (illegal in image
// tags) becomes "-" (semver_obj.docker).
func (v Version) Docker() string {
	return strings.ReplaceAll(v.String(), "+", "-")
}

// Compare orders a and b under SemVer precedence: build
// metadata is ignored, pre-release versions sort below the same base
// release, and identifiers compare per-segment (numeric < alphanumeric,
// numeric compared numerically, alphanumeric lexically by ASCII).
func Compare(a, b Version) int {
	if d := cmpU64(a.Major, b.Major); d != 0 {
		return d
	}
	if d := cmpU64(a.Minor, b.Minor); d != 0 {
		return d
	}
	if d := cmpU64(a.Patch, b.Patch); d != 0 {
		return d
	}
	switch {
	case len(a.Pre) == 0 && len(b.Pre) == 0:
		return 0
	case len(a.Pre) == 0:
		return 1
	case len(b.Pre) == 0:
		return -1
	}
	n := len(a.Pre)
	if len(b.Pre) < n {
		n = len(b.Pre)
	}
	for i := 0; i < n; i++ {
		if d := cmpIdentifier(a.Pre[i], b.Pre[i]); d != 0 {
			return d
		}
	}
	return cmpInt(len(a.Pre), len(b.Pre))
}

func cmpIdentifier(a, b Identifier) int {
	switch {
	case a.Numeric && b.Numeric:
		return cmpU64(a.Num, b.Num)
	case a.Numeric && !b.Numeric:
		return -1
	case !a.Numeric && b.Numeric:
		return 1
	default:
		return strings.Compare(a.Str, b.Str)
	}
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

// recognizedKeyword is the set of pre-release keywords that feed a Var
// when followed by an integer identifier: epoch/post/dev, plus
// every pre-release label synonym.
var recognizedKeyword = map[string]bool{
	"epoch": true, "post": true, "dev": true,
	"alpha": true, "beta": true, "a": true, "b": true, "c": true, "rc": true, "preview": true, "pre": true,
}

// ToNV converts v into an NV: core fields fill major/minor/patch;
// adjacent (keyword, integer) pairs in the pre-release populate
// epoch/pre_release/post/dev; unmatched identifiers survive as Literal
// components in extra_core; build metadata maps directly to build as
// Literal components.
func ToNV(v Version) zerv.NV {
	vars := zerv.Vars{
		Major: u64p(v.Major),
		Minor: u64p(v.Minor),
		Patch: u64p(v.Patch),
	}

	var extraCore []zerv.Component
	i := 0
	for i < len(v.Pre) {
		id := v.Pre[i]
		if !id.Numeric && recognizedKeyword[id.Str] && i+1 < len(v.Pre) && v.Pre[i+1].Numeric {
			num := v.Pre[i+1].Num
			claimed := false
			switch id.Str {
			case "epoch":
				if vars.Epoch == nil {
					vars.Epoch = u64p(num)
					extraCore = append(extraCore, zerv.VarComp(zerv.Epoch))
					claimed = true
				}
			case "post":
				if vars.Post == nil {
					vars.Post = u64p(num)
					extraCore = append(extraCore, zerv.VarComp(zerv.Post))
					claimed = true
				}
			case "dev":
				if vars.Dev == nil {
					vars.Dev = u64p(num)
					extraCore = append(extraCore, zerv.VarComp(zerv.Dev))
					claimed = true
				}
			default:
				if label, ok := zerv.ParsePreReleaseLabel(id.Str); ok && vars.PreRelease == nil {
					vars.PreRelease = &zerv.PreReleaseValue{Label: label, Number: u64p(num)}
					extraCore = append(extraCore, zerv.VarComp(zerv.PreRelease))
					claimed = true
				}
			}
			// A repeated keyword pair stays literal so the schema keeps
			// each secondary variable at most once.
			if claimed {
				i += 2
				continue
			}
		}
		if id.Numeric {
			extraCore = append(extraCore, zerv.LitUint(id.Num))
		} else {
			extraCore = append(extraCore, zerv.LitStr(id.Str))
		}
		i++
	}

	var build []zerv.Component
	for _, seg := range v.Build {
		if isAllDigits(seg) {
			n, _ := strconv.ParseUint(seg, 10, 64)
			build = append(build, zerv.LitUint(n))
		} else {
			build = append(build, zerv.LitStr(seg))
		}
	}

	schema := zerv.Schema{
		Core:      []zerv.Component{zerv.VarComp(zerv.Major), zerv.VarComp(zerv.Minor), zerv.VarComp(zerv.Patch)},
		ExtraCore: extraCore,
		Build:     build,
		Order:     zerv.SemVerOrder,
	}
	return zerv.NV{Schema: schema, Vars: vars}
}

// FromNV renders z as a SemVer Version: core
// numerics fill major.minor.patch (any further numeric core values
// overflow to the front of the pre-release as integer identifiers);
// extra_core emits Var(PreRelease) as label[,number], epoch/post/dev as
// keyword,number pairs, and any other literal in place; build is emitted
// verbatim.
func FromNV(z zerv.NV) Version {
	v := z.Vars
	var out Version
	var numericCore []uint64
	for _, c := range z.Schema.Core {
		if tok, ok := zerv.ResolveComponent(c, v, sanitize.SemverStr); ok && tok.Numeric {
			numericCore = append(numericCore, tok.Num)
		}
	}
	for len(numericCore) < 3 {
		numericCore = append(numericCore, 0)
	}
	out.Major, out.Minor, out.Patch = numericCore[0], numericCore[1], numericCore[2]
	for _, n := range numericCore[3:] {
		out.Pre = append(out.Pre, Identifier{Numeric: true, Num: n})
	}

	for _, c := range z.Schema.ExtraCore {
		if c.Kind == zerv.CompVariable {
			switch c.Var.Kind {
			case zerv.PreRelease:
				if v.PreRelease != nil {
					out.Pre = append(out.Pre, Identifier{Str: v.PreRelease.Label.String()})
					if v.PreRelease.Number != nil {
						out.Pre = append(out.Pre, Identifier{Numeric: true, Num: *v.PreRelease.Number})
					}
				}
				continue
			case zerv.Epoch, zerv.Post, zerv.Dev:
				tok, ok := zerv.ResolveComponent(c, v, sanitize.SemverStr)
				if ok {
					out.Pre = append(out.Pre, Identifier{Str: c.Var.Kind.String()})
					out.Pre = append(out.Pre, Identifier{Numeric: true, Num: tok.Num})
				}
				continue
			}
		}
		tok, ok := zerv.ResolveComponent(c, v, sanitize.SemverStr)
		if !ok {
			continue
		}
		if tok.Numeric {
			out.Pre = append(out.Pre, Identifier{Numeric: true, Num: tok.Num})
		} else {
			out.Pre = append(out.Pre, Identifier{Str: tok.Str})
		}
	}

	for _, c := range z.Schema.Build {
		tok, ok := zerv.ResolveComponent(c, v, sanitize.SemverStr)
		if !ok {
			continue
		}
		if tok.Numeric {
			out.Build = append(out.Build, strconv.FormatUint(tok.Num, 10))
		} else {
			out.Build = append(out.Build, tok.Str)
		}
	}

	return out
}

func u64p(v uint64) *uint64 { return &v }
