// Package render implements the template engine contract and the render
// pipeline. The concrete substitution engine is the Go standard library's
// text/template — the contract is the set of exposed scalars/structured
// values/helper functions below, wired into a text/template FuncMap and
// root data value so both `{{major}}`-style bare calls and ordinary
// `{{.Major}}` field access work.
package render

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"text/template"

	"github.com/zervdev/zerv/src/sanitize"
	"github.com/zervdev/zerv/src/timestamp"
	"github.com/zervdev/zerv/src/version/pep440"
	"github.com/zervdev/zerv/src/version/semver"
	"github.com/zervdev/zerv/src/version/zerv"
	"github.com/zervdev/zerv/src/zerr"
)

// PreReleaseData is the structured pre_release.* template value.
type PreReleaseData struct {
	Label     string
	LabelCode string
	Number    string
}

// GrammarParts is the structured semver_obj/pep440_obj.* template value.
type GrammarParts struct {
	BasePart       string
	PreReleasePart string
	BuildPart      string
	Docker         string // "" for pep440_obj; spec only defines docker on semver_obj
}

// Context is the root template data value: every scalar and structured
// value templates may reference, as exported fields for `.Field` access.
type Context struct {
	Major, Minor, Patch   string
	Epoch, Post, Dev      string
	Distance              string
	Dirty                 string
	BumpedBranch          string
	BumpedCommitHash      string
	BumpedCommitHashShort string
	BumpedTimestamp       string
	LastBranch            string
	LastCommitHash        string
	LastTimestamp         string

	PreRelease PreReleaseData

	SemVer string
	PEP440 string

	SemVerObj GrammarParts
	PEP440Obj GrammarParts

	Custom map[string]any
}

// strU64 renders an optional numeric field: "" when unset — missing
// scalars always evaluate to the empty string, never an error.
func strU64(p *uint64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p)
}

func strI64(p *int64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%d", *p)
}

func strStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func strBool(p *bool) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%t", *p)
}

// BuildContext derives the full template Context from an NV: scalars from
// Vars directly, wire renders and grammar objects from the codecs, and
// custom passed through verbatim.
func BuildContext(nv zerv.NV) Context {
	v := nv.Vars

	pr := PreReleaseData{}
	if v.PreRelease != nil {
		pr.Label = v.PreRelease.Label.String()
		pr.LabelCode = v.PreRelease.Label.Code()
		pr.Number = strU64(v.PreRelease.Number)
	}

	sv := semver.FromNV(nv)
	p4 := pep440.FromNV(nv)

	bumpedHashShort := ""
	if v.BumpedCommitHash != nil {
		bumpedHashShort = v.BumpedCommitHashShort()
	}

	return Context{
		Major:                 strU64(v.Major),
		Minor:                 strU64(v.Minor),
		Patch:                 strU64(v.Patch),
		Epoch:                 strU64(v.Epoch),
		Post:                  strU64(v.Post),
		Dev:                   strU64(v.Dev),
		Distance:              strU64(v.Distance),
		Dirty:                 strBool(v.Dirty),
		BumpedBranch:          strStr(v.BumpedBranch),
		BumpedCommitHash:      strStr(v.BumpedCommitHash),
		BumpedCommitHashShort: bumpedHashShort,
		BumpedTimestamp:       strI64(v.BumpedTimestamp),
		LastBranch:            strStr(v.LastBranch),
		LastCommitHash:        strStr(v.LastCommitHash),
		LastTimestamp:         strI64(v.LastTimestamp),
		PreRelease:            pr,
		SemVer:                sv.String(),
		PEP440:                p4.String(),
		SemVerObj: GrammarParts{
			BasePart:       sv.BasePart(),
			PreReleasePart: sv.PreReleasePart(),
			BuildPart:      sv.BuildPart(),
			Docker:         sv.Docker(),
		},
		PEP440Obj: GrammarParts{
			BasePart:       p4.BasePart(),
			PreReleasePart: p4.PreReleasePart(),
			BuildPart:      p4.BuildPart(),
		},
		Custom: v.Custom,
	}
}

// customValue renders a custom.* lookup: arrays render as
// "[a, b]", null/missing as "", everything else via its natural string form.
func customValue(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if arr, ok := v.([]any); ok {
		parts := make([]string, len(arr))
		for i, e := range arr {
			parts[i] = fmt.Sprintf("%v", e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprintf("%v", v)
}

// FuncMap builds the closed helper set plus bare-identifier
// scalar accessors bound to ctx, for use with text/template.
func FuncMap(ctx Context) template.FuncMap {
	return template.FuncMap{
		// Bare scalar accessors, callable with no leading dot.
		"major":                    func() string { return ctx.Major },
		"minor":                    func() string { return ctx.Minor },
		"patch":                    func() string { return ctx.Patch },
		"epoch":                    func() string { return ctx.Epoch },
		"post":                     func() string { return ctx.Post },
		"dev":                      func() string { return ctx.Dev },
		"distance":                 func() string { return ctx.Distance },
		"dirty":                    func() string { return ctx.Dirty },
		"bumped_branch":            func() string { return ctx.BumpedBranch },
		"bumped_commit_hash":       func() string { return ctx.BumpedCommitHash },
		"bumped_commit_hash_short": func() string { return ctx.BumpedCommitHashShort },
		"bumped_timestamp":         func() string { return ctx.BumpedTimestamp },
		"last_branch":              func() string { return ctx.LastBranch },
		"last_commit_hash":         func() string { return ctx.LastCommitHash },
		"last_timestamp":           func() string { return ctx.LastTimestamp },
		"semver":                   func() string { return ctx.SemVer },
		"pep440":                   func() string { return ctx.PEP440 },
		"pre_release_label":        func() string { return ctx.PreRelease.Label },
		"pre_release_label_code":   func() string { return ctx.PreRelease.LabelCode },
		"pre_release_number":       func() string { return ctx.PreRelease.Number },
		"pre_release":              func() PreReleaseData { return ctx.PreRelease },
		"semver_obj":               func() GrammarParts { return ctx.SemVerObj },
		"pep440_obj":               func() GrammarParts { return ctx.PEP440Obj },
		"custom":                   func(key string) string { return customValue(ctx.Custom, key) },

		// Helpers (closed set).
		"sanitize":         tmplSanitize,
		"hash":             tmplHash,
		"hash_int":         tmplHashInt,
		"prefix":           tmplPrefix,
		"format_timestamp": tmplFormatTimestamp,
	}
}

// tmplSanitize implements the sanitize(value, preset?, separator?,
// lowercase?, keep_zeros?, max_length?) helper. preset and the
// separator/lowercase/keep_zeros/max_length group are mutually
// exclusive; called either as sanitize(value, "preset_name") or
// sanitize(value, separator, lowercase, keep_zeros, max_length).
func tmplSanitize(value string, args ...any) (string, error) {
	if len(args) == 0 {
		return sanitize.Sanitizer{Target: sanitize.Str}.Sanitize(value), nil
	}
	if len(args) == 1 {
		preset, ok := args[0].(string)
		if !ok {
			return "", zerr.New(zerr.TemplateError, "sanitize: preset argument must be a string")
		}
		switch preset {
		case "semver_str":
			return sanitize.SemverStr.Sanitize(value), nil
		case "pep440_local_str":
			return sanitize.PEP440LocalStr.Sanitize(value), nil
		case "uint":
			return sanitize.UIntPreset.Sanitize(value), nil
		default:
			return "", zerr.New(zerr.TemplateError, "sanitize: unknown preset %q", preset)
		}
	}
	if len(args) != 4 {
		return "", zerr.New(zerr.TemplateError, "sanitize: custom form takes (value, separator, lowercase, keep_zeros, max_length)")
	}
	sep, _ := args[0].(string)
	lowercase, _ := args[1].(bool)
	keepZeros, _ := args[2].(bool)
	maxLen, _ := args[3].(int)
	san := sanitize.Sanitizer{Target: sanitize.Str, Separator: &sep, Lowercase: lowercase, KeepZeros: keepZeros}
	if maxLen > 0 {
		san.MaxLength = &maxLen
	}
	return san.Sanitize(value), nil
}

// tmplHash returns a hex digest of value truncated to length (default 7).
func tmplHash(value string, length ...int) string {
	n := 7
	if len(length) > 0 {
		n = length[0]
	}
	sum := sha256.Sum256([]byte(value))
	hexStr := hex.EncodeToString(sum[:])
	if n < len(hexStr) {
		return hexStr[:n]
	}
	return hexStr
}

// tmplHashInt returns a decimal digest of value with `length` digits
// (default 7). allowLeadingZero (default false) controls whether the
// first digit may be zero.
func tmplHashInt(value string, opts ...any) string {
	length := 7
	allowLeadingZero := false
	if len(opts) > 0 {
		if n, ok := opts[0].(int); ok {
			length = n
		}
	}
	if len(opts) > 1 {
		if b, ok := opts[1].(bool); ok {
			allowLeadingZero = b
		}
	}

	sum := sha256.Sum256([]byte(value))
	n := new(big.Int).SetBytes(sum[:])
	mod := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n.Mod(n, mod)
	s := n.String()
	for len(s) < length {
		s = "0" + s
	}
	if !allowLeadingZero && s[0] == '0' {
		// Force a non-zero leading digit by reusing the digest's first byte.
		s = fmt.Sprintf("%d", 1+int(sum[0])%9) + s[1:]
	}
	return s
}

// tmplPrefix returns the first length characters of value (default 10).
func tmplPrefix(value string, length ...int) string {
	n := 10
	if len(length) > 0 {
		n = length[0]
	}
	if n > len(value) {
		n = len(value)
	}
	return value[:n]
}

// tmplFormatTimestamp formats value (Unix seconds) via the timestamp
// resolver, default format "%Y-%m-%d".
func tmplFormatTimestamp(value int64, format ...string) (string, error) {
	f := "%Y-%m-%d"
	if len(format) > 0 {
		f = format[0]
	}
	return timestamp.Resolve(f, value)
}

// RenderTemplate expands tmplText against nv's Context: single-pass
// substitution with conditionals/loops over the scalars, mutually
// exclusive with non-semver --output-format.
func RenderTemplate(nv zerv.NV, tmplText string) (string, error) {
	ctx := BuildContext(nv)
	t, err := template.New("zerv").Funcs(FuncMap(ctx)).Parse(tmplText)
	if err != nil {
		return "", zerr.Wrap(zerr.TemplateError, err, "parsing output template")
	}
	var b strings.Builder
	if err := t.Execute(&b, ctx); err != nil {
		return "", zerr.Wrap(zerr.TemplateError, err, "executing output template")
	}
	return b.String(), nil
}
