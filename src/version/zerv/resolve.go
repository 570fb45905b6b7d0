package zerv

import (
	"fmt"

	"github.com/zervdev/zerv/src/sanitize"
	"github.com/zervdev/zerv/src/timestamp"
)

// Token is a schema component resolved against a Vars snapshot into a
// printable wire-grammar identifier: either a bare unsigned integer or a
// sanitized string. Wire codecs use this to render extra_core and
// build sections without re-deriving their own resolution logic.
type Token struct {
	Numeric bool
	Num     uint64
	Str     string
}

// ResolveComponent resolves c against v, sanitizing any string result
// through strSan. ok is false when c is a Variable whose backing value is
// unset (None) — callers should skip the component entirely rather than
// emit an empty identifier.
func ResolveComponent(c Component, v Vars, strSan sanitize.Sanitizer) (Token, bool) {
	switch c.Kind {
	case CompLiteralUint:
		return Token{Numeric: true, Num: c.LiteralUint}, true
	case CompLiteralStr:
		return Token{Str: strSan.Sanitize(c.LiteralStr)}, true
	case CompVariable:
		return resolveVar(c.Var, v, strSan)
	default:
		return Token{}, false
	}
}

func resolveVar(vr Var, v Vars, strSan sanitize.Sanitizer) (Token, bool) {
	switch vr.Kind {
	case Major:
		return numTok(v.Major)
	case Minor:
		return numTok(v.Minor)
	case Patch:
		return numTok(v.Patch)
	case Epoch:
		return numTok(v.Epoch)
	case Post:
		return numTok(v.Post)
	case Dev:
		return numTok(v.Dev)
	case PreRelease:
		if v.PreRelease == nil {
			return Token{}, false
		}
		return Token{Str: v.PreRelease.Label.String()}, true
	case Distance:
		return numTok(v.Distance)
	case Dirty:
		if v.Dirty == nil {
			return Token{}, false
		}
		return Token{Str: fmt.Sprintf("%t", *v.Dirty)}, true
	case BumpedBranch:
		return strTok(v.BumpedBranch, strSan)
	case BumpedCommitHash:
		return strTok(v.BumpedCommitHash, strSan)
	case BumpedCommitHashShort:
		if v.BumpedCommitHash == nil {
			return Token{}, false
		}
		return Token{Str: strSan.Sanitize(v.BumpedCommitHashShort())}, true
	case BumpedTimestamp:
		return i64AsNumTok(v.BumpedTimestamp)
	case LastBranch:
		return strTok(v.LastBranch, strSan)
	case LastCommitHash:
		return strTok(v.LastCommitHash, strSan)
	case LastTimestamp:
		return i64AsNumTok(v.LastTimestamp)
	case Timestamp:
		epoch := v.BumpedTimestamp
		if epoch == nil {
			epoch = v.LastTimestamp
		}
		if epoch == nil {
			return Token{}, false
		}
		s, err := timestamp.Resolve(vr.Pattern, *epoch)
		if err != nil {
			return Token{}, false
		}
		return Token{Str: strSan.Sanitize(s)}, true
	case Custom:
		val, ok := v.Custom[vr.Key]
		if !ok || val == nil {
			return Token{}, false
		}
		return Token{Str: strSan.Sanitize(fmt.Sprintf("%v", val))}, true
	default:
		return Token{}, false
	}
}

func numTok(p *uint64) (Token, bool) {
	if p == nil {
		return Token{}, false
	}
	return Token{Numeric: true, Num: *p}, true
}

func strTok(p *string, san sanitize.Sanitizer) (Token, bool) {
	if p == nil {
		return Token{}, false
	}
	return Token{Str: san.Sanitize(*p)}, true
}

func i64AsNumTok(p *int64) (Token, bool) {
	if p == nil || *p < 0 {
		return Token{}, false
	}
	return Token{Numeric: true, Num: uint64(*p)}, true
}
