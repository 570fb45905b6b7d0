package zerv

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/zervdev/zerv/src/zerr"
)

// Parse reads the canonical NV-RON text back into an NV. Parse(Print(z))
// == z for every NV with a valid schema, modulo the allowance that Parse
// runs Validate on the parsed schema before returning, surfacing
// StdinError on any structural failure.
func Parse(text string) (NV, error) {
	p := &ronParser{src: text}
	p.skipSpace()
	z, err := p.parseZerv()
	if err != nil {
		return NV{}, err
	}
	p.skipSpace()
	if !p.atEnd() {
		return NV{}, zerr.New(zerr.StdinError, "unexpected trailing content at offset %d", p.pos)
	}
	if err := Validate(z.Schema); err != nil {
		return NV{}, zerr.Wrap(zerr.StdinError, err, "parsed schema is invalid")
	}
	return z, nil
}

// ParseSchema reads a bare `Schema(...)` tuple, the grammar `--schema-ron`
// accepts — the same tuple embedded inside a full `Zerv(...)`
// NV-RON value, parsed standalone.
func ParseSchema(text string) (Schema, error) {
	p := &ronParser{src: text}
	p.skipSpace()
	s, err := p.parseSchema()
	if err != nil {
		return Schema{}, err
	}
	p.skipSpace()
	if !p.atEnd() {
		return Schema{}, zerr.New(zerr.StdinError, "unexpected trailing content at offset %d", p.pos)
	}
	if err := Validate(s); err != nil {
		return Schema{}, zerr.Wrap(zerr.StdinError, err, "parsed schema is invalid")
	}
	return s, nil
}

type ronParser struct {
	src string
	pos int
}

func (p *ronParser) atEnd() bool { return p.pos >= len(p.src) }

func (p *ronParser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

func (p *ronParser) skipSpace() {
	for !p.atEnd() {
		c := p.src[p.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			p.pos++
			continue
		}
		break
	}
}

func (p *ronParser) fail(format string, args ...any) error {
	return zerr.New(zerr.StdinError, format, args...).WithHint("offset %d", p.pos)
}

// expect consumes a literal token after skipping leading whitespace.
func (p *ronParser) expect(tok string) error {
	p.skipSpace()
	if !strings.HasPrefix(p.src[p.pos:], tok) {
		return p.fail("expected %q", tok)
	}
	p.pos += len(tok)
	return nil
}

// tryConsume consumes tok (after whitespace) if present, reporting so.
func (p *ronParser) tryConsume(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

// ident reads a bare identifier: letters, digits, underscore.
func (p *ronParser) ident() string {
	p.skipSpace()
	start := p.pos
	for !p.atEnd() {
		c := p.src[p.pos]
		if unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c)) || c == '_' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *ronParser) parseZerv() (NV, error) {
	if err := p.expect("Zerv("); err != nil {
		return NV{}, err
	}
	var schema Schema
	var vars Vars
	haveSchema, haveVars := false, false

	for {
		p.skipSpace()
		if p.tryConsume(")") {
			break
		}
		name := p.ident()
		if err := p.expect(":"); err != nil {
			return NV{}, err
		}
		switch name {
		case "schema":
			s, err := p.parseSchema()
			if err != nil {
				return NV{}, err
			}
			schema = s
			haveSchema = true
		case "vars":
			v, err := p.parseVars()
			if err != nil {
				return NV{}, err
			}
			vars = v
			haveVars = true
		default:
			return NV{}, p.fail("unknown Zerv field %q", name)
		}
		p.tryConsume(",")
	}

	if !haveSchema || !haveVars {
		return NV{}, p.fail("Zerv tuple missing schema or vars field")
	}
	return NV{Schema: schema, Vars: vars}, nil
}

func (p *ronParser) parseSchema() (Schema, error) {
	if err := p.expect("Schema("); err != nil {
		return Schema{}, err
	}
	var s Schema
	for {
		p.skipSpace()
		if p.tryConsume(")") {
			break
		}
		name := p.ident()
		if err := p.expect(":"); err != nil {
			return Schema{}, err
		}
		switch name {
		case "core":
			comps, err := p.parseComponentList()
			if err != nil {
				return Schema{}, err
			}
			s.Core = comps
		case "extra_core":
			comps, err := p.parseComponentList()
			if err != nil {
				return Schema{}, err
			}
			s.ExtraCore = comps
		case "build":
			comps, err := p.parseComponentList()
			if err != nil {
				return Schema{}, err
			}
			s.Build = comps
		case "precedence_order":
			id := p.ident()
			switch id {
			case "SemVer":
				s.Order = SemVerOrder
			case "Pep440":
				s.Order = PEP440Order
			default:
				return Schema{}, p.fail("unknown precedence_order %q", id)
			}
		default:
			return Schema{}, p.fail("unknown Schema field %q", name)
		}
		p.tryConsume(",")
	}
	return s, nil
}

func (p *ronParser) parseComponentList() ([]Component, error) {
	if err := p.expect("["); err != nil {
		return nil, err
	}
	var out []Component
	for {
		p.skipSpace()
		if p.tryConsume("]") {
			break
		}
		c, err := p.parseComponent()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		p.tryConsume(",")
	}
	return out, nil
}

func (p *ronParser) parseComponent() (Component, error) {
	kind := p.ident()
	if err := p.expect("("); err != nil {
		return Component{}, err
	}
	switch kind {
	case "Literal":
		p.skipSpace()
		if p.peek() == '"' {
			s, err := p.parseString()
			if err != nil {
				return Component{}, err
			}
			if err := p.expect(")"); err != nil {
				return Component{}, err
			}
			return LitStr(s), nil
		}
		n, err := p.parseUint()
		if err != nil {
			return Component{}, err
		}
		if err := p.expect(")"); err != nil {
			return Component{}, err
		}
		return LitUint(n), nil
	case "Variable":
		v, err := p.parseVar()
		if err != nil {
			return Component{}, err
		}
		if err := p.expect(")"); err != nil {
			return Component{}, err
		}
		return Variable(v), nil
	default:
		return Component{}, p.fail("unknown component kind %q", kind)
	}
}

var varKindByName = map[string]VarKind{
	"Major": Major, "Minor": Minor, "Patch": Patch,
	"Epoch": Epoch, "PreRelease": PreRelease, "Post": Post, "Dev": Dev,
	"Distance": Distance, "Dirty": Dirty,
	"BumpedBranch": BumpedBranch, "BumpedCommitHash": BumpedCommitHash,
	"BumpedCommitHashShort": BumpedCommitHashShort, "BumpedTimestamp": BumpedTimestamp,
	"LastBranch": LastBranch, "LastCommitHash": LastCommitHash, "LastTimestamp": LastTimestamp,
}

func (p *ronParser) parseVar() (Var, error) {
	name := p.ident()
	switch name {
	case "Timestamp":
		if err := p.expect("("); err != nil {
			return Var{}, err
		}
		pattern, err := p.parseString()
		if err != nil {
			return Var{}, err
		}
		if err := p.expect(")"); err != nil {
			return Var{}, err
		}
		return Var{Kind: Timestamp, Pattern: pattern}, nil
	case "Custom":
		if err := p.expect("("); err != nil {
			return Var{}, err
		}
		key, err := p.parseString()
		if err != nil {
			return Var{}, err
		}
		if err := p.expect(")"); err != nil {
			return Var{}, err
		}
		return Var{Kind: Custom, Key: key}, nil
	default:
		k, ok := varKindByName[name]
		if !ok {
			return Var{}, p.fail("unknown Var %q", name)
		}
		return Var{Kind: k}, nil
	}
}

func (p *ronParser) parseVars() (Vars, error) {
	if err := p.expect("Vars("); err != nil {
		return Vars{}, err
	}
	var v Vars
	for {
		p.skipSpace()
		if p.tryConsume(")") {
			break
		}
		name := p.ident()
		if err := p.expect(":"); err != nil {
			return Vars{}, err
		}
		var err error
		switch name {
		case "major":
			v.Major, err = p.parseOptU64()
		case "minor":
			v.Minor, err = p.parseOptU64()
		case "patch":
			v.Patch, err = p.parseOptU64()
		case "epoch":
			v.Epoch, err = p.parseOptU64()
		case "post":
			v.Post, err = p.parseOptU64()
		case "dev":
			v.Dev, err = p.parseOptU64()
		case "pre_release":
			v.PreRelease, err = p.parseOptPreRelease()
		case "distance":
			v.Distance, err = p.parseOptU64()
		case "dirty":
			v.Dirty, err = p.parseOptBool()
		case "bumped_branch":
			v.BumpedBranch, err = p.parseOptStr()
		case "bumped_commit_hash":
			v.BumpedCommitHash, err = p.parseOptStr()
		case "bumped_timestamp":
			v.BumpedTimestamp, err = p.parseOptI64()
		case "last_branch":
			v.LastBranch, err = p.parseOptStr()
		case "last_commit_hash":
			v.LastCommitHash, err = p.parseOptStr()
		case "last_timestamp":
			v.LastTimestamp, err = p.parseOptI64()
		case "custom":
			v.Custom, err = p.parseCustomMap()
		default:
			return Vars{}, p.fail("unknown Vars field %q", name)
		}
		if err != nil {
			return Vars{}, err
		}
		p.tryConsume(",")
	}
	return v, nil
}

func (p *ronParser) parseOptU64() (*uint64, error) {
	if p.tryConsume("None") {
		return nil, nil
	}
	if err := p.expect("Some("); err != nil {
		return nil, err
	}
	n, err := p.parseUint()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return &n, nil
}

func (p *ronParser) parseOptI64() (*int64, error) {
	if p.tryConsume("None") {
		return nil, nil
	}
	if err := p.expect("Some("); err != nil {
		return nil, err
	}
	n, err := p.parseInt()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return &n, nil
}

func (p *ronParser) parseOptBool() (*bool, error) {
	if p.tryConsume("None") {
		return nil, nil
	}
	if err := p.expect("Some("); err != nil {
		return nil, err
	}
	p.skipSpace()
	var b bool
	if p.tryConsume("true") {
		b = true
	} else if p.tryConsume("false") {
		b = false
	} else {
		return nil, p.fail("expected true or false")
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return &b, nil
}

func (p *ronParser) parseOptStr() (*string, error) {
	if p.tryConsume("None") {
		return nil, nil
	}
	if err := p.expect("Some("); err != nil {
		return nil, err
	}
	s, err := p.parseString()
	if err != nil {
		return nil, err
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *ronParser) parseOptPreRelease() (*PreReleaseValue, error) {
	if p.tryConsume("None") {
		return nil, nil
	}
	if err := p.expect("Some(PreRelease("); err != nil {
		return nil, err
	}
	var pr PreReleaseValue
	for {
		p.skipSpace()
		if p.tryConsume(")") {
			break
		}
		name := p.ident()
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		switch name {
		case "label":
			id := p.ident()
			switch id {
			case "Alpha":
				pr.Label = Alpha
			case "Beta":
				pr.Label = Beta
			case "Rc":
				pr.Label = Rc
			default:
				return nil, p.fail("unknown PreRelease label %q", id)
			}
		case "number":
			n, err := p.parseOptU64()
			if err != nil {
				return nil, err
			}
			pr.Number = n
		default:
			return nil, p.fail("unknown PreRelease field %q", name)
		}
		p.tryConsume(",")
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return &pr, nil
}

func (p *ronParser) parseCustomMap() (map[string]any, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	out := map[string]any{}
	for {
		p.skipSpace()
		if p.tryConsume("}") {
			break
		}
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		val, err := p.parseJSONValue()
		if err != nil {
			return nil, err
		}
		out[key] = val
		p.tryConsume(",")
	}
	return out, nil
}

func (p *ronParser) parseJSONValue() (any, error) {
	p.skipSpace()
	switch {
	case p.peek() == '"':
		return p.parseString()
	case p.peek() == '{':
		return p.parseCustomMap()
	case p.peek() == '[':
		if err := p.expect("["); err != nil {
			return nil, err
		}
		var out []any
		for {
			p.skipSpace()
			if p.tryConsume("]") {
				break
			}
			v, err := p.parseJSONValue()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
			p.tryConsume(",")
		}
		return out, nil
	case strings.HasPrefix(p.src[p.pos:], "true"):
		p.pos += 4
		return true, nil
	case strings.HasPrefix(p.src[p.pos:], "false"):
		p.pos += 5
		return false, nil
	case strings.HasPrefix(p.src[p.pos:], "null"):
		p.pos += 4
		return nil, nil
	default:
		start := p.pos
		if p.peek() == '-' {
			p.pos++
		}
		for !p.atEnd() && (unicode.IsDigit(rune(p.peek())) || p.peek() == '.') {
			p.pos++
		}
		if p.pos == start {
			return nil, p.fail("expected a JSON value")
		}
		f, err := strconv.ParseFloat(p.src[start:p.pos], 64)
		if err != nil {
			return nil, p.fail("invalid number %q", p.src[start:p.pos])
		}
		return f, nil
	}
}

func (p *ronParser) parseUint() (uint64, error) {
	p.skipSpace()
	start := p.pos
	for !p.atEnd() && unicode.IsDigit(rune(p.peek())) {
		p.pos++
	}
	if p.pos == start {
		return 0, p.fail("expected an unsigned integer")
	}
	n, err := strconv.ParseUint(p.src[start:p.pos], 10, 64)
	if err != nil {
		return 0, p.fail("invalid integer %q", p.src[start:p.pos])
	}
	return n, nil
}

func (p *ronParser) parseInt() (int64, error) {
	p.skipSpace()
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for !p.atEnd() && unicode.IsDigit(rune(p.peek())) {
		p.pos++
	}
	if p.pos == start {
		return 0, p.fail("expected an integer")
	}
	n, err := strconv.ParseInt(p.src[start:p.pos], 10, 64)
	if err != nil {
		return 0, p.fail("invalid integer %q", p.src[start:p.pos])
	}
	return n, nil
}

func (p *ronParser) parseString() (string, error) {
	p.skipSpace()
	if p.peek() != '"' {
		return "", p.fail("expected a quoted string")
	}
	p.pos++
	var b strings.Builder
	for {
		if p.atEnd() {
			return "", p.fail("unterminated string")
		}
		c := p.src[p.pos]
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' && p.pos+1 < len(p.src) {
			p.pos++
			switch p.src[p.pos] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(p.src[p.pos])
			}
			p.pos++
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
}
