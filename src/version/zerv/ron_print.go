package zerv

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Print renders z as the canonical NV text: a single
// Zerv(schema: Schema(...), vars: Vars(...)) tuple. Parsing Print's output
// back with Parse yields an equal NV (modulo whitespace).
func Print(z NV) string {
	var b strings.Builder
	b.WriteString("Zerv(\n")
	b.WriteString("  schema: ")
	b.WriteString(printSchema(z.Schema))
	b.WriteString(",\n  vars: ")
	b.WriteString(printVars(z.Vars))
	b.WriteString(",\n)")
	return b.String()
}

func printSchema(s Schema) string {
	var b strings.Builder
	b.WriteString("Schema(\n")
	fmt.Fprintf(&b, "    core: %s,\n", printComponentList(s.Core))
	fmt.Fprintf(&b, "    extra_core: %s,\n", printComponentList(s.ExtraCore))
	fmt.Fprintf(&b, "    build: %s,\n", printComponentList(s.Build))
	fmt.Fprintf(&b, "    precedence_order: %s,\n", printOrder(s.Order))
	b.WriteString("  )")
	return b.String()
}

func printOrder(o PrecedenceOrder) string {
	if o == PEP440Order {
		return "Pep440"
	}
	return "SemVer"
}

func printComponentList(comps []Component) string {
	if len(comps) == 0 {
		return "[]"
	}
	parts := make([]string, len(comps))
	for i, c := range comps {
		parts[i] = printComponent(c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func printComponent(c Component) string {
	switch c.Kind {
	case CompLiteralUint:
		return fmt.Sprintf("Literal(%d)", c.LiteralUint)
	case CompLiteralStr:
		return fmt.Sprintf("Literal(%s)", quote(c.LiteralStr))
	case CompVariable:
		return fmt.Sprintf("Variable(%s)", printVar(c.Var))
	default:
		return "Literal(0)"
	}
}

func printVar(v Var) string {
	switch v.Kind {
	case Timestamp:
		return fmt.Sprintf("Timestamp(%s)", quote(v.Pattern))
	case Custom:
		return fmt.Sprintf("Custom(%s)", quote(v.Key))
	default:
		return varKindName(v.Kind)
	}
}

func varKindName(k VarKind) string {
	switch k {
	case Major:
		return "Major"
	case Minor:
		return "Minor"
	case Patch:
		return "Patch"
	case Epoch:
		return "Epoch"
	case PreRelease:
		return "PreRelease"
	case Post:
		return "Post"
	case Dev:
		return "Dev"
	case Distance:
		return "Distance"
	case Dirty:
		return "Dirty"
	case BumpedBranch:
		return "BumpedBranch"
	case BumpedCommitHash:
		return "BumpedCommitHash"
	case BumpedCommitHashShort:
		return "BumpedCommitHashShort"
	case BumpedTimestamp:
		return "BumpedTimestamp"
	case LastBranch:
		return "LastBranch"
	case LastCommitHash:
		return "LastCommitHash"
	case LastTimestamp:
		return "LastTimestamp"
	default:
		return "Unknown"
	}
}

func printVars(v Vars) string {
	var b strings.Builder
	b.WriteString("Vars(\n")
	fmt.Fprintf(&b, "    major: %s,\n", printOptU64(v.Major))
	fmt.Fprintf(&b, "    minor: %s,\n", printOptU64(v.Minor))
	fmt.Fprintf(&b, "    patch: %s,\n", printOptU64(v.Patch))
	fmt.Fprintf(&b, "    epoch: %s,\n", printOptU64(v.Epoch))
	fmt.Fprintf(&b, "    post: %s,\n", printOptU64(v.Post))
	fmt.Fprintf(&b, "    dev: %s,\n", printOptU64(v.Dev))
	fmt.Fprintf(&b, "    pre_release: %s,\n", printOptPreRelease(v.PreRelease))
	fmt.Fprintf(&b, "    distance: %s,\n", printOptU64(v.Distance))
	fmt.Fprintf(&b, "    dirty: %s,\n", printOptBool(v.Dirty))
	fmt.Fprintf(&b, "    bumped_branch: %s,\n", printOptStr(v.BumpedBranch))
	fmt.Fprintf(&b, "    bumped_commit_hash: %s,\n", printOptStr(v.BumpedCommitHash))
	fmt.Fprintf(&b, "    bumped_timestamp: %s,\n", printOptI64(v.BumpedTimestamp))
	fmt.Fprintf(&b, "    last_branch: %s,\n", printOptStr(v.LastBranch))
	fmt.Fprintf(&b, "    last_commit_hash: %s,\n", printOptStr(v.LastCommitHash))
	fmt.Fprintf(&b, "    last_timestamp: %s,\n", printOptI64(v.LastTimestamp))
	fmt.Fprintf(&b, "    custom: %s,\n", printCustom(v.Custom))
	b.WriteString("  )")
	return b.String()
}

func printOptU64(p *uint64) string {
	if p == nil {
		return "None"
	}
	return fmt.Sprintf("Some(%d)", *p)
}

func printOptI64(p *int64) string {
	if p == nil {
		return "None"
	}
	return fmt.Sprintf("Some(%d)", *p)
}

func printOptBool(p *bool) string {
	if p == nil {
		return "None"
	}
	return fmt.Sprintf("Some(%t)", *p)
}

func printOptStr(p *string) string {
	if p == nil {
		return "None"
	}
	return fmt.Sprintf("Some(%s)", quote(*p))
}

func printOptPreRelease(p *PreReleaseValue) string {
	if p == nil {
		return "None"
	}
	number := "None"
	if p.Number != nil {
		number = fmt.Sprintf("Some(%d)", *p.Number)
	}
	return fmt.Sprintf("Some(PreRelease(label: %s, number: %s))", preReleaseLabelName(p.Label), number)
}

func preReleaseLabelName(l PreReleaseLabel) string {
	switch l {
	case Alpha:
		return "Alpha"
	case Beta:
		return "Beta"
	case Rc:
		return "Rc"
	default:
		return "Alpha"
	}
}

func printCustom(m map[string]any) string {
	if len(m) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", quote(k), printJSONValue(m[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func printJSONValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(val)
	case string:
		return quote(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case map[string]any:
		return printCustom(val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = printJSONValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return quote(fmt.Sprintf("%v", val))
	}
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
