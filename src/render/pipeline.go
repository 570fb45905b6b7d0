package render

import (
	"strings"

	"github.com/zervdev/zerv/src/version/bump"
	"github.com/zervdev/zerv/src/version/codec"
	"github.com/zervdev/zerv/src/version/pep440"
	"github.com/zervdev/zerv/src/version/semver"
	"github.com/zervdev/zerv/src/version/zerv"
	"github.com/zervdev/zerv/src/zerr"
)

// Draft is an InputSource's yield: a Vars value and, optionally, the
// schema it arrived with.
type Draft struct {
	Vars   zerv.Vars
	Schema *zerv.Schema
}

// SchemaChoice is the schema-resolution input: at most one of
// RON/Name should be set; both set is a ConflictingSchemas error.
type SchemaChoice struct {
	RON  string
	Name string
}

// Options bundles every input to a single render pipeline run: schema
// resolution, the override/bump resolver's inputs, and output selection.
type Options struct {
	Schema SchemaChoice

	Overrides bump.Overrides
	Bumps     bump.Bumps
	Context   bump.ContextOverrides
	Toggle    bump.ContextToggle

	OutputFormat   string // "semver" | "pep440" | "zerv"
	OutputTemplate string
	OutputPrefix   string
}

// ResolveSchema implements the schema-resolution precedence: --schema-ron text >
// --schema name > the schema carried by the piped draft > the Standard
// preset.
func ResolveSchema(choice SchemaChoice, draftSchema *zerv.Schema) (zerv.Schema, error) {
	if choice.RON != "" && choice.Name != "" {
		return zerv.Schema{}, zerr.New(zerr.ConflictingSchema, "--schema-ron and --schema are mutually exclusive")
	}
	if choice.RON != "" {
		return zerv.ParseSchema(choice.RON)
	}
	if choice.Name != "" {
		s, err := zerv.Preset(choice.Name)
		if err != nil {
			return zerv.Schema{}, zerr.Wrap(zerr.UnknownSchema, err, "unknown schema %q", choice.Name)
		}
		return s, nil
	}
	if draftSchema != nil {
		return *draftSchema, nil
	}
	return zerv.Preset(zerv.DefaultStandardPreset)
}

// Run executes the full pipeline: context merge, schema
// resolution, override/bump, normalize, and output formatting/templating.
func Run(draft Draft, opts Options) (string, error) {
	if opts.OutputTemplate != "" {
		if opts.OutputFormat != "" && opts.OutputFormat != "semver" {
			return "", zerr.New(zerr.ConflictingOpts, "--output-template is mutually exclusive with --output-format != semver")
		}
		if opts.OutputPrefix != "" {
			return "", zerr.New(zerr.ConflictingOpts, "--output-template is mutually exclusive with --output-prefix")
		}
	}

	mergedVars, err := bump.MergeContext(draft.Vars, opts.Context)
	if err != nil {
		return "", err
	}

	schema, err := ResolveSchema(opts.Schema, draft.Schema)
	if err != nil {
		return "", err
	}

	resolvedVars, err := bump.Resolve(schema, mergedVars, opts.Overrides, opts.Bumps, opts.Toggle)
	if err != nil {
		return "", err
	}

	resolvedVars = zerv.Normalize(resolvedVars)
	nv := zerv.NV{Schema: schema, Vars: resolvedVars}

	out, err := Format(nv, opts.OutputFormat, opts.OutputTemplate)
	if err != nil {
		return "", err
	}
	if opts.OutputTemplate == "" {
		out = opts.OutputPrefix + out
	}
	return out, nil
}

// Format routes nv through a wire codec, the
// canonical NV-RON text, or a template.
func Format(nv zerv.NV, format string, tmpl string) (string, error) {
	if tmpl != "" {
		return RenderTemplate(nv, tmpl)
	}
	switch format {
	case "", "semver":
		return semver.FromNV(nv).String(), nil
	case "pep440":
		return pep440.FromNV(nv).String(), nil
	case "zerv":
		return zerv.Print(nv), nil
	default:
		return "", zerr.New(zerr.UnknownFormat, "unknown output format %q", format)
	}
}

// ParseInput parses raw text under the given input format (auto-detection
// when format is "auto" or empty), or as NV-RON when
// format is "zerv".
func ParseInput(text string, format string) (Draft, error) {
	text = strings.TrimSpace(text)
	switch format {
	case "zerv":
		nv, err := zerv.Parse(text)
		if err != nil {
			return Draft{}, err
		}
		return Draft{Vars: nv.Vars, Schema: &nv.Schema}, nil
	case "semver":
		v, err := semver.Parse(text)
		if err != nil {
			return Draft{}, err
		}
		nv := semver.ToNV(v)
		return Draft{Vars: nv.Vars, Schema: &nv.Schema}, nil
	case "pep440":
		v, err := pep440.Parse(text)
		if err != nil {
			return Draft{}, err
		}
		nv := pep440.ToNV(v)
		return Draft{Vars: nv.Vars, Schema: &nv.Schema}, nil
	case "", "auto":
		d, err := codec.Detect(text)
		if err != nil {
			return Draft{}, err
		}
		return Draft{Vars: d.NV.Vars, Schema: &d.NV.Schema}, nil
	default:
		return Draft{}, zerr.New(zerr.UnknownFormat, "unknown input format %q", format)
	}
}
