package zerv

import "github.com/zervdev/zerv/src/zerr"

// contextBuildSuffix is the set of context components the "_context"
// preset variants append to build: distance, dirty, and the
// short bumped commit hash, in that order.
func contextBuildSuffix() []Component {
	return []Component{
		VarComp(Distance),
		VarComp(Dirty),
		VarComp(BumpedCommitHashShort),
	}
}

func basePreset() Schema {
	return Schema{
		Core:  []Component{VarComp(Major), VarComp(Minor), VarComp(Patch)},
		Order: SemVerOrder,
	}
}

func basePrereleasePreset() Schema {
	s := basePreset()
	s.ExtraCore = []Component{VarComp(PreRelease)}
	return s
}

func basePrereleasePostPreset() Schema {
	s := basePrereleasePreset()
	s.ExtraCore = append(s.ExtraCore, VarComp(Post))
	return s
}

func basePrereleasePostDevPreset() Schema {
	s := basePrereleasePostPreset()
	s.ExtraCore = append(s.ExtraCore, VarComp(Dev))
	return s
}

// semverDefaultPreset: core = Major,Minor,Patch; extra_core/build empty.
func semverDefaultPreset() Schema {
	return basePreset()
}

// pep440DefaultPreset: adds extra_core = Epoch, PreRelease, Post, Dev.
func pep440DefaultPreset() Schema {
	s := basePreset()
	s.Order = PEP440Order
	s.ExtraCore = []Component{VarComp(Epoch), VarComp(PreRelease), VarComp(Post), VarComp(Dev)}
	return s
}

// presetBuilders maps every name the "Standard" family (and the
// SemVer/PEP440 defaults) exposes to a schema builder.
var presetBuilders = map[string]func() Schema{
	"semver": semverDefaultPreset,
	"pep440": pep440DefaultPreset,

	"standard/base":                     basePreset,
	"standard/base-prerelease":          basePrereleasePreset,
	"standard/base-prerelease-post":     basePrereleasePostPreset,
	"standard/base-prerelease-post-dev": basePrereleasePostDevPreset,

	"standard/base_context": func() Schema {
		s := basePreset()
		s.Build = contextBuildSuffix()
		return s
	},
	"standard/base-prerelease_context": func() Schema {
		s := basePrereleasePreset()
		s.Build = contextBuildSuffix()
		return s
	},
	"standard/base-prerelease-post_context": func() Schema {
		s := basePrereleasePostPreset()
		s.Build = contextBuildSuffix()
		return s
	},
	"standard/base-prerelease-post-dev_context": func() Schema {
		s := basePrereleasePostDevPreset()
		s.Build = contextBuildSuffix()
		return s
	},
}

// Preset resolves a named built-in schema, validating it before returning
// (presets are constructed in code, so a validation failure here is a bug,
// not user error, but we still run it through Validate for defense in
// depth and so every exit path of schema resolution is uniform).
func Preset(name string) (Schema, error) {
	build, ok := presetBuilders[name]
	if !ok {
		return Schema{}, zerr.New(zerr.UnknownSchema, "unknown schema preset %q", name).
			WithHint("known presets: semver, pep440, standard/base, standard/base-prerelease, standard/base-prerelease-post, standard/base-prerelease-post-dev (each with an optional _context suffix)")
	}
	s := build()
	if err := Validate(s); err != nil {
		return Schema{}, err
	}
	return s, nil
}

// DefaultStandardPreset is the schema resolution fallback when no
// schema is named, carried, or piped.
const DefaultStandardPreset = "standard/base-prerelease-post-dev_context"
