package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zervdev/zerv/src/config"
	"github.com/zervdev/zerv/src/render"
	"github.com/zervdev/zerv/src/vcs"
	"github.com/zervdev/zerv/src/version/bump"
	"github.com/zervdev/zerv/src/version/zerv"
	"github.com/zervdev/zerv/src/zerr"
)

// sharedFlags holds every flag shared across the
// version/render/flow/check sub-commands. Each sub-command registers them
// via registerSharedFlags in its own init(), then reads these package-level
// vars (and sharedFlagSet, for Changed-tracking) once cobra has parsed.
var (
	flagSource    string
	flagInputFmt  string
	flagTagVer    string
	flagDirectory string

	flagSchemaName string
	flagSchemaRON  string

	flagMajor, flagMinor, flagPatch uint64
	flagEpoch, flagPost, flagDev    uint64
	flagPreReleaseLabel             string
	flagPreReleaseNum               uint64

	flagDistance                      uint64
	flagDirty, flagNoDirty, flagClean bool
	flagBumpedBranch                  string
	flagBumpedCommitHash              string
	flagBumpedTimestamp               int64

	flagCoreOv, flagExtraCoreOv, flagBuildOv []string

	flagBumpMajor, flagBumpMinor, flagBumpPatch    string
	flagBumpEpoch, flagBumpPost, flagBumpDev       string
	flagBumpPreReleaseNum                          string
	flagBumpPreReleaseLabel                        string
	flagBumpCore, flagBumpExtraCore, flagBumpBuild []string

	flagBumpContext   bool
	flagNoBumpContext bool

	flagOutputFormat   string
	flagOutputTemplate string
	flagOutputPrefix   string
	flagCustomJSON     string

	sharedFlagSet *pflag.FlagSet
)

// registerSharedFlags wires the shared flag surface onto cmd.
// Sub-commands call this in their init() alongside any flags unique to
// them (e.g. flow's --branch).
func registerSharedFlags(cmd *cobra.Command, defaultSource string) {
	f := cmd.Flags()
	defaultSources[cmd.Name()] = defaultSource

	f.StringVar(&flagSource, "source", defaultSource, fmt.Sprintf("version source: git, stdin (default %q for this command)", defaultSource))
	f.StringVar(&flagInputFmt, "input-format", "auto", "input format: auto, semver, pep440, zerv")
	f.StringVar(&flagTagVer, "tag-version", "", "literal tag/version string to parse instead of probing VCS")
	f.StringVar(&flagDirectory, "directory", ".", "repository directory for --source git")

	f.StringVar(&flagSchemaName, "schema", "", "named schema or preset")
	f.StringVar(&flagSchemaRON, "schema-ron", "", "inline Schema(...) RON text")

	f.Uint64Var(&flagMajor, "major", 0, "override major")
	f.Uint64Var(&flagMinor, "minor", 0, "override minor")
	f.Uint64Var(&flagPatch, "patch", 0, "override patch")
	f.Uint64Var(&flagEpoch, "epoch", 0, "override epoch")
	f.Uint64Var(&flagPost, "post", 0, "override post")
	f.Uint64Var(&flagDev, "dev", 0, "override dev")
	f.StringVar(&flagPreReleaseLabel, "pre-release-label", "", "override pre-release label: alpha, beta, rc")
	f.Uint64Var(&flagPreReleaseNum, "pre-release-num", 0, "override pre-release number")

	f.Uint64Var(&flagDistance, "distance", 0, "override commit distance")
	f.BoolVar(&flagDirty, "dirty", false, "mark the worktree dirty")
	f.BoolVar(&flagNoDirty, "no-dirty", false, "mark the worktree clean")
	f.BoolVar(&flagClean, "clean", false, "shorthand for --no-dirty --distance 0")
	f.StringVar(&flagBumpedBranch, "bumped-branch", "", "override the bumped/HEAD branch name")
	f.StringVar(&flagBumpedCommitHash, "bumped-commit-hash", "", "override the bumped/HEAD commit hash")
	f.Int64Var(&flagBumpedTimestamp, "bumped-timestamp", 0, "override the bumped/HEAD commit timestamp")

	f.StringSliceVar(&flagCoreOv, "core", nil, "schema-section override: index[=value] (repeatable)")
	f.StringSliceVar(&flagExtraCoreOv, "extra-core", nil, "schema-section override: index[=value] (repeatable)")
	f.StringSliceVar(&flagBuildOv, "build", nil, "schema-section override: index[=value] (repeatable)")

	f.StringVar(&flagBumpMajor, "bump-major", "", "bump major by an optional delta (default 1)")
	f.StringVar(&flagBumpMinor, "bump-minor", "", "bump minor by an optional delta (default 1)")
	f.StringVar(&flagBumpPatch, "bump-patch", "", "bump patch by an optional delta (default 1)")
	f.StringVar(&flagBumpEpoch, "bump-epoch", "", "bump epoch by an optional delta (default 1)")
	f.StringVar(&flagBumpPost, "bump-post", "", "bump post by an optional delta (default 1)")
	f.StringVar(&flagBumpDev, "bump-dev", "", "bump dev by an optional delta (default 1)")
	f.StringVar(&flagBumpPreReleaseNum, "bump-pre-release-num", "", "bump pre-release number by an optional delta (default 1)")
	f.StringVar(&flagBumpPreReleaseLabel, "bump-pre-release-label", "", "bump to a new pre-release label: alpha, beta, rc")
	// The named bump flags take an optional delta: `--bump-minor` alone
	// means delta 1, `--bump-minor=2` means delta 2. pflag needs
	// NoOptDefVal for the value to be optional, and with it set a delta
	// is only taken from the `=` form.
	for _, name := range []string{
		"bump-major", "bump-minor", "bump-patch",
		"bump-epoch", "bump-post", "bump-dev", "bump-pre-release-num",
	} {
		f.Lookup(name).NoOptDefVal = "1"
	}

	f.StringSliceVar(&flagBumpCore, "bump-core", nil, "schema-section bump: index[=delta] (repeatable)")
	f.StringSliceVar(&flagBumpExtraCore, "bump-extra-core", nil, "schema-section bump: index[=delta] (repeatable)")
	f.StringSliceVar(&flagBumpBuild, "bump-build", nil, "schema-section bump: index[=delta] (repeatable)")

	f.BoolVar(&flagBumpContext, "bump-context", false, "keep VCS context after a bump (default)")
	f.BoolVar(&flagNoBumpContext, "no-bump-context", false, "clear VCS context (distance/dirty) after a bump")

	f.StringVar(&flagOutputFormat, "output-format", "semver", "output format: semver, pep440, zerv")
	f.StringVar(&flagOutputTemplate, "output-template", "", "output template text")
	f.StringVar(&flagOutputPrefix, "output-prefix", "", "literal prefix for the output string")
	f.StringVar(&flagCustomJSON, "custom", "", "JSON object merged into the custom context map")
}

// defaultSources remembers each sub-command's own --source default,
// since all four share the one flagSource package var: whichever
// command's init() registered last would otherwise clobber the others'
// defaults. bindFlagSet restores the invoked command's default before
// RunE reads flagSource, unless the user passed --source explicitly.
var defaultSources = map[string]string{}

// bindFlagSet points the package-level flag readers at cmd's own
// FlagSet. Every sub-command's RunE calls this first: registerSharedFlags
// runs once per command at init() time, but RunE only fires for whichever
// command the user actually invoked, so binding here (rather than in
// registerSharedFlags) keeps changed() pointed at the right set.
func bindFlagSet(cmd *cobra.Command) {
	sharedFlagSet = cmd.Flags()
	if !changed("source") {
		if def, ok := defaultSources[cmd.Name()]; ok {
			flagSource = def
		}
	}
}

func changed(name string) bool {
	if sharedFlagSet == nil {
		return false
	}
	return sharedFlagSet.Changed(name)
}

// parseSectionSpecs parses the repeatable `index[=value]` flag form used
// for schema-section overrides/bumps.
func parseSectionSpecs(raw []string) ([]bump.SectionSpec, error) {
	out := make([]bump.SectionSpec, 0, len(raw))
	for _, s := range raw {
		eq := strings.IndexByte(s, '=')
		var idxStr, val string
		hasValue := false
		if eq >= 0 {
			idxStr, val, hasValue = s[:eq], s[eq+1:], true
		} else {
			idxStr = s
		}
		idx, err := strconv.Atoi(strings.TrimSpace(idxStr))
		if err != nil {
			return nil, zerr.New(zerr.InvalidArgument, "invalid schema-section index %q", s)
		}
		out = append(out, bump.SectionSpec{Index: idx, HasValue: hasValue, Value: val})
	}
	return out, nil
}

// buildOverrides collects the per-field + schema-section override flags
// into a bump.Overrides.
func buildOverrides() (bump.Overrides, error) {
	var ov bump.Overrides
	if changed("major") {
		ov.Major = u64ptr(flagMajor)
	}
	if changed("minor") {
		ov.Minor = u64ptr(flagMinor)
	}
	if changed("patch") {
		ov.Patch = u64ptr(flagPatch)
	}
	if changed("epoch") {
		ov.Epoch = u64ptr(flagEpoch)
	}
	if changed("post") {
		ov.Post = u64ptr(flagPost)
	}
	if changed("dev") {
		ov.Dev = u64ptr(flagDev)
	}
	if flagPreReleaseLabel != "" {
		label, ok := zerv.ParsePreReleaseLabel(flagPreReleaseLabel)
		if !ok {
			return bump.Overrides{}, zerr.New(zerr.InvalidArgument, "unknown --pre-release-label %q", flagPreReleaseLabel)
		}
		ov.PreReleaseLabel = &label
	}
	if changed("pre-release-num") {
		ov.PreReleaseNum = u64ptr(flagPreReleaseNum)
	}

	var err error
	if ov.Core, err = parseSectionSpecs(flagCoreOv); err != nil {
		return bump.Overrides{}, err
	}
	if ov.ExtraCore, err = parseSectionSpecs(flagExtraCoreOv); err != nil {
		return bump.Overrides{}, err
	}
	if ov.Build, err = parseSectionSpecs(flagBuildOv); err != nil {
		return bump.Overrides{}, err
	}
	return ov, nil
}

// parseBumpDelta parses one of the optional-integer bump flags: a flag
// never passed on the command line yields nil (not bumped); passed with
// no value defaults to delta 1; passed with a numeric value uses it.
func parseBumpDelta(name string, raw string) (*uint64, error) {
	if !changed(name) {
		return nil, nil
	}
	if raw == "" {
		return u64ptr(1), nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, zerr.New(zerr.InvalidArgument, "--%s: %q is not a non-negative integer", name, raw)
	}
	return u64ptr(n), nil
}

// buildBumps collects the bump flags into a bump.Bumps.
func buildBumps() (bump.Bumps, error) {
	var bp bump.Bumps
	var err error
	if bp.Major, err = parseBumpDelta("bump-major", flagBumpMajor); err != nil {
		return bump.Bumps{}, err
	}
	if bp.Minor, err = parseBumpDelta("bump-minor", flagBumpMinor); err != nil {
		return bump.Bumps{}, err
	}
	if bp.Patch, err = parseBumpDelta("bump-patch", flagBumpPatch); err != nil {
		return bump.Bumps{}, err
	}
	if bp.Epoch, err = parseBumpDelta("bump-epoch", flagBumpEpoch); err != nil {
		return bump.Bumps{}, err
	}
	if bp.Post, err = parseBumpDelta("bump-post", flagBumpPost); err != nil {
		return bump.Bumps{}, err
	}
	if bp.Dev, err = parseBumpDelta("bump-dev", flagBumpDev); err != nil {
		return bump.Bumps{}, err
	}
	if bp.PreReleaseNum, err = parseBumpDelta("bump-pre-release-num", flagBumpPreReleaseNum); err != nil {
		return bump.Bumps{}, err
	}
	if flagBumpPreReleaseLabel != "" {
		label, ok := zerv.ParsePreReleaseLabel(flagBumpPreReleaseLabel)
		if !ok {
			return bump.Bumps{}, zerr.New(zerr.InvalidArgument, "unknown --bump-pre-release-label %q", flagBumpPreReleaseLabel)
		}
		bp.PreReleaseLabel = &label
	}

	if bp.Core, err = parseSectionSpecs(flagBumpCore); err != nil {
		return bump.Bumps{}, err
	}
	if bp.ExtraCore, err = parseSectionSpecs(flagBumpExtraCore); err != nil {
		return bump.Bumps{}, err
	}
	if bp.Build, err = parseSectionSpecs(flagBumpBuild); err != nil {
		return bump.Bumps{}, err
	}
	return bp, nil
}

// buildContextToggle enforces the bump-context flags' mutual exclusivity.
func buildContextToggle() (bump.ContextToggle, error) {
	if flagBumpContext && flagNoBumpContext {
		return 0, zerr.New(zerr.ConflictingOpts, "--bump-context and --no-bump-context are mutually exclusive")
	}
	if flagNoBumpContext {
		return bump.NoBumpContext, nil
	}
	return bump.BumpContext, nil
}

// buildContextOverrides collects the VCS-override and --custom flags into
// a bump.ContextOverrides for the context merger.
func buildContextOverrides() (bump.ContextOverrides, error) {
	ov := bump.ContextOverrides{
		DirtyFlag:   flagDirty,
		NoDirtyFlag: flagNoDirty,
		CleanFlag:   flagClean,
	}
	if changed("distance") {
		ov.DistanceGiven = true
		ov.Distance = flagDistance
	}
	if flagBumpedBranch != "" {
		ov.BumpedBranch = &flagBumpedBranch
	}
	if flagBumpedCommitHash != "" {
		ov.BumpedCommitHash = &flagBumpedCommitHash
	}
	if changed("bumped-timestamp") {
		ov.BumpedTimestamp = &flagBumpedTimestamp
	}
	if flagCustomJSON != "" {
		var custom map[string]any
		if err := json.Unmarshal([]byte(flagCustomJSON), &custom); err != nil {
			return bump.ContextOverrides{}, zerr.Wrap(zerr.InvalidArgument, err, "parsing --custom JSON")
		}
		ov.Custom = custom
	}
	return ov, nil
}

// resolveDraft implements the `--source`/`--tag-version`
// dispatch: a literal --tag-version always wins, `stdin` reads and
// parses piped text, `git` probes the repository at --directory.
func resolveDraft() (render.Draft, error) {
	if flagTagVer != "" {
		return render.ParseInput(flagTagVer, flagInputFmt)
	}

	switch flagSource {
	case "stdin":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return render.Draft{}, zerr.Wrap(zerr.StdinError, err, "reading stdin")
		}
		return render.ParseInput(string(data), flagInputFmt)
	case "git":
		snap, err := vcs.Probe(flagDirectory)
		if err != nil {
			if zerr.Is(err, zerr.NoTagsFound) {
				if draft, ok := draftFromManifest(flagDirectory); ok {
					printer.Trace("no tags found, starting draft from manifest [zerv] table")
					return draft, nil
				}
			}
			return render.Draft{}, err
		}
		printer.Trace("nearest tag %s (%s) at distance %d", snap.TagRaw, snap.Format, *snap.NV.Vars.Distance)
		return render.Draft{Vars: snap.NV.Vars, Schema: &snap.NV.Schema}, nil
	default:
		return render.Draft{}, zerr.New(zerr.UnknownSource, "unknown --source %q", flagSource)
	}
}

// buildOptions assembles a render.Options from every shared flag.
func buildOptions() (render.Options, error) {
	ov, err := buildOverrides()
	if err != nil {
		return render.Options{}, err
	}
	bp, err := buildBumps()
	if err != nil {
		return render.Options{}, err
	}
	toggle, err := buildContextToggle()
	if err != nil {
		return render.Options{}, err
	}
	ctxOv, err := buildContextOverrides()
	if err != nil {
		return render.Options{}, err
	}

	return render.Options{
		Schema:         render.SchemaChoice{RON: flagSchemaRON, Name: flagSchemaName},
		Overrides:      ov,
		Bumps:          bp,
		Context:        ctxOv,
		Toggle:         toggle,
		OutputFormat:   flagOutputFormat,
		OutputTemplate: flagOutputTemplate,
		OutputPrefix:   flagOutputPrefix,
	}, nil
}

func u64ptr(v uint64) *uint64 { return &v }

// applyConfigDefaults layers .zerv.yml defaults under any flag the user
// didn't set explicitly (the schema fallback, generalized to
// output format/template).
func applyConfigDefaults() {
	if cfg != nil {
		if flagSchemaName == "" && flagSchemaRON == "" && cfg.Schema != "" {
			flagSchemaName = cfg.Schema
		}
		if !changed("output-format") && cfg.OutputFormat != "" {
			flagOutputFormat = cfg.OutputFormat
		}
		if !changed("output-template") && cfg.OutputTemplate != "" {
			flagOutputTemplate = cfg.OutputTemplate
		}
	}

	// A project's own pyproject.toml/Cargo.toml/zerv.toml [zerv] table is
	// a last-resort default schema, below .zerv.yml and far below an
	// explicit --schema/--schema-ron.
	if flagSchemaName == "" && flagSchemaRON == "" {
		if md, err := config.LoadManifestDefaults(flagDirectory); err == nil && md != nil && md.Schema != "" {
			flagSchemaName = md.Schema
		}
	}
}

// draftFromManifest builds a render.Draft from a project manifest's [zerv]
// table when VCS probing found no tags to anchor a draft on: the manifest's
// major/minor/patch become the starting core, with no distance/dirty/branch
// context attached. Schema resolution falls through to applyConfigDefaults
// and ultimately render.ResolveSchema's preset fallback.
func draftFromManifest(dir string) (render.Draft, bool) {
	md, err := config.LoadManifestDefaults(dir)
	if err != nil || md == nil {
		return render.Draft{}, false
	}
	vars := zerv.Vars{
		Major: md.Major,
		Minor: md.Minor,
		Patch: md.Patch,
	}
	return render.Draft{Vars: vars}, true
}
