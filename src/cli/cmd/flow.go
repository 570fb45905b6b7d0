package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zervdev/zerv/src/flowpolicy"
	"github.com/zervdev/zerv/src/render"
	"github.com/zervdev/zerv/src/version/bump"
	"github.com/zervdev/zerv/src/zerr"
)

var flowBranch string

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Resolve a branch's GitFlow policy and render its version",
	Long: `Matches --branch (or the current HEAD branch, for --source git)
against the configured or built-in branch-rule presets (main, develop,
release/*, feature/*, hotfix/*), layers the matched rule's overrides and
bumps under anything given explicitly on the command line, and renders the
result exactly like version.`,
	RunE: runFlow,
}

func init() {
	registerSharedFlags(flowCmd, "git")
	flowCmd.Flags().StringVar(&flowBranch, "branch", "", "branch name to resolve (default: detected HEAD branch)")
	rootCmd.AddCommand(flowCmd)
}

func runFlow(cmd *cobra.Command, args []string) error {
	bindFlagSet(cmd)
	applyConfigDefaults()

	draft, err := resolveDraft()
	if err != nil {
		return err
	}

	branch := flowBranch
	if branch == "" && draft.Vars.BumpedBranch != nil {
		branch = *draft.Vars.BumpedBranch
	}
	if branch == "" {
		return zerr.New(zerr.InvalidArgument, "flow: no branch given via --branch and none detected from VCS")
	}

	policy, err := flowpolicy.Resolve(branch, cfg.Flow)
	if err != nil {
		return err
	}
	if policy.RuleName != "" {
		printer.Trace("branch %q matched rule %q", branch, policy.RuleName)
	} else {
		printer.Trace("branch %q matched no rule, using empty policy", branch)
	}

	cliOv, err := buildOverrides()
	if err != nil {
		return err
	}
	cliBp, err := buildBumps()
	if err != nil {
		return err
	}
	cliCtx, err := buildContextOverrides()
	if err != nil {
		return err
	}
	toggle, err := buildContextToggle()
	if err != nil {
		return err
	}

	opts := render.Options{
		Schema:         render.SchemaChoice{RON: flagSchemaRON, Name: flagSchemaName},
		Overrides:      mergeOverrides(cliOv, policy.Overrides()),
		Bumps:          mergeBumps(cliBp, policy.Bumps()),
		Context:        mergeContextOverrides(cliCtx, policy.ContextOverrides()),
		Toggle:         toggle,
		OutputFormat:   flagOutputFormat,
		OutputTemplate: flagOutputTemplate,
		OutputPrefix:   flagOutputPrefix,
	}

	out, err := render.Run(draft, opts)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// mergeOverrides layers a branch policy's overrides under whatever the
// CLI set explicitly: CLI wins per field.
func mergeOverrides(cli, policy bump.Overrides) bump.Overrides {
	out := cli
	if out.PreReleaseLabel == nil {
		out.PreReleaseLabel = policy.PreReleaseLabel
	}
	return out
}

// mergeBumps combines a branch policy's bumps with the CLI's: deltas on
// the same field add, PreReleaseLabel bumps prefer the CLI's choice.
func mergeBumps(cli, policy bump.Bumps) bump.Bumps {
	out := cli
	out.Dev = addDelta(cli.Dev, policy.Dev)
	out.Post = addDelta(cli.Post, policy.Post)
	if out.PreReleaseLabel == nil {
		out.PreReleaseLabel = policy.PreReleaseLabel
	}
	return out
}

func addDelta(a, b *uint64) *uint64 {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return b
	case b == nil:
		return a
	default:
		sum := *a + *b
		return &sum
	}
}

// mergeContextOverrides layers a branch policy's distance-reset macro
// under the CLI's explicit context flags.
func mergeContextOverrides(cli, policy bump.ContextOverrides) bump.ContextOverrides {
	out := cli
	if !out.DistanceGiven && policy.DistanceGiven {
		out.DistanceGiven = true
		out.Distance = policy.Distance
	}
	return out
}
