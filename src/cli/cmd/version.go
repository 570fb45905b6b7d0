package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zervdev/zerv/src/output"
	"github.com/zervdev/zerv/src/render"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Synthesize a canonical version string from VCS state",
	Long: `Probes the repository at --directory (or reads a piped NV/SemVer/PEP440
string with --source stdin) for the nearest tag, distance, and worktree
identity, applies any overrides/bumps given on the command line, and
prints the result in the requested output format.`,
	RunE: runVersion,
}

func init() {
	registerSharedFlags(versionCmd, "git")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	bindFlagSet(cmd)
	applyConfigDefaults()

	draft, err := resolveDraft()
	if err != nil {
		return err
	}
	if verbose {
		contextBlock(draft)
	}
	opts, err := buildOptions()
	if err != nil {
		return err
	}

	out, err := render.Run(draft, opts)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// contextBlock prints the VCS-derived context on stderr before the
// version itself goes to stdout.
func contextBlock(draft render.Draft) {
	var pairs []output.Pair
	add := func(key, value string) {
		if value != "" {
			pairs = append(pairs, output.Pair{Key: key, Value: value})
		}
	}
	v := draft.Vars
	if v.BumpedBranch != nil {
		add("branch", *v.BumpedBranch)
	}
	add("commit", v.BumpedCommitHashShort())
	if v.Distance != nil {
		add("distance", fmt.Sprintf("%d", *v.Distance))
	}
	if v.Dirty != nil {
		add("dirty", fmt.Sprintf("%t", *v.Dirty))
	}
	output.SnapshotBlock(os.Stderr, pairs)
}
