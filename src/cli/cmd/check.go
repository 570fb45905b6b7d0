package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zervdev/zerv/src/output"
	"github.com/zervdev/zerv/src/render"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a schema/override/bump combination without rendering",
	Long: `Runs the same schema-resolution, context-merge, and override/bump
steps as version/render but discards the result: useful in CI to catch
ConflictingSchemas/ConflictingOptions/InvalidBumpTarget before a real
release command runs. Exits 0 on a valid combination, 2 on a validation
error.`,
	RunE: runCheck,
}

func init() {
	registerSharedFlags(checkCmd, "stdin")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	bindFlagSet(cmd)
	applyConfigDefaults()
	start := time.Now()

	draft, err := resolveDraft()
	if err != nil {
		return err
	}
	opts, err := buildOptions()
	if err != nil {
		return err
	}

	if _, err := render.Run(draft, opts); err != nil {
		return err
	}
	if verbose {
		checkSummary(opts, time.Since(start))
	}
	fmt.Println("ok")
	return nil
}

// checkSummary reports the validated pipeline inputs on stderr, keeping
// stdout clean for the "ok" marker scripts grep for.
func checkSummary(opts render.Options, elapsed time.Duration) {
	schema := opts.Schema.Name
	switch {
	case opts.Schema.RON != "":
		schema = "(inline ron)"
	case schema == "":
		schema = "(default)"
	}
	sum := output.NewSummary(os.Stderr, "check", output.UseColor())
	sum.Input("source", flagSource)
	sum.Input("schema", schema)
	sum.Input("output", opts.OutputFormat)
	sum.Done(true, elapsed)
}
