package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zervdev/zerv/src/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a version from piped or literal input through a template",
	Long: `Like version, but defaults --source to stdin: render is the
template-first entry point for feeding an already-known NV/SemVer/PEP440
string through the override/bump resolver and an --output-template, without
touching VCS state unless --source git is given explicitly.`,
	RunE: runRender,
}

func init() {
	registerSharedFlags(renderCmd, "stdin")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	bindFlagSet(cmd)
	applyConfigDefaults()

	draft, err := resolveDraft()
	if err != nil {
		return err
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
