// Package cmd wires zerv's four sub-commands (version, render, flow,
// check) onto cobra.Command: a package-level rootCmd, one file per
// sub-command, an init() that calls
// rootCmd.AddCommand, and an exported Execute() main.go calls and
// translates into a process exit code.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zervdev/zerv/src/config"
	"github.com/zervdev/zerv/src/output"
	buildinfo "github.com/zervdev/zerv/src/version"
	"github.com/zervdev/zerv/src/zerr"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
	printer *output.Printer
)

var rootCmd = &cobra.Command{
	Use:   "zerv",
	Short: "Dynamic versioning engine",
	Long:  "zerv — synthesizes a canonical version string from VCS tags, distance, branch identity, and workflow policy.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		printer = output.NewPrinter(verbose)
		var warnings []string
		var err error
		cfg, warnings, err = config.LoadWithWarnings(cfgFile)
		if err != nil {
			return zerr.Wrap(zerr.InvalidArgument, err, "loading config")
		}
		for _, w := range warnings {
			printer.Warn("%s", w)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = buildinfo.String()
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .zerv.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// Execute runs the root command and returns the process exit code:
// 0 success, 2 argument/validation error, 1 runtime error.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return zerr.ExitCode(err)
	}
	return 0
}
