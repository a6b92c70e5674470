package cmd

import (
	"github.com/bmeg/inventory/cmd/build"
	"github.com/bmeg/inventory/cmd/summary"
	"github.com/bmeg/inventory/cmd/upload"

	"github.com/spf13/cobra"
)

// RootCmd represents the root command
var RootCmd = &cobra.Command{
	Use:           "inventory",
	Short:         "Inventory a directory tree into a checksummed CSV manifest",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	RootCmd.AddCommand(build.Cmd)
	RootCmd.AddCommand(summary.Cmd)
	RootCmd.AddCommand(upload.Cmd)
	RootCmd.AddCommand(genBashCompletionCmd)
}

var genBashCompletionCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate bash completions file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RootCmd.GenBashCompletion(cmd.OutOrStdout())
	},
}
