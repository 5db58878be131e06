package cmd

import (
	"github.com/spf13/cobra"

	"github.com/eminiarts/tweakpine/cli"
	"github.com/eminiarts/tweakpine/version"
)

// NewRootCmd assembles the tweakpine command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"tweakpine",
		"Live tweak panels for tunable values, with presets",
	)
	root.SilenceUsage = true
	root.SilenceErrors = true
	cli.SetVersionTemplate(root, version.GetInfo())

	root.AddCommand(NewTuiCmd())
	root.AddCommand(NewValuesCmd())
	root.AddCommand(NewPresetsCmd())
	root.AddCommand(NewSchemaCmd())
	root.AddCommand(NewConfigCmd())
	root.AddCommand(NewKeysCmd())
	root.AddCommand(cli.NewVersionCommand("tweakpine"))

	cli.ApplyStyledHelpRecursive(root)
	return root
}
