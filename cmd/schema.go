package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eminiarts/tweakpine/cli"
	"github.com/eminiarts/tweakpine/logging"
	"github.com/eminiarts/tweakpine/schema"
)

// NewSchemaCmd groups schema file tooling.
func NewSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Check and inspect panel schema files",
	}
	cmd.AddCommand(newSchemaValidateCmd())
	cmd.AddCommand(newSchemaTreeCmd())
	return cmd
}

func loadSchema(path string) ([]schema.ControlMeta, error) {
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, err
	}
	cfg, err := validator.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return schema.Resolve(cfg)
}

func newSchemaValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <schema.yml>...",
		Short: "Validate schema files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed int
			report := logging.NewReporter(cmd.OutOrStdout())
			for _, path := range args {
				controls, err := loadSchema(path)
				if err != nil {
					failed++
					report.Failure(path, err)
					continue
				}
				report.Success("%s: %d controls", path, len(schema.Flatten(controls)))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d schema files are invalid", failed, len(args))
			}
			return nil
		},
	}
}

type controlSummary struct {
	Path     string           `json:"path"`
	Kind     schema.Kind      `json:"kind"`
	Label    string           `json:"label"`
	Children []controlSummary `json:"children,omitempty"`
}

func summarize(controls []schema.ControlMeta) []controlSummary {
	out := make([]controlSummary, len(controls))
	for i, c := range controls {
		out[i] = controlSummary{Path: c.Path, Kind: c.Kind, Label: c.Label, Children: summarize(c.Children)}
	}
	return out
}

func newSchemaTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <schema.yml>",
		Short: "Print the resolved control tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			controls, err := loadSchema(args[0])
			if err != nil {
				return err
			}
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), summarize(controls))
			}
			var walk func([]schema.ControlMeta, int)
			walk = func(cs []schema.ControlMeta, depth int) {
				for _, c := range cs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s%s (%s) %s\n", strings.Repeat("  ", depth), c.Label, c.Kind, c.Path)
					walk(c.Children, depth+1)
				}
			}
			walk(controls, 0)
			return nil
		},
	}
}
