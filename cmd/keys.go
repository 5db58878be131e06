package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eminiarts/tweakpine/cli"
	"github.com/eminiarts/tweakpine/tui/keymap"
)

type bindingInfo struct {
	Section     string   `json:"section"`
	Keys        []string `json:"keys"`
	Description string   `json:"description"`
}

// NewKeysCmd lists the panel key bindings after config overrides.
func NewKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the key bindings of the interactive panel",
		Long: `Lists the panel key bindings with the overrides from the panel.keys section
of the configuration applied. Override names: ` + strings.Join(keymap.Names(), ", ") + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			km := keymap.Load(cfg)

			var infos []bindingInfo
			for _, section := range km.Sections() {
				for _, b := range section.Enabled() {
					infos = append(infos, bindingInfo{Section: section.Name, Keys: b.Keys(), Description: b.Help().Desc})
				}
			}
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), infos)
			}

			current := ""
			for _, info := range infos {
				if info.Section != current {
					current = info.Section
					fmt.Fprintf(cmd.OutOrStdout(), "%s\n", current)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %-18s %s\n", strings.Join(info.Keys, ", "), info.Description)
			}
			return nil
		},
	}
}
