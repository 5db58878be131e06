package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eminiarts/tweakpine/cli"
	"github.com/eminiarts/tweakpine/logging"
	"github.com/eminiarts/tweakpine/tui/theme"
)

// NewPresetsCmd manages the saved presets of a panel.
func NewPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List, save, load and delete presets",
	}
	cmd.AddCommand(newPresetsListCmd())
	cmd.AddCommand(newPresetsSaveCmd())
	cmd.AddCommand(newPresetsLoadCmd())
	cmd.AddCommand(newPresetsDeleteCmd())
	return cmd
}

type presetSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Values int    `json:"values"`
}

func newPresetsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <schema.yml>",
		Short: "List the presets saved for a panel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			presets, err := sess.store.GetPresets(sess.panel.ID())
			if err != nil {
				return err
			}
			active, err := sess.store.GetActivePresetID(sess.panel.ID())
			if err != nil {
				return err
			}

			summaries := make([]presetSummary, len(presets))
			for i, p := range presets {
				summaries[i] = presetSummary{ID: p.ID, Name: p.Name, Active: p.ID == active, Values: len(p.Values)}
			}
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), summaries)
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No presets saved yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ACTIVE\tNAME\tID\tVALUES")
			for _, s := range summaries {
				marker := ""
				if s.Active {
					marker = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", marker, s.Name, s.ID, s.Values)
			}
			return w.Flush()
		},
	}
	addPanelFlags(cmd)
	return cmd
}

func newPresetsSaveCmd() *cobra.Command {
	var set []string
	cmd := &cobra.Command{
		Use:   "save <schema.yml> <name>",
		Short: "Save the panel values as a new preset",
		Long: `Saves the declared values, with any --set assignments applied, as a new
preset and makes it the active one.`,
		Example: `tweakpine presets save scene.yml fast --set speed=9 --set 'motion={stiffness: 300}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := applyAssignments(sess, set); err != nil {
				return err
			}
			id, err := sess.store.SavePreset(sess.panel.ID(), args[1])
			if err != nil {
				return err
			}
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), presetSummary{ID: id, Name: args[1], Active: true})
			}
			logging.NewReporter(cmd.OutOrStdout()).Item(theme.IconSave, "Saved preset %s (%s)", args[1], id)
			return nil
		},
	}
	addPanelFlags(cmd)
	cmd.Flags().StringArrayVar(&set, "set", nil, "Assign path=value before saving (value is parsed as YAML)")
	return cmd
}

func newPresetsLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <schema.yml> <preset>",
		Short: "Mark a preset (id or name) as the active one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			p, err := sess.findPreset(args[1])
			if err != nil {
				return err
			}
			if err := sess.store.LoadPreset(sess.panel.ID(), p.ID); err != nil {
				return err
			}
			logging.NewReporter(cmd.OutOrStdout()).Item(theme.IconPreset, "Active preset: %s", p.Name)
			return nil
		},
	}
	addPanelFlags(cmd)
	return cmd
}

func newPresetsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <schema.yml> <preset>",
		Short: "Delete a preset by id or name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			p, err := sess.findPreset(args[1])
			if err != nil {
				return err
			}
			if err := sess.store.DeletePreset(sess.panel.ID(), p.ID); err != nil {
				return err
			}
			logging.NewReporter(cmd.OutOrStdout()).Success("Deleted preset %s", p.Name)
			return nil
		},
	}
	addPanelFlags(cmd)
	return cmd
}
