package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eminiarts/tweakpine"
	"github.com/eminiarts/tweakpine/config"
	"github.com/eminiarts/tweakpine/tui"
	"github.com/eminiarts/tweakpine/tui/keymap"
	"github.com/eminiarts/tweakpine/tui/panel"
	"github.com/eminiarts/tweakpine/tui/theme"
)

// NewTuiCmd opens a schema as an interactive panel.
func NewTuiCmd() *cobra.Command {
	var (
		position positionValue
		logFile  string
		width    int
	)
	cmd := &cobra.Command{
		Use:   "tui <schema.yml>",
		Short: "Edit a schema's values in an interactive panel",
		Long: `Opens the panel described by a schema file. Values can be adjusted with the
keyboard, saved as named presets and recalled later. Presets are stored under
the panel name and survive restarts.`,
		Example: `# Open a panel anchored to the bottom-left corner
tweakpine tui scene.yml --position bottom-left

# Keep the log output in a file while the panel runs
tweakpine tui scene.yml --log-file /tmp/tweakpine.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []tweakpine.Option
			if position.value != "" {
				opts = append(opts, tweakpine.WithPosition(position.value))
			}
			sess, err := openSession(cmd, args[0], opts...)
			if err != nil {
				return err
			}
			defer sess.Close()

			keys := keymap.Load(sess.cfg)
			runOpts := tui.RunOptions{
				Panel: panel.Options{
					Keys:     &keys,
					Theme:    theme.NewThemeWithName(sess.cfg.Panel.Theme),
					Position: sess.panel.Position(),
					Width:    width,
				},
				Logger: sess.logger,
			}
			if sess.cfg.Presets.Watch && sess.cfg.Presets.Backend == config.BackendFile {
				runOpts.WatchDir = sess.cfg.Presets.Dir
			}
			if logFile != "" {
				if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
					return err
				}
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				runOpts.LogOutput = f
			}

			return tui.Run(cmd.Context(), sess.store, sess.panel.ID(), runOpts)
		},
	}
	addPanelFlags(cmd)
	cmd.Flags().Var(&position, "position", "Corner to anchor the panel to: top-right, top-left, bottom-right, bottom-left")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write log output to this file while the panel is open")
	cmd.Flags().IntVar(&width, "width", 0, "Panel width in columns")
	return cmd
}
