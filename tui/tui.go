// Package tui hosts registered panels in the terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/eminiarts/tweakpine/logging"
	"github.com/eminiarts/tweakpine/state"
	"github.com/eminiarts/tweakpine/store"
	"github.com/eminiarts/tweakpine/tui/panel"
)

// InitializeTUI forces a true-color profile when CLICOLOR_FORCE or COLORTERM
// ask for it, so styled output survives pipes and CI captures.
func InitializeTUI() {
	if os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor" {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// RunOptions configures Run.
type RunOptions struct {
	Panel panel.Options
	// WatchDir, when set, reloads presets whenever a record file in it changes.
	WatchDir string
	// LogOutput receives log lines while the panel owns the screen. Nil discards them.
	LogOutput io.Writer
	Logger    *logrus.Entry
}

// Run shows the panel panelID full-screen until the user quits or ctx is done.
func Run(ctx context.Context, s *store.Store, panelID string, opts RunOptions) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the panel needs an interactive terminal")
	}
	InitializeTUI()

	log := opts.Logger
	if log == nil {
		log = logging.NewLogger("tweakpine.tui")
	}

	model, err := panel.New(s, panelID, opts.Panel)
	if err != nil {
		return err
	}
	defer model.Close()

	restore := logging.RedirectStderr(opts.LogOutput)
	defer restore()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.WatchDir != "" {
		watcher, err := state.NewWatcher(opts.WatchDir, state.DefaultDebounce, func(string) {
			program.Send(panel.PresetsChangedMsg{})
		}, log)
		if err != nil {
			log.WithError(err).Warn("Preset file watching disabled")
		} else {
			defer watcher.Close()
			go watcher.Start(ctx)
		}
	}

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("panel exited: %w", err)
	}
	return nil
}
