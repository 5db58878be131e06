package theme

import (
	"os"
)

// Nerd Font Icons (Private Constants)
const (
	nerdIconFolderOpen   = "\uF07C"     // fa-folder_open (U+F07C)
	nerdIconFolderClosed = "\uF07B"     // fa-folder (U+F07B)
	nerdIconAction       = "\uF04B"     // fa-play (U+F04B)
	nerdIconSpring       = "\U000F0997" // md-sine_wave (U+F0997)
	nerdIconPreset       = "\uF005"     // fa-star (U+F005)
	nerdIconSave         = "\uF0C7"     // fa-floppy_o (U+F0C7)
	nerdIconSuccess      = "\U000F012C" // md-check (U+F012C)
	nerdIconError        = "\uEA87"     // cod-error (U+EA87)
	nerdIconArrow        = "\U000F0054" // md-arrow_right (U+F0054)
)

// ASCII Fallback Icons (Private Constants)
const (
	asciiIconFolderOpen   = "v"
	asciiIconFolderClosed = ">"
	asciiIconAction       = "*"
	asciiIconSpring       = "~"
	asciiIconPreset       = "+"
	asciiIconSave         = "s"
	asciiIconSuccess      = "ok"
	asciiIconError        = "x"
	asciiIconArrow        = ">"
)

// Public Icon Variables
var (
	IconFolderOpen   string
	IconFolderClosed string
	IconAction       string
	IconSpring       string
	IconPreset       string
	IconSave         string
	IconSuccess      string
	IconError        string
	IconArrow        string
)

func init() {
	UseASCIIIcons(os.Getenv("TWEAKPINE_ICONS") == "ascii")
}

// UseASCIIIcons switches between the Nerd Font and plain ASCII icon sets.
func UseASCIIIcons(ascii bool) {
	if ascii {
		IconFolderOpen = asciiIconFolderOpen
		IconFolderClosed = asciiIconFolderClosed
		IconAction = asciiIconAction
		IconSpring = asciiIconSpring
		IconPreset = asciiIconPreset
		IconSave = asciiIconSave
		IconSuccess = asciiIconSuccess
		IconError = asciiIconError
		IconArrow = asciiIconArrow
		return
	}
	IconFolderOpen = nerdIconFolderOpen
	IconFolderClosed = nerdIconFolderClosed
	IconAction = nerdIconAction
	IconSpring = nerdIconSpring
	IconPreset = nerdIconPreset
	IconSave = nerdIconSave
	IconSuccess = nerdIconSuccess
	IconError = nerdIconError
	IconArrow = nerdIconArrow
}
