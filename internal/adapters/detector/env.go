// Package detector provides environment detection for output mode selection.
package detector

import (
	"os"

	"go.trai.ch/graphcache/internal/ui/output"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeInteractive renders with the terminal's full color profile.
	ModeInteractive
	// ModeLinear renders plain ANSI lines suited to CI logs.
	ModeLinear
	// ModeQuiet renders failures only.
	ModeQuiet
)

// String returns the flag value that selects the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeInteractive:
		return "interactive"
	case ModeLinear:
		return "linear"
	case ModeQuiet:
		return "quiet"
	default:
		return "auto"
	}
}

// DetectEnvironment returns the recommended output mode based on the environment.
// It checks if stderr is a TTY and if CI environment variables are set.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModeLinear
	}
	return ModeInteractive
}

// ResolveMode applies the user's --output flag to the detected mode.
// Unknown values fall back to the detected mode.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "interactive", "tty":
		return ModeInteractive
	case "linear", "ci":
		return ModeLinear
	case "quiet":
		return ModeQuiet
	default:
		return autoDetected
	}
}

// ColorProfile returns the color profile selector for the mode.
func ColorProfile(mode OutputMode) output.ProfileFunc {
	if mode == ModeInteractive {
		return output.ColorProfile
	}
	return output.ColorProfileANSI
}
