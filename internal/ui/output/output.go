// Package output creates termenv outputs for the CLI's diagnostic streams.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ProfileFunc selects a color profile when an output is created.
type ProfileFunc func() termenv.Profile

func noColor() bool {
	return os.Getenv("NO_COLOR") != ""
}

// ColorProfile detects the profile of the attached terminal.
func ColorProfile() termenv.Profile {
	if noColor() {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// ColorProfileANSI is the fixed 16-color profile used for CI logs and pipes.
func ColorProfileANSI() termenv.Profile {
	if noColor() {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// New creates an output for w with the detected terminal profile.
func New(w io.Writer) *termenv.Output {
	return NewWithProfile(w, ColorProfile)
}

// NewWithProfile creates an output for w, defaulting to stderr.
// The output is always treated as a TTY so the profile alone decides whether styles are emitted.
func NewWithProfile(w io.Writer, profile ProfileFunc, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	return termenv.NewOutput(w, append(opts, termenv.WithProfile(profile()), termenv.WithTTY(true))...)
}
