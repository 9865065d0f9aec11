// Package style holds the brand colors and status icons shared by the logger,
// the renderer and the CLI.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/graphcache/internal/core/domain"
)

// Brand Colors.
var (
	Teal   = lipgloss.Color("#0E9F9A")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
	Circle  = "○"
)

// ForState returns the icon and color a cache state is rendered with.
// Terminal failures are red crosses, a ready graph is a green check and
// a running import is a teal dot. Anything else is pending.
func ForState(kind domain.StateKind) (string, lipgloss.Color) {
	switch kind {
	case domain.StateReady:
		return Check, Green
	case domain.StateError, domain.StateMissingFiles:
		return Cross, Red
	case domain.StateImporting:
		return Dot, Teal
	default:
		return Circle, Slate
	}
}

// ForJob returns the icon and color of a settled or running import job.
func ForJob(state domain.JobState) (string, lipgloss.Color) {
	switch state {
	case domain.JobSucceeded:
		return Check, Green
	case domain.JobFailed:
		return Cross, Red
	case domain.JobRunning:
		return Dot, Teal
	default:
		return Circle, Slate
	}
}
