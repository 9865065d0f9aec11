package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/graphcache/internal/engine/coordinator"
	"go.trai.ch/graphcache/internal/ui/style"
)

func writeStatus(w io.Writer, st coordinator.Status) {
	_, _ = fmt.Fprintf(w, "cache:   %s\n", st.CacheRoot)
	_, _ = fmt.Fprintln(w, "inputs:")
	for _, in := range st.Inputs {
		if !in.Present {
			_, _ = fmt.Fprintf(w, "  %s %s missing\n", style.Cross, in.Name)
			continue
		}
		size := humanize.IBytes(uint64(in.SizeBytes)) //nolint:gosec // file sizes are non-negative
		_, _ = fmt.Fprintf(w, "  %s %s %s, modified %s\n",
			style.Check, in.Name, size, in.LastModified.UTC().Format(time.RFC3339))
	}

	saved := "none"
	if st.Saved != nil {
		saved = st.Saved.ID()
	}
	_, _ = fmt.Fprintf(w, "version: %s\n", saved)
	_, _ = fmt.Fprintf(w, "stale:   %s\n", yesNo(st.Stale))
	_, _ = fmt.Fprintf(w, "ready:   %s\n", yesNo(st.Ready))

	if st.Job != nil {
		_, _ = fmt.Fprintf(w, "import:  %s %d%%", st.Job.State, st.Job.Progress)
		if st.Job.FailureMessage != "" {
			_, _ = fmt.Fprintf(w, " (%s)", st.Job.FailureMessage)
		}
		_, _ = fmt.Fprintln(w)
	}
}

func writeItinerary(w io.Writer, it *domain.Itinerary) {
	_, _ = fmt.Fprintf(w, "%s in %s\n", distance(it.DistanceMeters), seconds(it.DurationSeconds))
	for _, leg := range it.Legs {
		_, _ = fmt.Fprintf(w, "  %s %s %s, %s\n", style.Arrow, leg.Mode, distance(leg.DistanceMeters), seconds(leg.DurationSeconds))
		for _, step := range leg.Instructions {
			_, _ = fmt.Fprintf(w, "      %s (%s)\n", step.Text, distance(step.DistanceMeters))
		}
	}
}

func distance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

func seconds(s int64) string {
	return (time.Duration(s) * time.Second).String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
