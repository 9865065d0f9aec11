package coordinator

import (
	"os"
	"time"

	"go.trai.ch/graphcache/internal/core/domain"
)

// InputStatus describes one input file.
type InputStatus struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Present      bool      `json:"present"`
	SizeBytes    int64     `json:"sizeBytes,omitempty"`
	LastModified time.Time `json:"lastModified,omitzero"`
}

// Status is a point-in-time report of the cache.
type Status struct {
	CacheRoot string               `json:"cacheRoot"`
	Inputs    []InputStatus        `json:"inputs"`
	Saved     *domain.CacheVersion `json:"saved,omitempty"`
	Current   *domain.CacheVersion `json:"current,omitempty"`
	Stale     bool                 `json:"stale"`
	Ready     bool                 `json:"ready"`
	Job       *domain.ImportJob    `json:"job,omitempty"`
}

// Status reports inputs, fingerprints, readiness and the latest import without side effects.
func (c *Coordinator) Status() Status {
	layout := c.cfg.Layout()
	st := Status{
		CacheRoot: layout.Root,
		Saved:     c.deps.Store.Read(layout.VersionFile()),
		Ready:     c.deps.Handle.Ready(),
	}

	for _, in := range c.inputs() {
		is := InputStatus{Name: in.name, Path: in.path}
		if info, err := os.Stat(in.path); err == nil && info.Mode().IsRegular() {
			is.Present = true
			is.SizeBytes = info.Size()
			is.LastModified = info.ModTime()
		}
		st.Inputs = append(st.Inputs, is)
	}

	if current, err := c.deps.Store.Compute(c.cfg.OSMPath(), c.cfg.GTFSPath()); err == nil {
		st.Current = &current
	}
	st.Stale = st.Saved == nil || st.Current == nil || !st.Saved.Equal(*st.Current)

	if job, ok := c.deps.Registry.Snapshot(domain.ImportJobName); ok {
		st.Job = &job
	}
	return st
}
