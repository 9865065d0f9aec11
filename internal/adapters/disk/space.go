// Package disk reports free space on the volume holding the graph cache.
package disk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/zerr"
)

// Space implements ports.DiskSpace using the operating system's file system statistics.
type Space struct{}

// NewSpace creates a new Space.
func NewSpace() *Space {
	return &Space{}
}

// Available returns the bytes available to an unprivileged user on the volume holding path.
// When path does not exist yet, its nearest existing ancestor is queried.
func (s *Space) Available(path string) (uint64, error) {
	dir, err := existingAncestor(path)
	if err != nil {
		return 0, zerr.With(fmt.Errorf("%w: %w", domain.ErrDiskSpaceUnavailable, err), "path", path)
	}

	avail, err := available(dir)
	if err != nil {
		return 0, zerr.With(fmt.Errorf("%w: %w", domain.ErrDiskSpaceUnavailable, err), "path", dir)
	}
	return avail, nil
}

func existingAncestor(path string) (string, error) {
	current, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	for {
		_, err := os.Stat(current)
		if err == nil {
			return current, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", err
		}
		current = parent
	}
}
