//go:build unix

package disk

import "golang.org/x/sys/unix"

func available(dir string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		return 0, err
	}
	//nolint:gosec,unconvert // Bsize is int64 on linux and uint32 on darwin
	return stat.Bavail * uint64(stat.Bsize), nil
}
