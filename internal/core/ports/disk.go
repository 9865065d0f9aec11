package ports

//go:generate mockgen -source=disk.go -destination=mocks/mock_disk.go -package=mocks

// DiskSpace reports free space on the volume holding a path.
type DiskSpace interface {
	// Available returns the bytes available to an unprivileged user on the volume holding path.
	// The path does not need to exist yet.
	Available(path string) (uint64, error)
}
