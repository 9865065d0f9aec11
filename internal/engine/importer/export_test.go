package importer

// SetRemoveAll replaces the removal function used by jobs and returns a restore func.
func SetRemoveAll(fn func(string) error) func() {
	prev := removeAll
	removeAll = fn
	return func() { removeAll = prev }
}
