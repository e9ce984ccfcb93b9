package entities

// RepoStatus is a snapshot of the working tree. It must be fetched again after
// every mutating git operation.
type RepoStatus struct {
	NotAdded   []string
	Created    []string
	Deleted    []string
	Modified   []string
	Renamed    []string
	Conflicted []string
}

// HasConflicts reports whether any path is in a conflicted state.
func (s RepoStatus) HasConflicts() bool {
	return len(s.Conflicted) > 0
}

// IsDirty reports whether any of the five change categories is non-empty.
func (s RepoStatus) IsDirty() bool {
	return len(s.NotAdded) > 0 ||
		len(s.Created) > 0 ||
		len(s.Deleted) > 0 ||
		len(s.Modified) > 0 ||
		len(s.Renamed) > 0
}

// Pending returns every path that should be staged before a commit, without duplicates.
func (s RepoStatus) Pending() []string {
	seen := make(map[string]bool)
	var paths []string
	for _, group := range [][]string{s.NotAdded, s.Created, s.Deleted, s.Modified, s.Renamed} {
		for _, path := range group {
			if seen[path] {
				continue
			}
			seen[path] = true
			paths = append(paths, path)
		}
	}
	return paths
}
