package repository

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithNameFolding makes ByName match names case-insensitively.
func WithNameFolding(enabled bool) Option {
	return func(s *SnapshotStore) {
		s.foldNames = enabled
	}
}
