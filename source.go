package peekviz

// StaticSource wraps a fixed snapshot.
type StaticSource struct {
	snap *Snapshot
}

// NewStaticSource creates a SnapshotSource from a fixed snapshot.
func NewStaticSource(snap *Snapshot) *StaticSource {
	return &StaticSource{snap: snap}
}

// Snapshot implements SnapshotSource.
func (s *StaticSource) Snapshot() (*Snapshot, error) {
	return s.snap, nil
}

// SourceFunc adapts a function to the SnapshotSource interface.
type SourceFunc func() (*Snapshot, error)

// Snapshot implements SnapshotSource.
func (f SourceFunc) Snapshot() (*Snapshot, error) {
	return f()
}
