package peekviz

import "context"

// Target is a presentation output: something that can show a scene snapshot.
type Target interface {
	// Update hands the target a fresh snapshot.
	Update(ctx context.Context, snap *Snapshot) error

	// Close cleans up the target.
	Close() error

	// Name returns a descriptive name for logging.
	Name() string
}
