package peekviz

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Viewer pumps scene snapshots from a [SnapshotSource] to one or more
// targets at a fixed interval.
type Viewer struct {
	mu       sync.RWMutex
	source   SnapshotSource
	targets  []Target
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// ViewerOption configures the Viewer.
type ViewerOption func(*Viewer)

// WithInterval sets the update interval for periodic updates.
func WithInterval(d time.Duration) ViewerOption {
	return func(v *Viewer) {
		v.interval = d
	}
}

// NewViewer creates a Viewer reading from the given source.
func NewViewer(source SnapshotSource, opts ...ViewerOption) *Viewer {
	v := &Viewer{
		source:   source,
		interval: 33 * time.Millisecond,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// AddTarget adds an output target.
func (v *Viewer) AddTarget(t Target) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.targets = append(v.targets, t)
}

// RemoveTarget removes a target by reference.
func (v *Viewer) RemoveTarget(t Target) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, target := range v.targets {
		if target == t {
			v.targets = append(v.targets[:i], v.targets[i+1:]...)
			return
		}
	}
}

// Start begins periodic updates to all targets.
func (v *Viewer) Start(ctx context.Context) error {
	v.mu.Lock()
	if v.cancel != nil {
		v.mu.Unlock()
		return fmt.Errorf("viewer already started")
	}

	ctx, v.cancel = context.WithCancel(ctx)
	v.mu.Unlock()

	// Initial update
	if err := v.Update(ctx); err != nil {
		return err
	}

	go v.run(ctx)
	return nil
}

func (v *Viewer) run(ctx context.Context) {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()
	defer close(v.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = v.Update(ctx) // Ignore errors in background loop
		}
	}
}

// Stop stops periodic updates.
func (v *Viewer) Stop() {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.mu.Unlock()

	// Wait for run goroutine to finish
	<-v.done
}

// Update triggers an immediate update to all targets.
func (v *Viewer) Update(ctx context.Context) error {
	v.mu.RLock()
	source := v.source
	targets := make([]Target, len(v.targets))
	copy(targets, v.targets)
	v.mu.RUnlock()

	if source == nil {
		return fmt.Errorf("no snapshot source set")
	}

	snap, err := source.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to get snapshot: %w", err)
	}

	var lastErr error
	for _, target := range targets {
		if err := target.Update(ctx, snap); err != nil {
			lastErr = fmt.Errorf("target %s: %w", target.Name(), err)
		}
	}
	return lastErr
}

// Close stops the viewer and closes all targets.
func (v *Viewer) Close() error {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	targets := v.targets
	v.targets = nil
	v.mu.Unlock()

	var lastErr error
	for _, target := range targets {
		if err := target.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
