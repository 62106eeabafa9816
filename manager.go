package peekviz

import (
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/ausocean/utils/logging"
	xdraw "golang.org/x/image/draw"

	"github.com/peekviz/peekviz/pose"
)

// DefaultCadence is the pacing of the synchronization cycle.
const DefaultCadence = 15 * time.Millisecond

// Session carries scene mutations to the presentation side and control
// events back. The local in-process session and the websocket
// [RemoteSession] both implement it.
type Session interface {
	// Send delivers one sync cycle's scene mutations.
	Send(batch []Message) error

	// Events returns the control events received since the previous call.
	Events() ([]Message, error)

	// Close releases the session.
	Close() error
}

// Manager is the application-facing facade: it owns the authoritative scene
// model, records mutations from Add/Place calls, and reconciles with the
// presentation side once per [Manager.Sync].
//
// A Manager belongs to the application goroutine and is not goroutine safe;
// Sync is the only point where the two sides exchange state.
type Manager struct {
	log     logging.Logger
	scene   *Scene
	session Session
	pending []Message
	cadence time.Duration
}

// ManagerOption configures a [Manager].
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l logging.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = l
	}
}

// WithCadence sets the sync cycle pacing. Zero disables pacing.
func WithCadence(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.cadence = d
	}
}

// NewManager returns a manager attached to the given session. Applications
// normally obtain one through [Run] or [Serve] instead.
func NewManager(session Session, opts ...ManagerOption) *Manager {
	m := &Manager{
		scene:   NewScene(),
		session: session,
		cadence: DefaultCadence,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logging.New(logging.Info, os.Stderr, true)
	}
	return m
}

// queue applies a mutation to the authoritative scene and schedules it for
// the presentation side.
func (m *Manager) queue(msg Message) {
	if err := m.scene.Apply(msg); err != nil {
		m.log.Warning("dropping bad scene mutation", "kind", string(msg.MessageKind()), "error", err.Error())
		return
	}
	m.pending = append(m.pending, msg)
}

// Sync flushes pending scene mutations to the presentation side, applies the
// control events received since the last cycle, and paces the loop at the
// configured cadence. It must be called repeatedly, once per iteration of
// the application loop.
func (m *Manager) Sync(ctx context.Context) error {
	if len(m.pending) > 0 {
		batch := m.pending
		m.pending = nil
		if err := m.session.Send(batch); err != nil {
			return fmt.Errorf("send batch: %w", err)
		}
	}

	events, err := m.session.Events()
	if err != nil {
		return fmt.Errorf("receive events: %w", err)
	}
	for _, ev := range events {
		if err := m.scene.ApplyEvent(ev); err != nil {
			m.log.Warning("dropping control event", "kind", string(ev.MessageKind()), "error", err.Error())
		}
	}

	if m.cadence > 0 {
		t := time.NewTimer(m.cadence)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return ctx.Err()
}

// Close closes the underlying session.
func (m *Manager) Close() error {
	return m.session.Close()
}

// Widget3 is a handle to a named 3D viewport.
type Widget3 struct {
	m     *Manager
	label string
}

// AddWidget3 adds a 3D viewport to the main panel.
func (m *Manager) AddWidget3(label string) *Widget3 {
	m.queue(AddWidget3{Label: label})
	return &Widget3{m: m, label: label}
}

// PlaceEntity adds an entity at the identity pose. An entity already placed
// under the same label is replaced.
func (w *Widget3) PlaceEntity(label string, e Entity) {
	w.PlaceEntityAt(label, e, pose.Identity())
}

// PlaceEntityAt adds an entity at the given scene-frame pose. An entity
// already placed under the same label is replaced.
func (w *Widget3) PlaceEntityAt(label string, e Entity, p Pose) {
	w.m.queue(PlaceEntity{Widget: w.label, Label: label, Entity: e, Pose: p})
}

// UpdatePose moves a previously placed entity to the given scene-frame pose.
// Updating an entity that was never placed is a no-op.
func (w *Widget3) UpdatePose(label string, p Pose) {
	w.m.queue(UpdateEntityPose{Widget: w.label, Label: label, Pose: p})
}

// ImageWidget is a handle to a named 2D image panel.
type ImageWidget struct {
	m     *Manager
	label string
}

// AddImageWidget adds a 2D image panel showing the given image.
func (m *Manager) AddImageWidget(label string, img image.Image) *ImageWidget {
	m.queue(AddImageWidget{Label: label, Image: imageToRGBA(img)})
	return &ImageWidget{m: m, label: label}
}

// SetImage replaces the displayed image.
func (w *ImageWidget) SetImage(img image.Image) {
	w.m.queue(SetImage{Label: w.label, Image: imageToRGBA(img)})
}

// RemoveControl deletes a control from the side panel. Handles to it keep
// returning their cached value.
func (m *Manager) RemoveControl(label string) {
	m.queue(DeleteComponent{Label: label})
}

// imageToRGBA converts any image to the raw RGBA wire form.
func imageToRGBA(img image.Image) ImageRGBA {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || b.Min != (image.Point{}) {
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
		rgba = dst
	}
	return ImageRGBA{Width: b.Dx(), Height: b.Dy(), Pix: rgba.Pix}
}
