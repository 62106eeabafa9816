package peekviz

import (
	"os"
	"sync"

	"github.com/ausocean/utils/logging"
)

// SnapshotSource yields the current presentation scene. *View and
// *RemoteViewer implement it.
type SnapshotSource interface {
	// Snapshot returns the scene as currently known to the presentation
	// side.
	Snapshot() (*Snapshot, error)
}

// ControlSink receives control interactions from presentation targets and
// turns them into events for the application.
type ControlSink interface {
	SetBool(label string, value bool) error
	SetRanged(label string, value float64) error
	SetEnum(label, value string) error
	PressButton(label string) error
}

// View is the presentation-side replica of the scene. It absorbs mutation
// batches from the session, serves snapshots to targets, and collects
// control events until the next sync cycle picks them up.
//
// Unlike [Manager], a View is goroutine safe: targets read snapshots and
// push control events from their own goroutines.
type View struct {
	mu     sync.RWMutex
	scene  *Scene
	events []Message
	log    logging.Logger
}

// NewView returns an empty view.
func NewView(log logging.Logger) *View {
	if log == nil {
		log = logging.New(logging.Info, os.Stderr, true)
	}
	return &View{scene: NewScene(), log: log}
}

// ApplyBatch absorbs one sync cycle's scene mutations. Messages that do not
// apply are logged and dropped so one bad message cannot stall the stream.
func (v *View) ApplyBatch(batch []Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, msg := range batch {
		if err := v.scene.Apply(msg); err != nil {
			v.log.Warning("dropping scene mutation", "kind", string(msg.MessageKind()), "error", err.Error())
		}
	}
}

// Snapshot implements [SnapshotSource].
func (v *View) Snapshot() (*Snapshot, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scene.Snapshot(), nil
}

// DrainEvents returns the control events collected since the previous call.
func (v *View) DrainEvents() []Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	events := v.events
	v.events = nil
	return events
}

// event validates a control event against the view's replica and queues it
// for the application. Validating here keeps bad interactions from ever
// crossing the session.
func (v *View) event(msg Message) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.scene.ApplyEvent(msg); err != nil {
		return err
	}
	v.events = append(v.events, msg)
	return nil
}

// SetBool implements [ControlSink].
func (v *View) SetBool(label string, value bool) error {
	return v.event(SetBool{Label: label, Value: value})
}

// SetRanged implements [ControlSink].
func (v *View) SetRanged(label string, value float64) error {
	return v.event(SetRangedNumber{Label: label, Value: value})
}

// SetEnum implements [ControlSink].
func (v *View) SetEnum(label, value string) error {
	return v.event(SetEnum{Label: label, Value: value})
}

// PressButton implements [ControlSink].
func (v *View) PressButton(label string) error {
	return v.event(PressButton{Label: label})
}

// localSession wires a manager directly to an in-process view.
type localSession struct {
	view *View
}

func (s *localSession) Send(batch []Message) error {
	s.view.ApplyBatch(batch)
	return nil
}

func (s *localSession) Events() ([]Message, error) {
	return s.view.DrainEvents(), nil
}

func (s *localSession) Close() error { return nil }
