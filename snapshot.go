package peekviz

import (
	"github.com/peekviz/peekviz/entity"
	"github.com/peekviz/peekviz/pose"
)

// Snapshot is a self-contained copy of the scene handed to presentation
// targets once per update. It doubles as the JSON view model served by
// [WebTarget].
type Snapshot struct {
	Components []ComponentSnapshot `json:"components"`
	Widgets    []WidgetSnapshot    `json:"widgets"`
}

// ComponentSnapshot is the state of one side-panel control.
type ComponentSnapshot struct {
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
	Bool     bool     `json:"bool,omitempty"`
	Number   float64  `json:"number,omitempty"`
	Min      float64  `json:"min,omitempty"`
	Max      float64  `json:"max,omitempty"`
	Integral bool     `json:"integral,omitempty"`
	Value    string   `json:"value,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// WidgetSnapshot is the state of one visualization surface.
type WidgetSnapshot struct {
	Label    string           `json:"label"`
	Kind     string           `json:"kind"`
	Entities []EntitySnapshot `json:"entities,omitempty"`
	Image    *ImageRGBA       `json:"image,omitempty"`
}

// EntitySnapshot is a placed entity with its pose in the scene frame.
type EntitySnapshot struct {
	Label  string        `json:"label"`
	Entity entity.Entity `json:"entity"`
	Pose   pose.Isometry `json:"pose"`
}

// Snapshot copies the scene into a [Snapshot] in registration order.
// Entity geometry and pixel buffers are shared rather than copied: scene
// mutations only ever replace them wholesale, never edit them in place.
func (s *Scene) Snapshot() *Snapshot {
	snap := &Snapshot{
		Components: make([]ComponentSnapshot, 0, s.components.len()),
		Widgets:    make([]WidgetSnapshot, 0, s.widgets.len()),
	}
	s.components.each(func(label string, st componentState) {
		cs := ComponentSnapshot{Label: label, Kind: st.componentKind()}
		switch c := st.(type) {
		case *boolState:
			cs.Bool = c.value
		case *numberState:
			cs.Number = c.value
			cs.Integral = c.integral
		case *rangedState:
			cs.Number = c.value
			cs.Min = c.min
			cs.Max = c.max
			cs.Integral = c.integral
		case *enumState:
			cs.Value = c.value
			cs.Options = append([]string(nil), c.options...)
		}
		snap.Components = append(snap.Components, cs)
	})
	s.widgets.each(func(label string, w *widgetState) {
		ws := WidgetSnapshot{Label: label, Kind: w.kind}
		switch w.kind {
		case widgetKindScene3:
			ws.Entities = make([]EntitySnapshot, 0, w.entities.len())
			w.entities.each(func(entLabel string, e *placedEntity) {
				ws.Entities = append(ws.Entities, EntitySnapshot{
					Label:  entLabel,
					Entity: e.entity,
					Pose:   e.pose,
				})
			})
		case widgetKindImage:
			img := w.image
			ws.Image = &img
		}
		snap.Widgets = append(snap.Widgets, ws)
	})
	return snap
}
