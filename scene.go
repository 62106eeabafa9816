package peekviz

import (
	"fmt"

	"github.com/peekviz/peekviz/entity"
	"github.com/peekviz/peekviz/pose"
)

// ordmap is a map with stable insertion order. Registration order is
// presentation order for both controls and widgets, so plain Go maps are not
// enough here.
type ordmap[V any] struct {
	keys []string
	vals map[string]V
}

func (m *ordmap[V]) set(key string, val V) {
	if m.vals == nil {
		m.vals = make(map[string]V)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = val
}

func (m *ordmap[V]) get(key string) (V, bool) {
	v, ok := m.vals[key]
	return v, ok
}

func (m *ordmap[V]) delete(key string) {
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			return
		}
	}
}

func (m *ordmap[V]) len() int { return len(m.keys) }

// each visits entries in insertion order.
func (m *ordmap[V]) each(f func(key string, val V)) {
	for _, k := range m.keys {
		f(k, m.vals[k])
	}
}

// componentState is the current state of one side-panel control.
type componentState interface {
	componentKind() string
}

type boolState struct {
	value bool
}

type numberState struct {
	value    float64
	integral bool
}

type rangedState struct {
	value    float64
	min, max float64
	integral bool
}

type enumState struct {
	value   string
	options []string
}

type buttonState struct {
	pressed bool
}

func (*boolState) componentKind() string   { return "bool" }
func (*numberState) componentKind() string { return "number" }
func (*rangedState) componentKind() string { return "ranged" }
func (*enumState) componentKind() string   { return "enum" }
func (*buttonState) componentKind() string { return "button" }

const (
	widgetKindScene3 = "scene3d"
	widgetKindImage  = "image"
)

// placedEntity is an entity with its pose in the scene frame.
type placedEntity struct {
	entity entity.Entity
	pose   pose.Isometry
}

// widgetState is a named visualization surface: either a 3D viewport with
// named entities or a 2D image panel.
type widgetState struct {
	kind     string
	entities ordmap[*placedEntity]
	image    ImageRGBA
}

// Scene is the scene model: insertion-ordered registries of controls and
// widgets. The same type backs the application side (owned by the manager)
// and the presentation side (wrapped by a [View]); Scene itself is not
// goroutine safe.
type Scene struct {
	components ordmap[componentState]
	widgets    ordmap[*widgetState]
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Apply executes a downstream scene mutation. Registration messages replace
// any existing entry with the same label.
func (s *Scene) Apply(msg Message) error {
	switch m := msg.(type) {
	case AddWidget3:
		s.widgets.set(m.Label, &widgetState{kind: widgetKindScene3})
	case AddImageWidget:
		if !m.Image.Valid() {
			return fmt.Errorf("widget %q: invalid %dx%d image of %d bytes", m.Label, m.Image.Width, m.Image.Height, len(m.Image.Pix))
		}
		s.widgets.set(m.Label, &widgetState{kind: widgetKindImage, image: m.Image})
	case SetImage:
		w, ok := s.widgets.get(m.Label)
		if !ok || w.kind != widgetKindImage {
			return fmt.Errorf("no image widget %q", m.Label)
		}
		if !m.Image.Valid() {
			return fmt.Errorf("widget %q: invalid %dx%d image of %d bytes", m.Label, m.Image.Width, m.Image.Height, len(m.Image.Pix))
		}
		w.image = m.Image
	case AddBool:
		s.components.set(m.Label, &boolState{value: m.Value})
	case AddNumber:
		s.components.set(m.Label, &numberState{value: m.Value, integral: m.Integral})
	case AddRangedNumber:
		s.components.set(m.Label, &rangedState{
			value:    clamp(m.Value, m.Min, m.Max),
			min:      m.Min,
			max:      m.Max,
			integral: m.Integral,
		})
	case AddEnum:
		if len(m.Options) == 0 {
			return fmt.Errorf("enum %q has no options", m.Label)
		}
		if !contains(m.Options, m.Value) {
			return fmt.Errorf("enum %q: %q is not an option", m.Label, m.Value)
		}
		s.components.set(m.Label, &enumState{value: m.Value, options: m.Options})
	case AddButton:
		s.components.set(m.Label, &buttonState{})
	case PlaceEntity:
		w, ok := s.widgets.get(m.Widget)
		if !ok || w.kind != widgetKindScene3 {
			return fmt.Errorf("no 3d widget %q", m.Widget)
		}
		w.entities.set(m.Label, &placedEntity{entity: m.Entity, pose: m.Pose})
	case UpdateEntityPose:
		w, ok := s.widgets.get(m.Widget)
		if !ok || w.kind != widgetKindScene3 {
			return fmt.Errorf("no 3d widget %q", m.Widget)
		}
		// Unknown entity labels are a deliberate no-op so apps can update
		// poses before the first placement has happened.
		if e, ok := w.entities.get(m.Label); ok {
			e.pose = m.Pose
		}
	case DeleteComponent:
		s.components.delete(m.Label)
	default:
		return fmt.Errorf("not a scene mutation: %s", msg.MessageKind())
	}
	return nil
}

// ApplyEvent executes an upstream control event against the matching
// control. Values are validated against the control's registration: ranged
// values clamp to their bounds and enum selections must be a known option.
func (s *Scene) ApplyEvent(msg Message) error {
	switch m := msg.(type) {
	case SetBool:
		st, err := componentAs[*boolState](s, m.Label)
		if err != nil {
			return err
		}
		st.value = m.Value
	case SetRangedNumber:
		st, err := componentAs[*rangedState](s, m.Label)
		if err != nil {
			return err
		}
		st.value = clamp(m.Value, st.min, st.max)
	case SetEnum:
		st, err := componentAs[*enumState](s, m.Label)
		if err != nil {
			return err
		}
		if !contains(st.options, m.Value) {
			return fmt.Errorf("enum %q: %q is not an option", m.Label, m.Value)
		}
		st.value = m.Value
	case PressButton:
		st, err := componentAs[*buttonState](s, m.Label)
		if err != nil {
			return err
		}
		st.pressed = true
	default:
		return fmt.Errorf("not a control event: %s", msg.MessageKind())
	}
	return nil
}

func componentAs[T componentState](s *Scene, label string) (T, error) {
	var zero T
	st, ok := s.components.get(label)
	if !ok {
		return zero, fmt.Errorf("no control %q", label)
	}
	typed, ok := st.(T)
	if !ok {
		return zero, fmt.Errorf("control %q is a %s", label, st.componentKind())
	}
	return typed, nil
}

// Replay returns the batch of mutation messages that rebuilds the scene from
// scratch, in registration order. It is used to bring newly connected
// viewers up to date.
func (s *Scene) Replay() []Message {
	var batch []Message
	s.components.each(func(label string, st componentState) {
		switch c := st.(type) {
		case *boolState:
			batch = append(batch, AddBool{Label: label, Value: c.value})
		case *numberState:
			batch = append(batch, AddNumber{Label: label, Value: c.value, Integral: c.integral})
		case *rangedState:
			batch = append(batch, AddRangedNumber{Label: label, Value: c.value, Min: c.min, Max: c.max, Integral: c.integral})
		case *enumState:
			batch = append(batch, AddEnum{Label: label, Value: c.value, Options: c.options})
		case *buttonState:
			batch = append(batch, AddButton{Label: label})
		}
	})
	s.widgets.each(func(label string, w *widgetState) {
		switch w.kind {
		case widgetKindScene3:
			batch = append(batch, AddWidget3{Label: label})
			w.entities.each(func(entLabel string, e *placedEntity) {
				batch = append(batch, PlaceEntity{Widget: label, Label: entLabel, Entity: e.entity, Pose: e.pose})
			})
		case widgetKindImage:
			batch = append(batch, AddImageWidget{Label: label, Image: w.image})
		}
	})
	return batch
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func contains(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}
