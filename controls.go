package peekviz

// Control handles wrap a label on the manager's scene and remember the last
// value the application read. NewValue compares against that memory, so a
// change reports true exactly once no matter how many sync cycles pass
// between reads.

// Bool is a handle to a checkbox control.
type Bool struct {
	m     *Manager
	label string
	seen  bool
}

// AddBool adds a checkbox to the side panel.
func (m *Manager) AddBool(label string, value bool) *Bool {
	m.queue(AddBool{Label: label, Value: value})
	return &Bool{m: m, label: label, seen: value}
}

// Value returns the current checkbox state.
func (b *Bool) Value() bool {
	st, err := componentAs[*boolState](b.m.scene, b.label)
	if err != nil {
		return b.seen
	}
	b.seen = st.value
	return st.value
}

// NewValue returns the current state and whether it changed since the last
// read through this handle.
func (b *Bool) NewValue() (bool, bool) {
	prev := b.seen
	v := b.Value()
	return v, v != prev
}

// Number is a handle to a read-only numeric display.
type Number struct {
	m     *Manager
	label string
}

// AddNumber adds a read-only numeric display to the side panel.
func (m *Manager) AddNumber(label string, value float64) *Number {
	m.queue(AddNumber{Label: label, Value: value})
	return &Number{m: m, label: label}
}

// Set updates the displayed value.
func (n *Number) Set(value float64) {
	st, err := componentAs[*numberState](n.m.scene, n.label)
	if err != nil {
		return
	}
	n.m.queue(AddNumber{Label: n.label, Value: value, Integral: st.integral})
}

// RangedFloat is a handle to a slider over a continuous range.
type RangedFloat struct {
	m     *Manager
	label string
	seen  float64
}

// AddRangedFloat adds a slider bounded to [min, max]. The initial value is
// clamped into the range.
func (m *Manager) AddRangedFloat(label string, value, min, max float64) *RangedFloat {
	m.queue(AddRangedNumber{Label: label, Value: value, Min: min, Max: max})
	return &RangedFloat{m: m, label: label, seen: clamp(value, min, max)}
}

// Value returns the current slider position.
func (r *RangedFloat) Value() float64 {
	st, err := componentAs[*rangedState](r.m.scene, r.label)
	if err != nil {
		return r.seen
	}
	r.seen = st.value
	return st.value
}

// NewValue returns the current position and whether it changed since the
// last read through this handle.
func (r *RangedFloat) NewValue() (float64, bool) {
	prev := r.seen
	v := r.Value()
	return v, v != prev
}

// RangedInt is a handle to a slider stepping in whole numbers.
type RangedInt struct {
	m     *Manager
	label string
	seen  int
}

// AddRangedInt adds an integer slider bounded to [min, max]. The initial
// value is clamped into the range.
func (m *Manager) AddRangedInt(label string, value, min, max int) *RangedInt {
	m.queue(AddRangedNumber{
		Label:    label,
		Value:    float64(value),
		Min:      float64(min),
		Max:      float64(max),
		Integral: true,
	})
	return &RangedInt{m: m, label: label, seen: int(clamp(float64(value), float64(min), float64(max)))}
}

// Value returns the current slider position.
func (r *RangedInt) Value() int {
	st, err := componentAs[*rangedState](r.m.scene, r.label)
	if err != nil {
		return r.seen
	}
	r.seen = int(st.value)
	return r.seen
}

// NewValue returns the current position and whether it changed since the
// last read through this handle.
func (r *RangedInt) NewValue() (int, bool) {
	prev := r.seen
	v := r.Value()
	return v, v != prev
}

// Enum is a handle to a combo box over a fixed option list.
type Enum struct {
	m     *Manager
	label string
	seen  string
}

// AddEnum adds a combo box to the side panel. The initial value must be one
// of the options; otherwise the control is not registered and the handle
// keeps reporting the initial value.
func (m *Manager) AddEnum(label, value string, options ...string) *Enum {
	m.queue(AddEnum{Label: label, Value: value, Options: options})
	return &Enum{m: m, label: label, seen: value}
}

// Value returns the selected option.
func (e *Enum) Value() string {
	st, err := componentAs[*enumState](e.m.scene, e.label)
	if err != nil {
		return e.seen
	}
	e.seen = st.value
	return st.value
}

// NewValue returns the selected option and whether it changed since the
// last read through this handle.
func (e *Enum) NewValue() (string, bool) {
	prev := e.seen
	v := e.Value()
	return v, v != prev
}

// Button is a handle to a push button.
type Button struct {
	m     *Manager
	label string
}

// AddButton adds a push button to the side panel.
func (m *Manager) AddButton(label string) *Button {
	m.queue(AddButton{Label: label})
	return &Button{m: m, label: label}
}

// WasPressed reports whether the button was pressed since the last call,
// and clears the press.
func (b *Button) WasPressed() bool {
	st, err := componentAs[*buttonState](b.m.scene, b.label)
	if err != nil {
		return false
	}
	pressed := st.pressed
	st.pressed = false
	return pressed
}
