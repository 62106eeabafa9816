package peekviz

import (
	"encoding/json"
	"fmt"

	"github.com/peekviz/peekviz/entity"
	"github.com/peekviz/peekviz/pose"
)

// Kind identifies a message type on the wire.
type Kind string

// Downstream kinds flow from the manager to the presentation side; upstream
// kinds carry control events back to the manager.
const (
	KindAddWidget3       Kind = "add_widget3"
	KindAddImageWidget   Kind = "add_image_widget"
	KindSetImage         Kind = "set_image"
	KindAddBool          Kind = "add_bool"
	KindAddNumber        Kind = "add_number"
	KindAddRangedNumber  Kind = "add_ranged_number"
	KindAddEnum          Kind = "add_enum"
	KindAddButton        Kind = "add_button"
	KindPlaceEntity      Kind = "place_entity"
	KindUpdateEntityPose Kind = "update_entity_pose"
	KindDeleteComponent  Kind = "delete_component"

	KindSetBool         Kind = "set_bool"
	KindSetRangedNumber Kind = "set_ranged_number"
	KindSetEnum         Kind = "set_enum"
	KindPressButton     Kind = "press_button"
)

// Message is a single scene mutation or control event.
type Message interface {
	MessageKind() Kind
}

// ImageRGBA is a raw RGBA image as carried on the wire. Pix holds
// 4*Width*Height bytes in row-major order.
type ImageRGBA struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pix    []byte `json:"pix"`
}

// Valid reports whether the pixel buffer matches the declared dimensions.
func (img ImageRGBA) Valid() bool {
	return img.Width > 0 && img.Height > 0 && len(img.Pix) == 4*img.Width*img.Height
}

// AddWidget3 registers a named 3D viewport.
type AddWidget3 struct {
	Label string `json:"label"`
}

// AddImageWidget registers a named 2D image panel with its initial image.
type AddImageWidget struct {
	Label string    `json:"label"`
	Image ImageRGBA `json:"image"`
}

// SetImage replaces the image of an existing 2D image panel.
type SetImage struct {
	Label string    `json:"label"`
	Image ImageRGBA `json:"image"`
}

// AddBool registers a checkbox control.
type AddBool struct {
	Label string `json:"label"`
	Value bool   `json:"value"`
}

// AddNumber registers a read-only numeric display.
type AddNumber struct {
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Integral bool    `json:"integral,omitempty"`
}

// AddRangedNumber registers a slider bounded to [Min, Max]. Integral sliders
// step in whole numbers.
type AddRangedNumber struct {
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Integral bool    `json:"integral,omitempty"`
}

// AddEnum registers a combo box over a fixed option list.
type AddEnum struct {
	Label   string   `json:"label"`
	Value   string   `json:"value"`
	Options []string `json:"options"`
}

// AddButton registers a push button.
type AddButton struct {
	Label string `json:"label"`
}

// PlaceEntity adds an entity to a 3D widget at the given pose, replacing any
// entity with the same label.
type PlaceEntity struct {
	Widget string        `json:"widget"`
	Label  string        `json:"label"`
	Entity entity.Entity `json:"entity"`
	Pose   pose.Isometry `json:"pose"`
}

// UpdateEntityPose moves a previously placed entity. Unknown entities are a
// no-op.
type UpdateEntityPose struct {
	Widget string        `json:"widget"`
	Label  string        `json:"label"`
	Pose   pose.Isometry `json:"pose"`
}

// DeleteComponent removes a control from the side panel.
type DeleteComponent struct {
	Label string `json:"label"`
}

// SetBool reports a checkbox toggle from the presentation side.
type SetBool struct {
	Label string `json:"label"`
	Value bool   `json:"value"`
}

// SetRangedNumber reports a slider move from the presentation side.
type SetRangedNumber struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// SetEnum reports a combo box selection from the presentation side.
type SetEnum struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// PressButton reports a button press from the presentation side.
type PressButton struct {
	Label string `json:"label"`
}

// MessageKind implements [Message].
func (AddWidget3) MessageKind() Kind { return KindAddWidget3 }

func (AddImageWidget) MessageKind() Kind   { return KindAddImageWidget }
func (SetImage) MessageKind() Kind         { return KindSetImage }
func (AddBool) MessageKind() Kind          { return KindAddBool }
func (AddNumber) MessageKind() Kind        { return KindAddNumber }
func (AddRangedNumber) MessageKind() Kind  { return KindAddRangedNumber }
func (AddEnum) MessageKind() Kind          { return KindAddEnum }
func (AddButton) MessageKind() Kind        { return KindAddButton }
func (PlaceEntity) MessageKind() Kind      { return KindPlaceEntity }
func (UpdateEntityPose) MessageKind() Kind { return KindUpdateEntityPose }
func (DeleteComponent) MessageKind() Kind  { return KindDeleteComponent }
func (SetBool) MessageKind() Kind          { return KindSetBool }
func (SetRangedNumber) MessageKind() Kind  { return KindSetRangedNumber }
func (SetEnum) MessageKind() Kind          { return KindSetEnum }
func (PressButton) MessageKind() Kind      { return KindPressButton }

// envelope is the tagged-union wire form of a [Message].
type envelope struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeBatch serializes one sync cycle's messages as a JSON array of
// kind/payload envelopes.
func EncodeBatch(batch []Message) ([]byte, error) {
	envs := make([]envelope, 0, len(batch))
	for _, msg := range batch {
		payload, err := json.Marshal(msg)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", msg.MessageKind(), err)
		}
		envs = append(envs, envelope{Kind: msg.MessageKind(), Payload: payload})
	}
	return json.Marshal(envs)
}

// DecodeBatch parses a JSON batch produced by [EncodeBatch]. Unknown kinds
// are an error.
func DecodeBatch(data []byte) ([]Message, error) {
	var envs []envelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	batch := make([]Message, 0, len(envs))
	for _, env := range envs {
		msg, err := decodeMessage(env)
		if err != nil {
			return nil, err
		}
		batch = append(batch, msg)
	}
	return batch, nil
}

func decodeMessage(env envelope) (Message, error) {
	switch env.Kind {
	case KindAddWidget3:
		return decodePayload[AddWidget3](env)
	case KindAddImageWidget:
		return decodePayload[AddImageWidget](env)
	case KindSetImage:
		return decodePayload[SetImage](env)
	case KindAddBool:
		return decodePayload[AddBool](env)
	case KindAddNumber:
		return decodePayload[AddNumber](env)
	case KindAddRangedNumber:
		return decodePayload[AddRangedNumber](env)
	case KindAddEnum:
		return decodePayload[AddEnum](env)
	case KindAddButton:
		return decodePayload[AddButton](env)
	case KindPlaceEntity:
		return decodePayload[PlaceEntity](env)
	case KindUpdateEntityPose:
		return decodePayload[UpdateEntityPose](env)
	case KindDeleteComponent:
		return decodePayload[DeleteComponent](env)
	case KindSetBool:
		return decodePayload[SetBool](env)
	case KindSetRangedNumber:
		return decodePayload[SetRangedNumber](env)
	case KindSetEnum:
		return decodePayload[SetEnum](env)
	case KindPressButton:
		return decodePayload[PressButton](env)
	default:
		return nil, fmt.Errorf("decode batch: unknown kind %q", env.Kind)
	}
}

func decodePayload[T Message](env envelope) (Message, error) {
	var msg T
	if err := json.Unmarshal(env.Payload, &msg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Kind, err)
	}
	return msg, nil
}
