package peekviz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekviz/peekviz/entity"
	"github.com/peekviz/peekviz/pose"
)

func TestBatchRoundTrip(t *testing.T) {
	batch := []Message{
		AddWidget3{Label: "scene"},
		AddBool{Label: "spin", Value: true},
		AddRangedNumber{Label: "scale", Value: 0.5, Min: 0, Max: 1},
		AddEnum{Label: "axis", Value: "y", Options: []string{"x", "y", "z"}},
		PlaceEntity{Widget: "scene", Label: "cube", Entity: entity.ColoredCube(0.5), Pose: pose.Identity()},
		UpdateEntityPose{Widget: "scene", Label: "cube", Pose: pose.RotY(1)},
		DeleteComponent{Label: "spin"},
		SetRangedNumber{Label: "scale", Value: 0.7},
		PressButton{Label: "reset"},
	}

	data, err := EncodeBatch(batch)
	require.NoError(t, err)

	got, err := DecodeBatch(data)
	require.NoError(t, err)
	require.Len(t, got, len(batch))
	for i := range batch {
		assert.Equal(t, batch[i].MessageKind(), got[i].MessageKind())
	}

	assert.Equal(t, batch[3], got[3])

	placed, ok := got[4].(PlaceEntity)
	require.True(t, ok)
	assert.Equal(t, "cube", placed.Label)
	require.NotNil(t, placed.Entity.Mesh)
	assert.Len(t, placed.Entity.Mesh.Vertices, 24)
	assert.Len(t, placed.Entity.Mesh.Faces, 12)
}

func TestDecodeBatchUnknownKind(t *testing.T) {
	_, err := DecodeBatch([]byte(`[{"kind":"bogus","payload":{}}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestDecodeBatchBadPayload(t *testing.T) {
	_, err := DecodeBatch([]byte(`[{"kind":"add_bool","payload":[1,2,3]}]`))
	require.Error(t, err)
}

func TestImageRGBAValid(t *testing.T) {
	assert.False(t, ImageRGBA{}.Valid())
	assert.False(t, ImageRGBA{Width: 2, Height: 2, Pix: make([]byte, 15)}.Valid())
	assert.True(t, ImageRGBA{Width: 2, Height: 2, Pix: make([]byte, 16)}.Valid())
}
