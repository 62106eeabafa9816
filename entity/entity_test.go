package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekviz/peekviz/pose"
)

func TestColoredCube(t *testing.T) {
	e := ColoredCube(0.5)
	require.NotNil(t, e.Mesh)
	assert.Nil(t, e.Lines)
	assert.Len(t, e.Mesh.Vertices, 24)
	assert.Len(t, e.Mesh.Faces, 12)

	for _, v := range e.Mesh.Vertices {
		p := v.Position()
		assert.InDelta(t, 0.5, abs(p.X), 1e-6)
		assert.InDelta(t, 0.5, abs(p.Y), 1e-6)
		assert.InDelta(t, 0.5, abs(p.Z), 1e-6)
	}
	for _, f := range e.Mesh.Faces {
		for _, idx := range f {
			assert.GreaterOrEqual(t, idx, int16(0))
			assert.Less(t, int(idx), len(e.Mesh.Vertices))
		}
	}
}

func TestColoredTriangles(t *testing.T) {
	red := RGBA(1, 0, 0, 1)
	e := ColoredTriangles([]Triangle{
		{A: pose.Vec3(0, 0, 0), B: pose.Vec3(1, 0, 0), C: pose.Vec3(0, 1, 0), Color: red},
		{A: pose.Vec3(0, 0, 1), B: pose.Vec3(1, 0, 1), C: pose.Vec3(0, 1, 1), Color: red},
	})
	require.NotNil(t, e.Mesh)
	assert.Len(t, e.Mesh.Vertices, 6)
	require.Len(t, e.Mesh.Faces, 2)
	assert.Equal(t, [3]int16{0, 1, 2}, e.Mesh.Faces[0])
	assert.Equal(t, [3]int16{3, 4, 5}, e.Mesh.Faces[1])
	assert.Equal(t, red, e.Mesh.Vertices[0].Color())
}

func TestAxes(t *testing.T) {
	e := Axes(2)
	require.NotNil(t, e.Lines)
	assert.Len(t, e.Lines.Vertices, 6)
	assert.Len(t, e.Lines.Segments, 3)
	// x axis endpoint is red and at distance scale.
	end := e.Lines.Vertices[e.Lines.Segments[0][1]]
	assert.Equal(t, pose.Vec3(2, 0, 0), end.Position())
	assert.Equal(t, RGBA(1, 0, 0, 1), end.Color())
}

func TestColoredPoints(t *testing.T) {
	c := RGBA(0, 1, 0, 1)
	e := ColoredPoints([]pose.Vector3{{X: 1}, {Y: 1}, {Z: 1}}, c)
	require.NotNil(t, e.Mesh)
	assert.Len(t, e.Mesh.Vertices, 9)
	assert.Len(t, e.Mesh.Faces, 3)
	for _, v := range e.Mesh.Vertices {
		assert.Equal(t, c, v.Color())
	}
}

func TestIsZero(t *testing.T) {
	assert.True(t, Entity{}.IsZero())
	assert.False(t, ColoredCube(1).IsZero())
	assert.False(t, Axes(1).IsZero())
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
