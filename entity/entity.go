// Package entity defines the renderable primitives placed into 3D widgets:
// colored triangle meshes and line sets, plus builders for the common debug
// shapes (cubes, triangle soups, coordinate axes, point clouds).
package entity

import "github.com/peekviz/peekviz/pose"

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// RGBA returns a new [Color].
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Vertex is a position followed by an RGBA color: x, y, z, r, g, b, a.
type Vertex [7]float32

// NewVertex builds a [Vertex] from a position and a color.
func NewVertex(p pose.Vector3, c Color) Vertex {
	return Vertex{p.X, p.Y, p.Z, c.R, c.G, c.B, c.A}
}

// Position returns the positional part of the vertex.
func (v Vertex) Position() pose.Vector3 {
	return pose.Vec3(v[0], v[1], v[2])
}

// Color returns the color part of the vertex.
func (v Vertex) Color() Color {
	return Color{R: v[3], G: v[4], B: v[5], A: v[6]}
}

// Mesh is a triangle mesh over colored vertices. Each face holds three
// indices into Vertices. Indices are int16, so a mesh is limited to 32767
// vertices.
type Mesh struct {
	Vertices []Vertex   `json:"vertices"`
	Faces    [][3]int16 `json:"faces"`
}

// LineSet is a set of line segments over colored vertices. Each segment
// holds two indices into Vertices.
type LineSet struct {
	Vertices []Vertex   `json:"vertices"`
	Segments [][2]int16 `json:"segments"`
}

// Entity is a renderable primitive: exactly one of Mesh or Lines is set.
type Entity struct {
	Mesh  *Mesh    `json:"mesh,omitempty"`
	Lines *LineSet `json:"lines,omitempty"`
}

// IsZero reports whether the entity holds no primitive.
func (e Entity) IsZero() bool {
	return e.Mesh == nil && e.Lines == nil
}
