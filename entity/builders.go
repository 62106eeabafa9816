package entity

import "github.com/peekviz/peekviz/pose"

// ColoredCube returns a cube mesh spanning [-scale, scale] on each axis with
// a distinct color per face.
func ColoredCube(scale float32) Entity {
	s := scale
	vertices := []Vertex{
		{-s, -s, -s, 1.0, 0.5, 0.5, 1.0},
		{s, -s, -s, 1.0, 0.5, 0.5, 1.0},
		{s, s, -s, 1.0, 0.5, 0.5, 1.0},
		{-s, s, -s, 1.0, 0.5, 0.5, 1.0},

		{-s, -s, s, 0.5, 1.0, 0.5, 1.0},
		{s, -s, s, 0.5, 1.0, 0.5, 1.0},
		{s, s, s, 0.5, 1.0, 0.5, 1.0},
		{-s, s, s, 0.5, 1.0, 0.5, 1.0},

		{-s, -s, -s, 0.5, 0.5, 1.0, 1.0},
		{-s, s, -s, 0.5, 0.5, 1.0, 1.0},
		{-s, s, s, 0.5, 0.5, 1.0, 1.0},
		{-s, -s, s, 0.5, 0.5, 1.0, 1.0},

		{s, -s, -s, 1.0, 0.5, 0.0, 1.0},
		{s, s, -s, 1.0, 0.5, 0.0, 1.0},
		{s, s, s, 1.0, 0.5, 0.0, 1.0},
		{s, -s, s, 1.0, 0.5, 0.0, 1.0},

		{-s, -s, -s, 0.0, 0.5, 1.0, 1.0},
		{-s, -s, s, 0.0, 0.5, 1.0, 1.0},
		{s, -s, s, 0.0, 0.5, 1.0, 1.0},
		{s, -s, -s, 0.0, 0.5, 1.0, 1.0},

		{-s, s, -s, 1.0, 0.0, 0.5, 1.0},
		{-s, s, s, 1.0, 0.0, 0.5, 1.0},
		{s, s, s, 1.0, 0.0, 0.5, 1.0},
		{s, s, -s, 1.0, 0.0, 0.5, 1.0},
	}
	faces := [][3]int16{
		{0, 1, 2}, {0, 2, 3},
		{6, 5, 4}, {7, 6, 4},
		{8, 9, 10}, {8, 10, 11},
		{14, 13, 12}, {15, 14, 12},
		{16, 17, 18}, {16, 18, 19},
		{22, 21, 20}, {23, 22, 20},
	}
	return Entity{Mesh: &Mesh{Vertices: vertices, Faces: faces}}
}

// Triangle is a single colored triangle face.
type Triangle struct {
	A, B, C pose.Vector3
	Color   Color
}

// ColoredTriangles returns a mesh holding the given triangles, one vertex
// color per face.
func ColoredTriangles(triangles []Triangle) Entity {
	vertices := make([]Vertex, 0, 3*len(triangles))
	faces := make([][3]int16, 0, len(triangles))
	for i, tri := range triangles {
		vertices = append(vertices,
			NewVertex(tri.A, tri.Color),
			NewVertex(tri.B, tri.Color),
			NewVertex(tri.C, tri.Color),
		)
		base := int16(i * 3)
		faces = append(faces, [3]int16{base, base + 1, base + 2})
	}
	return Entity{Mesh: &Mesh{Vertices: vertices, Faces: faces}}
}

// Axes returns a coordinate frame marker of the given scale: the x, y and z
// axes as red, green and blue line segments from the origin.
func Axes(scale float32) Entity {
	s := scale
	vertices := []Vertex{
		{0, 0, 0, 1, 0, 0, 1},
		{0, 0, 0, 0, 1, 0, 1},
		{0, 0, 0, 0, 0, 1, 1},
		{s, 0, 0, 1, 0, 0, 1},
		{0, s, 0, 0, 1, 0, 1},
		{0, 0, s, 0, 0, 1, 1},
	}
	segments := [][2]int16{{0, 3}, {1, 4}, {2, 5}}
	return Entity{Lines: &LineSet{Vertices: vertices, Segments: segments}}
}

// ColoredPoints returns a point cloud of uniform color. Each point is
// represented as a tiny triangle so it survives triangle-only renderers.
func ColoredPoints(points []pose.Vector3, c Color) Entity {
	const eps = 0.01
	vertices := make([]Vertex, 0, 3*len(points))
	faces := make([][3]int16, 0, len(points))
	for i, p := range points {
		vertices = append(vertices,
			NewVertex(p.Add(pose.Vec3(eps, 0, 0)), c),
			NewVertex(p.Add(pose.Vec3(0, eps, 0)), c),
			NewVertex(p.Add(pose.Vec3(0, 0, eps)), c),
		)
		base := int16(i * 3)
		faces = append(faces, [3]int16{base, base + 1, base + 2})
	}
	return Entity{Mesh: &Mesh{Vertices: vertices, Faces: faces}}
}
