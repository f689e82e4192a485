package renderer

import "github.com/Faultbox/stylistic-fog/pkg/math"

// Vertex layout: position (3) + normal (3).
const floatsPerVertex = 6

// Mesh is interleaved position/normal triangle data.
type Mesh struct {
	Vertices []float32
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / floatsPerVertex
}

func (m *Mesh) quad(a, b, c, d, n math.Vec3) {
	for _, p := range []math.Vec3{a, b, c, a, c, d} {
		m.Vertices = append(m.Vertices, p.X, p.Y, p.Z, n.X, n.Y, n.Z)
	}
}

// GroundMesh builds a flat square of the given half extent on the XZ plane,
// split into tiles*tiles quads facing +Y.
func GroundMesh(halfExtent float32, tiles int) *Mesh {
	tiles = max(tiles, 1)
	m := &Mesh{Vertices: make([]float32, 0, tiles*tiles*6*floatsPerVertex)}
	step := 2 * halfExtent / float32(tiles)
	up := math.Vec3{Y: 1}

	for i := 0; i < tiles; i++ {
		for j := 0; j < tiles; j++ {
			x0 := -halfExtent + float32(i)*step
			z0 := -halfExtent + float32(j)*step
			x1, z1 := x0+step, z0+step
			m.quad(
				math.Vec3{X: x0, Z: z1},
				math.Vec3{X: x1, Z: z1},
				math.Vec3{X: x1, Z: z0},
				math.Vec3{X: x0, Z: z0},
				up,
			)
		}
	}
	return m
}

// BoxMesh builds a unit cube spanning [-0.5, 0.5] on X and Z and [0, 1] on Y,
// so scaled boxes stand on the ground.
func BoxMesh() *Mesh {
	m := &Mesh{Vertices: make([]float32, 0, 36*floatsPerVertex)}
	const h = 0.5
	p := func(x, y, z float32) math.Vec3 { return math.Vec3{X: x, Y: y, Z: z} }

	m.quad(p(-h, 0, h), p(h, 0, h), p(h, 1, h), p(-h, 1, h), math.Vec3{Z: 1})     // front
	m.quad(p(h, 0, -h), p(-h, 0, -h), p(-h, 1, -h), p(h, 1, -h), math.Vec3{Z: -1}) // back
	m.quad(p(h, 0, h), p(h, 0, -h), p(h, 1, -h), p(h, 1, h), math.Vec3{X: 1})      // right
	m.quad(p(-h, 0, -h), p(-h, 0, h), p(-h, 1, h), p(-h, 1, -h), math.Vec3{X: -1}) // left
	m.quad(p(-h, 1, h), p(h, 1, h), p(h, 1, -h), p(-h, 1, -h), math.Vec3{Y: 1})    // top
	m.quad(p(-h, 0, -h), p(h, 0, -h), p(h, 0, h), p(-h, 0, h), math.Vec3{Y: -1})   // bottom
	return m
}

// Pillar is one box instance of the demo scene.
type Pillar struct {
	Position math.Vec3
	Width    float32
	Height   float32
	Color    [3]float32
}

// Model returns the pillar's model matrix.
func (p Pillar) Model() math.Mat4 {
	return math.Translate(p.Position.X, p.Position.Y, p.Position.Z).Mul(math.Scale(p.Width, p.Height, p.Width))
}

// DemoPillars lays out rows of pillars receding from the origin, so distance
// and height fog are both visible.
func DemoPillars(rows, perRow int, spacing float32) []Pillar {
	pillars := make([]Pillar, 0, rows*perRow)
	for r := 0; r < rows; r++ {
		for c := 0; c < perRow; c++ {
			x := (float32(c) - float32(perRow-1)/2) * spacing
			z := -float32(r) * spacing
			// Heights cycle so some pillars rise out of the height fog.
			height := 2 + float32((r*3+c*5)%7)*1.5
			shade := 0.35 + 0.1*float32((r+c)%4)
			pillars = append(pillars, Pillar{
				Position: math.Vec3{X: x, Z: z},
				Width:    1.5,
				Height:   height,
				Color:    [3]float32{shade + 0.2, shade, shade - 0.1},
			})
		}
	}
	return pillars
}
