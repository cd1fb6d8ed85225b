package engine

// Mesh is a triangle list ready for upload: xyz position triples and indices
// into them.
type Mesh struct {
	Positions []float32 `json:"positions"`
	Indices   []uint16  `json:"indices"`
}

// VertexCount returns the number of vertices in the mesh.
func (m Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// AppendPolygon adds a convex polygon to the mesh as a triangle fan rooted at
// its first vertex. Polygons with fewer than three vertices are ignored.
func (m *Mesh) AppendPolygon(p Polygon) {
	if len(p) < 3 {
		return
	}
	base := uint16(m.VertexCount())
	for _, v := range p {
		m.Positions = append(m.Positions, float32(v.X()), float32(v.Y()), float32(v.Z()))
	}
	for i := 1; i+1 < len(p); i++ {
		m.Indices = append(m.Indices, base, base+uint16(i), base+uint16(i+1))
	}
}

// ShadowMesh triangulates shadow polygons into one mesh.
func ShadowMesh(polys []ShadowPolygon) Mesh {
	var m Mesh
	for _, p := range polys {
		m.AppendPolygon(p.Vertices)
	}
	return m
}
