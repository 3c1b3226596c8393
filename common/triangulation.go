package common

// Vertex is a point in a triangulation, optionally carrying the index it
// had in the original point list. Vertices synthesized by the algorithm
// (the super-triangle corners) have Index == -1.
type Vertex struct {
	Val   Vec2
	Index int
}

// TriangleEdge is an undirected edge between two triangulation vertices.
type TriangleEdge struct {
	P, Q Vertex
}

// ClosestPointTo projects a point onto the edge segment.
//
// Parameters:
//   - v: the point to project
//
// Returns:
//   - Vec2: the closest point on the segment to v
func (e TriangleEdge) ClosestPointTo(v Vec2) Vec2 {
	pq := e.Q.Val.Sub(e.P.Val)
	pv := v.Sub(e.P.Val)

	t := pv.Dot(pq) / pq.LengthSquared()
	if t < 0 {
		return e.P.Val
	}
	if t > 1 {
		return e.Q.Val
	}
	return e.P.Val.Add(pq.Scale(t))
}

func (e TriangleEdge) sameVertices(o TriangleEdge) bool {
	return (e.P == o.P && e.Q == o.Q) || (e.P == o.Q && e.Q == o.P)
}

// Triangle is a triangle over three triangulation vertices.
type Triangle struct {
	P, Q, R Vertex
}

// Edges returns the three edges of the triangle.
//
// Returns:
//   - [3]TriangleEdge: the edges PQ, QR, RP
func (t Triangle) Edges() [3]TriangleEdge {
	return [3]TriangleEdge{{t.P, t.Q}, {t.Q, t.R}, {t.R, t.P}}
}

// BarycentricCoordinates expresses a point as weights over the triangle
// vertices. The weights sum to 1; any weight is negative when the point
// lies outside the triangle.
//
// Parameters:
//   - v: the point to express
//
// Returns:
//   - [3]float32: the weights for vertices P, Q, R
func (t Triangle) BarycentricCoordinates(v Vec2) [3]float32 {
	v0 := t.Q.Val.Sub(t.P.Val)
	v1 := t.R.Val.Sub(t.P.Val)
	v2 := v.Sub(t.P.Val)

	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)

	denom := d00*d11 - d01*d01
	y := (d11*d20 - d01*d21) / denom
	z := (d00*d21 - d01*d20) / denom
	return [3]float32{1 - y - z, y, z}
}

// Contains reports whether the point lies inside (or on the boundary of)
// the triangle.
//
// Parameters:
//   - v: the point to test
//
// Returns:
//   - bool: true if the point is inside the triangle
func (t Triangle) Contains(v Vec2) bool {
	b := t.BarycentricCoordinates(v)
	return b[0] >= 0 && b[1] >= 0 && b[2] >= 0
}

// circumcenter returns the center of the triangle's circumscribed circle,
// or false for degenerate (collinear) triangles.
func (t Triangle) circumcenter() (Vec2, bool) {
	pq := lineFromPoints(t.P.Val, t.Q.Val)
	qr := lineFromPoints(t.Q.Val, t.R.Val)

	return pq.bisectorBetween(t.P.Val, t.Q.Val).intersection(qr.bisectorBetween(t.Q.Val, t.R.Val))
}

func superTriangle(vertices []Vertex) Triangle {
	lo := Vec2{X: float32inf, Y: float32inf}
	hi := Vec2{X: -float32inf, Y: -float32inf}
	for _, v := range vertices {
		lo = lo.Min(v.Val)
		hi = hi.Max(v.Val)
	}
	margin := hi.Sub(lo).Scale(10)
	return Triangle{
		P: Vertex{Val: Vec2{lo.X - margin.X, lo.Y - margin.Y*3}, Index: -1},
		Q: Vertex{Val: Vec2{lo.X - margin.X, hi.Y + margin.Y}, Index: -1},
		R: Vertex{Val: Vec2{hi.X + margin.X*3, hi.Y + margin.Y}, Index: -1},
	}
}

const float32inf = float32(3.4028235e38)

// cachedTriangle stores a triangle together with its circumcircle so the
// in-circumcircle test during incremental insertion is O(1).
type cachedTriangle struct {
	tri       Triangle
	center    Vec2
	radius    float32
	hasCircle bool
}

func cacheTriangle(t Triangle) cachedTriangle {
	c, ok := t.circumcenter()
	ct := cachedTriangle{tri: t, hasCircle: ok}
	if ok {
		ct.center = c
		ct.radius = t.P.Val.Distance(c)
	}
	return ct
}

// inCircumcircle treats degenerate triangles as always containing the
// point, so they get removed during insertion.
func (c cachedTriangle) inCircumcircle(v Vec2) bool {
	if !c.hasCircle {
		return true
	}
	return v.Distance(c.center) <= c.radius
}

// distanceToPoint finds the closest point inside the triangle to the
// given point and the distance to it. The distance is 0 when the point is
// inside the triangle.
func (c cachedTriangle) distanceToPoint(p Vec2) (Vec2, float32) {
	if c.tri.Contains(p) {
		return p, 0
	}
	var best Vec2
	bestSq := float32inf
	for _, e := range c.tri.Edges() {
		cp := e.ClosestPointTo(p)
		if d := cp.Sub(p).LengthSquared(); d < bestSq {
			best, bestSq = cp, d
		}
	}
	return best, best.Distance(p)
}

// Triangulation is a Delaunay triangulation of a 2D point set, built once
// at load time and queried at runtime for barycentric blend weights.
type Triangulation struct {
	triangles []cachedTriangle
}

// VertexWeight pairs a triangulation vertex with a barycentric weight.
type VertexWeight struct {
	Vertex Vertex
	Weight float32
}

// NewTriangulation computes the Delaunay triangulation of the given
// points using Bowyer-Watson incremental insertion. Triangles touching
// the synthetic super-triangle are discarded from the result.
//
// Parameters:
//   - points: the anchor points to triangulate
//
// Returns:
//   - Triangulation: the computed triangulation
func NewTriangulation(points []Vec2) Triangulation {
	vertices := make([]Vertex, len(points))
	for i, p := range points {
		vertices[i] = Vertex{Val: p, Index: i}
	}

	triangles := []cachedTriangle{cacheTriangle(superTriangle(vertices))}
	for _, v := range vertices {
		triangles = addVertex(triangles, v)
	}

	kept := make([]cachedTriangle, 0, len(triangles))
	for _, t := range triangles {
		if t.tri.P.Index >= 0 && t.tri.Q.Index >= 0 && t.tri.R.Index >= 0 {
			kept = append(kept, t)
		}
	}
	return Triangulation{triangles: kept}
}

func addVertex(triangles []cachedTriangle, vertex Vertex) []cachedTriangle {
	var edges []TriangleEdge
	kept := triangles[:0]
	for _, t := range triangles {
		if t.inCircumcircle(vertex.Val) {
			for _, e := range t.tri.Edges() {
				edges = append(edges, e)
			}
		} else {
			kept = append(kept, t)
		}
	}

	// Edges shared by two removed triangles are interior to the cavity
	// and must not be re-triangulated.
	boundary := make([]TriangleEdge, 0, len(edges))
	for i, e := range edges {
		shared := false
		for j, o := range edges {
			if i != j && e.sameVertices(o) {
				shared = true
				break
			}
		}
		if !shared {
			boundary = append(boundary, e)
		}
	}

	out := make([]cachedTriangle, len(kept), len(kept)+len(boundary))
	copy(out, kept)
	for _, e := range boundary {
		out = append(out, cacheTriangle(Triangle{P: e.P, Q: e.Q, R: vertex}))
	}
	return out
}

// Len returns the number of triangles in the triangulation.
//
// Returns:
//   - int: the triangle count
func (t Triangulation) Len() int {
	return len(t.triangles)
}

// FindLinearCombination locates the triangle closest to the query point
// and returns its three vertices with barycentric weights. Points outside
// the hull are projected onto the nearest triangle first, so the returned
// weights always lie in [0, 1] and sum to 1.
//
// Parameters:
//   - p: the query point
//
// Returns:
//   - [3]VertexWeight: the vertices of the closest triangle and their weights
//   - bool: false if the triangulation is empty
func (t Triangulation) FindLinearCombination(p Vec2) ([3]VertexWeight, bool) {
	if len(t.triangles) == 0 {
		return [3]VertexWeight{}, false
	}

	bestIdx := 0
	bestPoint := p
	bestDist := float32inf
	for i, tri := range t.triangles {
		cp, d := tri.distanceToPoint(p)
		if d < bestDist {
			bestIdx, bestPoint, bestDist = i, cp, d
		}
	}

	tri := t.triangles[bestIdx].tri
	b := tri.BarycentricCoordinates(bestPoint)
	return [3]VertexWeight{
		{Vertex: tri.P, Weight: b[0]},
		{Vertex: tri.Q, Weight: b[1]},
		{Vertex: tri.R, Weight: b[2]},
	}, true
}

// lines in the form ax + by = c, used for circumcenter computation.
type line struct {
	a, b, c float32
}

func lineFromPoints(p, q Vec2) line {
	a := q.Y - p.Y
	b := p.X - q.X
	return line{a: a, b: b, c: a*p.X + b*p.Y}
}

func (l line) intersection(o line) (Vec2, bool) {
	det := l.a*o.b - o.a*l.b
	if det == 0 {
		return Vec2{}, false
	}
	return Vec2{
		X: (o.b*l.c - l.b*o.c) / det,
		Y: (l.a*o.c - o.a*l.c) / det,
	}, true
}

func (l line) bisectorBetween(p, q Vec2) line {
	mid := p.Add(q).Scale(0.5)
	return line{a: -l.b, b: l.a, c: -l.b*mid.X + l.a*mid.Y}
}
