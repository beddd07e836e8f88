package epa

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/ljramones/DynamisCollision/gjk"
)

// PolytopeBuilder owns the mutable buffers EPA's expansion loop reuses
// across iterations: the polytope's current faces, a deduplicated point set
// for centroid estimation, a boundary-edge scratch buffer, and a list of
// faces visible from the current support point.
type PolytopeBuilder struct {
	faces []Face

	// uniquePoints is kept sorted (via compareVec3) so calculateCentroid can
	// deduplicate shared vertices with a binary search instead of a set.
	uniquePoints []mgl64.Vec3

	edges          []EdgeEntry
	visibleIndices []int
}

// EdgeEntry tracks one polytope edge (normalized so A precedes B under
// compareVec3) and how many visible faces share it. An edge shared by
// exactly one visible face sits on the silhouette boundary; shared by two,
// it is interior to the visible region and gets discarded.
type EdgeEntry struct {
	A, B  mgl64.Vec3
	Count int
}

// polytopeBuilderPool recycles PolytopeBuilder instances across EPA calls
// so a hot narrow-phase loop doesn't allocate a fresh builder every query.
var polytopeBuilderPool = sync.Pool{
	New: func() interface{} {
		return &PolytopeBuilder{
			faces:          make([]Face, 0, polytopeInitialCapacity),
			uniquePoints:   make([]mgl64.Vec3, 0, polytopeInitialCapacity),
			edges:          make([]EdgeEntry, 0, polytopeInitialCapacity),
			visibleIndices: make([]int, 0, polytopeInitialCapacity),
		}
	},
}

// Reset clears the builder's buffers (keeping their backing arrays) so a
// pooled builder can be reused for a new EPA query.
func (b *PolytopeBuilder) Reset() {
	b.faces = b.faces[:0]
	b.uniquePoints = b.uniquePoints[:0]
	b.edges = b.edges[:0]
	b.visibleIndices = b.visibleIndices[:0]
}

// BuildInitialFaces seeds the polytope from GJK's terminating tetrahedron:
// one outward-facing triangle per face of the simplex, dropping any whose
// distance from the origin falls below EPAMinFaceDistance unless doing so
// would leave fewer than three faces, in which case all four are kept.
func (b *PolytopeBuilder) BuildInitialFaces(simplex *gjk.Simplex) error {
	if simplex.Count != 4 {
		return fmt.Errorf("invalid simplex count: %d (expected 4)", simplex.Count)
	}

	p0, p1, p2, p3 := simplex.Points[0], simplex.Points[1], simplex.Points[2], simplex.Points[3]

	candidateFaces := [4]Face{
		b.createFaceOutward(p0, p1, p2, p3), // ABC, opposite D
		b.createFaceOutward(p0, p2, p3, p1), // ACD, opposite B
		b.createFaceOutward(p0, p3, p1, p2), // ADB, opposite C
		b.createFaceOutward(p1, p3, p2, p0), // BDC, opposite A
	}

	for i := 0; i < 4; i++ {
		if candidateFaces[i].Distance >= EPAMinFaceDistance {
			b.faces = append(b.faces, candidateFaces[i])
		}
	}

	if len(b.faces) < 3 {
		b.faces = b.faces[:0]
		for i := 0; i < 4; i++ {
			b.faces = append(b.faces, candidateFaces[i])
		}
	}

	return nil
}

// createFaceOutward builds the triangle p0,p1,p2 with its normal oriented
// away from oppositePoint (the simplex's fourth vertex, or the running
// centroid during expansion) and its plane distance forced non-negative.
func (b *PolytopeBuilder) createFaceOutward(p0, p1, p2, oppositePoint mgl64.Vec3) Face {
	var face Face
	face.Points = [3]mgl64.Vec3{p0, p1, p2}

	edge1 := p1.Sub(p0)
	edge2 := p2.Sub(p0)
	normal := edge1.Cross(edge2)

	normalLength := math.Sqrt(normal.Dot(normal))
	if normalLength < 1e-8 {
		face.Normal = mgl64.Vec3{0, 1, 0}
		face.Distance = EPAMinFaceDistance
		return face
	}
	normal = normal.Mul(1.0 / normalLength)

	toOpposite := oppositePoint.Sub(p0)
	if normal.Dot(toOpposite) > 0 {
		normal = normal.Mul(-1)
	}

	distance := p0.Dot(normal)
	if distance < 0 {
		normal = normal.Mul(-1)
		distance = -distance
	}
	if distance < EPAMinFaceDistance {
		distance = EPAMinFaceDistance
	}

	face.Normal = snapNormalToAxis(normal)
	face.Distance = distance

	return face
}

// FindClosestFaceIndex returns the index of the face nearest the origin,
// or -1 if the polytope is empty.
func (b *PolytopeBuilder) FindClosestFaceIndex() int {
	if len(b.faces) == 0 {
		return -1
	}

	closestIndex := 0
	minDistance := b.faces[0].Distance
	for i := 1; i < len(b.faces); i++ {
		if b.faces[i].Distance < minDistance {
			closestIndex = i
			minDistance = b.faces[i].Distance
		}
	}
	return closestIndex
}

// calculateCentroid averages the polytope's distinct vertices, deduplicated
// via a sorted insert so a vertex shared by several faces counts once.
func (b *PolytopeBuilder) calculateCentroid() mgl64.Vec3 {
	b.uniquePoints = b.uniquePoints[:0]

	for i := range b.faces {
		face := &b.faces[i]
		for j := 0; j < 3; j++ {
			b.insertUniquePoint(face.Points[j])
		}
	}

	if len(b.uniquePoints) == 0 {
		return mgl64.Vec3{0, 0, 0}
	}

	sum := mgl64.Vec3{0, 0, 0}
	for _, p := range b.uniquePoints {
		sum = sum.Add(p)
	}
	return sum.Mul(1.0 / float64(len(b.uniquePoints)))
}

// insertUniquePoint inserts point into the sorted uniquePoints buffer,
// leaving it untouched if an exactly-equal point is already present.
func (b *PolytopeBuilder) insertUniquePoint(point mgl64.Vec3) {
	insertIdx := b.findPointInsertionIndex(point)
	if insertIdx < len(b.uniquePoints) && vec3Equal(b.uniquePoints[insertIdx], point) {
		return
	}
	b.uniquePoints = append(b.uniquePoints, mgl64.Vec3{})
	copy(b.uniquePoints[insertIdx+1:], b.uniquePoints[insertIdx:])
	b.uniquePoints[insertIdx] = point
}

// findPointInsertionIndex binary-searches the sorted uniquePoints buffer
// for where point belongs under compareVec3.
func (b *PolytopeBuilder) findPointInsertionIndex(point mgl64.Vec3) int {
	left, right := 0, len(b.uniquePoints)
	for left < right {
		mid := (left + right) / 2
		if compareVec3(b.uniquePoints[mid], point) < 0 {
			left = mid + 1
		} else {
			right = mid
		}
	}
	return left
}

// findBoundaryEdges rebuilds the edge-count table from the currently
// visible faces: each triangle contributes its three edges, normalized so
// A precedes B, and an edge seen twice is interior rather than boundary.
func (b *PolytopeBuilder) findBoundaryEdges() error {
	b.edges = b.edges[:0]

	for _, faceIdx := range b.visibleIndices {
		face := &b.faces[faceIdx]
		triangleEdges := [3][2]mgl64.Vec3{
			{face.Points[0], face.Points[1]},
			{face.Points[1], face.Points[2]},
			{face.Points[2], face.Points[0]},
		}

		for _, edge := range triangleEdges {
			edgeA, edgeB := edge[0], edge[1]
			if compareVec3(edgeA, edgeB) > 0 {
				edgeA, edgeB = edgeB, edgeA
			}

			if edgeIdx := b.findEdgeIndex(edgeA, edgeB); edgeIdx >= 0 {
				b.edges[edgeIdx].Count++
			} else {
				b.edges = append(b.edges, EdgeEntry{A: edgeA, B: edgeB, Count: 1})
			}
		}
	}

	return nil
}

// findEdgeIndex linearly scans the edge buffer for edgeA/edgeB, which stays
// small enough (the silhouette of a handful of visible faces) that a map
// would cost more than it saves.
func (b *PolytopeBuilder) findEdgeIndex(edgeA, edgeB mgl64.Vec3) int {
	for i := range b.edges {
		if vec3Equal(b.edges[i].A, edgeA) && vec3Equal(b.edges[i].B, edgeB) {
			return i
		}
	}
	return -1
}

// findVisibleFaces records which faces the support point lies in front of
// (its normal's half-space), the region AddPointAndRebuildFaces replaces.
func (b *PolytopeBuilder) findVisibleFaces(support mgl64.Vec3) {
	b.visibleIndices = b.visibleIndices[:0]

	for i := range b.faces {
		face := &b.faces[i]
		toSupport := support.Sub(face.Points[0])
		if toSupport.Dot(face.Normal) > 0 {
			b.visibleIndices = append(b.visibleIndices, i)
		}
	}
}

// removeVisibleFaces deletes the faces named in visibleIndices via
// swap-with-last, removing from the highest index down so earlier removals
// never invalidate a later one's index.
func (b *PolytopeBuilder) removeVisibleFaces() {
	sort.Sort(sort.Reverse(sort.IntSlice(b.visibleIndices)))

	for _, idx := range b.visibleIndices {
		if idx < len(b.faces) {
			b.faces[idx] = b.faces[len(b.faces)-1]
			b.faces = b.faces[:len(b.faces)-1]
		}
	}
}

// addBoundaryFaces cones each boundary edge (Count == 1) to the support
// point, closing the hole removeVisibleFaces left in the polytope.
func (b *PolytopeBuilder) addBoundaryFaces(support mgl64.Vec3, centroid mgl64.Vec3) error {
	for i := range b.edges {
		edge := &b.edges[i]
		if edge.Count != 1 {
			continue
		}
		b.faces = append(b.faces, b.createFaceOutward(edge.A, edge.B, support, centroid))
	}
	return nil
}

// AddPointAndRebuildFaces expands the polytope to include support: faces
// visible from support are replaced by new faces fanning out from support
// to the silhouette's boundary edges. closestIndex is kept as a fallback
// visible set when support would otherwise see (and remove) every face.
func (b *PolytopeBuilder) AddPointAndRebuildFaces(support mgl64.Vec3, closestIndex int) error {
	centroid := b.calculateCentroid()

	b.findVisibleFaces(support)
	if len(b.visibleIndices) >= len(b.faces) {
		b.visibleIndices = b.visibleIndices[:0]
		b.visibleIndices = append(b.visibleIndices, closestIndex)
	}

	if err := b.findBoundaryEdges(); err != nil {
		return err
	}

	b.removeVisibleFaces()

	if err := b.addBoundaryFaces(support, centroid); err != nil {
		return err
	}

	if len(b.faces) == 0 {
		b.faces = append(b.faces, Face{
			Points:   [3]mgl64.Vec3{support, support, support},
			Normal:   mgl64.Vec3{0, 1, 0},
			Distance: EPAMinFaceDistance,
		})
	}

	return nil
}

// GetClosestFace returns the face nearest the origin, or nil if the
// polytope is empty.
func (b *PolytopeBuilder) GetClosestFace() *Face {
	if len(b.faces) == 0 {
		return nil
	}
	return &b.faces[b.FindClosestFaceIndex()]
}

// vec3Equal is exact component equality, used for point/edge deduplication
// where the inputs are literal shared vertices rather than independently
// computed approximations.
func vec3Equal(a, b mgl64.Vec3) bool {
	return a[0] == b[0] && a[1] == b[1] && a[2] == b[2]
}
