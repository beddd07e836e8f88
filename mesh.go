package collision

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ljramones/DynamisCollision/shape"
)

// MeshBounds is the bounds+filter component a host attaches to a
// mesh-backed item, replacing the teacher's weak/side-channel metadata map
// keyed by the mesh object. Filter is resolved through the same
// default-when-unset rule as CollisionFilter elsewhere in this package.
type MeshBounds struct {
	AABB   shape.AABB
	Filter *CollisionFilter
}

// ResolvedFilter returns the bound filter, or DefaultFilter when unset.
func (m MeshBounds) ResolvedFilter() CollisionFilter {
	return resolveFilter(m.Filter)
}

// Meshlet is one coarse cluster of a packed mesh: a world-space AABB and,
// when the cluster's triangles share a roughly common facing direction, a
// bounding cone (Axis, CutoffCosine = cos(halfAngle)) a ray can be rejected
// against without visiting the triangles inside it. HasCone is false for
// clusters whose triangle normals spread too widely to bound usefully.
type Meshlet struct {
	Bounds       shape.AABB
	HasCone      bool
	ConeApex     mgl64.Vec3
	ConeAxis     mgl64.Vec3
	CutoffCosine float64
}

// MeshletIterator yields a mesh's meshlets one at a time. Implementations
// may back it with a slice index, a packed buffer cursor, or any other
// storage the host uses; MeshletRaycaster only ever calls Next in a single
// forward pass.
type MeshletIterator interface {
	// Next returns the next meshlet and true, or a zero Meshlet and false
	// once exhausted.
	Next() (Meshlet, bool)
}

// SliceMeshletIterator adapts a plain slice to MeshletIterator.
type SliceMeshletIterator struct {
	meshlets []Meshlet
	index    int
}

// NewSliceMeshletIterator builds a MeshletIterator over an in-memory slice.
func NewSliceMeshletIterator(meshlets []Meshlet) *SliceMeshletIterator {
	return &SliceMeshletIterator{meshlets: meshlets}
}

func (it *SliceMeshletIterator) Next() (Meshlet, bool) {
	if it.index >= len(it.meshlets) {
		return Meshlet{}, false
	}
	m := it.meshlets[it.index]
	it.index++
	return m, true
}

// MeshRaycastHit is the nearest surviving hit a MeshletRaycaster found.
type MeshRaycastHit struct {
	Distance    float64
	Point       mgl64.Vec3
	Normal      mgl64.Vec3
	MeshletHit  bool
	MeshletIdx  int
}

// MeshletRaycaster casts ray against a mesh-backed item's coarse bounds,
// grounded on PackedMeshCollisionShape.raycast: it first rejects against
// worldBounds entirely, then walks meshlets one at a time, skipping any
// whose AABB the ray misses or whose bounding cone faces away from the ray,
// and keeps the nearest surviving hit. When meshlets is nil or empty it
// falls back to reporting a hit against worldBounds directly, with a normal
// taken from the nearest face of that box. The returned normal always
// points against the ray direction.
func MeshletRaycaster(ray shape.Ray, worldBounds shape.AABB, meshlets MeshletIterator) (MeshRaycastHit, bool) {
	if _, ok := ray.IntersectAABB(worldBounds); !ok {
		return MeshRaycastHit{}, false
	}

	if meshlets == nil {
		return coarseBoundsHit(ray, worldBounds)
	}

	best := MeshRaycastHit{Distance: math.Inf(1)}
	found := false
	index := 0
	for {
		meshlet, ok := meshlets.Next()
		if !ok {
			break
		}
		idx := index
		index++

		t, hit := ray.IntersectAABB(meshlet.Bounds)
		if !hit {
			continue
		}
		if meshlet.HasCone && ray.ConeRejects(meshlet.ConeApex, meshlet.ConeAxis, meshlet.CutoffCosine) {
			continue
		}
		if found && t >= best.Distance {
			continue
		}

		point := ray.Origin.Add(ray.Direction.Mul(t))
		var normal mgl64.Vec3
		if meshlet.HasCone {
			normal = orientAgainstRay(meshlet.ConeAxis, ray.Direction)
		} else {
			normal = orientAgainstRay(aabbFaceNormal(meshlet.Bounds, point), ray.Direction)
		}

		best = MeshRaycastHit{Distance: t, Point: point, Normal: normal, MeshletHit: true, MeshletIdx: idx}
		found = true
	}

	if found {
		return best, true
	}
	return coarseBoundsHit(ray, worldBounds)
}

// coarseBoundsHit reports a hit against worldBounds itself, used when the
// mesh carries no meshlets or none of them survived rejection.
func coarseBoundsHit(ray shape.Ray, worldBounds shape.AABB) (MeshRaycastHit, bool) {
	t, ok := ray.IntersectAABB(worldBounds)
	if !ok {
		return MeshRaycastHit{}, false
	}
	point := ray.Origin.Add(ray.Direction.Mul(t))
	normal := orientAgainstRay(aabbFaceNormal(worldBounds, point), ray.Direction)
	return MeshRaycastHit{Distance: t, Point: point, Normal: normal}, true
}

// aabbFaceNormal returns the outward normal of whichever face of box point
// lies closest to, within a small epsilon. Falls back to +Y when point
// doesn't clearly sit on any face (degenerate box, numerical slop).
func aabbFaceNormal(box shape.AABB, point mgl64.Vec3) mgl64.Vec3 {
	const eps = 1e-6
	faces := []struct {
		axis   int
		value  float64
		normal mgl64.Vec3
	}{
		{0, box.Min.X(), mgl64.Vec3{-1, 0, 0}},
		{0, box.Max.X(), mgl64.Vec3{1, 0, 0}},
		{1, box.Min.Y(), mgl64.Vec3{0, -1, 0}},
		{1, box.Max.Y(), mgl64.Vec3{0, 1, 0}},
		{2, box.Min.Z(), mgl64.Vec3{0, 0, -1}},
		{2, box.Max.Z(), mgl64.Vec3{0, 0, 1}},
	}
	for _, f := range faces {
		if math.Abs(point[f.axis]-f.value) <= eps {
			return f.normal
		}
	}
	return mgl64.Vec3{0, 1, 0}
}

// orientAgainstRay flips normal if it points the same way as direction, so
// the returned normal always faces back toward the ray origin.
func orientAgainstRay(normal, direction mgl64.Vec3) mgl64.Vec3 {
	n := normal.Normalize()
	if n.Dot(direction) > 0 {
		return n.Mul(-1)
	}
	return n
}

// NewMeshBounds validates and builds a MeshBounds. filter may be nil.
func NewMeshBounds(bounds shape.AABB, filter *CollisionFilter) (MeshBounds, error) {
	if bounds.Min.X() > bounds.Max.X() || bounds.Min.Y() > bounds.Max.Y() || bounds.Min.Z() > bounds.Max.Z() {
		return MeshBounds{}, fmt.Errorf("collision: mesh bounds min exceeds max")
	}
	return MeshBounds{AABB: bounds, Filter: filter}, nil
}
