// Package sat2d implements the Separating Axis Theorem for convex 2D
// polygons. It is a sibling package to the 3D core, never imported by
// World: 2D SAT serves hosts with their own 2D gameplay layer laid over a
// 3D physics world (UI hitboxes, top-down minimaps, 2D minigames), not the
// 3D collision pipeline itself.
package sat2d

import (
	"fmt"
	"math"

	"github.com/setanarut/vec"
)

const epsilon = 1e-9

// Polygon is an immutable convex polygon: vertices in consistent winding
// order, at least three of them, no duplicate consecutive points.
type Polygon struct {
	vertices []vec.Vec2
}

// NewPolygon validates and builds a Polygon. Grounded on
// ConvexPolygon2D's constructor: rejects fewer than three vertices,
// duplicate consecutive points, and non-convex or collinear winding.
func NewPolygon(vertices []vec.Vec2) (Polygon, error) {
	if len(vertices) < 3 {
		return Polygon{}, fmt.Errorf("sat2d: polygon requires at least 3 vertices, got %d", len(vertices))
	}

	copied := make([]vec.Vec2, len(vertices))
	copy(copied, vertices)

	if err := validateEdges(copied); err != nil {
		return Polygon{}, err
	}
	if err := validateConvex(copied); err != nil {
		return Polygon{}, err
	}

	return Polygon{vertices: copied}, nil
}

// Vertices returns the polygon's vertices in winding order.
func (p Polygon) Vertices() []vec.Vec2 {
	out := make([]vec.Vec2, len(p.vertices))
	copy(out, p.vertices)
	return out
}

// Centroid returns the arithmetic mean of the polygon's vertices.
func (p Polygon) Centroid() vec.Vec2 {
	sum := vec.Vec2{}
	for _, v := range p.vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(p.vertices)))
}

func validateEdges(points []vec.Vec2) error {
	for i := range points {
		a := points[i]
		b := points[(i+1)%len(points)]
		if b.Sub(a).LengthSq() <= epsilon*epsilon {
			return fmt.Errorf("sat2d: polygon contains duplicate consecutive points at index %d", i)
		}
	}
	return nil
}

func validateConvex(points []vec.Vec2) error {
	sign := 0
	for i := range points {
		a := points[i]
		b := points[(i+1)%len(points)]
		c := points[(i+2)%len(points)]
		cross := crossZ(a, b, c)
		if abs(cross) <= epsilon {
			continue
		}
		currentSign := 1
		if cross < 0 {
			currentSign = -1
		}
		if sign == 0 {
			sign = currentSign
		} else if sign != currentSign {
			return fmt.Errorf("sat2d: polygon must be convex with consistent winding")
		}
	}
	if sign == 0 {
		return fmt.Errorf("sat2d: polygon points are collinear")
	}
	return nil
}

func crossZ(a, b, c vec.Vec2) float64 {
	ab := b.Sub(a)
	bc := c.Sub(b)
	return ab.Cross(bc)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Manifold is the result of a successful SAT test: the minimum-overlap
// separating axis (a unit vector oriented from a toward b) and the
// penetration depth along it.
type Manifold struct {
	Axis        vec.Vec2
	Penetration float64
}

// Intersects reports whether two convex polygons overlap.
func Intersects(a, b Polygon) bool {
	_, ok := IntersectsWithManifold(a, b)
	return ok
}

// IntersectsWithManifold runs the Separating Axis Theorem test on the edge
// normals of both polygons. If any axis is found with zero or negative
// overlap, the polygons are separated. Otherwise the axis with the smallest
// positive overlap is the minimum translation vector.
//
// Grounded on Sat2D.intersectsWithManifold: test a's edge normals, then b's;
// bail out the moment any axis separates; track the least-overlapping axis,
// oriented from a's centroid toward b's.
func IntersectsWithManifold(a, b Polygon) (Manifold, bool) {
	centerDelta := b.Centroid().Sub(a.Centroid())

	best := Manifold{Penetration: math.Inf(1)}

	if !evaluateAxes(a.vertices, a, b, centerDelta, &best) {
		return Manifold{}, false
	}
	if !evaluateAxes(b.vertices, a, b, centerDelta, &best) {
		return Manifold{}, false
	}

	return best, true
}

// Project returns the [min,max] interval of polygon's vertices projected
// onto axis, which need not be a unit vector: axis is normalized first, so
// the interval is in world units whatever axis's length.
func Project(polygon Polygon, axis vec.Vec2) (float64, float64) {
	unit := axis.Unit()
	first := polygon.vertices[0].Dot(unit)
	min, max := first, first
	for _, v := range polygon.vertices[1:] {
		proj := v.Dot(unit)
		if proj < min {
			min = proj
		}
		if proj > max {
			max = proj
		}
	}
	return min, max
}

func evaluateAxes(sourceVertices []vec.Vec2, a, b Polygon, centerDelta vec.Vec2, best *Manifold) bool {
	for i := range sourceVertices {
		p0 := sourceVertices[i]
		p1 := sourceVertices[(i+1)%len(sourceVertices)]
		edge := p1.Sub(p0)

		if edge.LengthSq() <= epsilon {
			continue
		}
		axis := vec.Vec2{X: -edge.Y, Y: edge.X}.Unit()

		minA, maxA := Project(a, axis)
		minB, maxB := Project(b, axis)

		overlap := overlapDepth(minA, maxA, minB, maxB)
		if overlap <= 0 {
			return false
		}

		if overlap < best.Penetration {
			oriented := axis
			if centerDelta.Dot(axis) < 0 {
				oriented = axis.Scale(-1)
			}
			best.Penetration = overlap
			best.Axis = oriented
		}
	}
	return true
}

func overlapDepth(minA, maxA, minB, maxB float64) float64 {
	upper := maxA
	if maxB < upper {
		upper = maxB
	}
	lower := minA
	if minB > lower {
		lower = minB
	}
	return upper - lower
}
