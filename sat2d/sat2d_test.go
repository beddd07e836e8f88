package sat2d

import (
	"math"
	"testing"

	"github.com/setanarut/vec"
)

func square(cx, cy, half float64) Polygon {
	p, err := NewPolygon([]vec.Vec2{
		{X: cx - half, Y: cy - half},
		{X: cx + half, Y: cy - half},
		{X: cx + half, Y: cy + half},
		{X: cx - half, Y: cy + half},
	})
	if err != nil {
		panic(err)
	}
	return p
}

func TestNewPolygon(t *testing.T) {
	t.Run("too_few_vertices", func(t *testing.T) {
		_, err := NewPolygon([]vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}})
		if err == nil {
			t.Error("expected error for fewer than 3 vertices")
		}
	})

	t.Run("duplicate_consecutive_points", func(t *testing.T) {
		_, err := NewPolygon([]vec.Vec2{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
		if err == nil {
			t.Error("expected error for duplicate consecutive points")
		}
	})

	t.Run("collinear_points", func(t *testing.T) {
		_, err := NewPolygon([]vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}})
		if err == nil {
			t.Error("expected error for collinear points")
		}
	})

	t.Run("non_convex", func(t *testing.T) {
		_, err := NewPolygon([]vec.Vec2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 0, Y: 2}})
		if err == nil {
			t.Error("expected error for non-convex polygon")
		}
	})

	t.Run("valid_square", func(t *testing.T) {
		_, err := NewPolygon([]vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
		if err != nil {
			t.Errorf("unexpected error for valid square: %v", err)
		}
	})
}

func TestIntersects(t *testing.T) {
	t.Run("overlapping_squares", func(t *testing.T) {
		a := square(0, 0, 1)
		b := square(1.5, 0, 1)
		if !Intersects(a, b) {
			t.Error("expected overlap")
		}
	})

	t.Run("separated_squares", func(t *testing.T) {
		a := square(0, 0, 1)
		b := square(10, 0, 1)
		if Intersects(a, b) {
			t.Error("expected no overlap")
		}
	})

	t.Run("touching_squares_not_overlapping", func(t *testing.T) {
		a := square(0, 0, 1)
		b := square(2, 0, 1)
		if Intersects(a, b) {
			t.Error("touching squares should not report positive overlap")
		}
	})
}

func TestIntersectsWithManifold(t *testing.T) {
	a := square(0, 0, 1)
	b := square(1.5, 0, 1)

	m, ok := IntersectsWithManifold(a, b)
	if !ok {
		t.Fatal("expected overlap")
	}
	if math.Abs(m.Penetration-0.5) > 1e-9 {
		t.Errorf("penetration = %v, want 0.5", m.Penetration)
	}
	if m.Axis.Dot(vec.Vec2{X: 1, Y: 0}) <= 0 {
		t.Errorf("axis %v should point from a toward b", m.Axis)
	}
	if math.Abs(m.Axis.LengthSq()-1) > 1e-6 {
		t.Errorf("axis %v should be a unit vector", m.Axis)
	}
}

func TestProject(t *testing.T) {
	p := square(0, 0, 1)
	min, max := Project(p, vec.Vec2{X: 1, Y: 0})
	if math.Abs(min-(-1)) > 1e-9 || math.Abs(max-1) > 1e-9 {
		t.Errorf("projection = [%v,%v], want [-1,1]", min, max)
	}
}

func TestCentroid(t *testing.T) {
	p := square(3, 4, 1)
	c := p.Centroid()
	if math.Abs(c.X-3) > 1e-9 || math.Abs(c.Y-4) > 1e-9 {
		t.Errorf("centroid = %v, want (3,4)", c)
	}
}
