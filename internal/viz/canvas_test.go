package viz

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/procanim/internal/verlet"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)

	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	c.Set(1, 3)
	if c.Grid[0][0] != 0x2881 {
		t.Errorf("expected dots 1 and 8, got %U", c.Grid[0][0])
	}

	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	if c.Grid[0][1] != blank {
		t.Error("out of range dots must be ignored")
	}

	c.Unset(0, 0)
	if c.IsSet(0, 0) || !c.IsSet(1, 3) {
		t.Error("unset cleared the wrong dot")
	}

	c.Clear()
	if strings.Trim(c.String(), string(blank)+"\n") != "" {
		t.Errorf("expected blank canvas, got %q", c.String())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 2)

	c.DrawLine(0, 0, 7, 7)
	for i := 0; i < 8; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal dot %d not set", i)
		}
	}
}

func TestCanvasDrawDashed(t *testing.T) {
	c := NewCanvas(4, 1)

	c.DrawDashed(0, 0, 7, 0, 2, 2)
	want := []bool{true, true, false, false, true, true, false, false}
	for x, on := range want {
		if c.IsSet(x, 0) != on {
			t.Errorf("dot %d: got %v, want %v", x, c.IsSet(x, 0), on)
		}
	}
}

func TestViewportProject(t *testing.T) {
	c := NewCanvas(60, 30)
	v := NewViewport(verlet.DefaultSettings().Bounds, c)

	tests := []struct {
		name string
		p    mgl32.Vec3
		x, y int
	}{
		{"top left", mgl32.Vec3{-300, 0, 0}, 0, 0},
		{"bottom right", mgl32.Vec3{0, -300, 0}, 119, 119},
		{"center", mgl32.Vec3{-150, -150, 0}, 60, 60},
		{"z ignored", mgl32.Vec3{-300, 0, 42}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := v.Project(tt.p)
			if x != tt.x || y != tt.y {
				t.Errorf("got (%d, %d), want (%d, %d)", x, y, tt.x, tt.y)
			}
		})
	}
}

func TestRenderSnapshot(t *testing.T) {
	c := NewCanvas(60, 30)
	bounds := verlet.DefaultSettings().Bounds
	s := verlet.Snapshot{
		Positions: []mgl32.Vec3{{-200, -150, 0}, {-100, -150, 0}},
		Masses:    []float32{1, 0},
		Segments: []verlet.Segment{
			{A: mgl32.Vec3{-200, -150, 0}, B: mgl32.Vec3{-100, -150, 0}, Kind: verlet.Exact(100)},
		},
	}

	RenderSnapshot(c, s, bounds)

	v := NewViewport(bounds, c)
	x0, y := v.Project(s.Positions[0])
	x1, _ := v.Project(s.Positions[1])
	for x := x0; x <= x1; x++ {
		if !c.IsSet(x, y) {
			t.Fatalf("link dot (%d, %d) not set", x, y)
		}
	}
	if !c.IsSet(x1, y-2) {
		t.Error("pinned particle should have a larger marker")
	}
	if c.IsSet(x0, y-2) {
		t.Error("free particle marker too large")
	}
	if !c.IsSet(0, 0) || !c.IsSet(119, 119) {
		t.Error("bounds frame not drawn")
	}
}
