package cursor

import (
	"testing"

	"github.com/go-mclib/mcio/types"
)

func TestUpdateAccumulates(t *testing.T) {
	m := New()

	pos := m.Update(1, 0)
	if pos.X != int(round(1*PixelsPerDegree)) {
		t.Fatalf("x = %d, want %d", pos.X, int(round(1*PixelsPerDegree)))
	}

	pos = m.Update(1, 0)
	if pos.X != int(round(2*PixelsPerDegree)) {
		t.Fatalf("x after second update = %d, want %d", pos.X, int(round(2*PixelsPerDegree)))
	}
}

func TestSetReanchors(t *testing.T) {
	m := New()
	m.Update(100, 50)
	m.Set(types.CursorPos{X: 0, Y: 0})

	pos := m.Update(1, 1)
	want := int(round(PixelsPerDegree))
	if pos.X != want || pos.Y != want {
		t.Fatalf("pos after reanchor+update = %+v, want x=y=%d", pos, want)
	}
}

func TestClampBoundaryIsCallerResponsibility(t *testing.T) {
	// 180 degrees maps to exactly the documented ±1200px clamp boundary
	// (180 / 0.15 = 1200); the mapper itself does not clamp.
	m := New()
	pos := m.Update(180, 0)
	if pos.X != 1200 {
		t.Fatalf("x = %d, want 1200 (180deg at %v deg/px)", pos.X, DegreesPerPixel)
	}
}
