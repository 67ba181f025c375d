// Package cursor implements C6: the degrees-to-pixels mapping between
// RL-style camera deltas and the absolute cursor position the mod expects.
package cursor

import "github.com/go-mclib/mcio/types"

// DegreesPerPixel is the mod's own sensitivity constant: how many degrees
// of in-game rotation one pixel of cursor movement corresponds to.
const DegreesPerPixel = 0.15

// PixelsPerDegree is the inverse mapping this package actually applies.
const PixelsPerDegree = 1.0 / DegreesPerPixel

// Mapper accumulates an absolute cursor position from successive
// degrees-delta updates.
type Mapper struct {
	x, y float64
}

// New returns a Mapper positioned at the origin.
func New() *Mapper {
	return &Mapper{}
}

// Update applies a (yawDeltaDeg, pitchDeltaDeg) camera delta and returns the
// new absolute position. Yaw is modular and pitch is clamped ±90° on the
// mod side; this mapper does neither — excess pixels are simply ignored
// game-side.
func (m *Mapper) Update(yawDeltaDeg, pitchDeltaDeg float64) types.CursorPos {
	m.x += yawDeltaDeg * PixelsPerDegree
	m.y += pitchDeltaDeg * PixelsPerDegree
	return m.Pos()
}

// Set overwrites the current absolute position, used to re-anchor against
// the position the mod last actually reported and prevent accumulated
// drift between observations.
func (m *Mapper) Set(pos types.CursorPos) {
	m.x = float64(pos.X)
	m.y = float64(pos.Y)
}

// Pos returns the current absolute position, rounded to the nearest pixel.
func (m *Mapper) Pos() types.CursorPos {
	return types.CursorPos{X: int(round(m.x)), Y: int(round(m.y))}
}

func round(f float64) float64 {
	if f >= 0 {
		return float64(int(f + 0.5))
	}
	return float64(int(f - 0.5))
}
