package env

import (
	"github.com/go-mclib/mcio/cursor"
	"github.com/go-mclib/mcio/frame"
	"github.com/go-mclib/mcio/inputstate"
	"github.com/go-mclib/mcio/stats"
	"github.com/go-mclib/mcio/types"
)

// FineGrainedKeys is the fixed input map Variant A exposes: one Boolean per
// named key/button, plus a raw cursor delta. 19 keys + 3 mouse buttons,
// matching the spec's "~22 keys/buttons" fine-grained action space.
var FineGrainedKeys = map[string]types.InputID{
	"forward":      {Type: types.InputKey, Code: types.KeyW},
	"back":         {Type: types.InputKey, Code: types.KeyS},
	"left":         {Type: types.InputKey, Code: types.KeyA},
	"right":        {Type: types.InputKey, Code: types.KeyD},
	"jump":         {Type: types.InputKey, Code: types.KeySpace},
	"sneak":        {Type: types.InputKey, Code: types.KeyLeftShift},
	"sprint":       {Type: types.InputKey, Code: types.KeyLeftControl},
	"inventory":    {Type: types.InputKey, Code: types.KeyE},
	"drop":         {Type: types.InputKey, Code: types.KeyQ},
	"use":          {Type: types.InputKey, Code: types.KeyF},
	"hotbar_1":     {Type: types.InputKey, Code: types.Key1},
	"hotbar_2":     {Type: types.InputKey, Code: types.Key2},
	"hotbar_3":     {Type: types.InputKey, Code: types.Key3},
	"hotbar_4":     {Type: types.InputKey, Code: types.Key4},
	"hotbar_5":     {Type: types.InputKey, Code: types.Key5},
	"hotbar_6":     {Type: types.InputKey, Code: types.Key6},
	"hotbar_7":     {Type: types.InputKey, Code: types.Key7},
	"hotbar_8":     {Type: types.InputKey, Code: types.Key8},
	"hotbar_9":     {Type: types.InputKey, Code: types.Key9},
	"attack":       {Type: types.InputMouse, Code: types.MouseButtonLeft},
	"use_item":     {Type: types.InputMouse, Code: types.MouseButtonRight},
	"swap_hands":   {Type: types.InputMouse, Code: types.MouseButtonMiddle},
}

// cursorClampPixels is ±180°/DEGREES_PER_PIXEL, the pixel range a
// cursor_delta is clamped to before being added to the mod's last known
// cursor position.
const cursorClampPixels = 1200

// FineGrainedAction is Variant A's action space: a Boolean per key in
// FineGrainedKeys (any non-zero value means "held this step") plus a raw
// pixel cursor delta.
type FineGrainedAction struct {
	Keys        map[string]float64
	CursorDelta [2]int32
}

// FineGrainedObservation is Variant A's observation space.
type FineGrainedObservation struct {
	Frame       []byte
	FrameFormat frame.Format
	PlayerPos   types.Vec3
	PlayerPitch float64
	PlayerYaw   float64
}

type fineGrainedCallbacks struct{}

// FineGrainedCallbacks returns the Callbacks implementation for Variant A.
func FineGrainedCallbacks() Callbacks[FineGrainedAction, FineGrainedObservation] {
	return fineGrainedCallbacks{}
}

func (fineGrainedCallbacks) NoopAction() FineGrainedAction {
	return FineGrainedAction{}
}

func clampPixels(v int32) int32 {
	switch {
	case v > cursorClampPixels:
		return cursorClampPixels
	case v < -cursorClampPixels:
		return -cursorClampPixels
	default:
		return v
	}
}

func (fineGrainedCallbacks) ConvertAction(a FineGrainedAction, im *inputstate.Manager, cm *cursor.Mapper) (*types.Action, bool) {
	pressed, released := inputstate.Partition(a.Keys, FineGrainedKeys)
	events := im.Step(pressed, released)

	dx := clampPixels(a.CursorDelta[0])
	dy := clampPixels(a.CursorDelta[1])
	pos := cm.Update(float64(dx)*cursor.DegreesPerPixel, float64(dy)*cursor.DegreesPerPixel)

	wire := types.NewAction()
	wire.Inputs = events
	wire.CursorPos = []types.CursorPos{pos}
	return wire, true
}

func (fineGrainedCallbacks) ConvertObservation(obs *types.Observation, sc *stats.Cache) FineGrainedObservation {
	return FineGrainedObservation{
		Frame:       obs.Frame,
		FrameFormat: frame.DetectFormat(obs.Frame),
		PlayerPos:   obs.PlayerPos,
		PlayerPitch: obs.PlayerPitch,
		PlayerYaw:   obs.PlayerYaw,
	}
}

func (fineGrainedCallbacks) Reward(obs *types.Observation, a FineGrainedAction) (float64, bool, bool) {
	// Variant A assigns no intrinsic reward or task-specific termination;
	// Base's health==0 override is the only termination source.
	return 0, false, false
}

// NewFineGrainedEnv constructs Variant A.
func NewFineGrainedEnv(cfg Config) *Base[FineGrainedAction, FineGrainedObservation] {
	return NewBase(cfg, FineGrainedCallbacks())
}
