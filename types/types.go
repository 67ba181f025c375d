// Package types defines the wire-level dataclass-like messages exchanged
// between an agent process and the mod (see github.com/go-mclib/mcio/codec
// for how these are framed onto CBOR), along with the small set of
// protocol-level constants both sides must agree on.
package types

import "fmt"

// ProtocolVersion is the single integer both peers must agree on. Observations
// carrying any other value are rejected by the codec (see codec.ErrVersionMismatch).
const ProtocolVersion = 2

// Default TCP ports for the two unidirectional channels, from the agent's
// point of view: the agent dials out to both.
const (
	DefaultActionPort      = 4001
	DefaultObservationPort = 8001
	DefaultHost            = "localhost"
)

// Cursor-mode wire values. These mirror the GLFW constants the mod itself
// uses (GLFW_CURSOR_NORMAL / GLFW_CURSOR_DISABLED) and are part of the wire
// contract, not a runtime GLFW binding.
const (
	CursorModeNormal   = 212993
	CursorModeDisabled = 212995
)

// Mode is the mod's current operating mode, carried on every observation.
type Mode string

const (
	ModeSync  Mode = "SYNC"
	ModeAsync Mode = "ASYNC"
)

// InputType distinguishes keyboard from mouse-button input events.
type InputType string

const (
	InputKey   InputType = "KEY"
	InputMouse InputType = "MOUSE"
)

// InputAction is the edge direction of an InputEvent.
type InputAction string

const (
	ActionPress   InputAction = "PRESS"
	ActionRelease InputAction = "RELEASE"
)

// InputID uniquely identifies a hold-able input: a (type, code) pair.
// Codes reuse GLFW's numbering, the numbering the mod itself was written
// against (see keycodes.go for the named subset this module defines).
type InputID struct {
	Type InputType
	Code int
}

func (id InputID) String() string {
	return fmt.Sprintf("%s:%d", id.Type, id.Code)
}

// InputEvent is a single press/release edge destined for the mod.
type InputEvent struct {
	Type   InputType   `cbor:"type"`
	Code   int         `cbor:"code"`
	Action InputAction `cbor:"action"`
}

// CursorPos is an absolute pixel position in image coordinates.
type CursorPos struct {
	X int `cbor:"x"`
	Y int `cbor:"y"`
}

// Vec3 is a world-coordinate triple (double precision, matching Minecraft's
// own player-position representation).
type Vec3 struct {
	X float64 `cbor:"x"`
	Y float64 `cbor:"y"`
	Z float64 `cbor:"z"`
}

// InventorySlot is one entry in an inventory listing.
type InventorySlot struct {
	Slot  int    `cbor:"slot"`
	ID    string `cbor:"id"`
	Count int    `cbor:"count"`
}

// Action is one step's worth of agent intent. The agent never sets Sequence —
// the controller overwrites it at send time (see controller.SyncController.SendAction).
type Action struct {
	Version    int          `cbor:"version"`
	Sequence   int          `cbor:"sequence"`
	Commands   []string     `cbor:"commands"`
	Stop       bool         `cbor:"stop"`
	ClearInput bool         `cbor:"clear_input"`
	Inputs     []InputEvent `cbor:"inputs"`
	CursorPos  []CursorPos  `cbor:"cursor_pos"`
}

// NewAction returns an Action with the protocol version populated and all
// other fields at their zero value (an empty/no-op action).
func NewAction() *Action {
	return &Action{
		Version:   ProtocolVersion,
		Commands:  []string{},
		Inputs:    []InputEvent{},
		CursorPos: []CursorPos{},
	}
}

// Observation is one tick's worth of world state pushed by the mod.
//
// Options carries the polymorphic auxiliary payloads (StatsFull / StatsUpdate,
// see the options.go ObservationOption variants); it is nil when the mod sent
// none this tick.
type Observation struct {
	Version            int               `cbor:"version"`
	Sequence           int               `cbor:"sequence"`
	Mode               Mode              `cbor:"mode"`
	LastActionSequence int               `cbor:"last_action_sequence"`
	FrameSequence      int               `cbor:"frame_sequence"`
	Frame              []byte            `cbor:"frame"`
	CursorMode         int               `cbor:"cursor_mode"`
	CursorPos          CursorPos         `cbor:"cursor_pos"`
	Health             float64           `cbor:"health"`
	PlayerPos          Vec3              `cbor:"player_pos"`
	PlayerPitch        float64           `cbor:"player_pitch"`
	PlayerYaw          float64           `cbor:"player_yaw"`
	InventoryMain      []InventorySlot   `cbor:"inventory_main"`
	InventoryArmor     []InventorySlot   `cbor:"inventory_armor"`
	InventoryOffhand   []InventorySlot   `cbor:"inventory_offhand"`
	Options            ObservationOption `cbor:"options,omitempty"`
}

// EmptyObservation returns the zero-value sentinel the sync controller
// returns on transport teardown, so the step loop can complete instead of
// blocking forever (see controller.SyncController.RecvObservation).
func EmptyObservation() *Observation {
	return &Observation{}
}

// IsCursorVisible reports whether the mod's OS cursor is currently shown
// (as opposed to captured/disabled for FPS-style mouselook).
func (o *Observation) IsCursorVisible() bool {
	return o.CursorMode == CursorModeNormal
}
