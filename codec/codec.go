// Package codec implements the wire encoding (C1): CBOR-encoded maps with a
// __mcio_type__ discriminator for the polymorphic Observation.Options
// payload. Every other field of Action and Observation is a plain,
// unambiguous shape and is (de)serialized directly by
// github.com/fxamacker/cbor/v2 via struct tags.
//
// types only describes data (see the package comment there); codec is the
// one-directional dependent, avoiding the cyclic-import hazard the original
// implementation's types/instance split warns about.
package codec

import (
	"fmt"
	"log"

	"github.com/fxamacker/cbor/v2"

	"github.com/go-mclib/mcio/types"
)

// Logger is satisfied by *log.Logger; callers may inject their own to route
// decode-error and version-mismatch logging into their own infrastructure.
type Logger interface {
	Printf(format string, args ...any)
}

var logger Logger = log.Default()

// SetLogger overrides the package-level logger used for decode-failure
// reporting. Pass nil to silence logging entirely.
func SetLogger(l Logger) {
	if l == nil {
		logger = discardLogger{}
		return
	}
	logger = l
}

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

func logf(format string, args ...any) {
	logger.Printf("[ERROR] "+format, args...)
}

// wireObservation mirrors types.Observation field-for-field except Options,
// which is deferred as raw CBOR so the registry can discriminate its
// concrete type before construction.
type wireObservation struct {
	Version            int                   `cbor:"version"`
	Sequence           int                   `cbor:"sequence"`
	Mode               types.Mode            `cbor:"mode"`
	LastActionSequence int                   `cbor:"last_action_sequence"`
	FrameSequence      int                   `cbor:"frame_sequence"`
	Frame              []byte                `cbor:"frame"`
	CursorMode         int                   `cbor:"cursor_mode"`
	CursorPos          types.CursorPos       `cbor:"cursor_pos"`
	Health             float64               `cbor:"health"`
	PlayerPos          types.Vec3            `cbor:"player_pos"`
	PlayerPitch        float64               `cbor:"player_pitch"`
	PlayerYaw          float64               `cbor:"player_yaw"`
	InventoryMain      []types.InventorySlot `cbor:"inventory_main"`
	InventoryArmor     []types.InventorySlot `cbor:"inventory_armor"`
	InventoryOffhand   []types.InventorySlot `cbor:"inventory_offhand"`
	Options            cbor.RawMessage       `cbor:"options,omitempty"`
}

// EncodeObservation serializes an Observation to its wire form. Used mainly
// by tests and by fake-mod fixtures; the real mod is the usual producer.
func EncodeObservation(obs *types.Observation) ([]byte, error) {
	w := wireObservation{
		Version:            obs.Version,
		Sequence:           obs.Sequence,
		Mode:               obs.Mode,
		LastActionSequence: obs.LastActionSequence,
		FrameSequence:      obs.FrameSequence,
		Frame:              obs.Frame,
		CursorMode:         obs.CursorMode,
		CursorPos:          obs.CursorPos,
		Health:             obs.Health,
		PlayerPos:          obs.PlayerPos,
		PlayerPitch:        obs.PlayerPitch,
		PlayerYaw:          obs.PlayerYaw,
		InventoryMain:      obs.InventoryMain,
		InventoryArmor:     obs.InventoryArmor,
		InventoryOffhand:   obs.InventoryOffhand,
	}
	if obs.Options != nil {
		raw, err := encodeOption(obs.Options)
		if err != nil {
			return nil, fmt.Errorf("encode observation options: %w", err)
		}
		w.Options = raw
	}

	data, err := cbor.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("encode observation: %w", err)
	}
	return data, nil
}

// DecodeObservation parses wire bytes into an Observation. On failure —
// malformed CBOR or a protocol version mismatch — it logs at error severity
// and returns (nil, error). Fields absent from an otherwise well-formed
// document decode as their zero values (a missing version therefore reads
// as 0 and fails the version check). The caller
// (connection.Connection) is expected to drop the packet and keep the
// connection open, per C1's failure contract.
func DecodeObservation(data []byte) (*types.Observation, error) {
	var w wireObservation
	if err := cbor.Unmarshal(data, &w); err != nil {
		logf("observation decode error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	obs := &types.Observation{
		Version:            w.Version,
		Sequence:           w.Sequence,
		Mode:               w.Mode,
		LastActionSequence: w.LastActionSequence,
		FrameSequence:      w.FrameSequence,
		Frame:              w.Frame,
		CursorMode:         w.CursorMode,
		CursorPos:          w.CursorPos,
		Health:             w.Health,
		PlayerPos:          w.PlayerPos,
		PlayerPitch:        w.PlayerPitch,
		PlayerYaw:          w.PlayerYaw,
		InventoryMain:      w.InventoryMain,
		InventoryArmor:     w.InventoryArmor,
		InventoryOffhand:   w.InventoryOffhand,
	}

	if len(w.Options) > 0 {
		opt, err := decodeOption(w.Options)
		if err != nil {
			logf("observation options decode error: %v", err)
			// Non-fatal: leave Options nil and keep the rest of the packet.
		} else {
			obs.Options = opt
		}
	}

	if obs.Version != types.ProtocolVersion {
		logf("MCio protocol version mismatch: observation=%d expected=%d", obs.Version, types.ProtocolVersion)
		return nil, fmt.Errorf("%w: got version %d, want %d: %w", ErrVersionMismatch, obs.Version, types.ProtocolVersion, ErrDecode)
	}

	return obs, nil
}

// EncodeAction serializes an Action to its wire form. Action carries no
// polymorphic fields, so this is a direct struct marshal.
func EncodeAction(a *types.Action) ([]byte, error) {
	data, err := cbor.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode action: %w", err)
	}
	return data, nil
}

// DecodeAction parses wire bytes into an Action. Used on the mod side of the
// bridge and by this module's tests/fixtures; the agent-facing API only
// ever encodes actions.
func DecodeAction(data []byte) (*types.Action, error) {
	var a types.Action
	if err := cbor.Unmarshal(data, &a); err != nil {
		logf("action decode error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &a, nil
}
