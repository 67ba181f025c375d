package codec_test

import (
	"errors"
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/go-mclib/mcio/codec"
	"github.com/go-mclib/mcio/types"
)

func sampleObservation() *types.Observation {
	return &types.Observation{
		Version:            types.ProtocolVersion,
		Sequence:            7,
		Mode:                types.ModeSync,
		LastActionSequence:  6,
		FrameSequence:       100,
		Frame:               []byte{0x89, 'P', 'N', 'G'},
		CursorMode:          types.CursorModeNormal,
		CursorPos:           types.CursorPos{X: 10, Y: 20},
		Health:              20.0,
		PlayerPos:           types.Vec3{X: 1, Y: 64, Z: -1},
		PlayerPitch:         -5,
		PlayerYaw:           90,
		InventoryMain:       []types.InventorySlot{{Slot: 0, ID: "minecraft:dirt", Count: 64}},
		InventoryArmor:      nil,
		InventoryOffhand:    nil,
	}
}

func TestObservationRoundTrip(t *testing.T) {
	obs := sampleObservation()
	data, err := codec.EncodeObservation(obs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := codec.DecodeObservation(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.Sequence != obs.Sequence || got.Health != obs.Health || got.Mode != obs.Mode {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, obs)
	}
	if len(got.InventoryMain) != 1 || got.InventoryMain[0].ID != "minecraft:dirt" {
		t.Fatalf("inventory round-trip mismatch: %+v", got.InventoryMain)
	}
}

func TestObservationRoundTripWithStatsFull(t *testing.T) {
	obs := sampleObservation()
	obs.Options = types.StatsFull{Categories: []types.StatCategory{
		{ID: "minecraft:mined", Stats: []types.StatItem{{ID: "minecraft:dirt", Value: 12}}},
	}}

	data, err := codec.EncodeObservation(obs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := codec.DecodeObservation(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	full, ok := got.Options.(types.StatsFull)
	if !ok {
		t.Fatalf("expected StatsFull, got %T", got.Options)
	}
	if len(full.Categories) != 1 || full.Categories[0].Stats[0].Value != 12 {
		t.Fatalf("stats round-trip mismatch: %+v", full)
	}
}

func TestObservationRoundTripWithStatsUpdate(t *testing.T) {
	obs := sampleObservation()
	obs.Options = types.StatsUpdate{Categories: []types.StatCategory{
		{ID: "minecraft:custom", Stats: []types.StatItem{{ID: "minecraft:jump", Value: 3}}},
	}}

	data, err := codec.EncodeObservation(obs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := codec.DecodeObservation(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := got.Options.(types.StatsUpdate); !ok {
		t.Fatalf("expected StatsUpdate, got %T", got.Options)
	}
}

// __mcio_type__ must be embedded with a leading dot, byte-exact, for JVM
// peer interoperability.
func TestOptionsTagHasLeadingDot(t *testing.T) {
	obs := sampleObservation()
	obs.Options = types.StatsFull{}

	data, err := codec.EncodeObservation(obs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var generic map[string]cbor.RawMessage
	if err := cbor.Unmarshal(data, &generic); err != nil {
		t.Fatalf("unmarshal generic: %v", err)
	}
	var optionsMap map[string]cbor.RawMessage
	if err := cbor.Unmarshal(generic["options"], &optionsMap); err != nil {
		t.Fatalf("unmarshal options: %v", err)
	}
	var tag string
	if err := cbor.Unmarshal(optionsMap["__mcio_type__"], &tag); err != nil {
		t.Fatalf("unmarshal tag: %v", err)
	}
	if tag != ".StatsFull" {
		t.Fatalf("tag = %q, want %q", tag, ".StatsFull")
	}
}

// Scenario 5: version mismatch is decoded to an error, not a value, and the
// error chain identifies it as a (recoverable) decode error.
func TestObservationVersionMismatch(t *testing.T) {
	obs := sampleObservation()
	obs.Version = types.ProtocolVersion + 1

	data, err := codec.EncodeObservation(obs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	_, err = codec.DecodeObservation(data)
	if err == nil {
		t.Fatal("expected version mismatch error, got nil")
	}
	if !errors.Is(err, codec.ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch in chain, got %v", err)
	}
	if !errors.Is(err, codec.ErrDecode) {
		t.Fatalf("VersionMismatch should chain as a DecodeError, got %v", err)
	}
}

func TestObservationMalformedCBOR(t *testing.T) {
	_, err := codec.DecodeObservation([]byte{0xff, 0xff, 0xff})
	if err == nil {
		t.Fatal("expected decode error for malformed bytes")
	}
	if !errors.Is(err, codec.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestActionRoundTrip(t *testing.T) {
	a := types.NewAction()
	a.Sequence = 42
	a.Commands = []string{"time set day"}
	a.Inputs = []types.InputEvent{{Type: types.InputKey, Code: types.KeyW, Action: types.ActionPress}}
	a.CursorPos = []types.CursorPos{{X: 5, Y: 5}}

	data, err := codec.EncodeAction(a)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := codec.DecodeAction(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Sequence != 42 || len(got.Commands) != 1 || got.Commands[0] != "time set day" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if len(got.Inputs) != 1 || got.Inputs[0].Code != types.KeyW {
		t.Fatalf("inputs round-trip mismatch: %+v", got.Inputs)
	}
}

func TestUnknownOptionType(t *testing.T) {
	raw, err := cbor.Marshal(map[string]any{
		"__mcio_type__": ".SomethingUnregistered",
		"value":         1,
	})
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	obs := sampleObservation()
	data, err := codec.EncodeObservation(obs)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var generic map[string]cbor.RawMessage
	if err := cbor.Unmarshal(data, &generic); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	generic["options"] = raw
	patched, err := cbor.Marshal(generic)
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}

	got, err := codec.DecodeObservation(patched)
	if err != nil {
		t.Fatalf("decode should still succeed, falling back to a raw map: %v", err)
	}
	rawOpt, ok := got.Options.(types.RawOption)
	if !ok {
		t.Fatalf("expected types.RawOption for unregistered type, got %T", got.Options)
	}
	if rawOpt.Type != "SomethingUnregistered" {
		t.Fatalf("rawOpt.Type = %q, want %q", rawOpt.Type, "SomethingUnregistered")
	}
	if _, ok := rawOpt.Fields["__mcio_type__"]; ok {
		t.Fatalf("expected type discriminator stripped from Fields, got %+v", rawOpt.Fields)
	}
	if _, ok := rawOpt.Fields["value"]; !ok {
		t.Fatalf("expected raw field %q preserved, got %+v", "value", rawOpt.Fields)
	}
}
