package codec

import (
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/go-mclib/mcio/types"
)

// optionConstructor decodes a registered option's remaining CBOR fields
// (the __mcio_type__ key already stripped by the unknown-field-tolerant
// cbor.Unmarshal call) into the concrete ObservationOption.
type optionConstructor func(raw cbor.RawMessage) (types.ObservationOption, error)

// registry is the process-wide "protocol dataclass" type table described in
// the protocol's design notes: populated once at package init and treated as
// immutable thereafter. There is no exported Register function — the set of
// wire-polymorphic option types is part of the protocol contract, not
// something a caller should be able to extend at runtime.
var registry = map[string]optionConstructor{
	"StatsFull": func(raw cbor.RawMessage) (types.ObservationOption, error) {
		var s types.StatsFull
		if err := cbor.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return s, nil
	},
	"StatsUpdate": func(raw cbor.RawMessage) (types.ObservationOption, error) {
		var s types.StatsUpdate
		if err := cbor.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return s, nil
	},
}

// mcioTypeKey is the reserved map key used to tag registered types on the
// wire. The leading dot mirrors the JVM peer's "minimal class" convention
// and is preserved byte-exact.
const mcioTypeKey = "__mcio_type__"

func encodeOption(opt types.ObservationOption) (cbor.RawMessage, error) {
	raw, err := cbor.Marshal(opt)
	if err != nil {
		return nil, fmt.Errorf("marshal option %T: %w", opt, err)
	}

	var fields map[string]cbor.RawMessage
	if err := cbor.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal option %T fields: %w", opt, err)
	}

	tag, err := cbor.Marshal("." + opt.MCioTypeName())
	if err != nil {
		return nil, err
	}
	fields[mcioTypeKey] = tag

	return cbor.Marshal(fields)
}

// decodeOption inspects raw for the __mcio_type__ discriminator and, if a
// constructor is registered for it, builds the concrete ObservationOption.
// An unregistered type is not an error: it's logged and the raw decoded map
// is returned as a types.RawOption, so a caller talking to a newer mod still
// gets the options payload instead of losing it.
func decodeOption(raw cbor.RawMessage) (types.ObservationOption, error) {
	var probe struct {
		Type string `cbor:"__mcio_type__"`
	}
	if err := cbor.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: options probe: %v", ErrDecode, err)
	}

	name := strings.TrimPrefix(probe.Type, ".")
	ctor, ok := registry[name]
	if !ok {
		var fields map[string]any
		if err := cbor.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("%w: raw fallback for %q: %v", ErrDecode, probe.Type, err)
		}
		delete(fields, mcioTypeKey)
		logf("observation options: unknown type %q (%v), returning raw map", probe.Type, ErrUnknownOption)
		return types.RawOption{Type: name, Fields: fields}, nil
	}
	return ctor(raw)
}
