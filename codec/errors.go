package codec

import "errors"

// ErrDecode is returned (wrapped) when a message's CBOR bytes fail to parse,
// or the decoded document has the wrong shape for its destination type.
// Per-packet, non-fatal: callers log and discard, the connection stays open.
var ErrDecode = errors.New("mcio codec: decode error")

// ErrVersionMismatch is returned, wrapped together with ErrDecode, when the
// decoded observation's version field does not match types.ProtocolVersion.
var ErrVersionMismatch = errors.New("mcio codec: protocol version mismatch")

// ErrUnknownOption is logged (not returned) when an options payload carries
// a __mcio_type__ discriminator this registry has no constructor for.
// decodeOption falls back to a types.RawOption carrying the raw decoded
// map, matching the original's behavior of returning the bare dict rather
// than discarding the payload.
var ErrUnknownOption = errors.New("mcio codec: unknown observation option type")
