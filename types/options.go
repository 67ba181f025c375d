package types

// ObservationOption is the capability implemented by every polymorphic
// auxiliary payload an Observation.Options field may carry. The codec
// discriminates between concrete variants using the __mcio_type__ tag (see
// the codec package's registry); consumers type-switch on the returned value.
type ObservationOption interface {
	// MCioTypeName is the bare (undotted) registry name embedded on the wire
	// as "." + MCioTypeName.
	MCioTypeName() string
}

// StatCategory is one named group of statistic counters (e.g. "minecraft:mined").
type StatCategory struct {
	ID    string     `cbor:"id"`
	Stats []StatItem `cbor:"stats"`
}

// StatItem is a single statistic within a StatCategory.
type StatItem struct {
	ID    string `cbor:"id"`
	Value int    `cbor:"value"`
}

// StatsFull is an authoritative snapshot of every tracked statistic. Receipt
// of a StatsFull replaces the stats cache (stats.Cache) wholesale.
type StatsFull struct {
	Categories []StatCategory `cbor:"categories"`
}

// MCioTypeName implements ObservationOption.
func (StatsFull) MCioTypeName() string { return "StatsFull" }

// StatsUpdate carries incremental deltas to be added to the running stats
// cache, same shape as StatsFull but interpreted per-entry as an increment.
type StatsUpdate struct {
	Categories []StatCategory `cbor:"categories"`
}

// MCioTypeName implements ObservationOption.
func (StatsUpdate) MCioTypeName() string { return "StatsUpdate" }

// RawOption is the fallback carried when an Observation's __mcio_type__
// names a type this build has no registered constructor for (e.g. talking
// to a newer mod). Fields holds the decoded map as-is, minus the type
// discriminator, so callers can still inspect whatever the mod sent instead
// of losing the options payload entirely.
type RawOption struct {
	Type   string
	Fields map[string]any
}

// MCioTypeName implements ObservationOption.
func (r RawOption) MCioTypeName() string { return r.Type }
