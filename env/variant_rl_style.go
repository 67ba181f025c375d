package env

import (
	"github.com/go-mclib/mcio/cursor"
	"github.com/go-mclib/mcio/frame"
	"github.com/go-mclib/mcio/inputstate"
	"github.com/go-mclib/mcio/stats"
	"github.com/go-mclib/mcio/types"
)

// RLStyleKeys is the same key map as FineGrainedKeys; ESC is not in it, being
// a standalone field of RLStyleAction rather than a held key.
var RLStyleKeys = FineGrainedKeys

// RLStyleAction is Variant B's action space: the same Boolean key map,
// an ESC flag that never reaches the mod (it only sets terminated), and a
// (Δpitch, Δyaw) camera vector in degrees.
type RLStyleAction struct {
	Keys   map[string]float64
	ESC    bool
	Camera [2]float32 // [0]=pitch delta, [1]=yaw delta, each in [-180,180]
}

// RLStyleObservation is Variant B's observation space: just the POV frame.
type RLStyleObservation struct {
	POV       []byte
	POVFormat frame.Format
}

type rlStyleCallbacks struct{}

// RLStyleCallbacks returns the Callbacks implementation for Variant B.
func RLStyleCallbacks() Callbacks[RLStyleAction, RLStyleObservation] {
	return rlStyleCallbacks{}
}

func (rlStyleCallbacks) NoopAction() RLStyleAction {
	return RLStyleAction{}
}

func (rlStyleCallbacks) ConvertAction(a RLStyleAction, im *inputstate.Manager, cm *cursor.Mapper) (*types.Action, bool) {
	if a.ESC {
		// ESC never reaches the mod; Step interprets the false return as
		// "resolve this step locally, terminated, without a wire round trip".
		return nil, false
	}

	pressed, released := inputstate.Partition(a.Keys, RLStyleKeys)
	events := im.Step(pressed, released)

	pos := cm.Update(float64(a.Camera[1]), float64(a.Camera[0]))

	wire := types.NewAction()
	wire.Inputs = events
	wire.CursorPos = []types.CursorPos{pos}
	return wire, true
}

func (rlStyleCallbacks) ConvertObservation(obs *types.Observation, sc *stats.Cache) RLStyleObservation {
	return RLStyleObservation{POV: obs.Frame, POVFormat: frame.DetectFormat(obs.Frame)}
}

func (rlStyleCallbacks) Reward(obs *types.Observation, a RLStyleAction) (float64, bool, bool) {
	return 0, a.ESC, false
}

// RLStyleEnv wraps Base[RLStyleAction, RLStyleObservation] to additionally
// fold the stats cache into info["stats"], per the spec's Variant B
// expansion. Re-anchoring the cursor mapper against the mod's reported
// position happens in Base on every observation, for both variants.
type RLStyleEnv struct {
	*Base[RLStyleAction, RLStyleObservation]
}

// NewRLStyleEnv constructs Variant B.
func NewRLStyleEnv(cfg Config) *RLStyleEnv {
	return &RLStyleEnv{Base: NewBase(cfg, RLStyleCallbacks())}
}

// Step delegates to Base.Step and additionally folds the running stats
// cache into info["stats"].
func (e *RLStyleEnv) Step(action RLStyleAction, opts *StepOptions) (RLStyleObservation, float64, bool, bool, map[string]any, error) {
	obs, reward, terminated, truncated, info, err := e.Base.Step(action, opts)
	if info != nil {
		info["stats"] = e.StatsCache().Snapshot()
	}
	return obs, reward, terminated, truncated, info, err
}

// Reset delegates to Base.Reset and folds the running stats cache into
// info["stats"].
func (e *RLStyleEnv) Reset(opts *ResetOptions) (RLStyleObservation, map[string]any, error) {
	obs, info, err := e.Base.Reset(opts)
	if info != nil {
		info["stats"] = e.StatsCache().Snapshot()
	}
	return obs, info, err
}
