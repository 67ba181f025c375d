// Package env implements C8/C9: the reinforcement-learning-style
// reset/step/close environment built on top of a controller and
// connection, plus the C5-C7 per-environment helpers (input state, cursor
// mapping, stats cache) and the two concrete action/observation-space
// variants.
package env

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/go-mclib/mcio/connection"
	"github.com/go-mclib/mcio/controller"
	"github.com/go-mclib/mcio/cursor"
	"github.com/go-mclib/mcio/frame"
	"github.com/go-mclib/mcio/inputstate"
	"github.com/go-mclib/mcio/stats"
	"github.com/go-mclib/mcio/types"
)

// ErrResetNeeded is returned by Step/Render when the environment has
// already terminated and reset() has not yet been called, matching the
// upstream gymnasium.Env ABC's ResetNeeded contract.
var ErrResetNeeded = errors.New("env: reset needed before further stepping")

// ResetFailure reports that health never rose above zero within the
// bounded number of no-op retry steps following a reset.
type ResetFailure struct {
	Attempts int
}

func (e *ResetFailure) Error() string {
	return fmt.Sprintf("env: reset failed to observe health > 0 after %d attempts", e.Attempts)
}

// defaultMaxResetRetries bounds the no-op stepping loop reset() runs when
// the first post-reset observation shows the player in a death screen,
// unless Config.MaxResetRetries overrides it.
const defaultMaxResetRetries = 60

// defaultFrameWidth/defaultFrameHeight are the expected frame resolution
// used for the Frame-Size-Mismatch check when Config doesn't set one,
// matching the original's DEFAULT_WINDOW_WIDTH/HEIGHT.
const (
	defaultFrameWidth  = 854
	defaultFrameHeight = 480
)

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

// ControllerMode selects which controller Reset constructs.
type ControllerMode int

const (
	// Sync pairs every action 1:1 with the next observation.
	Sync ControllerMode = iota
	// Async lets the mod push observations at its own cadence.
	Async
)

// Launcher is the external collaborator responsible for starting and
// stopping the Minecraft process this environment drives. Its only
// required close-time operation is to ask the mod to stop and release any
// process handle; actually launching a JVM is out of scope for this
// module (see the Non-goals in the design notes).
type Launcher interface {
	Close() error
}

// noopLauncher satisfies Launcher when the caller supplies none (e.g. the
// mod was started out-of-band, or in tests).
type noopLauncher struct{}

func (noopLauncher) Close() error { return nil }

// Renderer is the external collaborator "human" mode pushes frames to
// (a GUI window, typically). rgb_array mode bypasses this entirely.
type Renderer interface {
	ShowFrame(frame []byte) error
	Close() error
}

// noopRenderer satisfies Renderer when the caller doesn't want a window.
type noopRenderer struct{}

func (noopRenderer) ShowFrame([]byte) error { return nil }
func (noopRenderer) Close() error           { return nil }

// envController is the subset of controller.SyncController /
// controller.AsyncController the base environment needs, letting Base stay
// agnostic to which mode constructed it.
type envController interface {
	SendAction(a *types.Action)
	Recv() *types.Observation
	SendStop()
	Close() error
}

// Config configures a Base environment (the "BridgeConfig" of the design
// notes: analogous to the original's RunOptions).
type Config struct {
	Connection connection.Config
	Mode       ControllerMode
	Launcher   Launcher
	Renderer   Renderer
	Logger     Logger

	// MaxResetRetries bounds the no-op stepping loop Reset runs when the
	// first post-reset observation shows the player in a death screen.
	// Zero means "use the default" (see defaultMaxResetRetries).
	MaxResetRetries int

	// FrameWidth/FrameHeight are the resolution Reset expects the mod's
	// frames to be. A mismatch logs a Frame-Size-Mismatch warning rather
	// than failing reset outright. Zero on either means "use the default".
	FrameWidth  int
	FrameHeight int
}

// DefaultConfig returns a Config wired to localhost defaults in sync mode
// with no-op launcher/renderer collaborators.
func DefaultConfig() Config {
	return Config{
		Connection:      connection.DefaultConfig(),
		Mode:            Sync,
		MaxResetRetries: defaultMaxResetRetries,
		FrameWidth:      defaultFrameWidth,
		FrameHeight:     defaultFrameHeight,
	}
}

func (c Config) withDefaults() Config {
	if c.Launcher == nil {
		c.Launcher = noopLauncher{}
	}
	if c.Renderer == nil {
		c.Renderer = noopRenderer{}
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	if c.MaxResetRetries == 0 {
		c.MaxResetRetries = defaultMaxResetRetries
	}
	if c.FrameWidth == 0 {
		c.FrameWidth = defaultFrameWidth
	}
	if c.FrameHeight == 0 {
		c.FrameHeight = defaultFrameHeight
	}
	return c
}

// Option configures a Config via the functional-options pattern, matching
// the small, builder-framework-free style the rest of this module's
// configuration uses.
type Option func(*Config)

// WithHost overrides the mod host to dial.
func WithHost(host string) Option {
	return func(c *Config) { c.Connection.Host = host }
}

// WithPorts overrides the action/observation ports to dial.
func WithPorts(actionPort, observationPort int) Option {
	return func(c *Config) {
		c.Connection.ActionPort = actionPort
		c.Connection.ObservationPort = observationPort
	}
}

// WithMode overrides the controller mode (Sync/Async).
func WithMode(mode ControllerMode) Option {
	return func(c *Config) { c.Mode = mode }
}

// WithMaxResetRetries overrides the death-screen retry bound.
func WithMaxResetRetries(n int) Option {
	return func(c *Config) { c.MaxResetRetries = n }
}

// WithFrameSize overrides the expected frame resolution used for the
// Frame-Size-Mismatch check.
func WithFrameSize(width, height int) Option {
	return func(c *Config) {
		c.FrameWidth = width
		c.FrameHeight = height
	}
}

// NewConfig builds a Config from DefaultConfig() with opts applied in
// order, e.g. NewConfig(WithHost("10.0.0.5"), WithMode(Async)).
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// ResetOptions carries world-initialization commands sent with the first
// post-reset action.
type ResetOptions struct {
	Commands []string
}

// StepOptions carries extra commands to inject alongside a single step's
// translated action.
type StepOptions struct {
	Commands []string
}

// Callbacks is the small per-variant translation surface Base delegates
// to. A is the caller-facing action type, O the caller-facing observation
// type (Go has no abstract-base-class mechanism comparable to Python's
// ABC/abstractmethod, so a generic struct plus a narrow interface stands
// in for it).
type Callbacks[A, O any] interface {
	// NoopAction returns the "do nothing" action value for this variant.
	NoopAction() A
	// ConvertAction translates a caller action into the wire Action,
	// using im/cm to turn level state into edges and degrees into pixels.
	// A returned bool of false means the action resolves to no wire send
	// at all (Variant B's ESC, which only sets terminated).
	ConvertAction(a A, im *inputstate.Manager, cm *cursor.Mapper) (*types.Action, bool)
	// ConvertObservation translates a wire Observation into the
	// caller-facing observation shape.
	ConvertObservation(obs *types.Observation, sc *stats.Cache) O
	// Reward computes this step's (reward, terminated, truncated) from the
	// wire observation and the action that produced it. Base overrides
	// terminated with its own health==0 tracking afterward.
	Reward(obs *types.Observation, a A) (reward float64, terminated, truncated bool)
}

// Base is the shared reset/step/close machinery for both environment
// variants.
type Base[A, O any] struct {
	cfg       Config
	callbacks Callbacks[A, O]

	mu         sync.Mutex
	ctrl       envController
	inputMgr   *inputstate.Manager
	cursorMap  *cursor.Mapper
	statsCache *stats.Cache

	// newController builds the controller (and, transitively, the
	// connection) a fresh Reset wires up. Defaults to dialing a real
	// connection.Connection; tests substitute a fake envController to
	// exercise Base's reset/step bookkeeping without a socket pair.
	newController func() (envController, error)

	lastFrame     []byte
	lastCursorPos types.CursorPos
	health        float64
	terminated    bool
	closed        bool
}

// NewBase constructs an environment around the given callbacks. The
// connection/controller themselves aren't created until Reset.
func NewBase[A, O any](cfg Config, callbacks Callbacks[A, O]) *Base[A, O] {
	cfg = cfg.withDefaults()
	b := &Base[A, O]{
		cfg:        cfg,
		callbacks:  callbacks,
		statsCache: stats.New(),
	}
	b.newController = func() (envController, error) {
		conn, err := connection.New(cfg.Connection)
		if err != nil {
			return nil, err
		}
		switch cfg.Mode {
		case Async:
			return controller.NewAsyncController(conn, cfg.Logger), nil
		default:
			return controller.NewSyncController(conn, cfg.Logger), nil
		}
	}
	return b
}

// Reset tears down any prior controller/connection, constructs a fresh
// one, sends the initial clear_input action (plus any reset commands), and
// waits out a death-screen state if the mod reports one immediately.
func (b *Base[A, O]) Reset(opts *ResetOptions) (O, map[string]any, error) {
	var zero O

	b.mu.Lock()
	defer b.mu.Unlock()

	b.teardownLocked()

	b.inputMgr = inputstate.New()
	b.cursorMap = cursor.New()
	b.terminated = false
	b.lastFrame = nil
	b.lastCursorPos = types.CursorPos{}

	ctrl, err := b.newController()
	if err != nil {
		return zero, nil, fmt.Errorf("env: reset: %w", err)
	}
	b.ctrl = ctrl

	var commands []string
	if opts != nil {
		commands = opts.Commands
	}
	initial := types.NewAction()
	initial.ClearInput = true
	initial.Commands = commands
	b.ctrl.SendAction(initial)

	obs := b.ctrl.Recv()

	if obs.Frame != nil {
		if w, h, err := frame.Dimensions(obs.Frame); err == nil {
			if w != b.cfg.FrameWidth || h != b.cfg.FrameHeight {
				b.cfg.Logger.Printf("[WARN] env: Frame-Size-Mismatch: env=%dx%d mcio=%dx%d", b.cfg.FrameWidth, b.cfg.FrameHeight, w, h)
			}
		}
	}
	b.absorbObservation(obs)

	attempts := 0
	for b.health == 0 && attempts < b.cfg.MaxResetRetries {
		noop := types.NewAction()
		b.ctrl.SendAction(noop)
		obs = b.ctrl.Recv()
		b.absorbObservation(obs)
		attempts++
	}
	if b.health == 0 {
		return zero, nil, &ResetFailure{Attempts: attempts}
	}

	out := b.callbacks.ConvertObservation(obs, b.statsCache)
	return out, b.infoLocked(), nil
}

// Step sends one translated action and returns the resulting step tuple.
// Returns ErrResetNeeded if the environment is already terminated.
func (b *Base[A, O]) Step(action A, opts *StepOptions) (O, float64, bool, bool, map[string]any, error) {
	var zero O

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.terminated {
		return zero, 0, true, false, nil, ErrResetNeeded
	}

	wireAction, send := b.callbacks.ConvertAction(action, b.inputMgr, b.cursorMap)
	if opts != nil && len(opts.Commands) > 0 {
		if wireAction == nil {
			wireAction = types.NewAction()
		}
		wireAction.Commands = append(wireAction.Commands, opts.Commands...)
	}

	var obs *types.Observation
	if send {
		b.ctrl.SendAction(wireAction)
		obs = b.ctrl.Recv()
		b.absorbObservation(obs)
	} else {
		obs = b.syntheticObservationLocked()
	}

	reward, terminated, truncated := b.callbacks.Reward(obs, action)
	if b.health == 0 {
		terminated = true
		b.terminated = true
	} else if terminated {
		b.terminated = true
	}

	out := b.callbacks.ConvertObservation(obs, b.statsCache)
	return out, reward, b.terminated, truncated, b.infoLocked(), nil
}

// SkipSteps sends n empty actions and returns only the final observation,
// letting injected commands (teleports, time-set) settle before the agent
// resumes normal stepping.
func (b *Base[A, O]) SkipSteps(n int) (O, float64, bool, bool, map[string]any, error) {
	var zero O

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.terminated {
		return zero, 0, true, false, nil, ErrResetNeeded
	}

	var obs *types.Observation
	for i := 0; i < n; i++ {
		noop := types.NewAction()
		b.ctrl.SendAction(noop)
		obs = b.ctrl.Recv()
		b.absorbObservation(obs)
	}
	if obs == nil {
		obs = b.syntheticObservationLocked()
	}
	if b.health == 0 {
		b.terminated = true
	}

	out := b.callbacks.ConvertObservation(obs, b.statsCache)
	return out, 0, b.terminated, false, b.infoLocked(), nil
}

// Render returns the last frame for "rgb_array" mode, or pushes it to the
// renderer collaborator for "human" mode.
func (b *Base[A, O]) Render(mode string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.terminated {
		return nil, ErrResetNeeded
	}

	switch mode {
	case "human":
		return nil, b.cfg.Renderer.ShowFrame(b.lastFrame)
	case "rgb_array":
		return b.lastFrame, nil
	default:
		return nil, fmt.Errorf("env: unsupported render mode %q", mode)
	}
}

// Close tears down the renderer, controller/connection, and launcher.
// Safe to call multiple times and on a partially constructed environment.
func (b *Base[A, O]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	if b.ctrl != nil {
		b.ctrl.SendStop()
	}
	b.teardownLocked()
	_ = b.cfg.Renderer.Close()
	return b.cfg.Launcher.Close()
}

func (b *Base[A, O]) teardownLocked() {
	if b.ctrl != nil {
		_ = b.ctrl.Close()
		b.ctrl = nil
	}
}

// absorbObservation folds stats options into the cache and updates the
// carried-across-steps state (frame, cursor, health).
func (b *Base[A, O]) absorbObservation(obs *types.Observation) {
	if obs == nil {
		return
	}
	switch opt := obs.Options.(type) {
	case types.StatsFull:
		b.statsCache.ApplyFull(&opt)
	case types.StatsUpdate:
		b.statsCache.ApplyUpdate(&opt)
	}

	if obs.Frame != nil {
		b.lastFrame = obs.Frame
	}
	b.lastCursorPos = obs.CursorPos
	b.cursorMap.Set(obs.CursorPos)
	b.health = obs.Health
}

// syntheticObservationLocked is returned when a step resolves to no wire
// send at all (Variant B's ESC): it carries forward the last known state
// rather than blocking on a send/recv round trip that never happens.
func (b *Base[A, O]) syntheticObservationLocked() *types.Observation {
	return &types.Observation{
		Frame:      b.lastFrame,
		CursorPos:  b.lastCursorPos,
		Health:     b.health,
		CursorMode: types.CursorModeDisabled,
	}
}

func (b *Base[A, O]) infoLocked() map[string]any {
	return map[string]any{}
}

// setControllerFactory overrides how Reset builds its controller, for
// tests that need to drive Base without a real socket pair.
func (b *Base[A, O]) setControllerFactory(f func() (envController, error)) {
	b.newController = f
}

// StatsCache exposes the environment's running stats accumulator so a
// variant can fold it into its own info dict (see RLStyleEnv.Step).
func (b *Base[A, O]) StatsCache() *stats.Cache {
	return b.statsCache
}

// LastCursorPos returns the most recently observed cursor position.
func (b *Base[A, O]) LastCursorPos() types.CursorPos {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastCursorPos
}
