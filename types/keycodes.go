package types

// Named key and mouse-button codes used by the fine-grained environment's
// input map (see env.FineGrainedKeys). Values match GLFW's numbering, which
// is the numbering the mod's wire contract was written against; this module
// never opens a window or reads an input device itself.
const (
	KeyW            = 87
	KeyA            = 65
	KeyS            = 83
	KeyD            = 68
	KeySpace        = 32
	KeyLeftShift    = 340
	KeyLeftControl  = 341
	KeyE            = 69
	KeyQ            = 81
	KeyF            = 70
	Key1            = 49
	Key2            = 50
	Key3            = 51
	Key4            = 52
	Key5            = 53
	Key6            = 54
	Key7            = 55
	Key8            = 56
	Key9            = 57
)

const (
	MouseButtonLeft   = 0
	MouseButtonRight  = 1
	MouseButtonMiddle = 2
)
