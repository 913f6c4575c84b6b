// Package engine implements the procedural scene-construction and animation
// engine for the plant schematic viewer: equipment geometry factories, the
// curve-based piping/flow-particle system, pointer-ray picking, the step
// disclosure state machine, and the per-tick frame loop that drives them.
//
// The engine is headless. It owns every piece of mutable view state and
// produces frame packets describing what a thin browser client should draw.
package engine

// Tuning holds the visual and timing constants of the engine. All of these
// are configuration defaults, not invariants: the XML config can override
// any of them, and nothing in the engine asserts on their values.
type Tuning struct {
	TickRate          int     // frames per second for the render loop
	ParticlesPerPipe  int     // size of the flow particle pool per segment
	ParticleSpeed     float32 // progress advance per tick
	PipeRadius        float32 // tube radius for pipe segments
	PipeOpacity       float32 // translucency of pipe tubes
	ShellOpacity      float32 // translucency of equipment shells
	FOV               float32 // camera field of view, degrees
	Near              float32 // camera near plane
	Far               float32 // camera far plane
	MinDistance       float32 // orbit distance floor
	MaxDistance       float32 // orbit distance ceiling
	MaxPolarDeg       float32 // orbit polar-angle ceiling, degrees from vertical
	Damping           float32 // orbit damping factor (per second)
	AutoRotateSpeed   float32 // degrees per second when auto-rotate is on
	FogColor          string
	FogDensity        float32 // exponential fog density
	GridSize          float32
	GridDivisions     int
	GridColor         string
	BloomThreshold    float32 // luminance threshold; well above ambient so only emissive accents bloom
	BloomStrength     float32
	BloomRadius       float32
	AmbientColor      string
	AmbientIntensity  float32
	KeyColor          string
	KeyIntensity      float32
	FillColor         string
	FillIntensity     float32
	UnderColor        string
	UnderIntensity    float32
	CaptionPulseTicks int // duration of the caption fade pulse
	BouncePulseTicks  int // duration of the "no further steps" bounce cue
	Seed              int64
}

// DefaultTuning returns the stock studio setup: two lights plus ambient,
// restrained bloom, exponential depth fog, and a camera scaled to a plant
// footprint of roughly 100x60 world units.
func DefaultTuning() Tuning {
	return Tuning{
		TickRate:          30,
		ParticlesPerPipe:  60,
		ParticleSpeed:     0.004,
		PipeRadius:        0.35,
		PipeOpacity:       0.35,
		ShellOpacity:      0.25,
		FOV:               45,
		Near:              0.1,
		Far:               600,
		MinDistance:       8,
		MaxDistance:       160,
		MaxPolarDeg:       88,
		Damping:           6,
		AutoRotateSpeed:   4,
		FogColor:          "#0b1020",
		FogDensity:        0.0065,
		GridSize:          180,
		GridDivisions:     60,
		GridColor:         "#1d2742",
		BloomThreshold:    0.85,
		BloomStrength:     0.35,
		BloomRadius:       0.4,
		AmbientColor:      "#32405e",
		AmbientIntensity:  0.55,
		KeyColor:          "#ffffff",
		KeyIntensity:      1.0,
		FillColor:         "#8fb3ff",
		FillIntensity:     0.45,
		UnderColor:        "#22304e",
		UnderIntensity:    0.25,
		CaptionPulseTicks: 24,
		BouncePulseTicks:  12,
		Seed:              0,
	}
}
