package engine

import "github.com/goki/mat32"

// Light is one member of the studio rig. Type is "ambient", "directional",
// or "point"; Dir is meaningful for directional, Pos for point lights.
type Light struct {
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	Color     string     `json:"color"`
	Intensity float32    `json:"intensity"`
	Dir       mat32.Vec3 `json:"dir,omitempty"`
	Pos       mat32.Vec3 `json:"pos,omitempty"`
}

// Fog is exponential depth fog for spatial cueing.
type Fog struct {
	Color   string  `json:"color"`
	Density float32 `json:"density"`
}

// Bloom holds the post-process highlight settings. The threshold sits well
// above ambient brightness so only emissive accents glow.
type Bloom struct {
	Threshold float32 `json:"threshold"`
	Strength  float32 `json:"strength"`
	Radius    float32 `json:"radius"`
}

// Grid is the ground reference plane.
type Grid struct {
	Size      float32 `json:"size"`
	Divisions int     `json:"divisions"`
	Color     string  `json:"color"`
}

// Environment bundles the static scene dressing: lights, fog, grid, and
// bloom settings, all handed to the client compositor as data.
type Environment struct {
	Lights []Light `json:"lights"`
	Fog    Fog     `json:"fog"`
	Bloom  Bloom   `json:"bloom"`
	Grid   Grid    `json:"grid"`
}

// NewEnvironment returns the two-light-plus-ambient studio rig: a key light
// from high front-left, a cooler fill from the right, and a soft underlight
// so undersides stay legible without harsh shadows.
func NewEnvironment(tun Tuning) Environment {
	return Environment{
		Lights: []Light{
			{Name: "ambient", Type: "ambient", Color: tun.AmbientColor, Intensity: tun.AmbientIntensity},
			{Name: "key", Type: "directional", Color: tun.KeyColor, Intensity: tun.KeyIntensity, Dir: mat32.Vec3{X: -0.5, Y: -1, Z: -0.4}.Normal()},
			{Name: "fill", Type: "directional", Color: tun.FillColor, Intensity: tun.FillIntensity, Dir: mat32.Vec3{X: 0.7, Y: -0.4, Z: 0.5}.Normal()},
			{Name: "under", Type: "point", Color: tun.UnderColor, Intensity: tun.UnderIntensity, Pos: mat32.Vec3{X: 0, Y: -4, Z: 0}},
		},
		Fog:   Fog{Color: tun.FogColor, Density: tun.FogDensity},
		Bloom: Bloom{Threshold: tun.BloomThreshold, Strength: tun.BloomStrength, Radius: tun.BloomRadius},
		Grid:  Grid{Size: tun.GridSize, Divisions: tun.GridDivisions, Color: tun.GridColor},
	}
}
