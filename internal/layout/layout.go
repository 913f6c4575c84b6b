// Package layout loads declarative plant layout documents and assembles
// them into live engine scenes. A layout is a versioned JSON document
// listing equipment units, pipe runs, flow markers, and the guided-tour
// captions; documents are schema-validated and semantically checked before
// any geometry is built.
package layout

// Document is one plant layout. Version gates the schema; unknown versions
// are rejected at load time rather than half-assembled.
type Document struct {
	Version     int          `json:"version"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Captions    []string     `json:"captions"`
	Units       []UnitSpec   `json:"units"`
	Pipes       []PipeSpec   `json:"pipes,omitempty"`
	Markers     []MarkerSpec `json:"markers,omitempty"`
}

// UnitSpec is one equipment unit entry. Dimension fields not meaningful
// for the category are ignored by its builder; zero means "use the
// category default".
type UnitSpec struct {
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Pos         [3]float32 `json:"pos"`
	Step        int        `json:"step"`
	Width       float32    `json:"width,omitempty"`
	Height      float32    `json:"height,omitempty"`
	Depth       float32    `json:"depth,omitempty"`
	Radius      float32    `json:"radius,omitempty"`
	Length      float32    `json:"length,omitempty"`
	Color       string     `json:"color,omitempty"`
	Accent      string     `json:"accent,omitempty"`
	Agitator    bool       `json:"agitator,omitempty"`
	Count       int        `json:"count,omitempty"`
	TiltDeg     float32    `json:"tilt_deg,omitempty"`
}

// PipeSpec is one pipe run through at least two control points.
type PipeSpec struct {
	Name   string       `json:"name,omitempty"`
	Color  string       `json:"color"`
	Step   int          `json:"step"`
	Points [][3]float32 `json:"points"`
}

// MarkerSpec is one material input or output marker.
type MarkerSpec struct {
	Kind        string     `json:"kind"` // "in" or "out"
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Pos         [3]float32 `json:"pos"`
	Step        int        `json:"step"`
}

// MaxStep returns the highest step referenced by any entry.
func (d *Document) MaxStep() int {
	max := 0
	for _, u := range d.Units {
		if u.Step > max {
			max = u.Step
		}
	}
	for _, p := range d.Pipes {
		if p.Step > max {
			max = p.Step
		}
	}
	for _, m := range d.Markers {
		if m.Step > max {
			max = m.Step
		}
	}
	return max
}
