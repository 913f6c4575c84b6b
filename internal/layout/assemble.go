package layout

import (
	"fmt"

	"github.com/goki/mat32"

	"github.com/plant-visualizer/backend/internal/engine"
)

// Assemble builds a loaded document into the engine: units through the
// equipment factory, pipe runs, markers, and the caption table. The palette
// fills in colors the document leaves blank.
func Assemble(doc *Document, e *engine.Engine, pal Palette) error {
	for i, u := range doc.Units {
		colors := pal.For(u.Category)
		p := engine.UnitParams{
			Name:        u.Name,
			Description: u.Description,
			Pos:         mat32.Vec3{X: u.Pos[0], Y: u.Pos[1], Z: u.Pos[2]},
			Width:       u.Width,
			Height:      u.Height,
			Depth:       u.Depth,
			Radius:      u.Radius,
			Length:      u.Length,
			Color:       pick(u.Color, colors.Color),
			Accent:      pick(u.Accent, colors.Accent),
			Agitator:    u.Agitator,
			Count:       u.Count,
			TiltDeg:     u.TiltDeg,
		}
		if _, err := e.AddUnit(engine.Category(u.Category), p, u.Step); err != nil {
			return fmt.Errorf("units[%d] (%s): %w", i, u.Name, err)
		}
	}
	for i, ps := range doc.Pipes {
		pts := make([]mat32.Vec3, len(ps.Points))
		for j, pt := range ps.Points {
			pts[j] = mat32.Vec3{X: pt[0], Y: pt[1], Z: pt[2]}
		}
		if _, err := e.AddPipe(pts, ps.Color, ps.Step); err != nil {
			return fmt.Errorf("pipes[%d]: %w", i, err)
		}
	}
	for _, m := range doc.Markers {
		e.AddMarker(m.Kind, m.Name, m.Description, mat32.Vec3{X: m.Pos[0], Y: m.Pos[1], Z: m.Pos[2]}, m.Step)
	}
	e.SetCaptions(doc.Captions)
	return nil
}

func pick(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
