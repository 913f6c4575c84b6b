package engine

import (
	"fmt"
	"math/rand"

	"github.com/goki/mat32"
)

// FlowParticle is one visual marker moving along a pipe. Progress is in
// [0,1) along the curve and wraps modulo 1; position is always a pure
// function of progress.
type FlowParticle struct {
	Progress float32
	Speed    float32
}

// PipeSegment routes material visually from its first control point to its
// last. It owns a translucent tube solid and a fixed pool of flow particles
// whose world positions are written into a shared buffer each tick.
type PipeSegment struct {
	ID        int
	Curve     *Curve
	Color     string
	Tube      *Node
	Particles []FlowParticle
	Positions mat32.ArrayF32 // 3 floats per particle, refreshed by Advance
}

// BuildPipe fits a smooth curve through the control points, extrudes a
// translucent tube along it, and spawns the particle pool with uniformly
// random starting progress so spacing is randomized at creation.
// At least 2 points are required.
func BuildPipe(points []mat32.Vec3, color string, tun Tuning, rng *rand.Rand) (*PipeSegment, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("pipe needs at least 2 control points, got %d", len(points))
	}
	cv := NewCurve(points)
	ms := NewMesh("pipe")
	segs := 8 * (len(points) - 1)
	ms.AddTube(cv, tun.PipeRadius, segs, 12)
	tube := NewSolid("pipe", ms, Material{Color: color, Opacity: tun.PipeOpacity})

	n := tun.ParticlesPerPipe
	if n <= 0 {
		n = 1
	}
	ps := &PipeSegment{
		Curve:     cv,
		Color:     color,
		Tube:      tube,
		Particles: make([]FlowParticle, n),
		Positions: make(mat32.ArrayF32, n*3),
	}
	for i := range ps.Particles {
		ps.Particles[i] = FlowParticle{
			Progress: rng.Float32(),
			Speed:    tun.ParticleSpeed,
		}
	}
	ps.writePositions()
	return ps, nil
}

// Advance moves every particle forward by its speed, wrapping progress
// modulo 1, and refreshes the shared position buffer.
func (ps *PipeSegment) Advance() {
	for i := range ps.Particles {
		p := &ps.Particles[i]
		p.Progress += p.Speed
		for p.Progress >= 1 {
			p.Progress -= 1
		}
	}
	ps.writePositions()
}

func (ps *PipeSegment) writePositions() {
	for i := range ps.Particles {
		pt := ps.Curve.Point(ps.Particles[i].Progress)
		ps.Positions.SetVec3(i*3, pt)
	}
}
