package engine

import "github.com/goki/mat32"

// Label is a floating text marker anchored above a unit. The overlay pass
// projects the anchor to pixel coordinates every frame; the client only
// positions a DOM element there.
type Label struct {
	ID     int
	Text   string
	Anchor mat32.Vec3
	Owner  *Node // label visibility follows the owning group
}

// LabelPos is one projected label in the frame packet.
type LabelPos struct {
	ID      int     `msgpack:"id" json:"id"`
	X       float32 `msgpack:"x" json:"x"`
	Y       float32 `msgpack:"y" json:"y"`
	Visible bool    `msgpack:"visible" json:"visible"`
}

// labelPass projects every label into pixel coordinates for a w x h
// viewport. Labels behind the camera or on hidden owners are flagged
// invisible but keep their slot, so the client can fade rather than reflow.
func labelPass(labels []*Label, cam *Camera, w, h int, labelsOn bool) []LabelPos {
	out := make([]LabelPos, len(labels))
	for i, lb := range labels {
		lp := LabelPos{ID: lb.ID}
		ndc, front := cam.Project(lb.Anchor)
		if front && labelsOn && (lb.Owner == nil || lb.Owner.IsVisible()) {
			lp.Visible = true
			lp.X = (ndc.X + 1) / 2 * float32(w)
			lp.Y = (1 - ndc.Y) / 2 * float32(h)
		}
		out[i] = lp
	}
	return out
}
