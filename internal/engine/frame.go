package engine

// CameraState is the camera pose snapshot sent with every frame.
type CameraState struct {
	Pos    [3]float32 `msgpack:"pos" json:"pos"`
	Target [3]float32 `msgpack:"target" json:"target"`
}

// SpinState carries the current angle of one rotating node.
type SpinState struct {
	ID    int     `msgpack:"id" json:"id"`
	Angle float32 `msgpack:"angle" json:"angle"`
}

// PipeState carries one pipe's live particle positions as a flat xyz
// buffer, omitted when flow is off.
type PipeState struct {
	ID        int       `msgpack:"id" json:"id"`
	Positions []float32 `msgpack:"positions" json:"positions"`
}

// Frame is one tick's worth of dynamic state, pushed to the client over
// the websocket as msgpack. Everything static lives in the scene document.
type Frame struct {
	Tick  int64   `msgpack:"tick" json:"tick"`
	Clock float32 `msgpack:"clock" json:"clock"`

	Mode    string `msgpack:"mode" json:"mode"`
	Step    int    `msgpack:"step" json:"step"`
	MaxStep int    `msgpack:"max_step" json:"max_step"`

	Flow       bool `msgpack:"flow" json:"flow"`
	Labels     bool `msgpack:"labels" json:"labels"`
	AutoRotate bool `msgpack:"auto_rotate" json:"auto_rotate"`

	Camera CameraState `msgpack:"camera" json:"camera"`

	// Visible lists the node ids drawn in the scene pass; Emissive lists
	// the subset fed to the bloom pass.
	Visible  []int `msgpack:"visible" json:"visible"`
	Emissive []int `msgpack:"emissive" json:"emissive"`

	Spins []SpinState `msgpack:"spins,omitempty" json:"spins,omitempty"`
	Pipes []PipeState `msgpack:"pipes,omitempty" json:"pipes,omitempty"`

	LabelsPos []LabelPos `msgpack:"labels_pos,omitempty" json:"labels_pos,omitempty"`

	Info InfoPanel `msgpack:"info" json:"info"`

	Caption      string `msgpack:"caption" json:"caption"`
	CaptionPulse int    `msgpack:"caption_pulse" json:"caption_pulse"`
	BouncePulse  int    `msgpack:"bounce_pulse" json:"bounce_pulse"`
}

// renderFrame composites the current state. Caller holds the engine lock.
func (e *Engine) renderFrame() *Frame {
	f := &Frame{
		Tick:       e.tick,
		Clock:      e.clock,
		Mode:       string(e.steps.Mode()),
		Step:       e.steps.Current(),
		MaxStep:    e.steps.MaxStep(),
		Flow:       e.view.FlowEnabled,
		Labels:     e.view.LabelsVisible,
		AutoRotate: e.view.AutoRotate,
		Camera: CameraState{
			Pos:    [3]float32{e.cam.Pos.X, e.cam.Pos.Y, e.cam.Pos.Z},
			Target: [3]float32{e.cam.Target.X, e.cam.Target.Y, e.cam.Target.Z},
		},
		Info:         e.view.Info,
		Caption:      e.steps.Caption(),
		CaptionPulse: e.captionPulse,
		BouncePulse:  e.bouncePulse,
	}

	e.root.WalkDown(func(nd *Node) bool {
		if !nd.Visible {
			return false
		}
		if nd.Mesh != nil {
			f.Visible = append(f.Visible, nd.ID)
			if nd.Mat.Emissive {
				f.Emissive = append(f.Emissive, nd.ID)
			}
		}
		return true
	})

	for _, nd := range e.spins {
		if !nd.IsVisible() {
			continue
		}
		f.Spins = append(f.Spins, SpinState{ID: nd.ID, Angle: nd.Spin.Angle})
	}

	if e.view.FlowEnabled {
		for _, ps := range e.pipes {
			if !ps.Tube.IsVisible() {
				continue
			}
			f.Pipes = append(f.Pipes, PipeState{ID: ps.ID, Positions: ps.Positions})
		}
	}

	f.LabelsPos = labelPass(e.labels, e.cam, e.view.Width, e.view.Height,
		e.view.LabelsVisible && e.caps.HasLabels)

	return f
}
