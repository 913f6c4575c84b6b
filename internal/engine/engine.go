package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/goki/mat32"
)

// InfoPanel is the inspection readout state written by the interaction
// controller and rendered by the host.
type InfoPanel struct {
	Name        string `msgpack:"name" json:"name"`
	Category    string `msgpack:"category" json:"category"`
	Description string `msgpack:"description" json:"description"`
	Visible     bool   `msgpack:"visible" json:"visible"`
}

// ViewState is the process-wide mutable view state: created at engine
// initialization, mutated only by the command handlers and resize, torn
// down with the engine.
type ViewState struct {
	FlowEnabled   bool
	LabelsVisible bool
	AutoRotate    bool
	Width         int
	Height        int
	RenderSize    [2]int
	LabelSize     [2]int
	ComposerSize  [2]int
	Info          InfoPanel
}

// HostCaps reports which DOM anchors the host page supplied. A missing
// anchor disables the dependent subsystem without failing the engine.
type HostCaps struct {
	HasLabels    bool
	HasInfoPanel bool
}

// Engine owns one scene instance end to end: graph, registries, camera,
// controls, environment, step state, and the tick loop. All mutable state
// lives here; engines are independent and safe to run side by side.
//
// Lifecycle is create (NewEngine + assembly) -> Run -> Dispose. Commands
// and ticks are serialized by the engine mutex, so command handling always
// runs to completion between ticks.
type Engine struct {
	mu    sync.Mutex
	id    string
	tun   Tuning
	caps  HostCaps
	root  *Node
	cam   *Camera
	orbit *OrbitControls
	env   Environment
	steps *StepController
	view  ViewState

	units         []*Unit
	pipes         []*PipeSegment
	labels        []*Label
	interactables []*Node
	spins         []*Node
	spinBase      map[*Node]mat32.Quat

	rng    *rand.Rand
	nextID int
	tick   int64
	clock  float32

	captionPulse int
	bouncePulse  int

	running  bool
	stop     chan struct{}
	done     chan struct{}
	disposed bool
}

// NewEngine creates an engine with the given tuning and host capabilities,
// sized to an initial viewport of width x height pixels.
func NewEngine(id string, tun Tuning, caps HostCaps, width, height int) *Engine {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	seed := tun.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		id:       id,
		tun:      tun,
		caps:     caps,
		root:     NewNode("plant"),
		cam:      NewCamera(tun.FOV, float32(width)/float32(height), tun.Near, tun.Far),
		env:      NewEnvironment(tun),
		steps:    NewStepController(),
		rng:      rand.New(rand.NewSource(seed)),
		spinBase: map[*Node]mat32.Quat{},
		nextID:   1,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	e.orbit = NewOrbitControls(e.cam, tun)
	e.view = ViewState{
		FlowEnabled:   true,
		LabelsVisible: true,
		Width:         width,
		Height:        height,
		RenderSize:    [2]int{width, height},
		LabelSize:     [2]int{width, height},
		ComposerSize:  [2]int{width, height},
	}
	e.assignIDs(e.root)
	return e
}

// ID returns the engine identifier (the viewer session id).
func (e *Engine) ID() string { return e.id }

// Tuning returns the engine's tuning values.
func (e *Engine) Tuning() Tuning { return e.tun }

func (e *Engine) assignIDs(nd *Node) {
	nd.WalkDown(func(n *Node) bool {
		if n.ID == 0 {
			n.ID = e.nextID
			e.nextID++
		}
		return true
	})
}

// AddUnit builds the equipment for cat at the given reveal step and wires
// it into the scene, the interactable registry, the step controller, and
// the label overlay.
func (e *Engine) AddUnit(cat Category, p UnitParams, revealStep int) (*Unit, error) {
	un, err := BuildUnit(cat, p, e.tun)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.assignIDs(un.Group)
	e.root.AddChild(un.Group)
	e.interactables = append(e.interactables, un.Group)
	e.units = append(e.units, un)
	un.Group.WalkDown(func(n *Node) bool {
		if n.Spin != nil {
			e.spins = append(e.spins, n)
			e.spinBase[n] = n.Pose.Quat
		}
		return true
	})
	e.labels = append(e.labels, &Label{
		ID:     un.Group.ID,
		Text:   un.Name,
		Anchor: un.LabelAnchor,
		Owner:  un.Group,
	})
	e.steps.Register(un.Group, revealStep)
	e.root.UpdateWorldMatrix(nil)
	return un, nil
}

// AddPipe builds a pipe segment through the points at the given reveal
// step. Flow particles inherit the global flow toggle.
func (e *Engine) AddPipe(points []mat32.Vec3, color string, revealStep int) (*PipeSegment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ps, err := BuildPipe(points, color, e.tun, e.rng)
	if err != nil {
		return nil, err
	}
	e.assignIDs(ps.Tube)
	ps.ID = ps.Tube.ID
	e.root.AddChild(ps.Tube)
	e.pipes = append(e.pipes, ps)
	e.steps.Register(ps.Tube, revealStep)
	e.root.UpdateWorldMatrix(nil)
	return ps, nil
}

// AddMarker places an input/output marker: a small emissive cone with
// inspection metadata and a label, revealed at the given step.
func (e *Engine) AddMarker(kind, name, desc string, pos mat32.Vec3, revealStep int) *Node {
	ms := NewMesh("marker")
	ms.AddCylinderSector(1.4, 0, 0.6, 16, false, true, mat32.Vec3{X: 0, Y: 0.7, Z: 0})
	color := "#7ee081"
	if kind == "out" {
		color = "#ff8c66"
	}
	nd := NewSolid(name, ms, Material{Color: color, Opacity: 1, Emissive: true})
	nd.Pose.Pos = pos
	nd.Meta = &Metadata{Name: name, Category: "marker-" + kind, Description: desc}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.assignIDs(nd)
	e.root.AddChild(nd)
	e.interactables = append(e.interactables, nd)
	e.labels = append(e.labels, &Label{
		ID:     nd.ID,
		Text:   name,
		Anchor: pos.Add(mat32.Vec3{X: 0, Y: 2.2, Z: 0}),
		Owner:  nd,
	})
	e.steps.Register(nd, revealStep)
	e.root.UpdateWorldMatrix(nil)
	return nd
}

// SetCaptions installs the guided-tour caption table.
func (e *Engine) SetCaptions(captions []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.steps.SetCaptions(captions)
}

// MaxStep returns the highest registered reveal step.
func (e *Engine) MaxStep() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.steps.MaxStep()
}

// View returns a copy of the current view state.
func (e *Engine) View() ViewState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// ToggleFlow flips the global flow-particle visibility. Particle progress
// is untouched, so toggling back on resumes motion where it left off.
func (e *Engine) ToggleFlow() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.FlowEnabled = !e.view.FlowEnabled
	return e.view.FlowEnabled
}

// ToggleLabels flips the floating label overlay.
func (e *Engine) ToggleLabels() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.LabelsVisible = !e.view.LabelsVisible
	return e.view.LabelsVisible
}

// ToggleAutoRotate flips slow automatic orbiting.
func (e *Engine) ToggleAutoRotate() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.AutoRotate = !e.view.AutoRotate
	e.orbit.AutoRotate = e.view.AutoRotate
	return e.view.AutoRotate
}

// SetModeComplete shows the whole plant at once.
func (e *Engine) SetModeComplete() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.steps.SetComplete()
	e.captionPulse = e.tun.CaptionPulseTicks
}

// SetModeStep restarts the guided tour at step 1 and forces labels on so
// the tour is readable.
func (e *Engine) SetModeStep() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.steps.SetGuided()
	e.view.LabelsVisible = true
	e.captionPulse = e.tun.CaptionPulseTicks
}

// NextStep advances the guided tour; at the final step it raises the
// bounce cue instead and leaves the state unchanged.
func (e *Engine) NextStep() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.steps.NextStep() {
		e.captionPulse = e.tun.CaptionPulseTicks
	} else if e.steps.Mode() == ModeStep {
		e.bouncePulse = e.tun.BouncePulseTicks
	}
}

// Click runs the interaction controller for a pointer click at client
// coordinates (x, y). A hit fills the info panel; a miss changes nothing.
// Skipped when the host has no info panel.
func (e *Engine) Click(x, y float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.caps.HasInfoPanel {
		return
	}
	meta := e.Pick(x, y, e.view.Width, e.view.Height)
	if meta == nil {
		return
	}
	e.view.Info = InfoPanel{
		Name:        meta.Name,
		Category:    meta.Category,
		Description: meta.Description,
		Visible:     true,
	}
}

// Orbit applies a manual orbit delta in degrees.
func (e *Engine) Orbit(dx, dy float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orbit.Orbit(dx, dy)
}

// Zoom applies a manual zoom by pct of the current distance.
func (e *Engine) Zoom(pct float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orbit.Zoom(pct)
}

// Resize updates the camera aspect and keeps the render, label overlay,
// and composer buffers pixel-aligned at the new size.
func (e *Engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view.Width = width
	e.view.Height = height
	e.view.RenderSize = [2]int{width, height}
	e.view.LabelSize = [2]int{width, height}
	e.view.ComposerSize = [2]int{width, height}
	e.cam.SetAspect(float32(width) / float32(height))
}

// Step advances the engine by dt seconds and returns the resulting frame.
// Tick order is fixed: controls update, spin/particle advance, composite
// render (scene pass + bloom list), label overlay pass.
func (e *Engine) Step(dt float32) *Frame {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tick++
	e.clock += dt

	e.orbit.Update(dt)

	for _, nd := range e.spins {
		sp := nd.Spin
		sp.Angle += sp.Speed * dt
		spin := mat32.NewQuatAxisAngle(sp.Axis, sp.Angle)
		base := e.spinBase[nd]
		nd.Pose.Quat = base.Mul(spin)
	}
	if e.view.FlowEnabled {
		for _, ps := range e.pipes {
			ps.Advance()
		}
	}
	e.root.UpdateWorldMatrix(nil)

	if e.captionPulse > 0 {
		e.captionPulse--
	}
	if e.bouncePulse > 0 {
		e.bouncePulse--
	}
	return e.renderFrame()
}

// Snapshot composites the current state into a frame without advancing
// the clock.
func (e *Engine) Snapshot() *Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderFrame()
}

// Run starts the continuous tick loop, delivering each frame to onFrame
// until Dispose. onFrame runs on the loop goroutine; keep it quick.
func (e *Engine) Run(onFrame func(*Frame)) {
	e.mu.Lock()
	if e.running || e.disposed {
		e.mu.Unlock()
		return
	}
	e.running = true
	rate := e.tun.TickRate
	if rate <= 0 {
		rate = 30
	}
	e.mu.Unlock()

	go func() {
		defer close(e.done)
		dt := 1 / float32(rate)
		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()
		for {
			select {
			case <-e.stop:
				return
			case <-ticker.C:
				f := e.Step(dt)
				if onFrame != nil {
					onFrame(f)
				}
			}
		}
	}()
}

// Dispose halts the tick loop and marks the engine dead. Safe to call more
// than once and before Run.
func (e *Engine) Dispose() {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.disposed = true
	wasRunning := e.running
	e.mu.Unlock()

	close(e.stop)
	if wasRunning {
		<-e.done
	}
	e.mu.Lock()
	ticks := e.tick
	e.mu.Unlock()
	fmt.Printf("[Engine %s] disposed after %d ticks\n", shortID(e.id), ticks)
}

// Disposed reports whether Dispose has been called.
func (e *Engine) Disposed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
