package engine

// Mode is the disclosure mode of the viewer.
type Mode string

const (
	// ModeComplete shows every registered object regardless of step.
	ModeComplete Mode = "complete"
	// ModeStep reveals objects gated by the monotonic step counter.
	ModeStep Mode = "step"
)

// StepRegistration pairs a scene object with the guided-tour step at which
// it becomes visible.
type StepRegistration struct {
	Node *Node
	Step int
}

// StepController gates visibility of registered objects by the current
// step. Visibility is always a pure function of (mode, current step); every
// transition recomputes all registrations.
type StepController struct {
	mode     Mode
	cur      int
	maxStep  int
	regs     []StepRegistration
	captions []string
}

// NewStepController starts in complete mode with no registrations.
func NewStepController() *StepController {
	return &StepController{mode: ModeComplete}
}

// Register gates nd at the given reveal step and applies current
// visibility immediately.
func (sc *StepController) Register(nd *Node, step int) {
	sc.regs = append(sc.regs, StepRegistration{Node: nd, Step: step})
	if step > sc.maxStep {
		sc.maxStep = step
		if sc.mode == ModeComplete {
			sc.cur = sc.maxStep
		}
	}
	sc.apply()
}

// SetCaptions installs the per-step caption table; captions[0] belongs to
// step 1.
func (sc *StepController) SetCaptions(captions []string) {
	sc.captions = captions
}

// Captions returns the installed caption table.
func (sc *StepController) Captions() []string { return sc.captions }

// Mode returns the current mode.
func (sc *StepController) Mode() Mode { return sc.mode }

// Current returns the current step counter.
func (sc *StepController) Current() int { return sc.cur }

// MaxStep returns the highest registered reveal step.
func (sc *StepController) MaxStep() int { return sc.maxStep }

// Caption returns the title for the current step, or "" outside guided
// mode.
func (sc *StepController) Caption() string {
	if sc.mode != ModeStep {
		return ""
	}
	if sc.cur >= 1 && sc.cur <= len(sc.captions) {
		return sc.captions[sc.cur-1]
	}
	return ""
}

// SetComplete enters the terminal all-visible state.
func (sc *StepController) SetComplete() {
	sc.mode = ModeComplete
	sc.cur = sc.maxStep
	sc.apply()
}

// SetGuided restarts the guided tour at step 1.
func (sc *StepController) SetGuided() {
	sc.mode = ModeStep
	sc.cur = 1
	sc.apply()
}

// NextStep advances the guided tour. Returns false when already at the
// final step (the caller raises the bounce cue) or when not in guided mode.
func (sc *StepController) NextStep() bool {
	if sc.mode != ModeStep {
		return false
	}
	if sc.cur >= sc.maxStep {
		return false
	}
	sc.cur++
	sc.apply()
	return true
}

// apply recomputes visibility for every registration.
func (sc *StepController) apply() {
	for _, rg := range sc.regs {
		rg.Node.Visible = sc.mode == ModeComplete || rg.Step <= sc.cur
	}
}
