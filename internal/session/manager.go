package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/plant-visualizer/backend/internal/engine"
	"github.com/plant-visualizer/backend/internal/layout"
	"github.com/plant-visualizer/backend/internal/models"
	"github.com/plant-visualizer/backend/internal/storage"
)

// MaxViews limits concurrent viewer sessions to prevent memory exhaustion
const MaxViews = 32

// ViewMaxAge is how long to keep idle views before cleanup
const ViewMaxAge = 30 * time.Minute

// ViewKeepAliveWindow is how long to keep views that are actively being used
const ViewKeepAliveWindow = 5 * time.Minute

// Manager owns the live viewer sessions. Each view runs one engine over
// the layout that was active when the view was created.
type Manager struct {
	views    map[string]*ViewState
	mu       sync.RWMutex
	store    storage.Store
	palette  layout.Palette
	tuning   engine.Tuning
	maxViews int
}

// ViewState holds one view's engine plus the session metadata and its
// frame subscribers. metaMu guards Session and LastAccessed; the manager
// lock only guards membership in the views map.
type ViewState struct {
	Engine *engine.Engine

	metaMu       sync.Mutex
	Session      *models.ViewerSession
	LastAccessed time.Time

	subMu sync.Mutex
	subs  map[chan *engine.Frame]struct{}
}

// touch marks the view as just used.
func (vs *ViewState) touch() {
	vs.metaMu.Lock()
	vs.LastAccessed = time.Now()
	vs.Session.LastActive = vs.LastAccessed.UnixMilli()
	vs.metaMu.Unlock()
}

// lastAccessed reads the idle timestamp.
func (vs *ViewState) lastAccessed() time.Time {
	vs.metaMu.Lock()
	defer vs.metaMu.Unlock()
	return vs.LastAccessed
}

// refresh pulls live engine state into the session metadata and returns
// a copy of it.
func (vs *ViewState) refresh() models.ViewerSession {
	f := vs.Engine.Snapshot()
	v := vs.Engine.View()

	vs.metaMu.Lock()
	defer vs.metaMu.Unlock()
	vs.Session.Mode = f.Mode
	vs.Session.Step = f.Step
	vs.Session.MaxStep = f.MaxStep
	vs.Session.Tick = f.Tick
	vs.Session.Width = v.Width
	vs.Session.Height = v.Height
	return *vs.Session
}

// NewManager creates a view manager over the given layout store.
func NewManager(store storage.Store, pal layout.Palette, tun engine.Tuning) *Manager {
	return &Manager{
		views:    make(map[string]*ViewState),
		store:    store,
		palette:  pal,
		tuning:   tun,
		maxViews: MaxViews,
	}
}

// SetMaxViews overrides the concurrent view limit (config).
func (m *Manager) SetMaxViews(n int) {
	if n > 0 {
		m.maxViews = n
	}
}

// CreateView builds an engine for the active layout and starts its tick
// loop. The caps describe which page anchors the client actually has.
func (m *Manager) CreateView(width, height int, caps engine.HostCaps) (*models.ViewerSession, error) {
	m.cleanupIfAtLimit()

	m.mu.RLock()
	if len(m.views) >= m.maxViews {
		m.mu.RUnlock()
		return nil, fmt.Errorf("view limit reached (%d)", m.maxViews)
	}
	m.mu.RUnlock()

	layoutID, ok := m.store.Active()
	if !ok {
		return nil, fmt.Errorf("no active layout")
	}
	info, err := m.store.Get(layoutID)
	if err != nil {
		return nil, fmt.Errorf("active layout: %w", err)
	}
	data, err := m.store.Data(layoutID)
	if err != nil {
		return nil, fmt.Errorf("active layout data: %w", err)
	}
	doc, err := layout.Load(data)
	if err != nil {
		return nil, fmt.Errorf("active layout invalid: %w", err)
	}

	viewID := uuid.New().String()
	eng := engine.NewEngine(viewID, m.tuning, caps, width, height)
	if err := layout.Assemble(doc, eng, m.palette); err != nil {
		eng.Dispose()
		return nil, fmt.Errorf("assembling layout: %w", err)
	}

	now := time.Now()
	session := &models.ViewerSession{
		ID:         viewID,
		LayoutID:   layoutID,
		LayoutName: info.Name,
		Status:     models.ViewStatusActive,
		Mode:       string(engine.ModeComplete),
		MaxStep:    eng.MaxStep(),
		Width:      width,
		Height:     height,
		CreatedAt:  now.UnixMilli(),
		LastActive: now.UnixMilli(),
	}

	state := &ViewState{
		Session:      session,
		Engine:       eng,
		LastAccessed: now,
		subs:         make(map[chan *engine.Frame]struct{}),
	}

	m.mu.Lock()
	m.views[viewID] = state
	m.mu.Unlock()

	eng.Run(state.broadcast)

	fmt.Printf("[View %s] Created for layout %q (%d steps)\n",
		viewID[:8], info.Name, session.MaxStep)
	return session, nil
}

// broadcast fans a frame out to all subscribers. Slow subscribers drop
// frames instead of stalling the tick loop.
func (vs *ViewState) broadcast(f *engine.Frame) {
	vs.subMu.Lock()
	defer vs.subMu.Unlock()
	for ch := range vs.subs {
		select {
		case ch <- f:
		default:
		}
	}
}

// Subscribe registers a frame channel for a view. The returned cancel
// function must be called when the consumer goes away.
func (m *Manager) Subscribe(id string) (<-chan *engine.Frame, func(), bool) {
	m.mu.RLock()
	state, ok := m.views[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil, false
	}

	ch := make(chan *engine.Frame, 2)
	state.subMu.Lock()
	state.subs[ch] = struct{}{}
	state.subMu.Unlock()

	cancel := func() {
		state.subMu.Lock()
		delete(state.subs, ch)
		state.subMu.Unlock()
	}
	return ch, cancel, true
}

// GetView returns the session metadata for a view, refreshed from the
// engine's live state.
func (m *Manager) GetView(id string) (*models.ViewerSession, bool) {
	m.mu.RLock()
	state, ok := m.views[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	cp := state.refresh()
	return &cp, true
}

// Engine returns the live engine for a view.
func (m *Manager) Engine(id string) (*engine.Engine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.views[id]
	if !ok {
		return nil, false
	}
	return state.Engine, true
}

// Command applies one client command to a view.
func (m *Manager) Command(id string, cmd models.ViewCommand) error {
	m.mu.RLock()
	state, ok := m.views[id]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("view not found: %s", id)
	}
	state.touch()

	eng := state.Engine
	switch cmd.Type {
	case models.CmdToggleFlow:
		eng.ToggleFlow()
	case models.CmdToggleLabels:
		eng.ToggleLabels()
	case models.CmdToggleAutoRotate:
		eng.ToggleAutoRotate()
	case models.CmdModeComplete:
		eng.SetModeComplete()
	case models.CmdModeStep:
		eng.SetModeStep()
	case models.CmdNextStep:
		eng.NextStep()
	case models.CmdClick:
		eng.Click(cmd.X, cmd.Y)
	case models.CmdResize:
		eng.Resize(cmd.Width, cmd.Height)
	case models.CmdOrbit:
		eng.Orbit(cmd.DX, cmd.DY)
	case models.CmdZoom:
		eng.Zoom(cmd.Pct)
	default:
		return fmt.Errorf("unknown command: %s", cmd.Type)
	}
	return nil
}

// TouchView updates the LastAccessed timestamp for a view.
func (m *Manager) TouchView(id string) bool {
	m.mu.RLock()
	state, ok := m.views[id]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	state.touch()
	return true
}

// DeleteView disposes a view's engine and removes it.
func (m *Manager) DeleteView(id string) bool {
	m.mu.Lock()
	state, ok := m.views[id]
	if ok {
		delete(m.views, id)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	state.Engine.Dispose()
	state.metaMu.Lock()
	state.Session.Status = models.ViewStatusDisposed
	state.metaMu.Unlock()
	fmt.Printf("[View %s] Deleted\n", id[:8])
	return true
}

// ViewCount returns the number of live views.
func (m *Manager) ViewCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.views)
}

// cleanupIfAtLimit drops the idlest views when at capacity.
func (m *Manager) cleanupIfAtLimit() {
	m.mu.Lock()

	if len(m.views) < m.maxViews {
		m.mu.Unlock()
		return
	}

	var oldestID string
	var oldest time.Time
	for id, state := range m.views {
		at := state.lastAccessed()
		if oldestID == "" || at.Before(oldest) {
			oldestID = id
			oldest = at
		}
	}
	m.mu.Unlock()

	if oldestID != "" {
		fmt.Printf("[Manager] Evicting idle view %s to free capacity\n", oldestID[:8])
		m.DeleteView(oldestID)
	}
}

// CleanupOldViews disposes views idle longer than maxAge, keeping views
// accessed within ViewKeepAliveWindow.
func (m *Manager) CleanupOldViews(maxAge time.Duration) {
	cutoff := time.Now().Add(-maxAge)
	keepAliveCutoff := time.Now().Add(-ViewKeepAliveWindow)

	m.mu.RLock()
	var toDelete []string
	for id, state := range m.views {
		at := state.lastAccessed()
		if at.After(keepAliveCutoff) {
			continue
		}
		if at.Before(cutoff) {
			toDelete = append(toDelete, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range toDelete {
		fmt.Printf("[Manager] Cleaned up aged view %s\n", id[:8])
		m.DeleteView(id)
	}
}

// DisposeAll tears down every view (shutdown path).
func (m *Manager) DisposeAll() {
	m.mu.Lock()
	views := m.views
	m.views = make(map[string]*ViewState)
	m.mu.Unlock()

	for _, state := range views {
		state.Engine.Dispose()
	}
}
