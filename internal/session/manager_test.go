package session

import (
	"sync"
	"testing"
	"time"

	"github.com/plant-visualizer/backend/internal/engine"
	"github.com/plant-visualizer/backend/internal/layout"
	"github.com/plant-visualizer/backend/internal/models"
	"github.com/plant-visualizer/backend/internal/testutil"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store := testutil.NewMockStorage()
	data, _ := layout.Builtin(layout.BuiltinWetEnd)
	info, err := store.Save("DAP Wet End", data, testutil.BuiltinMeta())
	if err != nil {
		t.Fatalf("seeding layout: %v", err)
	}
	if err := store.SetActive(info.ID); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	tun := engine.DefaultTuning()
	tun.Seed = 3
	m := NewManager(store, layout.DefaultPalette(), tun)
	t.Cleanup(m.DisposeAll)
	return m
}

func createTestView(t *testing.T, m *Manager) *models.ViewerSession {
	t.Helper()
	sess, err := m.CreateView(800, 600, engine.HostCaps{HasLabels: true, HasInfoPanel: true})
	if err != nil {
		t.Fatalf("CreateView: %v", err)
	}
	return sess
}

func TestCreateViewFromActiveLayout(t *testing.T) {
	m := newTestManager(t)
	sess := createTestView(t, m)

	if sess.Status != models.ViewStatusActive {
		t.Errorf("status = %s, want active", sess.Status)
	}
	if sess.LayoutName != "DAP Wet End" {
		t.Errorf("layout name = %q, want DAP Wet End", sess.LayoutName)
	}
	if sess.MaxStep != 8 {
		t.Errorf("max step = %d, want 8", sess.MaxStep)
	}

	got, ok := m.GetView(sess.ID)
	if !ok {
		t.Fatal("GetView: view missing")
	}
	if got.Mode != string(engine.ModeComplete) {
		t.Errorf("initial mode = %q, want complete", got.Mode)
	}
}

func TestCreateViewWithoutActiveLayout(t *testing.T) {
	store := testutil.NewMockStorage()
	m := NewManager(store, layout.DefaultPalette(), engine.DefaultTuning())
	if _, err := m.CreateView(800, 600, engine.HostCaps{}); err == nil {
		t.Fatal("CreateView without active layout: want error")
	}
}

func TestCommandDispatch(t *testing.T) {
	m := newTestManager(t)
	sess := createTestView(t, m)

	if err := m.Command(sess.ID, models.ViewCommand{Type: models.CmdModeStep}); err != nil {
		t.Fatalf("Command mode-step: %v", err)
	}
	got, _ := m.GetView(sess.ID)
	if got.Mode != string(engine.ModeStep) || got.Step != 1 {
		t.Errorf("after mode-step: mode=%q step=%d, want step/1", got.Mode, got.Step)
	}

	if err := m.Command(sess.ID, models.ViewCommand{Type: models.CmdNextStep}); err != nil {
		t.Fatalf("Command next-step: %v", err)
	}
	got, _ = m.GetView(sess.ID)
	if got.Step != 2 {
		t.Errorf("after next-step: step = %d, want 2", got.Step)
	}

	if err := m.Command(sess.ID, models.ViewCommand{Type: models.CmdResize, Width: 1024, Height: 768}); err != nil {
		t.Fatalf("Command resize: %v", err)
	}
	got, _ = m.GetView(sess.ID)
	if got.Width != 1024 || got.Height != 768 {
		t.Errorf("after resize: %dx%d, want 1024x768", got.Width, got.Height)
	}

	if err := m.Command(sess.ID, models.ViewCommand{Type: "warp"}); err == nil {
		t.Error("unknown command: want error")
	}
	if err := m.Command("nonexistent", models.ViewCommand{Type: models.CmdNextStep}); err == nil {
		t.Error("command on missing view: want error")
	}
}

func TestConcurrentSessionAccess(t *testing.T) {
	m := newTestManager(t)
	sess := createTestView(t, m)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if err := m.Command(sess.ID, models.ViewCommand{Type: models.CmdNextStep}); err != nil {
					t.Errorf("Command next-step: %v", err)
					return
				}
				if _, ok := m.GetView(sess.ID); !ok {
					t.Error("GetView: view missing")
					return
				}
				m.TouchView(sess.ID)
			}
		}()
	}
	wg.Wait()

	got, ok := m.GetView(sess.ID)
	if !ok {
		t.Fatal("GetView after concurrent access: view missing")
	}
	if got.LastActive == 0 {
		t.Error("LastActive never updated")
	}
}

func TestSubscribeReceivesFrames(t *testing.T) {
	m := newTestManager(t)
	sess := createTestView(t, m)

	ch, cancel, ok := m.Subscribe(sess.ID)
	if !ok {
		t.Fatal("Subscribe: view missing")
	}
	defer cancel()

	select {
	case f := <-ch:
		if f.Tick == 0 {
			t.Error("frame has zero tick")
		}
		if len(f.Visible) == 0 {
			t.Error("frame renders nothing")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame within 2s")
	}
}

func TestDeleteView(t *testing.T) {
	m := newTestManager(t)
	sess := createTestView(t, m)

	if !m.DeleteView(sess.ID) {
		t.Fatal("DeleteView: view missing")
	}
	if _, ok := m.GetView(sess.ID); ok {
		t.Error("view still present after delete")
	}
	if m.DeleteView(sess.ID) {
		t.Error("second delete reported success")
	}
}

func TestViewLimitEvictsIdlest(t *testing.T) {
	m := newTestManager(t)
	m.SetMaxViews(2)

	first := createTestView(t, m)
	second := createTestView(t, m)

	// make the first view the idle one
	time.Sleep(10 * time.Millisecond)
	m.TouchView(second.ID)

	third := createTestView(t, m)
	if m.ViewCount() != 2 {
		t.Errorf("view count = %d, want 2 after eviction", m.ViewCount())
	}
	if _, ok := m.GetView(third.ID); !ok {
		t.Error("new view missing after eviction")
	}
	if _, ok := m.GetView(first.ID); ok {
		t.Error("idlest view survived eviction")
	}
}

func TestCleanupOldViews(t *testing.T) {
	m := newTestManager(t)
	sess := createTestView(t, m)

	// freshly accessed views survive
	m.CleanupOldViews(time.Nanosecond)
	if _, ok := m.GetView(sess.ID); !ok {
		t.Error("recently accessed view was cleaned up")
	}
}
