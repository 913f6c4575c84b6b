package engine

import (
	"testing"

	"github.com/goki/mat32"
)

func pickEngine(t *testing.T) *Engine {
	t.Helper()
	tun := DefaultTuning()
	tun.Seed = 11
	return NewEngine("pick-test", tun, HostCaps{HasLabels: true, HasInfoPanel: true}, 800, 600)
}

func TestPickHitsUnitUnderCursor(t *testing.T) {
	e := pickEngine(t)
	_, err := e.AddUnit(CategoryStorageTank, UnitParams{
		Name:        "Phosphoric Acid Tank",
		Description: "feed acid storage",
		Pos:         mat32.Vec3{X: 0, Y: 0, Z: 0},
		Radius:      4,
		Height:      12,
	}, 1)
	if err != nil {
		t.Fatalf("AddUnit: %v", err)
	}

	// default camera looks through the viewport center at the plant origin
	meta := e.Pick(400, 300, 800, 600)
	if meta == nil {
		t.Fatal("Pick at viewport center: no hit")
	}
	if meta.Name != "Phosphoric Acid Tank" {
		t.Errorf("picked %q, want the tank", meta.Name)
	}
	if meta.Category != string(CategoryStorageTank) {
		t.Errorf("picked category %q, want %q", meta.Category, CategoryStorageTank)
	}
}

func TestPickMissReturnsNil(t *testing.T) {
	e := pickEngine(t)
	if _, err := e.AddUnit(CategoryBin, UnitParams{Name: "Bin"}, 1); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if meta := e.Pick(1, 1, 800, 600); meta != nil {
		t.Errorf("Pick at viewport corner hit %q, want nil", meta.Name)
	}
}

func TestPickIgnoresHiddenUnits(t *testing.T) {
	e := pickEngine(t)
	// revealed only at step 2: hidden once the guided tour starts
	if _, err := e.AddUnit(CategoryStorageTank, UnitParams{
		Name: "Late Tank", Radius: 4, Height: 12,
	}, 2); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if _, err := e.AddUnit(CategoryBin, UnitParams{
		Name: "Early Bin", Pos: mat32.Vec3{X: 40, Y: 0, Z: 0},
	}, 1); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	e.SetModeStep()
	if meta := e.Pick(400, 300, 800, 600); meta != nil {
		t.Errorf("picked hidden unit %q", meta.Name)
	}
}

func TestPickNearestWins(t *testing.T) {
	e := pickEngine(t)
	// both on the center view axis; the near one occludes the far one
	if _, err := e.AddUnit(CategoryStorageTank, UnitParams{
		Name: "Far Tank", Pos: mat32.Vec3{X: 0, Y: 0, Z: -20}, Radius: 5, Height: 16,
	}, 1); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	if _, err := e.AddUnit(CategoryStorageTank, UnitParams{
		Name: "Near Tank", Pos: mat32.Vec3{X: 0, Y: 0, Z: 10}, Radius: 5, Height: 16,
	}, 1); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	meta := e.Pick(400, 300, 800, 600)
	if meta == nil {
		t.Fatal("Pick: no hit")
	}
	if meta.Name != "Near Tank" {
		t.Errorf("picked %q, want the nearer tank", meta.Name)
	}
}

func TestClickFillsInfoPanel(t *testing.T) {
	e := pickEngine(t)
	if _, err := e.AddUnit(CategoryStorageTank, UnitParams{
		Name:        "Tank",
		Description: "storage",
		Radius:      4,
		Height:      12,
	}, 1); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	e.Click(400, 300)
	v := e.View()
	if !v.Info.Visible || v.Info.Name != "Tank" {
		t.Errorf("info panel after click = %+v, want visible Tank", v.Info)
	}

	// a miss keeps the current panel
	e.Click(1, 1)
	v = e.View()
	if !v.Info.Visible || v.Info.Name != "Tank" {
		t.Errorf("info panel after miss = %+v, want unchanged", v.Info)
	}
}

func TestClickNoopWithoutInfoPanel(t *testing.T) {
	tun := DefaultTuning()
	e := NewEngine("no-panel", tun, HostCaps{HasLabels: true}, 800, 600)
	if _, err := e.AddUnit(CategoryStorageTank, UnitParams{
		Name: "Tank", Radius: 4, Height: 12,
	}, 1); err != nil {
		t.Fatalf("AddUnit: %v", err)
	}
	e.Click(400, 300)
	if v := e.View(); v.Info.Visible {
		t.Error("info panel set without a panel anchor")
	}
}
