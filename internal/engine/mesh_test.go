package engine

import (
	"testing"

	"github.com/goki/mat32"
)

func TestMeshBoxGeometry(t *testing.T) {
	ms := NewMesh("box")
	ms.AddBox(2, 4, 6, mat32.Vec3{X: 1, Y: 0, Z: 0})
	if got := ms.NVtx(); got != 24 {
		t.Errorf("box vertex count = %d, want 24", got)
	}
	if got := len(ms.Idx); got != 36 {
		t.Errorf("box index count = %d, want 36", got)
	}
	if !nearVec(ms.BBox.Min, mat32.Vec3{X: 0, Y: -2, Z: -3}, 1e-5) ||
		!nearVec(ms.BBox.Max, mat32.Vec3{X: 2, Y: 2, Z: 3}, 1e-5) {
		t.Errorf("box bbox = %v..%v, want offset-shifted extents", ms.BBox.Min, ms.BBox.Max)
	}
}

func TestMeshNormalsMatchVertices(t *testing.T) {
	ms := NewMesh("shapes")
	ms.AddBox(1, 1, 1, mat32.Vec3{})
	ms.AddCylinderSector(2, 1, 1, 12, true, true, mat32.Vec3{X: 0, Y: 4, Z: 0})
	ms.AddSphereSector(1, 12, 6, 0, 180, mat32.Vec3{X: 4, Y: 0, Z: 0})
	ms.AddTorus(2, 0.2, 12, 8, mat32.Vec3{})
	if len(ms.Vtx) != len(ms.Norm) {
		t.Errorf("vtx/norm buffers diverge: %d vs %d", len(ms.Vtx), len(ms.Norm))
	}
	if len(ms.Idx)%3 != 0 {
		t.Errorf("index count %d not a multiple of 3", len(ms.Idx))
	}
}

func TestMeshIndicesInRange(t *testing.T) {
	ms := NewMesh("cone")
	ms.AddCylinderSector(3, 0, 1.5, 16, false, true, mat32.Vec3{})
	n := uint32(ms.NVtx())
	for i, ix := range ms.Idx {
		if ix >= n {
			t.Fatalf("index %d at position %d out of range (%d vertices)", ix, i, n)
		}
	}
}

func TestMeshTubeFollowsCurve(t *testing.T) {
	cv := NewCurve([]mat32.Vec3{{X: 0, Y: 0, Z: 0}, {X: 10, Y: 0, Z: 0}})
	ms := NewMesh("tube")
	ms.AddTube(cv, 0.5, 8, 12)
	if ms.NVtx() != 9*13 {
		t.Errorf("tube vertex count = %d, want %d", ms.NVtx(), 9*13)
	}
	// the tube bbox wraps the curve within one radius
	if ms.BBox.Min.X < -0.6 || ms.BBox.Max.X > 10.6 {
		t.Errorf("tube bbox x = %v..%v, want within curve extent plus radius",
			ms.BBox.Min.X, ms.BBox.Max.X)
	}
	if ms.BBox.Max.Y > 0.6 || ms.BBox.Min.Y < -0.6 {
		t.Errorf("tube bbox y = %v..%v, want within tube radius", ms.BBox.Min.Y, ms.BBox.Max.Y)
	}
}
