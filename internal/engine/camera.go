package engine

import "github.com/goki/mat32"

// Camera is a perspective camera looking from Pos toward Target with UpDir
// up. View and projection matrices are recomputed by UpdateMatrix.
type Camera struct {
	Pos     mat32.Vec3
	Target  mat32.Vec3
	UpDir   mat32.Vec3
	FOV     float32
	Aspect  float32
	Near    float32
	Far     float32
	PoseMat mat32.Mat4
	ViewMat mat32.Mat4
	PrjnMat mat32.Mat4
	VPMat   mat32.Mat4 // projection * view
	InvVP   mat32.Mat4
}

// NewCamera returns a camera with the given lens parameters, positioned on
// the default plant overview axis.
func NewCamera(fov, aspect, near, far float32) *Camera {
	cm := &Camera{
		Pos:    mat32.Vec3{X: 0, Y: 30, Z: 70},
		Target: mat32.Vec3{X: 0, Y: 6, Z: 0},
		UpDir:  mat32.Vec3{X: 0, Y: 1, Z: 0},
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
	cm.UpdateMatrix()
	return cm
}

// UpdateMatrix recomputes the view, projection, and combined matrices from
// the current pose and lens parameters.
func (cm *Camera) UpdateMatrix() {
	lookRot := mat32.NewLookAt(cm.Pos, cm.Target, cm.UpDir)
	var quat mat32.Quat
	quat.SetFromRotationMatrix(lookRot)
	cm.PoseMat.SetTransform(cm.Pos, quat, mat32.Vec3{X: 1, Y: 1, Z: 1})
	cm.ViewMat.SetInverse(&cm.PoseMat)
	cm.PrjnMat.SetPerspective(cm.FOV, cm.Aspect, cm.Near, cm.Far)
	cm.VPMat.MulMatrices(&cm.PrjnMat, &cm.ViewMat)
	cm.InvVP.SetInverse(&cm.VPMat)
}

// SetAspect updates the aspect ratio (width/height) and the matrices.
func (cm *Camera) SetAspect(aspect float32) {
	cm.Aspect = aspect
	cm.UpdateMatrix()
}

// Project maps a world point to normalized device coordinates. front is
// false when the point is behind the camera plane.
func (cm *Camera) Project(pt mat32.Vec3) (ndc mat32.Vec3, front bool) {
	v, w := mulMat4Pt4(&cm.VPMat, pt)
	if w <= 0 {
		return v, false
	}
	v.X /= w
	v.Y /= w
	v.Z /= w
	return v, true
}

// PickRay returns the world-space ray through the given normalized device
// coordinates (x, y in [-1,1], y up).
func (cm *Camera) PickRay(ndcX, ndcY float32) (origin, dir mat32.Vec3) {
	near := mulMat4Pt(&cm.InvVP, mat32.Vec3{X: ndcX, Y: ndcY, Z: -1})
	far := mulMat4Pt(&cm.InvVP, mat32.Vec3{X: ndcX, Y: ndcY, Z: 1})
	origin = near
	dir = far.Sub(near).Normal()
	return origin, dir
}
