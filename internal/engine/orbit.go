package engine

import "github.com/goki/mat32"

// OrbitControls moves the camera on a sphere around its target with damped
// motion. Distance is clamped to [MinDist, MaxDist] and the polar angle to
// (0, MaxPolar] so the view can never flip under the floor.
type OrbitControls struct {
	Cam             *Camera
	MinDist         float32
	MaxDist         float32
	MaxPolar        float32 // radians from the +Y pole
	Damping         float32 // approach rate per second
	AutoRotate      bool
	AutoRotateSpeed float32 // radians per second

	azimuth  float32
	polar    float32
	distance float32
	goalAz   float32
	goalPol  float32
	goalDist float32
}

// NewOrbitControls wraps cam, deriving the initial spherical coordinates
// from its current pose.
func NewOrbitControls(cam *Camera, tun Tuning) *OrbitControls {
	oc := &OrbitControls{
		Cam:             cam,
		MinDist:         tun.MinDistance,
		MaxDist:         tun.MaxDistance,
		MaxPolar:        mat32.DegToRad(tun.MaxPolarDeg),
		Damping:         tun.Damping,
		AutoRotateSpeed: mat32.DegToRad(tun.AutoRotateSpeed),
	}
	v := cam.Pos.Sub(cam.Target)
	oc.distance = v.Length()
	if oc.distance == 0 {
		oc.distance = oc.MinDist
	}
	oc.polar = mat32.Acos(clamp32(v.Y/oc.distance, -1, 1))
	oc.azimuth = mat32.Atan2(v.X, v.Z)
	oc.goalAz = oc.azimuth
	oc.goalPol = oc.polar
	oc.goalDist = oc.distance
	return oc
}

// Orbit offsets the orbit goal by the given deltas in degrees
// (left/right, up/down).
func (oc *OrbitControls) Orbit(delX, delY float32) {
	oc.goalAz += mat32.DegToRad(delX)
	oc.goalPol = clamp32(oc.goalPol+mat32.DegToRad(delY), 0.01, oc.MaxPolar)
}

// Zoom moves the goal distance by pct of itself, clamped to the distance
// bounds. Positive pct moves away from the target.
func (oc *OrbitControls) Zoom(pct float32) {
	oc.goalDist = clamp32(oc.goalDist*(1+pct), oc.MinDist, oc.MaxDist)
}

// Update advances damping (and auto-rotation) by dt seconds and writes the
// resulting pose into the camera.
func (oc *OrbitControls) Update(dt float32) {
	if oc.AutoRotate {
		oc.goalAz += oc.AutoRotateSpeed * dt
	}
	k := clamp32(oc.Damping*dt, 0, 1)
	oc.azimuth += (oc.goalAz - oc.azimuth) * k
	oc.polar += (oc.goalPol - oc.polar) * k
	oc.distance += (oc.goalDist - oc.distance) * k
	oc.polar = clamp32(oc.polar, 0.01, oc.MaxPolar)
	oc.distance = clamp32(oc.distance, oc.MinDist, oc.MaxDist)

	sp := mat32.Sin(oc.polar)
	dir := mat32.Vec3{X: sp * mat32.Sin(oc.azimuth), Y: mat32.Cos(oc.polar), Z: sp * mat32.Cos(oc.azimuth)}

	oc.Cam.Pos = oc.Cam.Target.Add(dir.MulScalar(oc.distance))
	oc.Cam.UpdateMatrix()
}
