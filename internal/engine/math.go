package engine

import "github.com/goki/mat32"

// Mat4 is stored column-major, so column c row r lives at m[c*4+r].

// mulMat4Pt4 transforms pt by m as a point (w=1) and returns the transformed
// coordinates along with the resulting w, without perspective division.
func mulMat4Pt4(m *mat32.Mat4, pt mat32.Vec3) (mat32.Vec3, float32) {
	x := m[0]*pt.X + m[4]*pt.Y + m[8]*pt.Z + m[12]
	y := m[1]*pt.X + m[5]*pt.Y + m[9]*pt.Z + m[13]
	z := m[2]*pt.X + m[6]*pt.Y + m[10]*pt.Z + m[14]
	w := m[3]*pt.X + m[7]*pt.Y + m[11]*pt.Z + m[15]
	return mat32.Vec3{X: x, Y: y, Z: z}, w
}

// mulMat4Pt transforms pt by m as a point and performs the perspective
// divide. With a projection matrix this yields normalized device coords.
func mulMat4Pt(m *mat32.Mat4, pt mat32.Vec3) mat32.Vec3 {
	v, w := mulMat4Pt4(m, pt)
	if w != 0 && w != 1 {
		v.X /= w
		v.Y /= w
		v.Z /= w
	}
	return v
}

// mulMat4Dir transforms dir by m as a direction (w=0).
func mulMat4Dir(m *mat32.Mat4, dir mat32.Vec3) mat32.Vec3 {
	x := m[0]*dir.X + m[4]*dir.Y + m[8]*dir.Z
	y := m[1]*dir.X + m[5]*dir.Y + m[9]*dir.Z
	z := m[2]*dir.X + m[6]*dir.Y + m[10]*dir.Z
	return mat32.Vec3{X: x, Y: y, Z: z}
}

// rayBoxHit performs a slab test of the ray (origin, dir) against box,
// returning the entry distance along dir. Rays starting inside the box hit
// at distance 0.
func rayBoxHit(origin, dir mat32.Vec3, box mat32.Box3) (float32, bool) {
	tmin := float32(-1e30)
	tmax := float32(1e30)
	org := [3]float32{origin.X, origin.Y, origin.Z}
	d := [3]float32{dir.X, dir.Y, dir.Z}
	bmin := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	bmax := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}
	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if org[i] < bmin[i] || org[i] > bmax[i] {
				return 0, false
			}
			continue
		}
		t0 := (bmin[i] - org[i]) / d[i]
		t1 := (bmax[i] - org[i]) / d[i]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tmin = max(tmin, t0)
		tmax = min(tmax, t1)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return 0, true
	}
	return tmin, true
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
