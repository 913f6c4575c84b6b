package engine

import (
	"github.com/goki/mat32"
)

// Mesh is an indexed triangle mesh. Vertex positions and normals are stored
// interleaved-free in flat float32 buffers; Idx holds triangle indices in
// groups of 3. BBox bounds all vertices in local mesh coordinates.
type Mesh struct {
	Name string
	Vtx  mat32.ArrayF32
	Norm mat32.ArrayF32
	Idx  mat32.ArrayU32
	BBox mat32.Box3
}

// NewMesh returns an empty mesh with an empty bounding box.
func NewMesh(name string) *Mesh {
	ms := &Mesh{Name: name}
	ms.BBox.SetEmpty()
	return ms
}

// NVtx returns the number of vertices in the mesh.
func (ms *Mesh) NVtx() int {
	return ms.Vtx.Len() / 3
}

// AddBox adds a box of the given full sizes centered at offset.
func (ms *Mesh) AddBox(width, height, depth float32, offset mat32.Vec3) {
	hw, hh, hd := width/2, height/2, depth/2
	// 6 faces x 4 verts, normals per face
	faces := [6]struct {
		norm mat32.Vec3
		vtx  [4]mat32.Vec3
	}{
		{mat32.Vec3{X: 0, Y: 0, Z: 1}, [4]mat32.Vec3{{X: -hw, Y: -hh, Z: hd}, {X: hw, Y: -hh, Z: hd}, {X: hw, Y: hh, Z: hd}, {X: -hw, Y: hh, Z: hd}}},
		{mat32.Vec3{X: 0, Y: 0, Z: -1}, [4]mat32.Vec3{{X: hw, Y: -hh, Z: -hd}, {X: -hw, Y: -hh, Z: -hd}, {X: -hw, Y: hh, Z: -hd}, {X: hw, Y: hh, Z: -hd}}},
		{mat32.Vec3{X: 1, Y: 0, Z: 0}, [4]mat32.Vec3{{X: hw, Y: -hh, Z: hd}, {X: hw, Y: -hh, Z: -hd}, {X: hw, Y: hh, Z: -hd}, {X: hw, Y: hh, Z: hd}}},
		{mat32.Vec3{X: -1, Y: 0, Z: 0}, [4]mat32.Vec3{{X: -hw, Y: -hh, Z: -hd}, {X: -hw, Y: -hh, Z: hd}, {X: -hw, Y: hh, Z: hd}, {X: -hw, Y: hh, Z: -hd}}},
		{mat32.Vec3{X: 0, Y: 1, Z: 0}, [4]mat32.Vec3{{X: -hw, Y: hh, Z: hd}, {X: hw, Y: hh, Z: hd}, {X: hw, Y: hh, Z: -hd}, {X: -hw, Y: hh, Z: -hd}}},
		{mat32.Vec3{X: 0, Y: -1, Z: 0}, [4]mat32.Vec3{{X: -hw, Y: -hh, Z: -hd}, {X: hw, Y: -hh, Z: -hd}, {X: hw, Y: -hh, Z: hd}, {X: -hw, Y: -hh, Z: hd}}},
	}
	for _, f := range faces {
		stidx := uint32(ms.NVtx())
		for _, v := range f.vtx {
			pt := v.Add(offset)
			ms.Vtx.Append(pt.X, pt.Y, pt.Z)
			ms.Norm.Append(f.norm.X, f.norm.Y, f.norm.Z)
			ms.BBox.ExpandByPoint(pt)
		}
		ms.Idx.Append(stidx, stidx+1, stidx+2, stidx, stidx+2, stidx+3)
	}
}

// AddCylinderSector adds a generalized cylinder (truncated cone) with the
// given top and bottom radii. Height is along the Y axis, centered at
// offset. Top or bottom caps are added when the radius there is nonzero and
// the flag is set. Setting topRad to 0 produces a cone.
func (ms *Mesh) AddCylinderSector(height, topRad, botRad float32, radialSegs int, top, bottom bool, offset mat32.Vec3) {
	if radialSegs < 3 {
		radialSegs = 3
	}
	hHt := height / 2
	var pt, norm mat32.Vec3

	// side wall: two rings of vertices
	slope := (botRad - topRad) / height
	stidx := uint32(ms.NVtx())
	for i := 0; i <= radialSegs; i++ {
		u := float32(i) / float32(radialSegs)
		ang := u * 2 * mat32.Pi
		cos, sin := mat32.Cos(ang), mat32.Sin(ang)
		for j, rad := range [2]float32{topRad, botRad} {
			y := hHt
			if j == 1 {
				y = -hHt
			}
			pt.Set(rad*cos, y, rad*sin)
			pt.SetAdd(offset)
			norm.Set(cos, slope, sin)
			norm.Normalize()
			ms.Vtx.Append(pt.X, pt.Y, pt.Z)
			ms.Norm.Append(norm.X, norm.Y, norm.Z)
			ms.BBox.ExpandByPoint(pt)
		}
	}
	for i := 0; i < radialSegs; i++ {
		a := stidx + uint32(i*2)
		b := a + 1
		c := a + 2
		d := a + 3
		ms.Idx.Append(a, c, b, b, c, d)
	}

	if top && topRad > 0 {
		ms.addDisc(topRad, radialSegs, hHt, 1, offset)
	}
	if bottom && botRad > 0 {
		ms.addDisc(botRad, radialSegs, -hHt, -1, offset)
	}
}

// addDisc adds a cap disc at the given y with the normal pointing along ySign.
func (ms *Mesh) addDisc(radius float32, radialSegs int, y, ySign float32, offset mat32.Vec3) {
	ctr := uint32(ms.NVtx())
	c := mat32.Vec3{X: 0, Y: y, Z: 0}.Add(offset)
	ms.Vtx.Append(c.X, c.Y, c.Z)
	ms.Norm.Append(0, ySign, 0)
	ms.BBox.ExpandByPoint(c)
	for i := 0; i <= radialSegs; i++ {
		ang := float32(i) / float32(radialSegs) * 2 * mat32.Pi
		pt := mat32.Vec3{X: radius * mat32.Cos(ang), Y: y, Z: radius * mat32.Sin(ang)}.Add(offset)
		ms.Vtx.Append(pt.X, pt.Y, pt.Z)
		ms.Norm.Append(0, ySign, 0)
		ms.BBox.ExpandByPoint(pt)
	}
	for i := 0; i < radialSegs; i++ {
		a := ctr + 1 + uint32(i)
		b := a + 1
		if ySign > 0 {
			ms.Idx.Append(ctr, b, a)
		} else {
			ms.Idx.Append(ctr, a, b)
		}
	}
}

// AddSphereSector adds a sphere sector of the given radius centered at
// offset, covering elevation elevStart..elevStart+elevLen degrees measured
// from the +Y pole. Passing 0, 180 yields a full sphere; 0, 90 a dome.
func (ms *Mesh) AddSphereSector(radius float32, widthSegs, heightSegs int, elevStart, elevLen float32, offset mat32.Vec3) {
	elevStRad := mat32.DegToRad(elevStart)
	elevLenRad := mat32.DegToRad(elevLen)

	stidx := uint32(ms.NVtx())
	var pt, norm mat32.Vec3
	for y := 0; y <= heightSegs; y++ {
		v := float32(y) / float32(heightSegs)
		elev := elevStRad + v*elevLenRad
		for x := 0; x <= widthSegs; x++ {
			u := float32(x) / float32(widthSegs)
			ang := u * 2 * mat32.Pi
			px := -radius * mat32.Cos(ang) * mat32.Sin(elev)
			py := radius * mat32.Cos(elev)
			pz := radius * mat32.Sin(ang) * mat32.Sin(elev)
			pt.Set(px, py, pz)
			pt.SetAdd(offset)
			norm.Set(px, py, pz)
			norm.Normalize()
			ms.Vtx.Append(pt.X, pt.Y, pt.Z)
			ms.Norm.Append(norm.X, norm.Y, norm.Z)
			ms.BBox.ExpandByPoint(pt)
		}
	}
	row := uint32(widthSegs + 1)
	for y := 0; y < heightSegs; y++ {
		for x := 0; x < widthSegs; x++ {
			v1 := stidx + uint32(y)*row + uint32(x+1)
			v2 := stidx + uint32(y)*row + uint32(x)
			v3 := stidx + uint32(y+1)*row + uint32(x)
			v4 := stidx + uint32(y+1)*row + uint32(x+1)
			ms.Idx.Append(v1, v2, v4)
			ms.Idx.Append(v2, v3, v4)
		}
	}
}

// AddTorus adds a torus ring of the given major radius and tube radius,
// lying in the XZ plane centered at offset.
func (ms *Mesh) AddTorus(radius, tubeRad float32, radialSegs, tubeSegs int, offset mat32.Vec3) {
	stidx := uint32(ms.NVtx())
	var pt, norm mat32.Vec3
	for j := 0; j <= tubeSegs; j++ {
		tv := float32(j) / float32(tubeSegs) * 2 * mat32.Pi
		for i := 0; i <= radialSegs; i++ {
			u := float32(i) / float32(radialSegs) * 2 * mat32.Pi
			cx := mat32.Cos(u)
			cz := mat32.Sin(u)
			r := radius + tubeRad*mat32.Cos(tv)
			pt.Set(r*cx, tubeRad*mat32.Sin(tv), r*cz)
			pt.SetAdd(offset)
			norm.Set(mat32.Cos(tv)*cx, mat32.Sin(tv), mat32.Cos(tv)*cz)
			ms.Vtx.Append(pt.X, pt.Y, pt.Z)
			ms.Norm.Append(norm.X, norm.Y, norm.Z)
			ms.BBox.ExpandByPoint(pt)
		}
	}
	row := uint32(radialSegs + 1)
	for j := 0; j < tubeSegs; j++ {
		for i := 0; i < radialSegs; i++ {
			a := stidx + uint32(j)*row + uint32(i)
			b := a + 1
			c := a + row
			d := c + 1
			ms.Idx.Append(a, c, b, b, c, d)
		}
	}
}

// AddTube extrudes a circular tube of the given radius along the curve,
// sampled at segs points. Ring orientation uses a fixed reference up vector
// with a fallback for near-vertical tangents.
func (ms *Mesh) AddTube(curve *Curve, radius float32, segs, radialSegs int) {
	if segs < 2 {
		segs = 2
	}
	stidx := uint32(ms.NVtx())
	up := mat32.Vec3{X: 0, Y: 1, Z: 0}
	var pt, norm mat32.Vec3
	for i := 0; i <= segs; i++ {
		t := float32(i) / float32(segs)
		ctr := curve.Point(t)
		tan := curve.Tangent(t)
		ref := up
		if mat32.Abs(tan.Dot(ref)) > 0.99 {
			ref = mat32.Vec3{X: 1, Y: 0, Z: 0}
		}
		side := tan.Cross(ref).Normal()
		lift := side.Cross(tan).Normal()
		for j := 0; j <= radialSegs; j++ {
			ang := float32(j) / float32(radialSegs) * 2 * mat32.Pi
			dir := side.MulScalar(mat32.Cos(ang)).Add(lift.MulScalar(mat32.Sin(ang)))
			pt = ctr.Add(dir.MulScalar(radius))
			norm = dir
			ms.Vtx.Append(pt.X, pt.Y, pt.Z)
			ms.Norm.Append(norm.X, norm.Y, norm.Z)
			ms.BBox.ExpandByPoint(pt)
		}
	}
	row := uint32(radialSegs + 1)
	for i := 0; i < segs; i++ {
		for j := 0; j < radialSegs; j++ {
			a := stidx + uint32(i)*row + uint32(j)
			b := a + 1
			c := a + row
			d := c + 1
			ms.Idx.Append(a, c, b, b, c, d)
		}
	}
}
