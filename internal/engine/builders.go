package engine

import "github.com/goki/mat32"

// Equipment builders. Each one composes solids into a group in local
// coordinates with the unit footprint centered on the origin and the base
// resting on y=0, and returns the group plus the local height of its top
// (used to anchor the floating label).
//
// Bodies are solid, shells translucent, and drive/motor blocks emissive so
// the bloom pass picks them up.

func defDim(v, def float32) float32 {
	if v <= 0 {
		return def
	}
	return v
}

func defColor(c, def string) string {
	if c == "" {
		return def
	}
	return c
}

func buildStorageTank(p UnitParams, tun Tuning) (*Node, float32) {
	r := defDim(p.Radius, 3)
	h := defDim(p.Height, 7)
	grp := NewNode(p.Name)

	body := NewMesh("body")
	body.AddCylinderSector(h, r, r, 32, false, true, mat32.Vec3{X: 0, Y: h / 2, Z: 0})
	grp.AddChild(NewSolid("body", body, Material{Color: defColor(p.Color, "#8fa8c8"), Opacity: 1}))

	dome := NewMesh("dome")
	dome.AddSphereSector(r, 32, 8, 0, 90, mat32.Vec3{X: 0, Y: h, Z: 0})
	grp.AddChild(NewSolid("dome", dome, Material{Color: defColor(p.Color, "#8fa8c8"), Opacity: 1}))

	trim := NewMesh("trim")
	trim.AddTorus(r+0.05, 0.12, 32, 8, mat32.Vec3{X: 0, Y: h * 0.85, Z: 0})
	trim.AddTorus(r+0.05, 0.12, 32, 8, mat32.Vec3{X: 0, Y: h * 0.15, Z: 0})
	grp.AddChild(NewSolid("trim", trim, Material{Color: defColor(p.Accent, "#ffd166"), Opacity: 1, Emissive: true}))

	return grp, h + r
}

func buildJacketedReactor(p UnitParams, tun Tuning) (*Node, float32) {
	r := defDim(p.Radius, 2.5)
	h := defDim(p.Height, 6)
	grp := NewNode(p.Name)

	body := NewMesh("body")
	body.AddCylinderSector(h, r, r, 32, true, false, mat32.Vec3{X: 0, Y: h/2 + r*0.6, Z: 0})
	body.AddSphereSector(r, 32, 8, 90, 90, mat32.Vec3{X: 0, Y: r * 0.6, Z: 0}) // dished bottom
	grp.AddChild(NewSolid("body", body, Material{Color: defColor(p.Color, "#69a8a0"), Opacity: 1}))

	// cooling jacket shell around the straight section
	shell := NewMesh("jacket")
	shell.AddCylinderSector(h*0.8, r*1.15, r*1.15, 32, false, false, mat32.Vec3{X: 0, Y: h/2 + r*0.6, Z: 0})
	grp.AddChild(NewSolid("jacket", shell, Material{Color: defColor(p.Accent, "#9be8dd"), Opacity: tun.ShellOpacity}))

	top := h + r*0.6
	if p.Agitator {
		motor := NewMesh("motor")
		motor.AddBox(1.2, 1.0, 1.2, mat32.Vec3{X: 0, Y: top + 0.5, Z: 0})
		motor.AddCylinderSector(0.8, 0.15, 0.15, 12, false, false, mat32.Vec3{X: 0, Y: top - 0.3, Z: 0})
		grp.AddChild(NewSolid("motor", motor, Material{Color: "#ffd166", Opacity: 1, Emissive: true}))
		top += 1.0
	}
	return grp, top
}

func buildPipeReactor(p UnitParams, tun Tuning) (*Node, float32) {
	r := defDim(p.Radius, 0.9)
	l := defDim(p.Length, 10)
	grp := NewNode(p.Name)

	// horizontal tubular reactor on two saddles
	body := NewMesh("body")
	body.AddCylinderSector(l, r, r, 24, true, true, mat32.Vec3{})
	tube := NewSolid("body", body, Material{Color: defColor(p.Color, "#c98f6e"), Opacity: 1})
	tube.SetAxisRotation(0, 0, 1, 90).SetPos(0, r+1, 0)
	grp.AddChild(tube)

	saddles := NewMesh("saddles")
	saddles.AddBox(1.2, 1, 2*r, mat32.Vec3{X: -l * 0.3, Y: 0.5, Z: 0})
	saddles.AddBox(1.2, 1, 2*r, mat32.Vec3{X: l * 0.3, Y: 0.5, Z: 0})
	grp.AddChild(NewSolid("saddles", saddles, Material{Color: "#5a6578", Opacity: 1}))

	ring := NewMesh("flange")
	ring.AddTorus(r+0.1, 0.12, 24, 8, mat32.Vec3{})
	fl := NewSolid("flange", ring, Material{Color: defColor(p.Accent, "#ffd166"), Opacity: 1, Emissive: true})
	fl.SetAxisRotation(0, 0, 1, 90).SetPos(0, r+1, 0)
	grp.AddChild(fl)

	return grp, 2*r + 1
}

func buildScrubber(p UnitParams, tun Tuning) (*Node, float32) {
	r := defDim(p.Radius, 1.8)
	h := defDim(p.Height, 10)
	grp := NewNode(p.Name)

	cone := NewMesh("cone")
	cone.AddCylinderSector(2, r, 0.6, 24, false, true, mat32.Vec3{X: 0, Y: 1, Z: 0})
	grp.AddChild(NewSolid("cone", cone, Material{Color: defColor(p.Color, "#7f96b8"), Opacity: 1}))

	tower := NewMesh("tower")
	tower.AddCylinderSector(h, r, r, 24, true, false, mat32.Vec3{X: 0, Y: 2 + h/2, Z: 0})
	grp.AddChild(NewSolid("tower", tower, Material{Color: defColor(p.Color, "#7f96b8"), Opacity: 1}))

	// packing level rings
	pack := NewMesh("packing")
	for i := 1; i <= 3; i++ {
		pack.AddTorus(r+0.05, 0.1, 24, 8, mat32.Vec3{X: 0, Y: 2 + h*float32(i)/4, Z: 0})
	}
	grp.AddChild(NewSolid("packing", pack, Material{Color: defColor(p.Accent, "#7ee081"), Opacity: 1, Emissive: true}))

	stack := NewMesh("stack")
	stack.AddCylinderSector(2.5, r*0.4, r*0.5, 16, false, false, mat32.Vec3{X: 0, Y: 2 + h + 1.25, Z: 0})
	grp.AddChild(NewSolid("stack", stack, Material{Color: "#5a6578", Opacity: 1}))

	return grp, h + 4.5
}

func buildFan(p UnitParams, tun Tuning) (*Node, float32) {
	r := defDim(p.Radius, 1.4)
	grp := NewNode(p.Name)

	housing := NewMesh("housing")
	housing.AddCylinderSector(1.2, r, r, 24, true, true, mat32.Vec3{})
	hs := NewSolid("housing", housing, Material{Color: defColor(p.Color, "#6a7b96"), Opacity: 1})
	hs.SetAxisRotation(1, 0, 0, 90).SetPos(0, r+0.4, 0)
	grp.AddChild(hs)

	base := NewMesh("base")
	base.AddBox(2*r, 0.4, 1.4, mat32.Vec3{X: 0, Y: 0.2, Z: 0})
	grp.AddChild(NewSolid("base", base, Material{Color: "#5a6578", Opacity: 1}))

	motor := NewMesh("motor")
	motor.AddCylinderSector(1, 0.5, 0.5, 16, true, true, mat32.Vec3{})
	mt := NewSolid("motor", motor, Material{Color: defColor(p.Accent, "#ff8c66"), Opacity: 1, Emissive: true})
	mt.SetAxisRotation(1, 0, 0, 90).SetPos(0, r+0.4, 1.1)
	mt.Spin = &Spin{Axis: mat32.Vec3{X: 0, Y: 0, Z: 1}, Speed: 3}
	grp.AddChild(mt)

	return grp, 2*r + 0.4
}

func buildConveyor(p UnitParams, tun Tuning) (*Node, float32) {
	l := defDim(p.Length, 12)
	w := defDim(p.Width, 1.6)
	grp := NewNode(p.Name)

	bed := NewMesh("bed")
	bed.AddBox(l, 0.3, w, mat32.Vec3{X: 0, Y: 1.6, Z: 0})
	grp.AddChild(NewSolid("bed", bed, Material{Color: defColor(p.Color, "#556070"), Opacity: 1}))

	rails := NewMesh("rails")
	rails.AddBox(l, 0.15, 0.12, mat32.Vec3{X: 0, Y: 1.85, Z: w / 2})
	rails.AddBox(l, 0.15, 0.12, mat32.Vec3{X: 0, Y: 1.85, Z: -w / 2})
	grp.AddChild(NewSolid("rails", rails, Material{Color: defColor(p.Accent, "#ffd166"), Opacity: 1, Emissive: true}))

	legs := NewMesh("legs")
	nlegs := int(l/4) + 2
	for i := 0; i < nlegs; i++ {
		x := -l/2 + float32(i)*l/float32(nlegs-1)
		legs.AddBox(0.25, 1.6, 0.25, mat32.Vec3{X: x, Y: 0.8, Z: w / 2 * 0.8})
		legs.AddBox(0.25, 1.6, 0.25, mat32.Vec3{X: x, Y: 0.8, Z: -w / 2 * 0.8})
	}
	grp.AddChild(NewSolid("legs", legs, Material{Color: "#444c5c", Opacity: 1}))

	return grp, 2
}

func buildElevator(p UnitParams, tun Tuning) (*Node, float32) {
	h := defDim(p.Height, 12)
	grp := NewNode(p.Name)

	leg := NewMesh("leg")
	leg.AddBox(1.4, h, 1.1, mat32.Vec3{X: 0, Y: h / 2, Z: 0})
	grp.AddChild(NewSolid("leg", leg, Material{Color: defColor(p.Color, "#98a4b8"), Opacity: 1}))

	head := NewMesh("head")
	head.AddBox(2, 1.6, 1.4, mat32.Vec3{X: 0, Y: h + 0.8, Z: 0})
	grp.AddChild(NewSolid("head", head, Material{Color: "#6a7b96", Opacity: 1}))

	boot := NewMesh("boot")
	boot.AddBox(1.8, 1.2, 1.3, mat32.Vec3{X: 0, Y: 0.6, Z: 0})
	grp.AddChild(NewSolid("boot", boot, Material{Color: "#6a7b96", Opacity: 1}))

	drive := NewMesh("drive")
	drive.AddBox(0.8, 0.8, 0.8, mat32.Vec3{X: 1.4, Y: h + 0.8, Z: 0})
	grp.AddChild(NewSolid("drive", drive, Material{Color: defColor(p.Accent, "#ffd166"), Opacity: 1, Emissive: true}))

	return grp, h + 1.6
}

func buildCyclone(p UnitParams, tun Tuning) (*Node, float32) {
	r := defDim(p.Radius, 1.3)
	grp := NewNode(p.Name)

	barrel := NewMesh("barrel")
	barrel.AddCylinderSector(2.2, r, r, 24, true, false, mat32.Vec3{X: 0, Y: 4.1, Z: 0})
	grp.AddChild(NewSolid("barrel", barrel, Material{Color: defColor(p.Color, "#a4b2c6"), Opacity: 1}))

	cone := NewMesh("cone")
	cone.AddCylinderSector(3, r, 0.25, 24, false, false, mat32.Vec3{X: 0, Y: 1.5, Z: 0})
	grp.AddChild(NewSolid("cone", cone, Material{Color: defColor(p.Color, "#a4b2c6"), Opacity: 1}))

	inlet := NewMesh("inlet")
	inlet.AddBox(1.6, 0.8, 0.6, mat32.Vec3{X: r + 0.6, Y: 4.6, Z: 0})
	grp.AddChild(NewSolid("inlet", inlet, Material{Color: "#6a7b96", Opacity: 1}))

	vortex := NewMesh("vortex")
	vortex.AddCylinderSector(1.4, r*0.35, r*0.35, 16, false, false, mat32.Vec3{X: 0, Y: 5.7, Z: 0})
	grp.AddChild(NewSolid("vortex", vortex, Material{Color: defColor(p.Accent, "#7ee081"), Opacity: 1, Emissive: true}))

	return grp, 6.4
}

// rotary drum on riding rings; shared by granulator, dryer, and drum
// categories with different proportions and accents.
func rotaryDrum(p UnitParams, tun Tuning, defRad, defLen float32, accent string) (*Node, float32) {
	r := defDim(p.Radius, defRad)
	l := defDim(p.Length, defLen)
	grp := NewNode(p.Name)

	shell := NewMesh("shell")
	shell.AddCylinderSector(l, r, r, 32, true, true, mat32.Vec3{})
	sh := NewSolid("shell", shell, Material{Color: defColor(p.Color, "#b9906b"), Opacity: 1})
	sh.SetAxisRotation(0, 0, 1, 90).SetPos(0, r+1.2, 0)
	sh.Spin = &Spin{Axis: mat32.Vec3{X: 0, Y: 1, Z: 0}, Speed: 0.35} // slow ring rotation, local drum axis
	grp.AddChild(sh)

	rings := NewMesh("rings")
	rings.AddTorus(r+0.12, 0.18, 32, 8, mat32.Vec3{X: 0, Y: -l * 0.3, Z: 0})
	rings.AddTorus(r+0.12, 0.18, 32, 8, mat32.Vec3{X: 0, Y: l * 0.3, Z: 0})
	rg := NewSolid("rings", rings, Material{Color: defColor(p.Accent, accent), Opacity: 1, Emissive: true})
	rg.SetAxisRotation(0, 0, 1, 90).SetPos(0, r+1.2, 0)
	grp.AddChild(rg)

	piers := NewMesh("piers")
	piers.AddBox(1.6, 1.2, 2.4*r, mat32.Vec3{X: -l * 0.3, Y: 0.6, Z: 0})
	piers.AddBox(1.6, 1.2, 2.4*r, mat32.Vec3{X: l * 0.3, Y: 0.6, Z: 0})
	grp.AddChild(NewSolid("piers", piers, Material{Color: "#5a6578", Opacity: 1}))

	drive := NewMesh("drive")
	drive.AddBox(1.2, 1, 1.2, mat32.Vec3{X: l * 0.3, Y: 1.7, Z: r + 0.9})
	grp.AddChild(NewSolid("drive", drive, Material{Color: "#ffd166", Opacity: 1, Emissive: true}))

	return grp, 2*r + 1.2
}

func buildGranulator(p UnitParams, tun Tuning) (*Node, float32) {
	return rotaryDrum(p, tun, 2.2, 9, "#7ee081")
}

func buildDryer(p UnitParams, tun Tuning) (*Node, float32) {
	grp, top := rotaryDrum(p, tun, 2.0, 14, "#ff8c66")
	// burner box feeding the hot end
	l := defDim(p.Length, 14)
	burner := NewMesh("burner")
	burner.AddBox(2.2, 2.2, 2.2, mat32.Vec3{X: -l/2 - 1.4, Y: 2.2, Z: 0})
	grp.AddChild(NewSolid("burner", burner, Material{Color: "#ff8c66", Opacity: 1, Emissive: true}))
	return grp, top
}

func buildDrum(p UnitParams, tun Tuning) (*Node, float32) {
	return rotaryDrum(p, tun, 1.6, 7, "#9be8dd")
}

func buildBin(p UnitParams, tun Tuning) (*Node, float32) {
	w := defDim(p.Width, 3)
	h := defDim(p.Height, 4)
	grp := NewNode(p.Name)

	hopper := NewMesh("hopper")
	hopper.AddCylinderSector(1.8, w*0.55, 0.3, 4, false, false, mat32.Vec3{X: 0, Y: 1.7, Z: 0})
	grp.AddChild(NewSolid("hopper", hopper, Material{Color: defColor(p.Color, "#8a94a8"), Opacity: 1}))

	box := NewMesh("box")
	box.AddBox(w, h, w, mat32.Vec3{X: 0, Y: 2.6 + h/2, Z: 0})
	grp.AddChild(NewSolid("box", box, Material{Color: defColor(p.Color, "#8a94a8"), Opacity: 1}))

	rim := NewMesh("rim")
	rim.AddBox(w+0.2, 0.2, w+0.2, mat32.Vec3{X: 0, Y: 2.6 + h, Z: 0})
	grp.AddChild(NewSolid("rim", rim, Material{Color: defColor(p.Accent, "#ffd166"), Opacity: 1, Emissive: true}))

	return grp, 2.8 + h
}

func buildChillerCluster(p UnitParams, tun Tuning) (*Node, float32) {
	n := p.Count
	if n <= 0 {
		n = 3
	}
	grp := NewNode(p.Name)

	skid := NewMesh("skid")
	skid.AddBox(float32(n)*2.2+1, 0.5, 3, mat32.Vec3{X: 0, Y: 0.25, Z: 0})
	grp.AddChild(NewSolid("skid", skid, Material{Color: "#444c5c", Opacity: 1}))

	cells := NewMesh("cells")
	coils := NewMesh("coils")
	for i := 0; i < n; i++ {
		x := (float32(i) - float32(n-1)/2) * 2.2
		cells.AddCylinderSector(2.6, 0.8, 0.8, 20, true, false, mat32.Vec3{X: x, Y: 1.8, Z: 0})
		coils.AddTorus(0.85, 0.08, 20, 8, mat32.Vec3{X: x, Y: 2.4, Z: 0})
	}
	grp.AddChild(NewSolid("cells", cells, Material{Color: defColor(p.Color, "#9bb8e8"), Opacity: 1}))
	grp.AddChild(NewSolid("coils", coils, Material{Color: defColor(p.Accent, "#9be8dd"), Opacity: 1, Emissive: true}))

	return grp, 3.2
}

func buildScreen(p UnitParams, tun Tuning) (*Node, float32) {
	l := defDim(p.Length, 5)
	w := defDim(p.Width, 2.4)
	tilt := p.TiltDeg
	if tilt == 0 {
		tilt = 12
	}
	grp := NewNode(p.Name)

	deck := NewMesh("deck")
	deck.AddBox(l, 0.5, w, mat32.Vec3{})
	dk := NewSolid("deck", deck, Material{Color: defColor(p.Color, "#97a88f"), Opacity: 1})
	dk.SetAxisRotation(0, 0, 1, tilt).SetPos(0, 2.2, 0)
	grp.AddChild(dk)

	frame := NewMesh("frame")
	frame.AddBox(0.3, 2, 0.3, mat32.Vec3{X: -l * 0.35, Y: 1, Z: w * 0.35})
	frame.AddBox(0.3, 2, 0.3, mat32.Vec3{X: -l * 0.35, Y: 1, Z: -w * 0.35})
	frame.AddBox(0.3, 1.4, 0.3, mat32.Vec3{X: l * 0.35, Y: 0.7, Z: w * 0.35})
	frame.AddBox(0.3, 1.4, 0.3, mat32.Vec3{X: l * 0.35, Y: 0.7, Z: -w * 0.35})
	grp.AddChild(NewSolid("frame", frame, Material{Color: "#5a6578", Opacity: 1}))

	shaker := NewMesh("shaker")
	shaker.AddBox(1, 0.7, 0.9, mat32.Vec3{X: 0, Y: 3, Z: 0})
	grp.AddChild(NewSolid("shaker", shaker, Material{Color: defColor(p.Accent, "#ffd166"), Opacity: 1, Emissive: true}))

	return grp, 3.4
}
