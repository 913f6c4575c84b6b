package engine

import "github.com/goki/mat32"

// Pose is the position, rotation, and scale of a node relative to its
// parent, with the derived local and world matrices.
type Pose struct {
	Pos         mat32.Vec3
	Quat        mat32.Quat
	Scale       mat32.Vec3
	Matrix      mat32.Mat4
	WorldMatrix mat32.Mat4
}

// Defaults sets a unit pose.
func (ps *Pose) Defaults() {
	ps.Scale.Set(1, 1, 1)
	ps.Quat.SetIdentity()
}

// UpdateMatrix updates the local matrix from Pos, Quat, Scale.
func (ps *Pose) UpdateMatrix() {
	ps.Matrix.SetTransform(ps.Pos, ps.Quat, ps.Scale)
}

// UpdateWorldMatrix updates the world matrix from the local matrix and the
// parent's world matrix. Calls UpdateMatrix first.
func (ps *Pose) UpdateWorldMatrix(parWorld *mat32.Mat4) {
	ps.UpdateMatrix()
	if parWorld == nil {
		ps.WorldMatrix = ps.Matrix
		return
	}
	ps.WorldMatrix.MulMatrices(parWorld, &ps.Matrix)
}

// Material is the visual surface description of a solid. Colors are hex
// strings handed through to the client renderer unchanged.
type Material struct {
	Color    string  `json:"color"`
	Opacity  float32 `json:"opacity"`
	Emissive bool    `json:"emissive,omitempty"`
}

// Metadata is the inspection payload attached to interactable nodes.
// Every registered interactable carries all three fields non-empty.
type Metadata struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Spin marks a node for slow continuous rotation (drum shells, accent
// rings). Angle advances Speed radians per second around Axis.
type Spin struct {
	Axis  mat32.Vec3
	Speed float32
	Angle float32
}

// Node is one element of the scene graph: a pure group when Mesh is nil, a
// renderable solid otherwise. A node with Meta set is the ownership root the
// picking system resolves hits to.
type Node struct {
	ID        int
	Name      string
	Pose      Pose
	Visible   bool
	Par       *Node
	Kids      []*Node
	Mesh      *Mesh
	Mat       Material
	Meta      *Metadata
	Spin      *Spin
	WorldBBox mat32.Box3
}

// NewNode returns a group node with a unit pose.
func NewNode(name string) *Node {
	nd := &Node{Name: name, Visible: true}
	nd.Pose.Defaults()
	return nd
}

// NewSolid returns a renderable node for the given mesh and material.
func NewSolid(name string, ms *Mesh, mat Material) *Node {
	nd := NewNode(name)
	nd.Mesh = ms
	nd.Mat = mat
	return nd
}

// AddChild appends kid under nd and returns kid.
func (nd *Node) AddChild(kid *Node) *Node {
	kid.Par = nd
	nd.Kids = append(nd.Kids, kid)
	return kid
}

// SetPos sets the pose position and returns the node.
func (nd *Node) SetPos(x, y, z float32) *Node {
	nd.Pose.Pos.Set(x, y, z)
	return nd
}

// SetAxisRotation sets the pose rotation from an axis and angle in degrees.
func (nd *Node) SetAxisRotation(x, y, z, angle float32) *Node {
	nd.Pose.Quat.SetFromAxisAngle(mat32.Vec3{X: x, Y: y, Z: z}, mat32.DegToRad(angle))
	return nd
}

// SetScale sets the pose scale and returns the node.
func (nd *Node) SetScale(x, y, z float32) *Node {
	nd.Pose.Scale.Set(x, y, z)
	return nd
}

// IsVisible reports whether the node and all its ancestors are visible.
func (nd *Node) IsVisible() bool {
	for n := nd; n != nil; n = n.Par {
		if !n.Visible {
			return false
		}
	}
	return true
}

// WalkDown visits nd and all descendants depth-first. The visitor returns
// false to prune the subtree.
func (nd *Node) WalkDown(fn func(*Node) bool) {
	if !fn(nd) {
		return
	}
	for _, k := range nd.Kids {
		k.WalkDown(fn)
	}
}

// UpdateWorldMatrix recomputes world matrices for nd and all descendants,
// and refreshes each solid's world bounding box from its mesh bounds.
func (nd *Node) UpdateWorldMatrix(parWorld *mat32.Mat4) {
	nd.Pose.UpdateWorldMatrix(parWorld)
	if nd.Mesh != nil {
		nd.WorldBBox = worldBBox(&nd.Pose.WorldMatrix, nd.Mesh.BBox)
	}
	for _, k := range nd.Kids {
		k.UpdateWorldMatrix(&nd.Pose.WorldMatrix)
	}
}

// MetaOwner walks up the ownership chain to the nearest node carrying
// inspection metadata, or nil if the chain has none.
func (nd *Node) MetaOwner() *Node {
	for n := nd; n != nil; n = n.Par {
		if n.Meta != nil {
			return n
		}
	}
	return nil
}

// worldBBox transforms the 8 corners of box by m and returns the enclosing
// axis-aligned box.
func worldBBox(m *mat32.Mat4, box mat32.Box3) mat32.Box3 {
	var wb mat32.Box3
	wb.SetEmpty()
	for i := 0; i < 8; i++ {
		c := mat32.Vec3{X: box.Min.X, Y: box.Min.Y, Z: box.Min.Z}
		if i&1 != 0 {
			c.X = box.Max.X
		}
		if i&2 != 0 {
			c.Y = box.Max.Y
		}
		if i&4 != 0 {
			c.Z = box.Max.Z
		}
		wb.ExpandByPoint(mulMat4Pt(m, c))
	}
	return wb
}
