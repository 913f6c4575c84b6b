package engine

// The scene document is the static half of the wire protocol: geometry,
// the node tree, materials, and environment, serialized once as JSON when
// a client attaches. Per-tick state rides in Frame packets instead.

// MeshDoc is one mesh's geometry buffers. ID is assigned per distinct
// mesh during serialization; Name is the builder's part label and is not
// unique across units.
type MeshDoc struct {
	ID   int       `json:"id"`
	Name string    `json:"name"`
	Vtx  []float32 `json:"vtx"`
	Norm []float32 `json:"norm"`
	Idx  []uint32  `json:"idx"`
}

// MaterialDoc mirrors Material for the wire.
type MaterialDoc struct {
	Color    string  `json:"color"`
	Opacity  float32 `json:"opacity"`
	Emissive bool    `json:"emissive"`
}

// NodeDoc is one node in the flattened scene tree.
type NodeDoc struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Parent   int          `json:"parent"`
	Pos      [3]float32   `json:"pos"`
	Quat     [4]float32   `json:"quat"`
	Scale    [3]float32   `json:"scale"`
	Mesh     int          `json:"mesh,omitempty"` // MeshDoc.ID, 0 when the node has no geometry
	Material *MaterialDoc `json:"material,omitempty"`
}

// LabelDoc is one floating label's static half.
type LabelDoc struct {
	ID     int        `json:"id"`
	Text   string     `json:"text"`
	Anchor [3]float32 `json:"anchor"`
}

// SceneDoc is the full static scene description.
type SceneDoc struct {
	Meshes   []MeshDoc   `json:"meshes"`
	Nodes    []NodeDoc   `json:"nodes"`
	Labels   []LabelDoc  `json:"labels"`
	Env      Environment `json:"env"`
	Captions []string    `json:"captions"`
	MaxStep  int         `json:"max_step"`
	FOV      float32     `json:"fov"`
	Near     float32     `json:"near"`
	Far      float32     `json:"far"`
}

// SceneDocument flattens the scene graph into its wire form. Meshes are
// deduplicated by pointer so shared geometry ships once.
func (e *Engine) SceneDocument() *SceneDoc {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc := &SceneDoc{
		Env:      e.env,
		Captions: e.steps.Captions(),
		MaxStep:  e.steps.MaxStep(),
		FOV:      e.cam.FOV,
		Near:     e.cam.Near,
		Far:      e.cam.Far,
	}

	meshIDs := map[*Mesh]int{}
	e.root.WalkDown(func(nd *Node) bool {
		parent := 0
		if nd.Par != nil {
			parent = nd.Par.ID
		}
		nddoc := NodeDoc{
			ID:     nd.ID,
			Name:   nd.Name,
			Parent: parent,
			Pos:    [3]float32{nd.Pose.Pos.X, nd.Pose.Pos.Y, nd.Pose.Pos.Z},
			Quat:   [4]float32{nd.Pose.Quat.X, nd.Pose.Quat.Y, nd.Pose.Quat.Z, nd.Pose.Quat.W},
			Scale:  [3]float32{nd.Pose.Scale.X, nd.Pose.Scale.Y, nd.Pose.Scale.Z},
		}
		if nd.Mesh != nil {
			mid, ok := meshIDs[nd.Mesh]
			if !ok {
				mid = len(meshIDs) + 1
				meshIDs[nd.Mesh] = mid
				doc.Meshes = append(doc.Meshes, MeshDoc{
					ID:   mid,
					Name: nd.Mesh.Name,
					Vtx:  nd.Mesh.Vtx,
					Norm: nd.Mesh.Norm,
					Idx:  nd.Mesh.Idx,
				})
			}
			nddoc.Mesh = mid
			nddoc.Material = &MaterialDoc{
				Color:    nd.Mat.Color,
				Opacity:  nd.Mat.Opacity,
				Emissive: nd.Mat.Emissive,
			}
		}
		doc.Nodes = append(doc.Nodes, nddoc)
		return true
	})

	for _, lb := range e.labels {
		doc.Labels = append(doc.Labels, LabelDoc{
			ID:     lb.ID,
			Text:   lb.Text,
			Anchor: [3]float32{lb.Anchor.X, lb.Anchor.Y, lb.Anchor.Z},
		})
	}
	return doc
}
