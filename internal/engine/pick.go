package engine

// Pointer-ray picking against the interactable registry.

// pickHit is one candidate intersection during a pick scan.
type pickHit struct {
	node *Node
	dist float32
}

// Pick casts a ray from the camera through the client point (x, y) in a
// w x h viewport and resolves the nearest intersected solid to its metadata
// owner. Returns nil when the ray hits nothing registered.
func (e *Engine) Pick(x, y float32, w, h int) *Metadata {
	if w <= 0 || h <= 0 {
		return nil
	}
	ndcX := 2*x/float32(w) - 1
	ndcY := 1 - 2*y/float32(h)
	origin, dir := e.cam.PickRay(ndcX, ndcY)

	var best *pickHit
	for _, nd := range e.interactables {
		if !nd.IsVisible() {
			continue
		}
		nd.WalkDown(func(sld *Node) bool {
			if !sld.Visible {
				return false
			}
			if sld.Mesh == nil {
				return true
			}
			d, hit := rayBoxHit(origin, dir, sld.WorldBBox)
			if hit && (best == nil || d < best.dist) {
				best = &pickHit{node: sld, dist: d}
			}
			return true
		})
	}
	if best == nil {
		return nil
	}
	owner := best.node.MetaOwner()
	if owner == nil {
		return nil
	}
	return owner.Meta
}
