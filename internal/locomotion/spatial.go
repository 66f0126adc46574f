package locomotion

// RectF is an axis-aligned rectangle on the ground plane (x, z).
type RectF struct {
	X0, Z0 float64
	X1, Z1 float64
}

func (r RectF) Intersects(o RectF) bool {
	return r.X0 <= o.X1 && r.X1 >= o.X0 && r.Z0 <= o.Z1 && r.Z1 >= o.Z0
}

func (r RectF) Contains(o RectF) bool {
	return o.X0 >= r.X0 && o.X1 <= r.X1 && o.Z0 >= r.Z0 && o.Z1 <= r.Z1
}

type quadItem struct {
	idx    int
	bounds RectF
}

// quadNode is a small quadtree over point-of-interest engagement areas.
type quadNode struct {
	bounds RectF
	depth  int
	items  []quadItem
	child  [4]*quadNode
}

func newQuadNode(bounds RectF, depth int) *quadNode {
	return &quadNode{
		bounds: bounds,
		depth:  depth,
		items:  make([]quadItem, 0, PoiQuadCapacity),
	}
}

func (n *quadNode) insert(idx int, bounds RectF) {
	if n.child[0] != nil {
		if c := n.childThatContains(bounds); c != nil {
			c.insert(idx, bounds)
			return
		}
	}

	n.items = append(n.items, quadItem{idx: idx, bounds: bounds})

	if len(n.items) > PoiQuadCapacity && n.depth < PoiQuadMaxDepth {
		n.subdivide()
		kept := n.items[:0]
		for _, it := range n.items {
			if c := n.childThatContains(it.bounds); c != nil {
				c.insert(it.idx, it.bounds)
			} else {
				kept = append(kept, it)
			}
		}
		n.items = kept
	}
}

// query appends the indices of items whose bounds touch r.
func (n *quadNode) query(r RectF, out []int) []int {
	if !n.bounds.Intersects(r) {
		return out
	}
	for _, it := range n.items {
		if it.bounds.Intersects(r) {
			out = append(out, it.idx)
		}
	}
	if n.child[0] == nil {
		return out
	}
	for i := 0; i < 4; i++ {
		out = n.child[i].query(r, out)
	}
	return out
}

func (n *quadNode) subdivide() {
	if n.child[0] != nil {
		return
	}
	mx := (n.bounds.X0 + n.bounds.X1) * 0.5
	mz := (n.bounds.Z0 + n.bounds.Z1) * 0.5
	n.child[0] = newQuadNode(RectF{X0: n.bounds.X0, Z0: n.bounds.Z0, X1: mx, Z1: mz}, n.depth+1)
	n.child[1] = newQuadNode(RectF{X0: mx, Z0: n.bounds.Z0, X1: n.bounds.X1, Z1: mz}, n.depth+1)
	n.child[2] = newQuadNode(RectF{X0: n.bounds.X0, Z0: mz, X1: mx, Z1: n.bounds.Z1}, n.depth+1)
	n.child[3] = newQuadNode(RectF{X0: mx, Z0: mz, X1: n.bounds.X1, Z1: n.bounds.Z1}, n.depth+1)
}

func (n *quadNode) childThatContains(b RectF) *quadNode {
	for i := 0; i < 4; i++ {
		c := n.child[i]
		if c != nil && c.bounds.Contains(b) {
			return c
		}
	}
	return nil
}
