package tree

// Promote returns a metric copy of the subtree rooted at n in a new forest.
// Every node's height becomes its depth, so leaves sit at zero and each
// parent is one above its tallest child. A node that is already metric is
// returned unchanged.
func (n Node) Promote() (Node, error) {
	if !n.Valid() {
		return Node{}, ErrInvalidNode
	}
	if n.f.kind == Metric {
		return n, nil
	}
	dst := NewForest(Metric)
	return convert(n, dst), nil
}

// Demote returns an unweighted copy of the subtree rooted at n in a new
// forest, dropping stored heights. A node that is already unweighted is
// returned unchanged.
func (n Node) Demote() (Node, error) {
	if !n.Valid() {
		return Node{}, ErrInvalidNode
	}
	if n.f.kind == Unweighted {
		return n, nil
	}
	dst := NewForest(Unweighted)
	return convert(n, dst), nil
}

// convert copies src into dst bottom-up. Heights are taken from src.Height,
// which is the depth for unweighted sources; dst.alloc drops them again for
// unweighted destinations via normalizeHeight.
func convert(src Node, dst *Forest) Node {
	h, _ := dst.normalizeHeight(src.Height())
	out := dst.alloc(src.Label(), h)
	for _, c := range src.Children() {
		cc := convert(c, dst)
		dst.attach(out.id, cc.id)
	}
	return out
}
