// Package tree provides rooted phylogenetic trees with two variants:
// unweighted (combinatorial) trees and height-weighted (metric) trees.
//
// # Overview
//
// Trees are stored in a [Forest], an arena that owns every node record. A
// [Node] is a small handle (forest, slot, generation) rather than a pointer, so
// the mutual parent/child references of a linked tree never form Go pointer
// cycles. Deleting a subtree frees its slots and bumps their generation, which
// turns every outstanding handle to a deleted node into an invalid one
// ([Node.Valid] reports false) instead of a dangling reference.
//
// # Variants
//
// The variant is a tag on the forest ([Unweighted] or [Metric]); every node of
// a forest shares it. In a metric forest each node carries a height: leaves
// sit at exactly zero and a parent is never lower than its children (strictly
// higher when the child is a leaf). In an unweighted forest the height is
// derived: zero at leaves and one more than the tallest child otherwise, i.e.
// a depth rather than a biological height.
//
// Use [Node.Promote] and [Node.Demote] to convert between the variants.
//
// # Basic Usage
//
//	f := tree.NewForest(tree.Metric)
//	a, _ := f.NewLeaf("a")
//	b, _ := f.NewLeaf("b")
//	root, _ := f.Join(5, a, b)
//	root.LeafLabels() // [a b]
//
// # Structural Edits
//
// [Link] and [Unlink] are the primitive edits. [Node.Cut] detaches a subtree,
// [Node.Insert] splices a new internal node directly above a node, and
// [Node.Delete] removes a whole subtree from the arena. Every edit validates
// before it mutates: a failed edit leaves the forest unchanged.
//
// # Equality
//
// [Equal] is an isomorphism test over unordered children: children are matched
// by their smallest leaf label, never by position.
//
// # Concurrency
//
// Forests are not safe for concurrent use. Distinct forests are independent
// and can be used from different goroutines.
package tree
