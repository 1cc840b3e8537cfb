// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package scene provides the graph that groups built
// buffers for export.
package scene

import (
	"github.com/gviegas/molview/buffer"
	"github.com/gviegas/molview/linear"
)

// Node represents a single node in a scene graph.
// Nodes have at most one immediate ancestor and
// an arbitrary number of immediate descendants.
type Node struct {
	next *Node
	prev *Node
	sub  *Node

	// Name for the node.
	Name string
	// Local is the transform relative to the ancestor.
	Local linear.M4
	// Reprs are the buffers placed at the node.
	Reprs []buffer.Instanced
}

// New creates an initialized node.
func New(name string, reprs ...buffer.Instanced) *Node {
	n := &Node{Name: name, Reprs: reprs}
	n.Local.I()
	return n
}

// Insert inserts node sub as immediate descendant
// of node n.
// sub must be either a descendant of n or part of
// an unrelated graph - it must not be an ancestor
// of node n.
func (n *Node) Insert(sub *Node) {
	sub.Remove()
	sub.next = n.sub
	sub.prev = n
	if n.sub != nil {
		n.sub.prev = sub
	}
	n.sub = sub
}

// Remove removes node n from its immediate ancestor.
func (n *Node) Remove() {
	// Note that Node.prev is only nil when the node
	// has no ancestors, since the prev field of the
	// first immediate descendant is set to refer to
	// its immediate ancestor.
	if n.prev != nil {
		if n.prev.sub == n {
			n.prev.sub = n.next
		} else {
			n.prev.next = n.next
		}
		if n.next != nil {
			n.next.prev = n.prev
		}
		n.prev = nil
		n.next = nil
	}
}

// Parent returns the immediate ancestor of n, or nil
// if n is a root.
func (n *Node) Parent() *Node {
	for nd := n; nd.prev != nil; nd = nd.prev {
		if nd.prev.sub == nd {
			return nd.prev
		}
	}
	return nil
}

// Children returns the immediate descendants of n, most
// recently inserted first.
func (n *Node) Children() []*Node {
	var s []*Node
	for nd := n.sub; nd != nil; nd = nd.next {
		s = append(s, nd)
	}
	return s
}

// World computes the transform of n relative to the root
// of its graph.
func (n *Node) World() linear.M4 {
	w := n.Local
	for p := n.Parent(); p != nil; p = p.Parent() {
		w.Mul(&p.Local, &w)
	}
	return w
}

// ForEach calls f for each descendant of node n.
// Ancestors are processed first.
// The scene graph must not be changed until this
// method returns.
func (n *Node) ForEach(f func(*Node)) {
	n.Until(func(nd *Node) bool {
		f(nd)
		return true
	})
}

// Until calls f for each descendant of node n.
// Ancestors are processed first. If f returns false,
// Until returns immediately.
// The scene graph must not be changed until this
// method returns.
func (n *Node) Until(f func(*Node) bool) {
	if n.sub == nil {
		return
	}
	que := []*Node{n.sub}
	for len(que) > 0 {
		for nd := que[0]; nd != nil; nd = nd.next {
			if !f(nd) {
				return
			}
			if sub := nd.sub; sub != nil {
				que = append(que, sub)
			}
		}
		que = que[1:]
	}
}

// Instances returns the total number of instances in
// n and its descendants.
func (n *Node) Instances() int {
	count := func(nd *Node) (c int) {
		for _, r := range nd.Reprs {
			c += r.Size()
		}
		return
	}
	c := count(n)
	n.ForEach(func(nd *Node) { c += count(nd) })
	return c
}
