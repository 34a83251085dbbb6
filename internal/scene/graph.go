// Package scene is a minimal transform hierarchy. Nodes reference their parent
// by index and parents always precede children, so world matrices are built
// in one forward pass.
package scene

import (
	"fmt"

	"orrery-renderer/internal/mathutil"
)

// Root is the parent index of top-level nodes.
const Root = -1

// Node is one transform in the hierarchy.
type Node struct {
	Name   string
	Parent int
	Local  mathutil.Mat4
}

// Graph owns its nodes. World matrices are valid after Update.
type Graph struct {
	nodes  []Node
	worlds []mathutil.Mat4
	dirty  bool
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Add appends a node under parent and returns its index.
func (g *Graph) Add(name string, parent int) (int, error) {
	if parent != Root && (parent < 0 || parent >= len(g.nodes)) {
		return 0, fmt.Errorf("scene: node %q: parent %d out of range", name, parent)
	}
	g.nodes = append(g.nodes, Node{Name: name, Parent: parent, Local: mathutil.Mat4Identity()})
	g.worlds = append(g.worlds, mathutil.Mat4Identity())
	g.dirty = true
	return len(g.nodes) - 1, nil
}

// SetLocal replaces the local transform of node i.
func (g *Graph) SetLocal(i int, m mathutil.Mat4) {
	if i < 0 || i >= len(g.nodes) {
		return
	}
	g.nodes[i].Local = m
	g.dirty = true
}

// Update recomputes every world matrix.
func (g *Graph) Update() {
	if !g.dirty {
		return
	}
	for i, n := range g.nodes {
		if n.Parent == Root {
			g.worlds[i] = n.Local
			continue
		}
		g.worlds[i] = mathutil.Mat4Mul(g.worlds[n.Parent], n.Local)
	}
	g.dirty = false
}

// World returns the world transform of node i, updating first if needed.
// Out-of-range indices yield the identity.
func (g *Graph) World(i int) mathutil.Mat4 {
	if i < 0 || i >= len(g.nodes) {
		return mathutil.Mat4Identity()
	}
	g.Update()
	return g.worlds[i]
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns a copy of node i.
func (g *Graph) Node(i int) (Node, bool) {
	if i < 0 || i >= len(g.nodes) {
		return Node{}, false
	}
	return g.nodes[i], true
}
