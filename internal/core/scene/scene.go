// Package scene is a minimal scene graph holding level geometry for the kart
// simulation: named nodes with local transforms, optional meshes and a visibility
// flag. It also owns the deferred collider build for a level.
package scene

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/kartsim/internal/core/geom"
)

// Node is an element of the scene graph. Nodes must only be mutated through the
// Scene that holds them once added.
type Node struct {
	Name    string
	Local   mgl64.Mat4
	Mesh    *Mesh
	Visible bool
	// Boxes are debug wireframe boxes in the node's local space.
	Boxes []geom.Box3

	parent   *Node
	children []*Node
}

func NewNode(name string, local mgl64.Mat4, mesh *Mesh) *Node {
	return &Node{Name: name, Local: local, Mesh: mesh, Visible: true}
}

// NewGroup returns an empty node used only to transform its children.
func NewGroup(name string, local mgl64.Mat4) *Node {
	return NewNode(name, local, nil)
}

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return n.children }

// Add attaches child to n, detaching it from its previous parent.
func (n *Node) Add(child *Node) *Node {
	if child == nil || child == n {
		return n
	}
	if child.parent != nil {
		child.parent.remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	return n
}

func (n *Node) remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// World returns the node's local-to-world transform.
func (n *Node) World() mgl64.Mat4 {
	m := n.Local
	for p := n.parent; p != nil; p = p.parent {
		m = p.Local.Mul4(m)
	}
	return m
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.walk(fn)
	}
}

// Scene is a rooted node tree guarded by a single lock, so the loader may scan it
// from another goroutine while the frame loop edits it.
type Scene struct {
	mu   sync.RWMutex
	root *Node
}

func New() *Scene {
	return &Scene{root: NewGroup("root", mgl64.Ident4())}
}

// Add attaches nodes to the root.
func (s *Scene) Add(nodes ...*Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range nodes {
		s.root.Add(n)
	}
}

// AddTo attaches n under parent, which must already be in the scene.
func (s *Scene) AddTo(parent, n *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parent.Add(n)
}

// Remove detaches n and its subtree. It reports whether n was attached.
func (s *Scene) Remove(n *Node) bool {
	if n == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.parent == nil {
		return false
	}
	return n.parent.remove(n)
}

// Contains reports whether n is reachable from the root.
func (s *Scene) Contains(n *Node) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for p := n; p != nil; p = p.parent {
		if p == s.root {
			return true
		}
	}
	return false
}

// Traverse visits every node depth-first, parents before children, under a read
// lock. fn must not modify the scene.
func (s *Scene) Traverse(fn func(n *Node)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.root.walk(fn)
}

// Find returns the first node with the given name.
func (s *Scene) Find(name string) *Node {
	var found *Node
	s.Traverse(func(n *Node) {
		if found == nil && n.Name == name {
			found = n
		}
	})
	return found
}

// SetLocal replaces a node's local transform.
func (s *Scene) SetLocal(n *Node, local mgl64.Mat4) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.Local = local
}

// WorldOf resolves n's world transform under the scene lock.
func (s *Scene) WorldOf(n *Node) mgl64.Mat4 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return n.World()
}

// Len counts nodes, root included.
func (s *Scene) Len() int {
	count := 0
	s.Traverse(func(*Node) { count++ })
	return count
}
