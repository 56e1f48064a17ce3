// Package tree provides a generic parent-pointer tree whose node IDs are
// unique across the whole tree.
//
// A Container is not safe for concurrent use.
package tree

import (
	stderrors "errors"

	"github.com/grovetools/kit/errors"
)

// Order selects the traversal order.
type Order int

const (
	// DFS visits a node before its children, children in insertion order.
	DFS Order = iota
	// BFS visits nodes level by level.
	BFS
)

func (o Order) String() string {
	if o == BFS {
		return "bfs"
	}
	return "dfs"
}

var (
	// SkipChildren, returned by a Traverse callback, skips the node's
	// descendants.
	SkipChildren = stderrors.New("skip children")
	// Stop, returned by a Traverse callback, ends the traversal without error.
	Stop = stderrors.New("stop traversal")
)

// registry is shared by every node of one tree.
type registry[T any] struct {
	nodes map[string]*Container[T]
	ids   IDGenerator
}

// Container is one node of a tree holding a value of type T.
type Container[T any] struct {
	id       string
	value    T
	parent   *Container[T]
	children []*Container[T]
	reg      *registry[T]
}

// Option configures a new tree.
type Option func(*options)

type options struct {
	ids IDGenerator
}

// WithIDGenerator sets the generator used when a node is added with an
// empty ID.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		if g != nil {
			o.ids = g
		}
	}
}

// New creates the root of a new tree. An empty id is drawn from the tree's
// generator.
func New[T any](id string, value T, opts ...Option) *Container[T] {
	o := options{ids: NewSequence("node-")}
	for _, opt := range opts {
		opt(&o)
	}
	reg := &registry[T]{nodes: make(map[string]*Container[T]), ids: o.ids}
	if id == "" {
		id = reg.ids.NextID()
	}
	root := &Container[T]{id: id, value: value, reg: reg}
	reg.nodes[id] = root
	return root
}

// ID returns the node's identifier.
func (c *Container[T]) ID() string { return c.id }

// Value returns the node's value.
func (c *Container[T]) Value() T { return c.value }

// SetValue replaces the node's value.
func (c *Container[T]) SetValue(v T) { c.value = v }

// UpdateValue lets fn modify the value in place.
func (c *Container[T]) UpdateValue(fn func(*T)) { fn(&c.value) }

// Parent returns the parent node, or nil for a root.
func (c *Container[T]) Parent() *Container[T] { return c.parent }

// Children returns a copy of the child list.
func (c *Container[T]) Children() []*Container[T] {
	return append([]*Container[T](nil), c.children...)
}

// IsRoot reports whether c has no parent.
func (c *Container[T]) IsRoot() bool { return c.parent == nil }

// IsLeaf reports whether c has no children.
func (c *Container[T]) IsLeaf() bool { return len(c.children) == 0 }

// Root returns the root of c's tree.
func (c *Container[T]) Root() *Container[T] {
	n := c
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Depth is the number of edges between c and the root.
func (c *Container[T]) Depth() int {
	d := 0
	for n := c.parent; n != nil; n = n.parent {
		d++
	}
	return d
}

// Path returns the IDs from the root down to c.
func (c *Container[T]) Path() []string {
	if c.parent == nil {
		return []string{c.id}
	}
	return append(c.parent.Path(), c.id)
}

// Len returns the number of nodes in c's tree.
func (c *Container[T]) Len() int { return len(c.reg.nodes) }

// AddChild appends a child holding value. An empty id is drawn from the
// tree's generator; an id already used anywhere in the tree is rejected with
// INVALID_INPUT.
func (c *Container[T]) AddChild(id string, value T) (*Container[T], error) {
	if id == "" {
		id = c.reg.freshID()
	}
	if _, exists := c.reg.nodes[id]; exists {
		return nil, errors.InvalidInput("node id %q already exists in the tree", id).
			WithDetail("id", id)
	}
	child := &Container[T]{id: id, value: value, parent: c, reg: c.reg}
	c.children = append(c.children, child)
	c.reg.nodes[id] = child
	return child, nil
}

// freshID draws IDs until one is unused. Each used ID can collide at most
// once with a generator that never repeats, so after len(nodes)+1 draws the
// generator is repeating itself and its last ID is returned as is.
func (r *registry[T]) freshID() string {
	var id string
	for i := 0; i <= len(r.nodes); i++ {
		id = r.ids.NextID()
		if _, taken := r.nodes[id]; !taken {
			return id
		}
	}
	return id
}

// FindByID looks up a node anywhere in c's tree.
func (c *Container[T]) FindByID(id string) (*Container[T], bool) {
	n, ok := c.reg.nodes[id]
	return n, ok
}

// Remove detaches the node with id, and its subtree, from the tree. The
// detached node becomes the root of a tree of its own, keeping the same
// generator. The root itself cannot be removed.
func (c *Container[T]) Remove(id string) (*Container[T], error) {
	n, ok := c.reg.nodes[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "node not found").WithDetail("id", id)
	}
	if n.parent == nil {
		return nil, errors.InvalidInput("cannot remove the root node %q", id).WithDetail("id", id)
	}

	siblings := n.parent.children
	for i, s := range siblings {
		if s == n {
			n.parent.children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil

	detached := &registry[T]{nodes: make(map[string]*Container[T]), ids: c.reg.ids}
	_ = n.Traverse(func(d *Container[T]) error {
		delete(c.reg.nodes, d.id)
		detached.nodes[d.id] = d
		d.reg = detached
		return nil
	}, DFS)
	return n, nil
}

// Traverse calls fn for c and each descendant in the given order. fn may
// return SkipChildren or Stop; any other non-nil error aborts the traversal
// and is returned.
func (c *Container[T]) Traverse(fn func(*Container[T]) error, order Order) error {
	var err error
	if order == BFS {
		err = c.bfs(fn)
	} else {
		err = c.dfs(fn)
	}
	if err == Stop {
		return nil
	}
	return err
}

func (c *Container[T]) dfs(fn func(*Container[T]) error) error {
	if err := fn(c); err != nil {
		if err == SkipChildren {
			return nil
		}
		return err
	}
	for _, child := range c.Children() {
		if err := child.dfs(fn); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container[T]) bfs(fn func(*Container[T]) error) error {
	queue := []*Container[T]{c}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if err := fn(n); err != nil {
			if err == SkipChildren {
				continue
			}
			return err
		}
		queue = append(queue, n.children...)
	}
	return nil
}
