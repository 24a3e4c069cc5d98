package fiber

import (
	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/element"
	"github.com/vango-dev/fibre/pkg/host"
)

// Tree is an arena-allocated fiber tree for one render.
type Tree struct {
	fibers []Fiber
	host   host.Host
	mat    Materializer
	units  int
	err    error
}

// NewTree builds a tree holding only the root anchor, wrapping container,
// with root as its single pending child element.
func NewTree(h host.Host, m Materializer, container host.Node, root *element.Element) (*Tree, error) {
	if err := root.Validate(); err != nil {
		return nil, err
	}
	if container == nil {
		return nil, errors.New(errors.CodeNodeNotFound).WithDetail("render container is nil")
	}
	if m == nil {
		m = NewMaterializer(h, nil)
	}

	t := &Tree{host: h, mat: m}
	t.fibers = append(t.fibers, Fiber{
		Kind:     KindRoot,
		Props:    element.Props{element.PropChildren: []*element.Element{root}},
		HostNode: container,
		Parent:   None,
		Child:    None,
		Sibling:  None,
	})
	return t, nil
}

// Len returns the number of fibers allocated so far.
func (t *Tree) Len() int {
	return len(t.fibers)
}

// Units returns the number of units of work performed.
func (t *Tree) Units() int {
	return t.units
}

// Err returns the error that failed the tree, if any.
func (t *Tree) Err() error {
	return t.err
}

// Fiber returns a copy of the fiber at id.
func (t *Tree) Fiber(id ID) (Fiber, bool) {
	if !t.valid(id) {
		return Fiber{}, false
	}
	return t.fibers[id], true
}

func (t *Tree) valid(id ID) bool {
	return id >= 0 && int(id) < len(t.fibers)
}

// PerformUnitOfWork processes the fiber at id and returns the next fiber to
// process, or None when the traversal is complete.
//
// Calling it again on an already processed fiber does not re-materialize,
// re-attach or re-expand; it only recomputes the successor.
// A host failure fails the whole tree: the failing fiber's node is never
// attached and every later call returns the same error.
func (t *Tree) PerformUnitOfWork(id ID) (ID, error) {
	if t.err != nil {
		return None, t.err
	}
	if !t.valid(id) {
		return None, errors.New(errors.CodeRenderFailed).WithDetailf("fiber %d does not exist", id)
	}
	t.units++

	f := &t.fibers[id]
	if f.HostNode == nil {
		node, err := t.mat.Materialize(f.Kind, f.Props)
		if err != nil {
			return t.fail(id, err)
		}
		f.HostNode = node
	}

	if f.Parent != None && !f.attached {
		parent := t.fibers[f.Parent].HostNode
		if err := t.host.AppendChild(parent, f.HostNode); err != nil {
			f.HostNode = nil
			return t.fail(id, errors.FromError(err, errors.CodeAppendChild))
		}
		f.attached = true
	}

	if !f.expanded {
		t.expand(id)
	}

	return t.next(id), nil
}

// expand allocates one fiber per child element, linked as first child and siblings.
func (t *Tree) expand(id ID) {
	children := t.fibers[id].Children()
	prev := None
	for _, el := range children {
		child := ID(len(t.fibers))
		t.fibers = append(t.fibers, Fiber{
			Kind:    el.Kind,
			Props:   el.Props,
			Parent:  id,
			Child:   None,
			Sibling: None,
		})
		if prev == None {
			t.fibers[id].Child = child
		} else {
			t.fibers[prev].Sibling = child
		}
		prev = child
	}
	t.fibers[id].expanded = true
}

// next selects the pre-order successor of id with explicit backtracking.
func (t *Tree) next(id ID) ID {
	if child := t.fibers[id].Child; child != None {
		return child
	}
	for cur := id; cur != None; cur = t.fibers[cur].Parent {
		if sibling := t.fibers[cur].Sibling; sibling != None {
			return sibling
		}
	}
	return None
}

func (t *Tree) fail(id ID, err error) (ID, error) {
	t.err = errors.New(errors.CodeRenderFailed).
		WithDetailf("fiber %d <%s>", id, t.fibers[id].Kind).
		Wrap(err)
	return None, t.err
}
