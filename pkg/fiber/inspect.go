package fiber

import (
	"fmt"

	"github.com/vango-dev/fibre/internal/errors"
	"github.com/vango-dev/fibre/pkg/element"
)

// Record is a serializable view of one fiber.
type Record struct {
	ID       ID             `json:"id"`
	Kind     string         `json:"kind"`
	Text     string         `json:"text,omitempty"`
	Props    map[string]any `json:"props,omitempty"`
	Parent   ID             `json:"parent"`
	Child    ID             `json:"child"`
	Sibling  ID             `json:"sibling"`
	HasNode  bool           `json:"hasNode"`
	Attached bool           `json:"attached"`
}

// Snapshot returns one record per allocated fiber, indexed by ID.
func (t *Tree) Snapshot() []Record {
	records := make([]Record, len(t.fibers))
	for i, f := range t.fibers {
		r := Record{
			ID:       ID(i),
			Kind:     f.Kind,
			Text:     f.Text(),
			Parent:   f.Parent,
			Child:    f.Child,
			Sibling:  f.Sibling,
			HasNode:  f.HostNode != nil,
			Attached: f.attached,
		}
		for k, v := range f.Props {
			if k == element.PropChildren || (f.Kind == element.KindText && k == element.PropNodeValue) {
				continue
			}
			if r.Props == nil {
				r.Props = make(map[string]any)
			}
			r.Props[k] = v
		}
		records[i] = r
	}
	return records
}

// Walk visits allocated fibers in pre-order via child and sibling links.
// It performs no work. Returning false stops the walk.
func (t *Tree) Walk(fn func(id ID, f Fiber) bool) {
	if len(t.fibers) == 0 {
		return
	}
	id := RootID
	for id != None {
		if !fn(id, t.fibers[id]) {
			return
		}
		id = t.next(id)
	}
}

// Validate checks the structural invariants of the arena: the root has no
// parent, every other fiber is reached exactly once through its parent's
// child/sibling chain, and every attached fiber's parent is attached or is
// the root anchor.
func (t *Tree) Validate() error {
	if len(t.fibers) == 0 {
		return invalidTree("tree is empty")
	}
	if t.fibers[RootID].Parent != None {
		return invalidTree("root anchor has a parent")
	}

	seen := make([]bool, len(t.fibers))
	seen[RootID] = true
	reached := 1
	for i := range t.fibers {
		parent := ID(i)
		for c := t.fibers[i].Child; c != None; c = t.fibers[c].Sibling {
			if !t.valid(c) {
				return invalidTree("fiber %d links to missing fiber %d", parent, c)
			}
			if seen[c] {
				return invalidTree("fiber %d is linked more than once", c)
			}
			if t.fibers[c].Parent != parent {
				return invalidTree("fiber %d is in the chain of %d but its parent is %d", c, parent, t.fibers[c].Parent)
			}
			seen[c] = true
			reached++
		}
	}
	if reached != len(t.fibers) {
		return invalidTree("%d of %d fibers are unreachable", len(t.fibers)-reached, len(t.fibers))
	}

	for i, f := range t.fibers {
		if i == int(RootID) || !f.attached {
			continue
		}
		if f.Parent != RootID && !t.fibers[f.Parent].attached {
			return invalidTree("fiber %d is attached under unattached fiber %d", i, f.Parent)
		}
	}
	return nil
}

func invalidTree(format string, args ...any) error {
	return errors.Newf(errors.CategoryRender, "invalid fiber tree: %s", fmt.Sprintf(format, args...))
}
