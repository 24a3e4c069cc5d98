// Package fiber implements the fiber tree and the per-fiber unit of work.
//
// A Tree is an arena of Fiber records addressed by ID. Each fiber links to
// its parent, first child and next sibling by index; the child edge is the
// only ownership edge. PerformUnitOfWork processes one fiber:
//
//  1. materialize its host node (once),
//  2. append that node under the parent fiber's host node (once),
//  3. allocate fibers for its child elements (once),
//  4. return the next fiber in pre-order, depth-first order, or None.
//
// Selection is iterative, so every return from PerformUnitOfWork is a valid
// point to suspend a render regardless of tree depth.
//
// Index 0 is the root anchor: a synthetic fiber whose host node is the mount
// container and whose only child is the rendered element.
package fiber
