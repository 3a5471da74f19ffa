package searcher

import "othello/game"

// Tree is the game tree of one game. The root is the current position;
// committing a move narrows the tree to the chosen child.
type Tree struct {
	root   *Node
	budget *Budget
}

// NewTree starts a tree at b with first to move. nodeLimit caps the number
// of live nodes, 0 for no limit.
func NewTree(b game.Board, first game.Player, nodeLimit int) *Tree {
	budget := NewBudget(nodeLimit)
	return &Tree{root: NewRoot(b, first, budget), budget: budget}
}

func (t *Tree) Root() *Node {
	return t.root
}

// Live returns the number of nodes below the root, or 0 when the tree has
// no node limit.
func (t *Tree) Live() int {
	return t.budget.Live()
}

// Advance makes child the new root. Every other subtree of the old root is
// discarded. child must be a child of the current root.
func (t *Tree) Advance(child *Node) error {
	old := t.root
	if old.state != expanded {
		return ErrNotChild
	}
	found := false
	for _, c := range old.children {
		if c == child {
			found = true
			break
		}
	}
	if !found {
		return ErrNotChild
	}

	for i, c := range old.children {
		if c != child {
			c.discard()
		}
		old.children[i] = nil
	}
	t.budget.release(len(old.children))
	old.children = nil
	old.state = unexpanded

	t.root = child
	return nil
}

// Trim discards everything below the children of the root, keeping the
// choices at the root.
func (t *Tree) Trim() {
	for _, c := range t.root.children {
		c.discard()
	}
}
