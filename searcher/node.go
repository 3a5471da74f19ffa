package searcher

import "othello/game"

type expansion uint8

const (
	unexpanded expansion = iota
	expanded
)

// Node is a position in the game tree together with the result of the last
// search that reached it. A node owns its children exclusively.
type Node struct {
	board    game.Board
	player   game.Player
	x, y     int8 // move that led here, -1 for the root and pass nodes
	passed   bool
	state    expansion
	children []*Node
	budget   *Budget

	// last search
	value int
	stamp uint64
	exact bool
}

// NewRoot returns an unexpanded node for player to move on b. Descendants of
// the node are charged to budget, which may be nil.
func NewRoot(b game.Board, player game.Player, budget *Budget) *Node {
	return &Node{board: b, player: player, x: -1, y: -1, budget: budget}
}

func (n *Node) Board() game.Board   { return n.board }
func (n *Node) Player() game.Player { return n.player }
func (n *Node) X() int              { return int(n.x) }
func (n *Node) Y() int              { return int(n.y) }
func (n *Node) IsPass() bool        { return n.passed }
func (n *Node) IsExpanded() bool    { return n.state == expanded }

// Value returns the value cached by the last search that reached the node.
func (n *Node) Value() int { return n.value }

// Children expands the node on first use. A player without a legal move gets
// a single pass child on the same board when the opponent can still move.
// When the budget cannot hold the children, nothing is linked, the node
// stays unexpanded and ErrExpansionIncomplete is returned.
func (n *Node) Children() ([]*Node, error) {
	if n.state == unexpanded {
		if err := n.expand(); err != nil {
			return nil, err
		}
	}
	return n.children, nil
}

func (n *Node) expand() error {
	next := n.player.Opponent()
	moves := n.board.Moves(n.player)

	var children []*Node
	switch {
	case len(moves) > 0:
		if !n.budget.reserve(len(moves)) {
			return ErrExpansionIncomplete
		}
		children = make([]*Node, len(moves))
		for i, m := range moves {
			children[i] = &Node{
				board:  m.Board,
				player: next,
				x:      int8(m.X),
				y:      int8(m.Y),
				budget: n.budget,
			}
		}
	case n.board.HasLegalMove(next):
		if !n.budget.reserve(1) {
			return ErrExpansionIncomplete
		}
		children = []*Node{{board: n.board, player: next, x: -1, y: -1, passed: true, budget: n.budget}}
	}

	n.children = children
	n.state = expanded
	return nil
}

// IsLeaf reports whether neither player can move.
func (n *Node) IsLeaf() bool {
	if n.state == expanded {
		return len(n.children) == 0
	}
	return n.board.IsLeaf()
}

// Child returns the child reached by placing at (x, y), expanding the node
// if needed.
func (n *Node) Child(x, y int) (*Node, bool) {
	children, err := n.Children()
	if err != nil {
		return nil, false
	}
	for _, c := range children {
		if !c.passed && c.X() == x && c.Y() == y {
			return c, true
		}
	}
	return nil, false
}

// Best returns the children whose value equals the node's value in the last
// search run from this node. It is empty when the node was not searched or
// its value is only a bound.
func (n *Node) Best() []*Node {
	if n.state != expanded || !n.exact {
		return nil
	}
	var best []*Node
	for _, c := range n.children {
		if c.stamp == n.stamp && c.exact && c.value == n.value {
			best = append(best, c)
		}
	}
	return best
}

// discard frees the subtree below n and returns its nodes to the budget.
// n itself is left unexpanded.
func (n *Node) discard() {
	if n.state == unexpanded {
		return
	}
	for i, c := range n.children {
		c.discard()
		n.children[i] = nil
	}
	n.budget.release(len(n.children))
	n.children = nil
	n.state = unexpanded
}

// Count returns the number of nodes at most depth plies below n, n included.
// It expands the tree as it goes.
func (n *Node) Count(depth int) (int, error) {
	if depth <= 0 {
		return 1, nil
	}
	children, err := n.Children()
	if err != nil {
		return 0, err
	}
	count := 1
	for _, c := range children {
		k, err := c.Count(depth - 1)
		if err != nil {
			return 0, err
		}
		count += k
	}
	return count, nil
}
