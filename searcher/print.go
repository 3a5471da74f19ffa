package searcher

import (
	"fmt"
	"io"
	"strings"
)

func (n *Node) String() string {
	switch {
	case n.passed:
		return fmt.Sprintf("pass %s %d", n.player, n.value)
	case n.x < 0:
		return fmt.Sprintf("root %s %d", n.player, n.value)
	}
	return fmt.Sprintf("(%d, %d) %s %d", n.x, n.y, n.player, n.value)
}

// Fprint writes n and the expanded nodes up to depth plies below it, one
// per line, indented by level. Nodes not reached by the last search from n
// are marked with '?'.
func (n *Node) Fprint(w io.Writer, depth int) error {
	return n.fprint(w, depth, 0, n.stamp)
}

func (n *Node) fprint(w io.Writer, depth, level int, stamp uint64) error {
	mark := ""
	if n.stamp != stamp {
		mark = " ?"
	}
	if _, err := fmt.Fprintf(w, "%s%s%s\n", strings.Repeat("  ", level), n, mark); err != nil {
		return err
	}
	if depth <= 0 {
		return nil
	}
	for _, c := range n.children {
		if err := c.fprint(w, depth-1, level+1, stamp); err != nil {
			return err
		}
	}
	return nil
}
