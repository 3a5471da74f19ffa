package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"othello/experiments/metrics"
	"othello/game"
	"othello/searcher"
	"strconv"
	"strings"
	"sync"
)

type humanAgent struct {
	in    io.Reader
	out   io.Writer
	color bool

	once    sync.Once
	lines   chan string
	readErr error // set before lines is closed
}

// NewHumanAgent returns an agent that reads moves as "x y" lines from in and
// prompts on out. A player without a legal move passes automatically.
func NewHumanAgent(in io.Reader, out io.Writer, color bool) Agent {
	return &humanAgent{in: in, out: out, color: color}
}

// read feeds the lines of in to a.lines so a prompt can be abandoned when
// its context is done.
func (a *humanAgent) read() {
	scanner := bufio.NewScanner(a.in)
	for scanner.Scan() {
		a.lines <- scanner.Text()
	}
	a.readErr = scanner.Err()
	close(a.lines)
}

func (a *humanAgent) FindMove(ctx context.Context, tree *searcher.Tree) (*searcher.Node, metrics.SearchMetric, error) {
	root := tree.Root()
	children, err := root.Children()
	if err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	if len(children) == 0 {
		return nil, metrics.SearchMetric{}, searcher.ErrNoMoves
	}
	if children[0].IsPass() {
		fmt.Fprintf(a.out, "%s has no legal move and passes\n", root.Player())
		return children[0], metrics.SearchMetric{}, nil
	}

	if err := game.Render(a.out, root.Board(), a.color); err != nil {
		return nil, metrics.SearchMetric{}, err
	}
	a.once.Do(func() {
		a.lines = make(chan string)
		go a.read()
	})
	for {
		fmt.Fprintf(a.out, "%s to move (x y): ", root.Player())

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.out)
			return nil, metrics.SearchMetric{}, ctx.Err()
		case l, ok := <-a.lines:
			if !ok {
				if a.readErr != nil {
					return nil, metrics.SearchMetric{}, fmt.Errorf("failed to read move: %w", a.readErr)
				}
				return nil, metrics.SearchMetric{}, ErrNoInput
			}
			line = l
		}

		x, y, err := parseMove(line)
		if err != nil {
			fmt.Fprintln(a.out, err)
			continue
		}
		child, ok := root.Child(x, y)
		if !ok {
			fmt.Fprintf(a.out, "(%d, %d) is not a legal move\n", x, y)
			continue
		}
		return child, metrics.SearchMetric{}, nil
	}
}

func parseMove(line string) (int, int, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected two numbers, e.g. \"2 3\", got %q", line)
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad x coordinate %q", fields[0])
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad y coordinate %q", fields[1])
	}
	return x, y, nil
}
