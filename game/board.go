package game

import (
	"fmt"
	"strings"
)

// Board is one position: which squares hold a piece and which of those are
// white. Boards are values; playing a move returns a new Board.
type Board struct {
	dims     Dims
	occupied Bits
	white    Bits
}

// Move is a legal placement together with the position it produces.
type Move struct {
	X, Y  int
	Board Board
}

// directions are the eight rays, clockwise from north.
var directions = [8][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}

// NewStartBoard returns the four-tile starting layout for d: black on the
// main diagonal of the center, white on the anti-diagonal.
func NewStartBoard(d Dims) Board {
	cx, cy := d.Width()/2, d.Height()/2
	b := Board{dims: d}
	b = b.place(cx-1, cy-1, Black)
	b = b.place(cx, cy, Black)
	b = b.place(cx, cy-1, White)
	b = b.place(cx-1, cy, White)
	return b
}

// FromBits builds a board from raw sets. It panics when white is not a
// subset of occupied or a bit lies outside the board.
func FromBits(d Dims, occupied, white Bits) Board {
	if white&^occupied != 0 {
		panic(fmt.Sprintf("white %#x is not a subset of occupied %#x", uint64(white), uint64(occupied)))
	}
	if occupied&^d.mask() != 0 {
		panic(fmt.Sprintf("occupied %#x has squares outside %s board", uint64(occupied), d))
	}
	return Board{dims: d, occupied: occupied, white: white}
}

// ParseBoard reads rows of 'W', 'B' and '.' separated by newlines. Blank
// lines are ignored.
func ParseBoard(d Dims, grid string) (Board, error) {
	var rows []string
	for _, line := range strings.Split(grid, "\n") {
		if strings.TrimSpace(line) != "" {
			rows = append(rows, strings.TrimSpace(line))
		}
	}
	if len(rows) != d.Height() {
		return Board{}, fmt.Errorf("%d rows for %s board: %w", len(rows), d, ErrMalformedGrid)
	}

	b := Board{dims: d}
	for y, row := range rows {
		if len(row) != d.Width() {
			return Board{}, fmt.Errorf("row %d has %d squares: %w", y, len(row), ErrMalformedGrid)
		}
		for x, c := range row {
			switch c {
			case 'W', 'w':
				b = b.place(x, y, White)
			case 'B', 'b':
				b = b.place(x, y, Black)
			case '.', '-', '_':
			default:
				return Board{}, fmt.Errorf("square (%d, %d) is %q: %w", x, y, c, ErrMalformedGrid)
			}
		}
	}
	return b, nil
}

func (b Board) place(x, y int, p Player) Board {
	b.occupied = b.occupied.Set(b.dims, x, y)
	if p == White {
		b.white = b.white.Set(b.dims, x, y)
	} else {
		b.white = b.white.Clear(b.dims, x, y)
	}
	return b
}

func (b Board) Dims() Dims     { return b.dims }
func (b Board) Occupied() Bits { return b.occupied }
func (b Board) White() Bits    { return b.white }
func (b Board) Black() Bits    { return b.occupied &^ b.white }
func (b Board) Empty() Bits    { return b.dims.mask() &^ b.occupied }
func (b Board) NumTiles() int  { return b.occupied.Count() }
func (b Board) NumEmpty() int  { return b.dims.Area() - b.NumTiles() }

func (b Board) Count(p Player) int {
	return b.colored(p).Count()
}

func (b Board) IsFilled(x, y int) bool {
	return b.occupied.Get(b.dims, x, y)
}

func (b Board) IsWhite(x, y int) bool {
	return b.white.Get(b.dims, x, y)
}

func (b Board) IsBlack(x, y int) bool {
	return b.IsFilled(x, y) && !b.IsWhite(x, y)
}

// Score is the number of white pieces minus the number of black pieces.
func (b Board) Score() int {
	return 2*b.white.Count() - b.occupied.Count()
}

// Equal compares positions. Score is derived and plays no part.
func (b Board) Equal(o Board) bool {
	return b.dims == o.dims && b.occupied == o.occupied && b.white == o.white
}

func (b Board) colored(p Player) Bits {
	if p == White {
		return b.white
	}
	return b.occupied &^ b.white
}

// flips returns the opponent pieces captured by p playing the empty square
// (x, y). A ray captures only if at least one opponent piece is followed by
// one of p's own before an empty square or the edge.
func (b Board) flips(p Player, x, y int, first bool) Bits {
	own, opp := b.colored(p), b.colored(p.Opponent())

	var captured Bits
	for _, dir := range directions {
		var run Bits
		cx, cy := x+dir[0], y+dir[1]
		for b.dims.Contains(cx, cy) && opp.Get(b.dims, cx, cy) {
			run = run.Set(b.dims, cx, cy)
			cx, cy = cx+dir[0], cy+dir[1]
		}
		if run != 0 && b.dims.Contains(cx, cy) && own.Get(b.dims, cx, cy) {
			captured |= run
			if first {
				return captured
			}
		}
	}
	return captured
}

// Play places a piece for p at (x, y). It reports false when the square is
// off the board, taken, or captures nothing.
func (b Board) Play(p Player, x, y int) (Board, bool) {
	if !b.dims.Contains(x, y) || b.IsFilled(x, y) {
		return b, false
	}
	captured := b.flips(p, x, y, false)
	if captured == 0 {
		return b, false
	}
	return b.apply(p, x, y, captured), true
}

func (b Board) apply(p Player, x, y int, captured Bits) Board {
	next := b
	next.occupied = b.occupied.Set(b.dims, x, y)
	if p == White {
		next.white = b.white.Set(b.dims, x, y) | captured
	} else {
		next.white = b.white &^ captured
	}
	return next
}

// Moves lists every legal move of p in row-major order.
func (b Board) Moves(p Player) []Move {
	var moves []Move
	for y := 0; y < b.dims.Height(); y++ {
		for x := 0; x < b.dims.Width(); x++ {
			if b.IsFilled(x, y) {
				continue
			}
			if captured := b.flips(p, x, y, false); captured != 0 {
				moves = append(moves, Move{X: x, Y: y, Board: b.apply(p, x, y, captured)})
			}
		}
	}
	return moves
}

// HasLegalMove stops at the first capturing ray.
func (b Board) HasLegalMove(p Player) bool {
	for y := 0; y < b.dims.Height(); y++ {
		for x := 0; x < b.dims.Width(); x++ {
			if !b.IsFilled(x, y) && b.flips(p, x, y, true) != 0 {
				return true
			}
		}
	}
	return false
}

// IsLeaf reports a finished game: neither player can move. The board need
// not be full.
func (b Board) IsLeaf() bool {
	return !b.HasLegalMove(White) && !b.HasLegalMove(Black)
}

// Outcome of a position judged by score alone.
type Outcome int

const (
	BlackWins Outcome = -1
	Draw      Outcome = 0
	WhiteWins Outcome = 1
)

func (b Board) Outcome() Outcome {
	switch s := b.Score(); {
	case s > 0:
		return WhiteWins
	case s < 0:
		return BlackWins
	}
	return Draw
}

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "WHITE"
	case BlackWins:
		return "BLACK"
	}
	return "DRAW"
}
