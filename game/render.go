package game

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	esc        = "\x1b["
	resetColor = esc + "0m"
)

// IsTerminal reports whether colored output makes sense on f.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// String renders the board without colors.
func (b Board) String() string {
	return b.Format(false)
}

// Format renders the board with coordinates on every side. With color, the
// squares are drawn on a green/yellow checkerboard.
func (b Board) Format(color bool) string {
	var sb strings.Builder
	header := coordinates(b.dims.Width())

	sb.WriteString(" " + header + "\n")
	for y := 0; y < b.dims.Height(); y++ {
		sb.WriteString(strconv.Itoa(y))
		for x := 0; x < b.dims.Width(); x++ {
			sb.WriteString(b.square(x, y, color))
		}
		if color {
			sb.WriteString(resetColor)
		}
		sb.WriteString(strconv.Itoa(y) + "\n")
	}
	sb.WriteString(" " + header + "\n")
	return sb.String()
}

func (b Board) square(x, y int, color bool) string {
	tile := "."
	switch {
	case b.IsWhite(x, y):
		tile = "W"
	case b.IsFilled(x, y):
		tile = "B"
	case color:
		tile = " "
	}
	if !color {
		return tile
	}

	bg := "43"
	if x%2 == y%2 {
		bg = "42"
	}
	fg := "30"
	if b.IsWhite(x, y) {
		fg = "37"
	}
	return esc + fg + ";" + bg + "m" + tile
}

func coordinates(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteString(strconv.Itoa(i))
	}
	return sb.String()
}

// Render writes the board to w.
func Render(w io.Writer, b Board, color bool) error {
	_, err := io.WriteString(w, b.Format(color))
	return err
}

// Grid renders the board as rows of 'W', 'B' and '.', the format read by
// ParseBoard.
func (b Board) Grid() string {
	var sb strings.Builder
	for y := 0; y < b.dims.Height(); y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < b.dims.Width(); x++ {
			sb.WriteString(b.square(x, y, false))
		}
	}
	return sb.String()
}
