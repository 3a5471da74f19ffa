package game

import (
	"fmt"
	"sync"
)

const (
	MinSide = 4
	MaxSide = 8
)

// Dims is the board geometry. The zero value is not usable; build one with
// NewDims.
type Dims struct {
	width  uint8
	height uint8
}

// Standard is the 8x8 board.
var Standard = Dims{width: 8, height: 8}

// NewDims validates a board size: both sides even, between 4 and 8.
func NewDims(width, height int) (Dims, error) {
	if !validSide(width) || !validSide(height) {
		return Dims{}, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidDims)
	}
	return Dims{width: uint8(width), height: uint8(height)}, nil
}

// MustDims is NewDims for sizes known to be valid.
func MustDims(width, height int) Dims {
	d, err := NewDims(width, height)
	if err != nil {
		panic(err)
	}
	return d
}

func validSide(n int) bool {
	return n >= MinSide && n <= MaxSide && n%2 == 0
}

func (d Dims) Width() int  { return int(d.width) }
func (d Dims) Height() int { return int(d.height) }
func (d Dims) Area() int   { return int(d.width) * int(d.height) }

// Contains reports whether (x, y) lies on the board.
func (d Dims) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < int(d.width) && y < int(d.height)
}

// Index maps (x, y) to its bit position, least significant bit first.
func (d Dims) Index(x, y int) int {
	return y*int(d.width) + x
}

// Corners returns the four corner squares as (x, y) pairs.
func (d Dims) Corners() [4][2]int {
	w, h := int(d.width)-1, int(d.height)-1
	return [4][2]int{{0, 0}, {w, 0}, {0, h}, {w, h}}
}

// mask covers every square of the board.
func (d Dims) mask() Bits {
	if d.Area() == 64 {
		return ^Bits(0)
	}
	return Bits(1)<<uint(d.Area()) - 1
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%d", d.width, d.height)
}

// Setup holds the process-scope board geometry. The size may change only
// until the first board is built from it.
type Setup struct {
	mu     sync.Mutex
	dims   Dims
	locked bool
}

// DefaultSetup backs NewBoard. The outer driver configures it once.
var DefaultSetup = NewSetup(Standard)

func NewSetup(d Dims) *Setup {
	return &Setup{dims: d}
}

// Resize changes the geometry. It fails with ErrSetupLocked once a board
// exists and with ErrInvalidDims for unsupported sizes.
func (s *Setup) Resize(width, height int) error {
	d, err := NewDims(width, height)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locked && d != s.dims {
		return fmt.Errorf("resize to %s: %w", d, ErrSetupLocked)
	}
	s.dims = d
	return nil
}

func (s *Setup) Dims() Dims {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dims
}

// NewBoard returns the starting position and locks the geometry.
func (s *Setup) NewBoard() Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.locked = true
	return NewStartBoard(s.dims)
}

// Configure resizes DefaultSetup.
func Configure(width, height int) error {
	return DefaultSetup.Resize(width, height)
}

// NewBoard returns the starting position of DefaultSetup.
func NewBoard() Board {
	return DefaultSetup.NewBoard()
}
