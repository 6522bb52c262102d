package life

import "math/rand"

// Grid dimensions are fixed by the physical matrix.
const (
	Rows = 8
	Cols = 8
)

// Grid holds an 8x8 board of cells in row-major order together with the
// scratch buffer the next generation is computed into. A generation is only
// ever committed as a whole: Step writes the full next board into the scratch
// buffer and swaps, so readers never observe a half-updated board.
type Grid struct {
	cur [Rows * Cols]uint8
	nxt [Rows * Cols]uint8
	gen uint64
}

// New returns an empty grid.
func New() *Grid {
	return &Grid{}
}

// Index returns the flat index for (row, col).
func Index(r, c int) int { return r*Cols + c }

// Alive reports whether the cell at (r, c) is alive.
func (g *Grid) Alive(r, c int) bool { return g.cur[Index(r, c)] == 1 }

// Set assigns the cell at (r, c).
func (g *Grid) Set(r, c int, alive bool) {
	if alive {
		g.cur[Index(r, c)] = 1
	} else {
		g.cur[Index(r, c)] = 0
	}
}

// Generation returns the number of generations advanced since the last reset.
func (g *Grid) Generation() uint64 { return g.gen }

// Clear kills every cell and resets the generation counter.
func (g *Grid) Clear() {
	g.cur = [Rows * Cols]uint8{}
	g.gen = 0
}

// Randomize fills the board from rng, each cell independently alive with the
// given probability, and resets the generation counter.
func (g *Grid) Randomize(rng *rand.Rand, density float64) {
	for i := range g.cur {
		if rng.Float64() < density {
			g.cur[i] = 1
		} else {
			g.cur[i] = 0
		}
	}
	g.gen = 0
}

// Neighbors returns the number of live cells among the 8 toroidal neighbors
// of (r, c). The cell itself is excluded. The board wraps at all four edges,
// so the count is always in [0, 8] regardless of position.
func (g *Grid) Neighbors(r, c int) int {
	n := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nr := ((r+dr)%Rows + Rows) % Rows
			nc := ((c+dc)%Cols + Cols) % Cols
			n += int(g.cur[Index(nr, nc)])
		}
	}
	return n
}

// Step advances the board one generation. Per cell, with n live neighbors:
// n == 2 keeps the current state, n == 3 is alive, anything else is dead.
// This collapses the classical birth/survival rules into three cases and is
// equivalent to B3/S23 for every n in 0..8.
func (g *Grid) Step() {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			idx := Index(r, c)
			switch g.Neighbors(r, c) {
			case 2:
				g.nxt[idx] = g.cur[idx]
			case 3:
				g.nxt[idx] = 1
			default:
				g.nxt[idx] = 0
			}
		}
	}
	g.cur, g.nxt = g.nxt, g.cur
	g.gen++
}

// Population returns the number of live cells.
func (g *Grid) Population() int {
	n := 0
	for _, v := range g.cur {
		n += int(v)
	}
	return n
}

// Row returns the 8 cells of a row packed into a byte, bit 0 holding column 0.
// The display driver uses this to latch a whole row of columns at once.
func (g *Grid) Row(r int) uint8 {
	var b uint8
	for c := 0; c < Cols; c++ {
		b |= g.cur[Index(r, c)] << uint(c)
	}
	return b
}

// Snapshot copies the current board into dst.
func (g *Grid) Snapshot(dst *[Rows * Cols]uint8) {
	*dst = g.cur
}

// Equal reports whether two grids hold the same board.
func (g *Grid) Equal(o *Grid) bool {
	return g.cur == o.cur
}
