package life

import "sort"

// Pattern is a named set of live-cell coordinates seedable onto the board.
type Pattern struct {
	Name        string
	Description string
	Cells       [][2]int // {row, col} pairs
}

var patterns = map[string]Pattern{
	"block": {
		Name:        "block",
		Description: "2x2 still life",
		Cells:       [][2]int{{3, 3}, {3, 4}, {4, 3}, {4, 4}},
	},
	"blinker": {
		Name:        "blinker",
		Description: "period-2 oscillator",
		Cells:       [][2]int{{3, 2}, {3, 3}, {3, 4}},
	},
	"glider": {
		Name:        "glider",
		Description: "travels one cell down-right every 4 generations",
		Cells:       [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}},
	},
	"toad": {
		Name:        "toad",
		Description: "period-2 oscillator",
		Cells:       [][2]int{{3, 3}, {3, 4}, {3, 5}, {4, 2}, {4, 3}, {4, 4}},
	},
}

// Lookup returns the named pattern, if registered.
func Lookup(name string) (Pattern, bool) {
	p, ok := patterns[name]
	return p, ok
}

// Patterns returns all registered patterns sorted by name.
func Patterns() []Pattern {
	out := make([]Pattern, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Seed clears the board and settles the pattern, wrapping coordinates onto
// the torus so patterns stay valid near the edges.
func (g *Grid) Seed(p Pattern) {
	g.Clear()
	for _, rc := range p.Cells {
		r := ((rc[0] % Rows) + Rows) % Rows
		c := ((rc[1] % Cols) + Cols) % Cols
		g.cur[Index(r, c)] = 1
	}
}
