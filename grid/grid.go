package grid

import "fmt"

// Grid is a square elevation field. Values are normalized to [0,1] and
// stored row-major. Synthesizers never write to a caller's grid; they copy
// on entry and hand back a new one.
type Grid struct {
	n int
	z []float64
}

// New allocates an all-zero n by n grid.
func New(n int) (*Grid, error) {
	if n <= 0 {
		return nil, fmt.Errorf("grid.New: size must be positive, got %d", n)
	}
	return &Grid{n: n, z: make([]float64, n*n)}, nil
}

// NewFrom wraps a row-major slice as an n by n grid. The slice is copied.
func NewFrom(n int, z []float64) (*Grid, error) {
	if n <= 0 {
		return nil, fmt.Errorf("grid.NewFrom: size must be positive, got %d", n)
	}
	if len(z) != n*n {
		return nil, fmt.Errorf("grid.NewFrom: non-square input, %d values for size %d", len(z), n)
	}
	for i, v := range z {
		if v < 0. || v > 1. {
			return nil, fmt.Errorf("grid.NewFrom: elevation %f at cell %d outside [0,1]", v, i)
		}
	}
	g := &Grid{n: n, z: make([]float64, n*n)}
	copy(g.z, z)
	return g, nil
}

// Size returns the grid edge length n.
func (g *Grid) Size() int { return g.n }

// Ncells returns the total cell count.
func (g *Grid) Ncells() int { return g.n * g.n }

// Index returns the linear index of (y,x).
func (g *Grid) Index(y, x int) int { return y*g.n + x }

// Coord inverts Index.
func (g *Grid) Coord(i int) (y, x int) { return i / g.n, i % g.n }

// Inside reports whether (y,x) falls on the grid.
func (g *Grid) Inside(y, x int) bool { return y >= 0 && y < g.n && x >= 0 && x < g.n }

// At returns the elevation at (y,x).
func (g *Grid) At(y, x int) float64 { return g.z[y*g.n+x] }

// Set writes the elevation at (y,x).
func (g *Grid) Set(y, x int, v float64) { g.z[y*g.n+x] = v }

// Values exposes the backing slice. Mutating it mutates the grid; the
// synthesizer packages only ever do so on their own working copies.
func (g *Grid) Values() []float64 { return g.z }

// Copy returns a deep copy sharing no storage.
func (g *Grid) Copy() *Grid {
	c := &Grid{n: g.n, z: make([]float64, len(g.z))}
	copy(c.z, g.z)
	return c
}

// Clamp snaps every cell back into [0,1]. Carving and cliff sharpening can
// push values past the domain; callers clamp once before returning.
func (g *Grid) Clamp() {
	for i, v := range g.z {
		if v < 0. {
			g.z[i] = 0.
		} else if v > 1. {
			g.z[i] = 1.
		}
	}
}

// SameShape reports whether two grids share an edge length.
func (g *Grid) SameShape(o *Grid) bool { return o != nil && g.n == o.n }
