package river

import (
	"fmt"
	"math"
	"sort"

	"github.com/terrafield/relief/flow"
	"github.com/terrafield/relief/grid"
)

// DepthFunc maps a cell's flow accumulation to a carve depth.
type DepthFunc func(acc int) float64

// WidthFunc maps a cell's flow accumulation to a channel half-width in cells.
type WidthFunc func(acc int) float64

// DefaultDepth caps channel incision at 0.1, growing with the square root
// of drainage area.
func DefaultDepth(acc int) float64 {
	d := .01 * math.Sqrt(float64(acc))
	if d > .1 {
		d = .1
	}
	return d
}

// DefaultWidth widens channels with the log of drainage area, never below
// one cell. log(acc+1) keeps headwater cells finite.
func DefaultWidth(acc int) float64 {
	w := math.Log10(float64(acc) + 1.)
	if w < 1. {
		w = 1.
	}
	return w
}

// Sources returns cells whose accumulation meets threshold and is not
// exceeded by any neighbor, i.e. local drainage heads rather than points
// already downstream of a qualifying cell.
func Sources(g *grid.Grid, acc []int, threshold int) [][2]int {
	n := g.Size()
	var srcs [][2]int
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			a := acc[g.Index(y, x)]
			if a < threshold {
				continue
			}
			head := true
			for _, off := range flow.Offsets {
				yy, xx := y+off[0], x+off[1]
				if g.Inside(yy, xx) && acc[g.Index(yy, xx)] > a {
					head = false
					break
				}
			}
			if head {
				srcs = append(srcs, [2]int{y, x})
			}
		}
	}
	return srcs
}

// Carve lowers a channel from src following the flow directions downstream,
// stopping at a sink, the grid edge, or a revisited cell. The input grid is
// left untouched.
func Carve(g *grid.Grid, dirs []flow.Dir, acc []int, src [2]int, depth DepthFunc, width WidthFunc) (*grid.Grid, error) {
	if len(dirs) != g.Ncells() || len(acc) != g.Ncells() {
		return nil, fmt.Errorf("river.Carve: direction/accumulation grids do not match elevation grid")
	}
	if !g.Inside(src[0], src[1]) {
		return nil, fmt.Errorf("river.Carve: source (%d,%d) off grid", src[0], src[1])
	}
	w := g.Copy()
	carve(w, dirs, acc, src, depth, width)
	w.Clamp()
	return w, nil
}

// carve mutates its working copy in place so Network can overlay channels
// and form confluences.
func carve(w *grid.Grid, dirs []flow.Dir, acc []int, src [2]int, depth DepthFunc, width WidthFunc) {
	if depth == nil {
		depth = DefaultDepth
	}
	if width == nil {
		width = DefaultWidth
	}
	n := w.Size()
	visited := make([]bool, n*n)
	y, x := src[0], src[1]
	for {
		i := w.Index(y, x)
		if visited[i] {
			// cycle guard; flow directions form a DAG so this should not
			// trigger, but a corrupt direction grid must not hang us
			break
		}
		visited[i] = true

		d := depth(acc[i])
		cw := width(acc[i])
		r := int(cw) + 1
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				yy, xx := y+dy, x+dx
				if !w.Inside(yy, xx) {
					continue
				}
				dist := math.Hypot(float64(dy), float64(dx))
				if dist > cw {
					continue
				}
				v := w.At(yy, xx) - d*(1.-dist/(cw+1.))
				if v < 0. {
					v = 0.
				}
				w.Set(yy, xx, v)
			}
		}

		fd := dirs[i]
		if fd == flow.Sink {
			break
		}
		y += flow.Offsets[fd][0]
		x += flow.Offsets[fd][1]
		if !w.Inside(y, x) {
			break
		}
	}
}

// Network carves the numRivers largest drainage channels onto one working
// copy. Later carves may overlap earlier ones; that is what produces
// confluences. Flat terrain with no qualifying sources returns an
// unmodified copy. progress, when non-nil, fires once per river carved.
func Network(g *grid.Grid, numRivers, threshold int, progress func(step, total int)) (*grid.Grid, error) {
	if numRivers < 0 {
		return nil, fmt.Errorf("river.Network: numRivers must be non-negative, got %d", numRivers)
	}
	if threshold < 1 {
		return nil, fmt.Errorf("river.Network: threshold must be at least 1, got %d", threshold)
	}

	dirs := flow.Directions(g)
	acc, err := flow.Accumulate(g, dirs)
	if err != nil {
		return nil, err
	}

	srcs := Sources(g, acc, threshold)
	if len(srcs) == 0 {
		return g.Copy(), nil
	}
	sort.Slice(srcs, func(a, b int) bool {
		return acc[g.Index(srcs[a][0], srcs[a][1])] > acc[g.Index(srcs[b][0], srcs[b][1])]
	})
	if numRivers < len(srcs) {
		srcs = srcs[:numRivers]
	}

	w := g.Copy()
	for k, s := range srcs {
		carve(w, dirs, acc, s, nil, nil)
		if progress != nil {
			progress(k+1, len(srcs))
		}
	}
	w.Clamp()
	return w, nil
}
