package lake

import (
	"fmt"

	"github.com/maseology/mmaths"
	"github.com/terrafield/relief/basin"
	"github.com/terrafield/relief/grid"
)

// ShoreTransition is the default elevation band above the fill level that
// gets blended toward the water surface instead of left as an abrupt wall.
const ShoreTransition = .02

// Fill floods a basin from (y,x) up to level. Cells below level become the
// flat water surface; cells within the shore band above it are pulled
// toward level in proportion to how deep into the band they sit; anything
// higher stops the fill. The fill is 8-connected on an explicit stack with
// the visited set capped at the total cell count, so a pathological
// everything-below-rim grid terminates with a partial lake rather than
// hanging. complete is false when that cap cut the fill short.
func Fill(g *grid.Grid, y, x int, level, shore float64) (out *grid.Grid, complete bool, err error) {
	if !g.Inside(y, x) {
		return nil, false, fmt.Errorf("lake.Fill: center (%d,%d) off grid", y, x)
	}
	if level <= 0. || level > 1. {
		return nil, false, fmt.Errorf("lake.Fill: level %f outside (0,1]", level)
	}
	if shore < 0. {
		return nil, false, fmt.Errorf("lake.Fill: negative shore transition %f", shore)
	}

	w := g.Copy()
	n := w.Size()
	vcap := w.Ncells()
	visited := make([]bool, vcap)
	stack := [][2]int{{y, x}}
	nv := 0
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cy, cx := c[0], c[1]
		if cy < 0 || cy >= n || cx < 0 || cx >= n {
			continue
		}
		i := w.Index(cy, cx)
		if visited[i] {
			continue
		}
		if nv >= vcap {
			return w, false, nil // degraded but successful
		}
		visited[i] = true
		nv++

		z := w.At(cy, cx)
		switch {
		case z < level:
			w.Set(cy, cx, level)
		case z <= level+shore && shore > 0.:
			// deeper into the band keeps more of its original height
			w.Set(cy, cx, mmaths.LinearTransform(level, z, (z-level)/shore))
		default:
			continue // above the band, fill does not spread past here
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dy == 0 && dx == 0 {
					continue
				}
				stack = append(stack, [2]int{cy + dy, cx + dx})
			}
		}
	}
	return w, true, nil
}

// Generate detects depressions and fills the deepest numLakes to their
// pour points. progress, when non-nil, fires once per lake filled.
// npartial counts fills cut short by the visited cap.
func Generate(g *grid.Grid, numLakes int, minDepth float64, minSize int, progress func(step, total int)) (out *grid.Grid, npartial int, err error) {
	if numLakes < 0 {
		return nil, 0, fmt.Errorf("lake.Generate: numLakes must be non-negative, got %d", numLakes)
	}
	bsns, err := basin.Depressions(g, minDepth, minSize)
	if err != nil {
		return nil, 0, err
	}
	if numLakes < len(bsns) {
		bsns = bsns[:numLakes]
	}
	w := g.Copy()
	for k, b := range bsns {
		var complete bool
		w, complete, err = Fill(w, b.Y, b.X, b.Rim, ShoreTransition)
		if err != nil {
			return nil, npartial, err
		}
		if !complete {
			npartial++
		}
		if progress != nil {
			progress(k+1, len(bsns))
		}
	}
	return w, npartial, nil
}
