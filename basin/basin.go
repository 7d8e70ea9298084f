package basin

import (
	"fmt"
	"math"
	"sort"

	"github.com/terrafield/relief/grid"
)

// Basin is a detected depression: its lowest cell, the pour-point (rim)
// elevation water would overflow at, the depth below that rim, and a
// flood-fill estimate of its cell extent. Ephemeral; lake filling consumes
// these immediately.
type Basin struct {
	Y, X       int
	Rim, Depth float64
	Size       int
}

// LocalMinima returns cells at or below every cell of their 3x3
// neighborhood and strictly below ceiling.
func LocalMinima(g *grid.Grid, ceiling float64) [][2]int {
	n := g.Size()
	var mins [][2]int
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			z := g.At(y, x)
			if z >= ceiling {
				continue
			}
			low := true
			for dy := -1; dy <= 1 && low; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dy == 0 && dx == 0 {
						continue
					}
					yy, xx := y+dy, x+dx
					if g.Inside(yy, xx) && g.At(yy, xx) < z {
						low = false
						break
					}
				}
			}
			if low {
				mins = append(mins, [2]int{y, x})
			}
		}
	}
	return mins
}

// RimElevation estimates the pour point around a local minimum by an
// expanding radial search: each ring is sampled on a 15 degree interval
// (densified at large radii so arc gaps stay near three cells) and its
// minimum taken. While rings keep climbing the search ascends the basin
// wall; the first ring that fails to climb marks the overflow saddle and
// the previous ring's minimum is returned. A total climb smaller than
// minHeight means no rim was found and the local minimum plus a small
// default depth comes back instead. The search is bounded by maxRimRadius
// and by the grid edge.
func RimElevation(g *grid.Grid, y, x int, minHeight float64) float64 {
	z0 := g.At(y, x)
	prev := z0
	for r := 1; r <= maxRimRadius; r++ {
		m, ok := ringMin(g, y, x, r)
		if !ok { // whole ring off grid
			break
		}
		if m > prev+rimEps {
			prev = m
			continue
		}
		break // stopped climbing: overflow level reached
	}
	if prev-z0 >= minHeight {
		return prev
	}
	return z0 + fallbackDepth
}

// ringMin samples the ring of radius r about (y,x) and returns the lowest
// in-bounds sample. ok is false when every sample fell off the grid.
func ringMin(g *grid.Grid, y, x, r int) (float64, bool) {
	step := degStep
	if r > 12 {
		// fixed 24-point rings under-sample wide basins; tighten the
		// interval so neighboring samples stay within ~3 cells
		step = int(math.Max(1., 180./(math.Pi*float64(r)/3.)))
	}
	m, ok := math.Inf(1), false
	for deg := 0; deg < 360; deg += step {
		a := float64(deg) * math.Pi / 180.
		yy := y + int(math.Round(float64(r)*math.Sin(a)))
		xx := x + int(math.Round(float64(r)*math.Cos(a)))
		if !g.Inside(yy, xx) {
			continue
		}
		if z := g.At(yy, xx); z < m {
			m, ok = z, true
		}
	}
	return m, ok
}

// Extent flood-fills outward from (y,x) counting cells at or below rim.
// The fill is 4-connected on an explicit stack and abandons the count at
// maxFillVisits; a capped count underestimates but always terminates.
func Extent(g *grid.Grid, y, x int, rim float64) int {
	n := g.Size()
	visited := make([]bool, n*n)
	stack := [][2]int{{y, x}}
	size := 0
	for len(stack) > 0 && size < maxFillVisits {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cy, cx := c[0], c[1]
		if !g.Inside(cy, cx) {
			continue
		}
		i := g.Index(cy, cx)
		if visited[i] || g.At(cy, cx) > rim {
			continue
		}
		visited[i] = true
		size++
		stack = append(stack, [2]int{cy + 1, cx}, [2]int{cy - 1, cx}, [2]int{cy, cx + 1}, [2]int{cy, cx - 1})
	}
	return size
}

// Depressions detects basins at least minDepth deep and minSize cells
// large, deepest first.
func Depressions(g *grid.Grid, minDepth float64, minSize int) ([]Basin, error) {
	if minDepth <= 0. {
		return nil, fmt.Errorf("basin.Depressions: minDepth must be positive, got %f", minDepth)
	}
	if minSize < 1 {
		return nil, fmt.Errorf("basin.Depressions: minSize must be at least 1, got %d", minSize)
	}
	var bsns []Basin
	for _, m := range LocalMinima(g, minimaCeiling) {
		y, x := m[0], m[1]
		rim := RimElevation(g, y, x, minDepth)
		depth := rim - g.At(y, x)
		if depth < minDepth {
			continue
		}
		size := Extent(g, y, x, rim)
		if size < minSize {
			continue
		}
		bsns = append(bsns, Basin{Y: y, X: x, Rim: rim, Depth: depth, Size: size})
	}
	sort.Slice(bsns, func(a, b int) bool { return bsns[a].Depth > bsns[b].Depth })
	return bsns, nil
}
