package coast

import (
	"fmt"
	"math"

	"github.com/maseology/mmaths"
	"github.com/terrafield/relief/flow"
	"github.com/terrafield/relief/grid"
)

// Slope returns the gradient angle (radians) of every cell from 3x3 Sobel
// kernels in each axis. extent is the physical map width in meters; it only
// scales rise over run, nothing geodetic.
func Slope(g *grid.Grid, extent float64) ([]float64, error) {
	if extent <= 0. {
		return nil, fmt.Errorf("coast.Slope: extent must be positive, got %f", extent)
	}
	n := g.Size()
	cs := extent / float64(n) // cell size, m
	at := func(y, x int) float64 {
		// replicate the border
		if y < 0 {
			y = 0
		} else if y >= n {
			y = n - 1
		}
		if x < 0 {
			x = 0
		} else if x >= n {
			x = n - 1
		}
		return g.At(y, x) * heightScale
	}
	s := make([]float64, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			gx := (at(y-1, x+1) + 2.*at(y, x+1) + at(y+1, x+1) -
				at(y-1, x-1) - 2.*at(y, x-1) - at(y+1, x-1)) / (8. * cs)
			gy := (at(y+1, x-1) + 2.*at(y+1, x) + at(y+1, x+1) -
				at(y-1, x-1) - 2.*at(y-1, x) - at(y-1, x+1)) / (8. * cs)
			s[y*n+x] = math.Atan(math.Hypot(gx, gy))
		}
	}
	return s, nil
}

// Coastline masks land cells lying within searchDist (Chebyshev) of water,
// water being any cell at or below waterLevel.
func Coastline(g *grid.Grid, waterLevel float64, searchDist int) ([]bool, error) {
	if searchDist < 1 {
		return nil, fmt.Errorf("coast.Coastline: searchDist must be at least 1, got %d", searchDist)
	}
	n := g.Size()
	water := make([]bool, n*n)
	for i, z := range g.Values() {
		water[i] = z <= waterLevel
	}
	near := dilate(water, n, searchDist)
	mask := make([]bool, n*n)
	for i := range mask {
		mask[i] = near[i] && !water[i]
	}
	return mask, nil
}

// dilate grows a mask by r cells of 8-neighbor expansion.
func dilate(mask []bool, n, r int) []bool {
	cur := make([]bool, len(mask))
	copy(cur, mask)
	for k := 0; k < r; k++ {
		next := make([]bool, len(cur))
		copy(next, cur)
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				if next[y*n+x] {
					continue
				}
				for _, off := range flow.Offsets {
					yy, xx := y+off[0], x+off[1]
					if yy >= 0 && yy < n && xx >= 0 && xx < n && cur[yy*n+xx] {
						next[y*n+x] = true
						break
					}
				}
			}
		}
		cur = next
	}
	return cur
}

// coastDist estimates the distance in cells from (y,x) to the nearest
// masked cell by expanding rings, the same bounded search the basin rim
// detector uses. Returns rmax+1 when nothing is found in range.
func coastDist(mask []bool, n, y, x, rmax int) int {
	if mask[y*n+x] {
		return 0
	}
	for r := 1; r <= rmax; r++ {
		for deg := 0; deg < 360; deg += 15 {
			a := float64(deg) * math.Pi / 180.
			yy := y + int(math.Round(float64(r)*math.Sin(a)))
			xx := x + int(math.Round(float64(r)*math.Cos(a)))
			if yy >= 0 && yy < n && xx >= 0 && xx < n && mask[yy*n+xx] {
				return r
			}
		}
	}
	return rmax + 1
}

// Beaches flattens gently sloping coastline into beach, blending land
// toward a 70% slope reduction with weight falling off over width cells
// from the shore. Only land above waterLevel moves; intensity in [0,1]
// scales the whole effect.
func Beaches(g *grid.Grid, extent, waterLevel float64, intensity float64, width int) (*grid.Grid, error) {
	if intensity < 0. || intensity > 1. {
		return nil, fmt.Errorf("coast.Beaches: intensity %f outside [0,1]", intensity)
	}
	if width < 1 {
		return nil, fmt.Errorf("coast.Beaches: width must be at least 1, got %d", width)
	}
	slope, err := Slope(g, extent)
	if err != nil {
		return nil, err
	}
	mask, err := Coastline(g, waterLevel, width)
	if err != nil {
		return nil, err
	}

	n := g.Size()
	cand := make([]bool, n*n)
	for i := range cand {
		cand[i] = mask[i] && slope[i] < BeachMaxSlope
	}
	zone := dilate(cand, n, width)

	w := g.Copy()
	rmax := width
	if rmax > maxCoastDist {
		rmax = maxCoastDist
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := y*n + x
			if !zone[i] {
				continue
			}
			z := w.At(y, x)
			if z <= waterLevel {
				continue
			}
			d := coastDist(cand, n, y, x, rmax)
			if d > width {
				continue
			}
			target := waterLevel + beachFlatten*(z-waterLevel)
			wt := intensity * (1. - float64(d)/float64(width))
			w.Set(y, x, mmaths.LinearTransform(z, target, wt))
		}
	}
	w.Clamp()
	return w, nil
}

// Cliffs sharpens steep seaward coastline into vertical faces: qualifying
// cells rise by minHeight*intensity and any adjacent cell left below them
// drops by half that, deepening the step. A cell is seaward when most of
// its 8 neighbors are water.
func Cliffs(g *grid.Grid, extent, waterLevel float64, intensity, minHeight float64) (*grid.Grid, error) {
	if intensity < 0. || intensity > 1. {
		return nil, fmt.Errorf("coast.Cliffs: intensity %f outside [0,1]", intensity)
	}
	if minHeight <= 0. {
		return nil, fmt.Errorf("coast.Cliffs: minHeight must be positive, got %f", minHeight)
	}
	slope, err := Slope(g, extent)
	if err != nil {
		return nil, err
	}
	mask, err := Coastline(g, waterLevel, 2)
	if err != nil {
		return nil, err
	}

	n := g.Size()
	w := g.Copy()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := y*n + x
			if !mask[i] || slope[i] <= CliffMinSlope || g.At(y, x) <= waterLevel+minHeight {
				continue
			}
			nwater := 0
			for _, off := range flow.Offsets {
				yy, xx := y+off[0], x+off[1]
				if g.Inside(yy, xx) && g.At(yy, xx) <= waterLevel {
					nwater++
				}
			}
			if nwater <= 4 { // not seaward-facing
				continue
			}
			raise := minHeight * intensity
			w.Set(y, x, w.At(y, x)+raise)
			for _, off := range flow.Offsets {
				yy, xx := y+off[0], x+off[1]
				if !w.Inside(yy, xx) {
					continue
				}
				if w.At(yy, xx) < w.At(y, x) {
					w.Set(yy, xx, w.At(yy, xx)-raise/2.)
				}
			}
		}
	}
	w.Clamp()
	return w, nil
}

// Generate applies beaches then cliffs on one working copy. progress, when
// non-nil, fires after each stage.
func Generate(g *grid.Grid, extent, waterLevel float64, addBeaches, addCliffs bool,
	beachIntensity float64, beachWidth int, cliffIntensity, cliffMinHeight float64,
	progress func(step, total int)) (*grid.Grid, error) {

	w := g.Copy()
	nstage := 0
	if addBeaches {
		nstage++
	}
	if addCliffs {
		nstage++
	}
	step := 0
	var err error
	if addBeaches {
		if w, err = Beaches(w, extent, waterLevel, beachIntensity, beachWidth); err != nil {
			return nil, err
		}
		step++
		if progress != nil {
			progress(step, nstage)
		}
	}
	if addCliffs {
		if w, err = Cliffs(w, extent, waterLevel, cliffIntensity, cliffMinHeight); err != nil {
			return nil, err
		}
		step++
		if progress != nil {
			progress(step, nstage)
		}
	}
	return w, nil
}
