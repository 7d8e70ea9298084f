package accel

import "github.com/terrafield/relief/grid"

// Downsample bilinearly reduces g to target cells per edge. target at or
// above the grid size returns a plain copy.
func Downsample(g *grid.Grid, target int) *grid.Grid {
	n := g.Size()
	if target >= n {
		return g.Copy()
	}
	scale := float64(n) / float64(target)
	z := make([]float64, target*target)
	for y := 0; y < target; y++ {
		for x := 0; x < target; x++ {
			z[y*target+x] = sample(g.Values(), n, (float64(y)+.5)*scale-.5, (float64(x)+.5)*scale-.5)
		}
	}
	out, err := grid.NewFrom(target, clamp01(z))
	if err != nil {
		panic(err) // interpolation of in-domain values cannot leave the domain
	}
	return out
}

// upsample bilinearly expands a reduced field back to full cells per edge.
// Mapping output coordinates back through the inverse scale absorbs the up
// to one row/column of rounding slack between full and target*scale.
func upsample(z []float64, reduced, full int) []float64 {
	scale := float64(full) / float64(reduced)
	out := make([]float64, full*full)
	for y := 0; y < full; y++ {
		for x := 0; x < full; x++ {
			out[y*full+x] = sample(z, reduced, (float64(y)+.5)/scale-.5, (float64(x)+.5)/scale-.5)
		}
	}
	return out
}

// sample bilinearly interpolates a row-major n by n field at (y,x),
// clamping at the border.
func sample(z []float64, n int, y, x float64) float64 {
	if y < 0. {
		y = 0.
	} else if y > float64(n-1) {
		y = float64(n - 1)
	}
	if x < 0. {
		x = 0.
	} else if x > float64(n-1) {
		x = float64(n - 1)
	}
	y0, x0 := int(y), int(x)
	y1, x1 := y0+1, x0+1
	if y1 > n-1 {
		y1 = n - 1
	}
	if x1 > n-1 {
		x1 = n - 1
	}
	fy, fx := y-float64(y0), x-float64(x0)
	top := z[y0*n+x0]*(1.-fx) + z[y0*n+x1]*fx
	bot := z[y1*n+x0]*(1.-fx) + z[y1*n+x1]*fx
	return top*(1.-fy) + bot*fy
}

func clamp01(z []float64) []float64 {
	for i, v := range z {
		if v < 0. {
			z[i] = 0.
		} else if v > 1. {
			z[i] = 1.
		}
	}
	return z
}
