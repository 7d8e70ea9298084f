package lake

import (
	"math"
	"testing"

	"github.com/terrafield/relief/grid"
)

func mustGrid(t *testing.T, n int, z []float64) *grid.Grid {
	t.Helper()
	g, err := grid.NewFrom(n, z)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// A grid entirely below the fill level is the pathological case that once
// hung the fill; it must terminate within the visited cap.
func TestFillBoundedOnAllConnectedGrid(t *testing.T) {
	n := 50
	g := mustGrid(t, n, make([]float64, n*n))
	out, complete, err := Fill(g, 25, 25, .3, .02)
	if err != nil {
		t.Fatal(err)
	}
	if !complete {
		t.Fatal("fill of exactly the whole grid should complete at the cap, not past it")
	}
	for i, v := range out.Values() {
		if v != .3 {
			t.Fatalf("cell %d = %f, want flat surface 0.3", i, v)
		}
	}
}

func TestFillFlatSurfaceAndShoreBand(t *testing.T) {
	// a pit of 0.1 ringed by 0.3 walls inside 0.9 terrain
	n := 11
	z := make([]float64, n*n)
	for i := range z {
		z[i] = .9
	}
	for y := 3; y <= 7; y++ {
		for x := 3; x <= 7; x++ {
			z[y*n+x] = .3
		}
	}
	z[5*n+5] = .1
	g := mustGrid(t, n, z)

	out, complete, err := Fill(g, 5, 5, .25, .1)
	if err != nil {
		t.Fatal(err)
	}
	if !complete {
		t.Fatal("small fill reported as capped")
	}
	if got := out.At(5, 5); got != .25 {
		t.Fatalf("lake bottom raised to %f, want 0.25", got)
	}
	// 0.3 sits halfway into the band [0.25,0.35]: blended below its
	// original height but above the surface
	if got := out.At(4, 5); got <= .25 || got >= .3 {
		t.Fatalf("shore cell blended to %f, want within (0.25,0.3)", got)
	}
	if got := out.At(0, 0); got != .9 {
		t.Fatalf("terrain above the band moved to %f", got)
	}
}

func TestFillDoesNotCrossHighGround(t *testing.T) {
	// two pits split by a 0.8 wall; filling one must not touch the other
	n := 9
	z := make([]float64, n*n)
	for i := range z {
		z[i] = .1
	}
	for y := 0; y < n; y++ {
		z[y*n+4] = .8
	}
	g := mustGrid(t, n, z)
	out, _, err := Fill(g, 4, 1, .5, .02)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.At(4, 6); got != .1 {
		t.Fatalf("fill leaked across the wall: far side at %f", got)
	}
	if got := out.At(4, 1); got != .5 {
		t.Fatalf("near side at %f, want 0.5", got)
	}
}

func TestFillRejectsBadInputs(t *testing.T) {
	g := mustGrid(t, 4, make([]float64, 16))
	if _, _, err := Fill(g, 9, 0, .5, .02); err == nil {
		t.Fatal("expected error for off-grid center")
	}
	if _, _, err := Fill(g, 1, 1, 1.5, .02); err == nil {
		t.Fatal("expected error for level above 1")
	}
	if _, _, err := Fill(g, 1, 1, .5, -.1); err == nil {
		t.Fatal("expected error for negative shore band")
	}
}

func TestGenerateFillsDeepestBasin(t *testing.T) {
	// paraboloid bowl, as the basin detector sees it
	n := 20
	z := make([]float64, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			d := math.Hypot(float64(y-10), float64(x-10)) / 9.
			if d > 1. {
				d = 1.
			}
			z[y*n+x] = .1 + .4*d*d
		}
	}
	g := mustGrid(t, n, z)
	var calls int
	out, npartial, err := Generate(g, 2, .05, 5, func(step, total int) { calls++ })
	if err != nil {
		t.Fatal(err)
	}
	if npartial != 0 {
		t.Fatalf("%d partial fills on a small bowl", npartial)
	}
	if calls != 1 {
		t.Fatalf("progress fired %d times, want once for the single basin", calls)
	}
	if got := out.At(10, 10); math.Abs(got-.5) > .02 {
		t.Fatalf("lake surface %f, want the rim elevation 0.5 within 0.02", got)
	}
	if got := out.At(10, 5); got < out.At(10, 10)-1e-9 {
		t.Fatalf("interior cell (10,5) at %f below the surface %f", got, out.At(10, 10))
	}
}
