package river

import (
	"testing"

	"github.com/terrafield/relief/flow"
	"github.com/terrafield/relief/grid"
)

// vValley is a 10x10 grid sloping to a flat-bottomed valley along x=5.
func vValley(t *testing.T) *grid.Grid {
	t.Helper()
	n := 10
	z := make([]float64, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			d := x - 5
			if d < 0 {
				d = -d
			}
			z[y*n+x] = float64(d) / 5.
		}
	}
	g, err := grid.NewFrom(n, z)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestValleyConcentratesFlow(t *testing.T) {
	g := vValley(t)
	dirs := flow.Directions(g)
	acc, err := flow.Accumulate(g, dirs)
	if err != nil {
		t.Fatal(err)
	}
	n := g.Size()
	for y := 0; y < n; y++ {
		if acc[g.Index(y, 5)] <= acc[g.Index(y, 0)] {
			t.Fatalf("row %d: valley accumulation %d not above ridge accumulation %d",
				y, acc[g.Index(y, 5)], acc[g.Index(y, 0)])
		}
	}

	srcs := Sources(g, acc, 8)
	found := false
	for _, s := range srcs {
		if s[1] == 5 {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("no source found in the valley column, sources: %v", srcs)
	}
}

func TestSourcesAreLocalHeads(t *testing.T) {
	g := vValley(t)
	acc, err := flow.Accumulate(g, flow.Directions(g))
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range srcsWithGreaterNeighbor(g, acc, Sources(g, acc, 8)) {
		t.Fatalf("source (%d,%d) has a neighbor with greater accumulation", s[0], s[1])
	}
}

func srcsWithGreaterNeighbor(g *grid.Grid, acc []int, srcs [][2]int) [][2]int {
	var bad [][2]int
	for _, s := range srcs {
		a := acc[g.Index(s[0], s[1])]
		for _, off := range flow.Offsets {
			yy, xx := s[0]+off[0], s[1]+off[1]
			if g.Inside(yy, xx) && acc[g.Index(yy, xx)] > a {
				bad = append(bad, s)
				break
			}
		}
	}
	return bad
}

func TestCarveLowersChannel(t *testing.T) {
	// a straight incline drains west to east
	n := 16
	z := make([]float64, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			z[y*n+x] = .9 - .8*float64(x)/float64(n-1)
		}
	}
	g, err := grid.NewFrom(n, z)
	if err != nil {
		t.Fatal(err)
	}
	dirs := flow.Directions(g)
	acc, err := flow.Accumulate(g, dirs)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Carve(g, dirs, acc, [2]int{8, 0}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	lowered := 0
	for x := 0; x < n; x++ {
		if out.At(8, x) < g.At(8, x) {
			lowered++
		}
	}
	if lowered < n/2 {
		t.Fatalf("carve lowered only %d cells along the channel row", lowered)
	}
	if g.At(8, 0) != .9 {
		t.Fatal("carve mutated its input grid")
	}
}

func TestNetworkFlatTerrainUnmodified(t *testing.T) {
	n := 10
	z := make([]float64, n*n)
	for i := range z {
		z[i] = .4
	}
	g, err := grid.NewFrom(n, z)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Network(g, 4, 8, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out.Values() {
		if v != .4 {
			t.Fatalf("flat terrain modified at cell %d: %f", i, v)
		}
	}
}

func TestNetworkCarvesAndReportsProgress(t *testing.T) {
	g := vValley(t)
	var steps []int
	out, err := Network(g, 2, 8, func(step, total int) { steps = append(steps, step) })
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) == 0 {
		t.Fatal("no progress reported")
	}
	sum := func(gr *grid.Grid) (s float64) {
		for _, v := range gr.Values() {
			s += v
		}
		return
	}
	if sum(out) >= sum(g) {
		t.Fatal("network carving did not lower total elevation")
	}
}

func TestNetworkRejectsBadParams(t *testing.T) {
	g := vValley(t)
	if _, err := Network(g, -1, 8, nil); err == nil {
		t.Fatal("expected error for negative river count")
	}
	if _, err := Network(g, 1, 0, nil); err == nil {
		t.Fatal("expected error for zero threshold")
	}
}
