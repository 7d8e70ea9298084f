package relief

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/terrafield/relief/accel"
	"github.com/terrafield/relief/grid"
)

// testTerrain slopes toward a central depression so every synthesizer has
// something to act on.
func testTerrain(t *testing.T, n int) *grid.Grid {
	t.Helper()
	z := make([]float64, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			d := math.Hypot(float64(y-n/2), float64(x-n/2)) / float64(n/2)
			if d > 1. {
				d = 1.
			}
			v := .15 + .6*d*d + .05*math.Sin(float64(x)*1.3)*math.Cos(float64(y)*1.1)
			z[y*n+x] = math.Min(1., math.Max(0., v))
		}
	}
	g, err := grid.NewFrom(n, z)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func testParams() Params {
	p := DefaultParams()
	p.Target = 0 // run test grids at full resolution
	p.RiverThreshold = 10
	return p
}

func TestCommandExecuteUndo(t *testing.T) {
	g := testTerrain(t, 32)
	orig := g.Copy()

	c := NewCommand(OpLakes, testParams())
	out, err := c.Execute(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out == g {
		t.Fatal("execute returned the input grid, not a new one")
	}

	back, err := c.Undo()
	if err != nil {
		t.Fatal(err)
	}
	for i := range back.Values() {
		if back.Values()[i] != orig.Values()[i] {
			t.Fatalf("undo did not restore cell %d", i)
		}
	}

	// re-execute replays the captured result
	again, err := c.Execute(g, nil)
	if err != nil {
		t.Fatal(err)
	}
	if again != out {
		t.Fatal("re-execute recomputed instead of replaying the snapshot")
	}
}

func TestUndoBeforeExecuteFails(t *testing.T) {
	c := NewCommand(OpRivers, testParams())
	if _, err := c.Undo(); err == nil {
		t.Fatal("expected error undoing an unexecuted command")
	}
}

func TestSynthesizePipeline(t *testing.T) {
	g := testTerrain(t, 32)
	stages := map[string]bool{}
	out, err := Synthesize(g, testParams(), func(stage string, step, total int) {
		stages[stage] = true
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.Size() != g.Size() {
		t.Fatalf("output size %d, want %d", out.Size(), g.Size())
	}
	for i, v := range out.Values() {
		if v < 0. || v > 1. {
			t.Fatalf("cell %d left the domain: %f", i, v)
		}
	}
	if !stages["coast"] {
		t.Fatalf("coast stage never reported; got %v", stages)
	}
}

func TestSynthesizeAccelerated(t *testing.T) {
	g := testTerrain(t, 64)
	p := testParams()
	p.Target = 32
	var nevents int
	p.Sink = func(accel.Event) { nevents++ }
	out, err := Synthesize(g, p, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Size() != 64 {
		t.Fatalf("accelerated output size %d, want 64", out.Size())
	}
	if nevents != 3 {
		t.Fatalf("accelerator emitted %d events, want one per stage", nevents)
	}
}

func TestParamsValidation(t *testing.T) {
	g := testTerrain(t, 16)
	p := testParams()
	p.WaterLevel = 1.5
	if _, err := GenerateRivers(g, p, nil); err == nil {
		t.Fatal("expected error for water level above 1")
	}
	p = testParams()
	p.Extent = -1.
	if _, err := GenerateCoast(g, p, nil); err == nil {
		t.Fatal("expected error for negative extent")
	}
}

func TestGobRoundTrip(t *testing.T) {
	g := testTerrain(t, 16)
	fp := filepath.Join(t.TempDir(), "snap.gob")
	if err := SaveGob(fp, g); err != nil {
		t.Fatal(err)
	}
	r, err := LoadGob(fp)
	if err != nil {
		t.Fatal(err)
	}
	if r.Size() != g.Size() {
		t.Fatalf("restored size %d, want %d", r.Size(), g.Size())
	}
	for i := range r.Values() {
		if r.Values()[i] != g.Values()[i] {
			t.Fatalf("cell %d changed through the gob round trip", i)
		}
	}
	if _, err := LoadGob(filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Fatal("expected error loading a missing snapshot")
	}
}
