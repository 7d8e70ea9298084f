// Package accel makes the synthesizers tractable on multi-million cell
// grids: it reduces the grid, runs the synthesizer there, and composes the
// synthesizer's net effect (not its absolute output) back onto the original
// full-resolution terrain, so fine surface detail outside the feature
// footprint survives untouched.
package accel

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/terrafield/relief/grid"
)

// DefaultTarget is the reduced edge length synthesizers run at.
const DefaultTarget = 1024

// Synthesizer is any grid-to-grid transform worth accelerating.
type Synthesizer func(*grid.Grid) (*grid.Grid, error)

// Event reports one accelerated pass: the resolutions involved, the scale
// factor, and the range of the composed delta. The injectable sink replaces
// ad hoc debug printing so tests can assert on it directly.
type Event struct {
	FullSize, ReducedSize int
	Scale                 float64
	DeltaMin, DeltaMax    float64
}

// Sink receives one Event per accelerated call. May be nil.
type Sink func(Event)

// Accelerator wraps synthesizers with reduce/run/recompose.
type Accelerator struct {
	Target int
	Sink   Sink
}

// New returns an accelerator reducing grids to target cells per edge;
// target < 1 selects DefaultTarget.
func New(target int) *Accelerator {
	if target < 1 {
		target = DefaultTarget
	}
	return &Accelerator{Target: target}
}

// Run applies s to g through the reduction. Grids already at or below the
// target size run s directly and identically (scale 1, delta composition is
// the identity).
func (a *Accelerator) Run(g *grid.Grid, s Synthesizer) (*grid.Grid, error) {
	if a.Target < 1 {
		a.Target = DefaultTarget
	}
	n := g.Size()
	if n <= a.Target {
		out, err := s(g)
		if err != nil {
			return nil, err
		}
		a.emit(Event{FullSize: n, ReducedSize: n, Scale: 1.})
		return out, nil
	}

	before := Downsample(g, a.Target)
	after, err := s(before)
	if err != nil {
		return nil, err
	}
	if after.Size() != a.Target {
		return nil, fmt.Errorf("accel.Run: synthesizer changed grid size %d to %d", a.Target, after.Size())
	}

	delta := make([]float64, a.Target*a.Target)
	bz, az := before.Values(), after.Values()
	for i := range delta {
		delta[i] = az[i] - bz[i]
	}

	// compose the upsampled delta onto the ORIGINAL grid; upsampling the
	// absolute reduced heights instead would flatten every cell of the map
	up := upsample(delta, a.Target, n)
	out := g.Copy()
	oz := out.Values()
	for i := range oz {
		oz[i] += up[i]
	}
	out.Clamp()

	a.emit(Event{
		FullSize:    n,
		ReducedSize: a.Target,
		Scale:       float64(n) / float64(a.Target),
		DeltaMin:    floats.Min(delta),
		DeltaMax:    floats.Max(delta),
	})
	return out, nil
}

// Wrap curries Run into a plain Synthesizer.
func (a *Accelerator) Wrap(s Synthesizer) Synthesizer {
	return func(g *grid.Grid) (*grid.Grid, error) { return a.Run(g, s) }
}

func (a *Accelerator) emit(e Event) {
	if a.Sink != nil {
		a.Sink(e)
	}
}
