// Package relief synthesizes hydrological and coastal features on square
// normalized elevation grids: river networks from steepest-descent flow
// routing, lakes from detected depressions, and beach/cliff sculpting of
// the land-water interface, with a resolution accelerator that keeps the
// algorithms tractable at multi-million cell sizes.
package relief

import (
	"fmt"

	"github.com/terrafield/relief/accel"
	"github.com/terrafield/relief/coast"
	"github.com/terrafield/relief/grid"
	"github.com/terrafield/relief/lake"
	"github.com/terrafield/relief/river"
)

// Progress reports coarse milestones of a long-running generate call.
// A nil Progress never changes results.
type Progress func(stage string, step, total int)

// Params collects every knob of the three synthesizers plus the shared
// scalars (water level, physical extent) and the accelerator target.
type Params struct {
	WaterLevel float64 // sea level within [0,1]
	Extent     float64 // physical map width, m

	Rivers         int
	RiverThreshold int // accumulation needed before a cell can source a river

	Lakes        int
	LakeMinDepth float64
	LakeMinSize  int

	Beaches        bool
	BeachIntensity float64
	BeachWidth     int
	Cliffs         bool
	CliffIntensity float64
	CliffMinHeight float64

	Target int        // accelerator edge length; 0 runs full resolution
	Sink   accel.Sink // optional accelerator diagnostics
}

// DefaultParams mirrors the stock settings of the editing toolkit.
func DefaultParams() Params {
	return Params{
		WaterLevel:     .3,
		Extent:         14336.,
		Rivers:         5,
		RiverThreshold: 50,
		Lakes:          3,
		LakeMinDepth:   .05,
		LakeMinSize:    10,
		Beaches:        true,
		BeachIntensity: .7,
		BeachWidth:     5,
		Cliffs:         true,
		CliffIntensity: .7,
		CliffMinHeight: .05,
		Target:         accel.DefaultTarget,
	}
}

func (p Params) check() error {
	if p.WaterLevel < 0. || p.WaterLevel > 1. {
		return fmt.Errorf("relief: water level %f outside [0,1]", p.WaterLevel)
	}
	if p.Extent <= 0. {
		return fmt.Errorf("relief: extent must be positive, got %f", p.Extent)
	}
	return nil
}

// run pushes a synthesizer through the accelerator when a target is set.
func (p Params) run(g *grid.Grid, s accel.Synthesizer) (*grid.Grid, error) {
	if p.Target <= 0 {
		return s(g)
	}
	a := accel.New(p.Target)
	a.Sink = p.Sink
	return a.Run(g, s)
}

// GenerateRivers carves the river network of p onto a copy of g.
func GenerateRivers(g *grid.Grid, p Params, progress Progress) (*grid.Grid, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	return p.run(g, func(g *grid.Grid) (*grid.Grid, error) {
		return river.Network(g, p.Rivers, p.RiverThreshold, stepper(progress, "rivers"))
	})
}

// GenerateLakes fills the deepest detected depressions of p onto a copy of g.
func GenerateLakes(g *grid.Grid, p Params, progress Progress) (*grid.Grid, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	return p.run(g, func(g *grid.Grid) (*grid.Grid, error) {
		out, _, err := lake.Generate(g, p.Lakes, p.LakeMinDepth, p.LakeMinSize, stepper(progress, "lakes"))
		return out, err
	})
}

// GenerateCoast sculpts beaches and cliffs of p onto a copy of g.
func GenerateCoast(g *grid.Grid, p Params, progress Progress) (*grid.Grid, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	return p.run(g, func(g *grid.Grid) (*grid.Grid, error) {
		return coast.Generate(g, p.Extent, p.WaterLevel, p.Beaches, p.Cliffs,
			p.BeachIntensity, p.BeachWidth, p.CliffIntensity, p.CliffMinHeight,
			stepper(progress, "coast"))
	})
}

// Synthesize runs rivers, lakes, then coastal sculpting on one working
// copy, the composition the editing front end drives.
func Synthesize(g *grid.Grid, p Params, progress Progress) (*grid.Grid, error) {
	w, err := GenerateRivers(g, p, progress)
	if err != nil {
		return nil, err
	}
	if w, err = GenerateLakes(w, p, progress); err != nil {
		return nil, err
	}
	return GenerateCoast(w, p, progress)
}

func stepper(p Progress, stage string) func(step, total int) {
	if p == nil {
		return nil
	}
	return func(step, total int) { p(stage, step, total) }
}
