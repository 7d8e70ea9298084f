package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/aquilax/go-perlin"
	"github.com/gosuri/uiprogress"
	"github.com/maseology/mmio"

	"github.com/terrafield/relief"
	"github.com/terrafield/relief/accel"
	"github.com/terrafield/relief/grid"
)

func main() {
	var (
		n      = flag.Int("n", 2048, "grid edge length")
		seed   = flag.Int64("seed", 1, "terrain seed")
		target = flag.Int("target", accel.DefaultTarget, "accelerator edge length, 0 disables")
		water  = flag.Float64("water", .3, "water level")
		rivers = flag.Int("rivers", 5, "rivers to carve")
		lakes  = flag.Int("lakes", 3, "lakes to fill")
		outdir = flag.String("o", "out", "output directory")
	)
	flag.Parse()

	tt := mmio.NewTimer()
	mmio.MakeDir(*outdir)

	nc := int64(*n) * int64(*n)
	fmt.Printf(" base terrain: %d x %d (%s cells)\n", *n, *n, mmio.Thousands(nc))
	g, err := baseTerrain(*n, *seed)
	if err != nil {
		log.Fatalf("terrain build error: %v", err)
	}
	tt.Lap("base terrain built")

	par := relief.DefaultParams()
	par.WaterLevel = *water
	par.Rivers = *rivers
	par.Lakes = *lakes
	par.Target = *target
	par.Sink = func(e accel.Event) {
		fmt.Printf("  accel: %d -> %d (scale %.2f), delta [%.4f, %.4f]\n",
			e.FullSize, e.ReducedSize, e.Scale, e.DeltaMin, e.DeltaMax)
	}

	uiprogress.Start()
	bars := map[string]*uiprogress.Bar{}
	progress := func(stage string, step, total int) {
		b, ok := bars[stage]
		if !ok {
			s := stage
			b = uiprogress.AddBar(total).AppendCompleted().PrependElapsed()
			b.PrependFunc(func(*uiprogress.Bar) string { return s })
			bars[stage] = b
		}
		b.Set(step)
	}

	out, err := relief.Synthesize(g, par, progress)
	uiprogress.Stop()
	if err != nil {
		log.Fatalf("synthesis error: %v", err)
	}
	tt.Lap("synthesis complete")

	if err := relief.SaveRaw(*outdir+"/relief.f32", out); err != nil {
		log.Fatalln(err)
	}
	if err := writePNG(*outdir+"/relief.png", out); err != nil {
		log.Fatalln(err)
	}
	tt.Print("outputs written to " + *outdir)
}

// baseTerrain mixes a low-frequency Perlin field with a higher-frequency
// detail field and normalizes to [0,1].
func baseTerrain(n int, seed int64) (*grid.Grid, error) {
	lo := perlin.NewPerlin(2., 2., 4, seed)
	hi := perlin.NewPerlin(2., 2., 4, seed+1)
	z := make([]float64, n*n)
	zmin, zmax := 1e8, -1e8
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			fx, fy := float64(x)/float64(n), float64(y)/float64(n)
			v := lo.Noise2D(fx*3., fy*3.) + .25*hi.Noise2D(fx*12., fy*12.)
			z[y*n+x] = v
			if v < zmin {
				zmin = v
			}
			if v > zmax {
				zmax = v
			}
		}
	}
	for i, v := range z {
		z[i] = (v - zmin) / (zmax - zmin)
	}
	return grid.NewFrom(n, z)
}

func writePNG(fp string, g *grid.Grid) error {
	n := g.Size()
	img := image.NewGray16(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			v := uint16(g.At(y, x) * 65535.)
			i := img.PixOffset(x, y)
			img.Pix[i] = uint8(v >> 8)
			img.Pix[i+1] = uint8(v)
		}
	}
	f, err := os.Create(fp)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
