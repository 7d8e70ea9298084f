package relief

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/terrafield/relief/grid"
)

type snapshot struct {
	N int
	Z []float64
}

// SaveGob writes a grid snapshot to fp.
func SaveGob(fp string, g *grid.Grid) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf("relief.SaveGob: %v", err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(snapshot{N: g.Size(), Z: g.Values()}); err != nil {
		return fmt.Errorf("relief.SaveGob: %v", err)
	}
	return nil
}

// LoadGob reads a grid snapshot from fp.
func LoadGob(fp string) (*grid.Grid, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("relief.LoadGob: %v", err)
	}
	defer f.Close()
	var s snapshot
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return nil, fmt.Errorf("relief.LoadGob: %v", err)
	}
	return grid.NewFrom(s.N, s.Z)
}

// SaveRaw writes the grid as little-endian float32s, row-major, the flat
// binary layout GIS-style viewers ingest directly.
func SaveRaw(fp string, g *grid.Grid) error {
	f32 := func() []float32 {
		z := g.Values()
		o := make([]float32, len(z))
		for i, v := range z {
			o[i] = float32(v)
		}
		return o
	}()
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, f32); err != nil {
		return fmt.Errorf("relief.SaveRaw: %v", err)
	}
	if err := os.WriteFile(fp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("relief.SaveRaw: %v", err)
	}
	return nil
}
