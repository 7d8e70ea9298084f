package flow

import (
	"fmt"
	"math"
	"sort"

	"github.com/terrafield/relief/grid"
)

// Dir indexes the 8-way neighbor offset table below. Sink marks a cell with
// no strictly downhill neighbor.
type Dir int8

// Sink direction code.
const Sink Dir = -1

// Offsets lists (dy,dx) neighbor offsets clockwise from east. Odd entries
// are the diagonals.
var Offsets = [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}

// Dists holds the cell-unit distance to each neighbor.
var Dists = [8]float64{1., math.Sqrt2, 1., math.Sqrt2, 1., math.Sqrt2, 1., math.Sqrt2}

// Directions computes the steepest-descent direction for every cell. A
// neighbor is a candidate only if it lies strictly downhill; flat cells and
// pit bottoms come back as Sink. Pure per-cell work, O(n2).
func Directions(g *grid.Grid) []Dir {
	n := g.Size()
	dirs := make([]Dir, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			z := g.At(y, x)
			best, bestslope := Sink, 0.
			for d, off := range Offsets {
				yy, xx := y+off[0], x+off[1]
				if !g.Inside(yy, xx) {
					continue
				}
				s := (z - g.At(yy, xx)) / Dists[d]
				if s > bestslope {
					best, bestslope = Dir(d), s
				}
			}
			dirs[g.Index(y, x)] = best
		}
	}
	return dirs
}

// Accumulate counts, per cell, the number of cells draining through it,
// itself included. Cells are swept in descending elevation order so every
// upstream contributor is final before its count propagates downstream.
// Ties on plateaus break by cell index; the resulting counts there are
// order-dependent but conservative.
func Accumulate(g *grid.Grid, dirs []Dir) ([]int, error) {
	n, nc := g.Size(), g.Ncells()
	if len(dirs) != nc {
		return nil, fmt.Errorf("flow.Accumulate: direction grid has %d cells, elevation grid %d", len(dirs), nc)
	}

	order := make([]int, nc)
	for i := range order {
		order[i] = i
	}
	z := g.Values()
	sort.Slice(order, func(a, b int) bool {
		if z[order[a]] == z[order[b]] {
			return order[a] < order[b]
		}
		return z[order[a]] > z[order[b]]
	})

	acc := make([]int, nc)
	for i := range acc {
		acc[i] = 1
	}
	for _, i := range order {
		d := dirs[i]
		if d == Sink {
			continue
		}
		y, x := i/n, i%n
		yy, xx := y+Offsets[d][0], x+Offsets[d][1]
		if !g.Inside(yy, xx) {
			panic("flow.Accumulate: direction points off grid")
		}
		acc[yy*n+xx] += acc[i]
	}
	return acc, nil
}
