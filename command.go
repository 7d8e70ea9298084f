package relief

import (
	"fmt"

	"github.com/terrafield/relief/grid"
)

// OpKind tags a generate call for the undo log.
type OpKind int

// Operation kinds.
const (
	OpRivers OpKind = iota
	OpLakes
	OpCoast
	OpAll
)

func (k OpKind) String() string {
	switch k {
	case OpRivers:
		return "rivers"
	case OpLakes:
		return "lakes"
	case OpCoast:
		return "coast"
	case OpAll:
		return "synthesize"
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Command is one generate call as the undo log sees it: the operation tag,
// its parameters, and whole-grid before/after snapshots. Execute and Undo
// are pure state transitions; nothing here diffs incrementally.
type Command struct {
	Kind OpKind
	Par  Params

	prev, next *grid.Grid
}

// NewCommand tags an operation with its parameters.
func NewCommand(kind OpKind, par Params) *Command {
	return &Command{Kind: kind, Par: par}
}

// Execute captures g, computes the new grid, and returns it. Re-executing
// after an Undo replays from the captured snapshot without recomputing.
func (c *Command) Execute(g *grid.Grid, progress Progress) (*grid.Grid, error) {
	if c.next != nil {
		return c.next, nil
	}
	var (
		out *grid.Grid
		err error
	)
	switch c.Kind {
	case OpRivers:
		out, err = GenerateRivers(g, c.Par, progress)
	case OpLakes:
		out, err = GenerateLakes(g, c.Par, progress)
	case OpCoast:
		out, err = GenerateCoast(g, c.Par, progress)
	case OpAll:
		out, err = Synthesize(g, c.Par, progress)
	default:
		return nil, fmt.Errorf("relief: unknown operation kind %d", int(c.Kind))
	}
	if err != nil {
		return nil, err
	}
	c.prev, c.next = g, out
	return out, nil
}

// Undo returns the grid Execute captured.
func (c *Command) Undo() (*grid.Grid, error) {
	if c.prev == nil {
		return nil, fmt.Errorf("relief: undo of %s before execute", c.Kind)
	}
	return c.prev, nil
}
