package basin

const (
	maxRimRadius  = 64      // outer bound on the radial pour-point search
	rimEps        = .001    // a ring must climb by more than this to count
	fallbackDepth = .02     // assumed depth when no rim is found
	minimaCeiling = .95     // local minima at or above this are ignored
	maxFillVisits = 1 << 18 // hard cap on flood-fill growth when sizing a basin
	degStep       = 15      // base ring sampling interval
)
