package coast

import "math"

const (
	// BeachMaxSlope is the steepest face (radians) a beach will form on.
	BeachMaxSlope = 5. * math.Pi / 180.

	// CliffMinSlope is the gentlest face (radians) that sharpens into a cliff.
	CliffMinSlope = 45. * math.Pi / 180.

	// beachFlatten keeps 30% of the height above water when a beach is laid
	// down, a 70% slope reduction at full intensity.
	beachFlatten = .3

	// maxCoastDist bounds the radial search estimating distance to shore.
	maxCoastDist = 32

	// heightScale is the physical relief (m) spanned by the normalized
	// elevation domain [0,1] when converting slope to an angle.
	heightScale = 1000.
)
