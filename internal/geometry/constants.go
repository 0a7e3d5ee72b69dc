package geometry

// Validation thresholds for resolved capture areas.
const (
	// MinComfortableDim flags capture areas likely too small to be useful.
	MinComfortableDim = 100

	// MaxScreenShare flags custom areas that nearly cover the whole screen.
	MaxScreenShare = 0.8
)
