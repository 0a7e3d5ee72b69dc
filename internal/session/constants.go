package session

import "time"

const (
	// MinDuration is the shortest accepted fixed recording length.
	MinDuration = 100 * time.Millisecond

	// MaxCountdown bounds the pre-capture countdown in seconds.
	MaxCountdown = 60

	// DefaultFinalizeTimeout bounds how long a session waits for the
	// container writer to flush and close after stopping.
	DefaultFinalizeTimeout = 10 * time.Second

	// maxSuffixAttempts bounds the search for a conflict-free output name.
	maxSuffixAttempts = 1000
)

// Bit rate reference point: a medium recording of a 1080p screen at 30 fps
// gets exactly the base rate of its quality tier.
const (
	referenceArea = 1920 * 1080
	referenceFPS  = 30
)

// Video codec names as handed to the container writer.
const (
	CodecH264 = "h264"
	CodecHEVC = "hevc"
)
