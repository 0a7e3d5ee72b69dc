package capture

import "time"

// Capture tuning constants.
const (
	// audioFramesPerBuffer is the portaudio read size, ~23ms at 44100Hz.
	audioFramesPerBuffer = 1024

	// maxConsecutiveGrabFailures ends the stream as fatally broken.
	// Transient failures (display sleep blips) recover below this.
	maxConsecutiveGrabFailures = 10

	// motionSampleInterval spaces perceptual-hash samples; hashing every
	// frame would cost more than encoding it.
	motionSampleInterval = time.Second

	// staticHashDistance is the Hamming distance at or below which two
	// sampled frames count as the same still screen.
	staticHashDistance = 2
)
