package writer

// Queue capacities between sample delivery and the subprocess. Frames are
// tens of megabytes at high resolution, so the video queue stays small;
// audio chunks are a couple of kilobytes.
const (
	videoQueueCapacity = 4
	audioQueueCapacity = 64

	// inputThreadQueue is ffmpeg's own per-input packet queue.
	inputThreadQueue = "512"

	// stderrTailBytes bounds how much ffmpeg stderr is kept for reports.
	stderrTailBytes = 400
)
