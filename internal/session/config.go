package session

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/screenrec/screenrec/internal/errdefs"
	"github.com/screenrec/screenrec/internal/geometry"
)

// Quality selects the video encoding tier.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
	QualityUltra  Quality = "ultra"
)

// ParseQuality validates a raw quality string.
func ParseQuality(raw string) (Quality, error) {
	q := Quality(strings.ToLower(strings.TrimSpace(raw)))
	switch q {
	case QualityLow, QualityMedium, QualityHigh, QualityUltra:
		return q, nil
	}
	return "", errdefs.Newf(errdefs.CodeConfigInvalid,
		"quality %q: must be low, medium, high or ultra", raw)
}

// baseBitRate is the tier's rate at the 1080p/30fps reference point.
func (q Quality) baseBitRate() int {
	switch q {
	case QualityLow:
		return 2_000_000
	case QualityHigh:
		return 10_000_000
	case QualityUltra:
		return 20_000_000
	default:
		return 5_000_000
	}
}

// AudioQuality selects the audio capture and encoding tier.
type AudioQuality string

const (
	AudioLow    AudioQuality = "low"
	AudioMedium AudioQuality = "medium"
	AudioHigh   AudioQuality = "high"
)

// ParseAudioQuality validates a raw audio quality string.
func ParseAudioQuality(raw string) (AudioQuality, error) {
	q := AudioQuality(strings.ToLower(strings.TrimSpace(raw)))
	switch q {
	case AudioLow, AudioMedium, AudioHigh:
		return q, nil
	}
	return "", errdefs.Newf(errdefs.CodeConfigInvalid,
		"audio quality %q: must be low, medium or high", raw)
}

// parameters returns the tier's sample rate in Hz and bit rate in bps.
// Capture is mono.
func (q AudioQuality) parameters() (sampleRate, bitRate int) {
	switch q {
	case AudioLow:
		return 22050, 64_000
	case AudioHigh:
		return 48000, 192_000
	default:
		return 44100, 128_000
	}
}

// Container is the output container format.
type Container string

const (
	ContainerMP4 Container = "mp4"
	ContainerMOV Container = "mov"
	ContainerMKV Container = "mkv"
)

// containerForPath derives the container from the output file extension.
func containerForPath(path string) (Container, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch Container(ext) {
	case ContainerMP4, ContainerMOV, ContainerMKV:
		return Container(ext), nil
	}
	return "", errdefs.Newf(errdefs.CodeConfigInvalid,
		"output %q: extension must be .mp4, .mov or .mkv", path)
}

// Config is the immutable configuration of one recording session. Built
// once by Configure; never mutated afterwards.
type Config struct {
	Target   geometry.Target
	Geometry geometry.Recording

	// Duration 0 records until interrupted.
	Duration   time.Duration
	FPS        int
	Quality    Quality
	ShowCursor bool
	Countdown  int

	AudioEnabled bool
	AudioQuality AudioQuality

	// Encoding parameters derived from quality, geometry and fps.
	VideoCodec      string
	VideoBitRate    int
	AudioSampleRate int
	AudioBitRate    int

	Container  Container
	OutputPath string

	FinalizeTimeout time.Duration
}

// Continuous reports whether the session runs until interrupted.
func (c Config) Continuous() bool { return c.Duration == 0 }
