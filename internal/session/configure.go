// Package session validates recording choices against resolved geometry and
// produces the immutable configuration a capture session runs with.
package session

import (
	"time"

	"github.com/screenrec/screenrec/internal/errdefs"
	"github.com/screenrec/screenrec/internal/geometry"
)

// Request carries the user's raw recording choices into Configure.
type Request struct {
	Duration        time.Duration
	FPS             int
	Quality         string
	AudioEnabled    bool
	AudioQuality    string
	ShowCursor      bool
	Countdown       int
	OutputPath      string
	Overwrite       bool
	FinalizeTimeout time.Duration
}

// Configure validates the request against the resolved geometry and builds
// the session config. Any failure aborts before a capture resource is
// acquired; on success the output destination exists and is conflict-free.
func Configure(req Request, res geometry.Resolution, prompt PromptFunc) (Config, error) {
	size := res.Geometry.PixelSize
	if size.W < 1 || size.H < 1 {
		return Config{}, errdefs.Newf(errdefs.CodeConfigInvalid,
			"capture size %s is empty", size)
	}
	if req.FPS != 15 && req.FPS != 30 && req.FPS != 60 {
		return Config{}, errdefs.Newf(errdefs.CodeConfigInvalid,
			"fps %d: must be 15, 30 or 60", req.FPS)
	}
	if req.Duration != 0 && req.Duration < MinDuration {
		return Config{}, errdefs.Newf(errdefs.CodeConfigInvalid,
			"duration %s: shortest fixed recording is %s (0 records until interrupted)",
			req.Duration, MinDuration)
	}
	if req.Countdown < 0 || req.Countdown > MaxCountdown {
		return Config{}, errdefs.Newf(errdefs.CodeConfigInvalid,
			"countdown %d: must be between 0 and %d seconds", req.Countdown, MaxCountdown)
	}

	quality, err := ParseQuality(req.Quality)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Target:          res.Target,
		Geometry:        res.Geometry,
		Duration:        req.Duration,
		FPS:             req.FPS,
		Quality:         quality,
		ShowCursor:      req.ShowCursor,
		Countdown:       req.Countdown,
		VideoCodec:      pickCodec(quality, size),
		VideoBitRate:    videoBitRate(quality, size, req.FPS),
		FinalizeTimeout: req.FinalizeTimeout,
	}
	if cfg.FinalizeTimeout <= 0 {
		cfg.FinalizeTimeout = DefaultFinalizeTimeout
	}

	if req.AudioEnabled {
		audio, err := ParseAudioQuality(req.AudioQuality)
		if err != nil {
			return Config{}, err
		}
		cfg.AudioEnabled = true
		cfg.AudioQuality = audio
		cfg.AudioSampleRate, cfg.AudioBitRate = audio.parameters()
	}

	path, err := ResolveOutputPath(req.OutputPath, req.Overwrite, prompt)
	if err != nil {
		return Config{}, err
	}
	container, err := containerForPath(path)
	if err != nil {
		return Config{}, err
	}
	cfg.OutputPath = path
	cfg.Container = container

	return cfg, nil
}

// videoBitRate scales the tier's base rate linearly with pixel area and
// frame rate relative to 1080p at 30 fps.
func videoBitRate(q Quality, size geometry.PixelSize, fps int) int {
	areaRatio := float64(size.Area()) / float64(referenceArea)
	fpsRatio := float64(fps) / float64(referenceFPS)
	return int(float64(q.baseBitRate()) * areaRatio * fpsRatio)
}

// pickCodec prefers hevc only when the highest tier meets a resolution
// above the reference area; h264 stays the broadly-compatible default.
func pickCodec(q Quality, size geometry.PixelSize) string {
	if q == QualityUltra && size.Area() > referenceArea {
		return CodecHEVC
	}
	return CodecH264
}
