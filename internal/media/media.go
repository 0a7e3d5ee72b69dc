// Package media defines the sample types flowing from capture to writer.
package media

import "time"

// Kind distinguishes the two media modalities.
type Kind int

const (
	Video Kind = iota
	Audio
)

// String returns the lowercase kind name used in logs.
func (k Kind) String() string {
	if k == Audio {
		return "audio"
	}
	return "video"
}

// Sample is one captured buffer with its capture instant. Video samples are
// raw RGBA frames; audio samples are little-endian signed 16-bit PCM.
type Sample struct {
	Kind Kind
	Data []byte
	Time time.Time
}
