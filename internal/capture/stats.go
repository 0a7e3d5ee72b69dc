package capture

import (
	"image"
	"sync"
	"time"

	"github.com/corona10/goimagehash"
)

// motionSampler estimates how static a recording is by comparing
// perceptual hashes of frames sampled at a fixed interval.
type motionSampler struct {
	mu     sync.Mutex
	last   *goimagehash.ImageHash
	lastAt time.Time
	pairs  int
	static int
}

// observe feeds one captured frame. Frames arriving inside the sampling
// interval are ignored.
func (m *motionSampler) observe(img image.Image, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.lastAt.IsZero() && at.Sub(m.lastAt) < motionSampleInterval {
		return
	}

	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return
	}
	if m.last != nil {
		if dist, err := m.last.Distance(hash); err == nil {
			m.pairs++
			if dist <= staticHashDistance {
				m.static++
			}
		}
	}
	m.last = hash
	m.lastAt = at
}

// StaticRatio returns the share of sampled frame pairs that were
// perceptually identical, 0 before two frames were sampled.
func (m *motionSampler) StaticRatio() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pairs == 0 {
		return 0
	}
	return float64(m.static) / float64(m.pairs)
}
