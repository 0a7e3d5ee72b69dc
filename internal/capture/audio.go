package capture

import (
	"encoding/binary"
	"log/slog"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/screenrec/screenrec/internal/errdefs"
)

// loopbackDevices route system output back as input; they make poor
// microphones and stay silent when nothing plays.
var loopbackDevices = []string{"blackhole", "vb-cable", "loopback", "monitor", "soundflower"}

// preferredDevices rank built-in microphones above external or virtual ones.
var preferredDevices = []string{"macbook", "built-in"}

// audioSource reads mono int16 PCM from the preferred input device.
type audioSource struct {
	stream    *portaudio.Stream
	buf       []int16
	closeOnce sync.Once
	closeErr  error
}

// openAudioSource initializes portaudio and starts a mono input stream on
// the best available device. Failure here fails the whole session start:
// silently recording without the requested audio is worse than refusing.
func openAudioSource(sampleRate int, excluded []string) (*audioSource, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, errdefs.Wrap(err, errdefs.CodeCaptureStart, "audio subsystem unavailable").
			WithHint("record without --audio, or install portaudio")
	}

	devices, err := portaudio.Devices()
	if err != nil {
		_ = portaudio.Terminate()
		return nil, errdefs.Wrap(err, errdefs.CodeCaptureStart, "audio device enumeration failed")
	}

	dev := pickInputDevice(devices, excluded)
	if dev == nil {
		_ = portaudio.Terminate()
		return nil, errdefs.New(errdefs.CodeCaptureStart, "no usable audio input device").
			WithHint("connect a microphone, or record without --audio")
	}

	buf := make([]int16, audioFramesPerBuffer)
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: 1,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: audioFramesPerBuffer,
	}
	stream, err := portaudio.OpenStream(params, buf)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, errdefs.Wrapf(err, errdefs.CodeCaptureStart,
			"cannot open audio device %q", dev.Name).
			WithHint("check microphone permission, or record without --audio")
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, errdefs.Wrapf(err, errdefs.CodeCaptureStart,
			"cannot start audio device %q", dev.Name)
	}

	slog.Info("started audio capture", "device", dev.Name, "sampleRate", sampleRate)
	return &audioSource{stream: stream, buf: buf}, nil
}

// read blocks until buf holds the next chunk.
func (a *audioSource) read() error { return a.stream.Read() }

// close stops the stream, which also unblocks a pending read. Idempotent.
func (a *audioSource) close() error {
	a.closeOnce.Do(func() {
		if err := a.stream.Stop(); err != nil {
			a.closeErr = err
		}
		if err := a.stream.Close(); err != nil && a.closeErr == nil {
			a.closeErr = err
		}
		_ = portaudio.Terminate()
	})
	return a.closeErr
}

// ProbeAudio checks that the audio subsystem is usable and returns the
// name of the device a recording would capture from. Holds no resources
// on return.
func ProbeAudio(excluded []string) (string, error) {
	if err := portaudio.Initialize(); err != nil {
		return "", errdefs.Wrap(err, errdefs.CodeCaptureStart, "audio subsystem unavailable")
	}
	defer func() { _ = portaudio.Terminate() }()

	devices, err := portaudio.Devices()
	if err != nil {
		return "", errdefs.Wrap(err, errdefs.CodeCaptureStart, "audio device enumeration failed")
	}
	dev := pickInputDevice(devices, excluded)
	if dev == nil {
		return "", errdefs.New(errdefs.CodeCaptureStart, "no usable audio input device")
	}
	return dev.Name, nil
}

// pickInputDevice chooses the capture device: excluded and loopback
// devices are skipped, built-in microphones win over the rest.
func pickInputDevice(devices []*portaudio.DeviceInfo, excluded []string) *portaudio.DeviceInfo {
	var best *portaudio.DeviceInfo
	for _, dev := range devices {
		if dev.MaxInputChannels < 1 {
			continue
		}
		if matchesAny(dev.Name, excluded) || matchesAny(dev.Name, loopbackDevices) {
			continue
		}
		if best == nil || preferDevice(dev.Name, best.Name) {
			best = dev
		}
	}
	return best
}

func preferDevice(name, current string) bool {
	for _, p := range preferredDevices {
		if matchesAny(name, []string{p}) && !matchesAny(current, []string{p}) {
			return true
		}
	}
	return false
}

func matchesAny(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// int16ToBytes converts PCM samples to little-endian s16le.
func int16ToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}
