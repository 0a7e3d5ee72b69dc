package session

import (
	"testing"

	"github.com/screenrec/screenrec/internal/geometry"
)

func TestVideoBitRate(t *testing.T) {
	tests := []struct {
		name    string
		quality Quality
		size    geometry.PixelSize
		fps     int
		want    int
	}{
		{"medium at reference", QualityMedium, geometry.PixelSize{W: 1920, H: 1080}, 30, 5_000_000},
		{"quarter area scales down", QualityMedium, geometry.PixelSize{W: 960, H: 540}, 30, 1_250_000},
		{"doubled fps scales up", QualityMedium, geometry.PixelSize{W: 960, H: 540}, 60, 2_500_000},
		{"low at half fps", QualityLow, geometry.PixelSize{W: 1920, H: 1080}, 15, 1_000_000},
		{"ultra at 4k", QualityUltra, geometry.PixelSize{W: 3840, H: 2160}, 30, 80_000_000},
		{"high at reference", QualityHigh, geometry.PixelSize{W: 1920, H: 1080}, 30, 10_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := videoBitRate(tt.quality, tt.size, tt.fps); got != tt.want {
				t.Errorf("videoBitRate(%v, %v, %d) = %d, want %d",
					tt.quality, tt.size, tt.fps, got, tt.want)
			}
		})
	}
}

func TestPickCodec(t *testing.T) {
	tests := []struct {
		name    string
		quality Quality
		size    geometry.PixelSize
		want    string
	}{
		{"ultra above reference", QualityUltra, geometry.PixelSize{W: 3840, H: 2160}, CodecHEVC},
		{"ultra just above reference", QualityUltra, geometry.PixelSize{W: 1921, H: 1080}, CodecHEVC},
		{"ultra at reference stays h264", QualityUltra, geometry.PixelSize{W: 1920, H: 1080}, CodecH264},
		{"high above reference stays h264", QualityHigh, geometry.PixelSize{W: 3840, H: 2160}, CodecH264},
		{"medium small", QualityMedium, geometry.PixelSize{W: 800, H: 600}, CodecH264},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickCodec(tt.quality, tt.size); got != tt.want {
				t.Errorf("pickCodec(%v, %v) = %q, want %q", tt.quality, tt.size, got, tt.want)
			}
		})
	}
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		raw     string
		want    Quality
		wantErr bool
	}{
		{"low", QualityLow, false},
		{"Medium", QualityMedium, false},
		{" ULTRA ", QualityUltra, false},
		{"best", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseQuality(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseQuality(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseQuality(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestAudioParameters(t *testing.T) {
	tests := []struct {
		quality    AudioQuality
		wantRate   int
		wantBitRat int
	}{
		{AudioLow, 22050, 64_000},
		{AudioMedium, 44100, 128_000},
		{AudioHigh, 48000, 192_000},
	}

	for _, tt := range tests {
		rate, bitRate := tt.quality.parameters()
		if rate != tt.wantRate || bitRate != tt.wantBitRat {
			t.Errorf("%v parameters() = (%d, %d), want (%d, %d)",
				tt.quality, rate, bitRate, tt.wantRate, tt.wantBitRat)
		}
	}
}

func TestContainerForPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Container
		wantErr bool
	}{
		{"out.mp4", ContainerMP4, false},
		{"clip.MOV", ContainerMOV, false},
		{"dir/session.mkv", ContainerMKV, false},
		{"movie.avi", "", true},
		{"noextension", "", true},
	}

	for _, tt := range tests {
		got, err := containerForPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("containerForPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("containerForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
