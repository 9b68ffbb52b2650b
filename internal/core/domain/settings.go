package domain

import (
	"fmt"
	"slices"
)

// Codec is a video codec offered by the settings dialog
type Codec string

const (
	CodecH264 Codec = "h264"
	CodecH265 Codec = "h265"
	CodecVP9  Codec = "vp9"
	CodecAV1  Codec = "av1"
)

// Resolution is an output resolution preset
type Resolution string

const (
	ResolutionOriginal Resolution = "original"
	Resolution2160p    Resolution = "2160p"
	Resolution1440p    Resolution = "1440p"
	Resolution1080p    Resolution = "1080p"
	Resolution720p     Resolution = "720p"
	Resolution480p     Resolution = "480p"
	Resolution360p     Resolution = "360p"
)

// AspectRatio is an output aspect ratio preset
type AspectRatio string

const (
	AspectOriginal AspectRatio = "original"
	Aspect16x9     AspectRatio = "16:9"
	Aspect4x3      AspectRatio = "4:3"
	Aspect1x1      AspectRatio = "1:1"
	Aspect9x16     AspectRatio = "9:16"
	Aspect21x9     AspectRatio = "21:9"
)

var (
	Codecs       = []Codec{CodecH264, CodecH265, CodecVP9, CodecAV1}
	Resolutions  = []Resolution{ResolutionOriginal, Resolution2160p, Resolution1440p, Resolution1080p, Resolution720p, Resolution480p, Resolution360p}
	AspectRatios = []AspectRatio{AspectOriginal, Aspect16x9, Aspect4x3, Aspect1x1, Aspect9x16, Aspect21x9}
	FrameRates   = []int{24, 25, 30, 50, 60}
)

// EncodeSettings are the video encode options
type EncodeSettings struct {
	Codec       Codec       `json:"codec" validate:"required,oneof=h264 h265 vp9 av1"`
	Resolution  Resolution  `json:"resolution" validate:"required,oneof=original 2160p 1440p 1080p 720p 480p 360p"`
	AspectRatio AspectRatio `json:"aspect_ratio" validate:"required,oneof=original 16:9 4:3 1:1 9:16 21:9"`
	FrameRate   int         `json:"frame_rate" validate:"required,oneof=24 25 30 50 60"`
}

// DefaultEncodeSettings is used until the user edits the settings
func DefaultEncodeSettings() EncodeSettings {
	return EncodeSettings{
		Codec:       CodecH264,
		Resolution:  ResolutionOriginal,
		AspectRatio: AspectOriginal,
		FrameRate:   30,
	}
}

// Validate checks every field against its enumeration
func (s EncodeSettings) Validate() error {
	switch {
	case !slices.Contains(Codecs, s.Codec):
		return fmt.Errorf("%w: codec %q", ErrInvalidSettings, s.Codec)
	case !slices.Contains(Resolutions, s.Resolution):
		return fmt.Errorf("%w: resolution %q", ErrInvalidSettings, s.Resolution)
	case !slices.Contains(AspectRatios, s.AspectRatio):
		return fmt.Errorf("%w: aspect ratio %q", ErrInvalidSettings, s.AspectRatio)
	case !slices.Contains(FrameRates, s.FrameRate):
		return fmt.Errorf("%w: frame rate %d", ErrInvalidSettings, s.FrameRate)
	}
	return nil
}

// SettingsKind tags a JobSettings variant
type SettingsKind string

const SettingsKindVideo SettingsKind = "video"

// JobSettings is the closed set of per tool settings sent with a job.
// Only types in this package can implement it.
type JobSettings interface {
	Kind() SettingsKind
	jobSettings()
}

// VideoSettings carries encode settings for video tools
type VideoSettings struct {
	EncodeSettings
}

func (VideoSettings) Kind() SettingsKind { return SettingsKindVideo }

func (VideoSettings) jobSettings() {}
