package extract

import (
	"sort"
)

// Audio quality tiers reported by the platform for each stream.
const (
	AudioQualityHigh     = "AUDIO_QUALITY_HIGH"
	AudioQualityMedium   = "AUDIO_QUALITY_MEDIUM"
	AudioQualityLow      = "AUDIO_QUALITY_LOW"
	AudioQualityUltraLow = "AUDIO_QUALITY_ULTRALOW"
)

var audioQualityRank = map[string]int{
	AudioQualityHigh:     4,
	AudioQualityMedium:   3,
	AudioQualityLow:      2,
	AudioQualityUltraLow: 1,
}

// StreamVariant is one encoding of a video's media streams.
type StreamVariant struct {
	Itag            int
	MimeType        string
	AudioQuality    string
	Bitrate         int // bits per second
	AudioSampleRate int
	AudioChannels   int
	HasAudio        bool
	HasVideo        bool
	URL             string
}

// AudioOnly reports whether the variant carries audio and no video.
func (v StreamVariant) AudioOnly() bool {
	return v.HasAudio && !v.HasVideo
}

// Metadata is what a MetadataSource knows about one video.
type Metadata struct {
	VideoID  string
	Title    string
	Variants []StreamVariant

	// backend-specific handle used to resolve stream URLs
	handle any
}

// SelectHighestAudio picks the best audio-only variant: highest quality tier first,
// then bitrate, then sample rate. Ties keep the source order.
func SelectHighestAudio(variants []StreamVariant) (StreamVariant, bool) {
	candidates := make([]StreamVariant, 0, len(variants))
	for _, v := range variants {
		if v.AudioOnly() {
			candidates = append(candidates, v)
		}
	}
	if len(candidates) == 0 {
		return StreamVariant{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if ra, rb := audioQualityRank[a.AudioQuality], audioQualityRank[b.AudioQuality]; ra != rb {
			return ra > rb
		}
		if a.Bitrate != b.Bitrate {
			return a.Bitrate > b.Bitrate
		}
		return a.AudioSampleRate > b.AudioSampleRate
	})

	return candidates[0], true
}
