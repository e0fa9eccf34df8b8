package config

// QualityProfile describes how audio is extracted from a downloaded video.
type QualityProfile struct {
	// Key is the menu key users select the profile with.
	Key string `json:"key"`

	// Name is the short label.
	Name string `json:"name"`

	// Description explains the trade-off.
	Description string `json:"description"`

	// Codec is the target audio codec; empty keeps the source audio.
	Codec string `json:"codec,omitempty"`

	// Bitrate is the target bitrate in kbps, empty when not converting.
	Bitrate string `json:"bitrate,omitempty"`

	// Convert is true when audio is transcoded to Codec.
	Convert bool `json:"convert"`
}

// DefaultQuality is the profile used when none is configured.
const DefaultQuality = "1"

// QualityProfiles lists the available quality profiles by key.
var QualityProfiles = map[string]QualityProfile{
	"1": {
		Key:         "1",
		Name:        "Best MP3 (up to 320kbps)",
		Description: "Maximum MP3 quality. Universal compatibility.",
		Codec:       "mp3",
		Bitrate:     "320",
		Convert:     true,
	},
	"2": {
		Key:         "2",
		Name:        "Standard MP3 (192kbps)",
		Description: "Smaller file size, good enough for most uses.",
		Codec:       "mp3",
		Bitrate:     "192",
		Convert:     true,
	},
	"3": {
		Key:         "3",
		Name:        "Original Audio (M4A/WebM)",
		Description: "Best audio quality (Source). No conversion time.",
		Convert:     false,
	},
}

// QualityKeys returns the profile keys in menu order.
func QualityKeys() []string {
	return []string{"1", "2", "3"}
}
