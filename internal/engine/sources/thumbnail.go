package sources

// ThumbnailPreference is the resolution order, best first.
var ThumbnailPreference = []string{"maxres", "standard", "high", "medium", "default"}

// PlaceholderThumbnail is served by the platform for every public video id.
func PlaceholderThumbnail(videoID string) string {
	return "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg"
}

// PickThumbnail walks ThumbnailPreference and returns the first variant with a URL.
// When every variant is absent it falls back to PlaceholderThumbnail.
func PickThumbnail(videoID string, thumbs map[string]Thumbnail) string {
	for _, name := range ThumbnailPreference {
		if t, ok := thumbs[name]; ok && t.URL != "" {
			return t.URL
		}
	}
	return PlaceholderThumbnail(videoID)
}
