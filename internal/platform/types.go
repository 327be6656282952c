package platform

// Room is a live session container owned by the video platform.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Asset is a file the platform produced for a recording: the composite
// video, a transcript, a summary. Which is which is only knowable from
// Type/Path heuristics.
type Asset struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Path string `json:"path"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// Recording mirrors the platform's recording object. Status strings are
// passed through untranslated; URL may point at an HTML preview page rather
// than the media file.
type Recording struct {
	ID       string  `json:"id"`
	RoomID   string  `json:"room_id"`
	Status   string  `json:"status"`
	URL      string  `json:"url"`
	AssetID  string  `json:"asset_id"`
	Duration float64 `json:"duration"`
	Size     int64   `json:"size"`
	Assets   []Asset `json:"assets"`
}

// FreshAssetID returns the asset id the platform currently considers primary.
// The platform may reassign asset ids after a recording finalizes, so this
// is always preferred over a previously stored one.
func (r *Recording) FreshAssetID() string {
	if r.AssetID != "" {
		return r.AssetID
	}
	for _, a := range r.Assets {
		if a.ID != "" {
			return a.ID
		}
	}
	return ""
}
