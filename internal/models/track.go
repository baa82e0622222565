package models

// Artist is one Spotify artist credit on a track.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album is the album a Spotify track belongs to.
type Album struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Track is a normalized Spotify track. Duration is in milliseconds.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	Duration   int      `json:"duration"`
	PreviewURL string   `json:"previewUrl,omitempty"`
	SpotifyURL string   `json:"spotifyUrl"`
	URI        string   `json:"uri"`
}
