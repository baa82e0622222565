package models

// SubtitleEntry is one caption unit from a parsed SRT document. Times are in
// canonical HH:MM:SS.mmm form regardless of the source's millisecond
// separator. Entries are transient: parsed per download, never persisted.
type SubtitleEntry struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Text      string `json:"text"`
}

// SubtitleCandidate is one normalized search result from the subtitle
// provider. Candidates without a usable file id are filtered out before they
// reach the caller.
type SubtitleCandidate struct {
	FileID        string  `json:"fileId"`
	FileName      string  `json:"fileName"`
	Language      string  `json:"language"`
	DownloadCount int     `json:"downloadCount"`
	Rating        float64 `json:"rating"`
	Release       string  `json:"release"`
	Uploader      string  `json:"uploader"`
}

// SubtitleSearchRequest carries the filters for a provider subtitle search.
// Season is nil for movie-type media; Episode is optional.
type SubtitleSearchRequest struct {
	ImdbID    string
	Season    *int
	Episode   *int
	Languages []string
}

// SubtitleDocument is a downloaded subtitle file parsed into timed entries.
type SubtitleDocument struct {
	FileID  string          `json:"fileId"`
	Entries []SubtitleEntry `json:"entries"`
}
