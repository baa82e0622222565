package models

// Channel is a normalized YouTube channel record.
type Channel struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	CustomURL       string `json:"customUrl,omitempty"`
	Thumbnail       string `json:"thumbnail,omitempty"`
	SubscriberCount int64  `json:"subscriberCount"`
	VideoCount      int64  `json:"videoCount"`
	ViewCount       int64  `json:"viewCount"`
	BannerURL       string `json:"bannerUrl,omitempty"`
}

// Video is a normalized YouTube video record. Duration keeps the raw
// ISO 8601 form, DurationSeconds the parsed value. A video of 60 seconds or
// less is reported as a Short.
type Video struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Thumbnail       string `json:"thumbnail,omitempty"`
	PublishedAt     string `json:"publishedAt"`
	Duration        string `json:"duration"`
	DurationSeconds int    `json:"durationInSeconds"`
	IsShort         bool   `json:"isShort"`
	ViewCount       int64  `json:"viewCount"`
	LikeCount       int64  `json:"likeCount"`
	CommentCount    int64  `json:"commentCount"`
}
