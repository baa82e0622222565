package models

// Anime is a normalized anime catalog record. The ID is the MyAnimeList
// numeric id regardless of which metadata source produced the record.
type Anime struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Image    string  `json:"image,omitempty"`
	Synopsis string  `json:"synopsis,omitempty"`
	Episodes int     `json:"episodes,omitempty"`
	Score    float64 `json:"score,omitempty"`
	Year     int     `json:"year,omitempty"`
	Status   string  `json:"status,omitempty"`
}

// Character is one character appearing in an anime.
type Character struct {
	MalID int    `json:"malId"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Episode is one episode of an anime. Duration is in minutes.
type Episode struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Aired    string `json:"aired,omitempty"`
	Duration int    `json:"duration"`
}
