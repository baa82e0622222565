package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
)

func TestParseChannelURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  channelRef
	}{
		{"channel id", "https://www.youtube.com/channel/UC123abc", channelRef{ID: "UC123abc"}},
		{"handle url", "https://www.youtube.com/@SomeCreator", channelRef{Handle: "@SomeCreator"}},
		{"bare handle", "@SomeCreator", channelRef{Handle: "@SomeCreator"}},
		{"legacy c path", "https://youtube.com/c/SomeCreator", channelRef{Username: "SomeCreator"}},
		{"legacy user path", "https://youtube.com/user/somecreator", channelRef{Username: "somecreator"}},
		{"trailing segment", "https://www.youtube.com/@SomeCreator/videos", channelRef{Handle: "@SomeCreator"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseChannelURL(tt.input)
			if err != nil {
				t.Fatalf("parseChannelURL(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseChannelURL(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseChannelURL_Invalid(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"", "https://www.youtube.com/watch?v=abc", "https://example.com/foo"} {
		if _, err := parseChannelURL(input); !errors.Is(err, &apperrors.ErrValidation{}) {
			t.Errorf("parseChannelURL(%q) error = %v, want ErrValidation", input, err)
		}
	}
}

func TestParseDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		iso  string
		want int
	}{
		{"PT1H2M3S", 3723},
		{"PT4M13S", 253},
		{"PT58S", 58},
		{"PT2H", 7200},
		{"PT1M", 60},
		{"P1DT2H", 0},
		{"garbage", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := parseDuration(tt.iso); got != tt.want {
			t.Errorf("parseDuration(%q) = %d, want %d", tt.iso, got, tt.want)
		}
	}
}

func TestIsShort(t *testing.T) {
	t.Parallel()
	tests := []struct {
		seconds int
		want    bool
	}{
		{0, false},
		{1, true},
		{60, true},
		{61, false},
		{3600, false},
	}
	for _, tt := range tests {
		if got := isShort(tt.seconds); got != tt.want {
			t.Errorf("isShort(%d) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func newFakeDataAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "channel" {
			t.Errorf("search type = %q, want channel", got)
		}
		_, _ = w.Write([]byte(`{"items":[{"id":{"channelId":"UC123abc"}}]}`))
	})
	mux.HandleFunc("/channels", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "key-1" {
			t.Errorf("key = %q, want key-1", got)
		}
		id := r.URL.Query().Get("id")
		username := r.URL.Query().Get("forUsername")
		if id != "UC123abc" && username != "SomeCreator" {
			http.Error(w, `{"items":[]}`, http.StatusOK)
			return
		}
		_, _ = w.Write([]byte(`{"items":[{
			"id":"UC123abc",
			"snippet":{"title":"Some Creator","description":"Videos.","customUrl":"@somecreator",
			           "thumbnails":{"high":{"url":"https://cdn/ch-high.jpg"}}},
			"statistics":{"subscriberCount":"120000","videoCount":"321","viewCount":"4500000"},
			"brandingSettings":{"image":{"bannerExternalUrl":"https://cdn/banner.jpg"}},
			"contentDetails":{"relatedPlaylists":{"uploads":"UU123abc"}}
		}]}`))
	})
	mux.HandleFunc("/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("playlistId"); got != "UU123abc" {
			t.Errorf("playlistId = %q, want UU123abc", got)
		}
		_, _ = w.Write([]byte(`{"items":[
			{"contentDetails":{"videoId":"vid-1"}},
			{"contentDetails":{"videoId":"vid-2"}}
		]}`))
	})
	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "vid-1,vid-2" {
			t.Errorf("videos id = %q, want vid-1,vid-2", got)
		}
		_, _ = w.Write([]byte(`{"items":[
			{"id":"vid-1",
			 "snippet":{"title":"Full video","publishedAt":"2024-05-01T12:00:00Z",
			            "thumbnails":{"high":{"url":"https://cdn/v1.jpg"}}},
			 "contentDetails":{"duration":"PT12M34S"},
			 "statistics":{"viewCount":"1000","likeCount":"100","commentCount":"10"}},
			{"id":"vid-2",
			 "snippet":{"title":"A short","publishedAt":"2024-05-02T12:00:00Z",
			            "thumbnails":{"default":{"url":"https://cdn/v2.jpg"}}},
			 "contentDetails":{"duration":"PT45S"},
			 "statistics":{"viewCount":"50000","likeCount":"4000","commentCount":"300"}}
		]}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ChannelInfo(t *testing.T) {
	t.Parallel()
	srv := newFakeDataAPI(t)
	client := NewClient(srv.Client(), srv.URL, "key-1")

	tests := []struct {
		name string
		url  string
	}{
		{"by id", "https://www.youtube.com/channel/UC123abc"},
		{"by handle via search", "https://www.youtube.com/@SomeCreator"},
		{"by legacy username", "https://www.youtube.com/user/SomeCreator"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ch, err := client.ChannelInfo(context.Background(), tt.url)
			if err != nil {
				t.Fatalf("ChannelInfo(%q) error = %v", tt.url, err)
			}
			if ch.ID != "UC123abc" || ch.Title != "Some Creator" {
				t.Errorf("unexpected channel %+v", ch)
			}
			if ch.SubscriberCount != 120000 || ch.ViewCount != 4500000 {
				t.Errorf("unexpected counters %+v", ch)
			}
			if ch.BannerURL != "https://cdn/banner.jpg" {
				t.Errorf("banner = %q", ch.BannerURL)
			}
		})
	}
}

func TestClient_ChannelVideos(t *testing.T) {
	t.Parallel()
	srv := newFakeDataAPI(t)
	client := NewClient(srv.Client(), srv.URL, "key-1")

	videos, err := client.ChannelVideos(context.Background(), "https://www.youtube.com/channel/UC123abc", 0)
	if err != nil {
		t.Fatalf("ChannelVideos() error = %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("len(videos) = %d, want 2", len(videos))
	}

	full := videos[0]
	if full.DurationSeconds != 754 || full.IsShort {
		t.Errorf("full video parsed as %+v", full)
	}
	if full.ViewCount != 1000 {
		t.Errorf("view count = %d, want 1000", full.ViewCount)
	}

	short := videos[1]
	if short.DurationSeconds != 45 || !short.IsShort {
		t.Errorf("short video parsed as %+v", short)
	}
	if short.Thumbnail != "https://cdn/v2.jpg" {
		t.Errorf("thumbnail fallback = %q", short.Thumbnail)
	}
}

func TestClient_MissingAPIKey(t *testing.T) {
	t.Parallel()
	client := NewClient(http.DefaultClient, "http://unused.invalid", "")

	_, err := client.ChannelInfo(context.Background(), "https://www.youtube.com/channel/UC123abc")
	if !errors.Is(err, &apperrors.ErrConfiguration{}) {
		t.Errorf("error = %v, want ErrConfiguration", err)
	}
}

func TestClient_ChannelNotFound(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.Client(), srv.URL, "key-1")
	_, err := client.ChannelInfo(context.Background(), "https://www.youtube.com/channel/UCnope")
	if !errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
