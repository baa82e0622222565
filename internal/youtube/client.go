package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/metrics"
	"github.com/goddivor/solo-base-notes-api/internal/models"
)

const providerName = "youtube"

// maxPageSize is the largest page the Data API serves per request.
const maxPageSize = 50

// Client is a YouTube Data API v3 client authenticated with an API key.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a YouTube client.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{httpClient: httpClient, baseURL: baseURL, apiKey: apiKey}
}

type channelResource struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		CustomURL   string `json:"customUrl"`
		Thumbnails  struct {
			High struct {
				URL string `json:"url"`
			} `json:"high"`
			Default struct {
				URL string `json:"url"`
			} `json:"default"`
		} `json:"thumbnails"`
	} `json:"snippet"`
	Statistics struct {
		SubscriberCount string `json:"subscriberCount"`
		VideoCount      string `json:"videoCount"`
		ViewCount       string `json:"viewCount"`
	} `json:"statistics"`
	BrandingSettings struct {
		Image struct {
			BannerExternalURL string `json:"bannerExternalUrl"`
		} `json:"image"`
	} `json:"brandingSettings"`
	ContentDetails struct {
		RelatedPlaylists struct {
			Uploads string `json:"uploads"`
		} `json:"relatedPlaylists"`
	} `json:"contentDetails"`
}

func (c channelResource) toModel() models.Channel {
	thumbnail := c.Snippet.Thumbnails.High.URL
	if thumbnail == "" {
		thumbnail = c.Snippet.Thumbnails.Default.URL
	}
	return models.Channel{
		ID:              c.ID,
		Title:           c.Snippet.Title,
		Description:     c.Snippet.Description,
		CustomURL:       c.Snippet.CustomURL,
		Thumbnail:       thumbnail,
		SubscriberCount: parseCount(c.Statistics.SubscriberCount),
		VideoCount:      parseCount(c.Statistics.VideoCount),
		ViewCount:       parseCount(c.Statistics.ViewCount),
		BannerURL:       c.BrandingSettings.Image.BannerExternalURL,
	}
}

// parseCount handles the Data API habit of serializing counters as strings.
func parseCount(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

// ChannelInfo resolves a channel URL (or bare @handle) and returns the
// channel's metadata.
func (c *Client) ChannelInfo(ctx context.Context, channelURL string) (models.Channel, error) {
	resource, err := c.resolveChannel(ctx, channelURL)
	if err != nil {
		return models.Channel{}, err
	}
	return resource.toModel(), nil
}

// ChannelVideos resolves a channel URL and lists its most recent uploads,
// newest first, up to the given limit (default and maximum one page of 50).
func (c *Client) ChannelVideos(ctx context.Context, channelURL string, limit int) ([]models.Video, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	resource, err := c.resolveChannel(ctx, channelURL)
	if err != nil {
		return nil, err
	}
	uploads := resource.ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return nil, apperrors.NewNotFoundError("uploads playlist", resource.ID)
	}

	videoIDs, err := c.playlistVideoIDs(ctx, uploads, limit)
	if err != nil {
		return nil, err
	}
	if len(videoIDs) == 0 {
		return []models.Video{}, nil
	}
	return c.videosByID(ctx, videoIDs)
}

// resolveChannel turns any supported channel URL form into a full channel
// resource. Handles go through the search endpoint; legacy /c/ and /user/
// names through forUsername.
func (c *Client) resolveChannel(ctx context.Context, channelURL string) (channelResource, error) {
	ref, err := parseChannelURL(channelURL)
	if err != nil {
		return channelResource{}, err
	}

	params := url.Values{}
	params.Set("part", "snippet,statistics,brandingSettings,contentDetails")

	switch {
	case ref.ID != "":
		params.Set("id", ref.ID)
	case ref.Username != "":
		params.Set("forUsername", ref.Username)
	default:
		id, err := c.searchChannelID(ctx, ref.Handle)
		if err != nil {
			return channelResource{}, err
		}
		params.Set("id", id)
	}

	var payload struct {
		Items []channelResource `json:"items"`
	}
	if err := c.getJSON(ctx, "/channels", params, "channel lookup", &payload); err != nil {
		return channelResource{}, err
	}
	if len(payload.Items) == 0 {
		return channelResource{}, apperrors.NewNotFoundError("channel", channelURL)
	}
	return payload.Items[0], nil
}

func (c *Client) searchChannelID(ctx context.Context, handle string) (string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "channel")
	params.Set("q", handle)
	params.Set("maxResults", "1")

	var payload struct {
		Items []struct {
			ID struct {
				ChannelID string `json:"channelId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := c.getJSON(ctx, "/search", params, "channel search", &payload); err != nil {
		return "", err
	}
	if len(payload.Items) == 0 {
		return "", apperrors.NewNotFoundError("channel", handle)
	}
	return payload.Items[0].ID.ChannelID, nil
}

func (c *Client) playlistVideoIDs(ctx context.Context, playlistID string, limit int) ([]string, error) {
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", fmt.Sprint(limit))

	var payload struct {
		Items []struct {
			ContentDetails struct {
				VideoID string `json:"videoId"`
			} `json:"contentDetails"`
		} `json:"items"`
	}
	if err := c.getJSON(ctx, "/playlistItems", params, "playlist listing", &payload); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.ContentDetails.VideoID != "" {
			ids = append(ids, item.ContentDetails.VideoID)
		}
	}
	return ids, nil
}

func (c *Client) videosByID(ctx context.Context, ids []string) ([]models.Video, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", strings.Join(ids, ","))

	var payload struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				PublishedAt string `json:"publishedAt"`
				Thumbnails  struct {
					High struct {
						URL string `json:"url"`
					} `json:"high"`
					Default struct {
						URL string `json:"url"`
					} `json:"default"`
				} `json:"thumbnails"`
			} `json:"snippet"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
			Statistics struct {
				ViewCount    string `json:"viewCount"`
				LikeCount    string `json:"likeCount"`
				CommentCount string `json:"commentCount"`
			} `json:"statistics"`
		} `json:"items"`
	}
	if err := c.getJSON(ctx, "/videos", params, "video lookup", &payload); err != nil {
		return nil, err
	}

	videos := make([]models.Video, 0, len(payload.Items))
	for _, item := range payload.Items {
		thumbnail := item.Snippet.Thumbnails.High.URL
		if thumbnail == "" {
			thumbnail = item.Snippet.Thumbnails.Default.URL
		}
		seconds := parseDuration(item.ContentDetails.Duration)
		videos = append(videos, models.Video{
			ID:              item.ID,
			Title:           item.Snippet.Title,
			Description:     item.Snippet.Description,
			Thumbnail:       thumbnail,
			PublishedAt:     item.Snippet.PublishedAt,
			Duration:        item.ContentDetails.Duration,
			DurationSeconds: seconds,
			IsShort:         isShort(seconds),
			ViewCount:       parseCount(item.Statistics.ViewCount),
			LikeCount:       parseCount(item.Statistics.LikeCount),
			CommentCount:    parseCount(item.Statistics.CommentCount),
		})
	}
	return videos, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, operation string, out interface{}) (err error) {
	defer func() { metrics.RecordProviderRequest(providerName, err) }()

	if c.apiKey == "" {
		return &apperrors.ErrConfiguration{Key: "YOUTUBE_API_KEY"}
	}
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create YouTube request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query YouTube: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewProviderError(providerName, operation, resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode YouTube response: %w", err)
	}
	return nil
}
