// Package youtube resolves channel URLs and lists channel uploads through
// the YouTube Data API v3.
package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
)

// channelRef is a parsed channel URL: exactly one of the fields is set.
type channelRef struct {
	ID       string // /channel/UC...
	Handle   string // /@handle
	Username string // legacy /c/name and /user/name
}

var handlePattern = regexp.MustCompile(`^@[\w.-]+$`)

// parseChannelURL extracts a channel reference from the URL forms YouTube
// serves: /channel/UC..., /@handle, /c/name and /user/name. A bare @handle
// string is accepted too.
func parseChannelURL(raw string) (channelRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return channelRef{}, apperrors.NewValidationError("channel url")
	}

	if handlePattern.MatchString(raw) {
		return channelRef{Handle: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return channelRef{}, &apperrors.ErrValidation{Field: "channel url", Reason: "not a valid URL"}
	}

	path := strings.Trim(u.Path, "/")
	segments := strings.Split(path, "/")

	switch {
	case strings.HasPrefix(path, "@"):
		return channelRef{Handle: segments[0]}, nil
	case len(segments) >= 2 && segments[0] == "channel":
		return channelRef{ID: segments[1]}, nil
	case len(segments) >= 2 && (segments[0] == "c" || segments[0] == "user"):
		return channelRef{Username: segments[1]}, nil
	}

	return channelRef{}, &apperrors.ErrValidation{
		Field:  "channel url",
		Reason: fmt.Sprintf("unrecognized channel URL form %q", raw),
	}
}
