package youtube

import (
	"regexp"
	"strconv"
)

// shortMaxSeconds is the longest video still reported as a Short.
const shortMaxSeconds = 60

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseDuration converts an ISO 8601 video duration (PT1H2M3S) to seconds.
// Unparseable input yields zero.
func parseDuration(iso string) int {
	m := durationPattern.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	return hours*3600 + minutes*60 + seconds
}

// isShort reports whether a video of the given length is a YouTube Short.
func isShort(seconds int) bool {
	return seconds > 0 && seconds <= shortMaxSeconds
}
