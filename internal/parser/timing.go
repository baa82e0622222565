package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/models"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// ExtractTextByTiming returns the concatenated text of every entry whose
// interval overlaps [startTime, endTime]. User times may be MM:SS or
// HH:MM:SS, with or without a fractional-seconds component. Matching entries
// keep their original list order; the result has HTML-like tags stripped and
// runs of whitespace collapsed. No overlap yields an empty string, not an
// error. Pure function.
func ExtractTextByTiming(entries []models.SubtitleEntry, startTime, endTime string) (string, error) {
	startSeconds, err := timeToSeconds(normalizeClock(startTime))
	if err != nil {
		return "", &apperrors.ErrValidation{Field: "startTime", Reason: err.Error()}
	}
	endSeconds, err := timeToSeconds(normalizeClock(endTime))
	if err != nil {
		return "", &apperrors.ErrValidation{Field: "endTime", Reason: err.Error()}
	}

	var matched []string
	for _, entry := range entries {
		entryStart, err := timeToSeconds(entry.StartTime)
		if err != nil {
			continue
		}
		entryEnd, err := timeToSeconds(entry.EndTime)
		if err != nil {
			continue
		}

		// Inclusive overlap: either endpoint falls inside the query range,
		// or the entry fully contains it.
		overlaps := (entryStart >= startSeconds && entryStart <= endSeconds) ||
			(entryEnd >= startSeconds && entryEnd <= endSeconds) ||
			(entryStart <= startSeconds && entryEnd >= endSeconds)
		if overlaps {
			matched = append(matched, entry.Text)
		}
	}

	if len(matched) == 0 {
		return "", nil
	}

	text := strings.Join(matched, " ")
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), nil
}

// normalizeClock brings a user-supplied time into HH:MM:SS.mmm form:
// MM:SS gets an hour prefix, a missing fractional part gets ".000".
func normalizeClock(t string) string {
	t = strings.TrimSpace(t)
	if strings.Count(t, ":") == 1 {
		t = "00:" + t
	}
	if !strings.ContainsAny(t, ".,") {
		t += ".000"
	}
	return t
}

// timeToSeconds converts "HH:MM:SS.mmm" (or with a comma separator) to
// floating-point seconds.
func timeToSeconds(t string) (float64, error) {
	t = strings.Replace(t, ",", ".", 1)
	parts := strings.Split(t, ":")
	if len(parts) != 3 {
		return 0, &apperrors.ErrParse{Reason: "unparseable time " + strconv.Quote(t)}
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &apperrors.ErrParse{Reason: "unparseable hours in " + strconv.Quote(t)}
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, &apperrors.ErrParse{Reason: "unparseable minutes in " + strconv.Quote(t)}
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, &apperrors.ErrParse{Reason: "unparseable seconds in " + strconv.Quote(t)}
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}
