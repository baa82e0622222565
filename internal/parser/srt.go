// Package parser converts raw SRT caption documents into timed entries and
// extracts the text overlapping a requested time range.
package parser

import (
	"regexp"
	"strings"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/models"
)

var (
	// blockSplitPattern separates SRT blocks on blank-line boundaries (one
	// or more newlines forming an empty line).
	blockSplitPattern = regexp.MustCompile(`\n\s*\n`)

	// timingPattern matches "HH:MM:SS,mmm --> HH:MM:SS,mmm". Some sources
	// already use a dot as the millisecond separator, so both are accepted.
	timingPattern = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}[,.]\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2}[,.]\d{3})`)
)

// ParseSRT converts raw SRT text into entries in file order. A block needs at
// least a sequence number, a timing line, and one text line; blocks shorter
// than that or with an unparseable timing line are dropped, not fatal.
// Returns ErrParse only when the whole document is empty after trimming.
func ParseSRT(raw string) ([]models.SubtitleEntry, error) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &apperrors.ErrParse{Reason: "empty subtitle document"}
	}

	blocks := blockSplitPattern.Split(trimmed, -1)
	entries := make([]models.SubtitleEntry, 0, len(blocks))

	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			continue
		}

		match := timingPattern.FindStringSubmatch(lines[1])
		if match == nil {
			continue
		}

		entries = append(entries, models.SubtitleEntry{
			StartTime: strings.Replace(match[1], ",", ".", 1),
			EndTime:   strings.Replace(match[2], ",", ".", 1),
			Text:      strings.TrimSpace(strings.Join(lines[2:], "\n")),
		})
	}

	return entries, nil
}
