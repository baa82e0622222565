package parser

import (
	"errors"
	"testing"

	"github.com/goddivor/solo-base-notes-api/internal/apperrors"
	"github.com/goddivor/solo-base-notes-api/internal/models"
)

func testEntries() []models.SubtitleEntry {
	return []models.SubtitleEntry{
		{StartTime: "00:00:01.000", EndTime: "00:00:03.000", Text: "Hi"},
		{StartTime: "00:00:05.000", EndTime: "00:00:07.000", Text: "there"},
		{StartTime: "00:05:00.000", EndTime: "00:05:04.000", Text: "five minutes in"},
		{StartTime: "00:05:08.000", EndTime: "00:05:12.000", Text: "still inside"},
		{StartTime: "00:09:00.000", EndTime: "00:09:02.000", Text: "way later"},
	}
}

func TestExtractTextByTiming_OverlapSelection(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		start string
		end   string
		want  string
	}{
		{
			// Concrete scenario: both entries touch [2s, 6s].
			name:  "range spanning two entries",
			start: "00:00:02",
			end:   "00:00:06",
			want:  "Hi there",
		},
		{
			name:  "window excludes earlier and later entries",
			start: "00:05:00",
			end:   "00:05:10",
			want:  "five minutes in still inside",
		},
		{
			name:  "entry fully containing the query range",
			start: "00:05:01",
			end:   "00:05:02",
			want:  "five minutes in",
		},
		{
			name:  "no overlap",
			start: "00:20:00",
			end:   "00:20:10",
			want:  "",
		},
		{
			name:  "inclusive boundary touch",
			start: "00:00:03",
			end:   "00:00:04",
			want:  "Hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ExtractTextByTiming(testEntries(), tt.start, tt.end)
			if err != nil {
				t.Fatalf("ExtractTextByTiming() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractTextByTiming(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestExtractTextByTiming_TimeFormatNormalization(t *testing.T) {
	t.Parallel()
	entries := testEntries()

	canonical, err := ExtractTextByTiming(entries, "00:05:00", "00:05:10")
	if err != nil {
		t.Fatalf("canonical form error = %v", err)
	}

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"MM:SS form", "5:00", "5:10"},
		{"with fractional seconds", "00:05:00.000", "00:05:10.000"},
		{"comma fractional separator", "00:05:00,000", "00:05:10,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ExtractTextByTiming(entries, tt.start, tt.end)
			if err != nil {
				t.Fatalf("ExtractTextByTiming() error = %v", err)
			}
			if got != canonical {
				t.Errorf("ExtractTextByTiming(%q, %q) = %q, want %q", tt.start, tt.end, got, canonical)
			}
		})
	}
}

func TestExtractTextByTiming_HTMLTagStripping(t *testing.T) {
	t.Parallel()
	entries := []models.SubtitleEntry{
		{StartTime: "00:00:01.000", EndTime: "00:00:03.000", Text: "<i>Hello</i> world"},
	}

	got, err := ExtractTextByTiming(entries, "00:00:00", "00:00:10")
	if err != nil {
		t.Fatalf("ExtractTextByTiming() error = %v", err)
	}
	if got != "Hello world" {
		t.Errorf("ExtractTextByTiming() = %q, want %q", got, "Hello world")
	}
}

func TestExtractTextByTiming_WhitespaceCollapse(t *testing.T) {
	t.Parallel()
	entries := []models.SubtitleEntry{
		{StartTime: "00:00:01.000", EndTime: "00:00:03.000", Text: "First  line\nsecond   line"},
		{StartTime: "00:00:04.000", EndTime: "00:00:06.000", Text: "  third\tline "},
	}

	got, err := ExtractTextByTiming(entries, "00:00:00", "00:00:10")
	if err != nil {
		t.Fatalf("ExtractTextByTiming() error = %v", err)
	}
	if got != "First line second line third line" {
		t.Errorf("ExtractTextByTiming() = %q", got)
	}
}

func TestExtractTextByTiming_PreservesListOrder(t *testing.T) {
	t.Parallel()
	// Entries are deliberately out of time order; output follows list order.
	entries := []models.SubtitleEntry{
		{StartTime: "00:00:05.000", EndTime: "00:00:07.000", Text: "second"},
		{StartTime: "00:00:01.000", EndTime: "00:00:03.000", Text: "first"},
	}

	got, err := ExtractTextByTiming(entries, "00:00:00", "00:00:10")
	if err != nil {
		t.Fatalf("ExtractTextByTiming() error = %v", err)
	}
	if got != "second first" {
		t.Errorf("ExtractTextByTiming() = %q, want list order %q", got, "second first")
	}
}

func TestExtractTextByTiming_InvalidUserTime(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"garbage start", "abc", "00:00:10"},
		{"garbage end", "00:00:01", "xx:yy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ExtractTextByTiming(testEntries(), tt.start, tt.end)
			if !errors.Is(err, &apperrors.ErrValidation{}) {
				t.Errorf("ExtractTextByTiming(%q, %q) error = %v, want ErrValidation", tt.start, tt.end, err)
			}
		})
	}
}

func TestNormalizeClock(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"MM:SS", "5:00", "00:5:00.000"},
		{"HH:MM:SS", "00:05:00", "00:05:00.000"},
		{"already fractional", "00:05:00.500", "00:05:00.500"},
		{"comma fractional", "00:05:00,500", "00:05:00,500"},
		{"surrounding whitespace", " 00:05:00 ", "00:05:00.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := normalizeClock(tt.in); got != tt.want {
				t.Errorf("normalizeClock(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeToSeconds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"whole seconds", "00:05:23.000", 323, false},
		{"with milliseconds", "00:05:23.400", 323.4, false},
		{"comma separator", "00:05:23,400", 323.4, false},
		{"hours", "01:00:00.000", 3600, false},
		{"single-digit minute field", "00:5:00.000", 300, false},
		{"missing field", "05:23", 0, true},
		{"garbage", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := timeToSeconds(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("timeToSeconds(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("timeToSeconds(%q) = %f, want %f", tt.in, got, tt.want)
			}
		})
	}
}
