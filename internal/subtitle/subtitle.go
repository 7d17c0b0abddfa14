package subtitle

import (
	"fmt"
	"strings"
	"time"
)

// Segment is a time-stamped span of transcribed text, already shifted
// onto the global timeline.
type Segment struct {
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// Entry is a single subtitle entry.
type Entry struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// Subtitle is a complete subtitle track.
type Subtitle struct {
	Entries []Entry
	Format  string
}

// Format is a subtitle file format.
type Format string

const FormatSRT Format = "srt"

// Writer writes subtitles to files.
type Writer interface {
	Write(subtitle *Subtitle, path string) error
}

// FromSegments maps transcription segments 1:1 onto subtitle entries with
// contiguous 1-based indices. An empty segment list is an error: the run
// must fail rather than emit a degenerate subtitle file.
func FromSegments(segments []Segment) (*Subtitle, error) {
	var entries []Entry
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		entries = append(entries, Entry{
			Index:     len(entries) + 1,
			StartTime: seg.StartTime,
			EndTime:   seg.EndTime,
			Text:      text,
		})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no transcription segments")
	}

	return &Subtitle{
		Entries: entries,
		Format:  string(FormatSRT),
	}, nil
}
