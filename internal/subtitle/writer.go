package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SubRip format
type SRTWriter struct{}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Write serializes the subtitle as sequential SRT blocks: index line,
// arrow-separated timestamps, text, blank line.
func (w *SRTWriter) Write(sub *Subtitle, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var sb strings.Builder
	for _, entry := range sub.Entries {
		sb.WriteString(fmt.Sprintf("%d\n", entry.Index))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatTimestamp(entry.StartTime),
			FormatTimestamp(entry.EndTime)))
		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// FormatTimestamp renders an SRT timestamp: HH:MM:SS,mmm with fractional
// milliseconds rounded half-up. The hour field widens past two digits for
// durations beyond 99 hours.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	millis := int64(d.Round(time.Millisecond) / time.Millisecond)

	hours := millis / 3_600_000
	minutes := (millis % 3_600_000) / 60_000
	seconds := (millis % 60_000) / 1_000
	ms := millis % 1_000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, ms)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
