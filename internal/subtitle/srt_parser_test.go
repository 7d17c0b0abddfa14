package subtitle

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempSRT(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.srt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing temp SRT: %v", err)
	}
	return path
}

func TestOpenSRT(t *testing.T) {
	content := "1\n" +
		"00:00:00,000 --> 00:00:02,000\n" +
		"Ciao\n" +
		"\n" +
		"2\n" +
		"00:00:02,000 --> 00:00:05,000\n" +
		"come stai\n" +
		"oggi\n" +
		"\n"

	f, err := OpenSRT(writeTempSRT(t, content))
	if err != nil {
		t.Fatalf("OpenSRT returned error: %v", err)
	}

	sub := f.Subtitle()
	if len(sub.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(sub.Entries))
	}

	first := sub.Entries[0]
	if first.Index != 1 || first.StartTime != 0 ||
		first.EndTime != 2*time.Second || first.Text != "Ciao" {
		t.Errorf("unexpected first entry: %+v", first)
	}

	second := sub.Entries[1]
	if second.Text != "come stai\noggi" {
		t.Errorf("multi-line text = %q, want joined lines", second.Text)
	}
	if second.EndTime != 5*time.Second {
		t.Errorf("second end = %v, want 5s", second.EndTime)
	}
}

func TestOpenSRTWithBOM(t *testing.T) {
	content := "\ufeff1\n" +
		"00:00:01,500 --> 00:00:03,000\n" +
		"Hello\n" +
		"\n"

	f, err := OpenSRT(writeTempSRT(t, content))
	if err != nil {
		t.Fatalf("OpenSRT returned error: %v", err)
	}

	entries := f.Subtitle().Entries
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].StartTime != 1500*time.Millisecond {
		t.Errorf("start = %v, want 1.5s", entries[0].StartTime)
	}
}

func TestOpenSRTWidenedHours(t *testing.T) {
	content := "1\n" +
		"100:00:00,000 --> 100:00:05,000\n" +
		"still going\n" +
		"\n"

	f, err := OpenSRT(writeTempSRT(t, content))
	if err != nil {
		t.Fatalf("OpenSRT returned error: %v", err)
	}

	entries := f.Subtitle().Entries
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].StartTime != 100*time.Hour {
		t.Errorf("start = %v, want 100h", entries[0].StartTime)
	}
}

func TestSRTFileSetText(t *testing.T) {
	content := "1\n" +
		"00:00:00,000 --> 00:00:02,000\n" +
		"Ciao\n" +
		"\n"

	f, err := OpenSRT(writeTempSRT(t, content))
	if err != nil {
		t.Fatalf("OpenSRT returned error: %v", err)
	}

	if err := f.SetText(0, "Hello"); err != nil {
		t.Fatalf("SetText returned error: %v", err)
	}
	if got := f.Subtitle().Entries[0].Text; got != "Hello" {
		t.Errorf("text = %q after SetText, want %q", got, "Hello")
	}

	if err := f.SetText(5, "nope"); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func TestSRTFileRoundTrip(t *testing.T) {
	content := "1\n" +
		"00:00:00,000 --> 00:00:02,000\n" +
		"Ciao\n" +
		"\n" +
		"2\n" +
		"00:00:02,000 --> 00:00:05,000\n" +
		"come stai\n" +
		"\n"

	f, err := OpenSRT(writeTempSRT(t, content))
	if err != nil {
		t.Fatalf("OpenSRT returned error: %v", err)
	}

	out := filepath.Join(t.TempDir(), "out.srt")
	if err := f.Write(out); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(got) != content {
		t.Errorf("round trip mismatch:\ngot:\n%s\nwant:\n%s", got, content)
	}
}
