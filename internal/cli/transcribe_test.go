package cli

import "testing"

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"clip.mp4", "clip.srt"},
		{"lecture.mp3", "lecture.srt"},
		{"/media/show.S01E01.mkv", "/media/show.S01E01.srt"},
		{"noext", "noext.srt"},
		{"dir.with.dots/file.wav", "dir.with.dots/file.srt"},
	}

	for _, tt := range tests {
		if got := defaultOutputPath(tt.input); got != tt.want {
			t.Errorf(
				"defaultOutputPath(%q) = %q, want %q",
				tt.input,
				got,
				tt.want,
			)
		}
	}
}
