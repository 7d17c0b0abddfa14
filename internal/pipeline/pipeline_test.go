package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scriba/internal/audio"
	"scriba/internal/logging"
	"scriba/internal/subtitle"
	"scriba/internal/transcribe"
)

// canned transcription results, no network
type fakeTranscriber struct {
	segments []subtitle.Segment
	err      error
}

func (f *fakeTranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*transcribe.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &transcribe.Result{Segments: f.segments}, nil
}

func (f *fakeTranscriber) TranscribeChunk(
	ctx context.Context,
	chunk audio.ChunkInfo,
) ([]subtitle.Segment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.segments, nil
}

// writeSmallAudio creates a file that passes the audio-extension check and
// stays under the upload limit, so Run never shells out to ffmpeg.
func writeSmallAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.mp3")
	if err := os.WriteFile(path, make([]byte, 2048), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// stubBinaries satisfies the up-front tool check without real binaries.
func stubBinaries(t *testing.T) {
	t.Helper()
	t.Setenv("SCRIBA_FFMPEG_PATH", "/opt/tools/ffmpeg")
	t.Setenv("SCRIBA_FFPROBE_PATH", "/opt/tools/ffprobe")
}

func TestRunWritesSRT(t *testing.T) {
	stubBinaries(t)

	outputPath := filepath.Join(t.TempDir(), "out.srt")
	cfg := Config{
		InputPath:  writeSmallAudio(t),
		OutputPath: outputPath,
		Language:   "it",
		Transcriber: &fakeTranscriber{
			segments: []subtitle.Segment{
				{StartTime: 0, EndTime: 2 * time.Second, Text: "Ciao"},
				{
					StartTime: 2 * time.Second,
					EndTime:   4500 * time.Millisecond,
					Text:      "come stai",
				},
			},
		},
	}

	got, err := Run(context.Background(), cfg, logging.NewLogger(false))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got != outputPath {
		t.Errorf("Run = %q, want %q", got, outputPath)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	want := "1\n" +
		"00:00:00,000 --> 00:00:02,000\n" +
		"Ciao\n" +
		"\n" +
		"2\n" +
		"00:00:02,000 --> 00:00:04,500\n" +
		"come stai\n" +
		"\n"
	if string(data) != want {
		t.Errorf("output file:\n%q\nwant:\n%q", data, want)
	}
}

func TestRunEmptyResultWritesNoFile(t *testing.T) {
	stubBinaries(t)

	outputPath := filepath.Join(t.TempDir(), "out.srt")
	cfg := Config{
		InputPath:   writeSmallAudio(t),
		OutputPath:  outputPath,
		Language:    "it",
		Transcriber: &fakeTranscriber{},
	}

	_, err := Run(context.Background(), cfg, logging.NewLogger(false))
	if err == nil {
		t.Fatal("expected error for empty transcription result")
	}
	if !strings.Contains(err.Error(), "no transcription segments") {
		t.Errorf("error = %v, want no-segments failure", err)
	}

	if _, statErr := os.Stat(outputPath); !os.IsNotExist(statErr) {
		t.Errorf("output file exists after failed run: %v", statErr)
	}
}

func TestNormalizePassesAudioThrough(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "input.mp3")
	if err := os.WriteFile(audioPath, []byte("not real audio"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := normalize(
		context.Background(),
		audioPath,
		t.TempDir(),
		logging.NewLogger(false),
	)
	if err != nil {
		t.Fatalf("normalize returned error: %v", err)
	}
	if got != audioPath {
		t.Errorf("normalize = %q, want input path %q unchanged", got, audioPath)
	}
}

func TestSplitSingleChunkUnderLimit(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "small.mp3")
	if err := os.WriteFile(audioPath, make([]byte, 1024), 0644); err != nil {
		t.Fatal(err)
	}

	chunks, err := split(
		context.Background(),
		audioPath,
		t.TempDir(),
		logging.NewLogger(false),
	)
	if err != nil {
		t.Fatalf("split returned error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Path != audioPath {
		t.Errorf("chunk path = %q, want %q", chunks[0].Path, audioPath)
	}
	if chunks[0].Offset != 0 {
		t.Errorf("chunk offset = %v, want 0", chunks[0].Offset)
	}
	if chunks[0].Index != 0 {
		t.Errorf("chunk index = %d, want 0", chunks[0].Index)
	}
}

func TestSplitMissingFile(t *testing.T) {
	_, err := split(
		context.Background(),
		filepath.Join(t.TempDir(), "nope.mp3"),
		t.TempDir(),
		logging.NewLogger(false),
	)
	if err == nil {
		t.Error("expected error for missing audio file")
	}
}
