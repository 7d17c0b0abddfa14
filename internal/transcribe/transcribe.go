package transcribe

import (
	"context"
	"time"

	"scriba/internal/audio"
	"scriba/internal/subtitle"
)

// Result of transcribing one audio unit.
type Result struct {
	Segments []subtitle.Segment
	Language string
	Duration time.Duration
}

// Transcriber turns an audio file into time-stamped segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
	TranscribeChunk(
		ctx context.Context,
		chunk audio.ChunkInfo,
	) ([]subtitle.Segment, error)
}

// DefaultModel is the Whisper model used when none is specified.
const DefaultModel = "whisper-large-v3-turbo"

// Options for a transcription request.
type Options struct {
	Language string // Source language hint (ISO 639-1)
	Model    string
	Prompt   string
}
