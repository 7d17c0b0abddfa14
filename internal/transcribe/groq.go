package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"scriba/internal/audio"
	"scriba/internal/subtitle"
)

// Groq exposes Whisper behind an OpenAI-compatible API.
const groqBaseURL = "https://api.groq.com/openai/v1"

// GroqTranscriber implements Transcriber against Groq's speech-to-text
// endpoint. Decoding is deterministic (temperature 0) and requests
// segment-level timestamps.
type GroqTranscriber struct {
	client  openai.Client
	model   string
	options Options
}

// segment from the Whisper verbose_json response
type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// verbose_json response structure from Whisper
type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewGroqTranscriber(apiKey string, opts Options) (*GroqTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(groqBaseURL),
	)

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	return &GroqTranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// Transcribe uploads a single audio file and returns its segments with
// timestamps relative to the start of that file. A response without
// segments yields an empty slice, not an error.
func (t *GroqTranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
		Temperature:            openai.Float(0),
	}

	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}
	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	segments, duration, err := parseVerboseJSON(resp.RawJSON())
	if err != nil {
		return nil, err
	}

	return &Result{
		Segments: segments,
		Language: t.options.Language,
		Duration: duration,
	}, nil
}

// TranscribeChunk transcribes one chunk and shifts its segments onto the
// global timeline using the chunk's offset.
func (t *GroqTranscriber) TranscribeChunk(
	ctx context.Context,
	chunk audio.ChunkInfo,
) ([]subtitle.Segment, error) {
	result, err := t.Transcribe(ctx, chunk.Path)
	if err != nil {
		return nil, err
	}

	return offsetSegments(result.Segments, chunk.Offset), nil
}

// offsetSegments shifts chunk-relative timestamps by the chunk's start
// offset in the original audio.
func offsetSegments(
	segments []subtitle.Segment,
	offset time.Duration,
) []subtitle.Segment {
	shifted := make([]subtitle.Segment, len(segments))
	for i, seg := range segments {
		shifted[i] = subtitle.Segment{
			StartTime: seg.StartTime + offset,
			EndTime:   seg.EndTime + offset,
			Text:      seg.Text,
		}
	}
	return shifted
}

func parseVerboseJSON(
	rawJSON string,
) ([]subtitle.Segment, time.Duration, error) {
	if rawJSON == "" {
		return nil, 0, fmt.Errorf("empty response")
	}

	var verboseResp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verboseResp); err != nil {
		return nil, 0, fmt.Errorf(
			"failed to parse verbose_json response: %w",
			err,
		)
	}

	duration := time.Duration(verboseResp.Duration * float64(time.Second))

	segments := make([]subtitle.Segment, 0, len(verboseResp.Segments))
	for _, seg := range verboseResp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, subtitle.Segment{
			StartTime: time.Duration(seg.Start * float64(time.Second)),
			EndTime:   time.Duration(seg.End * float64(time.Second)),
			Text:      text,
		})
	}

	return segments, duration, nil
}
