// Package pipeline runs the transcription flow end to end: normalize the
// input audio, split it when it exceeds the upload limit, transcribe each
// unit, and assemble the SRT output. It never exits the process; all
// failures come back as errors so the CLI alone decides exit codes.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"scriba/internal/audio"
	"scriba/internal/ffmpeg"
	"scriba/internal/logging"
	"scriba/internal/subtitle"
	"scriba/internal/transcribe"
)

// Config carries everything one run needs.
type Config struct {
	InputPath  string
	OutputPath string
	Language   string // source language hint, e.g. "it"
	Model      string
	APIKey     string

	// Transcriber overrides the default Groq client; used by tests.
	Transcriber transcribe.Transcriber
}

// Run executes the pipeline for one input file and returns the path of
// the written subtitle file. The scratch directory is removed on every
// return path.
func Run(ctx context.Context, cfg Config, log *logging.Logger) (string, error) {
	// tooling must be present before any work starts
	if _, err := ffmpeg.Ensure(); err != nil {
		return "", err
	}

	transcriber := cfg.Transcriber
	if transcriber == nil {
		var err error
		transcriber, err = transcribe.NewGroqTranscriber(
			cfg.APIKey,
			transcribe.Options{
				Language: cfg.Language,
				Model:    cfg.Model,
			},
		)
		if err != nil {
			return "", err
		}
	}

	tempDir, err := os.MkdirTemp("", "scriba-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	audioPath, err := normalize(ctx, cfg.InputPath, tempDir, log)
	if err != nil {
		return "", err
	}

	chunks, err := split(ctx, audioPath, tempDir, log)
	if err != nil {
		return "", err
	}

	var segments []subtitle.Segment
	for i, chunk := range chunks {
		log.Infow("Transcribing",
			"chunk", i+1,
			"total", len(chunks),
		)
		chunkSegments, err := transcriber.TranscribeChunk(ctx, chunk)
		if err != nil {
			return "", fmt.Errorf("transcription failed: %w", err)
		}
		segments = append(segments, chunkSegments...)
	}

	sub, err := subtitle.FromSegments(segments)
	if err != nil {
		return "", err
	}

	writer, err := subtitle.NewWriter(subtitle.FormatSRT)
	if err != nil {
		return "", err
	}
	if err := writer.Write(sub, cfg.OutputPath); err != nil {
		return "", fmt.Errorf("failed to write subtitles: %w", err)
	}

	log.Infow("Subtitles written",
		"path", cfg.OutputPath,
		"entries", len(sub.Entries),
	)

	return cfg.OutputPath, nil
}

// normalize makes sure a service-ready audio file exists: audio inputs
// are used as-is, everything else is transcoded into the scratch dir
// under the normalization profile.
func normalize(
	ctx context.Context,
	inputPath, tempDir string,
	log *logging.Logger,
) (string, error) {
	if audio.IsAudioFile(inputPath) {
		return inputPath, nil
	}

	log.Infow("Extracting audio",
		"input", inputPath,
	)

	audioPath := filepath.Join(tempDir, "audio.mp3")
	if err := audio.ExtractAudio(
		ctx,
		inputPath,
		audioPath,
		audio.NormalizationProfile(),
	); err != nil {
		return "", fmt.Errorf("failed to extract audio: %w", err)
	}

	return audioPath, nil
}

// split decides between a single whole-file upload and fixed-duration
// chunks, based on the upload size limit.
func split(
	ctx context.Context,
	audioPath, tempDir string,
	log *logging.Logger,
) ([]audio.ChunkInfo, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat audio file: %w", err)
	}

	if info.Size() <= audio.MaxUploadSize {
		log.Infow("Audio fits within upload limit",
			"size", info.Size(),
		)
		return []audio.ChunkInfo{{Path: audioPath, Index: 0, Offset: 0}}, nil
	}

	totalDuration, err := audio.GetDuration(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio duration: %w", err)
	}

	chunkDuration := audio.ChunkDurationForSize(
		info.Size(),
		totalDuration,
		audio.MaxUploadSize,
	)

	log.Infow("Splitting audio into chunks",
		"size", info.Size(),
		"duration", totalDuration.String(),
		"chunk_duration", chunkDuration.String(),
	)

	chunks, err := audio.SplitAudio(
		ctx,
		audioPath,
		chunkDuration,
		filepath.Join(tempDir, "chunks"),
		audio.NormalizationProfile(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to split audio: %w", err)
	}

	log.Infow("Created audio chunks",
		"count", len(chunks),
	)

	return chunks, nil
}
