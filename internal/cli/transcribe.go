package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scriba/internal/audio"
	"scriba/internal/pipeline"
	"scriba/internal/transcribe"

	"github.com/spf13/cobra"
)

// DefaultLanguage is the source language assumed when --language is not
// given.
const DefaultLanguage = "it"

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [media_file]",
	Short: "Transcribe an audio or video file into SRT subtitles",
	Long: `Transcribe the specified audio or video file using the Whisper API.

The command accepts both audio files (mp3, wav, m4a, etc.) and video
files (mp4, mkv, etc.). For video files, audio is extracted first.

Audio larger than the 24 MiB upload limit is split into fixed-duration
chunks which are transcribed one at a time, in order.

Examples:
  scriba transcribe video.mp4
  scriba transcribe lecture.mp3 -l en
  scriba transcribe video.mp4 --api-key YOUR_KEY -o subs.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)

	transcribeCmd.Flags().
		StringP("api-key", "k", "", "Groq API key (or set GROQ_API_KEY env var)")
	transcribeCmd.Flags().
		String("model", transcribe.DefaultModel, "Whisper model to use for transcription")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !audio.IsMediaFile(mediaPath) {
		return fmt.Errorf(
			"unsupported file type: %s (expected audio or video file)",
			filepath.Ext(mediaPath),
		)
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")

	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf(
			"Groq API key is required: use --api-key flag or set GROQ_API_KEY environment variable",
		)
	}

	if language == "" {
		language = DefaultLanguage
	}
	if outputPath == "" {
		outputPath = defaultOutputPath(mediaPath)
	}

	logger.Infow("Starting transcription",
		"input", mediaPath,
		"output", outputPath,
		"language", language,
		"model", model,
	)

	resultPath, err := pipeline.Run(ctx, pipeline.Config{
		InputPath:  mediaPath,
		OutputPath: outputPath,
		Language:   language,
		Model:      model,
		APIKey:     apiKey,
	}, logger)
	if err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(resultPath)
	fmt.Printf("Subtitles generated successfully: %s\n", absOutput)

	return nil
}

// defaultOutputPath swaps the media extension for .srt, next to the
// input.
func defaultOutputPath(mediaPath string) string {
	return strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + ".srt"
}
