package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "scriba/internal/ffmpeg"
)

// MaxUploadSize is the largest audio payload sent to the transcription
// service in one request: 24 MiB, a safety margin under the 25 MB cap.
const MaxUploadSize int64 = 24 << 20

// ChunkInfo is one time-bounded slice of the normalized audio. Offset is
// the chunk's start position on the original timeline.
type ChunkInfo struct {
	Path   string
	Index  int
	Offset time.Duration
}

// EncodeOptions describe an audio encoding profile.
type EncodeOptions struct {
	Format     string // Output format (mp3, aac, etc.)
	SampleRate int    // Sample rate in Hz
	Channels   int    // Number of channels (1=mono, 2=stereo)
	Bitrate    string // Bitrate (e.g., "48k", "128k")
}

// NormalizationProfile is the fixed encoding applied to all audio before
// upload: mono, 16 kHz, 48 kbps mp3.
func NormalizationProfile() EncodeOptions {
	return EncodeOptions{
		Format:     "mp3",
		SampleRate: 16000,
		Channels:   1,
		Bitrate:    "48k",
	}
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// GetDuration probes the duration of an audio/video file.
func GetDuration(filePath string) (time.Duration, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", filePath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return 0, err
	}

	cmd := exec.Command(ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var seconds float64
	if _, err := fmt.Sscanf(probe.Format.Duration, "%f", &seconds); err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// ExtractAudio transcodes the input into a standalone audio file with the
// given profile, dropping any video stream.
func ExtractAudio(
	ctx context.Context,
	inputPath, outputPath string,
	opts EncodeOptions,
) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	err = ffmpeg.Input(inputPath).
		Output(outputPath, encodeKwargs(opts)).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()

	if err != nil {
		return fmt.Errorf("audio extraction failed: %w", err)
	}

	return nil
}

// encodeKwargs maps an encoding profile onto ffmpeg arguments.
func encodeKwargs(opts EncodeOptions) ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"vn": "",              // No video
		"ar": opts.SampleRate, // Sample rate
		"ac": opts.Channels,   // Channels
		"y":  "",              // Overwrite output
	}

	switch opts.Format {
	case "aac":
		kwargs["acodec"] = "aac"
	case "flac":
		kwargs["acodec"] = "flac"
	case "wav":
		kwargs["acodec"] = "pcm_s16le"
	default:
		kwargs["acodec"] = "libmp3lame"
	}

	if opts.Bitrate != "" && opts.Format != "flac" && opts.Format != "wav" {
		kwargs["b:a"] = opts.Bitrate
	}

	return kwargs
}

// ChunkDurationForSize estimates the chunk duration whose encoded size
// stays at or under limitBytes, assuming constant bitrate:
// limit / (size / duration), truncated to whole seconds. The estimate can
// misjudge variable-bitrate sources; the approximation is inherited and
// kept as-is.
func ChunkDurationForSize(
	sizeBytes int64,
	total time.Duration,
	limitBytes int64,
) time.Duration {
	if sizeBytes <= 0 || total <= 0 {
		return 0
	}

	bytesPerSecond := float64(sizeBytes) / total.Seconds()
	seconds := math.Floor(float64(limitBytes) / bytesPerSecond)
	if seconds < 1 {
		seconds = 1
	}

	return time.Duration(seconds) * time.Second
}

// chunkSpec is one planned cut before any ffmpeg invocation.
type chunkSpec struct {
	index int
	start time.Duration
}

// planChunks lays out chunk start offsets 0, C, 2C, ... covering
// [0, total) with no gaps or overlap. The final chunk may be shorter than
// chunk; the transcoder truncates at end of stream.
func planChunks(total, chunk time.Duration) []chunkSpec {
	var specs []chunkSpec
	for i := 0; ; i++ {
		start := time.Duration(i) * chunk
		if start >= total {
			break
		}
		specs = append(specs, chunkSpec{index: i, start: start})
	}
	return specs
}

// SplitAudio cuts an audio file into chunks of the given duration, each
// re-encoded with the supplied profile. Chunks are produced sequentially
// in timeline order.
func SplitAudio(
	ctx context.Context,
	audioPath string,
	chunkDuration time.Duration,
	outputDir string,
	opts EncodeOptions,
) ([]ChunkInfo, error) {
	if chunkDuration <= 0 {
		return nil, fmt.Errorf(
			"chunk duration must be positive, got %v",
			chunkDuration,
		)
	}

	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	totalDuration, err := GetDuration(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio duration: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create chunk directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}

	var chunks []ChunkInfo
	for _, spec := range planChunks(totalDuration, chunkDuration) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chunkPath := filepath.Join(
			outputDir,
			fmt.Sprintf("chunk_%04d.%s", spec.index, opts.Format),
		)

		kwargs := encodeKwargs(opts)
		kwargs["ss"] = spec.start.Seconds()
		kwargs["t"] = chunkDuration.Seconds()

		err := ffmpeg.Input(audioPath).
			Output(chunkPath, kwargs).
			OverWriteOutput().
			SetFfmpegPath(ffmpegPath).
			Run()
		if err != nil {
			return nil, fmt.Errorf(
				"failed to create chunk %d: %w",
				spec.index,
				err,
			)
		}

		chunks = append(chunks, ChunkInfo{
			Path:   chunkPath,
			Index:  spec.index,
			Offset: spec.start,
		})
	}

	return chunks, nil
}

// IsAudioFile reports whether the file is an audio container the
// transcription service accepts directly, based on extension.
func IsAudioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	audioExts := map[string]bool{
		".mp3":  true,
		".wav":  true,
		".flac": true,
		".ogg":  true,
		".m4a":  true,
		".aac":  true,
		".wma":  true,
		".opus": true,
	}
	return audioExts[ext]
}

// IsVideoFile reports whether the file is a video based on extension.
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".wmv":  true,
		".flv":  true,
		".webm": true,
		".m4v":  true,
		".mpeg": true,
		".mpg":  true,
		".3gp":  true,
	}
	return videoExts[ext]
}

// IsMediaFile reports whether the file is either audio or video.
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}
