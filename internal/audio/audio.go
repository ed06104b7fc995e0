package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// settings for audio compression
type CompressionOptions struct {
	Format     string // Output format (mp3, aac, wav)
	SampleRate int    // Sample rate in Hz
	Channels   int    // Number of channels (1=mono, 2=stereo)
	Bitrate    string // Bitrate (e.g., "64k", "128k")
}

// defaults for transcription uploads
func DefaultCompressionOptions() CompressionOptions {
	return CompressionOptions{
		Format:     "mp3",
		SampleRate: 16000,
		Channels:   1,
		Bitrate:    "64k",
	}
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// duration of an audio/video file
func GetDuration(ctx context.Context, filePath string) (time.Duration, error) {
	if _, err := os.Stat(filePath); err != nil {
		return 0, fmt.Errorf("file not found: %w", err)
	}

	ffprobePath, err := FFprobePath()
	if err != nil {
		return 0, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
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
	return parseProbeDuration(out.Bytes())
}

func parseProbeDuration(data []byte) (time.Duration, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("negative duration %q", probe.Format.Duration)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// Prepare extracts or re-encodes the audio track of in into out, dropping any
// video stream. It produces the small mono file uploaded to remote providers.
func Prepare(
	ctx context.Context,
	inputPath, outputPath string,
	opts CompressionOptions,
) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file not found: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := FFmpegPath()
	if err != nil {
		return err
	}

	err = ffmpeg.Input(inputPath).
		Output(outputPath, outputArgs(opts)).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("audio preparation failed: %w", err)
	}
	return nil
}

func outputArgs(opts CompressionOptions) ffmpeg.KwArgs {
	kwargs := ffmpeg.KwArgs{
		"vn": "", // No video
		"y":  "",
	}
	if opts.SampleRate > 0 {
		kwargs["ar"] = opts.SampleRate
	}
	if opts.Channels > 0 {
		kwargs["ac"] = opts.Channels
	}

	switch opts.Format {
	case "wav":
		kwargs["acodec"] = "pcm_s16le"
		return kwargs
	case "aac":
		kwargs["acodec"] = "aac"
	default:
		kwargs["acodec"] = "libmp3lame"
	}
	if opts.Bitrate != "" {
		kwargs["b:a"] = opts.Bitrate
	}
	return kwargs
}

// ExtensionFor returns the file extension Prepare's output should carry.
func ExtensionFor(opts CompressionOptions) string {
	switch opts.Format {
	case "wav", "aac":
		return "." + opts.Format
	default:
		return ".mp3"
	}
}

var videoExts = map[string]bool{
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

var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".aac":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".m4a":  true,
	".wma":  true,
	".aiff": true,
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// checks if the file is an audio file based on extension
func IsAudioFile(path string) bool {
	return audioExts[strings.ToLower(filepath.Ext(path))]
}

// checks if the file is either audio or video
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}
