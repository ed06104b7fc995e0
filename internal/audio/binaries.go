package audio

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

const (
	envFFmpegPath  = "SHABD_FFMPEG_PATH"
	envFFprobePath = "SHABD_FFPROBE_PATH"
)

// ErrBinaryNotFound is returned when ffmpeg or ffprobe cannot be located.
var ErrBinaryNotFound = errors.New("binary not found")

// FFmpegPath returns $SHABD_FFMPEG_PATH, or ffmpeg from PATH.
func FFmpegPath() (string, error) {
	return locate(envFFmpegPath, "ffmpeg")
}

// FFprobePath returns $SHABD_FFPROBE_PATH, or ffprobe from PATH.
func FFprobePath() (string, error) {
	return locate(envFFprobePath, "ffprobe")
}

func locate(env, name string) (string, error) {
	if path := os.Getenv(env); path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%s points to an unusable %s: %w", env, name, err)
		}
		return path, nil
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s (install it or set %s): %w", ErrBinaryNotFound, name, env, err)
	}
	return path, nil
}
