package transcribe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mgpai22/shabd/internal/transcript"
)

const (
	uvxCommand          = "uvx"
	defaultWhisperModel = "large-v2"
	pypiIndexURL        = "https://pypi.org/simple"
	cudaIndexURL        = "https://download.pytorch.org/whl/cu128"
)

// WhisperXOptions tunes the local WhisperX run.
type WhisperXOptions struct {
	Device      string // cpu or cuda
	ComputeType string // int8, float16, float32
	BatchSize   int
}

// CommandRunner executes an external command.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// WhisperXTranscriber runs WhisperX through uvx and reads back its aligned
// JSON output.
type WhisperXTranscriber struct {
	options Options
	run     CommandRunner
}

func NewWhisperXTranscriber(opts Options) *WhisperXTranscriber {
	return &WhisperXTranscriber{options: opts, run: runCommand}
}

// WithCommandRunner replaces process execution, for tests.
func (t *WhisperXTranscriber) WithCommandRunner(runner CommandRunner) {
	t.run = runner
}

func (t *WhisperXTranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*transcript.Transcript, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("audio file not found: %w", err)
	}

	outputDir, err := os.MkdirTemp("", "shabd-whisperx-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(outputDir)
	}()

	if err := t.run(ctx, uvxCommand, t.buildArgs(audioPath, outputDir)...); err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	result, err := transcript.Load(filepath.Join(outputDir, base+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read whisperx output: %w", err)
	}
	if result.Language == "" {
		result.Language = t.options.Language
	}
	return result, nil
}

func (t *WhisperXTranscriber) buildArgs(source, outputDir string) []string {
	cfg := t.options.WhisperX
	device := cfg.Device
	if device == "" {
		device = "cpu"
	}
	computeType := cfg.ComputeType
	if computeType == "" {
		computeType = "int8"
		if device == "cuda" {
			computeType = "float16"
		}
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 4
	}
	model := t.options.Model
	if model == "" {
		model = defaultWhisperModel
	}

	args := make([]string, 0, 24)
	if device == "cuda" {
		args = append(args, "--index-url", cudaIndexURL, "--extra-index-url", pypiIndexURL)
	} else {
		args = append(args, "--index-url", pypiIndexURL)
	}
	args = append(args,
		"whisperx",
		source,
		"--model", model,
		"--device", device,
		"--compute_type", computeType,
		"--batch_size", strconv.Itoa(batchSize),
		"--output_dir", outputDir,
		"--output_format", "json",
	)
	if t.options.Language != "" {
		args = append(args, "--language", t.options.Language)
	}
	return args
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// torch >= 2.6 defaults to weights_only loads, which the alignment
	// checkpoints do not support
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, truncateString(strings.TrimSpace(string(output)), 500))
	}
	return nil
}
