package logging_test

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mgpai22/shabd/internal/logging"
)

func TestNewFormats(t *testing.T) {
	tests := []struct {
		name    string
		opts    logging.Options
		wantErr bool
	}{
		{name: "defaults", opts: logging.Options{}},
		{name: "console debug", opts: logging.Options{Level: "debug", Format: "console"}},
		{name: "json", opts: logging.Options{Level: "warn", Format: "JSON"}},
		{name: "bad format", opts: logging.Options{Format: "xml"}, wantErr: true},
		{name: "bad level", opts: logging.Options{Level: "loud"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := logging.New(tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			if logger == nil {
				t.Fatal("expected logger instance")
			}
			logger.Debugw("debug message", "k", 1)
			_ = logger.Sync()
		})
	}
}

func TestNewLoggerVerbose(t *testing.T) {
	if !logging.NewLogger(true).Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose logger should enable debug")
	}
	if logging.NewLogger(false).Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("default logger should not enable debug")
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := logging.FromZap(zap.New(core)).With("run_id", "abc")

	logger.Infow("file converted", "input", "a.json")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["run_id"] != "abc" || fields["input"] != "a.json" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestNilWith(t *testing.T) {
	var logger *logging.Logger
	logger.With("k", "v").Infow("no panic")
}
