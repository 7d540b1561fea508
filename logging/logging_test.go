package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestBuild_Levels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		color   bool
		debug   bool
	}{
		{"quiet", false, false, false},
		{"verbose", true, false, true},
		{"verbose color", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := build(tt.verbose, tt.color)
			if err != nil {
				t.Fatalf("build failed: %v", err)
			}
			if got := logger.Core().Enabled(zapcore.DebugLevel); got != tt.debug {
				t.Errorf("debug enabled = %v, want %v", got, tt.debug)
			}
			if !logger.Core().Enabled(zapcore.InfoLevel) {
				t.Error("info should always be enabled")
			}
		})
	}
}

func TestNew(t *testing.T) {
	logger, err := New(false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger == nil {
		t.Fatal("New returned a nil logger")
	}
}
