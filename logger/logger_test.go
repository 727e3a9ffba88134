package logger

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWithFileConfigNoConsole(t *testing.T) {
	log, err := NewWithFileConfig("info", FileConfig{}, false)
	if err != nil {
		t.Fatalf("NewWithFileConfig: %v", err)
	}
	if log == nil {
		t.Fatal("NewWithFileConfig returned a nil logger")
	}
	// Must not panic with no cores configured.
	log.Info("test message")
}

func TestNewWritesToRotatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voxelizer.log")

	log, err := New("debug", path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("hello")
	_ = log.Sync()
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/x.log")
	if cfg.Path != "/tmp/x.log" {
		t.Errorf("Path = %q, want /tmp/x.log", cfg.Path)
	}
	if cfg.MaxSizeMB <= 0 || cfg.MaxBackups <= 0 || cfg.MaxAgeDays <= 0 {
		t.Errorf("DefaultFileConfig produced a non-positive rotation parameter: %+v", cfg)
	}
}
