package log

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestNewRotatingFileWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")
	l := NewRotatingFile(slog.LevelInfo, RotatingFileConfig{
		Path:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	})
	l.Info("node starting", "datadir", "/tmp/x")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(raw, &entry); err != nil {
		t.Fatalf("unmarshal: %v (raw: %s)", err, raw)
	}
	if entry["msg"] != "node starting" {
		t.Fatalf("msg = %v, want %q", entry["msg"], "node starting")
	}
	if entry["datadir"] != "/tmp/x" {
		t.Fatalf("datadir = %v, want %q", entry["datadir"], "/tmp/x")
	}
}
