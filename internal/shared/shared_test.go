package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{"zero", 0, "0 Bytes"},
		{"negative", -10, "0 Bytes"},
		{"bytes", 512, "512 Bytes"},
		{"one kilobyte", 1024, "1 KB"},
		{"fractional kilobytes", 1536, "1.5 KB"},
		{"two kilobytes", 2048, "2 KB"},
		{"megabytes", 3 * 1024 * 1024, "3 MB"},
		{"fractional megabytes", 3586458, "3.42 MB"},
		{"gigabytes", 5 * 1024 * 1024 * 1024, "5 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBytes(tt.n); got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("GenerateID() returned duplicate values")
	}
	if len(a) != 36 {
		t.Errorf("GenerateID() length = %d, want 36", len(a))
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]int{"files": 3}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(compact) != `{"files":3}` {
		t.Errorf("compact = %s", compact)
	}

	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("MarshalJSON(pretty) error = %v", err)
	}
	if !bytes.Contains(pretty, []byte("\n  ")) {
		t.Errorf("pretty output missing indentation: %s", pretty)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.Info("catalog ready", "albums", 2)

	out := buf.String()
	if !strings.Contains(out, "catalog ready") {
		t.Errorf("log output missing message: %q", out)
	}
	if !strings.Contains(out, "albums") {
		t.Errorf("log output missing key: %q", out)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "piclinks.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	logger.Info("hello")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(content), "hello") {
		t.Errorf("log file missing entry: %q", content)
	}
}
