package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/piclinks/piclinks/internal/services"
	"github.com/piclinks/piclinks/internal/shared"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			api := services.NewAPIService("http://localhost:5000", httpClient)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				API:        api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.catalog == nil || runner.uploads == nil || runner.exports == nil {
				t.Error("expected typed services to be constructed")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil API builds one from config", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.api == nil {
				t.Error("expected API service to be constructed")
			}
		})
	})

	t.Run("register returns all top-level commands", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"setup", "upload", "albums", "files", "export", "admin", "snapshot", "prefetch", "tui"}
		if len(commands) != len(want) {
			t.Fatalf("len(commands) = %d, want %d", len(commands), len(want))
		}
		for i, name := range want {
			if commands[i].Name != name {
				t.Errorf("commands[%d].Name = %q, want %q", i, commands[i].Name, name)
			}
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("compact", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"album": "demo"}, false); err != nil {
				t.Fatalf("writeJSON() error = %v", err)
			}

			var decoded map[string]string
			if err := json.Unmarshal(output.Bytes(), &decoded); err != nil {
				t.Fatalf("Output is not valid JSON: %v", err)
			}
			if decoded["album"] != "demo" {
				t.Errorf("decoded album = %q, want %q", decoded["album"], "demo")
			}
		})

		t.Run("pretty", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON([]string{"a", "b"}, true); err != nil {
				t.Fatalf("writeJSON() error = %v", err)
			}
			if !strings.Contains(output.String(), "\n  ") {
				t.Errorf("Pretty output missing indentation: %q", output.String())
			}
		})

		t.Run("unmarshalable value fails", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
			if err := runner.writeJSON(make(chan int), false); err == nil {
				t.Error("writeJSON() error = nil, want error")
			}
		})
	})

	t.Run("writePlain and writePlainln", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		runner.writePlain("album %s", "demo")
		if got := output.String(); got != "album demo" {
			t.Errorf("writePlain output = %q, want %q", got, "album demo")
		}

		output.Reset()
		runner.writePlainln("done")
		if got := output.String(); got != "\ndone\n" {
			t.Errorf("writePlainln output = %q, want %q", got, "\ndone\n")
		}
	})

	t.Run("writePlainHeader frames the title", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		runner.writePlainHeader("Albums (2)")
		lines := strings.Split(strings.TrimSpace(output.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("Header has %d lines, want 3", len(lines))
		}
		if lines[1] != "Albums (2)" {
			t.Errorf("Header title = %q, want %q", lines[1], "Albums (2)")
		}
	})
}
