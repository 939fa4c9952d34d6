package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hochfrequenz/cycle-timer/internal/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigInitAndShow(t *testing.T) {
	initForce = false
	path := filepath.Join(t.TempDir(), "cycle-timer", "config.toml")

	out, err := execute(t, "config", "init", "--config", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote default config") {
		t.Errorf("config init output = %q", out)
	}

	if _, err := execute(t, "config", "init", "--config", path); err == nil {
		t.Error("second config init should refuse to overwrite")
	}

	out, err = execute(t, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "default_minutes = 25") {
		t.Errorf("config show output missing default_minutes:\n%s", out)
	}
}

func TestStart_RejectsInvalidCycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"zero minutes", []string{"start", "Task", "--minutes", "0", "--config", path}, domain.ErrMinutesOutOfRange},
		{"too long", []string{"start", "Task", "--minutes", "61", "--config", path}, domain.ErrMinutesOutOfRange},
		{"blank task", []string{"start", " ", "--minutes", "25", "--config", path}, domain.ErrTaskRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			startMinutes = 0
			_, err := execute(t, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("start error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
