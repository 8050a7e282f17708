package main

import (
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevel(t *testing.T) {
	testCases := []struct {
		name     string
		verbose  bool
		debug    bool
		expected slog.Level
	}{
		{"default", false, false, slog.LevelInfo},
		{"verbose", true, false, slog.LevelInfo},
		{"debug", false, true, slog.LevelDebug},
		{"debug wins over verbose", true, true, slog.LevelDebug},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := logLevel(tc.verbose, tc.debug); got != tc.expected {
				t.Errorf("logLevel(%v, %v) = %v, want %v", tc.verbose, tc.debug, got, tc.expected)
			}
		})
	}
}

func TestRootCommand_RequiresURI(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error when --uri is missing")
	}
	if !strings.Contains(err.Error(), "uri") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRootCommand_RejectsInvalidProcess(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--uri", "http://api.example.com", "--process", "nonsense"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for invalid process job")
	}
	if !strings.Contains(err.Error(), "invalid process job") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRootCommand_GroupRequiresGroupID(t *testing.T) {
	groupID = ""
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--uri", "http://api.example.com", "--process", "group"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error when --group is missing")
	}
	if !strings.Contains(err.Error(), "--group is required") {
		t.Errorf("unexpected error: %v", err)
	}
}
