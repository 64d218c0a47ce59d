package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/SiirRandall/tuxport/internal/download"
	"github.com/SiirRandall/tuxport/internal/runner"
	"github.com/SiirRandall/tuxport/internal/scrape"
	"github.com/SiirRandall/tuxport/internal/wine"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err   error
		title string
		known bool
	}{
		{runner.ErrEmptyURL, "Invalid URL", true},
		{runner.ErrBusy, "Busy", true},
		{fmt.Errorf("%w: a.txt", runner.ErrNotInstaller), "Not an Installer", true},
		{fmt.Errorf("%w: /tmp/x.exe", wine.ErrInstallerMissing), "Error", true},
		{fmt.Errorf("%w: wine", wine.ErrLauncherNotFound), "Wine Not Found", true},
		{&scrape.Error{URL: "http://x", Err: scrape.ErrNoLinksFound}, "No .exe Found", true},
		{&wine.LaunchError{Launcher: "wine", Path: "a.exe", ExitCode: 1}, "Error", true},
		{&download.Error{URL: "http://x/a.exe", Err: errors.New("boom")}, "", false},
	}
	for _, test := range tests {
		title, msg, known := userMessage(test.err)
		if known != test.known || title != test.title {
			t.Errorf("userMessage(%v) = (%q, %v), expected (%q, %v)", test.err, title, known, test.title, test.known)
		}
		if known && msg == "" {
			t.Errorf("userMessage(%v) returned an empty message", test.err)
		}
	}
}

func TestFormatLogLine(t *testing.T) {
	now := time.Date(2025, 1, 2, 9, 4, 5, 0, time.UTC)
	got := formatLogLine(now, "Downloaded %s", "setup.exe")
	if got != "[09:04:05] Downloaded setup.exe\n" {
		t.Errorf("unexpected log line %q", got)
	}
	if !strings.HasSuffix(formatLogLine(now, "x"), "\n") {
		t.Error("log lines should end with a newline")
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		in       int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, test := range tests {
		if got := humanSize(test.in); got != test.expected {
			t.Errorf("humanSize(%d) = %q, expected %q", test.in, got, test.expected)
		}
	}
}
