package runner

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SiirRandall/tuxport/internal/config"
	"github.com/SiirRandall/tuxport/internal/scrape"
	"github.com/SiirRandall/tuxport/internal/wine"
)

// writeLauncher creates a stub launcher that records its first argument.
func writeLauncher(t *testing.T) (launcher, marker string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub launchers are shell scripts")
	}
	dir := t.TempDir()
	marker = filepath.Join(dir, "ran")
	launcher = filepath.Join(dir, "fakewine")
	script := "#!/bin/sh\n" +
		`[ "$1" = "--version" ] && exit 0` + "\n" +
		`echo "$1" > "` + marker + `"` + "\n"
	if err := os.WriteFile(launcher, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return launcher, marker
}

func newService(t *testing.T, launcher string) (*Service, string) {
	t.Helper()
	settings := config.Defaults()
	settings.LauncherPath = launcher
	dir := t.TempDir()
	return New(settings, Options{DownloadDir: dir}), dir
}

type recorder struct {
	mu       sync.Mutex
	starts   int
	statuses []string
	progress []int
	// statuses seen when OnStart fired
	beforeStart int
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		OnStart: func() {
			r.mu.Lock()
			r.starts++
			r.beforeStart = len(r.statuses)
			r.mu.Unlock()
		},
		OnStatus: func(s string) {
			r.mu.Lock()
			r.statuses = append(r.statuses, s)
			r.mu.Unlock()
		},
		OnProgress: func(p int) {
			r.mu.Lock()
			r.progress = append(r.progress, p)
			r.mu.Unlock()
		},
	}
}

func installerServer(t *testing.T, page string) (*httptest.Server, *[]string) {
	t.Helper()
	var mu sync.Mutex
	var requested []string
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		mu.Lock()
		requested = append(requested, r.URL.Path)
		mu.Unlock()
		if strings.HasSuffix(r.URL.Path, ".exe") {
			w.Header().Set("Content-Length", "2")
			_, _ = w.Write([]byte("MZ"))
			return
		}
		_, _ = fmt.Fprint(w, page)
	}))
	t.Cleanup(srv.Close)
	return srv, &requested
}

func TestRunInstallerRejectsNonExe(t *testing.T) {
	launcher, marker := writeLauncher(t)
	svc, _ := newService(t, launcher)

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := svc.RunInstaller(context.Background(), path, Hooks{}); !errors.Is(err, ErrNotInstaller) {
		t.Errorf("expected ErrNotInstaller, got %v", err)
	}
	if _, err := os.Stat(marker); err == nil {
		t.Error("launcher should not run for a non-installer")
	}
}

func TestRunInstallerRejectsMissingFile(t *testing.T) {
	launcher, marker := writeLauncher(t)
	svc, _ := newService(t, launcher)

	err := svc.RunInstaller(context.Background(), filepath.Join(t.TempDir(), "gone.exe"), Hooks{})
	if !errors.Is(err, wine.ErrInstallerMissing) {
		t.Errorf("expected ErrInstallerMissing, got %v", err)
	}
	if _, err := os.Stat(marker); err == nil {
		t.Error("launcher should not run for a missing file")
	}
}

func TestRunInstallerLaunches(t *testing.T) {
	launcher, marker := writeLauncher(t)
	svc, _ := newService(t, launcher)

	path := filepath.Join(t.TempDir(), "Setup.EXE")
	if err := os.WriteFile(path, []byte("MZ"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := &recorder{}
	if err := svc.RunInstaller(context.Background(), path, rec.hooks()); err != nil {
		t.Fatalf("RunInstaller failed: %v", err)
	}
	got, err := os.ReadFile(marker)
	if err != nil || strings.TrimSpace(string(got)) != path {
		t.Errorf("expected launcher to receive %s, got %q (%v)", path, got, err)
	}
	expected := []string{StatusRunning, StatusFinished}
	if strings.Join(rec.statuses, "|") != strings.Join(expected, "|") {
		t.Errorf("expected statuses %v, got %v", expected, rec.statuses)
	}
	if svc.Busy() {
		t.Error("slot should be released after the action")
	}
}

func TestBusySlotRejectsActions(t *testing.T) {
	launcher, _ := writeLauncher(t)
	svc, _ := newService(t, launcher)
	svc.busy.Store(true)

	ctx := context.Background()
	if err := svc.RunInstaller(ctx, "a.exe", Hooks{}); !errors.Is(err, ErrBusy) {
		t.Errorf("RunInstaller: expected ErrBusy, got %v", err)
	}
	if err := svc.DownloadAndRun(ctx, "http://example.invalid/a.exe", nil, Hooks{}); !errors.Is(err, ErrBusy) {
		t.Errorf("DownloadAndRun: expected ErrBusy, got %v", err)
	}
	if _, err := svc.Download(ctx, "http://example.invalid/a.exe", "", nil, Hooks{}); !errors.Is(err, ErrBusy) {
		t.Errorf("Download: expected ErrBusy, got %v", err)
	}
}

func TestConcurrentActionGetsBusy(t *testing.T) {
	launcher, _ := writeLauncher(t)
	svc, _ := newService(t, launcher)

	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		close(entered)
		<-release
		_, _ = w.Write([]byte("MZ"))
	}))
	defer srv.Close()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Download(context.Background(), srv.URL+"/slow.exe", "", nil, Hooks{})
		done <- err
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("download never reached the server")
	}
	if err := svc.RunInstaller(context.Background(), "x.exe", Hooks{}); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy while a download is running, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Errorf("first action failed: %v", err)
	}
	if svc.Busy() {
		t.Error("slot should be free after the first action")
	}
}

func TestDownloadAndRunEmptyURL(t *testing.T) {
	svc, _ := newService(t, "wine")
	for _, url := range []string{"", "   "} {
		if err := svc.DownloadAndRun(context.Background(), url, nil, Hooks{}); !errors.Is(err, ErrEmptyURL) {
			t.Errorf("DownloadAndRun(%q): expected ErrEmptyURL, got %v", url, err)
		}
	}
}

func TestDownloadAndRunDirectExe(t *testing.T) {
	launcher, marker := writeLauncher(t)
	svc, dir := newService(t, launcher)
	srv, requested := installerServer(t, "<html></html>")

	rec := &recorder{}
	chooseCalled := false
	choose := func([]string) (int, bool) { chooseCalled = true; return 0, true }
	if err := svc.DownloadAndRun(context.Background(), srv.URL+"/files/setup.exe", choose, rec.hooks()); err != nil {
		t.Fatalf("DownloadAndRun failed: %v", err)
	}

	if chooseCalled {
		t.Error("a direct .exe URL should not ask for a choice")
	}
	if len(*requested) != 1 || (*requested)[0] != "/files/setup.exe" {
		t.Errorf("expected only the installer to be requested, got %v", *requested)
	}
	want := filepath.Join(dir, "setup.exe")
	got, err := os.ReadFile(marker)
	if err != nil || strings.TrimSpace(string(got)) != want {
		t.Errorf("expected launcher to receive %s, got %q (%v)", want, got, err)
	}
	expected := []string{StatusDownloading, StatusDownloaded, StatusRunning, StatusFinished}
	if strings.Join(rec.statuses, "|") != strings.Join(expected, "|") {
		t.Errorf("expected statuses %v, got %v", expected, rec.statuses)
	}
	if len(rec.progress) == 0 || rec.progress[len(rec.progress)-1] != 100 {
		t.Errorf("expected progress ending at 100, got %v", rec.progress)
	}
	if rec.starts != 1 || rec.beforeStart != 0 {
		t.Errorf("expected one OnStart before any status, got %d after %d statuses", rec.starts, rec.beforeStart)
	}
}

func TestOnStartSkippedWhenBusy(t *testing.T) {
	svc, _ := newService(t, "wine")
	svc.busy.Store(true)

	rec := &recorder{}
	if err := svc.RunInstaller(context.Background(), "x.exe", rec.hooks()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := svc.DownloadAndRun(context.Background(), "http://example.invalid/a.exe", nil, rec.hooks()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if rec.starts != 0 || len(rec.statuses) != 0 || len(rec.progress) != 0 {
		t.Errorf("a rejected action must not report anything, got starts=%d statuses=%v progress=%v",
			rec.starts, rec.statuses, rec.progress)
	}
	if !svc.Busy() {
		t.Error("a rejected action must not free the slot")
	}
}

func TestDownloadUnknownSizeReportsNoProgress(t *testing.T) {
	svc, _ := newService(t, "wine")
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = w.Write([]byte("MZ"))
		// flushing before the handler returns forces a chunked body
		w.(nethttp.Flusher).Flush()
	}))
	defer srv.Close()

	rec := &recorder{}
	path, err := svc.Download(context.Background(), srv.URL+"/setup.exe", t.TempDir(), nil, rec.hooks())
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "MZ" {
		t.Errorf("unexpected file contents %q (%v)", data, err)
	}
	if len(rec.progress) != 0 {
		t.Errorf("expected no progress without a Content-Length, got %v", rec.progress)
	}
	if len(rec.statuses) != 1 || rec.statuses[0] != StatusDownloading {
		t.Errorf("expected only %q, got %v", StatusDownloading, rec.statuses)
	}
}

func TestDownloadScrapesAndUsesChoice(t *testing.T) {
	launcher, _ := writeLauncher(t)
	svc, _ := newService(t, launcher)
	page := `<a href="/a/first.exe">1</a><a href="second.exe">2</a>`
	srv, _ := installerServer(t, page)

	var offered []string
	choose := func(links []string) (int, bool) {
		offered = links
		return 1, true
	}
	dir := t.TempDir()
	path, err := svc.Download(context.Background(), srv.URL+"/downloads/", dir, choose, Hooks{})
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	expectedLinks := []string{srv.URL + "/a/first.exe", srv.URL + "/downloads/second.exe"}
	if strings.Join(offered, " ") != strings.Join(expectedLinks, " ") {
		t.Errorf("expected links %v, got %v", expectedLinks, offered)
	}
	if path != filepath.Join(dir, "second.exe") {
		t.Errorf("expected second.exe in %s, got %s", dir, path)
	}
}

func TestDownloadAndRunCancelledChoice(t *testing.T) {
	launcher, marker := writeLauncher(t)
	svc, _ := newService(t, launcher)
	srv, requested := installerServer(t, `<a href="x.exe">x</a>`)

	err := svc.DownloadAndRun(context.Background(), srv.URL+"/", func([]string) (int, bool) { return 0, false }, Hooks{})
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
	if len(*requested) != 1 {
		t.Errorf("expected only the page to be requested, got %v", *requested)
	}
	if _, err := os.Stat(marker); err == nil {
		t.Error("launcher should not run after a cancelled choice")
	}
}

func TestDownloadAndRunNoLinks(t *testing.T) {
	svc, _ := newService(t, "wine")
	srv, _ := installerServer(t, `<a href="readme.txt">r</a>`)

	err := svc.DownloadAndRun(context.Background(), srv.URL+"/", nil, Hooks{})
	if !errors.Is(err, scrape.ErrNoLinksFound) {
		t.Errorf("expected ErrNoLinksFound, got %v", err)
	}
}

func TestProbeFollowsSettings(t *testing.T) {
	launcher, _ := writeLauncher(t)
	svc, _ := newService(t, "tuxport-no-such-launcher-binary")

	if svc.Probe(context.Background()) {
		t.Error("expected probe to fail for a missing launcher")
	}
	settings := svc.Settings()
	settings.LauncherPath = launcher
	svc.SetSettings(settings)
	if !svc.Probe(context.Background()) {
		t.Error("expected probe to use the updated launcher")
	}
}

func TestValidateInstaller(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "ok.exe")
	if err := os.WriteFile(exe, []byte("MZ"), 0o644); err != nil {
		t.Fatal(err)
	}
	folder := filepath.Join(dir, "folder.exe")
	if err := os.Mkdir(folder, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path     string
		expected error
	}{
		{exe, nil},
		{filepath.Join(dir, "missing.exe"), wine.ErrInstallerMissing},
		{filepath.Join(dir, "setup.msi"), ErrNotInstaller},
		{folder, ErrNotInstaller},
		{"", ErrNotInstaller},
	}
	for _, test := range tests {
		err := ValidateInstaller(test.path)
		if test.expected == nil && err != nil {
			t.Errorf("ValidateInstaller(%q) = %v, expected nil", test.path, err)
		}
		if test.expected != nil && !errors.Is(err, test.expected) {
			t.Errorf("ValidateInstaller(%q) = %v, expected %v", test.path, err, test.expected)
		}
	}
}
