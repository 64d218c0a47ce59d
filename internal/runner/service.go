// Package runner coordinates one user action at a time: validating an
// installer, resolving and downloading a URL, and handing the file to the
// configured launcher.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	nethttp "net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/SiirRandall/tuxport/internal/config"
	"github.com/SiirRandall/tuxport/internal/download"
	"github.com/SiirRandall/tuxport/internal/logging"
	"github.com/SiirRandall/tuxport/internal/scrape"
	"github.com/SiirRandall/tuxport/internal/wine"
)

// Status lines reported through Hooks.OnStatus.
const (
	StatusIdle        = "Select and run a Windows installer (.exe) using Wine."
	StatusScraping    = "Looking for installers..."
	StatusDownloading = "Downloading..."
	StatusDownloaded  = "Download complete. Running installer..."
	StatusRunning     = "Running installer..."
	StatusFinished    = "Installer finished."
)

var (
	// ErrBusy means another action is still in flight.
	ErrBusy = errors.New("another action is already running")
	// ErrEmptyURL means the URL field was blank.
	ErrEmptyURL = errors.New("please enter a URL")
	// ErrCancelled means the user dismissed the link picker.
	ErrCancelled = errors.New("cancelled")
	// ErrNotInstaller means the chosen file has no .exe suffix.
	ErrNotInstaller = errors.New("not a Windows installer (.exe)")
)

// Hooks receive progress from the action's goroutine, in order. Any may be nil.
// OnStart fires once the action holds the busy slot and never for ErrBusy.
// OnProgress only fires when the download size is known.
type Hooks struct {
	OnStart    func()
	OnStatus   func(status string)
	OnProgress func(percent int)
}

func (h Hooks) start() {
	if h.OnStart != nil {
		h.OnStart()
	}
}

func (h Hooks) status(s string) {
	if h.OnStatus != nil {
		h.OnStatus(s)
	}
}

func (h Hooks) progress(p int) {
	if h.OnProgress != nil {
		h.OnProgress(p)
	}
}

// ChooseFunc picks one of several candidate links. ok=false cancels.
type ChooseFunc func(links []string) (index int, ok bool)

// Options configure a Service.
type Options struct {
	// Client is shared by the scraper and downloader. Nil uses a default client.
	Client *nethttp.Client
	// DownloadDir receives downloads. Empty means the OS temp dir.
	DownloadDir string
	Logger      *logging.Logger
}

// Service runs user actions against the current settings.
type Service struct {
	mu       sync.RWMutex
	settings config.Settings

	busy atomic.Bool

	downloadDir string
	scraper     *scrape.Scraper
	downloader  *download.Downloader
	log         *logging.Logger
}

// New creates a Service using settings for subsequent actions.
func New(settings config.Settings, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Service{
		settings:    settings,
		downloadDir: opts.DownloadDir,
		scraper:     scrape.New(opts.Client, log),
		downloader:  download.New(opts.Client, log),
		log:         log,
	}
}

// Settings returns the settings in effect.
func (s *Service) Settings() config.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetSettings replaces the settings used by later actions.
func (s *Service) SetSettings(settings config.Settings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
}

// Busy reports whether an action is in flight.
func (s *Service) Busy() bool {
	return s.busy.Load()
}

func (s *Service) runtime() *wine.Runtime {
	launcher := s.Settings().LauncherPath
	if launcher == "" {
		launcher = config.DefaultLauncherPath
	}
	return wine.New(launcher, s.log)
}

func (s *Service) acquire() error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (s *Service) release() {
	s.busy.Store(false)
}

// Probe reports whether the configured launcher answers --version.
func (s *Service) Probe(ctx context.Context) bool {
	return s.runtime().Available(ctx)
}

// ValidateInstaller checks path before any launcher is touched.
func ValidateInstaller(path string) error {
	if !strings.HasSuffix(strings.ToLower(path), ".exe") {
		return fmt.Errorf("%w: %s", ErrNotInstaller, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", wine.ErrInstallerMissing, path)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNotInstaller, path)
	}
	return nil
}

// RunInstaller validates path and runs it with the configured launcher,
// blocking until the launcher exits.
func (s *Service) RunInstaller(ctx context.Context, path string, hooks Hooks) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()
	hooks.start()
	return s.runInstaller(ctx, path, hooks)
}

func (s *Service) runInstaller(ctx context.Context, path string, hooks Hooks) error {
	if err := ValidateInstaller(path); err != nil {
		return err
	}
	hooks.status(StatusRunning)
	if err := s.runtime().Launch(ctx, path); err != nil {
		return err
	}
	s.log.Info().Str("installer", path).Msg("Installer finished")
	hooks.status(StatusFinished)
	return nil
}

// Download resolves rawURL to one installer link and saves it under dir
// (the service's download dir when empty). It returns the saved path.
func (s *Service) Download(ctx context.Context, rawURL, dir string, choose ChooseFunc, hooks Hooks) (string, error) {
	if err := s.acquire(); err != nil {
		return "", err
	}
	defer s.release()
	hooks.start()
	return s.download(ctx, rawURL, dir, choose, hooks)
}

// DownloadAndRun resolves rawURL, downloads the chosen installer into the
// download dir and runs it.
func (s *Service) DownloadAndRun(ctx context.Context, rawURL string, choose ChooseFunc, hooks Hooks) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()
	hooks.start()

	path, err := s.download(ctx, rawURL, "", choose, hooks)
	if err != nil {
		return err
	}
	hooks.status(StatusDownloaded)
	return s.runInstaller(ctx, path, hooks)
}

func (s *Service) download(ctx context.Context, rawURL, dir string, choose ChooseFunc, hooks Hooks) (string, error) {
	exeURL, err := s.resolve(ctx, rawURL, choose, hooks)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = s.downloadDir
	}
	dest, err := download.ResolveDir(dir)
	if err != nil {
		return "", err
	}

	hooks.status(StatusDownloading)
	path, err := s.downloader.Download(ctx, exeURL, dest, download.ProgressFunc(hooks.progress))
	if err != nil {
		return "", err
	}
	s.log.Info().Str("url", exeURL).Str("path", path).Msg("Download complete")
	return path, nil
}

// resolve turns the user's URL into a single .exe URL.
func (s *Service) resolve(ctx context.Context, rawURL string, choose ChooseFunc, hooks Hooks) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrEmptyURL
	}
	if scrape.IsDirectExe(rawURL) {
		return rawURL, nil
	}

	hooks.status(StatusScraping)
	links, err := s.scraper.ExeLinks(ctx, rawURL)
	if err != nil {
		return "", err
	}
	s.log.Debugf("Found %d installer links on %s", len(links), rawURL)
	if choose == nil {
		return links[0], nil
	}
	idx, ok := choose(links)
	if !ok || idx < 0 || idx >= len(links) {
		return "", ErrCancelled
	}
	return links[idx], nil
}
