// Package cli provides the command-line interface for tuxport.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SiirRandall/tuxport/internal/app"
	"github.com/SiirRandall/tuxport/internal/config"
	tphttp "github.com/SiirRandall/tuxport/internal/http"
	"github.com/SiirRandall/tuxport/internal/logging"
	"github.com/SiirRandall/tuxport/internal/runner"
)

var (
	// Global flags
	settingsFile string
	launcher     string
	verbose      bool
	timeout      time.Duration
	retries      int

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// Version is set by the main package at startup.
var Version = "v0.3.0-dev"

// NewRootCmd creates the root command. Without a subcommand it opens the GUI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tuxport",
		Short: "TuxPort - run Windows installers on Linux with Wine",
		Long: `TuxPort ` + Version + `
Pick or download a Windows installer (.exe) and run it with Wine.

Run without arguments to open the window, or use a subcommand
to do the same work from a terminal.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			mode := logging.ModeCLI
			if isGUICommand(cmd) {
				mode = logging.ModeGUI
			}
			logger = logging.New(mode)
			logging.SetVerbose(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !HasDisplay() {
				return cmd.Help()
			}
			return runGUI()
		},
	}

	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "Settings file path (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&launcher, "launcher", "", "Launcher to run installers with, overriding the stored setting")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "HTTP timeout for page and installer requests (0 = none)")
	rootCmd.PersistentFlags().IntVar(&retries, "retries", 0, "Retry failed HTTP requests this many times")

	rootCmd.Version = Version
	return rootCmd
}

// AddCommands registers every subcommand on rootCmd.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		newGUICmd(),
		newProbeCmd(),
		newRunCmd(),
		newScrapeCmd(),
		newDownloadCmd(),
		newSettingsCmd(),
	)
}

// Execute runs the command tree with signal-aware cancellation.
func Execute() error {
	rootContext, cancelFunc = context.WithCancel(context.Background())
	defer cancelFunc()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)
	return err
}

// ExecuteGUI opens the window with default flags.
func ExecuteGUI() error {
	logger = logging.New(logging.ModeGUI)
	return runGUI()
}

// HasDisplay reports whether a graphical session is available.
func HasDisplay() bool {
	if runtime.GOOS != "linux" {
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func isGUICommand(cmd *cobra.Command) bool {
	return cmd.Name() == "gui" || (!cmd.HasParent() && HasDisplay())
}

func commandContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}

func getLogger() *logging.Logger {
	if logger == nil {
		logger = logging.New(logging.ModeCLI)
	}
	return logger
}

// loadStore opens the settings file named by --settings.
func loadStore() *config.Store {
	path := settingsFile
	if path == "" {
		path = config.DefaultPath()
	}
	return config.NewStore(path, getLogger())
}

// effectiveSettings applies --launcher on top of the stored settings.
func effectiveSettings(store *config.Store) config.Settings {
	s := store.Load()
	if launcher != "" {
		s.LauncherPath = launcher
	}
	return s
}

// newService wires the action service from global flags.
func newService(settings config.Settings, downloadDir string) *runner.Service {
	client := tphttp.NewClient(tphttp.Options{
		Timeout: timeout,
		Retries: retries,
		Logger:  getLogger(),
	})
	return runner.New(settings, runner.Options{
		Client:      client,
		DownloadDir: downloadDir,
		Logger:      getLogger(),
	})
}

func runGUI() error {
	store := loadStore()
	service := newService(effectiveSettings(store), "")
	app.Run(store, service, getLogger())
	return nil
}
