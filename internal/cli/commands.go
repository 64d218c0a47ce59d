package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	tphttp "github.com/SiirRandall/tuxport/internal/http"
	"github.com/SiirRandall/tuxport/internal/runner"
	"github.com/SiirRandall/tuxport/internal/scrape"
	"github.com/SiirRandall/tuxport/internal/wine"
)

// ErrRuntimeUnavailable is returned by probe so the process exits non-zero.
var ErrRuntimeUnavailable = errors.New("launcher is not available")

func newGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the TuxPort window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI()
		},
	}
}

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check that the launcher (wine) is installed",
		Long: `Runs "<launcher> --version" and reports whether it succeeded.
Exits with status 1 when the launcher is missing or fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := effectiveSettings(loadStore())
			service := newService(settings, "")
			if !service.Probe(commandContext()) {
				cmd.PrintErrf("%s is not installed or not on PATH.\nTo install Wine, run:\n  %s\n",
					settings.LauncherPath, wine.InstallCommand)
				return fmt.Errorf("%w: %s", ErrRuntimeUnavailable, settings.LauncherPath)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is available\n", settings.LauncherPath)
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file.exe>",
		Short: "Run a local Windows installer with the launcher",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := newService(effectiveSettings(loadStore()), "")
			return service.RunInstaller(commandContext(), args[0], statusHooks())
		},
	}
}

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <page-url>",
		Short: "List the .exe links found on a web page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := tphttp.NewClient(tphttp.Options{Timeout: timeout, Retries: retries, Logger: getLogger()})
			links, err := scrape.New(client, getLogger()).ExeLinks(commandContext(), args[0])
			if err != nil {
				return err
			}
			for _, l := range links {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			return nil
		},
	}
}

func newDownloadCmd() *cobra.Command {
	var (
		dir  string
		run  bool
		pick int
	)
	cmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download an installer from a direct .exe link or a download page",
		Long: `Downloads an installer. A URL ending in .exe is fetched directly;
any other URL is scanned for .exe links and the one at --pick is used.
With --run the installer is started once the download completes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := newService(effectiveSettings(loadStore()), dir)
			choose := pickLink(cmd, pick)

			bar := newCLIProgress("Downloading")
			hooks := statusHooks()
			hooks.OnProgress = bar.Update
			defer bar.Finish()

			if run {
				return service.DownloadAndRun(commandContext(), args[0], choose, hooks)
			}
			path, err := service.Download(commandContext(), args[0], dir, choose, hooks)
			if err != nil {
				return err
			}
			bar.Finish()
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to save into (default: system temp dir)")
	cmd.Flags().BoolVar(&run, "run", false, "Run the installer after downloading")
	cmd.Flags().IntVar(&pick, "pick", 0, "Index of the link to use when a page lists several")
	return cmd
}

// pickLink selects links[index], listing the candidates when there are several.
func pickLink(cmd *cobra.Command, index int) runner.ChooseFunc {
	return func(links []string) (int, bool) {
		if len(links) > 1 {
			for i, l := range links {
				marker := " "
				if i == index {
					marker = "*"
				}
				cmd.PrintErrf("%s %d: %s\n", marker, i, l)
			}
		}
		if index < 0 || index >= len(links) {
			cmd.PrintErrf("--pick %d is out of range (0-%d)\n", index, len(links)-1)
			return 0, false
		}
		return index, true
	}
}

// statusHooks logs status lines.
func statusHooks() runner.Hooks {
	return runner.Hooks{
		OnStatus: func(s string) { getLogger().Info().Msg(s) },
	}
}
