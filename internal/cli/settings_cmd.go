package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SiirRandall/tuxport/internal/config"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored settings",
	}
	cmd.AddCommand(newSettingsShowCmd(), newSettingsPathCmd(), newSettingsSetCmd())
	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the settings in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore().Read()
			if err != nil {
				getLogger().Debugf("Using defaults: %v", err)
			}
			out, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newSettingsPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), loadStore().Path)
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	var (
		theme         string
		defaultFolder string
		launcherPath  string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more settings",
		Example: `  tuxport settings set --theme light
  tuxport settings set --launcher-path /opt/wine-staging/bin/wine`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("theme") && !flags.Changed("default-folder") && !flags.Changed("launcher-path") {
				return errors.New("nothing to set: pass --theme, --default-folder or --launcher-path")
			}
			store := loadStore()
			s := store.Load()
			updated, err := applySettings(s, settingsUpdate{
				theme:       theme,
				themeSet:    flags.Changed("theme"),
				folder:      defaultFolder,
				folderSet:   flags.Changed("default-folder"),
				launcher:    launcherPath,
				launcherSet: flags.Changed("launcher-path"),
			})
			if err != nil {
				return err
			}
			if err := store.Save(updated); err != nil {
				return fmt.Errorf("save settings: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved settings to %s\n", store.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "Theme: dark or light")
	cmd.Flags().StringVar(&defaultFolder, "default-folder", "", "Folder the file browser opens in")
	cmd.Flags().StringVar(&launcherPath, "launcher-path", "", "Launcher used to run installers (default wine)")
	return cmd
}

type settingsUpdate struct {
	theme       string
	themeSet    bool
	folder      string
	folderSet   bool
	launcher    string
	launcherSet bool
}

// applySettings validates u and applies it to s.
func applySettings(s config.Settings, u settingsUpdate) (config.Settings, error) {
	if u.themeSet {
		t := config.Theme(u.theme)
		if !t.Valid() {
			return s, fmt.Errorf("invalid theme %q: must be %s or %s", u.theme, config.ThemeDark, config.ThemeLight)
		}
		s.Theme = t
	}
	if u.folderSet {
		if u.folder == "" {
			return s, errors.New("default folder cannot be empty")
		}
		s.DefaultFolder = u.folder
	}
	if u.launcherSet {
		if u.launcher == "" {
			u.launcher = config.DefaultLauncherPath
		}
		s.LauncherPath = u.launcher
	}
	return s, nil
}
