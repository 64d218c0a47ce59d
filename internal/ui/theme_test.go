package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/SiirRandall/tuxport/internal/config"
)

func TestVariant(t *testing.T) {
	tests := []struct {
		in       config.Theme
		expected fyne.ThemeVariant
	}{
		{config.ThemeDark, theme.VariantDark},
		{config.ThemeLight, theme.VariantLight},
		{config.Theme("neon"), theme.VariantDark},
		{config.Theme(""), theme.VariantDark},
	}
	for _, test := range tests {
		if got := Variant(test.in); got != test.expected {
			t.Errorf("Variant(%q) = %v, expected %v", test.in, got, test.expected)
		}
	}
}

func TestThemeIgnoresRequestedVariant(t *testing.T) {
	light := NewTheme(config.ThemeLight)
	dark := NewTheme(config.ThemeDark)

	fg := theme.ColorNameForeground
	if light.Color(fg, theme.VariantDark) != theme.DefaultTheme().Color(fg, theme.VariantLight) {
		t.Error("light theme should use light foreground even when dark is requested")
	}
	if dark.Color(fg, theme.VariantLight) != theme.DefaultTheme().Color(fg, theme.VariantDark) {
		t.Error("dark theme should use dark foreground even when light is requested")
	}
	if dark.Color(theme.ColorNamePrimary, theme.VariantDark) != accent {
		t.Error("expected accent primary color")
	}
}
