package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/SiirRandall/tuxport/internal/config"
)

// Accent used for primary buttons and the title.
var accent = color.NRGBA{R: 0x4f, G: 0x8e, B: 0xf7, A: 0xff}

// fixedTheme pins the default theme to one variant regardless of the OS
// preference.
type fixedTheme struct {
	variant fyne.ThemeVariant
}

// NewTheme returns the theme for the stored preference.
func NewTheme(t config.Theme) fyne.Theme {
	return &fixedTheme{variant: Variant(t)}
}

// Variant maps a stored theme to a Fyne variant. Unknown values are dark.
func Variant(t config.Theme) fyne.ThemeVariant {
	if t == config.ThemeLight {
		return theme.VariantLight
	}
	return theme.VariantDark
}

func (t *fixedTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameHyperlink:
		return accent
	case theme.ColorNameBackground:
		if t.variant == theme.VariantDark {
			return color.NRGBA{R: 0x23, G: 0x27, B: 0x2e, A: 0xff}
		}
	case theme.ColorNameInputBackground:
		if t.variant == theme.VariantDark {
			return color.NRGBA{R: 0x2d, G: 0x31, B: 0x3a, A: 0xff}
		}
	}
	return theme.DefaultTheme().Color(name, t.variant)
}

func (t *fixedTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *fixedTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *fixedTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
