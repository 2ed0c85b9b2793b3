// Package theme pins the fyne default theme to a light or dark variant.
package theme

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynetheme "fyne.io/fyne/v2/theme"
)

// Variant wraps the default theme with a fixed variant.
type Variant struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

var _ fyne.Theme = (*Variant)(nil)

// New returns the dark variant when dark is set and the light one otherwise.
func New(dark bool) *Variant {
	variant := fynetheme.VariantLight
	if dark {
		variant = fynetheme.VariantDark
	}
	return &Variant{base: fynetheme.DefaultTheme(), variant: variant}
}

// Apply installs the theme matching dark on app.
func Apply(app fyne.App, dark bool) {
	if app == nil {
		return
	}
	app.Settings().SetTheme(New(dark))
}

// Dark reports whether the dark variant is used.
func (theme *Variant) Dark() bool {
	return theme.variant == fynetheme.VariantDark
}

func (theme *Variant) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return theme.base.Color(name, theme.variant)
}

func (theme *Variant) Font(style fyne.TextStyle) fyne.Resource {
	return theme.base.Font(style)
}

func (theme *Variant) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.base.Icon(name)
}

func (theme *Variant) Size(name fyne.ThemeSizeName) float32 {
	return theme.base.Size(name)
}
