// Package theme provides design tokens and the light/dark mode
// selection that feeds widget default styles. Tokens are resolved to a
// concrete palette before any cascade runs; styling never consults the
// OS preference directly.
package theme

import (
	"fmt"
	"strings"

	"github.com/agiangrant/facet/geom"
)

// Mode selects which token palette is active.
type Mode int

const (
	// ModeAuto follows the OS preference reported by the windowing
	// collaborator at startup.
	ModeAuto Mode = iota
	ModeLight
	ModeDark
)

func (m Mode) String() string {
	switch m {
	case ModeLight:
		return "light"
	case ModeDark:
		return "dark"
	default:
		return "auto"
	}
}

// ParseMode reads a mode name, as written in config files.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return ModeAuto, nil
	case "light":
		return ModeLight, nil
	case "dark":
		return ModeDark, nil
	}
	return ModeAuto, fmt.Errorf("theme: unknown mode %q", s)
}

// Resolve collapses Auto using the OS preference. The result is always
// ModeLight or ModeDark. Without a readable preference Auto means
// light.
func Resolve(m Mode, osPrefersDark bool) Mode {
	if m == ModeAuto {
		if osPrefersDark {
			return ModeDark
		}
		return ModeLight
	}
	return m
}

// Palette is the semantic color set. Widget defaults reference these
// roles, never raw colors, so switching modes restyles everything.
type Palette struct {
	Background geom.Color
	Foreground geom.Color

	Card           geom.Color
	CardForeground geom.Color

	Primary           geom.Color
	PrimaryForeground geom.Color

	Secondary           geom.Color
	SecondaryForeground geom.Color

	Muted           geom.Color
	MutedForeground geom.Color

	Accent           geom.Color
	AccentForeground geom.Color

	Destructive           geom.Color
	DestructiveForeground geom.Color

	Border geom.Color
	Input  geom.Color
	Ring   geom.Color
}

// LightPalette returns the light color roles.
func LightPalette() Palette {
	return Palette{
		Background: geom.HSL(0, 0, 1.0),
		Foreground: geom.HSL(222.2, 0.84, 0.049),

		Card:           geom.HSL(0, 0, 1.0),
		CardForeground: geom.HSL(222.2, 0.84, 0.049),

		Primary:           geom.HSL(221.2, 0.832, 0.533),
		PrimaryForeground: geom.HSL(210, 0.40, 0.98),

		Secondary:           geom.HSL(210, 0.40, 0.96),
		SecondaryForeground: geom.HSL(222.2, 0.474, 0.112),

		Muted:           geom.HSL(210, 0.40, 0.96),
		MutedForeground: geom.HSL(215.4, 0.163, 0.469),

		Accent:           geom.HSL(210, 0.40, 0.96),
		AccentForeground: geom.HSL(222.2, 0.474, 0.112),

		Destructive:           geom.HSL(0, 0.842, 0.602),
		DestructiveForeground: geom.HSL(210, 0.40, 0.98),

		Border: geom.HSL(214.3, 0.318, 0.914),
		Input:  geom.HSL(214.3, 0.318, 0.914),
		Ring:   geom.HSL(221.2, 0.832, 0.533),
	}
}

// DarkPalette returns the dark color roles.
func DarkPalette() Palette {
	return Palette{
		Background: geom.HSL(222.2, 0.84, 0.049),
		Foreground: geom.HSL(210, 0.40, 0.98),

		Card:           geom.HSL(222.2, 0.84, 0.049),
		CardForeground: geom.HSL(210, 0.40, 0.98),

		Primary:           geom.HSL(217.2, 0.912, 0.598),
		PrimaryForeground: geom.HSL(222.2, 0.474, 0.112),

		Secondary:           geom.HSL(217.2, 0.326, 0.175),
		SecondaryForeground: geom.HSL(210, 0.40, 0.98),

		Muted:           geom.HSL(217.2, 0.326, 0.175),
		MutedForeground: geom.HSL(215, 0.202, 0.651),

		Accent:           geom.HSL(217.2, 0.326, 0.175),
		AccentForeground: geom.HSL(210, 0.40, 0.98),

		Destructive:           geom.HSL(0, 0.628, 0.306),
		DestructiveForeground: geom.HSL(210, 0.40, 0.98),

		Border: geom.HSL(217.2, 0.326, 0.175),
		Input:  geom.HSL(217.2, 0.326, 0.175),
		Ring:   geom.HSL(224.3, 0.763, 0.48),
	}
}

// field returns the palette slot for a config key, or nil for an
// unknown key.
func (p *Palette) field(name string) *geom.Color {
	switch name {
	case "background":
		return &p.Background
	case "foreground":
		return &p.Foreground
	case "card":
		return &p.Card
	case "card_foreground":
		return &p.CardForeground
	case "primary":
		return &p.Primary
	case "primary_foreground":
		return &p.PrimaryForeground
	case "secondary":
		return &p.Secondary
	case "secondary_foreground":
		return &p.SecondaryForeground
	case "muted":
		return &p.Muted
	case "muted_foreground":
		return &p.MutedForeground
	case "accent":
		return &p.Accent
	case "accent_foreground":
		return &p.AccentForeground
	case "destructive":
		return &p.Destructive
	case "destructive_foreground":
		return &p.DestructiveForeground
	case "border":
		return &p.Border
	case "input":
		return &p.Input
	case "ring":
		return &p.Ring
	}
	return nil
}

// Tokens bundles everything a widget default or example app reads from
// the theme: colors plus the typography and sizing scales.
type Tokens struct {
	Mode     Mode
	Colors   Palette
	FontSans string
	FontMono string

	// BaseFontSize is 1rem in pixels; the scales below multiply it.
	BaseFontSize float64
	LineHeight   float64
	SpacingBase  float64
}

// Light returns the light token set.
func Light() Tokens {
	return Tokens{
		Mode:         ModeLight,
		Colors:       LightPalette(),
		FontSans:     "sans",
		FontMono:     "mono",
		BaseFontSize: 16,
		LineHeight:   1.5,
		SpacingBase:  16,
	}
}

// Dark returns the dark token set.
func Dark() Tokens {
	t := Light()
	t.Mode = ModeDark
	t.Colors = DarkPalette()
	return t
}

// ForMode returns the token set for an already-resolved mode.
func ForMode(m Mode) Tokens {
	if m == ModeDark {
		return Dark()
	}
	return Light()
}

// Spacing converts a step on the 0.25rem scale to pixels.
func (t Tokens) Spacing(step int) float64 {
	if step < 0 {
		return 0
	}
	return float64(step) * 0.25 * t.SpacingBase
}

// FontSize returns the pixel size for a named size on the type scale.
func (t Tokens) FontSize(name string) float64 {
	mult := map[string]float64{
		"xs": 0.75, "sm": 0.875, "base": 1.0, "lg": 1.125,
		"xl": 1.25, "2xl": 1.5, "3xl": 1.875, "4xl": 2.25,
	}[name]
	if mult == 0 {
		mult = 1.0
	}
	return t.BaseFontSize * mult
}

// Radius returns a named corner radius in pixels.
func (t Tokens) Radius(name string) float64 {
	rem := map[string]float64{
		"none": 0, "sm": 0.125, "default": 0.25, "md": 0.375,
		"lg": 0.5, "xl": 0.75, "2xl": 1.0, "full": 9999,
	}
	r, ok := rem[name]
	if !ok {
		r = 0.25
	}
	if name == "full" {
		return r
	}
	return r * t.SpacingBase
}

// Weight maps a named font weight to its numeric value.
func Weight(name string) int {
	switch name {
	case "thin":
		return 100
	case "light":
		return 300
	case "medium":
		return 500
	case "semibold":
		return 600
	case "bold":
		return 700
	case "black":
		return 900
	default:
		return 400
	}
}
