package theme

import (
	"github.com/agiangrant/facet/css"
	"github.com/agiangrant/facet/geom"
)

// Base is the computed style every widget starts from before the
// cascade runs. It carries the token colors and typography so an app
// with no stylesheet still renders in-theme.
func Base(t Tokens) css.ComputedStyle {
	return css.ComputedStyle{
		Background: geom.Transparent,
		Color:      t.Colors.Foreground,
		Opacity:    1,

		Width:     css.Auto,
		Height:    css.Auto,
		MinWidth:  css.Px(0),
		MinHeight: css.Px(0),
		MaxWidth:  css.Auto,
		MaxHeight: css.Auto,
		Basis:     css.Auto,

		FontSize:   t.FontSize("sm"),
		FontWeight: Weight("normal"),
		FontFamily: t.FontSans,

		Display:   css.DisplayFlex,
		Direction: css.Column,
		Shrink:    1,
		Justify:   css.JustifyStart,
		Align:     css.AlignStretch,
		Overflow:  css.OverflowVisible,
	}
}

// DefaultProps returns the token-derived defaults for a widget kind.
// They sit below stylesheet rules in the cascade, so any matching rule
// overrides them.
func DefaultProps(t Tokens, kind string) *css.Props {
	switch kind {
	case "button":
		return &css.Props{
			Background:   colorPtr(t.Colors.Primary),
			Color:        colorPtr(t.Colors.PrimaryForeground),
			BorderRadius: floatPtr(t.Radius("md")),
			Padding:      insetsPtr(t.Spacing(2), t.Spacing(4)),
			FontWeight:   intPtr(Weight("medium")),
		}
	case "panel":
		return &css.Props{
			Background:   colorPtr(t.Colors.Card),
			Color:        colorPtr(t.Colors.CardForeground),
			BorderColor:  colorPtr(t.Colors.Border),
			BorderRadius: floatPtr(t.Radius("lg")),
			Padding:      insetsPtr(t.Spacing(4), t.Spacing(4)),
		}
	case "input":
		return &css.Props{
			Background:   colorPtr(t.Colors.Background),
			Color:        colorPtr(t.Colors.Foreground),
			BorderColor:  colorPtr(t.Colors.Input),
			BorderWidth:  floatPtr(1),
			BorderRadius: floatPtr(t.Radius("md")),
			Padding:      insetsPtr(t.Spacing(2), t.Spacing(3)),
		}
	}
	return nil
}

func colorPtr(c geom.Color) *geom.Color { return &c }
func floatPtr(v float64) *float64       { return &v }
func intPtr(v int) *int                 { return &v }

func insetsPtr(vertical, horizontal float64) *geom.Insets {
	return &geom.Insets{Top: vertical, Bottom: vertical, Left: horizontal, Right: horizontal}
}
