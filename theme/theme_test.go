package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiangrant/facet/css"
	"github.com/agiangrant/facet/geom"
)

func TestResolveMode(t *testing.T) {
	assert.Equal(t, ModeLight, Resolve(ModeAuto, false))
	assert.Equal(t, ModeDark, Resolve(ModeAuto, true))
	assert.Equal(t, ModeLight, Resolve(ModeLight, true))
	assert.Equal(t, ModeDark, Resolve(ModeDark, false))
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"light": ModeLight,
		"Dark":  ModeDark,
		"auto":  ModeAuto,
		"":      ModeAuto,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMode("sepia")
	assert.Error(t, err)
}

func TestPalettesDiffer(t *testing.T) {
	light := Light()
	dark := Dark()
	assert.NotEqual(t, light.Colors.Background, dark.Colors.Background)
	assert.NotEqual(t, light.Colors.Foreground, dark.Colors.Foreground)
	// light background is near white, dark background near black
	assert.Greater(t, light.Colors.Background.R, uint8(240))
	assert.Less(t, dark.Colors.Background.R, uint8(40))
}

func TestScales(t *testing.T) {
	tok := Light()
	assert.InDelta(t, 16, tok.Spacing(4), 1e-9)
	assert.InDelta(t, 8, tok.Spacing(2), 1e-9)
	assert.InDelta(t, 0, tok.Spacing(-1), 1e-9)
	assert.InDelta(t, 16, tok.FontSize("base"), 1e-9)
	assert.InDelta(t, 14, tok.FontSize("sm"), 1e-9)
	assert.InDelta(t, 16, tok.FontSize("unknown"), 1e-9)
	assert.InDelta(t, 6, tok.Radius("md"), 1e-9)
	assert.InDelta(t, 9999, tok.Radius("full"), 1e-9)
	assert.Equal(t, 700, Weight("bold"))
	assert.Equal(t, 400, Weight("whatever"))
}

func TestBaseStyleUsesTokens(t *testing.T) {
	tok := Dark()
	base := Base(tok)
	assert.Equal(t, tok.Colors.Foreground, base.Color)
	assert.Equal(t, geom.Transparent, base.Background)
	assert.InDelta(t, 1.0, base.Opacity, 1e-9)
	assert.True(t, base.Width.IsAuto())
	assert.Equal(t, css.DisplayFlex, base.Display)
	assert.InDelta(t, 1.0, base.Shrink, 1e-9)
}

func TestDefaultProps(t *testing.T) {
	tok := Light()
	btn := DefaultProps(tok, "button")
	require.NotNil(t, btn)
	assert.Equal(t, tok.Colors.Primary, *btn.Background)
	assert.Equal(t, tok.Colors.PrimaryForeground, *btn.Color)

	assert.Nil(t, DefaultProps(tok, "text"))
}

func TestParseTokensOverrides(t *testing.T) {
	src := []byte(`
mode = "dark"

[colors]
primary = "#ff8800"
background = "rgb(10, 10, 12)"

[typography]
base_size = 18.0
font_sans = "Inter"

[spacing]
base = 20.0
`)
	tok, err := ParseTokens(src, Light())
	require.NoError(t, err)
	assert.Equal(t, ModeDark, tok.Mode)
	assert.Equal(t, geom.RGB(0xff, 0x88, 0x00), tok.Colors.Primary)
	assert.Equal(t, geom.RGB(10, 10, 12), tok.Colors.Background)
	// untouched roles keep the dark palette
	assert.Equal(t, DarkPalette().Foreground, tok.Colors.Foreground)
	assert.InDelta(t, 18, tok.BaseFontSize, 1e-9)
	assert.Equal(t, "Inter", tok.FontSans)
	assert.InDelta(t, 20, tok.SpacingBase, 1e-9)
}

func TestParseTokensRejectsUnknownColor(t *testing.T) {
	_, err := ParseTokens([]byte("[colors]\nglow = \"#fff\"\n"), Light())
	assert.Error(t, err)
}

func TestParseTokensRejectsBadColor(t *testing.T) {
	_, err := ParseTokens([]byte("[colors]\nprimary = \"notacolor\"\n"), Light())
	assert.Error(t, err)
}

func TestLoadTokensMissingFile(t *testing.T) {
	tok, err := LoadTokens("does/not/exist.toml", Light())
	require.NoError(t, err)
	assert.Equal(t, Light(), tok)
}
