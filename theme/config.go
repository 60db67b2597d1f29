package theme

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/agiangrant/facet/css"
)

// fileTokens is the on-disk override shape. Colors are CSS color
// strings so theme.toml and stylesheets share one syntax.
type fileTokens struct {
	Mode   string            `toml:"mode"`
	Colors map[string]string `toml:"colors"`

	Typography struct {
		BaseSize   float64 `toml:"base_size"`
		LineHeight float64 `toml:"line_height"`
		FontSans   string  `toml:"font_sans"`
		FontMono   string  `toml:"font_mono"`
	} `toml:"typography"`

	Spacing struct {
		Base float64 `toml:"base"`
	} `toml:"spacing"`
}

// LoadTokens loads theme.toml overrides on top of base. A missing file
// is not an error: the base tokens are returned unchanged.
func LoadTokens(path string, base Tokens) (Tokens, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return base, nil
	}
	if err != nil {
		return base, fmt.Errorf("theme: read %s: %w", path, err)
	}
	return ParseTokens(data, base)
}

// ParseTokens applies TOML overrides to base.
func ParseTokens(data []byte, base Tokens) (Tokens, error) {
	var f fileTokens
	if err := toml.Unmarshal(data, &f); err != nil {
		return base, fmt.Errorf("theme: parse tokens: %w", err)
	}

	out := base
	if f.Mode != "" {
		m, err := ParseMode(f.Mode)
		if err != nil {
			return base, err
		}
		if m != ModeAuto {
			out = ForMode(m)
		}
	}
	for name, raw := range f.Colors {
		slot := out.Colors.field(name)
		if slot == nil {
			return base, fmt.Errorf("theme: unknown color token %q", name)
		}
		c, err := css.ParseColor(raw)
		if err != nil {
			return base, fmt.Errorf("theme: color token %q: %w", name, err)
		}
		*slot = c
	}
	if f.Typography.BaseSize > 0 {
		out.BaseFontSize = f.Typography.BaseSize
	}
	if f.Typography.LineHeight > 0 {
		out.LineHeight = f.Typography.LineHeight
	}
	if f.Typography.FontSans != "" {
		out.FontSans = f.Typography.FontSans
	}
	if f.Typography.FontMono != "" {
		out.FontMono = f.Typography.FontMono
	}
	if f.Spacing.Base > 0 {
		out.SpacingBase = f.Spacing.Base
	}
	return out, nil
}
