package css

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agiangrant/facet/geom"
)

// DimensionKind distinguishes how a length resolves.
type DimensionKind int

const (
	DimAuto DimensionKind = iota
	DimPx
	DimPercent
)

// Dimension is a typed length: fixed pixels, a percentage of the
// containing axis, or auto (content-determined).
type Dimension struct {
	Kind  DimensionKind
	Value float64
}

// Px returns a fixed pixel dimension.
func Px(v float64) Dimension { return Dimension{Kind: DimPx, Value: v} }

// Percent returns a percentage dimension.
func Percent(v float64) Dimension { return Dimension{Kind: DimPercent, Value: v} }

// Auto is the content-determined dimension.
var Auto = Dimension{Kind: DimAuto}

// IsAuto reports whether the dimension is content-determined.
func (d Dimension) IsAuto() bool { return d.Kind == DimAuto }

// Resolve converts the dimension to pixels against the given basis.
// Auto resolves to fallback.
func (d Dimension) Resolve(basis, fallback float64) float64 {
	switch d.Kind {
	case DimPx:
		return d.Value
	case DimPercent:
		return basis * d.Value / 100
	}
	return fallback
}

func (d Dimension) String() string {
	switch d.Kind {
	case DimPx:
		return strconv.FormatFloat(d.Value, 'g', -1, 64) + "px"
	case DimPercent:
		return strconv.FormatFloat(d.Value, 'g', -1, 64) + "%"
	}
	return "auto"
}

// namedColors is the keyword subset the grammar accepts.
var namedColors = map[string]geom.Color{
	"black":       geom.RGB(0x00, 0x00, 0x00),
	"white":       geom.RGB(0xff, 0xff, 0xff),
	"red":         geom.RGB(0xff, 0x00, 0x00),
	"green":       geom.RGB(0x00, 0x80, 0x00),
	"blue":        geom.RGB(0x00, 0x00, 0xff),
	"yellow":      geom.RGB(0xff, 0xff, 0x00),
	"cyan":        geom.RGB(0x00, 0xff, 0xff),
	"magenta":     geom.RGB(0xff, 0x00, 0xff),
	"gray":        geom.RGB(0x80, 0x80, 0x80),
	"grey":        geom.RGB(0x80, 0x80, 0x80),
	"orange":      geom.RGB(0xff, 0xa5, 0x00),
	"purple":      geom.RGB(0x80, 0x00, 0x80),
	"transparent": geom.Transparent,
}

// ParseColor parses hex (#rgb, #rrggbb, #rrggbbaa), rgb()/rgba(),
// hsl() and named color literals.
func ParseColor(s string) (geom.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return geom.Color{}, fmt.Errorf("empty color")
	}
	if s[0] == '#' {
		return parseHexColor(s[1:])
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if fn, args, ok := splitFunc(s); ok {
		switch fn {
		case "rgb", "rgba":
			return parseRGBFunc(args)
		case "hsl", "hsla":
			return parseHSLFunc(args)
		}
	}
	return geom.Color{}, fmt.Errorf("unrecognized color %q", s)
}

func parseHexColor(hex string) (geom.Color, error) {
	for i := 0; i < len(hex); i++ {
		if !isHexDigit(hex[i]) {
			return geom.Color{}, fmt.Errorf("bad hex color #%s", hex)
		}
	}
	dup := func(c byte) uint8 {
		v := hexNibble(c)
		return v<<4 | v
	}
	switch len(hex) {
	case 3:
		return geom.RGB(dup(hex[0]), dup(hex[1]), dup(hex[2])), nil
	case 4:
		return geom.RGBA(dup(hex[0]), dup(hex[1]), dup(hex[2]), dup(hex[3])), nil
	case 6, 8:
		var b [4]uint8
		b[3] = 0xff
		for i := 0; i < len(hex)/2; i++ {
			b[i] = hexNibble(hex[2*i])<<4 | hexNibble(hex[2*i+1])
		}
		return geom.RGBA(b[0], b[1], b[2], b[3]), nil
	}
	return geom.Color{}, fmt.Errorf("bad hex color #%s", hex)
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexNibble(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// splitFunc splits "name(a, b, c)" into name and comma-separated args.
func splitFunc(s string) (string, []string, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return "", nil, false
	}
	name := strings.TrimSpace(s[:open])
	inner := s[open+1 : len(s)-1]
	// Accept both comma and space separated component lists.
	var parts []string
	if strings.ContainsAny(inner, ",/") {
		inner = strings.ReplaceAll(inner, "/", ",")
		for _, p := range strings.Split(inner, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
	} else {
		parts = strings.Fields(inner)
	}
	return name, parts, true
}

func parseRGBFunc(args []string) (geom.Color, error) {
	if len(args) != 3 && len(args) != 4 {
		return geom.Color{}, fmt.Errorf("rgb() expects 3 or 4 components, got %d", len(args))
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := parseColorChannel(args[i])
		if err != nil {
			return geom.Color{}, err
		}
		ch[i] = v
	}
	a := uint8(0xff)
	if len(args) == 4 {
		f, err := strconv.ParseFloat(args[3], 64)
		if err != nil || f < 0 || f > 1 {
			return geom.Color{}, fmt.Errorf("bad alpha %q", args[3])
		}
		a = uint8(f*255 + 0.5)
	}
	return geom.RGBA(ch[0], ch[1], ch[2], a), nil
}

func parseColorChannel(s string) (uint8, error) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil || f < 0 || f > 100 {
			return 0, fmt.Errorf("bad channel %q", s)
		}
		return uint8(f*255/100 + 0.5), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 255 {
		return 0, fmt.Errorf("bad channel %q", s)
	}
	return uint8(v + 0.5), nil
}

func parseHSLFunc(args []string) (geom.Color, error) {
	if len(args) != 3 && len(args) != 4 {
		return geom.Color{}, fmt.Errorf("hsl() expects 3 or 4 components, got %d", len(args))
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return geom.Color{}, fmt.Errorf("bad hue %q", args[0])
	}
	sat, err := parsePercentComponent(args[1])
	if err != nil {
		return geom.Color{}, err
	}
	light, err := parsePercentComponent(args[2])
	if err != nil {
		return geom.Color{}, err
	}
	c := geom.HSL(h, sat, light)
	if len(args) == 4 {
		f, err := strconv.ParseFloat(args[3], 64)
		if err != nil || f < 0 || f > 1 {
			return geom.Color{}, fmt.Errorf("bad alpha %q", args[3])
		}
		c.A = uint8(f*255 + 0.5)
	}
	return c, nil
}

func parsePercentComponent(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil || f < 0 || f > 100 {
		return 0, fmt.Errorf("bad percentage %q", s)
	}
	return f / 100, nil
}

// ParseDimension parses "12px", "50%", "auto" or a unitless number
// (treated as pixels).
func ParseDimension(s string) (Dimension, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "auto":
		return Auto, nil
	case strings.HasSuffix(s, "px"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
		if err != nil {
			return Dimension{}, fmt.Errorf("bad length %q", s)
		}
		return Px(f), nil
	case strings.HasSuffix(s, "%"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return Dimension{}, fmt.Errorf("bad percentage %q", s)
		}
		return Percent(f), nil
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Dimension{}, fmt.Errorf("bad length %q", s)
		}
		return Px(f), nil
	}
}
