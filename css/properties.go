package css

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agiangrant/facet/geom"
)

// applyProperty sets one declaration on p. vals holds the significant
// value tokens in source order. Unknown properties return errUnknownProp
// so the parser can skip them without a diagnostic; bad values return a
// descriptive error the parser reports as InvalidValue.
func applyProperty(p *Props, name string, vals []string) error {
	if len(vals) == 0 {
		return fmt.Errorf("missing value")
	}
	one := vals[0]
	joined := strings.Join(vals, " ")

	switch strings.ToLower(name) {
	case "background", "background-color":
		c, err := ParseColor(joined)
		if err != nil {
			return err
		}
		p.Background = &c
	case "color":
		c, err := ParseColor(joined)
		if err != nil {
			return err
		}
		p.Color = &c
	case "border-color":
		c, err := ParseColor(joined)
		if err != nil {
			return err
		}
		p.BorderColor = &c
	case "border-width":
		return setPxFloat(&p.BorderWidth, one)
	case "border-radius":
		return setPxFloat(&p.BorderRadius, one)
	case "border":
		return applyBorderShorthand(p, vals)
	case "opacity":
		f, err := strconv.ParseFloat(one, 64)
		if err != nil || f < 0 || f > 1 {
			return fmt.Errorf("bad opacity %q", one)
		}
		p.Opacity = &f
	case "width":
		return setDim(&p.Width, one)
	case "height":
		return setDim(&p.Height, one)
	case "min-width":
		return setDim(&p.MinWidth, one)
	case "min-height":
		return setDim(&p.MinHeight, one)
	case "max-width":
		return setDim(&p.MaxWidth, one)
	case "max-height":
		return setDim(&p.MaxHeight, one)
	case "padding":
		in, err := parseInsetShorthand(vals)
		if err != nil {
			return err
		}
		p.Padding = &in
	case "margin":
		in, err := parseInsetShorthand(vals)
		if err != nil {
			return err
		}
		p.Margin = &in
	case "padding-top", "padding-right", "padding-bottom", "padding-left":
		return setInsetSide(&p.Padding, strings.TrimPrefix(name, "padding-"), one)
	case "margin-top", "margin-right", "margin-bottom", "margin-left":
		return setInsetSide(&p.Margin, strings.TrimPrefix(name, "margin-"), one)
	case "font-size":
		return setPxFloat(&p.FontSize, one)
	case "font-weight":
		w, err := parseFontWeight(one)
		if err != nil {
			return err
		}
		p.FontWeight = &w
	case "font-family":
		fam := strings.Trim(joined, `"'`)
		p.FontFamily = &fam
	case "display":
		switch strings.ToLower(one) {
		case "flex":
			d := DisplayFlex
			p.Display = &d
		case "none":
			d := DisplayNone
			p.Display = &d
		default:
			return fmt.Errorf("bad display %q", one)
		}
	case "flex-direction":
		d, err := parseDirection(one)
		if err != nil {
			return err
		}
		p.Direction = &d
	case "flex-grow":
		return setNonNegFloat(&p.Grow, one)
	case "flex-shrink":
		return setNonNegFloat(&p.Shrink, one)
	case "flex-basis":
		return setDim(&p.Basis, one)
	case "gap":
		return setPxFloat(&p.Gap, one)
	case "justify-content":
		j, err := parseJustify(one)
		if err != nil {
			return err
		}
		p.Justify = &j
	case "align-items":
		a, err := parseAlign(one)
		if err != nil {
			return err
		}
		p.Align = &a
	case "overflow":
		switch strings.ToLower(one) {
		case "visible":
			o := OverflowVisible
			p.Overflow = &o
		case "hidden":
			o := OverflowHidden
			p.Overflow = &o
		case "scroll", "auto":
			o := OverflowScroll
			p.Overflow = &o
		default:
			return fmt.Errorf("bad overflow %q", one)
		}
	default:
		return errUnknownProp
	}
	return nil
}

// errUnknownProp marks forward-compatible skips, not diagnostics.
var errUnknownProp = fmt.Errorf("unknown property")

func setDim(dst **Dimension, s string) error {
	d, err := ParseDimension(s)
	if err != nil {
		return err
	}
	*dst = &d
	return nil
}

func setPxFloat(dst **float64, s string) error {
	d, err := ParseDimension(s)
	if err != nil || d.Kind != DimPx {
		return fmt.Errorf("expected pixel length, got %q", s)
	}
	*dst = &d.Value
	return nil
}

func setNonNegFloat(dst **float64, s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return fmt.Errorf("expected non-negative number, got %q", s)
	}
	*dst = &f
	return nil
}

func parseInsetShorthand(vals []string) (geom.Insets, error) {
	var px [4]float64
	if len(vals) > 4 {
		return geom.Insets{}, fmt.Errorf("too many values")
	}
	for i, v := range vals {
		d, err := ParseDimension(v)
		if err != nil || d.Kind != DimPx {
			return geom.Insets{}, fmt.Errorf("expected pixel length, got %q", v)
		}
		px[i] = d.Value
	}
	switch len(vals) {
	case 1:
		return geom.UniformInsets(px[0]), nil
	case 2:
		return geom.Insets{Top: px[0], Bottom: px[0], Left: px[1], Right: px[1]}, nil
	case 3:
		return geom.Insets{Top: px[0], Left: px[1], Right: px[1], Bottom: px[2]}, nil
	default:
		return geom.Insets{Top: px[0], Right: px[1], Bottom: px[2], Left: px[3]}, nil
	}
}

func setInsetSide(dst **geom.Insets, side, val string) error {
	d, err := ParseDimension(val)
	if err != nil || d.Kind != DimPx {
		return fmt.Errorf("expected pixel length, got %q", val)
	}
	in := geom.Insets{}
	if *dst != nil {
		in = **dst
	}
	switch side {
	case "top":
		in.Top = d.Value
	case "right":
		in.Right = d.Value
	case "bottom":
		in.Bottom = d.Value
	case "left":
		in.Left = d.Value
	}
	*dst = &in
	return nil
}

// applyBorderShorthand accepts "width [style] color"; the style keyword
// is tolerated and ignored (everything strokes solid).
func applyBorderShorthand(p *Props, vals []string) error {
	if len(vals) == 0 || len(vals) > 3 {
		return fmt.Errorf("bad border shorthand")
	}
	if err := setPxFloat(&p.BorderWidth, vals[0]); err != nil {
		return err
	}
	if len(vals) > 1 {
		c, err := ParseColor(vals[len(vals)-1])
		if err != nil {
			return err
		}
		p.BorderColor = &c
	}
	return nil
}

func parseFontWeight(s string) (int, error) {
	switch strings.ToLower(s) {
	case "normal":
		return 400, nil
	case "bold":
		return 700, nil
	}
	w, err := strconv.Atoi(s)
	if err != nil || w < 100 || w > 900 {
		return 0, fmt.Errorf("bad font-weight %q", s)
	}
	return w, nil
}

func parseDirection(s string) (FlexDirection, error) {
	switch strings.ToLower(s) {
	case "row":
		return Row, nil
	case "row-reverse":
		return RowReverse, nil
	case "column":
		return Column, nil
	case "column-reverse":
		return ColumnReverse, nil
	}
	return 0, fmt.Errorf("bad flex-direction %q", s)
}

func parseJustify(s string) (Justify, error) {
	switch strings.ToLower(s) {
	case "flex-start", "start":
		return JustifyStart, nil
	case "flex-end", "end":
		return JustifyEnd, nil
	case "center":
		return JustifyCenter, nil
	case "space-between":
		return JustifySpaceBetween, nil
	case "space-around":
		return JustifySpaceAround, nil
	case "space-evenly":
		return JustifySpaceEvenly, nil
	}
	return 0, fmt.Errorf("bad justify-content %q", s)
}

func parseAlign(s string) (Align, error) {
	switch strings.ToLower(s) {
	case "stretch":
		return AlignStretch, nil
	case "flex-start", "start":
		return AlignStart, nil
	case "flex-end", "end":
		return AlignEnd, nil
	case "center":
		return AlignCenter, nil
	}
	return 0, fmt.Errorf("bad align-items %q", s)
}
