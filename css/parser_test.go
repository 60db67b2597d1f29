package css

import (
	"testing"

	"go.uber.org/multierr"

	"github.com/agiangrant/facet/geom"
)

func TestParseRules(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		validate func(t *testing.T, sheet *Stylesheet, errs []error)
	}{
		{
			name:  "single rule with color and padding",
			input: `.btn { background: #ff0000; padding: 4px 8px; }`,
			validate: func(t *testing.T, sheet *Stylesheet, errs []error) {
				if len(errs) != 0 {
					t.Fatalf("unexpected diagnostics: %v", errs)
				}
				if len(sheet.Rules) != 1 {
					t.Fatalf("expected 1 rule, got %d", len(sheet.Rules))
				}
				r := sheet.Rules[0]
				if r.Props.Background == nil || *r.Props.Background != geom.RGB(0xff, 0, 0) {
					t.Errorf("background = %v, want #ff0000", r.Props.Background)
				}
				want := geom.Insets{Top: 4, Bottom: 4, Left: 8, Right: 8}
				if r.Props.Padding == nil || *r.Props.Padding != want {
					t.Errorf("padding = %v, want %v", r.Props.Padding, want)
				}
			},
		},
		{
			name:  "malformed rule dropped, valid rules kept",
			input: `.a { color: #fff; } .bad[attr] { color: #000; } .b { margin: 4px; }`,
			validate: func(t *testing.T, sheet *Stylesheet, errs []error) {
				if len(sheet.Rules) != 2 {
					t.Fatalf("expected 2 rules, got %d", len(sheet.Rules))
				}
				if len(errs) != 1 {
					t.Fatalf("expected 1 diagnostic, got %d: %v", len(errs), errs)
				}
				perr, ok := errs[0].(*ParseError)
				if !ok {
					t.Fatalf("diagnostic is %T, want *ParseError", errs[0])
				}
				if perr.Kind != UnsupportedSelector {
					t.Errorf("kind = %v, want UnsupportedSelector", perr.Kind)
				}
			},
		},
		{
			name:  "invalid value dropped, rule kept",
			input: `.a { color: #fff; opacity: 7; }`,
			validate: func(t *testing.T, sheet *Stylesheet, errs []error) {
				if len(sheet.Rules) != 1 {
					t.Fatalf("expected 1 rule, got %d", len(sheet.Rules))
				}
				if sheet.Rules[0].Props.Opacity != nil {
					t.Errorf("opacity should be unset")
				}
				if sheet.Rules[0].Props.Color == nil {
					t.Errorf("color should be set")
				}
				if len(errs) != 1 {
					t.Fatalf("expected 1 diagnostic, got %d: %v", len(errs), errs)
				}
				if perr := errs[0].(*ParseError); perr.Kind != InvalidValue {
					t.Errorf("kind = %v, want InvalidValue", perr.Kind)
				}
			},
		},
		{
			name:  "unknown property skipped without diagnostic",
			input: `.a { box-shadow: 0 0 4px #000; color: red; }`,
			validate: func(t *testing.T, sheet *Stylesheet, errs []error) {
				if len(errs) != 0 {
					t.Fatalf("unexpected diagnostics: %v", errs)
				}
				if len(sheet.Rules) != 1 || sheet.Rules[0].Props.Color == nil {
					t.Fatalf("rule with color expected")
				}
			},
		},
		{
			name:  "at-rules tolerated and ignored",
			input: "@import \"other.css\";\n@media (min-width: 600px) { .a { color: red; } }\n.b { gap: 2px; }",
			validate: func(t *testing.T, sheet *Stylesheet, errs []error) {
				if len(errs) != 0 {
					t.Fatalf("unexpected diagnostics: %v", errs)
				}
				if len(sheet.Rules) != 1 {
					t.Fatalf("expected 1 rule outside at-rules, got %d", len(sheet.Rules))
				}
				if sheet.Rules[0].Props.Gap == nil || *sheet.Rules[0].Props.Gap != 2 {
					t.Errorf("gap = %v, want 2", sheet.Rules[0].Props.Gap)
				}
			},
		},
		{
			name:  "comments and whitespace insignificant",
			input: "/* header */\n.a {\n\tcolor : rgb(1, 2, 3) ; /* trailing */\n}",
			validate: func(t *testing.T, sheet *Stylesheet, errs []error) {
				if len(sheet.Rules) != 1 {
					t.Fatalf("expected 1 rule, got %d", len(sheet.Rules))
				}
				if c := sheet.Rules[0].Props.Color; c == nil || *c != geom.RGB(1, 2, 3) {
					t.Errorf("color = %v, want rgb(1,2,3)", c)
				}
			},
		},
		{
			name:  "grouped selectors share declarations",
			input: `.a, .b > .c { flex-grow: 2; }`,
			validate: func(t *testing.T, sheet *Stylesheet, errs []error) {
				if len(errs) != 0 {
					t.Fatalf("unexpected diagnostics: %v", errs)
				}
				if len(sheet.Rules) != 2 {
					t.Fatalf("expected 2 rules, got %d", len(sheet.Rules))
				}
				for _, r := range sheet.Rules {
					if r.Props.Grow == nil || *r.Props.Grow != 2 {
						t.Errorf("rule %q grow = %v, want 2", r.Selector.Raw, r.Props.Grow)
					}
				}
			},
		},
		{
			name:  "source order recorded",
			input: `.a { color: red; } .b { color: blue; } .c { color: green; }`,
			validate: func(t *testing.T, sheet *Stylesheet, errs []error) {
				for i, r := range sheet.Rules {
					if r.Order != i {
						t.Errorf("rule %d has order %d", i, r.Order)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet, err := NewParser(nil).Parse([]byte(tt.input))
			tt.validate(t, sheet, multierr.Errors(err))
		})
	}
}

func TestParseInline(t *testing.T) {
	p := NewParser(nil)
	props, err := p.ParseInline("background: #00ff00; flex-grow: 1")
	if err != nil {
		t.Fatalf("ParseInline: %v", err)
	}
	if props.Background == nil || *props.Background != geom.RGB(0, 0xff, 0) {
		t.Errorf("background = %v, want #00ff00", props.Background)
	}
	if props.Grow == nil || *props.Grow != 1 {
		t.Errorf("grow = %v, want 1", props.Grow)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    geom.Color
		wantErr bool
	}{
		{input: "#fff", want: geom.RGB(0xff, 0xff, 0xff)},
		{input: "#102030", want: geom.RGB(0x10, 0x20, 0x30)},
		{input: "#10203080", want: geom.RGBA(0x10, 0x20, 0x30, 0x80)},
		{input: "rgb(255, 0, 0)", want: geom.RGB(0xff, 0, 0)},
		{input: "rgba(0, 0, 255, 0.5)", want: geom.RGBA(0, 0, 0xff, 128)},
		{input: "hsl(0, 100%, 50%)", want: geom.RGB(0xff, 0, 0)},
		{input: "red", want: geom.RGB(0xff, 0, 0)},
		{input: "transparent", want: geom.Transparent},
		{input: "#12345", wantErr: true},
		{input: "#zzz", wantErr: true},
		{input: "#12g45q", wantErr: true},
		{input: "rgb(300, 0, 0)", wantErr: true},
		{input: "bogus", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		input   string
		want    Dimension
		wantErr bool
	}{
		{input: "12px", want: Px(12)},
		{input: "50%", want: Percent(50)},
		{input: "auto", want: Auto},
		{input: "3.5", want: Px(3.5)},
		{input: "-4px", want: Px(-4)},
		{input: "12em", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDimension(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDimension(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDimension(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
