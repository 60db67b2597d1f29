// Package facet is a self-rendering UI toolkit core: it parses a CSS
// subset, resolves styles over a retained widget tree, lays the tree
// out with a flex model, and turns it into draw commands for the
// renderer backends. Applications describe the desired tree once per
// frame with builder functions; the core reconciles, restyles and
// repaints only what changed.
package facet

import (
	"image"

	"github.com/agiangrant/facet/css"
)

// Kind identifies the widget type. It doubles as the CSS type selector
// name, so `button { ... }` matches every KindButton node.
type Kind string

const (
	KindVStack Kind = "vstack"
	KindHStack Kind = "hstack"
	KindPanel  Kind = "panel"
	KindText   Kind = "text"
	KindButton Kind = "button"
	KindImage  Kind = "image"
	KindSpacer Kind = "spacer"
)

// Widget is one frame's description of a node. The builder callback
// returns a fresh Widget tree every frame; the core diffs it against
// the retained tree by key, so Widgets themselves carry no state.
type Widget struct {
	Kind    Kind
	Key     string
	IDAttr  string
	Classes []string
	Inline  *css.Props

	Text        string
	ImageSource string
	Img         image.Image
	Disabled    bool

	OnClick func()

	Children []*Widget
}

// VStack lays out children top to bottom.
func VStack(children ...*Widget) *Widget {
	return &Widget{Kind: KindVStack, Children: children}
}

// HStack lays out children left to right.
func HStack(children ...*Widget) *Widget {
	return &Widget{Kind: KindHStack, Children: children}
}

// Panel is a VStack with the theme's card styling.
func Panel(children ...*Widget) *Widget {
	return &Widget{Kind: KindPanel, Children: children}
}

// Text is a leaf displaying a single run of text.
func Text(s string) *Widget {
	return &Widget{Kind: KindText, Text: s}
}

// Button is a clickable leaf with a label.
func Button(label string, onClick func()) *Widget {
	return &Widget{Kind: KindButton, Text: label, OnClick: onClick}
}

// Image displays a decoded image, scaled into its box. source is the
// resource key for asynchronous loads (see App.LoadImage); a nil
// image renders the placeholder background until the load lands.
func Image(source string) *Widget {
	return &Widget{Kind: KindImage, ImageSource: source}
}

// Spacer is an empty flexible node that absorbs free space.
func Spacer() *Widget {
	grow := 1.0
	return &Widget{Kind: KindSpacer, Inline: &css.Props{Grow: &grow}}
}

// WithKey sets the stable identity used by reconciliation. Nodes
// keeping their key across frames keep their caches and pseudo-state.
func (w *Widget) WithKey(key string) *Widget {
	w.Key = key
	return w
}

// WithID sets the CSS id attribute (`#name` selectors).
func (w *Widget) WithID(id string) *Widget {
	w.IDAttr = id
	return w
}

// WithClasses appends CSS classes.
func (w *Widget) WithClasses(classes ...string) *Widget {
	w.Classes = append(w.Classes, classes...)
	return w
}

// WithStyle sets inline style properties. Inline properties outrank
// every stylesheet rule.
func (w *Widget) WithStyle(p css.Props) *Widget {
	if w.Inline == nil {
		w.Inline = &p
		return w
	}
	w.Inline.Merge(&p)
	return w
}

// WithStyleText parses an inline declaration list ("color: #fff;
// padding: 4px") and merges it as inline style. Malformed declarations
// are dropped; the valid remainder still applies.
func (w *Widget) WithStyleText(src string) *Widget {
	props, _ := css.NewParser(nil).ParseInline(src)
	if props != nil && !props.IsEmpty() {
		return w.WithStyle(*props)
	}
	return w
}

// WithDisabled toggles the :disabled pseudo-state. Disabled widgets
// do not receive click or hover state.
func (w *Widget) WithDisabled(disabled bool) *Widget {
	w.Disabled = disabled
	return w
}

// WithChildren appends children.
func (w *Widget) WithChildren(children ...*Widget) *Widget {
	w.Children = append(w.Children, children...)
	return w
}
