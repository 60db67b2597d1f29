package css

import "testing"

type fakeNode struct {
	typ     string
	id      string
	classes []string
	state   State
	parent  *fakeNode
}

func (f *fakeNode) TypeName() string { return f.typ }
func (f *fakeNode) NodeID() string   { return f.id }
func (f *fakeNode) HasClass(name string) bool {
	for _, c := range f.classes {
		if c == name {
			return true
		}
	}
	return false
}
func (f *fakeNode) State() State { return f.state }
func (f *fakeNode) Parent() MatchNode {
	if f.parent == nil {
		return nil
	}
	return f.parent
}

func TestParseSelectorSpecificity(t *testing.T) {
	tests := []struct {
		input   string
		want    Specificity
		wantErr bool
	}{
		{input: "button", want: Specificity{0, 0, 1}},
		{input: ".btn", want: Specificity{0, 1, 0}},
		{input: "#main", want: Specificity{1, 0, 0}},
		{input: "button.btn:hover", want: Specificity{0, 2, 1}},
		{input: ".panel .btn", want: Specificity{0, 2, 0}},
		{input: "#main > button.primary", want: Specificity{1, 1, 1}},
		{input: "*", want: Specificity{0, 0, 0}},
		{input: ".a[href]", wantErr: true},
		{input: ".a + .b", wantErr: true},
		{input: ":first-line", wantErr: true},
		{input: "> .a", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			sel, err := ParseSelector(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSelector(%q): %v", tt.input, err)
			}
			if sel.Specificity() != tt.want {
				t.Errorf("specificity = %v, want %v", sel.Specificity(), tt.want)
			}
		})
	}
}

func TestSpecificityCompare(t *testing.T) {
	id := Specificity{1, 0, 0}
	class := Specificity{0, 1, 0}
	typ := Specificity{0, 0, 1}
	if id.Compare(class) <= 0 {
		t.Errorf("#id should outrank .class")
	}
	if class.Compare(typ) <= 0 {
		t.Errorf(".class should outrank type")
	}
	if typ.Compare(Specificity{0, 0, 1}) != 0 {
		t.Errorf("equal tuples should compare equal")
	}
	if InlineSpecificity.Compare(Specificity{99, 99, 99}) <= 0 {
		t.Errorf("inline should outrank any sheet selector")
	}
}

func TestSelectorMatches(t *testing.T) {
	// <panel id=root class=panel> <row> <button class="btn primary"> </...>
	root := &fakeNode{typ: "panel", id: "root", classes: []string{"panel"}}
	row := &fakeNode{typ: "row", parent: root}
	btn := &fakeNode{typ: "button", classes: []string{"btn", "primary"}, parent: row}

	tests := []struct {
		selector string
		node     *fakeNode
		want     bool
	}{
		{selector: "button", node: btn, want: true},
		{selector: "Button", node: btn, want: true}, // type names case-insensitive
		{selector: ".btn", node: btn, want: true},
		{selector: ".btn.primary", node: btn, want: true},
		{selector: ".btn.missing", node: btn, want: false},
		{selector: "#root", node: root, want: true},
		{selector: "#root button", node: btn, want: true},  // descendant across depth
		{selector: "#root > button", node: btn, want: false}, // not an immediate child
		{selector: "row > button", node: btn, want: true},
		{selector: ".panel .btn", node: btn, want: true},
		{selector: ".panel > row > .btn", node: btn, want: true},
		{selector: "row .panel", node: root, want: false},
		{selector: "button:hover", node: btn, want: false},
		{selector: "*", node: row, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			sel, err := ParseSelector(tt.selector)
			if err != nil {
				t.Fatalf("ParseSelector: %v", err)
			}
			if got := sel.Matches(tt.node); got != tt.want {
				t.Errorf("Matches(%s, %s) = %v, want %v", tt.selector, tt.node.typ, got, tt.want)
			}
		})
	}
}

func TestPseudoStateMatchesLive(t *testing.T) {
	btn := &fakeNode{typ: "button", classes: []string{"btn"}}
	sel, err := ParseSelector(".btn:hover")
	if err != nil {
		t.Fatalf("ParseSelector: %v", err)
	}
	if sel.Matches(btn) {
		t.Fatalf("should not match without hover flag")
	}
	btn.state = StateHover
	if !sel.Matches(btn) {
		t.Fatalf("should match once hover flag is set")
	}
	btn.state = StateHover | StateFocus
	if !sel.Matches(btn) {
		t.Fatalf("extra states must not prevent matching")
	}
}
