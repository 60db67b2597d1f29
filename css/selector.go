package css

import (
	"fmt"
	"strings"
)

// State is a bitmask of runtime pseudo-states on a node. Matching
// consults it live, so flipping a bit changes which rules apply without
// reparsing the sheet.
type State uint8

const (
	StateHover State = 1 << iota
	StateActive
	StateFocus
	StateDisabled
)

// Has reports whether all bits in q are set.
func (s State) Has(q State) bool { return s&q == q }

var pseudoNames = map[string]State{
	"hover":    StateHover,
	"active":   StateActive,
	"focus":    StateFocus,
	"disabled": StateDisabled,
}

// Specificity is the (id, class+pseudo, type) weight tuple, compared
// lexicographically.
type Specificity [3]int

// Compare returns -1, 0 or 1 ordering s against o.
func (s Specificity) Compare(o Specificity) int {
	for i := 0; i < 3; i++ {
		if s[i] != o[i] {
			if s[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// InlineSpecificity outranks any selector a sheet can express. Direct
// declarations on a widget always win; tests assert this assumption.
var InlineSpecificity = Specificity{1 << 30, 1 << 30, 1 << 30}

// Combinator joins two compound selector parts.
type Combinator int

const (
	Descendant Combinator = iota // whitespace: any ancestor
	Child                        // '>': immediate parent only
)

// Compound is an AND of simple selectors applying to one node:
// optional type name, classes, id and required pseudo-states.
type Compound struct {
	Type    string
	ID      string
	Classes []string
	Pseudo  State
}

func (c Compound) isEmpty() bool {
	return c.Type == "" && c.ID == "" && len(c.Classes) == 0 && c.Pseudo == 0
}

// Selector is a chain of compound parts joined by combinators.
// Parts[len-1] is the subject (the node the rule styles);
// Combinators[i] relates Parts[i] to Parts[i+1].
type Selector struct {
	Parts       []Compound
	Combinators []Combinator
	Raw         string

	spec Specificity
}

// Specificity returns the precomputed weight of the selector.
func (s *Selector) Specificity() Specificity { return s.spec }

// MatchNode is the view of a widget node the matcher needs. Parent
// returns nil at the root.
type MatchNode interface {
	TypeName() string
	NodeID() string
	HasClass(name string) bool
	State() State
	Parent() MatchNode
}

// Matches reports whether the selector's subject matches n with the
// combinator chain satisfied by n's ancestors.
func (s *Selector) Matches(n MatchNode) bool {
	if len(s.Parts) == 0 {
		return false
	}
	return matchFrom(s.Parts, s.Combinators, len(s.Parts)-1, n)
}

func matchFrom(parts []Compound, combs []Combinator, idx int, n MatchNode) bool {
	if n == nil || !matchCompound(parts[idx], n) {
		return false
	}
	if idx == 0 {
		return true
	}
	switch combs[idx-1] {
	case Child:
		return matchFrom(parts, combs, idx-1, n.Parent())
	default: // Descendant
		for anc := n.Parent(); anc != nil; anc = anc.Parent() {
			if matchFrom(parts, combs, idx-1, anc) {
				return true
			}
		}
		return false
	}
}

func matchCompound(c Compound, n MatchNode) bool {
	if c.Type != "" && c.Type != "*" && !strings.EqualFold(c.Type, n.TypeName()) {
		return false
	}
	if c.ID != "" && c.ID != n.NodeID() {
		return false
	}
	for _, cl := range c.Classes {
		if !n.HasClass(cl) {
			return false
		}
	}
	return n.State().Has(c.Pseudo)
}

// ParseSelector parses a single selector (no comma groups). Supported:
// type, .class, #id, :hover/:active/:focus/:disabled, descendant and
// child combinators, and compounds thereof.
func ParseSelector(raw string) (*Selector, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty selector")
	}
	if strings.ContainsAny(raw, "[]+~,") {
		return nil, fmt.Errorf("unsupported selector syntax in %q", raw)
	}

	// Normalize '>' so Fields separates it into its own token.
	norm := strings.ReplaceAll(raw, ">", " > ")
	tokens := strings.Fields(norm)

	sel := &Selector{Raw: raw}
	expectPart := true
	for _, tok := range tokens {
		if tok == ">" {
			if expectPart || len(sel.Parts) == 0 {
				return nil, fmt.Errorf("misplaced combinator in %q", raw)
			}
			sel.Combinators = append(sel.Combinators, Child)
			expectPart = true
			continue
		}
		if !expectPart {
			sel.Combinators = append(sel.Combinators, Descendant)
		}
		part, err := parseCompound(tok)
		if err != nil {
			return nil, err
		}
		sel.Parts = append(sel.Parts, part)
		expectPart = false
	}
	if expectPart {
		return nil, fmt.Errorf("dangling combinator in %q", raw)
	}

	for _, p := range sel.Parts {
		if p.ID != "" {
			sel.spec[0]++
		}
		sel.spec[1] += len(p.Classes) + popcount(p.Pseudo)
		if p.Type != "" && p.Type != "*" {
			sel.spec[2]++
		}
	}
	return sel, nil
}

func parseCompound(tok string) (Compound, error) {
	var c Compound
	i := 0
	// Leading type name or universal.
	for i < len(tok) && tok[i] != '.' && tok[i] != '#' && tok[i] != ':' {
		i++
	}
	c.Type = tok[:i]
	for i < len(tok) {
		kind := tok[i]
		i++
		start := i
		for i < len(tok) && tok[i] != '.' && tok[i] != '#' && tok[i] != ':' {
			i++
		}
		name := tok[start:i]
		if name == "" {
			return Compound{}, fmt.Errorf("empty simple selector in %q", tok)
		}
		switch kind {
		case '.':
			c.Classes = append(c.Classes, name)
		case '#':
			if c.ID != "" {
				return Compound{}, fmt.Errorf("multiple ids in %q", tok)
			}
			c.ID = name
		case ':':
			st, ok := pseudoNames[strings.ToLower(name)]
			if !ok {
				return Compound{}, fmt.Errorf("unsupported pseudo-class :%s", name)
			}
			c.Pseudo |= st
		}
	}
	if c.isEmpty() {
		return Compound{}, fmt.Errorf("empty compound %q", tok)
	}
	return c, nil
}

func popcount(s State) int {
	n := 0
	for s != 0 {
		n += int(s & 1)
		s >>= 1
	}
	return n
}
