package css

// Rule is one selector with its declaration block, already reduced to
// typed properties. Order is the rule's position in the sheet and
// breaks specificity ties (later wins).
type Rule struct {
	Selector *Selector
	Props    Props
	Order    int
}

// Stylesheet is an immutable ordered rule list. Replacing the active
// sheet invalidates every cached computed style; the sheet itself is
// never mutated after parsing.
type Stylesheet struct {
	Rules []Rule
}

// Empty is the zero stylesheet, used before any sheet is loaded.
var Empty = &Stylesheet{}

// MatchingRules returns the rules whose selector matches n, in sheet
// order. The cascade sorts the result by specificity afterwards.
func (s *Stylesheet) MatchingRules(n MatchNode) []*Rule {
	var out []*Rule
	for i := range s.Rules {
		if s.Rules[i].Selector.Matches(n) {
			out = append(out, &s.Rules[i])
		}
	}
	return out
}
