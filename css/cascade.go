package css

import "sort"

// Resolve computes the final style of one node. base is the fully
// resolved default style (theme tokens plus the widget kind's
// hardcoded defaults), parent is the already-resolved parent style
// (nil at the root) and inline holds the node's direct declarations.
//
// The function is pure: same inputs always produce the same output,
// which is what makes dirty tracking sound. Order of application:
//
//  1. base defaults
//  2. inherited properties from parent
//  3. matched rules sorted by (specificity, source order) ascending,
//     later application overwriting earlier per property
//  4. inline declarations (maximum specificity)
func Resolve(n MatchNode, sheet *Stylesheet, base ComputedStyle, parent *ComputedStyle, inline *Props) ComputedStyle {
	out := base
	out.InheritFrom(parent)

	if sheet != nil {
		matched := sheet.MatchingRules(n)
		sort.SliceStable(matched, func(i, j int) bool {
			if c := matched[i].Selector.Specificity().Compare(matched[j].Selector.Specificity()); c != 0 {
				return c < 0
			}
			return matched[i].Order < matched[j].Order
		})
		var merged Props
		for _, r := range matched {
			merged.Merge(&r.Props)
		}
		merged.Merge(inline)
		out.Apply(&merged)
	} else {
		out.Apply(inline)
	}
	return out
}
