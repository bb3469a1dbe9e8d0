// CLAUDE:SUMMARY Indel-based similarity ratio and order-insensitive token-set similarity on a 0-100 scale.
package gazetteer

import (
	"sort"
	"strings"

	"github.com/xrash/smetrics"
)

// Ratio is the normalized indel similarity of a and b in [0, 100].
// Substitutions cost two, so the distance counts insertions and deletions only.
func Ratio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return 100 * (1 - float64(dist)/float64(total))
}

// TokenSetRatio compares the token sets of a and b. When every token of one
// side appears in the other it scores 100, regardless of order or extra
// tokens; otherwise it scores the best ratio between the shared tokens and
// each side's remainder.
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var inter, onlyA, onlyB []string
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter = append(inter, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range tb {
		if _, ok := ta[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}
	if len(inter) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	sect := sortedJoin(inter)
	withA := joinNonEmpty(sect, sortedJoin(onlyA))
	withB := joinNonEmpty(sect, sortedJoin(onlyB))

	best := Ratio(withA, withB)
	if sect != "" {
		best = max(best, Ratio(sect, withA), Ratio(sect, withB))
	}
	return best
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func sortedJoin(toks []string) string {
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
