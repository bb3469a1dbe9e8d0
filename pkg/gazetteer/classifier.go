package gazetteer

import "strings"

// DetectCategories returns, in iteration order, every category with at least
// one keyword contained in the normalized query.
func DetectCategories(normalizedQuery string) []Category {
	if normalizedQuery == "" {
		return nil
	}
	var out []Category
	for _, c := range Categories() {
		for _, kw := range c.Keywords() {
			if strings.Contains(normalizedQuery, kw) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// GenericTrigger reports the category whose listing phrase equals the
// stop-word-stripped query exactly ("escolas", "pontos turisticos").
func GenericTrigger(query string) (Category, bool) {
	if query == "" {
		return 0, false
	}
	for _, c := range Categories() {
		for _, t := range c.Triggers() {
			if query == t {
				return c, true
			}
		}
	}
	return 0, false
}

func containsCategory(cs []Category, c Category) bool {
	for _, x := range cs {
		if x == c {
			return true
		}
	}
	return false
}
