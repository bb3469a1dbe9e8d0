// CLAUDE:SUMMARY Text normalization (case + accent folding, punctuation stripping) and query tokenization with stop-word filtering.
package gazetteer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stopWords never carry intent on their own. Category-generic nouns are
// listed too: they would otherwise pull every entity of a category equally.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "o", "e", "ou", "de", "do", "da", "dos", "das", "em", "no", "na",
		"nos", "nas", "por", "para", "com", "sem", "sob", "sobre", "as", "os",
		"me", "fale", "diga", "onde", "fica", "localiza", "localizacao", "qual",
		"quais", "sao", "sou", "gostaria", "queria", "saber", "informacoes", "info",
		"axixa", "cidade", "municipio", "como", "faco", "pra", "chegar",
		"quero", "tem", "tinha", "existe", "existem", "ha", "que", "alguma", "algum",
		"uns", "umas", "bairro", "rua", "av", "avenida", "povoado",
		"tomar", "fazer", "encontrar", "posso", "pode", "endereco",
		"ver", "comprar", "vende",
	} {
		stopWords[w] = struct{}{}
	}
	for _, w := range categoryNouns {
		stopWords[w] = struct{}{}
	}
}

// categoryNouns are stop words for ranking but still name a listing.
var categoryNouns = []string{"loja", "lojas", "escola", "escolas", "igreja", "igrejas"}

// Normalize lowercases, folds diacritics, replaces every rune that is not a
// letter, digit or space with a separator and collapses whitespace.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	folded, _, _ := transform.String(stripAccents, strings.ToLower(s))
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, folded)
	return strings.Join(strings.Fields(cleaned), " ")
}

// TokenizeQuery returns the significant tokens of a query in first-seen order
// without duplicates. Single-rune tokens and stop words are dropped; when
// nothing survives, the full normalized token list is returned instead.
func TokenizeQuery(s string) []string {
	all := uniqueTokens(strings.Fields(Normalize(s)))
	significant := make([]string, 0, len(all))
	for _, tok := range all {
		if utf8.RuneCountInString(tok) <= 1 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		significant = append(significant, tok)
	}
	if len(significant) == 0 {
		return all
	}
	return significant
}

// TriggerQuery strips a query the way TokenizeQuery does but keeps the
// category nouns, so "qual igreja?" reduces to "igreja". The result is
// what GenericTrigger compares against.
func TriggerQuery(s string) string {
	all := uniqueTokens(strings.Fields(Normalize(s)))
	kept := make([]string, 0, len(all))
	for _, tok := range all {
		if utf8.RuneCountInString(tok) <= 1 {
			continue
		}
		if _, stop := stopWords[tok]; stop && !isCategoryNoun(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	if len(kept) == 0 {
		return strings.Join(all, " ")
	}
	return strings.Join(kept, " ")
}

func isCategoryNoun(tok string) bool {
	for _, n := range categoryNouns {
		if n == tok {
			return true
		}
	}
	return false
}

// IsStopWord reports whether a normalized token is ignored by TokenizeQuery.
func IsStopWord(tok string) bool {
	_, ok := stopWords[tok]
	return ok
}

func uniqueTokens(toks []string) []string {
	seen := make(map[string]struct{}, len(toks))
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
