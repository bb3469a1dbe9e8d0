package api

import (
	"context"
	"strings"

	"github.com/hazyhaar/gazetteer/pkg/gazetteer"
)

// Reply kinds of an AskReply.
const (
	KindGreeting = "greeting"
	KindCredits  = "credits"
	KindHistory  = "history"
	KindFoodList = "food_list"
	KindAnswer   = "answer"
)

const (
	greetingReply = "Olá! Sou o Guia Digital de Axixá. Posso ajudar com escolas, lojas, turismo e história da cidade."
	creditsReply  = "Desenvolvido por: Guilherme Moreira, José Ribamar, Marina de Jesus e Rikelmy Rabelo."

	greetingLabel = "Saudação"
	creditsLabel  = "Créditos"
	historyLabel  = "História"
	foodListLabel = "Comidas Típicas"

	// Listings of these categories are spread over the rural villages.
	villagesHint = "povoados"
)

var villageCategories = map[gazetteer.Category]bool{
	gazetteer.Schools: true, gazetteer.Stores: true, gazetteer.Churches: true,
}

// Matched against whole normalized words.
var greetingWords = map[string]bool{
	"ola": true, "oi": true, "opa": true, "salve": true, "eai": true,
}

// Matched as substrings of the normalized question.
var (
	greetingPhrases  = []string{"bom dia", "boa tarde", "boa noite", "tudo bem", "tude bem", "como vai"}
	identityKeywords = []string{
		"quem fez", "quem criou", "quem desenvolveu", "criador", "desenvolvedor",
		"quem e voce", "quem saoz", "sobre o projeto", "quem sou eu",
	}
)

// AskReply is the answer envelope for an assistant front end: either a
// canned quick reply or a resolution with its label, map link and the
// grounding payload (the matched entity or listing).
type AskReply struct {
	Question string  `json:"question"`
	Kind     string  `json:"kind"`
	Label    string  `json:"label,omitempty"`
	Reply    string  `json:"reply,omitempty"`
	MapLink  string  `json:"map_link,omitempty"`
	Hint     string  `json:"hint,omitempty"`
	Answer   *Answer `json:"answer,omitempty"`
	Payload  any     `json:"payload,omitempty"`
}

// Ask handles quick replies, the town history and the full typical food
// list before falling back to Resolve.
func (s *Service) Ask(ctx context.Context, question string) (AskReply, error) {
	q, err := s.validate(question)
	if err != nil {
		return AskReply{}, err
	}
	norm := gazetteer.Normalize(q)

	switch {
	case isGreeting(norm):
		return AskReply{Question: q, Kind: KindGreeting, Label: greetingLabel, Reply: greetingReply}, nil
	case containsAny(norm, identityKeywords):
		return AskReply{Question: q, Kind: KindCredits, Label: creditsLabel, Reply: creditsReply}, nil
	}

	ix := s.reg.Index()
	if strings.Contains(norm, "historia") {
		if h := ix.History(); len(h) > 0 {
			return AskReply{Question: q, Kind: KindHistory, Label: historyLabel, Payload: h}, nil
		}
	}
	if strings.Contains(norm, "comida") && strings.Contains(norm, "quais") {
		if n := ix.Count(gazetteer.TypicalFoods); n > 0 {
			return AskReply{Question: q, Kind: KindFoodList, Label: foodListLabel, Payload: ix.First(gazetteer.TypicalFoods, n)}, nil
		}
	}

	a := s.answer(q, s.resolve(q))
	reply := AskReply{Question: q, Kind: KindAnswer, Label: a.Label, MapLink: a.MapLink, Answer: &a}
	switch a.Outcome {
	case gazetteer.SingleMatch:
		reply.Payload = a.Entity
	case gazetteer.CategoryListing:
		reply.Payload = a.Entities
		if a.Category != nil && villageCategories[*a.Category] {
			reply.Hint = villagesHint
		}
	}
	return reply, nil
}

func isGreeting(norm string) bool {
	for _, w := range strings.Fields(norm) {
		if greetingWords[w] {
			return true
		}
	}
	return containsAny(norm, greetingPhrases)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
