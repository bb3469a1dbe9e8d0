package gazetteer

import (
	"encoding/json"
	"fmt"
)

// Outcome tags a Result.
type Outcome int

const (
	NoMatch Outcome = iota
	SingleMatch
	CategoryListing
)

func (o Outcome) String() string {
	switch o {
	case SingleMatch:
		return "single"
	case CategoryListing:
		return "listing"
	default:
		return "none"
	}
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "single":
		*o = SingleMatch
	case "listing":
		*o = CategoryListing
	case "none":
		*o = NoMatch
	default:
		return fmt.Errorf("unknown outcome %q", s)
	}
	return nil
}

// Result is the outcome of resolving one query.
// Entity is set for SingleMatch; Category and Entities for CategoryListing.
type Result struct {
	Outcome  Outcome   `json:"outcome"`
	Entity   *Entity   `json:"entity,omitempty"`
	Category *Category `json:"category,omitempty"`
	Entities []*Entity `json:"entities,omitempty"`
	Score    float64   `json:"score,omitempty"`
}

func single(r Ranked) Result {
	c := r.Category
	return Result{Outcome: SingleMatch, Entity: r.Entity, Category: &c, Score: r.Score}
}

func listing(ix *Index, c Category, n int) Result {
	return Result{Outcome: CategoryListing, Category: &c, Entities: ix.First(c, n)}
}

// Resolve maps a free-text query to a single entity, a category listing or
// no match. It is a pure function of its arguments.
func Resolve(ix *Index, query string, s Scoring) Result {
	if ix.Len() == 0 {
		return Result{}
	}
	tokens := TokenizeQuery(query)
	if len(tokens) == 0 {
		return Result{}
	}

	if c, ok := GenericTrigger(TriggerQuery(query)); ok && ix.Count(c) > 0 {
		return listing(ix, c, s.ListingSize)
	}

	detected := DetectCategories(Normalize(query))
	best, ok := Rank(ix, tokens, detected, s)
	if ok && best.Score >= s.MatchThreshold {
		return single(best)
	}

	for _, c := range detected {
		if ix.Count(c) > 0 {
			r := listing(ix, c, s.ListingSize)
			r.Score = best.Score
			return r
		}
	}
	return Result{Score: best.Score}
}

// Label is the short human-facing name of a result: the entity name, or
// "Geral: <source key>" for a listing.
func (r Result) Label() string {
	switch r.Outcome {
	case SingleMatch:
		return r.Entity.Name
	case CategoryListing:
		return "Geral: " + r.Category.SourceKey()
	}
	return ""
}
