package gazetteer

import (
	"fmt"
	"strings"
)

// Scoring holds every tunable constant of the ranker and resolver.
type Scoring struct {
	CategoryBonus       float64
	NameStrongThreshold float64
	NameStrongBonus     float64
	NameWeakThreshold   float64
	NameWeakBonus       float64
	MatchThreshold      float64
	ListingSize         int
}

// DefaultScoring returns the stock constants: bonus 12, name tiers 85/25 and 60/10, threshold 70, listings of 4.
func DefaultScoring() Scoring {
	return Scoring{
		CategoryBonus:       12,
		NameStrongThreshold: 85,
		NameStrongBonus:     25,
		NameWeakThreshold:   60,
		NameWeakBonus:       10,
		MatchThreshold:      70,
		ListingSize:         4,
	}
}

// Validate rejects constant sets that break the tier ordering.
func (s Scoring) Validate() error {
	if s.ListingSize <= 0 {
		return fmt.Errorf("scoring: listing_size must be positive, got %d", s.ListingSize)
	}
	if s.NameWeakThreshold > s.NameStrongThreshold {
		return fmt.Errorf("scoring: name_weak_threshold %.0f above name_strong_threshold %.0f",
			s.NameWeakThreshold, s.NameStrongThreshold)
	}
	if s.NameWeakBonus > s.NameStrongBonus {
		return fmt.Errorf("scoring: name_weak_bonus %.0f above name_strong_bonus %.0f",
			s.NameWeakBonus, s.NameStrongBonus)
	}
	if s.CategoryBonus < 0 || s.NameWeakBonus < 0 {
		return fmt.Errorf("scoring: bonuses must not be negative")
	}
	return nil
}

func (s Scoring) nameBonus(sim float64) float64 {
	switch {
	case sim > s.NameStrongThreshold:
		return s.NameStrongBonus
	case sim > s.NameWeakThreshold:
		return s.NameWeakBonus
	}
	return 0
}

// Ranked is the best candidate across all categories.
type Ranked struct {
	Entity   *Entity
	Category Category
	Score    float64
}

// Rank scores the joined query tokens against every category and returns
// the single best combined score. detected lists the categories that earn
// the category bonus. Equal scores keep the earlier category, and within a
// category the earlier entity.
func Rank(ix *Index, tokens []string, detected []Category, s Scoring) (Ranked, bool) {
	if ix.Len() == 0 || len(tokens) == 0 {
		return Ranked{}, false
	}
	query := strings.Join(tokens, " ")

	var best Ranked
	found := false
	for _, c := range Categories() {
		b := ix.bucket(c)
		if len(b.texts) == 0 {
			continue
		}

		top, topScore := -1, -1.0
		for i, text := range b.texts {
			if sc := TokenSetRatio(query, text); sc > topScore {
				top, topScore = i, sc
			}
		}

		e := b.entities[top]
		score := topScore + s.nameBonus(TokenSetRatio(query, e.NormalizedName))
		if containsCategory(detected, c) {
			score += s.CategoryBonus
		}
		if !found || score > best.Score {
			best = Ranked{Entity: e, Category: c, Score: score}
			found = true
		}
	}
	return best, found
}
