package game

import (
	"math/rand"
	"sort"
	"time"

	"scrollkeeper-service/internal/domain"
)

// Selector picks unused questions from a static bank. The rand source is
// injectable so tests can supply deterministic sequences.
type Selector struct {
	questions []domain.Question
	rng       *rand.Rand
}

// NewSelector builds a selector over the bank's questions.
func NewSelector(questions []domain.Question, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{questions: questions, rng: rng}
}

// Next returns an unused question matching the tier and category, picked
// uniformly at random, or false when none remain. Callers handle the miss
// by retrying alternate categories before giving up on the round.
func (s *Selector) Next(tier domain.Tier, category string, used map[string]struct{}) (domain.Question, bool) {
	var candidates []domain.Question
	for _, q := range s.questions {
		if q.Tier != tier || q.Category != category {
			continue
		}
		if _, taken := used[q.ID]; taken {
			continue
		}
		candidates = append(candidates, q)
	}
	if len(candidates) == 0 {
		return domain.Question{}, false
	}
	return candidates[s.rng.Intn(len(candidates))], true
}

// Categories lists, in stable order, the categories that still have at
// least one unused question at the tier.
func (s *Selector) Categories(tier domain.Tier, used map[string]struct{}) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, q := range s.questions {
		if q.Tier != tier {
			continue
		}
		if _, taken := used[q.ID]; taken {
			continue
		}
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		out = append(out, q.Category)
	}
	sort.Strings(out)
	return out
}

// PickCategory chooses uniformly among the categories that still have
// unused questions at the tier. Empty string means the tier is exhausted.
func (s *Selector) PickCategory(tier domain.Tier, used map[string]struct{}) string {
	cats := s.Categories(tier, used)
	if len(cats) == 0 {
		return ""
	}
	return cats[s.rng.Intn(len(cats))]
}

// HallQuestions returns the hall's challenge list in bank order, truncated
// to the hall's cap. The cap is a fixed prefix, not a random sample: it is
// a per-hall length control.
func HallQuestions(bank domain.Bank, hall domain.Hall) []domain.Question {
	var out []domain.Question
	for _, q := range bank.Questions {
		if q.Category != hall.Category {
			continue
		}
		out = append(out, q)
		if hall.Limit > 0 && len(out) == hall.Limit {
			break
		}
	}
	return out
}
