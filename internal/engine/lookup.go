package engine

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

var statAliases = map[string]Stat{
	"str":       StatStrength,
	"strength":  StatStrength,
	"mental":    StatMentalHealth,
	"mind":      StatMentalHealth,
	"int":       StatIntelligence,
	"intel":     StatIntelligence,
	"addiction": StatAddictionControl,
	"vice":      StatAddictionControl,
	"vices":     StatAddictionControl,
	"food":      StatNutrition,
	"diet":      StatNutrition,
	"end":       StatEndurance,
	"stamina":   StatEndurance,
	"spd":       StatSpeed,
	"cha":       StatCharisma,
	"skill":     StatSkills,
	"sex":       StatSexuality,
}

// ParseStat parses a stat id, label or short alias, ignoring case.
func ParseStat(input string) (Stat, error) {
	in := strings.ToLower(strings.TrimSpace(input))
	for _, s := range AllStats {
		if in == strings.ToLower(string(s)) || in == strings.ToLower(s.Label()) {
			return s, nil
		}
	}
	if s, ok := statAliases[in]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStat, input)
}

// maxNameDistance bounds how far a typed quest name may be from a real one.
const maxNameDistance = 3

// FindQuest resolves ref against quests by exact id, id prefix, exact name,
// name substring and finally by the closest name within maxNameDistance edits.
// Several matches at the same step yield an AmbiguousQuestError.
func FindQuest(quests []Quest, ref string) (Quest, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Quest{}, fmt.Errorf("%w: empty reference", ErrQuestNotFound)
	}
	lower := strings.ToLower(ref)

	steps := []func(Quest) bool{
		func(q Quest) bool { return q.ID == ref },
		func(q Quest) bool { return strings.HasPrefix(strings.ToLower(q.ID), lower) },
		func(q Quest) bool { return strings.EqualFold(q.Name, ref) },
		func(q Quest) bool { return strings.Contains(strings.ToLower(q.Name), lower) },
	}
	for _, match := range steps {
		var hits []Quest
		for _, q := range quests {
			if match(q) {
				hits = append(hits, q)
			}
		}
		if q, err := pick(ref, hits); q != nil || err != nil {
			if err != nil {
				return Quest{}, err
			}
			return *q, nil
		}
	}

	best, bestDist := []Quest(nil), maxNameDistance+1
	for _, q := range quests {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(q.Name))
		switch {
		case d < bestDist:
			best, bestDist = []Quest{q}, d
		case d == bestDist:
			best = append(best, q)
		}
	}
	if q, err := pick(ref, best); q != nil || err != nil {
		if err != nil {
			return Quest{}, err
		}
		return *q, nil
	}
	return Quest{}, fmt.Errorf("%w: %q", ErrQuestNotFound, ref)
}

func pick(ref string, hits []Quest) (*Quest, error) {
	switch len(hits) {
	case 0:
		return nil, nil
	case 1:
		return &hits[0], nil
	}
	ids := make([]string, len(hits))
	for i, q := range hits {
		ids[i] = q.ID
	}
	return nil, AmbiguousQuestError{Ref: ref, Matches: ids}
}

// FindQuest resolves ref against today's quests.
func (s *Service) FindQuest(ref string) (Quest, error) {
	return FindQuest(s.Quests(), ref)
}
