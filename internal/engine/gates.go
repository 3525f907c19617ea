package engine

const (
	// MinDifficultyGap and MaxDifficultyGap bound difficulty - level for a
	// template to be offered.
	MinDifficultyGap = -2
	MaxDifficultyGap = 3

	// DailyBonusQuests is the number of completions per day that earns the
	// daily bonus.
	DailyBonusQuests = 7

	// MaxFailPenalty caps the XP removed when a quest is failed.
	MaxFailPenalty = 5
)

// InDifficultyWindow reports whether a template of the given difficulty is
// offered to a stat at level.
func InDifficultyWindow(difficulty, level int) bool {
	gap := difficulty - level
	return gap >= MinDifficultyGap && gap <= MaxDifficultyGap
}

// IsOverreach reports whether a quest is above the player's level and so pays
// double.
func IsOverreach(difficulty, level int) bool {
	return difficulty > level
}

// RewardFor returns the XP paid for completing a quest at the given level.
func RewardFor(q Quest, level int) float64 {
	xp := float64(q.XPReward)
	if IsOverreach(q.Difficulty, level) {
		xp *= 2
	}
	return xp
}

// PenaltyFor returns the XP removed for failing q.
func PenaltyFor(q Quest) float64 {
	return float64(min(q.XPReward, MaxFailPenalty))
}

// Challenge labels a quest relative to the player's level.
type Challenge string

const (
	ChallengeEpic    Challenge = "epic"
	ChallengeAbove   Challenge = "challenge"
	ChallengeMatched Challenge = "matched"
	ChallengeRoutine Challenge = "routine"
)

// ChallengeFor grades a quest of the given difficulty against level.
func ChallengeFor(difficulty, level int) Challenge {
	gap := difficulty - level
	switch {
	case gap > 2:
		return ChallengeEpic
	case gap > 0:
		return ChallengeAbove
	case gap == 0:
		return ChallengeMatched
	default:
		return ChallengeRoutine
	}
}

// Describe returns a short player-facing hint for the challenge.
func (c Challenge) Describe() string {
	switch c {
	case ChallengeEpic:
		return "Epic quest: double reward for reaching far above your rank"
	case ChallengeAbove:
		return "Challenge: above your current rank, double reward"
	case ChallengeMatched:
		return "A perfect fit for your current rank"
	default:
		return "Routine quest: keeps your progress going"
	}
}
