package engine

import (
	"fmt"
	"math"
	"time"
)

const (
	// XPPerLevel is the width of every rung on the ladder.
	XPPerLevel = 100.0

	// CrisisThreshold is the consecutive failure count that starts crisis mode.
	CrisisThreshold = 3

	// CrisisPenalty is the extra XP removed on every failure while the
	// failure count is at or above CrisisThreshold.
	CrisisPenalty = 10.0

	// InactivityPenalty is removed from every stat after InactivityThreshold.
	InactivityPenalty = 5.0

	// InactivityThreshold is the idle time that triggers the inactivity penalty.
	InactivityThreshold = 7 * 24 * time.Hour

	// DailyBonusXP is granted to every stat when DailyBonusQuests are completed.
	DailyBonusXP = 1.0
)

// XPChange describes the effect of one XP operation on a stat.
type XPChange struct {
	Stat          Stat
	Amount        float64
	LevelBefore   int
	LevelAfter    int
	XPBefore      float64
	XPAfter       float64
	CrisisEntered bool
	CrisisCleared bool
}

func (c XPChange) LevelUp() bool   { return c.LevelAfter > c.LevelBefore }
func (c XPChange) LevelDown() bool { return c.LevelAfter < c.LevelBefore }

func validAmount(amount float64) error {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return nil
}

// AddXP adds amount to stat s, carrying overflow into higher ranks. XP clamps
// at XPPerLevel on the terminal rank. Any gain ends crisis mode and resets the
// failure counter; ending an active crisis counts as a recovery.
func (p *PlayerState) AddXP(s Stat, amount float64) (XPChange, error) {
	e, err := p.Stat(s)
	if err != nil {
		return XPChange{}, err
	}
	if err := validAmount(amount); err != nil {
		return XPChange{}, err
	}
	ch := XPChange{Stat: s, Amount: amount, LevelBefore: e.Level, XPBefore: e.XP}

	e.XP += amount
	for e.XP >= XPPerLevel && e.Level < MaxLevel {
		e.XP -= XPPerLevel
		e.Level++
	}
	if e.Level == MaxLevel && e.XP > XPPerLevel {
		e.XP = XPPerLevel
	}

	if e.CrisisMode {
		p.CrisisRecoveries++
		ch.CrisisCleared = true
	}
	e.CrisisMode = false
	e.ConsecutiveFailures = 0

	ch.LevelAfter, ch.XPAfter = e.Level, e.XP
	return ch, nil
}

// RemoveXP removes amount from stat s, borrowing from lower ranks and clamping
// at zero on rank F. Each call counts as a failure; from CrisisThreshold
// failures on, the stat is in crisis and loses CrisisPenalty more.
func (p *PlayerState) RemoveXP(s Stat, amount float64) (XPChange, error) {
	e, err := p.Stat(s)
	if err != nil {
		return XPChange{}, err
	}
	if err := validAmount(amount); err != nil {
		return XPChange{}, err
	}
	ch := XPChange{Stat: s, Amount: amount, LevelBefore: e.Level, XPBefore: e.XP}

	e.deduct(amount)
	e.ConsecutiveFailures++
	if e.ConsecutiveFailures >= CrisisThreshold {
		ch.CrisisEntered = !e.CrisisMode
		e.CrisisMode = true
		e.deduct(CrisisPenalty)
		ch.Amount += CrisisPenalty
	}

	ch.LevelAfter, ch.XPAfter = e.Level, e.XP
	return ch, nil
}

func (e *StatEntry) deduct(amount float64) {
	e.XP -= amount
	for e.XP < 0 && e.Level > 0 {
		e.XP += XPPerLevel
		e.Level--
	}
	if e.Level == 0 && e.XP < 0 {
		e.XP = 0
	}
}

// ApplyInactivityPenalty removes InactivityPenalty from every stat.
func (p *PlayerState) ApplyInactivityPenalty() []XPChange {
	out := make([]XPChange, 0, len(AllStats))
	for _, s := range AllStats {
		ch, err := p.RemoveXP(s, InactivityPenalty)
		if err != nil {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// ApplyDailyBonus grants DailyBonusXP to every stat.
func (p *PlayerState) ApplyDailyBonus() []XPChange {
	out := make([]XPChange, 0, len(AllStats))
	for _, s := range AllStats {
		ch, err := p.AddXP(s, DailyBonusXP)
		if err != nil {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// InactivityDue reports whether the idle time since lastActive reached
// InactivityThreshold.
func InactivityDue(lastActive, now time.Time) bool {
	if lastActive.IsZero() {
		return false
	}
	return now.Sub(lastActive) >= InactivityThreshold
}
