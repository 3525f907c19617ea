package engine

import (
	"fmt"
	"time"
)

// StatEntry is the ladder position of a single stat.
type StatEntry struct {
	Level               int     `json:"level"`
	XP                  float64 `json:"xp"`
	CrisisMode          bool    `json:"crisisMode"`
	ConsecutiveFailures int     `json:"consecutiveFailures"`
}

// Streaks tracks consecutive calendar days with at least one completed quest.
type Streaks struct {
	Daily        int    `json:"daily"`
	Best         int    `json:"best"`
	LastQuestDay string `json:"lastQuestDay,omitempty"`
}

// Unlocked is an achievement, title or artifact the player has earned.
type Unlocked struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Rarity     Rarity    `json:"rarity"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

// PlayerState is the full progression state of one player.
type PlayerState struct {
	Stats map[Stat]*StatEntry `json:"stats"`

	TotalDays        int `json:"totalDays"`
	QuestsCompleted  int `json:"questsCompleted"`
	QuestsFailed     int `json:"questsFailed"`
	DailyBonusCount  int `json:"dailyBonusCount"`
	CrisisRecoveries int `json:"crisisRecoveries"`

	Streaks Streaks `json:"streaks"`

	Achievements []Unlocked `json:"achievements"`
	Titles       []Unlocked `json:"titles"`
	Artifacts    []Unlocked `json:"artifacts"`

	LastActive time.Time `json:"lastActive"`
}

// NewPlayerState returns a fresh player with every stat at rank F.
func NewPlayerState(now time.Time) *PlayerState {
	stats := make(map[Stat]*StatEntry, len(AllStats))
	for _, s := range AllStats {
		stats[s] = &StatEntry{}
	}
	return &PlayerState{
		Stats:        stats,
		Achievements: []Unlocked{},
		Titles:       []Unlocked{},
		Artifacts:    []Unlocked{},
		LastActive:   now,
	}
}

// Stat returns the entry for s, or ErrUnknownStat.
func (p *PlayerState) Stat(s Stat) (*StatEntry, error) {
	e, ok := p.Stats[s]
	if !ok || e == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStat, s)
	}
	return e, nil
}

// Level returns the ladder index of s, or 0 for unknown stats.
func (p *PlayerState) Level(s Stat) int {
	if e, ok := p.Stats[s]; ok && e != nil {
		return e.Level
	}
	return 0
}

// LevelName returns the rank label of s.
func (p *PlayerState) LevelName(s Stat) string {
	return RankName(p.Level(s))
}

// OverallLevel is the mean ladder index across all stats.
func (p *PlayerState) OverallLevel() float64 {
	total := 0
	for _, s := range AllStats {
		total += p.Level(s)
	}
	return float64(total) / float64(len(AllStats))
}

// CountAtLeast returns how many stats are at or above level.
func (p *PlayerState) CountAtLeast(level int) int {
	n := 0
	for _, s := range AllStats {
		if p.Level(s) >= level {
			n++
		}
	}
	return n
}

// InCrisis lists the stats currently in crisis mode, in AllStats order.
func (p *PlayerState) InCrisis() []Stat {
	var out []Stat
	for _, s := range AllStats {
		if e, ok := p.Stats[s]; ok && e != nil && e.CrisisMode {
			out = append(out, s)
		}
	}
	return out
}

func (p *PlayerState) HasAchievement(id string) bool { return hasUnlocked(p.Achievements, id) }
func (p *PlayerState) HasTitle(id string) bool       { return hasUnlocked(p.Titles, id) }
func (p *PlayerState) HasArtifact(id string) bool    { return hasUnlocked(p.Artifacts, id) }

func hasUnlocked(list []Unlocked, id string) bool {
	for i := range list {
		if list[i].ID == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of p.
func (p *PlayerState) Clone() *PlayerState {
	c := *p
	c.Stats = make(map[Stat]*StatEntry, len(p.Stats))
	for k, v := range p.Stats {
		if v == nil {
			continue
		}
		e := *v
		c.Stats[k] = &e
	}
	c.Achievements = append([]Unlocked{}, p.Achievements...)
	c.Titles = append([]Unlocked{}, p.Titles...)
	c.Artifacts = append([]Unlocked{}, p.Artifacts...)
	return &c
}
