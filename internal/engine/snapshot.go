package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// SnapshotVersion is the schema version written by Export.
const SnapshotVersion = 2

// Snapshot is the portable export of one player. Its JSON form is the player
// state flattened next to a version key.
type Snapshot struct {
	Version    int         `json:"version"`
	ExportedAt time.Time   `json:"exportedAt"`
	Batch      *QuestBatch `json:"questBatch,omitempty"`
	*PlayerState
}

// NewSnapshot copies p and, when non-nil, the batch b.
func NewSnapshot(p *PlayerState, b *QuestBatch, now time.Time) Snapshot {
	s := Snapshot{Version: SnapshotVersion, ExportedAt: now, PlayerState: p.Clone()}
	if b != nil {
		c := b.clone()
		s.Batch = &c
	}
	return s
}

// MarshalSnapshot encodes s as indented JSON.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// ParseSnapshot decodes and validates an exported document. Version 1 documents
// (bare player state without a version key) are migrated to the current
// schema. Any problem yields an *ImportError.
func ParseSnapshot(data []byte) (Snapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Snapshot{}, malformed("", "invalid JSON: %v", err)
	}

	version := 1
	if raw, ok := probe["version"]; ok {
		if err := json.Unmarshal(raw, &version); err != nil {
			return Snapshot{}, malformed("version", "not an integer")
		}
	}

	var (
		s   Snapshot
		err error
	)
	switch version {
	case 1:
		s, err = parseLegacy(data)
	case SnapshotVersion:
		s, err = parseCurrent(data)
	default:
		return Snapshot{}, &ImportError{
			Field:  "version",
			Reason: fmt.Sprintf("version %d is not supported", version),
			Err:    ErrUnsupportedVersion,
		}
	}
	if err != nil {
		return Snapshot{}, err
	}
	if err := validateSnapshot(s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func parseCurrent(data []byte) (Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	s := Snapshot{PlayerState: &PlayerState{}}
	if err := dec.Decode(&s); err != nil {
		return Snapshot{}, malformed("", "decode: %v", err)
	}
	return s, nil
}

type legacyUnlocked struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Title      string    `json:"title"`
	Rarity     Rarity    `json:"rarity"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

type legacyPlayer struct {
	Stats            map[string]*StatEntry `json:"stats"`
	TotalDays        int                   `json:"totalDays"`
	QuestsCompleted  int                   `json:"questsCompleted"`
	QuestsFailed     int                   `json:"questsFailed"`
	DailyBonusCount  int                   `json:"dailyBonusCount"`
	CrisisRecoveries int                   `json:"crisisRecoveries"`
	Streaks          Streaks               `json:"streaks"`
	Achievements     []legacyUnlocked      `json:"achievements"`
	Titles           []legacyUnlocked      `json:"titles"`
	Artifacts        []legacyUnlocked      `json:"artifacts"`
	LastActive       time.Time             `json:"lastActive"`
}

// parseLegacy migrates a version 1 export. Missing stats start at rank F and
// unlocked entries take their name and rarity from the catalogs when absent.
func parseLegacy(data []byte) (Snapshot, error) {
	var lp legacyPlayer
	if err := json.Unmarshal(data, &lp); err != nil {
		return Snapshot{}, malformed("", "decode legacy export: %v", err)
	}
	if lp.Stats == nil {
		return Snapshot{}, malformed("stats", "missing")
	}

	p := &PlayerState{
		Stats:            make(map[Stat]*StatEntry, len(AllStats)),
		TotalDays:        lp.TotalDays,
		QuestsCompleted:  lp.QuestsCompleted,
		QuestsFailed:     lp.QuestsFailed,
		DailyBonusCount:  lp.DailyBonusCount,
		CrisisRecoveries: lp.CrisisRecoveries,
		Streaks:          lp.Streaks,
		LastActive:       lp.LastActive,
	}
	for k, e := range lp.Stats {
		p.Stats[Stat(k)] = e
	}
	for _, s := range AllStats {
		if _, ok := p.Stats[s]; !ok {
			p.Stats[s] = &StatEntry{}
		}
	}
	if p.Streaks.Best < p.Streaks.Daily {
		p.Streaks.Best = p.Streaks.Daily
	}

	p.Achievements = migrateUnlocked(lp.Achievements, func(id string) (string, Rarity, bool) {
		a, ok := LookupAchievement(id)
		return a.Name, a.Rarity, ok
	})
	p.Titles = migrateUnlocked(lp.Titles, func(id string) (string, Rarity, bool) {
		it, ok := lookupItem(titleCatalog, id)
		return it.Name, it.Rarity, ok
	})
	p.Artifacts = migrateUnlocked(lp.Artifacts, func(id string) (string, Rarity, bool) {
		it, ok := lookupItem(artifactCatalog, id)
		return it.Name, it.Rarity, ok
	})

	return Snapshot{Version: SnapshotVersion, PlayerState: p}, nil
}

func migrateUnlocked(in []legacyUnlocked, lookup func(id string) (string, Rarity, bool)) []Unlocked {
	out := make([]Unlocked, 0, len(in))
	for _, l := range in {
		u := Unlocked{ID: l.ID, Name: l.Name, Rarity: l.Rarity, UnlockedAt: l.UnlockedAt}
		if u.Name == "" {
			u.Name = l.Title
		}
		if name, rarity, ok := lookup(l.ID); ok {
			if u.Name == "" {
				u.Name = name
			}
			if u.Rarity == "" {
				u.Rarity = rarity
			}
		}
		out = append(out, u)
	}
	return out
}

func validateSnapshot(s Snapshot) error {
	p := s.PlayerState
	if p == nil || p.Stats == nil {
		return malformed("stats", "missing")
	}
	for k := range p.Stats {
		if !k.IsValid() {
			return &ImportError{Field: "stats." + string(k), Reason: "unknown stat", Err: ErrUnknownStat}
		}
	}
	for _, st := range AllStats {
		e, ok := p.Stats[st]
		if !ok || e == nil {
			return malformed("stats."+string(st), "missing")
		}
		if err := validateEntry(st, e); err != nil {
			return err
		}
	}

	counters := map[string]int{
		"totalDays":        p.TotalDays,
		"questsCompleted":  p.QuestsCompleted,
		"questsFailed":     p.QuestsFailed,
		"dailyBonusCount":  p.DailyBonusCount,
		"crisisRecoveries": p.CrisisRecoveries,
		"streaks.daily":    p.Streaks.Daily,
		"streaks.best":     p.Streaks.Best,
	}
	for field, v := range counters {
		if v < 0 {
			return malformed(field, "must not be negative, got %d", v)
		}
	}
	if p.Streaks.LastQuestDay != "" {
		if _, err := time.Parse(dayLayout, p.Streaks.LastQuestDay); err != nil {
			return malformed("streaks.lastQuestDay", "not a YYYY-MM-DD day")
		}
	}

	for field, list := range map[string][]Unlocked{
		"achievements": p.Achievements,
		"titles":       p.Titles,
		"artifacts":    p.Artifacts,
	} {
		if err := validateUnlocked(field, list); err != nil {
			return err
		}
	}
	if p.Achievements == nil {
		p.Achievements = []Unlocked{}
	}
	if p.Titles == nil {
		p.Titles = []Unlocked{}
	}
	if p.Artifacts == nil {
		p.Artifacts = []Unlocked{}
	}

	if s.Batch != nil {
		m := &QuestManager{}
		if err := m.SetBatch(*s.Batch); err != nil {
			return malformed("questBatch", "%v", err)
		}
	}
	return nil
}

func validateEntry(s Stat, e *StatEntry) error {
	field := "stats." + string(s)
	switch {
	case e.Level < 0 || e.Level > MaxLevel:
		return malformed(field+".level", "%d is outside [0, %d]", e.Level, MaxLevel)
	case math.IsNaN(e.XP) || math.IsInf(e.XP, 0):
		return malformed(field+".xp", "not a finite number")
	case e.XP < 0:
		return malformed(field+".xp", "must not be negative")
	case e.XP >= XPPerLevel && e.Level < MaxLevel:
		return malformed(field+".xp", "%v must be below %v before the last rank", e.XP, XPPerLevel)
	case e.XP > XPPerLevel:
		return malformed(field+".xp", "%v exceeds %v", e.XP, XPPerLevel)
	case e.ConsecutiveFailures < 0:
		return malformed(field+".consecutiveFailures", "must not be negative")
	}
	return nil
}

func validateUnlocked(field string, list []Unlocked) error {
	seen := make(map[string]bool, len(list))
	for i, u := range list {
		f := fmt.Sprintf("%s[%d]", field, i)
		if strings.TrimSpace(u.ID) == "" {
			return malformed(f+".id", "missing")
		}
		if seen[u.ID] {
			return malformed(f+".id", "duplicate %q", u.ID)
		}
		if u.Rarity != "" && !u.Rarity.IsValid() {
			return malformed(f+".rarity", "unknown rarity %q", u.Rarity)
		}
		seen[u.ID] = true
	}
	return nil
}
