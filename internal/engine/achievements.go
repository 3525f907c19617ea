package engine

// AchievementKind groups achievements by what they reward.
type AchievementKind string

const (
	KindLevelMilestone AchievementKind = "level_milestone"
	KindQuestStreak    AchievementKind = "quest_streak"
	KindDailyBonus     AchievementKind = "daily_bonus"
	KindPerfectDay     AchievementKind = "perfect_day"
	KindComeback       AchievementKind = "comeback"
	KindDedication     AchievementKind = "dedication"
	KindMastery        AchievementKind = "mastery"
	KindSpecial        AchievementKind = "special"
)

// Achievement is a catalog entry. Condition receives a nil QuestManager when
// the scan runs without a daily batch.
type Achievement struct {
	ID          string
	Kind        AchievementKind
	Name        string
	Description string
	Icon        string
	Rarity      Rarity
	Condition   func(p *PlayerState, qm *QuestManager) bool
}

// Item is a title or artifact catalog entry.
type Item struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Requirement string
	Rarity      Rarity
}

func anyStatAtLeast(level int) func(*PlayerState, *QuestManager) bool {
	return func(p *PlayerState, _ *QuestManager) bool { return p.CountAtLeast(level) > 0 }
}

func streakAtLeast(days int) func(*PlayerState, *QuestManager) bool {
	return func(p *PlayerState, _ *QuestManager) bool { return p.Streaks.Daily >= days }
}

func completedAtLeast(n int) func(*PlayerState, *QuestManager) bool {
	return func(p *PlayerState, _ *QuestManager) bool { return p.QuestsCompleted >= n }
}

func daysAtLeast(n int) func(*PlayerState, *QuestManager) bool {
	return func(p *PlayerState, _ *QuestManager) bool { return p.TotalDays >= n }
}

var achievementCatalog = []Achievement{
	// Level milestones
	{ID: "first_level_up", Kind: KindLevelMilestone, Name: "First Step", Description: "Raise any stat to rank E", Icon: "🌟", Rarity: RarityCommon, Condition: anyStatAtLeast(1)},
	{ID: "reach_rank_d", Kind: KindLevelMilestone, Name: "Determined Adventurer", Description: "Reach rank D in any stat", Icon: "⚔️", Rarity: RarityCommon, Condition: anyStatAtLeast(2)},
	{ID: "reach_rank_c", Kind: KindLevelMilestone, Name: "Competent Warrior", Description: "Reach rank C in any stat", Icon: "🛡️", Rarity: RarityUncommon, Condition: anyStatAtLeast(3)},
	{ID: "reach_rank_b", Kind: KindLevelMilestone, Name: "Skilled Hero", Description: "Reach rank B in any stat", Icon: "🏆", Rarity: RarityRare, Condition: anyStatAtLeast(4)},
	{ID: "reach_rank_a", Kind: KindLevelMilestone, Name: "Elite Champion", Description: "Reach rank A in any stat", Icon: "👑", Rarity: RarityEpic, Condition: anyStatAtLeast(5)},
	{ID: "reach_rank_s", Kind: KindLevelMilestone, Name: "Supreme Legend", Description: "Reach rank S in any stat", Icon: "⭐", Rarity: RarityLegendary, Condition: anyStatAtLeast(6)},

	// Streaks
	{ID: "quest_streak_7", Kind: KindQuestStreak, Name: "Victorious Week", Description: "Complete quests 7 days in a row", Icon: "🔥", Rarity: RarityUncommon, Condition: streakAtLeast(7)},
	{ID: "quest_streak_30", Kind: KindQuestStreak, Name: "Master of Discipline", Description: "Complete quests 30 days in a row", Icon: "💪", Rarity: RarityEpic, Condition: streakAtLeast(30)},
	{ID: "quest_streak_100", Kind: KindQuestStreak, Name: "Immortal Persistence", Description: "Complete quests 100 days in a row", Icon: "🔥", Rarity: RarityLegendary, Condition: streakAtLeast(100)},

	{ID: "daily_bonus_10", Kind: KindDailyBonus, Name: "Epic Workaholic", Description: "Earn the daily bonus (7+ quests) 10 times", Icon: "⚡", Rarity: RarityRare,
		Condition: func(p *PlayerState, _ *QuestManager) bool { return p.DailyBonusCount >= 10 }},

	{ID: "perfect_day", Kind: KindPerfectDay, Name: "Perfect Day", Description: "Complete every quest of a day without failing any", Icon: "✨", Rarity: RarityRare,
		Condition: func(_ *PlayerState, qm *QuestManager) bool {
			if qm == nil {
				return false
			}
			dp := qm.DailyProgress()
			return dp.Total > 0 && dp.Completed == dp.Total && dp.Failed == 0
		}},

	{ID: "crisis_recovery", Kind: KindComeback, Name: "Phoenix Reborn", Description: "Leave crisis mode in any stat", Icon: "🔥", Rarity: RarityUncommon,
		Condition: func(p *PlayerState, _ *QuestManager) bool { return p.CrisisRecoveries >= 1 }},

	// Dedication
	{ID: "total_quests_100", Kind: KindDedication, Name: "Quest Veteran", Description: "Complete 100 quests", Icon: "🎯", Rarity: RarityUncommon, Condition: completedAtLeast(100)},
	{ID: "total_quests_500", Kind: KindDedication, Name: "Mission Master", Description: "Complete 500 quests", Icon: "🏅", Rarity: RarityEpic, Condition: completedAtLeast(500)},
	{ID: "total_quests_1000", Kind: KindDedication, Name: "Immortal Legend", Description: "Complete 1000 quests", Icon: "👑", Rarity: RarityLegendary, Condition: completedAtLeast(1000)},

	{ID: "all_stats_level_5", Kind: KindMastery, Name: "Balanced Master", Description: "Have every stat at rank B or higher", Icon: "⚖️", Rarity: RarityLegendary,
		Condition: func(p *PlayerState, _ *QuestManager) bool { return p.CountAtLeast(4) == len(AllStats) }},

	// Special
	{ID: "first_week", Kind: KindSpecial, Name: "First Week Survivor", Description: "Play for 7 days", Icon: "🗓️", Rarity: RarityCommon, Condition: daysAtLeast(7)},
	{ID: "month_warrior", Kind: KindSpecial, Name: "Warrior of the Month", Description: "Play for 30 days", Icon: "📅", Rarity: RarityRare, Condition: daysAtLeast(30)},
}

var titleCatalog = []Item{
	{ID: "novice", Name: "Novice", Description: "The first title of every adventurer", Requirement: "Complete the first level up", Rarity: RarityCommon},
	{ID: "dedicated", Name: "Dedicated", Description: "For those who never give up", Requirement: "7 day streak", Rarity: RarityUncommon},
	{ID: "disciplined", Name: "Disciplined", Description: "Master of self control", Requirement: "30 day streak", Rarity: RarityRare},
	{ID: "legendary", Name: "Legendary", Description: "Few ever reach such greatness", Requirement: "Reach rank S", Rarity: RarityLegendary},
	{ID: "perfectionist", Name: "Perfectionist", Description: "Perfection is the standard", Requirement: "10 perfect days", Rarity: RarityEpic},
	{ID: "phoenix", Name: "Phoenix", Description: "Rises from the ashes", Requirement: "Leave crisis mode", Rarity: RarityRare},
}

var artifactCatalog = []Item{
	{ID: "sword_of_discipline", Name: "Sword of Discipline", Description: "Forged through 30 days of dedication", Icon: "⚔️", Requirement: "30 day streak", Rarity: RarityEpic},
	{ID: "shield_of_resilience", Name: "Shield of Resilience", Description: "Protects against adversity", Icon: "🛡️", Requirement: "Leave crisis mode", Rarity: RarityRare},
	{ID: "crown_of_mastery", Name: "Crown of Mastery", Description: "Symbol of total mastery", Icon: "👑", Requirement: "Every stat at rank B+", Rarity: RarityLegendary},
	{ID: "amulet_of_balance", Name: "Amulet of Balance", Description: "Harmony between body, mind and spirit", Icon: "🔮", Requirement: "Rank A in 5 stats", Rarity: RarityEpic},
}

// achievement id -> title id
var titleUnlocks = map[string]string{
	"first_level_up":  "novice",
	"quest_streak_7":  "dedicated",
	"quest_streak_30": "disciplined",
	"reach_rank_s":    "legendary",
	"crisis_recovery": "phoenix",
}

// achievement id -> artifact id
var artifactUnlocks = map[string]string{
	"quest_streak_30":   "sword_of_discipline",
	"crisis_recovery":   "shield_of_resilience",
	"all_stats_level_5": "crown_of_mastery",
}

// Achievements returns the achievement catalog in definition order.
func Achievements() []Achievement { return append([]Achievement(nil), achievementCatalog...) }

// Titles returns the title catalog.
func Titles() []Item { return append([]Item(nil), titleCatalog...) }

// Artifacts returns the artifact catalog.
func Artifacts() []Item { return append([]Item(nil), artifactCatalog...) }

// LookupAchievement returns the catalog entry with id.
func LookupAchievement(id string) (Achievement, bool) {
	for _, a := range achievementCatalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

func lookupItem(items []Item, id string) (Item, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Unlocks lists items unlocked by one scan.
type Unlocks struct {
	Achievements []Unlocked
	Titles       []Unlocked
	Artifacts    []Unlocked
}

func (u Unlocks) Empty() bool {
	return len(u.Achievements) == 0 && len(u.Titles) == 0 && len(u.Artifacts) == 0
}

// AchievementChecker evaluates the catalog against a player.
type AchievementChecker struct {
	player *PlayerState
	quests *QuestManager
	clock  Clock
}

// NewAchievementChecker builds a checker. quests may be nil.
func NewAchievementChecker(p *PlayerState, quests *QuestManager, clock Clock) *AchievementChecker {
	if clock == nil {
		clock = SystemClock{}
	}
	return &AchievementChecker{player: p, quests: quests, clock: clock}
}

// Check unlocks every achievement whose condition holds and that the player
// does not own yet, cascading into the mapped title and artifact. Calling it
// again without a state change unlocks nothing.
func (c *AchievementChecker) Check() Unlocks {
	var out Unlocks
	now := c.clock.Now()
	for _, a := range achievementCatalog {
		if c.player.HasAchievement(a.ID) {
			continue
		}
		if !a.Condition(c.player, c.quests) {
			continue
		}
		u := Unlocked{ID: a.ID, Name: a.Name, Rarity: a.Rarity, UnlockedAt: now}
		c.player.Achievements = append(c.player.Achievements, u)
		out.Achievements = append(out.Achievements, u)

		if id, ok := titleUnlocks[a.ID]; ok && !c.player.HasTitle(id) {
			if t, ok := lookupItem(titleCatalog, id); ok {
				tu := Unlocked{ID: t.ID, Name: t.Name, Rarity: t.Rarity, UnlockedAt: now}
				c.player.Titles = append(c.player.Titles, tu)
				out.Titles = append(out.Titles, tu)
			}
		}
		if id, ok := artifactUnlocks[a.ID]; ok && !c.player.HasArtifact(id) {
			if it, ok := lookupItem(artifactCatalog, id); ok {
				au := Unlocked{ID: it.ID, Name: it.Name, Rarity: it.Rarity, UnlockedAt: now}
				c.player.Artifacts = append(c.player.Artifacts, au)
				out.Artifacts = append(out.Artifacts, au)
			}
		}
	}
	return out
}

// AchievementStats summarizes unlocked achievements.
type AchievementStats struct {
	Total       int
	Unlocked    int
	Completion  float64
	Score       int
	RarityCount map[Rarity]int
	Titles      int
	Artifacts   int
}

// Score sums the rarity points of every unlocked achievement.
func (c *AchievementChecker) Score() int {
	total := 0
	for _, u := range c.player.Achievements {
		total += u.Rarity.Points()
	}
	return total
}

func (c *AchievementChecker) Stats() AchievementStats {
	s := AchievementStats{
		Total:       len(achievementCatalog),
		Unlocked:    len(c.player.Achievements),
		Score:       c.Score(),
		RarityCount: make(map[Rarity]int, len(Rarities)),
		Titles:      len(c.player.Titles),
		Artifacts:   len(c.player.Artifacts),
	}
	for _, r := range Rarities {
		s.RarityCount[r] = 0
	}
	for _, u := range c.player.Achievements {
		s.RarityCount[u.Rarity]++
	}
	if s.Total > 0 {
		s.Completion = float64(s.Unlocked) / float64(s.Total) * 100
	}
	return s
}

// Next returns up to n locked achievements in catalog order.
func (c *AchievementChecker) Next(n int) []Achievement {
	var out []Achievement
	for _, a := range achievementCatalog {
		if len(out) >= n {
			break
		}
		if !c.player.HasAchievement(a.ID) {
			out = append(out, a)
		}
	}
	return out
}

func (c *AchievementChecker) ByRarity(r Rarity) []Unlocked {
	var out []Unlocked
	for _, u := range c.player.Achievements {
		if u.Rarity == r {
			out = append(out, u)
		}
	}
	return out
}

func (c *AchievementChecker) ByKind(k AchievementKind) []Unlocked {
	var out []Unlocked
	for _, u := range c.player.Achievements {
		if a, ok := LookupAchievement(u.ID); ok && a.Kind == k {
			out = append(out, u)
		}
	}
	return out
}
