package engine

// Outcome is the effect of completing or failing one quest.
type Outcome struct {
	Quest     Quest
	XP        float64
	Overreach bool
	Change    XPChange

	// DailyBonus is set on the completion that crossed DailyBonusQuests.
	DailyBonus   bool
	BonusChanges []XPChange

	StreakExtended bool
}

// CompleteQuest marks a pending quest completed and pays its reward, doubled
// when the quest is above the player's level. The daily bonus is applied once
// per batch, on the completion that reaches DailyBonusQuests. It returns false
// when the quest does not exist or is no longer pending.
func (m *QuestManager) CompleteQuest(id string) (Outcome, bool) {
	i := m.find(id)
	if i < 0 || !m.batch.Quests[i].Pending() {
		return Outcome{}, false
	}
	q := &m.batch.Quests[i]
	level := m.player.Level(q.Stat)
	xp := RewardFor(*q, level)

	change, err := m.player.AddXP(q.Stat, xp)
	if err != nil {
		return Outcome{}, false
	}

	now := m.clock.Now()
	q.Completed = true
	q.CompletedAt = &now
	m.player.QuestsCompleted++

	out := Outcome{
		Quest:     *q,
		XP:        xp,
		Overreach: IsOverreach(q.Difficulty, level),
		Change:    change,
	}

	day := m.batch.Day
	if day == "" {
		day = DayKey(now)
	}
	out.StreakExtended = m.player.recordQuestDay(day)

	if !m.batch.BonusApplied && len(m.Completed()) >= DailyBonusQuests {
		m.batch.BonusApplied = true
		m.player.DailyBonusCount++
		out.DailyBonus = true
		out.BonusChanges = m.player.ApplyDailyBonus()
	}
	return out, true
}

// FailQuest marks a pending quest failed and removes min(xpReward,
// MaxFailPenalty) XP from its stat. It returns false when the quest does not
// exist or is no longer pending.
func (m *QuestManager) FailQuest(id string) (Outcome, bool) {
	i := m.find(id)
	if i < 0 || !m.batch.Quests[i].Pending() {
		return Outcome{}, false
	}
	q := &m.batch.Quests[i]
	penalty := PenaltyFor(*q)

	change, err := m.player.RemoveXP(q.Stat, penalty)
	if err != nil {
		return Outcome{}, false
	}

	now := m.clock.Now()
	q.Failed = true
	q.FailedAt = &now
	m.player.QuestsFailed++

	return Outcome{Quest: *q, XP: penalty, Change: change}, true
}

// ResetForNewDay fails every pending quest of the current batch and then
// generates a fresh one. The failed outcomes are returned in batch order.
func (m *QuestManager) ResetForNewDay() ([]Outcome, []Quest) {
	failed := m.failPending()
	return failed, m.GenerateDailyQuests()
}

func (m *QuestManager) failPending() []Outcome {
	var failed []Outcome
	for _, q := range m.Pending() {
		if out, ok := m.FailQuest(q.ID); ok {
			failed = append(failed, out)
		}
	}
	return failed
}
