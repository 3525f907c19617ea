package engine

// recordQuestDay extends or restarts the daily streak the first time a quest
// is completed on day. It reports whether the streak changed.
func (p *PlayerState) recordQuestDay(day string) bool {
	if day == "" || p.Streaks.LastQuestDay == day {
		return false
	}
	if p.Streaks.LastQuestDay != "" && p.Streaks.LastQuestDay == PreviousDay(day) {
		p.Streaks.Daily++
	} else {
		p.Streaks.Daily = 1
	}
	p.Streaks.LastQuestDay = day
	if p.Streaks.Daily > p.Streaks.Best {
		p.Streaks.Best = p.Streaks.Daily
	}
	return true
}

// StreakAlive reports whether the daily streak can still be extended on day,
// i.e. the last completion was on day or the day before.
func (p *PlayerState) StreakAlive(day string) bool {
	last := p.Streaks.LastQuestDay
	return last != "" && (last == day || last == PreviousDay(day))
}
