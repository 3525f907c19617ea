package engine

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Quest is one task of a daily batch. Template fields never change; a quest
// moves from pending to either completed or failed and stays there.
type Quest struct {
	ID          string     `json:"id"`
	Stat        Stat       `json:"stat"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Difficulty  int        `json:"difficulty"`
	XPReward    int        `json:"xpReward"`
	Completed   bool       `json:"completed"`
	Failed      bool       `json:"failed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	FailedAt    *time.Time `json:"failedAt,omitempty"`
}

func (q Quest) Pending() bool { return !q.Completed && !q.Failed }

// Status returns "pending", "completed" or "failed".
func (q Quest) Status() string {
	switch {
	case q.Completed:
		return "completed"
	case q.Failed:
		return "failed"
	default:
		return "pending"
	}
}

// QuestBatch is the set of quests generated for one calendar day.
type QuestBatch struct {
	Day          string    `json:"day"`
	GeneratedAt  time.Time `json:"generatedAt"`
	BonusApplied bool      `json:"bonusApplied"`
	Quests       []Quest   `json:"quests"`
}

func (b QuestBatch) clone() QuestBatch {
	b.Quests = append([]Quest(nil), b.Quests...)
	return b
}

// QuestManager generates and tracks the daily batch of one player.
type QuestManager struct {
	player  *PlayerState
	catalog Catalog
	rng     Rand
	clock   Clock
	newID   func() string

	batch QuestBatch
}

// Option configures a QuestManager or a Service.
type Option func(*settings)

type settings struct {
	catalog Catalog
	rng     Rand
	clock   Clock
	newID   func() string
	logger  *slog.Logger
}

func WithCatalog(c Catalog) Option { return func(s *settings) { s.catalog = c } }
func WithRand(r Rand) Option       { return func(s *settings) { s.rng = r } }
func WithClock(c Clock) Option     { return func(s *settings) { s.clock = c } }

// WithIDs overrides quest id generation.
func WithIDs(fn func() string) Option { return func(s *settings) { s.newID = fn } }

// WithLogger sets the session logger. The quest manager ignores it.
func WithLogger(l *slog.Logger) Option { return func(s *settings) { s.logger = l } }

func newSettings(opts []Option) settings {
	s := settings{clock: SystemClock{}, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&s)
	}
	if s.catalog == nil {
		s.catalog = DefaultCatalog()
	}
	if s.rng == nil {
		s.rng = NewRand(s.clock.Now().UnixNano())
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func NewQuestManager(p *PlayerState, opts ...Option) *QuestManager {
	return newQuestManager(p, newSettings(opts))
}

func newQuestManager(p *PlayerState, s settings) *QuestManager {
	return &QuestManager{
		player:  p,
		catalog: s.catalog,
		rng:     s.rng,
		clock:   s.clock,
		newID:   s.newID,
	}
}

func (m *QuestManager) Player() *PlayerState { return m.player }

// Batch returns a copy of the current batch.
func (m *QuestManager) Batch() QuestBatch { return m.batch.clone() }

// Quests returns a copy of the current quests.
func (m *QuestManager) Quests() []Quest { return m.batch.clone().Quests }

// SetBatch replaces the current batch with one loaded from storage.
func (m *QuestManager) SetBatch(b QuestBatch) error {
	seen := make(map[string]bool, len(b.Quests))
	for _, q := range b.Quests {
		if !q.Stat.IsValid() {
			return fmt.Errorf("quest %s: %w: %q", q.ID, ErrUnknownStat, q.Stat)
		}
		if q.ID == "" || seen[q.ID] {
			return fmt.Errorf("quest id %q is empty or duplicated", q.ID)
		}
		if q.Completed && q.Failed {
			return fmt.Errorf("quest %s is both completed and failed", q.ID)
		}
		seen[q.ID] = true
	}
	m.batch = b.clone()
	return nil
}

// rebind points the manager at a replacement player state.
func (m *QuestManager) rebind(p *PlayerState) { m.player = p }

// EligibleTemplates returns the templates of s inside the difficulty window for
// the player's current level, in catalog order.
func (m *QuestManager) EligibleTemplates(s Stat) []QuestTemplate {
	level := m.player.Level(s)
	var out []QuestTemplate
	for _, t := range m.catalog[s] {
		if InDifficultyWindow(t.Difficulty, level) {
			out = append(out, t)
		}
	}
	return out
}

// GenerateDailyQuests replaces the batch with one or two quests per stat,
// drawn without replacement from the eligible templates.
func (m *QuestManager) GenerateDailyQuests() []Quest {
	now := m.clock.Now()
	var quests []Quest
	for _, s := range AllStats {
		available := m.EligibleTemplates(s)
		count := 1
		if m.rng.Intn(2) == 1 {
			count = 2
		}
		for i := 0; i < count && len(available) > 0; i++ {
			idx := m.rng.Intn(len(available))
			t := available[idx]
			available = append(available[:idx], available[idx+1:]...)
			quests = append(quests, Quest{
				ID:          m.newID(),
				Stat:        s,
				Name:        t.Name,
				Description: t.Description,
				Difficulty:  t.Difficulty,
				XPReward:    t.XPReward,
				CreatedAt:   now,
			})
		}
	}
	m.batch = QuestBatch{Day: DayKey(now), GeneratedAt: now, Quests: quests}
	return m.Quests()
}

func (m *QuestManager) find(id string) int {
	for i := range m.batch.Quests {
		if m.batch.Quests[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the quest with id.
func (m *QuestManager) Find(id string) (Quest, bool) {
	i := m.find(id)
	if i < 0 {
		return Quest{}, false
	}
	return m.batch.Quests[i], true
}

func (m *QuestManager) filter(keep func(Quest) bool) []Quest {
	var out []Quest
	for _, q := range m.batch.Quests {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

func (m *QuestManager) Pending() []Quest { return m.filter(Quest.Pending) }

func (m *QuestManager) Completed() []Quest {
	return m.filter(func(q Quest) bool { return q.Completed })
}

func (m *QuestManager) Failed() []Quest {
	return m.filter(func(q Quest) bool { return q.Failed })
}

// Challenge grades q against the player's current level in its stat.
func (m *QuestManager) Challenge(q Quest) Challenge {
	return ChallengeFor(q.Difficulty, m.player.Level(q.Stat))
}

// DailyProgress summarizes the current batch.
type DailyProgress struct {
	Total          int
	Completed      int
	Failed         int
	Pending        int
	CompletionRate float64
}

func (m *QuestManager) DailyProgress() DailyProgress {
	var p DailyProgress
	for _, q := range m.batch.Quests {
		p.Total++
		switch {
		case q.Completed:
			p.Completed++
		case q.Failed:
			p.Failed++
		default:
			p.Pending++
		}
	}
	if p.Total > 0 {
		p.CompletionRate = float64(p.Completed) / float64(p.Total) * 100
	}
	return p
}
