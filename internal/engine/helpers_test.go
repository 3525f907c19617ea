package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var testStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func newClock() *fixedClock                   { return &fixedClock{t: testStart} }
func (c *fixedClock) Now() time.Time          { return c.t }
func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// scriptedRand returns queued values modulo n, then zeros.
type scriptedRand struct{ vals []int }

func (r *scriptedRand) Intn(n int) int {
	if len(r.vals) == 0 {
		return 0
	}
	v := r.vals[0]
	r.vals = r.vals[1:]
	return v % n
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("q%02d", n)
	}
}

// testCatalog has, per stat, an easy (1), a hard (2) and a far (6) template.
func testCatalog() Catalog {
	c := make(Catalog, len(AllStats))
	for _, s := range AllStats {
		c[s] = []QuestTemplate{
			{Name: string(s) + " easy", Description: "easy", Difficulty: 1, XPReward: 3},
			{Name: string(s) + " hard", Description: "hard", Difficulty: 2, XPReward: 10},
			{Name: string(s) + " far", Description: "far", Difficulty: 6, XPReward: 20},
		}
	}
	return c
}

func newTestManager(p *PlayerState, clock *fixedClock, rnd Rand) *QuestManager {
	return NewQuestManager(p,
		WithCatalog(testCatalog()),
		WithRand(rnd),
		WithClock(clock),
		WithIDs(seqIDs()),
	)
}

type memStore struct {
	players map[string]*PlayerState
	batches map[string]map[string]QuestBatch
	latest  map[string]string

	saveErr error
	saves   int
}

func newMemStore() *memStore {
	return &memStore{
		players: map[string]*PlayerState{},
		batches: map[string]map[string]QuestBatch{},
		latest:  map[string]string{},
	}
}

var errDiskFull = errors.New("disk full")

func (m *memStore) LoadPlayer(_ context.Context, id string) (*PlayerState, error) {
	p, ok := m.players[id]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

func (m *memStore) SavePlayer(_ context.Context, id string, p *PlayerState) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.players[id] = p.Clone()
	return nil
}

func (m *memStore) LoadQuests(_ context.Context, id, day string) (*QuestBatch, error) {
	b, ok := m.batches[id][day]
	if !ok {
		return nil, nil
	}
	c := b.clone()
	return &c, nil
}

func (m *memStore) LatestQuests(ctx context.Context, id string) (*QuestBatch, error) {
	day, ok := m.latest[id]
	if !ok {
		return nil, nil
	}
	return m.LoadQuests(ctx, id, day)
}

func (m *memStore) SaveQuests(_ context.Context, id string, b QuestBatch) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.batches[id] == nil {
		m.batches[id] = map[string]QuestBatch{}
	}
	m.batches[id][b.Day] = b.clone()
	if b.Day >= m.latest[id] {
		m.latest[id] = b.Day
	}
	return nil
}

func questByID(qs []Quest, id string) (Quest, bool) {
	for _, q := range qs {
		if q.ID == id {
			return q, true
		}
	}
	return Quest{}, false
}
