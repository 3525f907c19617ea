package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStat(t *testing.T) {
	for in, want := range map[string]Stat{
		"strength":      StatStrength,
		" STR ":         StatStrength,
		"mentalhealth":  StatMentalHealth,
		"Mental Health": StatMentalHealth,
		"vices":         StatAddictionControl,
		"diet":          StatNutrition,
	} {
		got, err := ParseStat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStat("luck")
	assert.ErrorIs(t, err, ErrUnknownStat)
}

func TestFindQuest(t *testing.T) {
	quests := []Quest{
		{ID: "3f2a9c10-aaaa", Name: "Warrior's Training"},
		{ID: "3f2b0000-bbbb", Name: "Titan's Forge"},
		{ID: "9d000000-cccc", Name: "Ritual of Serenity"},
		{ID: "9e000000-dddd", Name: "Ritual of Strength"},
	}

	q, err := FindQuest(quests, "3f2a9c10-aaaa")
	require.NoError(t, err)
	assert.Equal(t, "Warrior's Training", q.Name)

	q, err = FindQuest(quests, "3f2b")
	require.NoError(t, err)
	assert.Equal(t, "Titan's Forge", q.Name)

	q, err = FindQuest(quests, "titan's forge")
	require.NoError(t, err)
	assert.Equal(t, "3f2b0000-bbbb", q.ID)

	q, err = FindQuest(quests, "serenity")
	require.NoError(t, err)
	assert.Equal(t, "9d000000-cccc", q.ID)

	q, err = FindQuest(quests, "Warriors Trainin")
	require.NoError(t, err, "close misspelling")
	assert.Equal(t, "3f2a9c10-aaaa", q.ID)

	_, err = FindQuest(quests, "3f")
	var amb AmbiguousQuestError
	require.True(t, errors.As(err, &amb))
	assert.Len(t, amb.Matches, 2)

	_, err = FindQuest(quests, "ritual")
	assert.True(t, errors.As(err, &amb))

	_, err = FindQuest(quests, "go swimming")
	assert.ErrorIs(t, err, ErrQuestNotFound)
	_, err = FindQuest(quests, "  ")
	assert.ErrorIs(t, err, ErrQuestNotFound)
}

func TestFindQuestPrefixIgnoresCase(t *testing.T) {
	quests := []Quest{
		{ID: "Q-Alpha-01", Name: "Morning Run"},
		{ID: "Q-Beta-02", Name: "Evening Read"},
	}

	for _, ref := range []string{"q-alpha", "Q-ALPHA", "Q-Al"} {
		q, err := FindQuest(quests, ref)
		require.NoError(t, err, ref)
		assert.Equal(t, "Q-Alpha-01", q.ID, ref)
	}

	q, err := FindQuest(quests, "Q-Beta-02")
	require.NoError(t, err)
	assert.Equal(t, "Evening Read", q.Name)
}
