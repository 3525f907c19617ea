package engine

import "fmt"

// Stat is one of the ten tracked personal-development dimensions.
type Stat string

const (
	StatStrength         Stat = "strength"
	StatMentalHealth     Stat = "mentalHealth"
	StatIntelligence     Stat = "intelligence"
	StatAddictionControl Stat = "addictionControl"
	StatNutrition        Stat = "nutrition"
	StatEndurance        Stat = "endurance"
	StatSpeed            Stat = "speed"
	StatCharisma         Stat = "charisma"
	StatSkills           Stat = "skills"
	StatSexuality        Stat = "sexuality"
)

// AllStats lists every stat in display and generation order.
var AllStats = []Stat{
	StatStrength,
	StatMentalHealth,
	StatIntelligence,
	StatAddictionControl,
	StatNutrition,
	StatEndurance,
	StatSpeed,
	StatCharisma,
	StatSkills,
	StatSexuality,
}

var statLabels = map[Stat]string{
	StatStrength:         "Strength",
	StatMentalHealth:     "Mental Health",
	StatIntelligence:     "Intelligence",
	StatAddictionControl: "Addiction Control",
	StatNutrition:        "Nutrition",
	StatEndurance:        "Endurance",
	StatSpeed:            "Speed",
	StatCharisma:         "Charisma",
	StatSkills:           "Skills",
	StatSexuality:        "Sexuality",
}

func (s Stat) IsValid() bool {
	_, ok := statLabels[s]
	return ok
}

// Label returns the human readable stat name.
func (s Stat) Label() string {
	if l, ok := statLabels[s]; ok {
		return l
	}
	return string(s)
}

// ranks is the level ladder, lowest first.
var ranks = [...]string{
	"F", "E", "D", "C", "B", "A", "S", "SS", "SSS",
	"SR", "SSR", "UR", "LR", "MR", "X", "XX", "XXX",
}

// MaxLevel is the index of the terminal rank.
const MaxLevel = len(ranks) - 1

// RankName returns the ladder label for a level index.
func RankName(level int) string {
	if level < 0 || level > MaxLevel {
		return fmt.Sprintf("?%d", level)
	}
	return ranks[level]
}

// Rarity grades unlockable items.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarities is the rarity scale in ascending order.
var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}

var rarityPoints = map[Rarity]int{
	RarityCommon:    10,
	RarityUncommon:  25,
	RarityRare:      50,
	RarityEpic:      100,
	RarityLegendary: 250,
}

func (r Rarity) IsValid() bool {
	_, ok := rarityPoints[r]
	return ok
}

// Points is the achievement score awarded for this rarity.
func (r Rarity) Points() int {
	return rarityPoints[r]
}
