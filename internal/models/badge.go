package models

type BadgeCategory string

const (
	BadgeMilestone   BadgeCategory = "milestone"
	BadgeStreak      BadgeCategory = "streak"
	BadgeFocus       BadgeCategory = "focus"
	BadgeAchievement BadgeCategory = "achievement"
	BadgeLevel       BadgeCategory = "level"
	BadgeTaskGroup   BadgeCategory = "category"
)

type BadgeRarity string

const (
	RarityCommon   BadgeRarity = "common"
	RarityUncommon BadgeRarity = "uncommon"
	RarityRare     BadgeRarity = "rare"
	RarityEpic     BadgeRarity = "epic"
)

// Badge is a static catalog entry. The catalog is loaded once at process
// start and never mutated at runtime.
type Badge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Category    BadgeCategory `json:"category"`
	Rarity      BadgeRarity   `json:"rarity"`
}

// BadgeProgress describes how close a user is to earning a threshold badge.
type BadgeProgress struct {
	Current    int `json:"current"`
	Required   int `json:"required"`
	Percentage int `json:"percentage"`
}
