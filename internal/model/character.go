package model

type LevelProgress struct {
	Current    int64   `json:"current"`
	Required   int64   `json:"required"`
	Percentage float64 `json:"percentage"`
}

type Character struct {
	ID                  string        `json:"id,omitempty"`
	UserID              string        `json:"user_id,omitempty"`
	UserName            string        `json:"user_name,omitempty"`
	FamilyID            string        `json:"family_id,omitempty"`
	Class               string        `json:"class,omitempty"`
	Level               int           `json:"level"`
	XP                  int64         `json:"xp"`
	Gold                int64         `json:"gold"`
	Gems                int64         `json:"gems"`
	HonorPoints         int64         `json:"honor_points"`
	StreakCount         int           `json:"streak_count"`
	ActiveFamilyQuestID string        `json:"active_family_quest_id,omitempty"`
	Progress            LevelProgress `json:"progress"`
}

type CreateCharacterRequest struct {
	Class string `json:"class"`
}

type CreateCharacterResponse struct {
	ID string `json:"id"`
}

type GetMyCharacterRequest struct{}

type GetMyCharacterResponse Character

type GetFamilyCharactersRequest struct{}

type GetFamilyCharactersResponse struct {
	Characters []Character `json:"characters"`
}
