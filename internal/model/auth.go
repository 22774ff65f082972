package model

// AccessToken is the payload carried inside the bearer JWT.
type AccessToken struct {
	ID       string `mapstructure:"id" json:"id"`
	Name     string `mapstructure:"name" json:"name"`
	Role     string `mapstructure:"role" json:"role"`
	FamilyID string `mapstructure:"family_id" json:"family_id"`
}
