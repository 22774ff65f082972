package entity

import (
	"database/sql"

	"github.com/familyquest/backend/pkg/enum"
)

type UserRole string

var (
	RoleGuildMaster = enum.New(UserRole("guild_master"))
	RoleHero        = enum.New(UserRole("hero"))
	RoleYoungHero   = enum.New(UserRole("young_hero"))
)

type User struct {
	Base

	Name string `gorm:"unique"`
	Role UserRole

	FamilyID sql.NullString
	Family   Family `gorm:"foreignKey:FamilyID"`
}

type Family struct {
	Base

	Name     string
	JoinCode string `gorm:"unique"`
}
