package testutil

import (
	"context"
	"database/sql"

	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/internal/repository"
)

var (
	Family1 = entity.Family{
		Base:     entity.Base{ID: "family1"},
		Name:     "The Brave Household",
		JoinCode: "BRAVE123",
	}

	Family2 = entity.Family{
		Base:     entity.Base{ID: "family2"},
		Name:     "The Rival Household",
		JoinCode: "RIVAL456",
	}

	GuildMaster1 = entity.User{
		Base:     entity.Base{ID: "guild_master1"},
		Name:     "guild_master1",
		Role:     entity.RoleGuildMaster,
		FamilyID: sql.NullString{Valid: true, String: Family1.ID},
	}

	Hero1 = entity.User{
		Base:     entity.Base{ID: "hero1"},
		Name:     "hero1",
		Role:     entity.RoleHero,
		FamilyID: sql.NullString{Valid: true, String: Family1.ID},
	}

	Hero2 = entity.User{
		Base:     entity.Base{ID: "hero2"},
		Name:     "hero2",
		Role:     entity.RoleHero,
		FamilyID: sql.NullString{Valid: true, String: Family1.ID},
	}

	Outsider1 = entity.User{
		Base:     entity.Base{ID: "outsider1"},
		Name:     "outsider1",
		Role:     entity.RoleHero,
		FamilyID: sql.NullString{Valid: true, String: Family2.ID},
	}

	// Homeless1 has no family and no character.
	Homeless1 = entity.User{
		Base: entity.Base{ID: "homeless1"},
		Name: "homeless1",
		Role: entity.RoleHero,
	}

	Character1 = entity.Character{
		Base:     entity.Base{ID: "character1"},
		UserID:   Hero1.ID,
		FamilyID: Family1.ID,
		Class:    entity.ClassKnight,
		Level:    1,
	}

	Character2 = entity.Character{
		Base:     entity.Base{ID: "character2"},
		UserID:   Hero2.ID,
		FamilyID: Family1.ID,
		Class:    entity.ClassMage,
		Level:    1,
	}

	Character3 = entity.Character{
		Base:     entity.Base{ID: "character3"},
		UserID:   Outsider1.ID,
		FamilyID: Family2.ID,
		Class:    entity.ClassRogue,
		Level:    1,
	}

	GuildMasterCharacter1 = entity.Character{
		Base:     entity.Base{ID: "gm_character1"},
		UserID:   GuildMaster1.ID,
		FamilyID: Family1.ID,
		Class:    entity.ClassHealer,
		Level:    1,
	}
)

func CreateFixtureDb(ctx context.Context) {
	insertFamilies(ctx)
	insertUsers(ctx)
	insertCharacters(ctx)
}

func insertFamilies(ctx context.Context) {
	familyRepo := repository.NewFamilyRepository()
	for _, family := range []entity.Family{Family1, Family2} {
		family := family
		if err := familyRepo.Create(ctx, &family); err != nil {
			panic(err)
		}
	}
}

func insertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	users := []entity.User{GuildMaster1, Hero1, Hero2, Outsider1, Homeless1}
	for _, user := range users {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func insertCharacters(ctx context.Context) {
	characterRepo := repository.NewCharacterRepository()
	characters := []entity.Character{Character1, Character2, Character3, GuildMasterCharacter1}
	for _, character := range characters {
		character := character
		if err := characterRepo.Create(ctx, &character); err != nil {
			panic(err)
		}
	}
}
