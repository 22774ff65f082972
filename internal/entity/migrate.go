package entity

import (
	"context"

	"github.com/familyquest/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Family{},
		&Character{},
		&QuestInstance{},
		&QuestTemplate{},
		&Transaction{},
		&BossBattle{},
		&BossBattleParticipant{},
	)
}
