package testutil

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/familyquest/backend/config"
	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/pkg/authenticator"
	"github.com/familyquest/backend/pkg/logger"
	"github.com/familyquest/backend/pkg/xcontext"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		ApiServer: config.ServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 20,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Quest: config.QuestConfigs{
			VolunteerBonus: 0.2,
			BossJoinWindow: 30 * time.Minute,
		},
		Cron: config.CronConfigs{
			Secret:           "cron-secret",
			GenerateInterval: time.Minute,
			ExpireInterval:   time.Minute,
		},
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger())
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}
