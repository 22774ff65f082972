package main

import (
	"context"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/familyquest/backend/config"
	"github.com/familyquest/backend/internal/domain"
	"github.com/familyquest/backend/internal/repository"
	"github.com/familyquest/backend/pkg/logger"
	"github.com/familyquest/backend/pkg/redis"
	"github.com/familyquest/backend/pkg/router"
	"github.com/familyquest/backend/pkg/xcontext"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	redisClient *goredis.Client

	userRepo        repository.UserRepository
	familyRepo      repository.FamilyRepository
	characterRepo   repository.CharacterRepository
	questRepo       repository.QuestInstanceRepository
	templateRepo    repository.QuestTemplateRepository
	transactionRepo repository.TransactionRepository
	bossBattleRepo  repository.BossBattleRepository

	questDomain       domain.QuestDomain
	bossBattleDomain  domain.BossBattleDomain
	characterDomain   domain.CharacterDomain
	familyDomain      domain.FamilyDomain
	transactionDomain domain.TransactionDomain
	questCronDomain   domain.QuestCronDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(ct *cli.Context) {
	cfg, err := config.Load(ct.String("config"))
	if err != nil {
		panic(err)
	}

	s.configs = cfg
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger()

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, s.configs)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) loadDatabase() {
	db, err := gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.db = db
	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) loadRedisClient() {
	if s.configs.Redis.Addr == "" {
		return
	}

	client, err := redis.NewClient(s.ctx, s.configs.Redis.Addr)
	if err != nil {
		panic(err)
	}

	s.redisClient = client
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.familyRepo = repository.NewFamilyRepository()
	s.characterRepo = repository.NewCharacterRepository()
	s.questRepo = repository.NewQuestInstanceRepository()
	s.templateRepo = repository.NewQuestTemplateRepository()
	s.transactionRepo = repository.NewTransactionRepository()
	s.bossBattleRepo = repository.NewBossBattleRepository()
}

func (s *srv) loadDomains() {
	s.questDomain = domain.NewQuestDomain(
		s.questRepo, s.characterRepo, s.transactionRepo, s.userRepo)
	s.bossBattleDomain = domain.NewBossBattleDomain(
		s.bossBattleRepo, s.characterRepo, s.transactionRepo, s.userRepo)
	s.characterDomain = domain.NewCharacterDomain(s.characterRepo, s.userRepo)
	s.familyDomain = domain.NewFamilyDomain(s.familyRepo, s.userRepo)
	s.transactionDomain = domain.NewTransactionDomain(s.transactionRepo)
	s.questCronDomain = domain.NewQuestCronDomain(
		s.templateRepo, s.questRepo, s.characterRepo)
}
