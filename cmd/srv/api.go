package main

import (
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/familyquest/backend/internal/middleware"
	"github.com/familyquest/backend/pkg/router"
)

func (s *srv) startApi(ct *cli.Context) error {
	s.loadConfig(ct)
	s.loadLogger()
	s.loadDatabase()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting api server on %s", s.configs.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, s.configs, s.logger)
	s.router.Before(middleware.AllowCors())
	s.router.Before(middleware.ParseAccessToken())
	s.router.AddCloser(middleware.Logger())

	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate())
	{
		// Quest API
		router.GET(authRouter, "/getQuest", s.questDomain.Get)
		router.GET(authRouter, "/getListQuest", s.questDomain.GetList)
		router.POST(authRouter, "/createQuest", s.questDomain.Create)
		router.POST(authRouter, "/claimQuest", s.questDomain.Claim)
		router.POST(authRouter, "/releaseQuest", s.questDomain.Release)
		router.POST(authRouter, "/assignQuest", s.questDomain.Assign)
		router.POST(authRouter, "/updateQuestStatus", s.questDomain.UpdateStatus)
		router.POST(authRouter, "/approveQuest", s.questDomain.Approve)
		router.POST(authRouter, "/denyQuest", s.questDomain.Deny)
		router.POST(authRouter, "/cancelQuest", s.questDomain.Cancel)

		// Boss battle API
		router.GET(authRouter, "/getBossBattle", s.bossBattleDomain.Get)
		router.GET(authRouter, "/getListBossBattle", s.bossBattleDomain.GetList)
		router.POST(authRouter, "/createBossBattle", s.bossBattleDomain.Create)
		router.POST(authRouter, "/joinBossBattle", s.bossBattleDomain.Join)
		router.POST(authRouter, "/completeBossBattle", s.bossBattleDomain.Complete)
		router.POST(authRouter, "/reopenBossBattle", s.bossBattleDomain.Reopen)

		// Character API
		router.GET(authRouter, "/getMyCharacter", s.characterDomain.GetMy)
		router.GET(authRouter, "/getFamilyCharacters", s.characterDomain.GetFamily)
		router.POST(authRouter, "/createCharacter", s.characterDomain.Create)

		// Family API
		router.GET(authRouter, "/getMyFamily", s.familyDomain.GetMy)
		router.POST(authRouter, "/createFamily", s.familyDomain.Create)
		router.POST(authRouter, "/joinFamily", s.familyDomain.Join)
		router.POST(authRouter, "/promoteUser", s.familyDomain.Promote)
		router.POST(authRouter, "/demoteUser", s.familyDomain.Demote)

		// Transaction API
		router.GET(authRouter, "/getMyTransactions", s.transactionDomain.GetMy)
	}

	// Cron endpoints, driven by the external scheduler with a shared secret.
	cronRouter := s.router.Branch()
	cronRouter.Before(middleware.CronSecret())
	{
		router.POST(cronRouter, "/cron/generateQuests", s.questCronDomain.GenerateQuests)
		router.POST(cronRouter, "/cron/expireQuests", s.questCronDomain.ExpireQuests)
	}
}
