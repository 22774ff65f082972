package main

import (
	"github.com/urfave/cli/v2"

	"github.com/familyquest/backend/internal/domain/cron"
)

func (s *srv) startCron(ct *cli.Context) error {
	s.loadConfig(ct)
	s.loadLogger()
	s.loadDatabase()
	s.loadRedisClient()
	s.loadRepos()
	s.loadDomains()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Start(
		s.ctx,
		cron.NewGenerateQuestsCronJob(
			s.questCronDomain, s.redisClient, s.configs.Cron.GenerateInterval),
		cron.NewExpireQuestsCronJob(
			s.questCronDomain, s.redisClient, s.configs.Cron.ExpireInterval),
	)

	return nil
}
