package cron

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/familyquest/backend/internal/domain"
	"github.com/familyquest/backend/internal/model"
	"github.com/familyquest/backend/pkg/xcontext"
)

const expireQuestsLockKey = "cron:expire_quests"

type ExpireQuestsCronJob struct {
	cronDomain  domain.QuestCronDomain
	redisClient *redis.Client
	interval    time.Duration
}

func NewExpireQuestsCronJob(
	cronDomain domain.QuestCronDomain,
	redisClient *redis.Client,
	interval time.Duration,
) *ExpireQuestsCronJob {
	return &ExpireQuestsCronJob{
		cronDomain:  cronDomain,
		redisClient: redisClient,
		interval:    interval,
	}
}

func (job *ExpireQuestsCronJob) Do(ctx context.Context) {
	if !acquireLock(ctx, job.redisClient, expireQuestsLockKey, job.interval) {
		return
	}

	resp, err := job.cronDomain.ExpireQuests(ctx, &model.ExpireQuestsRequest{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot expire quests: %v", err)
		return
	}

	xcontext.Logger(ctx).Infof("Expired %d of %d overdue quests in %dms",
		resp.Expired, resp.Processed, resp.DurationMs)
	for _, errMsg := range resp.Errors {
		xcontext.Logger(ctx).Warnf("Expire quests: %s", errMsg)
	}
}

func (job *ExpireQuestsCronJob) RunNow() bool {
	return true
}

func (job *ExpireQuestsCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
