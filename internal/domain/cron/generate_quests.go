package cron

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/familyquest/backend/internal/domain"
	"github.com/familyquest/backend/internal/model"
	"github.com/familyquest/backend/pkg/xcontext"
)

const generateQuestsLockKey = "cron:generate_quests"

// GenerateQuestsCronJob runs the recurring quest generator on an interval.
// A redis lock makes the tick exclusive across instances.
type GenerateQuestsCronJob struct {
	cronDomain  domain.QuestCronDomain
	redisClient *redis.Client
	interval    time.Duration
}

func NewGenerateQuestsCronJob(
	cronDomain domain.QuestCronDomain,
	redisClient *redis.Client,
	interval time.Duration,
) *GenerateQuestsCronJob {
	return &GenerateQuestsCronJob{
		cronDomain:  cronDomain,
		redisClient: redisClient,
		interval:    interval,
	}
}

func (job *GenerateQuestsCronJob) Do(ctx context.Context) {
	if !acquireLock(ctx, job.redisClient, generateQuestsLockKey, job.interval) {
		return
	}

	resp, err := job.cronDomain.GenerateQuests(ctx, &model.GenerateQuestsRequest{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate quests: %v", err)
		return
	}

	xcontext.Logger(ctx).Infof("Generated %d quests from %d templates in %dms",
		resp.Created, resp.Processed, resp.DurationMs)
	for _, errMsg := range resp.Errors {
		xcontext.Logger(ctx).Warnf("Generate quests: %s", errMsg)
	}
}

func (job *GenerateQuestsCronJob) RunNow() bool {
	return true
}

func (job *GenerateQuestsCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}

// acquireLock takes a best-effort exclusive lock. When redis is not
// configured the job runs unguarded, which is fine for single-instance
// deployments.
func acquireLock(ctx context.Context, client *redis.Client, key string, ttl time.Duration) bool {
	if client == nil {
		return true
	}

	ok, err := client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot acquire lock %s: %v", key, err)
		return false
	}

	if !ok {
		xcontext.Logger(ctx).Debugf("Another instance holds lock %s", key)
	}

	return ok
}
