package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"

	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/internal/model"
	"github.com/familyquest/backend/internal/repository"
	"github.com/familyquest/backend/pkg/dateutil"
	"github.com/familyquest/backend/pkg/errorx"
	"github.com/familyquest/backend/pkg/xcontext"
)

// QuestCronDomain hosts the recurring generation and expiry batches. They are
// invoked from the /cron endpoints and from the in-process cron jobs; both
// paths share the same best-effort semantics, one bad row never aborts the
// batch.
type QuestCronDomain interface {
	GenerateQuests(context.Context, *model.GenerateQuestsRequest) (*model.GenerateQuestsResponse, error)
	ExpireQuests(context.Context, *model.ExpireQuestsRequest) (*model.ExpireQuestsResponse, error)
}

type questCronDomain struct {
	templateRepo  repository.QuestTemplateRepository
	questRepo     repository.QuestInstanceRepository
	characterRepo repository.CharacterRepository
}

func NewQuestCronDomain(
	templateRepo repository.QuestTemplateRepository,
	questRepo repository.QuestInstanceRepository,
	characterRepo repository.CharacterRepository,
) *questCronDomain {
	return &questCronDomain{
		templateRepo:  templateRepo,
		questRepo:     questRepo,
		characterRepo: characterRepo,
	}
}

func (d *questCronDomain) GenerateQuests(
	ctx context.Context, req *model.GenerateQuestsRequest,
) (*model.GenerateQuestsResponse, error) {
	began := time.Now()

	templates, err := d.templateRepo.GetActive(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active templates: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GenerateQuestsResponse{Success: true, Errors: []string{}}
	now := time.Now()
	for i := range templates {
		template := &templates[i]
		resp.Processed++

		due, cycleStart, cycleEnd := cycleOf(template, now)
		if !due {
			continue
		}

		created, err := d.generateFromTemplate(ctx, template, cycleStart, cycleEnd)
		if err != nil {
			resp.Errors = append(resp.Errors,
				fmt.Sprintf("template %s: %v", template.ID, err))
			continue
		}

		// The instances exist whether or not the bookkeeping write below
		// succeeds, so they are counted first.
		resp.Created += created

		if err := d.templateRepo.UpdateLastGeneratedAt(ctx, template.ID, now); err != nil {
			resp.Errors = append(resp.Errors,
				fmt.Sprintf("template %s: %v", template.ID, err))
		}
	}

	resp.Success = len(resp.Errors) == 0
	resp.DurationMs = time.Since(began).Milliseconds()
	return resp, nil
}

// cycleOf decides whether a template is due and what window the new instances
// cover. Daily and weekly cycles are calendar aligned; custom cycles roll
// over CustomDays after the previous generation.
func cycleOf(template *entity.QuestTemplate, now time.Time) (bool, time.Time, time.Time) {
	switch template.Recurrence {
	case entity.RecurrenceDaily:
		cycleStart := dateutil.BeginningOfDay(now)
		if template.LastGeneratedAt.Valid && !template.LastGeneratedAt.Time.Before(cycleStart) {
			return false, time.Time{}, time.Time{}
		}
		return true, cycleStart, dateutil.NextDay(now)

	case entity.RecurrenceWeekly:
		cycleStart := dateutil.BeginningOfWeek(now)
		if template.LastGeneratedAt.Valid && !template.LastGeneratedAt.Time.Before(cycleStart) {
			return false, time.Time{}, time.Time{}
		}
		return true, cycleStart, dateutil.NextWeek(now)

	case entity.RecurrenceCustom:
		days := template.CustomDays
		if days <= 0 {
			days = 1
		}
		if template.LastGeneratedAt.Valid &&
			now.Before(template.LastGeneratedAt.Time.AddDate(0, 0, days)) {
			return false, time.Time{}, time.Time{}
		}
		return true, now, now.AddDate(0, 0, days)
	}

	return false, time.Time{}, time.Time{}
}

func (d *questCronDomain) generateFromTemplate(
	ctx context.Context, template *entity.QuestTemplate, cycleStart, cycleEnd time.Time,
) (int, error) {
	if template.QuestType == entity.QuestFamily {
		quest := newInstanceOf(template, cycleStart, cycleEnd)
		if err := d.questRepo.Create(ctx, quest); err != nil {
			return 0, err
		}
		return 1, nil
	}

	// Individual quests spawn one pending instance per assigned character.
	bonuses, err := templateClassBonuses(template)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, characterID := range template.AssignedCharacterIDs {
		character, err := d.characterRepo.GetByID(ctx, characterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				xcontext.Logger(ctx).Warnf(
					"Template %s assigns unknown character %s", template.ID, characterID)
				continue
			}
			return created, err
		}

		quest := newInstanceOf(template, cycleStart, cycleEnd)
		quest.Status = entity.QuestPending
		quest.AssignedToID = sql.NullString{Valid: true, String: character.UserID}

		if bonus, ok := bonuses[string(character.Class)]; ok {
			quest.XPReward = scaleReward(quest.XPReward, bonus.XP)
			quest.GoldReward = scaleReward(quest.GoldReward, bonus.Gold)
			quest.GemsReward = scaleReward(quest.GemsReward, bonus.Gems)
			quest.HonorReward = scaleReward(quest.HonorReward, bonus.Honor)
		}

		if err := d.questRepo.Create(ctx, quest); err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}

func newInstanceOf(template *entity.QuestTemplate, cycleStart, cycleEnd time.Time) *entity.QuestInstance {
	return &entity.QuestInstance{
		Base:           entity.Base{ID: uuid.NewString()},
		FamilyID:       template.FamilyID,
		TemplateID:     sql.NullString{Valid: true, String: template.ID},
		Title:          template.Title,
		Description:    template.Description,
		QuestType:      template.QuestType,
		Category:       template.Category,
		Difficulty:     template.Difficulty,
		XPReward:       template.XPReward,
		GoldReward:     template.GoldReward,
		GemsReward:     template.GemsReward,
		HonorReward:    template.HonorReward,
		Status:         entity.QuestAvailable,
		CycleStartDate: sql.NullTime{Valid: true, Time: cycleStart},
		CycleEndDate:   sql.NullTime{Valid: true, Time: cycleEnd},
	}
}

type templateClassBonus struct {
	XP    float64 `mapstructure:"xp"`
	Gold  float64 `mapstructure:"gold"`
	Gems  float64 `mapstructure:"gems"`
	Honor float64 `mapstructure:"honor"`
}

// templateClassBonuses decodes the free-form ClassBonuses column into typed
// per-class multipliers. A zero multiplier means the field was absent and is
// treated as neutral.
func templateClassBonuses(template *entity.QuestTemplate) (map[string]templateClassBonus, error) {
	if len(template.ClassBonuses) == 0 {
		return nil, nil
	}

	bonuses := map[string]templateClassBonus{}
	if err := mapstructure.Decode(map[string]any(template.ClassBonuses), &bonuses); err != nil {
		return nil, err
	}

	return bonuses, nil
}

func scaleReward(value int64, multiplier float64) int64 {
	if multiplier == 0 {
		return value
	}

	return int64(math.Floor(float64(value) * multiplier))
}

func (d *questCronDomain) ExpireQuests(
	ctx context.Context, req *model.ExpireQuestsRequest,
) (*model.ExpireQuestsResponse, error) {
	began := time.Now()

	overdue, err := d.questRepo.GetOverdue(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get overdue quests: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.ExpireQuestsResponse{Success: true, Errors: []string{}}
	for i := range overdue {
		quest := &overdue[i]
		resp.Processed++

		if err := d.expireOne(ctx, quest); err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("quest %s: %v", quest.ID, err))
			continue
		}

		resp.Expired++
	}

	resp.Success = len(resp.Errors) == 0
	resp.DurationMs = time.Since(began).Milliseconds()
	return resp, nil
}

func (d *questCronDomain) expireOne(ctx context.Context, quest *entity.QuestInstance) error {
	// Recurring instances go to MISSED so streak logic can see them apart
	// from ad-hoc quests which merely EXPIRE.
	to := entity.QuestExpired
	if quest.TemplateID.Valid {
		to = entity.QuestMissed
	}

	if err := d.questRepo.Expire(ctx, quest.ID, to); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Already terminal, nothing to do.
			return nil
		}
		return err
	}

	if quest.AssignedToID.Valid {
		character, err := d.characterRepo.GetByUserID(ctx, quest.AssignedToID.String)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if quest.QuestType == entity.QuestFamily {
			err := d.characterRepo.ClearActiveFamilyQuest(ctx, character.ID, quest.ID)
			if err != nil {
				return err
			}
		}

		if d.breaksStreak(ctx, quest) {
			if err := d.characterRepo.ResetStreak(ctx, character.ID); err != nil {
				return err
			}
		}
	}

	return nil
}

// breaksStreak reports whether missing this quest resets the hero's streak.
// Only recurring individual quests count, and pausing the template suspends
// the penalty.
func (d *questCronDomain) breaksStreak(ctx context.Context, quest *entity.QuestInstance) bool {
	if quest.QuestType != entity.QuestIndividual || !quest.TemplateID.Valid {
		return false
	}

	template, err := d.templateRepo.GetByID(ctx, quest.TemplateID.String)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get template of quest %s: %v", quest.ID, err)
		return false
	}

	return !template.IsPaused
}
