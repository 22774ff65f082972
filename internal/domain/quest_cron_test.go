package domain

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/internal/model"
	"github.com/familyquest/backend/internal/repository"
	"github.com/familyquest/backend/pkg/testutil"
)

func newTestQuestCronDomain() QuestCronDomain {
	return NewQuestCronDomain(
		repository.NewQuestTemplateRepository(),
		repository.NewQuestInstanceRepository(),
		repository.NewCharacterRepository(),
	)
}

func Test_questCronDomain_GenerateQuests_family(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestCronDomain()

	template := &entity.QuestTemplate{
		Base:       entity.Base{ID: "template1"},
		FamilyID:   testutil.Family1.ID,
		Title:      "Daily dishes",
		QuestType:  entity.QuestFamily,
		Category:   entity.CategoryDaily,
		Difficulty: entity.DifficultyEasy,
		GoldReward: 50,
		XPReward:   100,
		Recurrence: entity.RecurrenceDaily,
		IsActive:   true,
	}
	require.NoError(t, repository.NewQuestTemplateRepository().Create(ctx, template))

	resp, err := domain.GenerateQuests(ctx, &model.GenerateQuestsRequest{})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, 1, resp.Processed)
	require.Equal(t, 1, resp.Created)
	require.Empty(t, resp.Errors)

	quests, err := repository.NewQuestInstanceRepository().GetList(ctx, repository.QuestInstanceFilter{
		FamilyID: testutil.Family1.ID,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, quests, 1)
	require.Equal(t, entity.QuestAvailable, quests[0].Status)
	require.Equal(t, entity.QuestFamily, quests[0].QuestType)
	require.Equal(t, template.ID, quests[0].TemplateID.String)
	require.True(t, quests[0].CycleEndDate.Valid)

	// The same cycle never generates twice.
	resp, err = domain.GenerateQuests(ctx, &model.GenerateQuestsRequest{})
	require.NoError(t, err)
	require.Zero(t, resp.Created)
}

type failingTemplateRepository struct {
	repository.QuestTemplateRepository
}

func (r failingTemplateRepository) UpdateLastGeneratedAt(ctx context.Context, id string, at time.Time) error {
	return errors.New("connection reset")
}

func Test_questCronDomain_GenerateQuests_bookkeepingFailure(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := NewQuestCronDomain(
		failingTemplateRepository{repository.NewQuestTemplateRepository()},
		repository.NewQuestInstanceRepository(),
		repository.NewCharacterRepository(),
	)

	template := &entity.QuestTemplate{
		Base:       entity.Base{ID: "template_sticky"},
		FamilyID:   testutil.Family1.ID,
		Title:      "Sweep the stairs",
		QuestType:  entity.QuestFamily,
		Category:   entity.CategoryDaily,
		Difficulty: entity.DifficultyEasy,
		Recurrence: entity.RecurrenceDaily,
		IsActive:   true,
	}
	require.NoError(t, repository.NewQuestTemplateRepository().Create(ctx, template))

	// Instances that made it to the database are reported even when the
	// last-generated bookkeeping write fails afterwards.
	resp, err := domain.GenerateQuests(ctx, &model.GenerateQuestsRequest{})
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, 1, resp.Created)
	require.Len(t, resp.Errors, 1)

	quests, err := repository.NewQuestInstanceRepository().GetList(ctx, repository.QuestInstanceFilter{
		FamilyID: testutil.Family1.ID,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, quests, 1)
}

func Test_questCronDomain_GenerateQuests_individual(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestCronDomain()

	template := &entity.QuestTemplate{
		Base:       entity.Base{ID: "template2"},
		FamilyID:   testutil.Family1.ID,
		Title:      "Brush your teeth",
		QuestType:  entity.QuestIndividual,
		Category:   entity.CategoryDaily,
		Difficulty: entity.DifficultyEasy,
		XPReward:   100,
		Recurrence: entity.RecurrenceDaily,
		IsActive:   true,
		AssignedCharacterIDs: entity.Array[string]{
			testutil.Character1.ID,
			testutil.Character2.ID,
		},
		ClassBonuses: entity.Map{
			"knight": map[string]any{"xp": 1.5},
		},
	}
	require.NoError(t, repository.NewQuestTemplateRepository().Create(ctx, template))

	resp, err := domain.GenerateQuests(ctx, &model.GenerateQuestsRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Created)

	quests, err := repository.NewQuestInstanceRepository().GetList(ctx, repository.QuestInstanceFilter{
		FamilyID: testutil.Family1.ID,
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, quests, 2)

	byAssignee := map[string]entity.QuestInstance{}
	for _, quest := range quests {
		require.Equal(t, entity.QuestPending, quest.Status)
		byAssignee[quest.AssignedToID.String] = quest
	}

	// The knight's template bonus scales xp; the mage has no override.
	require.Equal(t, int64(150), byAssignee[testutil.Hero1.ID].XPReward)
	require.Equal(t, int64(100), byAssignee[testutil.Hero2.ID].XPReward)
}

func Test_questCronDomain_ExpireQuests(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestCronDomain()
	questRepo := repository.NewQuestInstanceRepository()
	characterRepo := repository.NewCharacterRepository()

	template := &entity.QuestTemplate{
		Base:       entity.Base{ID: "template3"},
		FamilyID:   testutil.Family1.ID,
		Title:      "Morning run",
		QuestType:  entity.QuestIndividual,
		Category:   entity.CategoryDaily,
		Difficulty: entity.DifficultyEasy,
		Recurrence: entity.RecurrenceDaily,
		IsActive:   true,
	}
	require.NoError(t, repository.NewQuestTemplateRepository().Create(ctx, template))

	// A recurring individual quest left pending past its window.
	missed := &entity.QuestInstance{
		Base:         entity.Base{ID: "overdue1"},
		FamilyID:     testutil.Family1.ID,
		TemplateID:   sql.NullString{Valid: true, String: template.ID},
		Title:        "Morning run",
		QuestType:    entity.QuestIndividual,
		Category:     entity.CategoryDaily,
		Difficulty:   entity.DifficultyEasy,
		Status:       entity.QuestPending,
		AssignedToID: sql.NullString{Valid: true, String: testutil.Hero1.ID},
		CycleEndDate: sql.NullTime{Valid: true, Time: time.Now().Add(-time.Hour)},
	}
	require.NoError(t, questRepo.Create(ctx, missed))

	// An ad-hoc family quest claimed but never finished.
	expired := &entity.QuestInstance{
		Base:         entity.Base{ID: "overdue2"},
		FamilyID:     testutil.Family1.ID,
		Title:        "Garage sale prep",
		QuestType:    entity.QuestFamily,
		Category:     entity.CategoryWeekly,
		Difficulty:   entity.DifficultyMedium,
		Status:       entity.QuestClaimed,
		AssignedToID: sql.NullString{Valid: true, String: testutil.Hero2.ID},
		CycleEndDate: sql.NullTime{Valid: true, Time: time.Now().Add(-time.Hour)},
	}
	require.NoError(t, questRepo.Create(ctx, expired))
	require.NoError(t, characterRepo.SetActiveFamilyQuest(ctx, testutil.Character2.ID, expired.ID))

	// Build up a streak that the missed quest should break.
	for i := 0; i < 3; i++ {
		require.NoError(t, characterRepo.IncreaseStreak(ctx, testutil.Character1.ID))
	}

	resp, err := domain.ExpireQuests(ctx, &model.ExpireQuestsRequest{})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, 2, resp.Processed)
	require.Equal(t, 2, resp.Expired)

	reloaded, err := questRepo.GetByID(ctx, missed.ID)
	require.NoError(t, err)
	require.Equal(t, entity.QuestMissed, reloaded.Status)

	reloaded, err = questRepo.GetByID(ctx, expired.ID)
	require.NoError(t, err)
	require.Equal(t, entity.QuestExpired, reloaded.Status)

	character1, err := characterRepo.GetByID(ctx, testutil.Character1.ID)
	require.NoError(t, err)
	require.Zero(t, character1.StreakCount)

	// The family quest also frees the claimant for new claims.
	character2, err := characterRepo.GetByID(ctx, testutil.Character2.ID)
	require.NoError(t, err)
	require.False(t, character2.ActiveFamilyQuestID.Valid)
}

func Test_questCronDomain_ExpireQuests_pausedTemplateKeepsStreak(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestCronDomain()
	questRepo := repository.NewQuestInstanceRepository()
	characterRepo := repository.NewCharacterRepository()

	template := &entity.QuestTemplate{
		Base:       entity.Base{ID: "template4"},
		FamilyID:   testutil.Family1.ID,
		Title:      "Evening reading",
		QuestType:  entity.QuestIndividual,
		Category:   entity.CategoryDaily,
		Difficulty: entity.DifficultyEasy,
		Recurrence: entity.RecurrenceDaily,
		IsActive:   true,
		IsPaused:   true,
	}
	require.NoError(t, repository.NewQuestTemplateRepository().Create(ctx, template))

	overdue := &entity.QuestInstance{
		Base:         entity.Base{ID: "overdue3"},
		FamilyID:     testutil.Family1.ID,
		TemplateID:   sql.NullString{Valid: true, String: template.ID},
		Title:        "Evening reading",
		QuestType:    entity.QuestIndividual,
		Category:     entity.CategoryDaily,
		Difficulty:   entity.DifficultyEasy,
		Status:       entity.QuestPending,
		AssignedToID: sql.NullString{Valid: true, String: testutil.Hero1.ID},
		CycleEndDate: sql.NullTime{Valid: true, Time: time.Now().Add(-time.Hour)},
	}
	require.NoError(t, questRepo.Create(ctx, overdue))

	require.NoError(t, characterRepo.IncreaseStreak(ctx, testutil.Character1.ID))

	resp, err := domain.ExpireQuests(ctx, &model.ExpireQuestsRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Expired)

	character, err := characterRepo.GetByID(ctx, testutil.Character1.ID)
	require.NoError(t, err)
	require.Equal(t, 1, character.StreakCount)
}
