package domain

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/internal/model"
	"github.com/familyquest/backend/internal/repository"
	"github.com/familyquest/backend/pkg/testutil"
	"github.com/familyquest/backend/pkg/xcontext"
)

func newTestQuestDomain() QuestDomain {
	return NewQuestDomain(
		repository.NewQuestInstanceRepository(),
		repository.NewCharacterRepository(),
		repository.NewTransactionRepository(),
		repository.NewUserRepository(),
	)
}

func createTestQuest(ctx context.Context, t *testing.T, quest *entity.QuestInstance) *entity.QuestInstance {
	t.Helper()

	if quest.ID == "" {
		quest.Base = entity.Base{ID: uuid.NewString()}
	}
	if quest.FamilyID == "" {
		quest.FamilyID = testutil.Family1.ID
	}
	if quest.Status == "" {
		quest.Status = entity.QuestAvailable
	}
	if quest.QuestType == "" {
		quest.QuestType = entity.QuestFamily
	}
	if quest.Category == "" {
		quest.Category = entity.CategoryDaily
	}
	if quest.Difficulty == "" {
		quest.Difficulty = entity.DifficultyEasy
	}

	require.NoError(t, repository.NewQuestInstanceRepository().Create(ctx, quest))
	return quest
}

func Test_questDomain_Claim(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{
		Title:      "Wash the dishes",
		GoldReward: 50,
		XPReward:   100,
	})

	ctx = xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	resp, err := domain.Claim(ctx, &model.ClaimQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.QuestClaimed), resp.Quest.Status)
	require.Equal(t, testutil.Hero1.ID, resp.Quest.AssignedToID)
	require.Equal(t, testutil.Character1.ID, resp.Quest.VolunteeredBy)
	require.Equal(t, 0.2, resp.Quest.VolunteerBonus)

	character, err := repository.NewCharacterRepository().GetByID(ctx, testutil.Character1.ID)
	require.NoError(t, err)
	require.True(t, character.ActiveFamilyQuestID.Valid)
	require.Equal(t, quest.ID, character.ActiveFamilyQuestID.String)
}

func Test_questDomain_Claim_notAvailable(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{Title: "Take out trash"})

	ctx1 := xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	_, err := domain.Claim(ctx1, &model.ClaimQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)

	ctx2 := xcontext.WithRequestUserID(ctx, testutil.Hero2.ID)
	_, err = domain.Claim(ctx2, &model.ClaimQuestRequest{QuestID: quest.ID})
	require.Error(t, err)
	require.Equal(t, "Quest is not available", err.Error())
}

func Test_questDomain_Claim_onlyFamilyQuests(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{
		Title:     "Brush your teeth",
		QuestType: entity.QuestIndividual,
	})

	ctx = xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	_, err := domain.Claim(ctx, &model.ClaimQuestRequest{QuestID: quest.ID})
	require.Error(t, err)
	require.Equal(t, "Only family quests can be claimed", err.Error())
}

func Test_questDomain_Claim_crossFamily(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{Title: "Mow the lawn"})

	ctx = xcontext.WithRequestUserID(ctx, testutil.Outsider1.ID)
	_, err := domain.Claim(ctx, &model.ClaimQuestRequest{QuestID: quest.ID})
	require.Error(t, err)
	require.Equal(t, "Permission denied", err.Error())
}

func Test_questDomain_Claim_antiHoarding(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	first := createTestQuest(ctx, t, &entity.QuestInstance{Title: "Water the plants"})
	second := createTestQuest(ctx, t, &entity.QuestInstance{Title: "Feed the dog"})

	ctx = xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	_, err := domain.Claim(ctx, &model.ClaimQuestRequest{QuestID: first.ID})
	require.NoError(t, err)

	_, err = domain.Claim(ctx, &model.ClaimQuestRequest{QuestID: second.ID})
	require.Error(t, err)
	require.Equal(t, "Hero already has an active family quest", err.Error())

	// The second quest must remain claimable by someone else.
	reloaded, err := repository.NewQuestInstanceRepository().GetByID(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, entity.QuestAvailable, reloaded.Status)
}

func Test_questDomain_Release(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{Title: "Vacuum the hall"})

	heroCtx := xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	_, err := domain.Claim(heroCtx, &model.ClaimQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)

	// Another hero cannot release someone else's claim.
	otherCtx := xcontext.WithRequestUserID(ctx, testutil.Hero2.ID)
	_, err = domain.Release(otherCtx, &model.ReleaseQuestRequest{QuestID: quest.ID})
	require.Error(t, err)

	_, err = domain.Release(heroCtx, &model.ReleaseQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)

	reloaded, err := repository.NewQuestInstanceRepository().GetByID(ctx, quest.ID)
	require.NoError(t, err)
	require.Equal(t, entity.QuestAvailable, reloaded.Status)
	require.False(t, reloaded.AssignedToID.Valid)
	require.False(t, reloaded.VolunteerBonus.Valid)

	character, err := repository.NewCharacterRepository().GetByID(ctx, testutil.Character1.ID)
	require.NoError(t, err)
	require.False(t, character.ActiveFamilyQuestID.Valid)
}

func Test_questDomain_Release_byGuildMaster(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{Title: "Clean the garage"})

	heroCtx := xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	_, err := domain.Claim(heroCtx, &model.ClaimQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)

	gmCtx := xcontext.WithRequestUserID(ctx, testutil.GuildMaster1.ID)
	_, err = domain.Release(gmCtx, &model.ReleaseQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)
}

func Test_questDomain_Release_byAssignee(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{Title: "Water the plants"})

	gmCtx := xcontext.WithRequestUserID(ctx, testutil.GuildMaster1.ID)
	_, err := domain.Assign(gmCtx, &model.AssignQuestRequest{
		QuestID: quest.ID,
		UserID:  testutil.Hero2.ID,
	})
	require.NoError(t, err)

	// The hero a Guild Master assigned may give the quest back themselves.
	heroCtx := xcontext.WithRequestUserID(ctx, testutil.Hero2.ID)
	_, err = domain.Release(heroCtx, &model.ReleaseQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)

	reloaded, err := repository.NewQuestInstanceRepository().GetByID(ctx, quest.ID)
	require.NoError(t, err)
	require.Equal(t, entity.QuestAvailable, reloaded.Status)
	require.False(t, reloaded.AssignedToID.Valid)

	character, err := repository.NewCharacterRepository().GetByID(ctx, testutil.Character2.ID)
	require.NoError(t, err)
	require.False(t, character.ActiveFamilyQuestID.Valid)
}

func Test_questDomain_Assign(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{Title: "Set the table"})

	heroCtx := xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	_, err := domain.Assign(heroCtx, &model.AssignQuestRequest{
		QuestID: quest.ID,
		UserID:  testutil.Hero2.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Only Guild Masters can assign quests", err.Error())

	gmCtx := xcontext.WithRequestUserID(ctx, testutil.GuildMaster1.ID)
	resp, err := domain.Assign(gmCtx, &model.AssignQuestRequest{
		QuestID: quest.ID,
		UserID:  testutil.Hero2.ID,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.QuestClaimed), resp.Quest.Status)
	require.Equal(t, testutil.Hero2.ID, resp.Quest.AssignedToID)

	// A manual assignment records no volunteer and no bonus.
	require.Empty(t, resp.Quest.VolunteeredBy)
	require.Zero(t, resp.Quest.VolunteerBonus)
}

func Test_questDomain_UpdateStatus(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{Title: "Do homework"})

	heroCtx := xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	_, err := domain.Claim(heroCtx, &model.ClaimQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)

	resp, err := domain.UpdateStatus(heroCtx, &model.UpdateQuestStatusRequest{
		QuestID: quest.ID,
		Status:  string(entity.QuestInProgress),
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.QuestInProgress), resp.Quest.Status)

	resp, err = domain.UpdateStatus(heroCtx, &model.UpdateQuestStatusRequest{
		QuestID: quest.ID,
		Status:  string(entity.QuestCompleted),
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.QuestCompleted), resp.Quest.Status)
	require.NotEmpty(t, resp.Quest.CompletedAt)
}

func Test_questDomain_UpdateStatus_notAssignee(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{Title: "Fold laundry"})

	heroCtx := xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	_, err := domain.Claim(heroCtx, &model.ClaimQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)

	otherCtx := xcontext.WithRequestUserID(ctx, testutil.Hero2.ID)
	_, err = domain.UpdateStatus(otherCtx, &model.UpdateQuestStatusRequest{
		QuestID: quest.ID,
		Status:  string(entity.QuestCompleted),
	})
	require.Error(t, err)
	require.Equal(t, "Quest is not assigned to you", err.Error())
}

func Test_questDomain_UpdateStatus_invalidTarget(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{Title: "Make the bed"})

	heroCtx := xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	_, err := domain.Claim(heroCtx, &model.ClaimQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)

	_, err = domain.UpdateStatus(heroCtx, &model.UpdateQuestStatusRequest{
		QuestID: quest.ID,
		Status:  string(entity.QuestApproved),
	})
	require.Error(t, err)
	require.Equal(t, "Heroes can only start or complete quests", err.Error())
}

func Test_questDomain_Approve(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{
		Title:       "Wash the dishes",
		Difficulty:  entity.DifficultyEasy,
		GoldReward:  50,
		XPReward:    100,
		GemsReward:  10,
		HonorReward: 10,
	})

	heroCtx := xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	_, err := domain.Claim(heroCtx, &model.ClaimQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)

	_, err = domain.UpdateStatus(heroCtx, &model.UpdateQuestStatusRequest{
		QuestID: quest.ID,
		Status:  string(entity.QuestCompleted),
	})
	require.NoError(t, err)

	gmCtx := xcontext.WithRequestUserID(ctx, testutil.GuildMaster1.ID)
	resp, err := domain.Approve(gmCtx, &model.ApproveQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.False(t, resp.AlreadyApproved)
	require.NotNil(t, resp.Rewards)

	// Knight on an easy quest: floor(50*1.05)=52 gold, floor(100*1.05)=105 xp.
	require.Equal(t, int64(52), resp.Rewards.Gold)
	require.Equal(t, int64(105), resp.Rewards.XP)
	require.Equal(t, int64(10), resp.Rewards.Gems)
	require.Equal(t, int64(10), resp.Rewards.HonorPoints)

	// 105 xp crosses the 50 xp threshold of level 2.
	require.NotNil(t, resp.LevelUp)
	require.Equal(t, 1, resp.LevelUp.PreviousLevel)
	require.Equal(t, 2, resp.LevelUp.NewLevel)

	character, err := repository.NewCharacterRepository().GetByID(ctx, testutil.Character1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(52), character.Gold)
	require.Equal(t, int64(105), character.XP)
	require.Equal(t, 2, character.Level)
	require.Equal(t, 1, character.StreakCount)
	require.False(t, character.ActiveFamilyQuestID.Valid)

	transactions, err := repository.NewTransactionRepository().
		GetListByUserID(ctx, testutil.Hero1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	require.Equal(t, entity.TransactionQuestReward, transactions[0].Type)
	require.Equal(t, quest.ID, transactions[0].RelatedID)
	require.Equal(t, "Quest reward: Wash the dishes (Level up: 1 → 2)", transactions[0].Description)
}

func Test_questDomain_Approve_idempotent(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{
		Title:      "Sweep the floor",
		GoldReward: 30,
		XPReward:   20,
	})

	heroCtx := xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	_, err := domain.Claim(heroCtx, &model.ClaimQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)

	_, err = domain.UpdateStatus(heroCtx, &model.UpdateQuestStatusRequest{
		QuestID: quest.ID,
		Status:  string(entity.QuestCompleted),
	})
	require.NoError(t, err)

	gmCtx := xcontext.WithRequestUserID(ctx, testutil.GuildMaster1.ID)
	first, err := domain.Approve(gmCtx, &model.ApproveQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.False(t, first.AlreadyApproved)

	second, err := domain.Approve(gmCtx, &model.ApproveQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.True(t, second.AlreadyApproved)
	require.Nil(t, second.Rewards)

	// No double grant.
	character, err := repository.NewCharacterRepository().GetByID(ctx, testutil.Character1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(31), character.Gold)

	transactions, err := repository.NewTransactionRepository().
		GetListByUserID(ctx, testutil.Hero1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
}

func Test_questDomain_Approve_permissions(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{Title: "Clean windows"})

	heroCtx := xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	_, err := domain.Claim(heroCtx, &model.ClaimQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)

	_, err = domain.UpdateStatus(heroCtx, &model.UpdateQuestStatusRequest{
		QuestID: quest.ID,
		Status:  string(entity.QuestCompleted),
	})
	require.NoError(t, err)

	_, err = domain.Approve(heroCtx, &model.ApproveQuestRequest{QuestID: quest.ID})
	require.Error(t, err)
	require.Equal(t, "Only Guild Masters can approve quests", err.Error())
}

func Test_questDomain_Approve_requiresCompleted(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{Title: "Rake leaves"})

	heroCtx := xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	_, err := domain.Claim(heroCtx, &model.ClaimQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)

	gmCtx := xcontext.WithRequestUserID(ctx, testutil.GuildMaster1.ID)
	_, err = domain.Approve(gmCtx, &model.ApproveQuestRequest{QuestID: quest.ID})
	require.Error(t, err)
	require.Equal(t, "Only completed quests can be approved", err.Error())
}

func Test_questDomain_Deny(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{Title: "Organize shelf"})

	heroCtx := xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	_, err := domain.Claim(heroCtx, &model.ClaimQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)

	_, err = domain.UpdateStatus(heroCtx, &model.UpdateQuestStatusRequest{
		QuestID: quest.ID,
		Status:  string(entity.QuestCompleted),
	})
	require.NoError(t, err)

	gmCtx := xcontext.WithRequestUserID(ctx, testutil.GuildMaster1.ID)
	resp, err := domain.Deny(gmCtx, &model.DenyQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)
	require.Equal(t, string(entity.QuestPending), resp.Quest.Status)
	require.Empty(t, resp.Quest.CompletedAt)

	// No rewards on a denial.
	character, err := repository.NewCharacterRepository().GetByID(ctx, testutil.Character1.ID)
	require.NoError(t, err)
	require.Zero(t, character.Gold)
	require.Zero(t, character.XP)
}

func Test_questDomain_Cancel(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	quest := createTestQuest(ctx, t, &entity.QuestInstance{Title: "Paint the fence"})

	gmCtx := xcontext.WithRequestUserID(ctx, testutil.GuildMaster1.ID)
	_, err := domain.Cancel(gmCtx, &model.CancelQuestRequest{QuestID: quest.ID})
	require.NoError(t, err)

	_, err = repository.NewQuestInstanceRepository().GetByID(ctx, quest.ID)
	require.Error(t, err)
}

func Test_questDomain_CreateAndGetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	gmCtx := xcontext.WithRequestUserID(ctx, testutil.GuildMaster1.ID)
	resp, err := domain.Create(gmCtx, &model.CreateQuestRequest{
		Title:      "Weekly deep clean",
		QuestType:  string(entity.QuestFamily),
		Category:   string(entity.CategoryWeekly),
		Difficulty: string(entity.DifficultyHard),
		GoldReward: 100,
		XPReward:   200,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	heroCtx := xcontext.WithRequestUserID(ctx, testutil.Hero1.ID)
	_, err = domain.Create(heroCtx, &model.CreateQuestRequest{
		Title:      "Another quest",
		QuestType:  string(entity.QuestFamily),
		Category:   string(entity.CategoryDaily),
		Difficulty: string(entity.DifficultyEasy),
	})
	require.Error(t, err)
	require.Equal(t, "Only Guild Masters can create quests", err.Error())

	list, err := domain.GetList(heroCtx, &model.GetListQuestRequest{
		Status: string(entity.QuestAvailable),
	})
	require.NoError(t, err)
	require.Len(t, list.Quests, 1)
	require.Equal(t, "Weekly deep clean", list.Quests[0].Title)
}

func Test_questDomain_Create_withAssignee(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	domain := newTestQuestDomain()

	// A family quest is never born assigned; that path goes through
	// assignQuest so the active-quest pointer is tracked.
	gmCtx := xcontext.WithRequestUserID(ctx, testutil.GuildMaster1.ID)
	_, err := domain.Create(gmCtx, &model.CreateQuestRequest{
		Title:        "Mop the kitchen",
		QuestType:    string(entity.QuestFamily),
		Category:     string(entity.CategoryDaily),
		Difficulty:   string(entity.DifficultyEasy),
		AssignedToID: testutil.Hero1.ID,
	})
	require.Error(t, err)
	require.Equal(t, "Family quests are assigned with assignQuest after creation", err.Error())

	resp, err := domain.Create(gmCtx, &model.CreateQuestRequest{
		Title:        "Read a chapter",
		QuestType:    string(entity.QuestIndividual),
		Category:     string(entity.CategoryDaily),
		Difficulty:   string(entity.DifficultyEasy),
		AssignedToID: testutil.Hero1.ID,
	})
	require.NoError(t, err)

	created, err := repository.NewQuestInstanceRepository().GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, entity.QuestPending, created.Status)
	require.Equal(t, testutil.Hero1.ID, created.AssignedToID.String)
}
