package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/familyquest/backend/internal/common"
	"github.com/familyquest/backend/internal/domain/gameplay"
	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/internal/model"
	"github.com/familyquest/backend/internal/repository"
	"github.com/familyquest/backend/pkg/enum"
	"github.com/familyquest/backend/pkg/errorx"
	"github.com/familyquest/backend/pkg/xcontext"
)

type QuestDomain interface {
	Create(context.Context, *model.CreateQuestRequest) (*model.CreateQuestResponse, error)
	Get(context.Context, *model.GetQuestRequest) (*model.GetQuestResponse, error)
	GetList(context.Context, *model.GetListQuestRequest) (*model.GetListQuestResponse, error)
	Claim(context.Context, *model.ClaimQuestRequest) (*model.ClaimQuestResponse, error)
	Release(context.Context, *model.ReleaseQuestRequest) (*model.ReleaseQuestResponse, error)
	Assign(context.Context, *model.AssignQuestRequest) (*model.AssignQuestResponse, error)
	UpdateStatus(context.Context, *model.UpdateQuestStatusRequest) (*model.UpdateQuestStatusResponse, error)
	Approve(context.Context, *model.ApproveQuestRequest) (*model.ApproveQuestResponse, error)
	Deny(context.Context, *model.DenyQuestRequest) (*model.DenyQuestResponse, error)
	Cancel(context.Context, *model.CancelQuestRequest) (*model.CancelQuestResponse, error)
}

type questDomain struct {
	questRepo       repository.QuestInstanceRepository
	characterRepo   repository.CharacterRepository
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	roleVerifier    *common.FamilyRoleVerifier
}

func NewQuestDomain(
	questRepo repository.QuestInstanceRepository,
	characterRepo repository.CharacterRepository,
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
) *questDomain {
	return &questDomain{
		questRepo:       questRepo,
		characterRepo:   characterRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		roleVerifier:    common.NewFamilyRoleVerifier(userRepo),
	}
}

func (d *questDomain) Create(
	ctx context.Context, req *model.CreateQuestRequest,
) (*model.CreateQuestResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if !user.FamilyID.Valid {
		return nil, errorx.New(errorx.Unavailable, "User does not belong to a family")
	}

	if err := d.roleVerifier.Verify(ctx, user.FamilyID.String, entity.RoleGuildMaster); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Only Guild Masters can create quests")
	}

	questType, err := enum.ToEnum[entity.QuestType](req.QuestType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid quest type %s", req.QuestType)
	}

	category, err := enum.ToEnum[entity.QuestCategory](req.Category)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid category %s", req.Category)
	}

	difficulty, err := enum.ToEnum[entity.QuestDifficulty](req.Difficulty)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid difficulty %s", req.Difficulty)
	}

	quest := &entity.QuestInstance{
		Base:        entity.Base{ID: uuid.NewString()},
		FamilyID:    user.FamilyID.String,
		Title:       req.Title,
		Description: req.Description,
		QuestType:   questType,
		Category:    category,
		Difficulty:  difficulty,
		XPReward:    req.XPReward,
		GoldReward:  req.GoldReward,
		GemsReward:  req.GemsReward,
		HonorReward: req.HonorReward,
		Status:      entity.QuestAvailable,
	}

	if req.DueDate != "" {
		dueDate, err := time.Parse(model.DefaultTimeLayout, req.DueDate)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid due date")
		}
		quest.DueDate = sql.NullTime{Valid: true, Time: dueDate}
	}

	// Individual quests are born assigned and waiting for the hero. Family
	// quests are born on the quest board; assigning one goes through
	// assignQuest so the active-quest pointer is tracked.
	if req.AssignedToID != "" {
		if questType == entity.QuestFamily {
			return nil, errorx.New(errorx.BadRequest,
				"Family quests are assigned with assignQuest after creation")
		}

		assignee, err := d.userRepo.GetByID(ctx, req.AssignedToID)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Assignee is not a valid user")
		}

		if !assignee.FamilyID.Valid || assignee.FamilyID.String != quest.FamilyID {
			return nil, errorx.New(errorx.BadRequest, "Assignee is not in your family")
		}

		quest.AssignedToID = sql.NullString{Valid: true, String: assignee.ID}
		quest.Status = entity.QuestPending
	}

	if err := d.questRepo.Create(ctx, quest); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create quest: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateQuestResponse{ID: quest.ID}, nil
}

func (d *questDomain) Get(
	ctx context.Context, req *model.GetQuestRequest,
) (*model.GetQuestResponse, error) {
	quest, err := d.questRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roleVerifier.VerifyMember(ctx, quest.FamilyID); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	resp := model.GetQuestResponse(model.ConvertQuest(quest))
	return &resp, nil
}

func (d *questDomain) GetList(
	ctx context.Context, req *model.GetListQuestRequest,
) (*model.GetListQuestResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if !user.FamilyID.Valid {
		return nil, errorx.New(errorx.Unavailable, "User does not belong to a family")
	}

	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	filter := repository.QuestInstanceFilter{
		FamilyID:     user.FamilyID.String,
		AssignedToID: req.AssignedToID,
		Offset:       req.Offset,
		Limit:        req.Limit,
	}

	if req.Status != "" {
		status, err := enum.ToEnum[entity.QuestStatus](req.Status)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
		}
		filter.Status = []entity.QuestStatus{status}
	}

	if req.QuestType != "" {
		questType, err := enum.ToEnum[entity.QuestType](req.QuestType)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid quest type %s", req.QuestType)
		}
		filter.QuestType = questType
	}

	quests, err := d.questRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest list: %v", err)
		return nil, errorx.Unknown
	}

	modelQuests := []model.Quest{}
	for i := range quests {
		modelQuests = append(modelQuests, model.ConvertQuest(&quests[i]))
	}

	return &model.GetListQuestResponse{Quests: modelQuests}, nil
}

func (d *questDomain) Claim(
	ctx context.Context, req *model.ClaimQuestRequest,
) (*model.ClaimQuestResponse, error) {
	quest, err := d.questRepo.GetByID(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	if quest.QuestType != entity.QuestFamily {
		return nil, errorx.New(errorx.BadRequest, "Only family quests can be claimed")
	}

	if err := d.roleVerifier.VerifyMember(ctx, quest.FamilyID); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if quest.Status != entity.QuestAvailable {
		return nil, errorx.New(errorx.Unavailable, "Quest is not available")
	}

	requestUserID := xcontext.RequestUserID(ctx)
	character, err := d.characterRepo.GetByUserID(ctx, requestUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "You need a character to claim quests")
		}

		xcontext.Logger(ctx).Errorf("Cannot get character: %v", err)
		return nil, errorx.Unknown
	}

	if character.ActiveFamilyQuestID.Valid {
		return nil, errorx.New(errorx.Unavailable, "Hero already has an active family quest")
	}

	// The conditional update is the authoritative gate. Of two racing
	// claimants, exactly one flips AVAILABLE to CLAIMED; the other sees no
	// rows affected.
	bonus := xcontext.Configs(ctx).Quest.VolunteerBonus
	if err := d.questRepo.Claim(ctx, quest.ID, requestUserID, character.ID, bonus); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Quest is not available")
		}

		xcontext.Logger(ctx).Errorf("Cannot claim quest: %v", err)
		return nil, errorx.Unknown
	}

	// Second write of the saga. On failure the quest row is rolled back to
	// AVAILABLE; if even that fails we have an orphaned claim and can only
	// log it.
	if err := d.characterRepo.SetActiveFamilyQuest(ctx, character.ID, quest.ID); err != nil {
		if rollbackErr := d.questRepo.ReleaseClaim(ctx, quest.ID); rollbackErr != nil {
			xcontext.Logger(ctx).Errorf(
				"Orphaned claim on quest %s by user %s: %v", quest.ID, requestUserID, rollbackErr)
			return nil, errorx.Unknown
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Hero already has an active family quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot track active quest: %v", err)
		return nil, errorx.Unknown
	}

	claimed, err := d.questRepo.GetByID(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload quest: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ClaimQuestResponse{Quest: model.ConvertQuest(claimed)}, nil
}

func (d *questDomain) Release(
	ctx context.Context, req *model.ReleaseQuestRequest,
) (*model.ReleaseQuestResponse, error) {
	quest, err := d.questRepo.GetByID(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roleVerifier.VerifyMember(ctx, quest.FamilyID); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	// Releasing an unclaimed quest is a no-op.
	if quest.Status == entity.QuestAvailable {
		return &model.ReleaseQuestResponse{}, nil
	}

	if quest.Status != entity.QuestClaimed {
		return nil, errorx.New(errorx.Unavailable, "Quest cannot be released now")
	}

	// Heroes release their own claim, volunteered or GM-assigned alike;
	// releasing somebody else's claim takes a Guild Master.
	requestUserID := xcontext.RequestUserID(ctx)
	isAssignee := quest.AssignedToID.Valid && quest.AssignedToID.String == requestUserID
	if quest.AssignedToID.Valid && !isAssignee {
		if err := d.roleVerifier.Verify(ctx, quest.FamilyID, entity.RoleGuildMaster); err != nil {
			return nil, errorx.New(errorx.PermissionDenied, "Only Guild Masters can release claims of others")
		}
	}

	if err := d.questRepo.ReleaseClaim(ctx, quest.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot release quest: %v", err)
		return nil, errorx.Unknown
	}

	if quest.AssignedToID.Valid {
		if err := d.clearActiveQuestOf(ctx, quest.AssignedToID.String, quest.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot clear active quest pointer: %v", err)
			return nil, errorx.Unknown
		}
	}

	return &model.ReleaseQuestResponse{}, nil
}

func (d *questDomain) Assign(
	ctx context.Context, req *model.AssignQuestRequest,
) (*model.AssignQuestResponse, error) {
	quest, err := d.questRepo.GetByID(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	if quest.QuestType != entity.QuestFamily {
		return nil, errorx.New(errorx.BadRequest, "Only family quests can be assigned")
	}

	if err := d.roleVerifier.Verify(ctx, quest.FamilyID, entity.RoleGuildMaster); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Only Guild Masters can assign quests")
	}

	if quest.Status != entity.QuestAvailable {
		return nil, errorx.New(errorx.Unavailable, "Quest is not available")
	}

	assignee, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Assignee is not a valid user")
	}

	if !assignee.FamilyID.Valid || assignee.FamilyID.String != quest.FamilyID {
		return nil, errorx.New(errorx.BadRequest, "Assignee is not in your family")
	}

	character, err := d.characterRepo.GetByUserID(ctx, assignee.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Assignee has no character")
		}

		xcontext.Logger(ctx).Errorf("Cannot get character: %v", err)
		return nil, errorx.Unknown
	}

	if character.ActiveFamilyQuestID.Valid {
		return nil, errorx.New(errorx.Unavailable, "Hero already has an active family quest")
	}

	// Same saga as Claim, but the volunteer fields stay null so no bonus is
	// ever recorded for a manual assignment.
	if err := d.questRepo.Assign(ctx, quest.ID, assignee.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Quest is not available")
		}

		xcontext.Logger(ctx).Errorf("Cannot assign quest: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.characterRepo.SetActiveFamilyQuest(ctx, character.ID, quest.ID); err != nil {
		if rollbackErr := d.questRepo.ReleaseClaim(ctx, quest.ID); rollbackErr != nil {
			xcontext.Logger(ctx).Errorf(
				"Orphaned claim on quest %s by user %s: %v", quest.ID, assignee.ID, rollbackErr)
			return nil, errorx.Unknown
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Hero already has an active family quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot track active quest: %v", err)
		return nil, errorx.Unknown
	}

	assigned, err := d.questRepo.GetByID(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload quest: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AssignQuestResponse{Quest: model.ConvertQuest(assigned)}, nil
}

func (d *questDomain) UpdateStatus(
	ctx context.Context, req *model.UpdateQuestStatusRequest,
) (*model.UpdateQuestStatusResponse, error) {
	target, err := enum.ToEnum[entity.QuestStatus](req.Status)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid status %s", req.Status)
	}

	if target != entity.QuestInProgress && target != entity.QuestCompleted {
		return nil, errorx.New(errorx.BadRequest, "Heroes can only start or complete quests")
	}

	quest, err := d.questRepo.GetByID(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roleVerifier.VerifyMember(ctx, quest.FamilyID); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	requestUserID := xcontext.RequestUserID(ctx)
	if !quest.AssignedToID.Valid || quest.AssignedToID.String != requestUserID {
		return nil, errorx.New(errorx.PermissionDenied, "Quest is not assigned to you")
	}

	allowedFrom := map[entity.QuestStatus][]entity.QuestStatus{
		entity.QuestInProgress: {entity.QuestClaimed, entity.QuestPending},
		entity.QuestCompleted:  {entity.QuestClaimed, entity.QuestPending, entity.QuestInProgress},
	}

	if !slices.Contains(allowedFrom[target], quest.Status) {
		return nil, errorx.New(errorx.Unavailable,
			"Cannot change status from %s to %s", quest.Status, target)
	}

	// CAS on the status we just observed; a concurrent transition makes the
	// update miss and the caller retries.
	if target == entity.QuestCompleted {
		err = d.questRepo.MarkCompleted(ctx, quest.ID, quest.Status, time.Now())
	} else {
		err = d.questRepo.UpdateStatus(ctx, quest.ID, quest.Status, target)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Quest was modified, please try again")
		}

		xcontext.Logger(ctx).Errorf("Cannot update quest status: %v", err)
		return nil, errorx.Unknown
	}

	updated, err := d.questRepo.GetByID(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload quest: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateQuestStatusResponse{Quest: model.ConvertQuest(updated)}, nil
}

func (d *questDomain) Approve(
	ctx context.Context, req *model.ApproveQuestRequest,
) (*model.ApproveQuestResponse, error) {
	quest, err := d.questRepo.GetByID(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roleVerifier.Verify(ctx, quest.FamilyID, entity.RoleGuildMaster); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Only Guild Masters can approve quests")
	}

	// Approving twice must not grant twice.
	if quest.Status == entity.QuestApproved {
		return &model.ApproveQuestResponse{AlreadyApproved: true}, nil
	}

	if quest.Status != entity.QuestCompleted {
		return nil, errorx.New(errorx.Unavailable, "Only completed quests can be approved")
	}

	if !quest.AssignedToID.Valid {
		return nil, errorx.New(errorx.Unavailable, "Quest has no assignee")
	}

	character, err := d.characterRepo.GetByUserID(ctx, quest.AssignedToID.String)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get character of assignee: %v", err)
		return nil, errorx.Unknown
	}

	base := gameplay.Rewards{
		Gold:        quest.GoldReward,
		XP:          quest.XPReward,
		Gems:        quest.GemsReward,
		HonorPoints: quest.HonorReward,
	}
	rewards := gameplay.CalculateQuestRewards(base, quest.Difficulty, character.Class, character.Level)
	levelUp := gameplay.CalculateLevelUp(character.XP, rewards.XP, character.Level)

	// Level only ever moves up.
	newLevel := character.Level
	if levelUp != nil {
		newLevel = levelUp.NewLevel
	}

	description := fmt.Sprintf("Quest reward: %s", quest.Title)
	if levelUp != nil {
		description = fmt.Sprintf("Quest reward: %s (Level up: %d → %d)",
			quest.Title, levelUp.PreviousLevel, levelUp.NewLevel)
	}

	transaction := &entity.Transaction{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        character.UserID,
		FamilyID:      quest.FamilyID,
		Type:          entity.TransactionQuestReward,
		GoldDelta:     rewards.Gold,
		XPDelta:       rewards.XP,
		GemsDelta:     rewards.Gems,
		HonorDelta:    rewards.HonorPoints,
		Description:   description,
		RelatedID:     quest.ID,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.questRepo.Approve(ctx, quest.ID, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A concurrent approval won the race and already granted.
			return &model.ApproveQuestResponse{AlreadyApproved: true}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot approve quest: %v", err)
		return nil, errorx.Unknown
	}

	err = d.characterRepo.ApplyRewards(ctx, character.ID,
		rewards.Gold, rewards.XP, rewards.Gems, rewards.HonorPoints, newLevel)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot apply rewards: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.transactionRepo.Create(ctx, transaction); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot record reward transaction: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.characterRepo.ClearActiveFamilyQuest(ctx, character.ID, quest.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot clear active quest pointer: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.characterRepo.IncreaseStreak(ctx, character.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase streak: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	resp := &model.ApproveQuestResponse{
		Rewards: &model.Rewards{
			Gold:        rewards.Gold,
			XP:          rewards.XP,
			Gems:        rewards.Gems,
			HonorPoints: rewards.HonorPoints,
		},
		TransactionID: strconv.FormatInt(transaction.ID, 10),
	}

	if levelUp != nil {
		resp.LevelUp = &model.LevelUp{
			PreviousLevel: levelUp.PreviousLevel,
			NewLevel:      levelUp.NewLevel,
		}
	}

	return resp, nil
}

func (d *questDomain) Deny(
	ctx context.Context, req *model.DenyQuestRequest,
) (*model.DenyQuestResponse, error) {
	quest, err := d.questRepo.GetByID(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roleVerifier.Verify(ctx, quest.FamilyID, entity.RoleGuildMaster); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Only Guild Masters can deny quests")
	}

	if err := d.questRepo.Deny(ctx, quest.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Only completed quests can be denied")
		}

		xcontext.Logger(ctx).Errorf("Cannot deny quest: %v", err)
		return nil, errorx.Unknown
	}

	denied, err := d.questRepo.GetByID(ctx, quest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload quest: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DenyQuestResponse{Quest: model.ConvertQuest(denied)}, nil
}

func (d *questDomain) Cancel(
	ctx context.Context, req *model.CancelQuestRequest,
) (*model.CancelQuestResponse, error) {
	quest, err := d.questRepo.GetByID(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roleVerifier.Verify(ctx, quest.FamilyID, entity.RoleGuildMaster); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Only Guild Masters can cancel quests")
	}

	if slices.Contains(entity.QuestTerminalStatuses, quest.Status) {
		return nil, errorx.New(errorx.Unavailable, "Cannot cancel a finished quest")
	}

	if err := d.questRepo.Delete(ctx, quest.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot cancel quest: %v", err)
		return nil, errorx.Unknown
	}

	if quest.AssignedToID.Valid {
		if err := d.clearActiveQuestOf(ctx, quest.AssignedToID.String, quest.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot clear active quest pointer: %v", err)
			return nil, errorx.Unknown
		}
	}

	return &model.CancelQuestResponse{}, nil
}

func (d *questDomain) clearActiveQuestOf(ctx context.Context, userID, questID string) error {
	character, err := d.characterRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	return d.characterRepo.ClearActiveFamilyQuest(ctx, character.ID, questID)
}
