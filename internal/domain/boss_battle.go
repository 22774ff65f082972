package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	mathUtil "github.com/pkg/math"
	"gorm.io/gorm"

	"github.com/familyquest/backend/internal/common"
	"github.com/familyquest/backend/internal/domain/gameplay"
	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/internal/model"
	"github.com/familyquest/backend/internal/repository"
	"github.com/familyquest/backend/pkg/errorx"
	"github.com/familyquest/backend/pkg/xcontext"
)

type BossBattleDomain interface {
	Create(context.Context, *model.CreateBossBattleRequest) (*model.CreateBossBattleResponse, error)
	Get(context.Context, *model.GetBossBattleRequest) (*model.GetBossBattleResponse, error)
	GetList(context.Context, *model.GetListBossBattleRequest) (*model.GetListBossBattleResponse, error)
	Join(context.Context, *model.JoinBossBattleRequest) (*model.JoinBossBattleResponse, error)
	Complete(context.Context, *model.CompleteBossBattleRequest) (*model.CompleteBossBattleResponse, error)
	Reopen(context.Context, *model.ReopenBossBattleRequest) (*model.ReopenBossBattleResponse, error)
}

type bossBattleDomain struct {
	bossBattleRepo  repository.BossBattleRepository
	characterRepo   repository.CharacterRepository
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
	roleVerifier    *common.FamilyRoleVerifier
}

func NewBossBattleDomain(
	bossBattleRepo repository.BossBattleRepository,
	characterRepo repository.CharacterRepository,
	transactionRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
) *bossBattleDomain {
	return &bossBattleDomain{
		bossBattleRepo:  bossBattleRepo,
		characterRepo:   characterRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		roleVerifier:    common.NewFamilyRoleVerifier(userRepo),
	}
}

func (d *bossBattleDomain) Create(
	ctx context.Context, req *model.CreateBossBattleRequest,
) (*model.CreateBossBattleResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if !user.FamilyID.Valid {
		return nil, errorx.New(errorx.Unavailable, "User does not belong to a family")
	}

	if err := d.roleVerifier.Verify(ctx, user.FamilyID.String, entity.RoleGuildMaster); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Only Guild Masters can create boss battles")
	}

	window := xcontext.Configs(ctx).Quest.BossJoinWindow
	if req.JoinWindowMinutes > 0 {
		window = time.Duration(req.JoinWindowMinutes) * time.Minute
	}

	battle := &entity.BossBattle{
		Base:                entity.Base{ID: uuid.NewString()},
		FamilyID:            user.FamilyID.String,
		Name:                req.Name,
		Description:         req.Description,
		Status:              entity.BossBattleActive,
		RewardGold:          req.RewardGold,
		RewardXP:            req.RewardXP,
		HonorReward:         req.HonorReward,
		JoinWindowExpiresAt: time.Now().Add(window),
	}

	if err := d.bossBattleRepo.Create(ctx, battle); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create boss battle: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateBossBattleResponse{ID: battle.ID}, nil
}

func (d *bossBattleDomain) Get(
	ctx context.Context, req *model.GetBossBattleRequest,
) (*model.GetBossBattleResponse, error) {
	battle, err := d.bossBattleRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found boss battle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get boss battle: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roleVerifier.VerifyMember(ctx, battle.FamilyID); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	participants, err := d.bossBattleRepo.GetParticipants(ctx, battle.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participants: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetBossBattleResponse(model.ConvertBossBattle(battle, participants))
	return &resp, nil
}

func (d *bossBattleDomain) GetList(
	ctx context.Context, req *model.GetListBossBattleRequest,
) (*model.GetListBossBattleResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if !user.FamilyID.Valid {
		return nil, errorx.New(errorx.Unavailable, "User does not belong to a family")
	}

	battles, err := d.bossBattleRepo.GetListByFamilyID(ctx, user.FamilyID.String)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get boss battles: %v", err)
		return nil, errorx.Unknown
	}

	modelBattles := []model.BossBattle{}
	for i := range battles {
		modelBattles = append(modelBattles, model.ConvertBossBattle(&battles[i], nil))
	}

	return &model.GetListBossBattleResponse{BossBattles: modelBattles}, nil
}

func (d *bossBattleDomain) Join(
	ctx context.Context, req *model.JoinBossBattleRequest,
) (*model.JoinBossBattleResponse, error) {
	battle, err := d.bossBattleRepo.GetByID(ctx, req.BossBattleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found boss battle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get boss battle: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roleVerifier.VerifyMember(ctx, battle.FamilyID); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if battle.Status != entity.BossBattleActive {
		return nil, errorx.New(errorx.Unavailable, "Boss battle is not active")
	}

	if time.Now().After(battle.JoinWindowExpiresAt) {
		return nil, errorx.New(errorx.Unavailable, "Join window has closed")
	}

	// Rewards are credited to the character, so there must be one to join.
	if _, err := d.characterRepo.GetByUserID(ctx, xcontext.RequestUserID(ctx)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "You need a character to join boss battles")
		}

		xcontext.Logger(ctx).Errorf("Cannot get character: %v", err)
		return nil, errorx.Unknown
	}

	err = d.bossBattleRepo.AddParticipant(ctx, &entity.BossBattleParticipant{
		BossBattleID: battle.ID,
		UserID:       xcontext.RequestUserID(ctx),
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate") ||
			strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, errorx.New(errorx.AlreadyExists, "Already joined this boss battle")
		}

		xcontext.Logger(ctx).Errorf("Cannot join boss battle: %v", err)
		return nil, errorx.Unknown
	}

	return &model.JoinBossBattleResponse{}, nil
}

func (d *bossBattleDomain) Complete(
	ctx context.Context, req *model.CompleteBossBattleRequest,
) (*model.CompleteBossBattleResponse, error) {
	battle, err := d.bossBattleRepo.GetByID(ctx, req.BossBattleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found boss battle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get boss battle: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roleVerifier.Verify(ctx, battle.FamilyID, entity.RoleGuildMaster); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Only Guild Masters can complete boss battles")
	}

	// Completing twice must not distribute twice.
	if battle.RewardsDistributed {
		return &model.CompleteBossBattleResponse{AlreadyCompleted: true}, nil
	}

	participants, err := d.bossBattleRepo.GetParticipants(ctx, battle.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participants: %v", err)
		return nil, errorx.Unknown
	}

	decisions := map[string]model.BossBattleDecision{}
	for _, decision := range req.Decisions {
		decisions[decision.UserID] = decision
	}

	requestUserID := xcontext.RequestUserID(ctx)
	now := time.Now()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	awards := []model.BossBattleAward{}
	seen := map[string]bool{}
	for i := range participants {
		participant := participants[i]
		if seen[participant.UserID] {
			continue
		}
		seen[participant.UserID] = true

		status := entity.ParticipationApproved
		if decision, ok := decisions[participant.UserID]; ok {
			switch decision.Status {
			case string(entity.ParticipationPartial):
				status = entity.ParticipationPartial
			case string(entity.ParticipationDenied):
				status = entity.ParticipationDenied
			case "", string(entity.ParticipationApproved):
				status = entity.ParticipationApproved
			default:
				return nil, errorx.New(errorx.BadRequest,
					"Invalid participation status %s", decision.Status)
			}
		}

		award, err := d.resolveAward(ctx, battle, &participant, status, decisions[participant.UserID], requestUserID, now)
		if err != nil {
			return nil, err
		}

		awards = append(awards, *award)
	}

	if err := d.bossBattleRepo.MarkDefeated(ctx, battle.ID, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A concurrent completion already distributed.
			return &model.CompleteBossBattleResponse{AlreadyCompleted: true}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot mark boss battle defeated: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.CompleteBossBattleResponse{Awards: awards}, nil
}

// resolveAward computes and persists the reward of one participant. Denied
// rulings record zeros, partial rulings take the guild master's figures with
// the battle's base rewards as fallback, approved rulings take the base
// rewards with the participant's class bonus on top. Everything is floored
// and never negative.
func (d *bossBattleDomain) resolveAward(
	ctx context.Context,
	battle *entity.BossBattle,
	participant *entity.BossBattleParticipant,
	status entity.ParticipationStatus,
	decision model.BossBattleDecision,
	approvedBy string,
	now time.Time,
) (*model.BossBattleAward, error) {
	var gold, xp, honor int64

	switch status {
	case entity.ParticipationDenied:
		// zeros

	case entity.ParticipationPartial:
		gold = floorAmount(decision.Gold, battle.RewardGold)
		xp = floorAmount(decision.XP, battle.RewardXP)
		honor = floorAmount(decision.Honor, battle.HonorReward)

	case entity.ParticipationApproved:
		// A participant without a character gets neutral multipliers.
		var class entity.CharacterClass
		character, err := d.characterRepo.GetByUserID(ctx, participant.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get character of participant: %v", err)
			return nil, errorx.Unknown
		}
		if character != nil {
			class = character.Class
		}

		bonus := gameplay.ClassBonusFor(class)
		gold = int64(math.Floor(float64(battle.RewardGold) * bonus.Gold))
		xp = int64(math.Floor(float64(battle.RewardXP) * bonus.XP))
		honor = int64(math.Floor(float64(battle.HonorReward) * bonus.Honor))
	}

	participant.ParticipationStatus = status
	participant.AwardedGold = gold
	participant.AwardedXP = xp
	participant.HonorAwarded = honor
	participant.ApprovedAt = sql.NullTime{Valid: true, Time: now}
	participant.ApprovedBy = sql.NullString{Valid: true, String: approvedBy}

	if err := d.bossBattleRepo.UpdateParticipantAward(ctx, participant); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot persist participant award: %v", err)
		return nil, errorx.Unknown
	}

	if gold != 0 || xp != 0 || honor != 0 {
		character, err := d.characterRepo.GetByUserID(ctx, participant.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Participant rows can predate the character requirement on
				// join. There is nothing to credit, so the award stays on the
				// participant row and the rest of the batch proceeds.
				xcontext.Logger(ctx).Warnf(
					"Participant %s has no character, skipping stat grant", participant.UserID)
				return &model.BossBattleAward{
					UserID: participant.UserID,
					Status: string(status),
					Gold:   gold,
					XP:     xp,
					Honor:  honor,
				}, nil
			}

			xcontext.Logger(ctx).Errorf("Cannot get character of participant: %v", err)
			return nil, errorx.Unknown
		}

		newLevel := mathUtil.MaxInt(character.Level, gameplay.LevelFromXP(character.XP+xp))

		err = d.characterRepo.ApplyRewards(ctx, character.ID, gold, xp, 0, honor, newLevel)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot apply boss rewards: %v", err)
			return nil, errorx.Unknown
		}

		transaction := &entity.Transaction{
			SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
			UserID:        participant.UserID,
			FamilyID:      battle.FamilyID,
			Type:          entity.TransactionBossVictory,
			GoldDelta:     gold,
			XPDelta:       xp,
			HonorDelta:    honor,
			Description: fmt.Sprintf("Boss quest rewards (%s)",
				strings.ToUpper(string(status))),
			RelatedID: battle.ID,
		}

		if err := d.transactionRepo.Create(ctx, transaction); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot record boss transaction: %v", err)
			return nil, errorx.Unknown
		}
	}

	return &model.BossBattleAward{
		UserID: participant.UserID,
		Status: string(status),
		Gold:   gold,
		XP:     xp,
		Honor:  honor,
	}, nil
}

func floorAmount(value *float64, fallback int64) int64 {
	if value == nil {
		return fallback
	}

	floored := int64(math.Floor(*value))
	if floored < 0 {
		return 0
	}

	return floored
}

func (d *bossBattleDomain) Reopen(
	ctx context.Context, req *model.ReopenBossBattleRequest,
) (*model.ReopenBossBattleResponse, error) {
	battle, err := d.bossBattleRepo.GetByID(ctx, req.BossBattleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found boss battle")
		}

		xcontext.Logger(ctx).Errorf("Cannot get boss battle: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.roleVerifier.Verify(ctx, battle.FamilyID, entity.RoleGuildMaster); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Only Guild Masters can reopen boss battles")
	}

	if battle.RewardsDistributed {
		return nil, errorx.New(errorx.Unavailable, "Rewards were already distributed")
	}

	if req.Minutes <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Minutes must be positive")
	}

	expiresAt := time.Now().Add(time.Duration(req.Minutes) * time.Minute)
	if err := d.bossBattleRepo.ExtendJoinWindow(ctx, battle.ID, expiresAt); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot extend join window: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ReopenBossBattleResponse{}, nil
}
