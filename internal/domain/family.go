package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/familyquest/backend/internal/common"
	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/internal/model"
	"github.com/familyquest/backend/internal/repository"
	"github.com/familyquest/backend/pkg/crypto"
	"github.com/familyquest/backend/pkg/errorx"
	"github.com/familyquest/backend/pkg/xcontext"
)

type FamilyDomain interface {
	Create(context.Context, *model.CreateFamilyRequest) (*model.CreateFamilyResponse, error)
	Join(context.Context, *model.JoinFamilyRequest) (*model.JoinFamilyResponse, error)
	GetMy(context.Context, *model.GetMyFamilyRequest) (*model.GetMyFamilyResponse, error)
	Promote(context.Context, *model.PromoteUserRequest) (*model.PromoteUserResponse, error)
	Demote(context.Context, *model.DemoteUserRequest) (*model.DemoteUserResponse, error)
}

type familyDomain struct {
	familyRepo   repository.FamilyRepository
	userRepo     repository.UserRepository
	roleVerifier *common.FamilyRoleVerifier
}

func NewFamilyDomain(
	familyRepo repository.FamilyRepository,
	userRepo repository.UserRepository,
) *familyDomain {
	return &familyDomain{
		familyRepo:   familyRepo,
		userRepo:     userRepo,
		roleVerifier: common.NewFamilyRoleVerifier(userRepo),
	}
}

func (d *familyDomain) Create(
	ctx context.Context, req *model.CreateFamilyRequest,
) (*model.CreateFamilyResponse, error) {
	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Family name must not be empty")
	}

	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if user.FamilyID.Valid {
		return nil, errorx.New(errorx.Unavailable, "User already belongs to a family")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	family := &entity.Family{
		Base:     entity.Base{ID: uuid.NewString()},
		Name:     req.Name,
		JoinCode: crypto.GenerateRandomAlphabet(8),
	}

	if err := d.familyRepo.Create(ctx, family); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create family: %v", err)
		return nil, errorx.Unknown
	}

	// The founder becomes the guild master.
	err = d.userRepo.UpdateFamily(ctx, user.ID, family.ID, entity.RoleGuildMaster)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update founder: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.CreateFamilyResponse{ID: family.ID, JoinCode: family.JoinCode}, nil
}

func (d *familyDomain) Join(
	ctx context.Context, req *model.JoinFamilyRequest,
) (*model.JoinFamilyResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if user.FamilyID.Valid {
		return nil, errorx.New(errorx.Unavailable, "User already belongs to a family")
	}

	family, err := d.familyRepo.GetByJoinCode(ctx, req.JoinCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Invalid join code")
		}

		xcontext.Logger(ctx).Errorf("Cannot get family: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.UpdateFamily(ctx, user.ID, family.ID, entity.RoleHero); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot join family: %v", err)
		return nil, errorx.Unknown
	}

	return &model.JoinFamilyResponse{}, nil
}

func (d *familyDomain) GetMy(
	ctx context.Context, req *model.GetMyFamilyRequest,
) (*model.GetMyFamilyResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if !user.FamilyID.Valid {
		return nil, errorx.New(errorx.NotFound, "User does not belong to a family")
	}

	family, err := d.familyRepo.GetByID(ctx, user.FamilyID.String)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get family: %v", err)
		return nil, errorx.Unknown
	}

	members, err := d.userRepo.GetListByFamilyID(ctx, family.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get members: %v", err)
		return nil, errorx.Unknown
	}

	modelMembers := []model.User{}
	for i := range members {
		modelMembers = append(modelMembers, model.ConvertUser(&members[i]))
	}

	return &model.GetMyFamilyResponse{
		Family:  model.ConvertFamily(family),
		Members: modelMembers,
	}, nil
}

func (d *familyDomain) Promote(
	ctx context.Context, req *model.PromoteUserRequest,
) (*model.PromoteUserResponse, error) {
	if err := d.changeRole(ctx, req.UserID, entity.RoleGuildMaster); err != nil {
		return nil, err
	}

	return &model.PromoteUserResponse{}, nil
}

func (d *familyDomain) Demote(
	ctx context.Context, req *model.DemoteUserRequest,
) (*model.DemoteUserResponse, error) {
	if req.UserID == xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.Unavailable, "Guild Masters cannot demote themselves")
	}

	if err := d.changeRole(ctx, req.UserID, entity.RoleHero); err != nil {
		return nil, err
	}

	return &model.DemoteUserResponse{}, nil
}

func (d *familyDomain) changeRole(ctx context.Context, targetID string, role entity.UserRole) error {
	target, err := d.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return errorx.Unknown
	}

	if !target.FamilyID.Valid {
		return errorx.New(errorx.Unavailable, "Target does not belong to a family")
	}

	err = d.roleVerifier.Verify(ctx, target.FamilyID.String, entity.RoleGuildMaster)
	if err != nil {
		return errorx.New(errorx.PermissionDenied, "Only Guild Masters can change roles")
	}

	if err := d.userRepo.UpdateRole(ctx, target.ID, role); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update role: %v", err)
		return errorx.Unknown
	}

	return nil
}
