package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/familyquest/backend/internal/domain/gameplay"
	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/internal/model"
	"github.com/familyquest/backend/internal/repository"
	"github.com/familyquest/backend/pkg/enum"
	"github.com/familyquest/backend/pkg/errorx"
	"github.com/familyquest/backend/pkg/xcontext"
)

type CharacterDomain interface {
	Create(context.Context, *model.CreateCharacterRequest) (*model.CreateCharacterResponse, error)
	GetMy(context.Context, *model.GetMyCharacterRequest) (*model.GetMyCharacterResponse, error)
	GetFamily(context.Context, *model.GetFamilyCharactersRequest) (*model.GetFamilyCharactersResponse, error)
}

type characterDomain struct {
	characterRepo repository.CharacterRepository
	userRepo      repository.UserRepository
}

func NewCharacterDomain(
	characterRepo repository.CharacterRepository,
	userRepo repository.UserRepository,
) *characterDomain {
	return &characterDomain{characterRepo: characterRepo, userRepo: userRepo}
}

func (d *characterDomain) Create(
	ctx context.Context, req *model.CreateCharacterRequest,
) (*model.CreateCharacterResponse, error) {
	class, err := enum.ToEnum[entity.CharacterClass](req.Class)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid class %s", req.Class)
	}

	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if !user.FamilyID.Valid {
		return nil, errorx.New(errorx.Unavailable, "Join a family before creating a character")
	}

	_, err = d.characterRepo.GetByUserID(ctx, user.ID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "You already have a character")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check existing character: %v", err)
		return nil, errorx.Unknown
	}

	character := &entity.Character{
		Base:     entity.Base{ID: uuid.NewString()},
		UserID:   user.ID,
		FamilyID: user.FamilyID.String,
		Class:    class,
		Level:    1,
	}

	if err := d.characterRepo.Create(ctx, character); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create character: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCharacterResponse{ID: character.ID}, nil
}

func (d *characterDomain) GetMy(
	ctx context.Context, req *model.GetMyCharacterRequest,
) (*model.GetMyCharacterResponse, error) {
	character, err := d.characterRepo.GetByUserID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found character")
		}

		xcontext.Logger(ctx).Errorf("Cannot get character: %v", err)
		return nil, errorx.Unknown
	}

	resp := model.GetMyCharacterResponse(model.ConvertCharacter(character, progressOf(character)))
	return &resp, nil
}

func (d *characterDomain) GetFamily(
	ctx context.Context, req *model.GetFamilyCharactersRequest,
) (*model.GetFamilyCharactersResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if !user.FamilyID.Valid {
		return nil, errorx.New(errorx.Unavailable, "User does not belong to a family")
	}

	characters, err := d.characterRepo.GetListByFamilyID(ctx, user.FamilyID.String)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get characters: %v", err)
		return nil, errorx.Unknown
	}

	modelCharacters := []model.Character{}
	for i := range characters {
		modelCharacters = append(modelCharacters,
			model.ConvertCharacter(&characters[i], progressOf(&characters[i])))
	}

	return &model.GetFamilyCharactersResponse{Characters: modelCharacters}, nil
}

func progressOf(character *entity.Character) model.LevelProgress {
	progress := gameplay.LevelProgress(float64(character.Level), float64(character.XP))
	return model.LevelProgress{
		Current:    progress.Current,
		Required:   progress.Required,
		Percentage: progress.Percentage,
	}
}
