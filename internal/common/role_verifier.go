package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/familyquest/backend/internal/entity"
	"github.com/familyquest/backend/internal/repository"
	"github.com/familyquest/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

var ErrCrossFamily = errors.New("actor does not belong to this family")

type FamilyRoleVerifier struct {
	userRepo repository.UserRepository
}

func NewFamilyRoleVerifier(userRepo repository.UserRepository) *FamilyRoleVerifier {
	return &FamilyRoleVerifier{userRepo: userRepo}
}

// Verify checks that the request user belongs to familyID and, when
// requiredRoles is not empty, holds one of them. Every mutating operation is
// scoped this way: cross-family access is rejected regardless of role.
func (verifier *FamilyRoleVerifier) Verify(
	ctx context.Context, familyID string, requiredRoles ...entity.UserRole,
) error {
	user, err := verifier.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		return fmt.Errorf("user is not valid")
	}

	if !user.FamilyID.Valid || user.FamilyID.String != familyID {
		return ErrCrossFamily
	}

	if len(requiredRoles) > 0 && !slices.Contains(requiredRoles, user.Role) {
		return fmt.Errorf("user role does not have permission")
	}

	return nil
}

// VerifyMember checks family membership without any role requirement.
func (verifier *FamilyRoleVerifier) VerifyMember(ctx context.Context, familyID string) error {
	return verifier.Verify(ctx, familyID)
}
