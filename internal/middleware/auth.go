package middleware

import (
	"context"
	"strings"

	"github.com/familyquest/backend/internal/model"
	"github.com/familyquest/backend/pkg/errorx"
	"github.com/familyquest/backend/pkg/router"
	"github.com/familyquest/backend/pkg/xcontext"
)

// ParseAccessToken verifies the bearer token (or access token cookie) when one
// is present and attaches the user id to the context. It never rejects a
// request on its own; Authenticate does that for protected routes.
func ParseAccessToken() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := extractToken(ctx)
		if token == "" {
			return ctx, nil
		}

		var accessToken model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &accessToken); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return ctx, nil
	}
}

func extractToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	if authorization := req.Header.Get("Authorization"); authorization != "" {
		token, found := strings.CutPrefix(authorization, "Bearer ")
		if !found {
			return ""
		}
		return token
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
