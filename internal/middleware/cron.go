package middleware

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/familyquest/backend/pkg/errorx"
	"github.com/familyquest/backend/pkg/router"
	"github.com/familyquest/backend/pkg/xcontext"
)

// CronSecret guards the /cron endpoints. The external scheduler authenticates
// with a shared bearer secret instead of a user token.
func CronSecret() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		secret := xcontext.Configs(ctx).Cron.Secret
		if secret == "" {
			return nil, errorx.New(errorx.Unavailable, "Cron endpoints are not configured")
		}

		req := xcontext.HTTPRequest(ctx)
		token, found := strings.CutPrefix(req.Header.Get("Authorization"), "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid cron secret")
		}

		return ctx, nil
	}
}
