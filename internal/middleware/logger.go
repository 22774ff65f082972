package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/familyquest/backend/pkg/errorx"
	"github.com/familyquest/backend/pkg/router"
	"github.com/familyquest/backend/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		info := fmt.Sprintf("%s | %s", req.Method, req.URL.Path)
		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				xcontext.Logger(ctx).Warnf("%s | %d | %s", info, errx.Code, errx.Message)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %v", info, err)
			}
		} else {
			xcontext.Logger(ctx).Infof(info)
		}
	}
}
