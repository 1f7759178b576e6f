package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/schooldesk/core/person"
)

const kindCtxKey = "kind"

// kindMiddleware resolves the :kind path param; unknown kinds are not found.
func kindMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			kind, err := person.ParseKind(ctx.Param("kind"))
			if err != nil {
				return errHttpNotFound
			}
			ctx.Set(kindCtxKey, kind)
			return next(ctx)
		}
	}
}

// fixedKind stores kind for routes that name it in the path.
func fixedKind(kind person.Kind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctx.Set(kindCtxKey, kind)
			return next(ctx)
		}
	}
}

func contextKind(ctx echo.Context) person.Kind {
	kind, _ := ctx.Get(kindCtxKey).(person.Kind)
	return kind
}
