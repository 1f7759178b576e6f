package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/schooldesk/core"
	"github.com/trezcool/schooldesk/core/activity"
)

const defaultActivityLimit = 50

type activityApi struct {
	svc       *activity.Service
	refresher Refresher
}

func registerActivityAPI(g *echo.Group, svc *activity.Service, refresher Refresher) {
	api := activityApi{svc: svc, refresher: refresher}

	g.GET("/activity", api.query)
	g.POST("/refresh", api.refresh)
}

// Handlers

func (api *activityApi) query(ctx echo.Context) error {
	limit, err := intParam(ctx, "limit", defaultActivityLimit, false)
	if err != nil {
		return err
	}
	if limit < 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "limit", Error: "must be 0 or greater"})
	}
	events, err := api.svc.Recent(limit)
	if err != nil {
		return err
	}
	if events == nil {
		events = []activity.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *activityApi) refresh(ctx echo.Context) error {
	if api.refresher != nil {
		api.refresher.InvalidateCache()
	}
	return ctx.NoContent(http.StatusNoContent)
}
