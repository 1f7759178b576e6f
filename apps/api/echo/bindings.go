package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/trezcool/schooldesk/core"
	"github.com/trezcool/schooldesk/core/payment"
)

// intParam reads an integer from the query string, or the path when fromPath is set.
// def is returned when the value is absent.
func intParam(ctx echo.Context, name string, def int, fromPath bool) (int, error) {
	raw := ctx.QueryParam(name)
	if fromPath {
		raw = ctx.Param(name)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be a whole number"})
	}
	return n, nil
}

func decimalParam(ctx echo.Context, name string, def decimal.Decimal) (decimal.Decimal, error) {
	raw := strings.TrimSpace(ctx.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, core.NewValidationError(nil, core.FieldError{Field: name, Error: "must be a number"})
	}
	return d, nil
}

// Period binds the year and month query params, defaulting to def.
type Period struct {
	payment.Period
}

func (p *Period) Bind(ctx echo.Context, def payment.Period) error {
	var err error
	if p.Year, err = intParam(ctx, "year", def.Year, false); err != nil {
		return err
	}
	if p.Month, err = intParam(ctx, "month", def.Month, false); err != nil {
		return err
	}
	return p.Validate()
}

// paymentKey binds /payments/:kind/:id/:year/:month.
func paymentKey(ctx echo.Context) (payment.Key, error) {
	key := payment.Key{Kind: contextKind(ctx), PersonID: ctx.Param("id")}
	var err error
	if key.Year, err = intParam(ctx, "year", 0, true); err != nil {
		return key, err
	}
	if key.Month, err = intParam(ctx, "month", 0, true); err != nil {
		return key, err
	}
	return key, nil
}
