package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/schooldesk/core/payment"
	"github.com/trezcool/schooldesk/core/person"
)

type (
	paymentApi struct {
		svc    *payment.Service
		people *person.Service
	}

	// SetPaymentRequest is the body of PUT /payments/:kind/:id/:year/:month.
	// A missing amount keeps the stored one.
	SetPaymentRequest struct {
		Status string           `json:"status"`
		Amount *decimal.Decimal `json:"amount"`
	}

	PendingResponse struct {
		Months []payment.PendingMonth `json:"months"`
		Total  decimal.Decimal        `json:"total"`
	}
)

func registerPaymentAPI(g *echo.Group, svc *payment.Service, people *person.Service) {
	api := paymentApi{svc: svc, people: people}

	pg := g.Group("/payments/:kind", kindMiddleware())
	pg.GET("/stats", api.stats)
	pg.GET("/:id/pending", api.pending)
	pg.GET("/:id/:year/:month", api.retrieve)
	pg.PUT("/:id/:year/:month", api.set)
	pg.POST("/:id/:year/:month/toggle", api.toggle)
}

// defaultPeriod is the month configured in the settings.
func (api *paymentApi) defaultPeriod() payment.Period {
	st := api.people.Settings()
	return payment.Period{Year: st.DefaultYear, Month: st.DefaultMonth}
}

func (api *paymentApi) defaultAmount(kind person.Kind) decimal.Decimal {
	st := api.people.Settings()
	if kind == person.KindTeacher {
		return decimal.NewFromFloat(st.DefaultTeacherSalary)
	}
	return decimal.NewFromFloat(st.DefaultStudentFee)
}

// Handlers

func (api *paymentApi) stats(ctx echo.Context) error {
	var period Period
	if err := period.Bind(ctx, api.defaultPeriod()); err != nil {
		return err
	}
	stats, err := api.svc.Stats(contextKind(ctx), period.Period)
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *paymentApi) retrieve(ctx echo.Context) error {
	key, err := paymentKey(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.GetRecord(key)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *paymentApi) set(ctx echo.Context) error {
	key, err := paymentKey(ctx)
	if err != nil {
		return err
	}
	var data SetPaymentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetPaymentRequest")
	}
	status, err := payment.ParseStatusStrict(data.Status)
	if err != nil {
		return err
	}

	var rec payment.Record
	if data.Amount == nil {
		rec, err = api.svc.SetStatus(key, status)
	} else {
		rec, err = api.svc.SetPayment(key, status, *data.Amount)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *paymentApi) toggle(ctx echo.Context) error {
	key, err := paymentKey(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.Toggle(key)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *paymentApi) pending(ctx echo.Context) error {
	kind := contextKind(ctx)
	var period Period
	if err := period.Bind(ctx, api.defaultPeriod()); err != nil {
		return err
	}
	def, err := decimalParam(ctx, "default", api.defaultAmount(kind))
	if err != nil {
		return err
	}

	months, err := api.svc.PendingMonths(kind, ctx.Param("id"), period.Period, def)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, PendingResponse{Months: months, Total: payment.Sum(months)})
}
