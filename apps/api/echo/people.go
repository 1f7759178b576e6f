package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/schooldesk/core/person"
)

type peopleApi struct {
	svc *person.Service
}

func registerPeopleAPI(g *echo.Group, svc *person.Service) {
	api := peopleApi{svc: svc}

	for path, kind := range map[string]person.Kind{
		"/students": person.KindStudent,
		"/teachers": person.KindTeacher,
	} {
		pg := g.Group(path, fixedKind(kind))
		pg.GET("", api.query)
		if kind == person.KindStudent {
			pg.GET("/classes", api.classes)
		}
		pg.POST("", api.create)
		pg.GET("/:id", api.retrieve)
		pg.PUT("/:id", api.update)
		pg.DELETE("/:id", api.destroy)
	}
}

// Handlers

func (api *peopleApi) query(ctx echo.Context) error {
	filter := person.Filter{
		Query:   ctx.QueryParam("q"),
		Class:   ctx.QueryParam("class"),
		Section: ctx.QueryParam("section"),
	}
	var (
		people interface{}
		err    error
	)
	switch contextKind(ctx) {
	case person.KindStudent:
		people, err = api.svc.SearchStudents(filter)
	default:
		people, err = api.svc.SearchTeachers(filter)
	}
	if err != nil {
		return errors.Wrap(err, "listing people")
	}
	return ctx.JSON(http.StatusOK, people)
}

func (api *peopleApi) classes(ctx echo.Context) error {
	counts, err := api.svc.ClassCounts()
	if err != nil {
		return errors.Wrap(err, "counting classes")
	}
	return ctx.JSON(http.StatusOK, counts)
}

func (api *peopleApi) retrieve(ctx echo.Context) error {
	var (
		p   interface{}
		err error
	)
	switch id := ctx.Param("id"); contextKind(ctx) {
	case person.KindStudent:
		p, err = api.svc.GetStudent(id)
	default:
		p, err = api.svc.GetTeacher(id)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *peopleApi) create(ctx echo.Context) error {
	var (
		p   interface{}
		err error
	)
	switch contextKind(ctx) {
	case person.KindStudent:
		var data person.NewStudent
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to NewStudent")
		}
		p, err = api.svc.CreateStudent(data)
	default:
		var data person.NewTeacher
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to NewTeacher")
		}
		p, err = api.svc.CreateTeacher(data)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *peopleApi) update(ctx echo.Context) error {
	var (
		p   interface{}
		err error
	)
	switch id := ctx.Param("id"); contextKind(ctx) {
	case person.KindStudent:
		var data person.UpdateStudent
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to UpdateStudent")
		}
		p, err = api.svc.UpdateStudent(id, data)
	default:
		var data person.UpdateTeacher
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to UpdateTeacher")
		}
		p, err = api.svc.UpdateTeacher(id, data)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *peopleApi) destroy(ctx echo.Context) error {
	deleted, err := api.svc.Delete(contextKind(ctx), ctx.Param("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return errHttpNotFound
	}
	return ctx.NoContent(http.StatusNoContent)
}
