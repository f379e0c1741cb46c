package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/coursework"
)

type courseworkApi struct {
	svc *coursework.Service
}

func registerCourseworkAPI(g *echo.Group, authed echo.MiddlewareFunc, deps ServerDeps) {
	api := courseworkApi{svc: deps.Coursework}

	g.GET("/courses", api.queryCourses, authed)
	g.GET("/assignments", api.queryAssignments, authed)
}

func (api *courseworkApi) queryCourses(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	courses, err := api.svc.Courses(ctx.Request().Context(), sess.Account)
	if err != nil {
		return core.NewUpstreamError("fetch courses", err)
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseworkApi) queryAssignments(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	assignments, err := api.svc.Assignments(ctx.Request().Context(), sess.Account, sess.User.ID)
	if err != nil {
		return core.NewUpstreamError("fetch assignments", err)
	}
	return ctx.JSON(http.StatusOK, assignments)
}
