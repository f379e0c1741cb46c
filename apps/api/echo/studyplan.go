package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/studyplan"
)

type studyPlanApi struct {
	plans    *studyplan.Service
	chat     core.Conversation
	validate *validator.Validate
}

func registerStudyPlanAPI(g *echo.Group, authed echo.MiddlewareFunc, deps ServerDeps) {
	api := studyPlanApi{
		plans:    deps.Plans,
		chat:     deps.Chat,
		validate: deps.Validate,
	}

	g.POST("/study-plan/generate", api.generate, authed)
	g.POST("/chat", api.sendChat)
}

func (api *studyPlanApi) generate(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}

	var data StudyPlanRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudyPlanRequest")
	}
	window, err := data.Window(api.validate)
	if err != nil {
		return err
	}

	plan, err := api.plans.Generate(ctx.Request().Context(), sess.Account, window)
	if err != nil {
		var perr *studyplan.PlanParseError
		if errors.As(err, &perr) {
			planParseFailures.Add(1)
		}
		return core.NewUpstreamError("generate study plan", err)
	}
	plansGenerated.Add(1)
	return ctx.JSON(http.StatusOK, plan)
}

func (api *studyPlanApi) sendChat(ctx echo.Context) error {
	var data ChatRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	reply, err := api.chat.Send(ctx.Request().Context(), data.Message)
	if err != nil {
		return core.NewUpstreamError("", err)
	}
	chatMessages.Add(1)
	return ctx.JSON(http.StatusOK, echo.Map{"reply": reply})
}
