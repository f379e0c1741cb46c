package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
	"github.com/trezcool/studyplanner/core/lms"
	"github.com/trezcool/studyplanner/core/session"
)

const contextSessionKey = "session"

type (
	authApi struct {
		sessions  *session.Service
		connector lms.Connector
		validate  *validator.Validate
	}

	userResponse struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		Avatar    string `json:"avatar"`
		CanvasURL string `json:"canvasUrl,omitempty"`
	}

	loginResponse struct {
		Success   bool         `json:"success"`
		SessionID string       `json:"sessionId"`
		User      userResponse `json:"user"`
	}
)

func registerAuthAPI(g *echo.Group, authed echo.MiddlewareFunc, deps ServerDeps) {
	api := authApi{
		sessions:  deps.Sessions,
		connector: deps.Connector,
		validate:  deps.Validate,
	}

	g.POST("/auth/login", api.login)
	g.POST("/auth/logout", api.logout)
	g.GET("/user", api.retrieveUser, authed)
}

// sessionMiddleware resolves the X-Session-Id header into the request's session.
func sessionMiddleware(svc *session.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := svc.Resolve(ctx.Request().Header.Get(sessionHeader))
			if err != nil {
				if err == session.ErrNotFound {
					return errUnauthorized
				}
				return errors.Wrap(err, "resolving session")
			}
			ctx.Set(contextSessionKey, sess)
			return next(ctx)
		}
	}
}

func getContextSession(ctx echo.Context) (session.Session, error) {
	if sess, ok := ctx.Get(contextSessionKey).(session.Session); ok {
		return sess, nil
	}
	return session.Session{}, errUnauthorized
}

func newUserResponse(usr lms.User) userResponse {
	return userResponse{ID: usr.ID, Name: usr.Name, Email: usr.Email, Avatar: usr.AvatarURL}
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	account := api.connector.Connect(data.CanvasURL, data.APIKey)
	usr, err := account.CurrentUser(ctx.Request().Context())
	if err != nil {
		if errors.Cause(err) == lms.ErrInvalidToken {
			return errInvalidAPIKey
		}
		return core.NewUpstreamError("connect to Canvas", err)
	}

	sess, err := api.sessions.Create(account, usr, data.CanvasURL)
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	sessionsCreated.Add(1)

	return ctx.JSON(http.StatusOK, loginResponse{
		Success:   true,
		SessionID: sess.ID,
		User:      newUserResponse(usr),
	})
}

func (api *authApi) logout(ctx echo.Context) error {
	if err := api.sessions.Destroy(ctx.Request().Header.Get(sessionHeader)); err != nil {
		return errors.Wrap(err, "destroying session")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true})
}

func (api *authApi) retrieveUser(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	resp := newUserResponse(sess.User)
	resp.CanvasURL = sess.CanvasURL
	return ctx.JSON(http.StatusOK, resp)
}
