package auth

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"bookrent/app/echoServer/jwtx"
	"bookrent/model"
	authsvc "bookrent/service/auth"
	"bookrent/util/httpx"
	"bookrent/util/ratelimit"
)

type Controller struct {
	Svc     authsvc.Service
	Limiter ratelimit.Limiter
	Log     *slog.Logger
}

// Login
// @Summary      Login
// @Description  Login with email + password, returns access and refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  authsvc.LoginResult
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      429  {object}  map[string]any
// @Router       /login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		if ct.Log != nil {
			ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if ct.Limiter != nil {
		ok, err := ct.Limiter.Allow(c.Request().Context(), c.RealIP())
		if err != nil && ct.Log != nil {
			// limiter store down: let the attempt through
			ct.Log.Warn("login limiter failed", "err", err)
		}
		if err == nil && !ok {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"message": "too many login attempts"})
		}
	}

	res, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		return httpx.Error(c, ct.Log, "login", err)
	}
	return c.JSON(http.StatusOK, res)
}

// Refresh
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RefreshReq  true  "Refresh payload"
// @Success      200  {object}  authsvc.RefreshResult
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /refresh [post]
func (ct *Controller) Refresh(c echo.Context) error {
	var req model.RefreshReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	res, err := ct.Svc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return httpx.Error(c, ct.Log, "refresh", err)
	}
	return c.JSON(http.StatusOK, res)
}

// Me
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.User
// @Failure      401  {object}  map[string]any
// @Router       /me [get]
func (ct *Controller) Me(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	u, err := ct.Svc.Me(c.Request().Context(), uid)
	if err != nil {
		return httpx.Error(c, ct.Log, "me", err)
	}
	return c.JSON(http.StatusOK, u)
}
