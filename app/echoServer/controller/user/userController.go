package user

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"bookrent/model"
	usersvc "bookrent/service/user"
	"bookrent/util/httpx"
)

type Controller struct {
	Svc usersvc.Service
	Log *slog.Logger
}

// Register a new user
// @Summary      Create user
// @Description  Public registration; email must be unique (case insensitive)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.CreateUserReq  true  "User payload"
// @Success      201  {object}  model.User
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any "email already registered"
// @Router       /users/ [post]
func (ct *Controller) Create(c echo.Context) error {
	var req model.CreateUserReq
	if err := c.Bind(&req); err != nil {
		if ct.Log != nil {
			ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	u, err := ct.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return httpx.Error(c, ct.Log, "user create", err)
	}
	return c.JSON(http.StatusCreated, u)
}

// List
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query  int  false  "offset"  default(0)
// @Param        limit  query  int  false  "page size"  default(100)
// @Success      200  {object}  map[string]any
// @Router       /users/ [get]
func (ct *Controller) List(c echo.Context) error {
	offset, limit, err := httpx.Paging(c)
	if err != nil {
		return err
	}
	rows, err := ct.Svc.List(c.Request().Context(), offset, limit)
	if err != nil {
		return httpx.Error(c, ct.Log, "user list", err)
	}
	if rows == nil {
		rows = []model.User{}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// Get
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "user id"
// @Success      200  {object}  model.User
// @Failure      404  {object}  map[string]any
// @Router       /users/{id} [get]
func (ct *Controller) Get(c echo.Context) error {
	id, err := httpx.ID(c, "id")
	if err != nil {
		return err
	}
	u, err := ct.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return httpx.Error(c, ct.Log, "user get", err)
	}
	return c.JSON(http.StatusOK, u)
}

// Update
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int              true  "user id"
// @Param        payload  body  model.UserPatch  true  "fields to change"
// @Success      200  {object}  model.User
// @Failure      400  {object}  map[string]any "empty patch"
// @Failure      404  {object}  map[string]any
// @Failure      409  {object}  map[string]any
// @Router       /users/{id} [put]
func (ct *Controller) Update(c echo.Context) error {
	id, err := httpx.ID(c, "id")
	if err != nil {
		return err
	}
	var patch model.UserPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if patch.Empty() {
		return echo.NewHTTPError(http.StatusBadRequest, "no fields to update")
	}
	if err := c.Validate(&patch); err != nil {
		return err
	}
	u, err := ct.Svc.Update(c.Request().Context(), id, patch)
	if err != nil {
		return httpx.Error(c, ct.Log, "user update", err)
	}
	return c.JSON(http.StatusOK, u)
}

// Delete
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  int  true  "user id"
// @Success      204
// @Failure      404  {object}  map[string]any
// @Failure      409  {object}  map[string]any "user has rentals"
// @Router       /users/{id} [delete]
func (ct *Controller) Delete(c echo.Context) error {
	id, err := httpx.ID(c, "id")
	if err != nil {
		return err
	}
	if err := ct.Svc.Delete(c.Request().Context(), id); err != nil {
		return httpx.Error(c, ct.Log, "user delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}
