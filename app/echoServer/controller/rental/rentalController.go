package rental

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"bookrent/app/echoServer/jwtx"
	rs "bookrent/service/rental"
	"bookrent/util/httpx"
)

type Controller struct {
	Svc rs.Service
	Log *slog.Logger
}

// Checkout
// @Summary      Rent a book
// @Description  Lends one copy; availability drops by one in the same transaction
// @Tags         rentals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  CheckoutReq  true  "Checkout payload"
// @Success      201  {object}  model.Rental
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any "book or user not found"
// @Failure      409  {object}  map[string]any "unavailable or already rented"
// @Router       /rentals/ [post]
func (h *Controller) Checkout(c echo.Context) error {
	var req CheckoutReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.UserID == 0 {
		uid, err := jwtx.UserIDFromContext(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		req.UserID = uid
	}

	out, err := h.Svc.Checkout(c.Request().Context(), rs.CheckoutInput{
		UserID:    req.UserID,
		BookID:    req.BookID,
		DueDate:   req.DueDate,
		DailyRate: *req.DailyRate,
	})
	if err != nil {
		return httpx.Error(c, h.Log, "rental checkout", err)
	}
	return c.JSON(http.StatusCreated, out)
}

// Return
// @Summary      Return a rental
// @Tags         rentals
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "rental id"
// @Success      200  {object}  model.Rental
// @Failure      404  {object}  map[string]any
// @Failure      409  {object}  map[string]any "already returned"
// @Router       /rentals/{id}/return [post]
func (h *Controller) Return(c echo.Context) error {
	id, err := httpx.ID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.Svc.Return(c.Request().Context(), id)
	if err != nil {
		return httpx.Error(c, h.Log, "rental return", err)
	}
	return c.JSON(http.StatusOK, out)
}

// Get
// @Summary      Get rental
// @Tags         rentals
// @Produce      json
// @Security     BearerAuth
// @Param        id       path   int     true   "rental id"
// @Param        include  query  string  false  "book to embed the book record"
// @Success      200  {object}  model.RentalWithBook
// @Failure      404  {object}  map[string]any
// @Router       /rentals/{id} [get]
func (h *Controller) Get(c echo.Context) error {
	id, err := httpx.ID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if c.QueryParam("include") == "book" {
		out, err := h.Svc.GetWithBook(ctx, id)
		if err != nil {
			return httpx.Error(c, h.Log, "rental get", err)
		}
		return c.JSON(http.StatusOK, out)
	}
	out, err := h.Svc.Get(ctx, id)
	if err != nil {
		return httpx.Error(c, h.Log, "rental get", err)
	}
	return c.JSON(http.StatusOK, out)
}

// List
// @Summary      List rentals
// @Tags         rentals
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query  int  false  "offset"  default(0)
// @Param        limit  query  int  false  "page size"  default(100)
// @Success      200  {object}  ListResp
// @Router       /rentals/ [get]
func (h *Controller) List(c echo.Context) error {
	offset, limit, err := httpx.Paging(c)
	if err != nil {
		return err
	}
	rows, err := h.Svc.List(c.Request().Context(), offset, limit)
	if err != nil {
		return httpx.Error(c, h.Log, "rental list", err)
	}
	return c.JSON(http.StatusOK, listOf(rows))
}

// Overdue
// @Summary      List overdue rentals
// @Description  Open rentals past their due date, labelled overdue; nothing is written
// @Tags         rentals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ListResp
// @Router       /rentals/overdue [get]
func (h *Controller) Overdue(c echo.Context) error {
	rows, err := h.Svc.ListOverdue(c.Request().Context())
	if err != nil {
		return httpx.Error(c, h.Log, "rental overdue", err)
	}
	return c.JSON(http.StatusOK, listOf(rows))
}

// ForUser lists the rentals of the user in the :id path parameter.
// @Summary      List a user's rentals
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id     path   int  true   "user id"
// @Param        skip   query  int  false  "offset"  default(0)
// @Param        limit  query  int  false  "page size"  default(100)
// @Success      200  {object}  ListResp
// @Router       /users/{id}/rentals [get]
func (h *Controller) ForUser(c echo.Context) error {
	id, err := httpx.ID(c, "id")
	if err != nil {
		return err
	}
	return h.listForUser(c, id)
}

// Mine lists the caller's rentals.
// @Summary      My rentals
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ListResp
// @Router       /me/rentals [get]
func (h *Controller) Mine(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return h.listForUser(c, uid)
}

func (h *Controller) listForUser(c echo.Context, userID int64) error {
	offset, limit, err := httpx.Paging(c)
	if err != nil {
		return err
	}
	rows, err := h.Svc.ListForUser(c.Request().Context(), userID, offset, limit)
	if err != nil {
		return httpx.Error(c, h.Log, "rental list for user", err)
	}
	return c.JSON(http.StatusOK, listOf(rows))
}
