package book

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"bookrent/model"
	booksvc "bookrent/service/book"
	"bookrent/util/httpx"
)

type Controller struct {
	Svc booksvc.Service
	Log *slog.Logger
}

// Create a book
// @Summary      Create book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  model.CreateBookReq  true  "Book payload"
// @Success      201  {object}  model.Book
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any "isbn already exists"
// @Router       /books/ [post]
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateBookReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	b, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return httpx.Error(c, h.Log, "book create", err)
	}
	return c.JSON(http.StatusCreated, b)
}

// List active books
// @Summary      List books
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query  int  false  "offset"  default(0)
// @Param        limit  query  int  false  "page size"  default(100)
// @Success      200  {object}  ListResp
// @Router       /books/ [get]
func (h *Controller) List(c echo.Context) error {
	offset, limit, err := httpx.Paging(c)
	if err != nil {
		return err
	}
	rows, err := h.Svc.List(c.Request().Context(), offset, limit)
	if err != nil {
		return httpx.Error(c, h.Log, "book list", err)
	}
	if rows == nil {
		rows = []model.Book{}
	}
	return c.JSON(http.StatusOK, ListResp{Data: rows})
}

// Detail
// @Summary      Get book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "book id"
// @Success      200  {object}  model.Book
// @Failure      404  {object}  map[string]any
// @Router       /books/{id} [get]
func (h *Controller) Detail(c echo.Context) error {
	id, err := httpx.ID(c, "id")
	if err != nil {
		return err
	}
	b, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		return httpx.Error(c, h.Log, "book detail", err)
	}
	return c.JSON(http.StatusOK, b)
}

// Update
// @Summary      Update book
// @Description  Partial update; a soft deleted book can be reactivated with is_active
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int              true  "book id"
// @Param        payload  body  model.BookPatch  true  "fields to change"
// @Success      200  {object}  model.Book
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Failure      409  {object}  map[string]any
// @Router       /books/{id} [put]
func (h *Controller) Update(c echo.Context) error {
	id, err := httpx.ID(c, "id")
	if err != nil {
		return err
	}
	var patch model.BookPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&patch); err != nil {
		return err
	}
	b, err := h.Svc.Update(c.Request().Context(), id, patch)
	if err != nil {
		return httpx.Error(c, h.Log, "book update", err)
	}
	return c.JSON(http.StatusOK, b)
}

// Delete
// @Summary      Soft delete book
// @Tags         books
// @Security     BearerAuth
// @Param        id  path  int  true  "book id"
// @Success      204
// @Failure      404  {object}  map[string]any
// @Failure      409  {object}  map[string]any "book has active rentals"
// @Router       /books/{id} [delete]
func (h *Controller) Delete(c echo.Context) error {
	id, err := httpx.ID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return httpx.Error(c, h.Log, "book delete", err)
	}
	return c.NoContent(http.StatusNoContent)
}
