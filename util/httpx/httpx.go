// Package httpx maps service error codes onto HTTP responses and parses the
// paging query shared by list endpoints.
package httpx

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	authsvc "bookrent/service/auth"
	booksvc "bookrent/service/book"
	"bookrent/service/rental"
	usersvc "bookrent/service/user"
	"bookrent/util/errcode"
)

const (
	DefaultLimit = 100
	MaxLimit     = 100
)

type entry struct {
	status int
	msg    string
}

type mapping struct {
	code errcode.Code
	entry
}

var codes = index([]mapping{
	{booksvc.ErrNotFound, entry{http.StatusNotFound, "Book not found"}},
	{rental.ErrBookNotFound, entry{http.StatusNotFound, "Book not found"}},
	{usersvc.ErrNotFound, entry{http.StatusNotFound, "User not found"}},
	{rental.ErrUserNotFound, entry{http.StatusNotFound, "User not found"}},
	{authsvc.ErrUserNotFound, entry{http.StatusNotFound, "User not found"}},
	{rental.ErrNotFound, entry{http.StatusNotFound, "Rental not found"}},

	{usersvc.ErrEmailTaken, entry{http.StatusConflict, "Email already registered"}},
	{usersvc.ErrHasRentals, entry{http.StatusConflict, "Cannot delete user with rentals"}},
	{booksvc.ErrISBNTaken, entry{http.StatusConflict, "Book with this ISBN already exists"}},
	{booksvc.ErrActiveRentals, entry{http.StatusConflict, "Cannot delete book with active rentals"}},
	{rental.ErrAlreadyRented, entry{http.StatusConflict, "User already has this book rented"}},
	{rental.ErrAlreadyReturned, entry{http.StatusConflict, "Book is already returned"}},
	{rental.ErrUnavailable, entry{http.StatusConflict, "Book is not available for rental"}},

	{booksvc.ErrInvalidCopies, entry{http.StatusBadRequest, "available_copies must be between 0 and total_copies"}},
	{authsvc.ErrMissingField, entry{http.StatusBadRequest, "missing required field"}},
	{booksvc.ErrBadInput, entry{http.StatusBadRequest, "bad input"}},
	{usersvc.ErrBadInput, entry{http.StatusBadRequest, "bad input"}},
	{rental.ErrBadInput, entry{http.StatusBadRequest, "bad input"}},

	{authsvc.ErrInvalidCreds, entry{http.StatusUnauthorized, "Incorrect email or password"}},
	{authsvc.ErrInvalidToken, entry{http.StatusUnauthorized, "invalid token"}},
})

// index builds the lookup table. Services may share a code string; a shared
// code must map to one status.
func index(ms []mapping) map[errcode.Code]entry {
	out := make(map[errcode.Code]entry, len(ms))
	for _, m := range ms {
		if prev, ok := out[m.code]; ok && prev != m.entry {
			panic(fmt.Sprintf("httpx: code %s mapped twice", m.code))
		}
		out[m.code] = m.entry
	}
	return out
}

// Status returns the HTTP status and client message for err. Uncoded errors
// are 500 with a generic message.
func Status(err error) (int, string) {
	code := errcode.Of(err)
	e, ok := codes[code]
	if !ok {
		return http.StatusInternalServerError, "internal error"
	}
	if e.status == http.StatusBadRequest && err.Error() != string(code) {
		// field specific message from errcode.Newf
		return e.status, err.Error()
	}
	return e.status, e.msg
}

// Error writes err as a JSON body. Server errors are logged with the request
// id; their details never reach the client.
func Error(c echo.Context, log *slog.Logger, op string, err error) error {
	status, msg := Status(err)
	if status >= http.StatusInternalServerError && log != nil {
		log.ErrorContext(c.Request().Context(), op+" failed",
			"err", err,
			"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"path", c.Path(),
			"method", c.Request().Method,
		)
	}
	return c.JSON(status, echo.Map{"message": msg})
}

// Paging reads skip and limit from the query string.
func Paging(c echo.Context) (offset, limit int, err error) {
	limit = DefaultLimit
	if err := echo.QueryParamsBinder(c).
		Int("skip", &offset).
		Int("limit", &limit).
		BindError(); err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "skip and limit must be integers")
	}
	if offset < 0 || limit < 1 || limit > MaxLimit {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "skip must be >= 0 and limit between 1 and "+strconv.Itoa(MaxLimit))
	}
	return offset, limit, nil
}

// ID parses a positive int64 path parameter.
func ID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
