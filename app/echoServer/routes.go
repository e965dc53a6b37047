package echoServer

import (
	"context"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"bookrent/app/echoServer/controller/auth"
	"bookrent/app/echoServer/controller/book"
	"bookrent/app/echoServer/controller/rental"
	"bookrent/app/echoServer/controller/user"
	"bookrent/app/echoServer/jwtx"
	jwtutil "bookrent/util/jwt"
)

type TokenVerifier interface {
	Verify(token string, allowExpired, isRefresh bool) (*jwtutil.Claims, error)
}

type C struct {
	Auth   *auth.Controller
	User   *user.Controller
	Book   *book.Controller
	Rental *rental.Controller
	Tokens TokenVerifier
	// Health reports store reachability for /health.
	Health func(ctx context.Context) error
}

func Register(e *echo.Echo, c C) {
	// Public
	e.GET("/", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, echo.Map{"message": "Book Rental Management API is running!"})
	})
	e.GET("/health", func(ctx echo.Context) error {
		if c.Health != nil {
			if err := c.Health(ctx.Request().Context()); err != nil {
				return ctx.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable", "message": "database unreachable"})
			}
		}
		return ctx.JSON(http.StatusOK, echo.Map{"status": "ok", "message": "Service is healthy and connected"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.POST("/users/", c.User.Create)
	e.POST("/login", c.Auth.Login)
	e.POST("/refresh", c.Auth.Refresh)

	// Auth
	authed := e.Group("")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		ContextKey: jwtx.ContextKey,
		ParseTokenFunc: func(_ echo.Context, token string) (interface{}, error) {
			claims, err := c.Tokens.Verify(token, false, false)
			if err != nil {
				return nil, err
			}
			return claims, nil
		},
		ErrorHandler: func(ctx echo.Context, err error) error {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		},
	}))

	authed.GET("/me", c.Auth.Me)
	authed.GET("/me/rentals", c.Rental.Mine)

	authed.GET("/users/", c.User.List)
	authed.GET("/users/:id", c.User.Get)
	authed.PUT("/users/:id", c.User.Update)
	authed.DELETE("/users/:id", c.User.Delete)
	authed.GET("/users/:id/rentals", c.Rental.ForUser)

	authed.POST("/books/", c.Book.Create)
	authed.GET("/books/", c.Book.List)
	authed.GET("/books/:id", c.Book.Detail)
	authed.PUT("/books/:id", c.Book.Update)
	authed.DELETE("/books/:id", c.Book.Delete)

	authed.POST("/rentals/", c.Rental.Checkout)
	authed.GET("/rentals/", c.Rental.List)
	authed.GET("/rentals/overdue", c.Rental.Overdue)
	authed.GET("/rentals/:id", c.Rental.Get)
	authed.POST("/rentals/:id/return", c.Rental.Return)
}
