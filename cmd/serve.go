package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"bookrent/app/echoServer"
	authctrl "bookrent/app/echoServer/controller/auth"
	bookctrl "bookrent/app/echoServer/controller/book"
	rentalctrl "bookrent/app/echoServer/controller/rental"
	userctrl "bookrent/app/echoServer/controller/user"
	"bookrent/app/echoServer/validation"
	"bookrent/config"
	bookrepo "bookrent/repository/book"
	rentalrepo "bookrent/repository/rental"
	userrepo "bookrent/repository/user"
	authsvc "bookrent/service/auth"
	booksvc "bookrent/service/book"
	rentalsvc "bookrent/service/rental"
	usersvc "bookrent/service/user"
	"bookrent/util/database"
	jwtutil "bookrent/util/jwt"
	"bookrent/util/ratelimit"
	"bookrent/util/tracing"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply the schema before serving")
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// logger
	log := newLogger(cfg.LogLevel)

	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, "bookrent", cfg.Env)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown", "err", err)
		}
	}()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return err
	}
	defer db.Close()

	if serveMigrate {
		if err := database.Migrate(ctx, db.Pool, log); err != nil {
			return err
		}
	}

	var limiter ratelimit.Limiter = ratelimit.NewMemory(cfg.LoginRateLimit, cfg.LoginRateWindow)
	if cfg.RedisURL != "" {
		rl, err := ratelimit.NewRedis(cfg.RedisURL, cfg.LoginRateLimit, cfg.LoginRateWindow)
		if err != nil {
			return err
		}
		defer rl.Close()
		limiter = rl
	}

	// repos
	ur := userrepo.New(db)
	br := bookrepo.New(db)
	rr := rentalrepo.New(db)

	// services
	tokens := jwtutil.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	us := usersvc.New(ur)
	bs := booksvc.New(db, br)
	rs := rentalsvc.New(db, rr, br, rentalsvc.WithLogger(log))
	as := authsvc.New(ur, tokens)

	// echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	echoServer.RegisterMiddlewares(e, log, cfg.CORSOrigins)
	echoServer.Register(e, echoServer.C{
		Auth:   &authctrl.Controller{Svc: as, Limiter: limiter, Log: log},
		User:   &userctrl.Controller{Svc: us, Log: log},
		Book:   &bookctrl.Controller{Svc: bs, Log: log},
		Rental: &rentalctrl.Controller{Svc: rs, Log: log},
		Tokens: tokens,
		Health: db.Health,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(e, "bookrent"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}
