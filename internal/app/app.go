package app

import (
	"context"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/wyejay/edulibrary-client/internal/catalog"
	"github.com/wyejay/edulibrary-client/internal/config"
	"github.com/wyejay/edulibrary-client/internal/controller"
	"github.com/wyejay/edulibrary-client/internal/delivery/httpd"
	"github.com/wyejay/edulibrary-client/internal/gateway"
	"github.com/wyejay/edulibrary-client/internal/middleware"
	"github.com/wyejay/edulibrary-client/internal/notify"
	"github.com/wyejay/edulibrary-client/internal/prefs"
	"github.com/wyejay/edulibrary-client/internal/server"
	"github.com/wyejay/edulibrary-client/internal/session"
)

// App assembles the client: the backend gateway, the state core and the
// console server that exposes them to the local browser shell.
type App struct {
	server *server.Server
	ctrl   *controller.Controller
	logger zerolog.Logger
	config *config.Config
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	gw, err := gateway.New(gateway.Config{
		BaseURL:            cfg.API.BaseURL,
		Timeout:            cfg.API.Timeout,
		RetryCount:         cfg.API.RetryCount,
		RetryDelay:         cfg.API.RetryDelay,
		BreakerMaxRequests: cfg.API.BreakerMaxRequests,
		BreakerInterval:    cfg.API.BreakerInterval,
		BreakerTimeout:     cfg.API.BreakerTimeout,
		BreakerMinRequests: cfg.API.BreakerMinRequests,
		BreakerFailureRate: cfg.API.BreakerFailureRate,
	}, log)
	if err != nil {
		return nil, err
	}

	sess := session.New()
	cache := catalog.NewCache()
	feed := notify.NewFeed(0, 0)
	prefsStore := prefs.NewStore(cfg.Preferences.Path)

	ctrl := controller.New(gw, sess, cache, feed, cfg.Search.Debounce, log)

	handler := httpd.NewHandler(ctrl, prefsStore, log)

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.StripSlashes)
	router.Use(middleware.NewCORS(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
		cfg.CORS.ExposedHeaders,
		cfg.CORS.AllowCredentials,
		cfg.CORS.MaxAge,
	))
	router.Use(middleware.Timeout(cfg.Console.WriteTimeout))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))
	handler.RegisterRoutes(router)

	srv := server.New(cfg.Console, router, log)

	return &App{
		server: srv,
		ctrl:   ctrl,
		logger: log,
		config: cfg,
	}, nil
}

// Run starts the controller loop and blocks serving the console.
func (a *App) Run(ctx context.Context) error {
	a.ctrl.Start(ctx)
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.ctrl.Stop()
	return a.server.Shutdown(ctx)
}
