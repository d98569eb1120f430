// Package server initializes and runs the application server.
// It connects the object store, the upload coordinator, the listing service
// and the notification hub, handles graceful shutdown, and starts the HTTP
// server for the upload API.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/knowhyco/knowyfile/internal/logging"
	"github.com/knowhyco/knowyfile/internal/server/config"
	"github.com/knowhyco/knowyfile/internal/server/httpapi"
	"github.com/knowhyco/knowyfile/internal/server/listing"
	"github.com/knowhyco/knowyfile/internal/server/notify"
	"github.com/knowhyco/knowyfile/internal/server/objstore"
	"github.com/knowhyco/knowyfile/internal/server/uploads"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	coordinator   *uploads.Service
	lister        *listing.Service
	store         *objstore.Client
	notifications *notify.Hub
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout)

	store, err := objstore.New(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	hub := notify.NewHub(c.NotificationTTL, logger)
	coordinator := uploads.NewService(store, hub, c, logger)
	lister := listing.NewService(store, c, logger)

	return &App{
		config:        c,
		logger:        logger,
		coordinator:   coordinator,
		lister:        lister,
		store:         store,
		notifications: hub,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger,
		app.coordinator, app.lister, app.store, app.notifications, app.config)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

}
