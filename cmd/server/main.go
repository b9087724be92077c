package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sproutcrm/sprout-sdk/modules/crm"
	"github.com/sproutcrm/sprout-sdk/pkg/application"
	"github.com/sproutcrm/sprout-sdk/pkg/configuration"
	"github.com/sproutcrm/sprout-sdk/pkg/eventbus"
	"github.com/sproutcrm/sprout-sdk/pkg/httpapi"
	"github.com/sproutcrm/sprout-sdk/pkg/metrics"
	"github.com/sproutcrm/sprout-sdk/pkg/middleware"
	"github.com/sproutcrm/sprout-sdk/pkg/serrors"
	"github.com/sproutcrm/sprout-sdk/pkg/server"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := application.Load(app, crm.NewModule()); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}
	if err := app.RunMigrations(ctx); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	app.RegisterMiddleware(
		middleware.ProvideDB(pool),
		middleware.ProvideParams(logger),
		middleware.ProvideTenant(),
		middleware.LogRequests(),
	)
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	serverInstance := server.NewHTTPServer(
		app,
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = httpapi.WriteError(w, http.StatusNotFound, serrors.CodeInvalidReference, "not found")
		}),
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, serrors.CodeValidation, "method not allowed")
		}),
	)
	log.Printf("Listening on: %s\n", conf.SocketAddress)
	if err := serverInstance.Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
