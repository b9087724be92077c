package application

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/sproutcrm/sprout-sdk/pkg/eventbus"
)

// Controller is a routable unit registered by a module.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Module wires its services and controllers into the application.
type Module interface {
	Name() string
	Register(app Application) error
}

type Application interface {
	Pool() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Logger() *logrus.Logger

	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}

	RegisterControllers(controllers ...Controller)
	Controllers() []Controller

	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	Middleware() []mux.MiddlewareFunc

	RegisterSchema(files *embed.FS)
	SchemaDDL() ([]string, error)
	RunMigrations(ctx context.Context) error
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
}

func New(opts *ApplicationOptions) Application {
	return &application{
		pool:           opts.Pool,
		eventPublisher: opts.EventBus,
		logger:         opts.Logger,
		services:       map[reflect.Type]interface{}{},
		controllers:    map[string]Controller{},
	}
}

// Load registers each module in order, failing fast on the first error.
func Load(app Application, modules ...Module) error {
	for _, module := range modules {
		if err := module.Register(app); err != nil {
			return fmt.Errorf("failed to register module %q: %w", module.Name(), err)
		}
	}
	return nil
}

type application struct {
	pool           *pgxpool.Pool
	eventPublisher eventbus.EventBus
	logger         *logrus.Logger
	services       map[reflect.Type]interface{}
	controllers    map[string]Controller
	controllerKeys []string
	middleware     []mux.MiddlewareFunc
	schemaFiles    []*embed.FS
}

func (app *application) Pool() *pgxpool.Pool {
	return app.pool
}

func (app *application) EventPublisher() eventbus.EventBus {
	return app.eventPublisher
}

func (app *application) Logger() *logrus.Logger {
	return app.logger
}

// RegisterServices registers a new service in the application by its type.
func (app *application) RegisterServices(services ...interface{}) {
	for _, service := range services {
		serviceType := reflect.TypeOf(service).Elem()
		app.services[serviceType] = service
	}
}

// Service retrieves a service by its type.
func (app *application) Service(service interface{}) interface{} {
	serviceType := reflect.TypeOf(service)
	svc, exists := app.services[serviceType]
	if !exists {
		panic(fmt.Sprintf("service %s not found", serviceType.Name()))
	}
	return svc
}

func (app *application) RegisterControllers(controllers ...Controller) {
	for _, controller := range controllers {
		key := controller.Key()
		if _, exists := app.controllers[key]; !exists {
			app.controllerKeys = append(app.controllerKeys, key)
		}
		app.controllers[key] = controller
	}
}

func (app *application) Controllers() []Controller {
	out := make([]Controller, 0, len(app.controllerKeys))
	for _, key := range app.controllerKeys {
		out = append(out, app.controllers[key])
	}
	return out
}

func (app *application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	app.middleware = append(app.middleware, middleware...)
}

func (app *application) Middleware() []mux.MiddlewareFunc {
	return app.middleware
}

func (app *application) RegisterSchema(files *embed.FS) {
	app.schemaFiles = append(app.schemaFiles, files)
}

// SchemaDDL collects every embedded .sql file in registration order.
func (app *application) SchemaDDL() ([]string, error) {
	var out []string
	for _, schemaFS := range app.schemaFiles {
		err := fs.WalkDir(schemaFS, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			data, err := schemaFS.ReadFile(path)
			if err != nil {
				return fmt.Errorf("error reading schema file %q: %w", path, err)
			}
			out = append(out, string(data))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RunMigrations applies every registered schema file. The DDL is written to
// be idempotent (CREATE TABLE IF NOT EXISTS), so this is safe at each boot.
func (app *application) RunMigrations(ctx context.Context) error {
	ddl, err := app.SchemaDDL()
	if err != nil {
		return err
	}
	for _, stmt := range ddl {
		if _, err := app.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
