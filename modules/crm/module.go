package crm

import (
	"embed"

	"github.com/sproutcrm/sprout-sdk/modules/crm/infrastructure/persistence"
	"github.com/sproutcrm/sprout-sdk/modules/crm/presentation/controllers"
	"github.com/sproutcrm/sprout-sdk/modules/crm/services"
	"github.com/sproutcrm/sprout-sdk/pkg/application"
	"github.com/sproutcrm/sprout-sdk/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/crm-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	contactRepo := persistence.NewContactRepository()
	groupRepo := persistence.NewGroupRepository()
	membershipRepo := persistence.NewMembershipRepository()

	app.RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewContactService(contactRepo, app.EventPublisher()),
		services.NewGroupService(groupRepo, app.EventPublisher()),
		services.NewMembershipService(membershipRepo, groupRepo, contactRepo, app.EventPublisher()),
		services.NewImportService(contactRepo, app.EventPublisher(), conf.Import),
		services.NewExportService(contactRepo),
	)
	app.RegisterControllers(
		controllers.NewContactsController(app),
		controllers.NewGroupsController(app),
		controllers.NewImportController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "crm"
}
