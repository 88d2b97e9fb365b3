// Package daemon assembles and runs the application services.
package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/go-ldapauth/go-ldapauth/internal/auth"
	"github.com/go-ldapauth/go-ldapauth/internal/config"
	"github.com/go-ldapauth/go-ldapauth/internal/db/dsn"
	"github.com/go-ldapauth/go-ldapauth/internal/db/models"
	"github.com/go-ldapauth/go-ldapauth/internal/directory"
	"github.com/go-ldapauth/go-ldapauth/internal/groups"
	"github.com/go-ldapauth/go-ldapauth/internal/i18n"
	"github.com/go-ldapauth/go-ldapauth/internal/identity"
	"github.com/go-ldapauth/go-ldapauth/internal/logger"
	"github.com/go-ldapauth/go-ldapauth/internal/web"
	"github.com/go-ldapauth/go-ldapauth/internal/web/handler"
)

// defaultProfiles are the built-in permission profiles. Directory
// mapped groups are seeded from the "user" baseline at startup.
var defaultProfiles = map[string]map[string]bool{ //nolint:gochecknoglobals
	"user": {},
	"admin": {
		groups.CapabilityUserRights: true,
	},
}

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and arms the graceful
// shutdown handler.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		panic("failed to initialize logger")
	}

	dbDriver := gormmysql.Open(dsn.Create(cfg)) // open db with gorm mysql driver

	db, err := gorm.Open(dbDriver, &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.UserGroup{},
		&models.UserDomain{},
	); err != nil {
		panic("failed to migrate database")
	}

	seed(cfg, db)

	catalog := i18n.NewCatalog()
	registry := groups.NewRegistry(defaultProfiles)

	configs, err := directory.NewResolver(registry).Normalize(config.NewStore(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("directory configuration rejected")
		return nil
	}

	store := identity.NewStore(db)
	connector := directory.NewConnector(catalog, nil)
	searcher := directory.NewSearcher(catalog)
	cache := directory.NewSearchCache()

	deps := &handler.Deps{
		DB:            db,
		Orchestrator:  directory.NewOrchestrator(configs, connector, searcher, store, catalog),
		GroupSync:     groups.NewReconciler(configs, connector, searcher, cache, store, catalog),
		LocalProvider: auth.NewLocalProvider(db),
		Localize:      catalog,
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, deps),
	}
}
