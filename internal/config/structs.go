package config

import (
	"github.com/go-ldapauth/go-ldapauth/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver

	// Directory holds the raw, sparse per-domain directory settings as
	// declared in the [Directory] table. Values are either scalars
	// (broadcast to every domain) or per-domain tables. Normalization
	// into complete per-domain records happens at startup.
	Directory map[string]any
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string // domain name for the webserver
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown
	URL          string // base url for the webserver
}
