package handler

import (
	"gorm.io/gorm"

	"github.com/go-ldapauth/go-ldapauth/internal/auth"
	"github.com/go-ldapauth/go-ldapauth/internal/directory"
)

// Authenticator is the directory authentication entry point used by
// the login handler. Session attributes travel with each request's
// Response; the handler hands them back for the post-authentication
// steps.
type Authenticator interface {
	Login(req *directory.AuthenticationRequest) directory.Response
	PostAuthentication(attrs directory.SessionAttributes, sync directory.GroupSyncer) bool
	AutoCreatedAccount(attrs directory.SessionAttributes) error
}

// Deps bundles the services shared by web handlers.
type Deps struct {
	DB            *gorm.DB
	Orchestrator  Authenticator
	GroupSync     directory.GroupSyncer
	LocalProvider *auth.LocalProvider
	Localize      directory.Localizer
}
