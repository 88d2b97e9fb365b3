// Package login serves the authentication API endpoint.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/go-ldapauth/go-ldapauth/internal/auth"
	"github.com/go-ldapauth/go-ldapauth/internal/config"
	"github.com/go-ldapauth/go-ldapauth/internal/directory"
	"github.com/go-ldapauth/go-ldapauth/internal/web/handler"
)

const (
	// Path is the path to the login endpoint.
	Path = "/api/login"
)

// Request is the login request body.
type Request struct {
	Domain   string `json:"domain"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Reply is the login response body.
type Reply struct {
	Status   string `json:"status"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg  *config.Config
	deps *handler.Deps
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.deps = deps

	app.Route(Path, func(router fiber.Router) {
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Post handles an authentication attempt. The directory pipeline runs
// first; when it abstains and the domain permits local fallback, the
// local database provider decides.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(Request)

	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Reply{
			Status:  "fail",
			Message: "invalid request body",
		})
	}

	resp := s.deps.Orchestrator.Login(&directory.AuthenticationRequest{
		Domain:   req.Domain,
		Username: req.Username,
		Password: req.Password,
		Action:   directory.ActionLogin,
	})

	switch resp.Status {
	case directory.StatusPass:
		created := s.deps.Orchestrator.PostAuthentication(resp.Attributes, s.deps.GroupSync)

		// The userId -> domain record is written on auto-creation only.
		if created {
			if err := s.deps.Orchestrator.AutoCreatedAccount(resp.Attributes); err != nil {
				log.Error().Err(err).Str("user", resp.Username).Msg("failed to record account domain")
			}
		}

		observeOutcome("pass")

		return c.JSON(Reply{Status: "pass", Username: resp.Username})

	case directory.StatusAbstain:
		return s.localFallback(c, req)

	case directory.StatusFail:
	}

	observeOutcome("fail")

	return c.Status(fiber.StatusUnauthorized).JSON(Reply{
		Status:  "fail",
		Message: resp.Message,
	})
}

func (s *Service) localFallback(c *fiber.Ctx, req *Request) error {
	user, err := s.deps.LocalProvider.Authenticate(req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrUserNotFound) &&
			!errors.Is(err, auth.ErrInvalidPassword) &&
			!errors.Is(err, auth.ErrUserAccountDisabled) {
			log.Error().Err(err).Str("user", req.Username).Msg("local authentication error")
		}

		observeOutcome("fail")

		return c.Status(fiber.StatusUnauthorized).JSON(Reply{
			Status:  "fail",
			Message: s.deps.Localize.Render("wrongpassword", nil),
		})
	}

	observeOutcome("pass")

	return c.JSON(Reply{Status: "pass", Username: user.Username})
}
