package directory

import (
	"crypto/tls"
	"net"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"
)

// defaultBindTimeout bounds a single connect/bind attempt; a slow server
// is treated like a dead one and the walk moves on.
const defaultBindTimeout = 10 * time.Second

// Conn is the subset of the go-ldap connection the pipeline drives.
type Conn interface {
	Bind(username, password string) error
	UnauthenticatedBind(username string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Close() error
}

// DialFunc opens a connection to a single directory server using the
// domain's encryption settings.
type DialFunc func(cfg *DomainConfig, server string) (Conn, error)

// Session is a live, bound connection to the directory server that won
// the fallback walk. Sessions are request-scoped: each authentication
// attempt opens and discards its own.
type Session struct {
	Conn       Conn
	Server     string
	Encryption Encryption
}

// Close discards the underlying connection.
func (s *Session) Close() {
	if err := s.Conn.Close(); err != nil {
		log.Warn().Err(err).Str("server", s.Server).Msg("failed to close directory connection")
	}
}

// Connector establishes authenticated (or anonymous) connections to one
// directory server per domain, trying an ordered server list, and
// re-binds established connections with end-user credentials.
type Connector struct {
	dial     DialFunc
	localize Localizer
}

// NewConnector creates a Connector dialing real directory servers.
// A non-nil dial overrides the transport, which tests use to fake it.
func NewConnector(localize Localizer, dial DialFunc) *Connector {
	if dial == nil {
		dial = dialDirectory
	}

	return &Connector{dial: dial, localize: localize}
}

// Connect walks the domain's server list in order, skipping disabled
// entries, and returns the first server that accepts the service bind.
// Exhausting the list yields a connectivity error whose key classifies
// the failure: nothing reachable, anonymous bind rejected, or service
// DN bind rejected.
func (c *Connector) Connect(cfg *DomainConfig, domain string) (*Session, error) {
	anonymous := cfg.BindDN == ""
	principal := cfg.BindDN + "@" + domain

	attemptKey := "ldapauth-attempt-bind-dn-search"
	if anonymous {
		attemptKey = "ldapauth-attempt-bind-search"
	}

	log.Info().Msg(c.localize.Render(attemptKey,
		map[string]string{"dn": principal, "domain": domain}))

	classification := "ldapauth-no-connect"

	for _, server := range cfg.Servers {
		if server == "" {
			continue
		}

		conn, err := c.dial(cfg, server)
		if err != nil {
			log.Info().Str("server", server).Msg("could not reach directory server")
			log.Debug().Err(err).Msg("dial failed")

			continue
		}

		if anonymous {
			err = conn.UnauthenticatedBind("")
		} else {
			err = conn.Bind(cfg.BindDN, cfg.BindPassword)
		}

		if err != nil {
			if anonymous {
				classification = "ldapauth-no-bind-search"
			} else {
				classification = "ldapauth-no-bind-dn-search"
			}

			log.Info().Msg(c.localize.Render(classification,
				map[string]string{"dn": principal, "server": server}))
			log.Debug().Err(err).Msg("bind failed")

			if errClose := conn.Close(); errClose != nil {
				log.Debug().Err(errClose).Msg("failed to close directory connection")
			}

			continue
		}

		log.Info().Msg(c.localize.Render("ldapauth-bind-success", nil))

		return &Session{Conn: conn, Server: server, Encryption: cfg.Encryption}, nil
	}

	// No server succeeded. If local fallback is permitted this is not a
	// hard error for the caller, only a warning here.
	message := c.localize.Render("ldapauth-no-connect", map[string]string{"domain": domain})
	if cfg.UseLocal {
		log.Warn().Msg(message)
	} else {
		log.Error().Msg(message)
	}

	return nil, newError(KindConnectivity, classification,
		map[string]string{"dn": principal, "domain": domain})
}

// ValidateCredentials re-binds an established session using the end
// user's full principal name and supplied password. Any failure here is
// a credential failure, distinct from connectivity.
func (c *Connector) ValidateCredentials(sess *Session, cfg *DomainConfig, domain, username, password string) error {
	principal := username + "@" + domain

	enc := string(sess.Encryption)
	if sess.Encryption == EncryptionNone {
		enc = "ldap"
	}

	params := map[string]string{
		"server":   sess.Server,
		"enc":      enc,
		"username": principal,
	}

	log.Debug().Msg(c.localize.Render("ldapauth-bind-dn", params))

	if err := sess.Conn.Bind(principal, password); err != nil {
		message := c.localize.Render("wrongpassword", params)

		// With local fallback enabled a local password may still let
		// the user in, so this is not the terminal problem.
		if cfg.UseLocal {
			log.Warn().Msg(message)
		} else {
			log.Error().Msg(message)
		}

		log.Debug().Err(err).Msg("user bind failed")

		return wrapError(KindCredential, "wrongpassword", params, err)
	}

	return nil
}

// dialDirectory is the default DialFunc over go-ldap.
func dialDirectory(cfg *DomainConfig, server string) (Conn, error) {
	scheme := "ldap"
	if cfg.Encryption == EncryptionSSL {
		scheme = "ldaps"
	}

	var tlsConfig *tls.Config
	if cfg.Encryption != EncryptionNone {
		tlsConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: serverName(server),
		}
	}

	conn, err := ldap.DialURL(scheme+"://"+server, ldap.DialWithTLSConfig(tlsConfig))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	conn.SetTimeout(defaultBindTimeout)

	if cfg.Encryption == EncryptionTLS {
		if errStartTLS := conn.StartTLS(tlsConfig); errStartTLS != nil {
			if errClose := conn.Close(); errClose != nil {
				log.Error().Err(errClose).Msg("failed to close directory connection")
			}

			return nil, errStartTLS //nolint:wrapcheck
		}
	}

	return conn, nil
}

// serverName strips an optional port for TLS certificate verification.
func serverName(server string) string {
	if host, _, err := net.SplitHostPort(server); err == nil {
		return host
	}

	return strings.TrimSpace(server)
}
