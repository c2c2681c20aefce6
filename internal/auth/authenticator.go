// Package auth implements the single-admin credential check and the stateless
// JWT cookie session that protects the /admin API.
//
// Tokens are never stored server-side. Logging out deletes the cookie only, so
// a copied token keeps verifying until its 24h expiry.
package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"contactdesk/internal/common"
	"contactdesk/internal/config"
)

const TokenTTL = 24 * time.Hour

type Authenticator struct {
	username     string
	passwordHash string
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthenticator(cfg *config.Config) *Authenticator {
	switch _, err := common.HashCost(cfg.Auth.AdminPasswordHash); {
	case errors.Is(err, common.ErrNoPasswordHash):
		log.Warn().Msg("ADMIN_PASSWORD_HASH is not set, admin login is disabled")
	case err != nil:
		log.Warn().Err(err).Msg("ADMIN_PASSWORD_HASH is not a bcrypt hash, admin login will fail")
	}
	return &Authenticator{
		username:     cfg.Auth.AdminUsername,
		passwordHash: cfg.Auth.AdminPasswordHash,
		secret:       []byte(cfg.Auth.JWTSecret),
		ttl:          TokenTTL,
		now:          time.Now,
	}
}

// WithClock replaces the time source used for issuing and verifying tokens.
func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	a.now = now
	return a
}

// Authenticate reports whether username and password match the configured
// admin. With no password hash configured it always fails.
func (a *Authenticator) Authenticate(username, password string) bool {
	if a.passwordHash == "" || a.username == "" {
		return false
	}
	if username == "" || password == "" {
		return false
	}

	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	// always run bcrypt so a wrong username costs the same as a wrong password
	passwordMatch := common.CheckPassword(password, a.passwordHash) == nil

	return usernameMatch && passwordMatch
}
