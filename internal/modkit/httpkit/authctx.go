package httpkit

import (
	"net/http"
	"strings"

	perr "roaming/internal/platform/errors"
	pnet "roaming/internal/platform/net"
)

// User returns the caller set by the auth middleware
func User(r *http.Request) (string, error) {
	if uid := pnet.UserID(r.Context()); uid != "" {
		return uid, nil
	}
	return "", perr.Unauthorizedf("missing bearer token")
}

// Bearer returns the token of a case-insensitive "Bearer <token>" Authorization header
func Bearer(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(authz) < len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(authz[len(prefix):])
	if raw == "" {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	return raw, nil
}

// TokenFunc names the caller owning token
type TokenFunc func(token string) (userID string, err error)

// Port implements middleware.AuthPort over a bearer token check
type Port struct{ check TokenFunc }

// NewPort builds a Port from check
func NewPort(check TokenFunc) *Port { return &Port{check: check} }

// Parse authenticates r. Any failure of check reads as an invalid token
func (p *Port) Parse(r *http.Request) (string, error) {
	raw, err := Bearer(r)
	if err != nil {
		return "", err
	}
	if p == nil || p.check == nil {
		return "", perr.Unauthorizedf("invalid bearer token")
	}
	uid, err := p.check(raw)
	if err != nil || uid == "" {
		return "", perr.Unauthorizedf("invalid bearer token")
	}
	return uid, nil
}
