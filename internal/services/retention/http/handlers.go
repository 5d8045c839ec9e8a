// Package http provides http transport for retention
package http

import (
	stdhttp "net/http"
	"sync"

	"roaming/internal/modkit/httpkit"
	"roaming/internal/platform/logger"
	"roaming/internal/platform/net/http/bind"
	"roaming/internal/services/retention/domain"
)

// Service is what the handlers need from the retention engine
type Service interface {
	domain.PolicyPort
	domain.RunnerPort
}

var registerTags = sync.OnceValue(func() error {
	return bind.RegisterValidation("retention_mode", func(fl bind.FieldLevel) bool {
		return domain.ValidMode(fl.Field().String())
	}, "{0} must be delete or archive")
})

// Register mounts retention endpoints on the given router
func Register(r httpkit.Router, s Service) {
	if err := registerTags(); err != nil {
		panic(err)
	}
	h := &handlers{svc: s}

	httpkit.Get(r, "/policy", h.getPolicy)
	httpkit.PutJSON[domain.PolicyInput](r, "/policy", h.putPolicy)

	// body is optional here so it is parsed by hand
	httpkit.Post(r, "/run", h.run)
}

type handlers struct{ svc Service }

var runBody = bind.JSONOptions{MaxBytes: 64 << 10, DisallowUnknown: true, AllowEmptyBody: true}

// getPolicy serves the stored policy, seeding it on first read
func (h *handlers) getPolicy(r *stdhttp.Request) (any, error) {
	return h.svc.LoadPolicy(r.Context())
}

func (h *handlers) putPolicy(r *stdhttp.Request, in domain.PolicyInput) (any, error) {
	audit(r, "policy update")
	return h.svc.SavePolicy(r.Context(), in.Policy())
}

// run accepts an empty body as a real run
func (h *handlers) run(r *stdhttp.Request) (any, error) {
	in, err := bind.ParseJSON[domain.RunInput](r, runBody)
	if err != nil {
		return nil, err
	}
	audit(r, "manual run")
	return h.svc.RunRetention(r.Context(), in.Options())
}

// audit records who triggered a mutating call; anonymous when routes are unprotected
func audit(r *stdhttp.Request, what string) {
	actor, err := httpkit.User(r)
	if err != nil {
		actor = "anonymous"
	}
	logger.C(r.Context()).Info().Str("mod", "retention").Str("actor", actor).Msg("retention: " + what)
}
