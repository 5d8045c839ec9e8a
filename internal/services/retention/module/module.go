// Package module wires the retention engine into the API and CLI using modkit
package module

import (
	"context"
	"crypto/subtle"

	"roaming/internal/modkit"
	"roaming/internal/modkit/httpkit"
	"roaming/internal/modkit/repokit"
	perr "roaming/internal/platform/errors"
	"roaming/internal/platform/logger"
	str "roaming/internal/platform/strings"

	"roaming/internal/services/retention/domain"
	"roaming/internal/services/retention/guardrails"
	rhttp "roaming/internal/services/retention/http"
	rmetrics "roaming/internal/services/retention/metrics"
	rrepo "roaming/internal/services/retention/repo"
	rservice "roaming/internal/services/retention/service"
)

// Ports exported by the retention module
type Ports struct {
	Policy domain.PolicyPort
	Runner domain.RunnerPort
}

// Module implements module.Module for retention
type Module struct {
	b     modkit.Built
	deps  modkit.Deps
	opts  Options
	ports Ports
	svc   *rservice.Service
}

// New constructs and wires the retention module using deps.Cfg
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("retention"),
		modkit.WithPrefix("/retention"),
	}, opts...)...)

	o := FromConfig(deps.Cfg)

	var lease guardrails.Lease
	if o.EnableLeases {
		lease = guardrails.MakeRunLease(deps.PG, "retention", o.LeaseTTL)
	}

	svc := rservice.New(
		guardrails.WithStatementTimeout(repokit.TxRunner(deps.PG), o.StatementTimeout),
		rrepo.NewPG(),
		rservice.NewDiskReconciler(o.StorageRoot, o.DiskWorkers),
		rservice.Config{Defaults: o.Defaults, EnableLeases: o.EnableLeases},
		lease,
	)
	if deps.Metrics != nil {
		svc.Observer = rmetrics.New(deps.Metrics.Registerer())
	}

	return &Module{
		b:     b,
		deps:  deps,
		opts:  o,
		ports: Ports{Policy: svc, Runner: svc},
		svc:   svc,
	}
}

// Boot runs the startup work enabled by config
func (m *Module) Boot(ctx context.Context) error {
	if !m.opts.EnsureOnBoot {
		return nil
	}
	if err := m.svc.EnsureSchema(ctx); err != nil {
		return err
	}
	logger.C(ctx).Debug().Str("mod", "retention").Msg("retention: archive schema ensured")
	return nil
}

// RunOnce boots and runs a single pass for one-shot drivers. A dry run skips
// Boot so it never issues archive DDL
func (m *Module) RunOnce(ctx context.Context, opts domain.RunOptions) (domain.RunResult, error) {
	if !opts.DryRun {
		if err := m.Boot(ctx); err != nil {
			return domain.RunResult{DryRun: opts.DryRun}, err
		}
	}
	return m.ports.Runner.RunRetention(ctx, opts)
}

// Service exposes the engine for in-process drivers such as the CLI
func (m *Module) Service() *rservice.Service { return m.svc }

// MountRoutes mounts the policy and run endpoints, behind the admin token when one is set
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		mount := func(pr httpkit.Router) { rhttp.Register(pr, m.svc) }
		if m.opts.AdminToken == "" {
			mount(rr)
			return
		}
		httpkit.Protected(rr, adminPort(m.opts.AdminToken), mount)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "retention") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adminPort accepts exactly one shared bearer token and names its caller "admin"
func adminPort(token string) *httpkit.Port {
	return httpkit.NewPort(func(raw string) (string, error) {
		if subtle.ConstantTimeCompare([]byte(raw), []byte(token)) != 1 {
			return "", perr.Unauthorizedf("invalid admin token")
		}
		return "admin", nil
	})
}
