package modkit

import (
	"net/http"

	"roaming/internal/modkit/httpkit"
)

// Built is what modules read back after options are applied
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler

	// Register is never nil
	Register func(httpkit.Router)
}

// Build applies opts over the defaults and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		if o != nil {
			o(&c)
		}
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Register: c.register,
	}
}

// Mount mounts register under b.Prefix with b.Mw applied, followed by the external register hook
func (b Built) Mount(r httpkit.Router, register func(httpkit.Router)) {
	httpkit.MountUnder(r, b.Prefix, b.Mw, func(sub httpkit.Router) {
		if register != nil {
			register(sub)
		}
		b.Register(sub)
	})
}
