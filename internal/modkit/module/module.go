// Package module is the contract every mountable module satisfies, plus cross-module port lookup
package module

import phttp "roaming/internal/platform/net/http"

// Module is what the API mounts. It lives apart from modkit so a module's own
// Ports type can be imported without pulling in the builder
type Module interface {
	MountRoutes(r phttp.Router)
	// Ports returns the module's port bundle, usually a struct of interfaces
	Ports() any
	Name() string
}
