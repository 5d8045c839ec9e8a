// Package httpkit is what modules import for routing: platform aliases, route sugar and auth groups
package httpkit

import phttp "roaming/internal/platform/net/http"

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Response is the return-style handler result
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router
)
