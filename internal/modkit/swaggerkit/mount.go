// Package swaggerkit serves the admin API document and a Swagger UI over it
package swaggerkit

import (
	"net/http"

	phttp "roaming/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Root is where the UI lives; the document is Root + "/doc.json"
const Root = "/api/docs"

// Mount registers the UI, the document and a bare-root redirect when enabled
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	docURL := Root + "/doc.json"

	r.Get(Root, http.RedirectHandler(Root+"/", http.StatusPermanentRedirect).ServeHTTP)
	// the static route wins over the UI wildcard in chi
	r.Get(docURL, serveDocJSON())
	r.Handle(Root+"/*", httpSwagger.Handler(
		httpSwagger.URL(docURL),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DeepLinking(true),
	))
}
