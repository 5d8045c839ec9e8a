package httpkit

import (
	"net/http"

	phttp "roaming/internal/platform/net/http"
)

// Get mounts a handler that reads no body
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.JSONHandlerNoBody(h))
}

// Post mounts a handler that parses its own body, if any
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, phttp.JSONHandlerNoBody(h))
}

// PutJSON mounts a handler receiving a decoded and validated T
func PutJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Put(path, phttp.JSONHandler(h))
}
