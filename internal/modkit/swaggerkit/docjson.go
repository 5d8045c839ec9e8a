package swaggerkit

import (
	"encoding/json"
	"net/http"
	"sync"

	"roaming/internal/core/version"
)

// doc is the swagger 2.0 document for the admin surface, built once
var doc = sync.OnceValue(func() []byte {
	secured := []map[string][]string{{"BearerAuth": {}}}
	op := func(summary string, extra map[string]any) map[string]any {
		o := map[string]any{
			"tags":     []string{"Retention"},
			"summary":  summary,
			"produces": []string{"application/json"},
			"security": secured,
			"responses": map[string]any{
				"200": map[string]any{"description": "ok"},
				"401": map[string]any{"description": "missing or wrong bearer token"},
				"500": map[string]any{"description": "database failure"},
			},
		}
		for k, v := range extra {
			o[k] = v
		}
		return o
	}
	body := func(name string, required bool) map[string]any {
		return map[string]any{"parameters": []map[string]any{{
			"in": "body", "name": "payload", "required": required,
			"schema": map[string]any{"$ref": "#/definitions/" + name},
		}}}
	}

	spec := map[string]any{
		"swagger":  "2.0",
		"basePath": "/api/v1",
		"info": map[string]any{
			"title":       "Roaming API",
			"description": "Retention policy and run endpoints for uploaded datasets",
			"version":     version.Info().Version,
		},
		"securityDefinitions": map[string]any{
			"BearerAuth": map[string]any{"type": "apiKey", "in": "header", "name": "Authorization"},
		},
		"paths": map[string]any{
			"/retention/policy": map[string]any{
				"get": op("Current retention policy", nil),
				"put": op("Replace the retention policy", body("PolicyInput", true)),
			},
			"/retention/run": map[string]any{
				"post": op("Run retention once", body("RunInput", false)),
			},
			"/meta/version": map[string]any{
				"get": map[string]any{"tags": []string{"Meta"}, "summary": "Build information", "responses": map[string]any{"200": map[string]any{"description": "ok"}}},
			},
		},
		"definitions": map[string]any{
			"PolicyInput": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"enabled":        map[string]any{"type": "boolean"},
					"retention_days": map[string]any{"type": "integer", "minimum": 0},
					"mode":           map[string]any{"type": "string", "enum": []string{"delete", "archive"}},
					"delete_files":   map[string]any{"type": "boolean"},
					"interval_hours": map[string]any{"type": "integer", "minimum": 0},
				},
			},
			"RunInput": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"dry_run": map[string]any{"type": "boolean"},
					"now":     map[string]any{"type": "string", "format": "date-time"},
				},
			},
		},
	}
	b, _ := json.Marshal(spec)
	return b
})

// serveDocJSON serves the document uncached so a redeploy is picked up on refresh
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(doc())
	}
}
