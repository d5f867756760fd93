package http

import "vitals/internal/modkit/swaggerkit"

func init() {
	swaggerkit.Register(func(spec map[string]any) {
		paths, _ := spec["paths"].(map[string]any)
		if paths == nil {
			return
		}
		paths["/ingest/uploads"] = map[string]any{
			"post": map[string]any{
				"tags":    []any{"Ingest"},
				"summary": "Store an export file for ingestion",
				"requestBody": map[string]any{
					"required": true,
					"content": map[string]any{
						"multipart/form-data": map[string]any{},
					},
				},
				"responses": map[string]any{
					"200": map[string]any{"description": "stored"},
				},
			},
		}
		paths["/ingest/uploads/{id}/events"] = map[string]any{
			"get": map[string]any{
				"tags":    []any{"Ingest"},
				"summary": "Stream ingestion events for a stored export",
				"parameters": []any{
					map[string]any{"name": "id", "in": "path", "required": true, "schema": map[string]any{"type": "string"}},
					map[string]any{"name": "start", "in": "query", "schema": map[string]any{"type": "string"}},
					map[string]any{"name": "end", "in": "query", "schema": map[string]any{"type": "string"}},
				},
				"responses": map[string]any{
					"200": map[string]any{"description": "text/event-stream of progress, record, complete and error events"},
				},
			},
		}
	})
}
