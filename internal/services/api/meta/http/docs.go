package http

import "vitals/internal/modkit/swaggerkit"

func init() {
	swaggerkit.Register(func(spec map[string]any) {
		paths, _ := spec["paths"].(map[string]any)
		if paths == nil {
			return
		}
		get := func(summary string) map[string]any {
			return map[string]any{
				"get": map[string]any{
					"tags":    []any{"Meta"},
					"summary": summary,
					"responses": map[string]any{
						"200": map[string]any{"description": "ok"},
					},
				},
			}
		}
		paths["/meta/health"] = get("Health check")
		paths["/meta/ready"] = get("Readiness probe with dependency checks")
		paths["/meta/version"] = get("Build and version info")
		paths["/meta/service"] = get("Service info and uptime")
	})
}
