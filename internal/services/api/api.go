// Package api provides the HTTP API for the application
package api

import (
	"vitals/internal/platform/config"
	"vitals/internal/platform/logger"
	phttp "vitals/internal/platform/net/http"
	"vitals/internal/platform/store"

	"vitals/internal/modkit"
	"vitals/internal/modkit/httpkit"
	"vitals/internal/modkit/module"
	"vitals/internal/modkit/swaggerkit"

	metamod "vitals/internal/services/api/meta/module"
	ingestmod "vitals/internal/services/ingest/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	mods := []module.Module{
		metamod.New(deps),
		ingestmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
