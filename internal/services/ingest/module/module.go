// Package module wires the ingestion pipeline into the API
package module

import (
	stdhttp "net/http"

	modkit "vitals/internal/modkit"
	"vitals/internal/modkit/httpkit"
	"vitals/internal/modkit/repokit"
	str "vitals/internal/platform/strings"

	"vitals/internal/adapters/uploads"
	"vitals/internal/services/ingest/domain"
	ingesthttp "vitals/internal/services/ingest/http"
	"vitals/internal/services/ingest/repo"
	"vitals/internal/services/ingest/service"
)

// Ports defines the ingestion module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the ingestion module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(stdhttp.Handler) stdhttp.Handler

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	ports Ports
}

// New constructs the ingestion module
// It wires the upload store, scanner factory and service using config from deps.Cfg
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	o := FromConfig(deps.Cfg)

	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("ingest"),
		modkit.WithPrefix("/ingest"),
	}, opts...)...)

	store, err := uploads.NewFS(o.UploadDir)
	if err != nil {
		panic("ingest upload dir: " + err.Error())
	}

	var db repokit.TxRunner
	var binder repokit.Binder[domain.StorageRepo]
	if o.Persist && deps.PG != nil {
		db = repokit.TxRunner(deps.PG)
		binder = repo.NewPG()
	}

	svc := service.New(db, binder, store, service.NewScannerFactory(), service.Config{
		BatchSize:     o.BatchSize,
		ProgressEvery: o.ProgressEvery,
		InsertChunk:   o.InsertChunk,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		ports:     Ports{Runner: svc},
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		ingesthttp.Register(r, ingesthttp.Deps{
			Runner:         m.ports.Runner,
			Uploads:        store,
			MaxUploadBytes: o.MaxUploadBytes,
		})
		if external != nil {
			external(r)
		}
	}

	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "ingest") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares implements the modkit.Module interface
func (m *Module) Middlewares() []func(stdhttp.Handler) stdhttp.Handler { return m.mws }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
