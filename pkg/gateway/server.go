package gateway

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cloudsteer/console-core/pkg/favorite"
	"github.com/cloudsteer/console-core/pkg/guard"
	"github.com/cloudsteer/console-core/pkg/httputil"
	"github.com/cloudsteer/console-core/pkg/observability"
	"github.com/cloudsteer/console-core/pkg/recent"
	"github.com/cloudsteer/console-core/pkg/reference"
	"github.com/cloudsteer/console-core/pkg/routing"
)

// Server routes console shell requests to the guard and caches
type Server struct {
	router      *mux.Router
	guard       *guard.Guard
	registry    *routing.Registry
	catalog     *reference.Catalog
	recents     *recent.Tracker
	converter   *favorite.Converter
	reloadGuard *guard.ReloadGuard
	logger      *observability.Logger
}

// Options wires the server's collaborators
type Options struct {
	Guard       *guard.Guard
	Registry    *routing.Registry
	Catalog     *reference.Catalog
	Recents     *recent.Tracker
	Converter   *favorite.Converter
	ReloadGuard *guard.ReloadGuard
	Logger      *observability.Logger
	Metrics     *observability.Metrics
}

// NewServer creates a gateway server with routes and middleware set up
func NewServer(opts Options) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		guard:       opts.Guard,
		registry:    opts.Registry,
		catalog:     opts.Catalog,
		recents:     opts.Recents,
		converter:   opts.Converter,
		reloadGuard: opts.ReloadGuard,
		logger:      opts.Logger,
	}

	s.router.Use(
		httputil.RequestIDMiddleware(opts.Logger),
		httputil.RecoveryMiddleware(opts.Logger),
		httputil.LoggingMiddleware,
		httputil.MetricsMiddleware(opts.Metrics),
	)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	v1 := s.router.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/navigation/decide", s.decideNavigation).Methods(http.MethodPost)
	v1.HandleFunc("/navigation/committed", s.navigationCommitted).Methods(http.MethodPost)
	v1.HandleFunc("/routes", s.listRoutes).Methods(http.MethodGet)

	v1.HandleFunc("/reference/reload", s.reloadReferences).Methods(http.MethodPost)
	v1.HandleFunc("/reference/{kind}", s.getReferenceMap).Methods(http.MethodGet)
	v1.HandleFunc("/reference/{kind}/sync", s.syncReferenceItem).Methods(http.MethodPost)

	v1.HandleFunc("/recent", s.listRecent).Methods(http.MethodGet)
	v1.HandleFunc("/favorites/convert", s.convertFavorites).Methods(http.MethodPost)
	v1.HandleFunc("/assets/failure", s.assetFailure).Methods(http.MethodPost)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
