package gateway

import (
	"fmt"
	"net/http"

	"github.com/cloudsteer/console-core/pkg/favorite"
	"github.com/cloudsteer/console-core/pkg/httputil"
	"github.com/cloudsteer/console-core/pkg/reference"
	"github.com/cloudsteer/console-core/pkg/routing"
)

// locationPayload is the wire shape of a route position
type locationPayload struct {
	Name     string            `json:"name"`
	Params   map[string]string `json:"params,omitempty"`
	Query    map[string]string `json:"query,omitempty"`
	FullPath string            `json:"full_path,omitempty"`
}

type navigationRequest struct {
	To   locationPayload `json:"to"`
	From locationPayload `json:"from"`
}

type decisionResponse struct {
	Proceed  bool              `json:"proceed"`
	Redirect *routing.Location `json:"redirect,omitempty"`
}

// descriptor resolves a payload against the route table. The source
// position may name a route the registry does not know (external entry,
// stale shell); it degrades to a bare descriptor instead of failing.
func (s *Server) descriptor(p locationPayload) (routing.Descriptor, bool) {
	if d, ok := s.registry.Describe(p.Name, p.Params, p.Query, p.FullPath); ok {
		return d, true
	}
	return routing.Descriptor{
		Name:     p.Name,
		Params:   p.Params,
		Query:    p.Query,
		FullPath: p.FullPath,
	}, false
}

func (s *Server) decideNavigation(w http.ResponseWriter, r *http.Request) {
	var req navigationRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	to, ok := s.descriptor(req.To)
	if !ok {
		httputil.WriteNotFoundError(w, fmt.Sprintf("unknown route %q", req.To.Name))
		return
	}
	from, _ := s.descriptor(req.From)

	decision := s.guard.BeforeNavigate(r.Context(), to, from)
	httputil.WriteSuccess(w, decisionResponse{
		Proceed:  decision.Proceed(),
		Redirect: decision.Redirect,
	})
}

func (s *Server) navigationCommitted(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To locationPayload `json:"to"`
	}
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	to, ok := s.descriptor(req.To)
	if !ok {
		httputil.WriteNotFoundError(w, fmt.Sprintf("unknown route %q", req.To.Name))
		return
	}

	s.guard.AfterNavigate(r.Context(), to)
	// A committed navigation proves assets load fine again.
	s.reloadGuard.Reset()
	httputil.WriteNoContent(w)
}

type routePayload struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	AccessLevel string `json:"access_level"`
	MenuID      string `json:"menu_id,omitempty"`
	SubMenuID   string `json:"sub_menu_id,omitempty"`
	IsSignIn    bool   `json:"is_sign_in_page,omitempty"`
}

func (s *Server) listRoutes(w http.ResponseWriter, r *http.Request) {
	routes := s.registry.Routes()
	payload := make([]routePayload, 0, len(routes))
	for _, route := range routes {
		payload = append(payload, routePayload{
			Name:        route.Name,
			Path:        route.Path,
			AccessLevel: route.Meta.AccessLevel.String(),
			MenuID:      route.Meta.MenuID,
			SubMenuID:   route.Meta.SubMenuID,
			IsSignIn:    route.Meta.IsSignInPage,
		})
	}
	httputil.WriteSuccess(w, map[string]interface{}{"results": payload})
}

func (s *Server) getReferenceMap(w http.ResponseWriter, r *http.Request) {
	kind, ok := httputil.ParsePathStringOrError(w, r, "kind")
	if !ok {
		return
	}
	store, ok := s.catalog.Store(kind)
	if !ok {
		httputil.WriteNotFoundError(w, fmt.Sprintf("unknown reference kind %q", kind))
		return
	}

	lazy, err := httputil.ParseQueryBool(r, "lazy", true)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	store.Load(r.Context(), reference.Options{LazyLoad: lazy})

	httputil.WriteSuccess(w, map[string]interface{}{
		"kind":  kind,
		"items": store.Map(),
	})
}

func (s *Server) syncReferenceItem(w http.ResponseWriter, r *http.Request) {
	kind, ok := httputil.ParsePathStringOrError(w, r, "kind")
	if !ok {
		return
	}
	store, ok := s.catalog.Store(kind)
	if !ok {
		httputil.WriteNotFoundError(w, fmt.Sprintf("unknown reference kind %q", kind))
		return
	}

	var item reference.Item
	if !httputil.ParseJSONOrError(w, r, &item) {
		return
	}
	if item.Key == "" {
		httputil.WriteBadRequest(w, "key is required")
		return
	}

	store.Sync(item)
	httputil.WriteNoContent(w)
}

func (s *Server) reloadReferences(w http.ResponseWriter, r *http.Request) {
	force, err := httputil.ParseQueryBool(r, "force", true)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	s.catalog.LoadAll(r.Context(), reference.Options{Force: force})
	httputil.WriteSuccess(w, map[string]interface{}{
		"all_loaded": s.catalog.AllLoaded(),
		"kinds":      s.catalog.Kinds(),
	})
}

func (s *Server) listRecent(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]interface{}{
		"results": s.recents.List(),
	})
}

func (s *Server) convertFavorites(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Favorites []favorite.Config `json:"favorites"`
	}
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{
		"results": s.converter.Convert(req.Favorites),
	})
}

// assetFailure reports a chunk/bundle load failure from the shell. The
// reply says whether the shell should force a full reload now; repeats
// inside the debounce window are told to stand down.
func (s *Server) assetFailure(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]interface{}{
		"reload": s.reloadGuard.ShouldReload(),
	})
}
