package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/directory/internal/directory"
	"github.com/JonMunkholm/directory/internal/logging"
	"github.com/JonMunkholm/directory/internal/service"
	"github.com/JonMunkholm/directory/internal/web/templates"
)

const pageTitle = "Initiative Directory"

// parseQuery reads the directory query from URL parameters.
// A missing sort means the default (name); an unknown one keeps sheet order.
func parseQuery(r *http.Request) directory.Query {
	v := r.URL.Query()
	q := directory.DefaultQuery()
	q.Search = strings.TrimSpace(v.Get("search"))
	q.Category = v.Get("category")
	q.Country = v.Get("country")
	q.City = v.Get("city")
	if v.Has("sort") {
		q.Sort = directory.ParseSortKey(v.Get("sort"))
	}
	if p, err := strconv.Atoi(v.Get("page")); err == nil && p > 0 {
		q.Page = p
	}
	return q
}

// queryValues is the inverse of parseQuery, omitting empty parameters.
func queryValues(q directory.Query) url.Values {
	v := url.Values{}
	for name, value := range map[string]string{
		"search":   q.Search,
		"category": q.Category,
		"country":  q.Country,
		"city":     q.City,
	} {
		if value != "" {
			v.Set(name, value)
		}
	}
	v.Set("sort", string(q.Sort))
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// handlePage renders the directory page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := parseQuery(r)

	params := templates.DirectoryParams{
		Title:            pageTitle,
		Query:            q,
		SearchDebounceMS: s.cfg.App.SearchDebounce.Milliseconds(),
	}
	status := http.StatusOK

	view, err := s.service.Query(ctx, q)
	if err != nil {
		msg := directory.MapError(err)
		params.Error = &msg
		status = statusFor(err)
		logging.FromContext(ctx).Error("page load failed", "error", err, "code", msg.Code)
	} else {
		params.View = view
		params.Cards = s.presenter.Cards(view.Items)
		if fc, err := s.service.Facets(ctx); err == nil {
			params.Facets = fc
		}
		if view.HasMore {
			next := q
			next.Page = view.Page + 1
			params.LoadMoreURL = "/?" + queryValues(next).Encode()
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.DirectoryPage(params).Render(ctx, w); err != nil {
		logging.FromContext(ctx).Error("render failed", "error", err)
	}
}

// InitiativesResponse is the JSON form of a directory view.
type InitiativesResponse struct {
	Query    directory.Query  `json:"query"`
	Summary  string           `json:"summary"`
	Total    int              `json:"total"`
	Shown    int              `json:"shown"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	HasMore  bool             `json:"has_more"`
	Items    []directory.Card `json:"items"`
}

// handleInitiatives returns the revealed cards as JSON.
// With window=page only the requested page is returned instead of every
// page up to it.
func (s *Server) handleInitiatives(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	view, err := s.service.Query(r.Context(), q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	items := view.Items
	if r.URL.Query().Get("window") == "page" {
		items = directory.Slice(view.Items, view.Page, view.PageSize)
	}
	q.Page = view.Page

	writeJSON(w, http.StatusOK, InitiativesResponse{
		Query:    q,
		Summary:  view.Summary(),
		Total:    view.Total,
		Shown:    view.Shown(),
		Page:     view.Page,
		PageSize: view.PageSize,
		HasMore:  view.HasMore,
		Items:    s.presenter.Cards(items),
	})
}

// handleFacets returns the filter values of the loaded dataset. Facets only
// change with the dataset, so its ID doubles as the ETag.
func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	fc, err := s.service.Facets(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if ds := s.service.Current(); ds != nil {
		etag := `"` + ds.ID.String() + `"`
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	writeJSON(w, http.StatusOK, fc)
}

// handleRefresh reloads the sheet, bypassing the cache.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ds, err := s.service.Reload(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("directory refreshed", "records", ds.Len(), "dataset_id", ds.ID)
	writeJSON(w, http.StatusOK, s.service.Status())
}

// handleCacheClear drops the cached dataset.
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	s.service.ClearCache(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// HealthResponse reports liveness and the dataset state.
type HealthResponse struct {
	State string `json:"status"`
	service.Status
}

// handleHealth reports "ok" once a dataset is loaded, "degraded" when the
// latest load failed, and "starting" before anything has loaded.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.service.Status()
	resp := HealthResponse{State: "ok", Status: st}
	switch {
	case st.LastError != "":
		resp.State = "degraded"
	case !st.Loaded:
		resp.State = "starting"
	}
	writeJSON(w, http.StatusOK, resp)
}
