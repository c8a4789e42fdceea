// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server serves the Nexus dashboard: HTML pages for each view, a
// JSON API over the same surfaces, and a websocket stream of surface
// transitions.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/nexus/internal/query"
	"github.com/pdiddy/nexus/internal/shell"
	"github.com/pdiddy/nexus/internal/view"
	"github.com/pdiddy/nexus/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxBodyBytes = 1 << 20

var pages = map[types.ViewState]string{
	types.ViewDashboard:  "dashboard.html",
	types.ViewSearch:     "search.html",
	types.ViewSimulation: "simulation.html",
	types.ViewSaved:      "saved.html",
}

// Server is the HTTP front end of the dashboard.
type Server struct {
	cfg        types.ServerConfig
	shell      *shell.Shell
	search     *view.SearchView
	simulation *view.SimulationView
	logger     *slog.Logger
	templates  map[string]*template.Template
	srv        *http.Server
}

// New builds a server over the shell and its two working surfaces.
func New(cfg types.ServerConfig, sh *shell.Shell, search *view.SearchView, simulation *view.SimulationView, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		cfg:        cfg,
		shell:      sh,
		search:     search,
		simulation: simulation,
		logger:     logger,
		templates:  make(map[string]*template.Template),
	}
	if err := s.loadTemplates(); err != nil {
		return nil, err
	}
	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) loadTemplates() error {
	funcs := template.FuncMap{
		"lower": strings.ToLower,
	}

	tmplFS, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return err
	}
	layout, err := fs.ReadFile(tmplFS, "layout.html")
	if err != nil {
		return err
	}

	// Each page gets its own template with the layout.
	for _, page := range pages {
		body, err := fs.ReadFile(tmplFS, page)
		if err != nil {
			return err
		}
		tmpl, err := template.New("").Funcs(funcs).Parse(string(layout))
		if err != nil {
			return err
		}
		if _, err := tmpl.Parse(string(body)); err != nil {
			return err
		}
		s.templates[page] = tmpl
	}
	return nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	for _, v := range types.ViewStates() {
		path := "/" + strings.ToLower(v.String())
		mux.HandleFunc("GET "+path, s.handleView(v))
	}
	mux.HandleFunc("POST /search", s.handleSearchForm)
	mux.HandleFunc("POST /simulation", s.handleSimulationForm)

	mux.HandleFunc("POST /api/navigate", s.handleNavigate)
	mux.HandleFunc("POST /api/search", s.handleSearchAPI)
	mux.HandleFunc("POST /api/simulate", s.handleSimulateAPI)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return s.withRequestID(mux)
}

// ListenAndServe starts the HTTP server on the configured address.
func (s *Server) ListenAndServe() error {
	s.logger.Info("dashboard listening", "addr", s.cfg.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// withRequestID tags every request with an ID for log correlation.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-Id", id)
		started := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request", "id", id, "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(started))
	})
}

// --- pages ---

type pageData struct {
	Nav        []shell.NavItem
	Active     shell.Surface
	Dashboard  view.Dashboard
	Search     view.Snapshot[types.SearchResult]
	Simulation view.Snapshot[types.SimulationResult]
	Projection *view.Projection
	Query      string
	Request    types.SimulationRequest
}

func (s *Server) pageData() pageData {
	d := pageData{
		Nav:        s.shell.NavItems(),
		Active:     s.shell.Active(),
		Search:     s.search.Snapshot(),
		Simulation: s.simulation.Snapshot(),
	}
	switch d.Active.View {
	case types.ViewDashboard:
		d.Dashboard = view.DashboardContent()
	case types.ViewSimulation:
		if d.Simulation.HasResult {
			p := view.Project(d.Simulation.Result)
			d.Projection = &p
		}
	}
	return d
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderCurrent(w, s.pageData())
}

func (s *Server) handleView(v types.ViewState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.shell.Navigate(v)
		s.renderCurrent(w, s.pageData())
	}
}

func (s *Server) handleSearchForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s.shell.Navigate(types.ViewSearch)
	q := r.FormValue("query")
	if _, err := s.search.Submit(context.WithoutCancel(r.Context()), q); err != nil {
		s.logger.Debug("search submission failed", "error", err)
	}
	d := s.pageData()
	d.Query = q
	s.renderCurrent(w, d)
}

func (s *Server) handleSimulationForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s.shell.Navigate(types.ViewSimulation)
	req := types.SimulationRequest{Hypothesis: r.FormValue("hypothesis"), Parameters: r.FormValue("parameters")}
	if _, err := s.simulation.Submit(context.WithoutCancel(r.Context()), req); err != nil {
		s.logger.Debug("simulation submission failed", "error", err)
	}
	d := s.pageData()
	d.Request = req
	s.renderCurrent(w, d)
}

func (s *Server) renderCurrent(w http.ResponseWriter, d pageData) {
	s.render(w, pages[d.Active.View], d)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	tmpl, ok := s.templates[name]
	if !ok {
		http.Error(w, "Template not found: "+name, http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		s.logger.Error("rendering page", "page", name, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// --- JSON API ---

type navigateRequest struct {
	View types.ViewState `json:"view"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type apiError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type surfaceState struct {
	Phase     view.Phase `json:"phase"`
	Error     string     `json:"error,omitempty"`
	HasResult bool       `json:"hasResult"`
}

type stateResponse struct {
	Shell      shell.State  `json:"shell"`
	Search     surfaceState `json:"search"`
	Simulation surfaceState `json:"simulation"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.shell.Navigate(req.View)
	writeJSON(w, http.StatusOK, s.shell.State())
}

func (s *Server) handleSearchAPI(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.shell.Navigate(types.ViewSearch)
	// A dispatched request is not aborted when the client goes away; the
	// operation deadline bounds it.
	result, err := s.search.Submit(context.WithoutCancel(r.Context()), req.Query)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSimulateAPI(w http.ResponseWriter, r *http.Request) {
	var req types.SimulationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.shell.Navigate(types.ViewSimulation)
	result, err := s.simulation.Submit(context.WithoutCancel(r.Context()), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Project(result))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	search := s.search.Snapshot()
	sim := s.simulation.Snapshot()
	writeJSON(w, http.StatusOK, stateResponse{
		Shell:      s.shell.State(),
		Search:     surfaceState{Phase: search.Phase, Error: search.Message, HasResult: search.HasResult},
		Simulation: surfaceState{Phase: sim.Phase, Error: sim.Message, HasResult: sim.HasResult},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

// errorStatus maps a surface error to its HTTP status and wire body.
func errorStatus(err error) (int, apiError) {
	if errors.Is(err, view.ErrBusy) {
		return http.StatusConflict, apiError{Kind: "busy", Message: "A request is already in progress."}
	}
	kind := query.KindOf(err)
	body := apiError{Kind: kind.String(), Message: kind.Message()}
	switch kind {
	case query.KindValidation:
		return http.StatusBadRequest, body
	case query.KindTimeout:
		return http.StatusGatewayTimeout, body
	case query.KindUnknown:
		return http.StatusInternalServerError, body
	default:
		return http.StatusBadGateway, body
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, body := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("query failed", "status", status, "kind", body.Kind, "error", err)
	}
	writeJSON(w, status, body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Kind: query.KindValidation.String(), Message: "invalid JSON body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
