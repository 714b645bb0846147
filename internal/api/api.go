// Package api serves routing-number lookups over HTTP and keeps the SQLite
// copy of the reference database.
package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"

	"torat/internal/logging"
	"torat/internal/routing"
)

// RecordResp is the JSON body returned for a known routing number.
type RecordResp struct {
	RoutingNumber string `json:"routing_number"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	State         string `json:"state"`
	Summary       string `json:"summary"`
}

// HealthResp is the JSON body returned by /healthz.
type HealthResp struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
}

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Server holds the lookup backend used by the handlers.
type Server struct {
	finder Finder
	log    *slog.Logger
}

// NewServer creates a Server backed by finder.
func NewServer(finder Finder, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{finder: finder, log: log}
}

// Handler returns the router with all routes and middleware mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Health)
	r.Get("/routing/{routingNumber}", s.GetRoutingNumber)

	return r
}

// Health reports liveness and the number of records served.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	count, err := s.finder.Count(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "internal_error", "Failed to count records")
		return
	}
	writeJSON(w, http.StatusOK, HealthResp{Status: "ok", Records: count})
}

// GetRoutingNumber looks up a single routing number.
func (s *Server) GetRoutingNumber(w http.ResponseWriter, r *http.Request) {
	// chi matches on the escaped path, so the raw parameter may still be
	// percent-encoded; binding unescapes it.
	var number string
	err := runtime.BindStyledParameterWithOptions("simple", "routingNumber", chi.URLParam(r, "routingNumber"), &number,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid_input", "Invalid routing number parameter")
		return
	}

	if !isDigits(number) {
		s.writeError(w, r, http.StatusBadRequest, "invalid_input", "Routing number must contain only digits")
		return
	}

	rec, found, err := s.finder.Find(r.Context(), number)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "internal_error", "Failed to look up routing number")
		return
	}
	if !found {
		s.writeError(w, r, http.StatusNotFound, "not_found", routing.NotFoundMessage(number))
		return
	}

	writeJSON(w, http.StatusOK, RecordResp{
		RoutingNumber: rec.Number,
		Name:          rec.Name,
		Address:       rec.Address(),
		State:         rec.State,
		Summary:       routing.FormatLookup(rec),
	})
}

// requestLogger puts a request-scoped logger in the context and logs each
// completed request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := s.log.With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(logging.WithLogger(r.Context(), log)))

		log.Info("request completed", "status", ww.Status(), "bytes", ww.BytesWritten(), "duration", time.Since(start))
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	log := logging.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(message, "code", code)
	} else {
		log.Debug(message, "code", code)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
