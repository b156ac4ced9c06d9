// Package api - Thin HTTP layer over the configurator engine
// The API is only responsible for input decoding, engine orchestration
// and output serialization; it performs no selection, pricing or
// compatibility logic of its own.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pc-builder/core/build"
	"pc-builder/core/catalog"
	"pc-builder/core/compat"
	"pc-builder/core/pricing"
	"pc-builder/internal/errors"
	"pc-builder/internal/logging"
)

// ownerHeader carries the opaque customer identity injected by the
// authentication layer in front of this service. Empty means the
// anonymous scope.
const ownerHeader = "X-Customer-ID"

// Server is the API server.
type Server struct {
	router    chi.Router
	catalog   catalog.Catalog
	validator compat.Validator
	builds    *build.Service
	version   string
}

// NewServer wires the engine behind the HTTP routes.
func NewServer(cat catalog.Catalog, validator compat.Validator, builds *build.Service, version string, allowedOrigins []string) *Server {
	s := &Server{
		catalog:   cat,
		validator: validator,
		builds:    builds,
		version:   version,
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", ownerHeader},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/api", func(r chi.Router) {
		r.Get("/components/{category}", s.handleListComponents)
		r.Post("/validate-compatibility", s.handleValidate)
		r.Route("/builds", func(r chi.Router) {
			r.Get("/", s.handleListBuilds)
			r.Post("/", s.handleSaveBuild)
			r.Get("/{id}", s.handleGetBuild)
			r.Delete("/{id}", s.handleDeleteBuild)
			r.Post("/export", s.handleExport)
			r.Post("/import", s.handleImport)
		})
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"version": s.version}, http.StatusOK)
}

// handleListComponents handles GET /api/components/{category}.
// Query parameters: search (free text), sort (name, price-asc,
// price-desc), any other key filters on the equally named spec field,
// and min_<key> filters numerically.
func (s *Server) handleListComponents(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	cat, ok := catalog.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		s.writeError(w, requestID, "UNKNOWN_CATEGORY",
			"unknown category: "+chi.URLParam(r, "category"), http.StatusNotFound)
		return
	}

	var filters []catalog.Filter
	var order catalog.Order = catalog.ByName()
	for key, values := range r.URL.Query() {
		if len(values) == 0 || values[0] == "" {
			continue
		}
		value := values[0]
		switch {
		case key == "search":
			filters = append(filters, catalog.MatchText(value))
		case key == "sort":
			switch value {
			case "name":
				order = catalog.ByName()
			case "price-asc":
				order = catalog.ByPrice(true)
			case "price-desc":
				order = catalog.ByPrice(false)
			default:
				s.writeError(w, requestID, "INVALID_SORT", "unknown sort: "+value, http.StatusBadRequest)
				return
			}
		case strings.HasPrefix(key, "min_"):
			min, err := strconv.ParseFloat(value, 64)
			if err != nil {
				s.writeError(w, requestID, "INVALID_FILTER", "not a number: "+value, http.StatusBadRequest)
				return
			}
			filters = append(filters, catalog.FieldAtLeast(catalog.SpecNumber(strings.TrimPrefix(key, "min_")), min))
		default:
			filters = append(filters, catalog.FieldEquals(catalog.SpecString(key), value))
		}
	}

	items := catalog.Query(s.catalog.ListItems(cat), order, filters...)
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, itemView(item))
	}
	s.writeJSON(w, views, http.StatusOK)
}

// handleValidate handles POST /api/validate-compatibility. The request
// body is the full slot-keyed selection including empty slots.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req map[string]*string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, requestID, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	verdict, err := s.validator.Validate(r.Context(), compat.SelectionFromWire(req))
	if err != nil {
		logging.Error("validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		s.writeDomainError(w, requestID, errors.ValidationUnavailable(err))
		return
	}
	s.writeJSON(w, verdict.Wire(), http.StatusOK)
}

// handleSaveBuild handles POST /api/builds.
func (s *Server) handleSaveBuild(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req SaveBuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, requestID, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	sel := compat.SelectionFromWire(req.Components)
	saved, err := s.builds.Save(r.Context(), r.Header.Get(ownerHeader), req.Name, sel)
	if err != nil {
		s.writeDomainError(w, requestID, err)
		return
	}
	s.writeJSON(w, buildView(saved), http.StatusCreated)
}

// handleGetBuild handles GET /api/builds/{id}.
func (s *Server) handleGetBuild(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	b, err := s.builds.Load(r.Context(), chi.URLParam(r, "id"), r.Header.Get(ownerHeader))
	if err != nil {
		s.writeDomainError(w, requestID, err)
		return
	}
	s.writeJSON(w, buildView(b), http.StatusOK)
}

// handleListBuilds handles GET /api/builds.
func (s *Server) handleListBuilds(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	list, err := s.builds.List(r.Context(), r.Header.Get(ownerHeader))
	if err != nil {
		s.writeDomainError(w, requestID, err)
		return
	}
	views := make([]BuildView, 0, len(list))
	for _, b := range list {
		views = append(views, buildView(b))
	}
	s.writeJSON(w, views, http.StatusOK)
}

// handleDeleteBuild handles DELETE /api/builds/{id}.
func (s *Server) handleDeleteBuild(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	if err := s.builds.Delete(r.Context(), chi.URLParam(r, "id"), r.Header.Get(ownerHeader)); err != nil {
		s.writeDomainError(w, requestID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExport handles POST /api/builds/export: the portable document
// for the posted selection, computed against the current catalog.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req SaveBuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, requestID, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	data, err := build.Export(req.Name, compat.SelectionFromWire(req.Components), s.catalog)
	if err != nil {
		s.writeDomainError(w, requestID, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="pc-build.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleImport handles POST /api/builds/import: the raw portable
// document in the body, resolved against the current catalog.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, requestID, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	sel, warnings, name, err := build.Import(body, s.catalog)
	if err != nil {
		s.writeDomainError(w, requestID, err)
		return
	}
	totals := pricing.ComputeTotal(sel, s.catalog)
	price, _ := totals.Price.Float64()
	resp := ImportResponse{
		Name:       name,
		Components: compat.WireRequest(sel),
		Warnings:   warnings,
		TotalPrice: price,
	}
	if len(warnings) > 0 {
		resp.WarningCode = string(errors.TypePartialImport)
	}
	s.writeJSON(w, resp, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, payload interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error("writing response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, requestID, code, message string, status int) {
	s.writeJSON(w, ErrorResponse{
		RequestID: requestID,
		Code:      code,
		Message:   message,
	}, status)
}

// writeDomainError maps typed engine errors to HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, requestID string, err error) {
	domainErr, ok := err.(*errors.Error)
	if !ok {
		s.writeError(w, requestID, string(errors.TypeInternal), err.Error(), http.StatusInternalServerError)
		return
	}
	status := http.StatusInternalServerError
	switch domainErr.Type {
	case errors.TypeInput, errors.TypeInvalidFormat:
		status = http.StatusBadRequest
	case errors.TypeNotFound:
		status = http.StatusNotFound
	case errors.TypeValidationUnavailable, errors.TypeNetwork:
		status = http.StatusServiceUnavailable
	}
	s.writeError(w, requestID, string(domainErr.Type), domainErr.Message, status)
}
