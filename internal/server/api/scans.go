// Package api provides HTTP API handlers for body scans.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ayusman/bodyscan/internal/app"
	"github.com/ayusman/bodyscan/internal/measure"
	"github.com/ayusman/bodyscan/internal/store"
)

// DefaultMaxBodyBytes limits request bodies when no limit is configured.
const DefaultMaxBodyBytes = 64 << 20

// ScanHandler handles HTTP requests for scan resources.
type ScanHandler struct {
	app     *app.App
	maxBody int64
}

// NewScanHandler creates a new ScanHandler backed by a. maxBody <= 0 uses
// DefaultMaxBodyBytes.
func NewScanHandler(a *app.App, maxBody int64) *ScanHandler {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &ScanHandler{app: a, maxBody: maxBody}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *ScanHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/scans, /api/scans/{planar|volumetric},
	// /api/scans/{id} and /api/scans/{id}/input
	path := strings.TrimPrefix(r.URL.Path, "/api/scans")
	path = strings.Trim(path, "/")
	parts := strings.Split(path, "/")

	switch {
	case path == "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)

	case path == string(store.KindPlanar) || path == string(store.KindVolumetric):
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if path == string(store.KindPlanar) {
			h.createPlanar(w, r)
		} else {
			h.createVolumetric(w, r)
		}

	case len(parts) == 2 && parts[1] == "input":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.input(w, r, parts[0])

	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, parts[0])
		case http.MethodDelete:
			h.delete(w, r, parts[0])
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Response types

type scanResponse struct {
	ID                string             `json:"id"`
	Kind              string             `json:"kind"`
	ReferenceHeightCm float64            `json:"reference_height_cm,omitempty"`
	FrameCount        int                `json:"frame_count,omitempty"`
	Measurements      map[string]float64 `json:"measurements,omitempty"`
	Confidence        map[string]string  `json:"confidence,omitempty"`
	Validation        measure.Report     `json:"validation"`
	CreatedAt         string             `json:"created_at,omitempty"`
}

type listScansResponse struct {
	Scans []scanResponse `json:"scans"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Scan to a scanResponse. Listed scans carry
// no measurements.
func toResponse(sc *store.Scan, withMeasurements bool) scanResponse {
	resp := scanResponse{
		ID:                sc.ID,
		Kind:              string(sc.Kind),
		ReferenceHeightCm: sc.ReferenceHeightCm,
		FrameCount:        sc.FrameCount,
		Validation:        measure.Report{OK: sc.Valid, Issues: sc.Issues},
	}
	if !sc.CreatedAt.IsZero() {
		resp.CreatedAt = sc.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	if withMeasurements {
		resp.Measurements = sc.Measurements.ToMap()
		resp.Confidence = make(map[string]string, len(measure.Names))
		for _, n := range measure.Names {
			resp.Confidence[string(n)] = string(sc.Measurements.ConfidenceOf(n))
		}
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// history returns the scan store, answering 503 when the service runs
// without one.
func (h *ScanHandler) history(w http.ResponseWriter) *store.ScanRepository {
	s := h.app.Store()
	if s == nil {
		writeError(w, http.StatusServiceUnavailable, "Scan history is disabled")
		return nil
	}
	return s.Scans()
}

// decode reads a size-limited JSON request body.
func (h *ScanHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// list handles GET /api/scans and returns recent scans, newest first.
func (h *ScanHandler) list(w http.ResponseWriter, r *http.Request) {
	scans := h.history(w)
	if scans == nil {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	list, err := scans.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scans")
		return
	}

	response := listScansResponse{
		Scans: make([]scanResponse, 0, len(list)),
	}
	for _, sc := range list {
		response.Scans = append(response.Scans, toResponse(sc, false))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/scans/{id} and returns a single scan.
func (h *ScanHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	scans := h.history(w)
	if scans == nil {
		return
	}

	sc, err := scans.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Scan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get scan")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(sc, true))
}

// input handles GET /api/scans/{id}/input and returns the captured payload.
func (h *ScanHandler) input(w http.ResponseWriter, r *http.Request, id string) {
	scans := h.history(w)
	if scans == nil {
		return
	}

	data, err := scans.Input(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Scan input not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get scan input")
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// createPlanar handles POST /api/scans/planar.
func (h *ScanHandler) createPlanar(w http.ResponseWriter, r *http.Request) {
	var req app.PlanarRequest
	if !h.decode(w, r, &req) {
		return
	}

	sc, err := h.app.EstimatePlanar(r.Context(), req)
	if err != nil {
		if errors.Is(err, app.ErrNoFront) {
			writeError(w, http.StatusBadRequest, "Front landmarks are required")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to record scan")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(sc, true))
}

// createVolumetric handles POST /api/scans/volumetric.
func (h *ScanHandler) createVolumetric(w http.ResponseWriter, r *http.Request) {
	var req app.VolumetricRequest
	if !h.decode(w, r, &req) {
		return
	}

	sc, err := h.app.EstimateVolumetric(r.Context(), req)
	if err != nil {
		if errors.Is(err, app.ErrNoFrames) {
			writeError(w, http.StatusBadRequest, "At least one frame is required")
			return
		}
		if errors.Is(err, app.ErrUnresolvedDepth) {
			writeError(w, http.StatusBadRequest, "Depth files must be inlined as values")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to record scan")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(sc, true))
}

// delete handles DELETE /api/scans/{id} and removes a scan.
func (h *ScanHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	scans := h.history(w)
	if scans == nil {
		return
	}

	if err := scans.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Scan not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete scan")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
