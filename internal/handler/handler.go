package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"topowatch/internal/dashboard"
	"topowatch/internal/domain"
)

// Dashboard is the part of the dashboard loop the HTTP API drives
type Dashboard interface {
	Latest() dashboard.FrameSet
	Select(ctx context.Context, name string) error
	Resize(ctx context.Context, width, height float64) error
}

// DashboardHandler handles dashboard API requests
type DashboardHandler struct {
	dash     Dashboard
	validate *validator.Validate
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dash Dashboard) *DashboardHandler {
	return &DashboardHandler{
		dash:     dash,
		validate: validator.New(),
	}
}

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// TopologySummary is one entry of the topology listing
type TopologySummary struct {
	Name     string           `json:"name"`
	Visible  bool             `json:"visible"`
	Stale    bool             `json:"stale,omitempty"`
	Selected bool             `json:"selected,omitempty"`
	Nodes    int              `json:"nodes"`
	Links    int              `json:"links"`
	Viewport *domain.Viewport `json:"viewport,omitempty"`
}

// SelectionRequest changes the requested topology selection
type SelectionRequest struct {
	Name string `json:"name" validate:"required"`
}

// ViewportRequest reports the measured drawing surface size
type ViewportRequest struct {
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

// GetFrames returns the most recently published frame set
func (h *DashboardHandler) GetFrames(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.dash.Latest(), http.StatusOK)
}

// ListTopologies returns every bound topology, visible or not
func (h *DashboardHandler) ListTopologies(w http.ResponseWriter, r *http.Request) {
	fs := h.dash.Latest()

	frames := make(map[string]domain.Frame, len(fs.Frames))
	for _, f := range fs.Frames {
		frames[f.Name] = f
	}

	out := make([]TopologySummary, 0, len(fs.Names))
	for _, name := range fs.Names {
		summary := TopologySummary{
			Name:     name,
			Selected: name == fs.Selected,
		}
		if f, ok := frames[name]; ok {
			vp := f.Viewport
			summary.Visible = true
			summary.Stale = f.Stale
			summary.Nodes = len(f.Nodes)
			summary.Links = len(f.Links)
			summary.Viewport = &vp
		}
		out = append(out, summary)
	}

	h.writeJSON(w, out, http.StatusOK)
}

// SetSelection changes the requested topology
func (h *DashboardHandler) SetSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, "Invalid selection", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.dash.Select(r.Context(), req.Name); err != nil {
		log.Printf("Failed to select topology %q: %v", req.Name, err)
		h.writeError(w, "Failed to select topology", err.Error(), statusFor(err))
		return
	}

	h.writeJSON(w, h.dash.Latest(), http.StatusOK)
}

// SetViewport records a new surface size
func (h *DashboardHandler) SetViewport(w http.ResponseWriter, r *http.Request) {
	var req ViewportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, "Invalid viewport", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.dash.Resize(r.Context(), req.Width, req.Height); err != nil {
		log.Printf("Failed to resize surface: %v", err)
		h.writeError(w, "Failed to resize surface", err.Error(), statusFor(err))
		return
	}

	h.writeJSON(w, h.dash.Latest(), http.StatusOK)
}

// Health reports liveness
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	fs := h.dash.Latest()
	h.writeJSON(w, map[string]any{
		"status":     "ok",
		"seq":        fs.Seq,
		"topologies": len(fs.Names),
	}, http.StatusOK)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrTopologyNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Helper methods

func (h *DashboardHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *DashboardHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
