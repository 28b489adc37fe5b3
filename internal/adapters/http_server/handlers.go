// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"guest_reviews/internal/app"
	"guest_reviews/internal/domain"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	degradedWarning = "approval store unavailable; all reviews are shown as unapproved"
)

type Handlers struct {
	Q *app.QueryService
	A *app.ApprovalService
	// Months is the default trend window for the dashboard.
	Months int

	validate *validator.Validate
	now      func() time.Time
}

func NewHandlers(q *app.QueryService, a *app.ApprovalService, months int) *Handlers {
	return &Handlers{Q: q, A: a, Months: months, validate: validator.New(), now: time.Now}
}

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// combinedEnvelope repeats reviews and summary at the top level for older
// dashboard clients.
type combinedEnvelope struct {
	Status  string           `json:"status"`
	Reviews []domain.Review  `json:"reviews"`
	Summary domain.Summary   `json:"summary"`
	Data    app.SourceResult `json:"data"`
}

type combinedFailure struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Reviews []domain.Review `json:"reviews"`
}

type approvalsData struct {
	ApprovedIDs []domain.ReviewID `json:"approvedIds"`
}

type toggleData struct {
	ID          domain.ReviewID   `json:"id"`
	Approved    bool              `json:"approved"`
	ApprovedIDs []domain.ReviewID `json:"approvedIds"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/api/reviews", func(r chi.Router) {
		r.Get("/hostaway", h.hostaway)
		r.Get("/google", h.google)
		r.Get("/combined", h.combined)
		r.Get("/dashboard", h.dashboard)
		r.Get("/public", h.public)
	})
	s.mux.Get("/api/approvals", h.approvals)
	s.mux.Post("/api/approvals/{id}/toggle", h.toggle)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Status: statusError, Message: msg}); err != nil {
		log.Error().Err(err).Msg("write JSON error response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached writes v with a weak ETag and answers 304 when the client
// already holds that version.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func warningText(err error) string {
	if err == nil {
		return ""
	}
	return degradedWarning
}

func (h *Handlers) filter(w http.ResponseWriter, r *http.Request) (domain.FilterQuery, bool) {
	q, err := parseFilter(r.URL.Query(), h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return q, false
	}
	if err := h.validate.Struct(q); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			writeError(w, http.StatusBadRequest, "invalid "+strings.ToLower(ve[0].Field()))
			return q, false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return q, false
	}
	return q, true
}

func (h *Handlers) hostaway(w http.ResponseWriter, r *http.Request) {
	q, ok := h.filter(w, r)
	if !ok {
		return
	}
	res, err := h.Q.Hostaway(r.Context(), q)
	if err != nil {
		log.Error().Err(err).Msg("hostaway reviews failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch Hostaway reviews")
		return
	}
	writeCached(w, r, envelope{Status: statusSuccess, Data: res})
}

func (h *Handlers) google(w http.ResponseWriter, r *http.Request) {
	res, err := h.Q.Google(r.Context(), listingParam(r.URL.Query()))
	if err != nil {
		log.Error().Err(err).Msg("google reviews failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch Google reviews")
		return
	}
	writeCached(w, r, envelope{Status: statusSuccess, Data: res})
}

func (h *Handlers) combined(w http.ResponseWriter, r *http.Request) {
	res, err := h.Q.Combined(r.Context(), listingParam(r.URL.Query()))
	if err != nil {
		log.Error().Err(err).Msg("combined reviews failed")
		writeJSON(w, http.StatusInternalServerError, combinedFailure{
			Status:  statusError,
			Message: "Failed to fetch combined reviews",
			Reviews: []domain.Review{},
		})
		return
	}
	writeCached(w, r, combinedEnvelope{Status: statusSuccess, Reviews: res.Reviews, Summary: res.Summary, Data: res})
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	q, ok := h.filter(w, r)
	if !ok {
		return
	}
	months, err := parseMonths(r.URL.Query(), h.Months)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.Q.Dashboard(r.Context(), app.DashboardQuery{Filter: q, Months: months})
	if err != nil {
		log.Error().Err(err).Msg("dashboard failed")
		writeError(w, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}
	writeCached(w, r, envelope{Status: statusSuccess, Data: res, Warning: warningText(res.Warning)})
}

func (h *Handlers) public(w http.ResponseWriter, r *http.Request) {
	res, err := h.Q.Public(r.Context(), listingParam(r.URL.Query()))
	if err != nil {
		log.Error().Err(err).Msg("public reviews failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}
	writeCached(w, r, envelope{Status: statusSuccess, Data: res, Warning: warningText(res.Warning)})
}

func (h *Handlers) approvals(w http.ResponseWriter, r *http.Request) {
	set, warn := h.A.Approved(r.Context())
	writeCached(w, r, envelope{
		Status:  statusSuccess,
		Data:    approvalsData{ApprovedIDs: set.IDs()},
		Warning: warningText(warn),
	})
}

func (h *Handlers) toggle(w http.ResponseWriter, r *http.Request) {
	id := domain.ParseReviewID(strings.TrimSpace(chi.URLParam(r, "id")))
	if id.IsZero() {
		writeError(w, http.StatusBadRequest, "review id is required")
		return
	}
	set, approved, err := h.A.Toggle(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("review_id", id.String()).Msg("approval toggle failed")
		if errors.Is(err, domain.ErrStorageUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "approval store unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "approval toggle failed")
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Status: statusSuccess,
		Data:   toggleData{ID: id, Approved: approved, ApprovedIDs: set.IDs()},
	})
}
