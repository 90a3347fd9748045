// Package browse exposes browsing sessions over a JSON HTTP API.
package browse

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/kilianp07/classgrid/core/browser"
	"github.com/kilianp07/classgrid/core/logger"
	"github.com/kilianp07/classgrid/core/model"
	"github.com/kilianp07/classgrid/pkg/export"
)

// Suggester returns catalog entries matching partial input.
type Suggester interface {
	Suggest(subj, code string, limit int) []model.CatalogEntry
}

// Handler serves the session API.
type Handler struct {
	mgr     *browser.Manager
	suggest Suggester
	log     logger.Logger
	mux     *http.ServeMux
}

// NewHandler registers the routes. suggest may be nil, in which case the
// suggestion endpoint returns an empty list.
func NewHandler(mgr *browser.Manager, suggest Suggester, log logger.Logger) *Handler {
	h := &Handler{mgr: mgr, suggest: suggest, log: log, mux: http.NewServeMux()}
	h.mux.HandleFunc("POST /api/sessions", h.createSession)
	h.mux.HandleFunc("GET /api/sessions/{id}", h.getSession)
	h.mux.HandleFunc("DELETE /api/sessions/{id}", h.deleteSession)
	h.mux.HandleFunc("POST /api/sessions/{id}/courses", h.addCourse)
	h.mux.HandleFunc("DELETE /api/sessions/{id}/courses/{subj}/{code}", h.removeCourse)
	h.mux.HandleFunc("POST /api/sessions/{id}/generate", h.generate)
	h.mux.HandleFunc("POST /api/sessions/{id}/locks/{crn}", h.toggleLock)
	h.mux.HandleFunc("POST /api/sessions/{id}/navigate", h.navigate)
	h.mux.HandleFunc("GET /api/sessions/{id}/export", h.exportSchedule)
	h.mux.HandleFunc("GET /api/catalog/suggest", h.suggestCourses)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) { h.mux.ServeHTTP(w, r) }

type errorBody struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("encode response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	h.writeJSON(w, statusFor(err), errorBody{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, browser.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, browser.ErrInvalidCourse),
		errors.Is(err, browser.ErrDuplicateCourse),
		errors.Is(err, browser.ErrUnknownCourse),
		errors.Is(err, browser.ErrNoCourses):
		return http.StatusBadRequest
	case errors.Is(err, browser.ErrSuperseded):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*browser.Session, bool) {
	s, err := h.mgr.Get(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return s, true
}

// writeView answers with the session view; a layout failure is reported as
// 422 with the view still in the body so the client can navigate away.
func (h *Handler) writeView(w http.ResponseWriter, s *browser.Session) {
	v := s.View()
	status := http.StatusOK
	if v.LayoutError != "" {
		status = http.StatusUnprocessableEntity
	}
	h.writeJSON(w, status, v)
}

func (h *Handler) createSession(w http.ResponseWriter, _ *http.Request) {
	s := h.mgr.Create()
	h.writeJSON(w, http.StatusCreated, map[string]string{"id": s.ID()})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	if s, ok := h.session(w, r); ok {
		h.writeView(w, s)
	}
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.Delete(r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addCourse(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var ref model.CourseRef
	if err := json.NewDecoder(r.Body).Decode(&ref); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body: " + err.Error()})
		return
	}
	if _, err := s.AddCourse(ref.Subj, ref.Code); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeView(w, s)
}

func (h *Handler) removeCourse(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if !s.RemoveCourse(r.PathValue("subj"), r.PathValue("code")) {
		h.writeJSON(w, http.StatusNotFound, errorBody{Error: "course not in list"})
		return
	}
	h.writeView(w, s)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Generate(r.Context()); err != nil {
		h.log.Warnw("generation failed", map[string]any{"session": s.ID(), "error": err.Error()})
		h.writeError(w, err)
		return
	}
	h.writeView(w, s)
}

func (h *Handler) toggleLock(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.ToggleLock(r.PathValue("crn"))
	h.writeView(w, s)
}

func (h *Handler) navigate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	delta, err := strconv.Atoi(r.URL.Query().Get("delta"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "delta must be an integer"})
		return
	}
	s.Navigate(delta)
	h.writeView(w, s)
}

func (h *Handler) suggestCourses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out := []model.CatalogEntry{}
	if h.suggest != nil {
		limit, _ := strconv.Atoi(q.Get("limit"))
		if found := h.suggest.Suggest(q.Get("subj"), q.Get("code"), limit); found != nil {
			out = found
		}
	}
	h.writeJSON(w, http.StatusOK, out)
}

// exportSchedule writes the sections of the current schedule as csv or json.
func (h *Handler) exportSchedule(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatCSV
	}
	if format != export.FormatCSV && format != export.FormatJSON {
		h.writeJSON(w, http.StatusBadRequest, errorBody{Error: "format must be csv or json"})
		return
	}
	v := s.View()
	if !v.Selection.HasCurrent {
		h.writeJSON(w, http.StatusNotFound, errorBody{Error: "no current schedule"})
		return
	}
	w.Header().Set("Content-Type", export.ContentType(format))
	if err := export.Write(w, format, v.Sections); err != nil {
		h.log.Errorf("export schedule: %v", err)
	}
}
