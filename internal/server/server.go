// Package server exposes the extraction engine over HTTP for presentation
// layers. The boundary contract is a single call: file bytes in, one
// MetadataRecord (or a generic failure) out.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/metascope/go-file-inspect/internal/config"
	"github.com/metascope/go-file-inspect/internal/extractor"
	"github.com/metascope/go-file-inspect/internal/logger"
	"github.com/metascope/go-file-inspect/internal/types"
)

// sessionHeader keys an upload to a supersession session: a new upload on
// the same session cancels and discards any in-flight extraction.
const sessionHeader = "X-Inspect-Session"

// Handler wires the extraction engine into a chi router.
type Handler struct {
	engine *extractor.Engine
	cfg    config.HTTPConfig
	router chi.Router

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// sessionEntry tracks when a supersession session was last used so idle
// sessions can be swept.
type sessionEntry struct {
	session  *extractor.Session
	lastUsed time.Time
}

// NewHandler constructs the HTTP handler and wires routes.
func NewHandler(engine *extractor.Engine, cfg config.HTTPConfig) *Handler {
	h := &Handler{
		engine:   engine,
		cfg:      cfg,
		sessions: make(map[string]*sessionEntry),
	}
	h.buildRouter()
	return h
}

func (h *Handler) buildRouter() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Get("/healthz", h.handleHealth)
	r.Post("/api/v1/inspect", h.handleInspect)

	h.router = r
}

// Router exposes the configured chi router.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleInspect(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > 0 && r.ContentLength > h.cfg.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	if err := r.ParseMultipartForm(h.cfg.MultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if header.Size > h.cfg.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "file exceeds max size limit")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxUploadBytes))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "file could not be read")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	handle := &types.FileHandle{
		Name:         header.Filename,
		MIMEType:     contentType,
		Size:         int64(len(data)),
		LastModified: time.Now(),
		Data:         data,
	}

	inspectionID := uuid.NewString()
	record, err := h.extract(r, handle)
	if err != nil {
		switch {
		case errors.Is(err, extractor.ErrSuperseded):
			logger.Debugf("inspection %s superseded for %s", inspectionID, handle.Name)
			writeError(w, http.StatusConflict, "superseded by a newer upload")
		default:
			logger.Errorf("inspection %s failed for %s: %v", inspectionID, handle.Name, err)
			writeError(w, http.StatusUnprocessableEntity, "file could not be read")
		}
		return
	}

	logger.Infof("inspection %s completed for %s (%d bytes)", inspectionID, handle.Name, handle.Size)
	w.Header().Set("X-Inspection-ID", inspectionID)
	writeJSON(w, http.StatusOK, record)
}

// extract routes through a supersession session when the client declared
// one, otherwise straight through the engine.
func (h *Handler) extract(r *http.Request, handle *types.FileHandle) (*types.MetadataRecord, error) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		return h.engine.Extract(r.Context(), handle)
	}
	return h.sessionFor(sessionID).Extract(r.Context(), handle)
}

// sessionFor returns the session keyed by id, creating it on first use.
// Sessions idle for longer than the configured TTL are swept on every
// lookup so the map stays bounded by active clients.
func (h *Handler) sessionFor(id string) *extractor.Session {
	now := time.Now()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cfg.SessionTTL > 0 {
		for key, entry := range h.sessions {
			if key != id && now.Sub(entry.lastUsed) > h.cfg.SessionTTL {
				delete(h.sessions, key)
			}
		}
	}

	entry, ok := h.sessions[id]
	if !ok {
		entry = &sessionEntry{session: extractor.NewSession(h.engine)}
		h.sessions[id] = entry
	}
	entry.lastUsed = now
	return entry.session
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
