package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/advanced-rest-client/app-analytics/analytics/client"
	"github.com/advanced-rest-client/app-analytics/analytics/custom"
	"github.com/advanced-rest-client/app-analytics/analytics/dtos"
	"github.com/advanced-rest-client/app-analytics/analytics/listener"
	"github.com/advanced-rest-client/app-analytics/analytics/validator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/splitio/go-toolkit/v5/logging"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type relay struct {
	tracker *client.Tracker
	logger  logging.LoggerInterface
}

type customValue struct {
	Value interface{} `json:"value"`
}

type descriptorChange struct {
	Descriptor custom.Descriptor `json:"descriptor"`
	Field      string            `json:"field"`
	OldValue   string            `json:"oldValue"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newRouter(tracker *client.Tracker, logger logging.LoggerInterface) http.Handler {
	h := &relay{tracker: tracker, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/hits", h.sendHit)
		r.Put("/offline", h.setOffline(true))
		r.Delete("/offline", h.setOffline(false))
		r.Post("/flush", h.flush)
		r.Post("/custom/{type}/{index}", h.addCustom)
		r.Delete("/custom/{type}/{index}", h.removeCustom)
		r.Route("/descriptors", func(r chi.Router) {
			r.Post("/added", h.descriptorAdded)
			r.Post("/removed", h.descriptorRemoved)
			r.Post("/changed", h.descriptorChanged)
		})
		r.Get("/params", h.parameters)
		r.Get("/stats", h.stats)
	})

	return otelhttp.NewHandler(r, "analytics-relay")
}

func requestLogger(logger logging.LoggerInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug(r.Method, r.URL.Path, ww.Status(), time.Since(start).String())
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps tracker errors to response codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, validator.ErrMissingParameters),
		errors.Is(err, validator.ErrInvalidIndex),
		errors.Is(err, validator.ErrIndexOutOfRange),
		errors.Is(err, validator.ErrUnknownHitType):
		return http.StatusBadRequest
	case errors.Is(err, client.ErrTransportFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *relay) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *relay) sendHit(w http.ResponseWriter, r *http.Request) {
	var msg dtos.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.tracker.HandleMessage(r.Context(), msg); err != nil {
		h.logger.Warning("Message rejected:", err.Error())
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *relay) setOffline(offline bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.tracker.SetOffline(offline)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *relay) flush(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.Flush(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *relay) addCustom(w http.ResponseWriter, r *http.Request) {
	kind, ok := custom.ParseKind(chi.URLParam(r, "type"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("unknown custom property type"))
		return
	}
	var body customValue
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var err error
	if kind == custom.Dimension {
		err = h.tracker.AddCustomDimension(chi.URLParam(r, "index"), body.Value)
	} else {
		err = h.tracker.AddCustomMetric(chi.URLParam(r, "index"), body.Value)
	}
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *relay) removeCustom(w http.ResponseWriter, r *http.Request) {
	kind, ok := custom.ParseKind(chi.URLParam(r, "type"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("unknown custom property type"))
		return
	}

	var removed bool
	if kind == custom.Dimension {
		removed = h.tracker.RemoveCustomDimension(chi.URLParam(r, "index"))
	} else {
		removed = h.tracker.RemoveCustomMetric(chi.URLParam(r, "index"))
	}
	if !removed {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *relay) descriptorAdded(w http.ResponseWriter, r *http.Request) {
	var d custom.Descriptor
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.tracker.OnDescriptorAdded(d); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *relay) descriptorRemoved(w http.ResponseWriter, r *http.Request) {
	var d custom.Descriptor
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.tracker.OnDescriptorRemoved(d)
	w.WriteHeader(http.StatusNoContent)
}

func (h *relay) descriptorChanged(w http.ResponseWriter, r *http.Request) {
	var change descriptorChange
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.tracker.OnDescriptorFieldChanged(change.Descriptor, change.Field, change.OldValue); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *relay) parameters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listener.DebugEntries(h.tracker.BaseParameters()))
}

func (h *relay) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tracker.Stats())
}
