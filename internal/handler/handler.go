// Package handler exposes the REST surface over the storage adapter.
// Every non-2xx response carries a JSON body with a "message" field.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"talentbridge/internal/storage"
	"talentbridge/pkg/logger"
	"talentbridge/socket"
)

// Handler bundles the storage adapter with the optional change feed.
type Handler struct {
	Store *storage.Adapter
	Feed  socket.Publisher
}

func New(store *storage.Adapter, feed socket.Publisher) *Handler {
	return &Handler{Store: store, Feed: feed}
}

// publish emits a change event when a feed is wired; payload may be nil.
func (h *Handler) publish(eventType, collection, id string, payload any) {
	if h.Feed == nil {
		return
	}
	var raw json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			logger.Sugar.Errorf("Failed to encode %s event payload: %v", collection, err)
		} else {
			raw = encoded
		}
	}
	h.Feed.Publish(socket.Event{Type: eventType, Collection: collection, ID: id, Payload: raw})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// boolParam returns nil when the query parameter is absent or unparsable, so
// a bogus value behaves like an omitted filter.
func boolParam(r *http.Request, name string) *bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

func intParam(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
