package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"talentbridge/internal/storage"
	"talentbridge/pkg/logger"
	"talentbridge/socket"
)

var (
	adImpressionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ad_impressions_total",
		Help: "Advertisement impressions recorded through the API.",
	})
	adClicksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ad_clicks_total",
		Help: "Advertisement clicks recorded through the API.",
	})
)

func init() {
	prometheus.MustRegister(adImpressionsTotal, adClicksTotal)
}

// ListAdvertisements serves placements for the public site: only ads that are
// active and inside their display window.
func (h *Handler) ListAdvertisements(w http.ResponseWriter, r *http.Request) {
	active := true
	filters := storage.AdvertisementFilters{
		Position: r.URL.Query().Get("position"),
		IsActive: &active,
		Limit:    intParam(r, "limit"),
	}

	ads, err := h.Store.GetAdvertisements(filters)
	if err != nil {
		logger.Sugar.Errorf("Failed to list advertisements: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch advertisements")
		return
	}
	writeJSON(w, http.StatusOK, ads)
}

func (h *Handler) RecordAdImpression(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Store.IncrementAdImpressions(id); err != nil {
		logger.Sugar.Errorf("Failed to record impression for ad %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to record impression")
		return
	}
	adImpressionsTotal.Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RecordAdClick(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Store.IncrementAdClicks(id); err != nil {
		logger.Sugar.Errorf("Failed to record click for ad %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to record click")
		return
	}
	adClicksTotal.Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AdminListAdvertisements(w http.ResponseWriter, r *http.Request) {
	filters := storage.AdvertisementFilters{
		Position: r.URL.Query().Get("position"),
		IsActive: boolParam(r, "isActive"),
		Limit:    intParam(r, "limit"),
	}

	ads, err := h.Store.GetAdvertisements(filters)
	if err != nil {
		logger.Sugar.Errorf("Failed to list advertisements: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch advertisements")
		return
	}
	writeJSON(w, http.StatusOK, ads)
}

func (h *Handler) AdminCreateAdvertisement(w http.ResponseWriter, r *http.Request) {
	var in storage.AdvertisementInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	ad, err := h.Store.CreateAdvertisement(in)
	if err != nil {
		logger.Sugar.Errorf("Failed to create advertisement: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create advertisement")
		return
	}
	h.publish(socket.EventCreated, "advertisements", ad.ID, ad)
	writeJSON(w, http.StatusCreated, ad)
}

func (h *Handler) AdminUpdateAdvertisement(w http.ResponseWriter, r *http.Request) {
	var patch storage.AdvertisementPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := r.PathValue("id")
	ad, err := h.Store.UpdateAdvertisement(id, patch)
	if err != nil {
		logger.Sugar.Errorf("Failed to update advertisement %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to update advertisement")
		return
	}
	if ad == nil {
		writeError(w, http.StatusNotFound, "Advertisement not found")
		return
	}
	h.publish(socket.EventUpdated, "advertisements", ad.ID, ad)
	writeJSON(w, http.StatusOK, ad)
}

func (h *Handler) AdminDeleteAdvertisement(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Store.DeleteAdvertisement(id); err != nil {
		logger.Sugar.Errorf("Failed to delete advertisement %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete advertisement")
		return
	}
	h.publish(socket.EventDeleted, "advertisements", id, nil)
	w.WriteHeader(http.StatusNoContent)
}

// AdminDeleteExpiredAdvertisements removes every ad whose end date has
// passed and reports how many were dropped. The cron cleanup calls the same
// adapter method on its schedule.
func (h *Handler) AdminDeleteExpiredAdvertisements(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Store.DeleteExpiredAdvertisements()
	if err != nil {
		logger.Sugar.Errorf("Failed to delete expired advertisements: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete expired advertisements")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}
