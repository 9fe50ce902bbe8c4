package handler

import (
	"net/http"

	"talentbridge/internal/storage"
	"talentbridge/pkg/logger"
	"talentbridge/socket"
)

// ListTestimonials serves visible testimonials; hidden entries never reach
// the public site.
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	visible := true
	filters := storage.TestimonialFilters{
		ServiceType: r.URL.Query().Get("serviceType"),
		IsVisible:   &visible,
		Limit:       intParam(r, "limit"),
	}

	testimonials, err := h.Store.GetTestimonials(filters)
	if err != nil {
		logger.Sugar.Errorf("Failed to list testimonials: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch testimonials")
		return
	}
	writeJSON(w, http.StatusOK, testimonials)
}

func (h *Handler) AdminListTestimonials(w http.ResponseWriter, r *http.Request) {
	filters := storage.TestimonialFilters{
		ServiceType: r.URL.Query().Get("serviceType"),
		IsVisible:   boolParam(r, "isVisible"),
		Limit:       intParam(r, "limit"),
	}

	testimonials, err := h.Store.GetTestimonials(filters)
	if err != nil {
		logger.Sugar.Errorf("Failed to list testimonials: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch testimonials")
		return
	}
	writeJSON(w, http.StatusOK, testimonials)
}

func (h *Handler) AdminCreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var in storage.TestimonialInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Name == "" || in.Content == "" {
		writeError(w, http.StatusBadRequest, "Name and content are required")
		return
	}

	testimonial, err := h.Store.CreateTestimonial(in)
	if err != nil {
		logger.Sugar.Errorf("Failed to create testimonial: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create testimonial")
		return
	}
	h.publish(socket.EventCreated, "testimonials", testimonial.ID, testimonial)
	writeJSON(w, http.StatusCreated, testimonial)
}

func (h *Handler) AdminUpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	var patch storage.TestimonialPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := r.PathValue("id")
	testimonial, err := h.Store.UpdateTestimonial(id, patch)
	if err != nil {
		logger.Sugar.Errorf("Failed to update testimonial %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to update testimonial")
		return
	}
	if testimonial == nil {
		writeError(w, http.StatusNotFound, "Testimonial not found")
		return
	}
	h.publish(socket.EventUpdated, "testimonials", testimonial.ID, testimonial)
	writeJSON(w, http.StatusOK, testimonial)
}

func (h *Handler) AdminDeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Store.DeleteTestimonial(id); err != nil {
		logger.Sugar.Errorf("Failed to delete testimonial %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete testimonial")
		return
	}
	h.publish(socket.EventDeleted, "testimonials", id, nil)
	w.WriteHeader(http.StatusNoContent)
}
