package handler

import (
	"net/http"

	"talentbridge/internal/storage"
	"talentbridge/pkg/logger"
	"talentbridge/socket"
)

// ListResources serves the public catalogue. Visitors only ever see
// published entries, whatever the query string claims.
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	published := true
	filters := storage.ResourceFilters{
		Type:        q.Get("type"),
		Category:    q.Get("category"),
		Country:     q.Get("country"),
		IsPublished: &published,
		IsFeatured:  boolParam(r, "isFeatured"),
		Limit:       intParam(r, "limit"),
	}

	resources, err := h.Store.GetResources(filters)
	if err != nil {
		logger.Sugar.Errorf("Failed to list resources: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch resources")
		return
	}
	writeJSON(w, http.StatusOK, resources)
}

// GetResourceBySlug serves one published resource by its URL slug.
func (h *Handler) GetResourceBySlug(w http.ResponseWriter, r *http.Request) {
	resource, err := h.Store.GetResourceBySlug(r.PathValue("slug"))
	if err != nil {
		logger.Sugar.Errorf("Failed to fetch resource: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch resource")
		return
	}
	if resource == nil {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}
	writeJSON(w, http.StatusOK, resource)
}

// AdminListResources lists everything, drafts included.
func (h *Handler) AdminListResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := storage.ResourceFilters{
		Type:        q.Get("type"),
		Category:    q.Get("category"),
		IsPublished: boolParam(r, "isPublished"),
		Limit:       intParam(r, "limit"),
	}

	resources, err := h.Store.GetResources(filters)
	if err != nil {
		logger.Sugar.Errorf("Failed to list resources: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch resources")
		return
	}
	writeJSON(w, http.StatusOK, resources)
}

func (h *Handler) AdminCreateResource(w http.ResponseWriter, r *http.Request) {
	var in storage.ResourceInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Title == "" || in.Content == "" {
		writeError(w, http.StatusBadRequest, "Title and content are required")
		return
	}
	if !storage.ResourceTypeValid(in.Type) {
		writeError(w, http.StatusBadRequest, "Invalid resource type")
		return
	}

	resource, err := h.Store.CreateResource(in)
	if err != nil {
		logger.Sugar.Errorf("Failed to create resource: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create resource")
		return
	}
	h.publish(socket.EventCreated, "resources", resource.ID, resource)
	writeJSON(w, http.StatusCreated, resource)
}

func (h *Handler) AdminUpdateResource(w http.ResponseWriter, r *http.Request) {
	var patch storage.ResourcePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.Type != nil && !storage.ResourceTypeValid(*patch.Type) {
		writeError(w, http.StatusBadRequest, "Invalid resource type")
		return
	}

	id := r.PathValue("id")
	resource, err := h.Store.UpdateResource(id, patch)
	if err != nil {
		logger.Sugar.Errorf("Failed to update resource %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to update resource")
		return
	}
	if resource == nil {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}
	h.publish(socket.EventUpdated, "resources", resource.ID, resource)
	writeJSON(w, http.StatusOK, resource)
}

func (h *Handler) AdminDeleteResource(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Store.DeleteResource(id); err != nil {
		logger.Sugar.Errorf("Failed to delete resource %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete resource")
		return
	}
	h.publish(socket.EventDeleted, "resources", id, nil)
	w.WriteHeader(http.StatusNoContent)
}
