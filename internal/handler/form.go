package handler

import (
	"net/http"

	"talentbridge/internal/storage"
	"talentbridge/pkg/logger"
)

// SubmitForm accepts contact, consultation and newsletter submissions from
// the public site.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	var in storage.FormSubmission
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.FormType == "" {
		writeError(w, http.StatusBadRequest, "Form type is required")
		return
	}
	if in.Email == "" && in.Phone == "" {
		writeError(w, http.StatusBadRequest, "A contact email or phone is required")
		return
	}

	submission, err := h.Store.CreateFormSubmission(in)
	if err != nil {
		logger.Sugar.Errorf("Failed to store form submission: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to submit form")
		return
	}
	writeJSON(w, http.StatusCreated, submission)
}

func (h *Handler) AdminListFormSubmissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.Store.GetFormSubmissions(r.URL.Query().Get("formType"))
	if err != nil {
		logger.Sugar.Errorf("Failed to list form submissions: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch form submissions")
		return
	}
	writeJSON(w, http.StatusOK, submissions)
}

func (h *Handler) AdminUpdateFormSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := decodeJSON(r, &body); err != nil || body.Status == "" {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}

	id := r.PathValue("id")
	submission, err := h.Store.UpdateFormSubmissionStatus(id, body.Status, body.Notes)
	if err != nil {
		logger.Sugar.Errorf("Failed to update form submission %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to update form submission")
		return
	}
	if submission == nil {
		writeError(w, http.StatusNotFound, "Form submission not found")
		return
	}
	writeJSON(w, http.StatusOK, submission)
}
