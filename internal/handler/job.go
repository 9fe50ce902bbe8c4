package handler

import (
	"errors"
	"net/http"

	"talentbridge/internal/storage"
	"talentbridge/middleware"
	"talentbridge/pkg/logger"
	"talentbridge/socket"
)

type jobListResponse struct {
	Jobs  []storage.Job `json:"jobs"`
	Total int           `json:"total"`
}

func jobFiltersFromQuery(r *http.Request) storage.JobFilters {
	q := r.URL.Query()
	return storage.JobFilters{
		Search:          q.Get("search"),
		Country:         q.Get("country"),
		ExcludeCountry:  q.Get("excludeCountry"),
		Industry:        q.Get("industry"),
		Category:        q.Get("category"),
		ExperienceLevel: q.Get("experienceLevel"),
		RemoteType:      q.Get("remoteType"),
		VisaSupport:     boolParam(r, "visaSupport"),
		IsFeatured:      boolParam(r, "featured"),
		Sort:            q.Get("sort"),
		Limit:           intParam(r, "limit"),
		Offset:          intParam(r, "offset"),
	}
}

// ListJobs serves the public job board: published postings only, with the
// pre-pagination total so clients can render page counts.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	filters := jobFiltersFromQuery(r)
	published := true
	filters.IsPublished = &published

	jobs, total, err := h.Store.GetJobs(filters)
	if err != nil {
		logger.Sugar.Errorf("Failed to list jobs: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch jobs")
		return
	}
	writeJSON(w, http.StatusOK, jobListResponse{Jobs: jobs, Total: total})
}

func (h *Handler) FeaturedJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Store.GetFeaturedJobs(intParam(r, "limit"))
	if err != nil {
		logger.Sugar.Errorf("Failed to list featured jobs: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch featured jobs")
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.Store.GetJob(r.PathValue("id"))
	if err != nil {
		logger.Sugar.Errorf("Failed to fetch job: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch job")
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// AdminListJobs returns drafts as well; the status filter stays available
// through the isPublished parameter.
func (h *Handler) AdminListJobs(w http.ResponseWriter, r *http.Request) {
	filters := jobFiltersFromQuery(r)
	filters.IsPublished = boolParam(r, "isPublished")

	jobs, total, err := h.Store.GetJobs(filters)
	if err != nil {
		logger.Sugar.Errorf("Failed to list jobs: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch jobs")
		return
	}
	writeJSON(w, http.StatusOK, jobListResponse{Jobs: jobs, Total: total})
}

func (h *Handler) AdminCreateJob(w http.ResponseWriter, r *http.Request) {
	var in storage.JobInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	job, err := h.Store.CreateJob(in)
	if err != nil {
		logger.Sugar.Errorf("Failed to create job: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create job")
		return
	}
	h.publish(socket.EventCreated, "jobs", job.ID, job)
	writeJSON(w, http.StatusCreated, job)
}

func (h *Handler) AdminUpdateJob(w http.ResponseWriter, r *http.Request) {
	var patch storage.JobPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := r.PathValue("id")
	job, err := h.Store.UpdateJob(id, patch)
	if err != nil {
		logger.Sugar.Errorf("Failed to update job %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to update job")
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	h.publish(socket.EventUpdated, "jobs", job.ID, job)
	writeJSON(w, http.StatusOK, job)
}

func (h *Handler) AdminDeleteJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Store.DeleteJob(id); err != nil {
		logger.Sugar.Errorf("Failed to delete job %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete job")
		return
	}
	h.publish(socket.EventDeleted, "jobs", id, nil)
	w.WriteHeader(http.StatusNoContent)
}

// --- applications ---

func (h *Handler) ApplyToJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	job, err := h.Store.GetJob(jobID)
	if err != nil {
		logger.Sugar.Errorf("Failed to fetch job %s: %v", jobID, err)
		writeError(w, http.StatusInternalServerError, "Failed to submit application")
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	var in storage.JobApplicationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	in.JobID = jobID
	in.UserID = middleware.UserID(r)

	app, err := h.Store.CreateJobApplication(in)
	if err != nil {
		logger.Sugar.Errorf("Failed to create application for job %s: %v", jobID, err)
		writeError(w, http.StatusInternalServerError, "Failed to submit application")
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *Handler) AdminListApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	apps, err := h.Store.GetJobApplications(q.Get("jobId"), q.Get("userId"))
	if err != nil {
		logger.Sugar.Errorf("Failed to list applications: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch applications")
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *Handler) AdminUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil || body.Status == "" {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}

	id := r.PathValue("id")
	app, err := h.Store.UpdateJobApplicationStatus(id, body.Status)
	if err != nil {
		logger.Sugar.Errorf("Failed to update application %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to update application")
		return
	}
	if app == nil {
		writeError(w, http.StatusNotFound, "Application not found")
		return
	}
	writeJSON(w, http.StatusOK, app)
}

// --- saved jobs ---

func (h *Handler) SaveJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	saved, err := h.Store.SaveJob(middleware.UserID(r), jobID)
	if errors.Is(err, storage.ErrJobAlreadySaved) {
		writeError(w, http.StatusConflict, "Job already saved")
		return
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to save job %s: %v", jobID, err)
		writeError(w, http.StatusInternalServerError, "Failed to save job")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) UnsaveJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if err := h.Store.UnsaveJob(middleware.UserID(r), jobID); err != nil {
		logger.Sugar.Errorf("Failed to unsave job %s: %v", jobID, err)
		writeError(w, http.StatusInternalServerError, "Failed to unsave job")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) IsJobSaved(w http.ResponseWriter, r *http.Request) {
	saved, err := h.Store.IsJobSaved(middleware.UserID(r), r.PathValue("id"))
	if err != nil {
		logger.Sugar.Errorf("Failed to check saved job: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to check saved job")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

func (h *Handler) SavedJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Store.GetSavedJobs(middleware.UserID(r))
	if err != nil {
		logger.Sugar.Errorf("Failed to list saved jobs: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch saved jobs")
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}
