package storage

import (
	"sort"
	"strings"
	"time"

	"talentbridge/internal/docstore"
)

// GetJobs applies every set filter conjunctively, attaches the company to
// each row, sorts, and paginates. The returned total counts matches before
// pagination. The company joins are point lookups per row, which is fine
// against an in-process store.
func (a *Adapter) GetJobs(f JobFilters) ([]Job, int, error) {
	docs, err := a.db.List(colJobs)
	if err != nil {
		return nil, 0, err
	}
	jobs := make([]Job, 0, len(docs))
	for _, d := range docs {
		jobs = append(jobs, *jobFromDoc(d))
	}

	if f.Search != "" {
		term := strings.ToLower(f.Search)
		jobs = filterJobs(jobs, func(j Job) bool {
			return strings.Contains(strings.ToLower(j.Title), term) ||
				strings.Contains(strings.ToLower(j.Description), term) ||
				strings.Contains(strings.ToLower(j.Location), term)
		})
	}
	if f.Country != "" {
		jobs = filterJobs(jobs, func(j Job) bool { return j.Country == f.Country })
	} else if f.ExcludeCountry != "" {
		jobs = filterJobs(jobs, func(j Job) bool { return j.Country != f.ExcludeCountry })
	}
	if f.Industry != "" {
		jobs = filterJobs(jobs, func(j Job) bool { return j.Industry == f.Industry })
	}
	if f.Category != "" {
		jobs = filterJobs(jobs, func(j Job) bool { return j.Category == f.Category })
	}
	if f.ExperienceLevel != "" {
		jobs = filterJobs(jobs, func(j Job) bool { return j.ExperienceLevel == f.ExperienceLevel })
	}
	if f.RemoteType != "" {
		jobs = filterJobs(jobs, func(j Job) bool { return j.RemoteType == f.RemoteType })
	}
	if f.VisaSupport != nil {
		jobs = filterJobs(jobs, func(j Job) bool { return j.VisaSupport == *f.VisaSupport })
	}
	if f.IsFeatured != nil {
		jobs = filterJobs(jobs, func(j Job) bool { return j.Featured == *f.IsFeatured })
	}
	if f.IsPublished != nil {
		jobs = filterJobs(jobs, func(j Job) bool { return (j.Status == JobStatusPublished) == *f.IsPublished })
	}

	for i := range jobs {
		if jobs[i].CompanyID != "" {
			company, err := a.GetCompany(jobs[i].CompanyID)
			if err != nil {
				return nil, 0, err
			}
			jobs[i].Company = company
		}
	}

	switch f.Sort {
	case "date":
		sort.SliceStable(jobs, func(i, k int) bool {
			return jobTime(jobs[i]).After(jobTime(jobs[k]))
		})
	case "salary":
		sort.SliceStable(jobs, func(i, k int) bool {
			return jobs[i].SalaryMax > jobs[k].SalaryMax
		})
	}

	total := len(jobs)
	if f.Offset > 0 || f.Limit > 0 {
		offset := f.Offset
		limit := f.Limit
		if limit <= 0 {
			limit = 20
		}
		if offset > len(jobs) {
			offset = len(jobs)
		}
		end := offset + limit
		if end > len(jobs) {
			end = len(jobs)
		}
		jobs = jobs[offset:end]
	}
	return jobs, total, nil
}

func (a *Adapter) GetJob(id string) (*Job, error) {
	doc, err := a.db.FindByID(colJobs, id)
	if err != nil {
		return nil, err
	}
	job := jobFromDoc(doc)
	if job != nil && job.CompanyID != "" {
		company, err := a.GetCompany(job.CompanyID)
		if err != nil {
			return nil, err
		}
		job.Company = company
	}
	return job, nil
}

func (a *Adapter) GetFeaturedJobs(limit int) ([]Job, error) {
	docs, err := a.db.Find(colJobs, docstore.Document{"featured": true, "status": JobStatusPublished})
	if err != nil {
		return nil, err
	}
	jobs := make([]Job, 0, len(docs))
	for _, d := range docs {
		job := *jobFromDoc(d)
		if job.CompanyID != "" {
			company, err := a.GetCompany(job.CompanyID)
			if err != nil {
				return nil, err
			}
			job.Company = company
		}
		jobs = append(jobs, job)
	}
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

// CreateJob defaults status to published, featured to false and stamps
// posted_at.
func (a *Adapter) CreateJob(in JobInput) (*Job, error) {
	id := in.ID
	if id == "" {
		id = newID()
	}
	status := in.Status
	if status == "" {
		status = JobStatusPublished
	}
	featured := false
	if in.Featured != nil {
		featured = *in.Featured
	}
	postedAt := in.PostedAt
	if postedAt == "" {
		postedAt = nowISO()
	}

	doc := docstore.Document{
		"id":        id,
		"title":     in.Title,
		"status":    status,
		"featured":  featured,
		"posted_at": postedAt,
	}
	putIf(doc, "description", in.Description)
	putIf(doc, "location", in.Location)
	putIf(doc, "country", in.Country)
	putIf(doc, "industry", in.Industry)
	putIf(doc, "category", in.Category)
	putIf(doc, "experience_level", in.ExperienceLevel)
	putIf(doc, "remote_type", in.RemoteType)
	putIf(doc, "company_id", in.CompanyID)
	if in.SalaryMin > 0 {
		doc["salary_min"] = float64(in.SalaryMin)
	}
	if in.SalaryMax > 0 {
		doc["salary_max"] = float64(in.SalaryMax)
	}
	if in.VisaSupport {
		doc["visa_support"] = true
	}

	created, err := a.db.Create(colJobs, doc)
	if err != nil {
		return nil, err
	}
	return jobFromDoc(created), nil
}

func (a *Adapter) UpdateJob(id string, patch JobPatch) (*Job, error) {
	updated, err := a.db.Update(colJobs, id, jobPatchDoc(patch))
	if err != nil {
		return nil, err
	}
	return jobFromDoc(updated), nil
}

func (a *Adapter) DeleteJob(id string) error {
	return a.db.Delete(colJobs, id)
}

// --- applications ---

func (a *Adapter) GetJobApplications(jobID, userID string) ([]JobApplication, error) {
	docs, err := a.db.List(colApplications)
	if err != nil {
		return nil, err
	}
	out := make([]JobApplication, 0, len(docs))
	for _, d := range docs {
		app := *applicationFromDoc(d)
		if jobID != "" && app.JobID != jobID {
			continue
		}
		if userID != "" && app.UserID != userID {
			continue
		}
		if err := a.attachApplicationRefs(&app); err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, nil
}

func (a *Adapter) GetJobApplication(id string) (*JobApplication, error) {
	doc, err := a.db.FindByID(colApplications, id)
	if err != nil {
		return nil, err
	}
	app := applicationFromDoc(doc)
	if app == nil {
		return nil, nil
	}
	if err := a.attachApplicationRefs(app); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *Adapter) attachApplicationRefs(app *JobApplication) error {
	if app.JobID != "" {
		job, err := a.GetJob(app.JobID)
		if err != nil {
			return err
		}
		app.Job = job
	}
	if app.UserID != "" {
		user, err := a.GetUser(app.UserID)
		if err != nil {
			return err
		}
		app.User = user
	}
	return nil
}

func (a *Adapter) CreateJobApplication(in JobApplicationInput) (*JobApplication, error) {
	id := in.ID
	if id == "" {
		id = newID()
	}
	status := in.Status
	if status == "" {
		status = "pending"
	}
	appliedAt := in.AppliedAt
	if appliedAt == "" {
		appliedAt = nowISO()
	}
	doc := docstore.Document{
		"id":         id,
		"job_id":     in.JobID,
		"user_id":    in.UserID,
		"status":     status,
		"applied_at": appliedAt,
	}
	putIf(doc, "cover_letter", in.CoverLetter)
	putIf(doc, "resume_path", in.ResumePath)

	created, err := a.db.Create(colApplications, doc)
	if err != nil {
		return nil, err
	}
	return applicationFromDoc(created), nil
}

func (a *Adapter) UpdateJobApplicationStatus(id, status string) (*JobApplication, error) {
	updated, err := a.db.Update(colApplications, id, docstore.Document{"status": status})
	if err != nil {
		return nil, err
	}
	return applicationFromDoc(updated), nil
}

// --- saved jobs ---

// findSavedJobs returns the decoded saved-job entries matching userID and,
// when non-empty, jobID.
func (a *Adapter) findSavedJobs(userID, jobID string) ([]SavedJob, error) {
	docs, err := a.db.List(colSavedJobs)
	if err != nil {
		return nil, err
	}
	out := make([]SavedJob, 0, len(docs))
	for _, d := range docs {
		entry := *savedJobFromDoc(d)
		if entry.UserID != userID {
			continue
		}
		if jobID != "" && entry.JobID != jobID {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// SaveJob raises ErrJobAlreadySaved when a save for the same user/job pair
// exists. The check and the create run under a per-pair lock so concurrent
// identical requests cannot both slip past the check.
func (a *Adapter) SaveJob(userID, jobID string) (*SavedJob, error) {
	key := userID + "\x00" + jobID
	a.savedJobs.lock(key)
	defer a.savedJobs.unlock(key)

	existing, err := a.findSavedJobs(userID, jobID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrJobAlreadySaved
	}
	created, err := a.db.Create(colSavedJobs, docstore.Document{
		"id":       newID(),
		"user_id":  userID,
		"job_id":   jobID,
		"saved_at": nowISO(),
	})
	if err != nil {
		return nil, err
	}
	return savedJobFromDoc(created), nil
}

func (a *Adapter) UnsaveJob(userID, jobID string) error {
	saved, err := a.findSavedJobs(userID, jobID)
	if err != nil {
		return err
	}
	for _, s := range saved {
		if err := a.db.Delete(colSavedJobs, s.ID); err != nil {
			return err
		}
	}
	return nil
}

// GetSavedJobs returns the user's saved jobs, each joined with its job record
// and stamped with when it was saved. Saves whose job has since been deleted
// are skipped.
func (a *Adapter) GetSavedJobs(userID string) ([]Job, error) {
	saved, err := a.findSavedJobs(userID, "")
	if err != nil {
		return nil, err
	}
	jobs := make([]Job, 0, len(saved))
	for _, entry := range saved {
		job, err := a.GetJob(entry.JobID)
		if err != nil {
			return nil, err
		}
		if job == nil {
			continue
		}
		job.SavedAt = entry.SavedAt
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

func (a *Adapter) IsJobSaved(userID, jobID string) (bool, error) {
	saved, err := a.findSavedJobs(userID, jobID)
	if err != nil {
		return false, err
	}
	return len(saved) > 0, nil
}

func filterJobs(jobs []Job, keep func(Job) bool) []Job {
	out := jobs[:0]
	for _, j := range jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	return out
}

func jobTime(j Job) time.Time {
	for _, raw := range []string{j.PostedAt, j.CreatedAt} {
		if raw == "" {
			continue
		}
		if t, err := parseTime(raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
