package storage

import (
	"fmt"
	"time"

	"talentbridge/internal/docstore"
)

// Collection names in the document store.
const (
	colUsers        = "users"
	colCompanies    = "companies"
	colJobs         = "jobs"
	colApplications = "job_applications"
	colTestimonials = "testimonials"
	colForms        = "form_submissions"
	colResources    = "resources"
	colAds          = "advertisements"
	colSavedJobs    = "saved_jobs"
)

// The canonical persisted field naming is snake_case. Collections written by
// earlier versions of the site may still hold camelCase spellings, so every
// read goes through these helpers, which take the canonical key first and the
// legacy spelling as fallback. Writes emit the canonical key only.

func fieldString(doc docstore.Document, keys ...string) string {
	for _, k := range keys {
		if v, ok := doc[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func fieldBool(doc docstore.Document, def bool, keys ...string) bool {
	for _, k := range keys {
		if v, ok := doc[k].(bool); ok {
			return v
		}
	}
	return def
}

func fieldInt(doc docstore.Document, keys ...string) int {
	for _, k := range keys {
		switch v := doc[k].(type) {
		case float64:
			return int(v)
		case int:
			return v
		}
	}
	return 0
}

// putIf writes only non-empty values, keeping optional fields out of the
// persisted document.
func putIf(doc docstore.Document, key, value string) {
	if value != "" {
		doc[key] = value
	}
}

// timeLayouts the store accepts for date fields; legacy records used both
// full timestamps and bare dates.
var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

func parseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable time %q", value)
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// --- decoders ---

func resourceFromDoc(doc docstore.Document) *Resource {
	if doc == nil {
		return nil
	}
	return &Resource{
		ID:            fieldString(doc, "id"),
		Title:         fieldString(doc, "title"),
		Slug:          fieldString(doc, "slug"),
		Excerpt:       fieldString(doc, "excerpt"),
		Content:       fieldString(doc, "content"),
		Type:          fieldString(doc, "type"),
		Category:      fieldString(doc, "category"),
		Country:       fieldString(doc, "country"),
		Tags:          fieldString(doc, "tags"),
		FeaturedImage: fieldString(doc, "featured_image", "featuredImage"),
		IsPublished:   fieldBool(doc, false, "is_published", "isPublished"),
		IsFeatured:    fieldBool(doc, false, "is_featured", "isFeatured"),
		AuthorID:      fieldString(doc, "author_id", "authorId"),
		PublishedAt:   fieldString(doc, "published_at", "publishedAt"),
		CreatedAt:     fieldString(doc, "created_at", "createdAt"),
		UpdatedAt:     fieldString(doc, "updated_at", "updatedAt"),
	}
}

func advertisementFromDoc(doc docstore.Document) *Advertisement {
	if doc == nil {
		return nil
	}
	return &Advertisement{
		ID:              fieldString(doc, "id"),
		Title:           fieldString(doc, "title"),
		Position:        fieldString(doc, "position"),
		LinkURL:         fieldString(doc, "link_url", "linkUrl"),
		FilePath:        fieldString(doc, "file_path", "filePath"),
		FileType:        fieldString(doc, "file_type", "fileType"),
		IsActive:        fieldBool(doc, false, "is_active", "isActive"),
		Priority:        fieldInt(doc, "priority"),
		ClickCount:      fieldInt(doc, "click_count", "clickCount"),
		ImpressionCount: fieldInt(doc, "impression_count", "impressionCount"),
		StartDate:       fieldString(doc, "start_date", "startDate"),
		EndDate:         fieldString(doc, "end_date", "endDate"),
		CreatedAt:       fieldString(doc, "created_at", "createdAt"),
		UpdatedAt:       fieldString(doc, "updated_at", "updatedAt"),
	}
}

func jobFromDoc(doc docstore.Document) *Job {
	if doc == nil {
		return nil
	}
	return &Job{
		ID:              fieldString(doc, "id"),
		Title:           fieldString(doc, "title"),
		Description:     fieldString(doc, "description"),
		Location:        fieldString(doc, "location"),
		Country:         fieldString(doc, "country"),
		Industry:        fieldString(doc, "industry"),
		Category:        fieldString(doc, "category"),
		ExperienceLevel: fieldString(doc, "experience_level", "experienceLevel"),
		RemoteType:      fieldString(doc, "remote_type", "remoteType"),
		SalaryMin:       fieldInt(doc, "salary_min", "salaryMin"),
		SalaryMax:       fieldInt(doc, "salary_max", "salaryMax"),
		VisaSupport:     fieldBool(doc, false, "visa_support", "visaSupport"),
		Featured:        fieldBool(doc, false, "featured"),
		Status:          fieldString(doc, "status"),
		CompanyID:       fieldString(doc, "company_id", "companyId"),
		PostedAt:        fieldString(doc, "posted_at", "postedAt"),
		CreatedAt:       fieldString(doc, "created_at", "createdAt"),
		UpdatedAt:       fieldString(doc, "updated_at", "updatedAt"),
	}
}

func companyFromDoc(doc docstore.Document) *Company {
	if doc == nil {
		return nil
	}
	return &Company{
		ID:          fieldString(doc, "id"),
		Name:        fieldString(doc, "name"),
		Website:     fieldString(doc, "website"),
		Logo:        fieldString(doc, "logo"),
		Location:    fieldString(doc, "location"),
		Industry:    fieldString(doc, "industry"),
		Description: fieldString(doc, "description"),
		CreatedAt:   fieldString(doc, "created_at", "createdAt"),
		UpdatedAt:   fieldString(doc, "updated_at", "updatedAt"),
	}
}

func userFromDoc(doc docstore.Document) *User {
	if doc == nil {
		return nil
	}
	return &User{
		ID:        fieldString(doc, "id"),
		Username:  fieldString(doc, "username"),
		Email:     fieldString(doc, "email"),
		FirstName: fieldString(doc, "first_name", "firstName"),
		LastName:  fieldString(doc, "last_name", "lastName"),
		Role:      fieldString(doc, "role"),
		CreatedAt: fieldString(doc, "created_at", "createdAt"),
		UpdatedAt: fieldString(doc, "updated_at", "updatedAt"),
	}
}

func testimonialFromDoc(doc docstore.Document) *Testimonial {
	if doc == nil {
		return nil
	}
	return &Testimonial{
		ID:          fieldString(doc, "id"),
		Name:        fieldString(doc, "name"),
		Country:     fieldString(doc, "country"),
		Position:    fieldString(doc, "position"),
		Content:     fieldString(doc, "content"),
		Rating:      fieldInt(doc, "rating"),
		ServiceType: fieldString(doc, "service_type", "serviceType"),
		IsVerified:  fieldBool(doc, false, "is_verified", "isVerified"),
		IsVisible:   fieldBool(doc, true, "is_visible", "isVisible"),
		CreatedAt:   fieldString(doc, "created_at", "createdAt"),
		UpdatedAt:   fieldString(doc, "updated_at", "updatedAt"),
	}
}

func formSubmissionFromDoc(doc docstore.Document) *FormSubmission {
	if doc == nil {
		return nil
	}
	return &FormSubmission{
		ID:          fieldString(doc, "id"),
		FormType:    fieldString(doc, "form_type", "formType"),
		Name:        fieldString(doc, "name"),
		Email:       fieldString(doc, "email"),
		Phone:       fieldString(doc, "phone"),
		Message:     fieldString(doc, "message"),
		Status:      fieldString(doc, "status"),
		Notes:       fieldString(doc, "notes"),
		SubmittedAt: fieldString(doc, "submitted_at", "submittedAt"),
		CreatedAt:   fieldString(doc, "created_at", "createdAt"),
		UpdatedAt:   fieldString(doc, "updated_at", "updatedAt"),
	}
}

func applicationFromDoc(doc docstore.Document) *JobApplication {
	if doc == nil {
		return nil
	}
	return &JobApplication{
		ID:          fieldString(doc, "id"),
		JobID:       fieldString(doc, "job_id", "jobId"),
		UserID:      fieldString(doc, "user_id", "userId"),
		Status:      fieldString(doc, "status"),
		CoverLetter: fieldString(doc, "cover_letter", "coverLetter"),
		ResumePath:  fieldString(doc, "resume_path", "resumePath"),
		Notes:       fieldString(doc, "notes"),
		AppliedAt:   fieldString(doc, "applied_at", "appliedAt"),
		CreatedAt:   fieldString(doc, "created_at", "createdAt"),
		UpdatedAt:   fieldString(doc, "updated_at", "updatedAt"),
	}
}

func savedJobFromDoc(doc docstore.Document) *SavedJob {
	if doc == nil {
		return nil
	}
	return &SavedJob{
		ID:      fieldString(doc, "id"),
		UserID:  fieldString(doc, "user_id", "userId"),
		JobID:   fieldString(doc, "job_id", "jobId"),
		SavedAt: fieldString(doc, "saved_at", "savedAt"),
	}
}

// --- patch encoders ---

func resourcePatchDoc(p ResourcePatch) docstore.Document {
	doc := docstore.Document{}
	if p.Title != nil {
		doc["title"] = *p.Title
	}
	if p.Slug != nil {
		doc["slug"] = *p.Slug
	}
	if p.Excerpt != nil {
		doc["excerpt"] = *p.Excerpt
	}
	if p.Content != nil {
		doc["content"] = *p.Content
	}
	if p.Type != nil {
		doc["type"] = *p.Type
	}
	if p.Category != nil {
		doc["category"] = *p.Category
	}
	if p.Country != nil {
		doc["country"] = *p.Country
	}
	if p.Tags != nil {
		doc["tags"] = *p.Tags
	}
	if p.FeaturedImage != nil {
		doc["featured_image"] = *p.FeaturedImage
	}
	if p.IsPublished != nil {
		doc["is_published"] = *p.IsPublished
	}
	if p.IsFeatured != nil {
		doc["is_featured"] = *p.IsFeatured
	}
	if p.PublishedAt != nil {
		doc["published_at"] = *p.PublishedAt
	}
	return doc
}

func advertisementPatchDoc(p AdvertisementPatch) docstore.Document {
	doc := docstore.Document{}
	if p.Title != nil {
		doc["title"] = *p.Title
	}
	if p.Position != nil {
		doc["position"] = *p.Position
	}
	if p.LinkURL != nil {
		doc["link_url"] = *p.LinkURL
	}
	if p.FilePath != nil {
		doc["file_path"] = *p.FilePath
	}
	if p.FileType != nil {
		doc["file_type"] = *p.FileType
	}
	if p.IsActive != nil {
		doc["is_active"] = *p.IsActive
	}
	if p.Priority != nil {
		doc["priority"] = float64(*p.Priority)
	}
	if p.StartDate != nil {
		doc["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		doc["end_date"] = *p.EndDate
	}
	return doc
}

func testimonialPatchDoc(p TestimonialPatch) docstore.Document {
	doc := docstore.Document{}
	if p.Name != nil {
		doc["name"] = *p.Name
	}
	if p.Country != nil {
		doc["country"] = *p.Country
	}
	if p.Position != nil {
		doc["position"] = *p.Position
	}
	if p.Content != nil {
		doc["content"] = *p.Content
	}
	if p.Rating != nil {
		doc["rating"] = float64(*p.Rating)
	}
	if p.ServiceType != nil {
		doc["service_type"] = *p.ServiceType
	}
	if p.IsVerified != nil {
		doc["is_verified"] = *p.IsVerified
	}
	if p.IsVisible != nil {
		doc["is_visible"] = *p.IsVisible
	}
	return doc
}

func jobPatchDoc(p JobPatch) docstore.Document {
	doc := docstore.Document{}
	if p.Title != nil {
		doc["title"] = *p.Title
	}
	if p.Description != nil {
		doc["description"] = *p.Description
	}
	if p.Location != nil {
		doc["location"] = *p.Location
	}
	if p.Country != nil {
		doc["country"] = *p.Country
	}
	if p.Industry != nil {
		doc["industry"] = *p.Industry
	}
	if p.Category != nil {
		doc["category"] = *p.Category
	}
	if p.ExperienceLevel != nil {
		doc["experience_level"] = *p.ExperienceLevel
	}
	if p.RemoteType != nil {
		doc["remote_type"] = *p.RemoteType
	}
	if p.SalaryMin != nil {
		doc["salary_min"] = float64(*p.SalaryMin)
	}
	if p.SalaryMax != nil {
		doc["salary_max"] = float64(*p.SalaryMax)
	}
	if p.VisaSupport != nil {
		doc["visa_support"] = *p.VisaSupport
	}
	if p.Featured != nil {
		doc["featured"] = *p.Featured
	}
	if p.Status != nil {
		doc["status"] = *p.Status
	}
	if p.CompanyID != nil {
		doc["company_id"] = *p.CompanyID
	}
	if p.PostedAt != nil {
		doc["posted_at"] = *p.PostedAt
	}
	return doc
}

func companyPatchDoc(p CompanyPatch) docstore.Document {
	doc := docstore.Document{}
	if p.Name != nil {
		doc["name"] = *p.Name
	}
	if p.Website != nil {
		doc["website"] = *p.Website
	}
	if p.Logo != nil {
		doc["logo"] = *p.Logo
	}
	if p.Location != nil {
		doc["location"] = *p.Location
	}
	if p.Industry != nil {
		doc["industry"] = *p.Industry
	}
	if p.Description != nil {
		doc["description"] = *p.Description
	}
	return doc
}
