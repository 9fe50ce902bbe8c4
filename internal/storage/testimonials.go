package storage

import "talentbridge/internal/docstore"

// GetTestimonials lists testimonials, visible-only unless the caller asks
// otherwise (the admin panel passes an explicit IsVisible to see hidden ones).
func (a *Adapter) GetTestimonials(f TestimonialFilters) ([]Testimonial, error) {
	visible := true
	if f.IsVisible != nil {
		visible = *f.IsVisible
	}

	docs, err := a.db.List(colTestimonials)
	if err != nil {
		return nil, err
	}
	out := make([]Testimonial, 0, len(docs))
	for _, d := range docs {
		tm := *testimonialFromDoc(d)
		if tm.IsVisible != visible {
			continue
		}
		if f.ServiceType != "" && tm.ServiceType != f.ServiceType {
			continue
		}
		out = append(out, tm)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (a *Adapter) GetTestimonial(id string) (*Testimonial, error) {
	doc, err := a.db.FindByID(colTestimonials, id)
	if err != nil {
		return nil, err
	}
	return testimonialFromDoc(doc), nil
}

// CreateTestimonial defaults to unverified and visible.
func (a *Adapter) CreateTestimonial(in TestimonialInput) (*Testimonial, error) {
	id := in.ID
	if id == "" {
		id = newID()
	}
	isVerified := false
	if in.IsVerified != nil {
		isVerified = *in.IsVerified
	}
	isVisible := true
	if in.IsVisible != nil {
		isVisible = *in.IsVisible
	}
	doc := docstore.Document{
		"id":          id,
		"name":        in.Name,
		"content":     in.Content,
		"is_verified": isVerified,
		"is_visible":  isVisible,
	}
	putIf(doc, "country", in.Country)
	putIf(doc, "position", in.Position)
	putIf(doc, "service_type", in.ServiceType)
	if in.Rating > 0 {
		doc["rating"] = float64(in.Rating)
	}

	created, err := a.db.Create(colTestimonials, doc)
	if err != nil {
		return nil, err
	}
	return testimonialFromDoc(created), nil
}

func (a *Adapter) UpdateTestimonial(id string, patch TestimonialPatch) (*Testimonial, error) {
	updated, err := a.db.Update(colTestimonials, id, testimonialPatchDoc(patch))
	if err != nil {
		return nil, err
	}
	return testimonialFromDoc(updated), nil
}

func (a *Adapter) DeleteTestimonial(id string) error {
	return a.db.Delete(colTestimonials, id)
}

// --- form submissions ---

func (a *Adapter) GetFormSubmissions(formType string) ([]FormSubmission, error) {
	docs, err := a.db.List(colForms)
	if err != nil {
		return nil, err
	}
	out := make([]FormSubmission, 0, len(docs))
	for _, d := range docs {
		fs := *formSubmissionFromDoc(d)
		if formType != "" && fs.FormType != formType {
			continue
		}
		out = append(out, fs)
	}
	return out, nil
}

func (a *Adapter) GetFormSubmission(id string) (*FormSubmission, error) {
	doc, err := a.db.FindByID(colForms, id)
	if err != nil {
		return nil, err
	}
	return formSubmissionFromDoc(doc), nil
}

func (a *Adapter) CreateFormSubmission(in FormSubmission) (*FormSubmission, error) {
	id := in.ID
	if id == "" {
		id = newID()
	}
	status := in.Status
	if status == "" {
		status = "pending"
	}
	submittedAt := in.SubmittedAt
	if submittedAt == "" {
		submittedAt = nowISO()
	}
	doc := docstore.Document{
		"id":           id,
		"form_type":    in.FormType,
		"status":       status,
		"submitted_at": submittedAt,
	}
	putIf(doc, "name", in.Name)
	putIf(doc, "email", in.Email)
	putIf(doc, "phone", in.Phone)
	putIf(doc, "message", in.Message)

	created, err := a.db.Create(colForms, doc)
	if err != nil {
		return nil, err
	}
	return formSubmissionFromDoc(created), nil
}

func (a *Adapter) UpdateFormSubmissionStatus(id, status, notes string) (*FormSubmission, error) {
	patch := docstore.Document{"status": status}
	putIf(patch, "notes", notes)
	updated, err := a.db.Update(colForms, id, patch)
	if err != nil {
		return nil, err
	}
	return formSubmissionFromDoc(updated), nil
}

// --- stats ---

// GetStats counts the published/visible footprint shown on the landing page.
func (a *Adapter) GetStats() (*Stats, error) {
	published := true
	_, totalJobs, err := a.GetJobs(JobFilters{IsPublished: &published})
	if err != nil {
		return nil, err
	}
	companies, err := a.GetCompanies(0)
	if err != nil {
		return nil, err
	}
	resources, err := a.GetResources(ResourceFilters{IsPublished: &published})
	if err != nil {
		return nil, err
	}
	testimonials, err := a.GetTestimonials(TestimonialFilters{})
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalJobs:         totalJobs,
		TotalCompanies:    len(companies),
		TotalResources:    len(resources),
		TotalTestimonials: len(testimonials),
	}, nil
}
