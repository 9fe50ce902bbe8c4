package storage

import "errors"

// ErrJobAlreadySaved is the one domain conflict the adapter raises: a second
// save for the same user/job pair.
var ErrJobAlreadySaved = errors.New("job already saved")

// Resource type values. A resource covers blog posts, FAQs, guides and
// downloads; the enum is closed.
const (
	ResourceTypeBlog     = "blog"
	ResourceTypeFAQ      = "faq"
	ResourceTypeGuide    = "guide"
	ResourceTypeDownload = "download"
)

// Job status values.
const (
	JobStatusDraft     = "draft"
	JobStatusPublished = "published"
)

// ResourceTypeValid reports whether t is one of the four closed type values.
func ResourceTypeValid(t string) bool {
	switch t {
	case ResourceTypeBlog, ResourceTypeFAQ, ResourceTypeGuide, ResourceTypeDownload:
		return true
	}
	return false
}

// Timestamps are carried as ISO-8601 strings, the format the collection files
// have always stored. Fields that need arithmetic (advertisement windows,
// job recency sorts) parse on demand and tolerate unparsable legacy values.

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type Company struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Website     string `json:"website,omitempty"`
	Logo        string `json:"logo,omitempty"`
	Location    string `json:"location,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type Job struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	Location        string   `json:"location,omitempty"`
	Country         string   `json:"country,omitempty"`
	Industry        string   `json:"industry,omitempty"`
	Category        string   `json:"category,omitempty"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
	RemoteType      string   `json:"remoteType,omitempty"`
	SalaryMin       int      `json:"salaryMin,omitempty"`
	SalaryMax       int      `json:"salaryMax,omitempty"`
	VisaSupport     bool     `json:"visaSupport"`
	Featured        bool     `json:"featured"`
	Status          string   `json:"status"`
	CompanyID       string   `json:"companyId,omitempty"`
	Company         *Company `json:"company,omitempty"`
	PostedAt        string   `json:"postedAt,omitempty"`
	CreatedAt       string   `json:"createdAt,omitempty"`
	UpdatedAt       string   `json:"updatedAt,omitempty"`
	// SavedAt is only populated on saved-job listings.
	SavedAt string `json:"savedAt,omitempty"`
}

type JobApplication struct {
	ID          string `json:"id"`
	JobID       string `json:"jobId"`
	UserID      string `json:"userId"`
	Status      string `json:"status"`
	CoverLetter string `json:"coverLetter,omitempty"`
	ResumePath  string `json:"resumePath,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Job         *Job   `json:"job,omitempty"`
	User        *User  `json:"user,omitempty"`
	AppliedAt   string `json:"appliedAt,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type Testimonial struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country,omitempty"`
	Position    string `json:"position,omitempty"`
	Content     string `json:"content"`
	Rating      int    `json:"rating,omitempty"`
	ServiceType string `json:"serviceType,omitempty"`
	IsVerified  bool   `json:"isVerified"`
	IsVisible   bool   `json:"isVisible"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type FormSubmission struct {
	ID          string `json:"id"`
	FormType    string `json:"formType"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Message     string `json:"message,omitempty"`
	Status      string `json:"status"`
	Notes       string `json:"notes,omitempty"`
	SubmittedAt string `json:"submittedAt,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type Resource struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Excerpt       string `json:"excerpt,omitempty"`
	Content       string `json:"content"`
	Type          string `json:"type"`
	Category      string `json:"category,omitempty"`
	Country       string `json:"country,omitempty"`
	Tags          string `json:"tags,omitempty"`
	FeaturedImage string `json:"featuredImage,omitempty"`
	IsPublished   bool   `json:"isPublished"`
	IsFeatured    bool   `json:"isFeatured"`
	AuthorID      string `json:"authorId,omitempty"`
	PublishedAt   string `json:"publishedAt,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

type Advertisement struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Position        string `json:"position,omitempty"`
	LinkURL         string `json:"linkUrl,omitempty"`
	FilePath        string `json:"filePath,omitempty"`
	FileType        string `json:"fileType,omitempty"`
	IsActive        bool   `json:"isActive"`
	Priority        int    `json:"priority"`
	ClickCount      int    `json:"clickCount"`
	ImpressionCount int    `json:"impressionCount"`
	StartDate       string `json:"startDate,omitempty"`
	EndDate         string `json:"endDate,omitempty"`
	CreatedAt       string `json:"createdAt,omitempty"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

type SavedJob struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	JobID   string `json:"jobId"`
	SavedAt string `json:"savedAt"`
}

// Stats is the landing-page counter block.
type Stats struct {
	TotalJobs         int `json:"totalJobs"`
	TotalCompanies    int `json:"totalCompanies"`
	TotalResources    int `json:"totalResources"`
	TotalTestimonials int `json:"totalTestimonials"`
}

// Inputs carry optional booleans as pointers so creation defaults can tell
// "omitted" from "explicitly false".

type ResourceInput struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title"`
	Slug          string `json:"slug,omitempty"`
	Excerpt       string `json:"excerpt,omitempty"`
	Content       string `json:"content"`
	Type          string `json:"type"`
	Category      string `json:"category,omitempty"`
	Country       string `json:"country,omitempty"`
	Tags          string `json:"tags,omitempty"`
	FeaturedImage string `json:"featuredImage,omitempty"`
	IsPublished   *bool  `json:"isPublished,omitempty"`
	IsFeatured    *bool  `json:"isFeatured,omitempty"`
	AuthorID      string `json:"authorId,omitempty"`
	PublishedAt   string `json:"publishedAt,omitempty"`
}

type AdvertisementInput struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	Position  string `json:"position,omitempty"`
	LinkURL   string `json:"linkUrl,omitempty"`
	FilePath  string `json:"filePath,omitempty"`
	FileType  string `json:"fileType,omitempty"`
	IsActive  *bool  `json:"isActive,omitempty"`
	Priority  int    `json:"priority,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

type TestimonialInput struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Country     string `json:"country,omitempty"`
	Position    string `json:"position,omitempty"`
	Content     string `json:"content"`
	Rating      int    `json:"rating,omitempty"`
	ServiceType string `json:"serviceType,omitempty"`
	IsVerified  *bool  `json:"isVerified,omitempty"`
	IsVisible   *bool  `json:"isVisible,omitempty"`
}

type JobInput struct {
	ID              string `json:"id,omitempty"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Location        string `json:"location,omitempty"`
	Country         string `json:"country,omitempty"`
	Industry        string `json:"industry,omitempty"`
	Category        string `json:"category,omitempty"`
	ExperienceLevel string `json:"experienceLevel,omitempty"`
	RemoteType      string `json:"remoteType,omitempty"`
	SalaryMin       int    `json:"salaryMin,omitempty"`
	SalaryMax       int    `json:"salaryMax,omitempty"`
	VisaSupport     bool   `json:"visaSupport,omitempty"`
	Featured        *bool  `json:"featured,omitempty"`
	Status          string `json:"status,omitempty"`
	CompanyID       string `json:"companyId,omitempty"`
	PostedAt        string `json:"postedAt,omitempty"`
}

type JobApplicationInput struct {
	ID          string `json:"id,omitempty"`
	JobID       string `json:"jobId"`
	UserID      string `json:"userId"`
	Status      string `json:"status,omitempty"`
	CoverLetter string `json:"coverLetter,omitempty"`
	ResumePath  string `json:"resumePath,omitempty"`
	AppliedAt   string `json:"appliedAt,omitempty"`
}

type CompanyInput struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Website     string `json:"website,omitempty"`
	Logo        string `json:"logo,omitempty"`
	Location    string `json:"location,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Description string `json:"description,omitempty"`
}

type UserInput struct {
	ID        string `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Patches hold pointer fields: nil means "leave alone".

type ResourcePatch struct {
	Title         *string `json:"title,omitempty"`
	Slug          *string `json:"slug,omitempty"`
	Excerpt       *string `json:"excerpt,omitempty"`
	Content       *string `json:"content,omitempty"`
	Type          *string `json:"type,omitempty"`
	Category      *string `json:"category,omitempty"`
	Country       *string `json:"country,omitempty"`
	Tags          *string `json:"tags,omitempty"`
	FeaturedImage *string `json:"featuredImage,omitempty"`
	IsPublished   *bool   `json:"isPublished,omitempty"`
	IsFeatured    *bool   `json:"isFeatured,omitempty"`
	PublishedAt   *string `json:"publishedAt,omitempty"`
}

type AdvertisementPatch struct {
	Title     *string `json:"title,omitempty"`
	Position  *string `json:"position,omitempty"`
	LinkURL   *string `json:"linkUrl,omitempty"`
	FilePath  *string `json:"filePath,omitempty"`
	FileType  *string `json:"fileType,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
	Priority  *int    `json:"priority,omitempty"`
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
}

type TestimonialPatch struct {
	Name        *string `json:"name,omitempty"`
	Country     *string `json:"country,omitempty"`
	Position    *string `json:"position,omitempty"`
	Content     *string `json:"content,omitempty"`
	Rating      *int    `json:"rating,omitempty"`
	ServiceType *string `json:"serviceType,omitempty"`
	IsVerified  *bool   `json:"isVerified,omitempty"`
	IsVisible   *bool   `json:"isVisible,omitempty"`
}

type JobPatch struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	Location        *string `json:"location,omitempty"`
	Country         *string `json:"country,omitempty"`
	Industry        *string `json:"industry,omitempty"`
	Category        *string `json:"category,omitempty"`
	ExperienceLevel *string `json:"experienceLevel,omitempty"`
	RemoteType      *string `json:"remoteType,omitempty"`
	SalaryMin       *int    `json:"salaryMin,omitempty"`
	SalaryMax       *int    `json:"salaryMax,omitempty"`
	VisaSupport     *bool   `json:"visaSupport,omitempty"`
	Featured        *bool   `json:"featured,omitempty"`
	Status          *string `json:"status,omitempty"`
	CompanyID       *string `json:"companyId,omitempty"`
	PostedAt        *string `json:"postedAt,omitempty"`
}

type CompanyPatch struct {
	Name        *string `json:"name,omitempty"`
	Website     *string `json:"website,omitempty"`
	Logo        *string `json:"logo,omitempty"`
	Location    *string `json:"location,omitempty"`
	Industry    *string `json:"industry,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Filters: zero values mean "no constraint"; optional booleans are pointers.

type ResourceFilters struct {
	Type        string
	Category    string
	Country     string
	IsPublished *bool
	IsFeatured  *bool
	Limit       int
}

type JobFilters struct {
	Search          string
	Country         string
	ExcludeCountry  string
	Industry        string
	Category        string
	ExperienceLevel string
	RemoteType      string
	VisaSupport     *bool
	IsFeatured      *bool
	IsPublished     *bool
	Sort            string // "date" or "salary"
	Limit           int
	Offset          int
}

type TestimonialFilters struct {
	ServiceType string
	IsVisible   *bool
	Limit       int
}

type AdvertisementFilters struct {
	Position string
	IsActive *bool
	Limit    int
}
