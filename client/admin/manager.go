// Package admin holds the headless controller behind the resource CRUD
// screen: dialog state, form handling, slug derivation and the optimistic
// mutations it issues through the data layer.
package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"talentbridge/client"
	"talentbridge/internal/storage"
	"talentbridge/pkg/slug"
)

// DialogState is the resource dialog's lifecycle.
type DialogState int

const (
	StateClosed DialogState = iota
	StateCreating
	StateEditing
	StateSubmitting
)

// Notifier shows non-blocking toasts; the UI shell provides it.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Form holds the dialog's field values.
type Form struct {
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	Type          string
	Category      string
	Country       string
	Tags          string
	FeaturedImage string
	IsPublished   bool
	IsFeatured    bool
}

// ResourceManager drives the admin resource screen. It is single-threaded by
// contract, like the event-driven UI it backs.
type ResourceManager struct {
	api      *client.API
	cache    *client.Cache
	notifier Notifier

	// confirm asks the user before a delete; returning false aborts.
	confirm func(prompt string) bool

	state      DialogState
	form       Form
	editingID  string
	typeFilter string

	// validationErr stays inside the component; it is shown inline on the
	// form, never toasted.
	validationErr string
}

func NewResourceManager(api *client.API, cache *client.Cache, notifier Notifier, confirm func(string) bool) *ResourceManager {
	return &ResourceManager{
		api:      api,
		cache:    cache,
		notifier: notifier,
		confirm:  confirm,
	}
}

func (m *ResourceManager) State() DialogState { return m.state }

func (m *ResourceManager) Form() Form { return m.form }

// ValidationErr is the inline form error, empty when the form is valid.
func (m *ResourceManager) ValidationErr() string { return m.validationErr }

// listKey is the cache key for the list under the active type filter.
func (m *ResourceManager) listKey() client.Key {
	filter := ""
	if m.typeFilter != "" {
		filter = url.Values{"type": {m.typeFilter}}.Encode()
	}
	return client.Key{Path: "/api/admin/resources", Filter: filter}
}

// SetFilter re-keys the list query. An empty value means all types.
func (m *ResourceManager) SetFilter(resourceType string) {
	m.typeFilter = resourceType
}

// Resources returns the list under the active filter, served through the
// cache.
func (m *ResourceManager) Resources(ctx context.Context) ([]storage.Resource, error) {
	var list []storage.Resource
	err := m.cache.Get(ctx, m.listKey(), &list)
	return list, err
}

// OpenCreate opens a blank form. An active type filter pre-selects that type.
func (m *ResourceManager) OpenCreate() {
	m.state = StateCreating
	m.editingID = ""
	m.validationErr = ""
	m.form = Form{Type: m.typeFilter, IsPublished: true}
	if m.form.Type == "" {
		m.form.Type = storage.ResourceTypeBlog
	}
}

// OpenEdit pre-fills the form from an existing row. Slug auto-derivation is
// off in this mode so retitling cannot silently move a published URL.
func (m *ResourceManager) OpenEdit(r storage.Resource) {
	m.state = StateEditing
	m.editingID = r.ID
	m.validationErr = ""
	m.form = Form{
		Title:         r.Title,
		Slug:          r.Slug,
		Excerpt:       r.Excerpt,
		Content:       r.Content,
		Type:          r.Type,
		Category:      r.Category,
		Country:       r.Country,
		Tags:          r.Tags,
		FeaturedImage: r.FeaturedImage,
		IsPublished:   r.IsPublished,
		IsFeatured:    r.IsFeatured,
	}
}

// CloseDialog discards the form.
func (m *ResourceManager) CloseDialog() {
	m.state = StateClosed
	m.editingID = ""
	m.form = Form{}
	m.validationErr = ""
}

// SetTitle updates the title; while creating it re-derives the slug on every
// keystroke.
func (m *ResourceManager) SetTitle(title string) {
	m.form.Title = title
	if m.state == StateCreating {
		m.form.Slug = slug.Make(title)
	}
}

// SetSlug sets an explicit slug, overriding derivation.
func (m *ResourceManager) SetSlug(s string) {
	m.form.Slug = s
}

func (m *ResourceManager) SetContent(content string) { m.form.Content = content }
func (m *ResourceManager) SetExcerpt(excerpt string) { m.form.Excerpt = excerpt }
func (m *ResourceManager) SetCategory(c string)      { m.form.Category = c }

// SetType switches the resource type and clears the category when it is no
// longer one of the new type's options.
func (m *ResourceManager) SetType(t string) {
	m.form.Type = t
	valid := false
	for _, opt := range CategoryOptions(t) {
		if opt == m.form.Category {
			valid = true
			break
		}
	}
	if !valid {
		m.form.Category = ""
	}
}

// CategoryOptions is the closed category list for each resource type.
func CategoryOptions(resourceType string) []string {
	switch resourceType {
	case storage.ResourceTypeFAQ:
		return []string{
			"About Us", "Services", "Job Placement", "Fees & Payments",
			"Support & Aftercare", "Communication & Contact",
			"Trust & Verification", "Career & Future", "Miscellaneous",
		}
	case storage.ResourceTypeBlog:
		return []string{"news", "career-tips", "success-stories", "industry-insights"}
	case storage.ResourceTypeGuide:
		return []string{"visa-guide", "country-guide", "career-guide"}
	}
	return nil
}

// Submit validates the form and issues the create or update mutation. A
// validation failure keeps the dialog open with an inline message and never
// reaches the network. A server failure re-opens the form pre-filled so the
// user's input survives the error.
func (m *ResourceManager) Submit(ctx context.Context) error {
	if m.state != StateCreating && m.state != StateEditing {
		return nil
	}
	if m.form.Title == "" || m.form.Content == "" {
		m.validationErr = "Title and content are required"
		return nil
	}
	m.validationErr = ""

	reopenState := m.state
	editing := m.state == StateEditing
	m.state = StateSubmitting

	form := m.form
	if form.Slug == "" {
		form.Slug = slug.Make(form.Title)
	}
	input := storage.ResourceInput{
		Title:         form.Title,
		Slug:          form.Slug,
		Excerpt:       form.Excerpt,
		Content:       form.Content,
		Type:          form.Type,
		Category:      form.Category,
		Country:       form.Country,
		Tags:          form.Tags,
		FeaturedImage: form.FeaturedImage,
		IsPublished:   &form.IsPublished,
		IsFeatured:    &form.IsFeatured,
	}

	mutation := &client.Mutation{
		Cache: m.cache,
		Key:   m.listKey(),
		OnSuccess: func() {
			if editing {
				m.notifier.Success("Resource updated")
			} else {
				m.notifier.Success("Resource created")
			}
			m.CloseDialog()
		},
		OnError: func(err error) {
			m.notifier.Error(errorText(err))
			m.state = reopenState
		},
	}

	if editing {
		id := m.editingID
		mutation.Optimistic = func(current json.RawMessage) json.RawMessage {
			return patchList(current, func(list []storage.Resource) []storage.Resource {
				for i := range list {
					if list[i].ID == id {
						applyForm(&list[i], form)
					}
				}
				return list
			})
		}
		mutation.Call = func(ctx context.Context) error {
			_, err := m.api.Do(ctx, http.MethodPut, "/api/admin/resources/"+id, input)
			return err
		}
	} else {
		mutation.Optimistic = func(current json.RawMessage) json.RawMessage {
			return patchList(current, func(list []storage.Resource) []storage.Resource {
				placeholder := storage.Resource{
					ID:        client.SyntheticID(),
					CreatedAt: time.Now().UTC().Format(time.RFC3339),
				}
				applyForm(&placeholder, form)
				return append(list, placeholder)
			})
		}
		mutation.Call = func(ctx context.Context) error {
			_, err := m.api.Do(ctx, http.MethodPost, "/api/admin/resources", input)
			return err
		}
	}

	return mutation.Run(ctx)
}

// Delete asks for confirmation, then removes the resource with an optimistic
// list update.
func (m *ResourceManager) Delete(ctx context.Context, r storage.Resource) error {
	if m.confirm != nil && !m.confirm(fmt.Sprintf("Delete %q? This cannot be undone.", r.Title)) {
		return nil
	}

	mutation := &client.Mutation{
		Cache: m.cache,
		Key:   m.listKey(),
		Optimistic: func(current json.RawMessage) json.RawMessage {
			return patchList(current, func(list []storage.Resource) []storage.Resource {
				kept := list[:0]
				for _, item := range list {
					if item.ID != r.ID {
						kept = append(kept, item)
					}
				}
				return kept
			})
		},
		Call: func(ctx context.Context) error {
			_, err := m.api.Do(ctx, http.MethodDelete, "/api/admin/resources/"+r.ID, nil)
			return err
		},
		OnSuccess: func() { m.notifier.Success("Resource deleted") },
		OnError:   func(err error) { m.notifier.Error(errorText(err)) },
	}
	return mutation.Run(ctx)
}

func applyForm(r *storage.Resource, form Form) {
	r.Title = form.Title
	r.Slug = form.Slug
	r.Excerpt = form.Excerpt
	r.Content = form.Content
	r.Type = form.Type
	r.Category = form.Category
	r.Country = form.Country
	r.Tags = form.Tags
	r.FeaturedImage = form.FeaturedImage
	r.IsPublished = form.IsPublished
	r.IsFeatured = form.IsFeatured
	r.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// patchList decodes the cached list, applies fn and re-encodes. A missing or
// corrupt entry patches an empty list.
func patchList(current json.RawMessage, fn func([]storage.Resource) []storage.Resource) json.RawMessage {
	var list []storage.Resource
	if len(current) > 0 {
		json.Unmarshal(current, &list)
	}
	list = fn(list)
	if list == nil {
		list = []storage.Resource{}
	}
	encoded, err := json.Marshal(list)
	if err != nil {
		return current
	}
	return encoded
}

func errorText(err error) string {
	if apiErr, ok := err.(*client.APIError); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong. Please try again."
}
