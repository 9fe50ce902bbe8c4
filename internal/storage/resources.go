package storage

import (
	"talentbridge/internal/docstore"
	"talentbridge/pkg/slug"
)

// GetResources lists resources matching every set filter conjunctively.
// Filtering happens on the decoded records rather than the raw documents so
// that legacy camelCase spellings participate; an unrecognized query key
// never reaches this layer and so behaves as if omitted.
func (a *Adapter) GetResources(f ResourceFilters) ([]Resource, error) {
	docs, err := a.db.List(colResources)
	if err != nil {
		return nil, err
	}
	out := make([]Resource, 0, len(docs))
	for _, d := range docs {
		r := *resourceFromDoc(d)
		if f.Type != "" && r.Type != f.Type {
			continue
		}
		if f.Category != "" && r.Category != f.Category {
			continue
		}
		if f.Country != "" && r.Country != f.Country {
			continue
		}
		if f.IsPublished != nil && r.IsPublished != *f.IsPublished {
			continue
		}
		if f.IsFeatured != nil && r.IsFeatured != *f.IsFeatured {
			continue
		}
		out = append(out, r)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (a *Adapter) GetResource(id string) (*Resource, error) {
	doc, err := a.db.FindByID(colResources, id)
	if err != nil {
		return nil, err
	}
	return resourceFromDoc(doc), nil
}

// GetResourceBySlug only ever surfaces published resources; draft content is
// not addressable by URL.
func (a *Adapter) GetResourceBySlug(s string) (*Resource, error) {
	published := true
	matches, err := a.GetResources(ResourceFilters{IsPublished: &published})
	if err != nil {
		return nil, err
	}
	for i := range matches {
		if matches[i].Slug == s {
			return &matches[i], nil
		}
	}
	return nil, nil
}

// CreateResource fills in the slug (derived from the title when absent),
// publication defaults (published unless stated otherwise, never featured by
// default) and the published_at stamp. Slug uniqueness is not checked here.
func (a *Adapter) CreateResource(in ResourceInput) (*Resource, error) {
	id := in.ID
	if id == "" {
		id = newID()
	}
	s := in.Slug
	if s == "" {
		s = slug.Make(in.Title)
	}
	isPublished := true
	if in.IsPublished != nil {
		isPublished = *in.IsPublished
	}
	isFeatured := false
	if in.IsFeatured != nil {
		isFeatured = *in.IsFeatured
	}
	publishedAt := in.PublishedAt
	if publishedAt == "" {
		publishedAt = nowISO()
	}

	doc := docstore.Document{
		"id":           id,
		"title":        in.Title,
		"slug":         s,
		"content":      in.Content,
		"type":         in.Type,
		"is_published": isPublished,
		"is_featured":  isFeatured,
		"published_at": publishedAt,
	}
	putIf(doc, "excerpt", in.Excerpt)
	putIf(doc, "category", in.Category)
	putIf(doc, "country", in.Country)
	putIf(doc, "tags", in.Tags)
	putIf(doc, "featured_image", in.FeaturedImage)
	putIf(doc, "author_id", in.AuthorID)

	created, err := a.db.Create(colResources, doc)
	if err != nil {
		return nil, err
	}
	return resourceFromDoc(created), nil
}

// UpdateResource merges the patch; updated_at is refreshed by the store.
// Returns (nil, nil) when the id does not exist.
func (a *Adapter) UpdateResource(id string, patch ResourcePatch) (*Resource, error) {
	updated, err := a.db.Update(colResources, id, resourcePatchDoc(patch))
	if err != nil {
		return nil, err
	}
	return resourceFromDoc(updated), nil
}

func (a *Adapter) DeleteResource(id string) error {
	return a.db.Delete(colResources, id)
}
