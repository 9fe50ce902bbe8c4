// Package storage presents a typed domain API over the JSON collection store.
// It owns the naming translation at the store boundary and the relational
// joins (job→company, application→job/user, saved-job→job); the docstore owns
// durable state, and every write goes through its create/update/delete.
package storage

import (
	"github.com/google/uuid"

	"talentbridge/internal/docstore"
)

// Adapter wraps a docstore.Store. Point lookups return (nil, nil) when the
// entity is absent; the only raised domain error is ErrJobAlreadySaved.
type Adapter struct {
	db *docstore.Store

	// Serializes the saved-job existence check with the create that follows
	// it, so two identical concurrent saves cannot both pass the check.
	savedJobs keyedLock
}

func NewAdapter(db *docstore.Store) *Adapter {
	return &Adapter{db: db}
}

// ClearCache drops the store's in-memory copy of a collection (all of them
// when collection is empty).
func (a *Adapter) ClearCache(collection string) {
	a.db.ClearCache(collection)
}

func newID() string {
	return uuid.NewString()
}

// --- users ---

func (a *Adapter) GetUser(id string) (*User, error) {
	doc, err := a.db.FindByID(colUsers, id)
	if err != nil {
		return nil, err
	}
	return userFromDoc(doc), nil
}

func (a *Adapter) GetUserByUsername(username string) (*User, error) {
	docs, err := a.db.Find(colUsers, docstore.Document{"username": username})
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return userFromDoc(docs[0]), nil
}

func (a *Adapter) GetUserByEmail(email string) (*User, error) {
	docs, err := a.db.Find(colUsers, docstore.Document{"email": email})
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return userFromDoc(docs[0]), nil
}

func (a *Adapter) CreateUser(in UserInput) (*User, error) {
	id := in.ID
	if id == "" {
		id = newID()
	}
	role := in.Role
	if role == "" {
		role = "user"
	}
	doc := docstore.Document{"id": id, "role": role}
	putIf(doc, "username", in.Username)
	putIf(doc, "email", in.Email)
	putIf(doc, "first_name", in.FirstName)
	putIf(doc, "last_name", in.LastName)

	created, err := a.db.Create(colUsers, doc)
	if err != nil {
		return nil, err
	}
	return userFromDoc(created), nil
}

func (a *Adapter) UpsertUser(in UserInput) (*User, error) {
	if in.ID != "" {
		existing, err := a.GetUser(in.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			patch := docstore.Document{}
			putIf(patch, "username", in.Username)
			putIf(patch, "email", in.Email)
			putIf(patch, "first_name", in.FirstName)
			putIf(patch, "last_name", in.LastName)
			putIf(patch, "role", in.Role)
			updated, err := a.db.Update(colUsers, in.ID, patch)
			if err != nil {
				return nil, err
			}
			return userFromDoc(updated), nil
		}
	}
	return a.CreateUser(in)
}

// --- companies ---

func (a *Adapter) GetCompanies(limit int) ([]Company, error) {
	docs, err := a.db.List(colCompanies)
	if err != nil {
		return nil, err
	}
	out := make([]Company, 0, len(docs))
	for _, d := range docs {
		out = append(out, *companyFromDoc(d))
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (a *Adapter) GetCompany(id string) (*Company, error) {
	doc, err := a.db.FindByID(colCompanies, id)
	if err != nil {
		return nil, err
	}
	return companyFromDoc(doc), nil
}

func (a *Adapter) CreateCompany(in CompanyInput) (*Company, error) {
	id := in.ID
	if id == "" {
		id = newID()
	}
	doc := docstore.Document{"id": id, "name": in.Name}
	putIf(doc, "website", in.Website)
	putIf(doc, "logo", in.Logo)
	putIf(doc, "location", in.Location)
	putIf(doc, "industry", in.Industry)
	putIf(doc, "description", in.Description)

	created, err := a.db.Create(colCompanies, doc)
	if err != nil {
		return nil, err
	}
	return companyFromDoc(created), nil
}

func (a *Adapter) UpdateCompany(id string, patch CompanyPatch) (*Company, error) {
	updated, err := a.db.Update(colCompanies, id, companyPatchDoc(patch))
	if err != nil {
		return nil, err
	}
	return companyFromDoc(updated), nil
}

func (a *Adapter) DeleteCompany(id string) error {
	return a.db.Delete(colCompanies, id)
}
