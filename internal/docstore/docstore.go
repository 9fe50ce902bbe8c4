// Package docstore is a small file-backed collection store. Every collection
// is one JSON file holding an array of documents; documents are plain maps
// keyed by "id". The store keeps collections in memory and rewrites the file
// on every mutation, which is acceptable for the collection sizes this site
// carries.
package docstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Document is a single persisted record.
type Document = map[string]any

// Store owns the data directory. All operations are serialized by one mutex:
// the store is single-writer-at-a-time per process.
type Store struct {
	dir string

	mu          sync.Mutex
	collections map[string][]Document
}

// Open prepares a store rooted at dir, creating the directory if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("docstore: create data dir: %w", err)
	}
	return &Store{
		dir:         dir,
		collections: make(map[string][]Document),
	}, nil
}

// List returns a copy of every document in the collection, in insertion order.
func (s *Store) List(collection string) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load(collection)
	if err != nil {
		return nil, err
	}
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, cloneDoc(d))
	}
	return out, nil
}

// Find returns the documents whose fields equal every key of query.
// An empty query matches everything.
func (s *Store) Find(collection string, query Document) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load(collection)
	if err != nil {
		return nil, err
	}
	var out []Document
	for _, d := range docs {
		if matches(d, query) {
			out = append(out, cloneDoc(d))
		}
	}
	return out, nil
}

// FindByID returns the document with the given id, or nil when absent.
func (s *Store) FindByID(collection, id string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load(collection)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if docID(d) == id {
			return cloneDoc(d), nil
		}
	}
	return nil, nil
}

// Create appends the document and persists the collection. created_at and
// updated_at are stamped when the caller did not supply them.
func (s *Store) Create(collection string, doc Document) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load(collection)
	if err != nil {
		return nil, err
	}
	stored := cloneDoc(doc)
	now := nowISO()
	if _, ok := stored["created_at"]; !ok {
		stored["created_at"] = now
	}
	stored["updated_at"] = now

	docs = append(docs, stored)
	if err := s.persist(collection, docs); err != nil {
		return nil, err
	}
	s.collections[collection] = docs
	return cloneDoc(stored), nil
}

// Update merges patch into the document, refreshes updated_at and persists.
// Returns nil when the id does not exist.
func (s *Store) Update(collection, id string, patch Document) (Document, error) {
	return s.Mutate(collection, id, func(doc Document) {
		for k, v := range patch {
			doc[k] = v
		}
	})
}

// Mutate applies fn to the document while holding the store lock, making the
// read-modify-write atomic with respect to every other store operation.
// Returns nil when the id does not exist.
func (s *Store) Mutate(collection, id string, fn func(Document)) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load(collection)
	if err != nil {
		return nil, err
	}
	for i, d := range docs {
		if docID(d) != id {
			continue
		}
		updated := cloneDoc(d)
		fn(updated)
		updated["updated_at"] = nowISO()
		docs[i] = updated
		if err := s.persist(collection, docs); err != nil {
			return nil, err
		}
		s.collections[collection] = docs
		return cloneDoc(updated), nil
	}
	return nil, nil
}

// Delete removes the document. Deleting an absent id is not an error.
func (s *Store) Delete(collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load(collection)
	if err != nil {
		return err
	}
	for i, d := range docs {
		if docID(d) != id {
			continue
		}
		docs = append(docs[:i], docs[i+1:]...)
		if err := s.persist(collection, docs); err != nil {
			return err
		}
		s.collections[collection] = docs
		return nil
	}
	return nil
}

// ClearCache drops the in-memory copy of a collection so the next access
// re-reads the file. An empty name clears everything.
func (s *Store) ClearCache(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if collection == "" {
		s.collections = make(map[string][]Document)
		return
	}
	delete(s.collections, collection)
}

// load must be called with the mutex held.
func (s *Store) load(collection string) ([]Document, error) {
	if docs, ok := s.collections[collection]; ok {
		return docs, nil
	}
	raw, err := os.ReadFile(s.path(collection))
	if os.IsNotExist(err) {
		s.collections[collection] = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("docstore: read %s: %w", collection, err)
	}
	var docs []Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("docstore: decode %s: %w", collection, err)
	}
	s.collections[collection] = docs
	return docs, nil
}

// persist must be called with the mutex held. The file is replaced by a
// rename so readers never observe a half-written collection.
func (s *Store) persist(collection string, docs []Document) error {
	if docs == nil {
		docs = []Document{}
	}
	raw, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("docstore: encode %s: %w", collection, err)
	}
	tmp := s.path(collection) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("docstore: write %s: %w", collection, err)
	}
	if err := os.Rename(tmp, s.path(collection)); err != nil {
		return fmt.Errorf("docstore: replace %s: %w", collection, err)
	}
	return nil
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func docID(d Document) string {
	id, _ := d["id"].(string)
	return id
}

func matches(doc, query Document) bool {
	for k, want := range query {
		if doc[k] != want {
			return false
		}
	}
	return true
}

// cloneDoc copies a document deeply enough for JSON-shaped values (nested
// maps and slices), so callers can never mutate the store's in-memory state
// through a returned document.
func cloneDoc(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
