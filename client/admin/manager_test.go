package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentbridge/client"
	"talentbridge/internal/storage"
	"talentbridge/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

// requestLog records requests from the stub server's handler goroutines.
type requestLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *requestLog) add(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func (l *requestLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

type fixture struct {
	manager  *ResourceManager
	notifier *recordingNotifier
	cache    *client.Cache
	requests *requestLog
}

// newFixture backs the manager with a stub server whose POST/PUT/DELETE
// behavior is controlled by mutationStatus (0 means success).
func newFixture(t *testing.T, mutationStatus int, confirm func(string) bool) fixture {
	t.Helper()

	requests := &requestLog{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.add(r.Method + " " + r.URL.Path)
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode([]storage.Resource{})
			return
		}
		if mutationStatus != 0 {
			w.WriteHeader(mutationStatus)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid resource type"})
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(storage.Resource{ID: "srv-1"})
	}))
	t.Cleanup(server.Close)

	api := client.NewAPI(server.URL)
	cache := client.NewCache(api, client.CacheOptions{})
	t.Cleanup(cache.Close)

	notifier := &recordingNotifier{}
	return fixture{
		manager:  NewResourceManager(api, cache, notifier, confirm),
		notifier: notifier,
		cache:    cache,
		requests: requests,
	}
}

func TestSlugDerivationOnlyWhileCreating(t *testing.T) {
	f := newFixture(t, 0, nil)
	m := f.manager

	m.OpenCreate()
	m.SetTitle("Visa Guide: UAE 2024!")
	assert.Equal(t, "visa-guide-uae-2024", m.Form().Slug)

	m.SetTitle("Visa Guide: UAE 2025!")
	assert.Equal(t, "visa-guide-uae-2025", m.Form().Slug, "slug follows every keystroke while creating")

	m.OpenEdit(storage.Resource{ID: "r1", Title: "Old Title", Slug: "old-title", Content: "c", Type: storage.ResourceTypeBlog})
	m.SetTitle("Brand New Title")
	assert.Equal(t, "old-title", m.Form().Slug, "editing must not rewrite a published URL")
}

func TestExplicitSlugOverridesDerivation(t *testing.T) {
	f := newFixture(t, 0, nil)
	m := f.manager

	m.OpenCreate()
	m.SetTitle("Some Post")
	m.SetSlug("custom-slug")
	m.SetContent("body")

	require.NoError(t, m.Submit(context.Background()))
	assert.Equal(t, StateClosed, m.State())
}

func TestCreatePreselectsActiveTypeFilter(t *testing.T) {
	f := newFixture(t, 0, nil)
	m := f.manager

	m.SetFilter(storage.ResourceTypeGuide)
	m.OpenCreate()
	assert.Equal(t, storage.ResourceTypeGuide, m.Form().Type)
}

func TestValidationNeverReachesNetwork(t *testing.T) {
	f := newFixture(t, 0, nil)
	m := f.manager

	m.OpenCreate()
	m.SetTitle("Has title, no content")

	require.NoError(t, m.Submit(context.Background()))
	assert.Equal(t, StateCreating, m.State(), "dialog stays open")
	assert.Equal(t, "Title and content are required", m.ValidationErr())
	assert.Empty(t, f.requests.all(), "no request may be issued for an invalid form")
	assert.Empty(t, f.notifier.errors, "validation errors are inline, not toasted")
}

func TestSuccessfulSubmitClosesAndResets(t *testing.T) {
	f := newFixture(t, 0, nil)
	m := f.manager

	m.OpenCreate()
	m.SetTitle("How do I apply?")
	m.SetContent("Step by step.")

	require.NoError(t, m.Submit(context.Background()))
	assert.Equal(t, StateClosed, m.State())
	assert.Equal(t, Form{}, m.Form())
	assert.Equal(t, []string{"Resource created"}, f.notifier.successes)
}

func TestFailedSubmitReopensFormPrefilled(t *testing.T) {
	f := newFixture(t, http.StatusBadRequest, nil)
	m := f.manager

	m.OpenCreate()
	m.SetTitle("Doomed Post")
	m.SetContent("body")

	require.Error(t, m.Submit(context.Background()))
	assert.Equal(t, StateCreating, m.State(), "a failed submit returns to the open form")
	assert.Equal(t, "Doomed Post", m.Form().Title, "user input survives the failure")
	assert.Equal(t, []string{"Invalid resource type"}, f.notifier.errors)
}

func TestFailedSubmitRollsBackOptimisticItem(t *testing.T) {
	f := newFixture(t, http.StatusBadRequest, nil)
	m := f.manager

	// Prime the list cache so there is a snapshot to roll back to.
	_, err := m.Resources(context.Background())
	require.NoError(t, err)

	m.OpenCreate()
	m.SetTitle("Doomed Post")
	m.SetContent("body")
	require.Error(t, m.Submit(context.Background()))

	data, ok := f.cache.Snapshot(client.Key{Path: "/api/admin/resources"})
	require.True(t, ok)
	var list []storage.Resource
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Empty(t, list, "the synthetic item must be gone after rollback")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	declined := false
	f := newFixture(t, 0, func(prompt string) bool {
		declined = true
		return false
	})

	require.NoError(t, f.manager.Delete(context.Background(), storage.Resource{ID: "r1", Title: "Keep"}))
	assert.True(t, declined)
	assert.Empty(t, f.requests.all(), "a declined confirmation must not issue the delete")
}

func TestDeleteIssuesMutationWhenConfirmed(t *testing.T) {
	f := newFixture(t, 0, func(string) bool { return true })

	require.NoError(t, f.manager.Delete(context.Background(), storage.Resource{ID: "r1", Title: "Gone"}))
	require.NotEmpty(t, f.requests.all())
	assert.Equal(t, "DELETE /api/admin/resources/r1", f.requests.all()[0])
	assert.Equal(t, []string{"Resource deleted"}, f.notifier.successes)
}

func TestCategoryOptionsAreClosedPerType(t *testing.T) {
	assert.Contains(t, CategoryOptions(storage.ResourceTypeFAQ), "Job Placement")
	assert.Contains(t, CategoryOptions(storage.ResourceTypeBlog), "career-tips")
	assert.Contains(t, CategoryOptions(storage.ResourceTypeGuide), "visa-guide")
	assert.Nil(t, CategoryOptions(storage.ResourceTypeDownload))

	f := newFixture(t, 0, nil)
	m := f.manager
	m.OpenCreate()
	m.SetType(storage.ResourceTypeBlog)
	m.SetCategory("career-tips")
	m.SetType(storage.ResourceTypeFAQ)
	assert.Empty(t, m.Form().Category, "switching type drops a category the new type does not offer")
}

func TestFilterRekeysListQuery(t *testing.T) {
	f := newFixture(t, 0, nil)
	m := f.manager

	_, err := m.Resources(context.Background())
	require.NoError(t, err)
	m.SetFilter(storage.ResourceTypeFAQ)
	_, err = m.Resources(context.Background())
	require.NoError(t, err)

	require.Len(t, f.requests.all(), 2, "each filter keys its own query")
	assert.Equal(t, "GET /api/admin/resources", f.requests.all()[0])
	assert.Equal(t, "GET /api/admin/resources", f.requests.all()[1])
}
