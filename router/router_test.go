package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentbridge/internal/docstore"
	"talentbridge/internal/storage"
	"talentbridge/middleware"
	"talentbridge/pkg/logger"
	"talentbridge/socket"
)

const testSecret = "router-test-secret"

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (http.Handler, *storage.Adapter) {
	t.Helper()
	db, err := docstore.Open(t.TempDir())
	require.NoError(t, err)
	store := storage.NewAdapter(db)
	auth := middleware.NewAuth(testSecret)
	return Setup(store, nil, auth, "*"), store
}

func signToken(t *testing.T, userID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestPublicResourcesOnlyPublished(t *testing.T) {
	h, store := newTestServer(t)

	published, err := store.CreateResource(storage.ResourceInput{Title: "Visa Guide", Content: "body", Type: storage.ResourceTypeGuide})
	require.NoError(t, err)
	hidden := false
	_, err = store.CreateResource(storage.ResourceInput{Title: "Draft Post", Content: "body", Type: storage.ResourceTypeBlog, IsPublished: &hidden})
	require.NoError(t, err)

	rec := doJSON(t, h, http.MethodGet, "/api/resources", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resources := decodeBody[[]storage.Resource](t, rec)
	require.Len(t, resources, 1)
	assert.Equal(t, published.ID, resources[0].ID)

	// An unrecognized query parameter must not filter anything out.
	rec = doJSON(t, h, http.MethodGet, "/api/resources?utm_source=newsletter", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]storage.Resource](t, rec), 1)
}

func TestResourceBySlug(t *testing.T) {
	h, store := newTestServer(t)

	created, err := store.CreateResource(storage.ResourceInput{Title: "How do I apply?", Content: "body", Type: storage.ResourceTypeFAQ})
	require.NoError(t, err)
	require.Equal(t, "how-do-i-apply", created.Slug)

	rec := doJSON(t, h, http.MethodGet, "/api/resources/how-do-i-apply", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeBody[storage.Resource](t, rec).ID)

	rec = doJSON(t, h, http.MethodGet, "/api/resources/no-such-slug", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Resource not found", decodeBody[map[string]string](t, rec)["message"])
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	h, _ := newTestServer(t)

	body := storage.ResourceInput{Title: "T", Content: "c", Type: storage.ResourceTypeBlog}

	rec := doJSON(t, h, http.MethodPost, "/api/admin/resources", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/admin/resources", signToken(t, "u1", "user"), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/admin/resources", signToken(t, "a1", "admin"), body)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAdminResourceValidation(t *testing.T) {
	h, _ := newTestServer(t)
	admin := signToken(t, "a1", "admin")

	rec := doJSON(t, h, http.MethodPost, "/api/admin/resources", admin, storage.ResourceInput{Title: "No content", Type: storage.ResourceTypeBlog})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/admin/resources", admin, storage.ResourceInput{Title: "Bad type", Content: "c", Type: "podcast"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid resource type", decodeBody[map[string]string](t, rec)["message"])
}

func TestJobListingPagination(t *testing.T) {
	h, store := newTestServer(t)

	for _, title := range []string{"Welder", "Electrician", "Plumber"} {
		_, err := store.CreateJob(storage.JobInput{Title: title})
		require.NoError(t, err)
	}
	draft := storage.JobStatusDraft
	_, err := store.CreateJob(storage.JobInput{Title: "Unlisted", Status: draft})
	require.NoError(t, err)

	rec := doJSON(t, h, http.MethodGet, "/api/jobs?limit=2&offset=0", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Jobs  []storage.Job `json:"jobs"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Jobs, 2)
	assert.Equal(t, 3, page.Total, "draft jobs must not count on the public board")
}

func TestSaveJobFlow(t *testing.T) {
	h, store := newTestServer(t)
	user := signToken(t, "seeker-1", "user")

	job, err := store.CreateJob(storage.JobInput{Title: "Crane Operator"})
	require.NoError(t, err)

	rec := doJSON(t, h, http.MethodPost, "/api/jobs/"+job.ID+"/save", user, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/jobs/"+job.ID+"/save", user, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Job already saved", decodeBody[map[string]string](t, rec)["message"])

	rec = doJSON(t, h, http.MethodGet, "/api/jobs/"+job.ID+"/saved", user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[map[string]bool](t, rec)["saved"])

	rec = doJSON(t, h, http.MethodGet, "/api/saved-jobs", user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	saved := decodeBody[[]storage.Job](t, rec)
	require.Len(t, saved, 1)
	assert.Equal(t, job.ID, saved[0].ID)
	assert.NotEmpty(t, saved[0].SavedAt)

	rec = doJSON(t, h, http.MethodDelete, "/api/jobs/"+job.ID+"/save", user, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/jobs/"+job.ID+"/saved", user, nil)
	assert.False(t, decodeBody[map[string]bool](t, rec)["saved"])
}

func TestApplyToJob(t *testing.T) {
	h, store := newTestServer(t)
	user := signToken(t, "seeker-2", "user")
	admin := signToken(t, "a1", "admin")

	job, err := store.CreateJob(storage.JobInput{Title: "Chef"})
	require.NoError(t, err)

	rec := doJSON(t, h, http.MethodPost, "/api/jobs/"+job.ID+"/apply", user, map[string]string{"coverLetter": "I cook."})
	require.Equal(t, http.StatusCreated, rec.Code)
	app := decodeBody[storage.JobApplication](t, rec)
	assert.Equal(t, "pending", app.Status)
	assert.Equal(t, "seeker-2", app.UserID)

	rec = doJSON(t, h, http.MethodPost, "/api/jobs/missing/apply", user, map[string]string{})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPut, "/api/admin/applications/"+app.ID+"/status", admin, map[string]string{"status": "reviewed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "reviewed", decodeBody[storage.JobApplication](t, rec).Status)

	rec = doJSON(t, h, http.MethodPut, "/api/admin/applications/missing/status", admin, map[string]string{"status": "reviewed"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdImpressionAndClickCounters(t *testing.T) {
	h, store := newTestServer(t)

	ad, err := store.CreateAdvertisement(storage.AdvertisementInput{Title: "Banner"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, h, http.MethodPost, "/api/advertisements/"+ad.ID+"/impressions", "", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
	rec := doJSON(t, h, http.MethodPost, "/api/advertisements/"+ad.ID+"/clicks", "", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	got, err := store.GetAdvertisement(ad.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ImpressionCount)
	assert.Equal(t, 1, got.ClickCount)
}

func TestAdminDeleteExpiredAdvertisements(t *testing.T) {
	h, store := newTestServer(t)
	admin := signToken(t, "a1", "admin")

	_, err := store.CreateAdvertisement(storage.AdvertisementInput{Title: "Old", EndDate: "2020-01-01"})
	require.NoError(t, err)
	_, err = store.CreateAdvertisement(storage.AdvertisementInput{Title: "Evergreen"})
	require.NoError(t, err)

	rec := doJSON(t, h, http.MethodDelete, "/api/admin/advertisements/expired", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[map[string]int](t, rec)["deleted"])
}

func TestSubmitFormValidation(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/forms", "", map[string]string{"name": "Jo"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/forms", "", map[string]string{
		"formType": "contact",
		"name":     "Jo",
		"email":    "jo@example.com",
		"message":  "Hello",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	submission := decodeBody[storage.FormSubmission](t, rec)
	assert.Equal(t, "pending", submission.Status)
	assert.NotEmpty(t, submission.SubmittedAt)
}

func TestStats(t *testing.T) {
	h, store := newTestServer(t)

	_, err := store.CreateJob(storage.JobInput{Title: "Job"})
	require.NoError(t, err)
	_, err = store.CreateCompany(storage.CompanyInput{Name: "Acme"})
	require.NoError(t, err)

	rec := doJSON(t, h, http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[storage.Stats](t, rec)
	assert.Equal(t, 1, stats.TotalJobs)
	assert.Equal(t, 1, stats.TotalCompanies)
}

// The feed must upgrade through the full middleware chain, not just when
// ServeWs is called directly: the metrics recorder wraps the response writer
// and has to keep it hijackable.
func TestWebsocketFeedThroughMiddlewareChain(t *testing.T) {
	db, err := docstore.Open(t.TempDir())
	require.NoError(t, err)
	store := storage.NewAdapter(db)
	hub := socket.NewHub()
	go hub.Run()

	server := httptest.NewServer(Setup(store, hub, middleware.NewAuth(testSecret), "*"))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?topics=resources"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "upgrade must succeed behind the middleware chain")
	defer conn.Close()
	time.Sleep(100 * time.Millisecond)

	// An admin create over plain HTTP must arrive on the feed.
	payload, err := json.Marshal(storage.ResourceInput{Title: "Feed Post", Content: "c", Type: storage.ResourceTypeBlog})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/admin/resources", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "a1", "admin"))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event socket.Event
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &event))
	assert.Equal(t, socket.EventCreated, event.Type)
	assert.Equal(t, "resources", event.Collection)
	assert.NotEmpty(t, event.ID)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/jobs", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
