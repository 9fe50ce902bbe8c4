// Package router wires the HTTP surface: public catalogue routes, the
// authenticated job-seeker routes, the admin CRUD routes, the websocket feed
// and the Prometheus endpoint.
package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"talentbridge/internal/handler"
	"talentbridge/internal/storage"
	"talentbridge/middleware"
	"talentbridge/socket"
)

// Setup builds the full handler chain. The hub may be nil when no live feed
// is wanted (tests mostly run without one).
func Setup(store *storage.Adapter, hub *socket.Hub, auth *middleware.Auth, allowedOrigin string) http.Handler {
	mux := http.NewServeMux()

	var feed socket.Publisher
	if hub != nil {
		feed = hub
	}
	h := handler.New(store, feed)

	// Public catalogue.
	mux.HandleFunc("GET /api/resources", h.ListResources)
	mux.HandleFunc("GET /api/resources/{slug}", h.GetResourceBySlug)
	mux.HandleFunc("GET /api/jobs", h.ListJobs)
	mux.HandleFunc("GET /api/jobs/featured", h.FeaturedJobs)
	mux.HandleFunc("GET /api/jobs/{id}", h.GetJob)
	mux.HandleFunc("GET /api/testimonials", h.ListTestimonials)
	mux.HandleFunc("GET /api/stats", h.GetStats)
	mux.HandleFunc("GET /api/advertisements", h.ListAdvertisements)
	mux.HandleFunc("POST /api/advertisements/{id}/impressions", h.RecordAdImpression)
	mux.HandleFunc("POST /api/advertisements/{id}/clicks", h.RecordAdClick)
	mux.HandleFunc("POST /api/forms", h.SubmitForm)

	// Authenticated job-seeker routes.
	authed := func(fn http.HandlerFunc) http.Handler { return auth.Require(fn) }
	mux.Handle("POST /api/jobs/{id}/apply", authed(h.ApplyToJob))
	mux.Handle("POST /api/jobs/{id}/save", authed(h.SaveJob))
	mux.Handle("DELETE /api/jobs/{id}/save", authed(h.UnsaveJob))
	mux.Handle("GET /api/jobs/{id}/saved", authed(h.IsJobSaved))
	mux.Handle("GET /api/saved-jobs", authed(h.SavedJobs))

	// Admin routes.
	admin := func(fn http.HandlerFunc) http.Handler { return auth.RequireAdmin(fn) }
	mux.Handle("GET /api/admin/resources", admin(h.AdminListResources))
	mux.Handle("POST /api/admin/resources", admin(h.AdminCreateResource))
	mux.Handle("PUT /api/admin/resources/{id}", admin(h.AdminUpdateResource))
	mux.Handle("DELETE /api/admin/resources/{id}", admin(h.AdminDeleteResource))

	mux.Handle("GET /api/admin/jobs", admin(h.AdminListJobs))
	mux.Handle("POST /api/admin/jobs", admin(h.AdminCreateJob))
	mux.Handle("PUT /api/admin/jobs/{id}", admin(h.AdminUpdateJob))
	mux.Handle("DELETE /api/admin/jobs/{id}", admin(h.AdminDeleteJob))

	mux.Handle("GET /api/admin/applications", admin(h.AdminListApplications))
	mux.Handle("PUT /api/admin/applications/{id}/status", admin(h.AdminUpdateApplicationStatus))

	mux.Handle("GET /api/admin/testimonials", admin(h.AdminListTestimonials))
	mux.Handle("POST /api/admin/testimonials", admin(h.AdminCreateTestimonial))
	mux.Handle("PUT /api/admin/testimonials/{id}", admin(h.AdminUpdateTestimonial))
	mux.Handle("DELETE /api/admin/testimonials/{id}", admin(h.AdminDeleteTestimonial))

	mux.Handle("GET /api/admin/advertisements", admin(h.AdminListAdvertisements))
	mux.Handle("POST /api/admin/advertisements", admin(h.AdminCreateAdvertisement))
	mux.Handle("DELETE /api/admin/advertisements/expired", admin(h.AdminDeleteExpiredAdvertisements))
	mux.Handle("PUT /api/admin/advertisements/{id}", admin(h.AdminUpdateAdvertisement))
	mux.Handle("DELETE /api/admin/advertisements/{id}", admin(h.AdminDeleteAdvertisement))

	mux.Handle("GET /api/admin/forms", admin(h.AdminListFormSubmissions))
	mux.Handle("PUT /api/admin/forms/{id}/status", admin(h.AdminUpdateFormSubmissionStatus))

	if hub != nil {
		mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			socket.ServeWs(hub, w, r)
		})
	}
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.CORS(allowedOrigin)(middleware.Metrics(mux))
}
