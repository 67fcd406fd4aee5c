package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"conferencecentral/internal/delivery/http/controllers"
	_ "conferencecentral/internal/delivery/http/docs"
	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Conferences *controllers.ConferenceController
	Sessions    *controllers.SessionController
	Speakers    *controllers.SpeakerController
	Profiles    *controllers.ProfileController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Conferences
	mux.HandleFunc("GET /announcement", c.Conferences.GetAnnouncement)
	mux.HandleFunc("POST /conferences", auth(c.Conferences.CreateConference))
	mux.HandleFunc("POST /conferences/query", c.Conferences.QueryConferences)
	mux.HandleFunc("GET /conferences/created", auth(c.Conferences.ListCreated))
	mux.HandleFunc("GET /conferences/attending", auth(c.Conferences.ListAttending))
	mux.HandleFunc("GET /conferences/{websafeKey}", c.Conferences.GetConference)
	mux.HandleFunc("POST /conferences/{websafeKey}/registration", auth(c.Conferences.Register))
	mux.HandleFunc("DELETE /conferences/{websafeKey}/registration", auth(c.Conferences.Unregister))

	// Sessions
	mux.HandleFunc("POST /conferences/{websafeKey}/sessions", auth(c.Sessions.CreateSession))
	mux.HandleFunc("GET /conferences/{websafeKey}/sessions", c.Sessions.ListConferenceSessions)
	mux.HandleFunc("POST /conferences/{websafeKey}/sessions/query", c.Sessions.QueryConferenceSessions)
	mux.HandleFunc("GET /conferences/{websafeKey}/featured-speaker", c.Sessions.GetFeaturedSpeaker)
	mux.HandleFunc("GET /conferences/{websafeKey}/wishlist", auth(c.Sessions.GetWishlist))
	mux.HandleFunc("POST /sessions/query", c.Sessions.QuerySessions)
	mux.HandleFunc("POST /wishlist/{websafeKey}", auth(c.Sessions.AddToWishlist))

	// Speakers
	mux.HandleFunc("GET /speakers", c.Speakers.ListSpeakers)
	mux.HandleFunc("POST /speakers", auth(c.Speakers.SaveSpeaker))
	mux.HandleFunc("GET /speakers/{email}", c.Speakers.GetSpeaker)
	mux.HandleFunc("GET /speakers/{email}/sessions", c.Sessions.ListSpeakerSessions)

	// Profile
	mux.HandleFunc("GET /profile", auth(c.Profiles.GetProfile))
	mux.HandleFunc("PUT /profile", auth(c.Profiles.SaveProfile))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with the cross-cutting middleware, outermost first:
// panic recovery, request logging, tracing and CORS.
func NewHandler(router http.Handler, allowedOrigins []string, logger *slog.Logger) http.Handler {
	var h http.Handler = router
	h = middleware.CORS(allowedOrigins, h)
	h = middleware.Tracing(h)
	h = middleware.LoggingMiddleware(logger, h)
	h = middleware.Recover(logger, h)
	return h
}
