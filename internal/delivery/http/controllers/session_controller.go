package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// SessionSuccessResponse is the success envelope for single-session responses.
type SessionSuccessResponse struct {
	Data  SessionForm       `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SessionListSuccessResponse is the success envelope for session lists.
type SessionListSuccessResponse struct {
	Data  []SessionForm     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type SessionController struct {
	Logger           *slog.Logger
	Sessions         domain.SessionService
	Wishlist         domain.WishlistService
	FeaturedSpeakers domain.FeaturedSpeakerService
}

func NewSessionController(
	logger *slog.Logger,
	sessions domain.SessionService,
	wishlist domain.WishlistService,
	featured domain.FeaturedSpeakerService,
) *SessionController {
	return &SessionController{
		Logger:           logger,
		Sessions:         sessions,
		Wishlist:         wishlist,
		FeaturedSpeakers: featured,
	}
}

// CreateSession godoc
// @Summary Create a session
// @Description Adds a session to a conference. Only the conference organizer may do this and the speaker must exist.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param websafeKey path string true "Conference key"
// @Param session body CreateSessionRequest true "Session data"
// @Success 201 {object} controllers.SessionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{websafeKey}/sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	sess, err := c.Sessions.CreateSession(r.Context(), user, r.PathValue("websafeKey"), req.toSession())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, toSessionForm(sess))
}

// ListConferenceSessions godoc
// @Summary List a conference's sessions
// @Description Optionally restricted to one session type.
// @Tags sessions
// @Produce json
// @Param websafeKey path string true "Conference key"
// @Param type query string false "lecture, workshop or keynote"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{websafeKey}/sessions [get]
func (c *SessionController) ListConferenceSessions(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("websafeKey")
	var (
		sessions []*domain.Session
		err      error
	)
	if raw := r.URL.Query().Get("type"); raw != "" {
		sessionType, perr := domain.ParseSessionType(strings.ToLower(raw))
		if perr != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, perr.Error())
			return
		}
		sessions, err = c.Sessions.ListByConferenceAndType(r.Context(), key, sessionType)
	} else {
		sessions, err = c.Sessions.ListByConference(r.Context(), key)
	}
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toSessionForms(sessions))
}

// QueryConferenceSessions godoc
// @Summary Query a conference's sessions
// @Description Filters on DATE, TIME, DURATION, LOCATION, SEATSAVAILABLE, TYPE. Results are ordered by the inequality field (if any), then date and time.
// @Tags sessions
// @Accept json
// @Produce json
// @Param websafeKey path string true "Conference key"
// @Param query body QueryRequest false "Filters"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_filter"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{websafeKey}/sessions/query [post]
func (c *SessionController) QueryConferenceSessions(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !helpers.DecodeOptionalAndValidate(w, r, &req) {
		return
	}
	sessions, err := c.Sessions.QueryConferenceSessions(r.Context(), r.PathValue("websafeKey"), req.toFilters())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toSessionForms(sessions))
}

// QuerySessions godoc
// @Summary Query sessions across all conferences
// @Tags sessions
// @Accept json
// @Produce json
// @Param query body QueryRequest false "Filters"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_filter"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/query [post]
func (c *SessionController) QuerySessions(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !helpers.DecodeOptionalAndValidate(w, r, &req) {
		return
	}
	sessions, err := c.Sessions.QuerySessions(r.Context(), req.toFilters())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toSessionForms(sessions))
}

// ListSpeakerSessions godoc
// @Summary List a speaker's sessions
// @Tags speakers
// @Produce json
// @Param email path string true "Speaker email"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers/{email}/sessions [get]
func (c *SessionController) ListSpeakerSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := c.Sessions.ListBySpeaker(r.Context(), r.PathValue("email"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toSessionForms(sessions))
}

// GetFeaturedSpeaker godoc
// @Summary Get a conference's featured speaker
// @Description Empty text when no speaker leads two or more of the conference's sessions.
// @Tags sessions
// @Produce json
// @Param websafeKey path string true "Conference key"
// @Success 200 {object} controllers.StringSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{websafeKey}/featured-speaker [get]
func (c *SessionController) GetFeaturedSpeaker(w http.ResponseWriter, r *http.Request) {
	text, err := c.FeaturedSpeakers.Get(r.Context(), r.PathValue("websafeKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StringResponse{Text: text})
}

// AddToWishlist godoc
// @Summary Add a session to the caller's wishlist
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param websafeKey path string true "Session key"
// @Success 200 {object} controllers.BooleanSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /wishlist/{websafeKey} [post]
func (c *SessionController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	added, err := c.Wishlist.AddToWishlist(r.Context(), user, r.PathValue("websafeKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, BooleanResponse{Result: added})
}

// GetWishlist godoc
// @Summary List the caller's wishlisted sessions of a conference
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param websafeKey path string true "Conference key"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{websafeKey}/wishlist [get]
func (c *SessionController) GetWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	sessions, err := c.Wishlist.GetWishlistForConference(r.Context(), user, r.PathValue("websafeKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toSessionForms(sessions))
}
