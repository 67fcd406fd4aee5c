package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// ConferenceSuccessResponse is the success envelope for single-conference responses.
type ConferenceSuccessResponse struct {
	Data  ConferenceForm    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ConferenceListSuccessResponse is the success envelope for conference lists.
type ConferenceListSuccessResponse struct {
	Data  []ConferenceForm  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// BooleanSuccessResponse is the success envelope for registration and wishlist changes.
type BooleanSuccessResponse struct {
	Data  BooleanResponse   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// StringSuccessResponse is the success envelope for derived texts.
type StringSuccessResponse struct {
	Data  StringResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type ConferenceController struct {
	Logger        *slog.Logger
	Conferences   domain.ConferenceService
	Registrations domain.RegistrationService
	Announcements domain.AnnouncementService
}

func NewConferenceController(
	logger *slog.Logger,
	conferences domain.ConferenceService,
	registrations domain.RegistrationService,
	announcements domain.AnnouncementService,
) *ConferenceController {
	return &ConferenceController{
		Logger:        logger,
		Conferences:   conferences,
		Registrations: registrations,
		Announcements: announcements,
	}
}

// CreateConference godoc
// @Summary Create a conference
// @Description Creates a conference organized by the caller. Empty city and topics get defaults; seats_available starts at max_attendees.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conference body CreateConferenceRequest true "Conference data"
// @Success 201 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences [post]
func (c *ConferenceController) CreateConference(w http.ResponseWriter, r *http.Request) {
	var req CreateConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	conf, err := c.Conferences.CreateConference(r.Context(), user, req.toConference())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, toConferenceForm(conf, ""))
}

// QueryConferences godoc
// @Summary Query conferences
// @Description Filters on CITY, TOPIC, MONTH, MAX_ATTENDEES with EQ, NE, GT, GTEQ, LT, LTEQ. At most one field may use a non-EQ operator. Results are ordered by the inequality field (if any), then name.
// @Tags conferences
// @Accept json
// @Produce json
// @Param query body QueryRequest false "Filters"
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_filter"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/query [post]
func (c *ConferenceController) QueryConferences(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !helpers.DecodeOptionalAndValidate(w, r, &req) {
		return
	}
	confs, err := c.Conferences.QueryConferences(r.Context(), req.toFilters())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceForms(confs))
}

// GetConference godoc
// @Summary Get a conference
// @Tags conferences
// @Produce json
// @Param websafeKey path string true "Conference key"
// @Success 200 {object} controllers.ConferenceSuccessResponse "includes organizer_display_name"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{websafeKey} [get]
func (c *ConferenceController) GetConference(w http.ResponseWriter, r *http.Request) {
	result, err := c.Conferences.GetConference(r.Context(), r.PathValue("websafeKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceForm(result.Conference, result.OrganizerDisplayName))
}

// ListCreated godoc
// @Summary List conferences created by the caller
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/created [get]
func (c *ConferenceController) ListCreated(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	results, err := c.Conferences.ListCreated(r.Context(), user)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	forms := make([]ConferenceForm, 0, len(results))
	for _, res := range results {
		forms = append(forms, toConferenceForm(res.Conference, res.OrganizerDisplayName))
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, forms)
}

// ListAttending godoc
// @Summary List conferences the caller registered for
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/attending [get]
func (c *ConferenceController) ListAttending(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	confs, err := c.Conferences.ListAttending(r.Context(), user)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceForms(confs))
}

// Register godoc
// @Summary Register for a conference
// @Description Takes one seat. Fails with 409 when already registered or sold out.
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Param websafeKey path string true "Conference key"
// @Success 200 {object} controllers.BooleanSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{websafeKey}/registration [post]
func (c *ConferenceController) Register(w http.ResponseWriter, r *http.Request) {
	c.changeRegistration(w, r, c.Registrations.Register)
}

// Unregister godoc
// @Summary Unregister from a conference
// @Description Returns result false when the caller was not registered.
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Param websafeKey path string true "Conference key"
// @Success 200 {object} controllers.BooleanSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{websafeKey}/registration [delete]
func (c *ConferenceController) Unregister(w http.ResponseWriter, r *http.Request) {
	c.changeRegistration(w, r, c.Registrations.Unregister)
}

func (c *ConferenceController) changeRegistration(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, user *domain.AuthUser, conferenceKey string) (bool, error),
) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	result, err := change(r.Context(), user, r.PathValue("websafeKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, BooleanResponse{Result: result})
}

// GetAnnouncement godoc
// @Summary Get the near-sold-out announcement
// @Description Lists conferences with 1 to 5 seats left. Empty text when there are none.
// @Tags conferences
// @Produce json
// @Success 200 {object} controllers.StringSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /announcement [get]
func (c *ConferenceController) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	text, err := c.Announcements.Get(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StringResponse{Text: text})
}
