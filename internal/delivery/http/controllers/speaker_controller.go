package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// SpeakerSuccessResponse is the success envelope for single-speaker responses.
type SpeakerSuccessResponse struct {
	Data  SpeakerForm       `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListSpeakersResponse is one page of speakers.
type ListSpeakersResponse struct {
	Items      []SpeakerForm          `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListSpeakersSuccessResponse is the success envelope for GET /speakers.
type ListSpeakersSuccessResponse struct {
	Data  ListSpeakersResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type SpeakerController struct {
	Logger   *slog.Logger
	Speakers domain.SpeakerService
}

func NewSpeakerController(logger *slog.Logger, speakers domain.SpeakerService) *SpeakerController {
	return &SpeakerController{Logger: logger, Speakers: speakers}
}

// SaveSpeaker godoc
// @Summary Create or update a speaker
// @Description Creates the speaker identified by main_email, or updates its non-empty display_name and bio.
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param speaker body SaveSpeakerRequest true "Speaker data"
// @Success 200 {object} controllers.SpeakerSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers [post]
func (c *SpeakerController) SaveSpeaker(w http.ResponseWriter, r *http.Request) {
	var req SaveSpeakerRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	speaker, err := c.Speakers.SaveSpeaker(r.Context(), user, req.toSpeaker())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toSpeakerForm(speaker))
}

// GetSpeaker godoc
// @Summary Get a speaker
// @Tags speakers
// @Produce json
// @Param email path string true "Speaker email"
// @Success 200 {object} controllers.SpeakerSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers/{email} [get]
func (c *SpeakerController) GetSpeaker(w http.ResponseWriter, r *http.Request) {
	speaker, err := c.Speakers.GetSpeaker(r.Context(), r.PathValue("email"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toSpeakerForm(speaker))
}

// ListSpeakers godoc
// @Summary List speakers
// @Description Paginated, ordered by display name.
// @Tags speakers
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListSpeakersSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speakers [get]
func (c *SpeakerController) ListSpeakers(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	speakers, total, err := c.Speakers.ListSpeakers(r.Context(), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	items := make([]SpeakerForm, 0, len(speakers))
	for _, s := range speakers {
		items = append(items, toSpeakerForm(s))
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListSpeakersResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}
