package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// ProfileSuccessResponse is the success envelope for profile responses.
type ProfileSuccessResponse struct {
	Data  ProfileForm       `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type ProfileController struct {
	Logger   *slog.Logger
	Profiles domain.ProfileService
}

func NewProfileController(logger *slog.Logger, profiles domain.ProfileService) *ProfileController {
	return &ProfileController{Logger: logger, Profiles: profiles}
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Description The profile is created on first access.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	prof, err := c.Profiles.GetProfile(r.Context(), user)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toProfileForm(prof))
}

// SaveProfile godoc
// @Summary Update the caller's profile
// @Description Only non-empty fields are changed.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body SaveProfileRequest true "Profile fields"
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile [put]
func (c *ProfileController) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req SaveProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	prof, err := c.Profiles.SaveProfile(r.Context(), user, req.DisplayName, req.TeeShirtSize)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toProfileForm(prof))
}
