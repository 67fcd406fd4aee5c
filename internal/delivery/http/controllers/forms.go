package controllers

import (
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

// ConferenceForm is the wire shape of a conference.
type ConferenceForm struct {
	WebsafeKey           string   `json:"websafe_key"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	OrganizerUserID      string   `json:"organizer_user_id"`
	OrganizerDisplayName string   `json:"organizer_display_name,omitempty"`
	Topics               []string `json:"topics"`
	City                 string   `json:"city"`
	StartDate            string   `json:"start_date,omitempty"`
	EndDate              string   `json:"end_date,omitempty"`
	Month                int      `json:"month"`
	MaxAttendees         int      `json:"max_attendees"`
	SeatsAvailable       int      `json:"seats_available"`
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(domain.DateLayout)
}

func toConferenceForm(c *domain.Conference, organizerDisplayName string) ConferenceForm {
	topics := c.Topics
	if topics == nil {
		topics = []string{}
	}
	return ConferenceForm{
		WebsafeKey:           c.Key.Encode(),
		Name:                 c.Name,
		Description:          c.Description,
		OrganizerUserID:      c.OrganizerUserID,
		OrganizerDisplayName: organizerDisplayName,
		Topics:               topics,
		City:                 c.City,
		StartDate:            formatDate(c.StartDate),
		EndDate:              formatDate(c.EndDate),
		Month:                c.Month,
		MaxAttendees:         c.MaxAttendees,
		SeatsAvailable:       c.SeatsAvailable,
	}
}

func toConferenceForms(confs []*domain.Conference) []ConferenceForm {
	forms := make([]ConferenceForm, 0, len(confs))
	for _, c := range confs {
		forms = append(forms, toConferenceForm(c, ""))
	}
	return forms
}

// CreateConferenceRequest is the request body for POST /conferences.
// Dates use the YYYY-MM-DD layout.
type CreateConferenceRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Topics       []string `json:"topics"`
	City         string   `json:"city"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	MaxAttendees int      `json:"max_attendees"`
}

// Validate implements Validator.
func (c CreateConferenceRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if c.MaxAttendees < 0 {
		errs = append(errs, "max_attendees must not be negative")
	}
	if _, err := parseOptionalDate(c.StartDate); err != nil {
		errs = append(errs, "start_date must be YYYY-MM-DD")
	}
	if _, err := parseOptionalDate(c.EndDate); err != nil {
		errs = append(errs, "end_date must be YYYY-MM-DD")
	}
	return errs
}

func (c CreateConferenceRequest) toConference() *domain.Conference {
	start, _ := parseOptionalDate(c.StartDate)
	end, _ := parseOptionalDate(c.EndDate)
	return &domain.Conference{
		Name:         strings.TrimSpace(c.Name),
		Description:  c.Description,
		Topics:       c.Topics,
		City:         c.City,
		StartDate:    start,
		EndDate:      end,
		MaxAttendees: c.MaxAttendees,
	}
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FilterForm is one client filter such as {"field": "CITY", "operator": "EQ", "value": "London"}.
type FilterForm struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// QueryRequest is the request body of the query endpoints. The body may be omitted.
type QueryRequest struct {
	Filters []FilterForm `json:"filters"`
}

func (q QueryRequest) toFilters() []domain.Filter {
	filters := make([]domain.Filter, 0, len(q.Filters))
	for _, f := range q.Filters {
		filters = append(filters, domain.Filter{Field: f.Field, Operator: f.Operator, Value: f.Value})
	}
	return filters
}

// SessionForm is the wire shape of a session. Time is HH:MM.
type SessionForm struct {
	WebsafeKey           string `json:"websafe_key"`
	ConferenceWebsafeKey string `json:"conference_websafe_key"`
	Name                 string `json:"name"`
	Description          string `json:"description"`
	Speaker              string `json:"speaker"`
	Date                 string `json:"date"`
	StartTime            string `json:"start_time"`
	Duration             int    `json:"duration"`
	Location             string `json:"location"`
	SessionType          string `json:"session_type"`
	MaxAttendees         int    `json:"max_attendees"`
	SeatsAvailable       int    `json:"seats_available"`
}

func toSessionForm(s *domain.Session) SessionForm {
	return SessionForm{
		WebsafeKey:           s.Key.Encode(),
		ConferenceWebsafeKey: s.ConferenceKey().Encode(),
		Name:                 s.Name,
		Description:          s.Description,
		Speaker:              s.Speaker,
		Date:                 s.Date.Format(domain.DateLayout),
		StartTime:            s.Time.Format(domain.TimeOfDayLayout),
		Duration:             s.Duration,
		Location:             s.Location,
		SessionType:          string(s.SessionType),
		MaxAttendees:         s.MaxAttendees,
		SeatsAvailable:       s.SeatsAvailable,
	}
}

func toSessionForms(sessions []*domain.Session) []SessionForm {
	forms := make([]SessionForm, 0, len(sessions))
	for _, s := range sessions {
		forms = append(forms, toSessionForm(s))
	}
	return forms
}

// CreateSessionRequest is the request body for POST /conferences/{websafeKey}/sessions.
type CreateSessionRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Speaker      string `json:"speaker"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	Duration     int    `json:"duration"`
	Location     string `json:"location"`
	SessionType  string `json:"session_type"`
	MaxAttendees int    `json:"max_attendees"`
}

// Validate implements Validator. Field presence rules are enforced by the session service.
func (c CreateSessionRequest) Validate() []string {
	var errs []string
	if c.Date != "" {
		if _, err := domain.ParseDate(c.Date); err != nil {
			errs = append(errs, "date must be YYYY-MM-DD")
		}
	}
	if c.StartTime != "" {
		if _, err := domain.ParseTimeOfDay(c.StartTime); err != nil {
			errs = append(errs, "start_time must be HH:MM")
		}
	}
	if _, err := domain.ParseSessionType(strings.ToLower(c.SessionType)); err != nil {
		errs = append(errs, fmt.Sprintf("session_type must be one of %s, %s, %s",
			domain.SessionTypeLecture, domain.SessionTypeWorkshop, domain.SessionTypeKeynote))
	}
	return errs
}

func (c CreateSessionRequest) toSession() *domain.Session {
	s := &domain.Session{
		Name:         strings.TrimSpace(c.Name),
		Description:  c.Description,
		Speaker:      strings.ToLower(strings.TrimSpace(c.Speaker)),
		Duration:     c.Duration,
		Location:     c.Location,
		MaxAttendees: c.MaxAttendees,
	}
	s.SessionType, _ = domain.ParseSessionType(strings.ToLower(c.SessionType))
	if c.Date != "" {
		s.Date, _ = domain.ParseDate(c.Date)
	}
	if c.StartTime != "" {
		s.Time, _ = domain.ParseTimeOfDay(c.StartTime)
	}
	return s
}

// SpeakerForm is the wire shape of a speaker.
type SpeakerForm struct {
	DisplayName string   `json:"display_name"`
	MainEmail   string   `json:"main_email"`
	Bio         string   `json:"bio"`
	SessionKeys []string `json:"session_keys"`
}

func toSpeakerForm(s *domain.Speaker) SpeakerForm {
	return SpeakerForm{
		DisplayName: s.DisplayName,
		MainEmail:   s.MainEmail,
		Bio:         s.Bio,
		SessionKeys: encodeKeys(s.SessionKeys),
	}
}

// SaveSpeakerRequest is the request body for POST /speakers.
type SaveSpeakerRequest struct {
	DisplayName string `json:"display_name"`
	MainEmail   string `json:"main_email"`
	Bio         string `json:"bio"`
}

// Validate implements Validator.
func (s SaveSpeakerRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.MainEmail) == "" {
		errs = append(errs, "main_email is required")
	}
	return errs
}

func (s SaveSpeakerRequest) toSpeaker() *domain.Speaker {
	return &domain.Speaker{
		DisplayName: strings.TrimSpace(s.DisplayName),
		MainEmail:   strings.TrimSpace(s.MainEmail),
		Bio:         s.Bio,
	}
}

// ProfileForm is the wire shape of the caller's profile.
type ProfileForm struct {
	DisplayName            string   `json:"display_name"`
	MainEmail              string   `json:"main_email"`
	TeeShirtSize           string   `json:"tee_shirt_size"`
	ConferenceKeysToAttend []string `json:"conference_keys_to_attend"`
	SessionKeysWishList    []string `json:"session_keys_wish_list"`
}

func toProfileForm(p *domain.Profile) ProfileForm {
	return ProfileForm{
		DisplayName:            p.DisplayName,
		MainEmail:              p.MainEmail,
		TeeShirtSize:           string(p.TeeShirtSize),
		ConferenceKeysToAttend: encodeKeys(p.ConferenceKeysToAttend),
		SessionKeysWishList:    encodeKeys(p.SessionKeysWishList),
	}
}

// SaveProfileRequest is the request body for PUT /profile. Empty fields are left unchanged.
type SaveProfileRequest struct {
	DisplayName  string `json:"display_name"`
	TeeShirtSize string `json:"tee_shirt_size"`
}

// Validate implements Validator.
func (s SaveProfileRequest) Validate() []string {
	if s.TeeShirtSize == "" {
		return nil
	}
	if _, err := domain.ParseTeeShirtSize(s.TeeShirtSize); err != nil {
		return []string{"tee_shirt_size is not a known size"}
	}
	return nil
}

// BooleanResponse carries the outcome of registration and wishlist changes.
type BooleanResponse struct {
	Result bool `json:"result"`
}

// StringResponse carries the derived announcement and featured speaker texts.
type StringResponse struct {
	Text string `json:"text"`
}

func encodeKeys(keys []*domain.Key) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.Encode())
	}
	return out
}
