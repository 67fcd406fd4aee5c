package services

import (
	"fmt"
	"strconv"
	"strings"

	"conferencecentral/internal/domain"
)

// Tiebreak orderings appended after the inequality field.
var (
	conferenceOrder = []string{"name"}
	sessionOrder    = []string{"date", "time"}
)

// FormatFilters resolves symbolic fields through allowed and operators through
// domain.Operators, keeping input order. It reports the single storage field used
// with an inequality operator, or "" when every filter is an equality.
func FormatFilters(raw []domain.Filter, allowed map[string]string) (string, []domain.NormalizedFilter, error) {
	var inequalityField string
	out := make([]domain.NormalizedFilter, 0, len(raw))
	for _, f := range raw {
		field, ok := allowed[strings.ToUpper(strings.TrimSpace(f.Field))]
		if !ok {
			return "", nil, &domain.FilterError{Field: f.Field, Reason: "filter contains invalid field or operator"}
		}
		op, ok := domain.Operators[strings.ToUpper(strings.TrimSpace(f.Operator))]
		if !ok {
			return "", nil, &domain.FilterError{Field: f.Field, Reason: "filter contains invalid field or operator"}
		}
		if !domain.IsEquality(op) {
			if inequalityField != "" && inequalityField != field {
				return "", nil, &domain.FilterError{Field: f.Field, Reason: "inequality filter is allowed on only one field"}
			}
			inequalityField = field
		}
		out = append(out, domain.NormalizedFilter{Field: field, Operator: op, Value: f.Value})
	}
	return inequalityField, out, nil
}

// BuildConferenceQuery validates filters and returns a conference query plan
// ordered by the inequality field (if any) then name.
func BuildConferenceQuery(filters []domain.Filter) (*domain.Query, error) {
	inequalityField, normalized, err := FormatFilters(filters, domain.ConferenceFields)
	if err != nil {
		return nil, err
	}
	q := &domain.Query{Order: orderBy(inequalityField, conferenceOrder)}
	for _, f := range normalized {
		v, err := coerceConferenceValue(f)
		if err != nil {
			return nil, err
		}
		q.Filters = append(q.Filters, domain.QueryFilter{Field: f.Field, Operator: f.Operator, Value: v})
	}
	return q, nil
}

// BuildSessionQuery validates filters and returns a session query plan scoped to
// ancestor (nil for all conferences), ordered by the inequality field (if any) then date and time.
func BuildSessionQuery(filters []domain.Filter, ancestor *domain.Key) (*domain.Query, error) {
	inequalityField, normalized, err := FormatFilters(filters, domain.SessionFields)
	if err != nil {
		return nil, err
	}
	q := &domain.Query{Ancestor: ancestor, Order: orderBy(inequalityField, sessionOrder)}
	for _, f := range normalized {
		v, err := coerceSessionValue(f)
		if err != nil {
			return nil, err
		}
		q.Filters = append(q.Filters, domain.QueryFilter{Field: f.Field, Operator: f.Operator, Value: v})
	}
	return q, nil
}

func orderBy(inequalityField string, tiebreak []string) []string {
	order := make([]string, 0, len(tiebreak)+1)
	if inequalityField != "" {
		order = append(order, inequalityField)
	}
	for _, field := range tiebreak {
		if field != inequalityField {
			order = append(order, field)
		}
	}
	return order
}

func coerceConferenceValue(f domain.NormalizedFilter) (any, error) {
	switch f.Field {
	case "month", "maxAttendees":
		return coerceInt(f)
	default:
		return f.Value, nil
	}
}

func coerceSessionValue(f domain.NormalizedFilter) (any, error) {
	switch f.Field {
	case "duration", "seatsAvailable":
		return coerceInt(f)
	case "date":
		d, err := domain.ParseDate(strings.TrimSpace(f.Value))
		if err != nil {
			return nil, &domain.FilterError{Field: f.Field, Reason: fmt.Sprintf("expected a date formatted %s, got %q", domain.DateLayout, f.Value)}
		}
		return d, nil
	case "time":
		t, err := domain.ParseTimeOfDay(strings.TrimSpace(f.Value))
		if err != nil {
			return nil, &domain.FilterError{Field: f.Field, Reason: fmt.Sprintf("expected a time formatted HH:MM, got %q", f.Value)}
		}
		return t, nil
	case "sessionType":
		v := strings.ToLower(strings.TrimSpace(f.Value))
		st, err := domain.ParseSessionType(v)
		if err != nil || v == "" {
			return nil, &domain.FilterError{Field: f.Field, Reason: fmt.Sprintf("unknown session type %q", f.Value)}
		}
		return string(st), nil
	default:
		return f.Value, nil
	}
}

func coerceInt(f domain.NormalizedFilter) (any, error) {
	n, err := strconv.Atoi(strings.TrimSpace(f.Value))
	if err != nil {
		return nil, &domain.FilterError{Field: f.Field, Reason: fmt.Sprintf("expected an integer, got %q", f.Value)}
	}
	return n, nil
}
