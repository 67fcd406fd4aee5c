package domain

// Filter is a client-supplied query constraint before validation.
// Field is a symbolic name such as CITY and Operator a symbolic operator such as GTEQ.
type Filter struct {
	Field    string
	Operator string
	Value    string
}

// Operators maps symbolic operator names to comparison operators.
var Operators = map[string]string{
	"EQ":   "=",
	"GT":   ">",
	"GTEQ": ">=",
	"LT":   "<",
	"LTEQ": "<=",
	"NE":   "!=",
}

// ConferenceFields maps symbolic conference filter fields to storage field names.
var ConferenceFields = map[string]string{
	"CITY":          "city",
	"TOPIC":         "topics",
	"MONTH":         "month",
	"MAX_ATTENDEES": "maxAttendees",
}

// SessionFields maps symbolic session filter fields to storage field names.
var SessionFields = map[string]string{
	"DATE":           "date",
	"TIME":           "time",
	"DURATION":       "duration",
	"LOCATION":       "location",
	"SEATSAVAILABLE": "seatsAvailable",
	"TYPE":           "sessionType",
}

// IsEquality reports whether op is the equality operator.
func IsEquality(op string) bool {
	return op == "="
}

// NormalizedFilter is a validated filter: Field is a storage field name,
// Operator a comparison operator and Value still the raw client string.
type NormalizedFilter struct {
	Field    string
	Operator string
	Value    string
}

// QueryFilter is a filter whose value has been coerced to the field's type
// (string, int, or time.Time).
type QueryFilter struct {
	Field    string
	Operator string
	Value    any
}

// Query is a storage-independent query plan.
type Query struct {
	// Ancestor restricts results to descendants of this key when set.
	Ancestor *Key
	Filters  []QueryFilter
	// Order lists storage field names, all ascending.
	Order []string
}
