package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"conferencecentral/internal/domain"
)

// column maps a query field to its SQL column. Array columns hold repeated
// values and match when any element satisfies the comparison.
type column struct {
	name  string
	array bool
}

var conferenceColumns = map[string]column{
	"name":         {name: "name"},
	"city":         {name: "city"},
	"topics":       {name: "topics", array: true},
	"month":        {name: "month"},
	"maxAttendees": {name: "max_attendees"},
}

var sessionColumns = map[string]column{
	"name":           {name: "name"},
	"date":           {name: "date"},
	"time":           {name: "time_of_day"},
	"duration":       {name: "duration"},
	"location":       {name: "location"},
	"seatsAvailable": {name: "seats_available"},
	"sessionType":    {name: "session_type"},
}

var sqlOperators = map[string]string{
	"=":  "=",
	"!=": "<>",
	">":  ">",
	">=": ">=",
	"<":  "<",
	"<=": "<=",
}

// mirrored turns "col op $n" into "$n op' col" for ANY() comparisons.
var mirrored = map[string]string{
	"=":  "=",
	"<>": "<>",
	">":  "<",
	">=": "<=",
	"<":  ">",
	"<=": ">=",
}

// sqlPlan is a WHERE clause, ORDER BY clause and positional arguments.
type sqlPlan struct {
	where   []string
	orderBy []string
	args    []any
}

func (p *sqlPlan) arg(v any) string {
	p.args = append(p.args, v)
	return "$" + strconv.Itoa(len(p.args))
}

// addCondition appends a condition whose single placeholder is written as %s.
func (p *sqlPlan) addCondition(format string, v any) {
	p.where = append(p.where, fmt.Sprintf(format, p.arg(v)))
}

func (p *sqlPlan) clauses() string {
	var b strings.Builder
	if len(p.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(p.where, " AND "))
	}
	if len(p.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(p.orderBy, ", "))
	}
	return b.String()
}

// translate converts the filters and ordering of q into SQL against columns.
// The ancestor restriction is the caller's job since it depends on the table.
func translate(q *domain.Query, columns map[string]column, p *sqlPlan) error {
	for _, f := range q.Filters {
		col, ok := columns[f.Field]
		if !ok {
			return &domain.FilterError{Field: f.Field, Reason: "field is not queryable"}
		}
		op, ok := sqlOperators[f.Operator]
		if !ok {
			return &domain.FilterError{Field: f.Field, Reason: fmt.Sprintf("unsupported operator %q", f.Operator)}
		}
		if col.array {
			p.addCondition("%s "+mirrored[op]+" ANY("+col.name+")", f.Value)
			continue
		}
		p.addCondition(col.name+" "+op+" %s", f.Value)
	}
	for _, field := range q.Order {
		col, ok := columns[field]
		if !ok {
			return &domain.FilterError{Field: field, Reason: "field is not sortable"}
		}
		p.orderBy = append(p.orderBy, col.name)
	}
	return nil
}
