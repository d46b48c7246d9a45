// Package query builds the SQL predicates behind the user-search and
// directory filters. Conditions use ? bindvars and are expanded and
// rebound (sqlx.In / Rebind) at the repository edge, so no raw request
// input is ever interpolated into SQL text.
package query

import (
	"fmt"
	"strings"
	"time"
)

// Predicate is a single composable WHERE condition.
type Predicate struct {
	SQL  string
	Args []interface{}
}

// latestValueTmpl matches an account whose most recent value row for the
// given storage key satisfies the comparison. The MAX(id) subquery pins
// the comparison to the latest row, so superseded historical rows can
// neither match nor multiply results (the EXISTS keeps the predicate
// row-count neutral).
const latestValueTmpl = `EXISTS (
    SELECT 1
      FROM user_custom_fields ucf
     WHERE ucf.user_id = users.id
       AND ucf.name = ?
       AND ucf.id = (
           SELECT MAX(prev.id)
             FROM user_custom_fields prev
            WHERE prev.user_id = ucf.user_id
              AND prev.name = ucf.name
       )
       AND LOWER(TRIM(ucf.value)) %s
)`

// FieldEquals returns a latest-value predicate for a single candidate
// value. A blank value yields ok=false: the filter is a no-op, never an
// error and never a match-nothing condition.
func FieldEquals(storageKey, value string) (Predicate, bool) {
	norm := Normalize(value)
	if storageKey == "" || norm == "" {
		return Predicate{}, false
	}
	return Predicate{
		SQL:  fmt.Sprintf(latestValueTmpl, "= ?"),
		Args: []interface{}{storageKey, norm},
	}, true
}

// FieldIn returns a latest-value predicate accepting any of the candidate
// values. Values are normalized and de-duplicated; an entirely blank list
// yields ok=false.
func FieldIn(storageKey string, values []string) (Predicate, bool) {
	norm := NormalizeAll(values)
	if storageKey == "" || len(norm) == 0 {
		return Predicate{}, false
	}
	return Predicate{
		SQL:  fmt.Sprintf(latestValueTmpl, "IN (?)"),
		Args: []interface{}{storageKey, norm},
	}, true
}

// Baseline returns the always-applied eligibility predicates: active,
// non-staged accounts at or above the minimum trust level that are not
// suspended as of now. The suspension cutoff uses evaluation time, so a
// suspension lifted mid-pagination takes effect on the next page.
func Baseline(minTrustLevel int, now time.Time) []Predicate {
	return []Predicate{
		{SQL: "users.active = TRUE"},
		{SQL: "users.staged = FALSE"},
		{SQL: "users.trust_level >= ?", Args: []interface{}{minTrustLevel}},
		{SQL: "(users.suspended_till IS NULL OR users.suspended_till < ?)", Args: []interface{}{now}},
	}
}

// FilterSet is the immutable per-request collection of predicates: the
// baseline eligibility conditions plus zero or more attribute filters.
type FilterSet struct {
	predicates  []Predicate
	fieldFilter int
}

// Add appends a baseline predicate.
func (fs *FilterSet) Add(p Predicate) {
	fs.predicates = append(fs.predicates, p)
}

// AddFieldFilter appends an attribute filter predicate.
func (fs *FilterSet) AddFieldFilter(p Predicate) {
	fs.predicates = append(fs.predicates, p)
	fs.fieldFilter++
}

// HasFieldFilters reports whether any attribute filter is active. The
// baseline predicates do not count.
func (fs FilterSet) HasFieldFilters() bool {
	return fs.fieldFilter > 0
}

// Empty reports whether the set holds no predicates at all.
func (fs FilterSet) Empty() bool {
	return len(fs.predicates) == 0
}

// Where renders the set as one AND-joined condition with its flattened
// argument list. Predicates render in insertion order, keeping the
// composed query deterministic for identical inputs.
func (fs FilterSet) Where() (string, []interface{}) {
	if len(fs.predicates) == 0 {
		return "", nil
	}
	conds := make([]string, 0, len(fs.predicates))
	var args []interface{}
	for _, p := range fs.predicates {
		conds = append(conds, p.SQL)
		args = append(args, p.Args...)
	}
	return strings.Join(conds, " AND "), args
}
