package catalog

import (
	"strings"

	"github.com/existflow/unicompass/internal/api"
	"github.com/existflow/unicompass/internal/model"
)

// FilterSet is the structured filter state. An empty field imposes no
// constraint: a numeric comparison is only ever made against a set bound,
// never against the empty string. FilterSet is a value type on purpose; the
// UI edits a draft copy and assigns it over the applied set on confirm.
type FilterSet struct {
	Country    string
	City       string
	Course     string
	Degree     string
	MaxAppFee  string
	MaxTuition string
}

// IsZero reports whether every field is unset.
func (f FilterSet) IsZero() bool {
	return f == FilterSet{}
}

func (f FilterSet) params(query, page string, pageSize int) api.ListParams {
	return api.ListParams{
		Query:      query,
		Country:    f.Country,
		City:       f.City,
		Course:     f.Course,
		Degree:     f.Degree,
		MaxAppFee:  f.MaxAppFee,
		MaxTuition: f.MaxTuition,
		Page:       page,
		PageSize:   pageSize,
	}
}

// Match is the client-side filtering predicate used when the full catalog
// is held in memory. A record matches iff the free-text query is empty or
// hits name/country/course by case-insensitive substring, AND every set
// filter field holds. Missing string fields behave as empty strings.
func Match(u model.University, query string, f FilterSet) bool {
	if query != "" {
		q := strings.ToLower(query)
		if !strings.Contains(strings.ToLower(u.Name), q) &&
			!strings.Contains(strings.ToLower(u.Country), q) &&
			!strings.Contains(strings.ToLower(u.CourseOffered), q) {
			return false
		}
	}

	if f.Country != "" && !strings.EqualFold(u.Country, f.Country) {
		return false
	}
	if f.City != "" && !strings.EqualFold(u.City, f.City) {
		return false
	}
	if f.Course != "" && !strings.Contains(strings.ToLower(u.CourseOffered), strings.ToLower(f.Course)) {
		return false
	}
	if f.Degree != "" && !strings.EqualFold(u.DegreeLevel, f.Degree) {
		return false
	}
	if !feeWithin(u.ApplicationFee, f.MaxAppFee) {
		return false
	}
	if !feeWithin(u.TuitionFee, f.MaxTuition) {
		return false
	}
	return true
}

// feeWithin applies an inclusive upper bound. An unset or non-numeric
// bound imposes no constraint; a set bound excludes records whose fee is
// absent or non-numeric rather than erroring on them.
func feeWithin(fee, bound string) bool {
	max, ok := model.ParseFee(bound)
	if !ok {
		return true
	}
	v, ok := model.ParseFee(fee)
	if !ok {
		return false
	}
	return v <= max
}

// FilterAll returns the records matching the query and filter set, in
// input order.
func FilterAll(list []model.University, query string, f FilterSet) []model.University {
	var out []model.University
	for _, u := range list {
		if Match(u, query, f) {
			out = append(out, u)
		}
	}
	return out
}
