package model

import "strconv"

// University is a catalog record owned by the remote API. Fee fields are
// transported as decimal strings and may be empty or absent.
type University struct {
	ID                int           `json:"id"`
	Name              string        `json:"name"`
	Country           string        `json:"country"`
	City              string        `json:"city"`
	CourseOffered     string        `json:"course_offered"`
	DegreeLevel       string        `json:"degree_level"`
	TuitionFee        string        `json:"tuition_fee"`
	ApplicationFee    string        `json:"application_fee"`
	Website           string        `json:"website,omitempty"`
	UniversityLink    string        `json:"university_link,omitempty"`
	ApplicationLink   string        `json:"application_link,omitempty"`
	DeadlineUndergrad string        `json:"deadline_undergrad,omitempty"`
	DeadlineGrad      string        `json:"deadline_grad,omitempty"`
	Scholarships      []Scholarship `json:"scholarships,omitempty"`
}

// Scholarship is a sub-record of a university.
type Scholarship struct {
	Name        string `json:"name"`
	Coverage    string `json:"coverage"`
	Eligibility string `json:"eligibility"`
	Link        string `json:"link"`
}

// ParseFee coerces a wire fee string to a float. It never fails hard: an
// empty or non-numeric value returns ok=false so callers can treat the
// record as excluded-by-filter rather than erroring.
func ParseFee(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
