package api

import (
	"context"
	"fmt"

	"github.com/existflow/unicompass/internal/model"
)

// UniversityInput is the explicit field list for admin create/update. Keys
// are fixed here rather than enumerated from a record at runtime.
type UniversityInput struct {
	Name              string              `json:"name"`
	Country           string              `json:"country"`
	City              string              `json:"city"`
	CourseOffered     string              `json:"course_offered"`
	DegreeLevel       string              `json:"degree_level"`
	TuitionFee        string              `json:"tuition_fee"`
	ApplicationFee    string              `json:"application_fee"`
	Website           string              `json:"website,omitempty"`
	UniversityLink    string              `json:"university_link,omitempty"`
	ApplicationLink   string              `json:"application_link,omitempty"`
	DeadlineUndergrad string              `json:"deadline_undergrad,omitempty"`
	DeadlineGrad      string              `json:"deadline_grad,omitempty"`
	Scholarships      []model.Scholarship `json:"scholarships,omitempty"`
}

// CreateUniversity adds a catalog record.
func (c *Client) CreateUniversity(ctx context.Context, in UniversityInput) (*model.University, error) {
	var u model.University
	if err := c.do(ctx, "POST", "/api/universities/create/", in, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUniversity replaces a catalog record.
func (c *Client) UpdateUniversity(ctx context.Context, id int, in UniversityInput) (*model.University, error) {
	var u model.University
	if err := c.do(ctx, "PUT", fmt.Sprintf("/api/universities/%d/update/", id), in, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUniversity removes a catalog record.
func (c *Client) DeleteUniversity(ctx context.Context, id int) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/api/universities/%d/delete/", id), nil, nil, true)
}

// User is an account record as the admin endpoints report it.
type User struct {
	ID       int      `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	IsStaff  bool     `json:"is_staff"`
	Groups   []string `json:"groups,omitempty"`
}

// UserInput is the explicit field list for admin user create/update.
// Updates are partial: only set fields are sent, so the staff flag is a
// pointer to distinguish "unset" from "false".
type UserInput struct {
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	Password string   `json:"password,omitempty"`
	IsStaff  *bool    `json:"is_staff,omitempty"`
	Groups   []string `json:"groups,omitempty"`
}

// ListUsers fetches every account.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, "GET", "/api/users/", nil, &users, true); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser adds an account.
func (c *Client) CreateUser(ctx context.Context, in UserInput) (*User, error) {
	var u User
	if err := c.do(ctx, "POST", "/api/users/", in, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser patches an account; unset input fields are left untouched.
func (c *Client) UpdateUser(ctx context.Context, id int, in UserInput) (*User, error) {
	var u User
	if err := c.do(ctx, "PATCH", fmt.Sprintf("/api/users/%d/", id), in, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/api/users/%d/", id), nil, nil, true)
}

// Stats is the admin overview record.
type Stats struct {
	TotalUsers        int `json:"total_users"`
	TotalUniversities int `json:"total_universities"`
	ActiveSubscribers int `json:"active_subscribers"`
}

// AdminStats fetches the admin overview counters.
func (c *Client) AdminStats(ctx context.Context) (*Stats, error) {
	var s Stats
	if err := c.do(ctx, "GET", "/api/admin/stats/", nil, &s, true); err != nil {
		return nil, err
	}
	return &s, nil
}
