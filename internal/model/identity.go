package model

// Identity holds the claims decoded locally from the access token. It is
// used for UI gating only; the server remains the authority for every
// privileged operation.
type Identity struct {
	Username string   `json:"username"`
	Groups   []string `json:"groups"`
	IsStaff  bool     `json:"is_staff"`
}

// IsAdmin reports whether the identity should be routed to the admin
// surface after login.
func (i *Identity) IsAdmin() bool {
	if i == nil {
		return false
	}
	if i.IsStaff {
		return true
	}
	for _, g := range i.Groups {
		if g == "admin" {
			return true
		}
	}
	return false
}
