package api

import "context"

// Register creates a new account. Login stays with the session store; this
// endpoint is unauthenticated and issues no tokens.
func (c *Client) Register(ctx context.Context, email, username, password, rePassword string) error {
	body := map[string]string{
		"email":       email,
		"username":    username,
		"password":    password,
		"re_password": rePassword,
	}
	return c.do(ctx, "POST", "/api/auth/users/", body, nil, false)
}
