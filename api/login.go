package api

import "github.com/kagerou/hibiki/utils/httputil"

type LoginResponse struct {
	Token string `json:"token"`
}

// Login trades an email and password for a session token.
func (c *Client) Login(email, password string) (*LoginResponse, error) {
	var param struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	param.Email = email
	param.Password = password

	var r *LoginResponse
	return r, c.doJSON(&r, "POST", c.Endpoint+"auth/login",
		httputil.WithJSONBody(c.Driver, param))
}
