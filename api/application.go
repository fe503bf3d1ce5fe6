package api

import (
	"github.com/kagerou/hibiki/discord"
	"github.com/kagerou/hibiki/utils/httputil"
)

// Application is an OAuth application as returned by the applications
// endpoints.
type Application struct {
	ID           discord.Snowflake `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Secret       string            `json:"secret,omitempty"`
	RedirectURIs []string          `json:"redirect_uris,omitempty"`
	Icon         string            `json:"icon,omitempty"`
}

type applicationParam struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	RedirectURIs []string `json:"redirect_uris"`
}

// CreateOAuthApplication registers a new OAuth application.
func (c *Client) CreateOAuthApplication(name string, redirectURIs []string) (*Application, error) {
	param := applicationParam{Name: name, RedirectURIs: redirectURIs}
	if param.RedirectURIs == nil {
		param.RedirectURIs = []string{}
	}

	var app *Application
	return app, c.doJSON(&app, "POST", c.Endpoint+"oauth2/applications",
		httputil.WithJSONBody(c.Driver, param))
}

// UpdateOAuthApplication overwrites the application's name and redirect URIs.
func (c *Client) UpdateOAuthApplication(
	id discord.Snowflake, name string, redirectURIs []string) (*Application, error) {

	param := applicationParam{Name: name, RedirectURIs: redirectURIs}
	if param.RedirectURIs == nil {
		param.RedirectURIs = []string{}
	}

	var app *Application
	return app, c.doJSON(&app, "PUT", c.Endpoint+"oauth2/applications/"+id.String(),
		httputil.WithJSONBody(c.Driver, param))
}
