package api

import (
	"github.com/kagerou/hibiki/discord"
	"github.com/kagerou/hibiki/utils/httputil"
)

// CreateServer makes a new server owned by the current user.
func (c *Client) CreateServer(name, region string) (*discord.Server, error) {
	var param struct {
		Name   string `json:"name"`
		Region string `json:"region,omitempty"`
	}
	param.Name = name
	param.Region = region

	var sv *discord.Server
	return sv, c.doJSON(&sv, "POST", c.Endpoint+"guilds",
		httputil.WithJSONBody(c.Driver, param))
}
