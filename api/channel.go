package api

import (
	"github.com/kagerou/hibiki/discord"
	"github.com/kagerou/hibiki/utils/httputil"
)

// Channel fetches a single channel by ID.
func (c *Client) Channel(id discord.Snowflake) (*discord.Channel, error) {
	var ch *discord.Channel
	return ch, c.doJSON(&ch, "GET", c.Endpoint+"channels/"+id.String())
}

// CreatePrivateChannel opens (or reuses) the DM channel with the recipient.
func (c *Client) CreatePrivateChannel(recipientID discord.Snowflake) (*discord.Channel, error) {
	var param struct {
		RecipientID discord.Snowflake `json:"recipient_id"`
	}
	param.RecipientID = recipientID

	var ch *discord.Channel
	return ch, c.doJSON(&ch, "POST", c.Endpoint+"users/@me/channels",
		httputil.WithJSONBody(c.Driver, param))
}
