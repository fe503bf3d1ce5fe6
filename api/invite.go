package api

import (
	"strings"

	"github.com/kagerou/hibiki/discord"
	"github.com/kagerou/hibiki/utils/httputil"
)

// InviteCode strips invite URLs down to the bare code.
func InviteCode(codeOrURL string) string {
	code := codeOrURL
	for _, prefix := range []string{
		"https://discord.gg/",
		"http://discord.gg/",
		"https://discordapp.com/invite/",
	} {
		code = strings.TrimPrefix(code, prefix)
	}
	return code
}

// ResolveInvite fetches the invite's metadata without accepting it.
func (c *Client) ResolveInvite(code string) (*discord.Invite, error) {
	var param struct {
		WithCounts bool `schema:"with_counts"`
	}
	param.WithCounts = true

	var inv *discord.Invite
	return inv, c.doJSON(&inv, "GET", c.Endpoint+"invite/"+InviteCode(code),
		httputil.WithSchema(c.SchemaEncoder, param))
}

// JoinInvite accepts the invite, joining its server.
func (c *Client) JoinInvite(code string) (*discord.Invite, error) {
	var inv *discord.Invite
	return inv, c.doJSON(&inv, "POST", c.Endpoint+"invite/"+InviteCode(code))
}

// DeleteInvite revokes the invite.
func (c *Client) DeleteInvite(code string) error {
	return mapError(c.FastRequest("DELETE", c.Endpoint+"invite/"+InviteCode(code)))
}
