// Package api provides an interface to interact with the Discord REST API:
// logging in, fetching the gateway address, and the channel, message, invite
// and application endpoints the session needs.
package api

import (
	"fmt"
	"net/http"

	"github.com/kagerou/hibiki/utils/httputil"
)

const (
	BaseEndpoint = "https://discordapp.com"
	APIPath      = "/api"

	Endpoint        = BaseEndpoint + APIPath + "/"
	EndpointGateway = Endpoint + "gateway"
)

// Version is the library version reported in the bot-identity header.
var Version = "0.1.0"

type Client struct {
	*httputil.Client

	// Endpoint is the API base URL, Endpoint by default. Tests point this at
	// a local server.
	Endpoint string

	// BotName identifies the bot on every request.
	BotName string

	Token string
}

// NewClient makes a client authenticated with the given token. The botName
// is carried in the User-Agent header of every request.
func NewClient(token, botName string) *Client {
	cli := &Client{
		Client:   httputil.NewClient(),
		Endpoint: Endpoint,
		BotName:  botName,
		Token:    token,
	}

	userAgent := fmt.Sprintf(
		"DiscordBot (https://github.com/kagerou/hibiki, v%s) %s",
		Version, botName,
	)

	cli.OnRequest = append(cli.OnRequest, func(r *http.Request) error {
		if cli.Token != "" {
			r.Header.Set("Authorization", cli.Token)
		}

		r.Header.Set("User-Agent", userAgent)
		return nil
	})

	return cli
}

// GatewayURL asks Discord for a Websocket URL to the gateway.
func (c *Client) GatewayURL() (string, error) {
	var g struct {
		URL string `json:"url"`
	}

	return g.URL, c.doJSON(&g, "GET", c.Endpoint+"gateway")
}

// doJSON performs a JSON request and maps error responses onto the semantic
// error values in errors.go.
func (c *Client) doJSON(to interface{}, method, url string, opts ...httputil.RequestOption) error {
	return mapError(c.RequestJSON(to, method, url, opts...))
}
