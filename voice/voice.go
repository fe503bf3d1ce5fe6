// Package voice holds the credentials handed over by the gateway's voice
// handshake. A Session is everything needed to open the UDP media transport;
// the transport itself is not part of this package.
package voice

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/kagerou/hibiki/discord"
)

// Session is an established voice handshake: the channel the bot joined and
// the credentials VOICE_SERVER_UPDATE delivered for it.
type Session struct {
	// Channel is the voice channel the session is bound to.
	Channel *discord.Channel

	// SessionID comes from the bot's own VOICE_STATE_UPDATE, Token and
	// Endpoint from the VOICE_SERVER_UPDATE that completed the handshake.
	SessionID string
	Token     string
	Endpoint  string

	// Encrypted marks whether the media transport should encrypt frames.
	Encrypted bool

	Log zerolog.Logger
}

// NewSession builds a Session from the handshake results. The endpoint's
// ":443" port suffix, when present, is stripped: the voice port is negotiated
// separately and the suffix is an artifact of the payload.
func NewSession(
	ch *discord.Channel, sessionID, token, endpoint string,
	encrypted bool, log zerolog.Logger) *Session {

	endpoint = strings.TrimSuffix(endpoint, ":443")

	return &Session{
		Channel:   ch,
		SessionID: sessionID,
		Token:     token,
		Endpoint:  endpoint,
		Encrypted: encrypted,
		Log:       log,
	}
}

// Close tears the session down. The media transport, when one has been
// opened, is shut down here.
func (s *Session) Close() {
	s.Log.Debug().
		Str("endpoint", s.Endpoint).
		Msg("voice session closed")
}
