package discord

const (
	// TextChannel and VoiceChannel are the channel types on the wire.
	TextChannel  = "text"
	VoiceChannel = "voice"
)

// Overwrite is a per-channel permission overwrite for a role or member.
type Overwrite struct {
	ID    Snowflake   `json:"id"`
	Type  string      `json:"type"` // "role" or "member"
	Allow Permissions `json:"allow"`
	Deny  Permissions `json:"deny"`
}

type Channel struct {
	ID       Snowflake `json:"id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	ServerID Snowflake `json:"guild_id,omitempty"`
	Private  bool      `json:"is_private,omitempty"`
	Position int       `json:"position"`
	Topic    string    `json:"topic,omitempty"`

	// Recipient is only set on private channels.
	Recipient *User `json:"recipient,omitempty"`

	Overwrites []Overwrite `json:"permission_overwrites,omitempty"`
}

// RecipientID returns the ID of the private channel's recipient, or
// NullSnowflake for guild channels.
func (c Channel) RecipientID() Snowflake {
	if c.Recipient == nil {
		return NullSnowflake
	}
	return c.Recipient.ID
}

// Mention returns the mention form of the channel.
func (c Channel) Mention() string {
	return "<#" + c.ID.String() + ">"
}
