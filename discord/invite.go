package discord

// InviteServer and InviteChannel are the summaries embedded in an invite;
// they carry less than the full entities.
type InviteServer struct {
	ID   Snowflake `json:"id"`
	Name string    `json:"name"`
}

type InviteChannel struct {
	ID   Snowflake `json:"id"`
	Name string    `json:"name"`
	Type string    `json:"type"`
}

type Invite struct {
	Code    string        `json:"code"`
	Server  InviteServer  `json:"guild"`
	Channel InviteChannel `json:"channel"`
	Inviter *User         `json:"inviter,omitempty"`

	Uses      int  `json:"uses,omitempty"`
	MaxUses   int  `json:"max_uses,omitempty"`
	MaxAge    int  `json:"max_age,omitempty"`
	Temporary bool `json:"temporary,omitempty"`
	Revoked   bool `json:"revoked,omitempty"`
}
