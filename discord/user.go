package discord

// Status is a user's presence status as reported by the gateway.
type Status string

const (
	OnlineStatus  Status = "online"
	IdleStatus    Status = "idle"
	OfflineStatus Status = "offline"
	DoNotDisturb  Status = "dnd"
)

type User struct {
	ID            Snowflake `json:"id"`
	Username      string    `json:"username"`
	Discriminator string    `json:"discriminator"`
	Avatar        string    `json:"avatar"`
	Bot           bool      `json:"bot,omitempty"`

	// Presence fields maintained from the gateway; not part of the user
	// object on the wire.
	Status Status `json:"-"`
	Game   string `json:"-"`

	// Roles maps a server ID to the IDs of the roles the user holds there.
	// Maintained by the cache, keyed by ID so that User, Server and Role
	// never point at each other directly.
	Roles map[Snowflake][]Snowflake `json:"-"`
}

// Mention returns the mention form of the user.
func (u User) Mention() string {
	return "<@" + u.ID.String() + ">"
}

// Tag returns the username#discriminator form of the user.
func (u User) Tag() string {
	return u.Username + "#" + u.Discriminator
}

// RolesOn returns the IDs of the roles the user holds on the given server.
func (u User) RolesOn(serverID Snowflake) []Snowflake {
	return u.Roles[serverID]
}

// Member is a guild member as it appears inside guild payloads.
type Member struct {
	User     User        `json:"user"`
	RoleIDs  []Snowflake `json:"roles"`
	Nick     string      `json:"nick,omitempty"`
	JoinedAt string      `json:"joined_at,omitempty"`
	Mute     bool        `json:"mute"`
	Deaf     bool        `json:"deaf"`
}
