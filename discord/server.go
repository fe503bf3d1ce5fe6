package discord

// VoiceState is a member's state inside a server's voice channels.
type VoiceState struct {
	UserID    Snowflake `json:"user_id"`
	ChannelID Snowflake `json:"channel_id"`
	SessionID string    `json:"session_id,omitempty"`
	Mute      bool      `json:"mute"`
	Deaf      bool      `json:"deaf"`
	SelfMute  bool      `json:"self_mute"`
	SelfDeaf  bool      `json:"self_deaf"`
}

// Server is a Discord guild. Channels and members are referenced by ID; the
// entities themselves live in the cache.
type Server struct {
	ID      Snowflake `json:"id"`
	Name    string    `json:"name"`
	Icon    string    `json:"icon"`
	Region  string    `json:"region"`
	OwnerID Snowflake `json:"owner_id"`

	// Roles is ordered by position, as delivered by the gateway.
	Roles []Role `json:"roles,omitempty"`

	ChannelIDs  []Snowflake              `json:"-"`
	MemberIDs   []Snowflake              `json:"-"`
	VoiceStates map[Snowflake]VoiceState `json:"-"`
}

// Role returns the role with the given ID, or nil.
func (s *Server) Role(id Snowflake) *Role {
	for i, r := range s.Roles {
		if r.ID == id {
			return &s.Roles[i]
		}
	}
	return nil
}

// HasMember reports whether the user ID is in the server's member set.
func (s *Server) HasMember(userID Snowflake) bool {
	for _, id := range s.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasChannel reports whether the channel ID is in the server's channel set.
func (s *Server) HasChannel(channelID Snowflake) bool {
	for _, id := range s.ChannelIDs {
		if id == channelID {
			return true
		}
	}
	return false
}
