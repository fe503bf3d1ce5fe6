package gateway

import "github.com/kagerou/hibiki/discord"

// Rules: VOICE_STATE_UPDATE -> VoiceStateUpdateEvent

// GuildData is a full guild as delivered inside READY and GUILD_CREATE:
// the guild object plus its channels, members, presences and voice states.
type GuildData struct {
	discord.Server

	Channels    []discord.Channel    `json:"channels,omitempty"`
	Members     []discord.Member     `json:"members,omitempty"`
	Presences   []PresenceData       `json:"presences,omitempty"`
	VoiceStates []discord.VoiceState `json:"voice_states,omitempty"`
}

// PresenceData is a member presence on the wire. Only the user's ID is
// reliably present in the inner user object.
type PresenceData struct {
	User    discord.User        `json:"user"`
	Status  discord.Status      `json:"status"`
	Game    *GameData           `json:"game"`
	GuildID discord.Snowflake   `json:"guild_id,omitempty"`
	Roles   []discord.Snowflake `json:"roles,omitempty"`
}

type GameData struct {
	Name string `json:"name"`
}

type (
	ReadyEvent struct {
		Version           int                  `json:"v"`
		User              discord.User         `json:"user"`
		SessionID         string               `json:"session_id"`
		HeartbeatInterval discord.Milliseconds `json:"heartbeat_interval"`
		Guilds            []GuildData          `json:"guilds"`
		PrivateChannels   []discord.Channel    `json:"private_channels"`
	}

	GuildCreateEvent struct {
		GuildData
	}
	GuildUpdateEvent struct {
		discord.Server
	}
	GuildDeleteEvent struct {
		ID          discord.Snowflake `json:"id"`
		Unavailable bool              `json:"unavailable"`
	}

	GuildMemberAddEvent struct {
		discord.Member
		GuildID discord.Snowflake `json:"guild_id"`
	}
	GuildMemberUpdateEvent struct {
		GuildID discord.Snowflake   `json:"guild_id"`
		RoleIDs []discord.Snowflake `json:"roles"`
		User    discord.User        `json:"user"`
	}
	GuildMemberRemoveEvent struct {
		GuildID discord.Snowflake `json:"guild_id"`
		User    discord.User      `json:"user"`
	}
	GuildMembersChunkEvent struct {
		GuildID discord.Snowflake `json:"guild_id"`
		Members []discord.Member  `json:"members"`
	}

	GuildRoleCreateEvent struct {
		GuildID discord.Snowflake `json:"guild_id"`
		Role    discord.Role      `json:"role"`
	}
	GuildRoleUpdateEvent struct {
		GuildID discord.Snowflake `json:"guild_id"`
		Role    discord.Role      `json:"role"`
	}
	GuildRoleDeleteEvent struct {
		GuildID discord.Snowflake `json:"guild_id"`
		RoleID  discord.Snowflake `json:"role_id"`
	}

	GuildBanAddEvent struct {
		GuildID discord.Snowflake `json:"guild_id"`
		User    discord.User      `json:"user"`
	}
	GuildBanRemoveEvent struct {
		GuildID discord.Snowflake `json:"guild_id"`
		User    discord.User      `json:"user"`
	}
)

type (
	ChannelCreateEvent struct {
		discord.Channel
	}
	ChannelUpdateEvent struct {
		discord.Channel
	}
	ChannelDeleteEvent struct {
		discord.Channel
	}
)

type (
	MessageCreateEvent struct {
		discord.Message
	}
	MessageUpdateEvent struct {
		discord.Message
	}
	MessageDeleteEvent struct {
		ID        discord.Snowflake `json:"id"`
		ChannelID discord.Snowflake `json:"channel_id"`
	}

	TypingStartEvent struct {
		ChannelID discord.Snowflake `json:"channel_id"`
		UserID    discord.Snowflake `json:"user_id"`
		Timestamp int64             `json:"timestamp"`
	}
)

type (
	PresenceUpdateEvent struct {
		PresenceData
	}

	VoiceStateUpdateEvent struct {
		discord.VoiceState
		GuildID discord.Snowflake `json:"guild_id"`
	}
	VoiceServerUpdateEvent struct {
		Token    string            `json:"token"`
		GuildID  discord.Snowflake `json:"guild_id"`
		Endpoint string            `json:"endpoint"`
	}
)
