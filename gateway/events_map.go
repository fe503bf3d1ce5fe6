package gateway

// Event is any gateway payload struct. They have an "Event" suffix.
type Event = interface{}

// EventCreator maps a dispatch name to a payload constructor. The map is the
// exhaustive catalogue of recognized events; anything else is an explicit
// fallthrough handled by the dispatcher.
var EventCreator = map[string]func() Event{
	"READY": func() Event { return new(ReadyEvent) },

	"GUILD_CREATE": func() Event { return new(GuildCreateEvent) },
	"GUILD_UPDATE": func() Event { return new(GuildUpdateEvent) },
	"GUILD_DELETE": func() Event { return new(GuildDeleteEvent) },

	"GUILD_MEMBER_ADD":    func() Event { return new(GuildMemberAddEvent) },
	"GUILD_MEMBER_UPDATE": func() Event { return new(GuildMemberUpdateEvent) },
	"GUILD_MEMBER_REMOVE": func() Event { return new(GuildMemberRemoveEvent) },
	"GUILD_MEMBERS_CHUNK": func() Event { return new(GuildMembersChunkEvent) },

	"GUILD_ROLE_CREATE": func() Event { return new(GuildRoleCreateEvent) },
	"GUILD_ROLE_UPDATE": func() Event { return new(GuildRoleUpdateEvent) },
	"GUILD_ROLE_DELETE": func() Event { return new(GuildRoleDeleteEvent) },

	"GUILD_BAN_ADD":    func() Event { return new(GuildBanAddEvent) },
	"GUILD_BAN_REMOVE": func() Event { return new(GuildBanRemoveEvent) },

	"CHANNEL_CREATE": func() Event { return new(ChannelCreateEvent) },
	"CHANNEL_UPDATE": func() Event { return new(ChannelUpdateEvent) },
	"CHANNEL_DELETE": func() Event { return new(ChannelDeleteEvent) },

	"MESSAGE_CREATE": func() Event { return new(MessageCreateEvent) },
	"MESSAGE_UPDATE": func() Event { return new(MessageUpdateEvent) },
	"MESSAGE_DELETE": func() Event { return new(MessageDeleteEvent) },

	"TYPING_START": func() Event { return new(TypingStartEvent) },

	"PRESENCE_UPDATE": func() Event { return new(PresenceUpdateEvent) },

	"VOICE_STATE_UPDATE":  func() Event { return new(VoiceStateUpdateEvent) },
	"VOICE_SERVER_UPDATE": func() Event { return new(VoiceServerUpdateEvent) },
}
