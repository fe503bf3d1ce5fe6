// Package event holds the typed values raised to user handlers. Each type is
// one event kind; handlers take a pointer to exactly one of them (or an
// interface{} to receive all kinds).
//
// Entities inside events are snapshots taken when the event was raised; the
// cache keeps moving underneath, but an event's view never changes.
package event

import "github.com/kagerou/hibiki/discord"

// Ready is raised after the cache has been rebuilt from a READY payload.
type Ready struct {
	BotUser *discord.User
}

type (
	GuildCreate struct {
		Server *discord.Server
	}
	GuildUpdate struct {
		Server *discord.Server
	}
	// GuildDelete carries the server that was just removed from the cache.
	GuildDelete struct {
		Server *discord.Server
	}

	GuildMemberAdd struct {
		Server *discord.Server
		User   *discord.User
		Roles  []discord.Snowflake
	}
	GuildMemberUpdate struct {
		Server *discord.Server
		User   *discord.User
		Roles  []discord.Snowflake
	}
	GuildMemberDelete struct {
		Server *discord.Server
		User   *discord.User
	}

	GuildRoleCreate struct {
		Server *discord.Server
		Role   *discord.Role
	}
	GuildRoleUpdate struct {
		Server *discord.Server
		Role   *discord.Role
	}
	GuildRoleDelete struct {
		Server *discord.Server
		RoleID discord.Snowflake
	}

	UserBan struct {
		Server *discord.Server
		User   *discord.User
	}
	UserUnban struct {
		Server *discord.Server
		User   *discord.User
	}
)

type (
	ChannelCreate struct {
		Channel *discord.Channel
	}
	ChannelUpdate struct {
		Channel *discord.Channel
	}
	ChannelDelete struct {
		Channel *discord.Channel
	}
)

type (
	// Message is raised for every incoming message the bot can see.
	Message struct {
		Message *discord.Message
	}
	// Mention is raised after Message when the bot's user appears in the
	// message's mention list.
	Mention struct {
		Message *discord.Message
	}
	// PrivateMessage is raised after Message (and Mention) when the message
	// arrived on a private channel.
	PrivateMessage struct {
		Message *discord.Message
	}

	MessageEdit struct {
		ID        discord.Snowflake
		ChannelID discord.Snowflake
		Content   string
	}
	MessageDelete struct {
		ID        discord.Snowflake
		ChannelID discord.Snowflake
	}

	Typing struct {
		Channel   *discord.Channel
		User      *discord.User
		Timestamp int64
	}
)

type (
	// Playing is raised when a presence update changes what a user is
	// playing.
	Playing struct {
		User *discord.User
		Game string
	}
	// Presence is raised for presence updates that do not change the game.
	Presence struct {
		User   *discord.User
		Status discord.Status
	}

	VoiceStateUpdate struct {
		Server *discord.Server
		User   *discord.User
		State  discord.VoiceState
	}
)
