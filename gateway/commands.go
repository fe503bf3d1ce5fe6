package gateway

import "github.com/kagerou/hibiki/discord"

// UpdateStatusData is the op 3 payload. A nil Game clears the playing
// status.
type UpdateStatusData struct {
	IdleSince *int64    `json:"idle_since"`
	Game      *GameData `json:"game"`
}

// UpdateStatus sets the playing status. An empty name clears it.
func (g *Gateway) UpdateStatus(game string) error {
	var data UpdateStatusData
	if game != "" {
		data.Game = &GameData{Name: game}
	}

	return g.Send(StatusUpdateOP, data)
}

// UpdateVoiceStateData is the op 4 payload. Nil IDs encode as JSON null,
// which detaches the bot from voice entirely.
type UpdateVoiceStateData struct {
	GuildID   *discord.Snowflake `json:"guild_id"`
	ChannelID *discord.Snowflake `json:"channel_id"`
	SelfMute  bool               `json:"self_mute"`
	SelfDeaf  bool               `json:"self_deaf"`
}

// UpdateVoiceState sends the op 4 voice state update.
func (g *Gateway) UpdateVoiceState(data UpdateVoiceStateData) error {
	return g.Send(VoiceStateUpdateOP, data)
}

// RequestGuildMembersData is the op 8 payload.
type RequestGuildMembersData struct {
	GuildIDs []discord.Snowflake `json:"guild_id"`
	Query    string              `json:"query"`
	Limit    uint                `json:"limit"`
}

// RequestGuildMembers asks the gateway to stream member chunks for the given
// guilds.
func (g *Gateway) RequestGuildMembers(guildIDs []discord.Snowflake) error {
	return g.Send(RequestGuildMembersOP, RequestGuildMembersData{
		GuildIDs: guildIDs,
	})
}
