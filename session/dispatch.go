package session

import (
	"github.com/pkg/errors"

	"github.com/kagerou/hibiki/api"
	"github.com/kagerou/hibiki/discord"
	"github.com/kagerou/hibiki/event"
	"github.com/kagerou/hibiki/gateway"
	"github.com/kagerou/hibiki/utils/json"
	"github.com/kagerou/hibiki/voice"
)

// dispatch consumes one inbound frame. Only op 0 is legal from the server;
// anything else is a protocol violation and the returned error drops the
// connection. Frames are processed strictly in arrival order: all cache
// mutations for a frame finish before the next frame is read.
func (s *Session) dispatch(op *gateway.OP) error {
	if op.Code != gateway.DispatchOP {
		return gateway.ProtocolError{Code: op.Code, Payload: string(op.Data)}
	}

	fn, ok := gateway.EventCreator[op.EventName]
	if !ok {
		s.Log.Warn().
			Str("event", op.EventName).
			Msg("unknown event dropped")
		return nil
	}

	ev := fn()
	if err := json.Unmarshal(op.Data, ev); err != nil {
		s.Log.Warn().
			Err(err).
			Str("event", op.EventName).
			Msg("undecodable event dropped")
		return nil
	}

	s.dispatchEvent(ev)
	return nil
}

func (s *Session) dispatchEvent(ev gateway.Event) {
	switch ev := ev.(type) {
	case *gateway.ReadyEvent:
		s.onReady(ev)

	case *gateway.GuildCreateEvent:
		sv := s.ingestGuild(ev.GuildData)
		s.Raise(&event.GuildCreate{Server: s.Store.SnapshotServer(sv)})

	case *gateway.GuildUpdateEvent:
		if sv, ok := s.Store.MergeServer(ev.Server); ok {
			s.Raise(&event.GuildUpdate{Server: s.Store.SnapshotServer(sv)})
		}

	case *gateway.GuildDeleteEvent:
		if sv, ok := s.Store.RemoveServer(ev.ID); ok {
			s.Raise(&event.GuildDelete{Server: s.Store.SnapshotServer(sv)})
		}

	case *gateway.GuildMembersChunkEvent:
		for _, m := range ev.Members {
			s.Store.AddMember(ev.GuildID, m.User, m.RoleIDs)
		}

	case *gateway.GuildMemberAddEvent:
		u := s.Store.AddMember(ev.GuildID, ev.Member.User, ev.Member.RoleIDs)
		sv, _ := s.Store.Server(ev.GuildID)
		s.Raise(&event.GuildMemberAdd{
			Server: s.Store.SnapshotServer(sv),
			User:   s.Store.SnapshotUser(u),
			Roles:  ev.Member.RoleIDs,
		})

	case *gateway.GuildMemberUpdateEvent:
		u := s.Store.UpsertUser(ev.User)
		s.Store.SetMemberRoles(ev.GuildID, ev.User.ID, ev.RoleIDs)
		sv, _ := s.Store.Server(ev.GuildID)
		s.Raise(&event.GuildMemberUpdate{
			Server: s.Store.SnapshotServer(sv),
			User:   s.Store.SnapshotUser(u),
			Roles:  ev.RoleIDs,
		})

	case *gateway.GuildMemberRemoveEvent:
		u := s.Store.UpsertUser(ev.User)
		s.Store.RemoveMember(ev.GuildID, ev.User.ID)
		sv, _ := s.Store.Server(ev.GuildID)
		s.Raise(&event.GuildMemberDelete{
			Server: s.Store.SnapshotServer(sv),
			User:   s.Store.SnapshotUser(u),
		})

	case *gateway.GuildRoleCreateEvent:
		if role, ok := s.Store.UpsertRole(ev.GuildID, ev.Role); ok {
			sv, _ := s.Store.Server(ev.GuildID)
			s.Raise(&event.GuildRoleCreate{
				Server: s.Store.SnapshotServer(sv),
				Role:   s.Store.SnapshotRole(role),
			})
		}

	case *gateway.GuildRoleUpdateEvent:
		if role, ok := s.Store.UpsertRole(ev.GuildID, ev.Role); ok {
			sv, _ := s.Store.Server(ev.GuildID)
			s.Raise(&event.GuildRoleUpdate{
				Server: s.Store.SnapshotServer(sv),
				Role:   s.Store.SnapshotRole(role),
			})
		}

	case *gateway.GuildRoleDeleteEvent:
		s.Store.RemoveRole(ev.GuildID, ev.RoleID)
		sv, _ := s.Store.Server(ev.GuildID)
		s.Raise(&event.GuildRoleDelete{Server: s.Store.SnapshotServer(sv), RoleID: ev.RoleID})

	case *gateway.GuildBanAddEvent:
		// Bans are not tracked in the cache.
		u := s.Store.UpsertUser(ev.User)
		sv, _ := s.Store.Server(ev.GuildID)
		s.Raise(&event.UserBan{Server: s.Store.SnapshotServer(sv), User: s.Store.SnapshotUser(u)})

	case *gateway.GuildBanRemoveEvent:
		u := s.Store.UpsertUser(ev.User)
		sv, _ := s.Store.Server(ev.GuildID)
		s.Raise(&event.UserUnban{Server: s.Store.SnapshotServer(sv), User: s.Store.SnapshotUser(u)})

	case *gateway.ChannelCreateEvent:
		ch := ev.Channel
		cached := s.Store.UpsertChannel(&ch)
		s.Raise(&event.ChannelCreate{Channel: s.Store.SnapshotChannel(cached)})

	case *gateway.ChannelUpdateEvent:
		ch := ev.Channel
		cached := s.Store.UpsertChannel(&ch)
		s.Raise(&event.ChannelUpdate{Channel: s.Store.SnapshotChannel(cached)})

	case *gateway.ChannelDeleteEvent:
		ch, ok := s.Store.RemoveChannel(ev.Channel.ID)
		if !ok {
			ch = &ev.Channel
		}
		s.Raise(&event.ChannelDelete{Channel: s.Store.SnapshotChannel(ch)})

	case *gateway.MessageCreateEvent:
		s.onMessage(ev.Message)

	case *gateway.MessageUpdateEvent:
		s.Raise(&event.MessageEdit{
			ID:        ev.Message.ID,
			ChannelID: ev.Message.ChannelID,
			Content:   ev.Message.Content,
		})

	case *gateway.MessageDeleteEvent:
		s.Raise(&event.MessageDelete{ID: ev.ID, ChannelID: ev.ChannelID})

	case *gateway.TypingStartEvent:
		s.onTyping(ev)

	case *gateway.PresenceUpdateEvent:
		s.onPresence(ev.PresenceData)

	case *gateway.VoiceStateUpdateEvent:
		s.onVoiceState(ev)

	case *gateway.VoiceServerUpdateEvent:
		s.onVoiceServer(ev)
	}
}

// onReady rebuilds the cache from scratch, starts the heartbeat, raises
// Ready, then requests the member list of every known server.
func (s *Session) onReady(ev *gateway.ReadyEvent) {
	s.Store.Reset()

	bot := s.Store.SetBotUser(ev.User)

	serverIDs := make([]discord.Snowflake, 0, len(ev.Guilds))
	for i := range ev.Guilds {
		sv := s.ingestGuild(ev.Guilds[i])
		serverIDs = append(serverIDs, sv.ID)
	}

	for i := range ev.PrivateChannels {
		ch := ev.PrivateChannels[i]
		ch.Private = true
		s.Store.UpsertChannel(&ch)
	}

	s.startPacemaker(ev.HeartbeatInterval.Duration())
	s.backoff.Reset()

	s.Log.Info().
		Int("servers", len(ev.Guilds)).
		Str("bot", bot.Tag()).
		Msg("session ready")

	s.Raise(&event.Ready{BotUser: s.Store.SnapshotUser(bot)})

	if err := s.Gateway.RequestGuildMembers(serverIDs); err != nil {
		s.Log.Warn().Err(err).Msg("failed to request guild members")
	}
}

// ingestGuild loads a full guild payload: the server itself, then its
// channels, members, presences and voice states.
func (s *Session) ingestGuild(g gateway.GuildData) *discord.Server {
	sv := g.Server
	s.Store.AddServer(&sv)

	for i := range g.Channels {
		ch := g.Channels[i]
		ch.ServerID = sv.ID
		s.Store.UpsertChannel(&ch)
	}

	for _, m := range g.Members {
		s.Store.AddMember(sv.ID, m.User, m.RoleIDs)
	}

	for _, p := range g.Presences {
		s.Store.SetPresence(p.User.ID, p.Status, gameName(p.Game))
	}

	for _, vs := range g.VoiceStates {
		s.Store.SetVoiceState(sv.ID, vs)
	}

	return &sv
}

// onMessage raises Message, then Mention when the bot is mentioned, then
// PrivateMessage on a DM channel. The bot's own messages are suppressed
// unless ParseSelf is set. Messages are never cached, so receiving the same
// frame twice just raises twice.
func (s *Session) onMessage(msg discord.Message) {
	bot := s.Store.BotUser()

	if bot != nil && msg.Author.ID == bot.ID && !s.ParseSelf {
		return
	}

	s.Raise(&event.Message{Message: &msg})

	if bot != nil && msg.MentionsUser(bot.ID) {
		s.Raise(&event.Mention{Message: &msg})
	}

	if ch, ok := s.Store.Channel(msg.ChannelID); ok && ch.Private {
		s.Raise(&event.PrivateMessage{Message: &msg})
	}
}

// onTyping resolves the channel through the facade (REST fallback included);
// a NoPermission there means the bot can't see the channel, and the event is
// silently dropped.
func (s *Session) onTyping(ev *gateway.TypingStartEvent) {
	ch, err := s.Channel(ev.ChannelID)
	if err != nil {
		if !errors.Is(err, api.ErrNoPermission) {
			s.Log.Debug().
				Err(err).
				Str("channel", ev.ChannelID.String()).
				Msg("typing channel lookup failed")
		}
		return
	}

	u := s.Store.UpsertUser(discord.User{ID: ev.UserID})
	s.Raise(&event.Typing{
		Channel:   s.Store.SnapshotChannel(ch),
		User:      s.Store.SnapshotUser(u),
		Timestamp: ev.Timestamp,
	})
}

func (s *Session) onPresence(p gateway.PresenceData) {
	s.Store.UpsertUser(p.User)

	if p.GuildID.Valid() && p.Status != discord.OfflineStatus {
		s.Store.AddMember(p.GuildID, p.User, p.Roles)
	}

	game := gameName(p.Game)
	u, gameChanged := s.Store.SetPresence(p.User.ID, p.Status, game)

	if gameChanged {
		s.Raise(&event.Playing{User: s.Store.SnapshotUser(u), Game: game})
	} else {
		s.Raise(&event.Presence{User: s.Store.SnapshotUser(u), Status: p.Status})
	}
}

func (s *Session) onVoiceState(ev *gateway.VoiceStateUpdateEvent) {
	s.Store.SetVoiceState(ev.GuildID, ev.VoiceState)

	u := s.Store.UpsertUser(discord.User{ID: ev.VoiceState.UserID})

	// The bot's own voice state carries the session ID that the voice
	// handshake needs.
	if bot := s.Store.BotUser(); bot != nil && bot.ID == ev.VoiceState.UserID {
		s.vmutex.Lock()
		s.voiceSessionID = ev.VoiceState.SessionID
		s.vmutex.Unlock()
	}

	sv, _ := s.Store.Server(ev.GuildID)
	s.Raise(&event.VoiceStateUpdate{
		Server: s.Store.SnapshotServer(sv),
		User:   s.Store.SnapshotUser(u),
		State:  ev.VoiceState,
	})
}

// onVoiceServer completes a pending voice handshake. Without one pending, the
// frame is ignored.
func (s *Session) onVoiceServer(ev *gateway.VoiceServerUpdateEvent) {
	s.vmutex.Lock()
	p := s.pending
	s.pending = nil
	sessionID := s.voiceSessionID
	s.vmutex.Unlock()

	if p == nil {
		return
	}

	vs := voice.NewSession(
		p.channel, sessionID, ev.Token, ev.Endpoint, p.encrypted,
		s.Log.With().Str("component", "voice").Logger(),
	)

	// Buffered; the waiting VoiceConnect picks it up.
	p.result <- vs
}

func gameName(g *gateway.GameData) string {
	if g == nil {
		return ""
	}
	return g.Name
}
