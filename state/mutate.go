package state

import "github.com/kagerou/hibiki/discord"

// SetBotUser upserts the bot's own user and records it as the bot profile.
// The returned pointer is the user-cache entry.
func (s *Store) SetBotUser(u discord.User) *discord.User {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cached := s.upsertUser(u)
	s.botUser = cached
	return cached
}

// UpsertUser creates or refreshes the cached user from a wire user object.
// Presence and role fields are preserved on refresh.
func (s *Store) UpsertUser(u discord.User) *discord.User {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.upsertUser(u)
}

func (s *Store) upsertUser(u discord.User) *discord.User {
	cached, ok := s.users[u.ID]
	if !ok {
		cached = &discord.User{
			ID:     u.ID,
			Status: discord.OfflineStatus,
			Roles:  map[discord.Snowflake][]discord.Snowflake{},
		}
		s.users[u.ID] = cached
	}

	if u.Username != "" {
		cached.Username = u.Username
	}
	if u.Discriminator != "" {
		cached.Discriminator = u.Discriminator
	}
	if u.Avatar != "" {
		cached.Avatar = u.Avatar
	}
	if u.Bot {
		cached.Bot = true
	}

	return cached
}

// ensureUser is the lazy-creation path for events that reference an unknown
// ID without a full user object.
func (s *Store) ensureUser(id discord.Snowflake) *discord.User {
	return s.upsertUser(discord.User{ID: id})
}

//// Servers

// AddServer registers the server. Its channel and member sets start empty;
// the caller adds them through UpsertChannel and AddMember so the channel
// and user caches stay in step.
func (s *Store) AddServer(sv *discord.Server) *discord.Server {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if sv.VoiceStates == nil {
		sv.VoiceStates = map[discord.Snowflake]discord.VoiceState{}
	}
	sv.ChannelIDs = nil
	sv.MemberIDs = nil

	s.servers[sv.ID] = sv
	return sv
}

// MergeServer folds updated fields into an existing server, keeping its
// channel and member sets.
func (s *Store) MergeServer(update discord.Server) (*discord.Server, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sv, ok := s.servers[update.ID]
	if !ok {
		return nil, false
	}

	if update.Name != "" {
		sv.Name = update.Name
	}
	if update.Icon != "" {
		sv.Icon = update.Icon
	}
	if update.Region != "" {
		sv.Region = update.Region
	}
	if update.OwnerID.Valid() {
		sv.OwnerID = update.OwnerID
	}
	if update.Roles != nil {
		sv.Roles = update.Roles
	}

	return sv, true
}

// RemoveServer drops the server, its channels, and every role its members
// held there. Users remain cached.
func (s *Store) RemoveServer(id discord.Snowflake) (*discord.Server, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sv, ok := s.servers[id]
	if !ok {
		return nil, false
	}

	for _, chID := range sv.ChannelIDs {
		delete(s.channels, chID)
	}

	for _, u := range s.users {
		delete(u.Roles, id)
	}

	delete(s.servers, id)
	return sv, true
}

//// Channels

// UpsertChannel adds or replaces the channel, links it to its server's
// channel set, and lifts it off the denylist.
func (s *Store) UpsertChannel(ch *discord.Channel) *discord.Channel {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.restricted, ch.ID)
	s.channels[ch.ID] = ch

	if ch.Private {
		if ch.Recipient != nil {
			s.upsertUser(*ch.Recipient)
			s.privates[ch.Recipient.ID] = ch
		}
		return ch
	}

	if sv, ok := s.servers[ch.ServerID]; ok && !sv.HasChannel(ch.ID) {
		sv.ChannelIDs = append(sv.ChannelIDs, ch.ID)
	}

	return ch
}

// RemoveChannel drops the channel from the cache and its server's set.
func (s *Store) RemoveChannel(id discord.Snowflake) (*discord.Channel, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ch, ok := s.channels[id]
	if !ok {
		return nil, false
	}

	delete(s.channels, id)

	if ch.Private && ch.Recipient != nil {
		delete(s.privates, ch.Recipient.ID)
	}

	if sv, ok := s.servers[ch.ServerID]; ok {
		for i, chID := range sv.ChannelIDs {
			if chID == id {
				sv.ChannelIDs = append(sv.ChannelIDs[:i], sv.ChannelIDs[i+1:]...)
				break
			}
		}
	}

	return ch, true
}

//// Members and roles

// AddMember puts the user in the server's member set, creating the user if
// needed, and merges the given role IDs into the user's role map for that
// server.
func (s *Store) AddMember(serverID discord.Snowflake, u discord.User, roles []discord.Snowflake) *discord.User {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cached := s.upsertUser(u)

	if sv, ok := s.servers[serverID]; ok && !sv.HasMember(u.ID) {
		sv.MemberIDs = append(sv.MemberIDs, u.ID)
	}

	s.mergeRoles(serverID, cached, roles)
	return cached
}

// RemoveMember takes the user out of the server's member set and clears the
// user's role map for that server.
func (s *Store) RemoveMember(serverID, userID discord.Snowflake) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if sv, ok := s.servers[serverID]; ok {
		for i, id := range sv.MemberIDs {
			if id == userID {
				sv.MemberIDs = append(sv.MemberIDs[:i], sv.MemberIDs[i+1:]...)
				break
			}
		}
		delete(sv.VoiceStates, userID)
	}

	if u, ok := s.users[userID]; ok {
		delete(u.Roles, serverID)
	}
}

// MergeRoles unions the role IDs into the user's role set on the server.
func (s *Store) MergeRoles(serverID, userID discord.Snowflake, roles []discord.Snowflake) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.mergeRoles(serverID, s.ensureUser(userID), roles)
}

func (s *Store) mergeRoles(serverID discord.Snowflake, u *discord.User, roles []discord.Snowflake) {
	held := u.Roles[serverID]

merge:
	for _, id := range roles {
		for _, h := range held {
			if h == id {
				continue merge
			}
		}
		held = append(held, id)
	}

	if held == nil {
		// The role map entry must exist for every member.
		held = []discord.Snowflake{}
	}
	u.Roles[serverID] = held
}

// SetMemberRoles replaces the user's role set on the server.
func (s *Store) SetMemberRoles(serverID, userID discord.Snowflake, roles []discord.Snowflake) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	u := s.ensureUser(userID)
	if roles == nil {
		roles = []discord.Snowflake{}
	}
	u.Roles[serverID] = roles
}

// UpsertRole adds or replaces the role on the server.
func (s *Store) UpsertRole(serverID discord.Snowflake, role discord.Role) (*discord.Role, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sv, ok := s.servers[serverID]
	if !ok {
		return nil, false
	}

	for i := range sv.Roles {
		if sv.Roles[i].ID == role.ID {
			sv.Roles[i] = role
			return &sv.Roles[i], true
		}
	}

	sv.Roles = append(sv.Roles, role)
	return &sv.Roles[len(sv.Roles)-1], true
}

// RemoveRole drops the role from the server and strips it from every user
// holding it there.
func (s *Store) RemoveRole(serverID, roleID discord.Snowflake) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sv, ok := s.servers[serverID]
	if !ok {
		return
	}

	for i := range sv.Roles {
		if sv.Roles[i].ID == roleID {
			sv.Roles = append(sv.Roles[:i], sv.Roles[i+1:]...)
			break
		}
	}

	for _, u := range s.users {
		held, ok := u.Roles[serverID]
		if !ok {
			continue
		}
		for i, id := range held {
			if id == roleID {
				u.Roles[serverID] = append(held[:i], held[i+1:]...)
				break
			}
		}
	}
}

//// Presence and voice

// SetPresence updates the user's status and game, creating the user when
// unknown. It reports whether the game changed.
func (s *Store) SetPresence(
	userID discord.Snowflake, status discord.Status, game string) (u *discord.User, gameChanged bool) {

	s.mutex.Lock()
	defer s.mutex.Unlock()

	u = s.ensureUser(userID)

	gameChanged = u.Game != game
	u.Status = status
	u.Game = game

	return u, gameChanged
}

// SetVoiceState records the member's voice state on the server. A null
// channel ID removes the state (the user left voice).
func (s *Store) SetVoiceState(serverID discord.Snowflake, vs discord.VoiceState) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	sv, ok := s.servers[serverID]
	if !ok {
		return
	}

	if !vs.ChannelID.Valid() {
		delete(sv.VoiceStates, vs.UserID)
		return
	}

	sv.VoiceStates[vs.UserID] = vs
}
