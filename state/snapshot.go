package state

import "github.com/kagerou/hibiki/discord"

// Snapshots are deep copies taken under the store lock. The dispatcher hands
// them to raised events, so handler tasks read a stable view of each entity
// while later frames keep mutating the cache.

// SnapshotUser copies the user, including its role map.
func (s *Store) SnapshotUser(u *discord.User) *discord.User {
	if u == nil {
		return nil
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return copyUser(u)
}

func copyUser(u *discord.User) *discord.User {
	c := *u

	if u.Roles != nil {
		c.Roles = make(map[discord.Snowflake][]discord.Snowflake, len(u.Roles))
		for sv, held := range u.Roles {
			c.Roles[sv] = append([]discord.Snowflake(nil), held...)
		}
	}

	return &c
}

// SnapshotServer copies the server, including its ID sets, role list and
// voice states.
func (s *Store) SnapshotServer(sv *discord.Server) *discord.Server {
	if sv == nil {
		return nil
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	c := *sv
	c.ChannelIDs = append([]discord.Snowflake(nil), sv.ChannelIDs...)
	c.MemberIDs = append([]discord.Snowflake(nil), sv.MemberIDs...)
	c.Roles = append([]discord.Role(nil), sv.Roles...)

	if sv.VoiceStates != nil {
		c.VoiceStates = make(map[discord.Snowflake]discord.VoiceState, len(sv.VoiceStates))
		for id, vs := range sv.VoiceStates {
			c.VoiceStates[id] = vs
		}
	}

	return &c
}

// SnapshotChannel copies the channel and its recipient.
func (s *Store) SnapshotChannel(ch *discord.Channel) *discord.Channel {
	if ch == nil {
		return nil
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	c := *ch
	c.Overwrites = append([]discord.Overwrite(nil), ch.Overwrites...)
	if ch.Recipient != nil {
		c.Recipient = copyUser(ch.Recipient)
	}

	return &c
}

// SnapshotRole copies the role.
func (s *Store) SnapshotRole(r *discord.Role) *discord.Role {
	if r == nil {
		return nil
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	c := *r
	return &c
}
