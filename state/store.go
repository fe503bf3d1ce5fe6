// Package state is the in-memory entity cache: servers, channels, users,
// private channels, and the denylist of channels the bot cannot read.
//
// Entities are stored by ID and aggregates reference each other by ID only,
// never by owning pointer. Getters hand out the live cache pointers, so the
// bot user is always the same object as the user-cache entry at its ID.
// Events carry Snapshot copies instead, read-safe off the dispatcher
// goroutine.
// All mutation happens under the store lock; the dispatcher is the writer,
// with the session's REST-fallback channel lookup and the voice connect as
// the only other writers.
package state

import (
	"strings"
	"sync"

	"github.com/kagerou/hibiki/discord"
)

type Store struct {
	mutex sync.RWMutex

	servers  map[discord.Snowflake]*discord.Server
	channels map[discord.Snowflake]*discord.Channel
	users    map[discord.Snowflake]*discord.User

	// privates is keyed by recipient user ID.
	privates map[discord.Snowflake]*discord.Channel

	// restricted is the denylist of channels the bot lacks permission to
	// read. It is disjoint from the channel cache.
	restricted map[discord.Snowflake]struct{}

	botUser *discord.User
}

func NewStore() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.servers = map[discord.Snowflake]*discord.Server{}
	s.channels = map[discord.Snowflake]*discord.Channel{}
	s.users = map[discord.Snowflake]*discord.User{}
	s.privates = map[discord.Snowflake]*discord.Channel{}
	s.restricted = map[discord.Snowflake]struct{}{}
	s.botUser = nil
}

// Reset wipes the cache. Called on every successful READY before the payload
// is ingested.
func (s *Store) Reset() {
	s.mutex.Lock()
	s.reset()
	s.mutex.Unlock()
}

//// Getters

func (s *Store) Server(id discord.Snowflake) (*discord.Server, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	sv, ok := s.servers[id]
	return sv, ok
}

func (s *Store) Channel(id discord.Snowflake) (*discord.Channel, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ch, ok := s.channels[id]
	return ch, ok
}

func (s *Store) User(id discord.Snowflake) (*discord.User, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	u, ok := s.users[id]
	return u, ok
}

// PrivateChannel returns the DM channel with the given recipient.
func (s *Store) PrivateChannel(recipientID discord.Snowflake) (*discord.Channel, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ch, ok := s.privates[recipientID]
	return ch, ok
}

func (s *Store) BotUser() *discord.User {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.botUser
}

// Servers returns the cached servers. The slice is fresh; the pointers are
// live.
func (s *Store) Servers() []*discord.Server {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	servers := make([]*discord.Server, 0, len(s.servers))
	for _, sv := range s.servers {
		servers = append(servers, sv)
	}
	return servers
}

// FindChannels returns every channel matching the name. With a non-empty
// serverName, only channels of servers with that exact name match; with an
// empty serverName, any server matches.
func (s *Store) FindChannels(name, serverName string) []*discord.Channel {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var found []*discord.Channel
	for _, sv := range s.servers {
		if serverName != "" && sv.Name != serverName {
			continue
		}

		for _, chID := range sv.ChannelIDs {
			if ch := s.channels[chID]; ch != nil && ch.Name == name {
				found = append(found, ch)
			}
		}
	}
	return found
}

// FindUsers returns every cached user with the given username.
func (s *Store) FindUsers(name string) []*discord.User {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var found []*discord.User
	for _, u := range s.users {
		if strings.EqualFold(u.Username, name) {
			found = append(found, u)
		}
	}
	return found
}

//// Denylist

// Restricted reports whether the channel is on the denylist.
func (s *Store) Restricted(id discord.Snowflake) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	_, ok := s.restricted[id]
	return ok
}

// Restrict puts the channel on the denylist and drops it from the channel
// cache; the two sets stay disjoint.
func (s *Store) Restrict(id discord.Snowflake) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.channels, id)
	s.restricted[id] = struct{}{}
}
