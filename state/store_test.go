package state

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/kagerou/hibiki/discord"
)

func testStore() *Store {
	return NewStore()
}

func addTestServer(s *Store, id discord.Snowflake, name string) *discord.Server {
	return s.AddServer(&discord.Server{ID: id, Name: name})
}

func TestChannelSetInvariant(t *testing.T) {
	s := testStore()

	sv := addTestServer(s, 10, "alpha")
	s.UpsertChannel(&discord.Channel{ID: 11, Name: "general", ServerID: 10})
	s.UpsertChannel(&discord.Channel{ID: 12, Name: "radio", Type: discord.VoiceChannel, ServerID: 10})

	if len(sv.ChannelIDs) != 2 {
		t.Fatal("expected 2 channels on server, got", len(sv.ChannelIDs))
	}

	for _, id := range sv.ChannelIDs {
		ch, ok := s.Channel(id)
		if !ok {
			t.Fatal("channel in server set missing from cache:", id)
		}
		if ch.ServerID != sv.ID {
			t.Fatal("cached channel points at the wrong server:", spew.Sdump(ch))
		}
	}
}

func TestUpsertChannelIdempotent(t *testing.T) {
	s := testStore()

	sv := addTestServer(s, 10, "alpha")
	s.UpsertChannel(&discord.Channel{ID: 11, Name: "general", ServerID: 10})
	s.UpsertChannel(&discord.Channel{ID: 11, Name: "renamed", ServerID: 10})

	if len(sv.ChannelIDs) != 1 {
		t.Fatal("channel set grew on upsert:", sv.ChannelIDs)
	}

	ch, _ := s.Channel(11)
	if ch.Name != "renamed" {
		t.Fatal("upsert did not replace the channel, name:", ch.Name)
	}
}

func TestMemberRoleMapInvariant(t *testing.T) {
	s := testStore()

	sv := addTestServer(s, 10, "alpha")
	s.AddMember(10, discord.User{ID: 500, Username: "kite"}, []discord.Snowflake{77})
	s.AddMember(10, discord.User{ID: 501, Username: "pen"}, nil)

	for _, id := range sv.MemberIDs {
		u, ok := s.User(id)
		if !ok {
			t.Fatal("member missing from user cache:", id)
		}
		if _, ok := u.Roles[sv.ID]; !ok {
			t.Fatal("member has no role map entry for its server:", spew.Sdump(u))
		}
	}

	u, _ := s.User(500)
	if len(u.RolesOn(10)) != 1 || u.RolesOn(10)[0] != 77 {
		t.Fatal("roles not merged:", u.RolesOn(10))
	}
}

func TestMergeRolesDeduplicates(t *testing.T) {
	s := testStore()

	addTestServer(s, 10, "alpha")
	s.MergeRoles(10, 500, []discord.Snowflake{77, 78})
	s.MergeRoles(10, 500, []discord.Snowflake{78, 79})

	u, _ := s.User(500)
	if len(u.RolesOn(10)) != 3 {
		t.Fatal("expected 3 distinct roles, got", u.RolesOn(10))
	}
}

func TestSetMemberRolesReplaces(t *testing.T) {
	s := testStore()

	addTestServer(s, 10, "alpha")
	s.MergeRoles(10, 500, []discord.Snowflake{77, 78})
	s.SetMemberRoles(10, 500, []discord.Snowflake{79})

	u, _ := s.User(500)
	if len(u.RolesOn(10)) != 1 || u.RolesOn(10)[0] != 79 {
		t.Fatal("role set not replaced:", u.RolesOn(10))
	}
}

func TestRemoveServerCleanup(t *testing.T) {
	s := testStore()

	addTestServer(s, 10, "alpha")
	addTestServer(s, 20, "beta")
	s.UpsertChannel(&discord.Channel{ID: 11, Name: "general", ServerID: 10})
	s.AddMember(10, discord.User{ID: 500}, []discord.Snowflake{77})
	s.AddMember(20, discord.User{ID: 500}, []discord.Snowflake{88})

	if _, ok := s.RemoveServer(10); !ok {
		t.Fatal("server not removed")
	}

	if _, ok := s.Server(10); ok {
		t.Fatal("server still cached after removal")
	}
	if _, ok := s.Channel(11); ok {
		t.Fatal("server channel still cached after removal")
	}

	u, _ := s.User(500)
	if _, ok := u.Roles[10]; ok {
		t.Fatal("role map entry for removed server survived:", spew.Sdump(u.Roles))
	}
	if _, ok := u.Roles[20]; !ok {
		t.Fatal("role map entry for the other server was lost")
	}
}

func TestCreateDeleteRoundTrip(t *testing.T) {
	s := testStore()

	addTestServer(s, 10, "alpha")
	s.UpsertChannel(&discord.Channel{ID: 11, ServerID: 10})
	s.AddMember(10, discord.User{ID: 500}, []discord.Snowflake{77})
	s.RemoveServer(10)

	if n := len(s.Servers()); n != 0 {
		t.Fatal("servers left over:", n)
	}
	if _, ok := s.Channel(11); ok {
		t.Fatal("channels left over")
	}
	// Users persist by design; only their roles on the server are gone.
	u, ok := s.User(500)
	if !ok {
		t.Fatal("user evicted with the server")
	}
	if len(u.Roles) != 0 {
		t.Fatal("roles left over:", spew.Sdump(u.Roles))
	}
}

func TestPresenceLastWins(t *testing.T) {
	s := testStore()

	s.SetPresence(500, discord.OnlineStatus, "")
	s.SetPresence(500, discord.IdleStatus, "chess")
	u, gameChanged := s.SetPresence(500, discord.DoNotDisturb, "chess")

	if gameChanged {
		t.Fatal("unchanged game reported as changed")
	}
	if u.Status != discord.DoNotDisturb {
		t.Fatal("status is not from the last update:", u.Status)
	}
	if u.Game != "chess" {
		t.Fatal("game lost:", u.Game)
	}

	if _, gameChanged = s.SetPresence(500, discord.DoNotDisturb, ""); !gameChanged {
		t.Fatal("cleared game not reported as changed")
	}
}

func TestBotUserIdentity(t *testing.T) {
	s := testStore()

	bot := s.SetBotUser(discord.User{ID: 1000, Username: "hibiki", Bot: true})

	cached, ok := s.User(1000)
	if !ok {
		t.Fatal("bot user missing from user cache")
	}
	if cached != bot || s.BotUser() != bot {
		t.Fatal("bot user is not the cache entry")
	}

	// A later upsert must keep the identity.
	if s.UpsertUser(discord.User{ID: 1000, Username: "renamed"}) != bot {
		t.Fatal("upsert broke the bot user identity")
	}
	if bot.Username != "renamed" {
		t.Fatal("upsert did not refresh the shared entry")
	}
}

func TestRestrictDisjoint(t *testing.T) {
	s := testStore()

	s.UpsertChannel(&discord.Channel{ID: 11})
	s.Restrict(11)

	if _, ok := s.Channel(11); ok {
		t.Fatal("restricted channel still in the channel cache")
	}
	if !s.Restricted(11) {
		t.Fatal("channel not on the denylist")
	}

	// Learning about the channel again lifts the restriction.
	s.UpsertChannel(&discord.Channel{ID: 11})
	if s.Restricted(11) {
		t.Fatal("denylist entry survived an upsert")
	}
}

func TestFindChannels(t *testing.T) {
	s := testStore()

	addTestServer(s, 10, "alpha")
	addTestServer(s, 20, "beta")
	s.UpsertChannel(&discord.Channel{ID: 11, Name: "general", ServerID: 10})
	s.UpsertChannel(&discord.Channel{ID: 21, Name: "general", ServerID: 20})
	s.UpsertChannel(&discord.Channel{ID: 22, Name: "radio", ServerID: 20})

	if found := s.FindChannels("general", ""); len(found) != 2 {
		t.Fatal("expected matches on any server, got", spew.Sdump(found))
	}
	if found := s.FindChannels("general", "beta"); len(found) != 1 || found[0].ID != 21 {
		t.Fatal("server filter failed:", spew.Sdump(found))
	}
	if found := s.FindChannels("general", "gamma"); len(found) != 0 {
		t.Fatal("unknown server name matched:", spew.Sdump(found))
	}
}

func TestFindUsers(t *testing.T) {
	s := testStore()

	s.UpsertUser(discord.User{ID: 500, Username: "Kite"})
	s.UpsertUser(discord.User{ID: 501, Username: "kite"})
	s.UpsertUser(discord.User{ID: 502, Username: "pen"})

	if found := s.FindUsers("kite"); len(found) != 2 {
		t.Fatal("case-insensitive match failed:", spew.Sdump(found))
	}
}

func TestPrivateChannels(t *testing.T) {
	s := testStore()

	s.UpsertChannel(&discord.Channel{
		ID:        90,
		Private:   true,
		Recipient: &discord.User{ID: 99, Username: "pen"},
	})

	ch, ok := s.PrivateChannel(99)
	if !ok || ch.ID != 90 {
		t.Fatal("private channel not reachable by recipient")
	}

	// The recipient is also a cached user.
	if _, ok := s.User(99); !ok {
		t.Fatal("recipient missing from user cache")
	}

	s.RemoveChannel(90)
	if _, ok := s.PrivateChannel(99); ok {
		t.Fatal("private channel survived removal")
	}
}

func TestRemoveRoleStrips(t *testing.T) {
	s := testStore()

	sv := addTestServer(s, 10, "alpha")
	s.UpsertRole(10, discord.Role{ID: 77, Name: "mod"})
	s.MergeRoles(10, 500, []discord.Snowflake{77, 78})

	s.RemoveRole(10, 77)

	if sv.Role(77) != nil {
		t.Fatal("role still on the server")
	}
	u, _ := s.User(500)
	if len(u.RolesOn(10)) != 1 || u.RolesOn(10)[0] != 78 {
		t.Fatal("role not stripped from user:", u.RolesOn(10))
	}
}

func TestVoiceStates(t *testing.T) {
	s := testStore()

	sv := addTestServer(s, 10, "alpha")

	s.SetVoiceState(10, discord.VoiceState{UserID: 500, ChannelID: 42, SessionID: "vs"})
	if vs, ok := sv.VoiceStates[500]; !ok || vs.ChannelID != 42 {
		t.Fatal("voice state not recorded")
	}

	// A null channel means the user left voice.
	s.SetVoiceState(10, discord.VoiceState{UserID: 500, ChannelID: discord.NullSnowflake})
	if _, ok := sv.VoiceStates[500]; ok {
		t.Fatal("voice state survived leaving")
	}
}

func TestSnapshotIndependence(t *testing.T) {
	s := testStore()

	sv := addTestServer(s, 10, "alpha")
	u := s.AddMember(10, discord.User{ID: 500, Username: "kite"}, []discord.Snowflake{77})
	s.SetPresence(500, discord.OnlineStatus, "chess")

	snapU := s.SnapshotUser(u)
	snapSv := s.SnapshotServer(sv)

	if snapU == u || snapSv == sv {
		t.Fatal("snapshot returned the live cache pointer")
	}

	// Mutations after the snapshot must not show through it.
	s.SetPresence(500, discord.IdleStatus, "go")
	s.MergeRoles(10, 500, []discord.Snowflake{78})
	s.AddMember(10, discord.User{ID: 501}, nil)

	if snapU.Status != discord.OnlineStatus || snapU.Game != "chess" {
		t.Fatal("presence change leaked into the snapshot:", spew.Sdump(snapU))
	}
	if len(snapU.RolesOn(10)) != 1 {
		t.Fatal("role merge leaked into the snapshot:", snapU.RolesOn(10))
	}
	if len(snapSv.MemberIDs) != 1 {
		t.Fatal("member add leaked into the snapshot:", snapSv.MemberIDs)
	}
}

func TestSnapshotNil(t *testing.T) {
	s := testStore()

	if s.SnapshotUser(nil) != nil || s.SnapshotServer(nil) != nil ||
		s.SnapshotChannel(nil) != nil || s.SnapshotRole(nil) != nil {
		t.Fatal("nil entity snapshotted into something")
	}
}
