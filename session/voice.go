package session

import (
	"context"

	"github.com/pkg/errors"

	"github.com/kagerou/hibiki/discord"
	"github.com/kagerou/hibiki/gateway"
	"github.com/kagerou/hibiki/voice"
)

// VoiceConnect joins the given voice channel and waits for the gateway to
// hand over the voice credentials. Any existing voice session is torn down
// first; at most one exists at a time.
func (s *Session) VoiceConnect(
	ctx context.Context, ch *discord.Channel, encrypted bool) (*voice.Session, error) {

	if ch == nil || ch.Type != discord.VoiceChannel {
		return nil, errors.New("not a voice channel")
	}

	// One handshake at a time; a second caller waits here or gives up with
	// its context.
	if err := s.voiceMu.CLock(ctx); err != nil {
		return nil, errors.Wrap(err, "voice handshake busy")
	}
	defer s.voiceMu.Unlock()

	result := make(chan *voice.Session, 1)

	s.vmutex.Lock()
	if s.voice != nil {
		s.voice.Close()
		s.voice = nil
	}
	s.pending = &pendingVoice{
		channel:   ch,
		encrypted: encrypted,
		result:    result,
	}
	s.vmutex.Unlock()

	guildID, channelID := ch.ServerID, ch.ID
	err := s.Gateway.UpdateVoiceState(gateway.UpdateVoiceStateData{
		GuildID:   &guildID,
		ChannelID: &channelID,
	})
	if err != nil {
		s.clearPending()
		return nil, errors.Wrap(err, "failed to send voice state update")
	}

	select {
	case vs := <-result:
		s.vmutex.Lock()
		s.voice = vs
		s.vmutex.Unlock()
		return vs, nil

	case <-ctx.Done():
		s.clearPending()
		return nil, ctx.Err()

	case <-s.stop:
		s.clearPending()
		return nil, errStopped
	}
}

// VoiceDestroy leaves voice entirely: it tears down the active session and
// tells the gateway to detach with null guild and channel IDs.
func (s *Session) VoiceDestroy() error {
	s.teardownVoice()

	return s.Gateway.UpdateVoiceState(gateway.UpdateVoiceStateData{
		GuildID:   nil,
		ChannelID: nil,
	})
}

// Voice returns the active voice session, or nil.
func (s *Session) Voice() *voice.Session {
	s.vmutex.Lock()
	defer s.vmutex.Unlock()

	return s.voice
}

func (s *Session) clearPending() {
	s.vmutex.Lock()
	s.pending = nil
	s.vmutex.Unlock()
}

// teardownVoice closes the active voice session and drops any pending
// handshake, called on disconnect and from VoiceDestroy.
func (s *Session) teardownVoice() {
	s.vmutex.Lock()
	v := s.voice
	s.voice = nil
	s.pending = nil
	s.vmutex.Unlock()

	if v != nil {
		v.Close()
	}
}
