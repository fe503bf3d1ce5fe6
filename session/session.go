// Package session ties the pieces together: it owns the gateway connection,
// feeds inbound frames through the dispatcher into the state cache and the
// event bus, keeps the heartbeat alive, and reconnects with backoff when the
// connection drops.
package session

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sasha-s/go-csync"

	"github.com/kagerou/hibiki/api"
	"github.com/kagerou/hibiki/bus"
	"github.com/kagerou/hibiki/discord"
	"github.com/kagerou/hibiki/gateway"
	"github.com/kagerou/hibiki/state"
	"github.com/kagerou/hibiki/tokencache"
	"github.com/kagerou/hibiki/voice"
)

// TokenIdentity is the sentinel identity meaning the secret already is a
// session token, skipping the login endpoint entirely.
const TokenIdentity = "token"

var errStopped = errors.New("session stopped")

// Session is the public face of the library. REST methods are promoted from
// the embedded api.Client; handler registration and awaits from the embedded
// Bus.
type Session struct {
	*bus.Bus
	*api.Client

	Gateway *gateway.Gateway
	Store   *state.Store
	Tokens  *tokencache.Cache

	Log zerolog.Logger

	// ParseSelf makes the dispatcher raise Message events for the bot's own
	// messages, which are otherwise suppressed.
	ParseSelf bool

	// Identity and Secret are the login credentials. With Identity set to
	// TokenIdentity, Secret is used as the session token directly.
	Identity string
	Secret   string

	// LoginRetries and LoginRetryDelay bound the login retry loop on
	// transient failures.
	LoginRetries    int
	LoginRetryDelay time.Duration

	backoff *Backoff

	pacemaker *gateway.Pacemaker
	pacedeath <-chan error

	// voiceMu serializes voice handshakes end to end.
	voiceMu csync.Mutex

	// vmutex guards the voice fields below; the dispatcher and the facade
	// both touch them.
	vmutex         sync.Mutex
	voice          *voice.Session
	pending        *pendingVoice
	voiceSessionID string

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	runErr   error
}

type pendingVoice struct {
	channel   *discord.Channel
	encrypted bool
	result    chan *voice.Session
}

// New creates a session for the given credentials. The botName goes into the
// bot-identity header of every REST request.
func New(identity, secret, botName string) *Session {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	s := &Session{
		Bus:    bus.New(log.With().Str("component", "bus").Logger()),
		Client: api.NewClient("", botName),
		Store:  state.NewStore(),

		Log: log,

		Identity: identity,
		Secret:   secret,

		LoginRetries:    100,
		LoginRetryDelay: 5 * time.Second,

		backoff: NewBackoff(),

		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	if tokens, err := tokencache.NewDefault(); err == nil {
		s.Tokens = tokens
	} else {
		log.Warn().Err(err).Msg("token cache unavailable; logins won't persist")
	}

	return s
}

// Start runs the session on its own goroutine. Use Wait to block on it.
func (s *Session) Start() {
	go func() { _ = s.Run() }()
}

// Run connects and blocks until Stop is called or a fatal error occurs.
// Transient disconnects are handled internally with backoff; only credential
// failures surface here.
func (s *Session) Run() error {
	err := s.run()
	if errors.Is(err, errStopped) {
		err = nil
	}

	s.runErr = err
	close(s.done)
	return err
}

// Wait blocks until the session has terminated and returns its final error.
func (s *Session) Wait() error {
	<-s.done
	return s.runErr
}

// Stop forcibly terminates the session. In-flight handler tasks are not
// cancelled.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Session) run() error {
	token, err := s.login()
	if err != nil {
		return err
	}

	for {
		err := s.connect(token)

		s.teardownVoice()

		if errors.Is(err, errStopped) {
			return errStopped
		}
		if errors.Is(err, api.ErrInvalidAuthentication) {
			return err
		}

		wait := s.backoff.Next()
		s.Log.Warn().
			Err(err).
			Dur("backoff", wait).
			Msg("gateway connection lost; reconnecting")

		select {
		case <-s.stop:
			return errStopped
		case <-time.After(wait):
		}

		// The token might have expired along with the connection.
		token, err = s.login()
		if err != nil {
			return err
		}
	}
}

// connect runs a single connection lifetime: dial, identify, then pump frames
// through the dispatcher until the socket dies or Stop is called.
func (s *Session) connect(token string) error {
	if s.Gateway == nil {
		url, err := s.Client.GatewayURL()
		if err != nil {
			return errors.Wrap(err, "failed to get gateway URL")
		}

		url += fmt.Sprintf("?v=%d&encoding=json", gateway.Version)
		s.Gateway = gateway.NewGateway(url, token)
	} else {
		s.Gateway.Identifier.Token = token
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.Gateway.WSTimeout)
	err := s.Gateway.Open(ctx)
	cancel()
	if err != nil {
		return errors.Wrap(err, "failed to open gateway")
	}

	events := s.Gateway.Listen()

	for {
		select {
		case <-s.stop:
			s.closeConnection()
			return errStopped

		case err := <-s.pacedeath:
			s.closeConnection()
			return errors.Wrap(err, "heartbeat failed")

		case ev, ok := <-events:
			if !ok {
				s.stopPacemaker()
				return errors.New("gateway event channel closed")
			}

			op, err := gateway.DecodeOP(ev)
			if err != nil {
				s.closeConnection()
				return err
			}

			if err := s.dispatch(op); err != nil {
				s.closeConnection()
				return err
			}
		}
	}
}

func (s *Session) closeConnection() {
	s.stopPacemaker()

	if err := s.Gateway.Close(); err != nil {
		s.Log.Debug().Err(err).Msg("gateway close failed")
	}
}

func (s *Session) startPacemaker(heartrate time.Duration) {
	s.stopPacemaker()

	s.pacemaker = gateway.NewPacemaker(heartrate, s.Gateway.Heartbeat)
	s.pacedeath = s.pacemaker.StartAsync()
}

func (s *Session) stopPacemaker() {
	if s.pacemaker != nil {
		s.pacemaker.Stop()
		s.pacemaker = nil
		s.pacedeath = nil
	}
}

// login resolves the session token: the sentinel identity short-circuits, the
// token cache is consulted next, and only then is the login endpoint called,
// retrying transient failures.
func (s *Session) login() (string, error) {
	if s.Identity == TokenIdentity {
		s.Client.Token = s.Secret
		return s.Secret, nil
	}

	if s.Tokens != nil {
		if token, ok := s.Tokens.Lookup(s.Identity, s.Secret); ok {
			s.Client.Token = token
			return token, nil
		}
	}

	var lastErr error

	for attempt := 0; attempt < s.LoginRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-s.stop:
				return "", errStopped
			case <-time.After(s.LoginRetryDelay):
			}
		}

		resp, err := s.Client.Login(s.Identity, s.Secret)
		if err == nil {
			if s.Tokens != nil {
				if err := s.Tokens.Store(s.Identity, s.Secret, resp.Token); err != nil {
					s.Log.Warn().Err(err).Msg("failed to persist token")
				}
			}

			s.Client.Token = resp.Token
			return resp.Token, nil
		}

		if api.IsTransient(err) {
			lastErr = err
			s.Log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Msg("transient login failure; retrying")
			continue
		}

		if errors.Is(err, api.ErrInvalidAuthentication) {
			return "", err
		}

		if code := api.HTTPStatus(err); code >= 400 && code < 500 {
			return "", errors.Wrap(api.ErrInvalidAuthentication, err.Error())
		}

		return "", errors.Wrap(err, "login failed")
	}

	return "", errors.Wrap(lastErr, "login failed after retries")
}

//// Facade

// Channel returns the channel, fetching it over REST on a cache miss. A
// NoPermission response puts the ID on the denylist, which short-circuits
// later lookups.
func (s *Session) Channel(id discord.Snowflake) (*discord.Channel, error) {
	if ch, ok := s.Store.Channel(id); ok {
		return ch, nil
	}

	if s.Store.Restricted(id) {
		return nil, api.ErrNoPermission
	}

	ch, err := s.Client.Channel(id)
	if err != nil {
		if errors.Is(err, api.ErrNoPermission) {
			s.Store.Restrict(id)
		}
		return nil, err
	}

	return s.Store.UpsertChannel(ch), nil
}

// Server is a cache-only lookup.
func (s *Session) Server(id discord.Snowflake) (*discord.Server, bool) {
	return s.Store.Server(id)
}

// User is a cache-only lookup.
func (s *Session) User(id discord.Snowflake) (*discord.User, bool) {
	return s.Store.User(id)
}

// FindChannels returns every cached channel with the given name, optionally
// narrowed to servers with the given name.
func (s *Session) FindChannels(name, serverName string) []*discord.Channel {
	return s.Store.FindChannels(name, serverName)
}

// FindUsers returns every cached user with the given username.
func (s *Session) FindUsers(name string) []*discord.User {
	return s.Store.FindUsers(name)
}

var mentionRegexp = regexp.MustCompile(`<@(\d+)>`)

// ParseMention resolves the first <@id> mention in text against the user
// cache.
func (s *Session) ParseMention(text string) (*discord.User, bool) {
	m := mentionRegexp.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	id, err := discord.ParseSnowflake(m[1])
	if err != nil {
		return nil, false
	}

	return s.Store.User(id)
}

// SetGame sets the bot's playing status. An empty name clears it.
func (s *Session) SetGame(name string) error {
	return s.Gateway.UpdateStatus(name)
}
