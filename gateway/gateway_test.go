package gateway

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/kagerou/hibiki/utils/json"
	"github.com/kagerou/hibiki/utils/wsutil"
)

func TestDecodeOP(t *testing.T) {
	ev := wsutil.Event{
		Data: []byte(`{"op":0,"t":"MESSAGE_CREATE","s":3,"d":{"id":"1"}}`),
	}

	op, err := DecodeOP(ev)
	if err != nil {
		t.Fatal("failed to decode:", err)
	}

	if op.Code != DispatchOP {
		t.Fatal("wrong op code:", op.Code)
	}
	if op.EventName != "MESSAGE_CREATE" {
		t.Fatal("wrong event name:", op.EventName)
	}
	if op.Sequence != 3 {
		t.Fatal("wrong sequence:", op.Sequence)
	}
}

func TestDecodeOPErrors(t *testing.T) {
	wsErr := errors.New("socket died")
	if _, err := DecodeOP(wsutil.Event{Error: wsErr}); !errors.Is(err, wsErr) {
		t.Fatal("socket error not passed through:", err)
	}

	if _, err := DecodeOP(wsutil.Event{}); err == nil {
		t.Fatal("empty payload decoded")
	}

	if _, err := DecodeOP(wsutil.Event{Data: []byte(`{"op":`)}); err == nil {
		t.Fatal("malformed payload decoded")
	}

	// A null frame is valid JSON; it must still come back as an error, never
	// as a nil OP.
	if op, err := DecodeOP(wsutil.Event{Data: []byte(`null`)}); err == nil {
		t.Fatal("null frame decoded as:", op)
	}
}

func TestIdentifyPayload(t *testing.T) {
	id := DefaultIdentifier("A-token")

	b, err := json.Marshal(id.IdentifyData)
	if err != nil {
		t.Fatal("failed to marshal:", err)
	}

	for _, want := range []string{
		`"v":3`,
		`"token":"A-token"`,
		`"$browser":"Hibiki"`,
		`"$device":"Hibiki"`,
		`"$referrer":""`,
		`"$referring_domain":""`,
		`"large_threshold":100`,
	} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("identify payload missing %s: %s", want, b)
		}
	}
}

func TestEventCreatorCatalogue(t *testing.T) {
	for _, name := range []string{
		"READY", "GUILD_CREATE", "GUILD_DELETE", "GUILD_MEMBERS_CHUNK",
		"MESSAGE_CREATE", "PRESENCE_UPDATE",
		"VOICE_STATE_UPDATE", "VOICE_SERVER_UPDATE",
	} {
		fn, ok := EventCreator[name]
		if !ok {
			t.Fatal("event missing from the catalogue:", name)
		}
		if fn() == nil {
			t.Fatal("constructor returned nil for", name)
		}
	}

	if _, ok := EventCreator["NOT_A_REAL_EVENT"]; ok {
		t.Fatal("catalogue is not an allowlist")
	}
}

func TestVoiceStateNullIDs(t *testing.T) {
	b, err := json.Marshal(UpdateVoiceStateData{})
	if err != nil {
		t.Fatal("failed to marshal:", err)
	}

	// Detaching from voice sends explicit nulls, not zero IDs.
	for _, want := range []string{`"guild_id":null`, `"channel_id":null`} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("payload missing %s: %s", want, b)
		}
	}
}

func TestProtocolErrorMessage(t *testing.T) {
	err := ProtocolError{Code: 11, Payload: "{}"}
	if !strings.Contains(err.Error(), "op 11") {
		t.Fatal("error does not name the op:", err.Error())
	}
}
