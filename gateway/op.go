package gateway

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/kagerou/hibiki/utils/json"
	"github.com/kagerou/hibiki/utils/wsutil"
)

type OPCode uint8

const (
	DispatchOP            OPCode = 0 // recv
	HeartbeatOP           OPCode = 1 // send
	IdentifyOP            OPCode = 2 // send
	StatusUpdateOP        OPCode = 3 // send
	VoiceStateUpdateOP    OPCode = 4 // send
	RequestGuildMembersOP OPCode = 8 // send
)

// OP is the frame envelope. Sequence and EventName are only set for Dispatch
// (op 0).
type OP struct {
	Code OPCode   `json:"op"`
	Data json.Raw `json:"d,omitempty"`

	Sequence  int64  `json:"s,omitempty"`
	EventName string `json:"t,omitempty"`
}

// ProtocolError is an inbound frame the protocol does not allow: an op code
// other than Dispatch, or a malformed envelope. The connection it arrived on
// is dropped.
type ProtocolError struct {
	Code    OPCode
	Payload string
}

func (e ProtocolError) Error() string {
	return fmt.Sprintf("protocol violation: unexpected op %d: %s", e.Code, e.Payload)
}

// DecodeOP parses the frame envelope out of a raw Websocket event.
func DecodeOP(ev wsutil.Event) (*OP, error) {
	if ev.Error != nil {
		return nil, ev.Error
	}

	if len(ev.Data) == 0 {
		return nil, errors.New("empty payload")
	}

	var op *OP
	if err := json.Unmarshal(ev.Data, &op); err != nil {
		return nil, errors.Wrap(err, "OP error: "+string(ev.Data))
	}

	// A literal null decodes without error but leaves op nil.
	if op == nil {
		return nil, errors.New("null OP frame")
	}

	return op, nil
}
