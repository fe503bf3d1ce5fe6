package session

import (
	"math/rand"
	"time"
)

// Backoff produces the delays between reconnect attempts. The first delay is
// one second; every later delay is drawn from [115s, 125s). Reset puts the
// sequence back at the start.
//
// The jump from one second straight to the long band is deliberate: a single
// quick retry covers the blip case, and everything after that is treated as
// an outage not worth hammering.
type Backoff struct {
	falloff float64
	rand    *rand.Rand
}

func NewBackoff() *Backoff {
	return &Backoff{
		falloff: 1,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the delay to sleep before the next attempt and advances the
// sequence.
func (b *Backoff) Next() time.Duration {
	if b.falloff > 1 {
		b.falloff = 115 + b.rand.Float64()*10
	}

	d := time.Duration(b.falloff * float64(time.Second))
	b.falloff *= 1.5
	return d
}

// Reset restarts the sequence, called after a successful READY.
func (b *Backoff) Reset() {
	b.falloff = 1
}
