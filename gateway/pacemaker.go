package gateway

import (
	"time"

	"go.uber.org/atomic"
)

// Pacemaker beats on a fixed interval until stopped. It is created after a
// READY delivers the heartbeat interval and stopped when the connection
// closes, so Active is true exactly between those two points.
type Pacemaker struct {
	// Heartrate is the duration between heartbeats.
	Heartrate time.Duration

	// Pace is the beat function. Any error stops the pacer.
	Pace func() error

	active atomic.Bool
	stop   chan struct{}
	death  chan error
}

func NewPacemaker(heartrate time.Duration, pace func() error) *Pacemaker {
	return &Pacemaker{
		Heartrate: heartrate,
		Pace:      pace,
	}
}

// Active reports whether the beat loop is running.
func (p *Pacemaker) Active() bool {
	return p.active.Load()
}

// Stop stops the beat loop. It is safe to call more than once.
func (p *Pacemaker) Stop() {
	if p.stop != nil {
		select {
		case <-p.stop:
			// already closed
		default:
			close(p.stop)
		}
	}
}

// StartAsync starts the beat loop and returns its death channel, which
// receives the loop's final error (nil on a clean Stop).
func (p *Pacemaker) StartAsync() <-chan error {
	p.stop = make(chan struct{})
	p.death = make(chan error, 1)

	p.active.Store(true)

	go func() {
		err := p.start(p.stop)
		p.active.Store(false)
		p.death <- err
	}()

	return p.death
}

func (p *Pacemaker) start(stop chan struct{}) error {
	tick := time.NewTicker(p.Heartrate)
	defer tick.Stop()

	for {
		select {
		case <-stop:
			return nil

		case <-tick.C:
			if err := p.Pace(); err != nil {
				return err
			}
		}
	}
}
