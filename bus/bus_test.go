package bus

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kagerou/hibiki/discord"
	"github.com/kagerou/hibiki/event"
)

func testBus() *Bus {
	return New(zerolog.Nop())
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler")
	}
}

func TestTypedHandler(t *testing.T) {
	b := testBus()

	recv := make(chan *event.Message, 1)
	b.On(func(m *event.Message) { recv <- m })

	msg := &event.Message{Message: &discord.Message{Content: "hello"}}
	b.Raise(msg)

	select {
	case got := <-recv:
		if got != msg {
			t.Fatal("handler got a different event value")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("typed handler never ran")
	}
}

func TestTypedHandlerIgnoresOtherKinds(t *testing.T) {
	b := testBus()

	ran := make(chan struct{}, 1)
	b.On(func(m *event.Mention) { ran <- struct{}{} })

	b.Raise(&event.Message{})

	select {
	case <-ran:
		t.Fatal("handler ran for the wrong event kind")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestInterfaceHandler(t *testing.T) {
	b := testBus()

	recv := make(chan interface{}, 2)
	b.On(func(ev interface{}) { recv <- ev })

	b.Raise(&event.Message{})
	b.Raise(&event.Typing{})

	for i := 0; i < 2; i++ {
		select {
		case <-recv:
		case <-time.After(2 * time.Second):
			t.Fatal("interface handler missed an event")
		}
	}
}

func TestRemoveHandler(t *testing.T) {
	b := testBus()

	ran := make(chan struct{}, 1)
	rm := b.On(func(m *event.Message) { ran <- struct{}{} })
	rm()

	b.Raise(&event.Message{})

	select {
	case <-ran:
		t.Fatal("removed handler still ran")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestOnCheckRejectsBadHandlers(t *testing.T) {
	b := testBus()

	for _, fn := range []interface{}{
		"not a function",
		func() {},
		func(a, b *event.Message) {},
		func(m *event.Message) error { return nil },
		func(m event.Message) {},
	} {
		if _, err := b.OnCheck(fn); err == nil {
			t.Fatalf("handler %T accepted", fn)
		}
	}
}

func TestPredicate(t *testing.T) {
	b := testBus()

	recv := make(chan *event.Message, 2)
	b.OnFiltered(func(ev interface{}) bool {
		return ev.(*event.Message).Message.Content == "yes"
	}, func(m *event.Message) { recv <- m })

	b.Raise(&event.Message{Message: &discord.Message{Content: "no"}})
	b.Raise(&event.Message{Message: &discord.Message{Content: "yes"}})

	select {
	case got := <-recv:
		if got.Message.Content != "yes" {
			t.Fatal("predicate let the wrong event through")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("accepted event never arrived")
	}
}

// Predicates run synchronously inside Raise, so they observe the scheduling
// order directly.
func TestSchedulingOrder(t *testing.T) {
	b := testBus()

	var mu sync.Mutex
	var order []int

	for i := 0; i < 5; i++ {
		i := i
		b.OnFiltered(func(interface{}) bool {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return false
		}, func(ev interface{}) {})
	}

	b.Raise(&event.Message{})

	mu.Lock()
	defer mu.Unlock()

	if len(order) != 5 {
		t.Fatal("not every handler was offered the event:", order)
	}
	for i, got := range order {
		if got != i {
			t.Fatal("handlers not scheduled in registration order:", order)
		}
	}
}

func TestPanicIsContained(t *testing.T) {
	b := testBus()

	done := make(chan struct{})
	b.On(func(m *event.Message) { panic("boom") })
	b.On(func(m *event.Message) { close(done) })

	b.Raise(&event.Message{})

	// The panicking handler must not take the second one down with it.
	waitFor(t, done)
}

func TestMaxConcurrency(t *testing.T) {
	b := testBus()
	b.MaxConcurrency = 1

	var mu sync.Mutex
	running, peak := 0, 0

	done := make(chan struct{}, 4)
	b.On(func(m *event.Message) {
		mu.Lock()
		running++
		if running > peak {
			peak = running
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		running--
		mu.Unlock()
		done <- struct{}{}
	})

	for i := 0; i < 4; i++ {
		b.Raise(&event.Message{})
	}
	for i := 0; i < 4; i++ {
		waitFor(t, done)
	}

	mu.Lock()
	defer mu.Unlock()
	if peak != 1 {
		t.Fatal("concurrency bound exceeded, peak:", peak)
	}
}
